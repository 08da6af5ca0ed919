package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propertyhub/transaction-service/internal/app/config"
	"github.com/propertyhub/transaction-service/internal/domain/entity"
	"github.com/propertyhub/transaction-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	propertyCollectionName = "properties"
)

type propertyRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewPropertyRepository(db *mongo.Client, cfg config.MongoDBConfig) repository.PropertyRepository {
	database := db.Database(cfg.Database)
	collection := database.Collection(propertyCollectionName)
	return &propertyRepository{
		db:         database,
		collection: collection,
	}
}

func (r *propertyRepository) GetByID(ctx context.Context, propertyID string) (*entity.Property, error) {
	objID, err := primitive.ObjectIDFromHex(propertyID)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID format: %w", repository.ErrNotFound)
	}

	var property entity.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property by ID %s: %w", propertyID, err)
	}
	property.ID = propertyID
	return &property, nil
}

// TransitionStatus performs the compare-and-set: the filter pins the status
// the caller observed, so only one of any number of concurrent transitions
// can match the document.
func (r *propertyRepository) TransitionStatus(ctx context.Context, params repository.TransitionPropertyStatusParams) error {
	objID, err := primitive.ObjectIDFromHex(params.PropertyID)
	if err != nil {
		return fmt.Errorf("invalid property ID format for status transition: %w", repository.ErrNotFound)
	}

	filter := bson.M{
		"_id":    objID,
		"status": params.ExpectedCurrent,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     params.Target,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition property %s to %s: %w", params.PropertyID, params.Target, err)
	}

	if result.MatchedCount == 0 {
		var existing entity.Property
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Status != params.ExpectedCurrent {
			return repository.ErrStatusConflict
		}
		return repository.ErrUpdateFailed
	}

	return nil
}
