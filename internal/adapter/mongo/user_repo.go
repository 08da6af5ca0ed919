package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/propertyhub/transaction-service/internal/app/config"
	"github.com/propertyhub/transaction-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	userCollectionName = "users"
)

type userLookup struct {
	collection *mongo.Collection
}

// NewUserLookup reads the externally owned users collection. Only existence
// checks are exposed here.
func NewUserLookup(db *mongo.Client, cfg config.MongoDBConfig) repository.UserLookup {
	return &userLookup{
		collection: db.Database(cfg.Database).Collection(userCollectionName),
	}
}

func (r *userLookup) Exists(ctx context.Context, userID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	return true, nil
}
