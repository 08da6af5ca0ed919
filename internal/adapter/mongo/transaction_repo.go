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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	transactionCollectionName = "transactions"
)

type transactionRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewTransactionRepository(db *mongo.Client, cfg config.MongoDBConfig) repository.TransactionRepository {
	database := db.Database(cfg.Database)
	collection := database.Collection(transactionCollectionName)
	return &transactionRepository{
		db:         database,
		collection: collection,
	}
}

func (r *transactionRepository) Create(ctx context.Context, params repository.CreateTransactionParams) (string, error) {
	now := time.Now().UTC()
	transaction := entity.Transaction{
		PropertyID:      params.PropertyID,
		BuyerID:         params.BuyerID,
		BrokerID:        params.BrokerID,
		Amount:          params.Amount,
		TransactionDate: params.TransactionDate,
		Status:          entity.TransactionStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}

	res, err := r.collection.InsertOne(ctx, transaction)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}

	return objectID.Hex(), nil
}

func (r *transactionRepository) GetByID(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	objID, err := primitive.ObjectIDFromHex(transactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID format: %w", repository.ErrNotFound)
	}

	var transaction entity.Transaction
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&transaction)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID %s: %w", transactionID, err)
	}
	transaction.ID = transactionID
	return &transaction, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, params repository.UpdateTransactionStatusParams) error {
	objID, err := primitive.ObjectIDFromHex(params.TransactionID)
	if err != nil {
		return fmt.Errorf("invalid transaction ID format for status update: %w", repository.ErrNotFound)
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
		return fmt.Errorf("failed to update transaction status for ID %s: %w", params.TransactionID, err)
	}

	if result.MatchedCount == 0 {
		var existing entity.Transaction
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

func (r *transactionRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Transaction, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for property %s: %w", propertyID, err)
	}
	defer cursor.Close(ctx)

	var transactions []entity.Transaction
	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode listed transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListStalePending(ctx context.Context, olderThan time.Time) ([]entity.Transaction, error) {
	filter := bson.M{
		"status":     entity.TransactionStatusPending,
		"created_at": bson.M{"$lt": olderThan},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []entity.Transaction
	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode stale pending transactions: %w", err)
	}
	return transactions, nil
}
