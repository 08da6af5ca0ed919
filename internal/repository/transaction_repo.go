package repository

import (
	"context"
	"time"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
)

type CreateTransactionParams struct {
	PropertyID      string
	BuyerID         string
	BrokerID        string
	Amount          float64
	TransactionDate time.Time
}

// UpdateTransactionStatusParams is the same CAS discipline as the property
// registry: the status write only applies while the stored status equals
// ExpectedCurrent.
type UpdateTransactionStatusParams struct {
	TransactionID   string
	Target          entity.TransactionStatus
	ExpectedCurrent entity.TransactionStatus
}

type TransactionRepository interface {
	Create(ctx context.Context, params CreateTransactionParams) (string, error)
	GetByID(ctx context.Context, transactionID string) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, params UpdateTransactionStatusParams) error
	ListByProperty(ctx context.Context, propertyID string) ([]entity.Transaction, error)
	// ListStalePending returns PENDING transactions created before the given
	// cutoff; used by the reservation sweeper.
	ListStalePending(ctx context.Context, olderThan time.Time) ([]entity.Transaction, error)
}
