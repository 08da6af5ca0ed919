package entity

import (
	"errors"
	"time"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// IsTerminal reports whether the status can no longer change. COMPLETED and
// CANCELLED are both terminal and mutually exclusive.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusCancelled
}

type Transaction struct {
	ID              string            `bson:"_id,omitempty" json:"transactionId"`
	PropertyID      string            `bson:"property_id" json:"propertyId"`
	BuyerID         string            `bson:"buyer_id" json:"buyerId"`
	BrokerID        string            `bson:"broker_id,omitempty" json:"brokerId,omitempty"`
	Amount          float64           `bson:"amount" json:"amount"`
	TransactionDate time.Time         `bson:"transaction_date" json:"transactionDate"`
	Status          TransactionStatus `bson:"status" json:"status"`
	CreatedAt       time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updatedAt"`
	Version         int               `bson:"version" json:"-"`
}

// NewTransaction builds a PENDING transaction for a purchase intent. The
// amount is the property's price snapshotted at intent time, so later price
// edits never retroactively change the financial record.
func NewTransaction(propertyID, buyerID, brokerID string, amount float64) (*Transaction, error) {
	if propertyID == "" {
		return nil, errors.New("property ID cannot be empty")
	}
	if buyerID == "" {
		return nil, errors.New("buyer ID cannot be empty")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	now := time.Now().UTC()
	return &Transaction{
		PropertyID:      propertyID,
		BuyerID:         buyerID,
		BrokerID:        brokerID,
		Amount:          amount,
		TransactionDate: now,
		Status:          TransactionStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}, nil
}
