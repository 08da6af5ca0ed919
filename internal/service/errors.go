package service

import (
	"errors"
	"fmt"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
)

// Stable rejection kinds surfaced by the purchase workflow. Callers branch on
// these with errors.Is; the HTTP port translates them into status codes and
// kind strings.
var (
	ErrNotFound               = errors.New("entity not found")
	ErrSelfPurchase           = errors.New("buyer cannot purchase their own property")
	ErrPropertyNotPurchasable = errors.New("property is not open for purchase")
	ErrInvalidReference       = errors.New("referenced entity does not resolve")
	ErrConflict               = errors.New("operation conflicts with the current state")

	ErrReconciliationDivergence = errors.New("transaction completed but property status could not be updated")
)

// DivergenceError reports a completed transaction whose property projection
// failed to converge. The transaction is the source of truth for the sale and
// is never rolled back; the carried context is what out-of-band
// reconciliation needs to repair the property record.
type DivergenceError struct {
	TransactionID string
	PropertyID    string
	Expected      entity.PropertyStatus
	Actual        entity.PropertyStatus
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf(
		"reconciliation divergence: transaction %s completed but property %s expected status %s, actual %s",
		e.TransactionID, e.PropertyID, e.Expected, e.Actual,
	)
}

func (e *DivergenceError) Unwrap() error {
	return ErrReconciliationDivergence
}
