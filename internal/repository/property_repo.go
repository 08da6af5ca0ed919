package repository

import (
	"context"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
)

// TransitionPropertyStatusParams describes a compare-and-set on a property's
// status: the write succeeds only if the stored status still equals
// ExpectedCurrent at the moment of update.
type TransitionPropertyStatusParams struct {
	PropertyID      string
	Target          entity.PropertyStatus
	ExpectedCurrent entity.PropertyStatus
}

type PropertyRepository interface {
	GetByID(ctx context.Context, propertyID string) (*entity.Property, error)
	// TransitionStatus atomically moves the property to Target if its status
	// equals ExpectedCurrent. Returns ErrStatusConflict without mutating
	// state when the precondition fails, ErrNotFound when the property does
	// not exist.
	TransitionStatus(ctx context.Context, params TransitionPropertyStatusParams) error
}
