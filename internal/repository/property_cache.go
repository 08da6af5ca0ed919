package repository

import (
	"context"
	"time"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
)

// PropertyCache is a read-side cache of property records. It must be
// invalidated on every status write; it is never consulted for guard checks.
type PropertyCache interface {
	Get(ctx context.Context, propertyID string) (*entity.Property, error)
	Set(ctx context.Context, property *entity.Property, ttl time.Duration) error
	Delete(ctx context.Context, propertyID string) error
}
