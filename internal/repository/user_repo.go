package repository

import "context"

// UserLookup resolves user identity. The purchase flow only needs existence
// checks; user records themselves are owned by an external service.
type UserLookup interface {
	Exists(ctx context.Context, userID string) (bool, error)
}
