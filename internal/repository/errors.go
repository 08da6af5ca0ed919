package repository

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrStatusConflict = errors.New("status precondition failed: state was modified by another process")
	ErrUpdateFailed   = errors.New("update failed")
)
