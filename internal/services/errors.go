package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both absent ids and retired (soft-deleted) products.
	ErrNotFound = errors.New("product not found")

	// ErrDuplicateSKU fires when an active product already holds the SKU.
	ErrDuplicateSKU = errors.New("sku already exists")

	// ErrConflict means the optimistic write lost a race and retries were
	// exhausted. The whole operation may be retried by the caller; nothing
	// was committed.
	ErrConflict = errors.New("concurrent update conflict")
)

// ValidationError reports a user-correctable input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError carries the available quantity for display, so the
// caller can tell the user exactly how much could still be taken.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock, available: %d", e.Available)
}
