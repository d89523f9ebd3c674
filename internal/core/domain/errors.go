// internal/core/domain/errors.go
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports a malformed request. Nothing is persisted when one
// is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// NotFoundError reports an unknown product or barcode
type NotFoundError struct {
	Resource string
	Key      string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// InsufficientStockError is the strict-policy guard against negative stock.
// The movement is fully discarded when it is returned.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// NegativeStockError is returned by the projector when applying a delta would
// drive the projection below zero under strict policy.
type NegativeStockError struct {
	ProductID uuid.UUID
	Result    int
}

func (e NegativeStockError) Error() string {
	return fmt.Sprintf("projection for product %s would become negative: %d", e.ProductID, e.Result)
}

// DurabilityError wraps a storage failure. The operation that surfaces it has
// made no partial change; callers may retry.
type DurabilityError struct {
	Op  string
	Err error
}

func (e DurabilityError) Error() string {
	return fmt.Sprintf("durable store failed during %s: %v", e.Op, e.Err)
}

func (e DurabilityError) Unwrap() error {
	return e.Err
}
