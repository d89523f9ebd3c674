// internal/core/domain/movement.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MovementType represents the kind of a stock movement
type MovementType string

// Movement type constants
const (
	MovementStockIn    MovementType = "stock_in"
	MovementStockOut   MovementType = "stock_out"
	MovementAdjustment MovementType = "adjustment"
)

// Valid reports whether t is one of the three recognized kinds.
func (t MovementType) Valid() bool {
	switch t {
	case MovementStockIn, MovementStockOut, MovementAdjustment:
		return true
	}
	return false
}

// MovementRecord is a single immutable entry in the stock ledger. Records are
// never edited or deleted; corrections are written as new compensating
// records. Delta carries the stored sign: positive for stock_in, negative for
// stock_out, either for adjustment. Sequence is monotonic per product and
// breaks timestamp ties.
type MovementRecord struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"product_id"`
	Type      MovementType `json:"type"`
	Delta     int          `json:"delta"`
	Reason    string       `json:"reason,omitempty"`
	Actor     string       `json:"actor,omitempty"`
	Sequence  int64        `json:"sequence"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks the record's structural invariants
func (m *MovementRecord) Validate() error {
	if m.ProductID == uuid.Nil {
		return ValidationError{Field: "product_id", Reason: "product_id is required"}
	}
	if !m.Type.Valid() {
		return ValidationError{Field: "type", Reason: "type must be stock_in, stock_out or adjustment"}
	}
	if m.Delta == 0 {
		return ValidationError{Field: "delta", Reason: "delta cannot be zero"}
	}
	if m.Type == MovementStockIn && m.Delta < 0 {
		return ValidationError{Field: "delta", Reason: "stock_in delta must be positive"}
	}
	if m.Type == MovementStockOut && m.Delta > 0 {
		return ValidationError{Field: "delta", Reason: "stock_out delta must be negative"}
	}
	return nil
}

// DeltaFor computes the stored delta for a caller-supplied magnitude.
// Callers always supply a positive magnitude for stock_in/stock_out; the sign
// is derived from the type. Adjustments pass their signed value through
// unchanged.
func DeltaFor(t MovementType, magnitude int) (int, error) {
	switch t {
	case MovementStockIn:
		if magnitude <= 0 {
			return 0, ValidationError{Field: "quantity", Reason: "stock_in quantity must be positive"}
		}
		return magnitude, nil
	case MovementStockOut:
		if magnitude <= 0 {
			return 0, ValidationError{Field: "quantity", Reason: "stock_out quantity must be positive"}
		}
		return -magnitude, nil
	case MovementAdjustment:
		if magnitude == 0 {
			return 0, ValidationError{Field: "quantity", Reason: "adjustment delta cannot be zero"}
		}
		return magnitude, nil
	default:
		return 0, ValidationError{Field: "type", Reason: "type must be stock_in, stock_out or adjustment"}
	}
}

// PrepareForStorage sets identity and creation time before persisting.
// Sequence is assigned by the store inside the append transaction.
func (m *MovementRecord) PrepareForStorage() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}
