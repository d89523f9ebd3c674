// internal/core/ports/movement_repository.go
package ports

import (
	"context"
	"time"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/google/uuid"
)

// MovementFilter narrows movement history queries
type MovementFilter struct {
	ProductID *uuid.UUID
	Type      domain.MovementType
	Actor     string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// CategoryMovementRow is one row of the category breakdown aggregation.
// TotalIn and TotalOut are positive magnitudes.
type CategoryMovementRow struct {
	Category domain.ProductCategory
	TotalIn  int
	TotalOut int
}

// CategorizedMovement is a movement record joined with its product's
// category, as consumed by the reporting aggregator.
type CategorizedMovement struct {
	domain.MovementRecord
	Category domain.ProductCategory
}

// MovementRepository is the persistence port for the append-only stock
// ledger. Implemented by the database adapter.
type MovementRepository interface {
	// ApplyMovement appends the record and shifts the product's cached
	// quantity by the record's delta in a single transaction. The record's
	// Sequence is assigned inside the transaction. Either both writes are
	// visible or neither is.
	ApplyMovement(ctx context.Context, record *domain.MovementRecord) error

	// ListByProduct returns the product's records ordered by
	// (created_at, sequence) ascending, optionally bounded in time.
	ListByProduct(ctx context.Context, productID uuid.UUID, from, to *time.Time) ([]domain.MovementRecord, error)

	// List returns records matching the filter ordered by
	// (created_at, sequence) ascending, with the total matching count.
	List(ctx context.Context, filter MovementFilter) ([]domain.MovementRecord, int64, error)

	// ListWithCategory returns all records in the half-open range [from, to)
	// joined with their product's category, ordered by (created_at, sequence)
	// ascending. Soft-deleted products still contribute their history.
	ListWithCategory(ctx context.Context, from, to time.Time) ([]CategorizedMovement, error)

	// SumDeltas replays the full log for one product.
	SumDeltas(ctx context.Context, productID uuid.UUID) (int64, error)

	// SumDeltasBefore sums all deltas strictly before the cutoff, across all
	// products. Used as the baseline for ending-quantity snapshots.
	SumDeltasBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CategoryBreakdown aggregates in/out totals per product category over
	// the half-open range [from, to).
	CategoryBreakdown(ctx context.Context, from, to time.Time) ([]CategoryMovementRow, error)
}
