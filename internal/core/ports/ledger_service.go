// internal/core/ports/ledger_service.go
package ports

import (
	"context"
	"time"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/google/uuid"
)

// MovementRequest is the inbound shape of a movement submission. Quantity is
// an unsigned magnitude for stock_in/stock_out and a signed delta for
// adjustment.
type MovementRequest struct {
	ProductID uuid.UUID
	Type      domain.MovementType
	Quantity  int
	Reason    string
	Actor     string
}

// LedgerService is the orchestrating facade and the only component permitted
// to mutate product quantity.
type LedgerService interface {
	RecordMovement(ctx context.Context, req MovementRequest) (*domain.MovementRecord, error)
	History(ctx context.Context, filter MovementFilter) ([]domain.MovementRecord, int64, error)
}

// BarcodeResolver maps a scanned barcode string to a product. Lookup is
// exact-match and case-sensitive; malformed or partial scans fail to resolve
// instead of raising format errors.
type BarcodeResolver interface {
	Resolve(ctx context.Context, barcode string) (*domain.Product, error)
}

// ReportingAggregator produces derived series over the movement log. Pure
// reads; eventual consistency with in-flight writes is acceptable.
type ReportingAggregator interface {
	Aggregate(ctx context.Context, from, to time.Time, granularity domain.Granularity) ([]domain.ReportBucket, error)
	CategoryBreakdown(ctx context.Context, from, to time.Time) (map[domain.ProductCategory]domain.CategoryTotals, error)
}

// LowStockNotifier is the outbound side channel for low-stock signals.
// Delivery is at-least-once; consumers de-duplicate.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, signal domain.LowStockSignal) error
}
