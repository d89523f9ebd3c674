// internal/core/services/ledger.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// LedgerService orchestrates stock movements: it validates the request,
// appends to the movement log and commits the quantity projection as one
// transaction, then emits low-stock signals. It is the only component that
// mutates product quantity.
type LedgerService struct {
	products  ports.ProductRepository
	movements ports.MovementRepository
	projector *QuantityProjector
	notifier  ports.LowStockNotifier
	locks     *keyedLock
	logger    *slog.Logger
}

// Statically assert that *LedgerService implements the LedgerService interface.
var _ ports.LedgerService = (*LedgerService)(nil)

// NewLedgerService creates a new ledger service
func NewLedgerService(
	products ports.ProductRepository,
	movements ports.MovementRepository,
	projector *QuantityProjector,
	notifier ports.LowStockNotifier,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		products:  products,
		movements: movements,
		projector: projector,
		notifier:  notifier,
		locks:     newKeyedLock(),
		logger:    logger.With(slog.String("service", "ledger")),
	}
}

// RecordMovement validates and applies a single stock movement. Movements for
// the same product are strictly serialized; movements for different products
// proceed in parallel. On any error the product quantity is exactly as it was
// before the call.
func (s *LedgerService) RecordMovement(ctx context.Context, req ports.MovementRequest) (*domain.MovementRecord, error) {
	delta, err := domain.DeltaFor(req.Type, req.Quantity)
	if err != nil {
		return nil, err
	}

	// Per-product serialization: append-then-project must not interleave
	// with another movement for the same product.
	s.locks.Lock(req.ProductID)
	defer s.locks.Unlock(req.ProductID)

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, domain.NotFoundError{Resource: "product", Key: req.ProductID.String()}
	}

	previous := product.Quantity
	next, err := s.projector.Apply(req.ProductID, previous, delta)
	if err != nil {
		var negErr domain.NegativeStockError
		if errors.As(err, &negErr) {
			return nil, domain.InsufficientStockError{
				ProductID: req.ProductID,
				Requested: -delta,
				Available: previous,
			}
		}
		return nil, err
	}

	record := &domain.MovementRecord{
		ProductID: req.ProductID,
		Type:      req.Type,
		Delta:     delta,
		Reason:    req.Reason,
		Actor:     req.Actor,
	}
	record.PrepareForStorage()
	if err := record.Validate(); err != nil {
		return nil, err
	}

	// Append and projection commit are one transaction in the store; a
	// concurrent reader never observes the post-append pre-projection state.
	if err := s.movements.ApplyMovement(ctx, record); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "movement recorded",
		slog.String("movement_id", record.ID.String()),
		slog.String("product_id", req.ProductID.String()),
		slog.String("type", string(req.Type)),
		slog.Int("delta", delta),
		slog.Int("quantity", next))

	s.maybeSignalLowStock(ctx, product, previous, next)

	return record, nil
}

// maybeSignalLowStock emits an edge-triggered signal when this movement
// crossed the threshold from above. Crossings only; sitting below the
// threshold does not re-fire, so consumers are not spammed on every read.
func (s *LedgerService) maybeSignalLowStock(ctx context.Context, product *domain.Product, previous, next int) {
	threshold := product.LowStockThreshold
	if previous <= threshold || next > threshold {
		return
	}

	signal := domain.LowStockSignal{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Quantity:  next,
		Threshold: threshold,
		At:        time.Now(),
	}

	// At-least-once, best effort: a failed enqueue must not roll back an
	// already committed movement.
	if err := s.notifier.NotifyLowStock(ctx, signal); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit low stock signal",
			slog.String("product_id", product.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	s.logger.InfoContext(ctx, "low stock signal emitted",
		slog.String("product_id", product.ID.String()),
		slog.Int("quantity", next),
		slog.Int("threshold", threshold))
}

// History returns movement records matching the filter, newest ranges served
// straight from the store.
func (s *LedgerService) History(ctx context.Context, filter ports.MovementFilter) ([]domain.MovementRecord, int64, error) {
	records, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	return records, total, nil
}
