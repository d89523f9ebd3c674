// internal/core/services/projector.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// StockPolicy controls how the projector treats deltas that would drive a
// quantity below zero.
type StockPolicy string

const (
	// PolicyStrict rejects any movement that would make the projection negative.
	PolicyStrict StockPolicy = "strict"
	// PolicyPermissive allows negative projections and only flags them.
	PolicyPermissive StockPolicy = "permissive"
)

// Valid reports whether p is a recognized policy.
func (p StockPolicy) Valid() bool {
	return p == PolicyStrict || p == PolicyPermissive
}

// QuantityProjector derives current on-hand quantity per product from its
// movement history. The cached value lives on the product row and is written
// only inside the movement transaction; the movement log remains the sole
// source of truth and the cache must always be reconstructable from it.
type QuantityProjector struct {
	products  ports.ProductRepository
	movements ports.MovementRepository
	policy    StockPolicy
	logger    *slog.Logger
}

// NewQuantityProjector creates a new projector
func NewQuantityProjector(products ports.ProductRepository, movements ports.MovementRepository, policy StockPolicy, logger *slog.Logger) *QuantityProjector {
	if !policy.Valid() {
		policy = PolicyStrict
	}
	return &QuantityProjector{
		products:  products,
		movements: movements,
		policy:    policy,
		logger:    logger.With(slog.String("service", "projector")),
	}
}

// Policy returns the configured negative-stock policy.
func (p *QuantityProjector) Policy() StockPolicy {
	return p.policy
}

// Apply computes previous+delta and enforces the negative-stock policy.
// Pure computation; nothing is committed here.
func (p *QuantityProjector) Apply(productID uuid.UUID, previous, delta int) (int, error) {
	next := previous + delta
	if next < 0 {
		if p.policy == PolicyStrict {
			return 0, domain.NegativeStockError{ProductID: productID, Result: next}
		}
		p.logger.Warn("projection went negative under permissive policy",
			slog.String("product_id", productID.String()),
			slog.Int("quantity", next))
	}
	return next, nil
}

// Current returns the cached projection, O(1)
func (p *QuantityProjector) Current(ctx context.Context, productID uuid.UUID) (int, error) {
	product, err := p.products.FindByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to read projection: %w", err)
	}
	if product == nil {
		return 0, domain.NotFoundError{Resource: "product", Key: productID.String()}
	}
	return product.Quantity, nil
}

// Reconstruct replays the full movement log for the product. Used by audits
// and for recovery after a crash mid-update; the result must equal Current
// whenever the cache is trusted.
func (p *QuantityProjector) Reconstruct(ctx context.Context, productID uuid.UUID) (int, error) {
	sum, err := p.movements.SumDeltas(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to replay movements: %w", err)
	}
	return int(sum), nil
}

// AuditResult reports one product whose cached projection drifted from the
// replayed value.
type AuditResult struct {
	ProductID     uuid.UUID `json:"product_id"`
	SKU           string    `json:"sku"`
	Cached        int       `json:"cached"`
	Reconstructed int       `json:"reconstructed"`
}

// Audit replays every product's log and compares it against the cached
// projection, returning the products that drifted. A healthy ledger returns
// an empty slice.
func (p *QuantityProjector) Audit(ctx context.Context) ([]AuditResult, error) {
	products, _, err := p.products.FindAll(ctx, ports.ProductQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products for audit: %w", err)
	}

	var drifted []AuditResult
	for _, product := range products {
		reconstructed, err := p.Reconstruct(ctx, product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct product %s: %w", product.ID, err)
		}
		if reconstructed != product.Quantity {
			drifted = append(drifted, AuditResult{
				ProductID:     product.ID,
				SKU:           product.SKU,
				Cached:        product.Quantity,
				Reconstructed: reconstructed,
			})
			p.logger.WarnContext(ctx, "projection drift detected",
				slog.String("product_id", product.ID.String()),
				slog.Int("cached", product.Quantity),
				slog.Int("reconstructed", reconstructed))
		}
	}

	return drifted, nil
}
