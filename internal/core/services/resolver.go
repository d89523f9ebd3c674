// internal/core/services/resolver.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// barcodeCacheTTL keeps scan lookups hot without letting catalog edits go
// stale for long; product mutations also invalidate explicitly.
const barcodeCacheTTL = 5 * time.Minute

// BarcodeResolver maps scanned barcode strings to products. Scanner hardware
// may emit partial reads, so malformed input resolves to NotFoundError rather
// than a format error.
type BarcodeResolver struct {
	products ports.ProductRepository
	cache    ports.CacheRepository
	logger   *slog.Logger
}

// Statically assert that *BarcodeResolver implements the BarcodeResolver interface.
var _ ports.BarcodeResolver = (*BarcodeResolver)(nil)

// NewBarcodeResolver creates a new barcode resolver. cache may be nil, in
// which case every scan hits the store.
func NewBarcodeResolver(products ports.ProductRepository, cache ports.CacheRepository, logger *slog.Logger) *BarcodeResolver {
	return &BarcodeResolver{
		products: products,
		cache:    cache,
		logger:   logger.With(slog.String("service", "barcode_resolver")),
	}
}

// Resolve looks up a product by exact, case-sensitive barcode match.
func (r *BarcodeResolver) Resolve(ctx context.Context, barcode string) (*domain.Product, error) {
	trimmed := strings.TrimSpace(barcode)
	if trimmed == "" {
		return nil, domain.NotFoundError{Resource: "barcode", Key: barcode}
	}

	if r.cache != nil {
		var cached domain.Product
		err := r.cache.GetOrSet(ctx, BarcodeCacheKey(trimmed), &cached, func() (interface{}, error) {
			return r.lookup(ctx, trimmed)
		}, barcodeCacheTTL)
		if err == nil {
			return &cached, nil
		}
		var notFound domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		// Cache trouble must not break scanning; fall through to the store.
		r.logger.WarnContext(ctx, "barcode cache lookup failed",
			slog.String("barcode", trimmed),
			slog.String("error", err.Error()))
	}

	return r.lookup(ctx, trimmed)
}

func (r *BarcodeResolver) lookup(ctx context.Context, barcode string) (*domain.Product, error) {
	product, err := r.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve barcode: %w", err)
	}
	if product == nil {
		return nil, domain.NotFoundError{Resource: "barcode", Key: barcode}
	}
	return product, nil
}

// Invalidate drops the cache entry for a barcode after a catalog mutation.
func (r *BarcodeResolver) Invalidate(ctx context.Context, barcode string) {
	if r.cache == nil || strings.TrimSpace(barcode) == "" {
		return
	}
	if err := r.cache.Delete(ctx, BarcodeCacheKey(strings.TrimSpace(barcode))); err != nil {
		r.logger.WarnContext(ctx, "failed to invalidate barcode cache",
			slog.String("barcode", barcode),
			slog.String("error", err.Error()))
	}
}

// BarcodeCacheKey builds the cache key for one barcode.
func BarcodeCacheKey(barcode string) string {
	return "barcode:" + barcode
}
