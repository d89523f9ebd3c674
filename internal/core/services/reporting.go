// internal/core/services/reporting.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// ReportingAggregator buckets the movement log by time period and by
// category. All operations are pure reads over the store; they may lag
// in-flight writes by one projector commit, which is acceptable for
// analytical consumers.
type ReportingAggregator struct {
	movements ports.MovementRepository
	logger    *slog.Logger
}

// Statically assert that *ReportingAggregator implements the ReportingAggregator interface.
var _ ports.ReportingAggregator = (*ReportingAggregator)(nil)

// NewReportingAggregator creates a new reporting aggregator
func NewReportingAggregator(movements ports.MovementRepository, logger *slog.Logger) *ReportingAggregator {
	return &ReportingAggregator{
		movements: movements,
		logger:    logger.With(slog.String("service", "reporting")),
	}
}

// Aggregate returns one bucket per period between from and to at the given
// granularity. Periods without movements still appear with zero totals, so
// the series is dense and chart-ready. EndingQuantity is the warehouse-wide
// on-hand total at the end of each bucket, derived entirely from the log.
func (a *ReportingAggregator) Aggregate(ctx context.Context, from, to time.Time, granularity domain.Granularity) ([]domain.ReportBucket, error) {
	if !granularity.Valid() {
		return nil, domain.ValidationError{Field: "granularity", Reason: "granularity must be day, week or month"}
	}
	if !to.After(from) {
		return nil, domain.ValidationError{Field: "to", Reason: "to must be after from"}
	}

	start := granularity.Truncate(from)

	records, err := a.movements.ListWithCategory(ctx, start, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements for aggregation: %w", err)
	}

	baseline, err := a.movements.SumDeltasBefore(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to compute baseline quantity: %w", err)
	}

	// Pre-build the dense series so empty periods still produce buckets.
	var buckets []domain.ReportBucket
	for cursor := start; cursor.Before(to); cursor = granularity.Next(cursor) {
		buckets = append(buckets, domain.ReportBucket{
			PeriodStart: cursor,
			PeriodEnd:   granularity.Next(cursor),
		})
	}

	idx := 0
	for _, rec := range records {
		for idx < len(buckets)-1 && !rec.CreatedAt.Before(buckets[idx].PeriodEnd) {
			idx++
		}
		b := &buckets[idx]
		if b.ByCategory == nil {
			b.ByCategory = make(map[domain.ProductCategory]domain.CategoryTotals)
		}
		totals := b.ByCategory[rec.Category]
		switch {
		case rec.Delta > 0:
			b.TotalIn += rec.Delta
			totals.TotalIn += rec.Delta
		case rec.Delta < 0:
			b.TotalOut += -rec.Delta
			totals.TotalOut += -rec.Delta
		}
		b.ByCategory[rec.Category] = totals
		b.NetChange += rec.Delta
	}

	running := baseline
	for i := range buckets {
		running += int64(buckets[i].NetChange)
		buckets[i].EndingQuantity = running
	}

	a.logger.DebugContext(ctx, "aggregated movement series",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.String("granularity", string(granularity)),
		slog.Int("buckets", len(buckets)),
		slog.Int("movements", len(records)))

	return buckets, nil
}

// CategoryBreakdown returns per-category stock-in and stock-out totals over
// [from, to). Totals are positive magnitudes.
func (a *ReportingAggregator) CategoryBreakdown(ctx context.Context, from, to time.Time) (map[domain.ProductCategory]domain.CategoryTotals, error) {
	if !to.After(from) {
		return nil, domain.ValidationError{Field: "to", Reason: "to must be after from"}
	}

	rows, err := a.movements.CategoryBreakdown(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}

	breakdown := make(map[domain.ProductCategory]domain.CategoryTotals, len(rows))
	for _, row := range rows {
		breakdown[row.Category] = domain.CategoryTotals{
			TotalIn:  row.TotalIn,
			TotalOut: row.TotalOut,
		}
	}
	return breakdown, nil
}
