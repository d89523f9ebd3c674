package benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/services"
	"github.com/stockops/ledger-be/test/helpers"
)

func BenchmarkAggregate(b *testing.B) {
	const span = 90 * 24 * time.Hour
	ledger := newMemoryLedger(generateMovements(10_000, 50, span))
	aggregator := services.NewReportingAggregator(ledger, helpers.TestSlogger())

	to := time.Now().UTC()
	from := to.Add(-span)
	ctx := context.Background()

	for _, granularity := range []domain.Granularity{
		domain.GranularityDay,
		domain.GranularityWeek,
		domain.GranularityMonth,
	} {
		b.Run(string(granularity), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := aggregator.Aggregate(ctx, from, to, granularity); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGranularityTruncate(b *testing.B) {
	at := time.Date(2026, 2, 18, 14, 35, 12, 0, time.UTC)

	for _, granularity := range []domain.Granularity{
		domain.GranularityDay,
		domain.GranularityWeek,
		domain.GranularityMonth,
	} {
		b.Run(string(granularity), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = granularity.Truncate(at)
			}
		})
	}
}

func BenchmarkDeltaFor(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = domain.DeltaFor(domain.MovementStockOut, 7)
	}
}

func BenchmarkLedgerReconstruct(b *testing.B) {
	records := generateMovements(10_000, 1, 30*24*time.Hour)
	productID := records[0].ProductID
	ledger := newMemoryLedger(records)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ledger.SumDeltas(ctx, productID); err != nil {
			b.Fatal(err)
		}
	}
}

// Memory allocation benchmarks
func BenchmarkMemoryAllocation(b *testing.B) {
	b.Run("MovementRecord", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = &domain.MovementRecord{
				ID:        uuid.New(),
				ProductID: uuid.New(),
				Type:      domain.MovementStockIn,
				Delta:     5,
				Actor:     "bench",
				CreatedAt: time.Now(),
			}
		}
	})

	b.Run("DenseBucketSeries", func(b *testing.B) {
		start := domain.GranularityDay.Truncate(time.Now().UTC().AddDate(0, 0, -90))

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			buckets := make([]domain.ReportBucket, 0, 90)
			for day := start; len(buckets) < 90; day = domain.GranularityDay.Next(day) {
				buckets = append(buckets, domain.ReportBucket{
					PeriodStart: day,
					PeriodEnd:   domain.GranularityDay.Next(day),
				})
			}
		}
	})
}
