// internal/core/services/reporting_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
	"github.com/stockops/ledger-be/internal/core/services"
	"github.com/stockops/ledger-be/test/helpers"
	"github.com/stockops/ledger-be/test/mocks"
)

func movementAt(productID uuid.UUID, category domain.ProductCategory, delta int, at time.Time) ports.CategorizedMovement {
	movementType := domain.MovementStockIn
	if delta < 0 {
		movementType = domain.MovementStockOut
	}
	rec := helpers.CreateTestMovement(productID, movementType, delta)
	rec.CreatedAt = at
	return ports.CategorizedMovement{MovementRecord: *rec, Category: category}
}

func TestReportingAggregator_Aggregate_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	aggregator := services.NewReportingAggregator(
		mocks.NewMockMovementRepository(ctrl), helpers.TestSlogger())

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	_, err := aggregator.Aggregate(context.Background(), from, to, "hour")
	var valErr domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "granularity", valErr.Field)

	_, err = aggregator.Aggregate(context.Background(), to, from, domain.GranularityDay)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "to", valErr.Field)
}

// TestReportingAggregator_Aggregate_DenseSeries covers a five-day window with
// movements on the first and last day only. All five buckets must appear, the
// middle three with zero totals.
func TestReportingAggregator_Aggregate_DenseSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 5)

	records := []ports.CategorizedMovement{
		movementAt(productID, domain.CategoryTools, 20, from.Add(9*time.Hour)),
		movementAt(productID, domain.CategoryTools, -5, from.Add(11*time.Hour)),
		movementAt(productID, domain.CategoryTools, -8, from.AddDate(0, 0, 4).Add(16*time.Hour)),
	}

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().
		ListWithCategory(gomock.Any(), from, to).
		Return(records, nil)
	mockMovements.EXPECT().
		SumDeltasBefore(gomock.Any(), from).
		Return(int64(100), nil)

	aggregator := services.NewReportingAggregator(mockMovements, helpers.TestSlogger())

	buckets, err := aggregator.Aggregate(context.Background(), from, to, domain.GranularityDay)
	require.NoError(t, err)
	require.Len(t, buckets, 5)

	first := buckets[0]
	assert.Equal(t, from, first.PeriodStart)
	assert.Equal(t, from.AddDate(0, 0, 1), first.PeriodEnd)
	assert.Equal(t, 20, first.TotalIn)
	assert.Equal(t, 5, first.TotalOut)
	assert.Equal(t, 15, first.NetChange)
	assert.Equal(t, int64(115), first.EndingQuantity)
	assert.Equal(t, domain.CategoryTotals{TotalIn: 20, TotalOut: 5}, first.ByCategory[domain.CategoryTools])

	for i := 1; i < 4; i++ {
		assert.Zero(t, buckets[i].TotalIn, "bucket %d", i)
		assert.Zero(t, buckets[i].TotalOut, "bucket %d", i)
		assert.Zero(t, buckets[i].NetChange, "bucket %d", i)
		assert.Empty(t, buckets[i].ByCategory, "bucket %d", i)
		assert.Equal(t, int64(115), buckets[i].EndingQuantity, "empty buckets carry the running total")
	}

	last := buckets[4]
	assert.Equal(t, 8, last.TotalOut)
	assert.Equal(t, -8, last.NetChange)
	assert.Equal(t, int64(107), last.EndingQuantity)
}

// TestReportingAggregator_Aggregate_PerBucketCategories covers the category
// sub-totals inside each bucket, across products of different categories.
func TestReportingAggregator_Aggregate_PerBucketCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	drill := uuid.New()
	tape := uuid.New()
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)

	records := []ports.CategorizedMovement{
		movementAt(drill, domain.CategoryTools, 10, from.Add(8*time.Hour)),
		movementAt(tape, domain.CategoryPackaging, -4, from.Add(10*time.Hour)),
		movementAt(tape, domain.CategoryPackaging, 6, from.AddDate(0, 0, 1).Add(9*time.Hour)),
	}

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().
		ListWithCategory(gomock.Any(), from, to).
		Return(records, nil)
	mockMovements.EXPECT().
		SumDeltasBefore(gomock.Any(), from).
		Return(int64(0), nil)

	aggregator := services.NewReportingAggregator(mockMovements, helpers.TestSlogger())

	buckets, err := aggregator.Aggregate(context.Background(), from, to, domain.GranularityDay)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	first := buckets[0]
	assert.Equal(t, 10, first.TotalIn)
	assert.Equal(t, 4, first.TotalOut)
	require.Len(t, first.ByCategory, 2)
	assert.Equal(t, domain.CategoryTotals{TotalIn: 10, TotalOut: 0}, first.ByCategory[domain.CategoryTools])
	assert.Equal(t, domain.CategoryTotals{TotalIn: 0, TotalOut: 4}, first.ByCategory[domain.CategoryPackaging])

	second := buckets[1]
	require.Len(t, second.ByCategory, 1)
	assert.Equal(t, domain.CategoryTotals{TotalIn: 6, TotalOut: 0}, second.ByCategory[domain.CategoryPackaging])
}

func TestReportingAggregator_Aggregate_WeeklyBucketsStartMonday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	// Wednesday; the containing ISO week starts Monday 2026-03-02.
	from := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	records := []ports.CategorizedMovement{
		movementAt(productID, domain.CategoryTools, 6, from),
		movementAt(productID, domain.CategoryTools, -2, weekStart.AddDate(0, 0, 9)),
	}

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().
		ListWithCategory(gomock.Any(), weekStart, to).
		Return(records, nil)
	mockMovements.EXPECT().
		SumDeltasBefore(gomock.Any(), weekStart).
		Return(int64(0), nil)

	aggregator := services.NewReportingAggregator(mockMovements, helpers.TestSlogger())

	buckets, err := aggregator.Aggregate(context.Background(), from, to, domain.GranularityWeek)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, weekStart, buckets[0].PeriodStart)
	assert.Equal(t, weekStart.AddDate(0, 0, 7), buckets[0].PeriodEnd)
	assert.Equal(t, 6, buckets[0].TotalIn)
	assert.Equal(t, 2, buckets[1].TotalOut)
	assert.Equal(t, int64(4), buckets[2].EndingQuantity)
}

func TestReportingAggregator_CategoryBreakdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().
		CategoryBreakdown(gomock.Any(), from, to).
		Return([]ports.CategoryMovementRow{
			{Category: domain.CategoryTools, TotalIn: 40, TotalOut: 12},
			{Category: domain.CategoryPackaging, TotalIn: 0, TotalOut: 30},
		}, nil)

	aggregator := services.NewReportingAggregator(mockMovements, helpers.TestSlogger())

	breakdown, err := aggregator.CategoryBreakdown(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, domain.CategoryTotals{TotalIn: 40, TotalOut: 12}, breakdown[domain.CategoryTools])
	assert.Equal(t, domain.CategoryTotals{TotalIn: 0, TotalOut: 30}, breakdown[domain.CategoryPackaging])
}

func TestReportingAggregator_CategoryBreakdown_InvalidRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	aggregator := services.NewReportingAggregator(
		mocks.NewMockMovementRepository(ctrl), helpers.TestSlogger())

	now := time.Now()
	_, err := aggregator.CategoryBreakdown(context.Background(), now, now)
	var valErr domain.ValidationError
	require.ErrorAs(t, err, &valErr)
}
