// internal/handlers/reports_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/handlers"
	"github.com/stockops/ledger-be/internal/workers"
	"github.com/stockops/ledger-be/test/helpers"
	"github.com/stockops/ledger-be/test/mocks"
)

func newReportHandler(t *testing.T, aggregator *mocks.MockReportingAggregator) *handlers.ReportHandler {
	t.Helper()
	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestSlogger())
	return handlers.NewReportHandler(aggregator, cache, nil, helpers.TestSlogger())
}

func TestReportHandler_MovementReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 3)

	buckets := []domain.ReportBucket{
		{PeriodStart: from, PeriodEnd: from.AddDate(0, 0, 1), TotalIn: 20, TotalOut: 5, NetChange: 15, EndingQuantity: 115},
		{PeriodStart: from.AddDate(0, 0, 1), PeriodEnd: from.AddDate(0, 0, 2), EndingQuantity: 115},
		{PeriodStart: from.AddDate(0, 0, 2), PeriodEnd: to, TotalOut: 8, NetChange: -8, EndingQuantity: 107},
	}

	mockAggregator := mocks.NewMockReportingAggregator(ctrl)
	mockAggregator.EXPECT().
		Aggregate(gomock.Any(), from, to, domain.GranularityDay).
		Return(buckets, nil).
		Times(1)

	handler := newReportHandler(t, mockAggregator)

	url := "/api/v1/reports/movements?granularity=day&from=" + from.Format(time.RFC3339) + "&to=" + to.Format(time.RFC3339)

	// Second request is served from the report cache; the aggregator runs once.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()

		handler.MovementReport(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var response handlers.MovementReportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "day", response.Granularity)
		require.Len(t, response.Buckets, 3)
		assert.Equal(t, int64(107), response.Buckets[2].EndingQuantity)
	}
}

func TestReportHandler_MovementReport_BadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown_granularity", query: "?granularity=hour"},
		{name: "bad_from", query: "?from=lastweek"},
		{name: "inverted_range", query: "?from=2026-03-10T00:00:00Z&to=2026-03-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			handler := newReportHandler(t, mocks.NewMockReportingAggregator(ctrl))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/movements"+tt.query, nil)
			rec := httptest.NewRecorder()

			handler.MovementReport(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReportHandler_CategoryReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAggregator := mocks.NewMockReportingAggregator(ctrl)
	mockAggregator.EXPECT().
		CategoryBreakdown(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.ProductCategory]domain.CategoryTotals{
			domain.CategoryTools: {TotalIn: 40, TotalOut: 12},
		}, nil)

	handler := newReportHandler(t, mockAggregator)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/categories", nil)
	rec := httptest.NewRecorder()

	handler.CategoryReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Categories map[string]domain.CategoryTotals `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 40, response.Categories["tools"].TotalIn)
}

func TestReportHandler_ExportStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestSlogger())
	handler := handlers.NewReportHandler(mocks.NewMockReportingAggregator(ctrl), cache, nil, helpers.TestSlogger())

	status := workers.ExportStatus{
		JobID:     "job-123",
		Status:    "completed",
		UpdatedAt: time.Now(),
	}
	key := redis_a.BuildKey(redis_a.PrefixExport, status.JobID)
	require.NoError(t, cache.SetWithTTL(context.Background(), key, status, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export/job-123", nil)
	req.SetPathValue("id", "job-123")
	rec := httptest.NewRecorder()

	handler.ExportStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response workers.ExportStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "completed", response.Status)
}

func TestReportHandler_ExportStatus_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newReportHandler(t, mocks.NewMockReportingAggregator(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.ExportStatus(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
