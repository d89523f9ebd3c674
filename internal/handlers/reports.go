// internal/handlers/reports.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
	"github.com/stockops/ledger-be/internal/workers"
)

// reportCacheTTL bounds the staleness of cached report series. Reports are
// eventually consistent with in-flight writes anyway.
const reportCacheTTL = 2 * time.Minute

// ReportHandler serves aggregated movement reports and export jobs
type ReportHandler struct {
	aggregator ports.ReportingAggregator
	cache      ports.CacheRepository
	enqueuer   *workers.Enqueuer
	logger     *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(aggregator ports.ReportingAggregator, cache ports.CacheRepository, enqueuer *workers.Enqueuer, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		aggregator: aggregator,
		cache:      cache,
		enqueuer:   enqueuer,
		logger:     logger.With(slog.String("handler", "reports")),
	}
}

// MovementReport handles GET /api/v1/reports/movements
func (h *ReportHandler) MovementReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	granularity, from, to, err := h.parseReportParams(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := redis_a.BuildKey(redis_a.PrefixReport,
		string(granularity),
		from.Format(time.RFC3339),
		to.Format(time.RFC3339))

	var buckets []domain.ReportBucket
	err = h.cache.GetOrSet(ctx, key, &buckets, func() (interface{}, error) {
		return h.aggregator.Aggregate(ctx, from, to, granularity)
	}, reportCacheTTL)

	if err != nil {
		var validationErr domain.ValidationError
		if errors.As(err, &validationErr) {
			h.respondError(w, http.StatusBadRequest, validationErr.Error())
			return
		}

		h.logger.ErrorContext(ctx, "failed to build report",
			slog.String("granularity", string(granularity)),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	h.respondJSON(w, http.StatusOK, MovementReportResponse{
		Granularity: string(granularity),
		From:        from,
		To:          to,
		Buckets:     buckets,
	})
}

// CategoryReport handles GET /api/v1/reports/categories
func (h *ReportHandler) CategoryReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, from, to, err := h.parseReportParams(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown, err := h.aggregator.CategoryBreakdown(ctx, from, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build category breakdown",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to build category breakdown")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"from":       from,
		"to":         to,
		"categories": breakdown,
	})
}

// RequestExport handles POST /api/v1/reports/export
func (h *ReportHandler) RequestExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, err := h.enqueuer.EnqueueExport(ctx, workers.ExportPayload{
		Granularity: req.Granularity,
		From:        req.From,
		To:          req.To,
		RequestedBy: req.RequestedBy,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue export")
		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": "queued",
	})
}

// ExportStatus handles GET /api/v1/reports/export/{id}
func (h *ReportHandler) ExportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("id")

	status, err := workers.LookupExportStatus(ctx, h.cache, jobID)
	if err != nil {
		var notFoundErr domain.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.respondError(w, http.StatusNotFound, "Export job not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to look up export status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to look up export status")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

func (h *ReportHandler) parseReportParams(r *http.Request) (domain.Granularity, time.Time, time.Time, error) {
	q := r.URL.Query()

	granularity := domain.Granularity(q.Get("granularity"))
	if granularity == "" {
		granularity = domain.GranularityDay
	}
	if !granularity.Valid() {
		return "", time.Time{}, time.Time{}, fmt.Errorf("granularity must be one of day, week, month")
	}

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr := q.Get("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid from timestamp: %s", fromStr)
		}
		from = parsed
	}

	if toStr := q.Get("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid to timestamp: %s", toStr)
		}
		to = parsed
	}

	if !to.After(from) {
		return "", time.Time{}, time.Time{}, fmt.Errorf("to must be after from")
	}

	return granularity, from, to, nil
}

func (h *ReportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ReportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// MovementReportResponse is the dense bucket series returned to chart
// consumers.
type MovementReportResponse struct {
	Granularity string                `json:"granularity"`
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	Buckets     []domain.ReportBucket `json:"buckets"`
}

// ExportRequest represents the request body for queuing a report export
type ExportRequest struct {
	Granularity string    `json:"granularity"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	RequestedBy string    `json:"requested_by,omitempty"`
}

// Validate validates the export request
func (r *ExportRequest) Validate() error {
	if r.Granularity == "" {
		r.Granularity = string(domain.GranularityDay)
	}
	if !domain.Granularity(r.Granularity).Valid() {
		return fmt.Errorf("granularity must be one of day, week, month")
	}
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("from and to are required")
	}
	if !r.To.After(r.From) {
		return fmt.Errorf("to must be after from")
	}
	return nil
}
