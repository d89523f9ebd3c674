// internal/workers/export_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/adapters/storage"
	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStatus tracks an export job through its lifecycle
type ExportStatus struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"` // queued, processing, completed, failed
	DownloadURL string    `json:"download_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExportProcessor renders report series to spreadsheets and archives them
type ExportProcessor struct {
	aggregator ports.ReportingAggregator
	archive    storage.ArchiveStore
	cache      ports.CacheRepository
	logger     *slog.Logger
}

// NewExportProcessor creates a new export processor
func NewExportProcessor(aggregator ports.ReportingAggregator, archive storage.ArchiveStore, cache ports.CacheRepository, logger *slog.Logger) *ExportProcessor {
	return &ExportProcessor{
		aggregator: aggregator,
		archive:    archive,
		cache:      cache,
		logger:     logger.With(slog.String("processor", "export")),
	}
}

// ProcessExport handles one queued export job
func (p *ExportProcessor) ProcessExport(ctx context.Context, t *asynq.Task) error {
	var payload ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing export",
		slog.String("job_id", payload.JobID),
		slog.String("granularity", payload.Granularity))

	p.setStatus(ctx, payload.JobID, ExportStatus{
		JobID:     payload.JobID,
		Status:    "processing",
		UpdatedAt: time.Now(),
	})

	granularity := domain.Granularity(payload.Granularity)
	buckets, err := p.aggregator.Aggregate(ctx, payload.From, payload.To, granularity)
	if err != nil {
		p.failJob(ctx, payload.JobID, err)
		return fmt.Errorf("failed to aggregate report: %w", err)
	}

	breakdown, err := p.aggregator.CategoryBreakdown(ctx, payload.From, payload.To)
	if err != nil {
		p.failJob(ctx, payload.JobID, err)
		return fmt.Errorf("failed to aggregate categories: %w", err)
	}

	data, err := p.render(buckets, breakdown, granularity)
	if err != nil {
		p.failJob(ctx, payload.JobID, err)
		return fmt.Errorf("failed to render spreadsheet: %w", err)
	}

	key := storage.ExportKey(payload.JobID, time.Now())
	if _, err := p.archive.Upload(ctx, key, bytes.NewReader(data), xlsxContentType); err != nil {
		p.failJob(ctx, payload.JobID, err)
		return fmt.Errorf("failed to archive export: %w", err)
	}

	url, err := p.archive.GetPresignedURL(ctx, key, 24*time.Hour)
	if err != nil {
		p.failJob(ctx, payload.JobID, err)
		return fmt.Errorf("failed to presign export: %w", err)
	}

	p.setStatus(ctx, payload.JobID, ExportStatus{
		JobID:       payload.JobID,
		Status:      "completed",
		DownloadURL: url,
		UpdatedAt:   time.Now(),
	})

	p.logger.InfoContext(ctx, "export completed",
		slog.String("job_id", payload.JobID),
		slog.String("key", key),
		slog.Int("buckets", len(buckets)))

	return nil
}

func (p *ExportProcessor) render(buckets []domain.ReportBucket, breakdown map[domain.ProductCategory]domain.CategoryTotals, granularity domain.Granularity) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Movements")
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"Period Start", "Period End", "Stock In", "Stock Out", "Net Change", "Ending Quantity"} {
		header.AddCell().SetString(h)
	}

	for _, bucket := range buckets {
		row := sheet.AddRow()
		row.AddCell().SetString(bucket.PeriodStart.Format("2006-01-02"))
		row.AddCell().SetString(bucket.PeriodEnd.Format("2006-01-02"))
		row.AddCell().SetInt(bucket.TotalIn)
		row.AddCell().SetInt(bucket.TotalOut)
		row.AddCell().SetInt(bucket.NetChange)
		row.AddCell().SetInt64(bucket.EndingQuantity)
	}

	catSheet, err := file.AddSheet("Categories")
	if err != nil {
		return nil, fmt.Errorf("failed to add category sheet: %w", err)
	}

	catHeader := catSheet.AddRow()
	for _, h := range []string{"Category", "Stock In", "Stock Out", "Net Change"} {
		catHeader.AddCell().SetString(h)
	}

	for category, totals := range breakdown {
		row := catSheet.AddRow()
		row.AddCell().SetString(string(category))
		row.AddCell().SetInt(totals.TotalIn)
		row.AddCell().SetInt(totals.TotalOut)
		row.AddCell().SetInt(totals.TotalIn - totals.TotalOut)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	return buf.Bytes(), nil
}

func (p *ExportProcessor) failJob(ctx context.Context, jobID string, cause error) {
	p.setStatus(ctx, jobID, ExportStatus{
		JobID:     jobID,
		Status:    "failed",
		Error:     cause.Error(),
		UpdatedAt: time.Now(),
	})
}

func (p *ExportProcessor) setStatus(ctx context.Context, jobID string, status ExportStatus) {
	key := redis_a.BuildKey(redis_a.PrefixExport, jobID)
	if err := p.cache.SetWithTTL(ctx, key, status, 48*time.Hour); err != nil {
		p.logger.WarnContext(ctx, "failed to persist export status",
			slog.String("job_id", jobID),
			"err", err)
	}
}

// LookupExportStatus reads the cached status for an export job
func LookupExportStatus(ctx context.Context, cache ports.CacheRepository, jobID string) (*ExportStatus, error) {
	var status ExportStatus
	key := redis_a.BuildKey(redis_a.PrefixExport, jobID)
	if err := cache.Get(ctx, key, &status); err != nil {
		if err == redis_a.ErrCacheMiss {
			return nil, domain.NotFoundError{Resource: "export", Key: jobID}
		}
		return nil, err
	}
	return &status, nil
}
