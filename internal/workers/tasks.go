// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

const (
	TypeLowStockAlert  = "lowstock:alert"
	TypeLedgerAudit    = "ledger:audit"
	TypeReportExport   = "report:export"
	TypeCleanupExports = "cleanup:exports"
)

// LowStockPayload carries one low stock signal to the alert processor
type LowStockPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}

// ExportPayload describes a report export job
type ExportPayload struct {
	JobID       string    `json:"job_id"`
	Granularity string    `json:"granularity"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	RequestedBy string    `json:"requested_by,omitempty"`
}

// Enqueuer submits background tasks through asynq. It is the write side of
// the worker pipeline; processors in this package are the read side.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

// Statically assert that *Enqueuer delivers low stock signals.
var _ ports.LowStockNotifier = (*Enqueuer)(nil)

// NewEnqueuer creates a task enqueuer backed by the given asynq client
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger.With(slog.String("component", "enqueuer")),
	}
}

// NotifyLowStock queues a low stock alert. Delivery is at-least-once; the
// alert processor deduplicates on the consumer side.
func (e *Enqueuer) NotifyLowStock(ctx context.Context, signal domain.LowStockSignal) error {
	payload := LowStockPayload{
		ProductID: signal.ProductID,
		SKU:       signal.SKU,
		Name:      signal.Name,
		Quantity:  signal.Quantity,
		Threshold: signal.Threshold,
		At:        signal.At,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal low stock payload: %w", err)
	}

	task := asynq.NewTask(TypeLowStockAlert, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("critical"),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to enqueue low stock alert: %w", err)
	}

	e.logger.InfoContext(ctx, "low stock alert queued",
		slog.String("task_id", info.ID),
		slog.String("product_id", signal.ProductID.String()),
		slog.Int("quantity", signal.Quantity))

	return nil
}

// EnqueueExport queues a report export job and returns the job ID
func (e *Enqueuer) EnqueueExport(ctx context.Context, payload ExportPayload) (string, error) {
	if payload.JobID == "" {
		payload.JobID = uuid.New().String()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal export payload: %w", err)
	}

	task := asynq.NewTask(TypeReportExport, b)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue export: %w", err)
	}

	e.logger.InfoContext(ctx, "export job queued",
		slog.String("task_id", info.ID),
		slog.String("job_id", payload.JobID))

	return payload.JobID, nil
}

// EnqueueAudit queues a full ledger audit run
func (e *Enqueuer) EnqueueAudit(ctx context.Context) error {
	task := asynq.NewTask(TypeLedgerAudit, nil)
	_, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("low"),
		asynq.MaxRetry(1))
	if err != nil {
		return fmt.Errorf("failed to enqueue audit: %w", err)
	}
	return nil
}

// EnqueueCleanup queues a sweep of expired export archives
func (e *Enqueuer) EnqueueCleanup(ctx context.Context) error {
	task := asynq.NewTask(TypeCleanupExports, nil)
	_, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("low"),
		asynq.MaxRetry(1))
	if err != nil {
		return fmt.Errorf("failed to enqueue cleanup: %w", err)
	}
	return nil
}
