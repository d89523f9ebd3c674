// internal/workers/lowstock_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hibiken/asynq"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// dedupeWindow bounds how often the same product can fire a webhook. Signals
// are delivered at-least-once upstream, so the consumer side collapses
// duplicates here.
const dedupeWindow = 15 * time.Minute

// LowStockProcessor delivers low stock alerts to the configured webhook
type LowStockProcessor struct {
	cache      ports.CacheRepository
	http       *resty.Client
	webhookURL string
	logger     *slog.Logger
}

// NewLowStockProcessor creates a new low stock alert processor
func NewLowStockProcessor(cache ports.CacheRepository, webhookURL string, logger *slog.Logger) *LowStockProcessor {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second)

	return &LowStockProcessor{
		cache:      cache,
		http:       client,
		webhookURL: webhookURL,
		logger:     logger.With(slog.String("processor", "lowstock")),
	}
}

// ProcessAlert handles one queued low stock signal
func (p *LowStockProcessor) ProcessAlert(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	// Collapse duplicate alerts for the same product within the window.
	dedupeKey := redis_a.BuildKey(redis_a.PrefixLowStock, payload.ProductID.String())
	fresh, err := p.cache.SetNX(ctx, dedupeKey, payload.At, dedupeWindow)
	if err != nil {
		p.logger.WarnContext(ctx, "dedupe check failed, delivering anyway",
			slog.String("product_id", payload.ProductID.String()),
			"err", err)
	} else if !fresh {
		p.logger.InfoContext(ctx, "duplicate alert suppressed",
			slog.String("product_id", payload.ProductID.String()))
		return nil
	}

	if p.webhookURL == "" {
		p.logger.InfoContext(ctx, "no webhook configured, alert logged only",
			slog.String("sku", payload.SKU),
			slog.Int("quantity", payload.Quantity),
			slog.Int("threshold", payload.Threshold))
		return nil
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":      "low_stock",
			"product_id": payload.ProductID,
			"sku":        payload.SKU,
			"name":       payload.Name,
			"quantity":   payload.Quantity,
			"threshold":  payload.Threshold,
			"at":         payload.At,
		}).
		Post(p.webhookURL)

	if err != nil {
		return fmt.Errorf("failed to deliver low stock webhook: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	p.logger.InfoContext(ctx, "low stock alert delivered",
		slog.String("product_id", payload.ProductID.String()),
		slog.String("sku", payload.SKU),
		slog.Int("status", resp.StatusCode()))

	return nil
}
