// internal/workers/audit_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/ports"
	"github.com/stockops/ledger-be/internal/core/services"
)

// AuditProcessor replays the full movement log and compares it against the
// cached projections. Scheduled nightly; drift indicates a write outside the
// movement transaction and is worth paging on.
type AuditProcessor struct {
	projector *services.QuantityProjector
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// NewAuditProcessor creates a new audit processor
func NewAuditProcessor(projector *services.QuantityProjector, cache ports.CacheRepository, logger *slog.Logger) *AuditProcessor {
	return &AuditProcessor{
		projector: projector,
		cache:     cache,
		logger:    logger.With(slog.String("processor", "audit")),
	}
}

// auditReport is the cached result of the latest audit run
type auditReport struct {
	RanAt   time.Time              `json:"ran_at"`
	Drifted []services.AuditResult `json:"drifted"`
	Healthy bool                   `json:"healthy"`
}

// ProcessAudit runs a full reconciliation pass
func (p *AuditProcessor) ProcessAudit(ctx context.Context, t *asynq.Task) error {
	start := time.Now()
	p.logger.InfoContext(ctx, "starting ledger audit")

	drifted, err := p.projector.Audit(ctx)
	if err != nil {
		return fmt.Errorf("audit run failed: %w", err)
	}

	report := auditReport{
		RanAt:   start,
		Drifted: drifted,
		Healthy: len(drifted) == 0,
	}

	key := redis_a.BuildKey(redis_a.PrefixReport, "audit", "latest")
	if err := p.cache.SetWithTTL(ctx, key, report, 48*time.Hour); err != nil {
		p.logger.WarnContext(ctx, "failed to cache audit report", "err", err)
	}

	if len(drifted) > 0 {
		b, _ := json.Marshal(drifted)
		p.logger.ErrorContext(ctx, "ledger audit found drift",
			slog.Int("drifted", len(drifted)),
			slog.String("details", string(b)))
	} else {
		p.logger.InfoContext(ctx, "ledger audit clean",
			slog.Duration("took", time.Since(start)))
	}

	return nil
}
