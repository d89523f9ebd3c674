// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockops/ledger-be/internal/adapters/storage"
)

// exportRetention is how long archived export files are kept. Presigned URLs
// expire well before this.
const exportRetention = 90 * 24 * time.Hour

// CleanupProcessor removes expired export files from the archive
type CleanupProcessor struct {
	archive storage.ArchiveStore
	logger  *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(archive storage.ArchiveStore, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		archive: archive,
		logger:  logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupExports deletes archived exports past retention. Export keys embed
// their year and month, so age is derived from the key itself.
func (p *CleanupProcessor) CleanupExports(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up expired exports")

	keys, err := p.archive.List(ctx, "exports/")
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}

	cutoff := time.Now().Add(-exportRetention)
	var deleted int

	for _, key := range keys {
		// exports/2006/01/<job>.xlsx
		parts := strings.Split(key, "/")
		if len(parts) < 4 {
			continue
		}

		month, err := time.Parse("2006/01", parts[1]+"/"+parts[2])
		if err != nil {
			continue
		}

		// Keep everything from the cutoff month onward.
		if !month.AddDate(0, 1, 0).Before(cutoff) {
			continue
		}

		if err := p.archive.Delete(ctx, key); err != nil {
			p.logger.WarnContext(ctx, "failed to delete expired export",
				slog.String("key", key),
				"err", err)
			continue
		}
		deleted++
	}

	p.logger.InfoContext(ctx, "export cleanup finished",
		slog.Int("scanned", len(keys)),
		slog.Int("deleted", deleted))

	return nil
}
