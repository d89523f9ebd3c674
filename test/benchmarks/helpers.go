// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// memoryLedger is an in-memory MovementRepository so the aggregation
// benchmarks measure bucketing cost, not database round-trips.
type memoryLedger struct {
	records []domain.MovementRecord
}

func newMemoryLedger(records []domain.MovementRecord) *memoryLedger {
	return &memoryLedger{records: records}
}

func (m *memoryLedger) ApplyMovement(_ context.Context, record *domain.MovementRecord) error {
	record.Sequence = int64(len(m.records) + 1)
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryLedger) ListByProduct(_ context.Context, productID uuid.UUID, from, to *time.Time) ([]domain.MovementRecord, error) {
	var out []domain.MovementRecord
	for _, rec := range m.records {
		if rec.ProductID != productID {
			continue
		}
		if from != nil && rec.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && rec.CreatedAt.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryLedger) List(_ context.Context, filter ports.MovementFilter) ([]domain.MovementRecord, int64, error) {
	var out []domain.MovementRecord
	for _, rec := range m.records {
		if filter.ProductID != nil && rec.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.From != nil && rec.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !rec.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (m *memoryLedger) ListWithCategory(_ context.Context, from, to time.Time) ([]ports.CategorizedMovement, error) {
	var out []ports.CategorizedMovement
	for _, rec := range m.records {
		if rec.CreatedAt.Before(from) || !rec.CreatedAt.Before(to) {
			continue
		}
		category := domain.CategoryTools
		if rec.Sequence%2 == 0 {
			category = domain.CategoryPackaging
		}
		out = append(out, ports.CategorizedMovement{MovementRecord: rec, Category: category})
	}
	return out, nil
}

func (m *memoryLedger) SumDeltas(_ context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, rec := range m.records {
		if rec.ProductID == productID {
			sum += int64(rec.Delta)
		}
	}
	return sum, nil
}

func (m *memoryLedger) SumDeltasBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var sum int64
	for _, rec := range m.records {
		if rec.CreatedAt.Before(cutoff) {
			sum += int64(rec.Delta)
		}
	}
	return sum, nil
}

func (m *memoryLedger) CategoryBreakdown(_ context.Context, _, _ time.Time) ([]ports.CategoryMovementRow, error) {
	return nil, nil
}

// generateMovements builds a synthetic ledger of numRecords movements for
// numProducts products, spread evenly across the given span ending now.
// Deltas alternate so running totals stay near zero.
func generateMovements(numRecords, numProducts int, span time.Duration) []domain.MovementRecord {
	productIDs := make([]uuid.UUID, numProducts)
	for i := range productIDs {
		productIDs[i] = uuid.New()
	}

	start := time.Now().UTC().Add(-span)
	step := span / time.Duration(numRecords)

	records := make([]domain.MovementRecord, numRecords)
	for i := range records {
		movementType := domain.MovementStockIn
		delta := 5
		if i%2 == 1 {
			movementType = domain.MovementStockOut
			delta = -3
		}
		records[i] = domain.MovementRecord{
			ID:        uuid.New(),
			ProductID: productIDs[i%numProducts],
			Type:      movementType,
			Delta:     delta,
			Actor:     fmt.Sprintf("bench-%d", i%7),
			Sequence:  int64(i/numProducts + 1),
			CreatedAt: start.Add(time.Duration(i) * step),
		}
	}
	return records
}
