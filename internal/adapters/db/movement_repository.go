// internal/adapters/db/movement_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// movementRepository implements ports.MovementRepository on the append-only
// stock_movements table. Rows are never updated or deleted.
type movementRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *Database, logger *slog.Logger) ports.MovementRepository {
	return &movementRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "movements")),
	}
}

// ApplyMovement appends the record and shifts the product's cached quantity
// by the record's delta in a single transaction. The product row is locked
// for the duration so the per-product sequence stays gap-free and monotonic,
// and no reader ever sees the appended record without the matching
// projection. The relative update keeps the projection equal to the sum of
// appended deltas even if two writers race past the in-process lock.
func (r *movementRepository) ApplyMovement(ctx context.Context, record *domain.MovementRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var lockedID uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			record.ProductID,
		).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ValidationError{Field: "product_id", Reason: "unknown product"}
			}
			return err
		}

		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(sequence), 0) + 1 FROM stock_movements WHERE product_id = $1`,
			record.ProductID,
		).Scan(&record.Sequence)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO stock_movements (
				id, product_id, type, delta, reason, actor, sequence, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			record.ID, record.ProductID, record.Type, record.Delta,
			record.Reason, record.Actor, record.Sequence, record.CreatedAt,
		)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE products SET quantity = quantity + $2, updated_at = $3 WHERE id = $1`,
			record.ProductID, record.Delta, record.CreatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("projection update touched no rows for product %s", record.ProductID)
		}

		return nil
	})

	if err != nil {
		var vErr domain.ValidationError
		if errors.As(err, &vErr) {
			return vErr
		}
		return domain.DurabilityError{Op: "apply_movement", Err: err}
	}

	r.logger.DebugContext(ctx, "movement applied",
		slog.String("movement_id", record.ID.String()),
		slog.String("product_id", record.ProductID.String()),
		slog.Int64("sequence", record.Sequence),
		slog.Int("delta", record.Delta))

	return nil
}

// ListByProduct returns the product's records ordered by (created_at,
// sequence) ascending, optionally bounded in time (inclusive bounds).
func (r *movementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, from, to *time.Time) ([]domain.MovementRecord, error) {
	qb := squirrel.Select(
		"id", "product_id", "type", "delta", "reason", "actor", "sequence", "created_at",
	).From("stock_movements").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at ASC", "sequence ASC").
		PlaceholderFormat(squirrel.Dollar)

	if from != nil {
		qb = qb.Where(squirrel.GtOrEq{"created_at": *from})
	}
	if to != nil {
		qb = qb.Where(squirrel.LtOrEq{"created_at": *to})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows)
}

// List returns records matching the filter ordered by (created_at, sequence)
// ascending, plus the total matching count. The time range is half-open:
// from inclusive, to exclusive.
func (r *movementRepository) List(ctx context.Context, filter ports.MovementFilter) ([]domain.MovementRecord, int64, error) {
	conds := movementConds(filter)

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("stock_movements").
		Where(conds).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	qb := squirrel.Select(
		"id", "product_id", "type", "delta", "reason", "actor", "sequence", "created_at",
	).From("stock_movements").
		Where(conds).
		OrderBy("created_at ASC", "sequence ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	records, err := scanMovements(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListWithCategory returns all records in [from, to) joined with their
// product's category. The join deliberately ignores deleted_at so history of
// removed products keeps its category in reports.
func (r *movementRepository) ListWithCategory(ctx context.Context, from, to time.Time) ([]ports.CategorizedMovement, error) {
	query := `
		SELECT
			m.id, m.product_id, m.type, m.delta, m.reason, m.actor,
			m.sequence, m.created_at, p.category
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.created_at >= $1 AND m.created_at < $2
		ORDER BY m.created_at ASC, m.sequence ASC`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query categorized movements: %w", err)
	}
	defer rows.Close()

	var records []ports.CategorizedMovement
	for rows.Next() {
		var rec ports.CategorizedMovement
		var reason, actor sql.NullString

		err := rows.Scan(
			&rec.ID, &rec.ProductID, &rec.Type, &rec.Delta,
			&reason, &actor, &rec.Sequence, &rec.CreatedAt, &rec.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan categorized movement: %w", err)
		}

		rec.Reason = reason.String
		rec.Actor = actor.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// SumDeltas replays the full log for one product
func (r *movementRepository) SumDeltas(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum deltas: %w", err)
	}
	return sum, nil
}

// SumDeltasBefore sums all deltas strictly before the cutoff across products
func (r *movementRepository) SumDeltasBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE created_at < $1`,
		cutoff,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum deltas before cutoff: %w", err)
	}
	return sum, nil
}

// CategoryBreakdown aggregates in/out totals per category over [from, to)
func (r *movementRepository) CategoryBreakdown(ctx context.Context, from, to time.Time) ([]ports.CategoryMovementRow, error) {
	query := `
		SELECT
			p.category,
			COALESCE(SUM(CASE WHEN m.delta > 0 THEN m.delta ELSE 0 END), 0) AS total_in,
			COALESCE(SUM(CASE WHEN m.delta < 0 THEN -m.delta ELSE 0 END), 0) AS total_out
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.created_at >= $1 AND m.created_at < $2
		GROUP BY p.category
		ORDER BY p.category`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	var result []ports.CategoryMovementRow
	for rows.Next() {
		var row ports.CategoryMovementRow
		if err := rows.Scan(&row.Category, &row.TotalIn, &row.TotalOut); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// movementConds translates a filter into squirrel conditions shared by the
// count and page queries. The time range is half-open: from inclusive, to
// exclusive.
func movementConds(filter ports.MovementFilter) squirrel.And {
	conds := squirrel.And{}
	if filter.ProductID != nil {
		conds = append(conds, squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.Type != "" {
		conds = append(conds, squirrel.Eq{"type": filter.Type})
	}
	if filter.Actor != "" {
		conds = append(conds, squirrel.Eq{"actor": filter.Actor})
	}
	if filter.From != nil {
		conds = append(conds, squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		conds = append(conds, squirrel.Lt{"created_at": *filter.To})
	}
	if len(conds) == 0 {
		conds = append(conds, squirrel.Expr("TRUE"))
	}
	return conds
}

func scanMovements(rows pgx.Rows) ([]domain.MovementRecord, error) {
	var records []domain.MovementRecord
	for rows.Next() {
		var rec domain.MovementRecord
		var reason, actor sql.NullString

		err := rows.Scan(
			&rec.ID, &rec.ProductID, &rec.Type, &rec.Delta,
			&reason, &actor, &rec.Sequence, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement record: %w", err)
		}

		rec.Reason = reason.String
		rec.Actor = actor.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}
