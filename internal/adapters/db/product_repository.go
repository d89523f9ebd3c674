// internal/adapters/db/product_repository.go
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

const productColumns = `id, sku, barcode, name, description, category,
	unit_price, cost_price, location, low_stock_threshold, quantity,
	created_at, updated_at`

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "products")),
	}
}

// Save creates a new product. Quantity starts at zero; on-hand stock arrives
// through the ledger as movements.
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, sku, barcode, name, description, category,
			unit_price, cost_price, location, low_stock_threshold,
			quantity, created_at, updated_at
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		product.ID, product.SKU, product.Barcode, product.Name, product.Description,
		product.Category, product.UnitPrice, product.CostPrice, product.Location,
		product.LowStockThreshold, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	product.Quantity = 0

	r.logger.DebugContext(ctx, "product saved",
		slog.String("product_id", product.ID.String()),
		slog.String("sku", product.SKU))

	return nil
}

// Update updates catalog fields of an existing product. Quantity is
// deliberately absent from the statement; only the movement transaction
// writes it.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products SET
			barcode = NULLIF($2, ''), name = $3, description = $4, category = $5,
			unit_price = $6, cost_price = $7, location = $8,
			low_stock_threshold = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL`

	product.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Barcode, product.Name, product.Description, product.Category,
		product.UnitPrice, product.CostPrice, product.Location,
		product.LowStockThreshold, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Resource: "product", Key: product.ID.String()}
	}

	r.logger.DebugContext(ctx, "product updated",
		slog.String("product_id", product.ID.String()))

	return nil
}

// FindByID retrieves a product by ID, nil when absent
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

// FindBySKU retrieves a product by SKU, nil when absent
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, sku)
}

// FindByBarcode retrieves a product by exact barcode match, nil when absent
func (r *productRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, barcode)
}

func (r *productRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

// FindAll retrieves products with filtering and pagination
func (r *productRepository) FindAll(ctx context.Context, params ports.ProductQuery) ([]*domain.Product, int64, error) {
	conds := squirrel.And{squirrel.Expr("deleted_at IS NULL")}

	if params.Search != "" {
		like := "%" + params.Search + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"sku": like},
			squirrel.ILike{"barcode": like},
		})
	}
	if params.Category != "" {
		conds = append(conds, squirrel.Eq{"category": params.Category})
	}
	if params.Location != "" {
		conds = append(conds, squirrel.Eq{"location": params.Location})
	}
	if params.LowStock {
		conds = append(conds, squirrel.Expr("quantity <= low_stock_threshold"))
	}

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("products").
		Where(conds).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy := "name ASC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		switch params.SortBy {
		case "quantity":
			orderBy = fmt.Sprintf("quantity %s", direction)
		case "sku":
			orderBy = fmt.Sprintf("sku %s", direction)
		case "created":
			orderBy = fmt.Sprintf("created_at %s", direction)
		default:
			orderBy = fmt.Sprintf("name %s", direction)
		}
	}

	qb := squirrel.Select(
		"id", "sku", "barcode", "name", "description", "category",
		"unit_price", "cost_price", "location", "low_stock_threshold", "quantity",
		"created_at", "updated_at",
	).From("products").
		Where(conds).
		OrderBy(orderBy).
		PlaceholderFormat(squirrel.Dollar)

	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, total, nil
}

// FindLowStock returns products at or below their threshold, lowest first
func (r *productRepository) FindLowStock(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL AND quantity <= low_stock_threshold
		ORDER BY quantity ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// SoftDelete marks a product as deleted. The row stays because movement
// history references it.
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, now,
	)
	if err != nil {
		return fmt.Errorf("failed to soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Resource: "product", Key: id.String()}
	}

	r.logger.InfoContext(ctx, "product soft deleted",
		slog.String("product_id", id.String()))

	return nil
}

// Exists checks if a product exists
func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of products
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product := &domain.Product{}
	var barcode, description, location sql.NullString

	err := row.Scan(
		&product.ID, &product.SKU, &barcode, &product.Name, &description,
		&product.Category, &product.UnitPrice, &product.CostPrice, &location,
		&product.LowStockThreshold, &product.Quantity,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Barcode = barcode.String
	product.Description = description.String
	product.Location = location.String

	return product, nil
}
