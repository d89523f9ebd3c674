// internal/core/ports/product_repository.go
package ports

import (
	"context"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence port for the product catalog.
// This interface is implemented by the database adapter. Quantity is never
// written through this port; only the ledger's movement transaction touches
// it.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	FindAll(ctx context.Context, params ProductQuery) ([]*domain.Product, int64, error)
	FindLowStock(ctx context.Context, limit int) ([]*domain.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ProductQuery holds filters for listing products
type ProductQuery struct {
	Search    string
	Category  string
	Location  string
	LowStock  bool
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}
