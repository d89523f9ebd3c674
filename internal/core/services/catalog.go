// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// CatalogService handles product catalog business logic. It never touches
// quantity; stock only moves through the ledger service.
type CatalogService struct {
	repo     ports.ProductRepository
	resolver *BarcodeResolver
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo ports.ProductRepository, resolver *BarcodeResolver, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		resolver: resolver,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// CreateProduct validates and persists a new product
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	product.PrepareForStorage()
	if err := product.Validate(); err != nil {
		return err
	}

	if existing, err := s.repo.FindBySKU(ctx, product.SKU); err != nil {
		return fmt.Errorf("failed to check sku uniqueness: %w", err)
	} else if existing != nil {
		return domain.ValidationError{Field: "sku", Reason: "sku already exists"}
	}

	if product.Barcode != "" {
		if existing, err := s.repo.FindByBarcode(ctx, product.Barcode); err != nil {
			return fmt.Errorf("failed to check barcode uniqueness: %w", err)
		} else if existing != nil {
			return domain.ValidationError{Field: "barcode", Reason: "barcode already exists"}
		}
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.String("sku", product.SKU),
		slog.String("name", product.Name))

	return nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, domain.NotFoundError{Resource: "product", Key: id.String()}
	}
	return product, nil
}

// UpdateProduct updates catalog fields of an existing product. SKU is
// immutable and quantity is ignored entirely.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, update *domain.Product) (*domain.Product, error) {
	current, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	update.ID = id
	update.SKU = current.SKU
	update.Quantity = current.Quantity
	update.CreatedAt = current.CreatedAt
	if update.LowStockThreshold == 0 {
		update.LowStockThreshold = current.LowStockThreshold
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	if update.Barcode != "" && update.Barcode != current.Barcode {
		if existing, err := s.repo.FindByBarcode(ctx, update.Barcode); err != nil {
			return nil, fmt.Errorf("failed to check barcode uniqueness: %w", err)
		} else if existing != nil && existing.ID != id {
			return nil, domain.ValidationError{Field: "barcode", Reason: "barcode already exists"}
		}
	}

	if err := s.repo.Update(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if s.resolver != nil && current.Barcode != "" {
		s.resolver.Invalidate(ctx, current.Barcode)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id.String()))

	return update, nil
}

// DeleteProduct soft deletes a product. Hard deletion is not offered because
// movement history keeps referencing the product forever.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if s.resolver != nil && product.Barcode != "" {
		s.resolver.Invalidate(ctx, product.Barcode)
	}

	s.logger.InfoContext(ctx, "product soft deleted",
		slog.String("product_id", id.String()))

	return nil
}

// ListProducts retrieves products with filtering and pagination
func (s *CatalogService) ListProducts(ctx context.Context, params ListParams) (*ListResult, error) {
	query := ports.ProductQuery{
		Search:    params.Search,
		Category:  params.Category,
		Location:  params.Location,
		LowStock:  params.LowStock,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Limit:     params.PageSize,
	}
	if params.Page > 1 {
		query.Offset = (params.Page - 1) * params.PageSize
	}

	products, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var totalPages int
	if params.PageSize > 0 {
		totalPages = int(total) / params.PageSize
		if int(total)%params.PageSize > 0 {
			totalPages++
		}
	}

	return &ListResult{
		Products:   products,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
