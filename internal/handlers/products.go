// internal/handlers/products.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/services"
)

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	catalog *services.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog *services.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("handler", "products")),
	}
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := req.ToDomain()
	if err := h.catalog.CreateProduct(ctx, product); err != nil {
		h.respondCatalogError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		h.respondCatalogError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.catalog.UpdateProduct(ctx, id, req.ToDomain())
	if err != nil {
		h.respondCatalogError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		h.respondCatalogError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Product deleted",
		"product_id": idStr,
	})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.catalog.ListProducts(ctx, h.parseListParams(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		h.respondError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var notFoundErr domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		h.respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	h.logger.ErrorContext(r.Context(), "catalog operation failed",
		slog.String("error", err.Error()))
	h.respondError(w, http.StatusInternalServerError, "Catalog operation failed")
}

func (h *ProductHandler) parseListParams(r *http.Request) services.ListParams {
	params := services.ListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "name",
		SortOrder: "asc",
	}

	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				l = 100
			}
			params.PageSize = l
		}
	}

	params.Search = q.Get("search")
	params.Category = q.Get("category")
	params.Location = q.Get("location")
	params.LowStock = q.Get("low_stock") == "true"

	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

func (h *ProductHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ProductHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// ProductRequest represents the request body for creating or updating a
// product. Quantity is deliberately absent; stock enters through movements.
type ProductRequest struct {
	SKU               string          `json:"sku,omitempty"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CostPrice         decimal.Decimal `json:"cost_price,omitempty"`
	Location          string          `json:"location,omitempty"`
	LowStockThreshold int             `json:"low_stock_threshold,omitempty"`
}

// Validate validates the product request
func (r *ProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.UnitPrice.IsNegative() {
		return fmt.Errorf("unit_price cannot be negative")
	}
	if r.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *ProductRequest) ToDomain() *domain.Product {
	product := &domain.Product{
		SKU:               r.SKU,
		Barcode:           r.Barcode,
		Name:              r.Name,
		Description:       r.Description,
		Category:          domain.ProductCategory(r.Category),
		UnitPrice:         r.UnitPrice,
		CostPrice:         r.CostPrice,
		Location:          r.Location,
		LowStockThreshold: r.LowStockThreshold,
	}

	if product.Category == "" {
		product.Category = domain.CategoryOther
	}

	return product
}
