// internal/core/domain/product.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory represents product categories
type ProductCategory string

// Category constants
const (
	CategoryApparel     ProductCategory = "apparel"
	CategoryFootwear    ProductCategory = "footwear"
	CategoryAccessories ProductCategory = "accessories"
	CategoryElectronics ProductCategory = "electronics"
	CategoryHousehold   ProductCategory = "household"
	CategoryFood        ProductCategory = "food"
	CategoryBeverages   ProductCategory = "beverages"
	CategoryTools       ProductCategory = "tools"
	CategoryPackaging   ProductCategory = "packaging"
	CategoryOther       ProductCategory = "other"
)

// DefaultLowStockThreshold is applied when a product is created without an
// explicit threshold.
const DefaultLowStockThreshold = 10

// Product represents a catalog entry in the warehouse. Quantity is a derived
// projection over the product's movement history and is only ever written by
// the ledger service; catalog operations must never set it directly.
type Product struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          ProductCategory `json:"category"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	Location          string          `json:"location,omitempty"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Quantity          int             `json:"quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ValidationError{Field: "name", Reason: "name is required"}
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ValidationError{Field: "sku", Reason: "sku is required"}
	}
	if p.UnitPrice.IsNegative() {
		return ValidationError{Field: "unit_price", Reason: "unit_price cannot be negative"}
	}
	if p.CostPrice.IsNegative() {
		return ValidationError{Field: "cost_price", Reason: "cost_price cannot be negative"}
	}
	if p.LowStockThreshold < 0 {
		return ValidationError{Field: "low_stock_threshold", Reason: "low_stock_threshold cannot be negative"}
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	return nil
}

// PrepareForStorage sets identity, defaults and timestamps before persisting
func (p *Product) PrepareForStorage() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.SKU == "" {
		p.SKU = GenerateSKU(p.Category)
	}
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = DefaultLowStockThreshold
	}
	p.Barcode = strings.TrimSpace(p.Barcode)

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// IsLowStock reports whether the current projection sits at or below the
// product's threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// StockValue returns the sell value of the units currently on hand.
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// GenerateSKU produces a category-prefixed SKU for products created without one.
func GenerateSKU(category ProductCategory) string {
	prefix := "PRD"
	if category != "" {
		prefix = strings.ToUpper(string(category))
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}
