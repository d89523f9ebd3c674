package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockops/ledger-be/internal/core/domain"
)

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   *domain.Product
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_product_with_all_fields",
			product: &domain.Product{
				SKU:               "TOO-A1B2C3D4",
				Barcode:           "4006381333931",
				Name:              "Cordless Drill",
				Category:          domain.CategoryTools,
				UnitPrice:         decimal.NewFromFloat(89.99),
				CostPrice:         decimal.NewFromFloat(42.00),
				LowStockThreshold: 5,
			},
			wantError: false,
		},
		{
			name: "missing_name",
			product: &domain.Product{
				SKU:       "TOO-A1B2C3D4",
				UnitPrice: decimal.NewFromFloat(10),
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "missing_sku",
			product: &domain.Product{
				Name:      "Cordless Drill",
				UnitPrice: decimal.NewFromFloat(10),
			},
			wantError: true,
			errorMsg:  "sku is required",
		},
		{
			name: "negative_unit_price",
			product: &domain.Product{
				SKU:       "TOO-A1B2C3D4",
				Name:      "Cordless Drill",
				UnitPrice: decimal.NewFromFloat(-1),
			},
			wantError: true,
			errorMsg:  "unit_price cannot be negative",
		},
		{
			name: "negative_cost_price",
			product: &domain.Product{
				SKU:       "TOO-A1B2C3D4",
				Name:      "Cordless Drill",
				CostPrice: decimal.NewFromFloat(-0.01),
			},
			wantError: true,
			errorMsg:  "cost_price cannot be negative",
		},
		{
			name: "negative_threshold",
			product: &domain.Product{
				SKU:               "TOO-A1B2C3D4",
				Name:              "Cordless Drill",
				LowStockThreshold: -1,
			},
			wantError: true,
			errorMsg:  "low_stock_threshold cannot be negative",
		},
		{
			name: "sets_default_category_when_empty",
			product: &domain.Product{
				SKU:  "TOO-A1B2C3D4",
				Name: "Cordless Drill",
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				var valErr domain.ValidationError
				assert.ErrorAs(t, err, &valErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, tt.product.Category)
			}
		})
	}
}

func TestProduct_PrepareForStorage(t *testing.T) {
	p := &domain.Product{
		Name:     "Packing Tape",
		Category: domain.CategoryPackaging,
		Barcode:  "  4006381333931  ",
	}
	p.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.NotEmpty(t, p.SKU)
	assert.True(t, strings.HasPrefix(p.SKU, "PAC-"), "SKU %q should carry the category prefix", p.SKU)
	assert.Equal(t, domain.DefaultLowStockThreshold, p.LowStockThreshold)
	assert.Equal(t, "4006381333931", p.Barcode)
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestProduct_PrepareForStorage_PreservesIdentity(t *testing.T) {
	id := uuid.New()
	p := &domain.Product{
		ID:                id,
		SKU:               "TOO-EXISTING",
		Name:              "Cordless Drill",
		LowStockThreshold: 3,
	}
	p.PrepareForStorage()

	assert.Equal(t, id, p.ID)
	assert.Equal(t, "TOO-EXISTING", p.SKU)
	assert.Equal(t, 3, p.LowStockThreshold)
}

func TestProduct_IsLowStock(t *testing.T) {
	p := &domain.Product{LowStockThreshold: 10}

	p.Quantity = 11
	assert.False(t, p.IsLowStock())

	p.Quantity = 10
	assert.True(t, p.IsLowStock(), "quantity at the threshold counts as low")

	p.Quantity = 0
	assert.True(t, p.IsLowStock())
}

func TestProduct_StockValue(t *testing.T) {
	p := &domain.Product{
		UnitPrice: decimal.NewFromFloat(2.50),
		Quantity:  40,
	}
	assert.True(t, p.StockValue().Equal(decimal.NewFromInt(100)),
		"expected 100, got %s", p.StockValue())
}

func TestGenerateSKU(t *testing.T) {
	sku := domain.GenerateSKU(domain.CategoryElectronics)
	assert.True(t, strings.HasPrefix(sku, "ELE-"))
	assert.Len(t, sku, 12)

	// No category falls back to the generic prefix.
	assert.True(t, strings.HasPrefix(domain.GenerateSKU(""), "PRD-"))

	// SKUs are unique across calls.
	assert.NotEqual(t, domain.GenerateSKU(domain.CategoryTools), domain.GenerateSKU(domain.CategoryTools))
}
