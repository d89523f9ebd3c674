package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockops/ledger-be/internal/core/domain"
)

func TestMovementType_Valid(t *testing.T) {
	assert.True(t, domain.MovementStockIn.Valid())
	assert.True(t, domain.MovementStockOut.Valid())
	assert.True(t, domain.MovementAdjustment.Valid())
	assert.False(t, domain.MovementType("transfer").Valid())
	assert.False(t, domain.MovementType("").Valid())
}

func TestDeltaFor(t *testing.T) {
	tests := []struct {
		name         string
		movementType domain.MovementType
		magnitude    int
		wantDelta    int
		wantError    bool
	}{
		{name: "stock_in_positive", movementType: domain.MovementStockIn, magnitude: 5, wantDelta: 5},
		{name: "stock_in_rejects_zero", movementType: domain.MovementStockIn, magnitude: 0, wantError: true},
		{name: "stock_in_rejects_negative", movementType: domain.MovementStockIn, magnitude: -5, wantError: true},
		{name: "stock_out_negates_magnitude", movementType: domain.MovementStockOut, magnitude: 7, wantDelta: -7},
		{name: "stock_out_rejects_zero", movementType: domain.MovementStockOut, magnitude: 0, wantError: true},
		{name: "stock_out_rejects_negative", movementType: domain.MovementStockOut, magnitude: -3, wantError: true},
		{name: "adjustment_passes_positive", movementType: domain.MovementAdjustment, magnitude: 4, wantDelta: 4},
		{name: "adjustment_passes_negative", movementType: domain.MovementAdjustment, magnitude: -4, wantDelta: -4},
		{name: "adjustment_rejects_zero", movementType: domain.MovementAdjustment, magnitude: 0, wantError: true},
		{name: "unknown_type", movementType: domain.MovementType("transfer"), magnitude: 1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, err := domain.DeltaFor(tt.movementType, tt.magnitude)

			if tt.wantError {
				require.Error(t, err)
				var valErr domain.ValidationError
				assert.ErrorAs(t, err, &valErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantDelta, delta)
			}
		})
	}
}

func TestMovementRecord_Validate(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name      string
		record    *domain.MovementRecord
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid_stock_in",
			record: &domain.MovementRecord{ProductID: productID, Type: domain.MovementStockIn, Delta: 10},
		},
		{
			name:   "valid_stock_out",
			record: &domain.MovementRecord{ProductID: productID, Type: domain.MovementStockOut, Delta: -4},
		},
		{
			name:   "valid_negative_adjustment",
			record: &domain.MovementRecord{ProductID: productID, Type: domain.MovementAdjustment, Delta: -2},
		},
		{
			name:      "missing_product_id",
			record:    &domain.MovementRecord{Type: domain.MovementStockIn, Delta: 1},
			wantError: true,
			errorMsg:  "product_id is required",
		},
		{
			name:      "unknown_type",
			record:    &domain.MovementRecord{ProductID: productID, Type: "transfer", Delta: 1},
			wantError: true,
			errorMsg:  "type must be stock_in, stock_out or adjustment",
		},
		{
			name:      "zero_delta",
			record:    &domain.MovementRecord{ProductID: productID, Type: domain.MovementAdjustment, Delta: 0},
			wantError: true,
			errorMsg:  "delta cannot be zero",
		},
		{
			name:      "stock_in_with_negative_delta",
			record:    &domain.MovementRecord{ProductID: productID, Type: domain.MovementStockIn, Delta: -1},
			wantError: true,
			errorMsg:  "stock_in delta must be positive",
		},
		{
			name:      "stock_out_with_positive_delta",
			record:    &domain.MovementRecord{ProductID: productID, Type: domain.MovementStockOut, Delta: 1},
			wantError: true,
			errorMsg:  "stock_out delta must be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMovementRecord_PrepareForStorage(t *testing.T) {
	rec := &domain.MovementRecord{
		ProductID: uuid.New(),
		Type:      domain.MovementStockIn,
		Delta:     3,
	}
	rec.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	// Sequence assignment belongs to the store, not the record.
	assert.Zero(t, rec.Sequence)
}
