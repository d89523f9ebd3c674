// internal/core/services/ledger_test.go
package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/ports"
	"github.com/stockops/ledger-be/internal/core/services"
	"github.com/stockops/ledger-be/test/helpers"
	"github.com/stockops/ledger-be/test/mocks"
)

func newTestLedger(t *testing.T, policy services.StockPolicy,
	products ports.ProductRepository, movements ports.MovementRepository,
	notifier ports.LowStockNotifier) *services.LedgerService {
	t.Helper()
	logger := helpers.TestSlogger()
	projector := services.NewQuantityProjector(products, movements, policy, logger)
	return services.NewLedgerService(products, movements, projector, notifier, logger)
}

func TestLedgerService_RecordMovement(t *testing.T) {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 10
	})

	tests := []struct {
		name          string
		policy        services.StockPolicy
		req           ports.MovementRequest
		setupMocks    func(*mocks.MockProductRepository, *mocks.MockMovementRepository)
		wantError     bool
		errorContains string
	}{
		{
			name:   "stock_in_increases_quantity",
			policy: services.PolicyStrict,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockIn,
				Quantity:  5,
				Reason:    "receiving",
				Actor:     "dock-1",
			},
			setupMocks: func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {
				p.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)
				m.EXPECT().
					ApplyMovement(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *domain.MovementRecord) error {
						assert.Equal(t, 5, rec.Delta)
						assert.Equal(t, "receiving", rec.Reason)
						assert.Equal(t, "dock-1", rec.Actor)
						assert.NotEqual(t, uuid.Nil, rec.ID)
						return nil
					})
			},
		},
		{
			name:   "stock_out_decreases_quantity",
			policy: services.PolicyStrict,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockOut,
				Quantity:  4,
			},
			setupMocks: func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {
				p.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)
				m.EXPECT().
					ApplyMovement(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *domain.MovementRecord) error {
						assert.Equal(t, -4, rec.Delta)
						return nil
					})
			},
		},
		{
			name:   "rejects_zero_quantity_before_touching_store",
			policy: services.PolicyStrict,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockIn,
				Quantity:  0,
			},
			setupMocks:    func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {},
			wantError:     true,
			errorContains: "quantity must be positive",
		},
		{
			name:   "unknown_product",
			policy: services.PolicyStrict,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockIn,
				Quantity:  1,
			},
			setupMocks: func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {
				p.EXPECT().FindByID(gomock.Any(), product.ID).Return(nil, nil)
			},
			wantError:     true,
			errorContains: "not found",
		},
		{
			name:   "strict_rejects_overdraw",
			policy: services.PolicyStrict,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockOut,
				Quantity:  11,
			},
			setupMocks: func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {
				p.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)
			},
			wantError:     true,
			errorContains: "insufficient stock",
		},
		{
			name:   "permissive_records_overdraw",
			policy: services.PolicyPermissive,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockOut,
				Quantity:  11,
			},
			setupMocks: func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {
				p.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)
				m.EXPECT().
					ApplyMovement(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *domain.MovementRecord) error {
						assert.Equal(t, -11, rec.Delta)
						return nil
					})
			},
		},
		{
			name:   "store_failure_surfaces",
			policy: services.PolicyStrict,
			req: ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockIn,
				Quantity:  1,
			},
			setupMocks: func(p *mocks.MockProductRepository, m *mocks.MockMovementRepository) {
				p.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)
				m.EXPECT().
					ApplyMovement(gomock.Any(), gomock.Any()).
					Return(errors.New("connection reset"))
			},
			wantError:     true,
			errorContains: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockProducts := mocks.NewMockProductRepository(ctrl)
			mockMovements := mocks.NewMockMovementRepository(ctrl)
			tt.setupMocks(mockProducts, mockMovements)

			service := newTestLedger(t, tt.policy, mockProducts, mockMovements, mocks.NewMockLowStockNotifier(ctrl))

			record, err := service.RecordMovement(context.Background(), tt.req)

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, record)
			} else {
				require.NoError(t, err)
				require.NotNil(t, record)
				assert.Equal(t, tt.req.Type, record.Type)
			}
		})
	}
}

func TestLedgerService_RecordMovement_InsufficientStockDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 3
	})

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)

	service := newTestLedger(t, services.PolicyStrict,
		mockProducts, mocks.NewMockMovementRepository(ctrl), mocks.NewMockLowStockNotifier(ctrl))

	_, err := service.RecordMovement(context.Background(), ports.MovementRequest{
		ProductID: product.ID,
		Type:      domain.MovementStockOut,
		Quantity:  5,
	})

	var insufficientErr domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, product.ID, insufficientErr.ProductID)
	assert.Equal(t, 5, insufficientErr.Requested)
	assert.Equal(t, 3, insufficientErr.Available)
}

// TestLedgerService_RecordMovement_Concurrent drives many simultaneous
// receipts for one product and verifies no update is lost: the final
// projection equals the sum of all deltas and every record got a distinct
// sequence number.
func TestLedgerService_RecordMovement_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const workers = 25

	product := helpers.CreateTestProduct()

	var (
		mu       sync.Mutex
		quantity int
		sequence int64
		records  []domain.MovementRecord
	)

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByID(gomock.Any(), product.ID).
		DoAndReturn(func(context.Context, uuid.UUID) (*domain.Product, error) {
			mu.Lock()
			defer mu.Unlock()
			snapshot := *product
			snapshot.Quantity = quantity
			return &snapshot, nil
		}).
		Times(workers)

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().
		ApplyMovement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *domain.MovementRecord) error {
			mu.Lock()
			defer mu.Unlock()
			sequence++
			rec.Sequence = sequence
			quantity += rec.Delta
			records = append(records, *rec)
			return nil
		}).
		Times(workers)

	service := newTestLedger(t, services.PolicyStrict,
		mockProducts, mockMovements, mocks.NewMockLowStockNotifier(ctrl))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RecordMovement(context.Background(), ports.MovementRequest{
				ProductID: product.ID,
				Type:      domain.MovementStockIn,
				Quantity:  1,
				Actor:     "dock-1",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, quantity)
	require.Len(t, records, workers)

	seen := make(map[int64]bool, workers)
	for _, rec := range records {
		assert.False(t, seen[rec.Sequence], "duplicate sequence %d", rec.Sequence)
		seen[rec.Sequence] = true
	}
}

// TestLedgerService_LowStockSignals_EdgeTriggered walks a product through
// 15 -> 9 -> 5 -> 12 -> 8 against a threshold of 10. Only the two downward
// crossings fire; staying below the threshold does not.
func TestLedgerService_LowStockSignals_EdgeTriggered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.LowStockThreshold = 10
		p.Quantity = 15
	})

	var mu sync.Mutex
	quantity := product.Quantity
	var signals []domain.LowStockSignal

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByID(gomock.Any(), product.ID).
		DoAndReturn(func(context.Context, uuid.UUID) (*domain.Product, error) {
			mu.Lock()
			defer mu.Unlock()
			snapshot := *product
			snapshot.Quantity = quantity
			return &snapshot, nil
		}).
		AnyTimes()

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().
		ApplyMovement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *domain.MovementRecord) error {
			mu.Lock()
			defer mu.Unlock()
			quantity += rec.Delta
			return nil
		}).
		AnyTimes()

	mockNotifier := mocks.NewMockLowStockNotifier(ctrl)
	mockNotifier.EXPECT().
		NotifyLowStock(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, signal domain.LowStockSignal) error {
			mu.Lock()
			defer mu.Unlock()
			signals = append(signals, signal)
			return nil
		}).
		AnyTimes()

	service := newTestLedger(t, services.PolicyStrict, mockProducts, mockMovements, mockNotifier)

	steps := []struct {
		movementType domain.MovementType
		magnitude    int
		wantQuantity int
	}{
		{domain.MovementStockOut, 6, 9},  // 15 -> 9, crosses: signal
		{domain.MovementStockOut, 4, 5},  // 9 -> 5, already below: no signal
		{domain.MovementStockIn, 7, 12},  // 5 -> 12, upward: no signal
		{domain.MovementStockOut, 4, 8},  // 12 -> 8, crosses again: signal
	}

	for _, step := range steps {
		_, err := service.RecordMovement(context.Background(), ports.MovementRequest{
			ProductID: product.ID,
			Type:      step.movementType,
			Quantity:  step.magnitude,
		})
		require.NoError(t, err)
		assert.Equal(t, step.wantQuantity, quantity)
	}

	require.Len(t, signals, 2)
	assert.Equal(t, 9, signals[0].Quantity)
	assert.Equal(t, 8, signals[1].Quantity)
	assert.Equal(t, 10, signals[0].Threshold)
	assert.Equal(t, product.SKU, signals[0].SKU)
}

func TestLedgerService_RecordMovement_NotifierFailureDoesNotFailMovement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.LowStockThreshold = 10
		p.Quantity = 12
	})

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil)

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().ApplyMovement(gomock.Any(), gomock.Any()).Return(nil)

	mockNotifier := mocks.NewMockLowStockNotifier(ctrl)
	mockNotifier.EXPECT().
		NotifyLowStock(gomock.Any(), gomock.Any()).
		Return(errors.New("queue unavailable"))

	service := newTestLedger(t, services.PolicyStrict, mockProducts, mockMovements, mockNotifier)

	record, err := service.RecordMovement(context.Background(), ports.MovementRequest{
		ProductID: product.ID,
		Type:      domain.MovementStockOut,
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestLedgerService_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	expected := []domain.MovementRecord{
		*helpers.CreateTestMovement(productID, domain.MovementStockIn, 10),
		*helpers.CreateTestMovement(productID, domain.MovementStockOut, -3),
	}

	filter := ports.MovementFilter{ProductID: &productID, Limit: 50}

	mockMovements := mocks.NewMockMovementRepository(ctrl)
	mockMovements.EXPECT().List(gomock.Any(), filter).Return(expected, int64(2), nil)

	service := newTestLedger(t, services.PolicyStrict,
		mocks.NewMockProductRepository(ctrl), mockMovements, mocks.NewMockLowStockNotifier(ctrl))

	records, total, err := service.History(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, expected, records)
}
