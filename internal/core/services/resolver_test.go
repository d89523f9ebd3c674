// internal/core/services/resolver_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/services"
	"github.com/stockops/ledger-be/test/helpers"
	"github.com/stockops/ledger-be/test/mocks"
)

func TestBarcodeResolver_Resolve_MalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		barcode string
	}{
		{name: "empty_string", barcode: ""},
		{name: "whitespace_only", barcode: "   "},
		{name: "tab_and_newline", barcode: "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No repository expectations: malformed input never reaches the store.
			resolver := services.NewBarcodeResolver(
				mocks.NewMockProductRepository(ctrl), nil, helpers.TestSlogger())

			product, err := resolver.Resolve(context.Background(), tt.barcode)

			assert.Nil(t, product)
			var notFound domain.NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, "barcode", notFound.Resource)
		})
	}
}

func TestBarcodeResolver_Resolve_UnknownBarcode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByBarcode(gomock.Any(), "4006381333931").
		Return(nil, nil)

	resolver := services.NewBarcodeResolver(mockProducts, nil, helpers.TestSlogger())

	product, err := resolver.Resolve(context.Background(), "4006381333931")

	assert.Nil(t, product)
	var notFound domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "4006381333931", notFound.Key)
}

func TestBarcodeResolver_Resolve_TrimsScannerPadding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expected := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Barcode = "4006381333931"
	})

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByBarcode(gomock.Any(), "4006381333931").
		Return(expected, nil)

	resolver := services.NewBarcodeResolver(mockProducts, nil, helpers.TestSlogger())

	product, err := resolver.Resolve(context.Background(), "  4006381333931 ")
	require.NoError(t, err)
	assert.Equal(t, expected.ID, product.ID)
}

func TestBarcodeResolver_Resolve_CachesHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestSlogger())

	expected := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Barcode = "4006381333931"
	})

	// The store is consulted exactly once; the second scan is a cache hit.
	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByBarcode(gomock.Any(), "4006381333931").
		Return(expected, nil).
		Times(1)

	resolver := services.NewBarcodeResolver(mockProducts, cache, helpers.TestSlogger())

	for i := 0; i < 2; i++ {
		product, err := resolver.Resolve(context.Background(), "4006381333931")
		require.NoError(t, err)
		assert.Equal(t, expected.ID, product.ID)
		assert.Equal(t, expected.SKU, product.SKU)
	}
}

func TestBarcodeResolver_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestSlogger())

	expected := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Barcode = "4006381333931"
	})

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByBarcode(gomock.Any(), "4006381333931").
		Return(expected, nil).
		Times(2)

	resolver := services.NewBarcodeResolver(mockProducts, cache, helpers.TestSlogger())

	_, err := resolver.Resolve(context.Background(), "4006381333931")
	require.NoError(t, err)

	resolver.Invalidate(context.Background(), "4006381333931")

	// Entry is gone, so the store is consulted again.
	_, err = resolver.Resolve(context.Background(), "4006381333931")
	require.NoError(t, err)
}

func TestBarcodeResolver_Resolve_CacheFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expected := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Barcode = "4006381333931"
	})

	mockCache := mocks.NewMockCacheRepository(ctrl)
	mockCache.EXPECT().
		GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("redis connection refused"))

	mockProducts := mocks.NewMockProductRepository(ctrl)
	mockProducts.EXPECT().
		FindByBarcode(gomock.Any(), "4006381333931").
		Return(expected, nil)

	resolver := services.NewBarcodeResolver(mockProducts, mockCache, helpers.TestSlogger())

	product, err := resolver.Resolve(context.Background(), "4006381333931")
	require.NoError(t, err)
	assert.Equal(t, expected.ID, product.ID)
}
