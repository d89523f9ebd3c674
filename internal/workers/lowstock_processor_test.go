// internal/workers/lowstock_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/ports"
	"github.com/stockops/ledger-be/internal/workers"
	"github.com/stockops/ledger-be/test/helpers"
)

func newAlertTask(t *testing.T, payload workers.LowStockPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(workers.TypeLowStockAlert, data)
}

func newTestCache(t *testing.T) ports.CacheRepository {
	t.Helper()
	testRedis := helpers.SetupTestRedis(t)
	return redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestSlogger())
}

func TestLowStockProcessor_DeliversWebhook(t *testing.T) {
	var delivered int32
	var received map[string]interface{}

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&delivered, 1)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	processor := workers.NewLowStockProcessor(newTestCache(t), webhook.URL, helpers.TestSlogger())

	payload := workers.LowStockPayload{
		ProductID: uuid.New(),
		SKU:       "TST-0001",
		Name:      "Packing Tape",
		Quantity:  8,
		Threshold: 10,
		At:        time.Now(),
	}

	err := processor.ProcessAlert(context.Background(), newAlertTask(t, payload))
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&delivered))
	assert.Equal(t, "low_stock", received["event"])
	assert.Equal(t, "TST-0001", received["sku"])
	assert.Equal(t, float64(8), received["quantity"])
}

// TestLowStockProcessor_SuppressesDuplicates replays the same alert twice
// within the dedupe window; only the first delivery reaches the webhook.
func TestLowStockProcessor_SuppressesDuplicates(t *testing.T) {
	var delivered int32

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&delivered, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	processor := workers.NewLowStockProcessor(newTestCache(t), webhook.URL, helpers.TestSlogger())

	payload := workers.LowStockPayload{
		ProductID: uuid.New(),
		SKU:       "TST-0001",
		Quantity:  8,
		Threshold: 10,
		At:        time.Now(),
	}

	require.NoError(t, processor.ProcessAlert(context.Background(), newAlertTask(t, payload)))
	require.NoError(t, processor.ProcessAlert(context.Background(), newAlertTask(t, payload)))

	assert.Equal(t, int32(1), atomic.LoadInt32(&delivered), "duplicate within the window must be suppressed")
}

func TestLowStockProcessor_DistinctProductsBothDeliver(t *testing.T) {
	var delivered int32

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&delivered, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	processor := workers.NewLowStockProcessor(newTestCache(t), webhook.URL, helpers.TestSlogger())

	for i := 0; i < 2; i++ {
		payload := workers.LowStockPayload{
			ProductID: uuid.New(),
			Quantity:  3,
			Threshold: 5,
			At:        time.Now(),
		}
		require.NoError(t, processor.ProcessAlert(context.Background(), newAlertTask(t, payload)))
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&delivered))
}

func TestLowStockProcessor_NoWebhookConfigured(t *testing.T) {
	processor := workers.NewLowStockProcessor(newTestCache(t), "", helpers.TestSlogger())

	payload := workers.LowStockPayload{
		ProductID: uuid.New(),
		Quantity:  1,
		Threshold: 10,
		At:        time.Now(),
	}

	// Without a webhook the alert is logged and consumed without error.
	require.NoError(t, processor.ProcessAlert(context.Background(), newAlertTask(t, payload)))
}

func TestLowStockProcessor_WebhookFailureReturnsError(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer webhook.Close()

	processor := workers.NewLowStockProcessor(newTestCache(t), webhook.URL, helpers.TestSlogger())

	payload := workers.LowStockPayload{
		ProductID: uuid.New(),
		Quantity:  1,
		Threshold: 10,
		At:        time.Now(),
	}

	// Errors propagate so asynq retries the delivery.
	err := processor.ProcessAlert(context.Background(), newAlertTask(t, payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLowStockProcessor_MalformedPayload(t *testing.T) {
	processor := workers.NewLowStockProcessor(newTestCache(t), "", helpers.TestSlogger())

	task := asynq.NewTask(workers.TypeLowStockAlert, []byte("{not json"))
	err := processor.ProcessAlert(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
