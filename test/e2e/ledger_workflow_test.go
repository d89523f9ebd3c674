//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/stockops/ledger-be/internal/adapters/db"
	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/domain"
	"github.com/stockops/ledger-be/internal/core/services"
	"github.com/stockops/ledger-be/internal/handlers"
	"github.com/stockops/ledger-be/test/helpers"
)

// recordingNotifier captures low-stock signals instead of enqueueing them.
type recordingNotifier struct {
	mu      sync.Mutex
	signals []domain.LowStockSignal
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, signal domain.LowStockSignal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signals = append(n.signals, signal)
	return nil
}

func (n *recordingNotifier) captured() []domain.LowStockSignal {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.LowStockSignal, len(n.signals))
	copy(out, n.signals)
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signals = nil
}

type LedgerE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
	notifier  *recordingNotifier
}

func (s *LedgerE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())
	s.notifier = &recordingNotifier{}

	s.server = httptest.NewServer(s.buildRouter())
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *LedgerE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.testRedis.Server.FlushAll()
	s.notifier.reset()
}

func (s *LedgerE2ESuite) TearDownSuite() {
	s.server.Close()
}

// buildRouter wires the real stack against the test database and Redis,
// mirroring the route table of cmd/api.
func (s *LedgerE2ESuite) buildRouter() http.Handler {
	slogger := helpers.TestSlogger()

	products := db.NewProductRepository(s.testDB.Database, slogger)
	movements := db.NewMovementRepository(s.testDB.Database, slogger)
	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, slogger)

	projector := services.NewQuantityProjector(products, movements, services.PolicyStrict, slogger)
	ledger := services.NewLedgerService(products, movements, projector, s.notifier, slogger)
	resolver := services.NewBarcodeResolver(products, cache, slogger)
	catalog := services.NewCatalogService(products, resolver, slogger)
	aggregator := services.NewReportingAggregator(movements, slogger)

	ledgerHandler := handlers.NewLedgerHandler(ledger, slogger)
	productHandler := handlers.NewProductHandler(catalog, slogger)
	scanHandler := handlers.NewScanHandler(resolver, slogger)
	reportHandler := handlers.NewReportHandler(aggregator, cache, nil, slogger)
	dashboardHandler := handlers.NewDashboardHandler(s.testDB.Database, products, cache, slogger)

	const apiV1 = "/api/v1"

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+apiV1+"/movements", ledgerHandler.RecordMovement)
	mux.HandleFunc("GET "+apiV1+"/movements", ledgerHandler.ListMovements)
	mux.HandleFunc("GET "+apiV1+"/products", productHandler.ListProducts)
	mux.HandleFunc("POST "+apiV1+"/products", productHandler.CreateProduct)
	mux.HandleFunc("GET "+apiV1+"/products/{id}", productHandler.GetProduct)
	mux.HandleFunc("PUT "+apiV1+"/products/{id}", productHandler.UpdateProduct)
	mux.HandleFunc("DELETE "+apiV1+"/products/{id}", productHandler.DeleteProduct)
	mux.HandleFunc("GET "+apiV1+"/products/{id}/movements", ledgerHandler.ProductHistory)
	mux.HandleFunc("GET "+apiV1+"/scan/{barcode}", scanHandler.Resolve)
	mux.HandleFunc("GET "+apiV1+"/reports/movements", reportHandler.MovementReport)
	mux.HandleFunc("GET "+apiV1+"/reports/categories", reportHandler.CategoryReport)
	mux.HandleFunc("GET "+apiV1+"/dashboard", dashboardHandler.GetDashboard)

	return mux
}

func (s *LedgerE2ESuite) TestCompleteLedgerWorkflow() {
	// 1. Register a product. Stock starts at zero regardless of the payload.
	created := s.createProduct(map[string]interface{}{
		"sku":                 "E2E-0001",
		"barcode":             "4006381999990",
		"name":                "Cordless Drill",
		"category":            "tools",
		"unit_price":          "89.90",
		"low_stock_threshold": 5,
	})
	productID := created["id"].(string)
	s.Equal(float64(0), created["quantity"])

	// 2. Receive stock.
	resp := s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": productID,
		"type":       "stock_in",
		"quantity":   50,
		"reason":     "initial delivery",
		"actor":      "receiver-1",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	var movement map[string]interface{}
	s.decodeResponse(resp, &movement)
	s.Equal(float64(1), movement["sequence"])
	s.Equal(float64(50), movement["delta"])

	// 3. The scan endpoint sees the projected quantity.
	resp = s.makeRequest("GET", "/scan/4006381999990", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var scanned map[string]interface{}
	s.decodeResponse(resp, &scanned)
	s.Equal(productID, scanned["id"])
	s.Equal(float64(50), scanned["quantity"])

	// 4. Issue and correct stock.
	resp = s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": productID,
		"type":       "stock_out",
		"quantity":   30,
		"actor":      "picker-2",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.drainBody(resp)

	resp = s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": productID,
		"type":       "adjustment",
		"quantity":   -3,
		"reason":     "cycle count correction",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.drainBody(resp)

	// 5. Product history replays in ledger order.
	resp = s.makeRequest("GET", fmt.Sprintf("/products/%s/movements", productID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var history struct {
		Movements []domain.MovementRecord `json:"movements"`
		Total     int64                   `json:"total"`
	}
	s.decodeResponse(resp, &history)
	s.Equal(int64(3), history.Total)
	s.Require().Len(history.Movements, 3)
	running := 0
	for i, rec := range history.Movements {
		s.Equal(int64(i+1), rec.Sequence)
		running += rec.Delta
	}
	s.Equal(17, running)

	// 6. The catalog shows the same projection.
	resp = s.makeRequest("GET", fmt.Sprintf("/products/%s", productID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var product map[string]interface{}
	s.decodeResponse(resp, &product)
	s.Equal(float64(17), product["quantity"])
}

func (s *LedgerE2ESuite) TestStrictPolicyRejectsOverdraw() {
	created := s.createProduct(map[string]interface{}{
		"sku":        "E2E-0002",
		"name":       "Packing Tape",
		"category":   "packaging",
		"unit_price": "2.49",
	})
	productID := created["id"].(string)

	resp := s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": productID,
		"type":       "stock_in",
		"quantity":   5,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.drainBody(resp)

	resp = s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": productID,
		"type":       "stock_out",
		"quantity":   10,
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	var conflict map[string]interface{}
	s.decodeResponse(resp, &conflict)
	s.Equal(float64(10), conflict["requested"])
	s.Equal(float64(5), conflict["available"])

	// The rejected movement left no trace.
	resp = s.makeRequest("GET", fmt.Sprintf("/products/%s/movements", productID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var history struct {
		Total int64 `json:"total"`
	}
	s.decodeResponse(resp, &history)
	s.Equal(int64(1), history.Total)

	resp = s.makeRequest("GET", fmt.Sprintf("/products/%s", productID), nil)
	var product map[string]interface{}
	s.decodeResponse(resp, &product)
	s.Equal(float64(5), product["quantity"])
}

func (s *LedgerE2ESuite) TestLowStockSignalsAreEdgeTriggered() {
	created := s.createProduct(map[string]interface{}{
		"sku":                 "E2E-0003",
		"name":                "Work Gloves",
		"category":            "household",
		"unit_price":          "6.99",
		"low_stock_threshold": 10,
	})
	productID := created["id"].(string)

	steps := []struct {
		movementType string
		quantity     int
	}{
		{"stock_in", 15},  // 0 -> 15
		{"stock_out", 6},  // 15 -> 9, crosses the threshold
		{"stock_out", 4},  // 9 -> 5, already below, no signal
		{"stock_in", 7},   // 5 -> 12, recovers
		{"stock_out", 4},  // 12 -> 8, crosses again
	}
	for _, step := range steps {
		resp := s.makeRequest("POST", "/movements", map[string]interface{}{
			"product_id": productID,
			"type":       step.movementType,
			"quantity":   step.quantity,
		})
		s.Equal(http.StatusCreated, resp.StatusCode)
		s.drainBody(resp)
	}

	signals := s.notifier.captured()
	s.Require().Len(signals, 2)
	s.Equal(9, signals[0].Quantity)
	s.Equal(8, signals[1].Quantity)
	s.Equal(productID, signals[0].ProductID.String())
}

func (s *LedgerE2ESuite) TestConcurrentMovements() {
	created := s.createProduct(map[string]interface{}{
		"sku":        "E2E-0004",
		"name":       "Stretch Film Roll",
		"category":   "packaging",
		"unit_price": "11.20",
	})
	productID := created["id"].(string)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := s.makeRequest("POST", "/movements", map[string]interface{}{
				"product_id": productID,
				"type":       "stock_in",
				"quantity":   1,
			})
			s.Equal(http.StatusCreated, resp.StatusCode)
			s.drainBody(resp)
		}()
	}
	wg.Wait()

	resp := s.makeRequest("GET", fmt.Sprintf("/products/%s/movements", productID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var history struct {
		Movements []domain.MovementRecord `json:"movements"`
		Total     int64                   `json:"total"`
	}
	s.decodeResponse(resp, &history)
	s.Equal(int64(workers), history.Total)

	seen := make(map[int64]bool)
	for _, rec := range history.Movements {
		s.False(seen[rec.Sequence], "sequence %d assigned twice", rec.Sequence)
		seen[rec.Sequence] = true
	}

	resp = s.makeRequest("GET", fmt.Sprintf("/products/%s", productID), nil)
	var product map[string]interface{}
	s.decodeResponse(resp, &product)
	s.Equal(float64(workers), product["quantity"])
}

func (s *LedgerE2ESuite) TestMovementReport() {
	created := s.createProduct(map[string]interface{}{
		"sku":        "E2E-0005",
		"name":       "Shipping Labels",
		"category":   "packaging",
		"unit_price": "4.10",
	})
	productID := created["id"].(string)

	for _, step := range []struct {
		movementType string
		quantity     int
	}{
		{"stock_in", 40},
		{"stock_out", 15},
	} {
		resp := s.makeRequest("POST", "/movements", map[string]interface{}{
			"product_id": productID,
			"type":       step.movementType,
			"quantity":   step.quantity,
		})
		s.Equal(http.StatusCreated, resp.StatusCode)
		s.drainBody(resp)
	}

	from := time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339)
	to := time.Now().UTC().AddDate(0, 0, 1).Format(time.RFC3339)
	resp := s.makeRequest("GET",
		fmt.Sprintf("/reports/movements?granularity=day&from=%s&to=%s", from, to), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var report struct {
		Buckets []domain.ReportBucket `json:"buckets"`
	}
	s.decodeResponse(resp, &report)
	s.Require().NotEmpty(report.Buckets)

	var totalIn, totalOut int
	for _, bucket := range report.Buckets {
		totalIn += bucket.TotalIn
		totalOut += bucket.TotalOut
	}
	s.Equal(40, totalIn)
	s.Equal(15, totalOut)
	s.Equal(int64(25), report.Buckets[len(report.Buckets)-1].EndingQuantity)

	// Both movements land in today's bucket under the product's category.
	var today domain.ReportBucket
	for _, bucket := range report.Buckets {
		if bucket.TotalIn > 0 {
			today = bucket
		}
	}
	s.Equal(domain.CategoryTotals{TotalIn: 40, TotalOut: 15}, today.ByCategory[domain.CategoryPackaging])
}

func (s *LedgerE2ESuite) TestDashboard() {
	created := s.createProduct(map[string]interface{}{
		"sku":        "E2E-0006",
		"name":       "Safety Goggles",
		"category":   "household",
		"unit_price": "12.00",
	})
	resp := s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": created["id"].(string),
		"type":       "stock_in",
		"quantity":   8,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.drainBody(resp)

	resp = s.makeRequest("GET", "/dashboard", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var dashboard map[string]interface{}
	s.decodeResponse(resp, &dashboard)
	s.Contains(dashboard, "summary")
	s.Contains(dashboard, "categories")

	summary := dashboard["summary"].(map[string]interface{})
	s.Equal(float64(1), summary["total_products"])
	s.Equal(float64(8), summary["total_units"])
}

func (s *LedgerE2ESuite) TestScanUnknownBarcode() {
	resp := s.makeRequest("GET", "/scan/0000000000000", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.drainBody(resp)
}

func (s *LedgerE2ESuite) TestMovementForUnknownProduct() {
	resp := s.makeRequest("POST", "/movements", map[string]interface{}{
		"product_id": uuid.New().String(),
		"type":       "stock_in",
		"quantity":   1,
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.drainBody(resp)
}

// Helper methods

func (s *LedgerE2ESuite) createProduct(payload map[string]interface{}) map[string]interface{} {
	resp := s.makeRequest("POST", "/products", payload)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	s.decodeResponse(resp, &created)
	s.Require().NotEmpty(created["id"])
	return created
}

func (s *LedgerE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.Require().NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)

	return resp
}

func (s *LedgerE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *LedgerE2ESuite) drainBody(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func TestLedgerE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(LedgerE2ESuite))
}
