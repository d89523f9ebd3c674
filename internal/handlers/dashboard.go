package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockops/ledger-be/internal/adapters/db"
	redis_a "github.com/stockops/ledger-be/internal/adapters/redis_adapter"
	"github.com/stockops/ledger-be/internal/core/ports"
)

// DashboardHandler serves the warehouse overview
type DashboardHandler struct {
	db       *db.Database
	products ports.ProductRepository
	cache    ports.CacheRepository
	logger   *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(database *db.Database, products ports.ProductRepository, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:       database,
		products: products,
		cache:    cache,
		logger:   logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, 5*time.Minute)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	dashboard := &DashboardData{
		Timestamp: time.Now(),
	}

	summaryQuery := `
		SELECT
			COUNT(*) AS total_products,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(unit_price * quantity), 0) AS stock_value,
			COUNT(*) FILTER (WHERE quantity <= low_stock_threshold) AS low_stock_count,
			COUNT(*) FILTER (WHERE quantity < 0) AS negative_stock_count
		FROM products
		WHERE deleted_at IS NULL
	`

	err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&dashboard.Summary.TotalProducts,
		&dashboard.Summary.TotalUnits,
		&dashboard.Summary.StockValue,
		&dashboard.Summary.LowStockCount,
		&dashboard.Summary.NegativeStockCount,
	)
	if err != nil {
		return nil, err
	}

	categoryQuery := `
		SELECT
			category,
			COUNT(*) AS products,
			COALESCE(SUM(quantity), 0) AS units,
			COALESCE(SUM(unit_price * quantity), 0) AS value
		FROM products
		WHERE deleted_at IS NULL
		GROUP BY category
		ORDER BY units DESC
	`

	rows, err := h.db.Query(ctx, categoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat CategoryStock
		if err := rows.Scan(&cat.Category, &cat.Products, &cat.Units, &cat.Value); err != nil {
			continue
		}
		dashboard.Categories = append(dashboard.Categories, cat)
	}

	// Movement volume over the last 24 hours.
	activityQuery := `
		SELECT
			COUNT(*) FILTER (WHERE delta > 0) AS inbound,
			COUNT(*) FILTER (WHERE delta < 0) AS outbound,
			COALESCE(SUM(delta), 0) AS net
		FROM stock_movements
		WHERE created_at >= NOW() - INTERVAL '24 hours'
	`

	if err := h.db.QueryRow(ctx, activityQuery).Scan(
		&dashboard.Activity.Inbound,
		&dashboard.Activity.Outbound,
		&dashboard.Activity.Net,
	); err != nil {
		return nil, err
	}

	lowStock, err := h.products.FindLowStock(ctx, 20)
	if err != nil {
		return nil, err
	}
	for _, product := range lowStock {
		dashboard.LowStock = append(dashboard.LowStock, LowStockEntry{
			ProductID: product.ID.String(),
			SKU:       product.SKU,
			Name:      product.Name,
			Quantity:  product.Quantity,
			Threshold: product.LowStockThreshold,
		})
	}

	return dashboard, nil
}

// Type definitions

type DashboardData struct {
	Summary    StockSummary     `json:"summary"`
	Categories []CategoryStock  `json:"categories"`
	Activity   MovementActivity `json:"activity_24h"`
	LowStock   []LowStockEntry  `json:"low_stock"`
	Timestamp  time.Time        `json:"timestamp"`
}

type StockSummary struct {
	TotalProducts      int64           `json:"total_products"`
	TotalUnits         int64           `json:"total_units"`
	StockValue         decimal.Decimal `json:"stock_value"`
	LowStockCount      int64           `json:"low_stock_count"`
	NegativeStockCount int64           `json:"negative_stock_count"`
}

type CategoryStock struct {
	Category string          `json:"category"`
	Products int             `json:"products"`
	Units    int64           `json:"units"`
	Value    decimal.Decimal `json:"value"`
}

type MovementActivity struct {
	Inbound  int64 `json:"inbound"`
	Outbound int64 `json:"outbound"`
	Net      int64 `json:"net"`
}

type LowStockEntry struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
