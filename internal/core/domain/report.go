// internal/core/domain/report.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Granularity is the bucket width for time-series reports
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Valid reports whether g is a recognized bucket width.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// Truncate returns the start of the bucket containing t.
func (g Granularity) Truncate(t time.Time) time.Time {
	switch g {
	case GranularityWeek:
		// ISO weeks start on Monday
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// Next returns the start of the bucket following start.
func (g Granularity) Next(start time.Time) time.Time {
	switch g {
	case GranularityWeek:
		return start.AddDate(0, 0, 7)
	case GranularityMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// ReportBucket is a derived aggregate over one report period. It is never
// persisted; it is recomputed from the movement log on each request. Periods
// with no movements still produce a bucket with zero totals so chart
// consumers always receive a dense series.
type ReportBucket struct {
	PeriodStart    time.Time                          `json:"period_start"`
	PeriodEnd      time.Time                          `json:"period_end"`
	TotalIn        int                                `json:"total_in"`
	TotalOut       int                                `json:"total_out"`
	NetChange      int                                `json:"net_change"`
	EndingQuantity int64                              `json:"ending_quantity"`
	ByCategory     map[ProductCategory]CategoryTotals `json:"by_category,omitempty"`
}

// CategoryTotals holds in/out totals for one category. Both values are
// positive magnitudes.
type CategoryTotals struct {
	TotalIn  int `json:"total_in"`
	TotalOut int `json:"total_out"`
}

// LowStockSignal is the edge-triggered notification emitted when a movement
// drives a product's quantity from above its threshold to at or below it.
// Delivery is at-least-once; consumers de-duplicate.
type LowStockSignal struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}
