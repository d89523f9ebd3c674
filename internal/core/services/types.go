// internal/core/services/types.go
package services

import "github.com/stockops/ledger-be/internal/core/domain"

// ListParams contains parameters for listing products
type ListParams struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`

	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Location string `json:"location,omitempty"`
	LowStock bool   `json:"low_stock,omitempty"`
}

// ListResult represents paginated product list results
type ListResult struct {
	Products   []*domain.Product `json:"products"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}
