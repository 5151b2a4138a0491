// internal/core/domain/item.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as bare JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// SortOption represents a supported list ordering
type SortOption string

// Sort option constants
const (
	SortDefault   SortOption = "default"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
)

// Item represents a single catalog item. IDs are assigned by the server at
// creation time as milliseconds since epoch; items are never updated or
// deleted through the API.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// Validate performs domain validation on the item. Checks run in a fixed
// order and the first failure wins.
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if i.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}

// AssignID stamps the item with a creation id derived from the given time.
// Wall-clock milliseconds are unique enough at this catalog's scale; rapid
// concurrent creates can collide and that is accepted.
func (i *Item) AssignID(now time.Time) {
	i.ID = now.UnixMilli()
}

// Pagination describes the page window of a list result.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination assembles pagination metadata for a page window over total
// items. TotalPages is ceil(total/pageSize); a pageSize of zero or less
// yields zero total pages rather than dividing by zero.
func NewPagination(page, pageSize, total int) Pagination {
	var totalPages int
	if pageSize > 0 {
		totalPages = total / pageSize
		if total%pageSize > 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page*pageSize < total,
		HasPrev:    page > 1,
	}
}

// CatalogStats summarizes the whole catalog.
type CatalogStats struct {
	Total        int             `json:"total"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	Categories   map[string]int  `json:"categories"`
	PriceRange   PriceRange      `json:"priceRange"`
}

// PriceRange holds the minimum and maximum price across the catalog.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// ComputeStats calculates catalog statistics over a full item snapshot.
// An empty catalog produces all-zero stats.
func ComputeStats(items []Item) *CatalogStats {
	stats := &CatalogStats{
		Categories: make(map[string]int),
	}
	stats.Total = len(items)
	if len(items) == 0 {
		return stats
	}

	sum := decimal.Zero
	min := items[0].Price
	max := items[0].Price
	for _, item := range items {
		sum = sum.Add(item.Price)
		stats.Categories[item.Category]++
		if item.Price.LessThan(min) {
			min = item.Price
		}
		if item.Price.GreaterThan(max) {
			max = item.Price
		}
	}

	stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(items))))
	stats.PriceRange = PriceRange{Min: min, Max: max}
	return stats
}
