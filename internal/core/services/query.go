// internal/core/services/query.go
package services

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// executeQuery runs the list pipeline over an in-memory snapshot of the
// store: filter, then stable sort, then paginate. The snapshot itself is
// never mutated.
func executeQuery(items []domain.Item, params ports.ListParams) *ports.ListResult {
	results := filterItems(items, params.Query)
	results = sortItems(results, params.Sort)

	// Out-of-range slicing panics in Go, so the window is clamped to the
	// data. The pagination block still reflects the requested page/limit.
	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start < 0 {
		start = 0
	}
	if start > len(results) {
		start = len(results)
	}
	if end < start {
		end = start
	}
	if end > len(results) {
		end = len(results)
	}

	page := make([]domain.Item, end-start)
	copy(page, results[start:end])

	return &ports.ListResult{
		Items:      page,
		Pagination: domain.NewPagination(params.Page, params.Limit, len(results)),
	}
}

// filterItems keeps items whose name or category contains q
// case-insensitively. An empty q returns the snapshot unfiltered.
func filterItems(items []domain.Item, q string) []domain.Item {
	if q == "" {
		return items
	}

	needle := strings.ToLower(q)
	var results []domain.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Category), needle) {
			results = append(results, item)
		}
	}
	return results
}

// sortItems returns a sorted copy of items. The sort is stable: equal keys
// keep their filter-result order, which preserves store order. Unknown sort
// values behave as default and leave the order untouched.
func sortItems(items []domain.Item, sortBy domain.SortOption) []domain.Item {
	if sortBy == "" || sortBy == domain.SortDefault {
		return items
	}

	var cmp func(a, b domain.Item) int
	switch sortBy {
	case domain.SortNameAsc, domain.SortNameDesc:
		coll := collate.New(language.English)
		cmp = func(a, b domain.Item) int {
			return coll.CompareString(a.Name, b.Name)
		}
		if sortBy == domain.SortNameDesc {
			asc := cmp
			cmp = func(a, b domain.Item) int { return -asc(a, b) }
		}
	case domain.SortPriceAsc:
		cmp = func(a, b domain.Item) int { return a.Price.Cmp(b.Price) }
	case domain.SortPriceDesc:
		cmp = func(a, b domain.Item) int { return b.Price.Cmp(a.Price) }
	default:
		return items
	}

	sorted := make([]domain.Item, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, cmp)
	return sorted
}
