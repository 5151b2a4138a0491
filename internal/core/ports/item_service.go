// internal/core/ports/item_service.go
package ports

import (
	"context"
	"fmt"

	"github.com/bricolage/catalog-be/internal/core/domain"
)

// ItemService defines the application service port for the catalog.
// Note: ListParams and ListResult live here to avoid circular dependencies.
type ItemService interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
}

// StatsService defines the port for catalog-wide statistics.
type StatsService interface {
	Stats(ctx context.Context) (*domain.CatalogStats, error)
}

// ListParams holds parameters for listing catalog items. Page and Limit
// come off the wire as strings; handlers fall back to the defaults for
// anything non-numeric. Zero or negative values pass through unvalidated.
type ListParams struct {
	Query string
	Page  int
	Limit int
	Sort  domain.SortOption
}

// DefaultListParams returns the params an empty query string resolves to.
func DefaultListParams() ListParams {
	return ListParams{
		Page:  1,
		Limit: 10,
		Sort:  domain.SortDefault,
	}
}

// Signature returns the normalized cache key for these params. Callers must
// have normalized missing optional fields to their defaults so equivalent
// queries collide on the same key.
func (p ListParams) Signature() string {
	sort := p.Sort
	if sort == "" {
		sort = domain.SortDefault
	}
	return fmt.Sprintf("%s_%d_%d_%s", p.Query, p.Page, p.Limit, sort)
}

// ListResult holds one page of catalog items plus pagination metadata.
type ListResult struct {
	Items      []domain.Item     `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}
