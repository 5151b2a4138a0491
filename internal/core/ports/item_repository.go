// internal/core/ports/item_repository.go
package ports

import (
	"context"
	"time"

	"github.com/bricolage/catalog-be/internal/core/domain"
)

// ItemRepository defines the persistence port for the catalog. The backing
// store is a single flat file read and rewritten wholesale; implementations
// give no isolation between a read and a concurrent write.
type ItemRepository interface {
	// ReadAll reads and parses the entire item collection. Any failure
	// aborts the whole read.
	ReadAll(ctx context.Context) ([]domain.Item, error)

	// WriteAll serializes and replaces the entire item collection.
	// Last write wins.
	WriteAll(ctx context.Context, items []domain.Item) error

	// ModTime reports when the backing store last changed.
	ModTime(ctx context.Context) (time.Time, error)
}
