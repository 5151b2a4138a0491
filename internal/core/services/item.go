// internal/core/services/item.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// ItemService handles catalog business logic: the cached list-query
// pipeline, item lookup, and the mutation path.
type ItemService struct {
	repo   ports.ItemRepository
	cache  ports.ResponseCache
	logger *slog.Logger
	now    func() time.Time
}

// Statically assert that *ItemService implements the ItemService interface.
var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new item service.
func NewItemService(repo ports.ItemRepository, cache ports.ResponseCache, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "item")),
		now:    time.Now,
	}
}

// List returns one page of catalog items. The response cache is consulted
// first by normalized query signature; on a miss the full snapshot is read
// from the store, the pipeline runs, and the page is cached for the next
// identical query.
func (s *ItemService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	key := params.Signature()

	var cached ports.ListResult
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		// A broken cache degrades to recomputation, never to failure.
		s.logger.WarnContext(ctx, "cache lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	items, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	result := executeQuery(items, params)

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.WarnContext(ctx, "failed to cache list result",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return result, nil
}

// GetByID retrieves a single item by id.
func (s *ItemService) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	items, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return &item, nil
		}
	}

	return nil, fmt.Errorf("%w: %d", domain.ErrItemNotFound, id)
}

// Create validates the item, assigns a creation id, appends it to the full
// collection and persists the file. Every successful create invalidates the
// whole response cache; there is no per-entry dependency tracking. Two
// concurrent creates can both read the same prior collection and each write
// back a collection missing the other's record, a lost-update hazard this
// design accepts.
func (s *ItemService) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	items, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	item.AssignID(s.now())
	items = append(items, *item)

	if err := s.repo.WriteAll(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cache after create",
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "item created",
		slog.Int64("id", item.ID),
		slog.String("name", item.Name),
		slog.String("category", item.Category))

	return item, nil
}
