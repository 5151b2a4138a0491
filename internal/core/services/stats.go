// internal/core/services/stats.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// StatsService computes catalog-wide statistics, cached against the backing
// file's modification time: the aggregate is recomputed only when the file
// has changed since the last computation.
type StatsService struct {
	repo   ports.ItemRepository
	logger *slog.Logger

	mu      sync.Mutex
	cached  *domain.CatalogStats
	modTime time.Time
}

// Statically assert that *StatsService implements the StatsService interface.
var _ ports.StatsService = (*StatsService)(nil)

// NewStatsService creates a new stats service.
func NewStatsService(repo ports.ItemRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		repo:   repo,
		logger: logger.With(slog.String("service", "stats")),
	}
}

// Stats returns the catalog aggregate, serving the cached value while the
// backing file is unchanged.
func (s *StatsService) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		if mt, err := s.repo.ModTime(ctx); err == nil && mt.Equal(s.modTime) {
			s.logger.DebugContext(ctx, "stats served from cache")
			return s.cached, nil
		}
	}

	items, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	stats := domain.ComputeStats(items)

	mt, err := s.repo.ModTime(ctx)
	if err != nil {
		// Stats are still valid; only the cache marker is lost.
		s.logger.WarnContext(ctx, "failed to stat backing file",
			slog.String("error", err.Error()))
		s.cached = nil
		return stats, nil
	}

	s.cached = stats
	s.modTime = mt

	s.logger.DebugContext(ctx, "stats recomputed",
		slog.Int("total", stats.Total))

	return stats, nil
}

// Invalidate drops the cached aggregate. Exposed for testing.
func (s *StatsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
