// internal/adapters/file/store.go
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// Store persists the item collection as a single JSON array on disk. Every
// write rewrites the whole file; reads parse the whole file. Writers are
// serialized by a mutex and readers are not blocked, so a read concurrent
// with a write observes either the pre- or post-write generation.
type Store struct {
	path   string
	mu     sync.Mutex // serializes writers only
	logger *slog.Logger
}

// Statically assert that *Store implements the ItemRepository interface.
var _ ports.ItemRepository = (*Store)(nil)

// NewStore creates a file store for the given backing file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "file_store")),
	}
}

// ReadAll reads and parses the entire backing file. A missing or unreadable
// file fails with domain.ErrStoreIO, a malformed one with
// domain.ErrStoreParse. There is no partial-read recovery.
func (s *Store) ReadAll(ctx context.Context) ([]domain.Item, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read backing file",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreIO, s.path, err)
	}

	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.ErrorContext(ctx, "failed to parse backing file",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStoreParse, s.path, err)
	}

	return items, nil
}

// WriteAll serializes and replaces the backing file. The data lands in a
// temp file in the same directory and is renamed into place, so readers see
// either the old or the new generation, never a torn write.
func (s *Store) WriteAll(ctx context.Context, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal items: %v", domain.ErrStoreIO, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create temp file",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStoreIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", domain.ErrStoreIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", domain.ErrStoreIO, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		s.logger.ErrorContext(ctx, "failed to replace backing file",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStoreIO, s.path, err)
	}

	s.logger.DebugContext(ctx, "backing file rewritten",
		slog.String("path", s.path),
		slog.Int("items", len(items)))

	return nil
}

// ModTime reports the backing file's last modification time.
func (s *Store) ModTime(ctx context.Context) (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: stat %s: %v", domain.ErrStoreIO, s.path, err)
	}
	return info.ModTime(), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
