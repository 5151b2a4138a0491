// internal/adapters/cache/memory.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// entry pairs a serialized value with its creation timestamp. An entry is
// valid only while now-storedAt < ttl.
type entry struct {
	data     []byte
	storedAt time.Time
}

// Memory is the in-process ResponseCache: a mutex-guarded map with lazy
// expiry. Expired entries are treated as absent on Get; nothing sweeps them
// in the background. Values round-trip through JSON so cached results are
// snapshots, not aliases of live data.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Statically assert that *Memory implements the ResponseCache interface.
var _ ports.ResponseCache = (*Memory)(nil)

// NewMemory creates an in-process cache with the given TTL.
func NewMemory(ttl time.Duration, logger *slog.Logger) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "memory_cache")),
	}
}

// Get loads the entry for key into dest, treating expired entries as absent.
func (m *Memory) Get(ctx context.Context, key string, dest any) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && m.now().Sub(e.storedAt) >= m.ttl {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		m.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
		return domain.ErrCacheMiss
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	m.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

// Set unconditionally overwrites the entry for key.
func (m *Memory) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to marshal cache value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("marshal error: %w", err)
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, storedAt: m.now()}
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Duration("ttl", m.ttl))

	return nil
}

// InvalidateAll drops every entry.
func (m *Memory) InvalidateAll(ctx context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "cache invalidated")
	return nil
}

// Ping always succeeds for the in-process cache.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Len reports the number of stored entries, expired or not. Exposed for
// tests and the health endpoint.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// SetClock overrides the cache's time source. Exposed for tests.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}
