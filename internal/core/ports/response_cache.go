// internal/core/ports/response_cache.go
package ports

import "context"

// ResponseCache defines the port for caching computed list pages keyed by a
// normalized query signature. Entries expire after a fixed TTL owned by the
// implementation; expiry is lazy, there is no background sweep. The cache
// carries no per-entry dependency tracking; any successful mutation calls
// InvalidateAll.
type ResponseCache interface {
	// Get loads the cached value for key into dest. Absent or expired
	// entries return domain.ErrCacheMiss.
	Get(ctx context.Context, key string, dest any) error

	// Set unconditionally overwrites the entry for key.
	Set(ctx context.Context, key string, value any) error

	// InvalidateAll drops every entry.
	InvalidateAll(ctx context.Context) error

	// Ping reports whether the cache backend is reachable.
	Ping(ctx context.Context) error
}
