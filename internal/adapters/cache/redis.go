// internal/adapters/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// keyPrefix namespaces catalog page entries so InvalidateAll only touches
// keys this service owns.
const keyPrefix = "items:"

// Redis implements the ResponseCache port on a Redis backend, for
// deployments that want the page cache to survive restarts. TTL enforcement
// is delegated to Redis itself.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *Redis implements the ResponseCache interface.
var _ ports.ResponseCache = (*Redis)(nil)

// NewRedis creates a Redis-backed cache with the given TTL.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_cache")),
	}
}

// Get loads the entry for key into dest.
func (c *Redis) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			// Cache miss is not an error
			c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
			return domain.ErrCacheMiss
		}
		c.logger.ErrorContext(ctx, "failed to get cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

// Set unconditionally overwrites the entry for key with the adapter's TTL.
func (c *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to marshal cache value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to set cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Duration("ttl", c.ttl))

	return nil
}

// InvalidateAll drops every catalog page entry by scanning the key prefix.
func (c *Redis) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to scan keys",
			slog.String("error", err.Error()))
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del error: %w", err)
		}
	}

	c.logger.DebugContext(ctx, "cache invalidated", slog.Int("keys", len(keys)))
	return nil
}

// Ping checks if Redis is accessible.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}
