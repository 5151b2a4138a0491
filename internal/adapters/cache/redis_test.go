// internal/adapters/cache/redis_test.go
package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bricolage/catalog-be/internal/adapters/cache"
	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
	"github.com/bricolage/catalog-be/test/helpers"
)

func TestRedis_SetGet(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	c := cache.NewRedis(tr.Client, 5*time.Minute, helpers.TestLogger())
	ctx := context.Background()

	stored := ports.ListResult{
		Items:      helpers.CreateTestItems(3),
		Pagination: domain.NewPagination(1, 10, 3),
	}
	require.NoError(t, c.Set(ctx, "_1_10_default", stored))

	var loaded ports.ListResult
	require.NoError(t, c.Get(ctx, "_1_10_default", &loaded))

	assert.Len(t, loaded.Items, 3)
	assert.Equal(t, stored.Pagination, loaded.Pagination)
}

func TestRedis_Get_Miss(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	c := cache.NewRedis(tr.Client, 5*time.Minute, helpers.TestLogger())

	var dest ports.ListResult
	err := c.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedis_Get_ExpiredEntryBehavesAsAbsent(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	c := cache.NewRedis(tr.Client, 5*time.Minute, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value"))

	tr.Server.FastForward(5*time.Minute + time.Second)

	var dest string
	err := c.Get(ctx, "key", &dest)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedis_InvalidateAll(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	c := cache.NewRedis(tr.Client, 5*time.Minute, helpers.TestLogger())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "_1_10_default", "a"))
	require.NoError(t, c.Set(ctx, "widget_2_10_price-asc", "b"))

	// A key outside the cache's namespace must survive invalidation.
	require.NoError(t, tr.Client.Set(ctx, "unrelated", "keep", 0).Err())

	require.NoError(t, c.InvalidateAll(ctx))

	var dest string
	assert.ErrorIs(t, c.Get(ctx, "_1_10_default", &dest), domain.ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "widget_2_10_price-asc", &dest), domain.ErrCacheMiss)

	kept, err := tr.Client.Get(ctx, "unrelated").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", kept)
}

func TestRedis_Ping(t *testing.T) {
	tr := helpers.SetupTestRedis(t)
	c := cache.NewRedis(tr.Client, 5*time.Minute, helpers.TestLogger())

	assert.NoError(t, c.Ping(context.Background()))

	tr.Server.Close()
	assert.Error(t, c.Ping(context.Background()))
}
