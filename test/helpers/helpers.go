// test/helpers/helpers.go
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bricolage/catalog-be/internal/adapters/file"
	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestStore creates a file store backed by a temp file seeded with items
func SetupTestStore(t *testing.T, items []domain.Item) *file.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "items.json")
	store := file.NewStore(path, TestLogger())

	if items != nil {
		require.NoError(t, store.WriteAll(context.Background(), items),
			"Failed to seed test store")
	}

	return store
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
		},
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            "3001",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 5 * time.Second,
			EnableMetrics:   false,
		},
		Store: config.StoreConfig{
			DataFile: "data/items.json",
		},
		Cache: config.CacheConfig{
			Backend: config.CacheBackendMemory,
			TTL:     5 * time.Minute,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			AllowedOrigins:    []string{"*"},
		},
	}
}

// CreateTestItem creates a test catalog item
func CreateTestItem(overrides ...func(*domain.Item)) *domain.Item {
	item := &domain.Item{
		ID:       time.Now().UnixMilli(),
		Name:     "Test Mechanical Keyboard",
		Category: "Accessories",
		Price:    decimal.NewFromFloat(129.00),
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestItems creates multiple test catalog items with distinct ids
func CreateTestItems(count int) []domain.Item {
	items := make([]domain.Item, count)

	categories := []string{
		"Electronics",
		"Furniture",
		"Accessories",
		"Appliances",
	}

	base := time.Now().Add(-time.Duration(count) * time.Minute)
	for i := 0; i < count; i++ {
		items[i] = *CreateTestItem(func(item *domain.Item) {
			item.ID = base.Add(time.Duration(i) * time.Minute).UnixMilli()
			item.Name = fmt.Sprintf("Test Item %d", i+1)
			item.Category = categories[i%len(categories)]
			item.Price = decimal.NewFromFloat(float64(100 + i*50))
		})
	}

	return items
}

// CompareItems compares two catalog items for testing
func CompareItems(t *testing.T, expected, actual *domain.Item) {
	t.Helper()

	require.Equal(t, expected.ID, actual.ID)
	require.Equal(t, expected.Name, actual.Name)
	require.Equal(t, expected.Category, actual.Category)
	require.True(t, expected.Price.Equal(actual.Price),
		"expected price %s, got %s", expected.Price, actual.Price)
}

// WriteRawDataFile writes raw bytes as the backing file, bypassing the store
func WriteRawDataFile(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, content, 0o644),
		"Failed to write raw data file")

	return path
}

// MarshalItems serializes items the way the backing file stores them
func MarshalItems(t *testing.T, items []domain.Item) []byte {
	t.Helper()

	data, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err, "Failed to marshal items")

	return data
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
