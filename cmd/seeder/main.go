// cmd/seeder/main.go

// Seeder fills the backing file with a sample catalog for development.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bricolage/catalog-be/internal/adapters/file"
	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/pkg/logger"
)

func main() {
	dataFile := flag.String("data-file", "data/items.json", "path to the backing file")
	flag.Parse()

	slogger := logger.Setup("info", "text")

	if err := os.MkdirAll(filepath.Dir(*dataFile), 0o755); err != nil {
		slogger.Error("failed to create data directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	base := time.Now().Add(-24 * time.Hour)
	seed := []struct {
		name     string
		category string
		price    float64
	}{
		{"Laptop Pro", "Electronics", 2499},
		{"Noise Cancelling Headphones", "Electronics", 399},
		{"Ultra-Wide Monitor", "Electronics", 999},
		{"Ergonomic Chair", "Furniture", 799},
		{"Standing Desk", "Furniture", 1199},
		{"Desk Lamp", "Furniture", 49},
		{"Mechanical Keyboard", "Accessories", 129},
		{"Wireless Mouse", "Accessories", 59},
		{"USB-C Dock", "Accessories", 189},
		{"Espresso Machine", "Appliances", 549},
	}

	items := make([]domain.Item, 0, len(seed))
	for i, s := range seed {
		item := domain.Item{
			Name:     s.name,
			Category: s.category,
			Price:    decimal.NewFromFloat(s.price),
		}
		// Spread ids out so they stay unique and ordered.
		item.AssignID(base.Add(time.Duration(i) * time.Minute))
		items = append(items, item)
	}

	store := file.NewStore(*dataFile, slogger)
	if err := store.WriteAll(context.Background(), items); err != nil {
		slogger.Error("failed to seed catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("catalog seeded",
		slog.String("data_file", *dataFile),
		slog.Int("items", len(items)))
}
