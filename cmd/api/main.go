// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cache_a "github.com/bricolage/catalog-be/internal/adapters/cache"
	"github.com/bricolage/catalog-be/internal/adapters/file"
	"github.com/bricolage/catalog-be/internal/core/ports"
	"github.com/bricolage/catalog-be/internal/core/services"
	"github.com/bricolage/catalog-be/internal/handlers"
	"github.com/bricolage/catalog-be/internal/handlers/middleware"
	"github.com/bricolage/catalog-be/internal/pkg/config"
	"github.com/bricolage/catalog-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.Setup("info", "json")

	slogger.Info("starting catalog service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.Setup(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("data_file", cfg.Store.DataFile),
		slog.String("cache_backend", cfg.Cache.Backend),
	)

	deps, err := initializeDependencies(cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server", slog.String("address", cfg.ServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	store         *file.Store
	redisClient   *redis.Client
	cache         ports.ResponseCache
	itemService   *services.ItemService
	statsService  *services.StatsService
	itemsHandler  *handlers.ItemsHandler
	statsHandler  *handlers.StatsHandler
	healthHandler *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	deps.store = file.NewStore(cfg.Store.DataFile, slogger)

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		deps.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		deps.cache = cache_a.NewRedis(deps.redisClient, cfg.Cache.TTL, slogger)
	default:
		deps.cache = cache_a.NewMemory(cfg.Cache.TTL, slogger)
	}

	deps.itemService = services.NewItemService(deps.store, deps.cache, slogger)
	deps.statsService = services.NewStatsService(deps.store, slogger)

	deps.itemsHandler = handlers.NewItemsHandler(deps.itemService, slogger)
	deps.statsHandler = handlers.NewStatsHandler(deps.statsService, slogger)
	deps.healthHandler = handlers.NewHealthHandler(deps.store, deps.cache, Version, slogger)

	return deps, nil
}

func setupRouter(cfg *config.Config, deps *dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/items", deps.itemsHandler.ListItems)
	mux.HandleFunc("GET /api/items/{id}", deps.itemsHandler.GetItem)
	mux.HandleFunc("POST /api/items", deps.itemsHandler.CreateItem)
	mux.HandleFunc("GET /api/stats", deps.statsHandler.GetStats)
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	if cfg.Server.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Everything the patterns above don't claim falls through here.
	mux.Handle("/", middleware.NotFound())

	return mux
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(slogger),
		middleware.Logging(slogger),
		middleware.Metrics(),
		middleware.CORS(cfg.Security.AllowedOrigins),
		middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow),
	)

	return &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      chain(setupRouter(cfg, deps)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}
