// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/bricolage/catalog-be/internal/core/ports"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	repo      ports.ItemRepository
	cache     ports.ResponseCache
	version   string
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(repo ports.ItemRepository, cache ports.ResponseCache, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		repo:      repo,
		cache:     cache,
		version:   version,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus represents the health status of the application
type HealthStatus struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]ServiceInfo `json:"services"`
	System    SystemInfo             `json:"system"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
}

// Health handles the /health endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
		Services:  make(map[string]ServiceInfo),
	}

	status.Services["store"] = h.checkStore(ctx)
	status.Services["cache"] = h.checkCache(ctx)

	httpStatus := http.StatusOK
	for _, svc := range status.Services {
		if svc.Status != "healthy" {
			status.Status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	status.System = SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: mem.Alloc / 1024 / 1024,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("failed to encode health response",
			slog.String("error", err.Error()))
	}
}

func (h *HealthHandler) checkStore(ctx context.Context) ServiceInfo {
	start := time.Now()
	if _, err := h.repo.ReadAll(ctx); err != nil {
		return ServiceInfo{Status: "unhealthy", Message: err.Error()}
	}
	return ServiceInfo{
		Status:       "healthy",
		ResponseTime: time.Since(start).String(),
	}
}

func (h *HealthHandler) checkCache(ctx context.Context) ServiceInfo {
	start := time.Now()
	if err := h.cache.Ping(ctx); err != nil {
		return ServiceInfo{Status: "unhealthy", Message: err.Error()}
	}
	return ServiceInfo{
		Status:       "healthy",
		ResponseTime: time.Since(start).String(),
	}
}
