// internal/handlers/stats.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bricolage/catalog-be/internal/core/ports"
)

// StatsHandler handles catalog statistics requests
type StatsHandler struct {
	service ports.StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service ports.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "stats")),
	}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute stats",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *StatsHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
