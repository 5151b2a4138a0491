// internal/handlers/items.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
)

// ItemsHandler handles catalog item HTTP requests
type ItemsHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(service ports.ItemService, logger *slog.Logger) *ItemsHandler {
	return &ItemsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "items")),
	}
}

// ListItems handles GET /api/items
func (h *ItemsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetItem handles GET /api/items/{id}
func (h *ItemsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid ID parameter")
		return
	}

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get item",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items
func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.Create(ctx, req.ToDomain())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	h.respondJSON(w, http.StatusCreated, item)
}

// parseListParams parses query parameters for listing items. Page and limit
// arrive as strings; non-numeric or absent values fall back to the defaults.
// Zero or negative values pass through unvalidated, matching the documented
// behavior of the list contract.
func (h *ItemsHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.DefaultListParams()

	query := r.URL.Query()
	params.Query = query.Get("q")

	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			params.Page = p
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			params.Limit = l
		}
	}
	if sort := query.Get("sort"); sort != "" {
		params.Sort = domain.SortOption(sort)
	}

	return params
}

// Helper methods

func (h *ItemsHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ItemsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// CreateItemRequest represents the request body for creating an item.
// Price is decoded loosely so a non-number payload fails validation with a
// clear message instead of a generic decode error.
type CreateItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    any    `json:"price"`
}

// Validate validates the create item request. Checks run in a fixed order
// and the first failure short-circuits.
func (r *CreateItemRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	price, ok := r.Price.(float64)
	if !ok {
		return fmt.Errorf("price must be a number")
	}
	if price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model.
func (r *CreateItemRequest) ToDomain() *domain.Item {
	price, _ := r.Price.(float64)
	return &domain.Item{
		Name:     r.Name,
		Category: r.Category,
		Price:    decimal.NewFromFloat(price),
	}
}
