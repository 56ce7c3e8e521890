package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/videoingest/backend/internal/models"
	"go.uber.org/zap"
)

// SearchService is the interface that wraps catalog search business logic.
type SearchService interface {
	// Method Search retrieve catalog items matching "query", enriched with engagement statistics.
	//
	// At most "limit" items are returned; a non-positive "limit" uses the default.
	// An empty query yields an error wrapping models.ErrInvalidInput.
	// An unconfigured or failing provider yields an error wrapping models.ErrUpstreamUnavailable.
	// A failed statistics lookup is not an error: items are returned without statistics.
	Search(ctx context.Context, query string, limit int) ([]models.CatalogItem, error)
}

// SearchHandler handles HTTP requests for catalog search
type SearchHandler struct {
	BaseHandler
	service SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all search handler routes
func (h *SearchHandler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.Search)
}

// Search handles GET /api/v1/search
// @Summary Search the video catalog
// @Description Search the external catalog for videos and enrich them with engagement statistics
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum number of results, default: 5"
// @Success 200 {array} models.CatalogItem
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	items, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("failed to search catalog", zap.String("query", query), zap.Error(err))
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}
