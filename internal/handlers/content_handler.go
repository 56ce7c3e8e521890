package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/videoingest/backend/internal/models"
	"go.uber.org/zap"
)

// ContentService is the interface that wraps content record business logic.
type ContentService interface {
	// Method Save validate "input", apply defaults and system fields, and insert the resulting record.
	//
	// A missing required field yields *models.MissingFieldError naming the field.
	// Without an explicit "_id" every call inserts a new record with a fresh identifier.
	Save(ctx context.Context, input models.ContentInput) (*models.ContentRecord, error)
}

// ContentHandler handles HTTP requests for content records
type ContentHandler struct {
	BaseHandler
	service  ContentService
	apiKeyMw func(http.Handler) http.Handler
}

// NewContentHandler creates a new content handler. apiKeyMw guards the mutating routes and may be nil.
func NewContentHandler(svc ContentService, logger *zap.Logger, apiKeyMw func(http.Handler) http.Handler) *ContentHandler {
	return &ContentHandler{
		service:     svc,
		apiKeyMw:    apiKeyMw,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all content handler routes
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	protect(r, h.apiKeyMw).Post("/content", h.Create)
}

// Create handles POST /api/v1/content
// @Summary Save a content record
// @Description Validate and store a content record for a published video
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.ContentInput true "Content fields"
// @Success 201 {object} models.ContentRecord
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/content [post]
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ContentInput
	if !h.decodeJSON(w, r, &input) {
		return
	}

	record, err := h.service.Save(r.Context(), input)
	if err != nil {
		h.logger.Error("failed to save content record", zap.Error(err))
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, record)
}
