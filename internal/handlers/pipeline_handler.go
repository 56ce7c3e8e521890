package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/videoingest/backend/internal/models"
	"go.uber.org/zap"
)

// PipelineService is the interface that wraps batch ingestion business logic.
type PipelineService interface {
	// Method RunBatch run every item through download, transcode, publish and persist, strictly in order.
	//
	// A failing item never aborts the batch: the result holds one outcome per item.
	RunBatch(ctx context.Context, query string, items []models.CatalogItem) *models.BatchResult
	// Method Status return the latest human-readable pipeline status and when it was set.
	//
	// The zero time means no batch has run yet.
	Status() (string, time.Time)
}

// RunHistory is the interface that wraps stored batch run lookups.
type RunHistory interface {
	// Method GetByID retrieve a stored batch run with its ordered item outcomes.
	//
	// An unknown "id" yields models.ErrRunNotFound.
	GetByID(ctx context.Context, id string) (*models.BatchResult, error)
}

// PipelineHandler handles HTTP requests for batch ingestion
type PipelineHandler struct {
	BaseHandler
	service  PipelineService
	history  RunHistory
	apiKeyMw func(http.Handler) http.Handler
}

// BatchRequest is the body of POST /pipeline/batch
type BatchRequest struct {
	Query string               `json:"query"`
	Items []models.CatalogItem `json:"items"`
}

// StatusResponse is the result of GET /pipeline/status
type StatusResponse struct {
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// NewPipelineHandler creates a new pipeline handler. history may be nil when run history is disabled;
// apiKeyMw guards the mutating routes and may be nil.
func NewPipelineHandler(svc PipelineService, history RunHistory, logger *zap.Logger, apiKeyMw func(http.Handler) http.Handler) *PipelineHandler {
	return &PipelineHandler{
		service:     svc,
		history:     history,
		apiKeyMw:    apiKeyMw,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all pipeline handler routes
func (h *PipelineHandler) RegisterRoutes(r chi.Router) {
	r.Route("/pipeline", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Get("/runs/{id}", h.GetRun)
		protect(r, h.apiKeyMw).Post("/batch", h.RunBatch)
	})
}

// RunBatch handles POST /api/v1/pipeline/batch
// @Summary Run a batch ingestion
// @Description Download, transcode, publish and persist the selected catalog items one after another
// @Tags pipeline
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body BatchRequest true "Selected catalog items"
// @Success 200 {object} models.BatchResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/pipeline/batch [post]
func (h *PipelineHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "at least one item is required")
		return
	}

	result := h.service.RunBatch(r.Context(), req.Query, req.Items)
	h.respondJSON(w, http.StatusOK, result)
}

// GetStatus handles GET /api/v1/pipeline/status
// @Summary Get pipeline status
// @Description Get the latest human-readable pipeline status
// @Tags pipeline
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /api/v1/pipeline/status [get]
func (h *PipelineHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, updatedAt := h.service.Status()

	resp := StatusResponse{Status: status}
	if !updatedAt.IsZero() {
		resp.UpdatedAt = &updatedAt
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetRun handles GET /api/v1/pipeline/runs/{id}
// @Summary Get a batch run
// @Description Get a stored batch run with its per-item outcomes
// @Tags pipeline
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.BatchResult
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/pipeline/runs/{id} [get]
func (h *PipelineHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.respondError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.history.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get run", zap.String("runId", id), zap.Error(err))
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}
