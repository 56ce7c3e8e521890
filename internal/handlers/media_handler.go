package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/videoingest/backend/internal/models"
	"go.uber.org/zap"
)

// DownloadService is the interface that wraps media acquisition business logic.
type DownloadService interface {
	// Method Acquire download the video of "itemID" into the work directory, obtain a thumbnail and probe the duration.
	//
	// An empty "itemID" yields an error wrapping models.ErrInvalidInput.
	// Any tool failure yields an error wrapping models.ErrDownloadFailed with the tool diagnostic attached.
	Acquire(ctx context.Context, itemID string) (*models.DownloadResult, error)
}

// LocalPublishService is the interface that wraps publishing of already downloaded files.
type LocalPublishService interface {
	// Method PublishLocal compress the video, upload video, preview and thumbnail, then remove the local files.
	//
	// Missing local files yield an error wrapping models.ErrInputNotFound.
	// Missing storage credentials yield models.ErrStorageUnconfigured before anything runs;
	// a failed upload yields an error wrapping models.ErrUploadFailed. The local files are kept on every failure.
	PublishLocal(ctx context.Context, videoPath, thumbnailPath string, details models.ItemDetails) (*models.PublishedArtifacts, error)
}

// MediaHandler handles HTTP requests for single-item acquisition and publishing
type MediaHandler struct {
	BaseHandler
	downloads DownloadService
	publisher LocalPublishService
	apiKeyMw  func(http.Handler) http.Handler
}

// DownloadRequest is the body of POST /media/download
type DownloadRequest struct {
	ItemID string `json:"itemId"`
}

// DownloadResponse is the result of POST /media/download
type DownloadResponse struct {
	VideoPath       string                 `json:"videoPath"`
	ThumbnailPath   string                 `json:"thumbnailPath"`
	Duration        string                 `json:"duration"`
	ThumbnailSource models.ThumbnailSource `json:"thumbnailSource"`
}

// PublishRequest is the body of POST /media/publish
type PublishRequest struct {
	VideoPath     string             `json:"videoPath"`
	ThumbnailPath string             `json:"thumbnailPath"`
	ItemDetails   models.ItemDetails `json:"itemDetails"`
}

// NewMediaHandler creates a new media handler. apiKeyMw guards the mutating routes and may be nil.
func NewMediaHandler(downloads DownloadService, publisher LocalPublishService, logger *zap.Logger, apiKeyMw func(http.Handler) http.Handler) *MediaHandler {
	return &MediaHandler{
		downloads:   downloads,
		publisher:   publisher,
		apiKeyMw:    apiKeyMw,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all media handler routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/media", func(r chi.Router) {
		protected := protect(r, h.apiKeyMw)
		protected.Post("/download", h.Download)
		protected.Post("/publish", h.Publish)
	})
}

// Download handles POST /api/v1/media/download
// @Summary Download a catalog item
// @Description Download the video of a catalog item, derive its thumbnail and probe its duration
// @Tags media
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body DownloadRequest true "Item to download"
// @Success 200 {object} DownloadResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/media/download [post]
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.ItemID == "" {
		h.respondError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	result, err := h.downloads.Acquire(r.Context(), req.ItemID)
	if err != nil {
		h.logger.Error("failed to download item", zap.String("itemId", req.ItemID), zap.Error(err))
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, DownloadResponse{
		VideoPath:       result.VideoPath,
		ThumbnailPath:   result.ThumbnailPath,
		Duration:        strconv.FormatFloat(result.Duration, 'f', -1, 64),
		ThumbnailSource: result.ThumbnailSource,
	})
}

// Publish handles POST /api/v1/media/publish
// @Summary Publish downloaded files
// @Description Compress a downloaded video and upload the original, preview and thumbnail to object storage
// @Tags media
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body PublishRequest true "Local files and item details"
// @Success 200 {object} models.PublishedArtifacts
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/media/publish [post]
func (h *MediaHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.VideoPath == "" || req.ThumbnailPath == "" {
		h.respondError(w, http.StatusBadRequest, "videoPath and thumbnailPath are required")
		return
	}

	artifacts, err := h.publisher.PublishLocal(r.Context(), req.VideoPath, req.ThumbnailPath, req.ItemDetails)
	if err != nil {
		h.logger.Error("failed to publish files", zap.String("videoPath", req.VideoPath), zap.Error(err))
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, artifacts)
}
