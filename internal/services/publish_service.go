package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/videoingest/backend/internal/models"
	"github.com/videoingest/backend/internal/storage"
	"go.uber.org/zap"
)

// ObjectUploader is the interface that wraps object storage uploads
type ObjectUploader interface {
	// Method Configured report whether the storage container can be reached at all.
	Configured() bool
	// Method Upload store the file at "localPath" under "objectName" and return its durable URL.
	//
	// If storage is unconfigured, models.ErrStorageUnconfigured is returned.
	Upload(ctx context.Context, objectName, localPath, contentType string) (string, error)
}

type publishService struct {
	store  ObjectUploader
	now    func() time.Time
	logger *zap.Logger
}

// NewPublishService creates a new artifact publish service
func NewPublishService(store ObjectUploader, logger *zap.Logger) *publishService {
	return &publishService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Configured reports whether the storage container can be reached at all
func (s *publishService) Configured() bool {
	return s.store.Configured()
}

// Publish uploads the original, preview and thumbnail files under a shared prefix
// derived from the current time and title
//
// Storage configuration is checked once before any upload. Objects uploaded before a
// failing upload are left in place.
func (s *publishService) Publish(ctx context.Context, originalPath, previewPath, thumbnailPath, title string) (*models.PublishedArtifacts, error) {
	if !s.store.Configured() {
		return nil, models.ErrStorageUnconfigured
	}

	prefix := storage.ArtifactPrefix(title, s.now())
	artifacts := &models.PublishedArtifacts{Prefix: prefix}

	uploads := []struct {
		role string
		path string
		ext  string
		url  *string
	}{
		{role: "original", path: originalPath, ext: ".mp4", url: &artifacts.OriginalVideoURL},
		{role: "preview", path: previewPath, ext: ".mp4", url: &artifacts.PreviewVideoURL},
		{role: "thumbnail", path: thumbnailPath, ext: ".jpg", url: &artifacts.ThumbnailURL},
	}

	for _, u := range uploads {
		objectName := fmt.Sprintf("%s-%s%s", prefix, u.role, u.ext)
		// object names are fixed; the content type follows the bytes actually uploaded
		contentType := storage.ContentTypeFor(u.path)
		if contentType == storage.DefaultContentType {
			contentType = storage.ContentTypeFor(objectName)
		}

		url, err := s.store.Upload(ctx, objectName, u.path, contentType)
		if err != nil {
			s.logger.Error("artifact upload failed", zap.String("object", objectName), zap.Error(err))
			if errors.Is(err, models.ErrStorageUnconfigured) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %w", models.ErrUploadFailed, objectName, err)
		}
		*u.url = url
		s.logger.Debug("artifact uploaded", zap.String("object", objectName), zap.String("url", url))
	}

	s.logger.Info("artifacts published", zap.String("prefix", prefix))
	return artifacts, nil
}
