package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/videoingest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ContentRepository is the interface that wraps methods for content record storage
type ContentRepository interface {
	// Method Insert store a new content record.
	//
	// The record's ID must already be assigned. If the document store is not configured,
	// an error wrapping models.ErrStoreUnconfigured is returned.
	Insert(ctx context.Context, record *models.ContentRecord) error
}

const (
	defaultLanguage      = "english"
	defaultCategory      = "general"
	defaultCertification = "U"
	defaultCreatorName   = "admin"
	processedImageType   = "image/jpeg"
)

type contentService struct {
	repo          ContentRepository
	validate      *validator.Validate
	defaultUserID string
	now           func() time.Time
	logger        *zap.Logger
}

// NewContentService creates a new content record service owned by defaultUserID
func NewContentService(repo ContentRepository, validate *validator.Validate, defaultUserID string, logger *zap.Logger) *contentService {
	return &contentService{
		repo:          repo,
		validate:      validate,
		defaultUserID: defaultUserID,
		now:           time.Now,
		logger:        logger,
	}
}

// Save validates input, applies defaults and system fields, and inserts the resulting record
//
// A missing required field yields *models.MissingFieldError naming it. Without an explicit
// "_id" every call inserts a new record with a fresh identifier.
func (s *contentService) Save(ctx context.Context, input models.ContentInput) (*models.ContentRecord, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, missingFieldError(err)
	}

	id := primitive.NewObjectID()
	if input.ID != "" {
		explicit, err := primitive.ObjectIDFromHex(input.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: _id must be a 24-hex identifier", models.ErrInvalidInput)
		}
		id = explicit
	}

	owner, createdByID := s.owner()
	now := s.now().UTC()

	record := &models.ContentRecord{
		ID:            id,
		Title:         input.Title,
		Description:   input.Description,
		Thumbnail:     input.Thumbnail,
		PreviewVideo:  input.PreviewVideo,
		OriginalVideo: input.OriginalVideo,
		Language:      withDefault(input.Language, defaultLanguage),
		Category:      withDefault(input.Category, defaultCategory),
		Certification: input.Certification,
		Views:         int64(input.Views),
		Likes:         int64(input.Likes),
		Duration:      input.Duration,

		User:          owner,
		ViewsID:       []primitive.ObjectID{},
		LikesID:       []primitive.ObjectID{},
		Status:        true,
		IsBannerVideo: false,
		IsActiveVideo: true,
		CreatedByID:   createdByID,
		CreatedByName: defaultCreatorName,
		ProcessedImages: models.ProcessedImages{
			Medium: processedImage(480, 360),
			Small:  processedImage(110, 100),
			High:   processedImage(720, 540),
		},
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       0,
		FollowerCount: 0,
		AverageRating: 0,
		Ratings:       []models.Rating{},
	}
	if strings.TrimSpace(record.Certification) == "" {
		record.Certification = defaultCertification
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		s.logger.Error("failed to save content record", zap.String("title", input.Title), zap.Error(err))
		return nil, fmt.Errorf("failed to save content record: %w", err)
	}

	s.logger.Info("content record saved", zap.String("id", record.ID.Hex()), zap.String("title", record.Title))
	return record, nil
}

// owner resolves the configured default owner, falling back to a fresh identifier
// when the configured one is absent or malformed
func (s *contentService) owner() (primitive.ObjectID, string) {
	if id, err := primitive.ObjectIDFromHex(s.defaultUserID); err == nil {
		return id, s.defaultUserID
	}

	id := primitive.NewObjectID()
	if s.defaultUserID != "" {
		s.logger.Warn("default user id is malformed, using a fresh owner id",
			zap.String("configured", s.defaultUserID), zap.String("owner", id.Hex()))
		return id, s.defaultUserID
	}
	return id, id.Hex()
}

func processedImage(width, height int) models.ProcessedImage {
	return models.ProcessedImage{
		Caption: "caption",
		Path:    primitive.NewObjectID().Hex() + ".jpeg",
		Width:   width,
		Height:  height,
		Type:    processedImageType,
	}
}

func withDefault(values []string, fallback string) []string {
	if len(values) == 0 {
		return []string{fallback}
	}
	return values
}
