package repositories

import (
	"context"
	"fmt"

	"github.com/videoingest/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CollectionProvider hands out the content collection
type CollectionProvider interface {
	Collection(ctx context.Context) (*mongo.Collection, error)
}

type contentRepository struct {
	collections CollectionProvider
	logger      *zap.Logger
}

// NewContentRepository creates a new content record repository
func NewContentRepository(collections CollectionProvider, logger *zap.Logger) *contentRepository {
	return &contentRepository{
		collections: collections,
		logger:      logger,
	}
}

// Method Insert is a ContentRepository implementation for storing a new content record.
func (r *contentRepository) Insert(ctx context.Context, record *models.ContentRecord) error {
	coll, err := r.collections.Collection(ctx)
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, record); err != nil {
		r.logger.Error("failed to insert content record", zap.String("id", record.ID.Hex()), zap.Error(err))
		return fmt.Errorf("failed to insert content record: %w", err)
	}
	return nil
}
