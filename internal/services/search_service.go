package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/videoingest/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogProvider is the interface that wraps calls to the external video catalog
type CatalogProvider interface {
	// Method Search retrieve video-typed catalog items matching "query".
	//
	// At most "limit" items are returned. Items are returned without statistics.
	// If the provider is unconfigured or unreachable, an error wrapping models.ErrUpstreamUnavailable is returned.
	Search(ctx context.Context, query string, limit int) ([]models.CatalogItem, error)
	// Method Statistics retrieve engagement statistics for all "ids" in a single batched call.
	//
	// The result is keyed by item identifier. Identifiers unknown to the provider are absent from the map.
	Statistics(ctx context.Context, ids []string) (map[string]models.Statistics, error)
}

// DefaultSearchLimit is used when the caller does not bound the result size
const DefaultSearchLimit = 5

type searchService struct {
	provider CatalogProvider
	logger   *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(provider CatalogProvider, logger *zap.Logger) *searchService {
	return &searchService{
		provider: provider,
		logger:   logger,
	}
}

// Search retrieves catalog items matching query, enriched with engagement statistics
//
// A failed statistics lookup is tolerated: the primary items are returned without statistics.
// Items without an identifier are dropped.
func (s *searchService) Search(ctx context.Context, query string, limit int) ([]models.CatalogItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", models.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	found, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("catalog search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(found))
	ids := make([]string, 0, len(found))
	for _, item := range found {
		if item.ID.VideoID == "" {
			continue
		}
		items = append(items, item)
		ids = append(ids, item.ID.VideoID)
		if len(items) == limit {
			break
		}
	}

	if len(ids) == 0 {
		return items, nil
	}

	stats, err := s.provider.Statistics(ctx, ids)
	if err != nil {
		s.logger.Warn("statistics lookup failed, returning items without statistics",
			zap.String("query", query), zap.Error(err))
		return items, nil
	}

	for i := range items {
		if st, ok := stats[items[i].ID.VideoID]; ok {
			items[i].Statistics = &st
		}
	}

	return items, nil
}
