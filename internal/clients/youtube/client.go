// Package youtube queries the YouTube Data API v3 for catalog items.
// See https://developers.google.com/youtube/v3/docs/search/list.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/videoingest/backend/internal/models"
)

// maxResultsLimit is the provider's upper bound for maxResults
const maxResultsLimit = 50

type (
	// Client is a YouTube Data API client bound to one API key
	Client struct {
		apiKey     string
		baseURL    string
		httpClient *http.Client
	}

	searchResponse struct {
		Items []models.CatalogItem `json:"items"`
	}

	statisticsResponse struct {
		Items []struct {
			ID         string `json:"id"`
			Statistics struct {
				ViewCount    int64 `json:"viewCount,string"`
				LikeCount    int64 `json:"likeCount,string"`
				CommentCount int64 `json:"commentCount,string"`
			} `json:"statistics"`
		} `json:"items"`
	}

	errorResponse struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

// NewClient creates a Client. An empty apiKey yields a client whose calls
// fail with models.ErrUpstreamUnavailable.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search returns up to limit video-typed items matching query
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.CatalogItem, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: search API key is not configured", models.ErrUpstreamUnavailable)
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("type", "video")
	params.Set("key", c.apiKey)

	var resp searchResponse
	if err := c.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	items := resp.Items
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Statistics returns engagement statistics keyed by video ID for all ids in one call
func (c *Client) Statistics(ctx context.Context, ids []string) (map[string]models.Statistics, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: search API key is not configured", models.ErrUpstreamUnavailable)
	}
	if len(ids) == 0 {
		return map[string]models.Statistics{}, nil
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", c.apiKey)

	var resp statisticsResponse
	if err := c.getJSON(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	stats := make(map[string]models.Statistics, len(resp.Items))
	for _, item := range resp.Items {
		stats[item.ID] = models.Statistics{
			ViewCount:    item.Statistics.ViewCount,
			LikeCount:    item.Statistics.LikeCount,
			CommentCount: item.Statistics.CommentCount,
		}
	}
	return stats, nil
}

// getJSON performs a GET against the API and decodes a successful JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", models.ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", models.ErrUpstreamUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s response: %v", models.ErrUpstreamUnavailable, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		return fmt.Errorf("%w: %s returned status %d: %s", models.ErrUpstreamUnavailable, path, resp.StatusCode, message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", models.ErrUpstreamUnavailable, path, err)
	}
	return nil
}
