package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videoingest/backend/internal/middleware"
	"github.com/videoingest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockSearchService is a mock implementation of SearchService
type mockSearchService struct {
	items    []models.CatalogItem
	err      error
	gotQuery string
	gotLimit int
}

func (m *mockSearchService) Search(ctx context.Context, query string, limit int) ([]models.CatalogItem, error) {
	m.gotQuery = query
	m.gotLimit = limit
	return m.items, m.err
}

// mockDownloadService is a mock implementation of DownloadService
type mockDownloadService struct {
	result *models.DownloadResult
	err    error
}

func (m *mockDownloadService) Acquire(ctx context.Context, itemID string) (*models.DownloadResult, error) {
	return m.result, m.err
}

// mockLocalPublishService is a mock implementation of LocalPublishService
type mockLocalPublishService struct {
	artifacts  *models.PublishedArtifacts
	err        error
	gotDetails models.ItemDetails
}

func (m *mockLocalPublishService) PublishLocal(ctx context.Context, videoPath, thumbnailPath string, details models.ItemDetails) (*models.PublishedArtifacts, error) {
	m.gotDetails = details
	return m.artifacts, m.err
}

// mockContentService is a mock implementation of ContentService
type mockContentService struct {
	record   *models.ContentRecord
	err      error
	gotInput models.ContentInput
}

func (m *mockContentService) Save(ctx context.Context, input models.ContentInput) (*models.ContentRecord, error) {
	m.gotInput = input
	return m.record, m.err
}

// mockPipelineService is a mock implementation of PipelineService
type mockPipelineService struct {
	result    *models.BatchResult
	status    string
	updatedAt time.Time
	gotItems  []models.CatalogItem
}

func (m *mockPipelineService) RunBatch(ctx context.Context, query string, items []models.CatalogItem) *models.BatchResult {
	m.gotItems = items
	return m.result
}

func (m *mockPipelineService) Status() (string, time.Time) {
	return m.status, m.updatedAt
}

// mockRunHistory is a mock implementation of RunHistory
type mockRunHistory struct {
	result *models.BatchResult
	err    error
}

func (m *mockRunHistory) GetByID(ctx context.Context, id string) (*models.BatchResult, error) {
	return m.result, m.err
}

type testServices struct {
	search    *mockSearchService
	downloads *mockDownloadService
	publisher *mockLocalPublishService
	content   *mockContentService
	pipeline  *mockPipelineService
	history   RunHistory
	apiKey    string
}

// setupTestRouter mounts every handler under /api/v1 the way the server does
func setupTestRouter(s *testServices) chi.Router {
	logger, _ := zap.NewDevelopment()
	if s.search == nil {
		s.search = &mockSearchService{}
	}
	if s.downloads == nil {
		s.downloads = &mockDownloadService{}
	}
	if s.publisher == nil {
		s.publisher = &mockLocalPublishService{}
	}
	if s.content == nil {
		s.content = &mockContentService{}
	}
	if s.pipeline == nil {
		s.pipeline = &mockPipelineService{}
	}
	apiKeyMw := middleware.APIKey(s.apiKey)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewHealthHandler(logger).RegisterRoutes(r)
		NewSearchHandler(s.search, logger).RegisterRoutes(r)
		NewMediaHandler(s.downloads, s.publisher, logger, apiKeyMw).RegisterRoutes(r)
		NewContentHandler(s.content, logger, apiKeyMw).RegisterRoutes(r)
		NewPipelineHandler(s.pipeline, s.history, logger, apiKeyMw).RegisterRoutes(r)
	})
	return r
}

func doRequest(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthHandler(t *testing.T) {
	w := doRequest(setupTestRouter(&testServices{}), http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearchHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		service        *mockSearchService
		expectedStatus int
		expectedLimit  int
		expectedError  string
	}{
		{
			name:   "success",
			target: "/api/v1/search?q=demo&limit=1",
			service: &mockSearchService{items: []models.CatalogItem{
				{ID: models.CatalogItemID{Kind: "youtube#video", VideoID: "vid1"}, Snippet: models.Snippet{Title: "demo"}},
			}},
			expectedStatus: http.StatusOK,
			expectedLimit:  1,
		},
		{
			name:           "default limit",
			target:         "/api/v1/search?q=demo",
			service:        &mockSearchService{items: []models.CatalogItem{}},
			expectedStatus: http.StatusOK,
			expectedLimit:  0,
		},
		{
			name:           "missing query",
			target:         "/api/v1/search",
			service:        &mockSearchService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "q parameter is required",
		},
		{
			name:           "invalid limit",
			target:         "/api/v1/search?q=demo&limit=many",
			service:        &mockSearchService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "limit must be a positive integer",
		},
		{
			name:           "provider unavailable",
			target:         "/api/v1/search?q=demo",
			service:        &mockSearchService{err: fmt.Errorf("%w: search API key is not configured", models.ErrUpstreamUnavailable)},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "upstream unavailable: search API key is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(&testServices{search: tt.service}), http.MethodGet, tt.target, "", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorBody(t, w))
				return
			}
			assert.Equal(t, "demo", tt.service.gotQuery)
			assert.Equal(t, tt.expectedLimit, tt.service.gotLimit)

			var items []models.CatalogItem
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
			assert.Len(t, items, len(tt.service.items))
		})
	}
}

func TestMediaHandler_Download(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *mockDownloadService
		expectedStatus int
		expectedBody   string
		expectedError  string
	}{
		{
			name: "success",
			body: `{"itemId":"vid1"}`,
			service: &mockDownloadService{result: &models.DownloadResult{
				VideoPath:       "tmp/vid1-1.mp4",
				ThumbnailPath:   "tmp/vid1-1.jpg",
				Duration:        212.43,
				ThumbnailSource: models.ThumbnailSourceFrame,
			}},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"videoPath":"tmp/vid1-1.mp4","thumbnailPath":"tmp/vid1-1.jpg","duration":"212.43","thumbnailSource":"frame"}`,
		},
		{
			name:           "missing item id",
			body:           `{}`,
			service:        &mockDownloadService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "itemId is required",
		},
		{
			name:           "malformed body",
			body:           `{"itemId":`,
			service:        &mockDownloadService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "download failed",
			body:           `{"itemId":"vid1"}`,
			service:        &mockDownloadService{err: fmt.Errorf("%w: video download: yt-dlp exited with code 1: ERROR: Video unavailable", models.ErrDownloadFailed)},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "download failed: video download: yt-dlp exited with code 1: ERROR: Video unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(&testServices{downloads: tt.service}), http.MethodPost, "/api/v1/media/download", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorBody(t, w))
				return
			}
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestMediaHandler_Publish(t *testing.T) {
	artifacts := &models.PublishedArtifacts{
		OriginalVideoURL: "https://cdn.example.test/c/1-demo-original.mp4",
		PreviewVideoURL:  "https://cdn.example.test/c/1-demo-preview.mp4",
		ThumbnailURL:     "https://cdn.example.test/c/1-demo-thumbnail.jpg",
		Prefix:           "1-demo",
	}
	validBody := `{"videoPath":"tmp/a.mp4","thumbnailPath":"tmp/a.jpg","itemDetails":{"title":"demo","description":"d","viewCount":3,"likeCount":1}}`

	tests := []struct {
		name           string
		body           string
		service        *mockLocalPublishService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success",
			body:           validBody,
			service:        &mockLocalPublishService{artifacts: artifacts},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing paths",
			body:           `{"itemDetails":{"title":"demo"}}`,
			service:        &mockLocalPublishService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "videoPath and thumbnailPath are required",
		},
		{
			name:           "input not found",
			body:           validBody,
			service:        &mockLocalPublishService{err: fmt.Errorf("%w: tmp/a.mp4", models.ErrInputNotFound)},
			expectedStatus: http.StatusNotFound,
			expectedError:  "input not found: tmp/a.mp4",
		},
		{
			name:           "storage unconfigured",
			body:           validBody,
			service:        &mockLocalPublishService{err: models.ErrStorageUnconfigured},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "storage is not configured",
		},
		{
			name:           "upload failed",
			body:           validBody,
			service:        &mockLocalPublishService{err: fmt.Errorf("%w: 1-demo-preview.mp4: access denied", models.ErrUploadFailed)},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "upload failed: 1-demo-preview.mp4: access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(&testServices{publisher: tt.service}), http.MethodPost, "/api/v1/media/publish", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorBody(t, w))
				return
			}

			var got models.PublishedArtifacts
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, *artifacts, got)
			assert.Equal(t, models.ItemDetails{Title: "demo", Description: "d", ViewCount: 3, LikeCount: 1}, tt.service.gotDetails)
		})
	}
}

func TestContentHandler_Create(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name           string
		service        *mockContentService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success",
			service:        &mockContentService{record: &models.ContentRecord{ID: id, Title: "demo", Status: true}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing field",
			service:        &mockContentService{err: &models.MissingFieldError{Field: "preview_video"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "preview_video is required",
		},
		{
			name:           "store unconfigured",
			service:        &mockContentService{err: fmt.Errorf("failed to save content record: %w", models.ErrStoreUnconfigured)},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to save content record: document store is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(&testServices{content: tt.service}), http.MethodPost, "/api/v1/content", `{"title":"demo"}`, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorBody(t, w))
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, id.Hex(), body["_id"])
			assert.Equal(t, "demo", body["title"])
			assert.Equal(t, true, body["status"])
		})
	}
}

func TestContentHandler_CreateAcceptsStringCounters(t *testing.T) {
	service := &mockContentService{record: &models.ContentRecord{ID: primitive.NewObjectID()}}
	body := `{"title":"demo","description":"d","thumbnail":"t","preview_video":"p","original_video":"o","views":"123","likes":"4"}`

	w := doRequest(setupTestRouter(&testServices{content: service}), http.MethodPost, "/api/v1/content", body, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.Counter(123), service.gotInput.Views)
	assert.Equal(t, models.Counter(4), service.gotInput.Likes)

	w = doRequest(setupTestRouter(&testServices{content: service}), http.MethodPost, "/api/v1/content", `{"title":"demo","views":"many"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", errorBody(t, w))
}

func TestPipelineHandler_RunBatch(t *testing.T) {
	result := &models.BatchResult{
		RunID:     "run-1",
		Query:     "demo",
		Succeeded: 1,
		Failed:    1,
		Outcomes: []models.ItemOutcome{
			{ItemID: "vid1", Title: "first", State: models.StateDone},
			{ItemID: "vid2", Title: "second", State: models.StateFailed, FailedStage: models.StatePublishing, Error: "storage is not configured"},
		},
	}

	t.Run("success", func(t *testing.T) {
		pipeline := &mockPipelineService{result: result}
		body := `{"query":"demo","items":[{"id":{"kind":"youtube#video","videoId":"vid1"},"snippet":{"title":"first"}},{"id":{"kind":"youtube#video","videoId":"vid2"},"snippet":{"title":"second"}}]}`

		w := doRequest(setupTestRouter(&testServices{pipeline: pipeline}), http.MethodPost, "/api/v1/pipeline/batch", body, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, pipeline.gotItems, 2)
		assert.Equal(t, "vid2", pipeline.gotItems[1].ID.VideoID)

		var got models.BatchResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.Failed)
		assert.Equal(t, models.StatePublishing, got.Outcomes[1].FailedStage)
	})

	t.Run("no items", func(t *testing.T) {
		w := doRequest(setupTestRouter(&testServices{}), http.MethodPost, "/api/v1/pipeline/batch", `{"items":[]}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "at least one item is required", errorBody(t, w))
	})
}

func TestPipelineHandler_GetStatus(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		w := doRequest(setupTestRouter(&testServices{}), http.MethodGet, "/api/v1/pipeline/status", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":""}`, w.Body.String())
	})

	t.Run("running", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		pipeline := &mockPipelineService{status: "Uploading video to storage: demo", updatedAt: at}

		w := doRequest(setupTestRouter(&testServices{pipeline: pipeline}), http.MethodGet, "/api/v1/pipeline/status", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"Uploading video to storage: demo","updatedAt":"2024-03-01T10:00:00Z"}`, w.Body.String())
	})
}

func TestPipelineHandler_GetRun(t *testing.T) {
	tests := []struct {
		name           string
		history        RunHistory
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success",
			history:        &mockRunHistory{result: &models.BatchResult{RunID: "run-1", Outcomes: []models.ItemOutcome{}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			history:        &mockRunHistory{err: models.ErrRunNotFound},
			expectedStatus: http.StatusNotFound,
			expectedError:  "run not found",
		},
		{
			name:           "history disabled",
			history:        nil,
			expectedStatus: http.StatusNotFound,
			expectedError:  "run history is not enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupTestRouter(&testServices{history: tt.history}), http.MethodGet, "/api/v1/pipeline/runs/run-1", "", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorBody(t, w))
				return
			}
			var got models.BatchResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "run-1", got.RunID)
		})
	}
}

func TestProtectedRoutesRequireAPIKey(t *testing.T) {
	services := &testServices{
		apiKey:    "secret",
		downloads: &mockDownloadService{result: &models.DownloadResult{VideoPath: "a", ThumbnailPath: "b"}},
	}
	router := setupTestRouter(services)

	routes := []string{"/api/v1/media/download", "/api/v1/media/publish", "/api/v1/content", "/api/v1/pipeline/batch"}
	for _, route := range routes {
		w := doRequest(router, http.MethodPost, route, `{}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route)
	}

	w := doRequest(router, http.MethodPost, "/api/v1/media/download", `{"itemId":"vid1"}`, map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/pipeline/status", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
