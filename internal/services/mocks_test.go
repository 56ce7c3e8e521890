package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/videoingest/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fixedNow is the clock used by every service under test
var fixedNow = time.UnixMilli(1700000000000)

func fixedClock() time.Time {
	return fixedNow
}

// runnerCall is one recorded tool invocation
type runnerCall struct {
	name string
	args []string
	// ctxErr is the state of the context the tool was started with
	ctxErr error
}

// fakeRunner is a runner.Runner that never starts a process
type fakeRunner struct {
	mu     sync.Mutex
	calls  []runnerCall
	handle func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runnerCall{name: name, args: args, ctxErr: ctx.Err()})
	f.mu.Unlock()

	if f.handle == nil {
		return nil, nil
	}
	return f.handle(name, args)
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// argAfter returns the argument following flag, or the empty string
func argAfter(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
}

// mockCatalog is a mock implementation of CatalogProvider
type mockCatalog struct {
	items     []models.CatalogItem
	stats     map[string]models.Statistics
	searchErr error
	statsErr  error

	gotLimit int
	gotIDs   []string
}

func (m *mockCatalog) Search(ctx context.Context, query string, limit int) ([]models.CatalogItem, error) {
	m.gotLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.items, nil
}

func (m *mockCatalog) Statistics(ctx context.Context, ids []string) (map[string]models.Statistics, error) {
	m.gotIDs = ids
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

// upload is one recorded object upload
type upload struct {
	objectName  string
	localPath   string
	contentType string
}

// mockUploader is a mock implementation of ObjectUploader
type mockUploader struct {
	configured bool
	failOn     string
	err        error
	uploads    []upload
}

func (m *mockUploader) Configured() bool {
	return m.configured
}

func (m *mockUploader) Upload(ctx context.Context, objectName, localPath, contentType string) (string, error) {
	m.uploads = append(m.uploads, upload{objectName: objectName, localPath: localPath, contentType: contentType})
	if m.failOn != "" && strings.Contains(objectName, m.failOn) {
		return "", m.err
	}
	return "https://cdn.example.test/zynoflix-ott/" + objectName, nil
}

// mockContentRepository is a mock implementation of ContentRepository
type mockContentRepository struct {
	inserted []*models.ContentRecord
	err      error
}

func (m *mockContentRepository) Insert(ctx context.Context, record *models.ContentRecord) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, record)
	return nil
}

// mockAcquirer is a mock implementation of Acquirer
type mockAcquirer struct {
	failFor map[string]error
	calls   []string
}

func (m *mockAcquirer) Acquire(ctx context.Context, itemID string) (*models.DownloadResult, error) {
	m.calls = append(m.calls, itemID)
	if err, ok := m.failFor[itemID]; ok {
		return nil, err
	}
	return &models.DownloadResult{
		VideoPath:       "/work/" + itemID + ".mp4",
		ThumbnailPath:   "/work/" + itemID + ".jpg",
		Duration:        42.5,
		ThumbnailSource: models.ThumbnailSourceProvider,
		Stem:            itemID,
	}, nil
}

// mockCompressor is a mock implementation of Compressor. failFor is keyed by the input file name.
type mockCompressor struct {
	failFor map[string]error
	calls   []string
}

func (m *mockCompressor) Compress(ctx context.Context, videoPath string) (*models.TranscodeResult, error) {
	m.calls = append(m.calls, videoPath)
	if err, ok := m.failFor[filepath.Base(videoPath)]; ok {
		return nil, err
	}
	return &models.TranscodeResult{PreviewPath: filepath.Join(filepath.Dir(videoPath), "compressed-"+filepath.Base(videoPath))}, nil
}

// mockPublisher is a mock implementation of Publisher
type mockPublisher struct {
	unconfigured bool
	failFor      map[string]error
	calls        []string
}

func (m *mockPublisher) Configured() bool {
	return !m.unconfigured
}

func (m *mockPublisher) Publish(ctx context.Context, originalPath, previewPath, thumbnailPath, title string) (*models.PublishedArtifacts, error) {
	m.calls = append(m.calls, title)
	if err, ok := m.failFor[title]; ok {
		return nil, err
	}
	prefix := "1700000000000-" + title
	return &models.PublishedArtifacts{
		OriginalVideoURL: "https://cdn.example.test/c/" + prefix + "-original.mp4",
		PreviewVideoURL:  "https://cdn.example.test/c/" + prefix + "-preview.mp4",
		ThumbnailURL:     "https://cdn.example.test/c/" + prefix + "-thumbnail.jpg",
		Prefix:           prefix,
	}, nil
}

// mockSaver is a mock implementation of ContentSaver
type mockSaver struct {
	failFor map[string]error
	inputs  []models.ContentInput
}

func (m *mockSaver) Save(ctx context.Context, input models.ContentInput) (*models.ContentRecord, error) {
	m.inputs = append(m.inputs, input)
	if err, ok := m.failFor[input.Title]; ok {
		return nil, err
	}
	return &models.ContentRecord{ID: primitive.NewObjectID(), Title: input.Title}, nil
}

// mockCleaner is a mock implementation of FileCleaner
type mockCleaner struct {
	removed []string
	stems   []string
	// outside rejects every path as lying outside the working directory
	outside bool
}

func (m *mockCleaner) Remove(paths ...string) {
	m.removed = append(m.removed, paths...)
}

func (m *mockCleaner) RemoveStem(stem string) {
	m.stems = append(m.stems, stem)
}

func (m *mockCleaner) Contains(path string) bool {
	return !m.outside
}

// mockRecorder is a mock implementation of RunRecorder
type mockRecorder struct {
	results []*models.BatchResult
	ctxErr  error
	err     error
}

func (m *mockRecorder) Create(ctx context.Context, result *models.BatchResult) error {
	m.results = append(m.results, result)
	m.ctxErr = ctx.Err()
	return m.err
}

func catalogItem(id, title string) models.CatalogItem {
	return models.CatalogItem{
		ID:      models.CatalogItemID{Kind: "youtube#video", VideoID: id},
		Snippet: models.Snippet{Title: title, Description: title + " description"},
	}
}
