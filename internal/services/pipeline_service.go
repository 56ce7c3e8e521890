package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/videoingest/backend/internal/models"
	"github.com/videoingest/backend/internal/storage"
	"go.uber.org/zap"
)

type (
	// Acquirer is the interface that wraps media acquisition
	Acquirer interface {
		// Method Acquire download the video of "itemID" and derive its thumbnail and duration.
		Acquire(ctx context.Context, itemID string) (*models.DownloadResult, error)
	}

	// Compressor is the interface that wraps preview encoding
	Compressor interface {
		// Method Compress produce a preview rendition of the file at "videoPath".
		Compress(ctx context.Context, videoPath string) (*models.TranscodeResult, error)
	}

	// Publisher is the interface that wraps artifact publishing
	Publisher interface {
		// Method Configured report whether object storage credentials are present.
		Configured() bool
		// Method Publish upload the three local files and return their durable URLs.
		Publish(ctx context.Context, originalPath, previewPath, thumbnailPath, title string) (*models.PublishedArtifacts, error)
	}

	// ContentSaver is the interface that wraps content record persistence
	ContentSaver interface {
		// Method Save validate "input" and insert the resulting content record.
		Save(ctx context.Context, input models.ContentInput) (*models.ContentRecord, error)
	}

	// RunRecorder is the interface that wraps batch run history storage
	RunRecorder interface {
		// Method Create store a finished batch run with all of its item outcomes.
		Create(ctx context.Context, result *models.BatchResult) error
	}

	// FileCleaner is the interface that wraps best-effort removal of temporary files
	FileCleaner interface {
		// Method Remove delete the given files, swallowing every error.
		Remove(paths ...string)
		// Method RemoveStem delete every file sharing the given base name, swallowing every error.
		RemoveStem(stem string)
		// Method Contains report whether "path" lies inside the working directory.
		Contains(path string) bool
	}
)

type pipelineService struct {
	acquirer   Acquirer
	compressor Compressor
	publisher  Publisher
	saver      ContentSaver
	cleaner    FileCleaner
	status     *StatusTracker
	recorder   RunRecorder
	now        func() time.Time
	logger     *zap.Logger
}

// NewPipelineService creates a new ingestion pipeline service.
// recorder may be nil when run history is disabled.
func NewPipelineService(
	acquirer Acquirer,
	compressor Compressor,
	publisher Publisher,
	saver ContentSaver,
	cleaner FileCleaner,
	status *StatusTracker,
	recorder RunRecorder,
	logger *zap.Logger,
) *pipelineService {
	return &pipelineService{
		acquirer:   acquirer,
		compressor: compressor,
		publisher:  publisher,
		saver:      saver,
		cleaner:    cleaner,
		status:     status,
		recorder:   recorder,
		now:        time.Now,
		logger:     logger,
	}
}

// RunBatch runs every item through the pipeline strictly in order and returns one outcome per item
//
// A failed item never stops the batch. Stages are not interrupted once started: cancellation
// of ctx is observed only between stages.
func (s *pipelineService) RunBatch(ctx context.Context, query string, items []models.CatalogItem) *models.BatchResult {
	result := &models.BatchResult{
		RunID:     uuid.NewString(),
		Query:     query,
		Outcomes:  make([]models.ItemOutcome, 0, len(items)),
		StartedAt: s.now().UTC(),
	}

	s.logger.Info("batch started", zap.String("runId", result.RunID), zap.Int("items", len(items)))

	for i, item := range items {
		s.status.Set(fmt.Sprintf("Processing video %d/%d: %s", i+1, len(items), item.Snippet.Title))

		outcome := s.runItem(ctx, item)
		if outcome.State == models.StateDone {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.FinishedAt = s.now().UTC()
	s.status.Set(fmt.Sprintf("All videos processed (%d succeeded, %d failed)", result.Succeeded, result.Failed))
	s.logger.Info("batch finished",
		zap.String("runId", result.RunID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	if s.recorder != nil {
		if err := s.recorder.Create(context.WithoutCancel(ctx), result); err != nil {
			s.logger.Error("failed to record batch run", zap.String("runId", result.RunID), zap.Error(err))
		}
	}

	return result
}

// runItem moves one item through every stage until it is done or failed
func (s *pipelineService) runItem(ctx context.Context, item models.CatalogItem) models.ItemOutcome {
	stageCtx := context.WithoutCancel(ctx)
	title := item.Snippet.Title
	outcome := models.ItemOutcome{
		ItemID: item.ID.VideoID,
		Title:  title,
		State:  models.StateQueued,
	}

	var (
		download *models.DownloadResult
		preview  *models.TranscodeResult
	)
	defer func() {
		s.cleanup(download, preview)
	}()

	fail := func(err error) models.ItemOutcome {
		stageErr := &models.StageError{Stage: outcome.State, Err: err}
		s.logger.Error("item failed",
			zap.String("itemId", outcome.ItemID),
			zap.String("stage", string(outcome.State)),
			zap.Error(err),
		)
		s.status.Set(fmt.Sprintf("Failed to process video: %s (%v)", title, stageErr))
		outcome.FailedStage = outcome.State
		outcome.State = models.StateFailed
		outcome.Error = err.Error()
		return outcome
	}

	enter := func(state models.ItemState, status string) error {
		outcome.State = state
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger.Debug("item entered stage", zap.String("itemId", outcome.ItemID), zap.String("stage", string(state)))
		s.status.Set(status)
		return nil
	}

	var err error

	if err = enter(models.StateDownloading, "Downloading video: "+title); err != nil {
		return fail(err)
	}
	if download, err = s.acquirer.Acquire(stageCtx, item.ID.VideoID); err != nil {
		return fail(err)
	}

	if err = enter(models.StateTranscoding, "Compressing preview: "+title); err != nil {
		return fail(err)
	}
	if preview, err = s.compressor.Compress(stageCtx, download.VideoPath); err != nil {
		return fail(err)
	}

	if err = enter(models.StatePublishing, "Uploading video to storage: "+title); err != nil {
		return fail(err)
	}
	artifacts, err := s.publisher.Publish(stageCtx, download.VideoPath, preview.PreviewPath, download.ThumbnailPath, title)
	if err != nil {
		return fail(err)
	}

	if err = enter(models.StatePersisting, "Saving video details to database: "+title); err != nil {
		return fail(err)
	}
	record, err := s.saver.Save(stageCtx, models.ContentInput{
		Title:         title,
		Description:   item.Snippet.Description,
		Thumbnail:     artifacts.ThumbnailURL,
		PreviewVideo:  artifacts.PreviewVideoURL,
		OriginalVideo: artifacts.OriginalVideoURL,
		Views:         models.Counter(item.Views()),
		Likes:         models.Counter(item.Likes()),
		Duration:      strconv.FormatFloat(download.Duration, 'f', -1, 64),
	})
	if err != nil {
		return fail(err)
	}

	outcome.State = models.StateDone
	outcome.RecordID = record.ID.Hex()
	outcome.Record = record
	s.logger.Info("item done", zap.String("itemId", outcome.ItemID), zap.String("recordId", record.ID.Hex()))
	return outcome
}

// PublishLocal compresses and publishes already downloaded files, then removes all local copies
//
// Both files must lie inside the working directory and exist, and storage must be
// configured, otherwise an error is returned before any tool runs and nothing is removed.
// When compression or publishing fails only the generated preview is removed, so the
// caller can retry with the same files.
func (s *pipelineService) PublishLocal(ctx context.Context, videoPath, thumbnailPath string, details models.ItemDetails) (*models.PublishedArtifacts, error) {
	for _, path := range []string{videoPath, thumbnailPath} {
		if path == "" {
			return nil, fmt.Errorf("%w: videoPath and thumbnailPath are required", models.ErrInvalidInput)
		}
		if !s.cleaner.Contains(path) {
			return nil, fmt.Errorf("%w: %s is outside the working directory", models.ErrInvalidInput, path)
		}
		if !storage.Exists(path) {
			return nil, fmt.Errorf("%w: %s", models.ErrInputNotFound, path)
		}
	}
	if !s.publisher.Configured() {
		return nil, models.ErrStorageUnconfigured
	}

	stageCtx := context.WithoutCancel(ctx)
	var (
		preview   *models.TranscodeResult
		published bool
	)
	defer func() {
		var paths []string
		if preview != nil {
			paths = append(paths, preview.PreviewPath)
		}
		if published {
			paths = append(paths, videoPath, thumbnailPath)
		}
		s.cleaner.Remove(paths...)
	}()

	s.status.Set("Compressing preview: " + details.Title)
	preview, err := s.compressor.Compress(stageCtx, videoPath)
	if err != nil {
		return nil, err
	}

	s.status.Set("Uploading video to storage: " + details.Title)
	artifacts, err := s.publisher.Publish(stageCtx, videoPath, preview.PreviewPath, thumbnailPath, details.Title)
	if err != nil {
		return nil, err
	}
	published = true
	return artifacts, nil
}

// Status returns the latest pipeline status and when it was set
func (s *pipelineService) Status() (string, time.Time) {
	return s.status.Get()
}

// cleanup removes every temporary file created for one item, ignoring errors
func (s *pipelineService) cleanup(download *models.DownloadResult, preview *models.TranscodeResult) {
	var paths []string
	if download != nil {
		paths = append(paths, download.VideoPath, download.ThumbnailPath)
	}
	if preview != nil {
		paths = append(paths, preview.PreviewPath)
	}
	s.cleaner.Remove(paths...)
	if download != nil && download.Stem != "" {
		s.cleaner.RemoveStem(download.Stem)
	}
}
