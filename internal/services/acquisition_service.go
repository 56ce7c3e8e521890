package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/videoingest/backend/internal/models"
	"github.com/videoingest/backend/internal/runner"
	"github.com/videoingest/backend/internal/storage"
	"go.uber.org/zap"
)

// sourceURL is the canonical watch URL of a catalog item
const sourceURL = "https://www.youtube.com/watch?v="

// AcquisitionOptions holds the external tool settings used by media acquisition
type AcquisitionOptions struct {
	YtDlpPath   string
	Cookies     string
	FFmpegPath  string
	FFprobePath string
	MaxHeight   int
}

type (
	// thumbnailJob describes the files one thumbnail strategy works with
	thumbnailJob struct {
		itemID     string
		stem       string
		videoPath  string
		targetPath string
	}

	// thumbnailStrategy is one tier of the thumbnail fallback chain.
	// It returns the path where its output is expected.
	thumbnailStrategy struct {
		source  models.ThumbnailSource
		attempt func(ctx context.Context, job thumbnailJob) (string, error)
	}
)

type acquisitionService struct {
	runner     runner.Runner
	workDir    *storage.WorkDir
	opts       AcquisitionOptions
	strategies []thumbnailStrategy
	now        func() time.Time
	logger     *zap.Logger
}

// NewAcquisitionService creates a new media acquisition service
func NewAcquisitionService(r runner.Runner, workDir *storage.WorkDir, opts AcquisitionOptions, logger *zap.Logger) *acquisitionService {
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = 720
	}
	s := &acquisitionService{
		runner:  r,
		workDir: workDir,
		opts:    opts,
		now:     time.Now,
		logger:  logger,
	}
	s.strategies = []thumbnailStrategy{
		{source: models.ThumbnailSourceProvider, attempt: s.providerThumbnail},
		{source: models.ThumbnailSourceFrame, attempt: s.frameThumbnail},
		{source: models.ThumbnailSourcePlaceholder, attempt: s.placeholderThumbnail},
	}
	return s
}

// Acquire downloads the video of itemID into the work directory, obtains a thumbnail
// and probes the video duration
//
// Every failure wraps models.ErrDownloadFailed; tool failures also carry the *runner.ExitError.
// Files created before a failure are removed. Cancellation of ctx never interrupts a running tool.
func (s *acquisitionService) Acquire(ctx context.Context, itemID string) (*models.DownloadResult, error) {
	ctx = context.WithoutCancel(ctx)
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, fmt.Errorf("%w: itemId is required", models.ErrInvalidInput)
	}
	if err := s.workDir.Ensure(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDownloadFailed, err)
	}

	stem := storage.DownloadStem(itemID, s.now())
	videoPath := s.workDir.Path(stem + ".mp4")

	result, err := s.acquire(ctx, itemID, stem, videoPath)
	if err != nil {
		s.workDir.RemoveStem(stem)
		s.logger.Error("media acquisition failed", zap.String("itemId", itemID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("media acquired",
		zap.String("itemId", itemID),
		zap.String("videoPath", result.VideoPath),
		zap.String("thumbnailSource", string(result.ThumbnailSource)),
		zap.Float64("duration", result.Duration),
	)
	return result, nil
}

func (s *acquisitionService) acquire(ctx context.Context, itemID, stem, videoPath string) (*models.DownloadResult, error) {
	args := s.ytDlpArgs("-f", fmt.Sprintf("best[height<=%d]", s.opts.MaxHeight), sourceURL+itemID, "-o", videoPath)
	if _, err := s.runner.Run(ctx, s.opts.YtDlpPath, args...); err != nil {
		return nil, fmt.Errorf("%w: video download: %w", models.ErrDownloadFailed, err)
	}
	if !storage.Exists(videoPath) {
		return nil, fmt.Errorf("%w: downloader produced no file at %s", models.ErrDownloadFailed, videoPath)
	}

	job := thumbnailJob{
		itemID:     itemID,
		stem:       stem,
		videoPath:  videoPath,
		targetPath: s.workDir.Path(stem + ".jpg"),
	}
	thumbnailPath, source, err := s.thumbnail(ctx, job)
	if err != nil {
		return nil, err
	}

	duration, err := s.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	return &models.DownloadResult{
		VideoPath:       videoPath,
		ThumbnailPath:   thumbnailPath,
		Duration:        duration,
		ThumbnailSource: source,
		Stem:            stem,
	}, nil
}

// thumbnail tries every strategy in order and returns the first output that exists
func (s *acquisitionService) thumbnail(ctx context.Context, job thumbnailJob) (string, models.ThumbnailSource, error) {
	for _, strategy := range s.strategies {
		path, err := strategy.attempt(ctx, job)
		if err != nil {
			s.logger.Warn("thumbnail strategy failed",
				zap.String("itemId", job.itemID),
				zap.String("strategy", string(strategy.source)),
				zap.Error(err),
			)
			continue
		}
		if path == "" || !storage.Exists(path) {
			s.logger.Warn("thumbnail strategy produced no file",
				zap.String("itemId", job.itemID),
				zap.String("strategy", string(strategy.source)),
			)
			continue
		}
		return path, strategy.source, nil
	}
	return "", "", fmt.Errorf("%w: no thumbnail strategy produced a file", models.ErrDownloadFailed)
}

func (s *acquisitionService) providerThumbnail(ctx context.Context, job thumbnailJob) (string, error) {
	args := s.ytDlpArgs("--write-thumbnail", "--skip-download", "--convert-thumbnails", "jpg",
		sourceURL+job.itemID, "-o", s.workDir.Path(job.stem))
	if _, err := s.runner.Run(ctx, s.opts.YtDlpPath, args...); err != nil {
		return "", err
	}
	path, _ := s.workDir.Find(job.stem, ".jpg", ".webp", ".png")
	return path, nil
}

func (s *acquisitionService) frameThumbnail(ctx context.Context, job thumbnailJob) (string, error) {
	_, err := s.runner.Run(ctx, s.opts.FFmpegPath,
		"-y", "-i", job.videoPath, "-vframes", "1", "-q:v", "2", job.targetPath)
	return job.targetPath, err
}

func (s *acquisitionService) placeholderThumbnail(ctx context.Context, job thumbnailJob) (string, error) {
	_, err := s.runner.Run(ctx, s.opts.FFmpegPath,
		"-y", "-f", "lavfi", "-i", "color=c=blue:s=1280x720", "-frames:v", "1", job.targetPath)
	return job.targetPath, err
}

// probeDuration returns the duration of videoPath in seconds
func (s *acquisitionService) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	out, err := s.runner.Run(ctx, s.opts.FFprobePath,
		"-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", videoPath)
	if err != nil {
		return 0, fmt.Errorf("%w: duration probe: %w", models.ErrDownloadFailed, err)
	}

	raw := strings.TrimSpace(string(out))
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil || duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("%w: unexpected duration %q", models.ErrDownloadFailed, raw)
	}
	return duration, nil
}

// ytDlpArgs prepends the optional cookies file to args
func (s *acquisitionService) ytDlpArgs(args ...string) []string {
	if s.opts.Cookies == "" {
		return args
	}
	return append([]string{"--cookies", s.opts.Cookies}, args...)
}
