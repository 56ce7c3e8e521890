package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/videoingest/backend/internal/models"
	"github.com/videoingest/backend/internal/runner"
	"github.com/videoingest/backend/internal/storage"
	"go.uber.org/zap"
)

// previewPrefix is prepended to the source basename to name the preview rendition
const previewPrefix = "compressed-"

type transcodeService struct {
	runner     runner.Runner
	ffmpegPath string
	crf        int
	logger     *zap.Logger
}

// NewTranscodeService creates a new transcode service encoding previews at the given constant quality
func NewTranscodeService(r runner.Runner, ffmpegPath string, crf int, logger *zap.Logger) *transcodeService {
	if crf <= 0 {
		crf = 28
	}
	return &transcodeService{
		runner:     r,
		ffmpegPath: ffmpegPath,
		crf:        crf,
		logger:     logger,
	}
}

// Compress produces a reduced-bitrate preview of videoPath next to it.
// The spatial resolution is left untouched. A failed encode leaves no preview file behind.
func (s *transcodeService) Compress(ctx context.Context, videoPath string) (*models.TranscodeResult, error) {
	if !storage.Exists(videoPath) {
		return nil, fmt.Errorf("%w: %s", models.ErrInputNotFound, videoPath)
	}

	previewPath := filepath.Join(filepath.Dir(videoPath), previewPrefix+filepath.Base(videoPath))

	_, err := s.runner.Run(ctx, s.ffmpegPath,
		"-y", "-i", videoPath,
		"-vcodec", "h264", "-acodec", "aac", "-strict", "-2",
		"-crf", strconv.Itoa(s.crf),
		previewPath,
	)
	if err != nil {
		s.logger.Error("preview encode failed", zap.String("videoPath", videoPath), zap.Error(err))
		// the encoder may have written part of the output before failing
		if rmErr := os.Remove(previewPath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Debug("failed to remove partial preview", zap.String("previewPath", previewPath), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: %w", models.ErrCompressionFailed, err)
	}
	if !storage.Exists(previewPath) {
		return nil, fmt.Errorf("%w: encoder produced no file at %s", models.ErrCompressionFailed, previewPath)
	}

	s.logger.Info("preview encoded", zap.String("previewPath", previewPath))
	return &models.TranscodeResult{PreviewPath: previewPath}, nil
}
