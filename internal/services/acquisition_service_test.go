package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videoingest/backend/internal/models"
	"github.com/videoingest/backend/internal/runner"
	"github.com/videoingest/backend/internal/storage"
	"go.uber.org/zap"
)

var testToolOptions = AcquisitionOptions{
	YtDlpPath:   "yt-dlp",
	FFmpegPath:  "ffmpeg",
	FFprobePath: "ffprobe",
}

// toolBehaviour configures what the fake tools do during one acquisition
type toolBehaviour struct {
	downloadErr      error
	downloadNoFile   bool
	providerErr      error
	providerExt      string
	frameErr         error
	placeholderErr   error
	placeholderWrite bool
	probeOutput      string
	probeErr         error
}

func (b toolBehaviour) handler(t *testing.T) func(name string, args []string) ([]byte, error) {
	return func(name string, args []string) ([]byte, error) {
		switch {
		case name == "yt-dlp" && hasArg(args, "--write-thumbnail"):
			if b.providerErr != nil {
				return nil, b.providerErr
			}
			if b.providerExt != "" {
				writeFile(t, argAfter(args, "-o")+b.providerExt)
			}
			return nil, nil
		case name == "yt-dlp":
			if b.downloadErr != nil {
				return nil, b.downloadErr
			}
			if !b.downloadNoFile {
				writeFile(t, argAfter(args, "-o"))
			}
			return nil, nil
		case name == "ffmpeg" && hasArg(args, "-vframes"):
			if b.frameErr != nil {
				return nil, b.frameErr
			}
			writeFile(t, args[len(args)-1])
			return nil, nil
		case name == "ffmpeg" && hasArg(args, "lavfi"):
			if b.placeholderErr != nil {
				return nil, b.placeholderErr
			}
			if b.placeholderWrite {
				writeFile(t, args[len(args)-1])
			}
			return nil, nil
		case name == "ffprobe":
			return []byte(b.probeOutput), b.probeErr
		}
		t.Fatalf("unexpected tool invocation %s %v", name, args)
		return nil, nil
	}
}

func newTestAcquisition(t *testing.T, opts AcquisitionOptions, behaviour toolBehaviour) (*acquisitionService, *fakeRunner, string) {
	logger, _ := zap.NewDevelopment()
	root := filepath.Join(t.TempDir(), "work")
	fake := &fakeRunner{handle: behaviour.handler(t)}

	svc := NewAcquisitionService(fake, storage.NewWorkDir(root, logger), opts, logger)
	svc.now = fixedClock
	return svc, fake, root
}

func toolFailure(name string) error {
	return &runner.ExitError{Name: name, ExitCode: 1, Stderr: "ERROR: boom"}
}

func TestAcquisitionService_ThumbnailTiers(t *testing.T) {
	tests := []struct {
		name           string
		behaviour      toolBehaviour
		expectedSource models.ThumbnailSource
		expectedExt    string
		expectedCalls  int
	}{
		{
			name:           "provider thumbnail",
			behaviour:      toolBehaviour{providerExt: ".webp", probeOutput: "12.5\n"},
			expectedSource: models.ThumbnailSourceProvider,
			expectedExt:    ".webp",
			expectedCalls:  3,
		},
		{
			name:           "frame fallback after provider error",
			behaviour:      toolBehaviour{providerErr: toolFailure("yt-dlp"), probeOutput: "12.5"},
			expectedSource: models.ThumbnailSourceFrame,
			expectedExt:    ".jpg",
			expectedCalls:  4,
		},
		{
			name:           "frame fallback when provider writes nothing",
			behaviour:      toolBehaviour{probeOutput: "12.5"},
			expectedSource: models.ThumbnailSourceFrame,
			expectedExt:    ".jpg",
			expectedCalls:  4,
		},
		{
			name: "placeholder fallback",
			behaviour: toolBehaviour{
				providerErr:      toolFailure("yt-dlp"),
				frameErr:         toolFailure("ffmpeg"),
				placeholderWrite: true,
				probeOutput:      "12.5",
			},
			expectedSource: models.ThumbnailSourcePlaceholder,
			expectedExt:    ".jpg",
			expectedCalls:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fake, root := newTestAcquisition(t, testToolOptions, tt.behaviour)

			result, err := svc.Acquire(context.Background(), "vid1")
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(root, "vid1-1700000000000.mp4"), result.VideoPath)
			assert.Equal(t, "vid1-1700000000000", result.Stem)
			assert.Equal(t, tt.expectedSource, result.ThumbnailSource)
			assert.Equal(t, tt.expectedExt, filepath.Ext(result.ThumbnailPath))
			assert.True(t, storage.Exists(result.ThumbnailPath))
			assert.True(t, storage.Exists(result.VideoPath))
			assert.Equal(t, 12.5, result.Duration)
			assert.Equal(t, tt.expectedCalls, fake.callCount())
		})
	}
}

func TestAcquisitionService_DownloadArguments(t *testing.T) {
	opts := testToolOptions
	opts.Cookies = "/secrets/cookies.txt"
	opts.MaxHeight = 480

	svc, fake, _ := newTestAcquisition(t, opts, toolBehaviour{providerExt: ".jpg", probeOutput: "3"})

	_, err := svc.Acquire(context.Background(), "vid1")
	require.NoError(t, err)

	download := fake.calls[0]
	assert.Equal(t, "yt-dlp", download.name)
	assert.Equal(t, []string{"--cookies", "/secrets/cookies.txt"}, download.args[:2])
	assert.Equal(t, "best[height<=480]", argAfter(download.args, "-f"))
	assert.True(t, hasArg(download.args, "https://www.youtube.com/watch?v=vid1"))

	probe := fake.calls[2]
	assert.Equal(t, "ffprobe", probe.name)
	assert.Equal(t, "format=duration", argAfter(probe.args, "-show_entries"))
	assert.Equal(t, "default=noprint_wrappers=1:nokey=1", argAfter(probe.args, "-of"))
}

func TestAcquisitionService_Failures(t *testing.T) {
	tests := []struct {
		name          string
		itemID        string
		behaviour     toolBehaviour
		expectedErr   error
		expectExitErr bool
	}{
		{
			name:        "empty item id",
			itemID:      "",
			expectedErr: models.ErrInvalidInput,
		},
		{
			name:          "downloader exits non-zero",
			itemID:        "vid1",
			behaviour:     toolBehaviour{downloadErr: toolFailure("yt-dlp")},
			expectedErr:   models.ErrDownloadFailed,
			expectExitErr: true,
		},
		{
			name:        "downloader writes nothing",
			itemID:      "vid1",
			behaviour:   toolBehaviour{downloadNoFile: true},
			expectedErr: models.ErrDownloadFailed,
		},
		{
			name:   "every thumbnail tier fails",
			itemID: "vid1",
			behaviour: toolBehaviour{
				providerErr:    toolFailure("yt-dlp"),
				frameErr:       toolFailure("ffmpeg"),
				placeholderErr: toolFailure("ffmpeg"),
			},
			expectedErr: models.ErrDownloadFailed,
		},
		{
			name:        "probe output not numeric",
			itemID:      "vid1",
			behaviour:   toolBehaviour{providerExt: ".jpg", probeOutput: "N/A"},
			expectedErr: models.ErrDownloadFailed,
		},
		{
			name:        "negative duration",
			itemID:      "vid1",
			behaviour:   toolBehaviour{providerExt: ".jpg", probeOutput: "-1"},
			expectedErr: models.ErrDownloadFailed,
		},
		{
			name:          "probe exits non-zero",
			itemID:        "vid1",
			behaviour:     toolBehaviour{providerExt: ".jpg", probeErr: toolFailure("ffprobe")},
			expectedErr:   models.ErrDownloadFailed,
			expectExitErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, root := newTestAcquisition(t, testToolOptions, tt.behaviour)

			result, err := svc.Acquire(context.Background(), tt.itemID)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr))
			if tt.expectExitErr {
				var exitErr *runner.ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.True(t, strings.Contains(err.Error(), "boom"))
			}

			leftovers, _ := filepath.Glob(filepath.Join(root, "vid1-*"))
			assert.Empty(t, leftovers)
		})
	}
}

func TestAcquisitionService_CancellationDoesNotInterruptTools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tools := toolBehaviour{providerExt: ".jpg", probeOutput: "7.25"}.handler(t)
	logger, _ := zap.NewDevelopment()
	fake := &fakeRunner{handle: func(name string, args []string) ([]byte, error) {
		// the caller goes away while the download is running
		cancel()
		return tools(name, args)
	}}
	svc := NewAcquisitionService(fake, storage.NewWorkDir(filepath.Join(t.TempDir(), "work"), logger), testToolOptions, logger)

	result, err := svc.Acquire(ctx, "vid1")
	require.NoError(t, err)

	assert.Equal(t, 7.25, result.Duration)
	require.Len(t, fake.calls, 3)
	for _, call := range fake.calls {
		assert.NoError(t, call.ctxErr, call.name)
	}
}

const slowDownloaderScript = `#!/bin/sh
out=""
thumb=0
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    --write-thumbnail) thumb=1 ;;
  esac
  shift
done
if [ "$thumb" = 1 ]; then
  printf x > "$out.jpg"
  exit 0
fi
sleep 0.5
printf x > "$out"
`

func TestAcquisitionService_DeadlineDoesNotKillRunningProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	logger, _ := zap.NewDevelopment()
	bin := t.TempDir()
	ytdlp := filepath.Join(bin, "yt-dlp")
	ffprobe := filepath.Join(bin, "ffprobe")
	require.NoError(t, os.WriteFile(ytdlp, []byte(slowDownloaderScript), 0755))
	require.NoError(t, os.WriteFile(ffprobe, []byte("#!/bin/sh\necho 1.5\n"), 0755))

	svc := NewAcquisitionService(runner.NewExecRunner(), storage.NewWorkDir(filepath.Join(t.TempDir(), "work"), logger), AcquisitionOptions{
		YtDlpPath:   ytdlp,
		FFmpegPath:  filepath.Join(bin, "ffmpeg"),
		FFprobePath: ffprobe,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := svc.Acquire(ctx, "vid1")
	require.NoError(t, err)

	assert.Equal(t, 1.5, result.Duration)
	assert.Equal(t, models.ThumbnailSourceProvider, result.ThumbnailSource)
	assert.True(t, storage.Exists(result.VideoPath))
}
