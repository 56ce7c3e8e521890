package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// WorkDir is the process-wide temporary directory holding downloads,
// previews and thumbnails while an item moves through the pipeline.
type WorkDir struct {
	root   string
	logger *zap.Logger

	mu    sync.Mutex
	ready bool
}

// NewWorkDir creates a WorkDir rooted at root. The directory itself is created on first use.
func NewWorkDir(root string, logger *zap.Logger) *WorkDir {
	return &WorkDir{
		root:   root,
		logger: logger,
	}
}

// Ensure creates the root directory if it does not exist yet
func (w *WorkDir) Ensure() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ready {
		return nil
	}
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("failed to create work directory %s: %w", w.root, err)
	}
	w.ready = true
	return nil
}

// Root returns the root directory path
func (w *WorkDir) Root() string {
	return w.root
}

// Path joins name onto the root directory
func (w *WorkDir) Path(name string) string {
	return filepath.Join(w.root, name)
}

// Find returns the first existing file named stem plus one of exts (extensions with the leading dot)
func (w *WorkDir) Find(stem string, exts ...string) (string, bool) {
	for _, ext := range exts {
		path := w.Path(stem + ext)
		if Exists(path) {
			return path, true
		}
	}
	return "", false
}

// Remove deletes the given files, logging and swallowing every error
func (w *WorkDir) Remove(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.logger.Debug("failed to remove temporary file", zap.String("path", path), zap.Error(err))
		}
	}
}

// RemoveStem deletes every file in the root directory whose name starts with stem followed by a dot
func (w *WorkDir) RemoveStem(stem string) {
	if stem == "" {
		return
	}
	matches, err := filepath.Glob(filepath.Join(w.root, globEscape(stem)+".*"))
	if err != nil {
		w.logger.Debug("failed to list temporary files", zap.String("stem", stem), zap.Error(err))
		return
	}
	w.Remove(matches...)
}

// Contains reports whether path lies inside the root directory
func (w *WorkDir) Contains(path string) bool {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return false
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Exists reports whether path names an existing regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func globEscape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
