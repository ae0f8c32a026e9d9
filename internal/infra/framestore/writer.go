package framestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"go.uber.org/zap"
)

var ErrOutputDirMissing = errors.New("output directory does not exist")

// Writer stores keyframes as <dir>/<frame index>.jpg. It never creates the
// directory.
type Writer struct {
	dir     string
	quality int
	logger  *zap.Logger
}

func NewWriter(dir string, quality int, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, quality: quality, logger: logger}
}

func (w *Writer) Dir() string { return w.dir }

func (w *Writer) CheckOutputDir() error {
	info, err := os.Stat(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrOutputDirMissing, w.dir)
	}
	if err != nil {
		return fmt.Errorf("stat output dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrOutputDirMissing, w.dir)
	}
	return nil
}

func (w *Writer) WriteFrame(_ context.Context, frame *entity.Frame) (string, error) {
	path := filepath.Join(w.dir, strconv.Itoa(frame.Index)+".jpg")
	if err := imaging.Save(frame.Image, path, imaging.JPEGQuality(w.quality)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrOutputDirMissing, w.dir)
		}
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	w.logger.Debug("keyframe written", zap.Int("frame_index", frame.Index), zap.String("path", path))
	return path, nil
}
