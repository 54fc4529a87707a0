// Package capture writes frames to PNG files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/logger"
)

// ErrEmptyFrame is returned when the source has no pixels to save.
var ErrEmptyFrame = errors.New("capture: empty frame")

// Source is anything that can hand back the current frame, top row first.
type Source interface {
	ReadPixels() *image.RGBA
}

// Screenshots saves frames as <dir>/<prefix>_<timestamp>.png.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
	encode func(io.Writer, image.Image) error
	log    *zap.Logger
}

// New creates a screenshot writer. An empty dir writes to the working directory.
func New(dir, prefix string) *Screenshots {
	if prefix == "" {
		prefix = "frame"
	}
	return &Screenshots{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
		encode: png.Encode,
		log:    logger.Named("capture"),
	}
}

// Capture reads the frame from src and saves it.
func (s *Screenshots) Capture(src Source) (string, error) {
	return s.Save(src.ReadPixels())
}

// Save encodes img to a new file and returns its path. An existing file is
// never overwritten; a numeric suffix is added instead.
func (s *Screenshots) Save(img *image.RGBA) (string, error) {
	if img == nil || img.Rect.Empty() {
		return "", ErrEmptyFrame
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, path, err := s.create()
	if err != nil {
		return "", err
	}
	if err := s.encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	s.log.Info("screenshot saved",
		zap.String("path", path),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()))
	return path, nil
}

func (s *Screenshots) create() (*os.File, string, error) {
	base := fmt.Sprintf("%s_%s", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	for n := 0; n < 100; n++ {
		name := base + ".png"
		if n > 0 {
			name = fmt.Sprintf("%s_%d.png", base, n)
		}
		path := filepath.Join(s.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("creating file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("creating file: too many captures named %s", base)
}
