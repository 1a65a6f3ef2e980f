// Package debug provides developer utilities for the viewer.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture writes frames to timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Capture saves img as PNG and returns the file path. Two captures within
// the same second get distinct names.
func (sc *ScreenshotCapture) Capture(img image.Image) (string, error) {
	if b := img.Bounds(); b.Empty() {
		return "", fmt.Errorf("screenshot: empty frame")
	}

	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename, err := sc.nextFilename()
	if err != nil {
		return "", err
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}

// GenerateFilename returns the base filename for a capture taken now.
func (sc *ScreenshotCapture) GenerateFilename() string {
	return sc.filename(0)
}

func (sc *ScreenshotCapture) nextFilename() (string, error) {
	for n := 0; n < 1000; n++ {
		name := sc.filename(n)
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
	}
	return "", fmt.Errorf("screenshot: too many captures in one second")
}

func (sc *ScreenshotCapture) filename(n int) string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if n > 0 {
		filename = fmt.Sprintf("%s_%s_%d.png", sc.prefix, timestamp, n)
	}
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
