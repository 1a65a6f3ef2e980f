package app

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/engine/texture"
)

// imageExtensions are the formats texture.Decode understands.
var imageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff", "webp"}

// textureTarget accepts decoded panoramas from any goroutine.
type textureTarget interface {
	SetTexture(img image.Image)
}

// imageLoader decodes panoramas off the render thread and queues them on
// the view. A failed load keeps the current image.
type imageLoader struct {
	target textureTarget
	log    *zap.Logger

	wg sync.WaitGroup

	mu      sync.Mutex
	current string
}

func newImageLoader(target textureTarget, log *zap.Logger) *imageLoader {
	return &imageLoader{target: target, log: log}
}

// Open loads path in the background.
func (l *imageLoader) Open(path string) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.load(path); err != nil {
			l.log.Error("failed to open panorama", zap.String("path", path), zap.Error(err))
		}
	}()
}

// Browse shows a native file picker and loads the chosen image.
func (l *imageLoader) Browse() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		path, err := dialog.File().
			Filter("Panoramas", imageExtensions...).
			Filter("All Files", "*").
			Title("Open Panorama").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				l.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}
		if err := l.load(path); err != nil {
			l.log.Error("failed to open panorama", zap.String("path", path), zap.Error(err))
		}
	}()
}

func (l *imageLoader) load(path string) error {
	img, err := texture.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	b := img.Bounds()
	l.log.Info("panorama loaded",
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)

	l.mu.Lock()
	l.current = path
	l.mu.Unlock()
	l.target.SetTexture(img)
	return nil
}

// Current returns the path of the last image that loaded.
func (l *imageLoader) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Wait blocks until pending loads finish.
func (l *imageLoader) Wait() {
	l.wg.Wait()
}
