// Package app runs the viewer: window, input, gestures, panorama and
// feedback wired into one render loop.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/engine/audio"
	"github.com/Faultbox/panoview/internal/engine/debug"
	"github.com/Faultbox/panoview/internal/engine/gesture"
	"github.com/Faultbox/panoview/internal/engine/input"
	"github.com/Faultbox/panoview/internal/engine/renderer"
	"github.com/Faultbox/panoview/internal/engine/window"
	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/internal/panorama"
	"github.com/Faultbox/panoview/pkg/math"
)

// pulser plays the long-press feedback.
type pulser interface {
	Pulse(length time.Duration, hz float64) error
}

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	view     *panorama.View
	gestures *gesture.Recognizer
	images   *imageLoader

	audio       *audio.Manager
	feedback    pulser
	screenshots *debug.ScreenshotCapture

	screenshotPending bool
}

var _ panorama.Delegate = (*App)(nil)

// New creates the window and GL state and queues the startup image.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.initScene()

	// Renderer needs the GL context from the window.
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		Background: cfg.Viewer.Background,
	}, a.view.Surface().Material())
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.UploadMesh(a.view.Surface().Mesh())

	w, h := a.window.GetSize()
	a.view.Resize(w, h)
	a.input = input.New(w, h)

	a.initFeedback()
	a.screenshots = debug.NewScreenshotCapture(cfg.Screenshots.Dir, "panoview")

	if cfg.Viewer.Image != "" {
		a.images.Open(cfg.Viewer.Image)
	}

	a.log.Info("viewer initialized")
	return a, nil
}

// initScene builds the GL-free part: view, recognizer and image loader.
func (a *App) initScene() {
	a.view = panorama.New(ViewConfig(a.cfg.Viewer), a)
	a.gestures = gesture.NewRecognizer(GestureConfig(a.cfg.Viewer), a.view)
	a.images = newImageLoader(a.view, a.log)
}

// initFeedback opens the speaker. Without audio the viewer still runs.
func (a *App) initFeedback() {
	fb := a.cfg.Feedback
	if !fb.Enabled {
		return
	}

	a.audio = audio.New()
	if err := a.audio.Init(); err != nil {
		a.log.Warn("feedback sound disabled", zap.Error(err))
		return
	}
	a.audio.SetVolume(fb.Volume)

	if fb.Sound != "" {
		data, err := os.ReadFile(fb.Sound)
		if err == nil {
			err = a.audio.LoadCue(data)
		}
		if err != nil {
			a.log.Warn("using synthesized feedback", zap.String("sound", fb.Sound), zap.Error(err))
		}
	}
	a.feedback = a.audio
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting render loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event, now)
		}
		a.gestures.Tick(now)

		if err := a.view.Flush(a.renderer); err != nil {
			a.log.Error("texture upload failed", zap.Error(err))
		}

		a.render()
		if a.screenshotPending {
			a.screenshotPending = false
			a.takeScreenshot()
		}

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			a.window.SetTitle(a.title(frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.audio != nil {
		a.audio.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(ev input.Event, now time.Time) {
	pos := math.Vec2{X: ev.X, Y: ev.Y}

	switch ev.Type {
	case input.EventWindowResize:
		a.resize(ev.Width, ev.Height)
	case input.EventFocusLost:
		a.gestures.Cancel()
	case input.EventPointerDown:
		a.gestures.PointerDown(ev.Pointer, pos, now)
	case input.EventPointerMove:
		a.gestures.PointerMove(ev.Pointer, pos, now)
	case input.EventPointerUp:
		a.gestures.PointerUp(ev.Pointer, pos, now)
	case input.EventWheel:
		a.view.HandleWheel(ev.Wheel)
	case input.EventKeyDown:
		a.handleKey(ev.Key)
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_O:
		a.images.Browse()
	case sdl.SCANCODE_R:
		a.view.Reset()
	case sdl.SCANCODE_F12:
		a.screenshotPending = true
	}
}

func (a *App) resize(width, height int) {
	a.view.Resize(width, height)
	dw, dh := a.window.DrawableSize()
	a.renderer.Resize(dw, dh)
}

func (a *App) render() {
	a.renderer.Begin()
	a.renderer.DrawSurface(a.view.ViewProjection(), a.view.Surface().ModelMatrix())
	a.renderer.End()
}

func (a *App) takeScreenshot() {
	path, err := a.screenshots.Capture(a.renderer.ReadPixels())
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// title shows the open image, zoom and frame rate.
func (a *App) title(fps int) string {
	name := "no image"
	if p := a.images.Current(); p != "" {
		name = filepath.Base(p)
	}
	return fmt.Sprintf("%s | %s | %.0f° | %d fps", a.cfg.Window.Title, name, a.view.Camera().FieldOfView, fps)
}

// DidTapScene logs where the tap landed on the image.
func (a *App) DidTapScene(hit panorama.HitResult) {
	a.log.Info("tap",
		zap.Float32("u", hit.TexCoord.X),
		zap.Float32("v", hit.TexCoord.Y),
		zap.Float32("distance", hit.Distance),
	)
}

// DidLongPressScene logs the hit and plays the feedback pulse.
func (a *App) DidLongPressScene(hit panorama.HitResult) {
	a.log.Info("long press",
		zap.Float32("u", hit.TexCoord.X),
		zap.Float32("v", hit.TexCoord.Y),
	)

	fb := a.cfg.Feedback
	if !fb.Enabled || a.feedback == nil {
		return
	}
	if err := a.feedback.Pulse(fb.Pulse, fb.PulseHz); err != nil && !errors.Is(err, audio.ErrNotInitialized) {
		a.log.Warn("feedback failed", zap.Error(err))
	}
}
