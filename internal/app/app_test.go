package app

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/engine/audio"
	"github.com/Faultbox/panoview/internal/engine/gesture"
	"github.com/Faultbox/panoview/internal/engine/input"
)

type pulse struct {
	length time.Duration
	hz     float64
}

type fakePulser struct {
	pulses []pulse
	err    error
}

func (f *fakePulser) Pulse(length time.Duration, hz float64) error {
	f.pulses = append(f.pulses, pulse{length, hz})
	return f.err
}

type fakeTarget struct {
	mu   sync.Mutex
	imgs []image.Image
}

func (f *fakeTarget) SetTexture(img image.Image) {
	f.mu.Lock()
	f.imgs = append(f.imgs, img)
	f.mu.Unlock()
}

// newTestApp builds the GL-free part of the viewer on an 800x600 viewport.
func newTestApp(t *testing.T) (*App, *fakePulser) {
	t.Helper()
	fb := &fakePulser{}
	a := &App{
		cfg:      config.Default(),
		log:      zap.NewNop(),
		running:  true,
		feedback: fb,
	}
	a.initScene()
	a.view.Resize(800, 600)
	return a, fb
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(dir, "pano.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestViewConfig(t *testing.T) {
	v := config.Default().Viewer
	got := ViewConfig(v)

	if got.Sensitivity.X != 0.005 || got.Sensitivity.Y != 0.005 {
		t.Errorf("sensitivity = %+v", got.Sensitivity)
	}
	if got.InitialFOV != 80 || got.Limits.MinFOV != 20 || got.Limits.MaxFOV != 80 {
		t.Errorf("fov = %g in [%g, %g]", got.InitialFOV, got.Limits.MinFOV, got.Limits.MaxFOV)
	}
	if got.Limits.PitchLimit != 1.1 {
		t.Errorf("pitch limit = %g", got.Limits.PitchLimit)
	}
	if got.Sphere.Radius != 8 || got.Sphere.Segments != 300 {
		t.Errorf("sphere = %+v", got.Sphere)
	}
	if got.WheelZoomStep != 1.1 {
		t.Errorf("wheel step = %g", got.WheelZoomStep)
	}
}

func TestGestureConfig(t *testing.T) {
	tests := []struct {
		name string
		in   config.ViewerConfig
		want gesture.Config
	}{
		{"zero falls back", config.ViewerConfig{}, gesture.DefaultConfig()},
		{
			"explicit",
			config.ViewerConfig{TapSlop: 4, LongPress: time.Second},
			gesture.Config{Slop: 4, LongPress: time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GestureConfig(tt.in); got != tt.want {
				t.Errorf("GestureConfig = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestImageLoader(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir)
	target := &fakeTarget{}
	l := newImageLoader(target, zap.NewNop())

	l.Open(path)
	l.Wait()
	if len(target.imgs) != 1 || target.imgs[0].Bounds().Dx() != 8 {
		t.Fatalf("queued %d images, want one 8px wide", len(target.imgs))
	}
	if l.Current() != path {
		t.Errorf("Current = %q, want %q", l.Current(), path)
	}

	bad := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := l.load(bad); err == nil {
		t.Error("load of a broken file should fail")
	}
	if len(target.imgs) != 1 || l.Current() != path {
		t.Error("failed load must keep the current image")
	}
}

func TestDragTurnsCamera(t *testing.T) {
	a, _ := newTestApp(t)
	t0 := time.Now()

	a.handleEvent(input.Event{Type: input.EventPointerDown, Pointer: input.MousePointer, X: 400, Y: 300}, t0)
	a.handleEvent(input.Event{Type: input.EventPointerMove, Pointer: input.MousePointer, X: 500, Y: 300}, t0.Add(10*time.Millisecond))
	a.handleEvent(input.Event{Type: input.EventPointerUp, Pointer: input.MousePointer, X: 500, Y: 300}, t0.Add(20*time.Millisecond))

	cam := a.view.Camera()
	if cam.Yaw == 0 || cam.Pitch != 0 {
		t.Errorf("yaw %g pitch %g, want horizontal turn only", cam.Yaw, cam.Pitch)
	}

	a.handleKey(sdl.SCANCODE_R)
	if cam.Yaw != 0 || cam.FieldOfView != 80 {
		t.Errorf("after reset yaw %g fov %g", cam.Yaw, cam.FieldOfView)
	}
}

func TestLongPressFeedback(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		err     error
		want    int
	}{
		{"enabled", true, nil, 1},
		{"disabled", false, nil, 0},
		{"speaker not ready", true, audio.ErrNotInitialized, 1},
		{"playback error", true, errors.New("device lost"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, fb := newTestApp(t)
			a.cfg.Feedback.Enabled = tt.enabled
			fb.err = tt.err
			t0 := time.Now()

			a.handleEvent(input.Event{Type: input.EventPointerDown, Pointer: 1, X: 400, Y: 300}, t0)
			a.gestures.Tick(t0.Add(500 * time.Millisecond))
			a.handleEvent(input.Event{Type: input.EventPointerUp, Pointer: 1, X: 400, Y: 300}, t0.Add(600*time.Millisecond))

			if len(fb.pulses) != tt.want {
				t.Fatalf("pulses = %d, want %d", len(fb.pulses), tt.want)
			}
			if tt.want > 0 && fb.pulses[0] != (pulse{60 * time.Millisecond, 180}) {
				t.Errorf("pulse = %+v", fb.pulses[0])
			}
		})
	}
}

func TestTapHasNoFeedback(t *testing.T) {
	a, fb := newTestApp(t)
	t0 := time.Now()

	a.handleEvent(input.Event{Type: input.EventPointerDown, Pointer: 1, X: 400, Y: 300}, t0)
	a.handleEvent(input.Event{Type: input.EventPointerUp, Pointer: 1, X: 401, Y: 300}, t0.Add(50*time.Millisecond))

	if len(fb.pulses) != 0 {
		t.Errorf("tap played %d pulses", len(fb.pulses))
	}
}

func TestLongPressWithoutAudio(t *testing.T) {
	a, _ := newTestApp(t)
	a.feedback = nil
	t0 := time.Now()

	a.handleEvent(input.Event{Type: input.EventPointerDown, Pointer: 1, X: 400, Y: 300}, t0)
	a.gestures.Tick(t0.Add(time.Second))
}

func TestFocusLostCancelsGesture(t *testing.T) {
	a, _ := newTestApp(t)
	t0 := time.Now()

	a.handleEvent(input.Event{Type: input.EventPointerDown, Pointer: 1, X: 100, Y: 100}, t0)
	a.handleEvent(input.Event{Type: input.EventPointerMove, Pointer: 1, X: 150, Y: 100}, t0)
	if !a.gestures.Active() {
		t.Fatal("pan should be active")
	}

	a.handleEvent(input.Event{Type: input.EventFocusLost}, t0)
	if a.gestures.Active() {
		t.Error("focus loss should drop every pointer")
	}
}

func TestWheelZooms(t *testing.T) {
	a, _ := newTestApp(t)
	a.handleEvent(input.Event{Type: input.EventWheel, Wheel: 1}, time.Now())

	if fov := a.view.Camera().FieldOfView; fov >= 80 || fov < 72 {
		t.Errorf("fov after one notch = %g, want about 72.7", fov)
	}
}

func TestKeys(t *testing.T) {
	a, _ := newTestApp(t)

	a.handleKey(sdl.SCANCODE_F12)
	if !a.screenshotPending {
		t.Error("F12 should request a screenshot")
	}

	a.handleKey(sdl.SCANCODE_ESCAPE)
	if a.running {
		t.Error("Escape should stop the loop")
	}
}

func TestTitle(t *testing.T) {
	a, _ := newTestApp(t)
	if got, want := a.title(60), "panoview | no image | 80° | 60 fps"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}

	path := writePNG(t, t.TempDir())
	if err := a.images.load(path); err != nil {
		t.Fatal(err)
	}
	if got, want := a.title(30), "panoview | pano.png | 80° | 30 fps"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}
