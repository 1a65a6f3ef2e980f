package panorama

import (
	"image"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/engine/camera"
	"github.com/Faultbox/panoview/internal/engine/gesture"
	"github.com/Faultbox/panoview/internal/engine/model"
	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/pkg/math"
)

// DefaultSensitivity is the pan sensitivity in radians per pixel.
var DefaultSensitivity = math.Vec2{X: 0.005, Y: 0.005}

// Config configures a View.
type Config struct {
	Sensitivity   math.Vec2
	InitialFOV    float32
	Limits        camera.Limits
	Sphere        model.Sphere
	WheelZoomStep float32 // Pinch scale per wheel notch
}

// DefaultConfig returns an 80° view into a radius 8, 300 segment sphere.
func DefaultConfig() Config {
	return Config{
		Sensitivity:   DefaultSensitivity,
		InitialFOV:    camera.DefaultFOV,
		Limits:        camera.DefaultLimits(),
		Sphere:        model.Sphere{Radius: DefaultRadius, Segments: DefaultSegments},
		WheelZoomStep: 1.1,
	}
}

// View owns one camera and one surface and maps gestures onto them. All
// methods except SetTexture must be called from the render thread.
type View struct {
	camera     *camera.Camera
	controller *camera.Controller
	surface    *Surface
	delegate   Delegate
	log        *zap.Logger

	sensitivity math.Vec2
	initialFOV  float32
	wheelStep   float32

	width, height float32
}

var _ gesture.Handler = (*View)(nil)

// New builds the camera, controller and surface. delegate may be nil.
func New(cfg Config, delegate Delegate) *View {
	cam := camera.New()
	cam.FieldOfView = cfg.InitialFOV

	return &View{
		camera:      cam,
		controller:  camera.NewController(cam, cfg.Limits),
		surface:     NewSurface(cfg.Sphere),
		delegate:    delegate,
		log:         logger.Named("panorama"),
		sensitivity: cfg.Sensitivity,
		initialFOV:  cfg.InitialFOV,
		wheelStep:   cfg.WheelZoomStep,
	}
}

// Camera returns the view's camera. Callers must not mutate it.
func (v *View) Camera() *camera.Camera {
	return v.camera
}

// Surface returns the sphere surface.
func (v *View) Surface() *Surface {
	return v.surface
}

// SetDelegate replaces the tap and long-press receiver.
func (v *View) SetDelegate(d Delegate) {
	v.delegate = d
}

// SetSensitivity sets the pan sensitivity in radians per pixel.
func (v *View) SetSensitivity(s math.Vec2) {
	v.sensitivity = s
}

// Sensitivity returns the pan sensitivity.
func (v *View) Sensitivity() math.Vec2 {
	return v.sensitivity
}

// Resize sets the viewport in window coordinates.
func (v *View) Resize(width, height int) {
	v.width = float32(width)
	v.height = float32(height)
}

// Size returns the viewport size.
func (v *View) Size() (float32, float32) {
	return v.width, v.height
}

// Aspect returns width / height, or 1 before the first Resize.
func (v *View) Aspect() float32 {
	if v.width <= 0 || v.height <= 0 {
		return 1
	}
	return v.width / v.height
}

// Eye returns the camera position in world space.
func (v *View) Eye() math.Vec3 {
	return math.Vec3{}
}

// ViewProjection returns the combined camera matrix for the current frame.
func (v *View) ViewProjection() math.Mat4 {
	return v.camera.ViewProjection(v.Aspect())
}

// Reset restores the initial orientation and field of view.
func (v *View) Reset() {
	v.camera.Reset(v.initialFOV)
}

// SetTexture queues a new panorama image. nil clears the surface to black.
// Safe to call from any goroutine.
func (v *View) SetTexture(img image.Image) {
	v.surface.SetTexture(img)
}

// Flush applies a queued texture through sink.
func (v *View) Flush(sink TextureSink) error {
	applied, err := v.surface.Flush(sink)
	if applied && err == nil {
		v.log.Debug("surface texture applied", zap.Bool("textured", v.surface.HasTexture()))
	}
	return err
}

// HandlePan rotates the camera by the drag translation.
func (v *View) HandlePan(state gesture.State, translation math.Vec2) {
	switch state {
	case gesture.Began:
		v.controller.OnDragStart()
	case gesture.Changed:
		v.controller.OnDragUpdate(translation, v.sensitivity)
	}
}

// HandlePinch zooms by changing the field of view.
func (v *View) HandlePinch(state gesture.State, scale float32, touches int) {
	switch state {
	case gesture.Began:
		v.controller.OnPinchStart(touches)
	case gesture.Changed:
		v.controller.OnPinchUpdate(scale, touches)
	case gesture.Ended, gesture.Cancelled:
		v.controller.OnPinchEnd()
	}
}

// HandleTap reports a completed tap that hits the surface.
func (v *View) HandleTap(state gesture.State, location math.Vec2) {
	if state != gesture.Ended || v.delegate == nil {
		return
	}
	if hit, ok := v.HitTest(location.X, location.Y); ok {
		v.log.Debug("tap", zap.Float32("u", hit.TexCoord.X), zap.Float32("v", hit.TexCoord.Y))
		v.delegate.DidTapScene(hit)
	}
}

// HandleLongPress reports a long press that hits the surface, once, when it
// is recognized.
func (v *View) HandleLongPress(state gesture.State, location math.Vec2) {
	if state != gesture.Began || v.delegate == nil {
		return
	}
	if hit, ok := v.HitTest(location.X, location.Y); ok {
		v.log.Debug("long press", zap.Float32("u", hit.TexCoord.X), zap.Float32("v", hit.TexCoord.Y))
		v.delegate.DidLongPressScene(hit)
	}
}

// HandleWheel zooms by whole wheel notches. Positive notches zoom in.
func (v *View) HandleWheel(notches float32) bool {
	if notches == 0 || v.wheelStep <= 0 {
		return false
	}
	scale := float32(gomath.Pow(float64(v.wheelStep), float64(notches)))
	return v.controller.Zoom(scale)
}
