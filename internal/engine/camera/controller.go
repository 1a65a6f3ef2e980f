package camera

import (
	"github.com/Faultbox/panoview/pkg/math"
)

// PinchTouches is the number of contacts a pinch must have to zoom.
const PinchTouches = 2

// Limits bounds the controller's camera mutations.
type Limits struct {
	PitchLimit float32 // Pitch stays in [-PitchLimit, PitchLimit]
	MinFOV     float32
	MaxFOV     float32
}

// DefaultLimits returns the stock pitch and zoom bounds.
func DefaultLimits() Limits {
	return Limits{
		PitchLimit: DefaultPitchLimit,
		MinFOV:     DefaultMinFOV,
		MaxFOV:     DefaultMaxFOV,
	}
}

// Controller turns drag translation into yaw/pitch and pinch scale into
// field of view. Its session fields live for one gesture only.
type Controller struct {
	camera *Camera
	limits Limits

	prevLocation math.Vec2 // Last drag translation seen
	pinchBaseFOV float32   // Field of view when the pinch began
	pinching     bool
}

// NewController binds a controller to cam.
func NewController(cam *Camera, limits Limits) *Controller {
	return &Controller{
		camera: cam,
		limits: limits,
	}
}

// Camera returns the controlled camera.
func (c *Controller) Camera() *Camera {
	return c.camera
}

// Limits returns the active bounds.
func (c *Controller) Limits() Limits {
	return c.limits
}

// OnDragStart resets the tracked drag position to the origin.
func (c *Controller) OnDragStart() {
	c.prevLocation = math.Vec2{}
}

// OnDragUpdate applies the movement since the previous update. translation
// is the total drag offset from the touch-down point, in pixels. The x delta
// turns yaw and the y delta tilts pitch, each scaled by sensitivity.
func (c *Controller) OnDragUpdate(translation, sensitivity math.Vec2) {
	delta := translation.Sub(c.prevLocation).Mul(sensitivity)

	c.camera.Yaw += delta.X
	c.camera.Pitch = math.Clamp(c.camera.Pitch+delta.Y, -c.limits.PitchLimit, c.limits.PitchLimit)

	c.prevLocation = translation
}

// OnPinchStart records the current field of view as the zoom baseline.
// Pinches that are not exactly two touches are ignored.
func (c *Controller) OnPinchStart(touches int) {
	if touches != PinchTouches {
		return
	}
	c.pinchBaseFOV = c.camera.FieldOfView
	c.pinching = true
}

// OnPinchUpdate sets the field of view to baseline/scale when that lands in
// [MinFOV, MaxFOV]. Candidates outside the range are dropped rather than
// clamped, so the zoom resumes once the fingers come back. It reports
// whether the field of view changed.
func (c *Controller) OnPinchUpdate(scale float32, touches int) bool {
	if touches != PinchTouches || !c.pinching || scale <= 0 {
		return false
	}

	fov := c.pinchBaseFOV / scale
	if fov < c.limits.MinFOV || fov > c.limits.MaxFOV {
		return false
	}
	c.camera.FieldOfView = fov
	return true
}

// OnPinchEnd discards the pinch session.
func (c *Controller) OnPinchEnd() {
	c.pinching = false
}

// Zoom runs a complete two-touch pinch with the given scale, as a mouse
// wheel notch does.
func (c *Controller) Zoom(scale float32) bool {
	c.OnPinchStart(PinchTouches)
	changed := c.OnPinchUpdate(scale, PinchTouches)
	c.OnPinchEnd()
	return changed
}
