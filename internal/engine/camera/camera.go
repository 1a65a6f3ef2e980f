// Package camera provides the panorama camera and the controller that maps
// drag and pinch gestures onto it.
package camera

import (
	"github.com/Faultbox/panoview/pkg/math"
)

// Default viewing limits.
const (
	DefaultFOV        = 80.0 // Degrees
	DefaultMinFOV     = 20.0
	DefaultMaxFOV     = 80.0
	DefaultPitchLimit = 1.1 // Radians, keeps the view from flipping over
	DefaultNear       = 0.1
	DefaultFar        = 100.0
)

// Camera sits at the origin and looks along -Z when all angles are zero.
type Camera struct {
	// Euler angles in radians.
	Pitch float32 // Rotation about X, positive looks up
	Yaw   float32 // Rotation about Y, positive turns left
	Roll  float32 // Rotation about the view axis

	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32

	Near, Far float32
}

// New returns a camera looking down -Z with the default field of view.
func New() *Camera {
	return &Camera{
		FieldOfView: DefaultFOV,
		Near:        DefaultNear,
		Far:         DefaultFar,
	}
}

// Orientation returns the camera's rotation.
func (c *Camera) Orientation() math.Quat {
	return math.QuatFromEuler(c.Pitch, c.Yaw, c.Roll)
}

// Forward returns the unit view direction in world space.
func (c *Camera) Forward() math.Vec3 {
	return c.Orientation().Rotate(math.Vec3{Z: -1})
}

// ViewMatrix returns the world-to-camera transform. The camera never
// translates, so this is the inverse rotation.
func (c *Camera) ViewMatrix() math.Mat4 {
	return c.Orientation().ToMat4().Transpose()
}

// ProjectionMatrix returns the perspective projection for the given aspect
// ratio (width / height).
func (c *Camera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(c.FieldOfView), aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// Reset points the camera forward and restores the given field of view.
func (c *Camera) Reset(fov float32) {
	c.Pitch, c.Yaw, c.Roll = 0, 0, 0
	c.FieldOfView = fov
}
