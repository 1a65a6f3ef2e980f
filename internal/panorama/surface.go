// Package panorama implements the 360° viewer: a camera at the centre of an
// inward-facing textured sphere, steered by gestures.
package panorama

import (
	"image"
	"sync"

	"github.com/Faultbox/panoview/internal/engine/model"
	"github.com/Faultbox/panoview/internal/engine/texture"
	"github.com/Faultbox/panoview/pkg/math"
)

// Default sphere geometry.
const (
	DefaultRadius   = 8
	DefaultSegments = 300
)

// TextureSink receives texture changes on the render thread. A nil image
// means the surface has no texture.
type TextureSink interface {
	SetSurfaceTexture(img image.Image) error
}

// Surface is the textured sphere. Geometry is fixed at construction; only
// the texture changes.
type Surface struct {
	sphere   model.Sphere
	mesh     *model.Mesh
	material texture.Material

	mu      sync.Mutex
	pending image.Image
	dirty   bool

	// Render thread only.
	hasTexture bool
}

// NewSurface builds the sphere mesh with the panorama material.
func NewSurface(sphere model.Sphere) *Surface {
	return &Surface{
		sphere:   sphere,
		mesh:     model.BuildMesh(sphere),
		material: texture.PanoramaMaterial(),
	}
}

// Sphere returns the sphere parameters.
func (s *Surface) Sphere() model.Sphere {
	return s.sphere
}

// Mesh returns the triangle mesh.
func (s *Surface) Mesh() *model.Mesh {
	return s.mesh
}

// Material returns the sampling and culling policy.
func (s *Surface) Material() texture.Material {
	return s.material
}

// ModelMatrix places the sphere in the world. The sphere is centred on the
// camera.
func (s *Surface) ModelMatrix() math.Mat4 {
	return math.Identity()
}

// HasGeometry reports whether there is anything to hit or draw.
func (s *Surface) HasGeometry() bool {
	return s.sphere.Radius > 0 && len(s.mesh.Indices) > 0
}

// HasTexture reports whether the last flushed texture was non-nil.
func (s *Surface) HasTexture() bool {
	return s.hasTexture
}

// SetTexture queues img for the next Flush. Safe to call from any
// goroutine. Only the most recent image is kept.
func (s *Surface) SetTexture(img image.Image) {
	s.mu.Lock()
	s.pending = img
	s.dirty = true
	s.mu.Unlock()
}

// Flush hands a queued texture to sink. It reports whether anything was
// applied. Call it on the render thread before drawing.
func (s *Surface) Flush(sink TextureSink) (bool, error) {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return false, nil
	}
	img := s.pending
	s.pending = nil
	s.dirty = false
	s.mu.Unlock()

	if err := sink.SetSurfaceTexture(img); err != nil {
		s.hasTexture = false
		return true, err
	}
	s.hasTexture = img != nil
	return true, nil
}
