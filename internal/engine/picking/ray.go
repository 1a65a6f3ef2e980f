// Package picking provides ray casting from screen space into the scene.
package picking

import (
	gomath "math"

	"github.com/Faultbox/panoview/pkg/math"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates (origin top-left) into a world-space
// ray through the near and far planes. invViewProj is the inverse of the
// view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)

	return Ray{
		Origin:    near,
		Direction: far.Sub(near).Normalize(),
	}
}

func unproject(inv math.Mat4, x, y, z float32) math.Vec3 {
	p := inv.MulVec4(math.Vec4{x, y, z, 1})
	if p[3] != 0 {
		return math.Vec3{X: p[0] / p[3], Y: p[1] / p[3], Z: p[2] / p[3]}
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// InViewport reports whether a pixel position lies inside a w x h viewport.
func InViewport(x, y, w, h float32) bool {
	return w > 0 && h > 0 && x >= 0 && y >= 0 && x <= w && y <= h
}

// IntersectSphere returns the nearest non-negative distance at which the ray
// meets a sphere's surface. From inside the sphere that is the exit point.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	if radius <= 0 {
		return 0, false
	}

	// |o + t d - c|^2 = r^2 with |d| = 1
	oc := r.Origin.Sub(center)
	b := float64(oc.Dot(r.Direction))
	c := float64(oc.Dot(oc)) - float64(radius)*float64(radius)
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := gomath.Sqrt(disc)
	t0 := -b - sq
	t1 := -b + sq
	switch {
	case t0 >= 0:
		return float32(t0), true
	case t1 >= 0:
		return float32(t1), true
	default:
		return 0, false
	}
}
