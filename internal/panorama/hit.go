package panorama

import (
	"github.com/Faultbox/panoview/internal/engine/model"
	"github.com/Faultbox/panoview/internal/engine/picking"
	"github.com/Faultbox/panoview/pkg/math"
)

// HitResult describes where a screen point lands on the surface.
type HitResult struct {
	WorldPoint math.Vec3
	LocalPoint math.Vec3 // In the sphere's model space
	Normal     math.Vec3 // Unit normal facing the camera
	TexCoord   math.Vec2 // Image coordinates in [0,1], as displayed
	Distance   float32   // From the camera along the ray
	Surface    *Surface
}

// Delegate is notified of taps and long presses that hit the surface.
type Delegate interface {
	DidTapScene(hit HitResult)
	DidLongPressScene(hit HitResult)
}

// HitTest casts a ray through window point (x, y). It returns false when
// the point is outside the viewport or nothing is under it.
func (v *View) HitTest(x, y float32) (HitResult, bool) {
	if !picking.InViewport(x, y, v.width, v.height) || !v.surface.HasGeometry() {
		return HitResult{}, false
	}

	ray := picking.ScreenToRay(x, y, v.width, v.height, v.ViewProjection().Inverse())
	ray.Origin = v.Eye()

	modelMat := v.surface.ModelMatrix()
	center := modelMat.TransformPoint(math.Vec3{})
	dist, ok := ray.IntersectSphere(center, v.surface.sphere.Radius)
	if !ok {
		return HitResult{}, false
	}

	world := ray.At(dist)
	local := modelMat.Inverse().TransformPoint(world)

	// Outward normal flipped towards the camera inside.
	normal := center.Sub(world).Normalize()
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Neg()
	}

	return HitResult{
		WorldPoint: world,
		LocalPoint: local,
		Normal:     normal,
		TexCoord:   v.surface.material.Apply(model.TexCoordAt(local)),
		Distance:   dist,
		Surface:    v.surface,
	}, true
}
