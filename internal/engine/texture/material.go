// Package texture provides image decoding and the panorama material policy.
package texture

import "github.com/Faultbox/panoview/pkg/math"

// Filter selects texel sampling.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Wrap selects how coordinates outside [0,1] are resolved.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// Material describes how a texture is sampled and which faces draw.
type Material struct {
	MagFilter Filter
	MinFilter Filter
	MipFilter Filter // Selection between mip levels
	WrapS     Wrap
	WrapT     Wrap

	// ContentsTransform is applied to texture coordinates before sampling.
	ContentsTransform math.Mat4

	Cull        CullMode
	DoubleSided bool
}

// PanoramaMaterial returns the inner-sphere material. The horizontal texture
// axis is mirrored so the photo reads correctly from inside, wraps around
// the azimuth, and clamps at the poles. Only back faces (the interior)
// render.
func PanoramaMaterial() Material {
	return Material{
		MagFilter:         FilterLinear,
		MinFilter:         FilterLinear,
		MipFilter:         FilterNearest,
		WrapS:             WrapRepeat,
		WrapT:             WrapClampToEdge,
		ContentsTransform: math.Scale(-1, 1, 1),
		Cull:              CullFront,
		DoubleSided:       false,
	}
}

// Apply maps a texture coordinate through the contents transform. Repeating
// axes wrap into [0,1); clamped axes saturate.
func (m Material) Apply(uv math.Vec2) math.Vec2 {
	p := m.ContentsTransform.TransformPoint(math.Vec3{X: uv.X, Y: uv.Y})
	return math.Vec2{X: wrap(p.X, m.WrapS), Y: wrap(p.Y, m.WrapT)}
}

func wrap(v float32, mode Wrap) float32 {
	if mode == WrapClampToEdge {
		return math.Clamp(v, 0, 1)
	}
	v -= float32(int(v))
	if v < 0 {
		v++
	}
	return v
}
