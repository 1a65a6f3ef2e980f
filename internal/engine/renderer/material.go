package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/panoview/internal/engine/texture"
)

// Sampler holds texture parameters in GL enum form.
type Sampler struct {
	MinFilter int32
	MagFilter int32
	WrapS     int32
	WrapT     int32
}

// SamplerParams maps a material to GL texture parameters.
func SamplerParams(m texture.Material) Sampler {
	return Sampler{
		MinFilter: minFilter(m.MinFilter, m.MipFilter),
		MagFilter: magFilter(m.MagFilter),
		WrapS:     wrapMode(m.WrapS),
		WrapT:     wrapMode(m.WrapT),
	}
}

func magFilter(f texture.Filter) int32 {
	if f == texture.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func minFilter(minF, mipF texture.Filter) int32 {
	switch {
	case minF == texture.FilterNearest && mipF == texture.FilterNearest:
		return gl.NEAREST_MIPMAP_NEAREST
	case minF == texture.FilterNearest:
		return gl.NEAREST_MIPMAP_LINEAR
	case mipF == texture.FilterNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	default:
		return gl.LINEAR_MIPMAP_LINEAR
	}
}

func wrapMode(w texture.Wrap) int32 {
	if w == texture.WrapClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func applyCulling(m texture.Material) {
	if m.DoubleSided || m.Cull == texture.CullNone {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CCW)
	if m.Cull == texture.CullFront {
		gl.CullFace(gl.FRONT)
	} else {
		gl.CullFace(gl.BACK)
	}
}
