package renderer

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/panoview/internal/engine/texture"
)

func TestSamplerParamsPanorama(t *testing.T) {
	got := SamplerParams(texture.PanoramaMaterial())
	want := Sampler{
		MinFilter: gl.LINEAR_MIPMAP_NEAREST,
		MagFilter: gl.LINEAR,
		WrapS:     gl.REPEAT,
		WrapT:     gl.CLAMP_TO_EDGE,
	}
	if got != want {
		t.Errorf("SamplerParams = %+v, want %+v", got, want)
	}
}

func TestMinFilter(t *testing.T) {
	tests := []struct {
		minF, mipF texture.Filter
		want       int32
	}{
		{texture.FilterNearest, texture.FilterNearest, gl.NEAREST_MIPMAP_NEAREST},
		{texture.FilterNearest, texture.FilterLinear, gl.NEAREST_MIPMAP_LINEAR},
		{texture.FilterLinear, texture.FilterNearest, gl.LINEAR_MIPMAP_NEAREST},
		{texture.FilterLinear, texture.FilterLinear, gl.LINEAR_MIPMAP_LINEAR},
	}
	for _, tt := range tests {
		if got := minFilter(tt.minF, tt.mipF); got != tt.want {
			t.Errorf("minFilter(%v, %v) = %#x, want %#x", tt.minF, tt.mipF, got, tt.want)
		}
	}
}

func TestFlipRows(t *testing.T) {
	// 1x3 image, bottom-up: row 0 is the bottom.
	pixels := []byte{
		1, 1, 1, 255,
		2, 2, 2, 255,
		3, 3, 3, 255,
	}
	img := FlipRows(pixels, 1, 3)
	for y, want := range []uint8{3, 2, 1} {
		if got := img.RGBAAt(0, y).R; got != want {
			t.Errorf("row %d = %d, want %d", y, got, want)
		}
	}
}
