package shaders

import (
	"strings"
	"testing"
)

func TestShadersEmbedded(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		uniforms []string
	}{
		{"vertex", PanoramaVertexShader, []string{"uViewProj", "uModel", "uContentsTransform"}},
		{"fragment", PanoramaFragmentShader, []string{"uTexture", "uHasTexture"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.src, "#version 410 core") {
				t.Errorf("%s shader must target GLSL 410 core", tt.name)
			}
			for _, u := range tt.uniforms {
				if !strings.Contains(tt.src, "uniform") || !strings.Contains(tt.src, u) {
					t.Errorf("%s shader missing uniform %s", tt.name, u)
				}
			}
		})
	}
}
