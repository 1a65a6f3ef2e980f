// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PanoramaVertexShader transforms the sphere and passes texture coordinates
// through the material's contents transform.
//
//go:embed panorama.vert
var PanoramaVertexShader string

// PanoramaFragmentShader samples the panorama, or outputs black when no
// texture is bound.
//
//go:embed panorama.frag
var PanoramaFragmentShader string
