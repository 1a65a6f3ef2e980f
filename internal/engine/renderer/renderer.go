// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/panoview/internal/engine/model"
	"github.com/Faultbox/panoview/internal/engine/shader"
	"github.com/Faultbox/panoview/internal/engine/shaders"
	"github.com/Faultbox/panoview/internal/engine/texture"
	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32
}

// Renderer draws the panorama sphere.
type Renderer struct {
	config   Config
	material texture.Material
	program  *shader.Program
	log      *zap.Logger

	vao, vbo, ebo uint32
	indexCount    int32

	textureID      uint32
	maxTextureSize int
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config, material texture.Material) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		material: material,
		log:      logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	r.maxTextureSize = int(maxSize)

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int("max_texture_size", r.maxTextureSize),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	r.program, err = shader.New(shaders.PanoramaVertexShader, shaders.PanoramaFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create panorama shader: %w", err)
	}
	if err := r.program.Require("uViewProj", "uModel", "uContentsTransform", "uTexture", "uHasTexture"); err != nil {
		r.program.Delete()
		return nil, err
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.deleteTexture()
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// MaxTextureSize returns GL_MAX_TEXTURE_SIZE.
func (r *Renderer) MaxTextureSize() int {
	return r.maxTextureSize
}

// UploadMesh replaces the sphere geometry.
func (r *Renderer) UploadMesh(mesh *model.Mesh) {
	if r.vao == 0 {
		gl.GenVertexArrays(1, &r.vao)
		gl.GenBuffers(1, &r.vbo)
		gl.GenBuffers(1, &r.ebo)
	}
	r.indexCount = int32(len(mesh.Indices))
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		r.indexCount = 0
		return
	}

	gl.BindVertexArray(r.vao)

	stride := int32(unsafe.Sizeof(model.Vertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// TexCoord (location = 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	r.log.Debug("sphere uploaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
	)
}

// SetSurfaceTexture uploads img as the panorama texture. A nil image
// releases the texture and the sphere renders black.
func (r *Renderer) SetSurfaceTexture(img image.Image) error {
	r.deleteTexture()
	if img == nil {
		r.log.Debug("surface texture cleared")
		return nil
	}

	rgba := texture.FitMaxSize(img, r.maxTextureSize)
	if len(rgba.Pix) == 0 {
		return fmt.Errorf("upload texture: empty image")
	}
	if b := img.Bounds(); b.Dx() != rgba.Rect.Dx() {
		r.log.Info("panorama downscaled to fit GL limits",
			zap.Int("from_width", b.Dx()),
			zap.Int("to_width", rgba.Rect.Dx()),
		)
	}

	gl.GenTextures(1, &r.textureID)
	gl.BindTexture(gl.TEXTURE_2D, r.textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	params := SamplerParams(r.material)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, params.MinFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, params.MagFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, params.WrapS)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, params.WrapT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Info("surface texture uploaded",
		zap.Uint32("id", r.textureID),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()),
	)
	return nil
}

func (r *Renderer) deleteTexture() {
	if r.textureID != 0 {
		gl.DeleteTextures(1, &r.textureID)
		r.textureID = 0
	}
}

// DrawSurface draws the sphere from the inside.
func (r *Renderer) DrawSurface(viewProj, modelMatrix math.Mat4) {
	if r.indexCount == 0 {
		return
	}

	applyCulling(r.material)

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetMat4("uModel", modelMatrix)
	r.program.SetMat4("uContentsTransform", r.material.ContentsTransform)
	r.program.SetBool("uHasTexture", r.textureID != 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.textureID)
	r.program.SetInt("uTexture", 0)

	gl.BindVertexArray(r.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, 0)
}

// ReadPixels reads the current back buffer into a top-down RGBA image.
func (r *Renderer) ReadPixels() *image.RGBA {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return FlipRows(pixels, w, h)
}

// FlipRows converts bottom-up GL rows into a top-down image.
func FlipRows(pixels []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	row := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*row:(y+1)*row], pixels[(h-1-y)*row:(h-y)*row])
	}
	return img
}
