package model

import (
	gomath "math"

	"github.com/Faultbox/panoview/pkg/math"
)

// Sphere describes a UV sphere centred on the origin.
type Sphere struct {
	Radius float32
	// Segments is the number of longitude slices. Latitude uses half as many
	// rings so the quads stay roughly square on an equirectangular image.
	Segments int
}

// Rings returns the number of latitude bands.
func (s Sphere) Rings() int {
	r := s.Segments / 2
	if r < 2 {
		r = 2
	}
	return r
}

// Direction returns the unit direction for texture coordinate (u, v) before
// any contents transform. v=0 is the north pole and u runs
// counter-clockwise seen from above, starting on +X.
func Direction(u, v float32) math.Vec3 {
	theta := 2 * gomath.Pi * float64(u)
	phi := gomath.Pi * float64(v)
	sinPhi, cosPhi := gomath.Sincos(phi)
	sinTheta, cosTheta := gomath.Sincos(theta)
	return math.Vec3{
		X: float32(sinPhi * cosTheta),
		Y: float32(cosPhi),
		Z: float32(-sinPhi * sinTheta),
	}
}

// TexCoordAt is the inverse of Direction for a point on (or off) the sphere.
// u is in [0, 1) and v in [0, 1].
func TexCoordAt(p math.Vec3) math.Vec2 {
	d := p.Normalize()
	theta := gomath.Atan2(float64(-d.Z), float64(d.X))
	if theta < 0 {
		theta += 2 * gomath.Pi
	}
	phi := gomath.Acos(float64(math.Clamp(d.Y, -1, 1)))
	u := float32(theta / (2 * gomath.Pi))
	if u >= 1 {
		u = 0
	}
	return math.Vec2{X: u, Y: float32(phi / gomath.Pi)}
}

// BuildMesh tessellates the sphere. Triangles wind counter-clockwise when
// seen from outside, so culling front faces leaves only the interior.
// The seam column is duplicated so u reaches exactly 1.
func BuildMesh(s Sphere) *Mesh {
	if s.Radius <= 0 || s.Segments < 3 {
		return &Mesh{}
	}

	sectors := s.Segments
	rings := s.Rings()
	stride := sectors + 1

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, (rings+1)*stride),
		Indices:  make([]uint32, 0, 6*sectors*(rings-1)),
		Bounds: Bounds{
			Min: [3]float32{-s.Radius, -s.Radius, -s.Radius},
			Max: [3]float32{s.Radius, s.Radius, s.Radius},
		},
	}

	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		for j := 0; j <= sectors; j++ {
			u := float32(j) / float32(sectors)
			p := Direction(u, v).Scale(s.Radius)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: [3]float32{p.X, p.Y, p.Z},
				TexCoord: [2]float32{u, v},
			})
		}
	}

	for i := 0; i < rings; i++ {
		for j := 0; j < sectors; j++ {
			k1 := uint32(i*stride + j)
			k2 := k1 + uint32(stride)
			// Pole rows collapse one triangle of each quad.
			if i != 0 {
				mesh.Indices = append(mesh.Indices, k1, k2, k1+1)
			}
			if i != rings-1 {
				mesh.Indices = append(mesh.Indices, k1+1, k2, k2+1)
			}
		}
	}

	return mesh
}
