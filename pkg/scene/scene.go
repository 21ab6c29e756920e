// Package scene holds the triangle data model the renderer draws: vertices
// with optional texture coordinates and normals, polygons and meshes.
package scene

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/taigrr/facet/pkg/math3d"
)

var (
	// ErrMissingUV is returned when a textured mode is requested for a
	// polygon whose vertices lack texture coordinates.
	ErrMissingUV = errors.New("vertex has no texture coordinate")
	// ErrMissingNormal is returned when a mode that reads normals is
	// requested for a polygon whose vertices lack them.
	ErrMissingNormal = errors.New("vertex has no normal")
)

// Vertex is a point in world space with optional attributes.
// A nil UV or Normal means the attribute is absent.
type Vertex struct {
	Position math3d.Vec3
	UV       *math3d.Vec2
	Normal   *math3d.Vec3
}

// V creates a vertex with only a position.
func V(x, y, z float64) Vertex {
	return Vertex{Position: math3d.V3(x, y, z)}
}

// HasUV reports whether the vertex carries a texture coordinate.
func (v Vertex) HasUV() bool { return v.UV != nil }

// HasNormal reports whether the vertex carries a normal.
func (v Vertex) HasNormal() bool { return v.Normal != nil }

// WithUV returns a copy of v with the given texture coordinate.
func (v Vertex) WithUV(u, w float64) Vertex {
	uv := math3d.V2(u, w)
	v.UV = &uv
	return v
}

// WithNormal returns a copy of v with the given normal.
func (v Vertex) WithNormal(n math3d.Vec3) Vertex {
	v.Normal = &n
	return v
}

// Polygon is a triangle. The vertex order A, B, C is its winding.
type Polygon struct {
	A, B, C Vertex
	Color   color.RGBA
}

// Vertices returns the three vertices in winding order.
func (p Polygon) Vertices() [3]Vertex {
	return [3]Vertex{p.A, p.B, p.C}
}

// Centroid returns the mean of the three vertex positions.
func (p Polygon) Centroid() math3d.Vec3 {
	return math3d.Mean3(p.A.Position, p.B.Position, p.C.Position)
}

// WindingNormal returns the unit normal implied by the winding order:
// normalize((B-A) × (C-A)).
func (p Polygon) WindingNormal() math3d.Vec3 {
	e1 := p.B.Position.Sub(p.A.Position)
	e2 := p.C.Position.Sub(p.A.Position)
	return e1.Cross(e2).Normalize()
}

// Capability is a set of per-vertex attributes a render mode depends on.
type Capability uint8

const (
	NeedUV Capability = 1 << iota
	NeedNormal
)

// Check returns an error if any vertex of p lacks an attribute named in c.
func (p Polygon) Check(c Capability) error {
	for i, v := range p.Vertices() {
		if c&NeedUV != 0 && !v.HasUV() {
			return fmt.Errorf("vertex %d: %w", i, ErrMissingUV)
		}
		if c&NeedNormal != 0 && !v.HasNormal() {
			return fmt.Errorf("vertex %d: %w", i, ErrMissingNormal)
		}
	}
	return nil
}
