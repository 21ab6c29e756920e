package scene

import (
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
)

// Mesh is an ordered collection of polygons. Insertion order is draw order.
type Mesh struct {
	Name     string
	Polygons []Polygon
}

// NewMesh creates an empty mesh.
func NewMesh(name string, polys ...Polygon) *Mesh {
	return &Mesh{Name: name, Polygons: polys}
}

// Add appends polygons to the mesh.
func (m *Mesh) Add(polys ...Polygon) {
	m.Polygons = append(m.Polygons, polys...)
}

// Len returns the number of polygons.
func (m *Mesh) Len() int {
	return len(m.Polygons)
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Polygons) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	lo = m.Polygons[0].A.Position
	hi = lo
	for _, p := range m.Polygons {
		for _, v := range p.Vertices() {
			lo = lo.Min(v.Position)
			hi = hi.Max(v.Position)
		}
	}
	return lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Transform applies a matrix to every vertex position and normal.
// Normals are renormalized after transformation.
func (m *Mesh) Transform(mat math3d.Mat4) {
	tv := func(v Vertex) Vertex {
		v.Position = mat.MulVec3(v.Position)
		if v.Normal != nil {
			v = v.WithNormal(mat.MulVec3Dir(*v.Normal).Normalize())
		}
		return v
	}
	for i := range m.Polygons {
		p := &m.Polygons[i]
		p.A, p.B, p.C = tv(p.A), tv(p.B), tv(p.C)
	}
}

// Require checks that every polygon carries the attributes in c.
// It never fills in missing attributes.
func (m *Mesh) Require(c Capability) error {
	for i, p := range m.Polygons {
		if err := p.Check(c); err != nil {
			return fmt.Errorf("mesh %q polygon %d: %w", m.Name, i, err)
		}
	}
	return nil
}

// ComputeNormals assigns the winding normal to every vertex that has none.
// Existing normals are left untouched.
func (m *Mesh) ComputeNormals() {
	for i := range m.Polygons {
		p := &m.Polygons[i]
		n := p.WindingNormal()
		fill := func(v Vertex) Vertex {
			if v.Normal == nil {
				return v.WithNormal(n)
			}
			return v
		}
		p.A, p.B, p.C = fill(p.A), fill(p.B), fill(p.C)
	}
}
