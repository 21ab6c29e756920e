package scene

import (
	"image/color"

	"github.com/taigrr/facet/pkg/math3d"
)

// RectOptions describes a quad by its four corners. Corners are given as
// seen from the side the quad faces.
type RectOptions struct {
	TopLeft, TopRight, BottomLeft, BottomRight math3d.Vec3
	Color                                      color.RGBA
}

// NewRectMesh builds a quad from two triangles, (tl, tr, bl) and
// (tr, br, bl). Corner UVs span the full texture and every vertex gets the
// face normal of its triangle.
func NewRectMesh(opts RectOptions) *Mesh {
	tl := Vertex{Position: opts.TopLeft}.WithUV(0, 1)
	tr := Vertex{Position: opts.TopRight}.WithUV(1, 1)
	bl := Vertex{Position: opts.BottomLeft}.WithUV(0, 0)
	br := Vertex{Position: opts.BottomRight}.WithUV(1, 0)

	m := NewMesh("rect",
		Polygon{A: tl, B: tr, C: bl, Color: opts.Color},
		Polygon{A: tr, B: br, C: bl, Color: opts.Color},
	)
	m.ComputeNormals()
	return m
}

// BoxColors are the fill colors for the faces of Box, in the order
// front, back, left, right, top, bottom.
type BoxColors [6]color.RGBA

// DefaultBoxColors is the palette used by the demo scene.
var DefaultBoxColors = BoxColors{
	{0xe5, 0x39, 0x35, 0xff},
	{0x1e, 0x88, 0xe5, 0xff},
	{0x43, 0xa0, 0x47, 0xff},
	{0xfd, 0xd8, 0x35, 0xff},
	{0x8e, 0x24, 0xaa, 0xff},
	{0xfb, 0x8c, 0x00, 0xff},
}

// Box builds an axis-aligned box of twelve triangles centered at c. Every
// face winds so its normal points outward.
func Box(c math3d.Vec3, size float64, colors BoxColors) *Mesh {
	h := size / 2
	p := func(x, y, z float64) math3d.Vec3 {
		return c.Add(math3d.V3(x*h, y*h, z*h))
	}

	faces := []RectOptions{
		// front (z-), seen from -z
		{TopLeft: p(-1, 1, -1), TopRight: p(1, 1, -1), BottomLeft: p(-1, -1, -1), BottomRight: p(1, -1, -1)},
		// back (z+), seen from +z
		{TopLeft: p(1, 1, 1), TopRight: p(-1, 1, 1), BottomLeft: p(1, -1, 1), BottomRight: p(-1, -1, 1)},
		// left (x-)
		{TopLeft: p(-1, 1, 1), TopRight: p(-1, 1, -1), BottomLeft: p(-1, -1, 1), BottomRight: p(-1, -1, -1)},
		// right (x+)
		{TopLeft: p(1, 1, -1), TopRight: p(1, 1, 1), BottomLeft: p(1, -1, -1), BottomRight: p(1, -1, 1)},
		// top (y+)
		{TopLeft: p(-1, 1, 1), TopRight: p(1, 1, 1), BottomLeft: p(-1, 1, -1), BottomRight: p(1, 1, -1)},
		// bottom (y-)
		{TopLeft: p(-1, -1, -1), TopRight: p(1, -1, -1), BottomLeft: p(-1, -1, 1), BottomRight: p(1, -1, 1)},
	}

	box := NewMesh("box")
	for i, f := range faces {
		f.Color = colors[i]
		box.Add(NewRectMesh(f).Polygons...)
	}
	return box
}
