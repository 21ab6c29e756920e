package render

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// Orient moves a world-space point into camera space: it subtracts the
// camera position and rotates about the vertical axis by yaw. Y passes
// through unchanged and pitch is not applied.
func (c *Camera) Orient(p math3d.Vec3) math3d.Vec3 {
	v := p.Sub(c.Position)
	rad := c.Yaw * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return math3d.Vec3{
		X: cos*v.X - sin*v.Z,
		Y: v.Y,
		Z: sin*v.X + cos*v.Z,
	}
}

// Project applies a perspective divide with focal distance d.
// Callers must check Visible first; z <= 0 gives meaningless output.
func Project(v math3d.Vec3, d float64) Point {
	dz := d / v.Z
	return Point{X: dz * v.X, Y: dz * v.Y}
}

// Visible reports whether every camera-space depth is finite and in front
// of the viewer. Primitives failing this are dropped whole.
func Visible(zs ...float64) bool {
	if len(zs) == 0 {
		return false
	}
	for _, z := range zs {
		if !(z > 0) || math.IsInf(z, 1) {
			return false
		}
	}
	return true
}

// Finite reports whether every coordinate is a real number. A tiny positive
// depth can still project to infinity.
func Finite(pts ...Point) bool {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// ToSurface translates a projected point onto a w by h surface.
func ToSurface(p Point, w, h int) Point {
	return Point{
		X: float64(w)/2 + p.X,
		Y: float64(h)/2 - p.Y,
	}
}
