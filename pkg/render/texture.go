package render

import (
	"image"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"golang.org/x/image/math/f64"
)

// degenerateEpsilon bounds the determinants below which a texture solve is
// treated as singular.
const degenerateEpsilon = 1e-9

// SolveAffine finds the affine map taking the texture points tex onto the
// screen points s, solved in closed form by Cramer's rule. It returns false
// when either triangle is degenerate.
func SolveAffine(s, tex [3]Point) (f64.Aff3, bool) {
	x0, x1, x2 := s[0].X, s[1].X, s[2].X
	y0, y1, y2 := s[0].Y, s[1].Y, s[2].Y
	u0, u1, u2 := tex[0].X, tex[1].X, tex[2].X
	v0, v1, v2 := tex[0].Y, tex[1].Y, tex[2].Y

	// Collinear screen points would squash the texture onto a line.
	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if math.Abs(area) < degenerateEpsilon {
		return f64.Aff3{}, false
	}

	delta := u0*v1 + v0*u2 + u1*v2 - v1*u2 - v0*u1 - u0*v2
	if math.Abs(delta) < degenerateEpsilon {
		return f64.Aff3{}, false
	}

	da := x0*v1 + v0*x2 + x1*v2 - v1*x2 - v0*x1 - x0*v2
	db := u0*x1 + x0*u2 + u1*x2 - x1*u2 - x0*u1 - u0*x2
	dc := u0*v1*x2 + v0*x1*u2 + x0*u1*v2 - x0*v1*u2 - v0*u1*x2 - u0*x1*v2
	dd := y0*v1 + v0*y2 + y1*v2 - v1*y2 - v0*y1 - y0*v2
	de := u0*y1 + y0*u2 + u1*y2 - y1*u2 - y0*u1 - u0*y2
	df := u0*v1*y2 + v0*y1*u2 + y0*u1*v2 - y0*v1*u2 - v0*u1*y2 - u0*y1*v2

	return f64.Aff3{
		da / delta, db / delta, dc / delta,
		dd / delta, de / delta, df / delta,
	}, true
}

// TexturePoints scales texture coordinates to pixel positions in a w by h
// image. V is flipped so v=1 is the top row.
func TexturePoints(uvs [3]math3d.Vec2, w, h int) [3]Point {
	var pts [3]Point
	for i, uv := range uvs {
		pts[i] = Point{
			X: uv.X * float64(w),
			Y: (1 - uv.Y) * float64(h),
		}
	}
	return pts
}

// MapTexture draws img onto the screen triangle so that each uv lands on the
// matching screen point. The surface is clipped to the triangle and the
// whole image is blitted through the solved transform. It returns false and
// draws nothing when the mapping is degenerate.
func MapTexture(s Surface, img image.Image, screen [3]Point, uvs [3]math3d.Vec2) bool {
	b := img.Bounds()
	tex := TexturePoints(uvs, b.Dx(), b.Dy())
	for i := range tex {
		tex[i].X += float64(b.Min.X)
		tex[i].Y += float64(b.Min.Y)
	}

	m, ok := SolveAffine(screen, tex)
	if !ok {
		return false
	}

	s.Save()
	s.ClipTriangle(screen[0], screen[1], screen[2])
	s.Transform(m)
	s.DrawImage(img)
	s.Restore()
	return true
}
