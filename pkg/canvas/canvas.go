// Package canvas implements render.Surface on an in-memory RGBA image using
// the golang.org/x/image vector rasterizer and affine blitter.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/taigrr/facet/pkg/render"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// Filter selects how textures are sampled when blitted.
type Filter int

const (
	FilterNearest  Filter = iota // Nearest-neighbor (pixelated)
	FilterBilinear               // Bilinear interpolation (smooth)
)

// ParseFilter maps "nearest" or "bilinear" to a Filter. Anything else is
// nearest.
func ParseFilter(s string) Filter {
	if s == "bilinear" {
		return FilterBilinear
	}
	return FilterNearest
}

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

type state struct {
	m    f64.Aff3
	clip *image.Alpha
}

// Canvas is a software drawing surface.
type Canvas struct {
	img        *image.RGBA
	background color.RGBA
	filter     Filter

	m     f64.Aff3     // current transform
	clip  *image.Alpha // nil when unclipped
	stack []state

	rast vector.Rasterizer
	mask *image.Alpha // scratch coverage
}

var _ render.Surface = (*Canvas)(nil)

// Option configures a Canvas.
type Option func(*Canvas)

// WithBackground sets the color Clear fills with.
func WithBackground(c color.RGBA) Option {
	return func(cv *Canvas) { cv.background = c }
}

// WithFilter sets the texture sampling filter.
func WithFilter(f Filter) Option {
	return func(cv *Canvas) { cv.filter = f }
}

// New creates a w by h canvas cleared to the background color.
func New(w, h int, opts ...Option) *Canvas {
	c := &Canvas{background: color.RGBA{0, 0, 0, 255}}
	for _, o := range opts {
		o(c)
	}
	c.Resize(w, h)
	return c
}

// Resize reallocates the canvas and clears it.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.mask = image.NewAlpha(c.img.Rect)
	c.Clear()
}

// Image returns the backing image. It is overwritten by later drawing.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (w, h int) {
	return c.img.Rect.Dx(), c.img.Rect.Dy()
}

// SetFilter changes the texture sampling filter.
func (c *Canvas) SetFilter(f Filter) { c.filter = f }

// Clear fills the canvas with the background color and resets the
// transform, clip and saved states.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(c.background), image.Point{}, draw.Src)
	c.m = identity
	c.clip = nil
	c.stack = c.stack[:0]
}

// Save pushes the transform and clip.
func (c *Canvas) Save() {
	c.stack = append(c.stack, state{m: c.m, clip: c.clip})
}

// Restore pops the transform and clip pushed by the last Save. Without a
// matching Save it does nothing.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	s := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.m, c.clip = s.m, s.clip
}

// Transform composes m onto the current transform; m applies first.
func (c *Canvas) Transform(m f64.Aff3) {
	c.m = mul(c.m, m)
}

// ClipTriangle intersects the clip region with a triangle.
func (c *Canvas) ClipTriangle(a, b, p render.Point) {
	c.cover(func(z *vector.Rasterizer) { c.triangle(z, a, b, p) })

	clip := image.NewAlpha(c.img.Rect)
	copy(clip.Pix, c.mask.Pix)
	if c.clip != nil {
		for i, v := range c.clip.Pix {
			clip.Pix[i] = uint8(uint16(clip.Pix[i]) * uint16(v) / 0xff)
		}
	}
	c.clip = clip
}

// FillTriangle fills a triangle, blending col over the canvas.
func (c *Canvas) FillTriangle(a, b, p render.Point, col color.Color) {
	c.fill(col, func(z *vector.Rasterizer) { c.triangle(z, a, b, p) })
}

// Line strokes a one pixel wide segment.
func (c *Canvas) Line(a, b render.Point, col color.Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	// Half-width offset perpendicular to the segment.
	nx, ny := -dy/l*0.5, dx/l*0.5

	c.fill(col, func(z *vector.Rasterizer) {
		c.moveTo(z, render.Point{X: a.X + nx, Y: a.Y + ny})
		c.lineTo(z, render.Point{X: b.X + nx, Y: b.Y + ny})
		c.lineTo(z, render.Point{X: b.X - nx, Y: b.Y - ny})
		c.lineTo(z, render.Point{X: a.X - nx, Y: a.Y - ny})
		z.ClosePath()
	})
}

// circleK places cubic control points so four arcs approximate a circle.
const circleK = 0.5522847498

// Circle fills a disc.
func (c *Canvas) Circle(o render.Point, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	k := r * circleK
	p := func(x, y float64) render.Point { return render.Point{X: o.X + x, Y: o.Y + y} }

	c.fill(col, func(z *vector.Rasterizer) {
		c.moveTo(z, p(r, 0))
		c.cubeTo(z, p(r, k), p(k, r), p(0, r))
		c.cubeTo(z, p(-k, r), p(-r, k), p(-r, 0))
		c.cubeTo(z, p(-r, -k), p(-k, -r), p(0, -r))
		c.cubeTo(z, p(k, -r), p(r, -k), p(r, 0))
		z.ClosePath()
	})
}

// DrawImage draws img through the current transform, masked by the clip.
func (c *Canvas) DrawImage(img image.Image) {
	var interp draw.Interpolator = draw.NearestNeighbor
	if c.filter == FilterBilinear {
		interp = draw.BiLinear
	}

	opts := &draw.Options{}
	if c.clip != nil {
		opts.DstMask = c.clip
		opts.DstMaskP = c.img.Rect.Min
	}
	interp.Transform(c.img, c.m, img, img.Bounds(), draw.Over, opts)
}

// fill rasterizes a path and blends col through its coverage and the clip.
func (c *Canvas) fill(col color.Color, path func(z *vector.Rasterizer)) {
	c.cover(path)
	if c.clip != nil {
		for i, v := range c.clip.Pix {
			c.mask.Pix[i] = uint8(uint16(c.mask.Pix[i]) * uint16(v) / 0xff)
		}
	}
	draw.DrawMask(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, c.mask, c.img.Rect.Min, draw.Over)
}

// cover rasterizes a path into the scratch mask.
func (c *Canvas) cover(path func(z *vector.Rasterizer)) {
	w, h := c.Size()
	c.rast.Reset(w, h)
	c.rast.DrawOp = draw.Src
	path(&c.rast)
	clear(c.mask.Pix)
	c.rast.Draw(c.mask, c.mask.Rect, image.Opaque, image.Point{})
}

func (c *Canvas) triangle(z *vector.Rasterizer, a, b, p render.Point) {
	c.moveTo(z, a)
	c.lineTo(z, b)
	c.lineTo(z, p)
	z.ClosePath()
}

func (c *Canvas) moveTo(z *vector.Rasterizer, p render.Point) {
	x, y := c.apply(p)
	z.MoveTo(x, y)
}

func (c *Canvas) lineTo(z *vector.Rasterizer, p render.Point) {
	x, y := c.apply(p)
	z.LineTo(x, y)
}

func (c *Canvas) cubeTo(z *vector.Rasterizer, b, p, d render.Point) {
	bx, by := c.apply(b)
	px, py := c.apply(p)
	dx, dy := c.apply(d)
	z.CubeTo(bx, by, px, py, dx, dy)
}

// apply maps a point through the current transform.
func (c *Canvas) apply(p render.Point) (float32, float32) {
	m := c.m
	return float32(m[0]*p.X + m[1]*p.Y + m[2]), float32(m[3]*p.X + m[4]*p.Y + m[5])
}

// mul returns a∘b: the transform that applies b, then a.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
