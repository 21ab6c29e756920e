package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	if !image.Pt(x, y).In(c.img.Rect) {
		return
	}
	c.img.SetRGBA(x, y, col)
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (c *Canvas) GetPixel(x, y int) color.RGBA {
	if !image.Pt(x, y).In(c.img.Rect) {
		return color.RGBA{}
	}
	return c.img.RGBAAt(x, y)
}

// DrawRect fills an axis-aligned rectangle without blending.
func (c *Canvas) DrawRect(x, y, w, h int, col color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Rect)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			c.img.SetRGBA(px, py, col)
		}
	}
}

// SavePNG saves the canvas as a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
