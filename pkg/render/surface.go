// Package render turns scene meshes into frames: it resolves input, moves the
// camera, projects and culls polygons, maps textures and drives the tick loop.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"
)

// Point is a 2D coordinate. Projected points are centered with Y up;
// surface points have their origin at the top-left with Y down.
type Point struct {
	X, Y float64
}

// Surface is the 2D drawing target a Renderer paints on. All coordinates are
// in surface space. Save and Restore bracket the clip and transform state.
type Surface interface {
	Size() (w, h int)
	Clear()

	FillTriangle(a, b, c Point, col color.Color)
	Line(a, b Point, col color.Color)
	Circle(center Point, r float64, col color.Color)

	Save()
	Restore()
	ClipTriangle(a, b, c Point)
	// Transform composes m onto the current transform.
	Transform(m f64.Aff3)
	// DrawImage draws img through the current transform and clip.
	DrawImage(img image.Image)
}

// Sink receives a formatted value for display.
type Sink interface {
	Show(text string)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(string)

// Show calls f(text).
func (f SinkFunc) Show(text string) { f(text) }

func show(s Sink, text string) {
	if s != nil {
		s.Show(text)
	}
}
