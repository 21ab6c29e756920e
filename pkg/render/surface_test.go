package render

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"
)

// call is one recorded Surface operation.
type call struct {
	op    string
	pts   []Point
	col   color.Color
	aff   f64.Aff3
	image image.Image
}

// recordingSurface is a Surface that records every call.
type recordingSurface struct {
	w, h  int
	calls []call
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Clear()           { s.record(call{op: "clear"}) }
func (s *recordingSurface) Save()            { s.record(call{op: "save"}) }
func (s *recordingSurface) Restore()         { s.record(call{op: "restore"}) }

func (s *recordingSurface) FillTriangle(a, b, c Point, col color.Color) {
	s.record(call{op: "fill", pts: []Point{a, b, c}, col: col})
}

func (s *recordingSurface) Line(a, b Point, col color.Color) {
	s.record(call{op: "line", pts: []Point{a, b}, col: col})
}

func (s *recordingSurface) Circle(center Point, r float64, col color.Color) {
	s.record(call{op: "circle", pts: []Point{center}, col: col})
}

func (s *recordingSurface) ClipTriangle(a, b, c Point) {
	s.record(call{op: "clip", pts: []Point{a, b, c}})
}

func (s *recordingSurface) Transform(m f64.Aff3) {
	s.record(call{op: "transform", aff: m})
}

func (s *recordingSurface) DrawImage(img image.Image) {
	s.record(call{op: "image", image: img})
}

func (s *recordingSurface) record(c call) {
	s.calls = append(s.calls, c)
}

// ops returns the recorded operation names in order.
func (s *recordingSurface) ops() []string {
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.op
	}
	return out
}

// count returns how many times op was recorded.
func (s *recordingSurface) count(op string) int {
	n := 0
	for _, c := range s.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

// find returns the recorded calls named op.
func (s *recordingSurface) find(op string) []call {
	var out []call
	for _, c := range s.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *recordingSurface) reset() { s.calls = nil }
