package canvas

import (
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestDrawHalfBlocks(t *testing.T) {
	c := New(4, 4)
	c.SetPixel(1, 0, red)
	c.SetPixel(1, 1, green)

	scr := uv.NewScreenBuffer(4, 2)
	c.Draw(scr, scr.Bounds())

	cell := scr.CellAt(1, 0)
	if cell == nil {
		t.Fatal("CellAt(1, 0) = nil")
	}
	if cell.Content != "▀" {
		t.Errorf("Content = %q, want upper half block", cell.Content)
	}
	if cell.Style.Fg != color.Color(red) {
		t.Errorf("Fg = %v, want %v", cell.Style.Fg, red)
	}
	if cell.Style.Bg != color.Color(green) {
		t.Errorf("Bg = %v, want %v", cell.Style.Bg, green)
	}

	// Second terminal row holds canvas rows 2 and 3.
	if cell := scr.CellAt(1, 1); cell.Style.Fg != color.Color(black) {
		t.Errorf("row 1 Fg = %v, want %v", cell.Style.Fg, black)
	}
}

func TestDrawOffsetArea(t *testing.T) {
	c := New(2, 2)
	c.SetPixel(0, 0, red)

	scr := uv.NewScreenBuffer(6, 2)
	c.Draw(scr, uv.Rect(3, 1, 3, 1))

	if cell := scr.CellAt(3, 1); cell.Style.Fg != color.Color(red) {
		t.Errorf("CellAt(3, 1) Fg = %v, want %v", cell.Style.Fg, red)
	}
	// Columns past the canvas width are left alone.
	if cell := scr.CellAt(5, 1); cell.Content == "▀" {
		t.Error("CellAt(5, 1) drawn past canvas width")
	}
}

func TestRGBAToColor(t *testing.T) {
	if got := rgbaToColor(color.RGBA{}); got != nil {
		t.Errorf("rgbaToColor(transparent) = %v, want nil", got)
	}
	if got := rgbaToColor(red); got != color.Color(red) {
		t.Errorf("rgbaToColor(red) = %v, want %v", got, red)
	}
}
