package canvas

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the canvas to terminal cells and draws them on the screen.
// The canvas height should be 2x the terminal height.
func (c *Canvas) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 canvas rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	w, _ := c.Size()

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < w; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(c.GetPixel(x, topY)),
					Bg: rgbaToColor(c.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
