// Package hud draws labeled readouts (FPS, focal distance, camera state) over
// a rendered frame with tinyfont.
package hud

import (
	"image/color"

	"github.com/taigrr/facet/pkg/render"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Target is a pixel-addressable image the HUD writes onto.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c color.RGBA)
	DrawRect(x, y, w, h int, c color.RGBA)
}

// Default colors.
var (
	DefaultTextColor = color.RGBA{0xee, 0xee, 0xee, 0xff}
	DefaultBackdrop  = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// Margin is the gap in pixels between the HUD and the target's edges.
const Margin = 2

type entry struct {
	label string
	value string
}

// HUD is an ordered set of labeled values. Values arrive through sinks and
// are drawn on the next call to Draw. It is not safe for concurrent use.
type HUD struct {
	font     tinyfont.Fonter
	text     color.RGBA
	backdrop color.RGBA
	entries  []*entry
	visible  bool
}

// Option configures a HUD.
type Option func(*HUD)

// WithFont replaces the default proggy font.
func WithFont(f tinyfont.Fonter) Option {
	return func(h *HUD) { h.font = f }
}

// WithColors sets the text and backdrop colors. A backdrop with zero alpha
// is not drawn.
func WithColors(text, backdrop color.RGBA) Option {
	return func(h *HUD) {
		h.text = text
		h.backdrop = backdrop
	}
}

// New creates a visible HUD with no entries.
func New(opts ...Option) *HUD {
	h := &HUD{
		font:     &proggy.TinySZ8pt7b,
		text:     DefaultTextColor,
		backdrop: DefaultBackdrop,
		visible:  true,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Sink returns a sink that updates the entry with the given label, adding
// it after the existing entries on first use.
func (h *HUD) Sink(label string) render.Sink {
	e := h.entry(label)
	return render.SinkFunc(func(s string) { e.value = s })
}

// Set updates a value directly.
func (h *HUD) Set(label, value string) {
	h.entry(label).value = value
}

// Value returns the last value shown for label.
func (h *HUD) Value(label string) (string, bool) {
	for _, e := range h.entries {
		if e.label == label {
			return e.value, true
		}
	}
	return "", false
}

// Lines returns the formatted lines Draw would write.
func (h *HUD) Lines() []string {
	lines := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		if e.value == "" {
			continue
		}
		lines = append(lines, e.label+" "+e.value)
	}
	return lines
}

// Visible reports whether Draw writes anything.
func (h *HUD) Visible() bool { return h.visible }

// SetVisible shows or hides the HUD.
func (h *HUD) SetVisible(v bool) { h.visible = v }

// Toggle flips visibility.
func (h *HUD) Toggle() { h.visible = !h.visible }

// Draw writes the HUD in the top-left corner of t.
func (h *HUD) Draw(t Target) {
	if !h.visible || t == nil {
		return
	}
	lines := h.Lines()
	if len(lines) == 0 {
		return
	}

	advance := int(h.font.GetYAdvance())
	if h.backdrop.A != 0 {
		width := 0
		for _, l := range lines {
			_, w := tinyfont.LineWidth(h.font, l)
			width = max(width, int(w))
		}
		t.DrawRect(0, 0, width+2*Margin, advance*len(lines)+2*Margin, h.backdrop)
	}

	d := &displayer{t: t}
	for i, l := range lines {
		// WriteLine positions text by its baseline.
		y := Margin + advance*(i+1) - advance/4
		tinyfont.WriteLine(d, h.font, Margin, int16(y), l, h.text)
	}
}

func (h *HUD) entry(label string) *entry {
	for _, e := range h.entries {
		if e.label == label {
			return e
		}
	}
	e := &entry{label: label}
	h.entries = append(h.entries, e)
	return e
}

// displayer adapts a Target to the drivers.Displayer tinyfont writes to.
type displayer struct {
	t Target
}

var _ drivers.Displayer = (*displayer)(nil)

func (d *displayer) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16(w), int16(h)
}

func (d *displayer) SetPixel(x, y int16, c color.RGBA) {
	d.t.SetPixel(int(x), int(y), c)
}

func (d *displayer) Display() error { return nil }
