package render

import (
	"github.com/charmbracelet/harmonica"
)

// Focal oscillation bounds and step per tick.
const (
	OscillateLow  = 50.0
	OscillateHigh = 300.0
	OscillateStep = 2.0

	// MinFocal keeps nudged targets in front of the projection plane.
	MinFocal = 1.0
)

// FocalController eases the focal distance toward a target with a critically
// damped spring, or bounces it between OscillateLow and OscillateHigh.
type FocalController struct {
	spring      harmonica.Spring
	target      float64
	velocity    float64
	oscillating bool
	step        float64
}

// NewFocalController creates a controller stepped tps times per second and
// resting at initial.
func NewFocalController(tps int, initial float64) *FocalController {
	return &FocalController{
		spring: harmonica.NewSpring(harmonica.FPS(tps), 6.0, 1.0),
		target: initial,
		step:   OscillateStep,
	}
}

// Target returns the distance the spring is heading to.
func (f *FocalController) Target() float64 { return f.target }

// SetTarget sets a new resting distance.
func (f *FocalController) SetTarget(d float64) {
	f.target = max(d, MinFocal)
}

// Nudge moves the target by delta.
func (f *FocalController) Nudge(delta float64) {
	f.SetTarget(f.target + delta)
}

// ToggleOscillate starts or stops oscillation and reports the new state.
func (f *FocalController) ToggleOscillate() bool {
	f.oscillating = !f.oscillating
	f.velocity = 0
	return f.oscillating
}

// Oscillating reports whether oscillation is running.
func (f *FocalController) Oscillating() bool { return f.oscillating }

// Step advances one tick from the current distance and returns the next.
func (f *FocalController) Step(current float64) float64 {
	if f.oscillating {
		if current > OscillateHigh {
			f.step = -OscillateStep
		}
		if current < OscillateLow {
			f.step = OscillateStep
		}
		next := current + f.step
		f.target = next
		return next
	}

	next, vel := f.spring.Update(current, f.velocity, f.target)
	f.velocity = vel
	return next
}
