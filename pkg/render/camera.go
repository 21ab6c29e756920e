package render

import (
	"fmt"
	"math"
	"time"

	"github.com/taigrr/facet/pkg/math3d"
)

const (
	// DefaultMovementSpeed is in scene units per second.
	DefaultMovementSpeed = 100.0
	// DefaultRotationSpeed is in degrees per second.
	DefaultRotationSpeed = 90.0

	// PitchApplied reports whether camera pitch rotates vertices. Pitch is
	// integrated and displayed but Orient ignores it.
	PitchApplied = false
)

// CameraDisplays receive rounded camera state after every Move.
// Nil sinks are skipped.
type CameraDisplays struct {
	X, Y, Z    Sink
	Yaw, Pitch Sink
}

// Camera is a first-person viewer. Yaw and Pitch are in degrees and
// accumulate without wrapping.
type Camera struct {
	Position      math3d.Vec3
	Yaw           float64
	Pitch         float64
	MovementSpeed float64
	RotationSpeed float64

	Displays CameraDisplays

	keys   KeyState
	active Directions
}

// NewCamera creates a camera at the origin looking down +Z.
func NewCamera() *Camera {
	return &Camera{
		MovementSpeed: DefaultMovementSpeed,
		RotationSpeed: DefaultRotationSpeed,
	}
}

// SetInput replaces the raw key state and recomputes the active directions.
func (c *Camera) SetInput(s KeyState) {
	c.keys = s.Clone()
	c.active = Resolve(s)
}

// Input returns a copy of the raw key state last passed to SetInput.
func (c *Camera) Input() KeyState {
	return c.keys.Clone()
}

// Active returns the resolved directions.
func (c *Camera) Active() Directions {
	return c.active
}

// Moving reports whether any horizontal direction is active.
func (c *Camera) Moving() bool {
	a := c.active
	return a.Forward || a.Back || a.StrafeLeft || a.StrafeRight
}

// MovementAngle returns the compass angle in degrees of the horizontal
// direction combination, relative to the camera's yaw.
func (c *Camera) MovementAngle() float64 {
	a := c.active
	switch {
	case a.Forward && a.StrafeRight:
		return 45
	case a.Forward && a.StrafeLeft:
		return 315
	case a.Forward:
		return 0
	case a.Back && a.StrafeRight:
		return 135
	case a.Back && a.StrafeLeft:
		return 225
	case a.Back:
		return 180
	case a.StrafeRight:
		return 90
	case a.StrafeLeft:
		return 270
	}
	return 0
}

// Velocity returns the world-space velocity in units per second.
func (c *Camera) Velocity() math3d.Vec3 {
	var v math3d.Vec3
	if c.active.Rise {
		v.Y = c.MovementSpeed
	}
	if c.active.Sink {
		v.Y = -c.MovementSpeed
	}

	if !c.Moving() {
		return v
	}

	heading := (c.Yaw + c.MovementAngle()) * math.Pi / 180
	v.X = math.Sin(heading) * c.MovementSpeed
	v.Z = math.Cos(heading) * c.MovementSpeed
	return v
}

// RotationRate returns the yaw and pitch rates in degrees per second.
func (c *Camera) RotationRate() (yaw, pitch float64) {
	if c.active.YawLeft {
		yaw = -c.RotationSpeed
	}
	if c.active.YawRight {
		yaw = c.RotationSpeed
	}
	if c.active.PitchUp {
		pitch = c.RotationSpeed
	}
	if c.active.PitchDown {
		pitch = -c.RotationSpeed
	}
	return yaw, pitch
}

// Move integrates position and rotation over elapsed.
func (c *Camera) Move(elapsed time.Duration) {
	dt := elapsed.Seconds()

	c.Position = c.Position.Add(c.Velocity().Scale(dt))
	show(c.Displays.X, fmt.Sprint(math.Round(c.Position.X)))
	show(c.Displays.Y, fmt.Sprint(math.Round(c.Position.Y)))
	show(c.Displays.Z, fmt.Sprint(math.Round(c.Position.Z)))

	yaw, pitch := c.RotationRate()
	c.Yaw += yaw * dt
	c.Pitch += pitch * dt
	show(c.Displays.Yaw, fmt.Sprint(math.Round(c.Yaw)))
	show(c.Displays.Pitch, fmt.Sprint(math.Round(c.Pitch)))
}
