package viewer

import (
	"maps"
	"slices"

	"github.com/taigrr/facet/pkg/render"
)

// Action is a discrete command bound to a key.
type Action int

const (
	ActionNone Action = iota
	TogglePolygons
	ToggleEdges
	ToggleVertices
	ToggleVertexNormals
	ToggleFaceNormals
	ToggleTexture
	ToggleShading
	FocalIn
	FocalOut
	ToggleOscillate
	ToggleHUD
	Quit
)

// FocalStep is how far one focal key press moves the target distance.
const FocalStep = 25.0

var movement = map[string]render.Key{
	"w":     render.KeyForward,
	"s":     render.KeyBack,
	"a":     render.KeyStrafeLeft,
	"d":     render.KeyStrafeRight,
	"q":     render.KeyRise,
	"e":     render.KeySink,
	"left":  render.KeyYawLeft,
	"right": render.KeyYawRight,
	"up":    render.KeyPitchUp,
	"down":  render.KeyPitchDown,
}

var actions = map[string]Action{
	"p":      TogglePolygons,
	"x":      ToggleEdges,
	"v":      ToggleVertices,
	"n":      ToggleVertexNormals,
	"f":      ToggleFaceNormals,
	"t":      ToggleTexture,
	"h":      ToggleShading,
	"+":      FocalIn,
	"=":      FocalIn,
	"-":      FocalOut,
	"_":      FocalOut,
	"o":      ToggleOscillate,
	"?":      ToggleHUD,
	"esc":    Quit,
	"escape": Quit,
	"ctrl+c": Quit,
}

// MovementKey returns the camera key bound to a key name such as "w" or
// "left".
func MovementKey(name string) (render.Key, bool) {
	k, ok := movement[name]
	return k, ok
}

// ActionFor returns the action bound to a key name, or ActionNone.
func ActionFor(name string) Action {
	return actions[name]
}

// KeyNames returns every bound key name, sorted.
func KeyNames() []string {
	names := slices.Collect(maps.Keys(movement))
	names = slices.AppendSeq(names, maps.Keys(actions))
	slices.Sort(names)
	return names
}

// Help lists the controls, one per line.
const Help = `  W/S         - Move forward/back
  A/D         - Strafe left/right
  Q/E         - Rise/sink
  Left/Right  - Yaw
  Up/Down     - Pitch (tracked, not applied)
  P           - Toggle polygons
  X           - Toggle edges
  V           - Toggle vertex markers
  N           - Toggle vertex normals
  F           - Toggle face normals
  T           - Toggle texture
  H           - Toggle shading
  +/-         - Focal distance
  O           - Oscillate focal distance
  ?           - Toggle HUD overlay
  Esc         - Quit
`
