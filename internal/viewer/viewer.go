// Package viewer wires a scene, renderer, loop and HUD together for the
// facet frontends and maps their key events onto camera input and actions.
package viewer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/pkg/canvas"
	"github.com/taigrr/facet/pkg/hud"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/scene"
	"go.uber.org/zap"
)

// HUD labels.
const (
	LabelFPS   = "fps"
	LabelFocal = "d"
	LabelX     = "x"
	LabelY     = "y"
	LabelZ     = "z"
	LabelYaw   = "yaw"
	LabelPitch = "pitch"
	LabelModes = "mode"
)

// Options configures a Viewer.
type Options struct {
	Config *config.Config
	Canvas *canvas.Canvas
	Scene  *Scene
	Logger *zap.Logger

	// ReleaseHold, when positive, releases keys not pressed again within
	// this long. Hosts whose key-up events are unreliable set it.
	ReleaseHold time.Duration

	// HideHUD starts with the overlay hidden.
	HideHUD bool

	// Present is called after the frame and HUD are drawn.
	Present func(render.FrameStats)
}

// Viewer owns one running scene. Press, Release and Do must run on the loop
// goroutine: call them from Loop.Post, or directly from hosts that call
// Loop.Step themselves.
type Viewer struct {
	Renderer *render.Renderer
	Loop     *render.Loop
	Focal    *render.FocalController
	HUD      *hud.HUD

	canvas     *canvas.Canvas
	keys       *render.KeyTracker
	hold       time.Duration
	sawRelease bool
	present    func(render.FrameStats)
	log        *zap.Logger
}

// New builds a viewer. Layers the scene cannot support are switched off
// with a warning instead of failing.
func New(opts Options) (*Viewer, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Canvas == nil {
		return nil, render.ErrNoSurface
	}
	if opts.Scene == nil {
		return nil, errors.New("viewer has no scene")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	cfg := opts.Config

	v := &Viewer{
		HUD:     hud.New(),
		canvas:  opts.Canvas,
		keys:    render.NewKeyTracker(),
		hold:    opts.ReleaseHold,
		present: opts.Present,
		log:     opts.Logger,
	}
	v.HUD.SetVisible(!opts.HideHUD)
	opts.Canvas.SetFilter(canvas.ParseFilter(cfg.Render.Filter))

	// Sinks are created in overlay order.
	fps, focal := v.HUD.Sink(LabelFPS), v.HUD.Sink(LabelFocal)
	cam := cfg.Camera.NewCamera()
	cam.Displays = render.CameraDisplays{
		X:     v.HUD.Sink(LabelX),
		Y:     v.HUD.Sink(LabelY),
		Z:     v.HUD.Sink(LabelZ),
		Yaw:   v.HUD.Sink(LabelYaw),
		Pitch: v.HUD.Sink(LabelPitch),
	}

	r, err := render.NewRenderer(render.Options{
		Surface:      opts.Canvas,
		Camera:       cam,
		Meshes:       opts.Scene.Meshes,
		Texture:      opts.Scene.Texture,
		Focal:        cfg.Render.FocalDistance,
		NormalLength: cfg.Render.NormalLength,
		FPSDisplay:   fps,
		FocalDisplay: focal,
		Logger:       opts.Logger.Named("render"),
	})
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	v.Renderer = r
	v.setModes(supported(cfg.Render.Modes(), opts.Scene.Meshes, opts.Logger))

	v.Focal = render.NewFocalController(cfg.Loop.TPS, r.Focal())
	v.Loop = render.NewLoop(r, render.LoopOptions{
		TPS:            cfg.Loop.TPS,
		DisplayRefresh: cfg.Loop.DisplayRefresh,
		Focal:          v.Focal,
		OnFrame:        v.afterFrame,
		Logger:         opts.Logger.Named("loop"),
	})

	opts.Logger.Info("viewer ready",
		zap.String("scene", opts.Scene.Name),
		zap.Int("polygons", opts.Scene.Polygons()),
		zap.Int("tps", cfg.Loop.TPS))
	return v, nil
}

// supported drops the layers some mesh lacks the attributes for.
func supported(m render.Modes, meshes []*scene.Mesh, log *zap.Logger) render.Modes {
	check := func(need scene.Capability) error {
		for _, mesh := range meshes {
			if err := mesh.Require(need); err != nil {
				return err
			}
		}
		return nil
	}
	if m.Polygons && m.Textured {
		if err := check(scene.NeedUV); err != nil {
			log.Warn("texture disabled", zap.Error(err))
			m.Textured = false
		}
	}
	if err := check(scene.NeedNormal); err != nil {
		log.Warn("normal layers disabled", zap.Error(err))
		m.Polygons, m.VertexNormals, m.FaceNormals = false, false, false
	}
	return m
}

// Press records a held camera key.
func (v *Viewer) Press(k render.Key, at time.Time) {
	v.keys.Press(k, at)
	v.Renderer.Camera().SetInput(v.keys.State())
}

// Release records a key going up. The first release turns off expiry since
// the host evidently reports them.
func (v *Viewer) Release(k render.Key) {
	v.sawRelease = true
	v.keys.Release(k)
	v.Renderer.Camera().SetInput(v.keys.State())
}

// PressName handles a key-down by name and returns the action it triggers.
// Camera keys return ActionNone.
func (v *Viewer) PressName(name string, at time.Time) Action {
	name = strings.ToLower(name)
	if k, ok := MovementKey(name); ok {
		v.Press(k, at)
		return ActionNone
	}
	a := ActionFor(name)
	v.Do(a)
	return a
}

// ReleaseName handles a key-up by name.
func (v *Viewer) ReleaseName(name string) {
	if k, ok := MovementKey(strings.ToLower(name)); ok {
		v.Release(k)
	}
}

// Do applies an action. Quit is left to the host.
func (v *Viewer) Do(a Action) {
	r := v.Renderer
	m := r.Modes()
	switch a {
	case TogglePolygons:
		m.Polygons = !m.Polygons
	case ToggleEdges:
		m.Edges = !m.Edges
	case ToggleVertices:
		m.Vertices = !m.Vertices
	case ToggleVertexNormals:
		m.VertexNormals = !m.VertexNormals
	case ToggleFaceNormals:
		m.FaceNormals = !m.FaceNormals
	case ToggleTexture:
		m.Textured = !m.Textured
	case ToggleShading:
		m.Shaded = !m.Shaded
	case FocalIn:
		v.Focal.Nudge(FocalStep)
		return
	case FocalOut:
		v.Focal.Nudge(-FocalStep)
		return
	case ToggleOscillate:
		if !v.Focal.ToggleOscillate() {
			v.Focal.SetTarget(r.Focal())
		}
		return
	case ToggleHUD:
		v.HUD.Toggle()
		return
	default:
		return
	}
	v.setModes(m)
}

// Resize reallocates the canvas. The next frame draws at the new size.
func (v *Viewer) Resize(w, h int) {
	v.canvas.Resize(w, h)
	v.log.Debug("resized", zap.Int("width", w), zap.Int("height", h))
}

// Canvas returns the surface the viewer draws on.
func (v *Viewer) Canvas() *canvas.Canvas { return v.canvas }

func (v *Viewer) setModes(m render.Modes) {
	if err := v.Renderer.SetModes(m); err != nil {
		v.log.Warn("mode unavailable", zap.Error(err))
	}
	v.HUD.Set(LabelModes, ModeString(v.Renderer.Modes(), v.Focal != nil && v.Focal.Oscillating()))
}

func (v *Viewer) afterFrame(st render.FrameStats) {
	if v.hold > 0 && !v.sawRelease && v.keys.Expire(time.Now(), v.hold) {
		v.Renderer.Camera().SetInput(v.keys.State())
	}
	v.HUD.Set(LabelModes, ModeString(v.Renderer.Modes(), v.Focal.Oscillating()))
	v.HUD.Draw(v.canvas)
	if v.present != nil {
		v.present(st)
	}
}

// ModeString renders enabled layers as their key letters, with '-' for
// disabled ones: polygons, edges, vertices, vertex normals, face normals,
// texture, shading, oscillation.
func ModeString(m render.Modes, oscillating bool) string {
	flags := []struct {
		on     bool
		letter byte
	}{
		{m.Polygons, 'P'},
		{m.Edges, 'X'},
		{m.Vertices, 'V'},
		{m.VertexNormals, 'N'},
		{m.FaceNormals, 'F'},
		{m.Textured, 'T'},
		{m.Shaded, 'H'},
		{oscillating, 'O'},
	}
	b := make([]byte, len(flags))
	for i, f := range flags {
		b[i] = '-'
		if f.on {
			b[i] = f.letter
		}
	}
	return string(b)
}
