package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
	"go.uber.org/zap"
)

const (
	// DefaultFocal is the default focal distance.
	DefaultFocal = 400.0
	// DefaultNormalLength is the world-space length of normal rays.
	DefaultNormalLength = 3.0
	// DefaultMarkerRadius is the surface radius of vertex markers.
	DefaultMarkerRadius = 3.0
)

// Overlay colors.
var (
	EdgeColor         = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	VertexColor       = color.RGBA{0xff, 0x00, 0x00, 0xff}
	VertexNormalColor = color.RGBA{0x00, 0x00, 0xff, 0xff}
	FaceNormalColor   = color.RGBA{0x80, 0x00, 0x80, 0xff}
)

var (
	// ErrNoSurface is returned by NewRenderer when Options.Surface is nil.
	ErrNoSurface = errors.New("renderer has no surface")
	// ErrNonFinite marks a primitive whose projection is NaN or infinite.
	ErrNonFinite = errors.New("non-finite coordinates")
)

// Modes selects the layers drawn each frame.
type Modes struct {
	Polygons      bool // filled polygons
	Edges         bool // wire edges
	Vertices      bool // vertex markers
	VertexNormals bool // rays along each vertex normal
	FaceNormals   bool // rays along each face normal from the centroid
	Textured      bool // map the texture onto polygons instead of flat fill
	Shaded        bool // darken polygons by their angle to the camera
}

// DefaultModes draws textured, shaded polygons.
func DefaultModes() Modes {
	return Modes{Polygons: true, Textured: true, Shaded: true}
}

// Requires returns the vertex attributes the enabled layers read.
func (m Modes) Requires() scene.Capability {
	var c scene.Capability
	if m.Polygons || m.VertexNormals || m.FaceNormals {
		// Culling reads face normals.
		c |= scene.NeedNormal
	}
	if m.Polygons && m.Textured {
		c |= scene.NeedUV
	}
	return c
}

// FrameStats counts what happened to primitives during one frame.
type FrameStats struct {
	Drawn      int // polygons filled or textured
	Culled     int // polygons facing away
	Behind     int // primitives with a vertex at or behind the camera
	Degenerate int // texture solves skipped
	Failed     int // primitives dropped because of an error
}

// Options configures a Renderer.
type Options struct {
	Surface      Surface
	Camera       *Camera
	Meshes       []*scene.Mesh
	Texture      image.Image
	Modes        Modes
	Focal        float64
	NormalLength float64
	MarkerRadius float64

	FPSDisplay   Sink
	FocalDisplay Sink

	Logger *zap.Logger
}

// Renderer draws meshes onto a Surface from a Camera's point of view.
type Renderer struct {
	surface      Surface
	camera       *Camera
	meshes       []*scene.Mesh
	texture      image.Image
	modes        Modes
	focal        float64
	normalLength float64
	markerRadius float64

	fpsDisplay   Sink
	focalDisplay Sink

	// focalCtl, when attached by a Loop, owns the resting focal distance.
	focalCtl *FocalController

	log *zap.Logger
}

// NewRenderer creates a renderer. Zero-valued options take their defaults.
// The meshes must carry every attribute the modes require.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	r := &Renderer{
		surface:      opts.Surface,
		camera:       opts.Camera,
		meshes:       opts.Meshes,
		texture:      opts.Texture,
		focal:        opts.Focal,
		normalLength: opts.NormalLength,
		markerRadius: opts.MarkerRadius,
		fpsDisplay:   opts.FPSDisplay,
		focalDisplay: opts.FocalDisplay,
		log:          opts.Logger,
	}
	if r.camera == nil {
		r.camera = NewCamera()
	}
	if r.focal == 0 {
		r.focal = DefaultFocal
	}
	if r.normalLength == 0 {
		r.normalLength = DefaultNormalLength
	}
	if r.markerRadius == 0 {
		r.markerRadius = DefaultMarkerRadius
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if err := r.SetModes(opts.Modes); err != nil {
		return nil, err
	}
	return r, nil
}

// Camera returns the camera the renderer views through.
func (r *Renderer) Camera() *Camera { return r.camera }

// Meshes returns the meshes drawn each frame.
func (r *Renderer) Meshes() []*scene.Mesh { return r.meshes }

// Modes returns the enabled layers.
func (r *Renderer) Modes() Modes { return r.modes }

// SetModes enables layers after checking that every mesh carries the vertex
// attributes they need. On error the previous modes stay in effect.
func (r *Renderer) SetModes(m Modes) error {
	need := m.Requires()
	for _, mesh := range r.meshes {
		if err := mesh.Require(need); err != nil {
			return fmt.Errorf("set modes: %w", err)
		}
	}
	r.modes = m
	return nil
}

// Focal returns the focal distance.
func (r *Renderer) Focal() float64 { return r.focal }

// SetFocal sets the focal distance. When a Loop steps a FocalController
// for this renderer, the controller's target moves to d as well so the
// spring rests there.
func (r *Renderer) SetFocal(d float64) {
	r.focal = d
	if r.focalCtl != nil {
		r.focalCtl.SetTarget(d)
	}
}

// Texture returns the image mapped onto polygons, or nil.
func (r *Renderer) Texture() image.Image { return r.texture }

// SetTexture replaces the polygon texture. A nil image falls back to flat
// polygon colors.
func (r *Renderer) SetTexture(img image.Image) { r.texture = img }

// Refresh pushes the frame rate and focal distance to their displays.
func (r *Renderer) Refresh(fps int) {
	show(r.fpsDisplay, fmt.Sprint(fps))
	show(r.focalDisplay, fmt.Sprint(math.Round(r.focal)))
}

// Frame clears the surface and draws every enabled layer. Primitives that
// fail are counted and logged; they never stop the frame.
func (r *Renderer) Frame() FrameStats {
	var st FrameStats
	r.surface.Clear()

	r.eachPolygon(r.modes.Polygons, &st, func(p scene.Polygon) error {
		return r.drawPolygon(p, &st)
	})
	r.eachPolygon(r.modes.Edges, &st, func(p scene.Polygon) error {
		return errors.Join(
			r.line(p.A.Position, p.B.Position, EdgeColor, &st),
			r.line(p.B.Position, p.C.Position, EdgeColor, &st),
			r.line(p.C.Position, p.A.Position, EdgeColor, &st),
		)
	})
	r.eachPolygon(r.modes.Vertices, &st, func(p scene.Polygon) error {
		var errs []error
		for _, v := range p.Vertices() {
			errs = append(errs, r.marker(v.Position, &st))
		}
		return errors.Join(errs...)
	})
	r.eachPolygon(r.modes.VertexNormals, &st, func(p scene.Polygon) error {
		if err := p.Check(scene.NeedNormal); err != nil {
			return fmt.Errorf("vertex normals: %w", err)
		}
		var errs []error
		for _, v := range p.Vertices() {
			errs = append(errs, r.line(v.Position, v.Position.Add(v.Normal.Scale(r.normalLength)), VertexNormalColor, &st))
		}
		return errors.Join(errs...)
	})
	r.eachPolygon(r.modes.FaceNormals, &st, func(p scene.Polygon) error {
		n, err := FaceNormal(p)
		if err != nil {
			return err
		}
		c := p.Centroid()
		return r.line(c, c.Add(n.Scale(r.normalLength)), FaceNormalColor, &st)
	})

	return st
}

func (r *Renderer) eachPolygon(enabled bool, st *FrameStats, fn func(scene.Polygon) error) {
	if !enabled {
		return
	}
	for _, mesh := range r.meshes {
		for i, p := range mesh.Polygons {
			if err := contain(fn, p); err != nil {
				st.Failed++
				r.log.Debug("primitive dropped",
					zap.String("mesh", mesh.Name),
					zap.Int("polygon", i),
					zap.Error(err))
			}
		}
	}
}

// contain runs fn for one polygon, turning a panic into an error so the
// rest of the frame still draws.
func contain(fn func(scene.Polygon) error, p scene.Polygon) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(p)
}

// drawPolygon culls, projects, fills or textures, then shades one polygon.
func (r *Renderer) drawPolygon(p scene.Polygon, st *FrameStats) error {
	n, err := FaceNormal(p)
	if err != nil {
		return err
	}
	facing := CameraFacing(r.camera.Yaw)
	if !FacesCamera(n, facing) {
		st.Culled++
		return nil
	}

	verts := p.Vertices()
	var cam [3]math3d.Vec3
	for i, v := range verts {
		cam[i] = r.camera.Orient(v.Position)
	}
	if !Visible(cam[0].Z, cam[1].Z, cam[2].Z) {
		st.Behind++
		return nil
	}

	var pts [3]Point
	for i := range cam {
		pts[i] = r.toSurface(cam[i])
	}
	if !Finite(pts[:]...) {
		return ErrNonFinite
	}

	if r.modes.Textured && r.texture != nil {
		if err := p.Check(scene.NeedUV); err != nil {
			return fmt.Errorf("texture: %w", err)
		}
		uvs := [3]math3d.Vec2{*verts[0].UV, *verts[1].UV, *verts[2].UV}
		if !MapTexture(r.surface, r.texture, pts, uvs) {
			st.Degenerate++
		}
	} else {
		r.surface.FillTriangle(pts[0], pts[1], pts[2], p.Color)
	}

	if r.modes.Shaded {
		r.surface.FillTriangle(pts[0], pts[1], pts[2], shadeColor(ShadeAlpha(n, facing)))
	}
	st.Drawn++
	return nil
}

// line draws a world-space segment, dropping it if either end is behind
// the camera.
func (r *Renderer) line(a, b math3d.Vec3, col color.Color, st *FrameStats) error {
	ca, cb := r.camera.Orient(a), r.camera.Orient(b)
	if !Visible(ca.Z, cb.Z) {
		st.Behind++
		return nil
	}
	pa, pb := r.toSurface(ca), r.toSurface(cb)
	if !Finite(pa, pb) {
		return ErrNonFinite
	}
	r.surface.Line(pa, pb, col)
	return nil
}

func (r *Renderer) marker(p math3d.Vec3, st *FrameStats) error {
	c := r.camera.Orient(p)
	if !Visible(c.Z) {
		st.Behind++
		return nil
	}
	pt := r.toSurface(c)
	if !Finite(pt) {
		return ErrNonFinite
	}
	r.surface.Circle(pt, r.markerRadius, VertexColor)
	return nil
}

func (r *Renderer) toSurface(cam math3d.Vec3) Point {
	w, h := r.surface.Size()
	return ToSurface(Project(cam, r.focal), w, h)
}

// shadeColor returns translucent black with the given opacity in [0, 1].
func shadeColor(alpha float64) color.NRGBA {
	a := math.Round(math.Max(0, math.Min(1, alpha)) * 255)
	return color.NRGBA{A: uint8(a)}
}
