package config

import (
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

// Modes returns the layers the config enables.
func (r RenderConfig) Modes() render.Modes {
	return render.Modes{
		Polygons:      r.Polygons,
		Edges:         r.Edges,
		Vertices:      r.Vertices,
		VertexNormals: r.VertexNormals,
		FaceNormals:   r.FaceNormals,
		Textured:      r.Textured,
		Shaded:        r.Shaded,
	}
}

// NewCamera returns a camera placed and tuned as configured. Zero speeds
// keep the camera defaults.
func (c CameraConfig) NewCamera() *render.Camera {
	cam := render.NewCamera()
	cam.Position = math3d.V3(c.Position[0], c.Position[1], c.Position[2])
	cam.Yaw = c.Yaw
	cam.Pitch = c.Pitch
	if c.MovementSpeed > 0 {
		cam.MovementSpeed = c.MovementSpeed
	}
	if c.RotationSpeed > 0 {
		cam.RotationSpeed = c.RotationSpeed
	}
	return cam
}
