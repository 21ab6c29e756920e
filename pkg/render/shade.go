package render

import (
	"fmt"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

// ShadowStrength scales the translucent black overlay drawn on a polygon.
const ShadowStrength = 0.3

// FaceNormal returns the componentwise mean of the three vertex normals.
// The mean is not renormalized, so its length scales ShadeAlpha.
func FaceNormal(p scene.Polygon) (math3d.Vec3, error) {
	if err := p.Check(scene.NeedNormal); err != nil {
		return math3d.Vec3{}, fmt.Errorf("face normal: %w", err)
	}
	return math3d.Mean3(*p.A.Normal, *p.B.Normal, *p.C.Normal), nil
}

// CameraFacing approximates the camera's look direction from yaw alone.
// With θ = yaw mod 360, z = cos θ and x = ±sqrt(1 - z²), negative when
// θ >= 180.
func CameraFacing(yaw float64) math3d.Vec3 {
	theta := math.Mod(yaw, 360)
	z := math.Cos(theta * math.Pi / 180)
	x := math.Sqrt(math.Max(0, 1-z*z))
	if theta >= 180 {
		x = -x
	}
	return math3d.Vec3{X: x, Y: 0, Z: z}
}

// FacesCamera reports whether a polygon with face normal n is turned toward
// a camera looking along f.
func FacesCamera(n, f math3d.Vec3) bool {
	return n.Dot(f) < 0
}

// ShadeAlpha returns the opacity of the black shading overlay.
func ShadeAlpha(n, f math3d.Vec3) float64 {
	return math.Abs(n.Dot(f)) * ShadowStrength
}
