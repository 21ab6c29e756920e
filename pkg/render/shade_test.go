package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

func polyWithNormals(a, b, c math3d.Vec3) scene.Polygon {
	return scene.Polygon{
		A: scene.V(0, 0, 10).WithNormal(a),
		B: scene.V(1, 0, 10).WithNormal(b),
		C: scene.V(0, 1, 10).WithNormal(c),
	}
}

func TestCameraFacing(t *testing.T) {
	tests := []struct {
		yaw  float64
		want math3d.Vec3
	}{
		{0, math3d.V3(0, 0, 1)},
		{90, math3d.V3(1, 0, 0)},
		{180, math3d.V3(0, 0, -1)},
		{270, math3d.V3(-1, 0, 0)},
		{450, math3d.V3(1, 0, 0)},
		{360, math3d.V3(0, 0, 1)},
	}

	for _, tc := range tests {
		got := CameraFacing(tc.yaw)
		if !got.ApproxEqual(tc.want, 1e-6) {
			t.Errorf("CameraFacing(%v) = %v, want %v", tc.yaw, got, tc.want)
		}
	}
}

func TestCulling(t *testing.T) {
	f := CameraFacing(0)
	tests := []struct {
		name   string
		normal math3d.Vec3
		want   bool
	}{
		{"toward camera", math3d.V3(0, 0, -1), true},
		{"away from camera", math3d.V3(0, 0, 1), false},
		{"edge on", math3d.V3(1, 0, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := FaceNormal(polyWithNormals(tc.normal, tc.normal, tc.normal))
			if err != nil {
				t.Fatal(err)
			}
			if got := FacesCamera(n, f); got != tc.want {
				t.Errorf("FacesCamera(%v, %v) = %v, want %v", n, f, got, tc.want)
			}
		})
	}
}

func TestFaceNormalNotRenormalized(t *testing.T) {
	n, err := FaceNormal(polyWithNormals(
		math3d.V3(1, 0, -1).Normalize(),
		math3d.V3(-1, 0, -1).Normalize(),
		math3d.V3(0, 0, -1),
	))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(n.Len()-1) < 1e-3 {
		t.Errorf("face normal %v was renormalized", n)
	}

	alpha := ShadeAlpha(n, CameraFacing(0))
	want := math.Abs(n.Z) * ShadowStrength
	if math.Abs(alpha-want) > 1e-12 {
		t.Errorf("ShadeAlpha() = %v, want %v", alpha, want)
	}
	if alpha >= ShadowStrength {
		t.Errorf("short normal should shade less than full strength, got %v", alpha)
	}
}

func TestFaceNormalMissing(t *testing.T) {
	p := scene.Polygon{A: scene.V(0, 0, 1), B: scene.V(1, 0, 1), C: scene.V(0, 1, 1)}
	if _, err := FaceNormal(p); !errors.Is(err, scene.ErrMissingNormal) {
		t.Errorf("FaceNormal() error = %v, want ErrMissingNormal", err)
	}
}

func TestShadeAlpha(t *testing.T) {
	got := ShadeAlpha(math3d.V3(0, 0, -1), CameraFacing(0))
	if math.Abs(got-0.3) > 1e-12 {
		t.Errorf("ShadeAlpha() = %v, want 0.3", got)
	}
}
