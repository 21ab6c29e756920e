package viewer

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/pkg/canvas"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/scene"
	"go.uber.org/zap"
)

// Loaded models are moved and scaled to fit where the demo box sits, in
// front of a camera at the origin.
var (
	SceneCenter = math3d.V3(0, 0, 40)
	SceneSize   = 20.0
)

// Checker colors for the fallback texture.
var (
	CheckerLight = color.RGBA{200, 200, 200, 255}
	CheckerDark  = color.RGBA{100, 100, 100, 255}
)

// Scene is what a viewer draws.
type Scene struct {
	Name    string
	Meshes  []*scene.Mesh
	Texture image.Image
}

// Polygons returns the total polygon count.
func (s *Scene) Polygons() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.Len()
	}
	return n
}

// LoadScene builds the scene described by a. An empty model path gives the
// demo box. The texture comes from a.Texture, then from the model file, then
// falls back to a checkerboard.
func LoadScene(a config.AssetsConfig, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scene{Name: "box"}
	var embedded image.Image

	if a.Model == "" {
		s.Meshes = []*scene.Mesh{scene.Box(SceneCenter, SceneSize, scene.DefaultBoxColors)}
	} else {
		mesh, img, err := loadModel(a.Model)
		if err != nil {
			return nil, err
		}
		embedded = img
		s.Name = filepath.Base(a.Model)

		before := mesh.Len()
		mesh.ComputeNormals()
		Fit(mesh, SceneCenter, SceneSize)
		s.Meshes = []*scene.Mesh{mesh}
		log.Info("model loaded",
			zap.String("path", a.Model),
			zap.Int("polygons", before))
	}

	switch {
	case a.Texture != "":
		tex, err := canvas.LoadTexture(a.Texture)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		s.Texture = tex
	case embedded != nil:
		s.Texture = canvas.TextureFromImage(embedded)
		log.Info("using embedded texture",
			zap.Int("width", embedded.Bounds().Dx()),
			zap.Int("height", embedded.Bounds().Dy()))
	default:
		s.Texture = canvas.NewCheckerTexture(64, 64, 8, CheckerLight, CheckerDark)
	}
	return s, nil
}

func loadModel(path string) (*scene.Mesh, image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		mesh, img, err := models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		return mesh, img, nil
	case ".obj":
		mesh, err := models.LoadOBJ(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load model: %w", err)
		}
		return mesh, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported format: %s (use .obj or .glb)", ext)
	}
}

// Fit centers m on center and scales it so its largest dimension is size.
func Fit(m *scene.Mesh, center math3d.Vec3, size float64) {
	if m.Len() == 0 {
		return
	}
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	scale := 1.0
	if maxDim > 0 {
		scale = size / maxDim
	}
	transform := math3d.Translate(center).
		Mul(math3d.ScaleUniform(scale)).
		Mul(math3d.Translate(m.Center().Scale(-1)))
	m.Transform(transform)
}
