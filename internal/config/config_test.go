package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Surface.Width != 640 || cfg.Surface.Height != 480 {
		t.Errorf("surface = %dx%d, want 640x480", cfg.Surface.Width, cfg.Surface.Height)
	}
	if cfg.Loop.TPS != 60 {
		t.Errorf("tps = %d, want 60", cfg.Loop.TPS)
	}
	if cfg.Loop.DisplayRefresh != 333*time.Millisecond {
		t.Errorf("display_refresh = %v, want 333ms", cfg.Loop.DisplayRefresh)
	}
	if cfg.Render.FocalDistance != 400 {
		t.Errorf("focal_distance = %v, want 400", cfg.Render.FocalDistance)
	}
	if got, want := cfg.Render.Modes(), render.DefaultModes(); got != want {
		t.Errorf("Modes() = %+v, want %+v", got, want)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %s, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
surface:
  width: 320
loop:
  tps: 30
  display_refresh: 500ms
camera:
  position: [1, 2, -3]
  yaw: 45
render:
  edges: true
  shaded: false
  filter: bilinear
assets:
  model: teapot.obj
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Surface.Width != 320 {
		t.Errorf("width = %d, want 320", cfg.Surface.Width)
	}
	if cfg.Surface.Height != 480 {
		t.Errorf("height = %d, want default 480", cfg.Surface.Height)
	}
	if cfg.Loop.TPS != 30 || cfg.Loop.DisplayRefresh != 500*time.Millisecond {
		t.Errorf("loop = %+v, want tps 30, refresh 500ms", cfg.Loop)
	}
	if cfg.Camera.Position != [3]float64{1, 2, -3} || cfg.Camera.Yaw != 45 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if !cfg.Render.Edges || cfg.Render.Shaded || !cfg.Render.Polygons {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Filter != "bilinear" {
		t.Errorf("filter = %s, want bilinear", cfg.Render.Filter)
	}
	if cfg.Assets.Model != "teapot.obj" {
		t.Errorf("model = %s, want teapot.obj", cfg.Assets.Model)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Logging.Level)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("surface:\n  width: 320\nloop:\n  tps: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	args := []string{"-config", path, "-width", "800", "-debug", "-model", "box.glb", "-filter", "bilinear", "-log-file", "x.log"}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Surface.Width != 800 {
		t.Errorf("width = %d, want flag value 800", cfg.Surface.Width)
	}
	if cfg.Loop.TPS != 30 {
		t.Errorf("tps = %d, want file value 30", cfg.Loop.TPS)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "x.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Assets.Model != "box.glb" || cfg.Render.Filter != "bilinear" {
		t.Errorf("model/filter = %s/%s", cfg.Assets.Model, cfg.Render.Filter)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(&Flags{Config: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Error("Load() with missing explicit file: want error")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("render:\n  filter: cubic\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(&Flags{Config: path})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Surface.Width = 0 }},
		{"negative tps", func(c *Config) { c.Loop.TPS = -1 }},
		{"tps above max", func(c *Config) { c.Loop.TPS = render.MaxTPS + 1 }},
		{"negative refresh", func(c *Config) { c.Loop.DisplayRefresh = -time.Second }},
		{"zero focal", func(c *Config) { c.Render.FocalDistance = 0 }},
		{"negative normal length", func(c *Config) { c.Render.NormalLength = -1 }},
		{"bad filter", func(c *Config) { c.Render.Filter = "cubic" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Surface.Width = 1024
	cfg.Loop.DisplayRefresh = time.Second

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Surface.Width != 1024 {
		t.Errorf("width = %d, want 1024", loaded.Surface.Width)
	}
	if loaded.Loop.DisplayRefresh != time.Second {
		t.Errorf("display_refresh = %v, want 1s", loaded.Loop.DisplayRefresh)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir() is empty")
	}
	if filepath.Base(dir) != "facet" {
		t.Errorf("ConfigDir() = %s, want a facet directory", dir)
	}
}

func TestNewCamera(t *testing.T) {
	c := CameraConfig{Position: [3]float64{1, 2, 3}, Yaw: 90, MovementSpeed: 50}
	cam := c.NewCamera()

	if !cam.Position.ApproxEqual(math3d.V3(1, 2, 3), 1e-12) {
		t.Errorf("Position = %v, want (1, 2, 3)", cam.Position)
	}
	if cam.Yaw != 90 {
		t.Errorf("Yaw = %v, want 90", cam.Yaw)
	}
	if cam.MovementSpeed != 50 {
		t.Errorf("MovementSpeed = %v, want 50", cam.MovementSpeed)
	}
	if cam.RotationSpeed != render.DefaultRotationSpeed {
		t.Errorf("RotationSpeed = %v, want default %v", cam.RotationSpeed, render.DefaultRotationSpeed)
	}
}
