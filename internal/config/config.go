// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/facet/pkg/render"
)

// Config holds all viewer settings.
type Config struct {
	Surface SurfaceConfig `yaml:"surface"`
	Loop    LoopConfig    `yaml:"loop"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// SurfaceConfig holds the drawing surface size in pixels. The terminal
// viewer ignores it and sizes the surface to the terminal.
type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoopConfig holds tick timing.
type LoopConfig struct {
	TPS            int           `yaml:"tps"`
	DisplayRefresh time.Duration `yaml:"display_refresh"`
}

// CameraConfig holds the starting camera.
type CameraConfig struct {
	Position      [3]float64 `yaml:"position"`
	Yaw           float64    `yaml:"yaw"`
	Pitch         float64    `yaml:"pitch"`
	MovementSpeed float64    `yaml:"movement_speed"`
	RotationSpeed float64    `yaml:"rotation_speed"`
}

// RenderConfig holds the enabled layers and drawing parameters.
type RenderConfig struct {
	Polygons      bool    `yaml:"polygons"`
	Edges         bool    `yaml:"edges"`
	Vertices      bool    `yaml:"vertices"`
	VertexNormals bool    `yaml:"vertex_normals"`
	FaceNormals   bool    `yaml:"face_normals"`
	Textured      bool    `yaml:"textured"`
	Shaded        bool    `yaml:"shaded"`
	FocalDistance float64 `yaml:"focal_distance"`
	NormalLength  float64 `yaml:"normal_length"`
	Filter        string  `yaml:"filter"` // nearest or bilinear
}

// AssetsConfig holds the scene sources. An empty model loads the demo box.
type AssetsConfig struct {
	Model   string `yaml:"model"`   // .obj or .glb
	Texture string `yaml:"texture"` // png or jpeg
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Surface: SurfaceConfig{
			Width:  640,
			Height: 480,
		},
		Loop: LoopConfig{
			TPS:            60,
			DisplayRefresh: 333 * time.Millisecond,
		},
		Camera: CameraConfig{
			MovementSpeed: 100,
			RotationSpeed: 90,
		},
		Render: RenderConfig{
			Polygons:      true,
			Textured:      true,
			Shaded:        true,
			FocalDistance: 400,
			NormalLength:  3,
			Filter:        "nearest",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first setting outside its allowed range.
func (c *Config) Validate() error {
	switch {
	case c.Surface.Width <= 0 || c.Surface.Height <= 0:
		return fmt.Errorf("%w: surface %dx%d", ErrInvalid, c.Surface.Width, c.Surface.Height)
	case c.Loop.TPS <= 0 || c.Loop.TPS > render.MaxTPS:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Loop.TPS)
	case c.Loop.DisplayRefresh < 0:
		return fmt.Errorf("%w: display_refresh %v", ErrInvalid, c.Loop.DisplayRefresh)
	case c.Render.FocalDistance <= 0:
		return fmt.Errorf("%w: focal_distance %v", ErrInvalid, c.Render.FocalDistance)
	case c.Render.NormalLength < 0:
		return fmt.Errorf("%w: normal_length %v", ErrInvalid, c.Render.NormalLength)
	}
	switch c.Render.Filter {
	case "", "nearest", "bilinear":
	default:
		return fmt.Errorf("%w: filter %q", ErrInvalid, c.Render.Filter)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}
