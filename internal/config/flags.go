package config

import "flag"

// Flags are the command-line overrides shared by the viewers. Zero values
// leave the loaded setting alone.
type Flags struct {
	Config  string
	Debug   bool
	Model   string
	Texture string
	Width   int
	Height  int
	TPS     int
	Filter  string
	LogFile string
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Model, "model", "", "Model file (.obj or .glb); empty shows the demo box")
	fs.StringVar(&f.Texture, "texture", "", "Texture image (png or jpeg)")
	fs.IntVar(&f.Width, "width", 0, "Surface width")
	fs.IntVar(&f.Height, "height", 0, "Surface height")
	fs.IntVar(&f.TPS, "tps", 0, "Ticks per second")
	fs.StringVar(&f.Filter, "filter", "", "Texture filter: nearest, bilinear")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Model != "" {
		cfg.Assets.Model = f.Model
	}
	if f.Texture != "" {
		cfg.Assets.Texture = f.Texture
	}
	if f.Width > 0 {
		cfg.Surface.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Surface.Height = f.Height
	}
	if f.TPS > 0 {
		cfg.Loop.TPS = f.TPS
	}
	if f.Filter != "" {
		cfg.Render.Filter = f.Filter
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
