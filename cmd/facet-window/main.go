// facet-window - Desktop 3D Scene Viewer
// The same renderer as facet, shown in a window with real key up/down events.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/logger"
	"github.com/taigrr/facet/internal/viewer"
	"github.com/taigrr/facet/pkg/canvas"
	"go.uber.org/zap"
)

var scale = flag.Int("scale", 1, "Window pixels per canvas pixel")

// bindings maps window keys to viewer key names.
var bindings = map[ebiten.Key]string{
	ebiten.KeyW:          "w",
	ebiten.KeyS:          "s",
	ebiten.KeyA:          "a",
	ebiten.KeyD:          "d",
	ebiten.KeyQ:          "q",
	ebiten.KeyE:          "e",
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowRight: "right",
	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyP:          "p",
	ebiten.KeyX:          "x",
	ebiten.KeyV:          "v",
	ebiten.KeyN:          "n",
	ebiten.KeyF:          "f",
	ebiten.KeyT:          "t",
	ebiten.KeyH:          "h",
	ebiten.KeyEqual:      "=",
	ebiten.KeyMinus:      "-",
	ebiten.KeyO:          "o",
	ebiten.KeySlash:      "?",
	ebiten.KeyEscape:     "esc",
}

func main() {
	flags := config.RegisterFlags(flag.CommandLine)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "facet-window - Desktop 3D Scene Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: facet-window [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n%s", viewer.Help)
	}
	flag.Parse()

	if flag.NArg() > 0 && flags.Model == "" {
		flags.Model = flag.Arg(0)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		File:    fileCfg,
		Console: true,
	})
	defer logger.Sync(log)

	sc, err := viewer.LoadScene(cfg.Assets, log)
	if err != nil {
		return err
	}

	cv := canvas.New(cfg.Surface.Width, cfg.Surface.Height)
	v, err := viewer.New(viewer.Options{
		Config: cfg,
		Canvas: cv,
		Scene:  sc,
		Logger: log,
	})
	if err != nil {
		return err
	}

	g := &game{v: v, log: log}
	ebiten.SetWindowTitle("facet - " + sc.Name)
	ebiten.SetWindowSize(cfg.Surface.Width*max(*scale, 1), cfg.Surface.Height*max(*scale, 1))
	ebiten.SetTPS(cfg.Loop.TPS)

	return ebiten.RunGame(g)
}

// game hosts the viewer in an ebiten window. The viewer's loop is stepped
// from Update, so input is applied directly instead of through Post.
type game struct {
	v     *viewer.Viewer
	log   *zap.Logger
	fbImg *ebiten.Image
}

func (g *game) Update() error {
	now := time.Now()
	for key, name := range bindings {
		if inpututil.IsKeyJustPressed(key) {
			if g.v.PressName(name, now) == viewer.Quit {
				return ebiten.Termination
			}
		}
		if inpututil.IsKeyJustReleased(key) {
			g.v.ReleaseName(name)
		}
	}

	if _, err := g.v.Loop.Step(now); err != nil {
		// Already logged by the loop; keep running.
		g.log.Debug("tick dropped", zap.Error(err))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := g.v.Canvas().Image()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	g.fbImg.WritePixels(img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.v.Canvas().Size()
}
