// facet - Terminal 3D Scene Viewer
// Fly a camera through textured, shaded meshes rendered in your terminal.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Q/E         - Rise/sink
//	Left/Right  - Yaw
//	Up/Down     - Pitch (tracked, not applied)
//	P/X/V/N/F   - Toggle polygons, edges, vertices, vertex normals, face normals
//	T           - Toggle texture
//	H           - Toggle shading
//	+/-         - Focal distance
//	O           - Oscillate focal distance
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/logger"
	"github.com/taigrr/facet/internal/viewer"
	"github.com/taigrr/facet/pkg/canvas"
	"github.com/taigrr/facet/pkg/render"
	"go.uber.org/zap"
)

var (
	snapshotPath = flag.String("snapshot", "", "Render without a terminal and write a PNG to this path")
	snapshotTick = flag.Int("ticks", 1, "Ticks to run before writing the snapshot")
	bgColor      = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	keyHold      = flag.Duration("key-hold", 500*time.Millisecond, "Release keys not repeated within this long")
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "facet - Terminal 3D Scene Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: facet [options] [model.obj|model.glb]\n\n")
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

	if *snapshotPath != "" {
		err = snapshot(cfg, *snapshotPath, *snapshotTick)
	} else {
		err = run(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func background() color.RGBA {
	var r, g, b uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &r, &g, &b)
	return color.RGBA{r, g, b, 255}
}

func fileLogging(cfg *config.Config) logger.FileConfig {
	if cfg.Logging.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(cfg.Logging.LogFile)
}

// snapshot renders ticks frames at the configured surface size without a
// terminal and saves the last one.
func snapshot(cfg *config.Config, path string, ticks int) error {
	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		File:    fileLogging(cfg),
		Console: true,
	})
	defer logger.Sync(log)

	sc, err := viewer.LoadScene(cfg.Assets, log)
	if err != nil {
		return err
	}

	cv := canvas.New(cfg.Surface.Width, cfg.Surface.Height, canvas.WithBackground(background()))
	v, err := viewer.New(viewer.Options{
		Config:  cfg,
		Canvas:  cv,
		Scene:   sc,
		Logger:  log,
		HideHUD: true,
	})
	if err != nil {
		return err
	}

	period := time.Second / time.Duration(cfg.Loop.TPS)
	start := time.Now()
	var st render.FrameStats
	for i := range max(ticks, 1) {
		if st, err = v.Loop.Step(start.Add(time.Duration(i) * period)); err != nil {
			return err
		}
	}

	if err := cv.SavePNG(path); err != nil {
		return err
	}
	log.Info("snapshot written",
		zap.String("path", path),
		zap.Int("ticks", v.Loop.Ticks()),
		zap.Int("drawn", st.Drawn),
		zap.Int("culled", st.Culled),
		zap.Int("behind", st.Behind))
	return nil
}

func run(cfg *config.Config) error {
	// The terminal owns stdout, so logs only go to the configured file.
	log := logger.New(logger.Options{
		Level: cfg.Logging.Level,
		File:  fileLogging(cfg),
	})
	defer logger.Sync(log)

	sc, err := viewer.LoadScene(cfg.Assets, log)
	if err != nil {
		return err
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	// Each cell shows two canvas rows.
	cv := canvas.New(width, height*2, canvas.WithBackground(background()))
	v, err := viewer.New(viewer.Options{
		Config:      cfg,
		Canvas:      cv,
		Scene:       sc,
		Logger:      log,
		ReleaseHold: *keyHold,
		HideHUD:     true,
		Present: func(render.FrameStats) {
			term.Draw(cv)
			if err := term.Display(); err != nil {
				log.Error("display", zap.Error(err))
			}
		},
	})
	if err != nil {
		cleanup()
		return err
	}

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Event handler. Everything touching the viewer or the terminal buffer
	// is posted to the loop goroutine.
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				v.Loop.Post(func() {
					term.Erase()
					term.Resize(w, h)
					v.Resize(w, h*2)
				})

			case uv.KeyPressEvent:
				name := strings.ToLower(uv.Key(ev).String())
				if viewer.ActionFor(name) == viewer.Quit {
					cancel()
					return
				}
				now := time.Now()
				v.Loop.Post(func() { v.PressName(name, now) })

			case uv.KeyReleaseEvent:
				name := uv.Key(ev).String()
				v.Loop.Post(func() { v.ReleaseName(name) })
			}
		}
	}()

	err = v.Loop.Run(ctx)
	cleanup()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
