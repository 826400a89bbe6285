// Command winrender-demo opens a window, picks a renderer and draws a
// small scene that follows resizes and display scale changes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/gg"
	"github.com/gogpu/wgpu/hal"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/winrender"
	_ "github.com/gogpu/winrender/backend/gl"
	_ "github.com/gogpu/winrender/backend/vulkan"
	"github.com/gogpu/winrender/platform/glfwwin"
)

func init() {
	// glfw must stay on the main thread.
	runtime.LockOSThread()
}

type flags struct {
	config     string
	backend    string
	title      string
	width      int
	height     int
	vsync      bool
	validation bool
	logFile    string
	logLevel   string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.config, "config", "", "TOML window configuration")
	flag.StringVar(&f.backend, "backend", "auto", "renderer backend: auto, vulkan or gl")
	flag.StringVar(&f.title, "title", "winrender demo", "window title")
	flag.IntVar(&f.width, "width", 800, "window width in logical pixels")
	flag.IntVar(&f.height, "height", 600, "window height in logical pixels")
	flag.BoolVar(&f.vsync, "vsync", true, "wait for vertical blank")
	flag.BoolVar(&f.validation, "validation", true, "enable the Vulkan validation layer when installed")
	flag.StringVar(&f.logFile, "log", "", "log file, rotated; stderr when empty")
	flag.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Parse()
	return f
}

// windowConfig builds the window from flags alone, or loads the config
// file and applies only the flags given on the command line on top.
func (f flags) windowConfig() (winrender.WindowConfig, error) {
	if f.config == "" {
		cfg := winrender.DefaultWindowConfig()
		cfg.Title = f.title
		cfg.Size = winrender.LogicalSize{Width: f.width, Height: f.height}
		cfg.VSync = f.vsync
		return cfg, cfg.Validate()
	}
	cfg, err := winrender.LoadConfig(f.config)
	if err != nil {
		return cfg, err
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			cfg.Title = f.title
		case "width":
			cfg.Size.Width = f.width
		case "height":
			cfg.Size.Height = f.height
		case "vsync":
			cfg.VSync = f.vsync
		}
	})
	return cfg, cfg.Validate()
}

func (f flags) options(logger *slog.Logger) ([]winrender.Option, error) {
	opts := []winrender.Option{
		winrender.WithLogger(logger),
		winrender.WithValidation(f.validation),
	}
	if f.backend == "auto" {
		return opts, nil
	}
	b, err := winrender.ParseBackend(f.backend)
	if err != nil {
		return nil, err
	}
	return append(opts, winrender.WithBackends(b)), nil
}

func newLogger(path, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, hopts)), nil
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return slog.New(slog.NewJSONHandler(w, hopts)), nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		log.Fatal(err)
	}
}

func run(f flags) error {
	logger, err := newLogger(f.logFile, f.logLevel)
	if err != nil {
		return err
	}
	winrender.SetLogger(logger)
	gg.SetLogger(logger)
	hal.SetLogger(logger)

	cfg, err := f.windowConfig()
	if err != nil {
		return err
	}
	opts, err := f.options(logger)
	if err != nil {
		return err
	}

	loop, err := glfwwin.NewLoop()
	if err != nil {
		return err
	}
	defer loop.Terminate()

	r, err := winrender.New(loop, cfg, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	sc, err := newScene(r.Backend())
	if err != nil {
		return err
	}
	sc.resize(cfg.Size)
	r.RequestRepaint()

	frames := 0
	loop.Run(glfwwin.Handlers{
		Resize: func(size winrender.PhysicalSize) {
			if err := r.Resize(size); err != nil {
				logger.Error("resize failed", "size", size, "err", err)
				return
			}
			sc.resize(size.ToLogical(r.ScaleFactor()))
		},
		ScaleChanged: func(scale float64) {
			logger.Info("scale factor changed", "scale", scale)
			r.RequestRepaint()
		},
		Redraw: func() {
			err := r.Paint(sc.draw)
			if errors.Is(err, winrender.ErrSurfaceUnavailable) {
				logger.Debug("frame dropped", "err", err)
				return
			}
			if err != nil {
				logger.Error("paint failed", "err", err)
				return
			}
			frames++
		},
	})
	logger.Info("window closed", "backend", r.Backend(), "frames", frames)
	return nil
}
