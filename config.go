package winrender

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// WindowConfig describes the window a renderer creates.
type WindowConfig struct {
	Title     string      `toml:"title"`
	Size      LogicalSize `toml:"size"`
	Resizable bool        `toml:"resizable"`
	Visible   bool        `toml:"visible"`

	// VSync waits for vertical blank when presenting.
	VSync bool `toml:"vsync"`

	// Backends is the order New tries backends in when no WithBackends
	// option is given. Empty means DefaultPriority.
	Backends []Backend `toml:"backends"`
}

// DefaultWindowConfig returns an 800x600 resizable, visible window with vsync.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Title:     "winrender",
		Size:      LogicalSize{Width: 800, Height: 600},
		Resizable: true,
		Visible:   true,
		VSync:     true,
	}
}

// Validate checks that the window can be created.
func (c WindowConfig) Validate() error {
	for _, b := range c.Backends {
		if b == BackendUnknown {
			return errors.New("winrender: unknown backend in config")
		}
	}
	return c.Size.Validate()
}

// LoadConfig reads a TOML window configuration. Keys missing from the
// file keep their DefaultWindowConfig values.
//
//	title = "demo"
//	vsync = false
//	backends = ["gl", "vulkan"]
//
//	[size]
//	width = 1024
//	height = 768
func LoadConfig(path string) (WindowConfig, error) {
	cfg := DefaultWindowConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("winrender: read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("winrender: parse config %s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("winrender: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("winrender: config %s: %w", path, err)
	}
	return cfg, nil
}
