// Package config loads the application settings for the triangle demo from a YAML file.
// Every field has a default so a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config location used when no path is given, relative to the working directory.
const DefaultPath = "config/triangle.yaml"

const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config holds the tunables of the application. Persisted as YAML.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`

	// Profiling enables periodic frame rate and memory statistics in the log.
	Profiling bool `yaml:"profiling"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// GraphicsConfig selects the adapter and surface behavior.
type GraphicsConfig struct {
	// PresentMode is either "vsync" or "uncapped".
	PresentMode string `yaml:"present_mode"`
	// ForceFallbackAdapter requests the software adapter.
	ForceFallbackAdapter bool `yaml:"force_fallback_adapter"`
	// Backends is a comma separated list such as "vulkan,gl". Empty allows every backend.
	// The WGPU_BACKEND environment variable takes precedence.
	Backends string `yaml:"backends"`
	// ClearColor is RGBA in [0, 1].
	ClearColor [4]float64 `yaml:"clear_color,flow"`
}

// SceneConfig controls the animated scene.
type SceneConfig struct {
	// RotationDegreesPerSecond is the spin rate of the triangle about +Y.
	RotationDegreesPerSecond float32 `yaml:"rotation_degrees_per_second"`
}

// Default returns the settings the application runs with when no file is present.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Standalone Winit/Wgpu Example",
			Width:  800,
			Height: 600,
		},
		Graphics: GraphicsConfig{
			PresentMode: PresentModeVSync,
			ClearColor:  [4]float64{0.19, 0.24, 0.42, 1.0},
		},
		Scene: SceneConfig{
			RotationDegreesPerSecond: 30,
		},
	}
}

// Load reads the config at path on top of Default().
// A missing file returns Default() with a nil error; an unreadable, malformed or invalid file returns an error.
//
// Parameters:
//   - path: the YAML file to read, DefaultPath when empty
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file could not be read, parsed or validated
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that the application cannot honor.
func (c Config) Validate() error {
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("window size must be at least 1x1, got %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Graphics.PresentMode {
	case PresentModeVSync, PresentModeUncapped:
	default:
		return fmt.Errorf("unknown present_mode %q", c.Graphics.PresentMode)
	}
	if _, err := gpu.ParseBackends(c.Graphics.Backends); err != nil {
		return fmt.Errorf("invalid backends: %w", err)
	}
	for i, v := range c.Graphics.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("clear_color[%d] = %v is outside [0, 1]", i, v)
		}
	}
	return nil
}

// PresentMode maps the configured present mode to the surface present mode.
func (c Config) PresentMode() wgpu.PresentMode {
	if c.Graphics.PresentMode == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// ClearColor returns the configured clear color.
func (c Config) ClearColor() wgpu.Color {
	cc := c.Graphics.ClearColor
	return wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}
}

// Backends returns the configured instance backends. Call Validate first; an invalid list maps to all backends.
func (c Config) Backends() wgpu.InstanceBackend {
	bits, err := gpu.ParseBackends(c.Graphics.Backends)
	if err != nil {
		return wgpu.InstanceBackendAll
	}
	return bits
}
