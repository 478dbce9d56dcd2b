package engine

import (
	"context"
	"time"

	"github.com/Carmen-Shannon/oxy-tri/config"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tri/engine/scene"
	"github.com/Carmen-Shannon/oxy-tri/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - options: ProfilerBuilderOption functions for the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profilerOptions = append(e.profilerOptions, options...)
	}
}

// WithWindowOptions appends options used when the window is created.
//
// Parameters:
//   - options: WindowBuilderOption functions
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithDeviceOptions appends options used when the graphics device is negotiated.
//
// Parameters:
//   - options: GraphicsDeviceBuilderOption functions
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDeviceOptions(options ...gpu.GraphicsDeviceBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.deviceOptions = append(e.deviceOptions, options...)
	}
}

// WithRendererOptions appends options used when the renderer is built.
//
// Parameters:
//   - options: RendererBuilderOption functions
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithClock replaces time.Now as the source of frame timestamps.
func WithClock(clock func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithContext sets the context device negotiation observes. Cancelling it aborts setup.
func WithContext(ctx context.Context) EngineBuilderOption {
	return func(e *engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithRendererFactory replaces DefaultRendererFactory.
func WithRendererFactory(factory RendererFactory) EngineBuilderOption {
	return func(e *engine) {
		if factory != nil {
			e.rendererFactory = factory
		}
	}
}

// WithConfig maps a loaded configuration onto window, device, renderer and profiler options.
//
// Parameters:
//   - cfg: the configuration, assumed valid
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		WithWindowOptions(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)(e)
		WithDeviceOptions(
			gpu.WithPresentMode(cfg.PresentMode()),
			gpu.WithForceFallbackAdapter(cfg.Graphics.ForceFallbackAdapter),
			gpu.WithBackends(cfg.Backends()),
		)(e)
		WithRendererOptions(
			renderer.WithClearColor(cfg.ClearColor()),
			renderer.WithScene(scene.NewScene(scene.WithRotationRate(cfg.Scene.RotationDegreesPerSecond))),
		)(e)
		e.profilingEnabled = cfg.Profiling
	}
}
