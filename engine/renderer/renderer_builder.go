package renderer

import (
	"github.com/Carmen-Shannon/oxy-tri/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithScene renders s instead of a default scene.
//
// Parameters:
//   - s: the scene to render
//
// Returns:
//   - RendererBuilderOption: a function that sets the scene
func WithScene(s scene.Scene) RendererBuilderOption {
	return func(r *renderer) {
		r.scene = s
	}
}

// WithClearColor sets the color the surface is cleared to before drawing.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that sets the clear color
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithLabel sets the prefix for every GPU object label the renderer creates.
func WithLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		r.label = label
	}
}

// WithFrameResourcesOptions forwards options to NewFrameResources.
func WithFrameResourcesOptions(options ...FrameResourcesOption) RendererBuilderOption {
	return func(r *renderer) {
		r.resOpts = append(r.resOpts, options...)
	}
}
