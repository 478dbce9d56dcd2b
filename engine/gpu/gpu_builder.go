package gpu

import "github.com/cogentcore/webgpu/wgpu"

type graphicsDeviceBuilder struct {
	presentMode wgpu.PresentMode
	adapter     AdapterOptions
	factory     BackendFactory
}

// GraphicsDeviceBuilderOption is a function that configures the GraphicsDevice created by NewGraphicsDevice.
type GraphicsDeviceBuilderOption func(*graphicsDeviceBuilder)

// WithPresentMode sets the surface present mode. Defaults to wgpu.PresentModeFifo.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - GraphicsDeviceBuilderOption: a function that applies the present mode option
func WithPresentMode(mode wgpu.PresentMode) GraphicsDeviceBuilderOption {
	return func(b *graphicsDeviceBuilder) {
		b.presentMode = mode
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - GraphicsDeviceBuilderOption: a function that applies the fallback option
func WithForceFallbackAdapter(force bool) GraphicsDeviceBuilderOption {
	return func(b *graphicsDeviceBuilder) {
		b.adapter.ForceFallbackAdapter = force
	}
}

// WithMaxTextureDimension2D sets the texture size limit requested from the device. Defaults to 4096.
func WithMaxTextureDimension2D(limit uint32) GraphicsDeviceBuilderOption {
	return func(b *graphicsDeviceBuilder) {
		b.adapter.MaxTextureDimension2D = limit
	}
}

// WithBackendFactory replaces the wgpu backend negotiation, used to run the device against a fake backend.
//
// Parameters:
//   - factory: the BackendFactory to negotiate with
//
// Returns:
//   - GraphicsDeviceBuilderOption: a function that applies the factory option
func WithBackendFactory(factory BackendFactory) GraphicsDeviceBuilderOption {
	return func(b *graphicsDeviceBuilder) {
		if factory != nil {
			b.factory = factory
		}
	}
}

// WithBackends restricts the instance backends, e.g. the result of ParseBackends. Defaults to all.
//
// Parameters:
//   - backends: the backend bits
//
// Returns:
//   - GraphicsDeviceBuilderOption: a function that applies the backends option
func WithBackends(backends wgpu.InstanceBackend) GraphicsDeviceBuilderOption {
	return func(b *graphicsDeviceBuilder) {
		b.adapter.Backends = backends
	}
}
