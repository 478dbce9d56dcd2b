// package gpu owns the connection to the graphics hardware: the negotiated adapter and device, the window surface
// and its configuration, and depth buffer creation. All driver calls go through the Backend interface.
package gpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the format of every depth buffer created by a GraphicsDevice.
const DepthFormat = wgpu.TextureFormatDepth32Float

// SurfaceConfig is the current configuration of the presentation surface.
// Width and Height are never zero.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      wgpu.TextureFormat
	PresentMode wgpu.PresentMode
}

// DepthBuffer is a depth texture sized to the surface, recreated whenever the surface is resized.
type DepthBuffer struct {
	Width   uint32
	Height  uint32
	Format  wgpu.TextureFormat
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// GraphicsDevice is the negotiated graphics device bound to one window surface.
type GraphicsDevice interface {
	// Backend returns the graphics API boundary used to create resources and submit work.
	//
	// Returns:
	//   - Backend: the backend
	Backend() Backend

	// SurfaceConfig returns a copy of the current surface configuration.
	//
	// Returns:
	//   - SurfaceConfig: the surface configuration
	SurfaceConfig() SurfaceConfig

	// Width returns the configured surface width in pixels, at least 1.
	Width() uint32

	// Height returns the configured surface height in pixels, at least 1.
	Height() uint32

	// AspectRatio returns width / max(height, 1).
	AspectRatio() float32

	// Resize clamps width and height to at least 1, stores them in the surface configuration and
	// reconfigures the surface. Callers must recreate any depth buffer afterwards.
	//
	// Parameters:
	//   - width: new framebuffer width in pixels, may be 0 while minimized
	//   - height: new framebuffer height in pixels, may be 0 while minimized
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// CreateDepthBuffer creates a Depth32Float texture usable as a render attachment and for sampling.
	// Sizes below 1 are clamped to 1.
	//
	// Parameters:
	//   - width: buffer width in pixels
	//   - height: buffer height in pixels
	//
	// Returns:
	//   - *DepthBuffer: the depth buffer
	//   - error: an error wrapping common.ErrFatalSetup if the texture could not be created
	CreateDepthBuffer(width, height int) (*DepthBuffer, error)

	// ReleaseDepthBuffer releases a depth buffer created by CreateDepthBuffer. Nil is ignored.
	ReleaseDepthBuffer(depth *DepthBuffer)

	// Release releases the device, the surface and the backend.
	Release()
}

type graphicsDevice struct {
	backend Backend
	config  SurfaceConfig
}

var _ GraphicsDevice = &graphicsDevice{}

// NewGraphicsDevice negotiates a device for target and configures its surface at width x height.
// It blocks until the adapter and device requests complete.
//
// Parameters:
//   - ctx: cancels negotiation between steps
//   - target: the window the device presents to
//   - width: initial framebuffer width, clamped to at least 1
//   - height: initial framebuffer height, clamped to at least 1
//   - options: GraphicsDeviceBuilderOption functions
//
// Returns:
//   - GraphicsDevice: the ready device
//   - error: an error wrapping common.ErrFatalSetup if no adapter or device is available or the surface is unusable
func NewGraphicsDevice(ctx context.Context, target SurfaceTarget, width, height int, options ...GraphicsDeviceBuilderOption) (GraphicsDevice, error) {
	b := &graphicsDeviceBuilder{
		presentMode: wgpu.PresentModeFifo,
		adapter: AdapterOptions{
			MaxTextureDimension2D: 4096,
		},
		factory: NewWGPUBackend,
	}
	for _, opt := range options {
		opt(b)
	}

	backend, err := b.factory(ctx, target, b.adapter)
	if err != nil {
		if !errors.Is(err, common.ErrFatalSetup) {
			err = common.SetupError("negotiate device", err)
		}
		return nil, err
	}

	format, err := selectSurfaceFormat(backend.SurfaceFormats())
	if err != nil {
		backend.Release()
		return nil, common.SetupError("select surface format", err)
	}

	d := &graphicsDevice{
		backend: backend,
		config: SurfaceConfig{
			Width:       common.ClampExtent(width),
			Height:      common.ClampExtent(height),
			Format:      format,
			PresentMode: b.presentMode,
		},
	}
	if err := backend.ConfigureSurface(d.config); err != nil {
		backend.Release()
		return nil, common.SetupError("configure surface", err)
	}
	return d, nil
}

func (d *graphicsDevice) Backend() Backend {
	return d.backend
}

func (d *graphicsDevice) SurfaceConfig() SurfaceConfig {
	return d.config
}

func (d *graphicsDevice) Width() uint32 {
	return d.config.Width
}

func (d *graphicsDevice) Height() uint32 {
	return d.config.Height
}

func (d *graphicsDevice) AspectRatio() float32 {
	return float32(d.config.Width) / float32(max(d.config.Height, 1))
}

func (d *graphicsDevice) Resize(width, height int) error {
	d.config.Width = common.ClampExtent(width)
	d.config.Height = common.ClampExtent(height)
	if err := d.backend.ConfigureSurface(d.config); err != nil {
		return fmt.Errorf("failed to reconfigure surface at %dx%d: %w", d.config.Width, d.config.Height, err)
	}
	return nil
}

func (d *graphicsDevice) CreateDepthBuffer(width, height int) (*DepthBuffer, error) {
	w, h := common.ClampExtent(width), common.ClampExtent(height)
	texture, view, err := d.backend.CreateDepthTexture("Depth Texture", w, h, DepthFormat)
	if err != nil {
		return nil, common.SetupError("create depth texture", err)
	}
	return &DepthBuffer{
		Width:   w,
		Height:  h,
		Format:  DepthFormat,
		Texture: texture,
		View:    view,
	}, nil
}

func (d *graphicsDevice) ReleaseDepthBuffer(depth *DepthBuffer) {
	if depth == nil {
		return
	}
	d.backend.ReleaseTexture(depth.Texture, depth.View)
}

func (d *graphicsDevice) Release() {
	if d.backend != nil {
		d.backend.Release()
		d.backend = nil
	}
}

// selectSurfaceFormat prefers the first non-sRGB format and falls back to the first format.
// Colors are written to the target unconverted.
func selectSurfaceFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(formats) == 0 {
		return wgpu.TextureFormatUndefined, fmt.Errorf("surface reports no supported formats")
	}
	for _, f := range formats {
		if !isSRGB(f) {
			return f, nil
		}
	}
	return formats[0], nil
}

func isSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}
