package gpu

import (
	"context"

	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceTarget is anything a presentable surface can be created for, typically a window.
type SurfaceTarget interface {
	// SurfaceDescriptor returns the platform descriptor used to create a surface for the target.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// AdapterOptions controls adapter selection during backend negotiation.
type AdapterOptions struct {
	// ForceFallbackAdapter requests the software adapter.
	ForceFallbackAdapter bool
	// MaxTextureDimension2D is the texture size limit requested from the device.
	MaxTextureDimension2D uint32
	// Backends restricts the instance to these APIs. The zero value allows all of them.
	// BackendEnvVar overrides it when set.
	Backends wgpu.InstanceBackend
}

// BackendFactory negotiates a Backend for the given surface target.
// It must return an error wrapping common.ErrFatalSetup when no adapter or device is available.
type BackendFactory func(ctx context.Context, target SurfaceTarget, opts AdapterOptions) (Backend, error)

// SurfaceImage is the presentable image acquired for one frame.
type SurfaceImage struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// DrawCommand is one indexed draw recorded into a render pass.
type DrawCommand struct {
	Pipeline      *wgpu.RenderPipeline
	BindGroups    []*wgpu.BindGroup
	VertexBuffer  *wgpu.Buffer
	IndexBuffer   *wgpu.Buffer
	IndexFormat   wgpu.IndexFormat
	IndexCount    uint32
	InstanceCount uint32
}

// PassDescriptor describes a single render pass into a surface image.
// The color target is cleared to ClearColor and the depth target to DepthClearValue before the draws run.
type PassDescriptor struct {
	Label           string
	Target          *SurfaceImage
	Depth           *DepthBuffer
	ClearColor      wgpu.Color
	DepthClearValue float32
	Draws           []DrawCommand
}

// Backend is the boundary to the graphics API. Every call that touches the driver goes through it.
// The wgpu implementation lives in wgpu_backend.go; tests substitute a recording fake.
type Backend interface {
	// SurfaceFormats returns the texture formats the surface supports on the negotiated adapter,
	// in the adapter's preference order.
	//
	// Returns:
	//   - []wgpu.TextureFormat: supported surface formats
	SurfaceFormats() []wgpu.TextureFormat

	// ConfigureSurface (re)configures the surface with the given size, format and present mode.
	// It is called once after negotiation and again after every resize.
	//
	// Parameters:
	//   - config: the surface configuration, Width and Height are at least 1
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	ConfigureSurface(config SurfaceConfig) error

	// CreateDepthTexture creates a depth texture and its default view.
	//
	// Parameters:
	//   - label: debug label
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//   - format: the depth format
	//
	// Returns:
	//   - *wgpu.Texture: the texture
	//   - *wgpu.TextureView: the view used as the depth attachment
	//   - error: an error if creation failed
	CreateDepthTexture(label string, width, height uint32, format wgpu.TextureFormat) (*wgpu.Texture, *wgpu.TextureView, error)

	// ReleaseTexture releases a texture and view created by this backend. Nil values are ignored.
	ReleaseTexture(texture *wgpu.Texture, view *wgpu.TextureView)

	// CreateBufferInit creates a GPU buffer initialized with contents.
	//
	// Parameters:
	//   - label: debug label
	//   - contents: initial bytes, the buffer size is len(contents)
	//   - usage: buffer usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	//   - error: an error if creation failed
	CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// WriteBuffer queues a write of data into buffer at offset. It is visible to the next submission.
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error

	// CreateShaderModule compiles WGSL source.
	CreateShaderModule(label, code string) (*wgpu.ShaderModule, error)

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)

	// CreateBindGroup creates a bind group.
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)

	// CreatePipelineLayout creates a pipeline layout.
	CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error)

	// CreateRenderPipeline creates a render pipeline.
	CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error)

	// AcquireSurfaceImage acquires the next presentable image of the surface.
	//
	// Returns:
	//   - *SurfaceImage: the acquired image, owned by the caller until Present
	//   - error: an error if the image could not be acquired (lost or outdated surface, timeout)
	AcquireSurfaceImage() (*SurfaceImage, error)

	// Submit records one render pass described by pass into a fresh command encoder and submits it.
	//
	// Parameters:
	//   - pass: the pass to record
	//
	// Returns:
	//   - error: an error if encoding or submission failed
	Submit(pass *PassDescriptor) error

	// Present presents image on the surface and releases it.
	Present(image *SurfaceImage)

	// Release releases the device, surface and every object owned by the backend.
	Release()
}
