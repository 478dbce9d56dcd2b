package gpu

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuBackendImpl struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	capabilities wgpu.SurfaceCapabilities
}

var _ Backend = &wgpuBackendImpl{}

// NewWGPUBackend negotiates instance, surface, adapter and device for target. It blocks until the
// adapter and device requests complete, checking ctx between steps.
//
// Parameters:
//   - ctx: cancels the negotiation between steps
//   - target: the window the surface is created for
//   - opts: adapter selection options
//
// Returns:
//   - Backend: the negotiated backend
//   - error: an error wrapping common.ErrFatalSetup if any step failed
func NewWGPUBackend(ctx context.Context, target SurfaceTarget, opts AdapterOptions) (Backend, error) {
	if target == nil {
		return nil, common.SetupError("create surface", errors.New("no surface target"))
	}

	b := &wgpuBackendImpl{
		instance: wgpu.CreateInstance(&wgpu.InstanceDescriptor{
			Backends: resolveBackends(opts.Backends),
		}),
	}
	b.surface = b.instance.CreateSurface(target.SurfaceDescriptor())
	if b.surface == nil {
		b.Release()
		return nil, common.SetupError("create surface", errors.New("surface creation returned nil"))
	}

	if err := ctx.Err(); err != nil {
		b.Release()
		return nil, common.SetupError("request adapter", err)
	}
	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, common.SetupError("request adapter", err)
	}
	if a == nil {
		b.Release()
		return nil, common.SetupError("request adapter", errors.New("no compatible adapter found"))
	}
	b.adapter = a
	info := a.GetInfo()
	log.Printf("[GPU] adapter: %s (%s, %s backend, driver %q)", info.Name, info.AdapterType, info.BackendType, info.DriverDescription)
	log.Printf("[GPU] adapter features: %s", featureList(a.EnumerateFeatures()))

	if err := ctx.Err(); err != nil {
		b.Release()
		return nil, common.SetupError("request device", err)
	}
	limits := wgpu.DefaultLimits()
	if opts.MaxTextureDimension2D > 0 {
		limits.MaxTextureDimension2D = opts.MaxTextureDimension2D
	}
	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		b.Release()
		return nil, common.SetupError("request device", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	b.capabilities = b.surface.GetCapabilities(b.adapter)
	if len(b.capabilities.Formats) == 0 {
		b.Release()
		return nil, common.SetupError("query surface capabilities", errors.New("surface is incompatible with the adapter"))
	}
	log.Printf("[GPU] adapter and device acquired (fallback=%t)", opts.ForceFallbackAdapter)

	return b, nil
}

func (b *wgpuBackendImpl) SurfaceFormats() []wgpu.TextureFormat {
	return b.capabilities.Formats
}

func (b *wgpuBackendImpl) ConfigureSurface(config SurfaceConfig) error {
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(b.capabilities.AlphaModes) > 0 {
		alphaMode = b.capabilities.AlphaModes[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      config.Format,
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: config.PresentMode,
		AlphaMode:   alphaMode,
	})
	return nil
}

func (b *wgpuBackendImpl) CreateDepthTexture(label string, width, height uint32, format wgpu.TextureFormat) (*wgpu.Texture, *wgpu.TextureView, error) {
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, err
	}
	return texture, view, nil
}

func (b *wgpuBackendImpl) ReleaseTexture(texture *wgpu.Texture, view *wgpu.TextureView) {
	if view != nil {
		view.Release()
	}
	if texture != nil {
		texture.Release()
	}
}

func (b *wgpuBackendImpl) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
}

func (b *wgpuBackendImpl) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error {
	return b.queue.WriteBuffer(buffer, offset, data)
}

func (b *wgpuBackendImpl) CreateShaderModule(label, code string) (*wgpu.ShaderModule, error) {
	return b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: code,
		},
	})
}

func (b *wgpuBackendImpl) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return b.device.CreateBindGroupLayout(descriptor)
}

func (b *wgpuBackendImpl) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return b.device.CreateBindGroup(descriptor)
}

func (b *wgpuBackendImpl) CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return b.device.CreatePipelineLayout(descriptor)
}

func (b *wgpuBackendImpl) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return b.device.CreateRenderPipeline(descriptor)
}

func (b *wgpuBackendImpl) AcquireSurfaceImage() (*SurfaceImage, error) {
	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &SurfaceImage{Texture: texture, View: view}, nil
}

func (b *wgpuBackendImpl) Submit(pass *PassDescriptor) error {
	if pass.Target == nil {
		return errors.New("render pass has no target image")
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	descriptor := &wgpu.RenderPassDescriptor{
		Label: pass.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       pass.Target.View,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: pass.ClearColor,
			},
		},
	}
	if pass.Depth != nil {
		descriptor.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            pass.Depth.View,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: pass.DepthClearValue,
		}
	}

	rp := encoder.BeginRenderPass(descriptor)
	for _, draw := range pass.Draws {
		rp.SetPipeline(draw.Pipeline)
		for i, bg := range draw.BindGroups {
			rp.SetBindGroup(uint32(i), bg, nil)
		}
		rp.SetVertexBuffer(0, draw.VertexBuffer, 0, wgpu.WholeSize)
		rp.SetIndexBuffer(draw.IndexBuffer, draw.IndexFormat, 0, wgpu.WholeSize)
		rp.DrawIndexed(draw.IndexCount, max(draw.InstanceCount, 1), 0, 0, 0)
	}
	rp.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuBackendImpl) Present(image *SurfaceImage) {
	if image == nil {
		return
	}
	b.surface.Present()
	b.ReleaseTexture(image.Texture, image.View)
}

func (b *wgpuBackendImpl) Release() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
