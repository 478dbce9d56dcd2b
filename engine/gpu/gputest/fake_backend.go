// Package gputest provides a recording gpu.Backend for tests that exercise device, renderer and application
// logic without a graphics adapter.
package gputest

import (
	"context"
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInjected is returned by a FakeBackend call that was configured to fail.
var ErrInjected = errors.New("injected failure")

// DepthTexture records one CreateDepthTexture call.
type DepthTexture struct {
	Label   string
	Width   uint32
	Height  uint32
	Format  wgpu.TextureFormat
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// BufferInit records one CreateBufferInit call.
type BufferInit struct {
	Label    string
	Contents []byte
	Usage    wgpu.BufferUsage
	Buffer   *wgpu.Buffer
}

// BufferWrite records one WriteBuffer call.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// FakeBackend is a gpu.Backend that hands out zero-value handles and records every call.
// Handles are never dereferenced by the fake, so they are only good for identity comparisons.
type FakeBackend struct {
	mu sync.Mutex

	Formats []wgpu.TextureFormat

	// Options holds the adapter options passed to the last Factory call.
	Options gpu.AdapterOptions

	// Fail* make the corresponding call return ErrInjected.
	FailConfigure      bool
	FailDepthTexture   bool
	FailShaderModule   bool
	FailRenderPipeline bool
	FailAcquire        bool
	FailSubmit         bool

	Configurations  []gpu.SurfaceConfig
	DepthTextures   []DepthTexture
	ReleasedTexture []*wgpu.Texture
	BufferInits     []BufferInit
	BufferWrites    []BufferWrite
	ShaderSources   []string
	BindGroupLayout []*wgpu.BindGroupLayoutDescriptor
	BindGroups      []*wgpu.BindGroupDescriptor
	PipelineLayouts []*wgpu.PipelineLayoutDescriptor
	Pipelines       []*wgpu.RenderPipelineDescriptor
	Acquired        []*gpu.SurfaceImage
	Passes          []gpu.PassDescriptor
	Presented       []*gpu.SurfaceImage
	Released        bool

	// OnSubmit, when set, runs inside Submit before the pass is recorded.
	OnSubmit func(pass *gpu.PassDescriptor)
}

var _ gpu.Backend = &FakeBackend{}

// NewFakeBackend returns a FakeBackend whose surface supports an sRGB and a linear BGRA format.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Formats: []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm},
	}
}

// Factory returns a gpu.BackendFactory that always yields f.
func (f *FakeBackend) Factory() gpu.BackendFactory {
	return func(ctx context.Context, _ gpu.SurfaceTarget, opts gpu.AdapterOptions) (gpu.Backend, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.Options = opts
		return f, nil
	}
}

func (f *FakeBackend) SurfaceFormats() []wgpu.TextureFormat {
	return f.Formats
}

func (f *FakeBackend) ConfigureSurface(config gpu.SurfaceConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailConfigure {
		return ErrInjected
	}
	f.Configurations = append(f.Configurations, config)
	return nil
}

func (f *FakeBackend) CreateDepthTexture(label string, width, height uint32, format wgpu.TextureFormat) (*wgpu.Texture, *wgpu.TextureView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDepthTexture {
		return nil, nil, ErrInjected
	}
	dt := DepthTexture{
		Label:   label,
		Width:   width,
		Height:  height,
		Format:  format,
		Texture: &wgpu.Texture{},
		View:    &wgpu.TextureView{},
	}
	f.DepthTextures = append(f.DepthTextures, dt)
	return dt.Texture, dt.View, nil
}

func (f *FakeBackend) ReleaseTexture(texture *wgpu.Texture, _ *wgpu.TextureView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReleasedTexture = append(f.ReleasedTexture, texture)
}

func (f *FakeBackend) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bi := BufferInit{
		Label:    label,
		Contents: append([]byte(nil), contents...),
		Usage:    usage,
		Buffer:   &wgpu.Buffer{},
	}
	f.BufferInits = append(f.BufferInits, bi)
	return bi.Buffer, nil
}

func (f *FakeBackend) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BufferWrites = append(f.BufferWrites, BufferWrite{
		Buffer: buffer,
		Offset: offset,
		Data:   append([]byte(nil), data...),
	})
	return nil
}

func (f *FakeBackend) CreateShaderModule(_ string, code string) (*wgpu.ShaderModule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailShaderModule {
		return nil, ErrInjected
	}
	f.ShaderSources = append(f.ShaderSources, code)
	return &wgpu.ShaderModule{}, nil
}

func (f *FakeBackend) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BindGroupLayout = append(f.BindGroupLayout, descriptor)
	return &wgpu.BindGroupLayout{}, nil
}

func (f *FakeBackend) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BindGroups = append(f.BindGroups, descriptor)
	return &wgpu.BindGroup{}, nil
}

func (f *FakeBackend) CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PipelineLayouts = append(f.PipelineLayouts, descriptor)
	return &wgpu.PipelineLayout{}, nil
}

func (f *FakeBackend) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRenderPipeline {
		return nil, ErrInjected
	}
	f.Pipelines = append(f.Pipelines, descriptor)
	return &wgpu.RenderPipeline{}, nil
}

func (f *FakeBackend) AcquireSurfaceImage() (*gpu.SurfaceImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAcquire {
		return nil, ErrInjected
	}
	img := &gpu.SurfaceImage{Texture: &wgpu.Texture{}, View: &wgpu.TextureView{}}
	f.Acquired = append(f.Acquired, img)
	return img, nil
}

func (f *FakeBackend) Submit(pass *gpu.PassDescriptor) error {
	if f.OnSubmit != nil {
		f.OnSubmit(pass)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSubmit {
		return ErrInjected
	}
	f.Passes = append(f.Passes, *pass)
	return nil
}

func (f *FakeBackend) Present(image *gpu.SurfaceImage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Presented = append(f.Presented, image)
}

func (f *FakeBackend) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Released = true
}

// LastDepthTexture returns the most recent CreateDepthTexture call.
func (f *FakeBackend) LastDepthTexture() (DepthTexture, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.DepthTextures) == 0 {
		return DepthTexture{}, false
	}
	return f.DepthTextures[len(f.DepthTextures)-1], true
}

// Target is a gpu.SurfaceTarget with an empty descriptor.
type Target struct{}

func (Target) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return &wgpu.SurfaceDescriptor{}
}
