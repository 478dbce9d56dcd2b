package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the fixed-function state of a render pipeline and, once built, the GPU objects.
type pipeline struct {
	pipelineKey string
	shader      shader.Shader

	module         *wgpu.ShaderModule
	layout         *wgpu.PipelineLayout
	renderPipeline *wgpu.RenderPipeline

	// Fixed-function state, set with the builder options.

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	depthFormat       wgpu.TextureFormat
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	stripIndexFormat  wgpu.IndexFormat
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline is a render pipeline: one shader with a vertex and a fragment stage plus the fixed-function
// state (primitive assembly, depth test, blending) used to draw with it.
type Pipeline interface {
	// PipelineKey returns the unique key of this pipeline, used as its debug label.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader the pipeline runs.
	//
	// Returns:
	//   - shader.Shader: the pipeline's shader
	Shader() shader.Shader

	// RenderPipeline returns the GPU pipeline, nil until Build succeeds.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the built render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// Release releases the render pipeline, its layout and the shader module created by Build.
	Release()

	// Descriptor assembles the render pipeline descriptor for the given shader module, layout and color
	// target format. It performs no GPU calls.
	//
	// Parameters:
	//   - module: the compiled shader module
	//   - layout: the pipeline layout
	//   - colorFormat: the format of the color attachment
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// Build compiles the shader, creates the pipeline layout from bindGroupLayouts (index = group) and
	// creates the render pipeline targeting colorFormat.
	//
	// Parameters:
	//   - backend: the graphics backend to create objects with
	//   - colorFormat: the surface format the pipeline renders to
	//   - bindGroupLayouts: bind group layouts indexed by group
	//
	// Returns:
	//   - error: an error if any object could not be created
	Build(backend gpu.Backend, colorFormat wgpu.TextureFormat, bindGroupLayouts []*wgpu.BindGroupLayout) error

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	DepthCompare() wgpu.CompareFunction
	BlendEnabled() bool
	BlendState() *wgpu.BlendState
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	StripIndexFormat() wgpu.IndexFormat
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask
}

var _ Pipeline = &pipeline{}

// AlphaBlending is straight alpha blending for color and premultiplied-over for alpha.
var AlphaBlending = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// NewPipeline creates a render Pipeline for s. Defaults: triangle list, counter-clockwise front faces,
// no culling, depth test Less with writes into a Depth32Float buffer, alpha blending, all color channels written.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - s: the shader providing both entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new, not yet built Pipeline
func NewPipeline(pipelineKey string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	blend := AlphaBlending
	p := &pipeline{
		pipelineKey:       pipelineKey,
		shader:            s,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		depthFormat:       gpu.DepthFormat,
		blendEnabled:      true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		stripIndexFormat:  wgpu.IndexFormatUndefined,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState:        &blend,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

func (p *pipeline) Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    colorFormat,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		target.Blend = p.blendState
	}

	depthCompare := p.depthCompare
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    p.shader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.shader.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:         p.topology,
			StripIndexFormat: p.stripIndexFormat,
			FrontFace:        p.frontFace,
			CullMode:         p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
}

func (p *pipeline) Build(backend gpu.Backend, colorFormat wgpu.TextureFormat, bindGroupLayouts []*wgpu.BindGroupLayout) error {
	if p.shader == nil {
		return errors.New("render pipeline requires a shader")
	}

	module, err := backend.CreateShaderModule(p.shader.Key(), p.shader.Source())
	if err != nil {
		return fmt.Errorf("failed to compile shader %s: %w", p.shader.Key(), err)
	}
	layout, err := backend.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.pipelineKey + " Pipeline Layout",
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout for %s: %w", p.pipelineKey, err)
	}
	created, err := backend.CreateRenderPipeline(p.Descriptor(module, layout, colorFormat))
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %s: %w", p.pipelineKey, err)
	}

	p.module = module
	p.layout = layout
	p.renderPipeline = created
	return nil
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) StripIndexFormat() wgpu.IndexFormat {
	return p.stripIndexFormat
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}
