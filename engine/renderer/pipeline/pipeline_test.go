package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tri/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleShader(t *testing.T) shader.Shader {
	t.Helper()
	s, err := shader.NewShader("triangle", shader.TriangleSource)
	require.NoError(t, err)
	return s
}

func TestDefaults(t *testing.T) {
	p := NewPipeline("default", triangleShader(t))

	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.IndexFormatUndefined, p.StripIndexFormat())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, AlphaBlending, *p.BlendState())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Nil(t, p.RenderPipeline())
}

func TestDescriptor(t *testing.T) {
	p := NewPipeline("triangle", triangleShader(t),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip, wgpu.IndexFormatUint32),
		WithFrontFace(wgpu.FrontFaceCW),
	)
	module := &wgpu.ShaderModule{}
	layout := &wgpu.PipelineLayout{}
	desc := p.Descriptor(module, layout, wgpu.TextureFormatBGRA8Unorm)

	assert.Same(t, layout, desc.Layout)
	assert.Same(t, module, desc.Vertex.Module)
	assert.Equal(t, "vertex_main", desc.Vertex.EntryPoint)
	require.Len(t, desc.Vertex.Buffers, 1)
	assert.Equal(t, uint64(32), desc.Vertex.Buffers[0].ArrayStride)

	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fragment_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
	require.NotNil(t, desc.Fragment.Targets[0].Blend)
	assert.Equal(t, AlphaBlending, *desc.Fragment.Targets[0].Blend)

	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, desc.Primitive.Topology)
	assert.Equal(t, wgpu.IndexFormatUint32, desc.Primitive.StripIndexFormat)
	assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)

	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.Equal(t, uint32(1), desc.Multisample.Count)
}

func TestDescriptorDisabledStates(t *testing.T) {
	p := NewPipeline("flat", triangleShader(t), WithDepthTestEnabled(false), WithBlendEnabled(false))
	desc := p.Descriptor(nil, nil, wgpu.TextureFormatRGBA8Unorm)

	assert.Nil(t, desc.Fragment.Targets[0].Blend)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.DepthCompare)
}

func TestBuild(t *testing.T) {
	fake := gputest.NewFakeBackend()
	p := NewPipeline("triangle", triangleShader(t))

	require.NoError(t, p.Build(fake, wgpu.TextureFormatBGRA8Unorm, []*wgpu.BindGroupLayout{{}}))
	assert.NotNil(t, p.RenderPipeline())
	require.Len(t, fake.ShaderSources, 1)
	assert.Equal(t, shader.TriangleSource, fake.ShaderSources[0])
	require.Len(t, fake.PipelineLayouts, 1)
	assert.Len(t, fake.PipelineLayouts[0].BindGroupLayouts, 1)
	require.Len(t, fake.Pipelines, 1)

	failing := gputest.NewFakeBackend()
	failing.FailRenderPipeline = true
	p = NewPipeline("broken", triangleShader(t))
	assert.ErrorIs(t, p.Build(failing, wgpu.TextureFormatBGRA8Unorm, nil), gputest.ErrInjected)
	assert.Nil(t, p.RenderPipeline())
}
