package renderer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-tri/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(t *testing.T, fake *gputest.FakeBackend, width, height int) gpu.GraphicsDevice {
	t.Helper()
	device, err := gpu.NewGraphicsDevice(context.Background(), gputest.Target{}, width, height, gpu.WithBackendFactory(fake.Factory()))
	require.NoError(t, err)
	return device
}

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *gputest.FakeBackend) {
	t.Helper()
	fake := gputest.NewFakeBackend()
	r, err := NewRenderer(newDevice(t, fake, 800, 600), options...)
	require.NoError(t, err)
	return r, fake
}

func TestNewRendererCreatesResources(t *testing.T) {
	r, fake := newTestRenderer(t)

	assert.Equal(t, FrameIdle, r.State())
	require.NotNil(t, r.DepthBuffer())
	assert.Equal(t, uint32(800), r.DepthBuffer().Width)
	assert.Equal(t, uint32(600), r.DepthBuffer().Height)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, r.DepthBuffer().Format)

	require.Len(t, fake.BufferInits, 3)
	assert.Equal(t, common.SliceToBytes(TriangleVertices), fake.BufferInits[0].Contents)
	assert.Equal(t, wgpu.BufferUsageVertex, fake.BufferInits[0].Usage)
	assert.Equal(t, common.SliceToBytes(TriangleIndices), fake.BufferInits[1].Contents)
	assert.Equal(t, wgpu.BufferUsageIndex, fake.BufferInits[1].Usage)
	assert.Equal(t, make([]byte, 64), fake.BufferInits[2].Contents)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, fake.BufferInits[2].Usage)

	require.Len(t, fake.BindGroupLayout, 1)
	require.Len(t, fake.BindGroupLayout[0].Entries, 1)
	entry := fake.BindGroupLayout[0].Entries[0]
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)

	assert.Equal(t, 3, r.Resources().VertexCount())
	assert.Equal(t, 3, r.Resources().IndexCount())
}

func TestPipelineState(t *testing.T) {
	_, fake := newTestRenderer(t)

	require.Len(t, fake.Pipelines, 1)
	desc := fake.Pipelines[0]
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, desc.Primitive.Topology)
	assert.Equal(t, wgpu.IndexFormatUint32, desc.Primitive.StripIndexFormat)
	assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	assert.Equal(t, "vertex_main", desc.Vertex.EntryPoint)
	assert.Equal(t, "fragment_main", desc.Fragment.EntryPoint)
	// the fake surface offers BGRA8UnormSrgb first, the linear format wins
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
	assert.Equal(t, wgpu.ColorWriteMaskAll, desc.Fragment.Targets[0].WriteMask)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
}

func TestRenderFrame(t *testing.T) {
	r, fake := newTestRenderer(t)

	require.NoError(t, r.RenderFrame(time.Second))
	assert.Equal(t, FrameIdle, r.State())

	require.Len(t, fake.BufferWrites, 1)
	expected := scene.NewScene()
	expected.Advance(1)
	payload := common.UniformPayload{MVP: expected.ComputeMVP(800.0 / 600.0)}
	assert.Equal(t, payload.Bytes(), fake.BufferWrites[0].Data)
	assert.Same(t, r.Resources().Provider().Buffer(0), fake.BufferWrites[0].Buffer)

	require.Len(t, fake.Passes, 1)
	pass := fake.Passes[0]
	assert.Equal(t, DefaultClearColor, pass.ClearColor)
	assert.Equal(t, float32(1.0), pass.DepthClearValue)
	assert.Same(t, r.DepthBuffer(), pass.Depth)
	require.Len(t, fake.Acquired, 1)
	assert.Same(t, fake.Acquired[0], pass.Target)

	require.Len(t, pass.Draws, 1)
	draw := pass.Draws[0]
	assert.Equal(t, uint32(3), draw.IndexCount)
	assert.Equal(t, uint32(1), draw.InstanceCount)
	assert.Equal(t, wgpu.IndexFormatUint32, draw.IndexFormat)
	assert.Same(t, r.Resources().Pipeline().RenderPipeline(), draw.Pipeline)

	require.Len(t, fake.Presented, 1)
	assert.Same(t, fake.Acquired[0], fake.Presented[0])
}

func TestRenderFrameAccumulatesRotation(t *testing.T) {
	r, _ := newTestRenderer(t)

	require.NoError(t, r.RenderFrame(500*time.Millisecond))
	require.NoError(t, r.RenderFrame(500*time.Millisecond))

	var want common.Mat4
	common.RotateY(want[:], common.Radians(30))
	for i := range want {
		assert.InDelta(t, want[i], r.Scene().Model()[i], 1e-6)
	}
}

func TestRenderFrameReentry(t *testing.T) {
	r, fake := newTestRenderer(t)

	var nested error
	var stateDuring FrameState
	fake.OnSubmit = func(*gpu.PassDescriptor) {
		stateDuring = r.State()
		nested = r.RenderFrame(0)
	}

	require.NoError(t, r.RenderFrame(time.Millisecond))
	assert.Equal(t, FrameRecording, stateDuring)
	assert.ErrorIs(t, nested, ErrFrameInFlight)
	assert.Equal(t, FrameIdle, r.State())
	assert.Len(t, fake.Passes, 1)
}

func TestRenderFrameAcquireFailure(t *testing.T) {
	r, fake := newTestRenderer(t)
	fake.FailAcquire = true

	err := r.RenderFrame(time.Millisecond)
	assert.ErrorIs(t, err, common.ErrFatalFrame)
	assert.ErrorIs(t, err, gputest.ErrInjected)
	assert.Equal(t, FrameIdle, r.State())
	assert.Empty(t, fake.Passes)
	assert.Empty(t, fake.Presented)
}

func TestRenderFrameSubmitFailureReleasesImage(t *testing.T) {
	r, fake := newTestRenderer(t)
	fake.FailSubmit = true

	err := r.RenderFrame(time.Millisecond)
	assert.ErrorIs(t, err, common.ErrFatalFrame)
	assert.Empty(t, fake.Presented)
	require.Len(t, fake.Acquired, 1)
	assert.Contains(t, fake.ReleasedTexture, fake.Acquired[0].Texture)
	assert.Equal(t, FrameIdle, r.State())
}

func TestResizeSequence(t *testing.T) {
	r, fake := newTestRenderer(t)
	first := r.DepthBuffer()

	require.NoError(t, r.Resize(0, 0))
	assert.Equal(t, uint32(1), r.DepthBuffer().Width)
	assert.Equal(t, uint32(1), r.DepthBuffer().Height)
	assert.Equal(t, uint32(1), r.Device().Width())
	assert.Equal(t, uint32(1), r.Device().Height())
	assert.Contains(t, fake.ReleasedTexture, first.Texture)

	require.NoError(t, r.Resize(1024, 768))
	assert.Equal(t, uint32(1024), r.DepthBuffer().Width)
	assert.Equal(t, uint32(768), r.DepthBuffer().Height)

	last := fake.Configurations[len(fake.Configurations)-1]
	assert.Equal(t, uint32(1024), last.Width)
	assert.Equal(t, uint32(768), last.Height)

	require.NoError(t, r.RenderFrame(time.Millisecond))
	assert.Same(t, r.DepthBuffer(), fake.Passes[0].Depth)
}

func TestResizeDepthFailureKeepsOldBuffer(t *testing.T) {
	r, fake := newTestRenderer(t)
	old := r.DepthBuffer()
	fake.FailDepthTexture = true

	assert.ErrorIs(t, r.Resize(640, 480), common.ErrFatalSetup)
	assert.Same(t, old, r.DepthBuffer())
}

func TestOptions(t *testing.T) {
	s := scene.NewScene(scene.WithRotationRate(90))
	color := wgpu.Color{R: 1, A: 1}
	r, fake := newTestRenderer(t, WithScene(s), WithClearColor(color), WithLabel("Custom"))

	assert.Same(t, s, r.Scene())
	assert.Equal(t, color, r.ClearColor())
	assert.True(t, strings.HasPrefix(fake.BufferInits[0].Label, "Custom"))

	require.NoError(t, r.RenderFrame(time.Millisecond))
	assert.Equal(t, color, fake.Passes[0].ClearColor)
	assert.Equal(t, "Custom Render Pass", fake.Passes[0].Label)
}

func TestNewRendererRejectsMismatchedShader(t *testing.T) {
	fake := gputest.NewFakeBackend()
	source := strings.Replace(shader.TriangleSource, "@location(1) color: vec4<f32>", "@location(1) color: vec3<f32>", 1)

	_, err := NewRenderer(newDevice(t, fake, 800, 600), WithFrameResourcesOptions(WithShaderSource("mismatched", source)))
	assert.ErrorIs(t, err, common.ErrFatalSetup)
	assert.ErrorIs(t, err, shader.ErrContractMismatch)
	assert.Empty(t, fake.Pipelines)
	require.Len(t, fake.DepthTextures, 1)
	assert.Contains(t, fake.ReleasedTexture, fake.DepthTextures[0].Texture)
}

func TestNewRendererPipelineFailure(t *testing.T) {
	fake := gputest.NewFakeBackend()
	fake.FailRenderPipeline = true

	_, err := NewRenderer(newDevice(t, fake, 800, 600))
	assert.ErrorIs(t, err, common.ErrFatalSetup)
	assert.ErrorIs(t, err, gputest.ErrInjected)
}

func TestFrameStateString(t *testing.T) {
	assert.Equal(t, "Idle", FrameIdle.String())
	assert.Equal(t, "Recording", FrameRecording.String())
	assert.Equal(t, "FrameState(7)", FrameState(7).String())
}
