package renderer

import (
	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type frameResources struct {
	label       string
	shaderKey   string
	source      string
	vertices    []common.Vertex
	indices     []uint32
	pipelineOps []pipeline.PipelineBuilderOption

	backend  gpu.Backend
	provider bind_group_provider.BindGroupProvider
	pipeline pipeline.Pipeline
}

// FrameResources owns every GPU object that lives for the whole session: the mesh buffers, the single
// uniform buffer with its bind group, and the render pipeline.
type FrameResources interface {
	// UpdateUniform overwrites the uniform buffer with payload. There is one uniform buffer, so a
	// write issued while the previous frame is still in flight is ordered by the queue.
	//
	// Parameters:
	//   - payload: the values to upload
	//
	// Returns:
	//   - error: an error if the queue rejected the write
	UpdateUniform(payload *common.UniformPayload) error

	// DrawCommand returns the single indexed draw that renders the mesh.
	//
	// Returns:
	//   - gpu.DrawCommand: pipeline, bind group, buffers and index count
	DrawCommand() gpu.DrawCommand

	// IndexCount returns the number of indices in the index buffer.
	IndexCount() int

	// VertexCount returns the number of vertices in the vertex buffer.
	VertexCount() int

	// Pipeline returns the built render pipeline.
	Pipeline() pipeline.Pipeline

	// Provider returns the bind group provider holding the buffers.
	Provider() bind_group_provider.BindGroupProvider

	// Release releases every GPU object owned by the resources.
	Release()
}

var _ FrameResources = &frameResources{}

// NewFrameResources parses the shader, checks it against the host vertex and uniform layouts and
// creates the buffers, bind group and pipeline on device. The color target uses the device's
// configured surface format.
//
// Parameters:
//   - device: the graphics device
//   - options: FrameResourcesOption functions
//
// Returns:
//   - FrameResources: the created resources
//   - error: an error wrapping common.ErrFatalSetup if anything could not be created
func NewFrameResources(device gpu.GraphicsDevice, options ...FrameResourcesOption) (FrameResources, error) {
	fr := &frameResources{
		label:     "Triangle",
		shaderKey: "triangle",
		source:    shader.TriangleSource,
		vertices:  TriangleVertices,
		indices:   TriangleIndices,
		pipelineOps: []pipeline.PipelineBuilderOption{
			pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip, wgpu.IndexFormatUint32),
			pipeline.WithFrontFace(wgpu.FrontFaceCW),
			pipeline.WithCullMode(wgpu.CullModeNone),
			pipeline.WithDepthCompare(wgpu.CompareFunctionLess),
		},
		backend: device.Backend(),
	}
	for _, opt := range options {
		opt(fr)
	}

	s, err := shader.NewShader(fr.shaderKey, fr.source)
	if err != nil {
		return nil, common.SetupError("parse shader", err)
	}
	if err := shader.Validate(s, HostContract()); err != nil {
		return nil, common.SetupError("validate shader", err)
	}

	fr.provider = bind_group_provider.NewBindGroupProvider(fr.label, bind_group_provider.WithIndexFormat(wgpu.IndexFormatUint32))
	if err := fr.provider.InitMeshBuffers(
		fr.backend,
		common.SliceToBytes(fr.vertices), len(fr.vertices),
		common.SliceToBytes(fr.indices), len(fr.indices),
	); err != nil {
		return nil, common.SetupError("create mesh buffers", err)
	}
	if err := fr.provider.InitBindGroup(fr.backend, s.BindGroupLayoutDescriptor(0)); err != nil {
		return nil, common.SetupError("create uniform bind group", err)
	}

	fr.pipeline = pipeline.NewPipeline(fr.label, s, fr.pipelineOps...)
	layouts := []*wgpu.BindGroupLayout{fr.provider.BindGroupLayout()}
	if err := fr.pipeline.Build(fr.backend, device.SurfaceConfig().Format, layouts); err != nil {
		return nil, common.SetupError("create render pipeline", err)
	}
	return fr, nil
}

func (fr *frameResources) UpdateUniform(payload *common.UniformPayload) error {
	return fr.provider.WriteBuffers(fr.backend, []bind_group_provider.BufferWrite{
		{Binding: 0, Offset: 0, Data: payload.Bytes()},
	})
}

func (fr *frameResources) DrawCommand() gpu.DrawCommand {
	return gpu.DrawCommand{
		Pipeline:      fr.pipeline.RenderPipeline(),
		BindGroups:    []*wgpu.BindGroup{fr.provider.BindGroup()},
		VertexBuffer:  fr.provider.VertexBuffer(),
		IndexBuffer:   fr.provider.IndexBuffer(),
		IndexFormat:   fr.provider.IndexFormat(),
		IndexCount:    uint32(fr.provider.IndexCount()),
		InstanceCount: 1,
	}
}

func (fr *frameResources) IndexCount() int {
	return fr.provider.IndexCount()
}

func (fr *frameResources) VertexCount() int {
	return fr.provider.VertexCount()
}

func (fr *frameResources) Pipeline() pipeline.Pipeline {
	return fr.pipeline
}

func (fr *frameResources) Provider() bind_group_provider.BindGroupProvider {
	return fr.provider
}

func (fr *frameResources) Release() {
	if fr.pipeline != nil {
		fr.pipeline.Release()
	}
	if fr.provider != nil {
		fr.provider.Release()
	}
}
