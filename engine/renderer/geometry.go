package renderer

import (
	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// TriangleVertices is the fixed mesh: a red, a green and a blue corner in clip-like object space.
var TriangleVertices = []common.Vertex{
	{Position: [4]float32{1, -1, 0, 1}, Color: [4]float32{1, 0, 0, 1}},
	{Position: [4]float32{-1, -1, 0, 1}, Color: [4]float32{0, 1, 0, 1}},
	{Position: [4]float32{0, 1, 0, 1}, Color: [4]float32{0, 0, 1, 1}},
}

// TriangleIndices indexes TriangleVertices as a single strip.
var TriangleIndices = []uint32{0, 1, 2}

// HostContract describes how the host lays out the data the triangle shader reads:
// one vertex buffer of common.Vertex and one vertex-stage uniform holding common.UniformPayload.
//
// Returns:
//   - shader.Contract: the host-side shader interface
func HostContract() shader.Contract {
	return shader.Contract{
		VertexLayouts: []wgpu.VertexBufferLayout{{
			ArrayStride: common.VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
			},
		}},
		Uniforms: []shader.UniformBinding{{
			Group:      0,
			Binding:    0,
			Size:       common.UniformSize,
			Visibility: wgpu.ShaderStageVertex,
		}},
	}
}
