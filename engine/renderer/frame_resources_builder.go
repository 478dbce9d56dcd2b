package renderer

import (
	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer/pipeline"
)

// FrameResourcesOption is a functional option applied to frame resources during construction via NewFrameResources.
type FrameResourcesOption func(*frameResources)

// WithShaderSource replaces the embedded triangle shader. The source must still satisfy HostContract.
//
// Parameters:
//   - key: identifier used in error messages and GPU labels
//   - source: WGSL source code
//
// Returns:
//   - FrameResourcesOption: a function that sets the shader source
func WithShaderSource(key, source string) FrameResourcesOption {
	return func(fr *frameResources) {
		fr.shaderKey = key
		fr.source = source
	}
}

// WithGeometry replaces the triangle mesh.
//
// Parameters:
//   - vertices: the vertex data
//   - indices: 32-bit indices into vertices
//
// Returns:
//   - FrameResourcesOption: a function that sets the mesh
func WithGeometry(vertices []common.Vertex, indices []uint32) FrameResourcesOption {
	return func(fr *frameResources) {
		fr.vertices = vertices
		fr.indices = indices
	}
}

// WithPipelineOptions appends pipeline options after the defaults, so they take precedence.
func WithPipelineOptions(options ...pipeline.PipelineBuilderOption) FrameResourcesOption {
	return func(fr *frameResources) {
		fr.pipelineOps = append(fr.pipelineOps, options...)
	}
}

// WithResourceLabel sets the prefix used for GPU object labels.
func WithResourceLabel(label string) FrameResourcesOption {
	return func(fr *frameResources) {
		fr.label = label
	}
}
