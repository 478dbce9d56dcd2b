package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// TriangleSource is the WGSL program drawing the spinning triangle. It declares a vertex_main and a
// fragment_main entry point, one uniform block at group 0 binding 0 and a two-attribute vertex input.
//
//go:embed assets/triangle.wgsl
var TriangleSource string

// ErrNoEntryPoint is returned when a shader source lacks a required @vertex or @fragment function.
var ErrNoEntryPoint = errors.New("shader entry point not found")

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
}

// Shader is a parsed WGSL render program holding both a vertex and a fragment stage.
// Layout metadata (vertex buffers, bind groups) is derived from the source so it can be checked
// against the host-side data layout before any GPU object is created.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as its debug label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	// Entry visibility is the set of stages whose entry point references the bound variable.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for one group.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// VertexLayouts retrieves the vertex buffer layouts derived from the vertex input structs,
	// in declaration order. Slot i of the pipeline uses layout i.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader parses source into a Shader.
//
// Parameters:
//   - key: a unique identifier for the shader, used as its debug label
//   - source: the WGSL source containing a @vertex and a @fragment function
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the source is empty or either entry point is missing
func NewShader(key, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader %s: empty source", key)
	}
	s := &shader{
		key:    key,
		source: source,
	}

	cleaned := stripComments(source)
	s.vertexEntryPoint = parseEntryPoint(cleaned, vertexEntryRegex)
	if s.vertexEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: @vertex: %w", key, ErrNoEntryPoint)
	}
	s.fragmentEntryPoint = parseEntryPoint(cleaned, fragmentEntryRegex)
	if s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: @fragment: %w", key, ErrNoEntryPoint)
	}

	s.vertexLayouts = parseVertexLayouts(cleaned)
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(cleaned, map[wgpu.ShaderStage]string{
		wgpu.ShaderStageVertex:   functionBody(cleaned, s.vertexEntryPoint),
		wgpu.ShaderStageFragment: functionBody(cleaned, s.fragmentEntryPoint),
	})
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}
