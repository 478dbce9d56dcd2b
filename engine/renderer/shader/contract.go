package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrContractMismatch is returned when a shader's declared interface differs from the host-side data layout.
var ErrContractMismatch = errors.New("shader interface does not match host layout")

// UniformBinding describes one uniform buffer the host binds for a shader.
type UniformBinding struct {
	Group      int
	Binding    uint32
	Size       uint64
	Visibility wgpu.ShaderStage
}

// Contract is the host-side view of a shader interface: the vertex buffer layouts it uploads and
// the uniform buffers it binds.
type Contract struct {
	VertexLayouts []wgpu.VertexBufferLayout
	Uniforms      []UniformBinding
}

// Validate checks that s declares exactly the vertex layouts and uniform bindings of c.
// Any mismatch is reported as an error wrapping ErrContractMismatch naming the first difference.
//
// Parameters:
//   - s: the parsed shader
//   - c: the host layout
//
// Returns:
//   - error: nil when the shader and host agree
func Validate(s Shader, c Contract) error {
	got := s.VertexLayouts()
	if len(got) != len(c.VertexLayouts) {
		return fmt.Errorf("%w: %s declares %d vertex input structs, host uploads %d", ErrContractMismatch, s.Key(), len(got), len(c.VertexLayouts))
	}
	for i, want := range c.VertexLayouts {
		if err := compareVertexLayout(i, got[i], want); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrContractMismatch, s.Key(), err)
		}
	}

	declared := 0
	for _, desc := range s.BindGroupLayoutDescriptors() {
		declared += len(desc.Entries)
	}
	if declared != len(c.Uniforms) {
		return fmt.Errorf("%w: %s declares %d bindings, host binds %d", ErrContractMismatch, s.Key(), declared, len(c.Uniforms))
	}
	for _, u := range c.Uniforms {
		if err := compareUniform(s.BindGroupLayoutDescriptor(u.Group), u); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrContractMismatch, s.Key(), err)
		}
	}
	return nil
}

func compareVertexLayout(slot int, got, want wgpu.VertexBufferLayout) error {
	if got.ArrayStride != want.ArrayStride {
		return fmt.Errorf("vertex slot %d: stride %d, host stride %d", slot, got.ArrayStride, want.ArrayStride)
	}
	if len(got.Attributes) != len(want.Attributes) {
		return fmt.Errorf("vertex slot %d: %d attributes, host has %d", slot, len(got.Attributes), len(want.Attributes))
	}
	for i, w := range want.Attributes {
		g := got.Attributes[i]
		if g.ShaderLocation != w.ShaderLocation || g.Format != w.Format || g.Offset != w.Offset {
			return fmt.Errorf("vertex slot %d attribute %d: location %d format %v offset %d, host location %d format %v offset %d",
				slot, i, g.ShaderLocation, g.Format, g.Offset, w.ShaderLocation, w.Format, w.Offset)
		}
	}
	return nil
}

func compareUniform(desc wgpu.BindGroupLayoutDescriptor, want UniformBinding) error {
	for _, e := range desc.Entries {
		if e.Binding != want.Binding {
			continue
		}
		if e.Buffer.Type != wgpu.BufferBindingTypeUniform {
			return fmt.Errorf("group %d binding %d is not a uniform buffer", want.Group, want.Binding)
		}
		if e.Buffer.MinBindingSize != want.Size {
			return fmt.Errorf("group %d binding %d: %d bytes, host uploads %d", want.Group, want.Binding, e.Buffer.MinBindingSize, want.Size)
		}
		if e.Visibility != want.Visibility {
			return fmt.Errorf("group %d binding %d: visibility %v, host expects %v", want.Group, want.Binding, e.Visibility, want.Visibility)
		}
		return nil
	}
	return fmt.Errorf("group %d binding %d is not declared", want.Group, want.Binding)
}
