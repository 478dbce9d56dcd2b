package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	label string

	// GPU objects, populated by InitBindGroup and InitMeshBuffers and released by Release.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the buffers backing buffer bindings, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexFormat  wgpu.IndexFormat
	indexCount   int
	vertexCount  int
}

// BindGroupProvider owns the GPU resources one draw needs: a bind group with its layout and backing
// uniform buffers, and optionally the mesh's vertex and index buffers.
//
// Usage pattern:
//  1. Create a provider with a label
//  2. Call InitBindGroup with the layout descriptor parsed from the shader
//  3. Call InitMeshBuffers with the vertex and index data
//  4. Call WriteBuffers each frame to update uniforms
//  5. Read BindGroup, VertexBuffer and IndexBuffer when recording draws
type BindGroupProvider interface {
	// Release releases every GPU object held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// InitBindGroup creates the bind group layout from descriptor, a zero-initialized buffer for each
	// buffer binding (sized by its MinBindingSize, usage derived from the binding type plus CopyDst),
	// and the bind group referencing them.
	//
	// Parameters:
	//   - backend: the graphics backend to create objects with
	//   - descriptor: the layout descriptor, typically parsed from the shader
	//
	// Returns:
	//   - error: an error if any object could not be created or a binding is not a buffer
	InitBindGroup(backend gpu.Backend, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitMeshBuffers uploads vertex and 32-bit index data into new immutable buffers.
	//
	// Parameters:
	//   - backend: the graphics backend to create buffers with
	//   - vertexData: raw vertex bytes
	//   - vertexCount: number of vertices in vertexData
	//   - indexData: raw uint32 index bytes
	//   - indexCount: number of indices in indexData
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(backend gpu.Backend, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error

	// WriteBuffers queues each write against this provider's binding buffers.
	//
	// Parameters:
	//   - backend: the graphics backend
	//   - writes: the writes to apply
	//
	// Returns:
	//   - error: an error if a write targets an unknown binding or the queue rejected it
	WriteBuffers(backend gpu.Backend, writes []BufferWrite) error

	// BindGroup returns the bind group, nil before InitBindGroup.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout, nil before InitBindGroup.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer backing binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer, or nil if the binding has none
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the vertex buffer, nil before InitMeshBuffers.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer, nil before InitMeshBuffers.
	IndexBuffer() *wgpu.Buffer

	// IndexFormat returns the format of the index buffer.
	IndexFormat() wgpu.IndexFormat

	// IndexCount returns the number of indices uploaded by InitMeshBuffers.
	IndexCount() int

	// VertexCount returns the number of vertices uploaded by InitMeshBuffers.
	VertexCount() int
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: debug label used as a prefix for every GPU object label
//   - options: BindGroupProviderOption functions
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:       label,
		buffers:     make(map[int]*wgpu.Buffer),
		indexFormat: wgpu.IndexFormatUint32,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) InitBindGroup(backend gpu.Backend, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if len(descriptor.Entries) == 0 {
		return nil
	}
	if descriptor.Label == "" {
		descriptor.Label = p.label + " Bind Group Layout"
	}

	layout := p.bindGroupLayout
	if layout == nil {
		var err error
		layout, err = backend.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for %s: %w", p.label, err)
		}
		p.bindGroupLayout = layout
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		var usage wgpu.BufferUsage
		switch entry.Buffer.Type {
		case wgpu.BufferBindingTypeUniform:
			usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
		case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
			usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
		default:
			return fmt.Errorf("%s: binding %d is not a buffer binding", p.label, binding)
		}

		buf := p.buffers[binding]
		if buf == nil {
			if entry.Buffer.MinBindingSize == 0 {
				return fmt.Errorf("%s: binding %d has no known size", p.label, binding)
			}
			var err error
			buf, err = backend.CreateBufferInit(
				fmt.Sprintf("%s Buffer %d", p.label, binding),
				make([]byte, entry.Buffer.MinBindingSize),
				usage,
			)
			if err != nil {
				return fmt.Errorf("failed to create buffer %d for %s: %w", binding, p.label, err)
			}
			p.buffers[binding] = buf
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	bindGroup, err := backend.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.label + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group for %s: %w", p.label, err)
	}
	p.bindGroup = bindGroup
	return nil
}

func (p *bindGroupProvider) InitMeshBuffers(backend gpu.Backend, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	if len(vertexData) > 0 {
		buf, err := backend.CreateBufferInit(p.label+" Vertex Buffer", vertexData, wgpu.BufferUsageVertex)
		if err != nil {
			return fmt.Errorf("failed to create vertex buffer for %s: %w", p.label, err)
		}
		p.vertexBuffer = buf
		p.vertexCount = vertexCount
	}
	if len(indexData) > 0 {
		buf, err := backend.CreateBufferInit(p.label+" Index Buffer", indexData, wgpu.BufferUsageIndex)
		if err != nil {
			return fmt.Errorf("failed to create index buffer for %s: %w", p.label, err)
		}
		p.indexBuffer = buf
		p.indexCount = indexCount
	}
	return nil
}

func (p *bindGroupProvider) WriteBuffers(backend gpu.Backend, writes []BufferWrite) error {
	for _, w := range writes {
		buf := p.buffers[w.Binding]
		if buf == nil {
			return fmt.Errorf("%s: no buffer at binding %d", p.label, w.Binding)
		}
		if err := backend.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return fmt.Errorf("failed to write buffer %d of %s: %w", w.Binding, p.label, err)
		}
	}
	return nil
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexFormat() wgpu.IndexFormat {
	return p.indexFormat
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) VertexCount() int {
	return p.vertexCount
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}
