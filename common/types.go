// Package common contains plain data types and helpers shared across the engine. They are not interface-wrapped structs,
// just the values that cross package boundaries and get uploaded to the GPU.
package common

import "unsafe"

const (
	// VertexStride is the byte size of one Vertex as laid out in the vertex buffer.
	VertexStride = uint64(unsafe.Sizeof(Vertex{}))
	// UniformSize is the byte size of the UniformPayload uploaded each frame.
	UniformSize = uint64(unsafe.Sizeof(UniformPayload{}))
)

// Vertex is one element of the vertex buffer. The layout matches the shader's vertex input:
// location 0 is Position at offset 0 and location 1 is Color at offset 16, both four float32 components.
type Vertex struct {
	// Position is the homogeneous object-space position (x, y, z, w).
	Position [4]float32
	// Color is the linear RGBA color interpolated across the primitive.
	Color [4]float32
}

// UniformPayload is the per-frame uniform block bound at group 0, binding 0.
type UniformPayload struct {
	// MVP is projection * view * model, column-major.
	MVP Mat4
}

// Bytes returns a view of the payload suitable for a buffer write.
func (u *UniformPayload) Bytes() []byte {
	return StructToBytes(u)
}
