package bind_group_provider

// BufferWrite is one write of Data into the buffer at Binding, starting at byte Offset.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}
