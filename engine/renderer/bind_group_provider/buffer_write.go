package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a provider at a given byte offset.
// Binding selects a uniform buffer; VertexBindingSlot targets the provider's vertex buffer instead.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// VertexBindingSlot is the Binding value that addresses a provider's vertex buffer.
const VertexBindingSlot = -1
