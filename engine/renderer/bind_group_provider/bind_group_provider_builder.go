package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithVertexBuffer sets the vertex buffer and its allocated size.
//
// Parameters:
//   - buf: the vertex buffer
//   - size: the allocated size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that sets the vertex buffer
func WithVertexBuffer(buf *wgpu.Buffer, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = buf
		p.vertexBufferSize = size
	}
}

// WithIndexRegion sets the index region of a merged geometry buffer.
//
// Parameters:
//   - offset: byte offset of the first index
//   - count: number of 32-bit indices
//
// Returns:
//   - BindGroupProviderOption: a function that sets the index region
func WithIndexRegion(offset uint64, count uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexOffset = offset
		p.indexCount = count
	}
}
