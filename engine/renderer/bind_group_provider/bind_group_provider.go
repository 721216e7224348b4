package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// buffers holds the GPU uniform buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textureViews holds the GPU texture views created for this provider, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// textures holds the GPU textures backing textureViews, keyed by binding index.
	textures map[int]*wgpu.Texture
	// samplers holds the GPU samplers created for this provider, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// The following fields are specific to vertex providers (merged geometry and per-instance data).

	// vertexBuffer is the GPU vertex buffer created for this provider, or nil if not initialized with the Renderer.
	// For geometry it also holds the index region starting at indexOffset.
	vertexBuffer *wgpu.Buffer
	// vertexBufferSize is the allocated byte size of vertexBuffer.
	vertexBufferSize uint64
	// indexOffset is the byte offset of the index region inside vertexBuffer.
	indexOffset uint64
	// indexCount is the number of 32-bit indices in the index region.
	indexCount uint32
}

// BindGroupProvider defines the interface for components that require GPU resources.
// Components (Camera, Material, the registry's geometry and instance records) hold a BindGroupProvider
// to describe their GPU binding requirements. The Renderer then uses this provider to initialize and update GPU resources.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a debug label
//  2. Renderer.InitBindGroup / InitMeshBuffers / InitInstanceBuffer populate GPU resources
//  3. Renderer.WriteBuffers updates uniform or vertex data
//  4. Renderer.DrawCall reads the bind group and vertex buffers
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	// It will clean up all buffers and bind groups, and remove them from the map they belonged to.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the uniform buffer at a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil if not found
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil if not found
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil if not found
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the vertex buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	VertexBuffer() *wgpu.Buffer

	// VertexBufferSize returns the allocated size of the vertex buffer in bytes.
	// For instance buffers this is the current capacity.
	//
	// Returns:
	//   - uint64: the size in bytes
	VertexBufferSize() uint64

	// IndexOffset returns the byte offset of the index region inside the vertex buffer.
	//
	// Returns:
	//   - uint64: the offset in bytes
	IndexOffset() uint64

	// IndexCount returns the number of 32-bit indices stored after IndexOffset.
	//
	// Returns:
	//   - uint32: the index count
	IndexCount() uint32

	// SetBindGroup sets the bind group for shader binding.
	//
	// Parameters:
	//   - bg: the bind group to set
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer sets a uniform buffer at a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer to set
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture sets the texture and its view at a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the texture backing the view
	//   - tv: the texture view to set
	SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView)

	// SetSampler sets a sampler at a specific binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to set
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer replaces the vertex buffer and records its allocated size.
	// A previously held vertex buffer is released.
	//
	// Parameters:
	//   - buf: the vertex buffer
	//   - size: the allocated size in bytes
	SetVertexBuffer(buf *wgpu.Buffer, size uint64)

	// SetIndexRegion records where the index region starts inside the vertex buffer and how many indices it holds.
	//
	// Parameters:
	//   - offset: byte offset of the first index
	//   - count: number of 32-bit indices
	SetIndexRegion(offset uint64, count uint32)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label for the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		textures:     make(map[int]*wgpu.Texture),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) VertexBufferSize() uint64 {
	return p.vertexBufferSize
}

func (p *bindGroupProvider) IndexOffset() uint64 {
	return p.indexOffset
}

func (p *bindGroupProvider) IndexCount() uint32 {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView) {
	if p.textureViews == nil {
		p.textureViews = make(map[int]*wgpu.TextureView)
	}
	if p.textures == nil {
		p.textures = make(map[int]*wgpu.Texture)
	}
	p.textures[binding] = tex
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	if p.samplers == nil {
		p.samplers = make(map[int]*wgpu.Sampler)
	}
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer, size uint64) {
	if p.vertexBuffer != nil && p.vertexBuffer != buf {
		p.vertexBuffer.Release()
	}
	p.vertexBuffer = buf
	p.vertexBufferSize = size
}

func (p *bindGroupProvider) SetIndexRegion(offset uint64, count uint32) {
	p.indexOffset = offset
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.textures {
		if tex != nil {
			tex.Release()
		}
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	p.vertexBufferSize = 0
	p.indexOffset = 0
	p.indexCount = 0
}
