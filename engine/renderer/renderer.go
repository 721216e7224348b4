package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingPipelines     []pipeline.Pipeline
	clearColor           wgpu.Color
}

// SurfaceSource is the part of a window the Renderer needs to create and size its surface.
type SurfaceSource interface {
	// SurfaceDescriptor returns the platform surface descriptor for the window.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device, the swapchain and a cache of render pipelines keyed by
// pipeline key. Mesh, instance and material resources are created through it and held by
// bind group providers owned by the caller.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for one or more pipelines and caches them by PipelineKey.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size.
	// A zero width or height (minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads merged geometry (vertices followed by 32-bit indices) into one GPU buffer.
	//
	// Parameters:
	//   - provider: the BindGroupProvider that will own the buffer
	//   - data: the merged vertex and index bytes
	//   - indexOffset: byte offset where the indices begin
	//   - indexCount: number of indices
	//
	// Returns:
	//   - error: an error if the buffer cannot be created or written
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, data []byte, indexOffset uint64, indexCount uint32) error

	// InitInstanceBuffer allocates an instance buffer of exactly size bytes, releasing the previous one.
	//
	// Parameters:
	//   - provider: the BindGroupProvider that will own the buffer
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - error: an error if the buffer cannot be created
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error

	// InitBindGroup creates the bind group for one @group of a registered pipeline.
	// Uniform buffers missing from the provider are created at the size the shader declares;
	// textures and samplers must already be set on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - pipelineKey: the registered pipeline whose layout is used
	//   - group: the @group index
	//
	// Returns:
	//   - error: ErrPipelineNotFound or a creation error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error

	// InitTextureView uploads RGBA8 pixels into a texture and stores its view on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture on
	//   - bindingKey: the binding index of the texture
	//   - stagingData: the decoded pixels and dimensions
	//
	// Returns:
	//   - error: an error if the texture cannot be created
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the binding index of the sampler
	//   - samplerStagingData: sampler settings; zero fields take defaults
	//
	// Returns:
	//   - error: an error if the sampler cannot be created
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// InitMaterial creates the GPU resources of a material (color uniform, or texture and sampler)
	// and attaches the resulting bind group provider to it. Already resolved materials are left alone.
	//
	// Parameters:
	//   - m: the Material to resolve
	//
	// Returns:
	//   - error: an error if the texture cannot be decoded or a GPU resource cannot be created
	InitMaterial(m material.Material) error

	// WriteBuffers queues writes into uniform or vertex buffers.
	//
	// Parameters:
	//   - writes: the writes to queue
	//
	// Returns:
	//   - error: the joined write errors, if any
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the next surface texture and opens the main render pass.
	//
	// Returns:
	//   - error: ErrSurfaceLost when the surface had to be reconfigured; the frame must be skipped
	BeginFrame() error

	// DrawCall records an instanced draw of an index range of a mesh.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - mesh: the provider holding the merged geometry buffer
	//   - instances: the provider holding the instance buffer
	//   - firstIndex: the first index of the range
	//   - indexCount: the number of indices in the range
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: the bind group providers, indexed by @group
	//
	// Returns:
	//   - error: ErrPipelineNotFound, ErrNoFrame or a buffer error
	DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the recorded commands.
	EndFrame()

	// Present presents the current surface texture.
	Present()

	// Release frees every registered pipeline and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for a window surface. The surface is configured at the
// window's framebuffer size and queued pipelines are registered.
// It panics if the GPU cannot be initialized or a queued pipeline fails to build.
//
// Parameters:
//   - backendType: the backend to use
//   - surface: the window to render into
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the initialized renderer
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		clearColor:    wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}

	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(surface.Width(), surface.Height())

	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		panic(fmt.Sprintf("renderer: %v", err))
	}
	r.pendingPipelines = nil
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, data []byte, indexOffset uint64, indexCount uint32) error {
	return r.backend.InitMeshBuffers(provider, data, indexOffset, indexCount)
}

func (r *renderer) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error {
	return r.backend.InitInstanceBuffer(provider, size)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, pipelineKey string, group int) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, pipelineKey)
	}
	layout := p.BindGroupLayout(group)
	if layout == nil {
		return fmt.Errorf("pipeline %s has no bind group layout for group %d", pipelineKey, group)
	}
	return r.backend.InitBindGroup(provider, layout, p.Shader().BindGroupLayoutDescriptor(group))
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) InitMaterial(m material.Material) error {
	if m.Resolved() {
		return nil
	}

	provider := bind_group_provider.NewBindGroupProvider(m.Name() + " Material")
	fail := func(err error) error {
		provider.Release()
		return fmt.Errorf("material %q: %w", m.Name(), err)
	}

	switch m.Kind() {
	case material.KindTexturedModel:
		staging, err := m.Texture().Decode()
		if err != nil {
			return fail(err)
		}
		if err := r.InitTextureView(provider, 0, *staging); err != nil {
			return fail(err)
		}
		if err := r.InitSampler(provider, 1, common.SamplerStagingData{}); err != nil {
			return fail(err)
		}
		if err := r.InitBindGroup(provider, m.PipelineKey(), 1); err != nil {
			return fail(err)
		}
	case material.KindColoredModel:
		if err := r.InitBindGroup(provider, m.PipelineKey(), 1); err != nil {
			return fail(err)
		}
		uniform := material.GPUColorUniform{Color: m.Color()}
		if err := r.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: provider, Binding: 0, Data: uniform.Marshal()},
		}); err != nil {
			return fail(err)
		}
	default:
		return fail(fmt.Errorf("unknown material kind %v", m.Kind()))
	}

	m.SetBindGroupProvider(provider)
	return nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, mesh, instances bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, pipelineKey)
	}
	return r.backend.DrawCall(p, mesh, instances, firstIndex, indexCount, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
