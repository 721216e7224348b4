package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackendImpl is the WebGPU implementation of the renderer backend.
type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	width, height        int
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	// layoutCache shares one GPU bind group layout between pipelines declaring identical groups,
	// so a bind group created against one pipeline binds on every compatible pipeline.
	layoutCache map[string]*wgpu.BindGroupLayout

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// wgpuRendererBackend is the set of GPU operations the Renderer delegates to the WebGPU backend.
type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and the MSAA/depth attachments for a framebuffer size.
	// A zero dimension is ignored and the previous configuration kept.
	ConfigureSurface(width, height int)

	// SetPresentMode changes the present mode used on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline compiles the pipeline's shader and creates its GPU pipeline and bind group layouts.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads merged vertex+index data into a single buffer usable as both vertex and index buffer.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, data []byte, indexOffset uint64, indexCount uint32) error

	// InitInstanceBuffer allocates an instance vertex buffer of exactly size bytes, replacing any previous one.
	InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error

	// InitBindGroup creates missing uniform buffers and the bind group for a layout.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads RGBA pixels into a sampled texture at a binding.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler at a binding, filling unset fields with linear/repeat defaults.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues buffer writes.
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the surface texture and opens the main render pass.
	BeginFrame() error

	// DrawCall records one instanced indexed draw of an index range.
	DrawCall(p pipeline.Pipeline, mesh, instances bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the command buffer.
	EndFrame()

	// Present presents the acquired surface texture.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the WebGPU instance, surface, adapter, device and queue.
// The calling goroutine is locked to its OS thread. Adapter or device acquisition failure panics.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor wgpu.Color) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  clearColor,
		layoutCache: make(map[string]*wgpu.BindGroupLayout),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to acquire adapter: %v", err))
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to acquire device: %v", err))
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configureSurface(width, height)
}

// configureSurface does the work of ConfigureSurface; b.mu must be held.
func (b *wgpuRendererBackendImpl) configureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.width, b.height = width, height

	capabilities := b.surface.GetCapabilities(b.adapter)
	if b.surfaceFormat == nil {
		b.surfaceFormat = &capabilities.Formats[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	var err error
	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		b.msaaTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(fmt.Sprintf("renderer: failed to create MSAA texture: %v", err))
		}
		b.msaaTextureView, err = b.msaaTexture.CreateView(nil)
		if err != nil {
			panic(fmt.Sprintf("renderer: failed to create MSAA view: %v", err))
		}
	}

	// Depth texture sample count must match the color attachment.
	b.depthTexture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create depth texture: %v", err))
	}
	b.depthTextureView, err = b.depthTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create depth view: %v", err))
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

// releaseAttachments frees the size-dependent MSAA and depth attachments; b.mu must be held.
func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.presentMode = mode.toWGPU()
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := p.Shader()
	if s == nil {
		return fmt.Errorf("pipeline %s: no shader set", p.PipelineKey())
	}
	if b.surfaceFormat == nil {
		return fmt.Errorf("pipeline %s: surface must be configured before registering pipelines", p.PipelineKey())
	}

	module, err := b.device.CreateShaderModule(s.Module())
	if err != nil {
		return fmt.Errorf("pipeline %s: failed to compile shader: %w", p.PipelineKey(), err)
	}
	defer module.Release()

	descriptors := s.BindGroupLayoutDescriptors()
	groups := make([]int, 0, len(descriptors))
	for g := range descriptors {
		groups = append(groups, g)
	}
	sort.Ints(groups)

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, len(groups))
	for i, g := range groups {
		if g != i {
			return fmt.Errorf("pipeline %s: bind groups must be contiguous from 0, found group %d at position %d", p.PipelineKey(), g, i)
		}
		desc := descriptors[g]
		key := fmt.Sprint(desc.Entries)
		layout, ok := b.layoutCache[key]
		if !ok {
			layout, err = b.device.CreateBindGroupLayout(&desc)
			if err != nil {
				return fmt.Errorf("pipeline %s: failed to create bind group layout for group %d: %w", p.PipelineKey(), g, err)
			}
			b.layoutCache[key] = layout
		}
		bindGroupLayouts[i] = layout
		p.SetBindGroupLayout(g, layout)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: failed to create layout: %w", p.PipelineKey(), err)
	}
	defer pipelineLayout.Release()

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: s.VertexEntryPoint(),
			Buffers:    s.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: s.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: failed to create render pipeline: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, data []byte, indexOffset uint64, indexCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(data) == 0 {
		provider.SetIndexRegion(indexOffset, indexCount)
		return nil
	}
	if indexOffset%model.IndexSize != 0 {
		return fmt.Errorf("%s: index offset %d is not 4-byte aligned", provider.Label(), indexOffset)
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Geometry Buffer",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create geometry buffer: %w", provider.Label(), err)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return fmt.Errorf("%s: failed to upload geometry: %w", provider.Label(), err)
	}

	provider.SetVertexBuffer(buf, uint64(len(data)))
	provider.SetIndexRegion(indexOffset, indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Instance Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create instance buffer of %d bytes: %w", provider.Label(), size, err)
	}
	provider.SetVertexBuffer(buf, size)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("%s: texture binding %d has no texture view, call InitTextureView first", provider.Label(), binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("%s: sampler binding %d has no sampler, call InitSampler first", provider.Label(), binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: samp}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s Uniform %d", provider.Label(), binding),
					Size:  entry.Buffer.MinBindingSize,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if err != nil {
					return fmt.Errorf("%s: failed to create uniform buffer %d: %w", provider.Label(), binding, err)
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create bind group: %w", provider.Label(), err)
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	extent := wgpu.Extent3D{
		Width:              stagingData.Width,
		Height:             stagingData.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         provider.Label() + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create texture: %w", provider.Label(), err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture: tex,
			Aspect:  wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&extent,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("%s: failed to create texture view: %w", provider.Label(), err)
	}
	provider.SetTexture(bindingKey, tex, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerStagingData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(samplerStagingData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(samplerStagingData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(samplerStagingData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerStagingData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   samplerStagingData.LodMinClamp,
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create sampler: %w", provider.Label(), err)
	}
	provider.SetSampler(bindingKey, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if w.Binding == bind_group_provider.VertexBindingSlot {
			buf = w.Provider.VertexBuffer()
		}
		if buf == nil || len(w.Data) == 0 {
			continue
		}
		if err := b.queue.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			errs = append(errs, fmt.Errorf("%s binding %d: %w", w.Provider.Label(), w.Binding, err))
		}
	}
	return errors.Join(errs...)
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		// Lost or outdated: reconfigure at the last known size and drop this frame.
		b.configureSurface(b.width, b.height)
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(
	p pipeline.Pipeline,
	mesh, instances bind_group_provider.BindGroupProvider,
	firstIndex, indexCount, instanceCount uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	if mesh.VertexBuffer() == nil || instances.VertexBuffer() == nil {
		return fmt.Errorf("%s: geometry or instance buffer not initialized", mesh.Label())
	}

	b.framePass.SetPipeline(p.RenderPipeline())
	for i, bg := range bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	indexBytes := uint64(mesh.IndexCount()) * model.IndexSize
	b.framePass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, mesh.IndexOffset())
	b.framePass.SetVertexBuffer(1, instances.VertexBuffer(), 0, uint64(instanceCount)*model.GPUInstanceSize)
	b.framePass.SetIndexBuffer(mesh.VertexBuffer(), wgpu.IndexFormatUint32, mesh.IndexOffset(), indexBytes)
	b.framePass.DrawIndexed(indexCount, instanceCount, firstIndex, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseAttachments()
	for key, layout := range b.layoutCache {
		layout.Release()
		delete(b.layoutCache, key)
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
