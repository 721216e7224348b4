package pipeline

import (
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string
	shader      shader.Shader

	// GPU objects, populated by the Renderer on registration.
	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts map[int]*wgpu.BindGroupLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: its shader module and fixed-function state.
// The Renderer turns the description into a wgpu.RenderPipeline on registration and stores
// the GPU objects back on the Pipeline.
type Pipeline interface {
	// PipelineKey returns the unique key used to look the pipeline up at draw time.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the WGSL module providing both the vertex and fragment stage.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// RenderPipeline returns the compiled GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the GPU bind group layout for a group index, or nil before registration.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// DepthTestEnabled reports whether fragments are depth tested.
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	DepthWriteEnabled() bool

	// BlendEnabled reports whether the color target uses BlendState.
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order treated as front facing.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state applied when blending is enabled.
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the compiled GPU pipeline.
	//
	// Parameters:
	//   - rp: the compiled pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// SetBindGroupLayout stores the GPU bind group layout of a group index.
	//
	// Parameters:
	//   - group: the @group index
	//   - bgl: the layout
	SetBindGroupLayout(group int, bgl *wgpu.BindGroupLayout)

	// Release frees the GPU pipeline. Bind group layouts are shared between pipelines
	// and owned by the renderer backend, so they are only forgotten here.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline description.
// Depth testing and writing are enabled, culling is disabled and blending is off by default.
//
// Parameters:
//   - pipelineKey: the unique key for the pipeline
//   - opts: variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		bindGroupLayouts:  make(map[int]*wgpu.BindGroupLayout),
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	return p.bindGroupLayouts[group]
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetBindGroupLayout(group int, bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayouts[group] = bgl
}

func (p *pipeline) Release() {
	for g := range p.bindGroupLayouts {
		delete(p.bindGroupLayouts, g)
	}
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
