package pipeline

import (
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option for configuring a Pipeline via NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShader sets the WGSL module providing the vertex and fragment stages.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - PipelineBuilderOption: a function that applies the shader option
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithDepthWrite enables or disables depth writes.
//
// Parameters:
//   - enabled: whether fragments write depth
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth write option
func WithDepthWrite(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithBlend enables alpha blending with the default blend state.
func WithBlend(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets the face culling mode.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that applies the cull mode option
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the winding order treated as front facing.
func WithFrontFace(face wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = face
	}
}
