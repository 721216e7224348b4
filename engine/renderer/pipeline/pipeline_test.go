package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("instanced_colored")

	assert.Equal(t, "instanced_colored", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.BindGroupLayout(0))
}

func TestPipelineOptions(t *testing.T) {
	s := shader.NewShader("instanced_textured", shader.InstancedTexturedSource)
	p := NewPipeline("instanced_textured",
		WithShader(s),
		WithCullMode(wgpu.CullModeBack),
		WithDepthWrite(false),
		WithBlend(true),
	)

	assert.Same(t, s, p.Shader())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.NotPanics(t, p.Release)
}
