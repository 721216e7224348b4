package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancedColoredLayouts(t *testing.T) {
	s := NewShader("instanced_colored", InstancedColoredSource)

	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)

	geometry := layouts[0]
	assert.Equal(t, wgpu.VertexStepModeVertex, geometry.StepMode)
	assert.Equal(t, uint64(32), geometry.ArrayStride)
	require.Len(t, geometry.Attributes, 3)
	assert.Equal(t, uint64(12), geometry.Attributes[1].Offset)
	assert.Equal(t, uint64(20), geometry.Attributes[2].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, geometry.Attributes[2].Format)

	instance := layouts[1]
	assert.Equal(t, wgpu.VertexStepModeInstance, instance.StepMode)
	assert.Equal(t, uint64(64), instance.ArrayStride)
	require.Len(t, instance.Attributes, 4)
	for i, attr := range instance.Attributes {
		assert.Equal(t, uint32(3+i), attr.ShaderLocation)
		assert.Equal(t, uint64(16*i), attr.Offset)
	}
}

func TestBindGroupLayouts(t *testing.T) {
	colored := NewShader("instanced_colored", InstancedColoredSource)
	camera := colored.BindGroupLayoutDescriptor(0)
	require.Len(t, camera.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, camera.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), camera.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, "camera", colored.BindGroupVarName(0, 0))

	surface := colored.BindGroupLayoutDescriptor(1)
	require.Len(t, surface.Entries, 1)
	assert.Equal(t, uint64(16), surface.Entries[0].Buffer.MinBindingSize)

	textured := NewShader("instanced_textured", InstancedTexturedSource)
	group1 := textured.BindGroupLayoutDescriptor(1)
	require.Len(t, group1.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimension2D, group1.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, group1.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, group1.Entries[1].Sampler.Type)
}

func TestNewShaderRequiresEntryPoints(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	})
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c"
	assert.Equal(t, "a \nb  c", stripComments(src))
}
