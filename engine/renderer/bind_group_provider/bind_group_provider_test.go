package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("crate_instances", WithIndexRegion(96, 3))

	assert.Equal(t, "crate_instances", p.Label())
	assert.Equal(t, uint64(96), p.IndexOffset())
	assert.Equal(t, uint32(3), p.IndexCount())
	assert.Nil(t, p.VertexBuffer())
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("empty", WithVertexBuffer(nil, 64), WithIndexRegion(32, 1))

	assert.NotPanics(t, p.Release)
	assert.Zero(t, p.VertexBufferSize())
	assert.Zero(t, p.IndexOffset())
	assert.Zero(t, p.IndexCount())
}
