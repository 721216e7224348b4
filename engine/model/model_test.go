package model

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() []GPUVertex {
	return []GPUVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
}

func TestNewModelMergesBuffers(t *testing.T) {
	m, err := NewModel(
		WithName("tri"),
		WithGeometry(triangle(), []uint32{0, 1, 2}),
		WithSubmeshes([]Submesh{{FirstIndex: 0, IndexCount: 3}}),
		WithMaterials([]material.Material{material.DefaultMaterial()}),
	)
	require.NoError(t, err)

	assert.Equal(t, uint64(3*GPUVertexSize), m.IndexOffset())
	assert.Equal(t, uint32(3), m.VertexCount())
	assert.Equal(t, uint32(3), m.IndexCount())
	require.Len(t, m.Data(), 3*GPUVertexSize+3*IndexSize)

	indices := m.Data()[m.IndexOffset():]
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(indices[8:12]))
}

func TestNewModelRejectsGaps(t *testing.T) {
	_, err := NewModel(
		WithGeometry(triangle(), []uint32{0, 1, 2, 0, 1, 2}),
		WithSubmeshes([]Submesh{{FirstIndex: 0, IndexCount: 3}, {FirstIndex: 4, IndexCount: 2}}),
		WithMaterials([]material.Material{material.DefaultMaterial()}),
	)
	assert.Error(t, err)
}

func TestNewModelRejectsBadReferences(t *testing.T) {
	_, err := NewModel(
		WithGeometry(triangle(), []uint32{0, 1, 3}),
		WithSubmeshes([]Submesh{{FirstIndex: 0, IndexCount: 3}}),
		WithMaterials([]material.Material{material.DefaultMaterial()}),
	)
	assert.Error(t, err)

	_, err = NewModel(
		WithGeometry(triangle(), []uint32{0, 1, 2}),
		WithSubmeshes([]Submesh{{FirstIndex: 0, IndexCount: 3, MaterialID: 1}}),
		WithMaterials([]material.Material{material.DefaultMaterial()}),
	)
	assert.Error(t, err)
}

func TestMarshalInstances(t *testing.T) {
	instances := []InstanceData{
		NewInstance(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}),
		NewInstance(mgl32.Vec3{4, 5, 6}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}),
	}
	buf := MarshalInstances(instances)
	require.Len(t, buf, 2*GPUInstanceSize)

	single := (&GPUInstance{Transform: instances[1].Transform}).Marshal()
	assert.Equal(t, single, buf[GPUInstanceSize:])
	assert.Empty(t, MarshalInstances(nil))
}

func TestGPUVertexLayout(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, 2, 3}, TexCoord: [2]float32{4, 5}, Normal: [3]float32{6, 7, 8}}
	buf := v.Marshal()
	require.Len(t, buf, v.Size())
	assert.Equal(t, MarshalVertices([]GPUVertex{v}), buf)
}
