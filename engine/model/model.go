package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name        string
	data        []byte
	indexOffset uint64
	vertexCount uint32
	indexCount  uint32
	submeshes   []Submesh
	materials   []material.Material
}

// Model defines the interface for a loaded mesh ready for GPU upload.
// A Model holds one merged byte buffer (vertices first, 32-bit indices appended at IndexOffset),
// the submesh table and the model's materials. It is immutable once built.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Data returns the merged vertex+index bytes.
	//
	// Returns:
	//   - []byte: vertex region followed by the index region
	Data() []byte

	// IndexOffset returns the byte offset separating the vertex region from the index region.
	//
	// Returns:
	//   - uint64: the offset in bytes (a multiple of 4)
	IndexOffset() uint64

	// VertexCount returns the number of vertices in the vertex region.
	//
	// Returns:
	//   - uint32: the vertex count
	VertexCount() uint32

	// IndexCount returns the number of indices in the index region.
	//
	// Returns:
	//   - uint32: the index count
	IndexCount() uint32

	// Submeshes returns the submesh table in load order.
	//
	// Returns:
	//   - []Submesh: the submeshes
	Submeshes() []Submesh

	// Materials returns the model's materials. Submesh.MaterialID indexes this slice.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material
}

var _ Model = &model{}

// NewModel creates a new Model from vertices, indices and submeshes.
// It validates that every index references a vertex, that submesh ranges are consecutive
// and disjoint, and that every material id is in range.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the built model
//   - error: if the geometry is inconsistent
func NewModel(options ...ModelBuilderOption) (Model, error) {
	b := &modelBuilder{}
	for _, opt := range options {
		opt(b)
	}

	for i, idx := range b.indices {
		if int(idx) >= len(b.vertices) {
			return nil, fmt.Errorf("model %q: index %d at position %d out of range (%d vertices)", b.name, idx, i, len(b.vertices))
		}
	}

	next := uint32(0)
	for i, sm := range b.submeshes {
		if sm.FirstIndex != next {
			return nil, fmt.Errorf("model %q: submesh %d starts at %d, expected %d", b.name, i, sm.FirstIndex, next)
		}
		if sm.MaterialID < 0 || sm.MaterialID >= len(b.materials) {
			return nil, fmt.Errorf("model %q: submesh %d material id %d out of range (%d materials)", b.name, i, sm.MaterialID, len(b.materials))
		}
		next += sm.IndexCount
	}
	if int(next) != len(b.indices) {
		return nil, fmt.Errorf("model %q: submeshes cover %d of %d indices", b.name, next, len(b.indices))
	}

	vertexBytes := MarshalVertices(b.vertices)
	data := common.AppendUint32s(vertexBytes, b.indices...)

	return &model{
		name:        b.name,
		data:        data,
		indexOffset: uint64(len(vertexBytes)),
		vertexCount: uint32(len(b.vertices)),
		indexCount:  uint32(len(b.indices)),
		submeshes:   b.submeshes,
		materials:   b.materials,
	}, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Data() []byte {
	return m.data
}

func (m *model) IndexOffset() uint64 {
	return m.indexOffset
}

func (m *model) VertexCount() uint32 {
	return m.vertexCount
}

func (m *model) IndexCount() uint32 {
	return m.indexCount
}

func (m *model) Submeshes() []Submesh {
	return m.submeshes
}

func (m *model) Materials() []material.Material {
	return m.materials
}
