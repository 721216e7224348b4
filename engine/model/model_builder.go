package model

import (
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer/material"
)

// modelBuilder accumulates construction input for NewModel.
type modelBuilder struct {
	name      string
	vertices  []GPUVertex
	indices   []uint32
	submeshes []Submesh
	materials []material.Material
}

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*modelBuilder)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option
func WithName(name string) ModelBuilderOption {
	return func(b *modelBuilder) {
		b.name = name
	}
}

// WithGeometry is an option builder that sets the vertex and 32-bit index data of the Model.
//
// Parameters:
//   - vertices: the vertex list
//   - indices: indices into vertices
//
// Returns:
//   - ModelBuilderOption: a function that applies the geometry option
func WithGeometry(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(b *modelBuilder) {
		b.vertices = vertices
		b.indices = indices
	}
}

// WithSubmeshes is an option builder that sets the submesh table of the Model.
//
// Parameters:
//   - submeshes: consecutive, disjoint index ranges
//
// Returns:
//   - ModelBuilderOption: a function that applies the submeshes option
func WithSubmeshes(submeshes []Submesh) ModelBuilderOption {
	return func(b *modelBuilder) {
		b.submeshes = submeshes
	}
}

// WithMaterials is an option builder that sets the materials of the Model.
//
// Parameters:
//   - materials: the materials indexed by Submesh.MaterialID
//
// Returns:
//   - ModelBuilderOption: a function that applies the materials option
func WithMaterials(materials []material.Material) ModelBuilderOption {
	return func(b *modelBuilder) {
		b.materials = materials
	}
}
