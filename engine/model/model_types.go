package model

import (
	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Submesh is a contiguous index range drawn with one material.
// Index ranges of the submeshes of one model are disjoint and consecutive in load order.
type Submesh struct {
	// Name is the source object name.
	Name string

	// FirstIndex is the position of the first index of the range.
	FirstIndex uint32

	// IndexCount is the number of indices in the range.
	IndexCount uint32

	// MaterialID indexes the owning model's material list.
	MaterialID int
}

// InstanceData is one placement of a shared model.
type InstanceData struct {
	// Transform composes position, rotation and scale.
	Transform mgl32.Mat4
}

// NewInstance builds an InstanceData from a position, Euler rotation in radians and scale.
func NewInstance(position, rotation, scale mgl32.Vec3) InstanceData {
	return InstanceData{Transform: common.BuildModelMatrix(position, rotation, scale)}
}
