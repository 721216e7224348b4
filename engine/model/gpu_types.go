package model

import (
	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Layout sizes of the GPU vertex types in bytes.
const (
	GPUVertexSize   = 32
	GPUInstanceSize = 64
	IndexSize       = 4
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct (locations 0..2) of the instanced shaders.
// Size: 32 bytes, tightly packed.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate (8 bytes)
	Normal   [3]float32 // offset 20: vertex normal (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return GPUVertexSize
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	return common.CheckSize("GPUVertex", g.appendTo(make([]byte, 0, GPUVertexSize)), GPUVertexSize)
}

func (g *GPUVertex) appendTo(dst []byte) []byte {
	dst = common.AppendFloat32s(dst, g.Position[:]...)
	dst = common.AppendFloat32s(dst, g.TexCoord[:]...)
	return common.AppendFloat32s(dst, g.Normal[:]...)
}

// GPUInstance is the GPU-aligned per-instance transform.
// The column-major matrix is spread across four vec4 attributes at locations 3..6 with instance step mode.
// Size: 64 bytes.
type GPUInstance struct {
	Transform mgl32.Mat4 // offset 0: model matrix, column-major (64 bytes)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstance) Size() int {
	return GPUInstanceSize
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	return common.CheckSize("GPUInstance", common.AppendMat4(make([]byte, 0, GPUInstanceSize), g.Transform), GPUInstanceSize)
}

// MarshalVertices serializes vertices back to back.
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*GPUVertexSize)
	for i := range vertices {
		buf = vertices[i].appendTo(buf)
	}
	return common.CheckSize("[]GPUVertex", buf, len(vertices)*GPUVertexSize)
}

// MarshalInstances serializes instance transforms back to back, in sequence order.
func MarshalInstances(instances []InstanceData) []byte {
	buf := make([]byte, 0, len(instances)*GPUInstanceSize)
	for i := range instances {
		buf = common.AppendMat4(buf, instances[i].Transform)
	}
	return common.CheckSize("[]GPUInstance", buf, len(instances)*GPUInstanceSize)
}
