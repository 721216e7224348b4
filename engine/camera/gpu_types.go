package camera

import (
	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSize is the byte size of GPUCameraUniform.
const GPUCameraUniformSize = 80

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct bound at @group(0) @binding(0) in the instanced shaders.
// Size: 80 bytes.
type GPUCameraUniform struct {
	ViewProj mgl32.Mat4 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Position mgl32.Vec4 // offset 64: world-space camera position, w = 1 (vec4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return GPUCameraUniformSize
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := common.AppendMat4(make([]byte, 0, GPUCameraUniformSize), g.ViewProj)
	buf = common.AppendFloat32s(buf, g.Position[:]...)
	return common.CheckSize("GPUCameraUniform", buf, GPUCameraUniformSize)
}
