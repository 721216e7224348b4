package material

import (
	"github.com/Carmen-Shannon/oxy-instancer/common"
)

// GPUColorUniformSize is the byte size of GPUColorUniform.
const GPUColorUniformSize = 16

// GPUColorUniform is the GPU-aligned uniform read by the colored fragment shader at @group(1) @binding(0).
// Matches the WGSL MaterialColor struct layout exactly.
// Size: 16 bytes (one vec4<f32>, std140 aligned).
type GPUColorUniform struct {
	Color [4]float32 // offset 0: RGBA diffuse color (16 bytes)
}

// Size returns the size of the GPUColorUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUColorUniform) Size() int {
	return GPUColorUniformSize
}

// Marshal serializes the GPUColorUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUColorUniform) Marshal() []byte {
	buf := common.AppendFloat32s(make([]byte, 0, GPUColorUniformSize), g.Color[:]...)
	return common.CheckSize("GPUColorUniform", buf, GPUColorUniformSize)
}
