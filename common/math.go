package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a right-handed perspective projection matrix.
// Depth is mapped to the WebGPU clip space range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// ViewFromBasis builds a right-handed view matrix directly from an orthonormal camera basis.
// No look-at target is involved; forward maps to -Z in view space.
//
// Parameters:
//   - position: camera position in world space
//   - forward, right, up: orthonormal camera basis in world space
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func ViewFromBasis(position, forward, right, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4{
		right.X(), up.X(), -forward.X(), 0,
		right.Y(), up.Y(), -forward.Y(), 0,
		right.Z(), up.Z(), -forward.Z(), 0,
		-right.Dot(position), -up.Dot(position), forward.Dot(position), 1,
	}
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll).
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func BuildModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	cx := float32(math.Cos(float64(rotation.X())))
	sx := float32(math.Sin(float64(rotation.X())))
	cy := float32(math.Cos(float64(rotation.Y())))
	sy := float32(math.Sin(float64(rotation.Y())))
	cz := float32(math.Cos(float64(rotation.Z())))
	sz := float32(math.Sin(float64(rotation.Z())))

	// R = Ry * Rx * Rz, column-major
	return mgl32.Mat4{
		(cy*cz + sy*sx*sz) * scale.X(), (cx * sz) * scale.X(), (-sy*cz + cy*sx*sz) * scale.X(), 0,
		(cy*-sz + sy*sx*cz) * scale.Y(), (cx * cz) * scale.Y(), (sy*sz + cy*sx*cz) * scale.Y(), 0,
		(sy * cx) * scale.Z(), (-sx) * scale.Z(), (cy * cx) * scale.Z(), 0,
		position.X(), position.Y(), position.Z(), 1,
	}
}

// WrapDegrees maps an angle in degrees into [0, 360).
func WrapDegrees(deg float32) float32 {
	deg = float32(math.Mod(float64(deg), 360))
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}
