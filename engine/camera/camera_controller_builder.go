package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - position: the starting position
//
// Returns:
//   - CameraControllerOption: a function that applies the position option
func WithPosition(position mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = position
	}
}

// WithOrientation sets the initial yaw and pitch in degrees.
//
// Parameters:
//   - yaw: heading in degrees
//   - pitch: elevation in degrees, clamped to [-89, 89]
//
// Returns:
//   - CameraControllerOption: a function that applies the orientation option
func WithOrientation(yaw, pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
		cc.pitch = pitch
	}
}

// WithSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: the movement speed
//
// Returns:
//   - CameraControllerOption: a function that applies the speed option
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithSensitivity sets the mouse look sensitivity.
//
// Parameters:
//   - sensitivity: degrees of rotation per unit of normalized cursor offset
//
// Returns:
//   - CameraControllerOption: a function that applies the sensitivity option
func WithSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensitivity = sensitivity
	}
}
