package camera

import "github.com/go-gl/mathgl/mgl32"

// Direction is a movement direction relative to the controller's basis.
type Direction int

const (
	// DirectionForward moves along the forward vector.
	DirectionForward Direction = iota
	// DirectionBackward moves against the forward vector.
	DirectionBackward
	// DirectionLeft moves against the right vector.
	DirectionLeft
	// DirectionRight moves along the right vector.
	DirectionRight
	// DirectionUp moves along the up vector.
	DirectionUp
	// DirectionDown moves against the up vector.
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unknown"
	}
}

// CameraController defines a free-fly camera controller in a Z-up world.
// The controller owns the camera position and orientation. Orientation is expressed as yaw
// (degrees around +Z, wrapped to [0, 360)) and pitch (degrees above the XY plane, clamped
// to [-89, 89]); the forward, right and up basis is derived from them and kept orthonormal.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Yaw returns the heading in degrees, in [0, 360).
	//
	// Returns:
	//   - float32: the yaw angle
	Yaw() float32

	// Pitch returns the elevation in degrees, in [-89, 89].
	//
	// Returns:
	//   - float32: the pitch angle
	Pitch() float32

	// Forward returns the unit view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Forward() mgl32.Vec3

	// Right returns the unit right vector.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// Up returns the unit up vector of the camera basis.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Spin rotates the camera by yaw and pitch deltas in degrees and rebuilds the basis.
	// Yaw wraps into [0, 360) and pitch is clamped to [-89, 89].
	//
	// Parameters:
	//   - dYaw: yaw delta in degrees
	//   - dPitch: pitch delta in degrees
	Spin(dYaw, dPitch float32)

	// Move translates the camera along one of its basis directions.
	//
	// Parameters:
	//   - direction: the direction to move in
	//   - amount: the distance in world units
	Move(direction Direction, amount float32)

	// Speed returns the movement speed in world units per second.
	//
	// Returns:
	//   - float32: the movement speed
	Speed() float32

	// Sensitivity returns the mouse look sensitivity in degrees per unit of normalized cursor offset.
	//
	// Returns:
	//   - float32: the look sensitivity
	Sensitivity() float32
}
