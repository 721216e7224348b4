package physics

import "github.com/go-gl/mathgl/mgl32"

// WorldBuilderOption is a functional option for configuring a World via NewWorld.
type WorldBuilderOption func(*world)

// WithGravity sets the gravity vector.
//
// Parameters:
//   - g: acceleration in world units per second squared
//
// Returns:
//   - WorldBuilderOption: a function that applies the gravity option to a world
func WithGravity(g mgl32.Vec3) WorldBuilderOption {
	return func(w *world) {
		w.gravity = g
	}
}

// WithTimestep sets the fixed step length in seconds.
//
// Parameters:
//   - dt: the step length, ignored unless positive
//
// Returns:
//   - WorldBuilderOption: a function that applies the timestep option to a world
func WithTimestep(dt float32) WorldBuilderOption {
	return func(w *world) {
		if dt > 0 {
			w.timestep = dt
		}
	}
}

// WithIterations sets the number of contact resolution passes per step.
//
// Parameters:
//   - n: the pass count, at least 1
//
// Returns:
//   - WorldBuilderOption: a function that applies the iterations option to a world
func WithIterations(n int) WorldBuilderOption {
	return func(w *world) {
		w.iterations = max(n, 1)
	}
}

// Ground returns the static ground slab of the demo scene: a 200 x 0.2 x 200 cuboid at the origin.
func Ground() RigidBody {
	return RigidBody{
		Collider: Cuboid{HalfExtents: mgl32.Vec3{100, 0.1, 100}},
	}
}

// DropBall returns a dynamic ball of radius 0.5 and restitution 0.7 held at the given height.
func DropBall(height float32) RigidBody {
	return RigidBody{
		Position:    mgl32.Vec3{0, height, 0},
		Dynamic:     true,
		Collider:    Ball{Radius: 0.5},
		Restitution: 0.7,
	}
}
