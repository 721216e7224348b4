package physics

import "github.com/go-gl/mathgl/mgl32"

// BodyHandle identifies a body inside the World that created it.
type BodyHandle int

// Collider is the shape attached to a rigid body. Ball and Cuboid are the supported shapes.
type Collider interface {
	// Bounds returns the axis-aligned bounding box of the shape centered at position.
	//
	// Parameters:
	//   - position: the body position
	//
	// Returns:
	//   - mgl32.Vec3: the minimum corner
	//   - mgl32.Vec3: the maximum corner
	Bounds(position mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3)
}

// Ball is a sphere collider.
type Ball struct {
	Radius float32
}

// Cuboid is an axis-aligned box collider described by its half extents.
type Cuboid struct {
	HalfExtents mgl32.Vec3
}

var (
	_ Collider = Ball{}
	_ Collider = Cuboid{}
)

func (b Ball) Bounds(position mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	r := mgl32.Vec3{b.Radius, b.Radius, b.Radius}
	return position.Sub(r), position.Add(r)
}

func (c Cuboid) Bounds(position mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	return position.Sub(c.HalfExtents), position.Add(c.HalfExtents)
}

// RigidBody is the state of one simulated body.
// Static bodies (Dynamic false) never move and only act as contact surfaces.
type RigidBody struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Dynamic     bool
	Collider    Collider
	Restitution float32
}

// Transform returns the body's world transform (translation only; bodies do not rotate).
func (b RigidBody) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(b.Position.X(), b.Position.Y(), b.Position.Z())
}
