package physics

import "github.com/go-gl/mathgl/mgl32"

// contact is a ball overlapping a static cuboid.
type contact struct {
	normal      mgl32.Vec3 // unit vector from the box surface towards the ball center
	penetration float32
}

// ballCuboidContact tests a ball against an axis-aligned box. It returns false when they do not overlap.
func ballCuboidContact(center mgl32.Vec3, radius float32, boxCenter, halfExtents mgl32.Vec3) (contact, bool) {
	local := center.Sub(boxCenter)
	closest := mgl32.Vec3{
		mgl32.Clamp(local.X(), -halfExtents.X(), halfExtents.X()),
		mgl32.Clamp(local.Y(), -halfExtents.Y(), halfExtents.Y()),
		mgl32.Clamp(local.Z(), -halfExtents.Z(), halfExtents.Z()),
	}

	delta := local.Sub(closest)
	dist := delta.Len()
	if dist > 0 {
		if dist >= radius {
			return contact{}, false
		}
		return contact{normal: delta.Mul(1 / dist), penetration: radius - dist}, true
	}

	// Center inside the box: leave through the nearest face.
	best, axis, sign := float32(-1), 0, float32(1)
	for i := 0; i < 3; i++ {
		for _, s := range [2]float32{1, -1} {
			depth := halfExtents[i] - s*local[i]
			if best < 0 || depth < best {
				best, axis, sign = depth, i, s
			}
		}
	}
	var normal mgl32.Vec3
	normal[axis] = sign
	return contact{normal: normal, penetration: best + radius}, true
}
