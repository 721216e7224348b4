package physics

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultTimestep is the fixed simulation step in seconds.
	DefaultTimestep float32 = 1.0 / 60.0

	// DefaultIterations is the number of contact resolution passes per step.
	DefaultIterations = 4
)

// DefaultGravity is the world acceleration applied to dynamic bodies.
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

// world is the implementation of the World interface.
type world struct {
	mu *sync.Mutex

	gravity    mgl32.Vec3
	timestep   float32
	iterations int

	bodies []RigidBody
	tick   uint64
}

// World is a fixed-timestep rigid body simulation.
// Dynamic bodies integrate with semi-implicit Euler; contacts are resolved between dynamic
// balls and static cuboids by pushing the ball out and reflecting its normal velocity.
type World interface {
	// AddBody inserts a body and returns its handle.
	//
	// Parameters:
	//   - body: the initial body state
	//
	// Returns:
	//   - BodyHandle: the handle used to query the body
	AddBody(body RigidBody) BodyHandle

	// Body returns the current state of a body.
	//
	// Parameters:
	//   - h: the body handle
	//
	// Returns:
	//   - RigidBody: the body state
	//   - bool: false if the handle is unknown
	Body(h BodyHandle) (RigidBody, bool)

	// Bodies returns the number of bodies in the world.
	Bodies() int

	// Step advances the simulation by exactly one timestep.
	Step()

	// Tick returns the number of steps taken.
	Tick() uint64

	// Timestep returns the step length in seconds.
	Timestep() float32

	// Transform returns the world transform of a body, identity for unknown handles.
	//
	// Parameters:
	//   - h: the body handle
	//
	// Returns:
	//   - mgl32.Mat4: the body transform
	Transform(h BodyHandle) mgl32.Mat4

	// Transforms returns the transforms of all bodies, indexed by handle.
	Transforms() []mgl32.Mat4
}

var _ World = &world{}

// NewWorld creates an empty World with default gravity, timestep and iteration count.
//
// Parameters:
//   - options: variadic list of WorldBuilderOption functions
//
// Returns:
//   - World: the new world
func NewWorld(options ...WorldBuilderOption) World {
	w := &world{
		mu:         &sync.Mutex{},
		gravity:    DefaultGravity,
		timestep:   DefaultTimestep,
		iterations: DefaultIterations,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *world) AddBody(body RigidBody) BodyHandle {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bodies = append(w.bodies, body)
	return BodyHandle(len(w.bodies) - 1)
}

func (w *world) Body(h BodyHandle) (RigidBody, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if int(h) < 0 || int(h) >= len(w.bodies) {
		return RigidBody{}, false
	}
	return w.bodies[h], true
}

func (w *world) Bodies() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

func (w *world) Tick() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

func (w *world) Timestep() float32 {
	return w.timestep
}

func (w *world) Transform(h BodyHandle) mgl32.Mat4 {
	b, ok := w.Body(h)
	if !ok {
		return mgl32.Ident4()
	}
	return b.Transform()
}

func (w *world) Transforms() []mgl32.Mat4 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]mgl32.Mat4, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b.Transform()
	}
	return out
}

func (w *world) Step() {
	w.mu.Lock()
	defer w.mu.Unlock()

	dt := w.timestep
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.Dynamic {
			continue
		}
		b.Velocity = b.Velocity.Add(w.gravity.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}

	// Normal speeds below what gravity adds in one step are treated as resting contact.
	restingSpeed := 2 * w.gravity.Len() * dt

	for range w.iterations {
		for i := range w.bodies {
			ball, ok := w.bodies[i].Collider.(Ball)
			if !ok || !w.bodies[i].Dynamic {
				continue
			}
			for j := range w.bodies {
				other := &w.bodies[j]
				box, ok := other.Collider.(Cuboid)
				if !ok || other.Dynamic {
					continue
				}
				w.resolve(&w.bodies[i], ball, other, box, restingSpeed)
			}
		}
	}
	w.tick++
}

// resolve separates a dynamic ball from a static cuboid. Caller must hold the mutex.
func (w *world) resolve(b *RigidBody, ball Ball, static *RigidBody, box Cuboid, restingSpeed float32) {
	c, hit := ballCuboidContact(b.Position, ball.Radius, static.Position, box.HalfExtents)
	if !hit {
		return
	}
	b.Position = b.Position.Add(c.normal.Mul(c.penetration))

	vn := b.Velocity.Dot(c.normal)
	if vn >= 0 {
		return
	}
	restitution := (b.Restitution + static.Restitution) / 2
	if -vn < restingSpeed {
		restitution = 0
	}
	b.Velocity = b.Velocity.Sub(c.normal.Mul((1 + restitution) * vn))
}
