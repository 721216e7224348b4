package physics

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is the state of every body after one step.
type Snapshot struct {
	Tick       uint64
	Transforms []mgl32.Mat4
}

// runner is the implementation of the Runner interface.
type runner struct {
	world     World
	snapshots chan Snapshot
	realtime  bool
	maxSteps  uint64
}

// Runner steps a World on its own goroutine and hands the results to the frame loop.
type Runner interface {
	// Run steps the world until ctx is cancelled or the step limit is reached.
	// Each step publishes a Snapshot; an unread snapshot is replaced by the newer one.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, nil when the step limit was reached
	Run(ctx context.Context) error

	// Snapshots returns the single-slot channel carrying the latest snapshot.
	Snapshots() <-chan Snapshot
}

var _ Runner = &runner{}

// RunnerOption is a functional option for configuring a Runner via NewRunner.
type RunnerOption func(*runner)

// WithRealtime controls whether steps are paced by the world timestep (default) or run back to back.
func WithRealtime(realtime bool) RunnerOption {
	return func(r *runner) {
		r.realtime = realtime
	}
}

// WithMaxSteps stops the runner after n steps. Zero means unlimited.
func WithMaxSteps(n uint64) RunnerOption {
	return func(r *runner) {
		r.maxSteps = n
	}
}

// NewRunner creates a Runner for the given world.
//
// Parameters:
//   - world: the world to step, owned by the runner while Run is active
//   - options: variadic list of RunnerOption functions
//
// Returns:
//   - Runner: the new runner
func NewRunner(world World, options ...RunnerOption) Runner {
	r := &runner{
		world:     world,
		snapshots: make(chan Snapshot, 1),
		realtime:  true,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *runner) Snapshots() <-chan Snapshot {
	return r.snapshots
}

func (r *runner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if r.realtime {
		interval := time.Duration(float64(r.world.Timestep()) * float64(time.Second))
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for steps := uint64(0); r.maxSteps == 0 || steps < r.maxSteps; steps++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		r.world.Step()
		r.publish(Snapshot{Tick: r.world.Tick(), Transforms: r.world.Transforms()})
	}
	return nil
}

// publish replaces any unread snapshot. Only Run sends, so the slot is free after the drain.
func (r *runner) publish(s Snapshot) {
	select {
	case r.snapshots <- s:
		return
	default:
	}
	select {
	case <-r.snapshots:
	default:
	}
	select {
	case r.snapshots <- s:
	default:
	}
}
