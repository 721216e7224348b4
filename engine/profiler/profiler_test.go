package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickSamplesOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(time.Second), WithClock(clock.now), WithQuiet())

	for range 29 {
		clock.t = clock.t.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}

	clock.t = time.Unix(2, 0)
	p.AddDraws(100)
	assert.True(t, p.Tick())
	assert.InDelta(t, 15.0, p.Last().FPS, 1e-9)
	assert.InDelta(t, 100.0/30.0, p.Last().Draws, 1e-9)

	// counters reset after a sample
	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
}

func TestIntervalOption(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)

	p = NewProfiler(WithInterval(5 * time.Second))
	assert.Equal(t, 5*time.Second, p.updateInterval)
}
