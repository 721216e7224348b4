package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one profiling sample covering the frames since the previous sample.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
	// Draws is the number of instances submitted per frame, averaged over the interval.
	Draws float64
}

// Profiler tracks frame rate and memory statistics and logs them once per interval.
type Profiler struct {
	frameCount     int
	drawCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
	quiet          bool
}

// ProfilerOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are sampled and logged. Non-positive values keep the 1s default.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithQuiet samples without logging.
func WithQuiet() ProfilerOption {
	return func(p *Profiler) {
		p.quiet = true
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// AddDraws records instances submitted during the current frame.
func (p *Profiler) AddDraws(n int) {
	p.drawCount += n
}

// Last returns the most recent sample.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame.
// When the update interval has elapsed it samples FPS, heap usage, allocation rate, GC pauses
// and process memory, and logs them.
//
// Returns:
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		Draws:       float64(p.drawCount) / float64(p.frameCount),
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Instances: %.0f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			s.FPS, s.Draws, s.HeapMB, s.AllocRateMB, s.NumGC, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
	}

	p.last = s
	p.frameCount = 0
	p.drawCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
