package engine

import (
	"errors"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instancer/engine/window"
)

// fixedDelta is the step used instead of measured frame time when fixed delta is enabled.
const fixedDelta = float32(1.0 / 60.0)

// FrameRenderer is the part of renderer.Renderer the frame loop drives.
type FrameRenderer interface {
	Resize(width, height int)
	BeginFrame() error
	EndFrame()
	Present()
}

// Scene is the part of registry.Registry the frame loop drives.
type Scene interface {
	SyncBuffers() error
	Render(cam camera.Camera) error
	IDs() []string
	Count(id string) uint32
}

var _ FrameRenderer = renderer.Renderer(nil)

// engine implements the Engine interface.
type engine struct {
	window   window.Window
	renderer FrameRenderer
	scene    Scene
	camera   camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	fixedDelta  bool
	flyControls bool
	lastFrame   time.Time

	tickCallback func(deltaTime float32)
}

// Engine runs the single-threaded frame loop: input, tick callback, buffer sync, render and present,
// all on the thread that owns the window.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Camera returns the camera rendered each frame.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called once per frame before buffers are synced.
	// Use this for instance mutation and draining physics snapshots.
	//
	// Parameters:
	//   - callback: function receiving the frame delta in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Run starts the frame loop and blocks until the window closes.
	Run()

	// Quit asks the window to close; Run returns after the current frame.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// A default camera is created when none is given; the window resize callback is wired
// to the renderer and camera.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler:    profiler.NewProfiler(),
		flyControls: true,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera()
	}

	if e.window != nil {
		e.camera.Resize(e.window.Width(), e.window.Height())
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) Run() {
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(func() {
		e.frame(time.Now())
	})
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	if e.window != nil {
		e.window.RequestClose()
	}
}

// resize reconfigures the surface and camera aspect. Zero sizes (minimised window) are ignored downstream.
func (e *engine) resize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	e.camera.Resize(width, height)
}

// delta returns the frame time in seconds.
func (e *engine) delta(now time.Time) float32 {
	if e.fixedDelta {
		e.lastFrame = now
		return fixedDelta
	}
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now
	return dt
}

// frame runs one iteration of the loop.
func (e *engine) frame(now time.Time) {
	dt := e.delta(now)

	if ctrl := e.camera.Controller(); e.flyControls && e.window != nil && ctrl != nil {
		applyFlyInput(e.window, ctrl, dt)
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if e.scene != nil {
		if err := e.scene.SyncBuffers(); err != nil {
			log.Printf("[Engine] sync buffers: %v", err)
		}
	}

	if e.renderer != nil && e.scene != nil {
		e.render()
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// render records and presents one frame. A lost surface has already been reconfigured by the
// renderer, so the frame is dropped quietly.
func (e *engine) render() {
	if err := e.renderer.BeginFrame(); err != nil {
		if !errors.Is(err, renderer.ErrSurfaceLost) {
			log.Printf("[Renderer] begin frame: %v", err)
		}
		return
	}

	if err := e.scene.Render(e.camera); err != nil {
		log.Printf("[Renderer] render: %v", err)
	}
	e.renderer.EndFrame()
	e.renderer.Present()

	if e.profilingEnabled && e.profiler != nil {
		for _, id := range e.scene.IDs() {
			e.profiler.AddDraws(int(e.scene.Count(id)))
		}
	}
}
