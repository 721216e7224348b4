package engine

import (
	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-instancer/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: an open Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer whose frame lifecycle the engine owns.
//
// Parameters:
//   - r: the renderer, usually a renderer.Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithScene sets the instanced scene synced and drawn every frame.
//
// Parameters:
//   - s: the scene, usually a registry.Registry
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithCamera sets the camera used for rendering and fly controls.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithFixedDelta makes every frame report a 16.67 ms delta instead of the measured time.
func WithFixedDelta(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.fixedDelta = enabled
	}
}

// WithFlyControls enables (default) or disables mouse look and WASD movement of the camera.
func WithFlyControls(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.flyControls = enabled
	}
}
