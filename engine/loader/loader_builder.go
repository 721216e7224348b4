package loader

import "github.com/go-gl/mathgl/mgl32"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of files LoadAll parses concurrently.
//
// Parameters:
//   - n: the worker count, values below 1 are treated as 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithProgress sets a callback invoked once per file completed by LoadAll.
// Calls are serialized.
//
// Parameters:
//   - fn: the progress callback
//
// Returns:
//   - LoaderBuilderOption: a function that applies the progress option to a loader
func WithProgress(fn ProgressFunc) LoaderBuilderOption {
	return func(l *loader) {
		l.progress = fn
	}
}

// loadConfig holds per-load settings collected from LoadOptions.
type loadConfig struct {
	name         string
	preTransform mgl32.Mat4
}

// LoadOption configures a single Load call.
type LoadOption func(*loadConfig)

// WithPreTransform bakes a transform into the loaded geometry. Positions are transformed
// as points and normals as directions, then renormalized.
//
// Parameters:
//   - m: the transform to apply, identity by default
//
// Returns:
//   - LoadOption: a function that sets the pre-transform
func WithPreTransform(m mgl32.Mat4) LoadOption {
	return func(c *loadConfig) {
		c.preTransform = m
	}
}

// WithName overrides the model name, which defaults to the file name without extension.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - LoadOption: a function that sets the model name
func WithName(name string) LoadOption {
	return func(c *loadConfig) {
		c.name = name
	}
}
