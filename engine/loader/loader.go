package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ/MTL backend.
	BackendTypeOBJ LoaderBackendType = iota
)

var (
	// ErrUnsupportedFormat is returned when no backend handles a file extension.
	ErrUnsupportedFormat = errors.New("loader: unsupported model format")

	// ErrMaterialLibrary is returned when a model's MTL file exists but does not parse.
	ErrMaterialLibrary = errors.New("loader: malformed material library")
)

const defaultWorkers = 4

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	backends map[string]loaderBackend
	workers  int
	progress ProgressFunc
}

// ProgressFunc is called once per completed file during LoadAll.
//
// Parameters:
//   - done: the number of files completed so far
//   - total: the number of files requested
//   - path: the file that just completed
type ProgressFunc func(done, total int, path string)

// Request names one model file to load in a batch.
type Request struct {
	// ID is the caller's identifier for the model, echoed in the Result.
	ID string

	// Path is the model file path.
	Path string

	// Options are applied to this file's import.
	Options []LoadOption
}

// Result is the outcome of one Request.
type Result struct {
	ID    string
	Path  string
	Model model.Model
	Err   error
}

// Loader defines the public-facing interface for importing model files.
// The backend is chosen by file extension; the loader itself keeps no model cache, so
// loading the same path twice reads the file again (which is what hot reload relies on).
type Loader interface {
	// Load imports a model file.
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - options: per-load options such as WithPreTransform
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: ErrUnsupportedFormat, or an error if the file cannot be read or decoded
	Load(path string, options ...LoadOption) (model.Model, error)

	// LoadAll imports many files concurrently on a worker pool.
	// Results are returned in request order; the error joins every failed request.
	//
	// Parameters:
	//   - requests: the files to load
	//
	// Returns:
	//   - []Result: one result per request, in order
	//   - error: the joined load errors, or nil when every request succeeded
	LoadAll(requests []Request) ([]Result, error)

	// Dependencies lists the files a model file reads besides itself, such as its material library.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - []string: dependent file paths, or nil for unsupported formats
	Dependencies(path string) []string

	// Supports reports whether a backend handles the file's extension.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - bool: true if the file can be loaded
	Supports(path string) bool
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given backend registered and options applied.
//
// Parameters:
//   - backendType: the loader backend to register (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		backends: make(map[string]loaderBackend),
		workers:  defaultWorkers,
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backends[".obj"] = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string, options ...LoadOption) (model.Model, error) {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	cfg := loadConfig{preTransform: mgl32.Ident4()}
	for _, opt := range options {
		opt(&cfg)
	}
	return backend.Load(path, cfg)
}

func (l *loader) LoadAll(requests []Request) ([]Result, error) {
	results := make([]Result, len(requests))
	if len(requests) == 0 {
		return results, nil
	}

	l.mu.RLock()
	workers := min(l.workers, len(requests))
	progress := l.progress
	l.mu.RUnlock()

	pool := worker.NewDynamicWorkerPool(workers, len(requests), 1*time.Second)

	var (
		wg       sync.WaitGroup
		doneMu   sync.Mutex
		finished int
	)
	for i, req := range requests {
		wg.Add(1)
		idx, r := i, req
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()

				m, err := l.Load(r.Path, r.Options...)
				results[idx] = Result{ID: r.ID, Path: r.Path, Model: m, Err: err}

				if progress != nil {
					doneMu.Lock()
					finished++
					progress(finished, len(requests), r.Path)
					doneMu.Unlock()
				}
				return m, err
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.ID, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (l *loader) Dependencies(path string) []string {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil
	}
	return backend.Dependencies(path)
}

func (l *loader) Supports(path string) bool {
	_, err := l.resolveBackend(path)
	return err == nil
}

// resolveBackend selects the loader backend registered for the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))

	l.mu.RLock()
	defer l.mu.RUnlock()
	backend, ok := l.backends[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return backend, nil
}
