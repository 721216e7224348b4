package loader

import (
	"github.com/Carmen-Shannon/oxy-instancer/engine/model"
)

// loaderBackend defines the interface for format-specific model importers.
// Concrete implementations (e.g., objLoaderBackend) handle the file format details and
// produce a validated model.Model.
type loaderBackend interface {
	// Load imports a model from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//   - cfg: per-load settings (name, pre-transform)
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if loading fails
	Load(path string, cfg loadConfig) (model.Model, error)

	// Dependencies lists the files besides path that the import reads, such as material libraries.
	// Missing optional files are not listed.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - []string: the dependent file paths
	Dependencies(path string) []string
}
