package registry

import "github.com/Carmen-Shannon/oxy-instancer/engine/loader"

// RegistryBuilderOption is a functional option for configuring a Registry via NewRegistry.
type RegistryBuilderOption func(*registry)

// WithLoader sets the Loader used by Registry.Load.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - RegistryBuilderOption: a function that applies the loader option to a registry
func WithLoader(l loader.Loader) RegistryBuilderOption {
	return func(r *registry) {
		r.loader = l
	}
}
