package common

import (
	"cmp"
	"slices"
)

// Coalesce returns the first non-zero value, or the zero value if all are zero.
// Used for option defaults where zero means "unset".
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SortedKeys returns the keys of m whose values satisfy keep, in ascending order.
// A nil keep selects every key.
func SortedKeys[K cmp.Ordered, V any](m map[K]V, keep func(V) bool) []K {
	keys := make([]K, 0, len(m))
	for k, v := range m {
		if keep == nil || keep(v) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
