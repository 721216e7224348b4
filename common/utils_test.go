package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, float32(1), Coalesce(float32(0), 1))
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 0}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m, nil))
	assert.Equal(t, []string{"a", "c"}, SortedKeys(m, func(v int) bool { return v > 0 }))
	assert.Empty(t, SortedKeys(map[string]int{}, nil))
}
