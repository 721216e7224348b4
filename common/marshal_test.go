package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMat4ColumnMajor(t *testing.T) {
	m := mgl32.Translate3D(7, 8, 9)
	buf := AppendMat4(nil, m)
	require.Len(t, buf, 64)

	// translation lives in column 3
	assert.Equal(t, float32(7), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])))
	assert.Equal(t, float32(8), math.Float32frombits(binary.LittleEndian.Uint32(buf[52:56])))
	assert.Equal(t, float32(9), math.Float32frombits(binary.LittleEndian.Uint32(buf[56:60])))
}

func TestAppendUint32s(t *testing.T) {
	buf := AppendUint32s([]byte{0xFF}, 1, 0x01020304)
	assert.Equal(t, []byte{0xFF, 1, 0, 0, 0, 4, 3, 2, 1}, buf)
}

func TestCheckSize(t *testing.T) {
	assert.NotPanics(t, func() { CheckSize("ok", make([]byte, 4), 4) })
	assert.Panics(t, func() { CheckSize("bad", make([]byte, 3), 4) })
}
