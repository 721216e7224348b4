package common

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AppendFloat32s appends each value to dst as a little-endian IEEE-754 float32.
//
// Parameters:
//   - dst: the buffer to append to (may be nil)
//   - values: the floats to encode
//
// Returns:
//   - []byte: the extended buffer
func AppendFloat32s(dst []byte, values ...float32) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// AppendUint32s appends each value to dst as a little-endian uint32.
func AppendUint32s(dst []byte, values ...uint32) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint32(dst, v)
	}
	return dst
}

// AppendMat4 appends a column-major 4x4 matrix to dst (64 bytes).
func AppendMat4(dst []byte, m mgl32.Mat4) []byte {
	return AppendFloat32s(dst, m[:]...)
}

// CheckSize panics when a marshalled GPU struct does not match its declared layout size.
// Layout mismatches are programming errors and must never reach the GPU.
//
// Parameters:
//   - name: the struct name used in the panic message
//   - buf: the marshalled bytes
//   - want: the declared size in bytes
//
// Returns:
//   - []byte: buf, unchanged
func CheckSize(name string, buf []byte, want int) []byte {
	if len(buf) != want {
		panic(fmt.Sprintf("%s: marshalled %d bytes, layout declares %d", name, len(buf), want))
	}
	return buf
}
