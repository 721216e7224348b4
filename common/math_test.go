package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, "want %v, got %v", want, got)
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.5), float32(10000)
	p := Perspective(mgl32.DegToRad(80), 4.0/3.0, near, far)

	atNear := p.Mul4x1(mgl32.Vec4{0, 0, -near, 1})
	atFar := p.Mul4x1(mgl32.Vec4{0, 0, -far, 1})

	assert.InDelta(t, 0, atNear.Z()/atNear.W(), 1e-5)
	assert.InDelta(t, 1, atFar.Z()/atFar.W(), 1e-5)
	assert.Equal(t, float32(-1), p[11])
}

func TestPerspectiveAspect(t *testing.T) {
	p := Perspective(mgl32.DegToRad(90), 2, 1, 100)
	assert.InDelta(t, 0.5, p[0], 1e-6)
	assert.InDelta(t, 1, p[5], 1e-6)
}

func TestViewFromBasis(t *testing.T) {
	pos := mgl32.Vec3{-5, 0, 2}
	forward := mgl32.Vec3{1, 0, 0}
	right := mgl32.Vec3{0, -1, 0}
	up := mgl32.Vec3{0, 0, 1}

	v := ViewFromBasis(pos, forward, right, up)

	ahead := v.Mul4x1(mgl32.Vec4{0, 0, 2, 1})
	assertVec3(t, mgl32.Vec3{0, 0, -5}, ahead.Vec3())

	eye := v.Mul4x1(pos.Vec4(1))
	assertVec3(t, mgl32.Vec3{}, eye.Vec3())

	above := v.Mul4x1(mgl32.Vec4{-5, 0, 3, 1})
	assertVec3(t, mgl32.Vec3{0, 1, 0}, above.Vec3())
}

func TestBuildModelMatrix(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	got := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, mgl32.Vec4{3, 4, 5, 1}, got)

	r := BuildModelMatrix(mgl32.Vec3{}, mgl32.Vec3{0, math.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
	want := mgl32.HomogRotate3DY(math.Pi / 2)
	assert.InDeltaSlice(t, want[:], r[:], 1e-6)
}

func TestWrapDegrees(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{725, 5},
		{-10, 350},
		{-720, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, WrapDegrees(c.in), 1e-4, "WrapDegrees(%v)", c.in)
	}
}
