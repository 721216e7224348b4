package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.True(t, w.CursorLocked())
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())

	cx, cy := w.Center()
	assert.Equal(t, 400.0, cx)
	assert.Equal(t, 300.0, cy)

	// without a platform window the cursor sits at the centre
	x, y := w.CursorPos()
	assert.Equal(t, cx, x)
	assert.Equal(t, cy, y)
}

func TestBuilderOptions(t *testing.T) {
	w := newEngineWindow(WithTitle("demo"), WithSize(1024, 768), WithSizeLimits(1, 2, 3, 4), WithCursorReleased())
	assert.Equal(t, "demo", w.title)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
	assert.Equal(t, []int{1, 2, 3, 4}, []int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.False(t, w.CursorLocked())

	w = newEngineWindow(WithSize(0, 100))
	assert.Equal(t, 800, w.Width())
}

func TestKeyState(t *testing.T) {
	w := newEngineWindow()
	var pressed []uint32
	w.SetKeyDownCallback(func(k uint32) { pressed = append(pressed, k) })

	w.handleKey(common.KeyW, true)
	assert.True(t, w.IsKeyDown(common.KeyW))
	assert.False(t, w.IsKeyDown(common.KeyS))

	w.handleKey(common.KeyW, false)
	assert.False(t, w.IsKeyDown(common.KeyW))
	assert.Equal(t, []uint32{common.KeyW}, pressed)
}

func TestEscapeRequestsClose(t *testing.T) {
	w := newEngineWindow()
	w.handleKey(common.KeyEsc, true)
	assert.True(t, w.closing)
	assert.False(t, w.IsKeyDown(common.KeyEsc))
}

func TestResize(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	w.handleResize(1920, 1080)
	assert.Equal(t, [2]int{1920, 1080}, got)
	assert.Equal(t, 1920, w.Width())
	assert.Equal(t, 1080, w.Height())
}

func TestFocusReleasesCursorAndKeys(t *testing.T) {
	w := newEngineWindow()
	var events []bool
	w.SetFocusCallback(func(f bool) { events = append(events, f) })

	w.handleKey(common.KeyA, true)
	w.handleFocus(false)
	assert.False(t, w.CursorLocked())
	assert.False(t, w.IsKeyDown(common.KeyA))

	w.handleFocus(true)
	assert.True(t, w.CursorLocked())
	assert.Equal(t, []bool{false, true}, events)
}
