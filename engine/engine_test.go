package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-instancer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instancer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	width, height int
	cursorX       float64
	cursorY       float64
	locked        bool
	keys          map[uint32]bool
	centered      int
	closeRequests int
	onResize      func(int, int)
	onUpdate      func()
}

var _ window.Window = &fakeWindow{}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{width: 800, height: 600, cursorX: 400, cursorY: 300, locked: true, keys: map[uint32]bool{}}
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetFocusCallback(func(bool)) {}
func (w *fakeWindow) SetKeyDownCallback(func(uint32)) {}
func (w *fakeWindow) IsKeyDown(k uint32) bool { return w.keys[k] }
func (w *fakeWindow) CursorPos() (float64, float64) { return w.cursorX, w.cursorY }
func (w *fakeWindow) Center() (float64, float64) {
	return float64(w.width) / 2, float64(w.height) / 2
}
func (w *fakeWindow) CenterCursor() {
	w.centered++
	w.cursorX, w.cursorY = w.Center()
}
func (w *fakeWindow) CursorLocked() bool { return w.locked }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.closeRequests == 0 }
func (w *fakeWindow) RequestClose() { w.closeRequests++ }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

// ProcessMessages runs three iterations and then closes.
func (w *fakeWindow) ProcessMessages() {
	for range 3 {
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
	w.RequestClose()
}

type fakeRenderer struct {
	calls    []string
	beginErr error
	sizes    [][2]int
}

func (r *fakeRenderer) Resize(width, height int) { r.sizes = append(r.sizes, [2]int{width, height}) }
func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) EndFrame() { r.calls = append(r.calls, "end") }
func (r *fakeRenderer) Present() { r.calls = append(r.calls, "present") }

type fakeScene struct {
	calls     *[]string
	renderErr error
	cam       camera.Camera
}

func (s *fakeScene) SyncBuffers() error {
	*s.calls = append(*s.calls, "sync")
	return nil
}
func (s *fakeScene) Render(cam camera.Camera) error {
	*s.calls = append(*s.calls, "render")
	s.cam = cam
	return s.renderErr
}
func (s *fakeScene) IDs() []string { return []string{"cube"} }
func (s *fakeScene) Count(id string) uint32 { return 10 }

func newTestEngine(options ...EngineBuilderOption) (*engine, *fakeWindow, *fakeRenderer, *fakeScene) {
	win := newFakeWindow()
	r := &fakeRenderer{}
	s := &fakeScene{calls: &r.calls}
	opts := append([]EngineBuilderOption{WithWindow(win), WithRenderer(r), WithScene(s), WithFixedDelta(true)}, options...)
	return NewEngine(opts...).(*engine), win, r, s
}

func TestFrameOrder(t *testing.T) {
	e, _, r, s := newTestEngine()
	e.SetTickCallback(func(dt float32) {
		r.calls = append(r.calls, "tick")
	})

	e.frame(time.Now())
	assert.Equal(t, []string{"tick", "sync", "begin", "render", "end", "present"}, r.calls)
	assert.Same(t, e.Camera(), s.cam)
}

func TestSurfaceLostDropsFrame(t *testing.T) {
	e, _, r, _ := newTestEngine()
	r.beginErr = fmt.Errorf("%w: outdated", renderer.ErrSurfaceLost)

	e.frame(time.Now())
	assert.Equal(t, []string{"sync", "begin"}, r.calls)

	r.beginErr = nil
	r.calls = nil
	e.frame(time.Now())
	assert.Equal(t, []string{"sync", "begin", "render", "end", "present"}, r.calls)
}

func TestRenderErrorStillPresents(t *testing.T) {
	e, _, r, s := newTestEngine()
	s.renderErr = errors.New("draw failed")

	e.frame(time.Now())
	assert.Equal(t, []string{"sync", "begin", "render", "end", "present"}, r.calls)
}

func TestFixedAndMeasuredDelta(t *testing.T) {
	e, _, _, _ := newTestEngine()
	var got []float32
	e.SetTickCallback(func(dt float32) { got = append(got, dt) })

	start := time.Now()
	e.lastFrame = start
	e.frame(start.Add(100 * time.Millisecond))
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0/60.0, got[0], 1e-6)

	e.fixedDelta = false
	e.frame(start.Add(150 * time.Millisecond))
	assert.InDelta(t, 0.05, got[1], 1e-6)
}

func TestResizeUpdatesRenderer(t *testing.T) {
	_, win, r, _ := newTestEngine()

	require.NotNil(t, win.onResize)
	win.onResize(1000, 500)
	assert.Equal(t, [][2]int{{1000, 500}}, r.sizes)
}

func TestResizeSetsAspect(t *testing.T) {
	e, win, _, _ := newTestEngine()
	assert.InDelta(t, 800.0/600.0, e.Camera().Aspect(), 1e-6)

	win.onResize(1000, 500)
	assert.InDelta(t, 2.0, e.Camera().Aspect(), 1e-6)

	win.onResize(1000, 0)
	assert.InDelta(t, 2.0, e.Camera().Aspect(), 1e-6)
}

func TestFlyMovement(t *testing.T) {
	e, win, _, _ := newTestEngine()
	ctrl := e.Camera().Controller()
	start := ctrl.Position()

	win.keys[common.KeyW] = true
	e.frame(time.Now())

	// 0.5 units per ms over 16.67 ms along +X
	moved := ctrl.Position().Sub(start)
	assert.InDelta(t, 0.5*1000.0/60.0, moved.X(), 1e-3)
	assert.InDelta(t, 0, moved.Y(), 1e-4)

	win.keys[common.KeyW] = false
	win.keys[common.KeySpace] = true
	before := ctrl.Position()
	e.frame(time.Now())
	assert.Greater(t, ctrl.Position().Z(), before.Z())
}

func TestMouseLook(t *testing.T) {
	e, win, _, _ := newTestEngine()
	ctrl := e.Camera().Controller()

	// cursor at 3/4 width: dx = -40 * 200/400 = -20 degrees of yaw
	win.cursorX = 600
	e.frame(time.Now())
	assert.InDelta(t, 340, ctrl.Yaw(), 1e-3)
	assert.Equal(t, 1, win.centered)

	// cursor above centre pitches up
	win.cursorY = 150
	e.frame(time.Now())
	assert.InDelta(t, 20, ctrl.Pitch(), 1e-3)
}

func TestReleasedCursorIsIgnored(t *testing.T) {
	e, win, _, _ := newTestEngine()
	win.locked = false
	win.cursorX = 0

	e.frame(time.Now())
	assert.InDelta(t, 0, e.Camera().Controller().Yaw(), 1e-6)
	assert.Equal(t, 0, win.centered)
}

func TestFlyControlsDisabled(t *testing.T) {
	e, win, _, _ := newTestEngine(WithFlyControls(false))
	start := e.Camera().Controller().Position()
	win.keys[common.KeyW] = true
	win.cursorX = 0

	e.frame(time.Now())
	assert.Equal(t, start, e.Camera().Controller().Position())
}

func TestRunUntilClosed(t *testing.T) {
	e, win, r, _ := newTestEngine()
	frames := 0
	e.SetTickCallback(func(float32) { frames++ })

	e.Run()
	assert.Equal(t, 3, frames)
	assert.Len(t, r.calls, 15)
	assert.False(t, win.IsRunning())

	e.Quit()
	assert.Equal(t, 2, win.closeRequests)
}

func TestDefaultCamera(t *testing.T) {
	e := NewEngine().(*engine)
	require.NotNil(t, e.Camera())
	assert.NotPanics(t, func() { e.frame(time.Now()) })
}

func TestProfilerCountsInstances(t *testing.T) {
	clock := time.Unix(0, 0)
	p := profiler.NewProfiler(profiler.WithClock(func() time.Time { return clock }), profiler.WithQuiet())
	e, _, _, _ := newTestEngine(WithProfiling(true), WithProfiler(p))

	e.frame(clock)
	clock = clock.Add(time.Second)
	e.frame(clock)
	assert.InDelta(t, 10.0, p.Last().Draws, 1e-9)

	e.DisableProfiler()
	clock = clock.Add(time.Second)
	e.frame(clock)
	assert.InDelta(t, 10.0, p.Last().Draws, 1e-9)
}
