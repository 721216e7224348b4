package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input state for the fly camera.
// The cursor is hidden and locked to the window centre while focused; focus loss releases it.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetFocusCallback sets the function called when the window gains or loses focus.
	//
	// Parameters:
	//   - callback: function receiving the new focus state
	SetFocusCallback(callback func(focused bool))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// IsKeyDown reports whether a key is currently held.
	//
	// Parameters:
	//   - keyCode: a common.Key* code
	//
	// Returns:
	//   - bool: true while the key is pressed
	IsKeyDown(keyCode uint32) bool

	// CursorPos returns the cursor position in window coordinates.
	//
	// Returns:
	//   - float64: x position in pixels
	//   - float64: y position in pixels
	CursorPos() (float64, float64)

	// Center returns the centre of the window in window coordinates.
	//
	// Returns:
	//   - float64: x coordinate of the centre
	//   - float64: y coordinate of the centre
	Center() (float64, float64)

	// CenterCursor moves the cursor to the window centre. It does nothing while the cursor is released.
	CenterCursor()

	// CursorLocked reports whether the cursor is hidden and recentred each frame.
	CursorLocked() bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop on the calling (locked) OS thread.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, input state and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	keysDown     map[uint32]bool
	cursorLocked bool
	closing      bool

	onUpdate  func()
	onResize  func(width, height int)
	onFocus   func(focused bool)
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

// newEngineWindow builds the window state without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:           &sync.Mutex{},
		title:        "oxy-instancer",
		maxWidth:     3840,
		maxHeight:    2160,
		minWidth:     320,
		minHeight:    240,
		width:        800,
		height:       600,
		keysDown:     make(map[uint32]bool),
		cursorLocked: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetFocusCallback(callback func(focused bool)) {
	w.onFocus = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) IsKeyDown(keyCode uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keysDown[keyCode]
}

func (w *engineWindow) CursorPos() (float64, float64) {
	if w.internalWindow == nil {
		return w.Center()
	}
	return platformCursorPos(w)
}

func (w *engineWindow) Center() (float64, float64) {
	if w.internalWindow != nil {
		width, height := platformWindowSize(w)
		return float64(width) / 2, float64(height) / 2
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return float64(w.width) / 2, float64(w.height) / 2
}

func (w *engineWindow) CenterCursor() {
	if !w.CursorLocked() || w.internalWindow == nil {
		return
	}
	cx, cy := w.Center()
	platformSetCursorPos(w, cx, cy)
}

func (w *engineWindow) CursorLocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorLocked
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	w.mu.Lock()
	closing := w.closing
	w.mu.Unlock()
	return !closing && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.mu.Lock()
	w.closing = true
	w.mu.Unlock()
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// handleKey records key state. Escape requests close.
func (w *engineWindow) handleKey(keyCode uint32, pressed bool) {
	if keyCode == common.KeyEsc && pressed {
		w.RequestClose()
		return
	}

	w.mu.Lock()
	w.keysDown[keyCode] = pressed
	w.mu.Unlock()

	if pressed && w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
}

// handleResize stores the new framebuffer size. A minimised window reports 0x0 and is passed through;
// the renderer and camera ignore zero sizes.
func (w *engineWindow) handleResize(width, height int) {
	w.mu.Lock()
	w.width = width
	w.height = height
	w.mu.Unlock()

	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// handleFocus locks the cursor on focus gain and releases it on focus loss.
// Held keys are cleared when focus is lost since their release events go elsewhere.
func (w *engineWindow) handleFocus(focused bool) {
	w.mu.Lock()
	w.cursorLocked = focused
	if !focused {
		clear(w.keysDown)
	}
	w.mu.Unlock()

	if w.internalWindow != nil {
		platformSetCursorHidden(w, focused)
	}
	if w.onFocus != nil {
		w.onFocus(focused)
	}
}
