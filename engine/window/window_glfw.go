package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow opens a GLFW window without a client API and routes its key, focus and
// framebuffer callbacks into w. The calling goroutine is locked to its OS thread for the
// lifetime of the window.
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("window: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("window: create %q: %w", w.title, err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		w.handleKey(uint32(key), action == glfw.Press)
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.handleFocus(focused)
	})

	// the surface is sized in framebuffer pixels
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.handleResize(width, height)
	})

	w.width, w.height = win.GetFramebufferSize()

	platformSetCursorHidden(w, w.cursorLocked)
	return nil
}

// glfwOf returns the live GLFW window, or false once the window is closed.
func glfwOf(w *engineWindow) (*glfwWindow, bool) {
	gw, ok := w.internalWindow.(*glfwWindow)
	return gw, ok && gw != nil
}

// platformGetSurfaceDescriptor builds the wgpu surface descriptor for the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := glfwOf(w)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := glfwOf(w)
	return ok && gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the window and terminates GLFW. Closing twice is an error.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := glfwOf(w)
	if !ok {
		return fmt.Errorf("window: already closed")
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages drains pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}

func platformCursorPos(w *engineWindow) (float64, float64) {
	if gw, ok := glfwOf(w); ok {
		return gw.window.GetCursorPos()
	}
	return 0, 0
}

// platformWindowSize is in screen coordinates, the space cursor positions use, not framebuffer pixels.
func platformWindowSize(w *engineWindow) (int, int) {
	if gw, ok := glfwOf(w); ok {
		return gw.window.GetSize()
	}
	return w.width, w.height
}

func platformSetCursorPos(w *engineWindow, x, y float64) {
	if gw, ok := glfwOf(w); ok {
		gw.window.SetCursorPos(x, y)
	}
}

// platformSetCursorHidden hides the pointer while the fly camera owns the mouse.
func platformSetCursorHidden(w *engineWindow, hidden bool) {
	gw, ok := glfwOf(w)
	if !ok {
		return
	}
	mode := glfw.CursorNormal
	if hidden {
		mode = glfw.CursorHidden
	}
	gw.window.SetInputMode(glfw.CursorMode, mode)
}
