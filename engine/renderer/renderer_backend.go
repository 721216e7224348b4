package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend, the only one implemented.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how frames are delivered to the surface.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (FIFO). Supported everywhere.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	if m == PresentModeUncapped {
		return "uncapped"
	}
	return "vsync"
}

// toWGPU maps the mode onto the surface present mode.
func (m PresentMode) toWGPU() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// MSAASampleCount is the sample count of the color and depth attachments.
// WebGPU guarantees 1 and 4.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
)

// RendererBackend is the backend interface the Renderer drives.
type RendererBackend interface {
	wgpuRendererBackend
}
