package renderer

import "errors"

var (
	// ErrSurfaceLost is returned by BeginFrame when the surface texture could not be acquired.
	// The surface has already been reconfigured at its last size; the caller drops the frame.
	ErrSurfaceLost = errors.New("renderer: surface lost or outdated")

	// ErrPipelineNotFound is returned when a draw references an unregistered pipeline key.
	ErrPipelineNotFound = errors.New("renderer: pipeline not found")

	// ErrNoFrame is returned when a draw is issued outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")
)
