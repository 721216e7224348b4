package common

// GLFW key codes used by the fly camera. Printable keys match their ASCII values.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW         = 87  // forward
	KeyA         = 65  // strafe left
	KeyS         = 83  // backward
	KeyD         = 68  // strafe right
	KeySpace     = 32  // up
	KeyLeftShift = 340 // down
	KeyEsc       = 256 // quit
)
