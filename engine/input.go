package engine

import (
	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/Carmen-Shannon/oxy-instancer/engine/camera"
	"github.com/Carmen-Shannon/oxy-instancer/engine/window"
)

// flyBindings maps held keys to camera movement.
var flyBindings = []struct {
	key       uint32
	direction camera.Direction
}{
	{common.KeyW, camera.DirectionForward},
	{common.KeyS, camera.DirectionBackward},
	{common.KeyA, camera.DirectionLeft},
	{common.KeyD, camera.DirectionRight},
	{common.KeySpace, camera.DirectionUp},
	{common.KeyLeftShift, camera.DirectionDown},
}

// applyFlyInput turns cursor offset from the window centre into yaw/pitch and held keys into movement.
// Movement is speed units per millisecond of dt. The cursor is recentred afterwards.
func applyFlyInput(win window.Window, ctrl camera.CameraController, dt float32) {
	if win.CursorLocked() {
		x, y := win.CursorPos()
		cx, cy := win.Center()
		if cx > 0 && cy > 0 {
			sens := float64(ctrl.Sensitivity())
			dx := -sens * (x - cx) / cx
			dy := -sens * (y - cy) / cy
			if dx != 0 || dy != 0 {
				ctrl.Spin(float32(dx), float32(dy))
			}
		}
		win.CenterCursor()
	}

	amount := ctrl.Speed() * dt * 1000
	for _, b := range flyBindings {
		if win.IsKeyDown(b.key) {
			ctrl.Move(b.direction, amount)
		}
	}
}
