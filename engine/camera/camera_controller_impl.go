package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-instancer/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// maxPitch keeps the forward vector off the world up axis so the cross products stay defined.
	maxPitch = 89.0

	defaultSpeed       = 0.5
	defaultSensitivity = 40.0
)

// worldUp is the Z-up axis used to derive the camera basis.
var worldUp = mgl32.Vec3{0, 0, 1}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32

	forward mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3

	speed       float32
	sensitivity float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a fly controller at (-5, 0, 2) looking down +X.
// Options are applied before the basis is computed.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		position:    mgl32.Vec3{-5, 0, 2},
		speed:       defaultSpeed,
		sensitivity: defaultSensitivity,
	}
	for _, option := range options {
		option(cc)
	}
	cc.yaw = common.WrapDegrees(cc.yaw)
	cc.pitch = mgl32.Clamp(cc.pitch, -maxPitch, maxPitch)
	cc.updateBasis()
	return cc
}

// updateBasis rebuilds forward, right and up from yaw and pitch. Caller must hold the mutex.
func (cc *cameraControllerImpl) updateBasis() {
	yaw := float64(mgl32.DegToRad(cc.yaw))
	pitch := float64(mgl32.DegToRad(cc.pitch))

	cc.forward = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
	}.Normalize()
	cc.right = cc.forward.Cross(worldUp).Normalize()
	cc.up = cc.right.Cross(cc.forward).Normalize()
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) Forward() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.forward
}

func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.right
}

func (cc *cameraControllerImpl) Up() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.up
}

func (cc *cameraControllerImpl) Spin(dYaw, dPitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = common.WrapDegrees(cc.yaw + dYaw)
	cc.pitch = mgl32.Clamp(cc.pitch+dPitch, -maxPitch, maxPitch)
	cc.updateBasis()
}

func (cc *cameraControllerImpl) Move(direction Direction, amount float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var axis mgl32.Vec3
	switch direction {
	case DirectionForward:
		axis = cc.forward
	case DirectionBackward:
		axis = cc.forward.Mul(-1)
	case DirectionRight:
		axis = cc.right
	case DirectionLeft:
		axis = cc.right.Mul(-1)
	case DirectionUp:
		axis = cc.up
	case DirectionDown:
		axis = cc.up.Mul(-1)
	default:
		return
	}
	cc.position = cc.position.Add(axis.Mul(amount))
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) Sensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.sensitivity
}
