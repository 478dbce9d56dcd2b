package scene

import (
	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/camera"
)

// DefaultRotationRate is the model's spin about +Y in degrees per second.
const DefaultRotationRate float32 = 30

type scene struct {
	model        common.Mat4
	rotationRate float32
	camera       camera.Camera
}

// Scene holds the CPU-side state of the rendered world: one model matrix spinning about +Y and a
// fixed camera. It is owned by the render loop and is not safe for concurrent use.
type Scene interface {
	// Advance rotates the model about +Y by RotationRate() * dt degrees, composing onto the current
	// model matrix. The accumulated matrix is never re-orthonormalized.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// ComputeMVP returns projection(aspect) * view * model without modifying the scene.
	//
	// Parameters:
	//   - aspect: viewport width divided by height
	//
	// Returns:
	//   - common.Mat4: the model-view-projection matrix (column-major)
	ComputeMVP(aspect float32) common.Mat4

	// Model returns the current model matrix.
	//
	// Returns:
	//   - common.Mat4: the model matrix
	Model() common.Mat4

	// SetModel replaces the model matrix.
	//
	// Parameters:
	//   - model: the new model matrix
	SetModel(model common.Mat4)

	// RotationRate returns the spin rate in degrees per second.
	//
	// Returns:
	//   - float32: degrees per second
	RotationRate() float32

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera
}

var _ Scene = &scene{}

// NewScene creates a scene with an identity model, the default camera and a 30 degree per second spin.
//
// Parameters:
//   - options: SceneBuilderOption functions
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		model:        common.IdentityMat4(),
		rotationRate: DefaultRotationRate,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	return s
}

func (s *scene) Advance(dt float32) {
	var rot common.Mat4
	common.RotateY(rot[:], common.Radians(s.rotationRate*dt))
	s.model = s.model.Mul(rot)
}

func (s *scene) ComputeMVP(aspect float32) common.Mat4 {
	return s.camera.ViewProjectionMatrix(aspect).Mul(s.model)
}

func (s *scene) Model() common.Mat4 {
	return s.model
}

func (s *scene) SetModel(model common.Mat4) {
	s.model = model
}

func (s *scene) RotationRate() float32 {
	return s.rotationRate
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}
