package camera

import (
	"github.com/Carmen-Shannon/oxy-tri/common"
)

type cameraImpl struct {
	eye    [3]float32
	target [3]float32
	up     [3]float32

	fov  float32
	near float32
	far  float32

	viewMatrix common.Mat4
}

// Camera is a fixed left-handed perspective camera. The view matrix is derived once from eye, target
// and up; the projection is built per call because the aspect ratio follows the surface.
type Camera interface {
	// Eye returns the camera position in world space.
	//
	// Returns:
	//   - [3]float32: the eye position
	Eye() [3]float32

	// Target returns the point the camera looks at.
	//
	// Returns:
	//   - [3]float32: the look-at target
	Target() [3]float32

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - [3]float32: the up vector
	Up() [3]float32

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the 4x4 left-handed view matrix (column-major).
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the left-handed perspective projection for aspect with depth mapped to [0, 1].
	//
	// Parameters:
	//   - aspect: viewport width divided by height
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix(aspect float32) common.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix(aspect) * ViewMatrix().
	//
	// Parameters:
	//   - aspect: viewport width divided by height
	//
	// Returns:
	//   - common.Mat4: the combined view-projection matrix
	ViewProjectionMatrix(aspect float32) common.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 3) looking at the origin with +Y up, an 80 degree vertical
// field of view and clip planes at 0.1 and 1000.
//
// Parameters:
//   - options: CameraBuilderOption functions applied over the defaults
//
// Returns:
//   - Camera: the camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		eye:    [3]float32{0, 0, 3},
		target: [3]float32{0, 0, 0},
		up:     [3]float32{0, 1, 0},
		fov:    common.Radians(80),
		near:   0.1,
		far:    1000,
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateView()
	return c
}

func (c *cameraImpl) Eye() [3]float32 {
	return c.eye
}

func (c *cameraImpl) Target() [3]float32 {
	return c.target
}

func (c *cameraImpl) Up() [3]float32 {
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix(aspect float32) common.Mat4 {
	var proj common.Mat4
	common.PerspectiveLH(proj[:], c.fov, aspect, c.near, c.far)
	return proj
}

func (c *cameraImpl) ViewProjectionMatrix(aspect float32) common.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.viewMatrix)
}

func (c *cameraImpl) updateView() {
	common.LookAtLH(c.viewMatrix[:], c.eye, c.target, c.up)
}
