package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, [3]float32{0, 0, 3}, c.Eye())
	assert.Equal(t, [3]float32{0, 0, 0}, c.Target())
	assert.Equal(t, [3]float32{0, 1, 0}, c.Up())
	assert.InDelta(t, common.Radians(80), c.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(1000), c.Far())
}

func TestViewMatrixMovesEyeToOrigin(t *testing.T) {
	view := NewCamera().ViewMatrix()

	// eye (0,0,3) looking at the origin: x mirrors, z becomes 3 - z
	assert.InDelta(t, -1, view.At(0, 0), 1e-6)
	assert.InDelta(t, 1, view.At(1, 1), 1e-6)
	assert.InDelta(t, -1, view.At(2, 2), 1e-6)
	assert.InDelta(t, 3, view.At(2, 3), 1e-6)
}

func TestProjectionMatrix(t *testing.T) {
	c := NewCamera(WithFov(common.Radians(90)), WithClipPlanes(1, 10))
	proj := c.ProjectionMatrix(2)

	assert.InDelta(t, 0.5, proj.At(0, 0), 1e-6)
	assert.InDelta(t, 1, proj.At(1, 1), 1e-6)
	assert.InDelta(t, 10.0/9.0, proj.At(2, 2), 1e-6)
	assert.InDelta(t, 1, proj.At(3, 2), 1e-6)
	assert.InDelta(t, -10.0/9.0, proj.At(2, 3), 1e-6)
}

func TestViewProjectionMatrix(t *testing.T) {
	c := NewCamera(WithEye(1, 2, -4), WithTarget(0, 1, 0), WithUp(0, 1, 0))
	want := c.ProjectionMatrix(1.5).Mul(c.ViewMatrix())
	assert.Equal(t, want, c.ViewProjectionMatrix(1.5))
}
