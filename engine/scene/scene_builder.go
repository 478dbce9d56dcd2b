package scene

import (
	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithRotationRate sets the spin rate about +Y.
//
// Parameters:
//   - degreesPerSecond: rotation rate, negative values spin the other way
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRotationRate(degreesPerSecond float32) SceneBuilderOption {
	return func(s *scene) {
		s.rotationRate = degreesPerSecond
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - c: the camera to view the scene through
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(c camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = c
	}
}

// WithModel sets the initial model matrix.
func WithModel(model common.Mat4) SceneBuilderOption {
	return func(s *scene) {
		s.model = model
	}
}
