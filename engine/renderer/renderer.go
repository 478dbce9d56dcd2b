package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrFrameInFlight is returned by RenderFrame when it is called while a frame is still being recorded.
var ErrFrameInFlight = errors.New("frame already in flight")

// DefaultClearColor is the background the color attachment is cleared to each frame.
var DefaultClearColor = wgpu.Color{R: 0.19, G: 0.24, B: 0.42, A: 1.0}

// FrameState tracks whether the renderer is between frames or recording one.
type FrameState int

const (
	// FrameIdle means no frame is being recorded.
	FrameIdle FrameState = iota
	// FrameRecording means RenderFrame is running.
	FrameRecording
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "Idle"
	case FrameRecording:
		return "Recording"
	default:
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	label      string
	clearColor wgpu.Color

	device    gpu.GraphicsDevice
	resources FrameResources
	resOpts   []FrameResourcesOption
	depth     *gpu.DepthBuffer
	scene     scene.Scene

	state FrameState
}

// Renderer draws the scene once per RenderFrame call: it advances the scene, uploads the
// model-view-projection matrix, records one render pass into the next surface image and presents it.
//
// A Renderer is driven from the event loop thread only. It holds no locks; RenderFrame instead
// refuses to run while a previous call has not returned.
type Renderer interface {
	// RenderFrame advances the scene by delta and draws one frame.
	//
	// Parameters:
	//   - delta: time elapsed since the previous frame
	//
	// Returns:
	//   - error: ErrFrameInFlight on re-entry, or an error wrapping common.ErrFatalFrame
	RenderFrame(delta time.Duration) error

	// Resize reconfigures the surface and recreates the depth buffer. Dimensions are clamped to at least 1.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the surface or depth buffer could not be recreated
	Resize(width, height int) error

	// State returns the current frame state.
	State() FrameState

	// Scene returns the scene being rendered.
	Scene() scene.Scene

	// DepthBuffer returns the depth buffer matching the current surface size.
	DepthBuffer() *gpu.DepthBuffer

	// Resources returns the session GPU resources.
	Resources() FrameResources

	// Device returns the graphics device the renderer draws with.
	Device() gpu.GraphicsDevice

	// ClearColor returns the color attachment clear value.
	ClearColor() wgpu.Color

	// Release releases the depth buffer and frame resources. The device is left to its owner.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the depth buffer, frame resources and scene for device.
//
// Parameters:
//   - device: the configured graphics device
//   - options: RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer, in FrameIdle
//   - error: an error wrapping common.ErrFatalSetup on failure
func NewRenderer(device gpu.GraphicsDevice, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		label:      "Triangle",
		clearColor: DefaultClearColor,
		device:     device,
		state:      FrameIdle,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.scene == nil {
		r.scene = scene.NewScene()
	}

	depth, err := device.CreateDepthBuffer(int(device.Width()), int(device.Height()))
	if err != nil {
		return nil, err
	}
	r.depth = depth

	resources, err := NewFrameResources(device, append([]FrameResourcesOption{WithResourceLabel(r.label)}, r.resOpts...)...)
	if err != nil {
		device.ReleaseDepthBuffer(r.depth)
		r.depth = nil
		return nil, err
	}
	r.resources = resources
	return r, nil
}

func (r *renderer) RenderFrame(delta time.Duration) error {
	if r.state == FrameRecording {
		return ErrFrameInFlight
	}
	r.state = FrameRecording
	defer func() { r.state = FrameIdle }()

	r.scene.Advance(float32(delta.Seconds()))
	payload := common.UniformPayload{MVP: r.scene.ComputeMVP(r.device.AspectRatio())}
	if err := r.resources.UpdateUniform(&payload); err != nil {
		return common.FrameError("upload uniforms", err)
	}

	backend := r.device.Backend()
	image, err := backend.AcquireSurfaceImage()
	if err != nil {
		return common.FrameError("acquire surface image", err)
	}

	pass := &gpu.PassDescriptor{
		Label:           r.label + " Render Pass",
		Target:          image,
		Depth:           r.depth,
		ClearColor:      r.clearColor,
		DepthClearValue: 1.0,
		Draws:           []gpu.DrawCommand{r.resources.DrawCommand()},
	}
	if err := backend.Submit(pass); err != nil {
		backend.ReleaseTexture(image.Texture, image.View)
		return common.FrameError("submit render pass", err)
	}
	backend.Present(image)
	return nil
}

func (r *renderer) Resize(width, height int) error {
	if err := r.device.Resize(width, height); err != nil {
		return err
	}
	depth, err := r.device.CreateDepthBuffer(int(r.device.Width()), int(r.device.Height()))
	if err != nil {
		return err
	}
	if r.depth != nil {
		r.device.ReleaseDepthBuffer(r.depth)
	}
	r.depth = depth
	return nil
}

func (r *renderer) State() FrameState {
	return r.state
}

func (r *renderer) Scene() scene.Scene {
	return r.scene
}

func (r *renderer) DepthBuffer() *gpu.DepthBuffer {
	return r.depth
}

func (r *renderer) Resources() FrameResources {
	return r.resources
}

func (r *renderer) Device() gpu.GraphicsDevice {
	return r.device
}

func (r *renderer) ClearColor() wgpu.Color {
	return r.clearColor
}

func (r *renderer) Release() {
	if r.resources != nil {
		r.resources.Release()
		r.resources = nil
	}
	if r.depth != nil {
		r.device.ReleaseDepthBuffer(r.depth)
		r.depth = nil
	}
}
