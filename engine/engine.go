package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tri/engine/window"
)

// Phase is the application lifecycle state.
type Phase int

const (
	// PhaseUninitialized is the state before the event loop resumes. Only Resumed is handled.
	PhaseUninitialized Phase = iota
	// PhaseReady means the window, device and renderer exist and events are handled.
	PhaseReady
	// PhaseTerminating means the loop was asked to exit. Every event is ignored.
	PhaseTerminating
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseReady:
		return "Ready"
	case PhaseTerminating:
		return "Terminating"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// RendererFactory builds the device and renderer for a freshly created window.
type RendererFactory func(ctx context.Context, win window.Window, deviceOptions []gpu.GraphicsDeviceBuilderOption, rendererOptions []renderer.RendererBuilderOption) (renderer.Renderer, error)

// readyState holds what only exists once setup has completed.
type readyState struct {
	window    window.Window
	renderer  renderer.Renderer
	profiler  profiler.Profiler
	startTime time.Time
	lastFrame time.Time
}

type engine struct {
	ctx   context.Context
	clock func() time.Time

	windowOptions   []window.WindowBuilderOption
	deviceOptions   []gpu.GraphicsDeviceBuilderOption
	rendererOptions []renderer.RendererBuilderOption
	rendererFactory RendererFactory

	profilingEnabled bool
	profilerOptions  []profiler.ProfilerBuilderOption

	phase Phase
	ready *readyState
	err   error
}

// Engine drives the window, device and renderer from event loop callbacks.
//
// The engine is a window.Handler: it builds everything on the first Resumed, then renders on every
// RedrawRequested and requests the next redraw after each event so frames keep coming. Any setup or
// frame error is recorded, logged and ends the loop; Run returns it.
type Engine interface {
	window.Handler

	// Run pumps loop until the engine exits it. The renderer and device are released on the loop thread
	// before the loop closes the window; anything still held when loop.Run returns is released then.
	//
	// Parameters:
	//   - loop: the platform event loop
	//
	// Returns:
	//   - error: the fatal error that ended the loop, or nil after a requested exit
	Run(loop window.EventLoop) error

	// Phase returns the current lifecycle phase.
	Phase() Phase

	// Err returns the fatal error recorded so far, if any.
	Err() error

	// Window returns the window, nil unless Ready.
	Window() window.Window

	// Renderer returns the renderer, nil unless Ready. It is released and cleared on exit.
	Renderer() renderer.Renderer

	// StartTime returns when setup completed, the zero time before that.
	StartTime() time.Time
}

var _ Engine = &engine{}

// NewEngine creates an Engine in PhaseUninitialized. Nothing platform-facing happens until Run.
//
// Parameters:
//   - options: EngineBuilderOption functions
//
// Returns:
//   - Engine: the engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		ctx:             context.Background(),
		clock:           time.Now,
		rendererFactory: DefaultRendererFactory,
		phase:           PhaseUninitialized,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// DefaultRendererFactory negotiates a GraphicsDevice against the window's surface at the window's
// framebuffer size and builds a Renderer on it. The device is released if the renderer cannot be built.
func DefaultRendererFactory(ctx context.Context, win window.Window, deviceOptions []gpu.GraphicsDeviceBuilderOption, rendererOptions []renderer.RendererBuilderOption) (renderer.Renderer, error) {
	device, err := gpu.NewGraphicsDevice(ctx, win, win.Width(), win.Height(), deviceOptions...)
	if err != nil {
		return nil, err
	}
	r, err := renderer.NewRenderer(device, rendererOptions...)
	if err != nil {
		device.Release()
		return nil, err
	}
	return r, nil
}

func (e *engine) Run(loop window.EventLoop) error {
	err := loop.Run(e)
	e.release()
	if err != nil {
		return fmt.Errorf("event loop failed: %w", err)
	}
	return e.err
}

func (e *engine) Resumed(loop window.EventLoop) {
	if e.phase != PhaseUninitialized {
		return
	}

	win, err := loop.CreateWindow(e.windowOptions...)
	if err != nil {
		e.fail(loop, common.SetupError("create window", err))
		return
	}

	r, err := e.rendererFactory(e.ctx, win, e.deviceOptions, e.rendererOptions)
	if err != nil {
		_ = win.Close()
		e.fail(loop, err)
		return
	}

	now := e.clock()
	e.ready = &readyState{
		window:    win,
		renderer:  r,
		startTime: now,
		lastFrame: now,
	}
	if e.profilingEnabled {
		e.ready.profiler = profiler.NewProfiler(append([]profiler.ProfilerBuilderOption{profiler.WithClock(e.clock)}, e.profilerOptions...)...)
	}
	e.phase = PhaseReady
	log.Printf("[Engine] ready with %dx%d surface", win.Width(), win.Height())
	win.RequestRedraw()
}

func (e *engine) WindowEvent(loop window.EventLoop, event window.Event) {
	if e.phase != PhaseReady {
		return
	}
	ready := e.ready

	switch ev := event.(type) {
	case window.KeyboardInputEvent:
		if ev.Key == common.KeyEsc && ev.Action == common.KeyPressed {
			e.exit(loop)
			return
		}
	case window.ResizedEvent:
		width, height := common.ClampExtent(ev.Width), common.ClampExtent(ev.Height)
		log.Printf("Resizing renderer surface to: (%d, %d)", width, height)
		if err := ready.renderer.Resize(int(width), int(height)); err != nil {
			e.fail(loop, err)
			return
		}
	case window.RedrawRequestedEvent:
		now := e.clock()
		delta := now.Sub(ready.lastFrame)
		ready.lastFrame = now
		if err := ready.renderer.RenderFrame(delta); err != nil {
			if !errors.Is(err, renderer.ErrFrameInFlight) {
				e.fail(loop, err)
				return
			}
			log.Printf("[Engine] skipped redraw: %v", err)
		}
		if ready.profiler != nil {
			ready.profiler.Tick()
		}
	case window.CloseRequestedEvent:
		log.Println("Close requested. Exiting...")
		e.exit(loop)
		return
	}

	ready.window.RequestRedraw()
}

func (e *engine) Phase() Phase {
	return e.phase
}

func (e *engine) Err() error {
	return e.err
}

func (e *engine) Window() window.Window {
	if e.ready == nil {
		return nil
	}
	return e.ready.window
}

func (e *engine) Renderer() renderer.Renderer {
	if e.ready == nil {
		return nil
	}
	return e.ready.renderer
}

func (e *engine) StartTime() time.Time {
	if e.ready == nil {
		return time.Time{}
	}
	return e.ready.startTime
}

// exit moves to PhaseTerminating, releases the GPU objects while the window still exists and stops the loop.
func (e *engine) exit(loop window.EventLoop) {
	e.phase = PhaseTerminating
	e.release()
	loop.Exit()
}

// fail records err as the reason the loop ended.
func (e *engine) fail(loop window.EventLoop, err error) {
	if e.err == nil {
		e.err = err
	}
	log.Printf("[Engine] fatal: %v", err)
	e.exit(loop)
}

// release frees the profiler, renderer and device. Safe to call more than once.
func (e *engine) release() {
	if e.ready == nil {
		return
	}
	if e.ready.profiler != nil {
		e.ready.profiler.Close()
		e.ready.profiler = nil
	}
	if r := e.ready.renderer; r != nil {
		device := r.Device()
		r.Release()
		if device != nil {
			device.Release()
		}
		e.ready.renderer = nil
	}
}
