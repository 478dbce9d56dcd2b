package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/Carmen-Shannon/oxy-tri/config"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu"
	"github.com/Carmen-Shannon/oxy-tri/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-tri/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tri/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tri/engine/scene"
	"github.com/Carmen-Shannon/oxy-tri/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shutdownLog records teardown calls across fakes in the order they happen.
type shutdownLog []string

func (l *shutdownLog) record(step string) {
	if l != nil {
		*l = append(*l, step)
	}
}

type fakeWindow struct {
	width, height int
	redraws       int
	closed        bool
	log           *shutdownLog
}

func (w *fakeWindow) Title() string { return "fake" }
func (w *fakeWindow) Width() int    { return w.width }
func (w *fakeWindow) Height() int   { return w.height }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return &wgpu.SurfaceDescriptor{}
}
func (w *fakeWindow) RequestRedraw() { w.redraws++ }
func (w *fakeWindow) Close() error {
	w.closed = true
	w.log.record("window closed")
	return nil
}

// fakeLoop resumes the handler, delivers events until the handler exits, then closes the window
// the way the platform loop does.
type fakeLoop struct {
	window    *fakeWindow
	createErr error
	runErr    error
	events    []window.Event
	created   int
	exits     int
}

func newFakeLoop(events ...window.Event) *fakeLoop {
	return &fakeLoop{window: &fakeWindow{width: 800, height: 600}, events: events}
}

func (l *fakeLoop) Run(h window.Handler) error {
	h.Resumed(l)
	for _, ev := range l.events {
		if l.exits > 0 {
			break
		}
		h.WindowEvent(l, ev)
	}
	if l.created > 0 {
		_ = l.window.Close()
	}
	return l.runErr
}

func (l *fakeLoop) CreateWindow(...window.WindowBuilderOption) (window.Window, error) {
	if l.createErr != nil {
		return nil, l.createErr
	}
	l.created++
	return l.window, nil
}

func (l *fakeLoop) Exit() { l.exits++ }

type fakeRenderer struct {
	frames   []time.Duration
	resizes  [][2]int
	frameErr error
	released bool
	log      *shutdownLog
}

func (r *fakeRenderer) RenderFrame(delta time.Duration) error {
	r.frames = append(r.frames, delta)
	return r.frameErr
}
func (r *fakeRenderer) Resize(width, height int) error {
	r.resizes = append(r.resizes, [2]int{width, height})
	return nil
}
func (r *fakeRenderer) State() renderer.FrameState         { return renderer.FrameIdle }
func (r *fakeRenderer) Scene() scene.Scene                 { return nil }
func (r *fakeRenderer) DepthBuffer() *gpu.DepthBuffer      { return nil }
func (r *fakeRenderer) Resources() renderer.FrameResources { return nil }
func (r *fakeRenderer) Device() gpu.GraphicsDevice         { return nil }
func (r *fakeRenderer) ClearColor() wgpu.Color             { return renderer.DefaultClearColor }
func (r *fakeRenderer) Release() {
	r.released = true
	r.log.record("renderer released")
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	engine   Engine
	loop     *fakeLoop
	renderer *fakeRenderer
	clock    *fakeClock
	builds   int
}

func newHarness(t *testing.T, options ...EngineBuilderOption) *harness {
	t.Helper()
	h := &harness{
		loop:     newFakeLoop(),
		renderer: &fakeRenderer{},
		clock:    &fakeClock{now: time.Unix(100, 0)},
	}
	factory := func(context.Context, window.Window, []gpu.GraphicsDeviceBuilderOption, []renderer.RendererBuilderOption) (renderer.Renderer, error) {
		h.builds++
		return h.renderer, nil
	}
	options = append([]EngineBuilderOption{WithRendererFactory(factory), WithClock(h.clock.Now)}, options...)
	h.engine = NewEngine(options...)
	return h
}

func TestEventsBeforeResumedAreIgnored(t *testing.T) {
	h := newHarness(t)

	h.engine.WindowEvent(h.loop, window.RedrawRequestedEvent{})
	h.engine.WindowEvent(h.loop, window.ResizedEvent{Width: 10, Height: 10})
	h.engine.WindowEvent(h.loop, window.CloseRequestedEvent{})

	assert.Equal(t, PhaseUninitialized, h.engine.Phase())
	assert.Zero(t, h.builds)
	assert.Zero(t, h.loop.exits)
	assert.Nil(t, h.engine.Window())
	assert.Nil(t, h.engine.Renderer())
	assert.True(t, h.engine.StartTime().IsZero())
}

func TestResumedBuildsOnce(t *testing.T) {
	h := newHarness(t)

	h.engine.Resumed(h.loop)
	h.engine.Resumed(h.loop)

	assert.Equal(t, PhaseReady, h.engine.Phase())
	assert.Equal(t, 1, h.builds)
	assert.Equal(t, 1, h.loop.created)
	assert.Equal(t, 1, h.loop.window.redraws)
	assert.Equal(t, h.clock.now, h.engine.StartTime())
	assert.Same(t, h.loop.window, h.engine.Window())
	assert.Same(t, h.renderer, h.engine.Renderer())
}

func TestRedrawUsesFrameDelta(t *testing.T) {
	h := newHarness(t)
	h.engine.Resumed(h.loop)

	h.clock.Advance(16 * time.Millisecond)
	h.engine.WindowEvent(h.loop, window.RedrawRequestedEvent{})
	h.clock.Advance(20 * time.Millisecond)
	h.engine.WindowEvent(h.loop, window.RedrawRequestedEvent{})

	assert.Equal(t, []time.Duration{16 * time.Millisecond, 20 * time.Millisecond}, h.renderer.frames)
	assert.Equal(t, 3, h.loop.window.redraws)
}

func TestResizeClampsToOne(t *testing.T) {
	h := newHarness(t)
	h.engine.Resumed(h.loop)

	h.engine.WindowEvent(h.loop, window.ResizedEvent{Width: 800, Height: 600})
	h.engine.WindowEvent(h.loop, window.ResizedEvent{Width: 0, Height: 0})
	h.engine.WindowEvent(h.loop, window.ResizedEvent{Width: 1024, Height: 768})

	assert.Equal(t, [][2]int{{800, 600}, {1, 1}, {1024, 768}}, h.renderer.resizes)
	assert.Equal(t, PhaseReady, h.engine.Phase())
	assert.Equal(t, 4, h.loop.window.redraws)
}

func TestEscapeExits(t *testing.T) {
	h := newHarness(t)
	h.engine.Resumed(h.loop)

	h.engine.WindowEvent(h.loop, window.KeyboardInputEvent{Key: common.KeyEsc, Action: common.KeyReleased})
	h.engine.WindowEvent(h.loop, window.KeyboardInputEvent{Key: common.KeySpace, Action: common.KeyPressed})
	assert.Equal(t, PhaseReady, h.engine.Phase())
	assert.Zero(t, h.loop.exits)

	h.engine.WindowEvent(h.loop, window.KeyboardInputEvent{Key: common.KeyEsc, Action: common.KeyPressed})
	assert.Equal(t, PhaseTerminating, h.engine.Phase())
	assert.Equal(t, 1, h.loop.exits)

	h.engine.WindowEvent(h.loop, window.RedrawRequestedEvent{})
	assert.Empty(t, h.renderer.frames)
	assert.NoError(t, h.engine.Err())
}

func TestCloseRequestedExits(t *testing.T) {
	h := newHarness(t)
	h.loop.events = []window.Event{
		window.RedrawRequestedEvent{},
		window.CloseRequestedEvent{},
		window.RedrawRequestedEvent{},
	}

	require.NoError(t, h.engine.Run(h.loop))
	assert.Equal(t, PhaseTerminating, h.engine.Phase())
	assert.Len(t, h.renderer.frames, 1)
	assert.True(t, h.renderer.released)
}

func TestSetupFailureEndsLoop(t *testing.T) {
	cause := errors.New("no adapter")
	loop := newFakeLoop(window.RedrawRequestedEvent{})
	e := NewEngine(WithRendererFactory(func(context.Context, window.Window, []gpu.GraphicsDeviceBuilderOption, []renderer.RendererBuilderOption) (renderer.Renderer, error) {
		return nil, common.SetupError("request adapter", cause)
	}))

	err := e.Run(loop)
	assert.ErrorIs(t, err, common.ErrFatalSetup)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, PhaseTerminating, e.Phase())
	assert.Equal(t, 1, loop.exits)
	assert.True(t, loop.window.closed)
	assert.Nil(t, e.Renderer())
}

func TestCreateWindowFailure(t *testing.T) {
	h := newHarness(t)
	h.loop.createErr = errors.New("no display")

	err := h.engine.Run(h.loop)
	assert.ErrorIs(t, err, common.ErrFatalSetup)
	assert.Zero(t, h.builds)
}

func TestFrameErrorEndsLoop(t *testing.T) {
	h := newHarness(t)
	h.renderer.frameErr = common.FrameError("acquire surface image", errors.New("lost"))
	h.loop.events = []window.Event{window.RedrawRequestedEvent{}, window.RedrawRequestedEvent{}}

	err := h.engine.Run(h.loop)
	assert.ErrorIs(t, err, common.ErrFatalFrame)
	assert.Len(t, h.renderer.frames, 1)
	assert.Equal(t, PhaseTerminating, h.engine.Phase())
	assert.Equal(t, 1, h.loop.window.redraws)
}

func TestFrameInFlightIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.renderer.frameErr = renderer.ErrFrameInFlight
	h.engine.Resumed(h.loop)

	h.engine.WindowEvent(h.loop, window.RedrawRequestedEvent{})
	assert.Equal(t, PhaseReady, h.engine.Phase())
	assert.NoError(t, h.engine.Err())
	assert.Equal(t, 2, h.loop.window.redraws)
}

func TestProfilingTicksOnRedraw(t *testing.T) {
	reports := make(chan profiler.Report, 1)
	h := newHarness(t, WithProfiling(true,
		profiler.WithInterval(10*time.Millisecond),
		profiler.WithReportSink(func(r profiler.Report) { reports <- r }),
	))

	// the profiler shares the engine clock, so one 10ms frame ends an interval
	h.engine.Resumed(h.loop)
	h.clock.Advance(10 * time.Millisecond)
	h.engine.WindowEvent(h.loop, window.RedrawRequestedEvent{})

	select {
	case r := <-reports:
		assert.Equal(t, 1, r.Frames)
	case <-time.After(5 * time.Second):
		t.Fatal("profiler report was not delivered")
	}
}

func TestDefaultRendererFactory(t *testing.T) {
	fake := gputest.NewFakeBackend()
	loop := newFakeLoop()
	clock := &fakeClock{now: time.Unix(0, 0)}
	e := NewEngine(WithDeviceOptions(gpu.WithBackendFactory(fake.Factory())), WithClock(clock.Now))

	e.Resumed(loop)
	require.Equal(t, PhaseReady, e.Phase())
	require.NotNil(t, e.Renderer())
	assert.Equal(t, uint32(800), e.Renderer().Device().Width())

	clock.Advance(time.Second)
	e.WindowEvent(loop, window.RedrawRequestedEvent{})
	require.Len(t, fake.Passes, 1)
	assert.Equal(t, uint32(3), fake.Passes[0].Draws[0].IndexCount)

	e.WindowEvent(loop, window.ResizedEvent{Width: 0, Height: 0})
	last := fake.Configurations[len(fake.Configurations)-1]
	assert.Equal(t, uint32(1), last.Width)
	assert.Equal(t, uint32(1), last.Height)
	assert.Equal(t, uint32(1), e.Renderer().DepthBuffer().Width)
}

func TestCancelledContextFailsSetup(t *testing.T) {
	fake := gputest.NewFakeBackend()
	loop := newFakeLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEngine(WithContext(ctx), WithDeviceOptions(gpu.WithBackendFactory(fake.Factory())))

	e.Resumed(loop)
	assert.Equal(t, PhaseTerminating, e.Phase())
	assert.ErrorIs(t, e.Err(), context.Canceled)
	assert.ErrorIs(t, e.Err(), common.ErrFatalSetup)
	assert.True(t, loop.window.closed)
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Graphics.ClearColor = [4]float64{0, 0, 0, 1}
	cfg.Graphics.PresentMode = config.PresentModeUncapped
	cfg.Scene.RotationDegreesPerSecond = 45

	fake := gputest.NewFakeBackend()
	loop := newFakeLoop()
	e := NewEngine(WithConfig(cfg), WithDeviceOptions(gpu.WithBackendFactory(fake.Factory())))

	e.Resumed(loop)
	require.Equal(t, PhaseReady, e.Phase())
	assert.Equal(t, wgpu.Color{A: 1}, e.Renderer().ClearColor())
	assert.Equal(t, float32(45), e.Renderer().Scene().RotationRate())
	require.NotEmpty(t, fake.Configurations)
	assert.Equal(t, wgpu.PresentModeImmediate, fake.Configurations[0].PresentMode)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Uninitialized", PhaseUninitialized.String())
	assert.Equal(t, "Ready", PhaseReady.String())
	assert.Equal(t, "Terminating", PhaseTerminating.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

func TestExitReleasesRendererBeforeWindowCloses(t *testing.T) {
	for name, event := range map[string]window.Event{
		"close requested": window.CloseRequestedEvent{},
		"escape":          window.KeyboardInputEvent{Key: common.KeyEsc, Action: common.KeyPressed},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			var log shutdownLog
			h.loop.window.log = &log
			h.renderer.log = &log
			h.loop.events = []window.Event{window.RedrawRequestedEvent{}, event}

			require.NoError(t, h.engine.Run(h.loop))
			assert.Equal(t, shutdownLog{"renderer released", "window closed"}, log)
			assert.Nil(t, h.engine.Renderer())
		})
	}
}

func TestFrameErrorReleasesBeforeWindowCloses(t *testing.T) {
	h := newHarness(t)
	var log shutdownLog
	h.loop.window.log = &log
	h.renderer.log = &log
	h.renderer.frameErr = common.FrameError("submit", errors.New("device lost"))
	h.loop.events = []window.Event{window.RedrawRequestedEvent{}}

	assert.ErrorIs(t, h.engine.Run(h.loop), common.ErrFatalFrame)
	assert.Equal(t, shutdownLog{"renderer released", "window closed"}, log)
}

func TestLoopErrorStillReleases(t *testing.T) {
	h := newHarness(t)
	h.loop.runErr = errors.New("display went away")

	err := h.engine.Run(h.loop)
	assert.ErrorContains(t, err, "display went away")
	assert.True(t, h.renderer.released)
	assert.Nil(t, h.engine.Renderer())
}
