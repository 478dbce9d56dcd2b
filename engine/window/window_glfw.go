package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-tri/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// idleWaitSeconds bounds how long the loop blocks for input when no redraw is pending.
const idleWaitSeconds = 0.1

// glfwEventLoop is the GLFW implementation of EventLoop. It supports one window.
type glfwEventLoop struct {
	handler Handler
	window  *glfwWindow
	exiting bool
}

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	loop          *glfwEventLoop
	window        *glfw.Window
	title         string
	width         int
	height        int
	redrawPending bool
}

var _ EventLoop = &glfwEventLoop{}
var _ Window = &glfwWindow{}

// NewEventLoop creates a GLFW-backed event loop. GLFW is initialized by Run.
//
// Returns:
//   - EventLoop: the event loop
func NewEventLoop() EventLoop {
	return &glfwEventLoop{}
}

// Run locks the calling goroutine to its OS thread, initializes GLFW, calls handler.Resumed and then pumps
// events until Exit. Input callbacks fire from inside PollEvents, so every handler call happens on this thread.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func (l *glfwEventLoop) Run(handler Handler) error {
	if handler == nil {
		return errors.New("event loop requires a handler")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfw.Terminate()

	l.handler = handler
	l.exiting = false
	handler.Resumed(l)

	for !l.exiting {
		if l.window != nil && l.window.redrawPending {
			glfw.PollEvents()
		} else {
			glfw.WaitEventsTimeout(idleWaitSeconds)
		}
		if l.exiting {
			break
		}
		if w := l.window; w != nil && w.redrawPending {
			w.redrawPending = false
			handler.WindowEvent(l, RedrawRequestedEvent{})
		}
	}

	if l.window != nil {
		_ = l.window.Close()
	}
	return nil
}

func (l *glfwEventLoop) CreateWindow(options ...WindowBuilderOption) (Window, error) {
	if l.window != nil {
		return nil, errors.New("event loop already owns a window")
	}
	cfg := newWindowConfig(options...)

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if cfg.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.width, cfg.height, cfg.title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(sizeLimit(cfg.minWidth), sizeLimit(cfg.minHeight), sizeLimit(cfg.maxWidth), sizeLimit(cfg.maxHeight))

	gw := &glfwWindow{
		loop:   l,
		window: win,
		title:  cfg.title,
	}

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		l.dispatch(KeyboardInputEvent{Key: int(key), Action: keyAction(action)})
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gw.width = width
		gw.height = height
		l.dispatch(ResizedEvent{Width: width, Height: height})
	})

	// The close flag is reset so the window only closes when the handler exits the loop.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCloseCallback
	win.SetCloseCallback(func(w *glfw.Window) {
		w.SetShouldClose(false)
		l.dispatch(CloseRequestedEvent{})
	})

	// Actual framebuffer size may differ from the requested size on high-DPI displays.
	gw.width, gw.height = win.GetFramebufferSize()
	l.window = gw
	return gw, nil
}

func (l *glfwEventLoop) Exit() {
	l.exiting = true
}

func (l *glfwEventLoop) dispatch(event Event) {
	if l.exiting || l.handler == nil {
		return
	}
	l.handler.WindowEvent(l, event)
}

func (w *glfwWindow) Title() string {
	return w.title
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}

// SurfaceDescriptor uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.window == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

func (w *glfwWindow) RequestRedraw() {
	w.redrawPending = true
}

func (w *glfwWindow) Close() error {
	if w.window == nil {
		return fmt.Errorf("window is not initialized")
	}
	w.window.Destroy()
	w.window = nil
	w.redrawPending = false
	if w.loop.window == w {
		w.loop.window = nil
	}
	return nil
}

// keyAction maps a GLFW action to a common.KeyAction.
func keyAction(action glfw.Action) common.KeyAction {
	switch action {
	case glfw.Press:
		return common.KeyPressed
	case glfw.Repeat:
		return common.KeyRepeated
	default:
		return common.KeyReleased
	}
}

// sizeLimit maps an unset limit to glfw.DontCare.
func sizeLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}
