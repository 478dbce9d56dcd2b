package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Handler receives the lifecycle and window events of an EventLoop. All calls happen on the loop's thread.
type Handler interface {
	// Resumed is called once the platform is ready for windows to be created.
	//
	// Parameters:
	//   - loop: the running event loop
	Resumed(loop EventLoop)

	// WindowEvent is called for every event of a window created on loop.
	//
	// Parameters:
	//   - loop: the running event loop
	//   - event: the event
	WindowEvent(loop EventLoop, event Event)
}

// EventLoop owns the platform message pump and the windows created on it.
type EventLoop interface {
	// Run pumps platform events into handler until Exit is called. It must be called from the main goroutine.
	//
	// Parameters:
	//   - handler: receives Resumed and window events
	//
	// Returns:
	//   - error: an error if the platform could not be initialized
	Run(handler Handler) error

	// CreateWindow opens a window. Only valid from within handler callbacks.
	//
	// Parameters:
	//   - options: WindowBuilderOption functions
	//
	// Returns:
	//   - Window: the created window
	//   - error: an error if the platform refused to create it
	CreateWindow(options ...WindowBuilderOption) (Window, error)

	// Exit ends the loop after the current callback returns.
	Exit()
}

// Window is a platform window with a WebGPU-compatible drawing surface.
type Window interface {
	// Title returns the window title.
	Title() string

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.).
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// RequestRedraw schedules a RedrawRequestedEvent. Multiple requests before the next redraw coalesce.
	RequestRedraw()

	// Close destroys the window.
	//
	// Returns:
	//   - error: error if the window was already closed
	Close() error
}

// windowConfig holds the creation parameters collected from WindowBuilderOption functions.
type windowConfig struct {
	title     string
	width     int
	height    int
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int
	resizable bool
}

// newWindowConfig applies options over the defaults.
func newWindowConfig(options ...WindowBuilderOption) windowConfig {
	cfg := windowConfig{
		title:     "Standalone Winit/Wgpu Example",
		width:     800,
		height:    600,
		resizable: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
