package window

import "github.com/Carmen-Shannon/oxy-tri/common"

// Event is a window event delivered to Handler.WindowEvent.
type Event interface {
	eventName() string
}

// ResizedEvent reports a new framebuffer size in pixels. A minimized window reports 0x0.
type ResizedEvent struct {
	Width  int
	Height int
}

// RedrawRequestedEvent is delivered once per RequestRedraw, after pending input has been processed.
type RedrawRequestedEvent struct{}

// CloseRequestedEvent reports that the user asked to close the window. The window stays open until
// the handler exits the loop.
type CloseRequestedEvent struct{}

// KeyboardInputEvent reports a key transition. Key holds a common.Key* code.
type KeyboardInputEvent struct {
	Key    int
	Action common.KeyAction
}

func (ResizedEvent) eventName() string         { return "Resized" }
func (RedrawRequestedEvent) eventName() string { return "RedrawRequested" }
func (CloseRequestedEvent) eventName() string  { return "CloseRequested" }
func (KeyboardInputEvent) eventName() string   { return "KeyboardInput" }

// EventName returns a short name for e, used in logs.
func EventName(e Event) string {
	if e == nil {
		return "<nil>"
	}
	return e.eventName()
}
