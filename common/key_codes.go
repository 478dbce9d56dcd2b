package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace   = 32  // Space key
	KeyEsc     = 256 // Escape key
	KeyEnter   = 257 // Enter key
	KeyF11     = 300 // F11 key
	KeyUnknown = -1  // Key not mapped by the platform
)

// KeyAction is the state transition reported for a key.
type KeyAction int

const (
	KeyReleased KeyAction = iota
	KeyPressed
	KeyRepeated
)
