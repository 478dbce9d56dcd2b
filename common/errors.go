package common

import (
	"errors"
	"fmt"
)

var (
	// ErrFatalSetup marks a failure while building the GPU device, frame resources or window.
	// The application cannot continue after it.
	ErrFatalSetup = errors.New("fatal setup error")

	// ErrFatalFrame marks a failure while acquiring, recording, submitting or presenting a frame.
	ErrFatalFrame = errors.New("fatal frame error")
)

// SetupError wraps err as a fatal setup failure of the named operation.
// A nil err yields nil.
//
// Parameters:
//   - op: short name of the failing operation (e.g. "request adapter")
//   - err: the underlying cause
//
// Returns:
//   - error: an error matching both ErrFatalSetup and err under errors.Is
func SetupError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrFatalSetup, err)
}

// FrameError wraps err as a fatal frame failure of the named operation.
// A nil err yields nil.
func FrameError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrFatalFrame, err)
}
