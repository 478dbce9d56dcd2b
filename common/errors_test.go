package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("no adapter")

	err := SetupError("request adapter", cause)
	assert.ErrorIs(t, err, ErrFatalSetup)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFatalFrame)
	assert.Contains(t, err.Error(), "request adapter")

	err = FrameError("acquire surface texture", cause)
	assert.ErrorIs(t, err, ErrFatalFrame)
	assert.ErrorIs(t, err, cause)

	assert.NoError(t, SetupError("noop", nil))
	assert.NoError(t, FrameError("noop", nil))
}
