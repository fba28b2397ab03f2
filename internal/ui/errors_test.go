package ui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIError_ExitCode(t *testing.T) {
	tcs := []struct {
		name string
		err  *UIError
		want int
	}{
		{name: "cancelled", err: NewUserCancelledError(), want: 130},
		{name: "validation", err: NewValidationError(errors.New("bad")), want: 2},
		{name: "configuration", err: NewConfigurationError(errors.New("bad")), want: 2},
		{name: "api", err: NewAPIError(errors.New("down")), want: 1},
		{name: "deploy failed", err: NewDeployFailedError("CRASHED"), want: 1},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.ExitCode())
			assert.True(t, tc.err.SuppressUsage)
		})
	}
}

func TestAsUIError(t *testing.T) {
	base := errors.New("connection refused")
	wrapped := fmt.Errorf("deploy: %w", NewAPIError(base))

	uiErr, ok := AsUIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeAPI, uiErr.Type)
	assert.ErrorIs(t, wrapped, base)

	_, ok = AsUIError(base)
	assert.False(t, ok)
}

func TestNewUserCancelledError_IsSilent(t *testing.T) {
	err := NewUserCancelledError()
	assert.True(t, err.SilentExit)
	assert.Equal(t, "cancelled by user", err.Error())
}

func TestNewDeployFailedError(t *testing.T) {
	assert.EqualError(t, NewDeployFailedError("CRASHED"), "deployment ended with status CRASHED")
	assert.EqualError(t, NewDeployFailedError(""), "deployment could not be submitted")
}
