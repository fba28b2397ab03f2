package ui

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of error for proper handling
type ErrorType int

const (
	ErrorTypeUserCancelled ErrorType = iota // Ctrl+C - silent exit
	ErrorTypeValidation                     // Bad flags or input - show error, no usage
	ErrorTypeAPI                            // Engine unreachable or rejected the call
	ErrorTypeFileSystem                     // File operations
	ErrorTypeConfiguration                  // Config issues
	ErrorTypeInternal                       // Unexpected
	ErrorTypeDeployFailed                   // Job ended without success (headless runs)
)

// UIError carries an error from a bubbletea model or command back to cobra,
// together with how it should be presented.
type UIError struct {
	Err           error
	Type          ErrorType
	SuppressUsage bool // Don't show Cobra usage message
	SilentExit    bool // Already rendered in the UI, or should not be shown
}

func (e *UIError) Error() string {
	return e.Err.Error()
}

func (e *UIError) Unwrap() error {
	return e.Err
}

// ExitCode maps the error type to the process exit status.
func (e *UIError) ExitCode() int {
	switch e.Type {
	case ErrorTypeUserCancelled:
		return 130
	case ErrorTypeValidation, ErrorTypeConfiguration:
		return 2
	default:
		return 1
	}
}

// AsUIError finds a *UIError in err's chain.
func AsUIError(err error) (*UIError, bool) {
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr, true
	}
	return nil, false
}

func newUIError(err error, errType ErrorType) *UIError {
	return &UIError{Err: err, Type: errType, SuppressUsage: true}
}

func NewUserCancelledError() *UIError {
	e := newUIError(fmt.Errorf("cancelled by user"), ErrorTypeUserCancelled)
	e.SilentExit = true
	return e
}

func NewValidationError(err error) *UIError {
	return newUIError(err, ErrorTypeValidation)
}

func NewAPIError(err error) *UIError {
	return newUIError(err, ErrorTypeAPI)
}

func NewFileSystemError(err error) *UIError {
	return newUIError(err, ErrorTypeFileSystem)
}

func NewConfigurationError(err error) *UIError {
	return newUIError(err, ErrorTypeConfiguration)
}

func NewInternalError(err error) *UIError {
	return newUIError(err, ErrorTypeInternal)
}

// NewDeployFailedError reports a job that finished without reaching success.
// An empty status means the deploy request itself was rejected. The dashboard
// has already printed the logs, so the message stays short.
func NewDeployFailedError(status string) *UIError {
	if status == "" {
		return newUIError(fmt.Errorf("deployment could not be submitted"), ErrorTypeDeployFailed)
	}
	return newUIError(fmt.Errorf("deployment ended with status %s", status), ErrorTypeDeployFailed)
}
