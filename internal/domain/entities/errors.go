package entities

import (
	"errors"
	"fmt"
)

// ConfigurationError reports malformed or unknown settings detected while
// loading configuration. It is never recovered from; the caller surfaces it
// immediately.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ReleaseError reports an invalid release request (version regression,
// unknown component reference, invalid dependency wiring). It is surfaced
// before any pipeline executes.
type ReleaseError struct {
	Message string
}

func (e *ReleaseError) Error() string {
	return "release error: " + e.Message
}

// NewReleaseError creates a ReleaseError with a formatted message.
func NewReleaseError(format string, args ...any) error {
	return &ReleaseError{Message: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports an accessor being used before the owning value
// was finalized.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return "invalid state: " + e.Message
}

// StepExitError is the signal a step body returns to stop itself early while
// still counting as a success. It is how publish-type steps stay idempotent:
// when the work is already done they exit instead of redoing it.
type StepExitError struct {
	Message string
}

func (e *StepExitError) Error() string {
	if e.Message == "" {
		return "step exited early"
	}
	return e.Message
}

// ExitStep builds the early-exit signal for a step body.
func ExitStep(format string, args ...any) error {
	return &StepExitError{Message: fmt.Sprintf(format, args...)}
}

// PipelineExitError halts the entire remaining pipeline and marks the release
// of the current component as failed. Other components are unaffected.
type PipelineExitError struct {
	Message string
	Err     error
}

func (e *PipelineExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline aborted: %s: %v", e.Message, e.Err)
	}
	return "pipeline aborted: " + e.Message
}

func (e *PipelineExitError) Unwrap() error {
	return e.Err
}

// AbortPipeline builds the pipeline-halting signal.
func AbortPipeline(format string, args ...any) error {
	return &PipelineExitError{Message: fmt.Sprintf(format, args...)}
}

// AbortPipelineWrap builds the pipeline-halting signal around a cause.
func AbortPipelineWrap(err error, format string, args ...any) error {
	return &PipelineExitError{Message: fmt.Sprintf(format, args...), Err: err}
}

// IsStepExit reports whether err is (or wraps) a step early-exit signal.
func IsStepExit(err error) bool {
	var target *StepExitError
	return errors.As(err, &target)
}

// IsPipelineExit reports whether err is (or wraps) a pipeline abort signal.
func IsPipelineExit(err error) bool {
	var target *PipelineExitError
	return errors.As(err, &target)
}
