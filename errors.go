package loadwhatever

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidArgument is returned when the path is empty. No I/O happens.
	ErrInvalidArgument = errors.New("loadwhatever: file must be a non-empty path")

	// ErrAsyncNotSupported is matched by AsyncNotSupportedError.
	ErrAsyncNotSupported = errors.New("loadwhatever: asynchronous result not supported by LoadSync")

	// ErrFormatUnrecognized is matched by FormatError.
	ErrFormatUnrecognized = errors.New("loadwhatever: format unrecognized")
)

// ModuleExecutionError is returned when a script's exported function fails.
type ModuleExecutionError struct {
	Path string // Resolved script path
	Err  error  // Error raised by the function
}

// Error implements the error interface.
func (e *ModuleExecutionError) Error() string {
	return fmt.Sprintf("executing the function inside %s resulted in this exception:\n%v", e.Path, e.Err)
}

// Unwrap returns the function's error.
func (e *ModuleExecutionError) Unwrap() error {
	return e.Err
}

// AsyncNotSupportedError is returned by LoadSync when a script's exported
// function returns an asynchronous result. The result is never awaited.
type AsyncNotSupportedError struct {
	Path string // Resolved script path
}

// Error implements the error interface.
func (e *AsyncNotSupportedError) Error() string {
	return fmt.Sprintf("the function inside %s returned an asynchronous result; use Load instead of LoadSync", e.Path)
}

// Unwrap returns ErrAsyncNotSupported.
func (e *AsyncNotSupportedError) Unwrap() error {
	return ErrAsyncNotSupported
}

// FormatError is returned when a file without a recognized extension parses
// neither as JSON nor as YAML.
type FormatError struct {
	Path    string // Path as given by the caller
	JSONErr error
	YAMLErr error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("could not parse %s as JSON or YAML (json: %v; yaml: %v)", e.Path, e.JSONErr, e.YAMLErr)
}

// Unwrap exposes ErrFormatUnrecognized and both parser errors.
func (e *FormatError) Unwrap() []error {
	return []error{ErrFormatUnrecognized, e.JSONErr, e.YAMLErr}
}
