package errors

import (
	stderrors "errors"
	"fmt"
)

// Is and As re-export the standard library helpers so callers depending on
// this package do not need a second errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As reports whether any error in err's chain matches target's type.
func As(err error, target any) bool { return stderrors.As(err, target) }

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeCollectionUnavailable indicates a telemetry source could not
	// be reached during collection.
	ErrCodeCollectionUnavailable ErrorCode = "COLLECTION_UNAVAILABLE"
	// ErrCodeMalformedResponse indicates a telemetry source answered with
	// data that could not be decoded.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	// ErrCodeBinding indicates a template referenced a data key the
	// snapshot does not provide.
	ErrCodeBinding ErrorCode = "BINDING"
	// ErrCodeMalformedTemplate indicates unbalanced or invalid template
	// structure (e.g. an unclosed frame).
	ErrCodeMalformedTemplate ErrorCode = "MALFORMED_TEMPLATE"
	// ErrCodeRender indicates a renderer encountered a block it cannot
	// handle; this is an implementation error, fatal for the cycle output.
	ErrCodeRender ErrorCode = "RENDER"
	// ErrCodeTimeout indicates a task exceeded its per-cycle deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConfig indicates invalid or unusable configuration.
	ErrCodeConfig ErrorCode = "CONFIG"
	// ErrCodePublish indicates the artifact sink rejected or failed to
	// store a finished artifact set.
	ErrCodePublish ErrorCode = "PUBLISH"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError provides structured error information for better
// observability. It includes an error code for programmatic handling, a
// human-readable message, the underlying cause, and optional context for
// debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the ErrorCode of err if it is (or wraps) a StructuredError,
// or ErrCodeInternal otherwise.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
