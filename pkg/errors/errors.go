// Package errors provides the structured error kinds used by order resolution.
//
// Per-subtree faults (NOT_FOUND, BACKEND_FAULT) are recovered inside a
// resolution and only surface as diagnostics. INVALID_INPUT, CYCLE_DETECTED,
// DEPTH_EXCEEDED and INTERNAL_ERROR abort the whole call.
//
//	err := errors.New(errors.ErrCodeInvalidInput, "no valid targets")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // reject the request
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the resolution error kinds.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeBackendFault  Code = "BACKEND_FAULT"
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"
	ErrCodeDepthExceeded Code = "DEPTH_EXCEEDED"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	var ce *CycleError
	if errors.As(err, &ce) {
		return code == ErrCodeCycleDetected
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Errors without a code are reported as INTERNAL_ERROR so callers always
// have something to count and log.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ce *CycleError
	if errors.As(err, &ce) {
		return ErrCodeCycleDetected
	}
	return ErrCodeInternal
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// CycleError reports an assembly that directly or transitively contains itself.
// Path lists the part identifiers from the first repeated part back to itself.
type CycleError struct {
	Path []int64
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s: assembly cycle %s", ErrCodeCycleDetected, strings.Join(parts, " -> "))
}

// Code returns the error code for this error type.
func (e *CycleError) Code() Code {
	return ErrCodeCycleDetected
}
