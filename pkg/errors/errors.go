// Package errors provides structured error types for the Barline daemon.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the store, the IPC server, and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for the wire protocol's error responses
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure a client can trigger maps to exactly one code:
//   - NOT_FOUND: a referenced node or parent does not exist
//   - ALREADY_EXISTS: an add collides with an existing node name
//   - INVALID_PARENT: the parent exists but cannot hold children
//   - INVALID_VALUE: a property value fails to parse as its expected type
//   - UNKNOWN_PROPERTY: an unrecognized key in a property map
//   - PROTOCOL_ERROR: a malformed request line
//
// None of these are process-fatal; the dispatch boundary converts them all
// into error responses.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "node %q not found", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeProtocol, origErr, "invalid command")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Store errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeAlreadyExists Code = "ALREADY_EXISTS"
	ErrCodeInvalidParent Code = "INVALID_PARENT"

	// Property resolution errors
	ErrCodeInvalidValue    Code = "INVALID_VALUE"
	ErrCodeUnknownProperty Code = "UNKNOWN_PROPERTY"

	// Wire protocol errors
	ErrCodeProtocol Code = "PROTOCOL_ERROR"

	// Outer surface errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
