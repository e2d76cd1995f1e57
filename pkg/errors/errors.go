// Package errors carries strata's coded errors.
//
// Every failure the engine reports on purpose is an [*Error] with a [Code].
// The HTTP service maps codes to status codes and the CLI prints them, so
// callers branch on the code rather than on message text:
//
//	INVALID_*                      malformed records or option values
//	GRAPH_TOO_DEEP                 nesting deeper than the configured limit
//	UNRESOLVED_CYCLE               a cycle the cycle breaker could not remove
//	UNKNOWN_ALGORITHM, UNSUPPORTED algorithm lookup failures
//	INTERNAL_*                     bugs
//
// For example:
//
//	err := errors.Wrap(errors.ErrCodeInvalidInput, cause, "decode graph %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // report to the user
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput          Code = "INVALID_INPUT"
	ErrCodeInvalidPadding        Code = "INVALID_PADDING"
	ErrCodeInvalidPortSide       Code = "INVALID_PORT_SIDE"
	ErrCodeInvalidAlignDirection Code = "INVALID_ALIGN_DIRECTION"
	ErrCodeInvalidOption         Code = "INVALID_OPTION"
	ErrCodeInvalidConfig         Code = "INVALID_CONFIG"
	ErrCodeDuplicateID           Code = "DUPLICATE_ID"

	// Traversal limits
	ErrCodeGraphTooDeep    Code = "GRAPH_TOO_DEEP"
	ErrCodeUnresolvedCycle Code = "UNRESOLVED_CYCLE"

	// Dispatcher errors
	ErrCodeUnknownAlgorithm Code = "UNKNOWN_ALGORITHM"
	ErrCodeUnsupported      Code = "UNSUPPORTED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsInput reports whether err is a structural input error that the caller
// can fix by correcting the graph record or its options.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidPadding, ErrCodeInvalidPortSide,
		ErrCodeInvalidAlignDirection, ErrCodeInvalidOption, ErrCodeDuplicateID:
		return true
	}
	return false
}
