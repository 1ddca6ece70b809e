// Package errors provides structured error types for licensetree.
//
// Error codes separate the two failure classes the scanner cares about:
// fatal traversal errors (a manifest that cannot be parsed, a dependency
// directory that cannot be listed) and everything else, which degrades
// gracefully and never carries one of the fatal codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "no package.json in %s", dir)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // fatal: abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDirectoryList, origErr, "list %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the scanner's failure categories.
const (
	// Fatal traversal errors: the on-disk tree itself is unreliable.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeDirectoryList   Code = "DIRECTORY_LIST"

	// Input validation errors
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidLineEnding Code = "INVALID_LINE_ENDING"

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

// IsFatal reports whether err carries one of the traversal-aborting codes.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidManifest, ErrCodeDirectoryList:
		return true
	}
	return false
}
