// Package errors provides structured error types for the wheelhouse application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across both pipelines
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INPUT_*: Problems with the requirements file itself
//   - ENV_* / TOOL_* / PARTIAL_*: Ephemeral environment lifecycle failures
//   - GRAPH_* / MALFORMED_*: Dependency introspection failures
//   - DOWNLOAD_*: Per-package download failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInputNotFound, "%s not found", path)
//	if errors.Is(err, errors.ErrCodeInputNotFound) {
//	    // Handle missing input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEnvProvision, origErr, "create venv at %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input file errors
	ErrCodeInputNotFound Code = "INPUT_NOT_FOUND"
	ErrCodeEmptyInput    Code = "EMPTY_INPUT"

	// Ephemeral environment errors
	ErrCodeEnvProvision   Code = "ENV_PROVISION"
	ErrCodeToolInstall    Code = "TOOL_INSTALL"
	ErrCodePartialInstall Code = "PARTIAL_INSTALL"

	// Dependency introspection errors
	ErrCodeGraphQuery      Code = "GRAPH_QUERY"
	ErrCodeMalformedOutput Code = "MALFORMED_OUTPUT"

	// Subprocess errors
	ErrCodePipExec Code = "PIP_EXEC"

	// Download errors
	ErrCodeDownloadFailed Code = "DOWNLOAD_FAILED"

	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
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
