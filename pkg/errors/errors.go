// Package errors provides structured error types for the voronoi application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Families
//
// Codes are grouped into two families that callers usually branch on:
//   - Validation errors (INVALID_INPUT, INVALID_DIMENSIONS, ...): the request itself is
//     malformed. Reported with [IsValidation] and mapped to HTTP 400.
//   - Configuration errors (INVALID_COLOR, INVALID_CONFIG): a named resource such as a base
//     color could not be resolved. Reported with [IsConfiguration] and mapped to HTTP 422.
//
// Everything else is treated as internal.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimensions, "width must be positive, got %d", w)
//	if errors.IsValidation(err) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode png")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidDimensions  Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidFilename    Code = "INVALID_FILENAME"
	ErrCodeInvalidPaletteMode Code = "INVALID_PALETTE_MODE"

	// Configuration errors
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

var validationCodes = map[Code]bool{
	ErrCodeInvalidInput:       true,
	ErrCodeInvalidDimensions:  true,
	ErrCodeInvalidFilename:    true,
	ErrCodeInvalidPaletteMode: true,
}

var configurationCodes = map[Code]bool{
	ErrCodeInvalidColor:  true,
	ErrCodeInvalidConfig: true,
}

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

// IsValidation reports whether err belongs to the validation family.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
}

// IsConfiguration reports whether err belongs to the configuration family.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
}

// HTTPStatus maps an error to the status code the server responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsConfiguration(err):
		return http.StatusUnprocessableEntity
	case Is(err, ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
