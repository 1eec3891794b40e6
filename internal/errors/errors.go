package errors

import "fmt"

// ErrorCode represents a rostermap error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrInputTooLarge  ErrorCode = "INPUT_TOO_LARGE" // 413
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// RosterError represents a structured error with code, status, and details.
// Only configuration-level failures become RosterErrors; a single contact
// record that yields no email is skipped, never surfaced as an error.
type RosterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RosterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RosterError {
	return &RosterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing or unreadable input file.
func NewNotFound(path string) *RosterError {
	return &RosterError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("input file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewInputTooLarge creates a 413 error when the roster exceeds the
// configured size limit.
func NewInputTooLarge(max, actual int) *RosterError {
	return &RosterError{
		Code:    ErrInputTooLarge,
		Status:  413,
		Message: fmt.Sprintf("input exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RosterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RosterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a RosterError with the given code.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := err.(*RosterError); ok {
		return rErr.Code == code
	}
	return false
}
