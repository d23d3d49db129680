package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the domain error taxonomy.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("operation not permitted in current state")
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrGatewayDeclined   = errors.New("payment declined by gateway")
)

// AppError represents an application error with HTTP status and error code.
// Every taxonomy error is recoverable at the API boundary and surfaced as a
// structured 4xx response.
type AppError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	StatusCode int      `json:"-"`
	Err        error    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap returns the wrapped sentinel error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a validation error carrying the accumulated messages.
func Validation(details ...string) *AppError {
	msg := "validation failed"
	if len(details) == 1 {
		msg = details[0]
	}
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		Details:    details,
		StatusCode: http.StatusBadRequest,
		Err:        ErrValidation,
	}
}

// InvalidTransition creates an error naming the current and requested state.
func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:       "INVALID_TRANSITION",
		Message:    fmt.Sprintf("invalid status transition: %s -> %s", from, to),
		StatusCode: http.StatusConflict,
		Err:        ErrInvalidTransition,
	}
}

// InvalidState creates an error for an operation rejected by the current state.
func InvalidState(operation, current string) *AppError {
	return &AppError{
		Code:       "INVALID_STATE",
		Message:    fmt.Sprintf("%s not allowed in status %s", operation, current),
		StatusCode: http.StatusConflict,
		Err:        ErrInvalidState,
	}
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
		Err:        ErrForbidden,
	}
}

// GatewayDeclined creates a payment declined error carrying the gateway
// reason code as the error code.
func GatewayDeclined(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: http.StatusPaymentRequired,
		Err:        ErrGatewayDeclined,
	}
}

// Internal wraps an unexpected error.
func Internal(err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// AsAppError extracts an *AppError from err, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
