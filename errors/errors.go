// Package errors provides the typed error taxonomy for the auth subsystem.
// Every failure crossing a service boundary is an *AppError carrying a
// machine-readable code, a client-safe message, and the HTTP status the
// transport layer should map it to. Internal causes are wrapped but never
// serialized to clients.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable, client-safe error message.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code this error maps to.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, kept for logs only.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// --- Constructors for the auth taxonomy ---

// Validation creates a 400 error for malformed input. The message is shown
// to the client verbatim, so it must name the offending field.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// MissingField creates a 400 error for an absent required field.
func MissingField(message string) *AppError {
	return New(ErrCodeMissingField, message, http.StatusBadRequest)
}

// DuplicateUser creates a 400 error for an already-registered email.
func DuplicateUser() *AppError {
	return New(ErrCodeAlreadyExists, "User with this email already exists", http.StatusBadRequest)
}

// InvalidCredentials creates a 401 error for a failed login. The message is
// identical whether the user is unknown or the password is wrong.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized)
}

// MissingToken creates a 401 error for a request with no bearer token.
func MissingToken() *AppError {
	return New(ErrCodeMissingToken, "Access token required", http.StatusUnauthorized)
}

// InvalidToken creates a 401 error for a token that failed verification.
func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid refresh token", http.StatusUnauthorized)
}

// InvalidAccessToken creates a 403 error for an access token that failed
// verification on a guarded endpoint.
func InvalidAccessToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid or expired token", http.StatusForbidden)
}

// UserNotFound creates a 404 error for an authenticated lookup of a
// since-deleted subject.
func UserNotFound() *AppError {
	return New(ErrCodeNotFound, "User not found", http.StatusNotFound)
}

// Internal creates a 500 error wrapping an unexpected failure. The client
// sees only a generic message.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Database creates a 500 error wrapping a persistence failure.
func Database(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeDatabaseError,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
