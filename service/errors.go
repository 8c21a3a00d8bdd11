// Package service holds the business core: workspace and file
// lifecycle management, registration and authentication. Services take
// the acting user's ID as an explicit parameter, resolved once at the
// HTTP boundary, and never reach into ambient request state.
package service

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the one error type that crosses the service boundary.
// Business-rule violations carry the status code they should surface
// as; the boundary maps them without inspecting the message. Err keeps
// the underlying cause for logs and is never sent to the caller.
type AppError struct {
	HTTPCode int
	Message  string
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsAppError unwraps err into an *AppError, or wraps it as a generic
// internal error so handlers always have a status code to send.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{HTTPCode: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

func newNotFound(format string, args ...any) *AppError {
	return &AppError{HTTPCode: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func newConflict(format string, args ...any) *AppError {
	return &AppError{HTTPCode: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func newForbidden(format string, args ...any) *AppError {
	return &AppError{HTTPCode: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

func newBadRequest(format string, args ...any) *AppError {
	return &AppError{HTTPCode: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func newUnauthorized(message string) *AppError {
	return &AppError{HTTPCode: http.StatusUnauthorized, Message: message}
}

func newInternal(message string, err error) *AppError {
	return &AppError{HTTPCode: http.StatusInternalServerError, Message: message, Err: err}
}
