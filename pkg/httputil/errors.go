package httputil

import (
	"fmt"
	"net/http"
)

// Error is an HTTP-aware error carrying the status and the client-facing message.
// Err, when set, is the underlying cause and is only ever logged.
type Error struct {
	Status  int
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with details attached
func (e *Error) WithDetails(details interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// BadRequest is returned for missing or conflicting identifiers and unreadable bodies
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized is returned when no usable identity is attached
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden is returned when the identity lacks a role or ownership
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound is returned when the requested entity does not exist
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Internal wraps an unexpected failure
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: InternalErrorMessage, Err: err}
}

// InternalErrorMessage is the only text a client sees for unexpected failures
const InternalErrorMessage = "Internal server error"
