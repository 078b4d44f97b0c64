// Package apperr defines the typed error taxonomy shared by the storage and
// HTTP layers. Every error carries a stable machine-readable code that the
// frontend can branch on; the HTTP status is derived from it in one place.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    string        `json:"code"`
	Message string        `json:"error"`
	Status  int           `json:"-"`
	Details []FieldDetail `json:"details,omitempty"`
	cause   error
}

// FieldDetail is a per-field validation failure
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for logs; it is never serialized.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

func Validation(msg string, details ...FieldDetail) *Error {
	return &Error{Code: "VALIDATION_ERROR", Message: msg, Status: http.StatusBadRequest, Details: details}
}

func Authentication(msg string) *Error {
	if msg == "" {
		msg = "Authentication required"
	}
	return &Error{Code: "AUTH_ERROR", Message: msg, Status: http.StatusUnauthorized}
}

func Authorization(msg string) *Error {
	if msg == "" {
		msg = "Insufficient permissions"
	}
	return &Error{Code: "AUTHORIZATION_ERROR", Message: msg, Status: http.StatusForbidden}
}

func NotFound(msg string) *Error {
	if msg == "" {
		msg = "Resource not found"
	}
	return &Error{Code: "NOT_FOUND", Message: msg, Status: http.StatusNotFound}
}

func Conflict(msg string) *Error {
	return &Error{Code: "CONFLICT", Message: msg, Status: http.StatusConflict}
}

func RateLimited(msg string) *Error {
	if msg == "" {
		msg = "Too many requests, please try again later"
	}
	return &Error{Code: "RATE_LIMIT_EXCEEDED", Message: msg, Status: http.StatusTooManyRequests}
}

func Database(err error) *Error {
	return &Error{Code: "DATABASE_ERROR", Message: "Database operation failed", Status: http.StatusInternalServerError, cause: err}
}

func Internal(err error) *Error {
	return &Error{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError, cause: err}
}

// From returns err as *Error, wrapping unknown errors as internal faults so
// their details never reach the client.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == "NOT_FOUND"
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == "CONFLICT"
}
