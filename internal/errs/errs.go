// Package errs defines the error taxonomy shared by services and handlers.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies an error
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindAuth             Kind = "auth_error"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindGeneration       Kind = "generation_error"
	KindUpstreamDegraded Kind = "upstream_degraded"
	KindInternal         Kind = "internal_error"
)

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending input for validation and conflict errors.
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" && msg == "" {
		msg = e.Field
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return msg + ": " + e.Err.Error()
	}
	if msg == "" {
		return string(e.Kind)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, errs.ErrNotFound)
// works for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrAuth             = &Error{Kind: KindAuth}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrGeneration       = &Error{Kind: KindGeneration}
	ErrUpstreamDegraded = &Error{Kind: KindUpstreamDegraded}
)

// Validation malformed or missing input
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationField validation error bound to an input field
func ValidationField(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Auth bad credentials or confirmation password
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NotFound entity absent or not owned by the caller
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Conflict duplicate unique value
func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

// Generation fatal failure of the image service
func Generation(message string, err error) *Error {
	return &Error{Kind: KindGeneration, Message: message, Err: err}
}

// UpstreamDegraded non-fatal failure of an auxiliary upstream
func UpstreamDegraded(message string, err error) *Error {
	return &Error{Kind: KindUpstreamDegraded, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// HTTPStatus maps err to a response status
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to clients
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Error()
}
