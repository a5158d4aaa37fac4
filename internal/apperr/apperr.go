// Package apperr defines the error kinds handlers hand to the centralized
// responder.  A handler classifies every failure exactly once; the responder
// turns the kind into an HTTP status and never inspects anything else.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies a class of failure.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindAlreadyExists
	KindInvalidCredentials
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindAlreadyExists:
		return "already exists"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindValidation:
		return "validation error"
	default:
		return "internal error"
	}
}

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindAlreadyExists, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure.  Msg is safe to show to clients; Err is the
// underlying cause and is only logged.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error           { return &Error{Kind: KindNotFound, Msg: msg} }
func Forbidden(msg string) error          { return &Error{Kind: KindForbidden, Msg: msg} }
func Unauthorized(msg string) error       { return &Error{Kind: KindUnauthorized, Msg: msg} }
func AlreadyExists(msg string) error      { return &Error{Kind: KindAlreadyExists, Msg: msg} }
func InvalidCredentials(msg string) error { return &Error{Kind: KindInvalidCredentials, Msg: msg} }
func Validation(msg string) error         { return &Error{Kind: KindValidation, Msg: msg} }

// Internal wraps a store or library failure.  The cause is kept for logging
// and replaced by a generic message towards the client.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: err}
}

// KindOf reports the kind of err, KindInternal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
