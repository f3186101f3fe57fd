// Package apperr carries the error taxonomy surfaced to API callers.
// Every error has a machine-readable kind and a human message; handlers
// map kinds to HTTP status codes in one place.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindAuthorization Kind = "authorization_error"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindDelivery      Kind = "delivery_error"
	KindInternal      Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	// wrapped cause, optional
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two apperr errors with the same kind and message,
// so services can expose sentinel vars built with New.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error kind to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDelivery, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
