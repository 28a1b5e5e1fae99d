// Package apperr carries the failure taxonomy shared by every component
// boundary: storage and numeric errors are translated into one of these kinds
// before they reach a caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindNotReady         Kind = "not_ready"
	KindValidation       Kind = "validation"
	KindModelFit         Kind = "model_fit"
	KindPersistence      Kind = "persistence"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Fields holds structured detail such as the remaining capacity that
	// rejected a join, keyed by a stable name.
	Fields map[string]float64
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) WithField(key string, value float64) *Error {
	if e.Fields == nil {
		e.Fields = map[string]float64{}
	}
	e.Fields[key] = value
	return e
}

// KindOf reports the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Field extracts a structured detail from err.
func Field(err error, key string) (float64, bool) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Fields != nil {
		v, ok := appErr.Fields[key]
		return v, ok
	}
	return 0, false
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindCapacityExceeded, KindNotReady:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindModelFit:
		return http.StatusUnprocessableEntity
	case KindPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
