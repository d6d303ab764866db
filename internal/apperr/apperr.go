package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status code
// without matching on message text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyArchived
	KindNotArchived
	KindReferenced
	KindInvalid
	KindCompilerUnavailable
	KindCompileFailed
)

// Error is the tagged error produced by the lifecycle and rendering
// components.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and context message.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func AlreadyArchived(format string, args ...interface{}) *Error {
	return New(KindAlreadyArchived, format, args...)
}

func NotArchived(format string, args ...interface{}) *Error {
	return New(KindNotArchived, format, args...)
}

func Referenced(format string, args ...interface{}) *Error {
	return New(KindReferenced, format, args...)
}

func Invalid(format string, args ...interface{}) *Error {
	return New(KindInvalid, format, args...)
}

// KindOf extracts the kind from err, unwrapping as needed.
// Untagged errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error kind to the response status the boundary layer
// should use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyArchived, KindNotArchived, KindReferenced:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindCompilerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
