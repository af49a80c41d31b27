// internal/app/system/apperr/apperr.go
package apperr

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kinds classify application failures. Handlers map each kind to a stable
// HTTP status and machine-readable code; anything unclassified surfaces as
// internal (500) without leaking detail.
const (
	KindInvalid      = "invalid_argument"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindTimeout      = "timeout"
	KindUnavailable  = "unavailable"
	KindInternal     = "internal"
)

// Error carries a kind plus a human message. Wrapped causes stay available
// to errors.Is/As but are never written to responses.
type Error struct {
	Kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with the given kind and message.
func New(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(message string) *Error      { return New(KindInvalid, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }

// KindOf classifies an error. Store-level errors that were not wrapped are
// recognized here so handlers never have to inspect driver errors:
// deadline overruns become timeout, unreachable-server errors become
// unavailable, and missing documents become not_found.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return KindTimeout
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return KindNotFound
	}
	if mongo.IsNetworkError(err) || isServerSelection(err) {
		return KindUnavailable
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind string) bool {
	return KindOf(err) == kind
}

// Message returns the safe human message for err, or a generic fallback for
// unclassified errors.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	switch KindOf(err) {
	case KindTimeout:
		return "operation timed out"
	case KindUnavailable:
		return "service temporarily unavailable"
	case KindNotFound:
		return "not found"
	}
	return "internal error"
}

// HTTPStatus maps a kind to its HTTP status.
func HTTPStatus(kind string) int {
	switch kind {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isServerSelection(err error) bool {
	return strings.Contains(err.Error(), "server selection error")
}
