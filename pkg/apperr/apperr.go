// Package apperr is the error taxonomy shared by every service.
//
// Services return *Error values; the HTTP layer maps the Kind to a status
// code and the Message to the {"error": ...} payload. Clients of a peer
// service go the other way with FromStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindConflict
	KindUnauthorized
	KindNotFound
	KindInsufficientStock
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindUnavailable:
		return "service_unavailable"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput, KindInsufficientStock:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a caller-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, apperr.NotFound(""))
// works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *Error      { return New(KindInvalidInput, message) }
func Conflict(message string) *Error          { return New(KindConflict, message) }
func Unauthorized(message string) *Error      { return New(KindUnauthorized, message) }
func NotFound(message string) *Error          { return New(KindNotFound, message) }
func InsufficientStock(message string) *Error { return New(KindInsufficientStock, message) }

func Unavailable(message string, err error) *Error {
	return Wrap(KindUnavailable, message, err)
}

func Internal(err error) *Error {
	return Wrap(KindInternal, "Internal Server Error", err)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-safe message for err. Errors outside the
// taxonomy never leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal Server Error"
}

// FromStatus rebuilds an *Error from a peer service's status code and
// error message. 400 cannot tell InvalidInput from InsufficientStock on the
// wire, so it maps to InvalidInput.
func FromStatus(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return InvalidInput(message)
	case http.StatusConflict:
		return Conflict(message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return Unauthorized(message)
	case http.StatusNotFound:
		return NotFound(message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return Unavailable(message, nil)
	default:
		return Wrap(KindInternal, message, fmt.Errorf("unexpected status %d", status))
	}
}
