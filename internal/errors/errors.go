// Package errors defines the domain error taxonomy shared by the ledger
// services and the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a DomainError. The HTTP layer maps each kind to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// DomainError is an error with a stable machine-readable code.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on Code so wrapped copies of a sentinel still compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of e carrying cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *DomainError {
	return New(KindValidation, code, message)
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *DomainError {
	return &DomainError{Kind: KindInternal, Code: "INTERNAL", Message: message, Err: cause}
}

// Upstream wraps a payment gateway failure.
func Upstream(message string, cause error) *DomainError {
	return &DomainError{Kind: KindUpstream, Code: "UPSTREAM_ERROR", Message: message, Err: cause}
}

// As extracts the outermost DomainError from err.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf reports the kind of err; errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
