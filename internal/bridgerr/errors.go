// Package bridgerr defines the error taxonomy shared by every layer of the
// bridge. Callers use errors.As to extract the structured information:
//
//	var berr *bridgerr.Error
//	if errors.As(err, &berr) {
//	    if berr.Kind == bridgerr.KindAuthExpired { ... }
//	}
package bridgerr

import (
	"errors"
	"fmt"
)

// Kind classifies a bridge failure.
type Kind string

const (
	// KindAuthExpired means the dashboard session is no longer valid.
	KindAuthExpired Kind = "auth_expired"
	// KindUpstreamUnavailable covers network failures and timeouts after
	// retries are exhausted.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindUpstreamRejected is a 4xx/5xx response with a body, unrelated to
	// authentication.
	KindUpstreamRejected Kind = "upstream_rejected"
	// KindParseFailed means a response matched no known shape.
	KindParseFailed Kind = "parse_failed"
	// KindNotFound is a definitive empty result, not a transport failure.
	KindNotFound Kind = "not_found"
	// KindTokenStale is a submission rejected specifically for anti-forgery
	// reasons.
	KindTokenStale Kind = "token_stale"
	// KindPartialResult marks a pagination or batch operation that completed
	// with some failures but still carries usable data.
	KindPartialResult Kind = "partial_result"
)

// Error is a classified bridge failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind with an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithStatus attaches the upstream HTTP status code.
func (e *Error) WithStatus(code int) *Error {
	e.StatusCode = code
	return e
}

// Is reports whether err is a bridge error of the given kind.
func Is(err error, kind Kind) bool {
	var berr *Error
	if errors.As(err, &berr) {
		return berr.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or an empty Kind for unclassified errors.
func KindOf(err error) Kind {
	var berr *Error
	if errors.As(err, &berr) {
		return berr.Kind
	}
	return ""
}
