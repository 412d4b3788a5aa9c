// Package errs defines the expected failure kinds returned by the favorites
// and price operations.
package errs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Kind identifies an expected failure category.
type Kind string

const (
	// KindNotFound indicates a missing record, item or upstream field.
	KindNotFound Kind = "not_found"
	// KindUpstream indicates the pricing API answered with a non-200 status
	// or an unusable body.
	KindUpstream Kind = "upstream_error"
	// KindFatal is reported by KindOf for errors outside the taxonomy.
	KindFatal Kind = "fatal"
)

// E is an expected, user-visible failure. Message is the text shown to callers.
type E struct {
	Kind    Kind
	Message string
	HTTP    int

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error of the given kind carrying a user-visible message.
func New(kind Kind, message string, opts ...Option) *E {
	e := &E{
		Kind:    kind,
		Message: strings.TrimSpace(message),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// NotFound returns a KindNotFound error.
func NotFound(message string, opts ...Option) *E {
	return New(KindNotFound, message, opts...)
}

// Upstream returns a KindUpstream error.
func Upstream(message string, opts ...Option) *E {
	return New(KindUpstream, message, opts...)
}

// WithHTTP records the upstream HTTP status associated with the failure.
func WithHTTP(status int) Option {
	return func(e *E) {
		e.HTTP = status
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

// Error returns the user-visible message. Details are available through Detail.
func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Detail renders the envelope as key=value pairs for logs.
func (e *E) Detail() string {
	if e == nil {
		return "<nil>"
	}
	parts := []string{"kind=" + string(e.Kind)}
	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.HTTP > 0 {
		parts = append(parts, "http="+strconv.Itoa(e.HTTP))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}
	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// Is matches another *E by kind and message so sentinel values work with errors.Is.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// KindOf classifies err. Errors that are not an *E are KindFatal.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

// HTTPStatus maps err to the status code served to API callers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
