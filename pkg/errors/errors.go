// Package errors provides the error type used across the ElasticGraph
// execution core, carrying a stable code alongside a human message.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Code identifies the class of an error for HTTP/GraphQL translation.
type Code string

// Error code constants, matching the taxonomy in spec §7.
const (
	EInternal                Code = "internal error"
	EInvalid                 Code = "invalid"
	EInvalidCursor           Code = "invalid cursor"
	EInvalidSortFields       Code = "invalid sort fields"
	ECursorEncoding          Code = "cursor encoding error"
	ERequestExceededDeadline Code = "request exceeded deadline"
	ESearchFailed            Code = "search failed"
	ECountUnavailable        Code = "count unavailable"
	ENotFound                Code = "not found"
	ESchema                  Code = "schema error"
	EConfig                  Code = "config error"
)

// InternalErrorMessage is the sanitized message returned to clients in
// place of an internal error's real message.
const InternalErrorMessage = "An internal error has occurred."

// Error is the ElasticGraph error implementation.
type Error struct {
	err     error
	code    Code
	message string
}

// Option customizes the construction of an Error.
type Option func(*Error)

// WithErrorCode sets the error's code.
func WithErrorCode(code Code) Option {
	return func(e *Error) { e.code = code }
}

// New returns a new Error with the given message and options applied.
func New(format string, a ...any) *Error {
	span, opts, rest := extract(a)
	resultErr := &Error{message: fmt.Sprintf(format, rest...)}
	for _, o := range opts {
		o(resultErr)
	}
	if resultErr.code == "" {
		resultErr.code = EInternal
	}
	if span != nil {
		span.RecordError(resultErr)
		span.SetStatus(codes.Error, resultErr.message)
	}
	return resultErr
}

// Wrap returns a new Error that wraps an existing error.
func Wrap(err error, format string, a ...any) *Error {
	span, opts, rest := extract(a)
	resultErr := &Error{
		err:     err,
		message: fmt.Sprintf(format, rest...),
	}
	for _, o := range opts {
		o(resultErr)
	}
	if resultErr.code == "" {
		resultErr.code = EInternal
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, resultErr.message)
	}
	return resultErr
}

// extract pulls a trace.Span and any Options out of a variadic argument
// list, leaving the remaining values for use as fmt.Sprintf arguments.
func extract(a []any) (trace.Span, []Option, []any) {
	var (
		span trace.Span
		opts []Option
		rest []any
	)
	for _, arg := range a {
		switch v := arg.(type) {
		case trace.Span:
			if span == nil {
				span = v
				continue
			}
		case Option:
			opts = append(opts, v)
			continue
		}
		rest = append(rest, arg)
	}
	return span, opts, rest
}

// Error implements the error interface, writing out the recursive message.
func (e *Error) Error() string {
	switch {
	case e.message != "" && e.err != nil:
		var b strings.Builder
		b.WriteString(e.message)
		b.WriteString(": ")
		b.WriteString(e.err.Error())
		return b.String()
	case e.message != "":
		return e.message
	case e.err != nil:
		return e.err.Error()
	default:
		return fmt.Sprintf("<%s>", e.code)
	}
}

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the error's own code, ignoring anything it wraps.
func (e *Error) Code() Code {
	return e.code
}

// ErrorCode returns the code of the deepest *Error in err's chain, or
// EInternal if err is a non-nil error without one.
func ErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var eg *Error
	if !errors.As(err, &eg) {
		return EInternal
	}

	for {
		if eg.code != "" {
			code := eg.code
			var next *Error
			if errors.As(eg.err, &next) {
				eg = next
				continue
			}
			return code
		}
		return EInternal
	}
}

// ErrorMessage returns the display message for err, sanitizing internal
// errors so that callers never leak implementation detail to clients.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var eg *Error
	if !errors.As(err, &eg) {
		return InternalErrorMessage
	}

	if ErrorCode(err) == EInternal {
		return InternalErrorMessage
	}

	if eg.message != "" {
		return eg.Error()
	}

	if eg.err != nil {
		return ErrorMessage(eg.err)
	}

	return InternalErrorMessage
}

// IsContextCanceledError reports whether err is a context.Canceled error.
func IsContextCanceledError(err error) bool {
	return errors.Is(err, context.Canceled)
}
