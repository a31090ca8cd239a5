package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Response wraps a successful result.
type Response[T any] struct {
	Data    T      `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// Error wraps a failed result. Errors, when present, maps a field name to its
// validation messages; every listed field has at least one message.
type Error struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// NewError builds an Error, dropping fields that carry no messages.
func NewError(status int, message string, fields map[string][]string) *Error {
	e := &Error{Message: message, Status: status}
	e.Errors = normalizeFieldErrors(fields)
	if e.Message == "" && status > 0 {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Status > 0 {
		fmt.Fprintf(&b, "api error %d: %s", e.Status, e.Message)
	} else {
		b.WriteString(e.Message)
	}
	if len(e.Errors) > 0 {
		b.WriteString(" (")
		for i, field := range e.Fields() {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s: %s", field, strings.Join(e.Errors[field], ", "))
		}
		b.WriteString(")")
	}
	return b.String()
}

// Fields lists the fields with validation messages in sorted order.
func (e *Error) Fields() []string {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// FieldErrors returns the messages reported for field.
func (e *Error) FieldErrors(field string) []string {
	if e == nil {
		return nil
	}
	return e.Errors[field]
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func normalizeFieldErrors(fields map[string][]string) map[string][]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string][]string, len(fields))
	for field, msgs := range fields {
		kept := make([]string, 0, len(msgs))
		for _, m := range msgs {
			if m = strings.TrimSpace(m); m != "" {
				kept = append(kept, m)
			}
		}
		if field = strings.TrimSpace(field); field == "" || len(kept) == 0 {
			continue
		}
		out[field] = append(out[field], kept...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// errEmptyResult is reported by a zero Result, which holds neither outcome.
var errEmptyResult = &Error{Message: "empty result"}

// Result is the outcome of one request: exactly one of a Response or an Error.
type Result[T any] struct {
	resp *Response[T]
	err  *Error
}

// Success wraps resp as a successful outcome.
func Success[T any](resp Response[T]) Result[T] {
	return Result[T]{resp: &resp}
}

// Failure wraps err as a failed outcome. A nil err is replaced with a generic error.
func Failure[T any](err *Error) Result[T] {
	if err == nil {
		err = &Error{Message: "unknown error"}
	}
	return Result[T]{err: err}
}

// OK reports whether the result holds a Response.
func (r Result[T]) OK() bool { return r.resp != nil }

// Response returns the successful outcome, if any.
func (r Result[T]) Response() (Response[T], bool) {
	if r.resp == nil {
		return Response[T]{}, false
	}
	return *r.resp, true
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *Error {
	if r.resp != nil {
		return nil
	}
	if r.err == nil {
		return errEmptyResult
	}
	return r.err
}

// Unwrap converts the result into the usual (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.resp != nil {
		return r.resp.Data, nil
	}
	var zero T
	return zero, r.Err()
}
