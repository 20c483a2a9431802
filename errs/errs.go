// Package errs provides structured error types and helpers for the editor runtime.
package errs

import (
	"strconv"
	"strings"
)

// Code identifies an error category raised by the editor substrate.
type Code string

const (
	// CodeInvalid indicates invalid input provided by the caller.
	CodeInvalid Code = "invalid_request"
	// CodeNotFound indicates a missing resource.
	CodeNotFound Code = "not_found"
	// CodeConflict indicates a conflicting registration or mutation.
	CodeConflict Code = "conflict"
	// CodeUnavailable indicates the subsystem is temporarily unavailable.
	CodeUnavailable Code = "unavailable"
	// CodeIO indicates a file read failure.
	CodeIO Code = "io_failure"
	// CodeDecode indicates a payload that could not be decoded.
	CodeDecode Code = "decode_failure"
)

// E captures structured error information produced across the editor stack.
type E struct {
	Subsystem   string
	Code        Code
	Path        string
	Key         string
	Message     string
	Remediation string

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error envelope for the subsystem and error code.
func New(subsystem string, code Code, opts ...Option) *E {
	e := &E{
		Subsystem:   strings.TrimSpace(subsystem),
		Code:        code,
		Path:        "",
		Key:         "",
		Message:     "",
		Remediation: "",
		cause:       nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithMessage attaches a human-readable message to the error.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithRemediation attaches remediation guidance to the error.
func WithRemediation(remediation string) Option {
	trimmed := strings.TrimSpace(remediation)
	return func(e *E) {
		e.Remediation = trimmed
	}
}

// WithPath records the file path the operation was acting on.
func WithPath(path string) Option {
	trimmed := strings.TrimSpace(path)
	return func(e *E) {
		e.Path = trimmed
	}
}

// WithKey records the cache or pool key involved in the failure.
func WithKey(key string) Option {
	return func(e *E) {
		e.Key = key
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string

	subsystem := strings.TrimSpace(e.Subsystem)
	if subsystem == "" {
		subsystem = "unknown"
	}
	parts = append(parts, "subsystem="+subsystem)

	code := strings.TrimSpace(string(e.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if e.Path != "" {
		parts = append(parts, "path="+strconv.Quote(e.Path))
	}
	if e.Key != "" {
		parts = append(parts, "key="+strconv.Quote(e.Key))
	}
	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.Remediation != "" {
		parts = append(parts, "remediation="+strconv.Quote(e.Remediation))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}
	return strings.Join(parts, " ")
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *E) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// CodeOf extracts the error code from an envelope, or empty for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if typed, ok := err.(*E); ok {
		return typed.Code
	}
	return ""
}
