package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine category of a domain error.
type ErrorKind string

// Error kinds. Validation and tool-execution errors are expected, user-facing
// outcomes; completion-service and store errors are retryable by the caller.
const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindCompletionService ErrorKind = "completion_service"
	KindStore             ErrorKind = "store"
	KindToolExecution     ErrorKind = "tool_execution"
)

// Error is a categorized domain error with a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a domain error with the given kind and message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a domain error wrapping an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of a domain error, or empty string for other
// errors (including nil).
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the human-readable message of a domain error, or
// err.Error() for other errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
