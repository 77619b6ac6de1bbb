// Package errz defines structured runtime errors with source locations,
// stack traces and "did you mean" suggestions.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSyntax indicates a syntax/parsing error.
	ErrSyntax ErrorKind = iota
	// ErrType indicates a type mismatch or invalid operation on a type.
	ErrType
	// ErrName indicates an undefined variable or function.
	ErrName
	// ErrValue indicates an invalid value for an operation.
	ErrValue
	// ErrRuntime indicates a general runtime error.
	ErrRuntime
	// ErrImport indicates an error importing a module.
	ErrImport
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrType:
		return "type error"
	case ErrName:
		return "name error"
	case ErrValue:
		return "value error"
	case ErrRuntime:
		return "runtime error"
	case ErrImport:
		return "import error"
	default:
		return "error"
	}
}

// StructuredError is a rich error type with source locations, visual snippets,
// and stack traces for actionable diagnostics.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Stack    []StackFrame
	Hint     string // optional suggestion, e.g. "Did you mean 'count'?"
	Cause    error
	Value    any // payload of errors raised by script code with error(v)
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg = msg + " (" + e.Hint + ")"
	}
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), msg)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind.String(), msg, e.Location.String())
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns a human-friendly error message with visual
// context including source snippets and stack traces.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer

	if e.Location.IsZero() {
		msg.WriteString(fmt.Sprintf("%s: %s\n", e.Kind.String(), e.Message))
	} else {
		msg.WriteString(fmt.Sprintf("%s: %s (%s)\n", e.Kind.String(), e.Message, e.Location.String()))
	}

	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString("^\n")
		}
	}

	if e.Hint != "" {
		msg.WriteString(e.Hint)
		msg.WriteString("\n")
	}

	if len(e.Stack) > 0 {
		msg.WriteString("\n")
		msg.WriteString(FormatStackTrace(e.Stack))
	}

	return msg.String()
}

// NewStructuredErrorf creates a new StructuredError with a formatted message.
func NewStructuredErrorf(kind ErrorKind, loc SourceLocation, stack []StackFrame, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Location: loc,
		Stack:    stack,
	}
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithHint attaches a suggestion to the error.
func (e *StructuredError) WithHint(hint string) *StructuredError {
	e.Hint = hint
	return e
}

// TypeErrorf returns a type error without location. The runtime attaches the
// location and stack when the error is raised.
func TypeErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrType, SourceLocation{}, nil, format, args...)
}

// ValueErrorf returns a value error without location.
func ValueErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrValue, SourceLocation{}, nil, format, args...)
}

// NameErrorf returns a name error without location.
func NameErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrName, SourceLocation{}, nil, format, args...)
}

// ArgsErrorf returns an error describing invalid arguments to a function.
func ArgsErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrType, SourceLocation{}, nil, format, args...)
}

// ImportErrorf returns an import error without location.
func ImportErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrImport, SourceLocation{}, nil, format, args...)
}

// AsStructured converts any error into a StructuredError. Structured errors
// found in the chain are returned as is; other errors are wrapped as runtime
// errors.
func AsStructured(err error) *StructuredError {
	if err == nil {
		return nil
	}
	var serr *StructuredError
	if errors.As(err, &serr) {
		return serr
	}
	return &StructuredError{Message: err.Error(), Kind: ErrRuntime, Cause: err}
}
