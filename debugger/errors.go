package debugger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/risor-io/risordbg/errz"
)

var (
	// ErrQuit is returned when the user quits the debugger. It unwinds the
	// program up to the protected call that started it.
	ErrQuit = errors.New("debugger: quit")

	// ErrInvalidFrame is returned when navigating to a frame that does not
	// exist.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrDuplicateBreakpoint is returned by Add when a breakpoint already
	// exists at the location. The existing breakpoint is updated.
	ErrDuplicateBreakpoint = errors.New("duplicate breakpoint")

	// ErrNotFound is returned when removing a breakpoint or watch that does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownCommand is returned for input that names no command.
	ErrUnknownCommand = errors.New("unknown command")
)

// CompileError reports text that could not be parsed.
type CompileError struct {
	Input string
	Err   error
}

func (e *CompileError) Error() string {
	return "compile error: " + firstLine(e.Err.Error())
}

func (e *CompileError) Unwrap() error { return e.Err }

// EvalError reports a runtime error raised while evaluating text entered in
// the debugger.
type EvalError struct {
	Input string
	Err   error
}

func (e *EvalError) Error() string {
	return "eval error: " + firstLine(e.Err.Error())
}

func (e *EvalError) Unwrap() error { return e.Err }

// UserProgramError is an error raised by the program being debugged.
type UserProgramError struct {
	Err *errz.StructuredError
}

func (e *UserProgramError) Error() string {
	return e.Err.Error()
}

func (e *UserProgramError) Unwrap() error { return e.Err }

// FriendlyErrorMessage returns the program error with its source snippet and
// stack trace.
func (e *UserProgramError) FriendlyErrorMessage() string {
	return e.Err.FriendlyErrorMessage()
}

// DebuggerInternalError is a failure inside the debugger itself, such as a
// recovered panic.
type DebuggerInternalError struct {
	Value any
	Stack []byte
}

func (e *DebuggerInternalError) Error() string {
	return fmt.Sprintf("debugger internal error: %v", e.Value)
}

func (e *DebuggerInternalError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// CommandError reports a debugger command that could not be parsed.
type CommandError struct {
	Input   string
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %q", e.Err, e.Input)
	}
	return e.Message
}

func (e *CommandError) Unwrap() error { return e.Err }

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
