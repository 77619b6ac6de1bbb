package vm

import (
	"context"

	"github.com/risor-io/risordbg/errz"
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// ObserveLines enables OnLine callbacks.
	ObserveLines bool

	// ObserveCalls enables OnCall callbacks.
	ObserveCalls bool

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool

	// ObserveErrors enables OnError callbacks.
	ObserveErrors bool
}

// NewObserverConfig creates a config that receives every event.
func NewObserverConfig() ObserverConfig {
	return ObserverConfig{
		ObserveLines:   true,
		ObserveCalls:   true,
		ObserveReturns: true,
		ObserveErrors:  true,
	}
}

// Observer is an interface for observing VM execution events.
// Implementations can be used for debugging, code coverage or detailed
// execution tracing without modifying the interpreter.
//
// Observer methods are called synchronously on the goroutine running the
// program, while the program is suspended at the event. An observer may
// block, evaluate code in a frame through the VM, and resume by returning.
// Returning a non-nil error halts the program: the error unwinds every
// frame, can not be caught by a script-level pcall, and is returned by Run.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when the observer is attached to the VM.
	Config() ObserverConfig

	// OnLine is called before a statement runs on a line different from
	// the last line reported for the same frame.
	OnLine(ctx context.Context, event LineEvent) error

	// OnCall is called after a script function frame is pushed.
	OnCall(ctx context.Context, event CallEvent) error

	// OnReturn is called before a script function frame is popped, including
	// when the frame unwinds because of an error.
	OnReturn(ctx context.Context, event ReturnEvent) error

	// OnError is called once when an error is raised and no script-level
	// pcall is active, with the stack still intact.
	OnError(ctx context.Context, event ErrorEvent) error
}

// LineEvent describes a line about to run.
type LineEvent struct {
	VM     *VirtualMachine
	Source string
	Line   int

	// Depth is the number of visible frames on the call stack.
	Depth int
}

// CallEvent contains information about a function call.
type CallEvent struct {
	VM *VirtualMachine

	// FunctionName is the name of the function being called.
	FunctionName string

	// ArgCount is the number of arguments passed to the function.
	ArgCount int

	// Source and Line locate the function definition.
	Source string
	Line   int

	// Depth is the call stack depth after the call.
	Depth int
}

// ReturnEvent contains information about a function return.
type ReturnEvent struct {
	VM *VirtualMachine

	// FunctionName is the name of the function returning.
	FunctionName string

	Source string
	Line   int

	// Depth is the call stack depth before the frame is popped.
	Depth int

	// Err is set when the frame unwinds because of an error.
	Err error
}

// ErrorEvent describes a raised error.
type ErrorEvent struct {
	VM     *VirtualMachine
	Err    *errz.StructuredError
	Source string
	Line   int
	Depth  int
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig()
}

func (NoOpObserver) OnLine(context.Context, LineEvent) error     { return nil }
func (NoOpObserver) OnCall(context.Context, CallEvent) error     { return nil }
func (NoOpObserver) OnReturn(context.Context, ReturnEvent) error { return nil }
func (NoOpObserver) OnError(context.Context, ErrorEvent) error   { return nil }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
