package vm

import (
	"context"
	"errors"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/internal/token"
)

// haltError carries an error returned by an observer, or a context error,
// up through every frame. Script-level pcall never catches it.
type haltError struct {
	err error
}

func (e *haltError) Error() string { return e.err.Error() }

func (e *haltError) Unwrap() error { return e.err }

func halt(err error) error {
	if err == nil || isHalt(err) {
		return err
	}
	return &haltError{err: err}
}

func isHalt(err error) bool {
	var h *haltError
	return errors.As(err, &h)
}

func unwrapHalt(err error) error {
	var h *haltError
	if errors.As(err, &h) {
		return h.err
	}
	return err
}

// IsHalt reports whether err stops the program regardless of pcall, i.e.
// it came from an observer or from context cancellation.
func IsHalt(err error) bool {
	return isHalt(err)
}

// located attaches the source location of node to err if it has none.
func (vm *VirtualMachine) located(fr *Frame, node ast.Node, err error) error {
	if err == nil || isHalt(err) {
		return err
	}
	serr := errz.AsStructured(err)
	if serr.Location.IsZero() {
		serr.Location = vm.location(fr, node.Pos())
	}
	return serr
}

// raise finishes an error at the point it was raised: it gets a location and
// a stack trace, and the observer hears about it once. Errors that already
// carry a stack were raised deeper in the call stack and pass through.
func (vm *VirtualMachine) raise(ctx context.Context, fr *Frame, node ast.Node, err error) error {
	if err == nil || isHalt(err) {
		return err
	}
	serr := errz.AsStructured(err)
	if len(serr.Stack) > 0 {
		return serr
	}
	if serr.Location.IsZero() {
		serr.Location = vm.location(fr, node.Pos())
	}
	serr.Stack = vm.captureStack()
	if len(serr.Stack) == 0 {
		serr.Stack = []errz.StackFrame{{Function: fr.name, Location: serr.Location}}
	}
	if vm.observer != nil && vm.observerCfg.ObserveErrors && vm.protected == 0 {
		event := ErrorEvent{
			VM:     vm,
			Err:    serr,
			Source: fr.source,
			Line:   serr.Location.Line,
			Depth:  vm.Depth(),
		}
		if herr := vm.observer.OnError(ctx, event); herr != nil {
			return halt(herr)
		}
	}
	return serr
}

func (vm *VirtualMachine) location(fr *Frame, pos token.Position) errz.SourceLocation {
	line := pos.LineNumber()
	if !pos.IsValid() {
		line = fr.line
	}
	return errz.SourceLocation{
		Filename: fr.source,
		Line:     line,
		Column:   pos.ColumnNumber(),
		Source:   vm.SourceLine(fr.source, line),
	}
}

// captureStack builds a stack trace from the visible frames, innermost
// first.
func (vm *VirtualMachine) captureStack() []errz.StackFrame {
	var frames []errz.StackFrame
	for i := len(vm.frames) - 1; i >= 0; i-- {
		fr := vm.frames[i]
		if fr.hidden {
			continue
		}
		frames = append(frames, errz.StackFrame{
			Function: fr.name,
			Location: errz.SourceLocation{
				Filename: fr.source,
				Line:     fr.line,
				Column:   1,
				Source:   vm.SourceLine(fr.source, fr.line),
			},
		})
	}
	return frames
}

// Halt marks err so that it stops the program the way an observer error
// does. Go callables use it to stop a program from inside a call.
func Halt(err error) error {
	return halt(err)
}
