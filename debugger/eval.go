package debugger

import (
	"context"
	"errors"
	"strings"

	"github.com/risor-io/risordbg/object"
	"github.com/risor-io/risordbg/parser"
	"github.com/risor-io/risordbg/vm"
)

// EvalSource is the source name given to text evaluated by the debugger.
const EvalSource = "<eval>"

// Evaluator runs text entered in the debugger in the scope of a paused
// frame. Names resolve through the frame's locals, then its upvalues, then
// the globals. Assignments and calls affect the running program.
type Evaluator struct {
	vm *vm.VirtualMachine
}

// NewEvaluator returns an evaluator for a VM.
func NewEvaluator(machine *vm.VirtualMachine) *Evaluator {
	return &Evaluator{vm: machine}
}

// EvalExprs evaluates a comma separated list of expressions in frame. A nil
// frame evaluates against the globals.
func (e *Evaluator) EvalExprs(ctx context.Context, text string, frame *StackFrame) ([]object.Object, error) {
	exprs, err := parser.ParseExpressions(ctx, text, parser.WithFilename(EvalSource))
	if err != nil {
		return nil, &CompileError{Input: text, Err: err}
	}
	e.vm.AddSource(EvalSource, text)
	values, err := e.vm.EvalExprs(ctx, target(frame), exprs, EvalSource)
	if err != nil {
		return nil, e.wrap(text, err)
	}
	return values, nil
}

// Eval evaluates text as a list of expressions, or failing that, runs it as
// statements. Statements produce the value of a return statement, if any.
func (e *Evaluator) Eval(ctx context.Context, text string, frame *StackFrame) ([]object.Object, error) {
	if _, err := parser.ParseExpressions(ctx, text, parser.WithFilename(EvalSource)); err == nil {
		return e.EvalExprs(ctx, text, frame)
	}
	program, err := parser.Parse(ctx, text, parser.WithFilename(EvalSource))
	if err != nil {
		return nil, &CompileError{Input: text, Err: err}
	}
	e.vm.AddSource(EvalSource, text)
	value, err := e.vm.ExecStmts(ctx, target(frame), program.Stmts, EvalSource)
	if err != nil {
		return nil, e.wrap(text, err)
	}
	return []object.Object{value}, nil
}

// Truthy evaluates a single expression and reports whether its value is
// truthy.
func (e *Evaluator) Truthy(ctx context.Context, text string, frame *StackFrame) (bool, error) {
	values, err := e.EvalExprs(ctx, text, frame)
	if err != nil {
		return false, err
	}
	return values[len(values)-1].IsTruthy(), nil
}

// wrap turns a program error into an EvalError. Errors that must stop the
// program pass through.
func (e *Evaluator) wrap(text string, err error) error {
	var internal *DebuggerInternalError
	switch {
	case errors.Is(err, ErrQuit),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &internal):
		return err
	}
	return &EvalError{Input: strings.TrimSpace(text), Err: err}
}

func target(frame *StackFrame) *vm.Frame {
	if frame == nil {
		return nil
	}
	return frame.frame
}
