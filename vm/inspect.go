package vm

import (
	"context"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
)

// EvalExprs evaluates expressions in the scope of a live frame while the
// program is suspended. Names resolve through the frame's locals, then its
// captured variables, then the globals. A nil frame evaluates against the
// globals only.
//
// The evaluation runs in a hidden frame pushed on top of the stack. Hidden
// frames produce no line events and are left out of stack traces, but calls
// made from them run as usual and do produce events.
func (vm *VirtualMachine) EvalExprs(ctx context.Context, target *Frame, exprs []ast.Expr, source string) ([]object.Object, error) {
	var results []object.Object
	err := vm.inFrame(ctx, target, source, func(ctx context.Context, fr *Frame) error {
		for _, expr := range exprs {
			if err := vm.enterLine(ctx, fr, expr.Pos()); err != nil {
				return err
			}
			value, err := vm.evalExpr(ctx, fr, expr)
			if err != nil {
				return vm.raise(ctx, fr, expr, err)
			}
			results = append(results, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ExecStmts runs statements in the scope of a live frame, like EvalExprs.
// Assignments to existing variables update the frame; new variables live
// only for the duration of the call. The value of a return statement is
// returned.
func (vm *VirtualMachine) ExecStmts(ctx context.Context, target *Frame, stmts []ast.Stmt, source string) (object.Object, error) {
	var result object.Object = object.Nil
	err := vm.inFrame(ctx, target, source, func(ctx context.Context, fr *Frame) error {
		ctrl, err := vm.execStmts(ctx, fr, stmts)
		if err != nil {
			return err
		}
		switch ctrl {
		case ctrlBreak, ctrlContinue:
			return errz.NewStructuredErrorf(errz.ErrSyntax, errz.SourceLocation{}, nil,
				"break or continue outside of a loop")
		case ctrlReturn:
			result = fr.result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (vm *VirtualMachine) inFrame(ctx context.Context, target *Frame, source string, fn func(context.Context, *Frame) error) error {
	parent := vm.globals
	if target != nil {
		parent = target.scope
	}
	scope := object.NewScope(parent, false)
	fr := &Frame{
		name:      evalFrameName,
		source:    source,
		scope:     scope,
		funcScope: scope,
		hidden:    true,
	}
	if err := vm.pushFrame(fr); err != nil {
		return err
	}
	defer vm.popFrame()
	return unwrapHalt(fn(vm.initContext(ctx), fr))
}
