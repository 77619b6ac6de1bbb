package vm

import (
	"context"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/internal/token"
	"github.com/risor-io/risordbg/object"
)

// control tells enclosing statements how a statement finished.
type control int

const (
	ctrlNone control = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// execStmts runs statements in the frame's current scope.
func (vm *VirtualMachine) execStmts(ctx context.Context, fr *Frame, stmts []ast.Stmt) (control, error) {
	for _, stmt := range stmts {
		ctrl, err := vm.execStmt(ctx, fr, stmt)
		if err != nil || ctrl != ctrlNone {
			return ctrl, err
		}
	}
	return ctrlNone, nil
}

// execBlock runs statements in a new child scope.
func (vm *VirtualMachine) execBlock(ctx context.Context, fr *Frame, block *ast.Block) (control, error) {
	outer := fr.scope
	fr.scope = object.NewScope(outer, false)
	defer func() { fr.scope = outer }()
	return vm.execStmts(ctx, fr, block.Stmts)
}

func (vm *VirtualMachine) execStmt(ctx context.Context, fr *Frame, stmt ast.Stmt) (control, error) {
	if err := ctx.Err(); err != nil {
		return ctrlNone, halt(err)
	}
	if err := vm.enterLine(ctx, fr, stmt.Pos()); err != nil {
		return ctrlNone, err
	}
	ctrl, err := vm.execStmtInner(ctx, fr, stmt)
	if err != nil {
		return ctrlNone, vm.raise(ctx, fr, stmt, err)
	}
	return ctrl, nil
}

// enterLine records the frame's current line and reports a line event when
// the line changed.
func (vm *VirtualMachine) enterLine(ctx context.Context, fr *Frame, pos token.Position) error {
	line := pos.LineNumber()
	fr.line = line
	if line == fr.lastLine {
		return nil
	}
	fr.lastLine = line
	if fr.hidden || vm.observer == nil || !vm.observerCfg.ObserveLines {
		return nil
	}
	event := LineEvent{VM: vm, Source: fr.source, Line: line, Depth: vm.Depth()}
	return halt(vm.observer.OnLine(ctx, event))
}

func (vm *VirtualMachine) execStmtInner(ctx context.Context, fr *Frame, stmt ast.Stmt) (control, error) {
	switch stmt := stmt.(type) {
	case *ast.Var:
		var value object.Object = object.Nil
		if stmt.Value != nil {
			v, err := vm.evalExpr(ctx, fr, stmt.Value)
			if err != nil {
				return ctrlNone, err
			}
			value = nameFunction(v, stmt.Name.Name)
		}
		fr.scope.Declare(stmt.Name.Name, value, false)
	case *ast.Const:
		value, err := vm.evalExpr(ctx, fr, stmt.Value)
		if err != nil {
			return ctrlNone, err
		}
		fr.scope.Declare(stmt.Name.Name, nameFunction(value, stmt.Name.Name), true)
	case *ast.Assign:
		return ctrlNone, vm.execAssign(ctx, fr, stmt)
	case *ast.ExprStmt:
		_, err := vm.evalExpr(ctx, fr, stmt.X)
		return ctrlNone, err
	case *ast.Func:
		fn := object.NewFunction(stmt, fr.scope, fr.source)
		fr.scope.Declare(stmt.Name.Name, fn, false)
	case *ast.Return:
		fr.result = object.Nil
		if stmt.Value != nil {
			value, err := vm.evalExpr(ctx, fr, stmt.Value)
			if err != nil {
				return ctrlNone, err
			}
			fr.result = value
		}
		return ctrlReturn, nil
	case *ast.Control:
		if stmt.Tok == token.BREAK {
			return ctrlBreak, nil
		}
		return ctrlContinue, nil
	case *ast.Import:
		module, ok := vm.modules[stmt.Name.Name]
		if !ok {
			return ctrlNone, errz.ImportErrorf("module %q not found", stmt.Name.Name)
		}
		name := stmt.Name.Name
		if stmt.Alias != nil {
			name = stmt.Alias.Name
		}
		fr.scope.Declare(name, module, false)
	case *ast.Block:
		return vm.execBlock(ctx, fr, stmt)
	case *ast.If:
		cond, err := vm.evalExpr(ctx, fr, stmt.Cond)
		if err != nil {
			return ctrlNone, err
		}
		if cond.IsTruthy() {
			return vm.execBlock(ctx, fr, stmt.Consequence)
		}
		if stmt.Alternative != nil {
			return vm.execBlock(ctx, fr, stmt.Alternative)
		}
	case *ast.For:
		if stmt.IsRange() {
			return vm.execRange(ctx, fr, stmt)
		}
		return vm.execLoop(ctx, fr, stmt)
	case *ast.BadStmt:
		return ctrlNone, errz.NewStructuredErrorf(errz.ErrSyntax, errz.SourceLocation{}, nil, "invalid statement")
	default:
		return ctrlNone, errz.NewStructuredErrorf(errz.ErrRuntime, errz.SourceLocation{}, nil,
			"unsupported statement: %T", stmt)
	}
	return ctrlNone, nil
}

// nameFunction gives an anonymous function the name of the variable it is
// first bound to, so stack traces have something to show.
func nameFunction(value object.Object, name string) object.Object {
	if fn, ok := value.(*object.Function); ok && fn.Name() == "" {
		return fn.WithName(name)
	}
	return value
}

func (vm *VirtualMachine) execAssign(ctx context.Context, fr *Frame, stmt *ast.Assign) error {
	value, err := vm.evalExpr(ctx, fr, stmt.Value)
	if err != nil {
		return err
	}
	binop := ""
	if stmt.Op != "=" {
		binop = stmt.Op[:1]
	}
	switch target := stmt.Target.(type) {
	case *ast.Ident:
		cell, ok := fr.scope.Lookup(target.Name)
		if !ok {
			return vm.located(fr, target, vm.undefined(fr, target.Name))
		}
		if binop != "" {
			if value, err = object.BinaryOp(binop, cell.Value(), value); err != nil {
				return vm.located(fr, stmt, err)
			}
		}
		if err := cell.Set(value); err != nil {
			return vm.located(fr, target, errz.TypeErrorf("cannot assign to constant %q", target.Name))
		}
		return nil
	case *ast.Index:
		obj, err := vm.evalExpr(ctx, fr, target.X)
		if err != nil {
			return err
		}
		key, err := vm.evalExpr(ctx, fr, target.Index)
		if err != nil {
			return err
		}
		container, ok := obj.(object.Container)
		if !ok {
			return vm.located(fr, target, errz.TypeErrorf("%s does not support item assignment", obj.Type()))
		}
		if binop != "" {
			current, err := container.GetItem(key)
			if err != nil {
				return vm.located(fr, target, err)
			}
			if value, err = object.BinaryOp(binop, current, value); err != nil {
				return vm.located(fr, stmt, err)
			}
		}
		return vm.located(fr, target, container.SetItem(key, value))
	case *ast.GetAttr:
		obj, err := vm.evalExpr(ctx, fr, target.X)
		if err != nil {
			return err
		}
		if binop != "" {
			current, ok := obj.GetAttr(target.Attr.Name)
			if !ok {
				return vm.located(fr, target, errz.NameErrorf("attribute %q not found on %s", target.Attr.Name, obj.Type()))
			}
			if value, err = object.BinaryOp(binop, current, value); err != nil {
				return vm.located(fr, stmt, err)
			}
		}
		return vm.located(fr, target, obj.SetAttr(target.Attr.Name, value))
	}
	return errz.TypeErrorf("invalid assignment target %s", stmt.Target.String())
}

// execLoop runs condition loops and C-style loops.
func (vm *VirtualMachine) execLoop(ctx context.Context, fr *Frame, stmt *ast.For) (control, error) {
	outer := fr.scope
	fr.scope = object.NewScope(outer, false)
	defer func() { fr.scope = outer }()
	if stmt.Init != nil {
		if _, err := vm.execStmtInner(ctx, fr, stmt.Init); err != nil {
			return ctrlNone, err
		}
	}
	for first := true; ; first = false {
		if !first {
			if err := vm.nextIteration(ctx, fr, stmt); err != nil {
				return ctrlNone, err
			}
			if stmt.Post != nil {
				if _, err := vm.execStmtInner(ctx, fr, stmt.Post); err != nil {
					return ctrlNone, err
				}
			}
		}
		if stmt.Cond != nil {
			cond, err := vm.evalExpr(ctx, fr, stmt.Cond)
			if err != nil {
				return ctrlNone, err
			}
			if !cond.IsTruthy() {
				return ctrlNone, nil
			}
		}
		ctrl, err := vm.execBlock(ctx, fr, stmt.Body)
		if err != nil {
			return ctrlNone, err
		}
		switch ctrl {
		case ctrlBreak:
			return ctrlNone, nil
		case ctrlReturn:
			return ctrlReturn, nil
		}
	}
}

// execRange runs "for name in iterable" loops. Lists are read by index on
// every iteration so the body may append to them; maps iterate over a
// snapshot of their keys.
func (vm *VirtualMachine) execRange(ctx context.Context, fr *Frame, stmt *ast.For) (control, error) {
	iterable, err := vm.evalExpr(ctx, fr, stmt.Iterable)
	if err != nil {
		return ctrlNone, err
	}
	var next func(i int) (object.Object, bool)
	switch iterable := iterable.(type) {
	case *object.List:
		next = func(i int) (object.Object, bool) {
			items := iterable.Value()
			if i >= len(items) {
				return nil, false
			}
			return items[i], true
		}
	case *object.Map:
		keys := iterable.SortedKeys()
		next = func(i int) (object.Object, bool) {
			if i >= len(keys) {
				return nil, false
			}
			return object.NewString(keys[i]), true
		}
	case *object.String:
		runes := []rune(iterable.Value())
		next = func(i int) (object.Object, bool) {
			if i >= len(runes) {
				return nil, false
			}
			return object.NewString(string(runes[i])), true
		}
	case *object.Int:
		n := int(iterable.Value())
		next = func(i int) (object.Object, bool) {
			if i >= n {
				return nil, false
			}
			return object.NewInt(int64(i)), true
		}
	default:
		return ctrlNone, vm.located(fr, stmt.Iterable, errz.TypeErrorf("%s is not iterable", iterable.Type()))
	}
	for i := 0; ; i++ {
		item, ok := next(i)
		if !ok {
			return ctrlNone, nil
		}
		if i > 0 {
			if err := vm.nextIteration(ctx, fr, stmt); err != nil {
				return ctrlNone, err
			}
		}
		outer := fr.scope
		fr.scope = object.NewScope(outer, false)
		fr.scope.Declare(stmt.Name.Name, item, false)
		ctrl, err := vm.execStmts(ctx, fr, stmt.Body.Stmts)
		fr.scope = outer
		if err != nil {
			return ctrlNone, err
		}
		switch ctrl {
		case ctrlBreak:
			return ctrlNone, nil
		case ctrlReturn:
			return ctrlReturn, nil
		}
	}
}

// nextIteration resets the frame's line marker and reports the loop header
// line again, so every iteration produces line events.
func (vm *VirtualMachine) nextIteration(ctx context.Context, fr *Frame, stmt *ast.For) error {
	if err := ctx.Err(); err != nil {
		return halt(err)
	}
	fr.lastLine = 0
	return vm.enterLine(ctx, fr, stmt.Pos())
}
