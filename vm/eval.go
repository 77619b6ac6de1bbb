package vm

import (
	"context"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
)

func (vm *VirtualMachine) evalExpr(ctx context.Context, fr *Frame, expr ast.Expr) (object.Object, error) {
	switch expr := expr.(type) {
	case *ast.Ident:
		cell, ok := fr.scope.Lookup(expr.Name)
		if !ok {
			return nil, vm.located(fr, expr, vm.undefined(fr, expr.Name))
		}
		return cell.Value(), nil
	case *ast.Int:
		return object.NewInt(expr.Value), nil
	case *ast.Float:
		return object.NewFloat(expr.Value), nil
	case *ast.String:
		return object.NewString(expr.Value), nil
	case *ast.Bool:
		return object.NewBool(expr.Value), nil
	case *ast.Nil:
		return object.Nil, nil
	case *ast.List:
		items := make([]object.Object, 0, len(expr.Items))
		for _, item := range expr.Items {
			value, err := vm.evalExpr(ctx, fr, item)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return object.NewList(items), nil
	case *ast.Map:
		items := make(map[string]object.Object, len(expr.Items))
		for _, item := range expr.Items {
			key, err := vm.evalExpr(ctx, fr, item.Key)
			if err != nil {
				return nil, err
			}
			k, ok := key.(*object.String)
			if !ok {
				return nil, vm.located(fr, item.Key, errz.TypeErrorf("map key must be a string (got %s)", key.Type()))
			}
			value, err := vm.evalExpr(ctx, fr, item.Value)
			if err != nil {
				return nil, err
			}
			items[k.Value()] = value
		}
		return object.NewMap(items), nil
	case *ast.Prefix:
		return vm.evalPrefix(ctx, fr, expr)
	case *ast.Infix:
		return vm.evalInfix(ctx, fr, expr)
	case *ast.Call:
		return vm.evalCall(ctx, fr, expr)
	case *ast.Index:
		obj, err := vm.evalExpr(ctx, fr, expr.X)
		if err != nil {
			return nil, err
		}
		key, err := vm.evalExpr(ctx, fr, expr.Index)
		if err != nil {
			return nil, err
		}
		container, ok := obj.(object.Container)
		if !ok {
			return nil, vm.located(fr, expr, errz.TypeErrorf("%s is not indexable", obj.Type()))
		}
		value, err := container.GetItem(key)
		if err != nil {
			return nil, vm.located(fr, expr, err)
		}
		return value, nil
	case *ast.GetAttr:
		obj, err := vm.evalExpr(ctx, fr, expr.X)
		if err != nil {
			return nil, err
		}
		value, ok := obj.GetAttr(expr.Attr.Name)
		if !ok {
			return nil, vm.located(fr, expr.Attr,
				errz.NameErrorf("attribute %q not found on %s", expr.Attr.Name, obj.Type()))
		}
		return value, nil
	case *ast.Func:
		return object.NewFunction(expr, fr.scope, fr.source), nil
	case *ast.Spread:
		return nil, vm.located(fr, expr, errz.NewStructuredErrorf(errz.ErrSyntax, errz.SourceLocation{}, nil,
			"spread is only valid in call arguments"))
	case *ast.BadExpr:
		return nil, vm.located(fr, expr, errz.NewStructuredErrorf(errz.ErrSyntax, errz.SourceLocation{}, nil,
			"invalid expression"))
	}
	return nil, errz.NewStructuredErrorf(errz.ErrRuntime, errz.SourceLocation{}, nil,
		"unsupported expression: %T", expr)
}

func (vm *VirtualMachine) evalPrefix(ctx context.Context, fr *Frame, expr *ast.Prefix) (object.Object, error) {
	operand, err := vm.evalExpr(ctx, fr, expr.X)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case "!", "not":
		return object.NewBool(!operand.IsTruthy()), nil
	case "-":
		value, err := object.Negate(operand)
		return value, vm.located(fr, expr, err)
	}
	return nil, vm.located(fr, expr, errz.TypeErrorf("unknown operator: %s", expr.Op))
}

// evalInfix evaluates binary operators. "&&" and "||" short-circuit and
// yield the operand that decided the result.
func (vm *VirtualMachine) evalInfix(ctx context.Context, fr *Frame, expr *ast.Infix) (object.Object, error) {
	left, err := vm.evalExpr(ctx, fr, expr.X)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case "&&":
		if !left.IsTruthy() {
			return left, nil
		}
		return vm.evalExpr(ctx, fr, expr.Y)
	case "||":
		if left.IsTruthy() {
			return left, nil
		}
		return vm.evalExpr(ctx, fr, expr.Y)
	}
	right, err := vm.evalExpr(ctx, fr, expr.Y)
	if err != nil {
		return nil, err
	}
	var result object.Object
	switch expr.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		result, err = object.Compare(expr.Op, left, right)
	default:
		result, err = object.BinaryOp(expr.Op, left, right)
	}
	if err != nil {
		errPos := &ast.Ident{NamePos: expr.OpPos, Name: expr.Op}
		return nil, vm.located(fr, errPos, err)
	}
	return result, nil
}

func (vm *VirtualMachine) evalCall(ctx context.Context, fr *Frame, expr *ast.Call) (object.Object, error) {
	fn, err := vm.evalExpr(ctx, fr, expr.Fun)
	if err != nil {
		return nil, err
	}
	args := make([]object.Object, 0, len(expr.Args))
	for _, arg := range expr.Args {
		if spread, ok := arg.(*ast.Spread); ok {
			value, err := vm.evalExpr(ctx, fr, spread.X)
			if err != nil {
				return nil, err
			}
			list, ok := value.(*object.List)
			if !ok {
				return nil, vm.located(fr, spread, errz.TypeErrorf("spread requires a list (got %s)", value.Type()))
			}
			args = append(args, list.Value()...)
			continue
		}
		value, err := vm.evalExpr(ctx, fr, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	result, err := vm.callObject(ctx, fn, args)
	if err != nil {
		return nil, vm.located(fr, expr, err)
	}
	return result, nil
}

// undefined builds a name error with suggestions drawn from the names
// visible in the frame.
func (vm *VirtualMachine) undefined(fr *Frame, name string) *errz.StructuredError {
	err := errz.NameErrorf("undefined variable %q", name)
	if hint := errz.FormatSuggestions(errz.SuggestSimilar(name, fr.scope.VisibleNames())); hint != "" {
		err.WithHint(hint)
	}
	return err
}
