// Package builtins defines a default set of built-in functions.
package builtins

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
)

func Print(ctx context.Context, args ...object.Object) (object.Object, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, object.ToText(arg))
	}
	if _, err := fmt.Fprintln(object.GetStdout(ctx), strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return object.Nil, nil
}

func Len(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("len: expected 1 argument, got %d", len(args))
	}
	switch arg := args[0].(type) {
	case object.Container:
		return object.NewInt(int64(arg.Len())), nil
	case *object.Module:
		return object.NewInt(int64(len(arg.Members()))), nil
	default:
		return nil, errz.TypeErrorf("len() unsupported argument (%s given)", args[0].Type())
	}
}

func Type(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("type: expected 1 argument, got %d", len(args))
	}
	return object.NewString(string(args[0].Type())), nil
}

func String(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, errz.ArgsErrorf("str: expected 0-1 arguments, got %d", len(args))
	}
	if len(args) == 0 {
		return object.NewString(""), nil
	}
	return object.NewString(object.ToText(args[0])), nil
}

func Int(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, errz.ArgsErrorf("int: expected 0-1 arguments, got %d", len(args))
	}
	if len(args) == 0 {
		return object.NewInt(0), nil
	}
	switch arg := args[0].(type) {
	case *object.Int:
		return arg, nil
	case *object.Float:
		f := arg.Value()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errz.ValueErrorf("int() cannot convert %s", object.FormatFloat(f))
		}
		return object.NewInt(int64(f)), nil
	case *object.Bool:
		if arg.Value() {
			return object.NewInt(1), nil
		}
		return object.NewInt(0), nil
	case *object.String:
		i, err := strconv.ParseInt(strings.TrimSpace(arg.Value()), 0, 64)
		if err != nil {
			return nil, errz.ValueErrorf("int() invalid literal %s", arg.Inspect())
		}
		return object.NewInt(i), nil
	default:
		return nil, errz.TypeErrorf("int() unsupported argument (%s given)", args[0].Type())
	}
}

func Float(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 1 {
		return nil, errz.ArgsErrorf("float: expected 0-1 arguments, got %d", len(args))
	}
	if len(args) == 0 {
		return object.NewFloat(0), nil
	}
	switch arg := args[0].(type) {
	case *object.Int:
		return object.NewFloat(float64(arg.Value())), nil
	case *object.Float:
		return arg, nil
	case *object.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(arg.Value()), 64)
		if err != nil {
			return nil, errz.ValueErrorf("float() invalid literal %s", arg.Inspect())
		}
		return object.NewFloat(f), nil
	default:
		return nil, errz.TypeErrorf("float() unsupported argument (%s given)", args[0].Type())
	}
}

func Keys(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("keys: expected 1 argument, got %d", len(args))
	}
	switch arg := args[0].(type) {
	case *object.Map:
		return arg.Keys(), nil
	case *object.List:
		items := make([]object.Object, arg.Len())
		for i := range items {
			items[i] = object.NewInt(int64(i))
		}
		return object.NewList(items), nil
	case *object.Module:
		names := object.Keys(arg.Members())
		items := make([]object.Object, 0, len(names))
		for _, name := range names {
			items = append(items, object.NewString(name))
		}
		return object.NewList(items), nil
	default:
		return nil, errz.TypeErrorf("keys() unsupported argument (%s given)", args[0].Type())
	}
}

// Append adds values to the end of a list in place and returns the list.
func Append(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 {
		return nil, errz.ArgsErrorf("append: expected at least 1 argument, got 0")
	}
	list, ok := args[0].(*object.List)
	if !ok {
		return nil, errz.TypeErrorf("append() expected a list (%s given)", args[0].Type())
	}
	for _, arg := range args[1:] {
		list.Append(arg)
	}
	return list, nil
}

// Range returns a list of ints: range(stop), range(start, stop) or
// range(start, stop, step).
func Range(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errz.ArgsErrorf("range: expected 1-3 arguments, got %d", len(args))
	}
	ints := make([]int64, len(args))
	for i, arg := range args {
		n, err := object.AsInt(arg)
		if err != nil {
			return nil, err
		}
		ints[i] = n
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(ints) {
	case 1:
		stop = ints[0]
	case 2:
		start, stop = ints[0], ints[1]
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
	}
	if step == 0 {
		return nil, errz.ValueErrorf("range() step must not be zero")
	}
	var items []object.Object
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		items = append(items, object.NewInt(i))
	}
	return object.NewList(items), nil
}

// Error raises an error. The argument is kept as the error's value so that
// pcall callers can inspect it through err.value.
func Error(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("error: expected 1 argument, got %d", len(args))
	}
	if caught, ok := args[0].(*object.Error); ok {
		return nil, caught.Value()
	}
	err := errz.NewStructuredErrorf(errz.ErrRuntime, errz.SourceLocation{}, nil, "%s", object.ToText(args[0]))
	err.Value = args[0]
	return nil, err
}

func Assert(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errz.ArgsErrorf("assert: expected 1-2 arguments, got %d", len(args))
	}
	if !args[0].IsTruthy() {
		if len(args) == 2 {
			return nil, errz.NewStructuredErrorf(errz.ErrValue, errz.SourceLocation{}, nil,
				"%s", object.ToText(args[1]))
		}
		return nil, errz.ValueErrorf("assertion failed")
	}
	return object.Nil, nil
}

// PCall calls a function in protected mode. It returns [true, result] on
// success and [false, err] when the call raised an error.
func PCall(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 {
		return nil, errz.ArgsErrorf("pcall: expected at least 1 argument, got 0")
	}
	pcall, ok := object.GetProtectedCallFunc(ctx)
	if !ok {
		return nil, errz.NewStructuredErrorf(errz.ErrRuntime, errz.SourceLocation{}, nil,
			"pcall: no runtime available")
	}
	ok, result, err := pcall(ctx, args[0], args[1:])
	if err != nil {
		return nil, err
	}
	return object.NewList([]object.Object{object.NewBool(ok), result}), nil
}

// Builtins returns the default set of built-in functions.
func Builtins() map[string]object.Object {
	return map[string]object.Object{
		"append": object.NewBuiltin("append", Append),
		"assert": object.NewBuiltin("assert", Assert),
		"error":  object.NewBuiltin("error", Error),
		"float":  object.NewBuiltin("float", Float),
		"int":    object.NewBuiltin("int", Int),
		"keys":   object.NewBuiltin("keys", Keys),
		"len":    object.NewBuiltin("len", Len),
		"pcall":  object.NewBuiltin("pcall", PCall),
		"print":  object.NewBuiltin("print", Print),
		"range":  object.NewBuiltin("range", Range),
		"str":    object.NewBuiltin("str", String),
		"type":   object.NewBuiltin("type", Type),
	}
}
