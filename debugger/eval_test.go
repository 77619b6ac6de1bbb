package debugger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/risordbg/builtins"
	"github.com/risor-io/risordbg/object"
	"github.com/risor-io/risordbg/parser"
	"github.com/risor-io/risordbg/vm"
)

// lineObserver calls fn with a snapshot when a line is reached.
type lineObserver struct {
	vm.NoOpObserver
	line int
	fn   func(ctx context.Context, nav *Navigator)
}

func (o *lineObserver) OnLine(ctx context.Context, event vm.LineEvent) error {
	if event.Line == o.line {
		o.fn(ctx, Snapshot(event.VM))
	}
	return nil
}

func runAt(t *testing.T, source string, line int, fn func(ctx context.Context, machine *vm.VirtualMachine, nav *Navigator)) object.Object {
	t.Helper()
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("main"))
	require.Nil(t, err)
	machine := vm.New(vm.WithGlobals(map[string]any{"g": 100}))
	for name, fn := range builtins.Builtins() {
		machine.SetGlobal(name, fn)
	}
	called := false
	machine.SetObserver(&lineObserver{line: line, fn: func(ctx context.Context, nav *Navigator) {
		called = true
		fn(ctx, machine, nav)
	}})
	result, err := machine.Run(context.Background(), program, "main")
	require.Nil(t, err)
	require.True(t, called)
	return result
}

const frameSource = `function make(base) {
  let total = base
  return function(step, ...more) {
    let x = step
    if true {
      let x = step * 2
      total = total + x
    }
    return total
  }
}
let add = make(10)
return add(1, 7, 8)`

func TestSnapshot(t *testing.T) {
	runAt(t, frameSource, 7, func(ctx context.Context, machine *vm.VirtualMachine, nav *Navigator) {
		require.Equal(t, 2, nav.Len())
		inner := nav.Current()
		assert.Equal(t, 0, inner.Level)
		assert.Equal(t, "add", inner.Function)
		assert.Equal(t, "main:7", inner.Location())
		assert.Equal(t, []Binding{
			{Name: "step", Value: object.NewInt(1)},
			{Name: "more", Value: object.NewList([]object.Object{object.NewInt(7), object.NewInt(8)})},
			{Name: "x", Value: object.NewInt(2)},
		}, inner.Locals)
		var names []string
		for _, b := range inner.Upvalues {
			names = append(names, b.Name)
		}
		assert.Equal(t, []string{"base", "total", "make", "add"}, names)
		assert.Equal(t, []object.Object{object.NewInt(7), object.NewInt(8)}, inner.Varargs)

		value, ok := inner.Lookup("total")
		require.True(t, ok)
		assert.Equal(t, object.NewInt(10), value)

		outer, err := nav.Frame(1)
		require.Nil(t, err)
		assert.Equal(t, "<main>", outer.Function)
		assert.Equal(t, 13, outer.Line)
		assert.Empty(t, outer.Upvalues)

		_, err = nav.Frame(2)
		assert.True(t, errors.Is(err, ErrInvalidFrame))
		_, err = nav.Frame(-1)
		assert.True(t, errors.Is(err, ErrInvalidFrame))
	})
}

func TestNavigatorSelection(t *testing.T) {
	runAt(t, frameSource, 7, func(ctx context.Context, machine *vm.VirtualMachine, nav *Navigator) {
		fr, err := nav.Up(1)
		require.Nil(t, err)
		assert.Equal(t, 1, fr.Level)
		assert.Equal(t, 1, nav.CurrentIndex())

		_, err = nav.Up(1)
		assert.True(t, errors.Is(err, ErrInvalidFrame))
		assert.Equal(t, 1, nav.CurrentIndex())

		fr, err = nav.Down(1)
		require.Nil(t, err)
		assert.Same(t, nav.Current(), fr)
		assert.Equal(t, 0, nav.CurrentIndex())
	})
}

func TestEvaluatorScopeChain(t *testing.T) {
	runAt(t, frameSource, 7, func(ctx context.Context, machine *vm.VirtualMachine, nav *Navigator) {
		ev := NewEvaluator(machine)
		inner := nav.Current()

		values, err := ev.EvalExprs(ctx, "x, step, total, g, len(more)", inner)
		require.Nil(t, err)
		assert.Equal(t, []object.Object{
			object.NewInt(2), object.NewInt(1), object.NewInt(10), object.NewInt(100), object.NewInt(2),
		}, values)

		outer, _ := nav.Frame(1)
		values, err = ev.EvalExprs(ctx, "type(add)", outer)
		require.Nil(t, err)
		assert.Equal(t, object.NewString("function"), values[0])

		_, err = ev.EvalExprs(ctx, "step", outer)
		var evalErr *EvalError
		require.True(t, errors.As(err, &evalErr))
		assert.Equal(t, "step", evalErr.Input)

		values, err = ev.EvalExprs(ctx, "g", nil)
		require.Nil(t, err)
		assert.Equal(t, object.NewInt(100), values[0])
	})
}

func TestEvaluatorSideEffectsPersist(t *testing.T) {
	result := runAt(t, frameSource, 9, func(ctx context.Context, machine *vm.VirtualMachine, nav *Navigator) {
		ev := NewEvaluator(machine)
		values, err := ev.Eval(ctx, "total = total + 1000", nav.Current())
		require.Nil(t, err)
		assert.Equal(t, []object.Object{object.Nil}, values)

		values, err = ev.Eval(ctx, "let t = total; return t * 2", nav.Current())
		require.Nil(t, err)
		assert.Equal(t, []object.Object{object.NewInt(2024)}, values)

		_, err = ev.EvalExprs(ctx, "t", nav.Current())
		assert.NotNil(t, err)
	})
	assert.Equal(t, object.NewInt(1012), result)
}

func TestEvaluatorErrors(t *testing.T) {
	machine := vm.New()
	ev := NewEvaluator(machine)
	ctx := context.Background()

	_, err := ev.Eval(ctx, "let = 1", nil)
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Contains(t, compileErr.Error(), "compile error: ")

	_, err = ev.EvalExprs(ctx, "1 / 0", nil)
	var evalErr *EvalError
	require.True(t, errors.As(err, &evalErr))
	assert.Contains(t, evalErr.Error(), "division by zero")

	_, err = ev.Eval(ctx, "break", nil)
	assert.True(t, errors.As(err, &evalErr))

	truthy, err := ev.Truthy(ctx, "[1]", nil)
	require.Nil(t, err)
	assert.True(t, truthy)
	truthy, err = ev.Truthy(ctx, "0, nil", nil)
	require.Nil(t, err)
	assert.False(t, truthy)

	assert.Empty(t, machine.Frames())
}

func TestEvaluatorPassesQuitThrough(t *testing.T) {
	machine := vm.New()
	machine.SetGlobal("stop", object.NewBuiltin("stop", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, vm.Halt(ErrQuit)
	}))
	_, err := NewEvaluator(machine).EvalExprs(context.Background(), "stop()", nil)
	assert.Equal(t, ErrQuit, err)
}
