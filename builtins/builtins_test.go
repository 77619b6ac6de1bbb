package builtins

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
)

func TestBuiltins(t *testing.T) {
	m := Builtins()
	assert.Len(t, m, len(Docs()))
	for _, spec := range Docs() {
		_, ok := m[spec.Name]
		assert.True(t, ok, "missing builtin %s", spec.Name)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	ctx := object.WithStdout(context.Background(), &buf)
	_, err := Print(ctx, object.NewString("x ="), object.NewInt(3), object.Nil)
	require.Nil(t, err)
	assert.Equal(t, "x = 3 nil\n", buf.String())
}

func TestLen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		input    object.Object
		expected int64
	}{
		{object.NewString("héllo"), 5},
		{object.NewList([]object.Object{object.Nil, object.Nil}), 2},
		{object.NewMap(map[string]object.Object{"a": object.True}), 1},
	}
	for _, tt := range tests {
		t.Run(tt.input.Inspect(), func(t *testing.T) {
			result, err := Len(ctx, tt.input)
			require.Nil(t, err)
			assert.Equal(t, tt.expected, result.(*object.Int).Value())
		})
	}
	_, err := Len(ctx, object.NewInt(1))
	assert.Contains(t, err.Error(), "len() unsupported argument (int given)")
}

func TestConversions(t *testing.T) {
	ctx := context.Background()

	i, err := Int(ctx, object.NewString(" 42 "))
	require.Nil(t, err)
	assert.Equal(t, int64(42), i.(*object.Int).Value())

	i, err = Int(ctx, object.NewFloat(3.9))
	require.Nil(t, err)
	assert.Equal(t, int64(3), i.(*object.Int).Value())

	_, err = Int(ctx, object.NewString("four"))
	assert.Contains(t, err.Error(), `int() invalid literal "four"`)

	f, err := Float(ctx, object.NewInt(2))
	require.Nil(t, err)
	assert.Equal(t, "2.0", f.Inspect())

	s, err := String(ctx, object.NewList([]object.Object{object.NewString("a")}))
	require.Nil(t, err)
	assert.Equal(t, `["a"]`, s.(*object.String).Value())

	typ, err := Type(ctx, object.NewFloat(1))
	require.Nil(t, err)
	assert.Equal(t, "float", typ.(*object.String).Value())
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	m := object.NewMap(map[string]object.Object{"b": object.True, "a": object.False})
	result, err := Keys(ctx, m)
	require.Nil(t, err)
	assert.Equal(t, `["a", "b"]`, result.Inspect())
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	list := object.NewList(nil)
	result, err := Append(ctx, list, object.NewInt(1), object.NewInt(2))
	require.Nil(t, err)
	assert.Same(t, list, result)
	assert.Equal(t, 2, list.Len())
}

func TestRange(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		args     []object.Object
		expected string
	}{
		{[]object.Object{object.NewInt(3)}, "[0, 1, 2]"},
		{[]object.Object{object.NewInt(2), object.NewInt(5)}, "[2, 3, 4]"},
		{[]object.Object{object.NewInt(5), object.NewInt(0), object.NewInt(-2)}, "[5, 3, 1]"},
		{[]object.Object{object.NewInt(0)}, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result, err := Range(ctx, tt.args...)
			require.Nil(t, err)
			assert.Equal(t, tt.expected, result.Inspect())
		})
	}
	_, err := Range(ctx, object.NewInt(0), object.NewInt(1), object.NewInt(0))
	assert.Contains(t, err.Error(), "step must not be zero")
}

func TestError(t *testing.T) {
	ctx := context.Background()
	value := object.NewMap(map[string]object.Object{"code": object.NewInt(7)})
	_, err := Error(ctx, value)
	require.NotNil(t, err)
	var serr *errz.StructuredError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, errz.ErrRuntime, serr.Kind)
	assert.Same(t, value, serr.Value)

	_, err = Error(ctx, object.NewString("boom"))
	assert.Equal(t, "runtime error: boom", err.Error())
}

func TestAssert(t *testing.T) {
	ctx := context.Background()
	_, err := Assert(ctx, object.True)
	assert.Nil(t, err)

	_, err = Assert(ctx, object.NewInt(0), object.NewString("x must be positive"))
	require.NotNil(t, err)
	assert.Equal(t, "value error: x must be positive", err.Error())

	_, err = Assert(ctx, object.False)
	assert.Equal(t, "value error: assertion failed", err.Error())
}

func TestPCall(t *testing.T) {
	boom := errors.New("boom")
	fn := object.NewBuiltin("fail", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, boom
	})
	ctx := object.WithProtectedCallFunc(context.Background(),
		func(ctx context.Context, callee object.Object, args []object.Object) (bool, object.Object, error) {
			result, err := callee.(object.Callable).Call(ctx, args...)
			if err != nil {
				return false, object.NewError(err), nil
			}
			return true, result, nil
		})

	result, err := PCall(ctx, fn)
	require.Nil(t, err)
	items := result.(*object.List).Value()
	assert.Equal(t, object.False, items[0])
	assert.Equal(t, "boom", items[1].(*object.Error).Message())

	_, err = PCall(context.Background(), fn)
	assert.Contains(t, err.Error(), "no runtime available")
}
