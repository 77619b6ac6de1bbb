package object

import (
	"context"
	"fmt"

	"github.com/risor-io/risordbg/errz"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(ctx context.Context, args ...Object) (Object, error)

// Builtin wraps func and implements Object interface.
type Builtin struct {
	// The function that this object wraps.
	fn BuiltinFunction

	// The name of the function.
	name string

	// The name of the module this function originates from, if any.
	moduleName string
}

func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}

// InModule returns a copy of the builtin that reports itself as a member of
// the named module.
func (b *Builtin) InModule(moduleName string) *Builtin {
	return &Builtin{fn: b.fn, name: b.name, moduleName: moduleName}
}

func (b *Builtin) SetAttr(name string, value Object) error {
	return errz.TypeErrorf("builtin has no attribute %q", name)
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Interface() interface{} {
	return b.fn
}

func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.Key())
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Name() string {
	return b.name
}

// Key returns the fully qualified name, e.g. "debugger.pause".
func (b *Builtin) Key() string {
	if b.moduleName == "" {
		return b.name
	}
	return b.moduleName + "." + b.name
}

func (b *Builtin) GetAttr(name string) (Object, bool) {
	if name == "__name__" {
		return NewString(b.Key()), true
	}
	return nil, false
}

func (b *Builtin) Equals(other Object) bool {
	otherBuiltin, ok := other.(*Builtin)
	return ok && b == otherBuiltin
}
