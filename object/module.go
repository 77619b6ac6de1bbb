package object

import (
	"context"
	"fmt"

	"github.com/risor-io/risordbg/errz"
)

// Module is a named collection of values made available to scripts through
// import. A module may also be callable.
type Module struct {
	name     string
	members  map[string]Object
	callable BuiltinFunction
}

func NewBuiltinsModule(name string, contents map[string]Object, callableOption ...BuiltinFunction) *Module {
	members := make(map[string]Object, len(contents))
	for k, v := range contents {
		if b, ok := v.(*Builtin); ok {
			v = b.InModule(name)
		}
		members[k] = v
	}
	m := &Module{name: name, members: members}
	if len(callableOption) > 0 {
		m.callable = callableOption[0]
	}
	return m
}

func (m *Module) GetAttr(name string) (Object, bool) {
	if name == "__name__" {
		return NewString(m.name), true
	}
	value, ok := m.members[name]
	return value, ok
}

func (m *Module) SetAttr(name string, value Object) error {
	return errz.TypeErrorf("cannot modify module attributes")
}

func (m *Module) IsTruthy() bool {
	return true
}

func (m *Module) Type() Type {
	return MODULE
}

func (m *Module) Name() string {
	return m.name
}

// Members returns the module contents. The map must not be modified.
func (m *Module) Members() map[string]Object {
	return m.members
}

func (m *Module) Interface() interface{} {
	return nil
}

func (m *Module) Inspect() string {
	return fmt.Sprintf("module(%s)", m.name)
}

func (m *Module) String() string {
	return m.Inspect()
}

func (m *Module) Equals(other Object) bool {
	otherModule, ok := other.(*Module)
	return ok && m == otherModule
}

// Call invokes the module when it was built with a callable.
func (m *Module) Call(ctx context.Context, args ...Object) (Object, error) {
	if m.callable == nil {
		return nil, errz.TypeErrorf("module %s is not callable", m.name)
	}
	return m.callable(ctx, args...)
}

// IsCallable reports whether the module may be called like a function.
func (m *Module) IsCallable() bool {
	return m.callable != nil
}
