package vm

import (
	"github.com/risor-io/risordbg/object"
)

const (
	mainFrameName      = "<main>"
	anonymousFrameName = "<anonymous>"
	evalFrameName      = "<eval>"
)

// Frame is one activation on the call stack. Frames are owned by the VM and
// change as the program runs; readers outside the VM must copy what they
// need while the program is suspended.
type Frame struct {
	fn        *object.Function
	name      string
	source    string
	line      int
	lastLine  int
	scope     *object.Scope
	funcScope *object.Scope
	varargs   []object.Object
	hidden    bool
	result    object.Object
}

func newFrame(fn *object.Function, scope *object.Scope, varargs []object.Object) *Frame {
	name := fn.Name()
	if name == "" {
		name = anonymousFrameName
	}
	return &Frame{
		fn:        fn,
		name:      name,
		source:    fn.Filename(),
		line:      fn.Line(),
		scope:     scope,
		funcScope: scope,
		varargs:   varargs,
	}
}

// Function returns the function running in this frame.
func (f *Frame) Function() *object.Function {
	return f.fn
}

// Name returns the function name, "<main>" for a chunk and "<anonymous>" for
// unnamed functions.
func (f *Frame) Name() string {
	return f.name
}

// Source returns the source name of the running code.
func (f *Frame) Source() string {
	return f.source
}

// Line returns the 1-indexed line currently running.
func (f *Frame) Line() int {
	return f.line
}

// Scope returns the innermost scope active in the frame.
func (f *Frame) Scope() *object.Scope {
	return f.scope
}

// FunctionScope returns the outermost scope of the frame. Scopes above it
// belong to enclosing functions or hold the globals.
func (f *Frame) FunctionScope() *object.Scope {
	return f.funcScope
}

// Varargs returns the arguments collected by a rest parameter.
func (f *Frame) Varargs() []object.Object {
	return f.varargs
}

// IsHidden reports whether the frame runs code evaluated on behalf of a
// tool rather than the program.
func (f *Frame) IsHidden() bool {
	return f.hidden
}
