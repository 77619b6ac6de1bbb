package object

import (
	"context"
	"fmt"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/errz"
)

var _ Callable = (*Function)(nil)

// Function is a function defined in script code, closed over the scope it
// was defined in.
type Function struct {
	name     string
	decl     *ast.Func
	scope    *Scope
	filename string
}

func NewFunction(decl *ast.Func, scope *Scope, filename string) *Function {
	fn := &Function{decl: decl, scope: scope, filename: filename}
	if decl.Name != nil {
		fn.name = decl.Name.Name
	}
	return fn
}

// WithName returns a copy of the function using the given name. The runtime
// names anonymous functions after the variable they are first bound to.
func (f *Function) WithName(name string) *Function {
	return &Function{name: name, decl: f.decl, scope: f.scope, filename: f.filename}
}

func (f *Function) Type() Type {
	return FUNCTION
}

// Name returns the function name, or "" for anonymous functions.
func (f *Function) Name() string {
	return f.name
}

func (f *Function) Decl() *ast.Func {
	return f.decl
}

// Scope returns the scope the function closes over.
func (f *Function) Scope() *Scope {
	return f.scope
}

func (f *Function) Filename() string {
	return f.filename
}

// Line returns the 1-indexed line where the function is defined.
func (f *Function) Line() int {
	return f.decl.Pos().LineNumber()
}

func (f *Function) Params() []string {
	params := make([]string, 0, len(f.decl.Params))
	for _, p := range f.decl.Params {
		params = append(params, p.Name)
	}
	return params
}

// RestParam returns the name of the variadic parameter, or "".
func (f *Function) RestParam() string {
	if f.decl.RestParam == nil {
		return ""
	}
	return f.decl.RestParam.Name
}

func (f *Function) Inspect() string {
	if f.name == "" {
		return "function(<anonymous>)"
	}
	return fmt.Sprintf("function(%s)", f.name)
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() interface{} {
	return nil
}

func (f *Function) Equals(other Object) bool {
	otherFn, ok := other.(*Function)
	return ok && f.decl == otherFn.decl && f.scope == otherFn.scope
}

func (f *Function) GetAttr(name string) (Object, bool) {
	if name == "__name__" {
		return NewString(f.name), true
	}
	return nil, false
}

func (f *Function) SetAttr(name string, value Object) error {
	return errz.TypeErrorf("function has no attribute %q", name)
}

func (f *Function) IsTruthy() bool {
	return true
}

// Call runs the function using the CallFunc the VM stored in ctx.
func (f *Function) Call(ctx context.Context, args ...Object) (Object, error) {
	call, ok := GetCallFunc(ctx)
	if !ok {
		return nil, fmt.Errorf("no call function found in context")
	}
	return call(ctx, f, args)
}
