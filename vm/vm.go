// Package vm provides a VirtualMachine that executes parsed programs.
//
// The VM walks the syntax tree directly. It keeps an explicit call stack of
// frames with lexical scopes so that tools such as the debugger can inspect
// the live program, and it reports execution events to an Observer.
package vm

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
)

const (
	MaxArgs              = 256
	DefaultMaxFrameDepth = 1024
)

var ErrGlobalNotFound = errors.New("global not found")

type VirtualMachine struct {
	globals       *object.Scope
	modules       map[string]*object.Module
	frames        []*Frame
	sources       map[string][]string
	observer      Observer
	observerCfg   ObserverConfig
	stdout        io.Writer
	maxFrameDepth int

	// protected counts the script-level pcalls in progress. Error events
	// are only reported when it is zero.
	protected int
}

// New creates a new Virtual Machine.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		globals:       object.NewScope(nil, false),
		modules:       map[string]*object.Module{},
		sources:       map[string][]string{},
		stdout:        os.Stdout,
		maxFrameDepth: DefaultMaxFrameDepth,
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// SetObserver attaches an observer, replacing any previous one. Passing nil
// detaches the current observer.
func (vm *VirtualMachine) SetObserver(observer Observer) {
	vm.observer = observer
	if observer != nil {
		vm.observerCfg = observer.Config()
	} else {
		vm.observerCfg = ObserverConfig{}
	}
}

// Observer returns the attached observer, if any.
func (vm *VirtualMachine) Observer() Observer {
	return vm.observer
}

// RegisterModule makes a module importable by scripts under its name.
func (vm *VirtualMachine) RegisterModule(module *object.Module) {
	vm.modules[module.Name()] = module
}

// Module returns a registered module by name.
func (vm *VirtualMachine) Module(name string) (*object.Module, bool) {
	m, ok := vm.modules[name]
	return m, ok
}

// Globals returns the root scope.
func (vm *VirtualMachine) Globals() *object.Scope {
	return vm.globals
}

// SetGlobal declares or replaces a global variable.
func (vm *VirtualMachine) SetGlobal(name string, value object.Object) {
	vm.globals.Declare(name, value, false)
}

// Get returns the value of a global variable.
func (vm *VirtualMachine) Get(name string) (object.Object, error) {
	cell, ok := vm.globals.LookupLocal(name)
	if !ok {
		return nil, ErrGlobalNotFound
	}
	return cell.Value(), nil
}

// GlobalNames returns the names of the global variables.
func (vm *VirtualMachine) GlobalNames() []string {
	return object.Keys(vm.globalMap())
}

func (vm *VirtualMachine) globalMap() map[string]object.Object {
	m := map[string]object.Object{}
	for _, name := range vm.globals.Names() {
		cell, _ := vm.globals.LookupLocal(name)
		m[name] = cell.Value()
	}
	return m
}

// AddSource records the text of a source so that errors and tools can show
// its lines.
func (vm *VirtualMachine) AddSource(name, text string) {
	vm.sources[name] = strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// SourceLines returns the recorded lines of a source.
func (vm *VirtualMachine) SourceLines(name string) ([]string, bool) {
	lines, ok := vm.sources[name]
	return lines, ok
}

// SourceLine returns one 1-indexed line of a recorded source.
func (vm *VirtualMachine) SourceLine(name string, line int) string {
	lines := vm.sources[name]
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Load wraps a parsed program as a callable main chunk. Top-level variables
// of the program are locals of the chunk's frame.
func (vm *VirtualMachine) Load(program *ast.Program, filename string) *object.Function {
	decl := &ast.Func{Body: &ast.Block{Stmts: program.Stmts}}
	if len(program.Stmts) > 0 {
		decl.Func = program.Stmts[0].Pos()
	}
	return object.NewFunction(decl, vm.globals, filename).WithName(mainFrameName)
}

// Run executes a parsed program as a main chunk and returns the value of a
// top-level return statement, or nil.
func (vm *VirtualMachine) Run(ctx context.Context, program *ast.Program, filename string) (object.Object, error) {
	return vm.Call(ctx, vm.Load(program, filename), nil)
}

// Call invokes a callable from Go. Errors raised by the program are returned
// as *errz.StructuredError. An error returned by an observer to halt the
// program is returned unwrapped.
func (vm *VirtualMachine) Call(ctx context.Context, fn object.Object, args []object.Object) (object.Object, error) {
	ctx = vm.initContext(ctx)
	result, err := vm.callObject(ctx, fn, args)
	if err != nil {
		return nil, unwrapHalt(err)
	}
	return result, nil
}

// Frames returns the call stack, outermost frame first. Hidden frames are
// included.
func (vm *VirtualMachine) Frames() []*Frame {
	frames := make([]*Frame, len(vm.frames))
	copy(frames, vm.frames)
	return frames
}

// Depth returns the number of visible frames on the call stack.
func (vm *VirtualMachine) Depth() int {
	depth := 0
	for _, fr := range vm.frames {
		if !fr.hidden {
			depth++
		}
	}
	return depth
}

// CurrentFrame returns the innermost frame, hidden or not.
func (vm *VirtualMachine) CurrentFrame() (*Frame, bool) {
	if len(vm.frames) == 0 {
		return nil, false
	}
	return vm.frames[len(vm.frames)-1], true
}

func (vm *VirtualMachine) initContext(ctx context.Context) context.Context {
	ctx = object.WithCallFunc(ctx, vm.callFunction)
	ctx = object.WithProtectedCallFunc(ctx, vm.protectedCall)
	ctx = object.WithStdout(ctx, vm.stdout)
	return ctx
}

func (vm *VirtualMachine) pushFrame(fr *Frame) error {
	if len(vm.frames) >= vm.maxFrameDepth {
		return errz.NewStructuredErrorf(errz.ErrRuntime, errz.SourceLocation{}, nil,
			"maximum call depth exceeded (%d)", vm.maxFrameDepth)
	}
	vm.frames = append(vm.frames, fr)
	return nil
}

func (vm *VirtualMachine) popFrame() {
	vm.frames[len(vm.frames)-1] = nil
	vm.frames = vm.frames[:len(vm.frames)-1]
}

// callObject dispatches a call to a script function or a Go callable.
func (vm *VirtualMachine) callObject(ctx context.Context, fn object.Object, args []object.Object) (object.Object, error) {
	switch fn := fn.(type) {
	case *object.Function:
		return vm.callFunction(ctx, fn, args)
	case *object.Module:
		if !fn.IsCallable() {
			return nil, errz.TypeErrorf("module %s is not callable", fn.Name())
		}
		return fn.Call(ctx, args...)
	case object.Callable:
		return fn.Call(ctx, args...)
	}
	return nil, errz.TypeErrorf("object is not callable (got %s)", fn.Type())
}

func (vm *VirtualMachine) callFunction(ctx context.Context, fn *object.Function, args []object.Object) (result object.Object, err error) {
	if len(args) > MaxArgs {
		return nil, errz.ArgsErrorf("too many arguments (%d given)", len(args))
	}
	params := fn.Params()
	rest := fn.RestParam()
	if len(args) > len(params) && rest == "" {
		return nil, errz.ArgsErrorf("%s() takes %d arguments (%d given)",
			displayName(fn), len(params), len(args))
	}
	scope := object.NewScope(fn.Scope(), true)
	for i, name := range params {
		var value object.Object = object.Nil
		if i < len(args) {
			value = args[i]
		}
		scope.Declare(name, value, false)
	}
	var varargs []object.Object
	if rest != "" {
		if len(args) > len(params) {
			varargs = append(varargs, args[len(params):]...)
		}
		scope.Declare(rest, object.NewList(varargs), false)
	}

	fr := newFrame(fn, scope, varargs)
	if err := vm.pushFrame(fr); err != nil {
		return nil, err
	}
	defer vm.popFrame()

	if err := vm.notifyCall(ctx, fr, len(args)); err != nil {
		return nil, err
	}
	defer func() {
		if rerr := vm.notifyReturn(ctx, fr, err); rerr != nil && (err == nil || !isHalt(err)) {
			result, err = nil, rerr
		}
	}()

	if _, err := vm.execStmts(ctx, fr, fn.Decl().Body.Stmts); err != nil {
		return nil, err
	}
	if fr.result == nil {
		return object.Nil, nil
	}
	return fr.result, nil
}

// protectedCall implements the script-level pcall.
func (vm *VirtualMachine) protectedCall(ctx context.Context, fn object.Object, args []object.Object) (bool, object.Object, error) {
	vm.protected++
	result, err := vm.callObject(ctx, fn, args)
	vm.protected--
	if err == nil {
		return true, result, nil
	}
	if isHalt(err) {
		return false, nil, err
	}
	return false, object.NewError(err), nil
}

func displayName(fn *object.Function) string {
	if fn.Name() == "" {
		return "function"
	}
	return fn.Name()
}
