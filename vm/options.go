package vm

import (
	"io"

	"github.com/risor-io/risordbg/object"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithGlobals provides global variables with the given names. Go values are
// converted with object.FromGoType.
func WithGlobals(globals map[string]any) Option {
	return func(vm *VirtualMachine) {
		for name, value := range globals {
			vm.globals.Declare(name, object.FromGoType(value), false)
		}
	}
}

// WithModule makes a module importable by scripts under its name.
func WithModule(module *object.Module) Option {
	return func(vm *VirtualMachine) {
		vm.modules[module.Name()] = module
	}
}

// WithObserver sets an observer for VM execution events.
// Observer methods are called synchronously during execution.
// Returning an error from any observer method halts execution.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.SetObserver(observer)
	}
}

// WithStdout sets the writer used by the print builtin.
func WithStdout(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.stdout = w
	}
}

// WithMaxFrameDepth limits the depth of the call stack. Calls beyond the
// limit raise a runtime error.
func WithMaxFrameDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		vm.maxFrameDepth = depth
	}
}
