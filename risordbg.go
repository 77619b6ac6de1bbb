// Package risordbg attaches an interactive debugger to scripts run by the vm
// package.
//
// Setup registers the debugger module on a VM and attaches a session to it:
//
//	machine := vm.New()
//	session := risordbg.Setup(machine)
//	results, err := risordbg.PCall(ctx, machine, fn, nil, debugger.MultRet, nil)
//
// Scripts then pause with dbg() or debugger.pause(), and any uncaught error
// raised inside PCall pauses at the point it was raised. Run is a shortcut
// that parses a source, sets breakpoints and runs it under the debugger.
package risordbg

import (
	"context"
	"errors"
	"sync"

	"github.com/risor-io/risordbg/builtins"
	"github.com/risor-io/risordbg/debugger"
	"github.com/risor-io/risordbg/object"
	"github.com/risor-io/risordbg/parser"
	"github.com/risor-io/risordbg/vm"
)

var registry = struct {
	mu       sync.Mutex
	sessions map[*vm.VirtualMachine]*debugger.Session
}{sessions: map[*vm.VirtualMachine]*debugger.Session{}}

// Setup creates a debugger session for a VM and attaches it. The debugger
// module is registered for import under the module name and bound to the
// global alias. Calling Setup again for the same VM replaces its session.
//
// Sessions are kept until Teardown is called for the VM.
func Setup(machine *vm.VirtualMachine, opts ...Option) *debugger.Session {
	return setup(machine, collectOptions(opts...))
}

func setup(machine *vm.VirtualMachine, cfg *config) *debugger.Session {
	registry.mu.Lock()
	old, ok := registry.sessions[machine]
	registry.mu.Unlock()
	if ok {
		old.Detach()
	}

	s := debugger.New(machine, cfg.sessionOpts()...)
	module := s.Module(cfg.moduleName)
	machine.RegisterModule(module)
	if cfg.globalAlias != "" {
		machine.SetGlobal(cfg.globalAlias, module)
	}
	s.Attach()

	registry.mu.Lock()
	registry.sessions[machine] = s
	registry.mu.Unlock()
	return s
}

// SessionFor returns the session set up for a VM.
func SessionFor(machine *vm.VirtualMachine) (*debugger.Session, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	s, ok := registry.sessions[machine]
	return s, ok
}

// Teardown detaches and forgets the session of a VM. It reports whether the
// VM had a session.
func Teardown(machine *vm.VirtualMachine) bool {
	registry.mu.Lock()
	s, ok := registry.sessions[machine]
	delete(registry.sessions, machine)
	registry.mu.Unlock()
	if ok {
		s.Detach()
	}
	return ok
}

// PCall calls fn under the debugger session of a VM, setting one up with
// default options if the VM has none. See debugger.Session.PCall.
func PCall(ctx context.Context, machine *vm.VirtualMachine, fn object.Object, args []object.Object, nresults int, handler debugger.Handler) ([]object.Object, error) {
	s, ok := SessionFor(machine)
	if !ok {
		s = Setup(machine)
	}
	return s.PCall(ctx, fn, args, nresults, handler)
}

// Run parses source and runs it under a new debugger session on a new VM.
// The standard builtins and any WithGlobals values are available to the
// script. The value of a top-level return statement is returned as a Go
// value.
func Run(ctx context.Context, source string, opts ...Option) (any, error) {
	cfg := collectOptions(opts...)
	program, err := parser.Parse(ctx, source, parser.WithFilename(cfg.filename))
	if err != nil {
		return nil, err
	}

	machine := vm.New(cfg.vmOpts...)
	for name, fn := range builtins.Builtins() {
		machine.SetGlobal(name, fn)
	}
	for name, value := range cfg.globals {
		machine.SetGlobal(name, object.FromGoType(value))
	}
	machine.AddSource(cfg.filename, source)

	s := setup(machine, cfg)
	defer Teardown(machine)
	for _, bp := range cfg.breakpoints {
		src := bp.source
		if src == "" {
			src = cfg.filename
		}
		_, err := s.Breakpoints().Add(src, bp.line, bp.condition)
		if err != nil && !errors.Is(err, debugger.ErrDuplicateBreakpoint) {
			return nil, err
		}
	}

	results, err := s.PCall(ctx, machine.Load(program, cfg.filename), nil, 1, cfg.handler)
	if err != nil {
		return nil, err
	}
	return goValue(results[0]), nil
}

func goValue(result object.Object) any {
	value := result.Interface()
	// Values with no Go equivalent, such as functions and modules, are
	// returned as their string representation.
	if value == nil {
		if _, isNil := result.(*object.NilType); !isNil {
			return result.Inspect()
		}
	}
	return value
}
