package risordbg

import (
	"maps"

	"github.com/risor-io/risordbg/debugger"
	"github.com/risor-io/risordbg/vm"
)

const (
	// DefaultModuleName is the name scripts import the debugger module by.
	DefaultModuleName = "debugger"

	// DefaultGlobalAlias is the global variable bound to the debugger module.
	DefaultGlobalAlias = "dbg"

	// DefaultFilename names sources given to Run without a filename.
	DefaultFilename = "main"
)

// Option configures Setup and Run.
type Option func(*config)

type breakpoint struct {
	source    string
	line      int
	condition string
}

type config struct {
	moduleName  string
	globalAlias string
	read        debugger.ReadFunc
	write       debugger.WriteFunc
	session     []debugger.Option

	filename    string
	globals     map[string]any
	vmOpts      []vm.Option
	breakpoints []breakpoint
	handler     debugger.Handler
}

func collectOptions(opts ...Option) *config {
	cfg := &config{
		moduleName:  DefaultModuleName,
		globalAlias: DefaultGlobalAlias,
		filename:    DefaultFilename,
		globals:     map[string]any{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *config) sessionOpts() []debugger.Option {
	opts := append([]debugger.Option{}, c.session...)
	return append(opts, debugger.WithRead(c.read), debugger.WithWrite(c.write))
}

// WithModuleName sets the name the debugger module is imported by.
func WithModuleName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.moduleName = name
		}
	}
}

// WithGlobalAlias sets the global variable bound to the debugger module. An
// empty name binds no global, leaving import as the only way to reach it.
func WithGlobalAlias(name string) Option {
	return func(cfg *config) {
		cfg.globalAlias = name
	}
}

// WithRead sets the function the debugger reads commands with. Standard
// input is used by default.
func WithRead(read debugger.ReadFunc) Option {
	return func(cfg *config) {
		cfg.read = read
	}
}

// WithWrite sets the function the debugger writes output with. Standard
// output is used by default.
func WithWrite(write debugger.WriteFunc) Option {
	return func(cfg *config) {
		cfg.write = write
	}
}

// WithSessionOptions passes options through to the debugger session.
func WithSessionOptions(opts ...debugger.Option) Option {
	return func(cfg *config) {
		cfg.session = append(cfg.session, opts...)
	}
}

// WithFilename sets the source name used by Run for breakpoints, stack
// traces and error messages.
func WithFilename(filename string) Option {
	return func(cfg *config) {
		if filename != "" {
			cfg.filename = filename
		}
	}
}

// WithGlobals provides global variables to scripts started by Run. This
// option is additive. If the same key is supplied multiple times, the last
// value wins.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		maps.Copy(cfg.globals, globals)
	}
}

// WithGlobal supplies a single named global variable to Run.
func WithGlobal(name string, value any) Option {
	return func(cfg *config) {
		cfg.globals[name] = value
	}
}

// WithVMOptions passes options through to the VM created by Run.
func WithVMOptions(opts ...vm.Option) Option {
	return func(cfg *config) {
		cfg.vmOpts = append(cfg.vmOpts, opts...)
	}
}

// WithBreakpoint sets a breakpoint before Run starts the script. An empty
// condition always matches.
func WithBreakpoint(source string, line int, condition string) Option {
	return func(cfg *config) {
		cfg.breakpoints = append(cfg.breakpoints, breakpoint{source, line, condition})
	}
}

// WithHandler sets the error handler Run passes to the protected call,
// which disables pausing on uncaught errors.
func WithHandler(handler debugger.Handler) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}
