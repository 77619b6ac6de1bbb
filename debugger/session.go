// Package debugger implements an interactive debugger for programs run by
// the vm package.
//
// A Session attaches to a VirtualMachine as its observer. When a breakpoint
// matches, a step completes, the program calls the debugger module, or an
// uncaught error is raised, the session pauses the program and runs a
// command loop on the same goroutine. The loop reads commands through a
// ReadFunc and writes results through a WriteFunc, so any transport can
// drive it. The program resumes when the loop returns.
//
// Code entered at the prompt runs in the scope of the selected frame. If
// that code itself pauses, for example by calling a function with a
// breakpoint, a nested pause is opened on top of the current one; quitting
// it aborts only the evaluation.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/risor-io/risordbg/vm"
)

// State is the execution state of a session.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// StepMode controls where a resumed program pauses next.
type StepMode int

const (
	// StepNone runs until a breakpoint or error.
	StepNone StepMode = iota

	// StepInto pauses at the next line in any frame.
	StepInto

	// StepOver pauses at the next line at the same or a shallower depth.
	StepOver

	// StepOut pauses at the next line after the current frame returns.
	StepOut
)

func (m StepMode) String() string {
	switch m {
	case StepNone:
		return "none"
	case StepInto:
		return "into"
	case StepOver:
		return "over"
	case StepOut:
		return "out"
	}
	return "unknown"
}

// PauseReason tells why the program paused.
type PauseReason int

const (
	ReasonBreakpoint PauseReason = iota
	ReasonStep
	ReasonExplicit
	ReasonError
	ReasonEvalError
)

func (r PauseReason) String() string {
	switch r {
	case ReasonBreakpoint:
		return "breakpoint"
	case ReasonStep:
		return "step"
	case ReasonExplicit:
		return "pause"
	case ReasonError:
		return "error"
	case ReasonEvalError:
		return "eval error"
	}
	return "unknown"
}

// Watch is an expression printed at every pause.
type Watch struct {
	ID   int
	Expr string
}

// pauseContext is one level of the pause stack.
type pauseContext struct {
	nav        *Navigator
	reason     PauseReason
	breakpoint *Breakpoint
	err        error
	evaluating bool
}

// Session is a debugger attached to one VM.
type Session struct {
	id      uuid.UUID
	vm      *vm.VirtualMachine
	cfg     Config
	log     zerolog.Logger
	read    ReadFunc
	write   WriteFunc
	metrics *Metrics
	out     *output

	breakpoints *Registry
	eval        *Evaluator
	hook        *hook

	mu        sync.Mutex
	state     State
	stepMode  StepMode
	stepDepth int
	pauses    []*pauseContext
	watches   []*Watch
	nextWatch int

	// suppress is positive while the session evaluates breakpoint
	// conditions and watches, which must never pause.
	suppress   int
	autoAttach bool
	lastInput  string
	previous   vm.Observer
	attached   bool
}

// New creates a session for a VM. The session does not observe the VM until
// Attach or PCall is called.
func New(machine *vm.VirtualMachine, opts ...Option) *Session {
	s := &Session{
		vm:    machine,
		cfg:   DefaultConfig(),
		log:   zerolog.Nop(),
		read:  StdinRead(),
		write: StdoutWrite(),
	}
	s.cfg.Color = IsTerminal()
	for _, opt := range opts {
		opt(s)
	}
	if id, err := uuid.NewV4(); err == nil {
		s.id = id
	}
	s.log = s.log.With().Str("session", s.id.String()).Logger()
	s.eval = NewEvaluator(machine)
	s.breakpoints = NewRegistry(s.eval)
	s.hook = &hook{s: s}
	s.out = newOutput(s.write, s.cfg.Color)
	return s
}

// ID returns the unique id of the session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// VM returns the VM being debugged.
func (s *Session) VM() *vm.VirtualMachine {
	return s.vm
}

// Config returns the session settings.
func (s *Session) Config() Config {
	return s.cfg
}

// Breakpoints returns the breakpoint registry.
func (s *Session) Breakpoints() *Registry {
	return s.breakpoints
}

// Evaluator returns the evaluator used for commands.
func (s *Session) Evaluator() *Evaluator {
	return s.eval
}

// State returns the execution state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// StepMode returns the active step mode.
func (s *Session) StepMode() StepMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepMode
}

func (s *Session) setStep(mode StepMode, depth int) {
	s.mu.Lock()
	s.stepMode = mode
	s.stepDepth = depth
	s.mu.Unlock()
}

// Depth returns the number of nested pauses in progress.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pauses)
}

// Navigator returns the frames of the innermost pause, or nil when the
// program is not paused.
func (s *Session) Navigator() *Navigator {
	if pc := s.top(); pc != nil {
		return pc.nav
	}
	return nil
}

func (s *Session) top() *pauseContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pauses) == 0 {
		return nil
	}
	return s.pauses[len(s.pauses)-1]
}

// Attach makes the session the VM's observer. The previous observer is
// restored by Detach.
func (s *Session) Attach() {
	if s.attached {
		return
	}
	s.previous = s.vm.Observer()
	s.vm.SetObserver(s.hook)
	s.attached = true
	s.log.Debug().Msg("attached")
}

// Detach stops observing the VM.
func (s *Session) Detach() {
	if !s.attached {
		return
	}
	s.vm.SetObserver(s.previous)
	s.previous = nil
	s.attached = false
	s.log.Debug().Msg("detached")
}

// Attached reports whether the session observes the VM.
func (s *Session) Attached() bool {
	return s.attached
}

// AddWatch adds an expression printed at every pause.
func (s *Session) AddWatch(expr string) *Watch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWatch++
	w := &Watch{ID: s.nextWatch, Expr: expr}
	s.watches = append(s.watches, w)
	return w
}

// RemoveWatch deletes a watch by id.
func (s *Session) RemoveWatch(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.watches {
		if w.ID == id {
			s.watches = append(s.watches[:i], s.watches[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("watch %d: %w", id, ErrNotFound)
}

// Watches returns the watch expressions in the order they were added.
func (s *Session) Watches() []*Watch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Watch(nil), s.watches...)
}

// Pause stops the program at the current line and runs the command loop.
// It returns ErrQuit if the user quits. Calls made while the session
// evaluates breakpoint conditions or watches do not pause.
func (s *Session) Pause(ctx context.Context) error {
	if s.suppress > 0 || s.State() == StateTerminated {
		return nil
	}
	return s.pause(ctx, &pauseContext{reason: ReasonExplicit})
}

// pause runs the command loop until the user resumes or quits. A panic
// inside the debugger ends the pause with a *DebuggerInternalError.
func (s *Session) pause(ctx context.Context, pc *pauseContext) (err error) {
	s.mu.Lock()
	s.pauses = append(s.pauses, pc)
	nesting := len(s.pauses)
	s.state = StatePaused
	s.stepMode = StepNone
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = newInternalError(r)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pauses = s.pauses[:len(s.pauses)-1]
		switch {
		case err != nil && len(s.pauses) == 0:
			s.state = StateTerminated
		case len(s.pauses) > 0:
			s.state = StatePaused
		default:
			s.state = StateRunning
		}
	}()

	pc.nav = Snapshot(s.vm)
	s.metrics.recordPause(pc.reason)
	event := s.log.Info().Str("reason", pc.reason.String()).Int("nesting", nesting)
	if fr := pc.nav.Current(); fr != nil {
		event = event.Str("source", fr.Source).Int("line", fr.Line).Int("depth", pc.nav.Len())
	}
	event.Msg("paused")

	s.printPause(ctx, pc)
	return s.loop(ctx, pc)
}

// loop reads and runs commands. It returns nil when the program should
// resume and ErrQuit when the user quits.
func (s *Session) loop(ctx context.Context, pc *pauseContext) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, err := s.read(s.cfg.Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.resume(pc, Command{Kind: CmdContinue})
				return nil
			}
			return fmt.Errorf("debugger: read command: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			if s.lastInput == "" {
				continue
			}
			input = s.lastInput
		}
		s.lastInput = input

		cmd, err := ParseCommand(input)
		if err != nil {
			s.out.errorf("%v", err)
			continue
		}
		s.metrics.recordCommand(cmd.Kind)
		s.log.Debug().Str("command", cmd.Kind.String()).Msg("command")

		if cmd.Kind == CmdQuit {
			s.log.Info().Int("nesting", s.Depth()).Msg("quit")
			return ErrQuit
		}
		if cmd.Kind.Resumes() {
			s.resume(pc, cmd)
			return nil
		}
		if err := s.execute(ctx, pc, cmd); err != nil {
			switch {
			case errors.Is(err, ErrQuit):
				s.out.println("evaluation aborted")
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				var internal *DebuggerInternalError
				if errors.As(err, &internal) {
					s.log.Error().Err(err).Bytes("stack", internal.Stack).Msg("internal error")
				}
				s.out.errorf("%v", err)
			}
		}
	}
}

// resume sets the step mode for a resuming command.
func (s *Session) resume(pc *pauseContext, cmd Command) {
	depth := pc.nav.Len()
	switch cmd.Kind {
	case CmdStep:
		s.setStep(StepInto, depth)
	case CmdNext:
		s.setStep(StepOver, depth)
	case CmdFinish:
		s.setStep(StepOut, depth)
	default:
		s.setStep(StepNone, 0)
	}
	s.log.Info().Str("command", cmd.Kind.String()).Msg("resumed")
}

// evaluating runs fn, which evaluates user code, with stepping disabled.
// Errors raised inside fn open a nested pause only with BreakOnEvalError.
func (s *Session) evaluating(pc *pauseContext, fn func() error) error {
	pc.evaluating = true
	s.setStep(StepNone, 0)
	defer func() {
		pc.evaluating = false
		s.setStep(StepNone, 0)
		s.setState(StatePaused)
	}()
	err := fn()
	var compileErr *CompileError
	var evalErr *EvalError
	if errors.As(err, &compileErr) || errors.As(err, &evalErr) {
		s.metrics.recordEvalError()
	}
	return err
}

// suppressed runs fn with every event ignored.
func (s *Session) suppressed(fn func()) {
	s.suppress++
	defer func() { s.suppress-- }()
	fn()
}

// selected returns the frame chosen with up, down or frame.
func (pc *pauseContext) selected() *StackFrame {
	return pc.nav.Current()
}
