package debugger

import (
	"context"
	"runtime/debug"

	"github.com/risor-io/risordbg/vm"
)

// hook receives execution events from the VM and decides when to pause.
type hook struct {
	s *Session
}

var _ vm.Observer = (*hook)(nil)

func (h *hook) Config() vm.ObserverConfig {
	return vm.NewObserverConfig()
}

func (h *hook) OnLine(ctx context.Context, event vm.LineEvent) (err error) {
	defer recoverInternal(&err)
	s := h.s
	if s.suppress > 0 || s.State() == StateTerminated {
		return nil
	}

	if _, ok := s.breakpoints.Lookup(event.Source, event.Line); ok {
		var frame *StackFrame
		if nav := Snapshot(event.VM); nav.Len() > 0 {
			frame = nav.Current()
		}
		var (
			bp      *Breakpoint
			matched bool
			condErr error
		)
		s.suppressed(func() {
			bp, matched, condErr = s.breakpoints.Matches(ctx, event.Source, event.Line, frame)
		})
		if condErr != nil {
			s.log.Warn().Err(condErr).Str("source", event.Source).Int("line", event.Line).Msg("breakpoint condition failed")
			s.out.errorf("%v", condErr)
		}
		if matched {
			return s.pause(ctx, &pauseContext{reason: ReasonBreakpoint, breakpoint: bp})
		}
	}

	s.mu.Lock()
	mode, depth := s.stepMode, s.stepDepth
	s.mu.Unlock()
	switch {
	case mode == StepInto,
		mode == StepOver && event.Depth <= depth,
		mode == StepOut && event.Depth < depth:
		return s.pause(ctx, &pauseContext{reason: ReasonStep})
	}
	return nil
}

func (h *hook) OnCall(ctx context.Context, event vm.CallEvent) error {
	h.s.log.Trace().
		Str("function", event.FunctionName).
		Int("args", event.ArgCount).
		Int("depth", event.Depth).
		Msg("call")
	return nil
}

func (h *hook) OnReturn(ctx context.Context, event vm.ReturnEvent) error {
	h.s.log.Trace().
		Str("function", event.FunctionName).
		Int("depth", event.Depth).
		AnErr("error", event.Err).
		Msg("return")
	return nil
}

func (h *hook) OnError(ctx context.Context, event vm.ErrorEvent) (err error) {
	defer recoverInternal(&err)
	s := h.s
	if s.suppress > 0 || s.State() == StateTerminated {
		return nil
	}
	if pc := s.top(); pc != nil && pc.evaluating {
		if !s.cfg.BreakOnEvalError {
			return nil
		}
		return s.pause(ctx, &pauseContext{
			reason: ReasonEvalError,
			err:    &EvalError{Input: s.vm.SourceLine(EvalSource, 1), Err: event.Err},
		})
	}
	if !s.autoAttach {
		return nil
	}
	return s.pause(ctx, &pauseContext{reason: ReasonError, err: &UserProgramError{Err: event.Err}})
}

// recoverInternal turns a panic inside the debugger into an error that
// halts the program instead of crashing the host.
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = newInternalError(r)
	}
}

func newInternalError(r any) *DebuggerInternalError {
	return &DebuggerInternalError{Value: r, Stack: debug.Stack()}
}
