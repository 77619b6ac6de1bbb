package debugger

import (
	"context"
	"errors"

	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
)

// MultRet asks PCall for every result.
const MultRet = -1

// Handler receives an error raised by the program in a protected call. Its
// return value becomes the error of the call.
type Handler func(err error) error

// PCall calls fn with args while the session observes the VM. With a nil
// handler, an uncaught error pauses the program at the point it was raised
// before it is returned. A non-nil handler disables that pause and decides
// the error returned instead.
//
// Results are padded with nil or truncated to nresults unless nresults is
// MultRet. Program errors are returned as *UserProgramError. ErrQuit is
// returned when the user quits the debugger.
func (s *Session) PCall(ctx context.Context, fn object.Object, args []object.Object, nresults int, handler Handler) ([]object.Object, error) {
	if s.Depth() == 0 {
		s.setState(StateRunning)
		s.setStep(StepNone, 0)
	}
	prevAuto := s.autoAttach
	s.autoAttach = handler == nil
	wasAttached := s.attached
	s.Attach()
	defer func() {
		s.autoAttach = prevAuto
		if !wasAttached {
			s.Detach()
		}
	}()

	result, err := s.vm.Call(ctx, fn, args)
	if err != nil {
		return adjust(nil, nresults), s.callError(err, handler)
	}
	return adjust(results(result), nresults), nil
}

func (s *Session) callError(err error, handler Handler) error {
	var internal *DebuggerInternalError
	switch {
	case errors.Is(err, ErrQuit),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &internal):
		return err
	}
	var serr *errz.StructuredError
	if errors.As(err, &serr) {
		err = &UserProgramError{Err: serr}
	}
	if handler != nil {
		return handler(err)
	}
	s.log.Debug().Err(err).Msg("protected call failed")
	return err
}

// results returns the values of a completed call. Functions return at
// most one value.
func results(value object.Object) []object.Object {
	if value == nil {
		return nil
	}
	return []object.Object{value}
}

func adjust(values []object.Object, n int) []object.Object {
	if n < 0 {
		return values
	}
	if len(values) >= n {
		return values[:n]
	}
	out := make([]object.Object, n)
	copy(out, values)
	for i := len(values); i < n; i++ {
		out[i] = object.Nil
	}
	return out
}
