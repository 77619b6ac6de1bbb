package debugger

import (
	"context"
	"errors"
	"io"

	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
	"github.com/risor-io/risordbg/pretty"
	"github.com/risor-io/risordbg/vm"
)

// Module returns the script-facing debugger module. Calling the module
// pauses the program, as does its pause function.
//
//	pause()          pause at the calling line
//	pretty(v)        format a value as indented text
//	pp(v)            print a value as indented text
//	json(v)          format a value as indented JSON
//	call(fn, ...)    call fn, pausing on an uncaught error; returns [ok, result]
func (s *Session) Module(name string) *object.Module {
	return object.NewBuiltinsModule(name, map[string]object.Object{
		"pause":  object.NewBuiltin("pause", s.pauseBuiltin),
		"pretty": object.NewBuiltin("pretty", s.prettyBuiltin),
		"pp":     object.NewBuiltin("pp", s.ppBuiltin),
		"json":   object.NewBuiltin("json", s.jsonBuiltin),
		"call":   object.NewBuiltin("call", s.callBuiltin),
	}, s.pauseBuiltin)
}

func (s *Session) pauseBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) > 0 {
		return nil, errz.ArgsErrorf("pause() takes 0 arguments (%d given)", len(args))
	}
	if err := s.Pause(ctx); err != nil {
		return nil, vm.Halt(err)
	}
	return object.Nil, nil
}

func (s *Session) indented() pretty.Options {
	opts := s.cfg.formatOptions()
	opts.Indent = "  "
	return opts
}

func (s *Session) prettyBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("pretty() takes 1 argument (%d given)", len(args))
	}
	return object.NewString(s.indented().Format(args[0])), nil
}

func (s *Session) ppBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("pp() takes 1 argument (%d given)", len(args))
	}
	if _, err := io.WriteString(object.GetStdout(ctx), s.indented().Format(args[0])+"\n"); err != nil {
		return nil, err
	}
	return object.Nil, nil
}

func (s *Session) jsonBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.ArgsErrorf("json() takes 1 argument (%d given)", len(args))
	}
	data, err := s.indented().JSON(args[0], false)
	if err != nil {
		return nil, err
	}
	return object.NewString(string(data)), nil
}

func (s *Session) callBuiltin(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 {
		return nil, errz.ArgsErrorf("call() takes at least 1 argument (0 given)")
	}
	values, err := s.PCall(ctx, args[0], args[1:], 1, nil)
	if err != nil {
		var internal *DebuggerInternalError
		if errors.Is(err, ErrQuit) || errors.As(err, &internal) || vm.IsHalt(err) {
			return nil, vm.Halt(err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, vm.Halt(err)
		}
		return object.NewList([]object.Object{object.False, object.NewError(err)}), nil
	}
	return object.NewList([]object.Object{object.True, values[0]}), nil
}
