package object

import (
	"context"
	"io"
	"os"
)

type contextKey string

// CallFunc is a type signature for a function that can call a script
// function.
type CallFunc func(ctx context.Context, fn *Function, args []Object) (Object, error)

// ProtectedCallFunc calls a callable and catches the errors it raises, the
// way a script-level pcall does. A caught error is reported through ok=false
// and result holding an *Error. A non-nil err is an error that must not be
// caught, such as a halt requested by an observer.
type ProtectedCallFunc func(ctx context.Context, fn Object, args []Object) (ok bool, result Object, err error)

////////////////////////////////////////////////////////////////////////////////

const (
	callFuncKey          = contextKey("risordbg:call")
	protectedCallFuncKey = contextKey("risordbg:pcall")
)

// WithCallFunc adds a CallFunc to the context, which can be used by
// objects to call a script function at runtime.
func WithCallFunc(ctx context.Context, fn CallFunc) context.Context {
	return context.WithValue(ctx, callFuncKey, fn)
}

// GetCallFunc returns the CallFunc from the context, if it exists.
func GetCallFunc(ctx context.Context) (CallFunc, bool) {
	if fn, ok := ctx.Value(callFuncKey).(CallFunc); ok {
		if fn != nil {
			return fn, ok
		}
	}
	return nil, false
}

// WithProtectedCallFunc adds a ProtectedCallFunc to the context.
func WithProtectedCallFunc(ctx context.Context, fn ProtectedCallFunc) context.Context {
	return context.WithValue(ctx, protectedCallFuncKey, fn)
}

// GetProtectedCallFunc returns the ProtectedCallFunc from the context, if it
// exists.
func GetProtectedCallFunc(ctx context.Context) (ProtectedCallFunc, bool) {
	if fn, ok := ctx.Value(protectedCallFuncKey).(ProtectedCallFunc); ok {
		if fn != nil {
			return fn, ok
		}
	}
	return nil, false
}

const stdoutKey = contextKey("risordbg:stdout")

// WithStdout adds the writer used by print to the context.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey, w)
}

// GetStdout returns the writer used by print, defaulting to os.Stdout.
func GetStdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey).(io.Writer); ok && w != nil {
		return w
	}
	return os.Stdout
}
