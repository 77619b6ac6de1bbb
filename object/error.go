package object

import (
	"errors"

	"github.com/risor-io/risordbg/errz"
)

// Error is a caught error held as a value, e.g. the second element of the
// list returned by pcall.
type Error struct {
	*base
	err error
}

func NewError(err error) *Error {
	return &Error{err: err}
}

func (e *Error) Type() Type {
	return ERROR
}

func (e *Error) Value() error {
	return e.err
}

func (e *Error) Message() string {
	return e.err.Error()
}

func (e *Error) Inspect() string {
	return "error(" + e.err.Error() + ")"
}

func (e *Error) String() string {
	return e.err.Error()
}

func (e *Error) Interface() interface{} {
	return e.err
}

func (e *Error) Equals(other Object) bool {
	otherErr, ok := other.(*Error)
	return ok && e.err.Error() == otherErr.err.Error()
}

// GetAttr exposes the message and, for errors raised with error(v), the
// raised value.
func (e *Error) GetAttr(name string) (Object, bool) {
	switch name {
	case "message":
		return NewString(e.err.Error()), true
	case "value":
		var serr *errz.StructuredError
		if errors.As(e.err, &serr) {
			if value, ok := serr.Value.(Object); ok {
				return value, true
			}
		}
		return Nil, true
	}
	return nil, false
}
