package object

import "fmt"

// Opaque wraps a Go value that has no script-level representation. The
// debugger shows its Go type but never looks inside.
type Opaque struct {
	*base
	value interface{}
}

func NewOpaque(value interface{}) *Opaque {
	return &Opaque{value: value}
}

func (o *Opaque) Type() Type {
	return OPAQUE
}

func (o *Opaque) Value() interface{} {
	return o.value
}

func (o *Opaque) Inspect() string {
	return fmt.Sprintf("opaque(%T)", o.value)
}

func (o *Opaque) String() string {
	return o.Inspect()
}

func (o *Opaque) Interface() interface{} {
	return o.value
}

func (o *Opaque) Equals(other Object) bool {
	otherOpaque, ok := other.(*Opaque)
	return ok && o == otherOpaque
}
