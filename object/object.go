// Package object provides the runtime value types of the debugger's host
// language.
//
// Values form a closed set of kinds. Callers often type switch on a value to
// reach its concrete type:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.List:
//		// do something with obj.Value()
//	}
//
// The Type() method of each object may also be used to get a string name of
// the object type, such as "string" or "list". Composite values (lists, maps
// and modules) have reference identity: two variables holding the same list
// see each other's mutations.
package object

import (
	"context"
	"sort"
)

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL     Type = "bool"
	BUILTIN  Type = "builtin"
	ERROR    Type = "error"
	FLOAT    Type = "float"
	FUNCTION Type = "function"
	INT      Type = "int"
	LIST     Type = "list"
	MAP      Type = "map"
	MODULE   Type = "module"
	NIL      Type = "nil"
	OPAQUE   Type = "opaque"
	STRING   Type = "string"
)

// Kind groups the types into the families the debugger cares about when it
// renders or compares values.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindCallable
	KindComposite
	KindOpaque
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// GetAttr returns the attribute with the given name from this object.
	GetAttr(name string) (Object, bool)

	// SetAttr sets the attribute with the given name on this object.
	SetAttr(name string, value Object) error

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool
}

// Callable is an interface for objects that can be invoked as functions.
// Builtins are called directly; functions defined in script code are run by
// the CallFunc stored in the context by the VM.
type Callable interface {
	Call(ctx context.Context, args ...Object) (Object, error)
}

// Container is implemented by values that hold other values and support
// the [key] operator.
type Container interface {
	// GetItem implements the [key] operator for a container type.
	GetItem(key Object) (Object, error)

	// SetItem implements the [key] = value operator for a container type.
	SetItem(key, value Object) error

	// Len returns the number of items in this container.
	Len() int

	// Enumerate calls fn for each key and value. Return false to stop.
	Enumerate(fn func(key, value Object) bool)
}

// KindOf returns the value family of obj.
func KindOf(obj Object) Kind {
	switch obj.(type) {
	case nil, *NilType:
		return KindNil
	case *Bool:
		return KindBool
	case *Int, *Float:
		return KindNumber
	case *String:
		return KindString
	case *Function, *Builtin:
		return KindCallable
	case *List, *Map, *Module:
		return KindComposite
	default:
		return KindOpaque
	}
}

// Keys returns the keys of an object map as a sorted slice of strings.
func Keys(m map[string]Object) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NewBool returns the shared True or False object.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}
