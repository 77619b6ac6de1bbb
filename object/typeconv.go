package object

import (
	"fmt"

	"github.com/risor-io/risordbg/errz"
)

// FromGoType converts a Go value into an Object. Values with no script
// representation are wrapped as *Opaque.
func FromGoType(value interface{}) Object {
	switch value := value.(type) {
	case nil:
		return Nil
	case Object:
		return value
	case bool:
		return NewBool(value)
	case int:
		return NewInt(int64(value))
	case int32:
		return NewInt(int64(value))
	case int64:
		return NewInt(value)
	case float32:
		return NewFloat(float64(value))
	case float64:
		return NewFloat(value)
	case string:
		return NewString(value)
	case error:
		return NewError(value)
	case []interface{}:
		items := make([]Object, 0, len(value))
		for _, item := range value {
			items = append(items, FromGoType(item))
		}
		return NewList(items)
	case []string:
		items := make([]Object, 0, len(value))
		for _, item := range value {
			items = append(items, NewString(item))
		}
		return NewList(items)
	case map[string]interface{}:
		items := make(map[string]Object, len(value))
		for k, v := range value {
			items[k] = FromGoType(v)
		}
		return NewMap(items)
	}
	return NewOpaque(value)
}

func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", errz.TypeErrorf("expected a string (%s given)", obj.Type())
	}
	return s.value, nil
}

func AsInt(obj Object) (int64, error) {
	i, ok := obj.(*Int)
	if !ok {
		return 0, errz.TypeErrorf("expected an int (%s given)", obj.Type())
	}
	return i.value, nil
}

// ToText renders a value the way print shows it: strings unquoted, other
// values through Inspect.
func ToText(obj Object) string {
	switch obj := obj.(type) {
	case nil:
		return "nil"
	case *String:
		return obj.value
	case fmt.Stringer:
		return obj.String()
	}
	return obj.Inspect()
}
