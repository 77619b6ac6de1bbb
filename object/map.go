package object

import (
	"context"
	"strconv"
	"strings"

	"github.com/risor-io/risordbg/errz"
)

// Map is a mutable, string-keyed table. Maps are reference values and may
// contain themselves.
type Map struct {
	*base
	items map[string]Object
}

func NewMap(items map[string]Object) *Map {
	if items == nil {
		items = map[string]Object{}
	}
	return &Map{items: items}
}

func (m *Map) Type() Type {
	return MAP
}

func (m *Map) Value() map[string]Object {
	return m.items
}

func (m *Map) Inspect() string {
	keys := m.SortedKeys()
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, strconv.Quote(k)+": "+shallowInspect(m.items[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (m *Map) String() string {
	return m.Inspect()
}

func (m *Map) Interface() interface{} {
	result := make(map[string]interface{}, len(m.items))
	for k, v := range m.items {
		if KindOf(v) == KindComposite {
			result[k] = v
			continue
		}
		result[k] = v.Interface()
	}
	return result
}

func (m *Map) Equals(other Object) bool {
	otherMap, ok := other.(*Map)
	return ok && m == otherMap
}

func (m *Map) IsTruthy() bool {
	return len(m.items) > 0
}

// GetAttr resolves a few methods first, then falls back to map entries so
// that m.key reads like m["key"].
func (m *Map) GetAttr(name string) (Object, bool) {
	switch name {
	case "keys":
		return NewBuiltin("map.keys", func(ctx context.Context, args ...Object) (Object, error) {
			return m.Keys(), nil
		}), true
	case "get":
		return NewBuiltin("map.get", func(ctx context.Context, args ...Object) (Object, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, errz.ArgsErrorf("map.get() takes 1 or 2 arguments (%d given)", len(args))
			}
			key, ok := args[0].(*String)
			if !ok {
				return nil, errz.TypeErrorf("map key must be a string (got %s)", args[0].Type())
			}
			if value, found := m.items[key.value]; found {
				return value, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return Nil, nil
		}), true
	}
	value, ok := m.items[name]
	return value, ok
}

func (m *Map) SetAttr(name string, value Object) error {
	m.items[name] = value
	return nil
}

func (m *Map) Get(key string) (Object, bool) {
	value, ok := m.items[key]
	return value, ok
}

func (m *Map) Set(key string, value Object) {
	m.items[key] = value
}

func (m *Map) Delete(key string) {
	delete(m.items, key)
}

func (m *Map) SortedKeys() []string {
	return Keys(m.items)
}

func (m *Map) Keys() *List {
	keys := m.SortedKeys()
	items := make([]Object, 0, len(keys))
	for _, k := range keys {
		items = append(items, NewString(k))
	}
	return NewList(items)
}

func (m *Map) Len() int {
	return len(m.items)
}

func (m *Map) GetItem(key Object) (Object, error) {
	k, ok := key.(*String)
	if !ok {
		return nil, errz.TypeErrorf("map key must be a string (got %s)", key.Type())
	}
	value, found := m.items[k.value]
	if !found {
		return nil, errz.ValueErrorf("key not found: %q", k.value)
	}
	return value, nil
}

func (m *Map) SetItem(key, value Object) error {
	k, ok := key.(*String)
	if !ok {
		return errz.TypeErrorf("map key must be a string (got %s)", key.Type())
	}
	m.items[k.value] = value
	return nil
}

// Enumerate visits entries in sorted key order.
func (m *Map) Enumerate(fn func(key, value Object) bool) {
	for _, k := range m.SortedKeys() {
		if !fn(NewString(k), m.items[k]) {
			return
		}
	}
}
