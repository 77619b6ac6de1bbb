package object

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risordbg/errz"
)

// List is an ordered, mutable sequence. Lists are reference values and may
// contain themselves.
type List struct {
	*base
	items []Object
}

func NewList(items []Object) *List {
	return &List{items: items}
}

func (ls *List) Type() Type {
	return LIST
}

func (ls *List) Value() []Object {
	return ls.items
}

// Inspect renders the list one level deep. Nested composite values are
// summarized so that cyclic lists can not recurse; use the pretty package
// for full structural output.
func (ls *List) Inspect() string {
	items := make([]string, 0, len(ls.items))
	for _, item := range ls.items {
		items = append(items, shallowInspect(item))
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (ls *List) String() string {
	return ls.Inspect()
}

func (ls *List) Interface() interface{} {
	items := make([]interface{}, 0, len(ls.items))
	for _, item := range ls.items {
		if KindOf(item) == KindComposite {
			items = append(items, item)
			continue
		}
		items = append(items, item.Interface())
	}
	return items
}

// Equals reports reference identity. Structural comparison of possibly
// cyclic values is never attempted.
func (ls *List) Equals(other Object) bool {
	otherList, ok := other.(*List)
	return ok && ls == otherList
}

func (ls *List) IsTruthy() bool {
	return len(ls.items) > 0
}

func (ls *List) GetAttr(name string) (Object, bool) {
	switch name {
	case "append":
		return NewBuiltin("list.append", func(ctx context.Context, args ...Object) (Object, error) {
			for _, arg := range args {
				ls.Append(arg)
			}
			return ls, nil
		}), true
	case "pop":
		return NewBuiltin("list.pop", func(ctx context.Context, args ...Object) (Object, error) {
			if len(args) != 0 {
				return nil, errz.ArgsErrorf("list.pop() takes no arguments (%d given)", len(args))
			}
			return ls.Pop()
		}), true
	case "copy":
		return NewBuiltin("list.copy", func(ctx context.Context, args ...Object) (Object, error) {
			return ls.Copy(), nil
		}), true
	}
	return nil, false
}

func (ls *List) Append(obj Object) {
	ls.items = append(ls.items, obj)
}

func (ls *List) Pop() (Object, error) {
	if len(ls.items) == 0 {
		return nil, errz.ValueErrorf("pop from empty list")
	}
	last := ls.items[len(ls.items)-1]
	ls.items = ls.items[:len(ls.items)-1]
	return last, nil
}

func (ls *List) Copy() *List {
	items := make([]Object, len(ls.items))
	copy(items, ls.items)
	return NewList(items)
}

func (ls *List) Len() int {
	return len(ls.items)
}

func (ls *List) GetItem(key Object) (Object, error) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, errz.TypeErrorf("list index must be an int (got %s)", key.Type())
	}
	i, err := normalizeIndex(idx.value, len(ls.items))
	if err != nil {
		return nil, err
	}
	return ls.items[i], nil
}

func (ls *List) SetItem(key, value Object) error {
	idx, ok := key.(*Int)
	if !ok {
		return errz.TypeErrorf("list index must be an int (got %s)", key.Type())
	}
	i, err := normalizeIndex(idx.value, len(ls.items))
	if err != nil {
		return err
	}
	ls.items[i] = value
	return nil
}

func (ls *List) Enumerate(fn func(key, value Object) bool) {
	for i, item := range ls.items {
		if !fn(NewInt(int64(i)), item) {
			return
		}
	}
}

func shallowInspect(obj Object) string {
	switch obj := obj.(type) {
	case *List:
		return fmt.Sprintf("list(len=%d)", len(obj.items))
	case *Map:
		return fmt.Sprintf("map(len=%d)", len(obj.items))
	case nil:
		return "nil"
	}
	return obj.Inspect()
}
