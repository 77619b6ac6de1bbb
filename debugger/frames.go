package debugger

import (
	"fmt"

	"github.com/risor-io/risordbg/object"
	"github.com/risor-io/risordbg/vm"
)

// Binding is a variable name and the value it held when the frame was
// captured.
type Binding struct {
	Name  string
	Value object.Object
}

// StackFrame is a snapshot of one frame on the call stack, taken when the
// program paused. Values are shared with the running program, not copied.
type StackFrame struct {
	// Level is the position on the stack, 0 being the innermost frame.
	Level int

	Source   string
	Line     int
	Function string

	// Locals are the variables of the frame in declaration order. A
	// variable declared in a nested block replaces one with the same name
	// from an outer block.
	Locals []Binding

	// Upvalues are variables captured from enclosing functions, nearest
	// first.
	Upvalues []Binding

	// Varargs holds the arguments collected by a rest parameter.
	Varargs []object.Object

	frame *vm.Frame
}

// Location returns "source:line".
func (f *StackFrame) Location() string {
	return fmt.Sprintf("%s:%d", f.Source, f.Line)
}

// Lookup returns the value of a local or upvalue by name.
func (f *StackFrame) Lookup(name string) (object.Object, bool) {
	for _, b := range f.Locals {
		if b.Name == name {
			return b.Value, true
		}
	}
	for _, b := range f.Upvalues {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

func newStackFrame(level int, fr *vm.Frame) *StackFrame {
	sf := &StackFrame{
		Level:    level,
		Source:   fr.Source(),
		Line:     fr.Line(),
		Function: fr.Name(),
		Varargs:  append([]object.Object(nil), fr.Varargs()...),
		frame:    fr,
	}

	// Block scopes between the innermost scope and the function scope,
	// collected innermost first and then replayed outermost first.
	var blocks []*object.Scope
	for s := fr.Scope(); s != nil; s = s.Parent() {
		blocks = append(blocks, s)
		if s == fr.FunctionScope() {
			break
		}
	}
	index := map[string]int{}
	for i := len(blocks) - 1; i >= 0; i-- {
		for _, name := range blocks[i].Names() {
			cell, _ := blocks[i].LookupLocal(name)
			if at, ok := index[name]; ok {
				sf.Locals[at].Value = cell.Value()
				continue
			}
			index[name] = len(sf.Locals)
			sf.Locals = append(sf.Locals, Binding{Name: name, Value: cell.Value()})
		}
	}

	seen := map[string]bool{}
	for s := fr.FunctionScope().Parent(); s != nil && !s.IsGlobal(); s = s.Parent() {
		for _, name := range s.Names() {
			if _, local := index[name]; local || seen[name] {
				continue
			}
			seen[name] = true
			cell, _ := s.LookupLocal(name)
			sf.Upvalues = append(sf.Upvalues, Binding{Name: name, Value: cell.Value()})
		}
	}
	return sf
}

// Navigator holds the call stack captured at a pause and the frame selected
// for inspection. It is not refreshed while paused: changes made by
// evaluated code show up at the next pause.
type Navigator struct {
	frames  []*StackFrame
	current int
}

// Snapshot captures the visible frames of the VM, innermost first.
// Frames running debugger evaluations are left out.
func Snapshot(machine *vm.VirtualMachine) *Navigator {
	nav := &Navigator{}
	frames := machine.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].IsHidden() {
			continue
		}
		nav.frames = append(nav.frames, newStackFrame(len(nav.frames), frames[i]))
	}
	return nav
}

// Len returns the number of frames.
func (n *Navigator) Len() int {
	return len(n.frames)
}

// Frames returns all frames, innermost first.
func (n *Navigator) Frames() []*StackFrame {
	return n.frames
}

// Frame returns the frame at index.
func (n *Navigator) Frame(index int) (*StackFrame, error) {
	if index < 0 || index >= len(n.frames) {
		return nil, fmt.Errorf("%w: %d (stack has %d frames)", ErrInvalidFrame, index, len(n.frames))
	}
	return n.frames[index], nil
}

// Select makes the frame at index the current frame.
func (n *Navigator) Select(index int) (*StackFrame, error) {
	fr, err := n.Frame(index)
	if err != nil {
		return nil, err
	}
	n.current = index
	return fr, nil
}

// Current returns the selected frame, or nil when the stack is empty.
func (n *Navigator) Current() *StackFrame {
	if len(n.frames) == 0 {
		return nil
	}
	return n.frames[n.current]
}

// CurrentIndex returns the index of the selected frame.
func (n *Navigator) CurrentIndex() int {
	return n.current
}

// Up selects the frame count levels toward the outermost frame.
func (n *Navigator) Up(count int) (*StackFrame, error) {
	return n.Select(n.current + count)
}

// Down selects the frame count levels toward the innermost frame.
func (n *Navigator) Down(count int) (*StackFrame, error) {
	return n.Select(n.current - count)
}
