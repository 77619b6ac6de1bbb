package debugger

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sync"

	"go.uber.org/atomic"
)

// Breakpoint pauses the program when execution reaches a source line and its
// condition, if any, is truthy.
type Breakpoint struct {
	// ID is a unique identifier for this breakpoint.
	ID int

	// Source is the name of the source the breakpoint is set in.
	Source string

	// Line is the line number (1-based).
	Line int

	// Condition is an expression evaluated in the paused frame. An empty
	// condition always matches.
	Condition string

	// HitCount is the number of pauses caused by this breakpoint.
	HitCount int
}

// Location returns the breakpoint location as "source:line".
func (b *Breakpoint) Location() string {
	return fmt.Sprintf("%s:%d", b.Source, b.Line)
}

func (b *Breakpoint) String() string {
	s := fmt.Sprintf("#%d %s", b.ID, b.Location())
	if b.Condition != "" {
		s += " if " + b.Condition
	}
	return fmt.Sprintf("%s (hits %d)", s, b.HitCount)
}

type location struct {
	source string
	line   int
}

// Registry stores breakpoints by location.
type Registry struct {
	mu     sync.RWMutex
	byLoc  map[location]*Breakpoint
	order  []*Breakpoint
	nextID atomic.Int64
	eval   *Evaluator
}

// NewRegistry creates an empty registry whose conditions are evaluated with
// ev.
func NewRegistry(ev *Evaluator) *Registry {
	return &Registry{byLoc: map[location]*Breakpoint{}, eval: ev}
}

// Add sets a breakpoint. If one already exists at the location, its
// condition is replaced and ErrDuplicateBreakpoint is returned along with
// the updated breakpoint.
//
// Ids are drawn before the write lock is taken. An id is only skipped when
// another caller sets a breakpoint at the same location concurrently.
func (r *Registry) Add(source string, line int, condition string) (*Breakpoint, error) {
	if line < 1 {
		return nil, fmt.Errorf("invalid breakpoint line %d", line)
	}
	key := location{source, line}

	var id int64
	r.mu.RLock()
	_, exists := r.byLoc[key]
	r.mu.RUnlock()
	if !exists {
		id = r.nextID.Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if bp, ok := r.byLoc[key]; ok {
		bp.Condition = condition
		return bp, fmt.Errorf("%w at %s", ErrDuplicateBreakpoint, bp.Location())
	}
	if id == 0 {
		id = r.nextID.Inc()
	}
	bp := &Breakpoint{
		ID:        int(id),
		Source:    source,
		Line:      line,
		Condition: condition,
	}
	r.byLoc[key] = bp
	r.order = append(r.order, bp)
	return bp, nil
}

// Remove deletes the breakpoint at a location.
func (r *Registry) Remove(source string, line int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := location{source, line}
	bp, ok := r.byLoc[key]
	if !ok {
		return fmt.Errorf("breakpoint at %s:%d: %w", source, line, ErrNotFound)
	}
	delete(r.byLoc, key)
	for i, b := range r.order {
		if b == bp {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lookup returns the breakpoint at a location. A breakpoint set on the base
// name of a source also matches the full source name.
func (r *Registry) Lookup(source string, line int) (*Breakpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if bp, ok := r.byLoc[location{source, line}]; ok {
		return bp, true
	}
	if base := filepath.Base(source); base != source {
		bp, ok := r.byLoc[location{base, line}]
		return bp, ok
	}
	return nil, false
}

// List returns the breakpoints in the order they were added.
func (r *Registry) List() iter.Seq[*Breakpoint] {
	return func(yield func(*Breakpoint) bool) {
		r.mu.RLock()
		snapshot := append([]*Breakpoint(nil), r.order...)
		r.mu.RUnlock()
		for _, bp := range snapshot {
			if !yield(bp) {
				return
			}
		}
	}
}

// Len returns the number of breakpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear removes every breakpoint.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLoc = map[location]*Breakpoint{}
	r.order = nil
}

// Matches reports whether execution at a location should pause because of
// a breakpoint. The condition is evaluated in frame; if that fails the error
// is returned and the breakpoint does not match. A match counts as a hit.
func (r *Registry) Matches(ctx context.Context, source string, line int, frame *StackFrame) (*Breakpoint, bool, error) {
	bp, ok := r.Lookup(source, line)
	if !ok {
		return nil, false, nil
	}
	if bp.Condition != "" {
		truthy, err := r.eval.Truthy(ctx, bp.Condition, frame)
		if err != nil {
			return bp, false, fmt.Errorf("breakpoint %s condition: %w", bp.Location(), err)
		}
		if !truthy {
			return bp, false, nil
		}
	}
	r.mu.Lock()
	bp.HitCount++
	r.mu.Unlock()
	return bp, true, nil
}
