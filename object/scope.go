package object

// Scope is one level of the lexical scope chain. Blocks open plain scopes;
// each function activation opens a function scope, which marks the boundary
// between a frame's locals and the variables it captured from enclosing
// functions. The scope with no parent holds the globals.
type Scope struct {
	parent   *Scope
	names    []string
	cells    map[string]*Cell
	function bool
}

func NewScope(parent *Scope, function bool) *Scope {
	return &Scope{parent: parent, cells: map[string]*Cell{}, function: function}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsFunction reports whether this scope is the outermost scope of a function
// activation.
func (s *Scope) IsFunction() bool {
	return s.function
}

// IsGlobal reports whether this is the root scope.
func (s *Scope) IsGlobal() bool {
	return s.parent == nil
}

// Declare binds name in this scope. Redeclaring a name in the same scope
// replaces the binding.
func (s *Scope) Declare(name string, value Object, constant bool) *Cell {
	cell := NewCell(value, constant)
	if _, exists := s.cells[name]; !exists {
		s.names = append(s.names, name)
	}
	s.cells[name] = cell
	return cell
}

// Bind attaches an existing cell to name in this scope.
func (s *Scope) Bind(name string, cell *Cell) {
	if _, exists := s.cells[name]; !exists {
		s.names = append(s.names, name)
	}
	s.cells[name] = cell
}

// Lookup resolves name through the scope chain, nearest scope first.
func (s *Scope) Lookup(name string) (*Cell, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if cell, ok := scope.cells[name]; ok {
			return cell, true
		}
	}
	return nil, false
}

// LookupLocal resolves name in this scope only.
func (s *Scope) LookupLocal(name string) (*Cell, bool) {
	cell, ok := s.cells[name]
	return cell, ok
}

// Names returns the names declared in this scope in declaration order.
func (s *Scope) Names() []string {
	return s.names
}

// VisibleNames returns every name reachable from this scope, nearest first,
// without duplicates.
func (s *Scope) VisibleNames() []string {
	seen := map[string]bool{}
	var names []string
	for scope := s; scope != nil; scope = scope.parent {
		for _, name := range scope.names {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
