package ssa

// Scope maps variable names to their storage slots (Alloca values).
//
// Nested bindings (for, var) shadow outer ones through an undo log:
// Bind records what it replaced, and Unwind restores entries in
// reverse order back to a Mark.
type Scope struct {
	vars map[string]*Value
	log  []scopeEntry
}

type scopeEntry struct {
	name string
	prev *Value // nil if the name was unbound
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]*Value)}
}

// Lookup returns the slot bound to name.
func (s *Scope) Lookup(name string) (*Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Bind binds name to slot, shadowing any previous binding until Unwind.
func (s *Scope) Bind(name string, slot *Value) {
	s.log = append(s.log, scopeEntry{name: name, prev: s.vars[name]})
	s.vars[name] = slot
}

// Mark returns a position in the undo log for a later Unwind.
func (s *Scope) Mark() int {
	return len(s.log)
}

// Unwind undoes every Bind made since mark, most recent first.
func (s *Scope) Unwind(mark int) {
	for i := len(s.log) - 1; i >= mark; i-- {
		e := s.log[i]
		if e.prev != nil {
			s.vars[e.name] = e.prev
		} else {
			delete(s.vars, e.name)
		}
	}
	s.log = s.log[:mark]
}

// Reset removes every binding. Called at the start of each function.
func (s *Scope) Reset() {
	clear(s.vars)
	s.log = s.log[:0]
}

// Len returns the number of visible names.
func (s *Scope) Len() int {
	return len(s.vars)
}
