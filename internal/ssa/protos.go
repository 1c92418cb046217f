package ssa

import (
	"sort"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// Registry remembers every prototype seen in a session, so a function can
// be called after the module that defined it has been handed off.
// A later prototype of the same name overwrites the earlier one.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	protos map[string]*syntax.Prototype
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{protos: make(map[string]*syntax.Prototype)}
}

// Lookup returns the prototype registered under name.
func (r *Registry) Lookup(name string) (*syntax.Prototype, bool) {
	p, ok := r.protos[name]
	return p, ok
}

// Register records p under its name. The returned func restores
// the previous entry (or its absence).
func (r *Registry) Register(p *syntax.Prototype) (undo func()) {
	old, had := r.protos[p.Name]

	r.protos[p.Name] = p

	return func() {
		if had {
			r.protos[p.Name] = old
		} else {
			delete(r.protos, p.Name)
		}
	}
}

// Len returns the number of registered prototypes.
func (r *Registry) Len() int {
	return len(r.protos)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.protos))
	for name := range r.protos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
