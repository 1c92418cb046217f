package ssa

// Module is an ordered collection of functions: definitions and declarations.
// Functions are referenced by name, so replacing one redirects every caller.
type Module struct {
	Name  string
	Funcs []*Func
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Func {
	if i := m.index(name); i >= 0 {
		return m.Funcs[i]
	}
	return nil
}

// Define adds f to the module. A function of the same name
// is replaced in place; otherwise f is appended.
func (m *Module) Define(f *Func) {
	if i := m.index(f.Name); i >= 0 {
		m.Funcs[i] = f
		return
	}
	m.Funcs = append(m.Funcs, f)
}

// Remove deletes the named function and reports whether it was present.
func (m *Module) Remove(name string) bool {
	i := m.index(name)
	if i < 0 {
		return false
	}
	m.Funcs = append(m.Funcs[:i], m.Funcs[i+1:]...)
	return true
}

// Defined returns the functions that have a body, in module order.
func (m *Module) Defined() []*Func {
	var fs []*Func
	for _, f := range m.Funcs {
		if !f.IsDecl() {
			fs = append(fs, f)
		}
	}
	return fs
}

func (m *Module) index(name string) int {
	for i, f := range m.Funcs {
		if f.Name == name {
			return i
		}
	}
	return -1
}
