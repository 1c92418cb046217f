package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

func TestModuleDefine(t *testing.T) {
	m := NewModule("m")

	g := NewDecl("g", []string{"x"})
	f := NewFunc("f", nil)

	m.Define(g)
	m.Define(f)
	assert.Equal(t, []*Func{g, f}, m.Funcs)
	assert.Equal(t, []*Func{f}, m.Defined())

	// Replacing keeps the position in the module.
	g2 := NewFunc("g", []string{"x"})
	m.Define(g2)
	assert.Equal(t, []*Func{g2, f}, m.Funcs)
	assert.Same(t, g2, m.Func("g"))

	assert.True(t, m.Remove("g"))
	assert.False(t, m.Remove("g"))
	assert.Nil(t, m.Func("g"))
	assert.Equal(t, []*Func{f}, m.Funcs)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	p1 := &syntax.Prototype{Name: "f"}
	p2 := &syntax.Prototype{Name: "f", Params: []*syntax.Name{{Value: "x"}}}

	undo1 := r.Register(p1)
	undo2 := r.Register(p2)

	p, ok := r.Lookup("f")
	require.True(t, ok)
	assert.Same(t, p2, p)

	undo2()
	p, _ = r.Lookup("f")
	assert.Same(t, p1, p)

	undo1()
	_, ok = r.Lookup("f")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	r.Register(&syntax.Prototype{Name: "b"})
	r.Register(&syntax.Prototype{Name: "a"})
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestScopeShadowing(t *testing.T) {
	f := NewFunc("f", nil)
	outer := f.NewValue(f.Entry, OpAlloca, TypePtr)
	inner := f.NewValue(f.Entry, OpAlloca, TypePtr)
	other := f.NewValue(f.Entry, OpAlloca, TypePtr)

	s := NewScope()
	s.Bind("x", outer)

	mark := s.Mark()
	s.Bind("x", inner)
	s.Bind("y", other)
	s.Bind("x", other)

	v, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Same(t, other, v)

	s.Unwind(mark)

	v, ok = s.Lookup("x")
	require.True(t, ok)
	assert.Same(t, outer, v)

	_, ok = s.Lookup("y")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Mark())
}
