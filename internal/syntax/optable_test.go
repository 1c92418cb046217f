package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpTableSeed(t *testing.T) {
	ops := NewOpTable()

	for op, want := range map[rune]int{'=': 2, '<': 10, '+': 20, '-': 20, '*': 40} {
		assert.Equal(t, want, ops.BinaryPrec(op), "%c", op)
		assert.False(t, ops.IsUnary(op), "%c", op)
	}

	assert.Equal(t, -1, ops.BinaryPrec('|'))
	assert.Equal(t, -1, ops.BinaryPrec('/'))
	assert.Equal(t, 5, ops.Len())
}

func TestOpTableInstallUndo(t *testing.T) {
	ops := NewOpTable()

	undo := ops.Install('|', Binary, 5)
	assert.Equal(t, 5, ops.BinaryPrec('|'))
	undo()
	assert.Equal(t, -1, ops.BinaryPrec('|'))

	// Replacing an existing entry restores the old precedence.
	undo = ops.Install('+', Binary, 70)
	assert.Equal(t, 70, ops.BinaryPrec('+'))
	undo()
	assert.Equal(t, 20, ops.BinaryPrec('+'))

	// Unary and binary entries of one symbol are independent.
	undo = ops.Install('-', Unary, 0)
	assert.True(t, ops.IsUnary('-'))
	assert.Equal(t, 20, ops.BinaryPrec('-'))
	undo()
	assert.False(t, ops.IsUnary('-'))
	assert.Equal(t, 20, ops.BinaryPrec('-'))

	prec, ok := ops.Lookup('*', Binary)
	assert.True(t, ok)
	assert.Equal(t, 40, prec)

	_, ok = ops.Lookup('*', Unary)
	assert.False(t, ok)
}

func TestOpTableSnapshot(t *testing.T) {
	ops := NewOpTable()
	snap := ops.Snapshot()

	ops.Install('|', Binary, 5)
	ops.Install('!', Unary, 0)
	ops.Install('<', Binary, 99)

	ops.Restore(snap)

	assert.Equal(t, -1, ops.BinaryPrec('|'))
	assert.False(t, ops.IsUnary('!'))
	assert.Equal(t, 10, ops.BinaryPrec('<'))
	assert.Equal(t, 5, ops.Len())

	// The snapshot is not aliased by the table.
	ops.Install('&', Binary, 6)
	ops.Restore(snap)
	assert.Equal(t, -1, ops.BinaryPrec('&'))
}

func TestArityString(t *testing.T) {
	assert.Equal(t, "unary", Unary.String())
	assert.Equal(t, "binary", Binary.String())
	assert.Equal(t, "arity(7)", Arity(7).String())
}
