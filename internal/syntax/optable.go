package syntax

import "fmt"

// Arity distinguishes prefix operators from infix ones.
type Arity uint8

const (
	Unary  Arity = 1
	Binary Arity = 2
)

func (a Arity) String() string {
	switch a {
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("arity(%d)", uint8(a))
}

// Precedence bounds for user-defined binary operators.
const (
	MinPrec = 1
	MaxPrec = 100
)

type opKey struct {
	op    rune
	arity Arity
}

// OpTable maps operator symbols to their precedence.
// The parser consults it every time it considers an operator,
// so installs take effect for everything parsed afterwards.
//
// An OpTable is not safe for concurrent use.
type OpTable struct {
	prec map[opKey]int
}

// Snapshot is a saved copy of an OpTable's contents.
type Snapshot struct {
	prec map[opKey]int
}

// NewOpTable returns a table seeded with the built-in binary operators.
func NewOpTable() *OpTable {
	t := &OpTable{prec: make(map[opKey]int)}

	t.prec[opKey{'=', Binary}] = 2
	t.prec[opKey{'<', Binary}] = 10
	t.prec[opKey{'+', Binary}] = 20
	t.prec[opKey{'-', Binary}] = 20
	t.prec[opKey{'*', Binary}] = 40

	return t
}

// Lookup returns the precedence of op with the given arity.
func (t *OpTable) Lookup(op rune, arity Arity) (prec int, ok bool) {
	prec, ok = t.prec[opKey{op, arity}]
	return
}

// BinaryPrec returns the precedence of binary op, or -1 if op is not a binary operator.
func (t *OpTable) BinaryPrec(op rune) int {
	if prec, ok := t.prec[opKey{op, Binary}]; ok {
		return prec
	}
	return -1
}

// IsUnary reports whether op is installed as a prefix operator.
func (t *OpTable) IsUnary(op rune) bool {
	_, ok := t.prec[opKey{op, Unary}]
	return ok
}

// Install adds or replaces an operator. The returned func restores
// the entry that was there before (or its absence).
func (t *OpTable) Install(op rune, arity Arity, prec int) (undo func()) {
	k := opKey{op, arity}
	old, had := t.prec[k]

	t.prec[k] = prec

	return func() {
		if had {
			t.prec[k] = old
		} else {
			delete(t.prec, k)
		}
	}
}

// Snapshot saves the current contents.
func (t *OpTable) Snapshot() Snapshot {
	s := Snapshot{prec: make(map[opKey]int, len(t.prec))}
	for k, v := range t.prec {
		s.prec[k] = v
	}
	return s
}

// Restore replaces the table contents with a snapshot.
func (t *OpTable) Restore(s Snapshot) {
	t.prec = make(map[opKey]int, len(s.prec))
	for k, v := range s.prec {
		t.prec[k] = v
	}
}

// Len returns the number of installed operators.
func (t *OpTable) Len() int {
	return len(t.prec)
}
