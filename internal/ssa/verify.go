package ssa

import (
	"fmt"
	"strings"

	"tlog.app/go/errors"
)

type (
	// signature is the operand and result typing of an op.
	// If variadic is set, every arg has type args[0] and any count is allowed.
	signature struct {
		args     []Type
		result   Type
		variadic bool
	}

	// verifier collects the violations found in one function.
	verifier struct {
		f    *Func
		errs []string

		blocks map[*Block]bool
		index  map[*Value]int // position within its block
	}
)

var (
	anyFloats = []Type{TypeFloat}

	signatures = [opCount]signature{
		OpConstFloat:  {result: TypeFloat},
		OpAddF64:      {args: []Type{TypeFloat, TypeFloat}, result: TypeFloat},
		OpSubF64:      {args: []Type{TypeFloat, TypeFloat}, result: TypeFloat},
		OpMulF64:      {args: []Type{TypeFloat, TypeFloat}, result: TypeFloat},
		OpLtF64:       {args: []Type{TypeFloat, TypeFloat}, result: TypeBool},
		OpNeqF64:      {args: []Type{TypeFloat, TypeFloat}, result: TypeBool},
		OpBoolToFloat: {args: []Type{TypeBool}, result: TypeFloat},
		OpAlloca:      {result: TypePtr},
		OpLoad:        {args: []Type{TypePtr}, result: TypeFloat},
		OpStore:       {args: []Type{TypePtr, TypeFloat}, result: TypeVoid},
		OpCall:        {args: anyFloats, result: TypeFloat, variadic: true},
		OpPhi:         {args: anyFloats, result: TypeFloat, variadic: true},
		OpArg:         {result: TypeFloat},
	}

	// terminators gives the successor and control counts of each block kind,
	// and the type of the control if there is one.
	terminators = map[BlockKind]struct {
		succs, controls int
		control         Type
	}{
		BlockPlain:  {succs: 1},
		BlockIf:     {succs: 2, controls: 1, control: TypeBool},
		BlockReturn: {controls: 1, control: TypeFloat},
	}
)

// VerifyModule verifies every function of m and checks that each call
// names a function of m with a matching number of parameters.
// Dominators are recomputed.
func VerifyModule(m *Module) error {
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}

		ComputeDom(f)

		if err := VerifyDom(f); err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}

		if err := verifyCalls(m, f); err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}
	}

	return nil
}

// verifyCalls checks the call sites of f against the prototypes in m.
// A callee redefined with another arity leaves stale calls behind.
func verifyCalls(m *Module, f *Func) error {
	var errs []string

	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op != OpCall {
				continue
			}

			callee := m.Func(v.AuxString())

			switch {
			case callee == nil:
				errs = append(errs, fmt.Sprintf("%s: %v calls %q, which is not in the module", b, v, v.AuxString()))
			case callee.NumParams() != len(v.Args):
				errs = append(errs, fmt.Sprintf("%s: %v passes %d args to %s, which takes %d",
					b, v, len(v.Args), callee.Name, callee.NumParams()))
			}
		}
	}

	return combineErrors(errs)
}

// Verify checks the structural rules of a function:
// terminators and CFG edges, operand and result types of every op,
// slots allocated in the entry block and addressed only through
// their alloca, phis only at the head of merge blocks.
// Comparison results are bool, so operand typing confines them to
// branch conditions and BoolToFloat.
// Declarations have no body and are always valid.
func Verify(f *Func) error {
	if f.IsDecl() {
		return nil
	}

	c := &verifier{
		f:      f,
		blocks: make(map[*Block]bool, len(f.Blocks)),
		index:  make(map[*Value]int),
	}

	if len(f.Blocks) == 0 || f.Blocks[0] != f.Entry {
		c.errorf(nil, "entry block is not the first block")
		return c.err()
	}

	if n := len(f.Entry.Preds); n != 0 {
		c.errorf(nil, "entry block %s has %d predecessors", f.Entry, n)
	}

	for _, b := range f.Blocks {
		c.blocks[b] = true

		for i, v := range b.Values {
			c.index[v] = i
		}
	}

	for _, b := range f.Blocks {
		c.block(b)
	}

	return c.err()
}

func (c *verifier) block(b *Block) {
	if b.Func != c.f {
		c.errorf(b, "belongs to another function")
	}

	if b.Kind == BlockInvalid {
		c.errorf(b, "block is not terminated")
	} else if t, ok := terminators[b.Kind]; !ok {
		c.errorf(b, "unknown kind %v", b.Kind)
	} else {
		if len(b.Succs) != t.succs || len(b.Controls) != t.controls {
			c.errorf(b, "%v block has %d succs and %d controls, want %d and %d",
				b.Kind, len(b.Succs), len(b.Controls), t.succs, t.controls)
		}

		for _, x := range b.Controls {
			if c.operand(b, x) && x.Type != t.control {
				c.errorf(b, "%v control %v is %v, want %v", b.Kind, x, x.Type, t.control)
			}
		}
	}

	for _, s := range b.Succs {
		if !c.blocks[s] || s.PredIndex(b) < 0 {
			c.errorf(b, "successor %s does not have %s as predecessor", s, b)
		}
	}

	for _, p := range b.Preds {
		if !c.blocks[p] || !containsBlock(p.Succs, b) {
			c.errorf(b, "predecessor %s does not have %s as successor", p, b)
		}
	}

	head := true

	for _, v := range b.Values {
		if v.Op == OpPhi {
			if !head {
				c.errorf(b, "%v: phi after a non-phi value", v)
			}
		} else {
			head = false
		}

		c.value(b, v)
	}
}

func (c *verifier) value(b *Block, v *Value) {
	if v.Block != b {
		c.errorf(b, "%v: value Block pointer is %v", v, v.Block)
	}

	if v.Op <= OpInvalid || v.Op >= opCount {
		c.errorf(b, "%v: invalid op %d", v, int(v.Op))
		return
	}

	sig := signatures[v.Op]

	if v.Type != sig.result {
		c.errorf(b, "%v: %v has type %v, want %v", v, v.Op, v.Type, sig.result)
	}

	if !sig.variadic && len(v.Args) != len(sig.args) {
		c.errorf(b, "%v: %v has %d args, want %d", v, v.Op, len(v.Args), len(sig.args))
		return
	}

	for i, a := range v.Args {
		if !c.operand(b, a) {
			continue
		}

		want := sig.args[0]
		if !sig.variadic {
			want = sig.args[i]
		}

		if a.Type != want {
			c.errorf(b, "%v: %v arg %d is %v %v, want %v", v, v.Op, i, a, a.Type, want)
		}
	}

	switch v.Op {
	case OpAlloca:
		if b != c.f.Entry {
			c.errorf(b, "%v: alloca outside the entry block", v)
		}
	case OpLoad, OpStore:
		if a := v.Args[0]; a != nil && a.Op != OpAlloca {
			c.errorf(b, "%v: %v through %v, not a slot", v, v.Op, a)
		}
	case OpArg:
		if v.AuxInt < 0 || v.AuxInt >= int64(c.f.NumParams()) {
			c.errorf(b, "%v: parameter %d of %d", v, v.AuxInt, c.f.NumParams())
		}
	case OpCall:
		if v.AuxString() == "" {
			c.errorf(b, "%v: call without callee", v)
		}
	case OpPhi:
		if len(b.Preds) < 2 {
			c.errorf(b, "%v: phi in a block with %d preds", v, len(b.Preds))
		}
		if len(v.Args) != len(b.Preds) {
			c.errorf(b, "%v: phi has %d args but block has %d preds", v, len(v.Args), len(b.Preds))
		}
	}
}

// operand reports whether x is a value of this function.
func (c *verifier) operand(b *Block, x *Value) bool {
	if x == nil {
		c.errorf(b, "nil operand")
		return false
	}

	if _, ok := c.index[x]; !ok || !c.blocks[x.Block] {
		c.errorf(b, "operand %v is not in the function", x)
		return false
	}

	return true
}

func (c *verifier) errorf(b *Block, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if b != nil {
		msg = b.String() + ": " + msg
	}

	c.errs = append(c.errs, c.f.Name+": "+msg)
}

func (c *verifier) err() error {
	return combineErrors(c.errs)
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

// VerifyDom checks that every operand is available where it is used:
// before the use in the same block, or in a block dominating it.
// A phi uses its i-th arg at the end of the i-th predecessor, and a
// control is used at the end of its block.
// ComputeDom must have been called before this. Verify runs first.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}

	c := &verifier{
		f:     f,
		index: make(map[*Value]int),
	}

	for _, b := range f.Blocks {
		for i, v := range b.Values {
			c.index[v] = i
		}
	}

	if f.Entry.Idom != nil {
		c.errorf(f.Entry, "entry has immediate dominator %v", f.Entry.Idom)
	}

	for _, b := range ReversePostOrder(f) {
		if b != f.Entry && (b.Idom == nil || b.Idom == b) {
			c.errorf(b, "reachable block has immediate dominator %v", b.Idom)
		}

		end := len(b.Values)

		for i, v := range b.Values {
			for j, a := range v.Args {
				if v.Op == OpPhi {
					pred := b.Preds[j]
					c.available(pred, len(pred.Values), a, fmt.Sprintf("%v phi arg %d", v, j))
				} else {
					c.available(b, i, a, fmt.Sprintf("%v arg %d", v, j))
				}
			}
		}

		for _, x := range b.Controls {
			c.available(b, end, x, "control")
		}
	}

	return c.err()
}

// available checks that x is defined before position at of block b.
func (c *verifier) available(b *Block, at int, x *Value, use string) {
	def := x.Block

	if def == b {
		if c.index[x] >= at {
			c.errorf(b, "%s: %v is used before it is defined", use, x)
		}

		return
	}

	if !def.Dominates(b) {
		c.errorf(b, "%s: %v defined in %v which does not dominate %v", use, x, def, b)
	}
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}

	return errors.New("ssa verification failed:\n  %s", strings.Join(errs, "\n  "))
}
