package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeAddFunc builds: def add(x y) x + y
// without slots, as the SSA form of the body.
func makeAddFunc() *Func {
	f := NewFunc("add", []string{"x", "y"})
	entry := f.Entry

	// v0 = Arg <double> [0] {x}
	v0 := f.NewValue(entry, OpArg, TypeFloat)
	v0.AuxInt = 0
	v0.Aux = "x"

	// v1 = Arg <double> [1] {y}
	v1 := f.NewValue(entry, OpArg, TypeFloat)
	v1.AuxInt = 1
	v1.Aux = "y"

	// v2 = AddF64 <double> v0 v1
	v2 := f.NewValue(entry, OpAddF64, TypeFloat, v0, v1)

	entry.Return(v2)

	return f
}

func TestManualConstruct(t *testing.T) {
	f := makeAddFunc()

	assert.Equal(t, "add", f.Name)
	assert.Equal(t, 2, f.NumParams())
	assert.Equal(t, 1, f.NumBlocks())
	assert.Equal(t, 3, f.NumValues())
	assert.Same(t, f.Blocks[0], f.Entry)
	assert.False(t, f.IsDecl())

	// v0 and v1 are used by v2, v2 by the return.
	for _, v := range f.Entry.Values {
		assert.Equal(t, int32(1), v.Uses, "%v", v)
	}

	require.NoError(t, Verify(f))
}

func TestPrintFormat(t *testing.T) {
	want := `func add(x, y):
  b0: entry
    v0 = Arg <double> [0] {x}
    v1 = Arg <double> [1] {y}
    v2 = AddF64 <double> v0 v1
    Return v2
`
	assert.Equal(t, want, Sprint(makeAddFunc()))
}

func TestPrintBranches(t *testing.T) {
	f := NewFunc("f", nil)

	c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
	c.AuxFloat = 2.5
	zero := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
	cond := f.NewValue(f.Entry, OpNeqF64, TypeBool, c, zero)

	then := f.NewBlock("then")
	els := f.NewBlock("else")
	done := f.NewBlock("ifcont")

	f.Entry.Branch(cond, then, els)
	then.Jump(done)
	els.Jump(done)

	phi := f.NewValue(done, OpPhi, TypeFloat, c, zero)
	done.Return(phi)

	want := `func f():
  b0: entry
    v0 = ConstFloat <double> [2.5]
    v1 = ConstFloat <double> [0]
    v2 = NeqF64 <bool> v0 v1
    If v2 -> b1 b2
  b1: then <- b0
    Plain -> b3
  b2: else <- b0
    Plain -> b3
  b3: ifcont <- b1 b2
    v3 = Phi <double> v0 v1
    Return v3
`
	assert.Equal(t, want, Sprint(f))
	assert.NoError(t, Verify(f))
}

func TestPrintDecl(t *testing.T) {
	assert.Equal(t, "declare putchard(c)\n", Sprint(NewDecl("putchard", []string{"c"})))
}

func TestVerifyDecl(t *testing.T) {
	assert.NoError(t, Verify(NewDecl("g", nil)))
}

func TestVerifyUnterminated(t *testing.T) {
	f := NewFunc("f", nil)

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block is not terminated")
}

func TestVerifyResultType(t *testing.T) {
	f := NewFunc("f", nil)
	c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
	v := f.NewValue(f.Entry, OpAddF64, TypeVoid, c, c)
	f.Entry.Return(v)

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AddF64 has type void, want double")
}

func TestVerifyOperands(t *testing.T) {
	tests := []struct {
		name  string
		build func(f *Func)
		want  string
	}{
		{"arg_count", func(f *Func) {
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			f.Entry.Return(f.NewValue(f.Entry, OpMulF64, TypeFloat, c))
		}, "MulF64 has 1 args, want 2"},
		{"bool_arith", func(f *Func) {
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			lt := f.NewValue(f.Entry, OpLtF64, TypeBool, c, c)
			f.Entry.Return(f.NewValue(f.Entry, OpAddF64, TypeFloat, lt, c))
		}, "AddF64 arg 0 is v1 bool, want double"},
		{"bool_returned", func(f *Func) {
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			f.Entry.Return(f.NewValue(f.Entry, OpNeqF64, TypeBool, c, c))
		}, "ret control v1 is bool, want double"},
		{"bool_call_arg", func(f *Func) {
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			ne := f.NewValue(f.Entry, OpNeqF64, TypeBool, c, c)
			call := f.NewValue(f.Entry, OpCall, TypeFloat, ne)
			call.Aux = "g"
			f.Entry.Return(call)
		}, "Call arg 0 is v1 bool, want double"},
		{"float_condition", func(f *Func) {
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			a, b := f.NewBlock("a"), f.NewBlock("b")
			f.Entry.Branch(c, a, b)
			a.Return(c)
			b.Return(c)
		}, "if control v0 is double, want bool"},
		{"load_not_slot", func(f *Func) {
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			f.Entry.Return(f.NewValue(f.Entry, OpLoad, TypeFloat, c))
		}, "Load arg 0 is v0 double, want ptr"},
		{"store_through_load", func(f *Func) {
			slot := f.NewValue(f.Entry, OpAlloca, TypePtr)
			c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
			// a ptr that is not an alloca
			fake := f.NewValue(f.Entry, OpLoad, TypeFloat, slot)
			fake.Type = TypePtr
			f.NewValue(f.Entry, OpStore, TypeVoid, fake, c)
			f.Entry.Return(c)
		}, "Store through v2, not a slot"},
		{"arg_index", func(f *Func) {
			a := f.NewValue(f.Entry, OpArg, TypeFloat)
			a.AuxInt = 1
			f.Entry.Return(a)
		}, "parameter 1 of 1"},
		{"call_without_callee", func(f *Func) {
			f.Entry.Return(f.NewValue(f.Entry, OpCall, TypeFloat))
		}, "call without callee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFunc("f", []string{"x"})
			tt.build(f)

			err := Verify(f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVerifyPhiPlacement(t *testing.T) {
	f := NewFunc("f", []string{"x"})

	x := f.NewValue(f.Entry, OpArg, TypeFloat)
	cond := f.NewValue(f.Entry, OpNeqF64, TypeBool, x, x)

	a := f.NewBlock("a")
	b := f.NewBlock("b")
	merge := f.NewBlock("merge")

	f.Entry.Branch(cond, a, b)
	a.Jump(merge)
	b.Jump(merge)

	// a phi in a block with a single predecessor
	f.NewValue(a, OpPhi, TypeFloat, x)

	sum := f.NewValue(merge, OpAddF64, TypeFloat, x, x)
	late := f.NewValue(merge, OpPhi, TypeFloat, sum, x)
	merge.Return(late)

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phi in a block with 1 preds")
	assert.Contains(t, err.Error(), "phi after a non-phi value")
}

func TestVerifyAllocaOutsideEntry(t *testing.T) {
	f := NewFunc("f", nil)
	next := f.NewBlock("next")
	f.Entry.Jump(next)

	f.NewValue(next, OpAlloca, TypePtr)
	c := f.NewValue(next, OpConstFloat, TypeFloat)
	next.Return(c)

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alloca outside the entry block")
}

func TestVerifyPhiArgCount(t *testing.T) {
	f := NewFunc("f", []string{"x"})

	x := f.NewValue(f.Entry, OpArg, TypeFloat)
	cond := f.NewValue(f.Entry, OpNeqF64, TypeBool, x, x)

	a := f.NewBlock("a")
	b := f.NewBlock("b")
	merge := f.NewBlock("merge")

	f.Entry.Branch(cond, a, b)
	a.Jump(merge)
	b.Jump(merge)

	phi := f.NewValue(merge, OpPhi, TypeFloat, x) // one arg, two preds
	merge.Return(phi)

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phi has 1 args but block has 2 preds")
}

func TestVerifyInconsistentEdges(t *testing.T) {
	f := makeAddFunc()

	orphan := f.NewBlock("orphan")
	orphan.Preds = append(orphan.Preds, f.Entry)
	orphan.Return(f.Entry.Values[0])

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not have")
}

func TestVerifyEntryNoPreds(t *testing.T) {
	f := makeAddFunc()

	extra := f.NewBlock("extra")
	extra.Jump(f.Entry)

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry block b0 has 1 predecessors")
}

func TestVerifyValueBlockMismatch(t *testing.T) {
	f := makeAddFunc()
	other := f.NewBlock("other")
	f.Entry.Values[0].Block = other

	err := Verify(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value Block pointer")
}

func TestVerifyDomUseBeforeDef(t *testing.T) {
	f := NewFunc("f", nil)

	c := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
	cond := f.NewValue(f.Entry, OpNeqF64, TypeBool, c, c)

	then := f.NewBlock("then")
	els := f.NewBlock("else")
	f.Entry.Branch(cond, then, els)

	x := f.NewValue(then, OpConstFloat, TypeFloat)
	then.Return(x)

	// else uses a value computed only on the then path.
	y := f.NewValue(els, OpAddF64, TypeFloat, x, c)
	els.Return(y)

	require.NoError(t, Verify(f))

	ComputeDom(f)

	err := VerifyDom(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "which does not dominate")
}

func TestOpInfo(t *testing.T) {
	for _, op := range []Op{OpConstFloat, OpAddF64, OpSubF64, OpMulF64, OpLtF64, OpNeqF64, OpBoolToFloat, OpPhi, OpArg} {
		assert.True(t, op.IsPure(), "%v", op)
		assert.False(t, op.IsVoid(), "%v", op)
	}

	for _, op := range []Op{OpAlloca, OpLoad, OpStore, OpCall} {
		assert.False(t, op.IsPure(), "%v", op)
	}

	assert.True(t, OpStore.IsVoid())

	assert.Equal(t, "AddF64", OpAddF64.String())
	assert.Equal(t, "Invalid", OpInvalid.String())
	assert.Equal(t, "unknown", Op(1000).String())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "plain", BlockPlain.String())
	assert.Equal(t, "if", BlockIf.String())
	assert.Equal(t, "ret", BlockReturn.String())
	assert.Equal(t, "invalid", BlockInvalid.String())

	assert.Equal(t, "double", TypeFloat.String())
	assert.Equal(t, "bool", TypeBool.String())
	assert.Equal(t, "ptr", TypePtr.String())
	assert.Equal(t, "void", TypeVoid.String())
	assert.Equal(t, "type(9)", Type(9).String())
}

func TestValueString(t *testing.T) {
	f := NewFunc("f", nil)

	v := f.NewValue(f.Entry, OpConstFloat, TypeFloat)
	v.AuxFloat = 0.25

	assert.Equal(t, "v0", v.String())
	assert.Equal(t, "v0 = ConstFloat <double> [0.25]", v.LongString())

	call := f.NewValue(f.Entry, OpCall, TypeFloat, v, v)
	call.Aux = "binary|"

	assert.Equal(t, "v1 = Call <double> {binary|} v0 v0", call.LongString())
	assert.Equal(t, int32(2), v.Uses)
	assert.Equal(t, "binary|", call.AuxString())
	assert.Equal(t, "", v.AuxString())
}

func TestBlockTerminateTwice(t *testing.T) {
	f := NewFunc("f", nil)
	next := f.NewBlock("next")

	f.Entry.Jump(next)

	assert.Panics(t, func() { f.Entry.Jump(next) })
}

func TestPlaceLast(t *testing.T) {
	f := NewFunc("f", nil)
	a := f.NewBlock("a")
	b := f.NewBlock("b")

	f.placeLast(a)
	assert.Equal(t, []*Block{f.Entry, b, a}, f.Blocks)

	f.placeLast(a)
	assert.Equal(t, []*Block{f.Entry, b, a}, f.Blocks)
}
