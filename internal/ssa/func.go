package ssa

import "github.com/you-not-fish/kaleido/internal/syntax"

// Func represents an SSA function.
// A definition contains a control flow graph of Blocks, each containing Values.
// A declaration (extern, or a function only referenced so far) has no blocks.
type Func struct {
	// Name is the function name.
	Name string

	// Params are the parameter names; their count is the arity.
	Params []string

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]), nil for declarations.
	Entry *Block

	// Pos is the position of the prototype this function was built from.
	Pos syntax.Pos

	// nextValueID is the next available value ID.
	nextValueID ID

	// nextBlockID is the next available block ID.
	nextBlockID ID
}

// NewFunc creates a new SSA function definition with the given name and parameters.
// An open entry block is automatically created.
func NewFunc(name string, params []string) *Func {
	f := &Func{
		Name:   name,
		Params: params,
	}
	f.Entry = f.NewBlock("entry")
	return f
}

// NewDecl creates a declaration: a function with a signature and no body.
func NewDecl(name string, params []string) *Func {
	return &Func{
		Name:   name,
		Params: params,
	}
}

// IsDecl reports whether f is a declaration without a body.
func (f *Func) IsDecl() bool {
	return len(f.Blocks) == 0
}

// NumParams returns the arity of f.
func (f *Func) NumParams() int { return len(f.Params) }

// NewBlock creates a new open basic block and appends it to the function.
func (f *Func) NewBlock(name string) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Name: name,
		Kind: BlockInvalid,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewValue creates a new Value in the given block.
func (f *Func) NewValue(b *Block, op Op, typ Type, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos creates a new Value with source position in the given block.
func (f *Func) NewValuePos(b *Block, op Op, typ Type, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValueIDs returns an upper bound on the value IDs of f,
// for tables indexed by Value.ID.
func (f *Func) NumValueIDs() int { return int(f.nextValueID) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// placeLast moves b to the end of the block list.
// Blocks are laid out in the order code is emitted into them.
func (f *Func) placeLast(b *Block) {
	for i, x := range f.Blocks {
		if x == b {
			copy(f.Blocks[i:], f.Blocks[i+1:])
			f.Blocks[len(f.Blocks)-1] = b
			return
		}
	}
}
