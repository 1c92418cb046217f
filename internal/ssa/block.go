package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota // not terminated yet
	BlockPlain                    // unconditional jump to Succs[0]
	BlockIf                       // conditional branch: if Controls[0] then Succs[0] else Succs[1]
	BlockReturn                   // function return; Controls[0] = return value
)

// blockKindNames maps BlockKind to its string representation.
var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockIf:      "if",
	BlockReturn:  "ret",
}

// String returns the string representation of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block represents a basic block in the control flow graph.
// A block contains a sequence of non-branching Values, followed by
// a terminator indicated by its Kind.
//
// A new block is open (BlockInvalid) until exactly one of
// Jump, Branch or Return terminates it.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Name is a label hint ("entry", "then", "loop", ...).
	Name string

	// Kind describes how this block terminates.
	Kind BlockKind

	// Controls holds the terminator's operand values.
	// For BlockIf: Controls[0] = branch condition.
	// For BlockReturn: Controls[0] = return value.
	Controls []*Value

	// Succs lists the successor blocks in the CFG.
	// For BlockPlain: Succs[0] = target.
	// For BlockIf: Succs[0] = then, Succs[1] = else.
	Succs []*Block

	// Preds lists the predecessor blocks in the CFG.
	// Phi arguments follow this order.
	Preds []*Block

	// Values is the ordered list of values computed in this block.
	Values []*Value

	// Func is the function containing this block.
	Func *Func

	// Dominance tree fields (populated by ComputeDom).
	Idom     *Block   // immediate dominator
	Dominees []*Block // blocks dominated by this block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// Terminated reports whether the block already has a terminator.
func (b *Block) Terminated() bool {
	return b.Kind != BlockInvalid
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch/return control value.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	v.Uses++
}

// Jump terminates b with an unconditional branch to succ.
func (b *Block) Jump(succ *Block) {
	b.terminate(BlockPlain)
	b.AddSucc(succ)
}

// Branch terminates b with a conditional branch on cond.
func (b *Block) Branch(cond *Value, then, els *Block) {
	b.terminate(BlockIf)
	b.SetControl(cond)
	b.AddSucc(then)
	b.AddSucc(els)
}

// Return terminates b with a return of v.
func (b *Block) Return(v *Value) {
	b.terminate(BlockReturn)
	b.SetControl(v)
}

func (b *Block) terminate(kind BlockKind) {
	if b.Terminated() {
		panic(fmt.Sprintf("ssa: block %s of %s terminated twice (%s, then %s)", b, b.Func.Name, b.Kind, kind))
	}
	b.Kind = kind
}

// PredIndex returns the index of p in b.Preds, or -1.
func (b *Block) PredIndex(p *Block) int {
	for i, x := range b.Preds {
		if x == p {
			return i
		}
	}
	return -1
}

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }

// NumValues returns the number of values in this block.
func (b *Block) NumValues() int { return len(b.Values) }
