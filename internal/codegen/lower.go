package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"tlog.app/go/errors"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

type (
	generator struct {
		m     *ir.Module
		funcs map[string]*ir.Func

		// per function
		fn     *ir.Func
		blocks map[*ssa.Block]*ir.Block
		vals   map[*ssa.Value]value.Value
		phis   []pendingPhi
	}

	// pendingPhi is a phi whose incomings are filled in
	// once every block of the function is lowered.
	pendingPhi struct {
		v   *ssa.Value
		phi *ir.InstPhi
	}
)

// declare adds the signature of f to the module.
func (g *generator) declare(f *ssa.Func) {
	seen := make(map[string]bool, len(f.Params))

	params := make([]*ir.Param, len(f.Params))
	for i, name := range f.Params {
		// Local names must be unique; a repeated one is left to numbering.
		if seen[name] {
			name = ""
		}
		seen[name] = true

		params[i] = ir.NewParam(name, types.Double)
	}

	g.funcs[f.Name] = g.m.NewFunc(f.Name, types.Double, params...)
}

// lowerFunc emits the body of a single SSA function.
func (g *generator) lowerFunc(f *ssa.Func) error {
	g.fn = g.funcs[f.Name]
	g.blocks = make(map[*ssa.Block]*ir.Block, len(f.Blocks))
	g.vals = make(map[*ssa.Value]value.Value, f.NumValues())
	g.phis = g.phis[:0]

	for _, b := range f.Blocks {
		g.blocks[b] = g.fn.NewBlock(blockName(b))
	}

	for _, b := range f.Blocks {
		if err := g.lowerBlock(b); err != nil {
			return errors.Wrap(err, "block %v", b)
		}
	}

	for _, p := range g.phis {
		for i, arg := range p.v.Args {
			x, err := g.operand(arg)
			if err != nil {
				return errors.Wrap(err, "phi %v", p.v)
			}

			pred := g.blocks[p.v.Block.Preds[i]]
			p.phi.Incs = append(p.phi.Incs, ir.NewIncoming(x, pred))
		}
	}

	return nil
}

// lowerBlock emits the instructions and terminator of a single block.
func (g *generator) lowerBlock(b *ssa.Block) error {
	blk := g.blocks[b]

	for _, v := range b.Values {
		if err := g.lowerValue(blk, v); err != nil {
			return errors.Wrap(err, "%v", v.LongString())
		}
	}

	return g.lowerTerminator(blk, b)
}

// lowerValue emits the LLVM IR for a single SSA value.
func (g *generator) lowerValue(blk *ir.Block, v *ssa.Value) (err error) {
	args := make([]value.Value, len(v.Args))
	if v.Op != ssa.OpPhi {
		for i, a := range v.Args {
			args[i], err = g.operand(a)
			if err != nil {
				return err
			}
		}
	}

	var x value.Value

	switch v.Op {
	// Constants are used in place; no instruction is emitted.
	case ssa.OpConstFloat:
		x = constant.NewFloat(types.Double, v.AuxFloat)

	case ssa.OpArg:
		x = g.fn.Params[v.AuxInt]

	case ssa.OpAddF64:
		x = blk.NewFAdd(args[0], args[1])
	case ssa.OpSubF64:
		x = blk.NewFSub(args[0], args[1])
	case ssa.OpMulF64:
		x = blk.NewFMul(args[0], args[1])

	// Less is unordered, so NaN operands compare true.
	case ssa.OpLtF64:
		x = blk.NewFCmp(enum.FPredULT, args[0], args[1])
	case ssa.OpNeqF64:
		x = blk.NewFCmp(enum.FPredONE, args[0], args[1])

	case ssa.OpBoolToFloat:
		x = blk.NewUIToFP(args[0], types.Double)

	case ssa.OpAlloca:
		x = blk.NewAlloca(types.Double)
	case ssa.OpLoad:
		x = blk.NewLoad(types.Double, args[0])
	case ssa.OpStore:
		blk.NewStore(args[1], args[0])
		return nil

	case ssa.OpCall:
		callee, ok := g.funcs[v.AuxString()]
		if !ok {
			return errors.New("call to undeclared function %v", v.AuxString())
		}

		// A callee redefined with another arity leaves stale call sites.
		if len(args) != len(callee.Params) {
			return errors.New("call to %v with %d args, want %d", callee.Name(), len(args), len(callee.Params))
		}

		x = blk.NewCall(callee, args...)

	case ssa.OpPhi:
		// Incomings may be defined in blocks not lowered yet.
		phi := &ir.InstPhi{Typ: llvmType(v.Type)}
		blk.Insts = append(blk.Insts, phi)

		g.phis = append(g.phis, pendingPhi{v: v, phi: phi})
		x = phi

	default:
		return errors.New("unsupported op: %v", v.Op)
	}

	g.vals[v] = x

	return nil
}

// lowerTerminator emits the branch or return ending a block.
func (g *generator) lowerTerminator(blk *ir.Block, b *ssa.Block) error {
	switch b.Kind {
	case ssa.BlockPlain:
		blk.NewBr(g.blocks[b.Succs[0]])
	case ssa.BlockIf:
		cond, err := g.operand(b.Controls[0])
		if err != nil {
			return err
		}

		blk.NewCondBr(cond, g.blocks[b.Succs[0]], g.blocks[b.Succs[1]])
	case ssa.BlockReturn:
		x, err := g.operand(b.Controls[0])
		if err != nil {
			return err
		}

		blk.NewRet(x)
	default:
		return errors.New("block %v is %v", b, b.Kind)
	}

	return nil
}

// operand returns the LLVM value computed for v.
func (g *generator) operand(v *ssa.Value) (value.Value, error) {
	x, ok := g.vals[v]
	if !ok {
		return nil, errors.New("%v used before definition", v)
	}

	return x, nil
}

// blockName returns the LLVM label for an SSA block.
// Labels share a namespace with parameters; a dot never occurs in
// a source name.
func blockName(b *ssa.Block) string {
	return fmt.Sprintf("%s.%d", b.Name, b.ID)
}
