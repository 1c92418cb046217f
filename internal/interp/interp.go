// Package interp executes SSA modules directly.
//
// It walks the control flow graph of each called function, keeping one
// float per value and one per storage slot. Phis are resolved against the
// block control came from. Calls go to the definitions of the module
// being run, then to those of linked modules, newest first; names that
// are only declared are looked up among the host functions.
package interp

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
)

// DefaultMaxDepth bounds the call stack.
const DefaultMaxDepth = 10000

type (
	// HostFunc implements an external function.
	HostFunc func(m *Machine, args []float64) (float64, error)

	// Option configures a Machine.
	Option func(m *Machine)

	// Machine runs functions of a module.
	// A Machine is not safe for concurrent use.
	Machine struct {
		out      io.Writer
		maxDepth int
		host     map[string]HostFunc

		linked []*ssa.Module

		depth int
	}

	frame struct {
		vals  []float64
		slots map[*ssa.Value]float64
	}
)

// New creates a Machine with the standard host functions.
func New(opts ...Option) *Machine {
	m := &Machine{
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
		host: map[string]HostFunc{
			rtabi.FnPutchard: putchard,
			rtabi.FnPrintd:   printd,
		},
	}

	for _, o := range opts {
		o(m)
	}

	return m
}

// WithOutput sets where host functions write.
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// WithMaxDepth sets the call depth limit.
func WithMaxDepth(n int) Option {
	return func(m *Machine) { m.maxDepth = n }
}

// WithHost adds or replaces a host function.
func WithHost(name string, f HostFunc) Option {
	return func(m *Machine) { m.host[name] = f }
}

// Output returns the writer host functions write to.
func (m *Machine) Output() io.Writer { return m.out }

// Link makes the definitions of mod callable from modules run later.
// A later definition of the same name hides an earlier one.
func (m *Machine) Link(mod *ssa.Module) {
	m.linked = append(m.linked, mod)
}

// Call runs the named function of mod with args and returns its result.
func (m *Machine) Call(ctx context.Context, mod *ssa.Module, name string, args ...float64) (float64, error) {
	m.depth = 0

	return m.call(ctx, mod, name, args)
}

func (m *Machine) call(ctx context.Context, mod *ssa.Module, name string, args []float64) (float64, error) {
	f, declared := m.lookup(mod, name)

	if f == nil {
		h, ok := m.host[name]
		if !ok {
			if declared {
				return 0, errors.New("unresolved external: %v", name)
			}

			return 0, errors.New("undefined function: %v", name)
		}

		if sig, ok := rtabi.LookupHost(name); ok && sig.NParams != len(args) {
			return 0, errors.New("%v takes %d arguments, got %d", name, sig.NParams, len(args))
		}

		return h(m, args)
	}

	if f.NumParams() != len(args) {
		return 0, errors.New("%v takes %d arguments, got %d", name, f.NumParams(), len(args))
	}

	if m.depth >= m.maxDepth {
		return 0, errors.New("call depth limit %d exceeded in %v", m.maxDepth, name)
	}

	m.depth++
	defer func() { m.depth-- }()

	return m.exec(ctx, mod, f, args)
}

// lookup finds the definition of name. declared reports whether
// any module knows the name at all.
func (m *Machine) lookup(mod *ssa.Module, name string) (def *ssa.Func, declared bool) {
	f := mod.Func(name)
	if f != nil && !f.IsDecl() {
		return f, true
	}

	declared = f != nil

	for i := len(m.linked) - 1; i >= 0; i-- {
		f = m.linked[i].Func(name)
		if f == nil {
			continue
		}
		if !f.IsDecl() {
			return f, true
		}

		declared = true
	}

	return nil, declared
}

func (m *Machine) exec(ctx context.Context, mod *ssa.Module, f *ssa.Func, args []float64) (float64, error) {
	fr := &frame{
		vals:  make([]float64, f.NumValueIDs()),
		slots: make(map[*ssa.Value]float64),
	}

	var phis []float64

	var prev *ssa.Block
	b := f.Entry

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		// Phis at the head of b read their inputs all at once.
		phis = phis[:0]
		for _, v := range b.Values {
			if v.Op != ssa.OpPhi {
				break
			}

			i := b.PredIndex(prev)
			if i < 0 || i >= len(v.Args) {
				return 0, errors.New("%v: %v: phi %v has no input from %v", f.Name, b, v, prev)
			}

			phis = append(phis, fr.vals[v.Args[i].ID])
		}

		for i, x := range phis {
			fr.vals[b.Values[i].ID] = x
		}

		for _, v := range b.Values[len(phis):] {
			err := m.value(ctx, mod, fr, v, args)
			if err != nil {
				return 0, err
			}
		}

		switch b.Kind {
		case ssa.BlockPlain:
			prev, b = b, b.Succs[0]
		case ssa.BlockIf:
			next := b.Succs[1]
			if fr.vals[b.Controls[0].ID] != 0 {
				next = b.Succs[0]
			}

			prev, b = b, next
		case ssa.BlockReturn:
			return fr.vals[b.Controls[0].ID], nil
		default:
			return 0, errors.New("%v: block %v is %v", f.Name, b, b.Kind)
		}
	}
}

func (m *Machine) value(ctx context.Context, mod *ssa.Module, fr *frame, v *ssa.Value, args []float64) (err error) {
	arg := func(i int) float64 { return fr.vals[v.Args[i].ID] }

	var r float64

	switch v.Op {
	case ssa.OpConstFloat:
		r = v.AuxFloat
	case ssa.OpArg:
		r = args[v.AuxInt]
	case ssa.OpAddF64:
		r = arg(0) + arg(1)
	case ssa.OpSubF64:
		r = arg(0) - arg(1)
	case ssa.OpMulF64:
		r = arg(0) * arg(1)
	case ssa.OpLtF64:
		// unordered or less: NaN compares true
		x, y := arg(0), arg(1)
		r = b2f(x < y || math.IsNaN(x) || math.IsNaN(y))
	case ssa.OpNeqF64:
		// ordered and not equal: NaN compares false
		x, y := arg(0), arg(1)
		r = b2f(x != y && !math.IsNaN(x) && !math.IsNaN(y))
	case ssa.OpBoolToFloat:
		r = arg(0)
	case ssa.OpAlloca:
		fr.slots[v] = 0
	case ssa.OpLoad:
		r = fr.slots[v.Args[0]]
	case ssa.OpStore:
		fr.slots[v.Args[0]] = arg(1)
	case ssa.OpCall:
		callArgs := make([]float64, len(v.Args))
		for i := range v.Args {
			callArgs[i] = arg(i)
		}

		r, err = m.call(ctx, mod, v.AuxString(), callArgs)
		if err != nil {
			return err
		}
	default:
		return errors.New("unsupported op: %v", v.Op)
	}

	fr.vals[v.ID] = r

	return nil
}

func b2f(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

func putchard(m *Machine, args []float64) (float64, error) {
	_, err := m.out.Write([]byte{byte(int(args[0]))})
	if err != nil {
		return 0, errors.Wrap(err, "putchard")
	}

	return 0, nil
}

func printd(m *Machine, args []float64) (float64, error) {
	_, err := fmt.Fprintf(m.out, "%f\n", args[0])
	if err != nil {
		return 0, errors.Wrap(err, "printd")
	}

	tlog.V("host").Printw("printd", "x", args[0])

	return 0, nil
}
