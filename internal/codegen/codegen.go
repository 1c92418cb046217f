// Package codegen lowers SSA modules to LLVM IR.
//
// Every language value is a double. Functions keep their storage slots,
// so the output is meant to be fed to LLVM's optimizer (mem2reg and friends)
// rather than read as final code.
package codegen

import (
	"io"

	"github.com/llir/llvm/ir"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

// Generate lowers mod to an LLVM module.
// Declarations become external functions.
func Generate(mod *ssa.Module) (*ir.Module, error) {
	g := &generator{
		m:     ir.NewModule(),
		funcs: make(map[string]*ir.Func, len(mod.Funcs)),
	}

	g.m.SourceFilename = mod.Name

	// Declare everything first, so calls can refer to any function.
	for _, f := range mod.Funcs {
		g.declare(f)
	}

	for _, f := range mod.Funcs {
		if f.IsDecl() {
			continue
		}

		if err := g.lowerFunc(f); err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	tlog.V("codegen").Printw("generated module", "module", mod.Name, "funcs", len(mod.Funcs))

	return g.m, nil
}

// Emit writes mod as LLVM IR text to w.
func Emit(w io.Writer, mod *ssa.Module) error {
	m, err := Generate(mod)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, m.String())
	if err != nil {
		return errors.Wrap(err, "write")
	}

	return nil
}
