// Package compiler drives the front end and code generator over a stream
// of top-level constructs, keeping the state that outlives each one.
package compiler

import (
	"context"
	"io"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
	"github.com/you-not-fish/kaleido/internal/syntax"
)

type (
	// Session holds the operator table, prototype registry and module
	// shared by every construct compiled through it.
	//
	// A Session is not safe for concurrent use.
	Session struct {
		cfg Config

		ops     *syntax.OpTable
		builder *ssa.Builder

		errs int
	}

	// Result is the outcome of one top-level construct.
	// Func is nil if Err is set.
	Result struct {
		Decl syntax.Decl
		Func *ssa.Func
		Err  error
	}
)

// IsAnon reports whether the result is a bare top-level expression.
func (r Result) IsAnon() bool {
	return r.Err == nil && r.Func != nil && r.Func.Name == rtabi.AnonExpr
}

// NewSession creates a session with a seeded operator table and an empty module.
func NewSession(cfg Config) *Session {
	ops := syntax.NewOpTable()

	return &Session{
		cfg:     cfg,
		ops:     ops,
		builder: ssa.NewBuilder(ssa.NewModule(cfg.moduleName()), nil, ops),
	}
}

// Module returns the module being built.
func (s *Session) Module() *ssa.Module { return s.builder.Module() }

// TakeModule returns the module built so far and starts an empty one.
// Functions of the old module stay callable by later code: their
// prototypes are re-declared in the new module on first reference.
func (s *Session) TakeModule() *ssa.Module {
	mod := s.builder.Module()

	s.builder.SetModule(ssa.NewModule(s.cfg.moduleName()))

	return mod
}

// OpTable returns the operator table.
func (s *Session) OpTable() *syntax.OpTable { return s.ops }

// Registry returns the prototype registry.
func (s *Session) Registry() *ssa.Registry { return s.builder.Registry() }

// Errors returns the number of constructs that failed so far.
func (s *Session) Errors() int { return s.errs }

// CompileReader compiles the constructs read from r one at a time.
// Each construct is parsed and built before the next one is read, and
// each is passed to the callback as soon as it is done. A failing
// construct is reported in its Result and does not stop the rest.
// An error returned by the callback stops compilation and is returned.
func (s *Session) CompileReader(ctx context.Context, name string, r io.Reader, each func(Result) error) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile unit", "name", name)
	defer tr.Finish("err", &err)

	p := syntax.NewParser(name, r, s.ops, nil)

	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		snap := s.ops.Snapshot()

		res, ok := s.next(p)
		if !ok {
			return nil
		}

		if res.Err != nil {
			s.errs++

			// The parser installs an operator as soon as its prototype
			// is read; a definition that fails later must not keep it.
			s.rollback(snap)
		}

		if each == nil {
			continue
		}

		if err = each(res); err != nil {
			return err
		}
	}
}

// CompileSource compiles src and returns the result of each construct.
func (s *Session) CompileSource(ctx context.Context, name, src string) (res []Result, err error) {
	err = s.CompileReader(ctx, name, strings.NewReader(src), func(r Result) error {
		res = append(res, r)
		return nil
	})

	return res, err
}

func (s *Session) rollback(snap syntax.Snapshot) {
	tlog.V("rollback").Printw("restore operator table", "from", loc.Caller(1))

	s.ops.Restore(snap)
}

// next parses and builds one construct. It returns false at the end of input.
func (s *Session) next(p *syntax.Parser) (res Result, ok bool) {
	d, err := p.Next()
	if err == io.EOF {
		return res, false
	}
	if err != nil {
		tlog.V("compile").Printw("syntax error", "err", err)
		return Result{Err: err}, true
	}

	res.Decl = d

	f, err := s.builder.Build(d)
	if err != nil {
		tlog.V("compile").Printw("codegen error", "decl", syntax.String(d), "err", err)
		res.Err = err
		return res, true
	}

	if s.cfg.Verify && !f.IsDecl() {
		ssa.ComputeDom(f)

		if err = ssa.VerifyDom(f); err != nil {
			res.Err = errors.Wrap(err, "verify %v", f.Name)
			return res, true
		}
	}

	if s.cfg.DumpSSA != nil {
		ssa.Fprint(s.cfg.DumpSSA, f)
	}

	tlog.V("compile").Printw("built", "func", f.Name, "decl", f.IsDecl())

	res.Func = f

	return res, true
}
