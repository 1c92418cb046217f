// Command kaleido compiles and runs Kaleido programs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/kaleido/internal/codegen"
	"github.com/you-not-fish/kaleido/internal/compiler"
	"github.com/you-not-fish/kaleido/internal/interp"
	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/ssa"
	"github.com/you-not-fish/kaleido/internal/syntax"
)

const (
	historyFile = ".kaleido_history"

	promptMain = "ready> "
)

var errFailed = errors.New("compilation failed")

func main() {
	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print the token stream",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	astCmd := &cli.Command{
		Name:        "ast",
		Description: "print the syntax tree",
		Action:      astAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("json", false, "print as json"),
		},
	}

	ssaCmd := &cli.Command{
		Name:        "ssa",
		Description: "print the ssa form of each function",
		Action:      ssaAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("verify", false, "verify each function"),
		},
	}

	llCmd := &cli.Command{
		Name:        "ll",
		Description: "print llvm ir",
		Action:      llAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file"),
		},
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "evaluate top-level expressions",
		Action:      runAct,
		Args:        cli.Args{},
	}

	replCmd := &cli.Command{
		Name:        "repl",
		Description: "interactive session",
		Action:      replAct,
	}

	app := &cli.Command{
		Name:        "kaleido",
		Description: "kaleido is a compiler for the Kaleidoscope language",
		Action:      replAct,
		Commands: []*cli.Command{
			tokensCmd,
			astCmd,
			ssaCmd,
			llCmd,
			runCmd,
			replCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func rootContext() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

func tokensAct(c *cli.Command) error {
	for _, a := range c.Args {
		err := withFile(a, func(r io.Reader) error {
			return emitTokens(os.Stdout, a, r)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func astAct(c *cli.Command) error {
	for _, a := range c.Args {
		err := withFile(a, func(r io.Reader) error {
			return emitAST(os.Stdout, a, r, c.Bool("json"))
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func ssaAct(c *cli.Command) error {
	ctx := rootContext()

	for _, a := range c.Args {
		err := withFile(a, func(r io.Reader) error {
			return emitSSA(ctx, os.Stdout, a, r, c.Bool("verify"))
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func llAct(c *cli.Command) (err error) {
	ctx := rootContext()

	var w io.Writer = os.Stdout

	if name := c.String("output"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return errors.Wrap(err, "create output")
		}

		defer func() {
			e := f.Close()
			if err == nil && e != nil {
				err = errors.Wrap(e, "close output")
			}
		}()

		w = f
	}

	for _, a := range c.Args {
		err = withFile(a, func(r io.Reader) error {
			return emitLL(ctx, w, a, r)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func runAct(c *cli.Command) error {
	ctx := rootContext()

	s := compiler.NewSession(compiler.Config{})
	m := interp.New()

	for _, a := range c.Args {
		err := withFile(a, func(r io.Reader) error {
			return run(ctx, os.Stdout, s, m, a, r)
		})
		if err != nil {
			return err
		}
	}

	if s.Errors() != 0 {
		return errFailed
	}

	return nil
}

func replAct(c *cli.Command) error {
	ctx := rootContext()

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := compiler.NewSession(compiler.Config{ModuleName: "repl"})
	m := interp.New()

	err := repl(ctx, os.Stdout, os.Stderr, s, m, ln)

	if f, e := os.Create(histPath); e == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}

	return err
}

// repl compiles and evaluates everything typed into ed as one unit,
// so a construct may span lines. Errors are reported to errw and the
// session goes on.
func repl(ctx context.Context, w, errw io.Writer, s *compiler.Session, m *interp.Machine, ed lineEditor) error {
	r := &promptReader{ed: ed, w: w, s: s}

	err := s.CompileReader(ctx, "<stdin>", r, func(res compiler.Result) error {
		if res.Err != nil {
			fmt.Fprintf(errw, "error: %v\n", res.Err)
			return nil
		}

		if err := evaluate(ctx, w, s, m, res); err != nil {
			fmt.Fprintf(errw, "error: %v\n", err)
		}

		return nil
	})

	fmt.Fprintln(w)

	return err
}

// replCommand handles :quit and :ssa. It reports whether to exit.
func replCommand(w io.Writer, s *compiler.Session, line string) (exit bool) {
	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return true
	case ":ssa":
		ssa.FprintModule(w, s.Module())
	default:
		fmt.Fprintf(w, "unknown command %s (:ssa, :quit)\n", line)
	}

	return false
}

func withFile(name string, f func(r io.Reader) error) error {
	file, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "open")
	}

	defer file.Close()

	return f(file)
}

// emitTokens prints every token of the input, EOF included.
func emitTokens(w io.Writer, name string, r io.Reader) error {
	var errs []string
	errh := func(line, col uint32, msg string) {
		errs = append(errs, fmt.Sprintf("%s:%d:%d: %s", name, line, col, msg))
	}

	s := syntax.NewScanner(name, r, errh)

	fmt.Fprintf(w, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(w, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()

		fmt.Fprintf(w, "%-20s %-12s %q\n", s.Pos(), tok, s.Literal())

		if tok.IsEOF() {
			break
		}
	}

	if len(errs) != 0 {
		return errors.New("%s", strings.Join(errs, "\n"))
	}

	return nil
}

// emitAST parses the input and prints each top-level construct.
func emitAST(w io.Writer, name string, r io.Reader, asJSON bool) error {
	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}

	p := syntax.NewParser(name, r, syntax.NewOpTable(), errh)

	for _, d := range p.Parse() {
		if asJSON {
			if err := syntax.FprintJSON(w, d); err != nil {
				return errors.Wrap(err, "json")
			}

			continue
		}

		syntax.Fprint(w, d)
	}

	if len(errs) != 0 {
		return errors.New("%s", strings.Join(errs, "\n"))
	}

	return nil
}

// emitSSA builds the input and prints each function as it is built.
func emitSSA(ctx context.Context, w io.Writer, name string, r io.Reader, verify bool) error {
	s := compiler.NewSession(compiler.Config{
		ModuleName: name,
		Verify:     verify,
		DumpSSA:    w,
	})

	return compile(ctx, s, name, r)
}

// emitLL builds the input and prints it as LLVM IR.
func emitLL(ctx context.Context, w io.Writer, name string, r io.Reader) error {
	s := compiler.NewSession(compiler.Config{
		ModuleName: name,
		Verify:     true,
	})

	err := compile(ctx, s, name, r)
	if err != nil {
		return err
	}

	err = ssa.VerifyModule(s.Module())
	if err != nil {
		return errors.Wrap(err, "verify module")
	}

	return codegen.Emit(w, s.Module())
}

// compile builds all of r, reporting failures to stderr.
func compile(ctx context.Context, s *compiler.Session, name string, r io.Reader) error {
	err := s.CompileReader(ctx, name, r, func(res compiler.Result) error {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", res.Err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if s.Errors() != 0 {
		return errFailed
	}

	return nil
}

// run compiles r and evaluates each top-level expression right after it is built.
// Compilation errors are reported to stderr and skipped.
func run(ctx context.Context, w io.Writer, s *compiler.Session, m *interp.Machine, name string, r io.Reader) error {
	return s.CompileReader(ctx, name, r, func(res compiler.Result) error {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", res.Err)
			return nil
		}

		return evaluate(ctx, w, s, m, res)
	})
}

// evaluate runs res if it is a top-level expression and prints its value.
// Functions built so far are linked into m either way.
func evaluate(ctx context.Context, w io.Writer, s *compiler.Session, m *interp.Machine, res compiler.Result) error {
	if !res.IsAnon() {
		return nil
	}

	mod := s.TakeModule()

	x, err := m.Call(ctx, mod, rtabi.AnonExpr)

	// Definitions stay callable even if the expression failed.
	mod.Remove(rtabi.AnonExpr)
	m.Link(mod)

	if err != nil {
		return errors.Wrap(err, "evaluate")
	}

	fmt.Fprintf(w, "Evaluated to %f\n", x)

	return nil
}
