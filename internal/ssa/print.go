package ssa

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func name(a, b):
//	  b0: entry
//	    v0 = Alloca <ptr> {a}
//	    v2 = Arg <double> [0] {a}
//	    Store v0 v2
//	    v3 = Load <double> v0
//	    Return v3
//
// A declaration prints as a single "declare name(a, b)" line.
func Fprint(w io.Writer, f *Func) {
	params := strings.Join(f.Params, ", ")

	if f.IsDecl() {
		fmt.Fprintf(w, "declare %s(%s)\n", f.Name, params)
		return
	}

	fmt.Fprintf(w, "func %s(%s):\n", f.Name, params)

	for _, b := range f.Blocks {
		fprintBlock(w, b)
	}
}

// FprintModule writes every function of m, in module order,
// separated by blank lines.
func FprintModule(w io.Writer, m *Module) {
	for i, f := range m.Funcs {
		if i > 0 {
			fmt.Fprintf(w, "\n")
		}
		Fprint(w, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block) {
	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s: %s%s\n", b, b.Name, predsStr)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	// For void ops, don't print "vN = "
	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s <%s>", v.ID, v.Op, v.Type)
	}

	switch v.Op {
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%s]", strconv.FormatFloat(v.AuxFloat, 'g', -1, 64))
	case OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%v}", v.Aux)
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Plain -> %s", b.Succs[0])
		}
		return "Plain"
	case BlockIf:
		if len(b.Controls) > 0 && len(b.Succs) >= 2 {
			return fmt.Sprintf("If v%d -> %s %s", b.Controls[0].ID, b.Succs[0], b.Succs[1])
		}
		return "If (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	default:
		return "(unterminated)"
	}
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}
