package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labeled child one level deeper.
func (p *printer) field(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.print(n.Proto)
		p.field("Body", n.Body)
		p.indent--

	case *Prototype:
		p.printf("Prototype %s %s %s\n", n.pos, n.Kind, n.Name)
		p.indent++
		if n.Kind == BinaryProto {
			p.printf("Prec: %d\n", n.Prec)
		}
		if len(n.Params) > 0 {
			p.printf("Params: %s\n", strings.Join(n.ParamNames(), " "))
		}
		p.indent--

	case *NumberLit:
		p.printf("NumberLit %s %s\n", n.pos, formatNumber(n.Value))

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %c\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		} else {
			p.printf("BinaryOp %s %c\n", n.pos, n.Op)
			p.indent++
			p.field("X", n.X)
			p.field("Y", n.Y)
			p.indent--
		}

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.pos, n.Callee)
		if len(n.Args) > 0 {
			p.indent++
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
			p.indent--
		}

	case *IfExpr:
		p.printf("IfExpr %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		p.field("Else", n.Else)
		p.indent--

	case *ForExpr:
		p.printf("ForExpr %s %s\n", n.pos, n.Var.Value)
		p.indent++
		p.field("Start", n.Start)
		p.field("End", n.End)
		if n.Step != nil {
			p.field("Step", n.Step)
		}
		p.field("Body", n.Body)
		p.indent--

	case *VarExpr:
		p.printf("VarExpr %s\n", n.pos)
		p.indent++
		for _, b := range n.Bindings {
			p.print(b)
		}
		p.field("Body", n.Body)
		p.indent--

	case *Binding:
		p.printf("Binding %s %s\n", n.pos, n.Name.Value)
		if n.Init != nil {
			p.indent++
			p.print(n.Init)
			p.indent--
		}

	default:
		p.printf("<%T>\n", node)
	}
}

// String returns a compact, fully parenthesized form of n,
// e.g. "(1 < (2 + 3))" or "def binary|(a b) (if a then 1 else 0)".
func String(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")

	case *FuncDecl:
		b.WriteString("def ")
		writeNode(b, n.Proto)
		b.WriteByte(' ')
		writeNode(b, n.Body)

	case *Prototype:
		b.WriteString(n.Name)
		if n.Kind == BinaryProto {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(n.Prec))
		}
		b.WriteByte('(')
		b.WriteString(strings.Join(n.ParamNames(), " "))
		b.WriteByte(')')

	case *NumberLit:
		b.WriteString(formatNumber(n.Value))

	case *Name:
		b.WriteString(n.Value)

	case *Operation:
		b.WriteByte('(')
		if n.Y == nil {
			b.WriteRune(n.Op)
			writeNode(b, n.X)
		} else {
			writeNode(b, n.X)
			b.WriteByte(' ')
			b.WriteRune(n.Op)
			b.WriteByte(' ')
			writeNode(b, n.Y)
		}
		b.WriteByte(')')

	case *CallExpr:
		b.WriteString(n.Callee)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNode(b, a)
		}
		b.WriteByte(')')

	case *IfExpr:
		b.WriteString("(if ")
		writeNode(b, n.Cond)
		b.WriteString(" then ")
		writeNode(b, n.Then)
		b.WriteString(" else ")
		writeNode(b, n.Else)
		b.WriteByte(')')

	case *ForExpr:
		b.WriteString("(for ")
		b.WriteString(n.Var.Value)
		b.WriteString(" = ")
		writeNode(b, n.Start)
		b.WriteString(", ")
		writeNode(b, n.End)
		if n.Step != nil {
			b.WriteString(", ")
			writeNode(b, n.Step)
		}
		b.WriteString(" in ")
		writeNode(b, n.Body)
		b.WriteByte(')')

	case *VarExpr:
		b.WriteString("(var ")
		for i, bind := range n.Bindings {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNode(b, bind)
		}
		b.WriteString(" in ")
		writeNode(b, n.Body)
		b.WriteByte(')')

	case *Binding:
		b.WriteString(n.Name.Value)
		if n.Init != nil {
			b.WriteString(" = ")
			writeNode(b, n.Init)
		}

	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

// formatNumber prints a literal value the shortest way that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
