package syntax

import "fmt"

// Pos is a place in a compilation unit: a file, or "<stdin>" for
// interactive input, which is one unit however many lines are typed.
// The zero Pos is unknown.
type Pos struct {
	unit      string
	line, col uint32 // 1-based; col counts runes
}

func NewPos(unit string, line, col uint32) Pos {
	return Pos{unit: unit, line: line, col: col}
}

// String formats p as "unit:line:col", or "line:col" for an unnamed unit.
func (p Pos) String() string {
	if p.unit == "" {
		return fmt.Sprintf("%d:%d", p.line, p.col)
	}

	return fmt.Sprintf("%s:%d:%d", p.unit, p.line, p.col)
}

func (p Pos) IsValid() bool { return p.line > 0 }

func (p Pos) Line() uint32 { return p.line }
func (p Pos) Col() uint32  { return p.col }

// Unit names the compilation unit p is in.
func (p Pos) Unit() string { return p.unit }
