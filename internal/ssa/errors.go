package ssa

import (
	"fmt"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// Messages carried by NameError.
const (
	MsgUnknownVariable = "unknown variable name"
	MsgUnknownUnary    = "unknown unary operator"
	MsgUnknownBinary   = "unknown binary operator"
	MsgUnknownFunction = "unknown function referenced"
	MsgAssignTarget    = "destination of '=' must be a variable"
)

// NameError reports a reference that could not be resolved:
// a variable, function or operator, or an assignment to a non-variable.
type NameError struct {
	Pos  syntax.Pos
	Msg  string // one of the Msg constants
	Name string // the unresolved name, if any
}

func (e *NameError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Msg, e.Name)
}

// ArityError reports a call whose argument count does not match the callee.
type ArityError struct {
	Pos    syntax.Pos
	Callee string
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: incorrect number of arguments: %s takes %d, got %d", e.Pos, e.Callee, e.Want, e.Got)
}
