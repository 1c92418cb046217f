package ssa

import (
	"tlog.app/go/errors"

	"github.com/you-not-fish/kaleido/internal/rtabi"
	"github.com/you-not-fish/kaleido/internal/syntax"
)

// expr lowers an expression to an SSA value of type double.
func (b *builder) expr(e syntax.Expr) (*Value, error) {
	switch e := e.(type) {
	case *syntax.NumberLit:
		return b.constFloat(e.Value, e.Pos()), nil

	case *syntax.Name:
		return b.nameExpr(e)

	case *syntax.Operation:
		if e.Y == nil {
			return b.unaryExpr(e)
		}
		return b.binaryExpr(e)

	case *syntax.CallExpr:
		return b.callExpr(e)

	case *syntax.IfExpr:
		return b.ifExpr(e)

	case *syntax.ForExpr:
		return b.forExpr(e)

	case *syntax.VarExpr:
		return b.varExpr(e)

	default:
		return nil, errors.New("unsupported expression: %T", e)
	}
}

func (b *builder) constFloat(x float64, pos syntax.Pos) *Value {
	v := b.fn.NewValuePos(b.b, OpConstFloat, TypeFloat, pos)
	v.AuxFloat = x

	return v
}

// nameExpr loads the current value of a variable.
func (b *builder) nameExpr(e *syntax.Name) (*Value, error) {
	slot, ok := b.scope.Lookup(e.Value)
	if !ok {
		return nil, &NameError{Pos: e.Pos(), Msg: MsgUnknownVariable, Name: e.Value}
	}

	return b.fn.NewValuePos(b.b, OpLoad, TypeFloat, e.Pos(), slot), nil
}

// unaryExpr lowers a prefix operator as a call to its operator function.
func (b *builder) unaryExpr(e *syntax.Operation) (*Value, error) {
	x, err := b.expr(e.X)
	if err != nil {
		return nil, err
	}

	name := rtabi.UnaryPrefix + string(e.Op)

	if _, ok := b.resolve(name); !ok {
		return nil, &NameError{Pos: e.Pos(), Msg: MsgUnknownUnary, Name: string(e.Op)}
	}

	return b.call(name, e.Pos(), x), nil
}

// binaryExpr lowers a binary operation.
// Assignment and the arithmetic and comparison builtins are lowered
// directly, anything else is a call to the user's operator function.
func (b *builder) binaryExpr(e *syntax.Operation) (*Value, error) {
	if e.Op == '=' {
		return b.assign(e)
	}

	x, err := b.expr(e.X)
	if err != nil {
		return nil, err
	}

	y, err := b.expr(e.Y)
	if err != nil {
		return nil, err
	}

	pos := e.Pos()

	switch e.Op {
	case '+':
		return b.fn.NewValuePos(b.b, OpAddF64, TypeFloat, pos, x, y), nil
	case '-':
		return b.fn.NewValuePos(b.b, OpSubF64, TypeFloat, pos, x, y), nil
	case '*':
		return b.fn.NewValuePos(b.b, OpMulF64, TypeFloat, pos, x, y), nil
	case '<':
		lt := b.fn.NewValuePos(b.b, OpLtF64, TypeBool, pos, x, y)
		return b.fn.NewValuePos(b.b, OpBoolToFloat, TypeFloat, pos, lt), nil
	}

	name := rtabi.BinaryPrefix + string(e.Op)

	if _, ok := b.resolve(name); !ok {
		return nil, &NameError{Pos: pos, Msg: MsgUnknownBinary, Name: string(e.Op)}
	}

	return b.call(name, pos, x, y), nil
}

// assign lowers x = y. The result is the stored value.
func (b *builder) assign(e *syntax.Operation) (*Value, error) {
	dst, ok := e.X.(*syntax.Name)
	if !ok {
		return nil, &NameError{Pos: e.X.Pos(), Msg: MsgAssignTarget}
	}

	val, err := b.expr(e.Y)
	if err != nil {
		return nil, err
	}

	slot, ok := b.scope.Lookup(dst.Value)
	if !ok {
		return nil, &NameError{Pos: dst.Pos(), Msg: MsgUnknownVariable, Name: dst.Value}
	}

	b.fn.NewValuePos(b.b, OpStore, TypeVoid, e.Pos(), slot, val)

	return val, nil
}

// callExpr lowers a call. Arguments are evaluated left to right.
func (b *builder) callExpr(e *syntax.CallExpr) (*Value, error) {
	want, ok := b.resolve(e.Callee)
	if !ok {
		return nil, &NameError{Pos: e.Pos(), Msg: MsgUnknownFunction, Name: e.Callee}
	}

	if want != len(e.Args) {
		return nil, &ArityError{Pos: e.Pos(), Callee: e.Callee, Want: want, Got: len(e.Args)}
	}

	args := make([]*Value, len(e.Args))
	for i, a := range e.Args {
		v, err := b.expr(a)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return b.call(e.Callee, e.Pos(), args...), nil
}

func (b *builder) call(callee string, pos syntax.Pos, args ...*Value) *Value {
	v := b.fn.NewValuePos(b.b, OpCall, TypeFloat, pos, args...)
	v.Aux = callee

	return v
}
