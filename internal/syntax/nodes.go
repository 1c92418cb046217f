package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Declarations.
// Every construct in the language is an expression; declarations
// only appear at the top level.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Decl is the interface for all top-level nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// SetPos sets the node position. Used when building trees by hand.
func (n *node) SetPos(pos Pos) { n.pos = pos }

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// decl is embedded in all declaration nodes.
type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Declarations

// ProtoKind tells plain functions from operator definitions.
type ProtoKind uint8

const (
	FuncProto   ProtoKind = iota // name(params)
	UnaryProto                   // unary <op> (p)
	BinaryProto                  // binary <op> <prec> (p1 p2)
)

func (k ProtoKind) String() string {
	switch k {
	case FuncProto:
		return "func"
	case UnaryProto:
		return "unary"
	case BinaryProto:
		return "binary"
	}
	return "invalid"
}

// Prototype is a function signature.
// On its own it is an extern declaration: extern name(params)
type Prototype struct {
	decl
	Name   string    // function name; "unary"+op or "binary"+op for operators
	Params []*Name   // parameter names, order fixes arity
	Kind   ProtoKind // FuncProto, UnaryProto, BinaryProto
	Op     rune      // operator symbol (operators only)
	Prec   int       // binary operator precedence (BinaryProto only)
}

// IsOperator reports whether p defines a unary or binary operator.
func (p *Prototype) IsOperator() bool { return p.Kind != FuncProto }

// Arity returns the operator arity. Valid only if IsOperator.
func (p *Prototype) Arity() Arity {
	if p.Kind == UnaryProto {
		return Unary
	}
	return Binary
}

// ParamNames returns the parameter names in order.
func (p *Prototype) ParamNames() []string {
	names := make([]string, len(p.Params))
	for i, n := range p.Params {
		names[i] = n.Value
	}
	return names
}

// FuncDecl is a function definition: def Proto Body.
// Top-level expressions are wrapped into a FuncDecl with a
// parameterless prototype named "__anon_expr".
type FuncDecl struct {
	decl
	Proto *Prototype
	Body  Expr
}

// ----------------------------------------------------------------------------
// Expressions

// NumberLit represents a numeric literal.
type NumberLit struct {
	expr
	Value float64
}

// Name represents a variable reference.
type Name struct {
	expr
	Value string // identifier string
}

// Operation represents a unary or binary operation.
// For unary operations, Y is nil.
// For binary operations, both X and Y are set.
type Operation struct {
	expr
	Op rune // operator symbol
	X  Expr // left operand (or only operand for unary)
	Y  Expr // right operand (nil for unary)
}

// CallExpr represents a function call: Callee(Args...)
type CallExpr struct {
	expr
	Callee string // function name
	Args   []Expr // argument list
}

// IfExpr represents: if Cond then Then else Else
type IfExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// ForExpr represents: for Var = Start, End [, Step] in Body
// The loop variable is visible in End, Step and Body.
type ForExpr struct {
	expr
	Var   *Name
	Start Expr
	End   Expr
	Step  Expr // nil means 1.0
	Body  Expr
}

// Binding is one name = init pair of a var expression.
type Binding struct {
	node
	Name *Name
	Init Expr // nil means 0.0
}

// VarExpr represents: var a [= e] (, b [= e])* in Body
type VarExpr struct {
	expr
	Bindings []*Binding
	Body     Expr
}
