package syntax

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/you-not-fish/kaleido/internal/rtabi"
)

// SyntaxError is returned when a required token is absent or of the wrong kind.
type SyntaxError struct {
	Pos      Pos
	Expected string // what the parser was looking for
	Found    string // description of the offending token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Parser performs syntax analysis on Kaleido source code.
// It yields one top-level construct per call to Next; operators
// defined by earlier constructs affect how later ones are parsed.
type Parser struct {
	scanner *Scanner
	ops     *OpTable

	// Current token info (cached from scanner)
	tok Token
	lit string
	val float64
	ch  rune
	pos Pos

	// Error handling
	errh   func(pos Pos, msg string)
	errcnt int
	first  error // first error encountered
}

// NewParser creates a new Parser for the given source.
// Operator precedences are looked up in ops, and def of an operator
// installs into it. If ops is nil, a freshly seeded table is used.
// The errh function is called for each error; it may be nil.
func NewParser(filename string, src io.Reader, ops *OpTable, errh func(pos Pos, msg string)) *Parser {
	if ops == nil {
		ops = NewOpTable()
	}

	p := &Parser{
		ops:  ops,
		errh: errh,
	}

	scanErrh := func(line, col uint32, msg string) {
		p.errorAt(NewPos(filename, line, col), msg)
	}

	p.scanner = NewScanner(filename, src, scanErrh)
	p.next() // prime the parser with first token
	return p
}

// OpTable returns the operator table the parser consults.
func (p *Parser) OpTable() *OpTable {
	return p.ops
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.val = p.scanner.Value()
	p.ch = p.scanner.Char()
	p.pos = p.scanner.Pos()
}

// isChar reports whether the current token is the character c.
func (p *Parser) isChar(c rune) bool {
	return p.tok == _Char && p.ch == c
}

// gotChar consumes the current token if it is the character c.
func (p *Parser) gotChar(c rune) bool {
	if p.isChar(c) {
		p.next()
		return true
	}
	return false
}

// wantChar consumes the character c or fails.
func (p *Parser) wantChar(c rune) error {
	if !p.gotChar(c) {
		return p.errorf("'%c'", c)
	}
	return nil
}

// want consumes tok or fails.
func (p *Parser) want(tok Token) error {
	if p.tok != tok {
		return p.errorf("%s", tok)
	}
	p.next()
	return nil
}

// ----------------------------------------------------------------------------
// Error handling

// errorf returns a SyntaxError at the current token.
func (p *Parser) errorf(expected string, args ...interface{}) error {
	return &SyntaxError{
		Pos:      p.pos,
		Expected: fmt.Sprintf(expected, args...),
		Found:    p.found(),
	}
}

// found describes the current token for error messages.
func (p *Parser) found() string {
	switch p.tok {
	case _EOF:
		return "EOF"
	case _Name:
		return "identifier " + strconv.Quote(p.lit)
	case _Number:
		return "number " + p.lit
	case _Char:
		return strconv.QuoteRune(p.ch)
	}
	return "keyword " + p.tok.String()
}

// errorAt counts an error and passes it to the error handler.
func (p *Parser) errorAt(pos Pos, msg string) {
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Expected: "valid input", Found: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}
}

// report records a failed top-level construct.
func (p *Parser) report(err error) {
	if p.errcnt == 0 {
		p.first = err
	}
	p.errcnt++

	if p.errh == nil {
		return
	}
	if se, ok := err.(*SyntaxError); ok {
		p.errh(se.Pos, "expected "+se.Expected+", found "+se.Found)
		return
	}
	p.errh(p.pos, err.Error())
}

// advance skips tokens until the start of the next top-level construct.
// The ';', def, extern or EOF it stops at is left for the next call,
// so nothing past the separator is read before the error is returned.
func (p *Parser) advance() {
	for p.tok != _EOF && p.tok != _Def && p.tok != _Extern && !p.isChar(';') {
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry points

// Next parses one top-level construct: a definition, an extern, or a
// bare expression wrapped into an anonymous function.
// It returns io.EOF once the input is exhausted.
//
// On a syntax error the parser skips ahead to the next top-level
// construct, so the following call continues with the rest of the input.
func (p *Parser) Next() (Decl, error) {
	for p.isChar(';') {
		p.next()
	}

	var d Decl
	var err error

	switch p.tok {
	case _EOF:
		return nil, io.EOF
	case _Def:
		d, err = p.funcDecl()
	case _Extern:
		d, err = p.externDecl()
	default:
		d, err = p.topLevelExpr()
	}

	if err != nil {
		p.report(err)
		p.advance()
		return nil, err
	}

	return d, nil
}

// Parse parses the remaining input and returns every construct that parsed
// successfully. Errors are reported through the error handler.
func (p *Parser) Parse() []Decl {
	var decls []Decl
	for {
		d, err := p.Next()
		if err == io.EOF {
			return decls
		}
		if err != nil {
			continue
		}
		decls = append(decls, d)
	}
}

// ----------------------------------------------------------------------------
// Top-level declarations

// funcDecl parses: def prototype expr
func (p *Parser) funcDecl() (Decl, error) {
	d := &FuncDecl{}
	d.pos = p.pos

	p.next() // def

	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}
	d.Proto = proto

	// The operator is usable in its own body.
	if proto.IsOperator() {
		undo := p.ops.Install(proto.Op, proto.Arity(), proto.Prec)

		d.Body, err = p.expr()
		if err != nil {
			undo()
			return nil, err
		}
		return d, nil
	}

	d.Body, err = p.expr()
	if err != nil {
		return nil, err
	}

	return d, nil
}

// externDecl parses: extern prototype
func (p *Parser) externDecl() (Decl, error) {
	p.next() // extern

	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}

	return proto, nil
}

// topLevelExpr parses an expression and wraps it into an anonymous function.
func (p *Parser) topLevelExpr() (Decl, error) {
	pos := p.pos

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	proto := &Prototype{Name: rtabi.AnonExpr, Kind: FuncProto}
	proto.pos = pos

	d := &FuncDecl{Proto: proto, Body: body}
	d.pos = pos

	return d, nil
}

// prototype parses:
//
//	name ( params )
//	unary op ( param )
//	binary op prec ( param param )
//
// Parameters may be separated by whitespace or commas.
func (p *Parser) prototype() (*Prototype, error) {
	proto := &Prototype{}
	proto.pos = p.pos

	switch p.tok {
	case _Name:
		proto.Name = p.lit
		proto.Kind = FuncProto
		p.next()

	case _Unary:
		p.next()
		op, err := p.operatorSymbol()
		if err != nil {
			return nil, err
		}
		proto.Kind = UnaryProto
		proto.Op = op
		proto.Name = rtabi.UnaryPrefix + string(op)

	case _Binary:
		p.next()
		op, err := p.operatorSymbol()
		if err != nil {
			return nil, err
		}
		proto.Kind = BinaryProto
		proto.Op = op
		proto.Name = rtabi.BinaryPrefix + string(op)

		if p.tok != _Number || p.val != math.Trunc(p.val) || p.val < MinPrec || p.val > MaxPrec {
			return nil, p.errorf("precedence %d..%d", MinPrec, MaxPrec)
		}
		proto.Prec = int(p.val)
		p.next()

	default:
		return nil, p.errorf("function name in prototype")
	}

	if err := p.wantChar('('); err != nil {
		return nil, err
	}

	for p.tok == _Name {
		n := &Name{Value: p.lit}
		n.pos = p.pos
		proto.Params = append(proto.Params, n)
		p.next()

		p.gotChar(',')
	}

	if err := p.wantChar(')'); err != nil {
		return nil, err
	}

	if proto.IsOperator() && len(proto.Params) != int(proto.Arity()) {
		return nil, &SyntaxError{
			Pos:      proto.pos,
			Expected: fmt.Sprintf("%d operands for %s operator", proto.Arity(), proto.Arity()),
			Found:    strconv.Itoa(len(proto.Params)),
		}
	}

	return proto, nil
}

// operatorSymbol parses the symbol of an operator prototype.
// Letters and digits would lex as names and numbers; parens, comma
// and semicolon are structural.
func (p *Parser) operatorSymbol() (rune, error) {
	if p.tok != _Char || p.ch >= utf8.RuneSelf {
		return 0, p.errorf("operator symbol")
	}

	switch p.ch {
	case '(', ')', ',', ';':
		return 0, p.errorf("operator symbol")
	}

	op := p.ch
	p.next()

	return op, nil
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() (Expr, error) {
	return p.binaryExpr(0)
}

// binaryExpr parses a binary expression with minimum precedence prec.
// Implements precedence climbing; every operator is left associative.
func (p *Parser) binaryExpr(prec int) (Expr, error) {
	x, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}

	for {
		// Precedence is read from the table now, not when the operator was defined.
		oprec := p.binaryPrec()
		if oprec <= prec {
			return x, nil
		}

		// Binary expression position starts at the left operand.
		op := &Operation{Op: p.ch, X: x}
		op.pos = x.Pos()

		p.next() // consume operator

		op.Y, err = p.binaryExpr(oprec)
		if err != nil {
			return nil, err
		}
		x = op
	}
}

// binaryPrec returns the precedence of the current token as a binary operator, or -1.
func (p *Parser) binaryPrec() int {
	if p.tok != _Char {
		return -1
	}
	return p.ops.BinaryPrec(p.ch)
}

// unaryExpr parses a chain of registered prefix operators and a primary expression.
func (p *Parser) unaryExpr() (Expr, error) {
	if p.tok == _Char && p.ops.IsUnary(p.ch) {
		op := &Operation{Op: p.ch}
		op.pos = p.pos
		p.next()

		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		op.X = x

		return op, nil
	}

	return p.primaryExpr()
}

// primaryExpr parses an operand.
func (p *Parser) primaryExpr() (Expr, error) {
	switch p.tok {
	case _Number:
		lit := &NumberLit{Value: p.val}
		lit.pos = p.pos
		p.next()
		return lit, nil

	case _Name:
		return p.nameOrCall()

	case _If:
		return p.ifExpr()

	case _For:
		return p.forExpr()

	case _Var:
		return p.varExpr()
	}

	if p.isChar('(') {
		p.next()
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.wantChar(')'); err != nil {
			return nil, err
		}
		return x, nil
	}

	return nil, p.errorf("expression")
}

// nameOrCall parses a variable reference or name(args...).
func (p *Parser) nameOrCall() (Expr, error) {
	pos, name := p.pos, p.lit
	p.next()

	if !p.gotChar('(') {
		n := &Name{Value: name}
		n.pos = pos
		return n, nil
	}

	call := &CallExpr{Callee: name}
	call.pos = pos

	if p.gotChar(')') {
		return call, nil
	}

	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.gotChar(')') {
			return call, nil
		}
		if !p.gotChar(',') {
			return nil, p.errorf("')' or ',' in argument list")
		}
	}
}

// ifExpr parses: if cond then expr else expr
func (p *Parser) ifExpr() (Expr, error) {
	x := &IfExpr{}
	x.pos = p.pos

	p.next() // if

	var err error
	if x.Cond, err = p.expr(); err != nil {
		return nil, err
	}
	if err = p.want(_Then); err != nil {
		return nil, err
	}
	if x.Then, err = p.expr(); err != nil {
		return nil, err
	}
	if err = p.want(_Else); err != nil {
		return nil, err
	}
	if x.Else, err = p.expr(); err != nil {
		return nil, err
	}

	return x, nil
}

// forExpr parses: for name = start, end [, step] in body
func (p *Parser) forExpr() (Expr, error) {
	x := &ForExpr{}
	x.pos = p.pos

	p.next() // for

	if p.tok != _Name {
		return nil, p.errorf("identifier after for")
	}
	x.Var = &Name{Value: p.lit}
	x.Var.pos = p.pos
	p.next()

	var err error
	if err = p.wantChar('='); err != nil {
		return nil, err
	}
	if x.Start, err = p.expr(); err != nil {
		return nil, err
	}
	if err = p.wantChar(','); err != nil {
		return nil, err
	}
	if x.End, err = p.expr(); err != nil {
		return nil, err
	}
	if p.gotChar(',') {
		if x.Step, err = p.expr(); err != nil {
			return nil, err
		}
	}
	if err = p.want(_In); err != nil {
		return nil, err
	}
	if x.Body, err = p.expr(); err != nil {
		return nil, err
	}

	return x, nil
}

// varExpr parses: var name [= init] (, name [= init])* in body
func (p *Parser) varExpr() (Expr, error) {
	x := &VarExpr{}
	x.pos = p.pos

	p.next() // var

	if p.tok != _Name {
		return nil, p.errorf("identifier after var")
	}

	for {
		b := &Binding{Name: &Name{Value: p.lit}}
		b.pos = p.pos
		b.Name.pos = p.pos
		p.next()

		if p.gotChar('=') {
			init, err := p.expr()
			if err != nil {
				return nil, err
			}
			b.Init = init
		}

		x.Bindings = append(x.Bindings, b)

		if !p.gotChar(',') {
			break
		}
		if p.tok != _Name {
			return nil, p.errorf("identifier list after var")
		}
	}

	var err error
	if err = p.want(_In); err != nil {
		return nil, err
	}
	if x.Body, err = p.expr(); err != nil {
		return nil, err
	}

	return x, nil
}
