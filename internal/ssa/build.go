package ssa

import (
	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/kaleido/internal/syntax"
)

// Builder lowers top-level declarations into a Module.
// It lives for a whole session: the registry and operator table it
// updates are shared by every later declaration.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	mod    *Module
	protos *Registry
	ops    *syntax.OpTable
	scope  *Scope

	// declarations added to mod while building the current definition
	materialized []string
}

// builder holds the state for lowering a single function body.
type builder struct {
	*Builder

	fn *Func  // current SSA function
	b  *Block // current block (insertion point)

	nslots int // allocas at the head of the entry block
}

// NewBuilder creates a Builder that adds functions to mod.
// A nil protos or ops is replaced by a fresh one.
func NewBuilder(mod *Module, protos *Registry, ops *syntax.OpTable) *Builder {
	if protos == nil {
		protos = NewRegistry()
	}
	if ops == nil {
		ops = syntax.NewOpTable()
	}

	return &Builder{
		mod:    mod,
		protos: protos,
		ops:    ops,
		scope:  NewScope(),
	}
}

// Module returns the module being built.
func (g *Builder) Module() *Module { return g.mod }

// SetModule redirects later declarations into mod.
// Prototypes seen so far stay in the registry and are
// re-declared in mod on first reference.
func (g *Builder) SetModule(mod *Module) { g.mod = mod }

// Registry returns the prototype registry.
func (g *Builder) Registry() *Registry { return g.protos }

// OpTable returns the operator table.
func (g *Builder) OpTable() *syntax.OpTable { return g.ops }

// Build lowers one top-level declaration.
// An extern yields its declaration; a definition yields the new function.
// On error the registry, operator table and module are left as they were.
func (g *Builder) Build(d syntax.Decl) (*Func, error) {
	switch d := d.(type) {
	case *syntax.Prototype:
		return g.declare(d), nil
	case *syntax.FuncDecl:
		return g.define(d)
	default:
		return nil, errors.New("unsupported declaration: %T", d)
	}
}

// declare registers p and makes sure the module has a function named p.Name.
// An existing function of that name is kept as is.
func (g *Builder) declare(p *syntax.Prototype) *Func {
	g.protos.Register(p)

	if f := g.mod.Func(p.Name); f != nil {
		return f
	}

	f := NewDecl(p.Name, p.ParamNames())
	f.Pos = p.Pos()
	g.mod.Define(f)

	return f
}

// define lowers a function definition.
// The function is built detached and enters the module only on success,
// replacing any function of the same name.
func (g *Builder) define(fd *syntax.FuncDecl) (_ *Func, err error) {
	proto := fd.Proto

	undoProto := g.protos.Register(proto)

	var undoOp func()
	if proto.IsOperator() {
		undoOp = g.ops.Install(proto.Op, proto.Arity(), proto.Prec)
	}

	g.materialized = g.materialized[:0]

	defer func() {
		if err == nil {
			return
		}

		undoProto()
		if undoOp != nil {
			undoOp()
		}
		for _, name := range g.materialized {
			g.mod.Remove(name)
		}

		tlog.V("rollback").Printw("definition rolled back", "func", proto.Name, "materialized", g.materialized, "err", err, "from", loc.Caller(1))
	}()

	fn := NewFunc(proto.Name, proto.ParamNames())
	fn.Pos = proto.Pos()

	b := &builder{
		Builder: g,
		fn:      fn,
		b:       fn.Entry,
	}

	g.scope.Reset()

	// Emit parameters: OpArg + OpAlloca + OpStore for each.
	for i, p := range proto.Params {
		arg := fn.NewValuePos(fn.Entry, OpArg, TypeFloat, p.Pos())
		arg.AuxInt = int64(i)
		arg.Aux = p.Value

		slot := b.entryAlloca(p.Value, p.Pos())
		fn.NewValuePos(fn.Entry, OpStore, TypeVoid, p.Pos(), slot, arg)

		g.scope.Bind(p.Value, slot)
	}

	ret, err := b.expr(fd.Body)
	if err != nil {
		return nil, errors.Wrap(err, "define %v", proto.Name)
	}

	b.b.Return(ret)

	g.mod.Define(fn)

	tlog.V("ssa").Printw("built function", "func", fn.Name, "params", fn.Params, "blocks", fn.NumBlocks(), "values", fn.NumValues())

	return fn, nil
}

// entryAlloca creates a storage slot at the head of the entry block.
// Slots are grouped ahead of all other entry code, so each dominates every use.
func (b *builder) entryAlloca(name string, pos syntax.Pos) *Value {
	entry := b.fn.Entry

	slot := b.fn.NewValuePos(entry, OpAlloca, TypePtr, pos)
	slot.Aux = name

	vals := entry.Values
	copy(vals[b.nslots+1:], vals[b.nslots:len(vals)-1])
	vals[b.nslots] = slot
	b.nslots++

	return slot
}

// resolve finds the arity of the named function: the function being
// defined, then the module, then the registry. A function known only to
// the registry is declared in the module.
func (b *builder) resolve(name string) (nparams int, ok bool) {
	if name == b.fn.Name {
		return b.fn.NumParams(), true
	}

	if f := b.mod.Func(name); f != nil {
		return f.NumParams(), true
	}

	p, ok := b.protos.Lookup(name)
	if !ok {
		return 0, false
	}

	f := NewDecl(name, p.ParamNames())
	f.Pos = p.Pos()
	b.mod.Define(f)
	b.materialized = append(b.materialized, name)

	return len(p.Params), true
}

// ifExpr lowers: if cond then x else y
//
//	cur:    c = NeqF64 cond 0.0; If c -> then else
//	then:   ...; Plain -> ifcont
//	else:   ...; Plain -> ifcont
//	ifcont: Phi x y
func (b *builder) ifExpr(e *syntax.IfExpr) (*Value, error) {
	cond, err := b.expr(e.Cond)
	if err != nil {
		return nil, err
	}

	pos := e.Pos()
	zero := b.constFloat(0, pos)
	c := b.fn.NewValuePos(b.b, OpNeqF64, TypeBool, pos, cond, zero)

	bThen := b.fn.NewBlock("then")
	bElse := b.fn.NewBlock("else")
	bDone := b.fn.NewBlock("ifcont")

	b.b.Branch(c, bThen, bElse)

	// Lower then branch.
	b.b = bThen
	x, err := b.expr(e.Then)
	if err != nil {
		return nil, err
	}
	// Nested control flow may have moved the insertion point.
	thenEnd := b.b
	thenEnd.Jump(bDone)

	// Lower else branch.
	b.fn.placeLast(bElse)
	b.b = bElse
	y, err := b.expr(e.Else)
	if err != nil {
		return nil, err
	}
	elseEnd := b.b
	elseEnd.Jump(bDone)

	// Merge; phi args follow bDone.Preds: thenEnd, elseEnd.
	b.fn.placeLast(bDone)
	b.b = bDone

	phi := b.fn.NewValuePos(bDone, OpPhi, TypeFloat, pos)
	phi.AddArg(x)
	phi.AddArg(y)

	return phi, nil
}

// forExpr lowers: for v = start, end, step in body
//
// The body runs before the end condition is first tested, and the end
// condition sees the loop variable before it is stepped.
//
//	cur:       slot = Alloca; Store slot start; Plain -> loop
//	loop:      body; s = step; c = end; n = AddF64 (Load slot) s; Store slot n
//	           If (NeqF64 c 0.0) -> loop afterloop
//	afterloop: result 0.0
func (b *builder) forExpr(e *syntax.ForExpr) (*Value, error) {
	pos := e.Pos()
	name := e.Var.Value

	start, err := b.expr(e.Start)
	if err != nil {
		return nil, err
	}

	slot := b.entryAlloca(name, e.Var.Pos())
	b.fn.NewValuePos(b.b, OpStore, TypeVoid, pos, slot, start)

	bLoop := b.fn.NewBlock("loop")
	b.b.Jump(bLoop)
	b.b = bLoop

	// The loop variable shadows any outer binding until the loop ends.
	mark := b.scope.Mark()
	defer b.scope.Unwind(mark)

	b.scope.Bind(name, slot)

	if _, err := b.expr(e.Body); err != nil {
		return nil, err
	}

	var step *Value
	if e.Step != nil {
		step, err = b.expr(e.Step)
		if err != nil {
			return nil, err
		}
	} else {
		step = b.constFloat(1, pos)
	}

	end, err := b.expr(e.End)
	if err != nil {
		return nil, err
	}

	// The body may have assigned the variable, so reload it.
	cur := b.fn.NewValuePos(b.b, OpLoad, TypeFloat, pos, slot)
	next := b.fn.NewValuePos(b.b, OpAddF64, TypeFloat, pos, cur, step)
	b.fn.NewValuePos(b.b, OpStore, TypeVoid, pos, slot, next)

	zero := b.constFloat(0, pos)
	c := b.fn.NewValuePos(b.b, OpNeqF64, TypeBool, pos, end, zero)

	bAfter := b.fn.NewBlock("afterloop")
	b.b.Branch(c, bLoop, bAfter)
	b.b = bAfter

	return b.constFloat(0, pos), nil
}

// varExpr lowers: var a = x, b = y in body
// Each initializer sees the bindings before it.
func (b *builder) varExpr(e *syntax.VarExpr) (*Value, error) {
	mark := b.scope.Mark()
	defer b.scope.Unwind(mark)

	for _, bind := range e.Bindings {
		name := bind.Name.Value

		var init *Value
		if bind.Init != nil {
			v, err := b.expr(bind.Init)
			if err != nil {
				return nil, err
			}
			init = v
		} else {
			init = b.constFloat(0, bind.Pos())
		}

		slot := b.entryAlloca(name, bind.Pos())
		b.fn.NewValuePos(b.b, OpStore, TypeVoid, bind.Pos(), slot, init)

		b.scope.Bind(name, slot)
	}

	body, err := b.expr(e.Body)
	if err != nil {
		return nil, err
	}

	return body, nil
}
