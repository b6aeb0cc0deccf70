package irgen

import (
	"kira/internal/ast"
	"kira/internal/ir"
	"kira/internal/scope"
	"kira/internal/trace"
)

type loopCtx struct {
	cond ir.BlockID // continue target
	exit ir.BlockID // break target
}

// funcLowerer is the build-time state of the function being lowered.
type funcLowerer struct {
	g         *generator
	f         *ir.Func
	b         *ir.Builder
	ret       ir.ValueID // hidden %ret slot, NoValueID for void functions
	body      ir.BlockID // first body block
	loopStack []loopCtx
}

func (g *generator) function(item *ast.FuncItem) error {
	span, _ := trace.StartSpan(g.ctx, trace.ScopeFunc, "func:"+item.Name)
	defer span.End("")

	params := make([]*ir.Type, 0, len(item.Params))
	for i := range item.Params {
		ty, err := g.paramType(&item.Params[i])
		if err != nil {
			return err
		}
		params = append(params, ty)
	}
	ret := ir.I32()
	if item.Void {
		ret = ir.Unit()
	}
	f, err := g.m.NewFunc(item.Name, params, ret)
	if err != nil {
		return newError(ErrDuplicatedDefinition, item.Name, item.NameSpan)
	}
	if err := g.scopes.Define(item.Name, binding{kind: bindFunc, fn: f}); err != nil {
		return scopeError(err, item.Name, item.NameSpan)
	}

	fl := &funcLowerer{g: g, f: f, b: ir.NewBuilder(g.m, f)}
	f.Entry = f.AppendBlock("entry")
	f.End = f.NewBlock("end")
	fl.body = f.AppendBlock("bb")
	fl.b.SetBlock(fl.body)
	if !item.Void {
		fl.ret = fl.b.Alloc(ir.I32(), "%ret")
	}

	g.scopes.Enter(scope.KindFunction)
	defer g.scopes.Exit()

	// параметры: alloc + store в entry
	fl.b.SetBlock(f.Entry)
	for i := range item.Params {
		p := &item.Params[i]
		slot := fl.b.Alloc(params[i], "%"+p.Name)
		fl.b.Store(f.Args[i], slot)
		if err := g.scopes.Define(p.Name, binding{kind: bindVar, ptr: slot, isArr: p.IsArray}); err != nil {
			return scopeError(err, p.Name, p.Span)
		}
	}
	fl.b.SetBlock(fl.body)

	// тело функции разделяет фрейм с параметрами
	for _, st := range g.tree.Stmts.Block(item.Body).Stmts {
		if err := fl.stmt(st); err != nil {
			return err
		}
	}
	fl.seal()
	return nil
}

// paramType: `int x` is i32, `int a[][N]` is *[i32, N], `int a[]` is *i32.
func (g *generator) paramType(p *ast.FuncParam) (*ir.Type, error) {
	if !p.IsArray {
		return ir.I32(), nil
	}
	dims, err := g.evalDims(p.Dims)
	if err != nil {
		return nil, err
	}
	return ir.PtrTo(arrayType(ir.I32(), dims)), nil
}

func (fl *funcLowerer) newBlock(name string) ir.BlockID {
	return fl.f.NewBlock(name)
}

// startBlock lays out bb and moves the insertion point there.
func (fl *funcLowerer) startBlock(bb ir.BlockID) {
	fl.f.Place(bb)
	fl.b.SetBlock(bb)
}

// openFresh starts a new block after a terminator so later code always has a home.
func (fl *funcLowerer) openFresh() {
	fl.startBlock(fl.newBlock("bb"))
}

// seal finishes the function: entry jumps to the first body block, the tail
// block either falls through to end or is pruned, and end returns.
func (fl *funcLowerer) seal() {
	f := fl.f
	fl.b.JumpAt(f.Entry, fl.body)

	tail := fl.b.Current()
	if len(f.Block(tail).Insts) == 0 && len(f.BlockUsers(tail)) == 0 {
		f.RemoveFromLayout(tail)
	} else if !fl.b.Terminated(tail) {
		fl.b.Jump(f.End)
	}

	fl.startBlock(f.End)
	if fl.ret.IsValid() {
		fl.b.Return(fl.b.Load(fl.ret))
	} else {
		fl.b.Return(ir.NoValueID)
	}
}
