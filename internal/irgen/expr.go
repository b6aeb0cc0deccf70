package irgen

import (
	"kira/internal/ast"
	"kira/internal/ir"
)

type expKind uint8

const (
	expVoid   expKind = iota // result of a void call
	expInt                   // ready scalar
	expIntPtr                // address of a scalar, loaded on use
	expArrPtr                // address of an aggregate (or decayed array parameter)
)

// expValue is the category-tagged result of lowering an expression.
type expValue struct {
	kind expKind
	v    ir.ValueID
	// decayed marks an expArrPtr that already points at the first element
	// (an array parameter used without indices).
	decayed bool
	konst   bool // named constant or element of a const array
}

// intoInt yields a scalar, loading through an IntPtr.
func (fl *funcLowerer) intoInt(v expValue, e ast.ExprID) (ir.ValueID, error) {
	switch v.kind {
	case expInt:
		return v.v, nil
	case expIntPtr:
		return fl.b.Load(v.v), nil
	case expArrPtr:
		return ir.NoValueID, newError(ErrNonIntCalc, "", fl.g.tree.Exprs.Get(e).Span)
	}
	return ir.NoValueID, newError(ErrUseVoidValue, "", fl.g.tree.Exprs.Get(e).Span)
}

// intoPtr yields the store address of an lvalue.
func (fl *funcLowerer) intoPtr(v expValue, e ast.ExprID) (ir.ValueID, error) {
	sp := fl.g.tree.Exprs.Get(e).Span
	switch {
	case v.konst:
		return ir.NoValueID, newError(ErrConstAssign, lvalName(fl.g.tree, e), sp)
	case v.kind == expIntPtr:
		return v.v, nil
	}
	return ir.NoValueID, newError(ErrArrayAssign, lvalName(fl.g.tree, e), sp)
}

func lvalName(tree *ast.Builder, e ast.ExprID) string {
	if lv, ok := tree.Exprs.LVal(e); ok {
		return lv.Name
	}
	return ""
}

// intoArrayArg yields the element pointer passed for an array parameter.
func (fl *funcLowerer) intoArrayArg(v expValue) (ir.ValueID, bool) {
	if v.kind != expArrPtr {
		return ir.NoValueID, false
	}
	if v.decayed {
		return v.v, true
	}
	return fl.b.GetElemPtr(v.v, fl.g.m.Integer(0)), true
}

var binaryOps = map[ast.BinaryOp]ir.BinaryOp{
	ast.BinAdd: ir.OpAdd,
	ast.BinSub: ir.OpSub,
	ast.BinMul: ir.OpMul,
	ast.BinDiv: ir.OpDiv,
	ast.BinMod: ir.OpMod,
	ast.BinLt:  ir.OpLt,
	ast.BinGt:  ir.OpGt,
	ast.BinLe:  ir.OpLe,
	ast.BinGe:  ir.OpGe,
	ast.BinEq:  ir.OpEq,
	ast.BinNe:  ir.OpNotEq,
}

func (fl *funcLowerer) expr(e ast.ExprID) (expValue, error) {
	exprs := fl.g.tree.Exprs
	switch exprs.Get(e).Kind {
	case ast.ExprLit:
		lit, _ := exprs.Literal(e)
		return expValue{kind: expInt, v: fl.g.m.Integer(lit.Value)}, nil
	case ast.ExprLVal:
		return fl.lval(e)
	case ast.ExprUnary:
		return fl.unary(e)
	case ast.ExprBinary:
		bin, _ := exprs.Binary(e)
		switch bin.Op {
		case ast.BinLogicalAnd:
			return fl.logical(andShape, bin.Left, bin.Right)
		case ast.BinLogicalOr:
			return fl.logical(orShape, bin.Left, bin.Right)
		}
		lhs, err := fl.scalar(bin.Left)
		if err != nil {
			return expValue{}, err
		}
		rhs, err := fl.scalar(bin.Right)
		if err != nil {
			return expValue{}, err
		}
		return expValue{kind: expInt, v: fl.b.Binary(binaryOps[bin.Op], lhs, rhs)}, nil
	case ast.ExprCall:
		return fl.call(e)
	}
	return expValue{}, newError(ErrFailedToEval, "", exprs.Get(e).Span)
}

// scalar lowers e and converts it to an int value.
func (fl *funcLowerer) scalar(e ast.ExprID) (ir.ValueID, error) {
	v, err := fl.expr(e)
	if err != nil {
		return ir.NoValueID, err
	}
	return fl.intoInt(v, e)
}

// unary: -x is 0 - x, !x is x == 0, +x is x.
func (fl *funcLowerer) unary(e ast.ExprID) (expValue, error) {
	u, _ := fl.g.tree.Exprs.Unary(e)
	x, err := fl.scalar(u.Operand)
	if err != nil {
		return expValue{}, err
	}
	zero := fl.g.m.Integer(0)
	switch u.Op {
	case ast.UnaryMinus:
		x = fl.b.Binary(ir.OpSub, zero, x)
	case ast.UnaryNot:
		x = fl.b.Binary(ir.OpEq, x, zero)
	}
	return expValue{kind: expInt, v: x}, nil
}

// lval resolves a name with indices to a scalar, a scalar address or an array address.
func (fl *funcLowerer) lval(e ast.ExprID) (expValue, error) {
	g := fl.g
	lv, _ := g.tree.Exprs.LVal(e)
	sp := g.tree.Exprs.Get(e).Span
	b, err := g.scopes.Resolve(lv.Name)
	if err != nil {
		return expValue{}, scopeError(err, lv.Name, sp)
	}
	switch b.kind {
	case bindConst:
		if len(lv.Indices) > 0 {
			return expValue{}, newError(ErrDerefInt, lv.Name, sp)
		}
		return expValue{kind: expInt, v: g.m.Integer(b.value), konst: true}, nil
	case bindFunc:
		return expValue{}, newError(ErrSymbolNotFound, lv.Name, sp)
	}

	ptr := b.ptr
	pointee := g.m.Value(ptr).Ty.Elem
	indices := lv.Indices
	if pointee.IsPtr() {
		// параметр-массив: в слоте лежит указатель на первый элемент
		ptr = fl.b.Load(ptr)
		if len(indices) == 0 {
			return expValue{kind: expArrPtr, v: ptr, decayed: true}, nil
		}
		idx, err := fl.scalar(indices[0])
		if err != nil {
			return expValue{}, err
		}
		ptr = fl.b.GetPtr(ptr, idx)
		pointee = pointee.Elem
		indices = indices[1:]
	}
	for _, ie := range indices {
		if pointee.Kind != ir.TypeArray {
			return expValue{}, newError(ErrDerefInt, lv.Name, sp)
		}
		idx, err := fl.scalar(ie)
		if err != nil {
			return expValue{}, err
		}
		ptr = fl.b.GetElemPtr(ptr, idx)
		pointee = pointee.Elem
	}
	if pointee.Kind == ir.TypeArray {
		return expValue{kind: expArrPtr, v: ptr, konst: b.konst}, nil
	}
	return expValue{kind: expIntPtr, v: ptr, konst: b.konst}, nil
}

// call evaluates arguments left to right and checks them against the callee's parameters.
func (fl *funcLowerer) call(e ast.ExprID) (expValue, error) {
	g := fl.g
	c, _ := g.tree.Exprs.Call(e)
	sp := g.tree.Exprs.Get(e).Span
	b, err := g.scopes.Resolve(c.Name)
	if err != nil {
		return expValue{}, scopeError(err, c.Name, sp)
	}
	if b.kind != bindFunc {
		return expValue{}, newError(ErrSymbolNotFound, c.Name, sp)
	}
	callee := b.fn
	if len(c.Args) != len(callee.Params) {
		return expValue{}, newError(ErrArgMismatch, c.Name, sp)
	}
	args := make([]ir.ValueID, len(c.Args))
	for i, ae := range c.Args {
		v, err := fl.expr(ae)
		if err != nil {
			return expValue{}, err
		}
		param := callee.Params[i]
		if !param.IsPtr() {
			if v.kind == expArrPtr {
				return expValue{}, newError(ErrArgMismatch, c.Name, g.tree.Exprs.Get(ae).Span)
			}
			if args[i], err = fl.intoInt(v, ae); err != nil {
				return expValue{}, err
			}
			continue
		}
		arg, ok := fl.intoArrayArg(v)
		if !ok || !g.m.Value(arg).Ty.Equal(param) {
			return expValue{}, newError(ErrArgMismatch, c.Name, g.tree.Exprs.Get(ae).Span)
		}
		args[i] = arg
	}
	call := fl.b.Call(callee, args)
	if callee.Ret.IsUnit() {
		return expValue{kind: expVoid}, nil
	}
	return expValue{kind: expInt, v: call}, nil
}

// logicShape describes one short-circuit operator: the result slot is seeded
// with lhs != 0 and rhs is evaluated only on the rhsOnTrue side of the branch.
type logicShape struct {
	prefix    string
	rhsOnTrue bool
}

var (
	andShape = logicShape{prefix: "land", rhsOnTrue: true}
	orShape  = logicShape{prefix: "lor", rhsOnTrue: false}
)

func (fl *funcLowerer) logical(shape logicShape, lhsExpr, rhsExpr ast.ExprID) (expValue, error) {
	zero := fl.g.m.Integer(0)
	result := fl.b.Alloc(ir.I32(), "")
	lhs, err := fl.scalar(lhsExpr)
	if err != nil {
		return expValue{}, err
	}
	norm := fl.b.Binary(ir.OpNotEq, lhs, zero)
	fl.b.Store(norm, result)

	rhsBB := fl.newBlock(shape.prefix + "_rhs")
	endBB := fl.newBlock(shape.prefix + "_end")
	if shape.rhsOnTrue {
		fl.b.Branch(norm, rhsBB, endBB)
	} else {
		fl.b.Branch(norm, endBB, rhsBB)
	}

	fl.startBlock(rhsBB)
	rhs, err := fl.scalar(rhsExpr)
	if err != nil {
		return expValue{}, err
	}
	fl.b.Store(fl.b.Binary(ir.OpNotEq, rhs, zero), result)
	fl.b.Jump(endBB)

	fl.startBlock(endBB)
	return expValue{kind: expInt, v: fl.b.Load(result)}, nil
}
