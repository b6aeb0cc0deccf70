package irgen

import (
	"kira/internal/ast"
)

// evalConst folds e at compile time. Anything that is not built from
// literals and scalar constants fails with ErrFailedToEval.
func (g *generator) evalConst(e ast.ExprID) (int32, error) {
	exprs := g.tree.Exprs
	expr := exprs.Get(e)
	fail := newError(ErrFailedToEval, "", expr.Span)
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := exprs.Literal(e)
		return lit.Value, nil
	case ast.ExprLVal:
		lv, _ := exprs.LVal(e)
		b, err := g.scopes.Resolve(lv.Name)
		if err != nil {
			return 0, scopeError(err, lv.Name, expr.Span)
		}
		if b.kind != bindConst || len(lv.Indices) > 0 {
			fail.Name = lv.Name
			return 0, fail
		}
		return b.value, nil
	case ast.ExprUnary:
		u, _ := exprs.Unary(e)
		v, err := g.evalConst(u.Operand)
		if err != nil {
			return 0, err
		}
		switch u.Op {
		case ast.UnaryMinus:
			return -v, nil
		case ast.UnaryNot:
			return boolInt(v == 0), nil
		}
		return v, nil
	case ast.ExprBinary:
		bin, _ := exprs.Binary(e)
		l, err := g.evalConst(bin.Left)
		if err != nil {
			return 0, err
		}
		// && и || сворачиваются с коротким замыканием, как в рантайме
		if bin.Op == ast.BinLogicalAnd && l == 0 {
			return 0, nil
		}
		if bin.Op == ast.BinLogicalOr && l != 0 {
			return 1, nil
		}
		r, err := g.evalConst(bin.Right)
		if err != nil {
			return 0, err
		}
		v, ok := foldBinary(bin.Op, l, r)
		if !ok {
			return 0, fail
		}
		return v, nil
	}
	return 0, fail
}

// foldBinary applies op with 32-bit wrapping; division by zero does not fold.
func foldBinary(op ast.BinaryOp, l, r int32) (int32, bool) {
	switch op {
	case ast.BinAdd:
		return l + r, true
	case ast.BinSub:
		return l - r, true
	case ast.BinMul:
		return l * r, true
	case ast.BinDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case ast.BinMod:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case ast.BinLt:
		return boolInt(l < r), true
	case ast.BinGt:
		return boolInt(l > r), true
	case ast.BinLe:
		return boolInt(l <= r), true
	case ast.BinGe:
		return boolInt(l >= r), true
	case ast.BinEq:
		return boolInt(l == r), true
	case ast.BinNe:
		return boolInt(l != r), true
	case ast.BinLogicalAnd:
		return boolInt(l != 0 && r != 0), true
	case ast.BinLogicalOr:
		return boolInt(l != 0 || r != 0), true
	}
	return 0, false
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
