package irgen

import (
	"fortio.org/safecast"

	"kira/internal/ast"
	"kira/internal/ir"
)

// maxArrayWords caps array sizes so byte offsets stay within int32.
const maxArrayWords = 1 << 28

func arrayType(elem *ir.Type, dims []int) *ir.Type {
	ty := elem
	for i := len(dims) - 1; i >= 0; i-- {
		ty = ir.ArrayOf(ty, dims[i])
	}
	return ty
}

// evalDims folds every dimension; each must be positive.
func (g *generator) evalDims(exprs []ast.ExprID) ([]int, error) {
	dims := make([]int, 0, len(exprs))
	total := 1
	for _, e := range exprs {
		n, err := g.evalConst(e)
		if err != nil {
			return nil, err
		}
		if n <= 0 || total*int(n) > maxArrayWords {
			return nil, newError(ErrInvalidArrayLen, "", g.tree.Exprs.Get(e).Span)
		}
		total *= int(n)
		dims = append(dims, int(n))
	}
	return dims, nil
}

func (g *generator) globalDecl(decl *ast.Decl) error {
	for i := range decl.Defs {
		if err := g.globalDef(decl.Const, &decl.Defs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) globalDef(isConst bool, def *ast.VarDef) error {
	if isConst && !def.IsArray() {
		return g.defineConst(def)
	}
	var (
		init ir.ValueID
		ty   = ir.I32()
	)
	if def.IsArray() {
		dims, err := g.evalDims(def.Dims)
		if err != nil {
			return err
		}
		ty = arrayType(ir.I32(), dims)
		if def.Init.IsValid() {
			flat, err := g.flattenInit(def.Init, dims)
			if err != nil {
				return err
			}
			values, err := g.foldFlat(flat)
			if err != nil {
				return err
			}
			init = g.aggregate(ty, values)
		}
	} else if def.Init.IsValid() {
		in := g.tree.Inits.Get(def.Init)
		if in.IsList {
			return newError(ErrInvalidInit, def.Name, in.Span)
		}
		v, err := g.evalConst(in.Expr)
		if err != nil {
			return err
		}
		init = g.m.Integer(v)
	}
	if !init.IsValid() {
		init = g.m.ZeroInit(ty)
	}
	ptr := g.m.GlobalAlloc("@"+def.Name, init)
	return g.define(def, binding{kind: bindVar, ptr: ptr, isArr: def.IsArray(), konst: isConst})
}

// defineConst folds a scalar constant and binds it; no IR is produced.
func (g *generator) defineConst(def *ast.VarDef) error {
	in := g.tree.Inits.Get(def.Init)
	if in == nil || in.IsList {
		return newError(ErrInvalidInit, def.Name, def.NameSpan)
	}
	v, err := g.evalConst(in.Expr)
	if err != nil {
		return err
	}
	return g.define(def, binding{kind: bindConst, value: v})
}

func (g *generator) define(def *ast.VarDef, b binding) error {
	if err := g.scopes.Define(def.Name, b); err != nil {
		return scopeError(err, def.Name, def.NameSpan)
	}
	return nil
}

// aggregate builds a nested Aggregate of ty from row-major values.
func (g *generator) aggregate(ty *ir.Type, values []int32) ir.ValueID {
	if ty.Kind != ir.TypeArray {
		return g.m.Integer(values[0])
	}
	step := len(values) / ty.Len
	elems := make([]ir.ValueID, ty.Len)
	for i := range elems {
		elems[i] = g.aggregate(ty.Elem, values[i*step:(i+1)*step])
	}
	return g.m.Aggregate(ty, elems)
}

func (g *generator) foldFlat(flat []ast.ExprID) ([]int32, error) {
	values := make([]int32, len(flat))
	for i, e := range flat {
		if !e.IsValid() {
			continue
		}
		v, err := g.evalConst(e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// localDecl lowers a declaration inside a function body.
func (fl *funcLowerer) localDecl(decl *ast.Decl) error {
	for i := range decl.Defs {
		def := &decl.Defs[i]
		var err error
		switch {
		case decl.Const && !def.IsArray():
			err = fl.g.defineConst(def)
		case def.IsArray():
			err = fl.localArray(decl.Const, def)
		default:
			err = fl.localScalar(def)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (fl *funcLowerer) localScalar(def *ast.VarDef) error {
	var init ir.ValueID
	if def.Init.IsValid() {
		in := fl.g.tree.Inits.Get(def.Init)
		if in.IsList {
			return newError(ErrInvalidInit, def.Name, in.Span)
		}
		v, err := fl.expr(in.Expr)
		if err != nil {
			return err
		}
		if init, err = fl.intoInt(v, in.Expr); err != nil {
			return err
		}
	}
	slot := fl.b.Alloc(ir.I32(), "@"+def.Name)
	if init.IsValid() {
		fl.b.Store(init, slot)
	}
	return fl.g.define(def, binding{kind: bindVar, ptr: slot})
}

// localArray allocates the array and stores every element of the initializer,
// zero padding included, through a getelemptr chain.
func (fl *funcLowerer) localArray(isConst bool, def *ast.VarDef) error {
	g := fl.g
	dims, err := g.evalDims(def.Dims)
	if err != nil {
		return err
	}
	ty := arrayType(ir.I32(), dims)
	var (
		flat   []ast.ExprID
		values []ir.ValueID
	)
	if def.Init.IsValid() {
		if flat, err = g.flattenInit(def.Init, dims); err != nil {
			return err
		}
		values = make([]ir.ValueID, len(flat))
		for i, e := range flat {
			switch {
			case !e.IsValid():
				values[i] = g.m.Integer(0)
			case isConst:
				v, err := g.evalConst(e)
				if err != nil {
					return err
				}
				values[i] = g.m.Integer(v)
			default:
				v, err := fl.expr(e)
				if err != nil {
					return err
				}
				if values[i], err = fl.intoInt(v, e); err != nil {
					return err
				}
			}
		}
	}
	slot := fl.b.Alloc(ty, "@"+def.Name)
	for i, v := range values {
		ptr := slot
		rest := i
		for d := range dims {
			stride := 1
			for _, n := range dims[d+1:] {
				stride *= n
			}
			idx, err := safecast.Conv[int32](rest / stride)
			if err != nil {
				return newError(ErrInvalidArrayLen, def.Name, def.NameSpan)
			}
			ptr = fl.b.GetElemPtr(ptr, g.m.Integer(idx))
			rest %= stride
		}
		fl.b.Store(v, ptr)
	}
	return g.define(def, binding{kind: bindVar, ptr: slot, isArr: true, konst: isConst})
}
