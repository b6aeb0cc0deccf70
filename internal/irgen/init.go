package irgen

import (
	"kira/internal/ast"
)

// flattenInit reshapes a braced initializer into row-major order for an
// array of shape dims, padding with NoExprID (zero).
//
// A nested list is aligned to the largest trailing sub-array whose size
// divides the number of elements filled so far; a list where no such
// sub-array exists, or one that overflows its shape, is invalid.
func (g *generator) flattenInit(id ast.InitID, dims []int) ([]ast.ExprID, error) {
	in := g.tree.Inits.Get(id)
	if !in.IsList {
		return nil, newError(ErrInvalidInit, "", in.Span)
	}
	return g.fillList(in, dims)
}

func (g *generator) fillList(in *ast.Init, dims []int) ([]ast.ExprID, error) {
	total := product(dims)
	out := make([]ast.ExprID, 0, total)
	for _, elemID := range in.Elems {
		elem := g.tree.Inits.Get(elemID)
		if !elem.IsList {
			out = append(out, elem.Expr)
		} else {
			sub := alignedSubShape(len(out), dims)
			if sub == nil {
				return nil, newError(ErrInvalidInit, "", elem.Span)
			}
			part, err := g.fillList(elem, sub)
			if err != nil {
				return nil, err
			}
			out = append(out, part...)
		}
		if len(out) > total {
			return nil, newError(ErrInvalidInit, "", elem.Span)
		}
	}
	for len(out) < total {
		out = append(out, ast.NoExprID)
	}
	return out, nil
}

// alignedSubShape returns the largest proper suffix of dims whose size divides filled.
func alignedSubShape(filled int, dims []int) []int {
	for k := 1; k < len(dims); k++ {
		if filled%product(dims[k:]) == 0 {
			return dims[k:]
		}
	}
	return nil
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}
