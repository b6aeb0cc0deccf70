// Package irgen lowers a parsed program into the IR module.
package irgen

import (
	"context"
	"fmt"
	"strconv"

	"kira/internal/ast"
	"kira/internal/ir"
	"kira/internal/scope"
	"kira/internal/trace"
)

// generator holds the state shared by every function of one program.
type generator struct {
	ctx    context.Context
	tree   *ast.Builder
	m      *ir.Module
	scopes *scope.Stack[binding]
}

// Generate walks globals and functions in source order and builds the IR module.
// The first error aborts generation; the partial module must be discarded.
func Generate(ctx context.Context, tree *ast.Builder, prog *ast.Program) (*ir.Module, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "irgen")
	g := &generator{
		ctx:    ctx,
		tree:   tree,
		m:      ir.NewModule(),
		scopes: scope.New[binding](),
	}
	g.m.DeclareRuntime()
	for _, f := range g.m.Funcs {
		// runtime names are unique, the global frame is empty
		_ = g.scopes.Define(f.Name, binding{kind: bindFunc, fn: f})
	}

	for _, id := range prog.Items {
		if !g.scopes.IsGlobal() {
			panic(fmt.Sprintf("irgen: top-level item lowered at scope depth %d", g.scopes.Depth()))
		}
		var err error
		switch tree.Items.Get(id).Kind {
		case ast.ItemDecl:
			err = g.globalDecl(tree.Items.Decl(id))
		case ast.ItemFunc:
			err = g.function(tree.Items.Func(id))
		}
		if err != nil {
			span.End("failed")
			return nil, err
		}
	}
	span.WithExtra("funcs", strconv.Itoa(len(g.m.Funcs))).WithExtra("globals", strconv.Itoa(len(g.m.Globals))).End("")
	return g.m, nil
}
