package testkit

import (
	"context"
	"fmt"

	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/ir"
	"kira/internal/irgen"
	"kira/internal/lexer"
	"kira/internal/parser"
	"kira/internal/source"
)

// Parse runs the front end over an in-memory source.
// The first error diagnostic, if any, is returned as an error.
func Parse(input string) (*ast.Builder, *ast.Program, *source.File, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(input)))
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	tree := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(file, lx, tree, parser.Options{Reporter: reporter, MaxErrors: 100})
	if d, ok := bag.FirstError(); ok {
		return nil, nil, file, fmt.Errorf("%s: %s", d.Code.ID(), d.Message)
	}
	return tree, res.Program, file, nil
}

// Lower parses input and generates its IR module.
func Lower(input string) (*ir.Module, error) {
	tree, prog, _, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return irgen.Generate(context.Background(), tree, prog)
}
