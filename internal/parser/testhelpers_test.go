package parser

import (
	"fmt"
	"strings"
	"testing"

	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/lexer"
	"kira/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, *ast.Program, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(input))
	file := fs.Get(fileID)
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	res := ParseFile(file, lx, builder, Options{Reporter: reporter, MaxErrors: 100})
	return builder, res.Program, bag
}

func mustParse(t *testing.T, input string) (*ast.Builder, *ast.Program) {
	t.Helper()
	b, prog, bag := parseSource(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return b, prog
}
