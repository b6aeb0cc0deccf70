package irgen_test

import (
	"context"
	"strings"
	"testing"

	"kira/internal/ir"
	"kira/internal/irgen"
	"kira/internal/testkit"
)

// lower parses input and runs Generate on it; parse errors fail the test.
func lower(t *testing.T, input string) (*ir.Module, error) {
	t.Helper()
	tree, prog, _, err := testkit.Parse(input)
	if err != nil {
		t.Fatalf("unexpected parse error %v", err)
	}
	return irgen.Generate(context.Background(), tree, prog)
}

func mustLower(t *testing.T, input string) *ir.Module {
	t.Helper()
	m, err := lower(t, input)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := testkit.CheckIRInvariants(m); err != nil {
		t.Fatalf("invariants: %v\n%s", err, m)
	}
	return m
}

// funcText returns the dump of one defined function.
func funcText(t *testing.T, m *ir.Module, name string) string {
	t.Helper()
	text := m.String()
	start := strings.Index(text, "fun @"+name+"(")
	if start < 0 {
		t.Fatalf("function %s not found in\n%s", name, text)
	}
	text = text[start:]
	return text[:strings.Index(text, "}\n")+2]
}

func mustFunc(t *testing.T, m *ir.Module, name string) *ir.Func {
	t.Helper()
	f, ok := m.FuncByName(name)
	if !ok {
		t.Fatalf("function %s not found", name)
	}
	return f
}

// countKind counts instructions of kind k laid out in f.
func countKind(m *ir.Module, f *ir.Func, k ir.ValueKind) int {
	n := 0
	for _, bb := range f.Layout {
		for _, inst := range f.Block(bb).Insts {
			if m.Value(inst).Kind == k {
				n++
			}
		}
	}
	return n
}
