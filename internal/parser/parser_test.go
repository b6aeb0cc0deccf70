package parser

import (
	"strings"
	"testing"

	"kira/internal/ast"
	"kira/internal/diag"
)

func TestParseDump(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "minimal main",
			input: "int main() { return 0; }",
			want: `Func int main()
  Block
    Return 0
`,
		},
		{
			name:  "precedence",
			input: "int main() { return 1 + 2 * 3 - -4 % 5; }",
			want: `Func int main()
  Block
    Return ((1 + (2 * 3)) - ((-4) % 5))
`,
		},
		{
			name:  "logical and comparison",
			input: "int main() { return !a || b && c <= d == e; }",
			want: `Func int main()
  Block
    Return ((!a) || (b && ((c <= d) == e)))
`,
		},
		{
			name:  "globals and arrays",
			input: "const int N = 2, M = N * 2; int g[N][M] = {{1}, 2, 3};",
			want: `Const N = 2
Const M = (N * 2)
Var g[N][M] = {{1}, 2, 3}
`,
		},
		{
			name:  "params and calls",
			input: "void f(int a, int b[][3]) { putint(b[a][1]); ; }",
			want: `Func void f(int a, int b[][3])
  Block
    Expr putint(b[a][1])
    Empty
`,
		},
		{
			name: "control flow",
			input: `int main() {
  int i = 0;
  while (i < 10) { if (i == 5) break; else { i = i + 1; continue; } }
  return;
}`,
			want: `Func int main()
  Block
    Var i = 0
    While (i < 10)
      Block
        If (i == 5)
          Break
        Else
          Block
            Assign i = (i + 1)
            Continue
    Return
`,
		},
		{
			name:  "dangling else binds to nearest if",
			input: "int main() { if (a) if (b) return 1; else return 2; }",
			want: `Func int main()
  Block
    If a
      If b
        Return 1
      Else
        Return 2
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, prog := mustParse(t, tt.input)
			if got := ast.Dump(b, prog); got != tt.want {
				t.Fatalf("dump mismatch:\n got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestParseIntLiterals(t *testing.T) {
	tests := []struct {
		lit  string
		want int32
	}{
		{"0", 0},
		{"42", 42},
		{"017", 15},
		{"0x1F", 31},
		{"0XfF", 255},
		{"2147483647", 2147483647},
		{"2147483648", -2147483648},
		{"4294967295", -1},
	}
	for _, tt := range tests {
		b, prog := mustParse(t, "int x = "+tt.lit+";")
		decl := b.Items.Decl(prog.Items[0])
		init := b.Inits.Get(decl.Defs[0].Init)
		lit, ok := b.Exprs.Literal(init.Expr)
		if !ok {
			t.Fatalf("%s: initializer is not a literal", tt.lit)
		}
		if lit.Value != tt.want {
			t.Errorf("%s: got %d, want %d", tt.lit, lit.Value, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"missing semicolon", "int main() { return 0 }", diag.SynExpectSemicolon},
		{"void variable", "void x;", diag.SynExpectType},
		{"top level garbage", "return 1;", diag.SynUnexpectedTopLevel},
		{"missing expression", "int main() { return 1 + ; }", diag.SynExpectExpression},
		{"unclosed paren", "int main() { return (1; }", diag.SynUnclosedParen},
		{"literal overflow", "int x = 4294967296;", diag.LexBadNumber},
		{"assign to call", "int main() { f() = 1; }", diag.SynUnexpectedToken},
		{"const without init", "const int a;", diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := parseSource(t, tt.input)
			d, ok := bag.FirstError()
			if !ok {
				t.Fatalf("expected %s, got no errors", tt.code.ID())
			}
			if d.Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestParseRecoversAfterBadItem(t *testing.T) {
	b, prog, bag := parseSource(t, "int a = ; int b = 1; int main() { return b; }")
	if !bag.HasErrors() {
		t.Fatal("expected an error for the first declaration")
	}
	var names []string
	for _, id := range prog.Items {
		if fn := b.Items.Func(id); fn != nil {
			names = append(names, fn.Name)
		}
		if decl := b.Items.Decl(id); decl != nil {
			names = append(names, decl.Defs[0].Name)
		}
	}
	if strings.Join(names, ",") != "b,main" {
		t.Fatalf("recovered items = %v", names)
	}
}
