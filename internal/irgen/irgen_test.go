package irgen_test

import (
	"maps"
	"strings"
	"testing"

	"kira/internal/ir"
	"kira/internal/irgen"
)

func TestLowerReturnZero(t *testing.T) {
	m := mustLower(t, "int main() { return 0; }")
	want := `fun @main(): i32 {
%entry_1:
  %ret = alloc i32
  jump %bb_3
%bb_3:
  store 0, %ret
  jump %end_2
%end_2:
  %0 = load %ret
  ret %0
}
`
	if got := funcText(t, m, "main"); got != want {
		t.Fatalf("dump mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLowerLocalsAndAdd(t *testing.T) {
	m := mustLower(t, "int main() { int a = 1; int b = 2; return a + b; }")
	want := `fun @main(): i32 {
%entry_1:
  %ret = alloc i32
  @a = alloc i32
  @b = alloc i32
  jump %bb_3
%bb_3:
  store 1, @a
  store 2, @b
  %0 = load @a
  %1 = load @b
  %2 = add %0, %1
  store %2, %ret
  jump %end_2
%end_2:
  %3 = load %ret
  ret %3
}
`
	if got := funcText(t, m, "main"); got != want {
		t.Fatalf("dump mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
	if n := countKind(m, mustFunc(t, m, "main"), ir.ValueBinary); n != 1 {
		t.Fatalf("binary count = %d, want 1", n)
	}
}

func TestLowerVoidFallThrough(t *testing.T) {
	m := mustLower(t, "void f() { putint(1); } int main() { f(); return 0; }")
	want := `fun @f() {
%entry_1:
  jump %bb_3
%bb_3:
  call @putint(1)
  jump %end_2
%end_2:
  ret
}
`
	if got := funcText(t, m, "f"); got != want {
		t.Fatalf("dump mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLowerGlobals(t *testing.T) {
	m := mustLower(t, `int g;
int h[2][2] = {{1}, 2, 3};
const int c[2] = {4};
const int N = 7 / 2 + (3 > 2) * 10 - !0;
int big[N];
int main() { return g + h[1][0] + c[0]; }`)
	text := m.String()
	for _, line := range []string{
		"global @g = alloc i32, zeroinit",
		"global @h = alloc [[i32, 2], 2], {{1, 0}, {2, 3}}",
		"global @c = alloc [i32, 2], {4, 0}",
		"global @big = alloc [i32, 12], zeroinit",
	} {
		if !strings.Contains(text, line+"\n") {
			t.Errorf("missing %q in\n%s", line, text)
		}
	}
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  irgen.ErrorKind
	}{
		{"duplicate local", "int main() { int a; int a; return 0; }", irgen.ErrDuplicatedDefinition},
		{"duplicate global", "int a; int a;", irgen.ErrDuplicatedDefinition},
		{"param and body local", "int f(int x) { int x; return x; }", irgen.ErrDuplicatedDefinition},
		{"function clashes with global", "int f; void f() {}", irgen.ErrDuplicatedDefinition},
		{"redefine runtime", "int getint() { return 0; }", irgen.ErrDuplicatedDefinition},
		{"unknown variable", "int main() { return x; }", irgen.ErrSymbolNotFound},
		{"unknown function", "int main() { return g(); }", irgen.ErrSymbolNotFound},
		{"function as value", "int main() { return main; }", irgen.ErrSymbolNotFound},
		{"return value in void", "void f() { return 1; }", irgen.ErrRetValInVoidFunc},
		{"too many args", "int f(int a, int b) { return a; } int main() { return f(1, 2, 3); }", irgen.ErrArgMismatch},
		{"too few args", "int main() { putint(); return 0; }", irgen.ErrArgMismatch},
		{"array for scalar", "int main() { int a[2]; putint(a); return 0; }", irgen.ErrArgMismatch},
		{"scalar for array", "int main() { int a; return getarray(a); }", irgen.ErrArgMismatch},
		{"wrong array shape", "void f(int a[][3]) {} int main() { int b[2][4]; f(b); return 0; }", irgen.ErrArgMismatch},
		{"break outside loop", "int main() { break; return 0; }", irgen.ErrNotInLoop},
		{"continue outside loop", "int main() { continue; }", irgen.ErrNotInLoop},
		{"assign array", "int main() { int a[2][2]; a[0] = 1; return 0; }", irgen.ErrArrayAssign},
		{"index scalar", "int main() { int a; a[0] = 1; return 0; }", irgen.ErrDerefInt},
		{"index constant", "const int c = 1; int main() { return c[0]; }", irgen.ErrDerefInt},
		{"too many indices", "int main() { int a[2]; return a[0][1]; }", irgen.ErrDerefInt},
		{"array arithmetic", "int main() { int a[2]; return a + 1; }", irgen.ErrNonIntCalc},
		{"void value", "void f() {} int main() { int x = f(); return x; }", irgen.ErrUseVoidValue},
		{"void operand", "void f() {} int main() { return 1 + f(); }", irgen.ErrUseVoidValue},
		{"assign constant", "const int c = 1; int main() { c = 2; return 0; }", irgen.ErrConstAssign},
		{"assign const array", "int main() { const int c[2] = {1, 2}; c[0] = 3; return 0; }", irgen.ErrConstAssign},
		{"zero length", "int a[0];", irgen.ErrInvalidArrayLen},
		{"negative length", "int main() { int a[-1]; return 0; }", irgen.ErrInvalidArrayLen},
		{"length not constant", "int main() { int n = 2; int a[n]; return 0; }", irgen.ErrFailedToEval},
		{"init overflow", "int a[2] = {1, 2, 3};", irgen.ErrInvalidInit},
		{"list for scalar", "int a = {1};", irgen.ErrInvalidInit},
		{"misaligned nested list", "int a[2][2] = {1, {2}};", irgen.ErrInvalidInit},
		{"global not constant", "int x; int y = x;", irgen.ErrFailedToEval},
		{"division by zero", "const int z = 1 / 0;", irgen.ErrFailedToEval},
		{"call in constant", "const int z = getint();", irgen.ErrFailedToEval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := lower(t, tt.input)
			if err == nil {
				t.Fatalf("expected %s, got module\n%s", tt.want, m)
			}
			if m != nil {
				t.Fatal("failed generation must not return a module")
			}
			if got := irgen.KindOf(err); got != tt.want {
				t.Fatalf("got %s (%v), want %s", got, err, tt.want)
			}
		})
	}
}

func TestLowerErrorCarriesCode(t *testing.T) {
	_, err := lower(t, "void f() { return 1; }")
	e, ok := err.(*irgen.Error)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if e.Kind.Code().ID() != "GEN3011" {
		t.Fatalf("code = %s", e.Kind.Code().ID())
	}
	if e.Span.Empty() {
		t.Fatal("error span must point at the statement")
	}
}

func TestLowerAcceptedPrograms(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"shadowing", "int a; int main() { int a = 1; { int a = 2; putint(a); } return a; }"},
		{"initializer sees outer name", "int main() { int a = 1; { int a = a + 1; return a; } }"},
		{"code after return", "int main() { return 1; return 2; }"},
		{"missing return", "int main() { }"},
		{"bare return in int function", "int main() { return; }"},
		{"if else chain", "int main() { int x = getint(); if (x > 1) return 1; else if (x < 0) return 2; else x = 3; return x; }"},
		{"return in both arms", "int f(int x) { if (x) { return 1; } else { return 2; } } int main() { return f(0); }"},
		{"nested loops", "int main() { int i = 0; while (i < 3) { int j = 0; while (j < i) { j = j + 1; if (j == 2) break; } i = i + 1; } return i; }"},
		{"empty statements", "int main() { ; ; {} return 0; }"},
		{"logical chains", "int main() { int a = getint(); return a > 1 && a < 5 || !a && a != 3; }"},
		{"array params", `int sum(int a[], int n) { int s = 0; int i = 0; while (i < n) { s = s + a[i]; i = i + 1; } return s; }
int main() { int x[4] = {1, 2, 3, 4}; putarray(4, x); return sum(x, 4); }`},
		{"matrix params", `void g(int b[][3]) { b[1][2] = 5; }
void h(int b[][3]) { g(b); putarray(3, b[1]); }
int main() { int m[2][3]; h(m); return m[1][2]; }`},
		{"local array with expressions", "int main() { int n = getint(); int a[2][3] = {{n, n + 1}, {n * 2}}; return a[1][0]; }"},
		{"ten arguments", `int f(int a, int b, int c, int d, int e, int f1, int g, int h, int i, int j) { return a + j; }
int main() { return f(1, 2, 3, 4, 5, 6, 7, 8, 9, 10); }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustLower(t, tt.input)
			for _, f := range m.Funcs {
				if f.IsDecl() {
					continue
				}
				if n := countKind(m, f, ir.ValueReturn); n != 1 {
					t.Fatalf("%s: %d returns, want 1", f.Name, n)
				}
				if f.Layout[len(f.Layout)-1] != f.End {
					t.Fatalf("%s: end block is not last", f.Name)
				}
			}
		})
	}
}

// reachable collects the blocks reachable from start through terminators.
func reachable(m *ir.Module, f *ir.Func, start ir.BlockID) map[ir.BlockID]bool {
	seen := map[ir.BlockID]bool{}
	work := []ir.BlockID{start}
	for len(work) > 0 {
		bb := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[bb] {
			continue
		}
		seen[bb] = true
		insts := f.Block(bb).Insts
		work = append(work, m.Value(insts[len(insts)-1]).Successors()...)
	}
	return seen
}

func TestShortCircuitSkipsRHS(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		skipOnT bool // the branch skips rhs on its true edge
	}{
		{"and", "int f() { return 1; } int main() { return 0 && f(); }", false},
		{"or", "int f() { return 1; } int main() { return 1 || f(); }", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustLower(t, tt.input)
			main := mustFunc(t, m, "main")
			callee := mustFunc(t, m, "f")
			var br *ir.Value
			for _, bb := range main.Layout {
				insts := main.Block(bb).Insts
				if last := m.Value(insts[len(insts)-1]); last.Kind == ir.ValueBranch {
					br = last
				}
			}
			if br == nil {
				t.Fatalf("no branch in\n%s", funcText(t, m, "main"))
			}
			skip, eval := br.FalseBB, br.TrueBB
			if tt.skipOnT {
				skip, eval = eval, skip
			}
			hasCall := func(bb ir.BlockID) bool {
				for _, inst := range main.Block(bb).Insts {
					if v := m.Value(inst); v.Kind == ir.ValueCall && v.Callee == callee.ID {
						return true
					}
				}
				return false
			}
			for bb := range reachable(m, main, skip) {
				if hasCall(bb) {
					t.Fatalf("block %s on the skip path calls f", ir.BlockName(main, bb))
				}
			}
			if !hasCall(eval) {
				t.Fatalf("rhs block %s does not call f", ir.BlockName(main, eval))
			}
			if m.Value(br.Cond).Kind != ir.ValueBinary || m.Value(br.Cond).Op != ir.OpNotEq {
				t.Fatal("branch must test the normalized lhs")
			}
		})
	}
}

func TestLowerLoopTargets(t *testing.T) {
	m := mustLower(t, `int main() {
  int i = 0; int s = 0;
  while (i < 10) {
    i = i + 1;
    if (i == 5) continue;
    if (i == 8) break;
    s = s + i;
  }
  return s;
}`)
	f := mustFunc(t, m, "main")
	byName := map[string]ir.BlockID{}
	for _, bb := range f.Layout {
		byName[f.Block(bb).Name] = bb
	}
	cond, ok := byName["while_cond"]
	if !ok {
		t.Fatalf("no while_cond block in\n%s", funcText(t, m, "main"))
	}
	// вход в цикл, continue и конец тела
	if n := len(f.BlockUsers(cond)); n != 3 {
		t.Fatalf("while_cond users = %d, want 3", n)
	}
	// ложная ветка условия и break
	if n := len(f.BlockUsers(byName["while_end"])); n != 2 {
		t.Fatalf("while_end users = %d, want 2", n)
	}
}

func TestLowerLocalArrayStores(t *testing.T) {
	m := mustLower(t, "int main() { int a[2][3] = {{1, 2}, {3}}; return a[1][0]; }")
	f := mustFunc(t, m, "main")
	// шесть элементов плюс %ret
	if n := countKind(m, f, ir.ValueStore); n != 7 {
		t.Fatalf("stores = %d, want 7", n)
	}
	text := funcText(t, m, "main")
	if !strings.Contains(text, "@a = alloc [[i32, 3], 2]") {
		t.Fatalf("array alloc missing in\n%s", text)
	}
	if strings.Count(text, "getelemptr") != 14 {
		t.Fatalf("getelemptr count = %d, want 14\n%s", strings.Count(text, "getelemptr"), text)
	}
}

func TestLowerArrayParamUsesGetPtr(t *testing.T) {
	m := mustLower(t, "int f(int a[][2]) { return a[1][1]; } int main() { int b[3][2]; return f(b); }")
	text := funcText(t, m, "f")
	for _, frag := range []string{"%a = alloc *[i32, 2]", "getptr", "getelemptr"} {
		if !strings.Contains(text, frag) {
			t.Errorf("missing %q in\n%s", frag, text)
		}
	}
	main := mustFunc(t, m, "main")
	if n := countKind(m, main, ir.ValueGetElemPtr); n != 1 {
		t.Fatalf("main getelemptr = %d, want 1 (array decay)", n)
	}
}

func TestLowerCallArgumentsInOrder(t *testing.T) {
	m := mustLower(t, `int f(int a, int b, int c, int d, int e, int f1, int g, int h, int i, int j) { return a + j; }
int main() { return f(getint(), 2, 3, 4, 5, 6, 7, 8, 9, getint()); }`)
	main := mustFunc(t, m, "main")
	var calls []*ir.Value
	for _, bb := range main.Layout {
		for _, inst := range main.Block(bb).Insts {
			if v := m.Value(inst); v.Kind == ir.ValueCall {
				calls = append(calls, v)
			}
		}
	}
	if len(calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(calls))
	}
	last := calls[2]
	if len(last.Args) != 10 {
		t.Fatalf("args = %d, want 10", len(last.Args))
	}
	if last.Args[0] != calls[0].ID || last.Args[9] != calls[1].ID {
		t.Fatal("arguments must be evaluated left to right")
	}
}

func TestDumpNamesAreUnique(t *testing.T) {
	tests := []string{
		"int f(int x) { int arg0 = x; return arg0; } int main() { return f(1); }",
		"int f(int arg0, int arg1) { int arg1_1 = arg0; { int arg1 = arg1_1; return arg1; } } int main() { return f(1, 2); }",
		"int a; int main() { int a = 1; { int a = 2; } return a; }",
		"int f(int ret) { return ret; } int main() { return f(3); }",
	}
	for _, input := range tests {
		text := mustLower(t, input).String()
		globals := make(map[string]bool)
		seen := globals
		define := func(name string) {
			if seen[name] {
				t.Fatalf("%q: %s defined twice in\n%s", input, name, text)
			}
			seen[name] = true
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "fun @"):
				seen = maps.Clone(globals)
				// параметры: fun @f(@arg0: i32, ...)
				params := line[strings.Index(line, "(")+1 : strings.LastIndex(line, ")")]
				for _, p := range strings.Split(params, ", ") {
					if p != "" {
						define(p[:strings.Index(p, ":")])
					}
				}
			case strings.HasPrefix(line, "global "):
				define(strings.Fields(line)[1])
			case strings.Contains(line, " = "):
				define(line[:strings.Index(line, " = ")])
			}
		}
	}
}

func TestDumpParamNamesPerFunction(t *testing.T) {
	m := mustLower(t, "int f(int x) { return x; } int g(int y) { return y; } int main() { return f(1) + g(2); }")
	if got := funcText(t, m, "g"); !strings.HasPrefix(got, "fun @g(@arg0: i32): i32 {") {
		t.Fatalf("unexpected header:\n%s", got)
	}
	if got := funcText(t, m, "main"); !strings.Contains(got, "%ret = alloc i32") {
		t.Fatalf("local names must restart per function:\n%s", got)
	}
}

func TestScopesClosedBetweenItems(t *testing.T) {
	m := mustLower(t, "int f(int x) { { int x = 1; { return x; } } } int x = 2; int main() { return x + f(0); }")
	text := m.String()
	if !strings.Contains(text, "global @x = alloc i32, 2\n") {
		t.Fatalf("global x missing:\n%s", text)
	}
	if got := funcText(t, m, "main"); !strings.Contains(got, "load @x\n") {
		t.Fatalf("main must read the global:\n%s", got)
	}
}
