package layout_test

import (
	"errors"
	"testing"

	"kira/internal/ir"
	"kira/internal/layout"
	"kira/internal/testkit"
)

func planFunc(t *testing.T, input, name string) (*layout.Planner, *layout.Frame) {
	t.Helper()
	m, err := testkit.Lower(input)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	f, ok := m.FuncByName(name)
	if !ok {
		t.Fatalf("function %s not found", name)
	}
	p := layout.New(layout.RV32(), m)
	fr, err := p.FrameOf(f)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return p, fr
}

func TestFrameSizeLaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
		slots int
		size  int
	}{
		{"return zero", "int main() { return 0; }", 2, 16},
		{"two locals", "int main() { int a = 1; int b = 2; return a + b; }", 7, 32},
		{"unused local", "int main() { int a; return 0; }", 2, 16},
		{"chain", "int main() { int a = 1; a = a * 2 + a - 3; return a; }", 9, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fr := planFunc(t, tt.input, "main")
			if len(fr.Slots) != tt.slots {
				t.Fatalf("slots = %d, want %d", len(fr.Slots), tt.slots)
			}
			if fr.LocalsSize != 4*tt.slots {
				t.Fatalf("locals = %d, want %d", fr.LocalsSize, 4*tt.slots)
			}
			if fr.Size != tt.size || fr.Size%16 != 0 {
				t.Fatalf("frame = %d, want %d", fr.Size, tt.size)
			}
			if fr.HasCall || fr.OutArgs != 0 {
				t.Fatal("no calls expected")
			}
		})
	}
}

func TestSlotsAreDisjoint(t *testing.T) {
	_, fr := planFunc(t, "int main() { int a[10]; int b = 3; a[1] = b; return a[1] + b; }", "main")
	type span struct{ lo, hi int }
	var seen []span
	for id, s := range fr.Slots {
		if s.Offset < 0 || s.Offset+s.Size > fr.Size {
			t.Fatalf("slot of %d out of frame: %+v", id, s)
		}
		for _, o := range seen {
			if s.Offset < o.hi && o.lo < s.Offset+s.Size {
				t.Fatalf("slot %+v overlaps [%d,%d)", s, o.lo, o.hi)
			}
		}
		seen = append(seen, span{s.Offset, s.Offset + s.Size})
	}
}

func TestArraySlotAndPointerSlots(t *testing.T) {
	m, err := testkit.Lower("int main() { int a[10]; a[1] = 2; return a[1]; }")
	if err != nil {
		t.Fatal(err)
	}
	f, _ := m.FuncByName("main")
	fr, err := layout.New(layout.RV32(), m).FrameOf(f)
	if err != nil {
		t.Fatal(err)
	}
	var sawArray, sawPtr bool
	for id, s := range fr.Slots {
		switch m.Value(id).Kind {
		case ir.ValueAlloc:
			if s.IsPtr {
				t.Fatal("alloc slot must not be a pointer slot")
			}
			if s.Size == 40 {
				sawArray = true
			}
		case ir.ValueGetElemPtr:
			if !s.IsPtr || s.Size != 4 {
				t.Fatalf("getelemptr slot = %+v", s)
			}
			sawPtr = true
		}
	}
	if !sawArray || !sawPtr {
		t.Fatalf("array slot %v, pointer slot %v", sawArray, sawPtr)
	}
}

func TestCallsReserveRAAndOutgoingArgs(t *testing.T) {
	const src = `int f(int a, int b, int c, int d, int e, int f1, int g, int h, int i, int j) { return a + j; }
int main() { putint(1); return f(1, 2, 3, 4, 5, 6, 7, 8, 9, 10); }`
	p, fr := planFunc(t, src, "main")
	if !fr.HasCall || fr.MaxArgs != 10 {
		t.Fatalf("calls: has=%v max=%d", fr.HasCall, fr.MaxArgs)
	}
	if fr.OutArgs != 8 {
		t.Fatalf("outgoing area = %d, want 8", fr.OutArgs)
	}
	// %ret, load %ret, результат вызова f
	if fr.LocalsSize != 12 {
		t.Fatalf("locals = %d, want 12", fr.LocalsSize)
	}
	if fr.Size != 32 || fr.RAOffset != 28 {
		t.Fatalf("frame = %d, ra at %d", fr.Size, fr.RAOffset)
	}
	for _, s := range fr.Slots {
		if s.Offset < fr.OutArgs {
			t.Fatalf("local slot %+v inside outgoing area", s)
		}
	}
	if got := p.OutgoingArgOffset(9); got != 4 {
		t.Fatalf("outgoing arg 9 at %d, want 4", got)
	}

	p, callee := planFunc(t, src, "f")
	if callee.HasCall {
		t.Fatal("f makes no calls")
	}
	if got := p.IncomingArgOffset(callee, 8); got != callee.Size {
		t.Fatalf("incoming arg 8 at %d, want %d", got, callee.Size)
	}
}

func TestLabelsAreUnique(t *testing.T) {
	m, err := testkit.Lower(`int f(int x) { if (x) return 1; return 0; }
int main() { int i = 0; while (i < 3) i = i + f(i); return i; }`)
	if err != nil {
		t.Fatal(err)
	}
	p := layout.New(layout.RV32(), m)
	seen := map[string]bool{}
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		fr, err := p.FrameOf(f)
		if err != nil {
			t.Fatal(err)
		}
		if again, _ := p.FrameOf(f); again != fr {
			t.Fatal("frames must be cached")
		}
		for _, bb := range f.Layout {
			l := fr.Label(bb)
			if l == "" || seen[l] {
				t.Fatalf("label %q empty or duplicated", l)
			}
			seen[l] = true
		}
	}
	if !seen[".Lmain_entry_1"] || !seen[".Lf_end_2"] {
		t.Fatalf("unexpected labels %v", seen)
	}
}

func TestDeclarationHasNoFrame(t *testing.T) {
	m, err := testkit.Lower("int main() { return getint(); }")
	if err != nil {
		t.Fatal(err)
	}
	decl, _ := m.FuncByName("getint")
	_, err = layout.New(layout.RV32(), m).FrameOf(decl)
	var le *layout.LayoutError
	if !errors.As(err, &le) || le.Kind != layout.LayoutErrDeclaration {
		t.Fatalf("err = %v", err)
	}
}
