package ir

import (
	"strings"
	"testing"
)

// buildReturnZero builds `int main() { return 0; }` the way the lowering does.
func buildReturnZero(t *testing.T) (*Module, *Func) {
	t.Helper()
	m := NewModule()
	f, err := m.NewFunc("main", nil, I32())
	if err != nil {
		t.Fatal(err)
	}
	f.Entry = f.AppendBlock("entry")
	body := f.AppendBlock("bb")
	f.End = f.NewBlock("end")

	b := NewBuilder(m, f)
	ret := b.Alloc(I32(), "%ret")
	b.SetBlock(body)
	b.Store(m.Integer(0), ret)
	b.Jump(f.End)
	b.JumpAt(f.Entry, body)

	f.Place(f.End)
	b.SetBlock(f.End)
	b.Return(b.Load(ret))
	return m, f
}

func TestDumpModule(t *testing.T) {
	m, _ := buildReturnZero(t)
	want := `fun @main(): i32 {
%entry_1:
  %ret = alloc i32
  jump %bb_2
%bb_2:
  store 0, %ret
  jump %end_3
%end_3:
  %0 = load %ret
  ret %0
}
`
	if got := m.String(); got != want {
		t.Fatalf("dump mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
	if err := Validate(m); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestUsersAndBlockUsers(t *testing.T) {
	m, f := buildReturnZero(t)
	entry := f.Block(f.Entry)
	ret := entry.Insts[0]
	users := m.Users(ret)
	if len(users) != 2 {
		t.Fatalf("%%ret users = %d, want 2 (store, load)", len(users))
	}
	if m.Value(users[0]).Kind != ValueStore || m.Value(users[1]).Kind != ValueLoad {
		t.Fatalf("unexpected user kinds %s, %s", m.Value(users[0]).Kind, m.Value(users[1]).Kind)
	}
	if got := len(f.BlockUsers(f.End)); got != 1 {
		t.Fatalf("end block users = %d, want 1", got)
	}
	store := m.Value(users[0])
	if m.Users(store.ID) != nil {
		t.Fatal("store must have no users")
	}
}

func TestValidateCatchesBrokenBlocks(t *testing.T) {
	m, f := buildReturnZero(t)
	extra := f.AppendBlock("dangling")
	f.Layout = []BlockID{f.Entry, f.Layout[1], extra, f.End}
	err := Validate(m)
	if err == nil {
		t.Fatal("expected validation error for empty block")
	}
	if !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateReturnOutsideEnd(t *testing.T) {
	m := NewModule()
	f, _ := m.NewFunc("f", nil, Unit())
	f.Entry = f.AppendBlock("entry")
	f.End = f.AppendBlock("end")
	b := NewBuilder(m, f)
	b.SetBlock(f.Entry)
	b.Return(NoValueID)
	b.SetBlock(f.End)
	b.Return(NoValueID)
	err := Validate(m)
	if err == nil || !strings.Contains(err.Error(), "return outside end block") {
		t.Fatalf("expected return placement error, got %v", err)
	}
}

func TestTypeSizes(t *testing.T) {
	tests := []struct {
		ty   *Type
		size int
		str  string
	}{
		{I32(), 4, "i32"},
		{PtrTo(I32()), 4, "*i32"},
		{ArrayOf(I32(), 3), 12, "[i32, 3]"},
		{ArrayOf(ArrayOf(I32(), 3), 2), 24, "[[i32, 3], 2]"},
		{PtrTo(ArrayOf(I32(), 4)), 4, "*[i32, 4]"},
		{Unit(), 0, "unit"},
	}
	for _, tt := range tests {
		if got := tt.ty.Size(); got != tt.size {
			t.Errorf("%s: size %d, want %d", tt.str, got, tt.size)
		}
		if got := tt.ty.String(); got != tt.str {
			t.Errorf("string %q, want %q", got, tt.str)
		}
	}
	if !PtrTo(ArrayOf(I32(), 3)).Equal(PtrTo(ArrayOf(I32(), 3))) {
		t.Error("structurally equal types must compare equal")
	}
	if PtrTo(I32()).Equal(PtrTo(ArrayOf(I32(), 1))) {
		t.Error("different pointee types must not be equal")
	}
}

func TestRuntimeDeclsAndGlobals(t *testing.T) {
	m := NewModule()
	m.DeclareRuntime()
	m.GlobalAlloc("@g", m.Aggregate(ArrayOf(I32(), 2), []ValueID{m.Integer(1), m.Integer(2)}))
	m.GlobalAlloc("@z", m.ZeroInit(I32()))
	out := m.String()
	for _, want := range []string{
		"decl @getint(): i32\n",
		"decl @putarray(i32, *i32)\n",
		"decl @starttime()\n",
		"global @g = alloc [i32, 2], {1, 2}\n",
		"global @z = alloc i32, zeroinit\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if _, ok := m.FuncByName("putch"); !ok {
		t.Error("putch not declared")
	}
	if _, err := m.NewFunc("getint", nil, I32()); err == nil {
		t.Error("redefining a runtime function must fail")
	}
}
