package scope

import (
	"errors"
	"testing"
)

func TestDefineResolveShadowing(t *testing.T) {
	s := New[int]()
	if err := s.Define("a", 1); err != nil {
		t.Fatalf("define a: %v", err)
	}
	s.Enter(KindFunction)
	if err := s.Define("a", 2); err != nil {
		t.Fatalf("shadowing in inner frame must succeed: %v", err)
	}
	if got, _ := s.Resolve("a"); got != 2 {
		t.Fatalf("inner a = %d, want 2", got)
	}
	s.Exit()
	if got, _ := s.Resolve("a"); got != 1 {
		t.Fatalf("outer a = %d, want 1", got)
	}
}

func TestDuplicatedDefinition(t *testing.T) {
	s := New[string]()
	s.Enter(KindBlock)
	if err := s.Define("x", "first"); err != nil {
		t.Fatal(err)
	}
	err := s.Define("x", "second")
	if !errors.Is(err, ErrDuplicatedDefinition) {
		t.Fatalf("expected ErrDuplicatedDefinition, got %v", err)
	}
	if got, _ := s.Resolve("x"); got != "first" {
		t.Fatalf("failed define must not overwrite, got %q", got)
	}
}

func TestSymbolNotFound(t *testing.T) {
	s := New[int]()
	s.Enter(KindFunction)
	if err := s.Define("local", 1); err != nil {
		t.Fatal(err)
	}
	s.Exit()
	if _, err := s.Resolve("local"); !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound after exit, got %v", err)
	}
}

func TestGlobalFrameNeverPopped(t *testing.T) {
	s := New[int]()
	if !s.IsGlobal() {
		t.Fatal("fresh stack must be global")
	}
	s.Enter(KindFunction)
	s.Enter(KindBlock)
	if s.IsGlobal() || s.Depth() != 3 {
		t.Fatalf("depth = %d", s.Depth())
	}
	s.Exit()
	s.Exit()
	s.Exit()
	s.Exit()
	if !s.IsGlobal() || s.Depth() != 1 {
		t.Fatalf("global frame popped: depth = %d", s.Depth())
	}
	if err := s.Define("g", 1); err != nil {
		t.Fatal(err)
	}
	if v, err := s.Resolve("g"); err != nil || v != 1 {
		t.Fatalf("resolve g = %d, %v", v, err)
	}
}
