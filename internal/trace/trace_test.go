package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFunc, false},
		{LevelDetail, ScopeFunc, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(s)
		if err != nil || l.String() != s {
			t.Errorf("ParseLevel(%q) = %v, %v", s, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStreamTracerSpans(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Format: FormatText, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)
	outer, ctx := StartSpan(ctx, ScopeDriver, "compile")
	inner, _ := StartSpan(ctx, ScopePass, "irgen")
	inner.WithExtra("funcs", "2").End("")
	fn, _ := StartSpan(ctx, ScopeFunc, "func:main") // filtered at phase level
	fn.End("")
	outer.End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "\u2192 compile") {
		t.Errorf("first line %q", lines[0])
	}
	if !strings.Contains(lines[2], "  \u2190 irgen {funcs=2}") {
		t.Errorf("nested end line %q", lines[2])
	}
	if !strings.Contains(lines[3], "\u2190 compile (ok)") {
		t.Errorf("last line %q", lines[3])
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeNode, "stmt", 7).End("done")
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes()[bytes.LastIndexByte(buf.Bytes()[:buf.Len()-1], '\n')+1:], &ev); err != nil {
		t.Fatalf("bad json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "end" || ev["name"] != "stmt" || ev["detail"] != "done" || ev["parent_id"] != float64(7) {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestNopTracerIsDefault(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer")
	}
	s, ctx := StartSpan(context.Background(), ScopeDriver, "x")
	if s.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("nop span must not allocate ids")
	}
	if d := s.End(""); d != 0 {
		t.Fatal("nop span duration must be zero")
	}
}
