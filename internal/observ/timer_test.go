package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("parse", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("irgen", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure must return fn's error, got %v", err)
	}
	phases := tm.Phases()
	if len(phases) != 2 || phases[0].Name != "parse" || phases[1].Note != "failed" {
		t.Fatalf("unexpected phases %+v", phases)
	}
	summary := tm.Summary()
	for _, want := range []string{"timings:", "parse", "irgen", "// failed", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary misses %q:\n%s", want, summary)
		}
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}
	var nilTimer *Timer
	if idx := nilTimer.Begin("x"); idx != -1 {
		t.Fatalf("nil timer Begin = %d", idx)
	}
	nilTimer.End(0, "")
}
