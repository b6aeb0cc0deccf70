package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"kira/internal/diag"
	"kira/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte("int main() {\n  return 0 $;\n}\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LexUnknownChar,
		Message:  "unknown character '$'",
		Primary:  source.Span{File: id, Start: 24, End: 25},
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 0, End: 3}, Msg: "in this function"}},
	})
	return bag, fs
}

func TestPrettyPrintsCaretUnderSpan(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Notes: true})

	want := "test.c:2:12: ERROR LEX1001: unknown character '$'\n" +
		"2 |   return 0 $;\n" +
		"  |            ^\n" +
		"  test.c:1:1: note: in this function\n" +
		"1 | int main() {\n" +
		"  | ^~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("Pretty output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()
	for _, want := range []string{"1 | int main() {", "2 |   return 0 $;", "3 | }"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing context line %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note") {
		t.Errorf("notes printed without Notes option:\n%s", out)
	}
}

func TestPrettyError(t *testing.T) {
	var buf bytes.Buffer
	PrettyError(&buf, &diag.Error{Code: diag.GenSymbolNotFound, Pos: "a.c:3:7", Msg: "symbol not found: x"}, PrettyOpts{})
	if got, want := buf.String(), "error[GEN3002]: a.c:3:7: symbol not found: x\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONIncludesPositions(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "LEX1001" || d.Location.File != "test.c" || d.Location.StartLine != 2 || d.Location.StartCol != 12 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
}
