package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.c", []byte("int a;\nint main() {\n  return 0;\n}\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}},
		{7, LineCol{Line: 2, Col: 1}},
		{22, LineCol{Line: 3, Col: 3}},
	}
	for _, tt := range tests {
		got, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if pos := fs.Position(Span{File: id, Start: 22, End: 28}); pos != "a.c:3:3" {
		t.Fatalf("Position = %q", pos)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cover across files changed span: %v", got)
	}
}

func TestLoadNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		flags FileFlags
	}{
		{"plain", "int a;\n", "int a;\n", 0},
		{"bom", "\xEF\xBB\xBFint a;\n", "int a;\n", FileHadBOM},
		{"crlf", "int a;\r\nint b;\r\n", "int a;\nint b;\n", FileNormalizedCRLF},
		// e + combining acute accent folds to a single code point
		{"nfc", "// caf\u0065\u0301\nint a;\n", "// caf\u00e9\nint a;\n", FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "in.c")
			if err := os.WriteFile(path, []byte(tt.raw), 0o600); err != nil {
				t.Fatal(err)
			}
			fs := NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			f := fs.Get(id)
			if string(f.Content) != tt.want {
				t.Fatalf("content = %q, want %q", f.Content, tt.want)
			}
			if f.Flags != tt.flags {
				t.Fatalf("flags = %b, want %b", f.Flags, tt.flags)
			}
		})
	}
}
