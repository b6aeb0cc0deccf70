package fuzztests

import (
	"testing"

	"kira/internal/diag"
	"kira/internal/lexer"
	"kira/internal/source"
	"kira/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.c", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Span.Start < prevEnd {
				t.Fatalf("token %d %v starts before previous end %d", i, tok, prevEnd)
			}
			prevEnd = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
			if i > len(input)+1 {
				t.Fatalf("lexer does not advance on %q", input)
			}
		}
	})
}
