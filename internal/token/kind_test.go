package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	for word, want := range keywords {
		got, ok := LookupKeyword(word)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v", word, got, ok)
		}
		if got.String() != word {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), word)
		}
	}
	if _, ok := LookupKeyword("Int"); ok {
		t.Fatal("keywords are case sensitive")
	}
}

func TestTokenClasses(t *testing.T) {
	if !(Token{Kind: KwReturn}).IsKeyword() || (Token{Kind: Ident}).IsKeyword() {
		t.Fatal("IsKeyword misclassifies")
	}
	if !(Token{Kind: RBracket}).IsPunctOrOp() || (Token{Kind: IntLit}).IsPunctOrOp() {
		t.Fatal("IsPunctOrOp misclassifies")
	}
}
