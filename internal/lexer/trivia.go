package lexer

import (
	"kira/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии (// и /* */).
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			lx.cursor.Bump()
			continue
		case '/':
			if !lx.skipComment() {
				return
			}
			continue
		}
		return
	}
}

func (lx *Lexer) skipComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	start := lx.cursor.Mark()
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for {
			if lx.cursor.EOF() {
				lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
				return true
			}
			if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				return true
			}
			lx.cursor.Bump()
		}
	}
	return false
}
