package lexer

import (
	"fmt"

	"kira/internal/diag"
	"kira/internal/token"
)

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanNumber читает 123, 0123 (octal) и 0x1F. Значение разбирает парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	valid := true
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		valid = digits > 0
	} else {
		octal := lx.cursor.Peek() == '0'
		for isDec(lx.cursor.Peek()) {
			if octal && lx.cursor.Peek() > '7' {
				valid = false
			}
			lx.cursor.Bump()
		}
	}
	// 12abc - одна плохая лексема, а не число и идентификатор
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		valid = false
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if !valid {
		lx.report(diag.LexBadNumber, sp, fmt.Sprintf("invalid integer literal %q", text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	kind := token.Invalid
	switch b {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '=':
		kind = token.Assign
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '!':
		kind = token.Bang
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	case '&':
		if lx.cursor.Eat('&') {
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrOr
		}
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", text))
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
