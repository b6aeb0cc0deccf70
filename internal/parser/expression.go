package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/source"
	"kira/internal/token"
)

// parseExprRequired разбирает выражение и сообщает SynExpectExpression, если его нет.
func (p *Parser) parseExprRequired() (ast.ExprID, bool) {
	if !p.startsExpr() {
		p.err(diag.SynExpectExpression, "expected expression, got \""+p.lx.Peek().Text+"\"")
		return ast.NoExprID, false
	}
	return p.parseBinaryExpr(0)
}

func (p *Parser) startsExpr() bool {
	return p.atOr(token.Ident, token.IntLit, token.LParen, token.Plus, token.Minus, token.Bang)
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		prec, op, isBinary := binaryOp(p.lx.Peek().Kind)
		if !isBinary || prec < minPrec {
			break
		}
		p.advance()
		if !p.startsExpr() {
			p.err(diag.SynExpectExpression, "expected expression after binary operator")
			return ast.NoExprID, false
		}
		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}
	return left, true
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	type prefixOp struct {
		op   ast.UnaryOp
		span source.Span
	}
	var prefixes []prefixOp
	for {
		op, ok := unaryOp(p.lx.Peek().Kind)
		if !ok {
			break
		}
		tok := p.advance()
		prefixes = append(prefixes, prefixOp{op: op, span: tok.Span})
	}

	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	// Применяем префиксы справа налево
	for i := len(prefixes) - 1; i >= 0; i-- {
		span := prefixes[i].span.Cover(p.arenas.Exprs.Get(expr).Span)
		expr = p.arenas.Exprs.NewUnary(span, prefixes[i].op, expr)
	}
	return expr, true
}

// parsePrimaryExpr парсит основные (атомарные) выражения
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	switch p.lx.Peek().Kind {
	case token.IntLit:
		return p.parseIntLiteral()
	case token.Ident:
		return p.parseNameExpr()
	case token.LParen:
		p.advance()
		inner, ok := p.parseExprRequired()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return inner, true
	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+p.lx.Peek().Text+"\"")
		return ast.NoExprID, false
	}
}

// parseIntLiteral принимает значения до 2^32-1; всё, что выше 2^31-1, заворачивается в int32.
func (p *Parser) parseIntLiteral() (ast.ExprID, bool) {
	tok := p.advance()
	raw, err := strconv.ParseUint(tok.Text, 0, 64)
	if err != nil {
		p.report(diag.LexBadNumber, diag.SevError, tok.Span, fmt.Sprintf("invalid integer literal %q", tok.Text))
		return ast.NoExprID, false
	}
	u32, err := safecast.Conv[uint32](raw)
	if err != nil {
		p.report(diag.LexBadNumber, diag.SevError, tok.Span, fmt.Sprintf("integer literal %s does not fit in 32 bits", tok.Text))
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewLiteral(tok.Span, int32(u32)), true // #nosec G115 -- two's complement wrap is intended
}

// parseNameExpr: `name`, `name[i]...` или `name(args)`.
func (p *Parser) parseNameExpr() (ast.ExprID, bool) {
	name := p.advance()
	if p.at(token.LParen) {
		p.advance()
		var args []ast.ExprID
		if !p.at(token.RParen) {
			for {
				arg, ok := p.parseExprRequired()
				if !ok {
					return ast.NoExprID, false
				}
				args = append(args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after call arguments")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewCall(name.Span.Cover(closeTok.Span), name.Text, args), true
	}
	indices, ok := p.parseDims()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewLVal(name.Span.Cover(p.lastSpan), name.Text, indices), true
}
