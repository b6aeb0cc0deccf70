package parser

import (
	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/token"
)

// parseBlock разбирает `{ ... }`. Ошибочные операторы пропускаются до ';' или '}'.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID, false
	}
	var stmts []ast.StmtID
	failed := false
	for !p.atOr(token.RBrace, token.EOF) {
		if p.opts.Enough() {
			return ast.NoStmtID, false
		}
		stmt, ok := p.parseStmt()
		if !ok {
			failed = true
			p.resyncStmt()
			continue
		}
		stmts = append(stmts, stmt)
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	if !ok || failed {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(open.Span.Cover(closeTok.Span), stmts), true
}

func (p *Parser) resyncStmt() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.LBrace)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwConst, token.KwInt:
		decl, ok := p.parseDecl()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewDecl(tok.Span.Cover(p.lastSpan), decl), true
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwBreak, token.KwContinue:
		p.advance()
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+tok.Kind.String()); !ok {
			return ast.NoStmtID, false
		}
		if tok.Kind == token.KwBreak {
			return p.arenas.Stmts.NewBreak(tok.Span.Cover(p.lastSpan)), true
		}
		return p.arenas.Stmts.NewContinue(tok.Span.Cover(p.lastSpan)), true
	case token.KwReturn:
		p.advance()
		value := ast.NoExprID
		if !p.at(token.Semicolon) {
			expr, ok := p.parseExprRequired()
			if !ok {
				return ast.NoStmtID, false
			}
			value = expr
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewReturn(tok.Span.Cover(p.lastSpan), value), true
	case token.Semicolon:
		p.advance()
		return p.arenas.Stmts.NewExpr(tok.Span, ast.NoExprID), true
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseExprOrAssignStmt: `lval = expr;` или `expr;`
func (p *Parser) parseExprOrAssignStmt() (ast.StmtID, bool) {
	expr, ok := p.parseExprRequired()
	if !ok {
		return ast.NoStmtID, false
	}
	start := p.arenas.Exprs.Get(expr).Span
	if p.at(token.Assign) {
		assignTok := p.advance()
		if _, isLVal := p.arenas.Exprs.LVal(expr); !isLVal {
			p.report(diag.SynUnexpectedToken, diag.SevError, assignTok.Span, "left side of assignment is not assignable")
			return ast.NoStmtID, false
		}
		value, ok := p.parseExprRequired()
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment"); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAssign(start.Cover(p.lastSpan), expr, value), true
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(start.Cover(p.lastSpan), expr), true
}

func (p *Parser) parseCond() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' before condition"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExprRequired()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	ifTok := p.advance()
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	// else привязывается к ближайшему if
	if p.at(token.KwElse) {
		p.advance()
		if els, ok = p.parseStmt(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(ifTok.Span.Cover(p.lastSpan), cond, then, els), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	whileTok := p.advance()
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(whileTok.Span.Cover(p.lastSpan), cond, body), true
}
