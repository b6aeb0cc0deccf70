package parser

import (
	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/token"
)

// parseDecl разбирает объявление, начиная с `const` или `int`.
func (p *Parser) parseDecl() (ast.Decl, bool) {
	isConst := false
	if p.at(token.KwConst) {
		p.advance()
		isConst = true
	}
	if _, ok := p.expect(token.KwInt, diag.SynExpectType, "expected 'int' in declaration"); !ok {
		return ast.Decl{}, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.Decl{}, false
	}
	return p.parseDeclRest(isConst, name)
}

// parseDeclRest продолжает объявление после первого имени.
func (p *Parser) parseDeclRest(isConst bool, first token.Token) (ast.Decl, bool) {
	decl := ast.Decl{Const: isConst}
	name := first
	for {
		def, ok := p.parseVarDef(isConst, name)
		if !ok {
			return ast.Decl{}, false
		}
		decl.Defs = append(decl.Defs, def)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		if name, ok = p.parseIdent(); !ok {
			return ast.Decl{}, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		return ast.Decl{}, false
	}
	return decl, true
}

func (p *Parser) parseVarDef(isConst bool, name token.Token) (ast.VarDef, bool) {
	def := ast.VarDef{Name: name.Text, NameSpan: name.Span}
	dims, ok := p.parseDims()
	if !ok {
		return ast.VarDef{}, false
	}
	def.Dims = dims
	if !p.at(token.Assign) {
		if isConst {
			p.err(diag.SynUnexpectedToken, "constant '"+name.Text+"' requires an initializer")
			return ast.VarDef{}, false
		}
		return def, true
	}
	p.advance()
	init, ok := p.parseInit()
	if !ok {
		return ast.VarDef{}, false
	}
	def.Init = init
	return def, true
}

// parseDims разбирает ноль или больше `[expr]`.
func (p *Parser) parseDims() ([]ast.ExprID, bool) {
	var dims []ast.ExprID
	for p.at(token.LBracket) {
		p.advance()
		dim, ok := p.parseExprRequired()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return nil, false
		}
		dims = append(dims, dim)
	}
	return dims, true
}

// parseInit разбирает `expr` или `{ init, ... }` (в т.ч. пустой `{}`).
func (p *Parser) parseInit() (ast.InitID, bool) {
	if !p.at(token.LBrace) {
		expr, ok := p.parseExprRequired()
		if !ok {
			return ast.NoInitID, false
		}
		return p.arenas.Inits.NewExpr(p.arenas.Exprs.Get(expr).Span, expr), true
	}
	open := p.advance()
	var elems []ast.InitID
	if !p.at(token.RBrace) {
		for {
			elem, ok := p.parseInit()
			if !ok {
				return ast.NoInitID, false
			}
			elems = append(elems, elem)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close initializer list")
	if !ok {
		return ast.NoInitID, false
	}
	return p.arenas.Inits.NewList(open.Span.Cover(closeTok.Span), elems), true
}
