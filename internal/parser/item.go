package parser

import (
	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/token"
)

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции:
// `const int ...;`, `int name ...;`, `int name(...)` или `void name(...)`.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwConst:
		start := p.lx.Peek().Span
		decl, ok := p.parseDecl()
		if !ok {
			return ast.NoItemID, false
		}
		return p.arenas.Items.NewDecl(start.Cover(p.lastSpan), decl), true
	case token.KwInt, token.KwVoid:
		typeTok := p.advance()
		name, ok := p.parseIdent()
		if !ok {
			return ast.NoItemID, false
		}
		if p.at(token.LParen) {
			return p.parseFuncItem(typeTok, name)
		}
		if typeTok.Kind == token.KwVoid {
			p.report(diag.SynExpectType, diag.SevError, typeTok.Span, "variables cannot have type 'void'")
			return ast.NoItemID, false
		}
		decl, ok := p.parseDeclRest(false, name)
		if !ok {
			return ast.NoItemID, false
		}
		return p.arenas.Items.NewDecl(typeTok.Span.Cover(p.lastSpan), decl), true
	default:
		p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.lx.Peek().Span, "unexpected top-level construct")
		return ast.NoItemID, false
	}
}

func (p *Parser) parseFuncItem(typeTok, name token.Token) (ast.ItemID, bool) {
	fn := ast.FuncItem{
		Name:     name.Text,
		NameSpan: name.Span,
		Void:     typeTok.Kind == token.KwVoid,
	}
	p.advance() // (
	if !p.at(token.RParen) {
		for {
			param, ok := p.parseFuncParam()
			if !ok {
				return ast.NoItemID, false
			}
			fn.Params = append(fn.Params, param)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return ast.NoItemID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to start function body")
		return ast.NoItemID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Body = body
	return p.arenas.Items.NewFunc(typeTok.Span.Cover(p.lastSpan), fn), true
}

// parseFuncParam разбирает `int x` или `int a[][3][4]`.
func (p *Parser) parseFuncParam() (ast.FuncParam, bool) {
	typeTok, ok := p.expect(token.KwInt, diag.SynExpectType, "expected 'int' in parameter list")
	if !ok {
		return ast.FuncParam{}, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.FuncParam{}, false
	}
	param := ast.FuncParam{Name: name.Text, Span: typeTok.Span.Cover(name.Span)}
	if !p.at(token.LBracket) {
		return param, true
	}
	p.advance()
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after first array parameter dimension"); !ok {
		return ast.FuncParam{}, false
	}
	param.IsArray = true
	dims, ok := p.parseDims()
	if !ok {
		return ast.FuncParam{}, false
	}
	param.Dims = dims
	param.Span = param.Span.Cover(p.lastSpan)
	return param, true
}
