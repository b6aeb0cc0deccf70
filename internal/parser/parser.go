package parser

import (
	"slices"

	"kira/internal/ast"
	"kira/internal/diag"
	"kira/internal/lexer"
	"kira/internal/source"
	"kira/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Program *ast.Program
	Errors  uint
}

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	prog     *ast.Program
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile - входная точка для разбора одного файла.
func ParseFile(file *source.File, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		prog:     &ast.Program{File: file.ID},
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.parseItems()
	return Result{
		Program: p.prog,
		Errors:  p.opts.CurrentErrors,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems - основной цикл верхнего уровня: пока не EOF - parseItem.
func (p *Parser) parseItems() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			return
		}
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		p.prog.Items = append(p.prog.Items, itemID)
	}
	p.prog.Span = startSpan.Cover(p.lx.Peek().Span)
}

// resyncTop - восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwConst, token.KwInt, token.KwVoid)
	if p.atOr(token.Semicolon, token.RBrace) {
		p.advance()
	}
}

// resyncUntil съедает токены, пока не встретит один из kinds или EOF.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(kinds...) {
		p.advance()
	}
}

// parseIdent ожидает Ident и возвращает его текст.
func (p *Parser) parseIdent() (token.Token, bool) {
	if p.at(token.Ident) {
		return p.advance(), true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.lx.Peek().Text+"\"")
	return token.Token{}, false
}
