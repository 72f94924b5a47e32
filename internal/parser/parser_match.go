package parser

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/token"
)

// parseMatch parses everything after a scrutinee's trailing `?`
// (spec.md §4.2, §4.7.3): the pipe-arm form, the block-arm form, or the
// "true-shaped" short form that also covers Some/Ok by semantic lowering
// during type checking.
func parseMatch(p *Parser, left ast.Expr) ast.Expr {
	span := p.cur.Span
	p.advance() // '?'

	if p.curIs(token.LBRACE) {
		if looksLikeBlockArms(p) {
			arms := p.parseBlockArms()
			return &ast.MatchExpr{SpanVal: span, Scrutinee: left, Arms: arms}
		}
		body := p.parseBlock()
		return &ast.MatchExpr{SpanVal: span, Scrutinee: left, ShortForm: true, ShortBody: body}
	}

	var arms []ast.MatchArm
	for p.curIs(token.PIPE) {
		arms = append(arms, p.parsePipeArm())
	}
	if arms == nil {
		p.errorf(p.cur.Span, "expected match arm after '?', found %s", p.cur.Kind)
	}
	return &ast.MatchExpr{SpanVal: span, Scrutinee: left, Arms: arms}
}

// looksLikeBlockArms disambiguates `? { pattern => expr, … }` from the
// short-form `? { stmt; stmt }` block body: both open with `{`. It
// speculatively parses one pattern right after the brace and checks for a
// following `=>`, then fully rewinds — lexer included — regardless of the
// outcome.
func looksLikeBlockArms(p *Parser) bool {
	save := p.snapshot()
	savedSink, savedLexSink := p.Sink, p.lex.Sink
	scratch := diag.NewSink(nil)
	p.Sink = scratch
	p.lex.Sink = scratch

	ok := probeArmShape(p)

	p.restore(save)
	p.Sink, p.lex.Sink = savedSink, savedLexSink
	return ok
}

func probeArmShape(p *Parser) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	p.advance() // '{'
	if p.curIs(token.RBRACE) {
		return false
	}
	_ = p.parsePattern()
	return p.curIs(token.FATARROW)
}

// parseBlockArms parses `{ pattern => expr, pattern => expr, … }`.
func (p *Parser) parseBlockArms() []ast.MatchArm {
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		start := p.cur.Span
		pat := p.parsePattern()
		p.expect(token.FATARROW)
		body := p.parseArmBody()
		arms = append(arms, ast.MatchArm{SpanVal: start, Pattern: pat, Body: body})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return arms
}

// parsePipeArm parses one `| pattern { body }` or `| pattern => expr` arm.
func (p *Parser) parsePipeArm() ast.MatchArm {
	start := p.cur.Span
	p.advance() // '|'
	pat := p.parsePattern()
	var body ast.Expr
	if p.curIs(token.FATARROW) {
		// an `=> expr` body stops before the next arm's leading '|'
		// instead of reading it as bitwise OR
		p.advance()
		body = p.parseExpr(BITOR_PREC)
	} else {
		body = p.parseArmBody()
	}
	return ast.MatchArm{SpanVal: start, Pattern: pat, Body: body}
}

// parseArmBody parses an arm's right-hand side, either a block `{ … }` or
// a `=> expr` form; both lower to the same ast.Expr (a bare expression is
// just a degenerate single-value block).
func (p *Parser) parseArmBody() ast.Expr {
	if p.curIs(token.FATARROW) {
		p.advance()
		return p.parseExpr(LOWEST)
	}
	if p.curIs(token.LBRACE) {
		return p.parseBlock()
	}
	p.errorf(p.cur.Span, "expected '=>' or '{' in match arm, found %s", p.cur.Kind)
	return &ast.BadExpr{SpanVal: p.cur.Span}
}
