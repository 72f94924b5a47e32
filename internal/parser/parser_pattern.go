package parser

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/token"
)

// parsePattern parses one pattern, the left-hand side of a match arm
// (spec.md §3.2, §4.4.3). It turns on the lexer's pattern_context flag so
// a leading '-' folds into a negative-literal pattern and '|' is never
// mistaken for bitwise OR while scanning the pattern itself.
func (p *Parser) parsePattern() ast.Pattern {
	p.lex.SetPatternContext(true)
	defer p.lex.SetPatternContext(false)

	start := p.cur.Span

	switch {
	case p.curIs(token.IDENT) && p.cur.Literal == "_":
		p.advance()
		return &ast.WildcardPattern{SpanVal: start}
	case p.curIs(token.DOT):
		return p.parseVariantPatternShorthand()
	case p.curIs(token.IDENT) && p.next.Kind == token.DOT:
		return p.parseQualifiedVariantPattern()
	case p.curIs(token.IDENT) && isWellKnownVariantName(p.cur.Literal):
		return p.parseWellKnownVariantPattern()
	case p.curIs(token.IDENT) && p.next.Kind != token.LPAREN && !isRangeAhead(p) && p.cur.Literal != "true" && p.cur.Literal != "false":
		name := p.cur.Literal
		p.advance()
		return &ast.IdentPattern{SpanVal: start, Name: name}
	default:
		return p.parseLiteralOrRangePattern()
	}
}

func isRangeAhead(p *Parser) bool { return false }

func isWellKnownVariantName(name string) bool {
	switch name {
	case "Some", "None", "Ok", "Err":
		return true
	}
	return false
}

// parsePatternBinding parses the parenthesized payload pattern of a variant
// pattern, if present: `(pattern)`. The payload is itself a full pattern,
// not just a bare identifier, so a nested variant constructor (e.g. the
// `Some(n)` inside `Ok(Some(n))`) recurses through parsePattern instead of
// being misread as a fresh binding named "Some".
func (p *Parser) parsePatternBinding() ast.Pattern {
	if !p.curIs(token.LPAREN) {
		return nil
	}
	p.advance()
	var binding ast.Pattern
	if !p.curIs(token.RPAREN) {
		binding = p.parsePattern()
	}
	p.expect(token.RPAREN)
	return binding
}

// parseWellKnownVariantPattern parses the Some/None/Ok/Err aliases for the
// Option/Result well-known enums (spec.md §4.4.3).
func (p *Parser) parseWellKnownVariantPattern() ast.Pattern {
	start := p.cur.Span
	name := p.cur.Literal
	p.advance()
	binding := p.parsePatternBinding()
	enumName := "Result"
	if name == "Some" || name == "None" {
		enumName = "Option"
	}
	return &ast.VariantPattern{SpanVal: start, EnumName: enumName, Variant: name, Binding: binding}
}

func (p *Parser) parseVariantPatternShorthand() ast.Pattern {
	start := p.cur.Span
	p.advance() // '.'
	variant := p.expect(token.IDENT).Literal
	binding := p.parsePatternBinding()
	return &ast.VariantPattern{SpanVal: start, Variant: variant, Binding: binding}
}

func (p *Parser) parseQualifiedVariantPattern() ast.Pattern {
	start := p.cur.Span
	enumName := p.cur.Literal
	p.advance() // enum name
	p.advance() // '.'
	variant := p.expect(token.IDENT).Literal
	binding := p.parsePatternBinding()
	return &ast.VariantPattern{SpanVal: start, EnumName: enumName, Variant: variant, Binding: binding}
}

// parseLiteralOrRangePattern parses a literal pattern (including a
// negative one, already folded by the lexer's pattern_context) and the
// a..b / a..=b range-pattern forms.
func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	start := p.cur.Span
	lit := p.parseExpr(RANGE_PREC)
	if p.curIs(token.DOTDOT) || p.curIs(token.DOTDOTEQ) {
		inclusive := p.curIs(token.DOTDOTEQ)
		p.advance()
		hi := p.parseExpr(RANGE_PREC)
		return &ast.RangePattern{SpanVal: start, Low: lit, High: hi, Inclusive: inclusive}
	}
	return &ast.LiteralPattern{SpanVal: start, Value: lit}
}
