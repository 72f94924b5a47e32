package parser

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/lexer"
	"github.com/zen-lang/zenc/internal/token"
)

// tryParseImport recognizes the two import forms of spec.md §4.3:
//
//	{ io, fmt } = @std
//	io = @std.io
//
// It backs out (returning nil, leaving the parser position untouched in
// spirit — in practice it commits once the shape is unambiguous) when the
// input isn't one of these shapes, so callers fall through to parseDecl.
func (p *Parser) tryParseImport() *ast.Import {
	start := p.cur.Span
	if p.curIs(token.LBRACE) {
		save := p.snapshot()
		p.advance()
		var names []string
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			names = append(names, p.expect(token.IDENT).Literal)
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		if !p.curIs(token.RBRACE) || p.next.Kind != token.EQ {
			p.restore(save)
			return nil
		}
		p.advance() // '}'
		p.advance() // '='
		root, path := p.parseImportTarget()
		return &ast.Import{SpanVal: start, Root: root, Path: path, Destructure: names}
	}
	if p.curIs(token.IDENT) && p.next.Kind == token.EQ {
		save := p.snapshot()
		alias := p.cur.Literal
		p.advance() // ident
		p.advance() // '='
		if !p.curIs(token.AT_STD) && !p.curIs(token.AT_THIS) {
			p.restore(save)
			return nil
		}
		root, path := p.parseImportTarget()
		return &ast.Import{SpanVal: start, Root: root, Path: path, Alias: alias}
	}
	return nil
}

type parserSnapshot struct {
	lexState lexer.Lexer
	cur      token.Token
	next     token.Token
}

// snapshot/restore give lookahead (import forms, match-arm-shape
// disambiguation) a way to fully back out: the Lexer holds only value
// fields, so copying it by value is a complete, cheap rewind point.
func (p *Parser) snapshot() parserSnapshot {
	s := parserSnapshot{cur: p.cur, next: p.next}
	if p.lex != nil {
		s.lexState = *p.lex
	}
	return s
}

func (p *Parser) restore(s parserSnapshot) {
	p.cur = s.cur
	p.next = s.next
	if p.lex != nil {
		*p.lex = s.lexState
	}
}

func (p *Parser) parseImportTarget() (string, []string) {
	root := "std"
	if p.curIs(token.AT_THIS) {
		root = "this"
	}
	p.advance()
	var path []string
	for p.curIs(token.DOT) {
		p.advance()
		path = append(path, p.expect(token.IDENT).Literal)
	}
	return root, path
}

// parseDecl dispatches on the declaration's leading shape. Zen has no
// `func`/`struct`/`enum` keywords (spec.md §4.2): the shape after the name
// and its separator decides what's being declared.
func (p *Parser) parseDecl() ast.Decl {
	start := p.cur.Span

	if p.curIs(token.COMPTIME) {
		return p.parseComptimeDecl()
	}

	if !p.curIs(token.IDENT) {
		p.errorf(start, "expected a declaration, found %s", p.cur.Kind)
		p.synchronize()
		return &ast.BadDecl{SpanVal: start}
	}
	name := p.cur.Literal
	save := p.snapshot()
	p.advance()

	if p.curIs(token.DOT) {
		return p.parseBehaviorStmt(start, name)
	}

	typeParams := p.tryParseTypeParams()

	switch p.cur.Kind {
	case token.COLON:
		p.advance()
		return p.parseColonDecl(start, name, typeParams)
	case token.EQ:
		p.advance()
		return p.parseEqDecl(start, name)
	case token.MUT_EQ:
		p.advance()
		val := p.parseExpr(LOWEST)
		p.consumeStmtEnd()
		return &ast.BindingDecl{SpanVal: start, Name: name, Mutable: true, Value: val}
	case token.DCOLON:
		p.advance()
		ty := p.parseType()
		var val ast.Expr
		if p.curIs(token.EQ) {
			p.advance()
			val = p.parseExpr(LOWEST)
		}
		p.consumeStmtEnd()
		return &ast.BindingDecl{SpanVal: start, Name: name, Mutable: true, Type: ty, Value: val}
	default:
		p.restore(save)
		p.errorf(p.cur.Span, "unexpected token %s after identifier %q in declaration", p.cur.Kind, name)
		p.synchronize()
		return &ast.BadDecl{SpanVal: start}
	}
}

// parseBehaviorStmt parses `T.implements(Behavior, { method = (...) {...}, … })`
// and `T.requires(Behavior)` (spec.md §4.4.4), ordinary call-shaped syntax
// that is nonetheless registered as a first-class BehaviorImplDecl rather
// than left for the resolver to re-derive from a generic call expression.
func (p *Parser) parseBehaviorStmt(start token.Span, typeName string) ast.Decl {
	p.expect(token.DOT)
	verb := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	behavior := p.expect(token.IDENT).Literal

	var methods []*ast.FuncDecl
	if verb == "implements" && p.curIs(token.COMMA) {
		p.advance()
		p.expect(token.LBRACE)
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			mstart := p.cur.Span
			mname := p.expect(token.IDENT).Literal
			p.expect(token.EQ)
			clo, _ := p.parseClosure(p.cur.Span).(*ast.ClosureExpr)
			if clo != nil {
				methods = append(methods, &ast.FuncDecl{SpanVal: mstart, Name: mname, Params: clo.Params, Return: clo.Return, Body: clo.Body})
			}
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
	}
	p.expect(token.RPAREN)
	p.consumeStmtEnd()
	return &ast.BehaviorImplDecl{
		SpanVal:  start,
		Type:     &ast.NamedType{SpanVal: start, Name: typeName},
		Behavior: behavior,
		Methods:  methods,
	}
}

func (p *Parser) tryParseTypeParams() []ast.TypeParam {
	if !p.curIs(token.LT) {
		return nil
	}
	p.advance()
	var params []ast.TypeParam
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		name := p.expect(token.IDENT).Literal
		var constraints []string
		if p.curIs(token.COLON) {
			p.advance()
			constraints = append(constraints, p.expect(token.IDENT).Literal)
			for p.curIs(token.PLUS) {
				p.advance()
				constraints = append(constraints, p.expect(token.IDENT).Literal)
			}
		}
		params = append(params, ast.TypeParam{Name: name, Constraints: constraints})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return params
}

// parseColonDecl parses struct/enum/behavior declarations, all introduced
// by `Name:` or `Name<Params>:`.
func (p *Parser) parseColonDecl(start token.Span, name string, typeParams []ast.TypeParam) ast.Decl {
	if p.curIs(token.IDENT) && p.cur.Literal == "behavior" {
		p.advance()
		return p.parseBehaviorBody(start, name, typeParams)
	}
	if p.curIs(token.LBRACE) {
		return p.parseStructBody(start, name, typeParams)
	}
	return p.parseEnumBody(start, name, typeParams)
}

func (p *Parser) parseStructBody(start token.Span, name string, typeParams []ast.TypeParam) ast.Decl {
	p.expect(token.LBRACE)
	var fields []ast.Field
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		fty := p.parseType()
		fields = append(fields, ast.Field{Name: fname, Type: fty})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructDecl{SpanVal: start, Name: name, TypeParams: typeParams, Fields: fields}
}

func (p *Parser) parseBehaviorBody(start token.Span, name string, typeParams []ast.TypeParam) ast.Decl {
	p.expect(token.LBRACE)
	var methods []ast.MethodSig
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		mname := p.expect(token.IDENT).Literal
		p.expect(token.LPAREN)
		var params []ast.Param
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			pn := p.expect(token.IDENT).Literal
			p.expect(token.COLON)
			pt := p.parseType()
			params = append(params, ast.Param{Name: pn, Type: pt})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.TypeExpr
		if !p.curIs(token.COMMA) && !p.curIs(token.RBRACE) {
			ret = p.parseType()
		}
		methods = append(methods, ast.MethodSig{Name: mname, Params: params, Return: ret})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.BehaviorDecl{SpanVal: start, Name: name, TypeParams: typeParams, Methods: methods}
}

// parseEnumBody parses `Variant1[: Payload1] | Variant2[: Payload2] | …`
// (spec.md §4.4.3), assigning discriminants 0..n in declaration order.
func (p *Parser) parseEnumBody(start token.Span, name string, typeParams []ast.TypeParam) ast.Decl {
	var variants []ast.Variant
	idx := 0
	for {
		if p.curIs(token.PIPE) {
			p.advance()
		}
		vname := p.expect(token.IDENT).Literal
		var payload ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			payload = p.parseType()
		}
		variants = append(variants, ast.Variant{Name: vname, Payload: payload, Discrimant: idx})
		idx++
		if p.curIs(token.PIPE) {
			continue
		}
		break
	}
	p.consumeStmtEnd()
	return &ast.EnumDecl{SpanVal: start, Name: name, TypeParams: typeParams, Variants: variants}
}

// parseEqDecl parses `name = expr`: either a plain binding or, when the
// right-hand side is a closure literal, sugar for a function declaration
// (spec.md's examples always write functions this way, e.g.
// `main = () void { ... }`).
func (p *Parser) parseEqDecl(start token.Span, name string) ast.Decl {
	if p.curIs(token.LPAREN) && isClosureStart(p) {
		clo := p.parseClosure(p.cur.Span).(*ast.ClosureExpr)
		return &ast.FuncDecl{SpanVal: start, Name: name, Params: clo.Params, Return: clo.Return, Body: clo.Body}
	}
	if p.curIs(token.IDENT) && p.cur.Literal == "external" {
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.Param
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			pn := ""
			if p.next.Kind == token.COLON {
				pn = p.expect(token.IDENT).Literal
				p.expect(token.COLON)
			}
			pt := p.parseType()
			params = append(params, ast.Param{Name: pn, Type: pt})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.TypeExpr
		if !p.curIs(token.SEMI) && !p.curIs(token.EOF) {
			ret = p.parseType()
		}
		p.consumeStmtEnd()
		return &ast.FuncDecl{SpanVal: start, Name: name, Params: params, Return: ret, IsExternal: true}
	}
	val := p.parseExpr(LOWEST)
	p.consumeStmtEnd()
	return &ast.BindingDecl{SpanVal: start, Name: name, Value: val}
}

func (p *Parser) parseComptimeDecl() ast.Decl {
	start := p.cur.Span
	p.advance()
	if p.curIs(token.AT_THIS) || p.curIs(token.AT_STD) {
		_, path := p.parseImportTarget()
		p.consumeStmtEnd()
		return &ast.ComptimeDecl{SpanVal: start, Path: path}
	}
	body := p.parseBlock()
	return &ast.ComptimeDecl{SpanVal: start, Body: body}
}

// consumeStmtEnd eats an optional trailing ';'. Newlines already terminate
// statements implicitly (spec.md §6.2); advance() filters them out of the
// token stream so there's nothing else to consume here.
func (p *Parser) consumeStmtEnd() {
	if p.curIs(token.SEMI) {
		p.advance()
	}
}
