package parser

import (
	"strconv"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/token"
)

var primitiveNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"usize": true, "isize": true,
	"f32": true, "f64": true,
	"bool": true, "byte": true, "void": true,
}

// parseType parses a type expression (spec.md §3.1): primitive, named,
// parameterized `Name<T1,...>`, the pointer family `Ptr<T>`/`MutPtr<T>`/
// `RawPtr<T>`, array `[T; N]`, unit `()`, or function type.
func (p *Parser) parseType() ast.TypeExpr {
	switch {
	case p.curIs(token.LPAREN):
		return p.parseUnitOrFuncType()
	case p.curIs(token.LBRACKET):
		return p.parseArrayType()
	case p.curIs(token.IDENT) && p.cur.Literal == "Ptr":
		return p.parsePointerType(ast.PtrShared)
	case p.curIs(token.IDENT) && p.cur.Literal == "MutPtr":
		return p.parsePointerType(ast.PtrMut)
	case p.curIs(token.IDENT) && p.cur.Literal == "RawPtr":
		return p.parsePointerType(ast.PtrRaw)
	case p.curIs(token.IDENT):
		return p.parseNamedOrParameterizedType()
	default:
		start := p.cur.Span
		p.errorf(start, "expected a type, found %s", p.cur.Kind)
		p.advance()
		return &ast.NamedType{SpanVal: start, Name: "<error>"}
	}
}

func (p *Parser) parsePointerType(kind ast.PointerKind) ast.TypeExpr {
	start := p.cur.Span
	p.advance() // Ptr/MutPtr/RawPtr
	p.expect(token.LT)
	elem := p.parseType()
	p.expect(token.GT)
	return &ast.PointerType{SpanVal: start, Kind: kind, Elem: elem}
}

func (p *Parser) parseNamedOrParameterizedType() ast.TypeExpr {
	start := p.cur.Span
	name := p.cur.Literal
	p.advance()
	if primitiveNames[name] {
		return &ast.PrimitiveType{SpanVal: start, Name: name}
	}
	if !p.curIs(token.LT) {
		return &ast.NamedType{SpanVal: start, Name: name}
	}
	p.advance() // '<'
	var args []ast.TypeExpr
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		args = append(args, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return &ast.ParameterizedType{SpanVal: start, Name: name, Args: args}
}

// parseArrayType parses `[T; N]` (spec.md §3.1, §4.4.2 well-known types).
func (p *Parser) parseArrayType() ast.TypeExpr {
	start := p.cur.Span
	p.advance() // '['
	elem := p.parseType()
	p.expect(token.SEMI)
	sizeTok := p.expect(token.INT)
	size, _ := strconv.Atoi(sizeTok.Literal)
	p.expect(token.RBRACKET)
	return &ast.ArrayType{SpanVal: start, Elem: elem, Size: size}
}

// parseUnitOrFuncType handles `()` (unit) and the function-type syntax
// `(T1, T2) RetType`, the same shape as a closure's signature but appearing
// in type position (e.g. a struct field holding a callback).
func (p *Parser) parseUnitOrFuncType() ast.TypeExpr {
	start := p.cur.Span
	p.advance() // '('
	if p.curIs(token.RPAREN) {
		p.advance()
		if !startsType(p.cur.Kind) {
			return &ast.UnitType{SpanVal: start}
		}
		ret := p.parseType()
		return &ast.FuncType{SpanVal: start, Return: ret}
	}
	var params []ast.TypeExpr
	varargs := false
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOT) {
			varargs = true
			p.advance()
			break
		}
		params = append(params, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	var ret ast.TypeExpr
	if startsType(p.cur.Kind) {
		ret = p.parseType()
	}
	return &ast.FuncType{SpanVal: start, Params: params, Return: ret, Varargs: varargs}
}

func startsType(k token.Kind) bool {
	switch k {
	case token.IDENT, token.LPAREN, token.LBRACKET:
		return true
	}
	return false
}
