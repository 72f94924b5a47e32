package parser

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/token"
)

func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.expect(token.LBRACE).Span
	var stmts []ast.Stmt
	var trailing ast.Expr

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.SEMI) {
			p.advance()
			continue
		}
		s := p.parseStmt()
		if s == nil {
			continue
		}
		// The last bare expression-statement in a block, if not followed
		// by ';', is the block's value (spec.md's block-as-expression form).
		if es, ok := s.(*ast.ExprStmt); ok && p.curIs(token.RBRACE) {
			trailing = es.X
			continue
		}
		stmts = append(stmts, s)
	}
	p.expect(token.RBRACE)
	return &ast.BlockExpr{SpanVal: start, Stmts: stmts, Value: trailing}
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur.Span

	switch {
	case p.curIs(token.IDENT) && (p.next.Kind == token.EQ || p.next.Kind == token.MUT_EQ || p.next.Kind == token.COLON || p.next.Kind == token.DCOLON):
		return p.parseBindingStmt()
	case p.cur.Literal == "return":
		return p.parseReturnStmt()
	case p.cur.Literal == "break":
		return p.parseBreakStmt()
	case p.cur.Literal == "continue":
		p.advance()
		p.consumeStmtEnd()
		return &ast.ContinueStmt{SpanVal: start}
	case p.curIs(token.AT_THIS) && p.next.Kind == token.DOT:
		if s := p.tryParseDeferStmt(); s != nil {
			return s
		}
	}

	x := p.parseExpr(LOWEST)
	if isAssignOp(p.cur.Kind) {
		op := p.cur.Kind
		p.advance()
		val := p.parseExpr(LOWEST)
		p.consumeStmtEnd()
		return &ast.AssignStmt{SpanVal: start, Target: x, Op: op, Value: val}
	}
	p.consumeStmtEnd()
	return &ast.ExprStmt{SpanVal: start, X: x}
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.EQ:
		return true
	}
	return false
}

func (p *Parser) parseBindingStmt() ast.Stmt {
	start := p.cur.Span
	name := p.cur.Literal
	p.advance()
	switch p.cur.Kind {
	case token.EQ:
		p.advance()
		val := p.parseExpr(LOWEST)
		p.consumeStmtEnd()
		return &ast.BindingStmt{SpanVal: start, Name: name, Value: val}
	case token.MUT_EQ:
		p.advance()
		val := p.parseExpr(LOWEST)
		p.consumeStmtEnd()
		return &ast.BindingStmt{SpanVal: start, Name: name, Mutable: true, Value: val}
	case token.DCOLON:
		p.advance()
		ty := p.parseType()
		var val ast.Expr
		if p.curIs(token.EQ) {
			p.advance()
			val = p.parseExpr(LOWEST)
		}
		p.consumeStmtEnd()
		return &ast.BindingStmt{SpanVal: start, Name: name, Mutable: true, Type: ty, Value: val}
	case token.COLON:
		p.advance()
		ty := p.parseType()
		var val ast.Expr
		if p.curIs(token.EQ) {
			p.advance()
			val = p.parseExpr(LOWEST)
		}
		p.consumeStmtEnd()
		return &ast.BindingStmt{SpanVal: start, Name: name, Type: ty, Value: val}
	}
	p.errorf(p.cur.Span, "malformed binding statement")
	p.synchronize()
	return &ast.BadStmt{SpanVal: start}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur.Span
	p.advance()
	var val ast.Expr
	if !p.curIs(token.SEMI) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		val = p.parseExpr(LOWEST)
	}
	p.consumeStmtEnd()
	return &ast.ReturnStmt{SpanVal: start, Value: val}
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.cur.Span
	p.advance()
	var val ast.Expr
	if !p.curIs(token.SEMI) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		val = p.parseExpr(LOWEST)
	}
	p.consumeStmtEnd()
	return &ast.BreakStmt{SpanVal: start, Value: val}
}

// tryParseDeferStmt recognizes `@this.defer(expr)` (spec.md §4.3).
func (p *Parser) tryParseDeferStmt() ast.Stmt {
	start := p.cur.Span
	save := p.snapshot()
	p.advance() // '@this'
	p.advance() // '.'
	if !p.curIs(token.IDENT) || p.cur.Literal != "defer" {
		p.restore(save)
		return nil
	}
	p.advance() // 'defer'
	p.expect(token.LPAREN)
	call := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	p.consumeStmtEnd()
	return &ast.DeferStmt{SpanVal: start, Call: call}
}
