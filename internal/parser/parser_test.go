package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/token"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	sink := diag.NewSink([]string{"<test>"})
	p := New(src, 0, sink)
	prog := p.ParseProgram()
	assert.False(t, sink.HasErrors(), "unexpected parse errors for %q: %v", src, sink.All())
	return prog
}

func TestParser_FuncDecl(t *testing.T) {
	prog := parseProgram(t, `add = (a: i64, b: i64) i64 { a + b }`)
	assert.Len(t, prog.Decls, 1)
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	assert.True(t, ok)
	assert.Equal(t, "add", fd.Name)
	assert.Len(t, fd.Params, 2)
}

func TestParser_BindingDecl(t *testing.T) {
	prog := parseProgram(t, `x = 1`)
	bd, ok := prog.Decls[0].(*ast.BindingDecl)
	assert.True(t, ok)
	assert.Equal(t, "x", bd.Name)
	assert.False(t, bd.Mutable)
}

func TestParser_MutableBindingDecl(t *testing.T) {
	prog := parseProgram(t, `x ::= 1`)
	bd, ok := prog.Decls[0].(*ast.BindingDecl)
	assert.True(t, ok)
	assert.True(t, bd.Mutable)
}

func TestParser_StructDecl(t *testing.T) {
	prog := parseProgram(t, `Point: { x: i64, y: i64 }`)
	sd, ok := prog.Decls[0].(*ast.StructDecl)
	assert.True(t, ok)
	assert.Equal(t, "Point", sd.Name)
	assert.Len(t, sd.Fields, 2)
}

func TestParser_ExprEntryPoint(t *testing.T) {
	sink := diag.NewSink([]string{"<test>"})
	p := New(`1 + 2 * 3`, 0, sink)
	expr := p.ParseExpr()
	assert.False(t, sink.HasErrors())
	assert.True(t, p.AtEOF())
	bin, ok := expr.(*ast.BinaryExpr)
	assert.True(t, ok)
	_, ok = bin.Right.(*ast.BinaryExpr)
	assert.True(t, ok, "2 * 3 should bind tighter than +")
}

func parseExprOK(t *testing.T, src string) ast.Expr {
	t.Helper()
	sink := diag.NewSink([]string{"<test>"})
	p := New(src, 0, sink)
	expr := p.ParseExpr()
	assert.False(t, sink.HasErrors(), "unexpected parse errors for %q: %v", src, sink.All())
	return expr
}

// TestParser_NestedVariantPattern covers spec.md §8 Scenario S2:
// `Ok(Some(n))` must parse with the inner `Some(n)` as a nested variant
// pattern bound to the outer `Ok`'s payload, not misread as a single
// IDENT binding named "Some".
func TestParser_NestedVariantPattern(t *testing.T) {
	expr := parseExprOK(t, `v ? | Ok(Some(n)) => n | Ok(None) => 0 | Err(e) => -1`)
	m, ok := expr.(*ast.MatchExpr)
	assert.True(t, ok)
	assert.Len(t, m.Arms, 3)

	outer, ok := m.Arms[0].Pattern.(*ast.VariantPattern)
	assert.True(t, ok)
	assert.Equal(t, "Ok", outer.Variant)
	inner, ok := outer.Binding.(*ast.VariantPattern)
	assert.True(t, ok, "Ok's binding should be a nested VariantPattern, not a bare IdentPattern")
	assert.Equal(t, "Some", inner.Variant)
	ident, ok := inner.Binding.(*ast.IdentPattern)
	assert.True(t, ok)
	assert.Equal(t, "n", ident.Name)
}

// TestParser_NestedNonePattern covers the silent-miscompile half of S2:
// `Ok(None)` must bind a nested `None` variant pattern, not declare a
// fresh identifier binding named "None".
func TestParser_NestedNonePattern(t *testing.T) {
	expr := parseExprOK(t, `v ? | Ok(None) => 0 | Ok(Some(n)) => n | Err(e) => -1`)
	m, ok := expr.(*ast.MatchExpr)
	assert.True(t, ok)
	outer, ok := m.Arms[0].Pattern.(*ast.VariantPattern)
	assert.True(t, ok)
	inner, ok := outer.Binding.(*ast.VariantPattern)
	assert.True(t, ok, "Ok(None)'s binding should be a nested VariantPattern named None")
	assert.Equal(t, "None", inner.Variant)
	assert.Nil(t, inner.Binding)
}

// TestParser_GenericConstructCall covers spec.md §4.7.6 Scenario S5's
// literal construction form: `DynVec<i32>(allocator)` must parse as a
// type-argument call, not as chained relational comparisons.
func TestParser_GenericConstructCall(t *testing.T) {
	expr := parseExprOK(t, `DynVec<i32>(allocator)`)
	call, ok := expr.(*ast.CallExpr)
	assert.True(t, ok)
	id, ok := call.Callee.(*ast.Ident)
	assert.True(t, ok)
	assert.Equal(t, "DynVec", id.Name)
	assert.Len(t, call.TypeArgs, 1)
	assert.Len(t, call.Args, 1)
}

// TestParser_RelationalLessThanStillParses guards against the turbofish
// lookahead misfiring on an ordinary comparison chain.
func TestParser_RelationalLessThanStillParses(t *testing.T) {
	expr := parseExprOK(t, `a < b`)
	bin, ok := expr.(*ast.BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, token.LT, bin.Op)
}
