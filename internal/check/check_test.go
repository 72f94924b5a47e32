package check

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/parser"
	"github.com/zen-lang/zenc/internal/resolver"
)

// buildProgram parses src as a single-file program with no imports, and
// wraps it as a resolver.Program so the checker can be driven without a
// real module resolution pass (this mirrors what resolver.Resolve would
// produce for a root file with no @std/@this imports).
func buildProgram(t *testing.T, src string) (*resolver.Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink([]string{"<test>"})
	p := parser.New(src, 0, sink)
	parsed := p.ParseProgram()
	assert.False(t, sink.HasErrors(), "unexpected parse errors: %v", sink.All())

	globals := make(map[string]*ast.Decl)
	for i := range parsed.Decls {
		d := parsed.Decls[i]
		var name string
		switch v := d.(type) {
		case *ast.FuncDecl:
			name = v.Name
		case *ast.StructDecl:
			name = v.Name
		case *ast.EnumDecl:
			name = v.Name
		case *ast.BindingDecl:
			name = v.Name
		}
		if name != "" {
			globals[name] = &d
		}
	}
	prog := &resolver.Program{
		Modules: []*resolver.Module{{Program: parsed}},
		Globals: globals,
	}
	return prog, sink
}

func TestCheck_SimpleFunctionBody(t *testing.T) {
	prog, sink := buildProgram(t, `add = (a: i64, b: i64) i64 { a + b }`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

func TestCheck_CallingAnotherTopLevelFunction(t *testing.T) {
	prog, sink := buildProgram(t, `
double = (x: i64) i64 { x * 2 }
quadruple = (x: i64) i64 { double(double(x)) }
`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

func TestCheck_StructLiteralAndFieldAccess(t *testing.T) {
	prog, sink := buildProgram(t, `
Point: { x: i64, y: i64 }
originX = () i64 { p = Point { x: 0, y: 0 } p.x }
`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

func TestCheck_SynthExprType_ForRepl(t *testing.T) {
	prog, sink := buildProgram(t, ``)
	c := New(prog, sink)
	c.Run()

	sink2 := diag.NewSink([]string{"<repl>"})
	p := parser.New(`1 + 2`, 0, sink2)
	expr := p.ParseExpr()
	assert.False(t, sink2.HasErrors())

	replChecker := New(prog, sink2)
	ty := replChecker.SynthExprType(expr)
	assert.False(t, sink2.HasErrors())
	assert.NotNil(t, ty)
}

// TestCheck_OptionExhaustiveMatch covers spec.md §4.4.3: matching both
// Some and None of an explicitly-typed Option<T> parameter (which
// resolves to *types.Generic, not *types.Named+*ast.EnumDecl) must be
// accepted as exhaustive.
func TestCheck_OptionExhaustiveMatch(t *testing.T) {
	prog, sink := buildProgram(t, `
unwrapOr = (o: Option<i64>) i64 { o ? | Some(n) => n | None => 0 }
`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

// TestCheck_OptionNonExhaustiveMatch covers the review's named gap: a
// match over an Option<T>-typed value that only covers Some must be
// flagged non-exhaustive, since Option resolves to *types.Generic and
// previously had no ast.EnumDecl to walk for coverage.
func TestCheck_OptionNonExhaustiveMatch(t *testing.T) {
	prog, sink := buildProgram(t, `
unwrapOr = (o: Option<i64>) i64 { o ? | Some(n) => n }
`)
	c := New(prog, sink)
	c.Run()
	assert.True(t, c.HasErrors(), "expected a non-exhaustive match error for missing None arm")
}

// TestCheck_ResultExhaustiveMatch mirrors the Option case for Result<T, E>.
func TestCheck_ResultExhaustiveMatch(t *testing.T) {
	prog, sink := buildProgram(t, `
unwrapOr = (r: Result<i64, i64>) i64 { r ? | Ok(n) => n | Err(e) => e }
`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

// TestCheck_BoolExhaustiveMatch guards the bool-exhaustiveness fix: a
// match covering both true and false literal arms must be accepted, not
// spuriously flagged non-exhaustive (checkPattern must tag a BoolLit
// pattern's variant as "true"/"false" for the coverage tally to see it).
func TestCheck_BoolExhaustiveMatch(t *testing.T) {
	prog, sink := buildProgram(t, `
describe = (b: bool) i64 { b ? | true => 1 | false => 0 }
`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

// TestCheck_BoolNonExhaustiveMatch covers the other side: a bool match
// missing the false arm must still be flagged.
func TestCheck_BoolNonExhaustiveMatch(t *testing.T) {
	prog, sink := buildProgram(t, `
describe = (b: bool) i64 { b ? | true => 1 }
`)
	c := New(prog, sink)
	c.Run()
	assert.True(t, c.HasErrors(), "expected a non-exhaustive match error for missing false arm")
}

// TestCheck_NestedVariantPatternBindsInnerType covers spec.md §8 Scenario
// S2: Ok(Some(n))'s inner binding n must check against Result's wrapped
// Ok payload type, not cascade a spurious type error.
func TestCheck_NestedVariantPatternBindsInnerType(t *testing.T) {
	prog, sink := buildProgram(t, `
describe = (r: Result<Option<i64>, i64>) i64 { r ? | Ok(Some(n)) => n | Ok(None) => 0 | Err(e) => e }
`)
	c := New(prog, sink)
	c.Run()
	assert.False(t, c.HasErrors(), "unexpected check errors: %v", sink.All())
}

// TestCheck_DynVecConstructionRequiresAllocator covers spec.md §4.7.6/
// property 7: constructing a stdlib-opaque allocator-requiring type
// (here via the struct-literal spelling) without an allocator argument
// must be rejected, even though DynVec has no in-program *ast.StructDecl.
func TestCheck_DynVecConstructionRequiresAllocator(t *testing.T) {
	prog, sink := buildProgram(t, `
make = () DynVec { DynVec {  } }
`)
	c := New(prog, sink)
	c.Run()
	assert.True(t, c.HasErrors(), "expected an allocator-required error for DynVec construction with no allocator")
}

// TestCheck_GenericConstructCallRequiresAllocator covers spec.md §4.7.6
// Scenario S5's call-style construction: DynVec<i32>() with no allocator
// argument must produce the allocator-required diagnostic, not a parse
// error from '<'/'>' mis-lexing as comparisons.
func TestCheck_GenericConstructCallRequiresAllocator(t *testing.T) {
	prog, sink := buildProgram(t, `
make = () DynVec<i32> { DynVec<i32>() }
`)
	c := New(prog, sink)
	c.Run()
	assert.True(t, c.HasErrors(), "expected an allocator-required error for DynVec<i32>() with no allocator")
}
