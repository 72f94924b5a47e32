package codegen

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/check"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/mono"
	"github.com/zen-lang/zenc/internal/parser"
	"github.com/zen-lang/zenc/internal/resolver"
)

// buildAndCheck runs the full resolver-free pipeline (parse, fabricate a
// single-module Program, type-check, monomorphize) so codegen tests exercise
// the real path from source text to a checked program, the same way
// cmd/zen's compile() does for a real file.
func buildAndCheck(t *testing.T, src string) (*check.Checker, *resolver.Program, []*mono.Instance) {
	t.Helper()
	sink := diag.NewSink([]string{"<test>"})
	p := parser.New(src, 0, sink)
	parsed := p.ParseProgram()
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.All())

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
	prog := &resolver.Program{Modules: []*resolver.Module{{Program: parsed}}, Globals: globals}

	c := check.New(prog, sink)
	c.Run()
	require.False(t, c.HasErrors(), "check errors: %v", sink.All())

	m := mono.New(c.Env)
	m.Seed(prog)
	instances := m.Run()
	return c, prog, instances
}

func TestCodegen_SimpleFunction(t *testing.T) {
	c, prog, instances := buildAndCheck(t, `add = (a: i64, b: i64) i64 { a + b }`)
	g := New(c)
	require.NoError(t, g.GenerateProgram(prog, instances))

	ir := g.Module.String()
	assert.Contains(t, ir, "define")
	assert.Contains(t, ir, "@add")
	assert.Contains(t, ir, "i64")
}

func TestCodegen_FunctionCallingAnother(t *testing.T) {
	c, prog, instances := buildAndCheck(t, `
double = (x: i64) i64 { x * 2 }
quadruple = (x: i64) i64 { double(double(x)) }
`)
	g := New(c)
	require.NoError(t, g.GenerateProgram(prog, instances))

	ir := g.Module.String()
	assert.Contains(t, ir, "@double")
	assert.Contains(t, ir, "@quadruple")
	assert.Equal(t, 2, strings.Count(ir, "call i64 @double"), "quadruple should call double exactly twice")
}

func TestCodegen_StructDeclLowersToLLVMStructType(t *testing.T) {
	c, prog, instances := buildAndCheck(t, `
Point: { x: i64, y: i64 }
originX = () i64 { p = Point { x: 0, y: 0 } p.x }
`)
	g := New(c)
	require.NoError(t, g.GenerateProgram(prog, instances))

	ir := g.Module.String()
	assert.Contains(t, ir, "%Point")
	assert.Contains(t, ir, "@originX")
}

// TestCodegen_NestedVariantPatternBinding covers spec.md §8 Scenario S2:
// matching `Ok(Some(n))` must bind n by unwrapping the outer Ok's
// payload and then the inner Some's payload, lowering without error.
func TestCodegen_NestedVariantPatternBinding(t *testing.T) {
	c, prog, instances := buildAndCheck(t, `
describe = (r: Result<Option<i64>, i64>) i64 { r ? | Ok(Some(n)) => n | Ok(None) => 0 | Err(e) => e }
`)
	g := New(c)
	require.NoError(t, g.GenerateProgram(prog, instances))

	ir := g.Module.String()
	assert.Contains(t, ir, "@describe")
}

// TestCodegen_GenericConstructCall covers spec.md §4.7.6 Scenario S5's
// literal construction form lowering to a zero-valued instance of the
// named type's LLVM layout.
func TestCodegen_GenericConstructCall(t *testing.T) {
	c, prog, instances := buildAndCheck(t, `
make = (allocator: i64) DynVec<i64> { DynVec<i64>(allocator) }
`)
	g := New(c)
	require.NoError(t, g.GenerateProgram(prog, instances))

	ir := g.Module.String()
	assert.Contains(t, ir, "@make")
}

// TestCodegen_SetDiscriminantAndPayload covers spec.md §4.6's enum-layout
// writer intrinsics: set_discriminant/set_payload must lower against an
// addressable enum slot (a pointer to its struct layout) by GEP+store,
// the write-side counterpart of discriminantOf/payloadOf (enum.go).
// Exercised directly against the lowering helpers rather than through a
// full parse/check/codegen pipeline, since the checker has no model of
// @builtin.* intrinsic call sites to type-check against (a pre-existing
// gap outside this review's scope).
func TestCodegen_SetDiscriminantAndPayload(t *testing.T) {
	g := &Codegen{
		Module:    ir.NewModule(),
		functions: map[string]*ir.Func{},
		structs:   map[string]*irtypes.StructType{},
		structDef: map[string]*ast.StructDecl{},
		enums:     map[string]*ast.EnumDecl{},
		intrinFns: map[string]*ir.Func{},
		vars:      map[string]*irVar{},
	}
	fn := g.Module.NewFunc("recolor", irtypes.Void)
	g.fn = fn
	g.cur = fn.NewBlock("entry")

	st := irtypes.NewStruct(irtypes.I64, irtypes.NewArray(8, irtypes.I8))
	slot := g.cur.NewAlloca(st)

	_, err := g.setDiscriminant(slot, constant.NewInt(irtypes.I64, 2))
	require.NoError(t, err)
	_, err = g.setPayload(slot, constant.NewInt(irtypes.I64, 42))
	require.NoError(t, err)
	g.cur.NewRet(nil)

	out := g.Module.String()
	assert.Contains(t, out, "getelementptr")
	assert.Contains(t, out, "store")
}

func TestCodegen_EveryBlockIsTerminated(t *testing.T) {
	c, prog, instances := buildAndCheck(t, `add = (a: i64, b: i64) i64 { a + b }`)
	g := New(c)
	require.NoError(t, g.GenerateProgram(prog, instances))

	for _, f := range g.Module.Funcs {
		for _, blk := range f.Blocks {
			assert.NotNil(t, blk.Term, "every emitted block must end in a terminator")
		}
	}
}
