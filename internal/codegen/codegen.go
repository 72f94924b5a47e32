// Package codegen lowers a checked, monomorphized program to LLVM IR
// using github.com/llir/llvm, following the shape of dshills/alas's
// internal/codegen/llvm.go: one module, a per-function builder cursor,
// and a variables map of name -> alloca.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/check"
	"github.com/zen-lang/zenc/internal/mono"
	"github.com/zen-lang/zenc/internal/resolver"
)

// Codegen holds the state threaded through lowering a whole program:
// the in-progress module, the function/struct/enum symbol tables, and
// the current block cursor (swapped out per function, per match arm).
type Codegen struct {
	Module    *ir.Module
	Checker   *check.Checker
	functions map[string]*ir.Func
	structs   map[string]*irtypes.StructType
	structDef map[string]*ast.StructDecl
	enums     map[string]*ast.EnumDecl
	intrinFns map[string]*ir.Func

	cur      *ir.Block
	vars     map[string]*irVar
	deferred []deferredCall
	fn       *ir.Func
}

// irVar is a named stack slot: every local binding gets an alloca so
// mutation (`::=`) and address-of (`&`) both have somewhere to point,
// mirroring the alloca+store+load discipline alas's codegen uses.
type irVar struct {
	addr    value.Value
	elem    irtypes.Type
	mutable bool
}

type deferredCall struct {
	expr ast.Expr
}

// blockIsTerminated reports whether b already ends in a terminator
// (return/branch/unreachable), per spec.md §4.7.4: once one statement
// terminates a block, every later statement in it is dead and must not
// emit instructions into the already-closed block.
func blockIsTerminated(b *ir.Block) bool {
	return b.Term != nil
}

func New(c *check.Checker) *Codegen {
	m := ir.NewModule()
	g := &Codegen{
		Module:    m,
		Checker:   c,
		functions: make(map[string]*ir.Func),
		structs:   make(map[string]*irtypes.StructType),
		structDef: make(map[string]*ast.StructDecl),
		enums:     make(map[string]*ast.EnumDecl),
		intrinFns: make(map[string]*ir.Func),
	}
	g.declareIntrinsicRuntime()
	return g
}

// GenerateProgram emits every global declaration in the resolved program
// plus every sealed monomorphization instance, in two passes per
// spec.md §4.7 (declare signatures, then fill bodies) so mutual
// recursion and forward references both resolve.
func (g *Codegen) GenerateProgram(prog *resolver.Program, instances []*mono.Instance) error {
	var funcs []*ast.FuncDecl

	for _, d := range prog.Globals {
		switch v := (*d).(type) {
		case *ast.StructDecl:
			g.registerStruct(v)
		case *ast.EnumDecl:
			g.enums[v.Name] = v
		case *ast.FuncDecl:
			funcs = append(funcs, v)
		}
	}
	for _, inst := range instances {
		switch v := inst.Decl.(type) {
		case *ast.StructDecl:
			g.registerStruct(v)
		case *ast.EnumDecl:
			g.enums[v.Name] = v
		case *ast.FuncDecl:
			funcs = append(funcs, v)
		}
	}

	for _, fd := range funcs {
		if err := g.declareFunc(fd); err != nil {
			return fmt.Errorf("declaring %s: %w", fd.Name, err)
		}
	}
	for _, fd := range funcs {
		if fd.Body == nil {
			continue // external declaration, no body to generate
		}
		if err := g.generateFunc(fd); err != nil {
			return fmt.Errorf("generating %s: %w", fd.Name, err)
		}
	}
	return nil
}

func (g *Codegen) declareFunc(fd *ast.FuncDecl) error {
	if _, ok := g.functions[fd.Name]; ok {
		return nil
	}
	ret, err := g.llvmType(fd.Return)
	if err != nil {
		return err
	}
	fn := g.Module.NewFunc(fd.Name, ret)
	for _, p := range fd.Params {
		pt, err := g.llvmType(p.Type)
		if err != nil {
			return err
		}
		fn.Params = append(fn.Params, ir.NewParam(p.Name, pt))
	}
	if fd.Varargs {
		fn.Sig.Variadic = true
	}
	g.functions[fd.Name] = fn
	return nil
}
