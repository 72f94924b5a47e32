// Package check implements Zen's bidirectional type checker (spec.md
// §4.4): name resolution against the merged module table, synthesis and
// checking modes over expressions, generic instantiation bookkeeping,
// behavior conformance, pattern exhaustiveness, and the allocator
// discipline of §4.7.6 and §7.
//
// The split across files follows the teacher's eval_*.go convention
// (eval_expressions.go / eval_statements.go / eval_controls.go): here,
// check_decl.go / check_expr.go / check_pattern.go / check_match.go,
// each owning one concern of the contract.
package check

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/resolver"
	"github.com/zen-lang/zenc/internal/scope"
	"github.com/zen-lang/zenc/internal/types"
)

// Checker holds all state shared across one compilation's type-checking
// pass: the merged program, the generic-definition environment, the
// behavior implementation table, and the out-of-band node->type map
// spec.md §3.6 calls for ("stored out-of-band, keyed by node id" — here
// keyed by the node's own pointer identity, which is Go's natural
// equivalent of a node id).
type Checker struct {
	Program *resolver.Program
	Sink    *diag.Sink
	Env     *types.Env

	// Impls maps (behaviorName, typeName) to its implementation decl,
	// spec.md §4.4.4's nominal lookup table.
	Impls map[implKey]*ast.BehaviorImplDecl

	nodeTypes map[ast.Node]types.Type
	varSeq    int
}

type implKey struct{ Behavior, Type string }

func New(prog *resolver.Program, sink *diag.Sink) *Checker {
	return &Checker{
		Program:   prog,
		Sink:      sink,
		Env:       types.NewEnv(),
		Impls:     make(map[implKey]*ast.BehaviorImplDecl),
		nodeTypes: make(map[ast.Node]types.Type),
	}
}

// TypeOf returns the type recorded for n, or the error sentinel if n was
// never visited (an ICE condition spec.md §7 calls out explicitly).
func (c *Checker) TypeOf(n ast.Node) types.Type {
	if t, ok := c.nodeTypes[n]; ok {
		return t
	}
	return types.ErrorType
}

func (c *Checker) setType(n ast.Node, t types.Type) { c.nodeTypes[n] = t }

func (c *Checker) freshVar() *types.Var {
	c.varSeq++
	return &types.Var{ID: c.varSeq}
}

func (c *Checker) errorf(span ast.Node, format string, args ...interface{}) {
	c.Sink.Addf(diag.Error, span.Span(), format, args...)
}

// Run type-checks every module of the resolved program: declarations are
// registered first across all modules (pass 1, mirroring the resolver's
// own two-pass contract), then every function body and top-level binding
// is checked against the now-complete table (pass 2).
func (c *Checker) Run() {
	for _, m := range c.Program.Modules {
		c.registerDecls(m.Program.Decls)
	}
	for _, m := range c.Program.Modules {
		c.checkDecls(m.Program.Decls)
	}
}

// HasErrors reports whether checking found any error-severity diagnostic;
// codegen must not run otherwise (spec.md §7's propagation policy).
func (c *Checker) HasErrors() bool { return c.Sink.HasErrors() }

// SynthExprType type-checks a single standalone expression against the
// program's global scope and returns its synthesized type. This is the
// REPL's entry point (internal/repl): single-expression evaluation per
// spec.md §6.1 never runs the full two-pass Run() over a whole program.
func (c *Checker) SynthExprType(e ast.Expr) types.Type {
	return c.synthExpr(c.globalScope(), e)
}

// globalScope builds the root scope for one module: every top-level
// function in the program's globals is declared with its function type.
// Top-level value bindings and aliases are not declared in it.
func (c *Checker) globalScope() *scope.Scope {
	root := scope.New(nil)
	for name, d := range c.Program.Globals {
		if fd, ok := (*d).(*ast.FuncDecl); ok {
			root.Declare(&scope.Binding{Name: name, Type: c.funcType(fd)})
		}
	}
	return root
}
