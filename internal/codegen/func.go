package codegen

import (
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/zen-lang/zenc/internal/ast"
)

// generateFunc lowers one function body. Each parameter is copied into
// its own alloca in the entry block, so mutation and address-of work on
// parameters the same way as on locals. Each local binding gets its
// alloca in the block where it is bound (genBindingStmt, match-arm
// bindings); those allocas are not hoisted to the entry block.
func (g *Codegen) generateFunc(fd *ast.FuncDecl) error {
	fn := g.functions[fd.Name]
	entry := fn.NewBlock("entry")

	prevCur, prevVars, prevDeferred, prevFn := g.cur, g.vars, g.deferred, g.fn
	g.cur = entry
	g.vars = make(map[string]*irVar)
	g.deferred = nil
	g.fn = fn
	defer func() {
		g.cur, g.vars, g.deferred, g.fn = prevCur, prevVars, prevDeferred, prevFn
	}()

	for i, p := range fd.Params {
		if i >= len(fn.Params) {
			break
		}
		llp := fn.Params[i]
		slot := g.cur.NewAlloca(llp.Type())
		slot.SetName(p.Name + ".addr")
		g.cur.NewStore(llp, slot)
		g.vars[p.Name] = &irVar{addr: slot, elem: llp.Type(), mutable: true}
	}

	tail, err := g.genBlock(fd.Body)
	if err != nil {
		return err
	}
	g.emitDefers()
	if !blockIsTerminated(g.cur) {
		if _, void := fn.Sig.RetType.(*irtypes.VoidType); void || tail == nil {
			g.cur.NewRet(nil)
		} else {
			g.cur.NewRet(tail)
		}
	}
	return nil
}

// emitDefers runs the current function's deferred calls in LIFO order
// (spec.md's `@this.defer` semantics): last registered, first executed,
// exactly like a stack unwind.
func (g *Codegen) emitDefers() {
	for i := len(g.deferred) - 1; i >= 0; i-- {
		_, _ = g.genExpr(g.deferred[i].expr)
	}
	g.deferred = nil
}
