package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/value"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/token"
)

// genBlock lowers every statement in order and returns the value of the
// trailing expression (if any), mirroring alas's generateFunction loop
// that threads "lastValue" through a statement list.
func (g *Codegen) genBlock(b *ast.BlockExpr) (value.Value, error) {
	if b == nil {
		return nil, nil
	}
	for _, st := range b.Stmts {
		if blockIsTerminated(g.cur) {
			break // a prior statement (return/unreachable) already terminated this block
		}
		if err := g.genStmt(st); err != nil {
			return nil, err
		}
	}
	if blockIsTerminated(g.cur) || b.Value == nil {
		return nil, nil
	}
	return g.genExpr(b.Value)
}

func (g *Codegen) genStmt(st ast.Stmt) error {
	switch v := st.(type) {
	case *ast.BindingStmt:
		return g.genBindingStmt(v)
	case *ast.AssignStmt:
		return g.genAssignStmt(v)
	case *ast.ExprStmt:
		_, err := g.genExpr(v.X)
		return err
	case *ast.ReturnStmt:
		return g.genReturnStmt(v)
	case *ast.BreakStmt:
		return nil // break emits no instructions; no loop construct is lowered by this code generator
	case *ast.ContinueStmt:
		return nil
	case *ast.DeferStmt:
		g.deferred = append(g.deferred, deferredCall{expr: v.Call})
		return nil
	case *ast.BadStmt:
		return fmt.Errorf("encountered unparsed statement at codegen time")
	default:
		return fmt.Errorf("unsupported statement %T", st)
	}
}

func (g *Codegen) genBindingStmt(b *ast.BindingStmt) error {
	val, err := g.genExpr(b.Value)
	if err != nil {
		return err
	}
	var elemType = val.Type()
	if b.Type != nil {
		if t, err := g.llvmType(b.Type); err == nil {
			elemType = t
		}
	}
	slot := g.cur.NewAlloca(elemType)
	slot.SetName(b.Name + ".addr")
	g.cur.NewStore(val, slot)
	g.vars[b.Name] = &irVar{addr: slot, elem: elemType, mutable: b.Mutable}
	return nil
}

func (g *Codegen) genAssignStmt(a *ast.AssignStmt) error {
	ident, ok := a.Target.(*ast.Ident)
	if !ok {
		return fmt.Errorf("unsupported assignment target %T", a.Target)
	}
	v, ok := g.vars[ident.Name]
	if !ok {
		return fmt.Errorf("assignment to undeclared name %q", ident.Name)
	}
	rhs, err := g.genExpr(a.Value)
	if err != nil {
		return err
	}
	if a.Op != token.EQ {
		cur := g.cur.NewLoad(v.elem, v.addr)
		rhs = g.applyCompoundOp(a.Op, cur, rhs)
	}
	g.cur.NewStore(rhs, v.addr)
	return nil
}

func (g *Codegen) applyCompoundOp(op token.Kind, l, r value.Value) value.Value {
	switch op {
	case token.PLUS:
		return g.cur.NewAdd(l, r)
	case token.MINUS:
		return g.cur.NewSub(l, r)
	case token.STAR:
		return g.cur.NewMul(l, r)
	case token.SLASH:
		return g.cur.NewSDiv(l, r)
	default:
		return r
	}
}

func (g *Codegen) genReturnStmt(r *ast.ReturnStmt) error {
	g.emitDefers()
	if r.Value == nil {
		g.cur.NewRet(nil)
		return nil
	}
	v, err := g.genExpr(r.Value)
	if err != nil {
		return err
	}
	g.cur.NewRet(v)
	return nil
}
