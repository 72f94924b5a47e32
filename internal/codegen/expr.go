package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/intrinsics"
	"github.com/zen-lang/zenc/internal/token"
)

func (g *Codegen) genExpr(e ast.Expr) (value.Value, error) {
	switch v := e.(type) {
	case *ast.IntLit:
		return genIntLit(v)
	case *ast.FloatLit:
		return genFloatLit(v)
	case *ast.BoolLit:
		if v.Value {
			return constant.NewInt(irtypes.I1, 1), nil
		}
		return constant.NewInt(irtypes.I1, 0), nil
	case *ast.ByteLit:
		return constant.NewInt(irtypes.I8, int64(v.Value)), nil
	case *ast.StringLit:
		return g.genStringLit(v)
	case *ast.Ident:
		return g.genIdent(v)
	case *ast.PathExpr:
		return g.genPath(v)
	case *ast.CallExpr:
		return g.genCall(v)
	case *ast.MethodCallExpr:
		return g.genMethodCall(v)
	case *ast.BinaryExpr:
		return g.genBinary(v)
	case *ast.UnaryExpr:
		return g.genUnary(v)
	case *ast.MatchExpr:
		return g.genMatch(v)
	case *ast.BlockExpr:
		return g.genBlock(v)
	case *ast.StructLitExpr:
		return g.genStructLit(v)
	case *ast.EnumCtorExpr:
		return g.genEnumCtor(v)
	case *ast.ArrayLitExpr:
		return g.genArrayLit(v)
	case *ast.CastExpr:
		return g.genCast(v)
	case *ast.AddrOfExpr:
		return g.genAddrOf(v)
	case *ast.DerefExpr:
		return g.genDeref(v)
	case *ast.IndexExpr:
		return g.genIndex(v)
	case *ast.ClosureExpr:
		return nil, fmt.Errorf("closures are not yet lowered to standalone functions")
	default:
		return nil, fmt.Errorf("unsupported expression %T", e)
	}
}

func genIntLit(v *ast.IntLit) (value.Value, error) {
	text := strings.ReplaceAll(v.Text, "_", "")
	n, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		un, uerr := strconv.ParseUint(text, 0, 64)
		if uerr != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", v.Text, err)
		}
		n = int64(un)
	}
	t, err := primitiveLLVMType(intLitDefaultType(v.Suffix))
	if err != nil {
		return nil, err
	}
	return constant.NewInt(t.(*irtypes.IntType), n), nil
}

func intLitDefaultType(suffix string) string {
	if suffix == "" {
		return "i32"
	}
	return suffix
}

func genFloatLit(v *ast.FloatLit) (value.Value, error) {
	text := strings.ReplaceAll(v.Text, "_", "")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float literal %q: %w", v.Text, err)
	}
	if v.Suffix == "f32" {
		return constant.NewFloat(irtypes.Float, f), nil
	}
	return constant.NewFloat(irtypes.Double, f), nil
}

// genStringLit concatenates the literal pieces of a string literal into
// one NUL-terminated constant global and returns a pointer to its first
// byte. Interpolated expression pieces are not emitted.
func (g *Codegen) genStringLit(s *ast.StringLit) (value.Value, error) {
	var sb strings.Builder
	for _, p := range s.Pieces {
		if p.Literal != "" {
			sb.WriteString(p.Literal)
		}
	}
	data := constant.NewCharArrayFromString(sb.String() + "\x00")
	global := g.Module.NewGlobalDef("", data)
	global.Immutable = true
	zero := constant.NewInt(irtypes.I64, 0)
	return constant.NewGetElementPtr(data.Type(), global, zero, zero), nil
}

func (g *Codegen) genIdent(id *ast.Ident) (value.Value, error) {
	if id.Name == "@this" {
		return nil, fmt.Errorf("@this has no standalone runtime value")
	}
	if v, ok := g.vars[id.Name]; ok {
		return g.cur.NewLoad(v.elem, v.addr), nil
	}
	if fn, ok := g.functions[id.Name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unresolved identifier %q", id.Name)
}

func (g *Codegen) genPath(p *ast.PathExpr) (value.Value, error) {
	if v, ok := g.vars[p.Segs[0]]; ok {
		return g.genFieldChain(v.addr, v.elem, p.Segs[1:])
	}

	name := strings.Join(p.Segs, "__")
	if fn, ok := g.functions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unresolved path %q", name)
}

// genFieldChain walks struct field accesses off a local binding's stack
// slot, GEP-then-loading one field at a time, mirroring genStructLit's
// fieldIndex lookup against the same struct declaration table.
func (g *Codegen) genFieldChain(addr value.Value, elem irtypes.Type, segs []string) (value.Value, error) {
	st, ok := elem.(*irtypes.StructType)
	if !ok {
		return nil, fmt.Errorf("cannot access field on non-struct type %s", elem)
	}
	for i, seg := range segs {
		sd := g.structDef[st.TypeName]
		idx := fieldIndex(sd, seg)
		if idx < 0 {
			return nil, fmt.Errorf("struct %s has no field %q", st.TypeName, seg)
		}
		fieldPtr := g.cur.NewGetElementPtr(st, addr, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(idx)))
		fieldType := st.Fields[idx]
		if i == len(segs)-1 {
			return g.cur.NewLoad(fieldType, fieldPtr), nil
		}
		next, ok := fieldType.(*irtypes.StructType)
		if !ok {
			return nil, fmt.Errorf("field %q is not a struct", seg)
		}
		addr, st = fieldPtr, next
	}
	return nil, fmt.Errorf("empty field chain")
}

func (g *Codegen) genCall(c *ast.CallExpr) (value.Value, error) {
	if id, ok := c.Callee.(*ast.Ident); ok {
		if intr, ok := intrinsics.Lookup(id.Name); ok {
			return g.genIntrinsic(intr, c.Args)
		}
		if len(c.TypeArgs) > 0 {
			return g.genGenericConstructCall(id, c.Args)
		}
	}
	callee, err := g.genExpr(c.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("call target is not a function")
	}
	args, err := g.genArgs(c.Args)
	if err != nil {
		return nil, err
	}
	return g.cur.NewCall(fn, args...), nil
}

// genMethodCall lowers uniform-function-call syntax `recv.name(args)` as
// the call `name(recv, args...)`, looking `name` up in the global
// function table. Behavior implementations are not consulted: the callee
// is chosen by name alone, whatever recv's type.
func (g *Codegen) genMethodCall(m *ast.MethodCallExpr) (value.Value, error) {
	fn, ok := g.functions[m.Name]
	if !ok {
		return nil, fmt.Errorf("unresolved method/function %q", m.Name)
	}
	args := make([]value.Value, 0, len(m.Args)+1)
	recv, err := g.genExpr(m.Recv)
	if err != nil {
		return nil, err
	}
	args = append(args, recv)
	rest, err := g.genArgs(m.Args)
	if err != nil {
		return nil, err
	}
	args = append(args, rest...)
	return g.cur.NewCall(fn, args...), nil
}

func (g *Codegen) genArgs(exprs []ast.Expr) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := g.genExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (g *Codegen) genBinary(b *ast.BinaryExpr) (value.Value, error) {
	l, err := g.genExpr(b.Left)
	if err != nil {
		return nil, err
	}
	r, err := g.genExpr(b.Right)
	if err != nil {
		return nil, err
	}
	isFloat := isFloatValue(l) || isFloatValue(r)
	switch b.Op {
	case token.PLUS:
		if isFloat {
			return g.cur.NewFAdd(l, r), nil
		}
		return g.cur.NewAdd(l, r), nil
	case token.MINUS:
		if isFloat {
			return g.cur.NewFSub(l, r), nil
		}
		return g.cur.NewSub(l, r), nil
	case token.STAR:
		if isFloat {
			return g.cur.NewFMul(l, r), nil
		}
		return g.cur.NewMul(l, r), nil
	case token.SLASH:
		if isFloat {
			return g.cur.NewFDiv(l, r), nil
		}
		return g.cur.NewSDiv(l, r), nil
	case token.PERCENT:
		if isFloat {
			return g.cur.NewFRem(l, r), nil
		}
		return g.cur.NewSRem(l, r), nil
	case token.EQEQ:
		if isFloat {
			return g.cur.NewFCmp(enum.FPredOEQ, l, r), nil
		}
		return g.cur.NewICmp(enum.IPredEQ, l, r), nil
	case token.NEQ:
		if isFloat {
			return g.cur.NewFCmp(enum.FPredONE, l, r), nil
		}
		return g.cur.NewICmp(enum.IPredNE, l, r), nil
	case token.LT:
		if isFloat {
			return g.cur.NewFCmp(enum.FPredOLT, l, r), nil
		}
		return g.cur.NewICmp(enum.IPredSLT, l, r), nil
	case token.LE:
		if isFloat {
			return g.cur.NewFCmp(enum.FPredOLE, l, r), nil
		}
		return g.cur.NewICmp(enum.IPredSLE, l, r), nil
	case token.GT:
		if isFloat {
			return g.cur.NewFCmp(enum.FPredOGT, l, r), nil
		}
		return g.cur.NewICmp(enum.IPredSGT, l, r), nil
	case token.GE:
		if isFloat {
			return g.cur.NewFCmp(enum.FPredOGE, l, r), nil
		}
		return g.cur.NewICmp(enum.IPredSGE, l, r), nil
	case token.ANDAND:
		return g.cur.NewAnd(l, r), nil
	case token.OROR:
		return g.cur.NewOr(l, r), nil
	case token.AMP:
		return g.cur.NewAnd(l, r), nil
	case token.PIPE:
		return g.cur.NewOr(l, r), nil
	case token.CARET:
		return g.cur.NewXor(l, r), nil
	case token.SHL:
		return g.cur.NewShl(l, r), nil
	case token.SHR:
		return g.cur.NewAShr(l, r), nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", b.Op)
	}
}

func (g *Codegen) genUnary(u *ast.UnaryExpr) (value.Value, error) {
	x, err := g.genExpr(u.X)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case token.BANG:
		one := constant.NewInt(irtypes.I1, 1)
		return g.cur.NewXor(x, one), nil
	case token.MINUS:
		if isFloatValue(x) {
			return g.cur.NewFSub(constant.NewFloat(irtypes.Double, 0), x), nil
		}
		it, ok := x.Type().(*irtypes.IntType)
		if !ok {
			return nil, fmt.Errorf("unary minus on non-numeric value")
		}
		return g.cur.NewSub(constant.NewInt(it, 0), x), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %q", u.Op)
	}
}

func (g *Codegen) genCast(c *ast.CastExpr) (value.Value, error) {
	x, err := g.genExpr(c.X)
	if err != nil {
		return nil, err
	}
	target, err := g.llvmType(c.Type)
	if err != nil {
		return nil, err
	}
	return g.convert(x, target)
}

func (g *Codegen) convert(x value.Value, target irtypes.Type) (value.Value, error) {
	src := x.Type()
	if src.Equal(target) {
		return x, nil
	}
	srcInt, srcIsInt := src.(*irtypes.IntType)
	dstInt, dstIsInt := target.(*irtypes.IntType)
	if srcIsInt && dstIsInt {
		if dstInt.BitSize > srcInt.BitSize {
			return g.cur.NewSExt(x, dstInt), nil
		}
		return g.cur.NewTrunc(x, dstInt), nil
	}
	if srcIsInt && isFloatType(target) {
		return g.cur.NewSIToFP(x, target), nil
	}
	if isFloatType(src) && dstIsInt {
		return g.cur.NewFPToSI(x, dstInt), nil
	}
	if _, ok := src.(*irtypes.PointerType); ok {
		if _, ok := target.(*irtypes.PointerType); ok {
			return g.cur.NewBitCast(x, target), nil
		}
	}
	return g.cur.NewBitCast(x, target), nil
}

func (g *Codegen) genAddrOf(a *ast.AddrOfExpr) (value.Value, error) {
	id, ok := a.X.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("address-of is only supported directly on a binding")
	}
	v, ok := g.vars[id.Name]
	if !ok {
		return nil, fmt.Errorf("address-of undeclared name %q", id.Name)
	}
	return v.addr, nil
}

func (g *Codegen) genDeref(d *ast.DerefExpr) (value.Value, error) {
	x, err := g.genExpr(d.X)
	if err != nil {
		return nil, err
	}
	pt, ok := x.Type().(*irtypes.PointerType)
	if !ok {
		return nil, fmt.Errorf("dereference of non-pointer value")
	}
	return g.cur.NewLoad(pt.ElemType, x), nil
}

// genIndex addresses `x[i]` directly off x's stack slot rather than its
// loaded value, so indexing a local array binding doesn't need to spill
// a freshly-loaded array value back to memory just to GEP into it.
func (g *Codegen) genIndex(ix *ast.IndexExpr) (value.Value, error) {
	id, ok := ix.X.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("indexing is only supported directly on a binding")
	}
	v, ok := g.vars[id.Name]
	if !ok {
		return nil, fmt.Errorf("index of undeclared name %q", id.Name)
	}
	idx, err := g.genExpr(ix.Index)
	if err != nil {
		return nil, err
	}
	at, ok := v.elem.(*irtypes.ArrayType)
	if !ok {
		return nil, fmt.Errorf("index target %q is not an array", id.Name)
	}
	elemPtr := g.cur.NewGetElementPtr(at, v.addr, constant.NewInt(irtypes.I32, 0), idx)
	return g.cur.NewLoad(at.ElemType, elemPtr), nil
}

func (g *Codegen) genArrayLit(a *ast.ArrayLitExpr) (value.Value, error) {
	elems := make([]value.Value, len(a.Elements))
	var elemType irtypes.Type = irtypes.I64
	for i, e := range a.Elements {
		v, err := g.genExpr(e)
		if err != nil {
			return nil, err
		}
		elems[i] = v
		elemType = v.Type()
	}
	arrType := irtypes.NewArray(uint64(len(elems)), elemType)
	slot := g.cur.NewAlloca(arrType)
	slot.SetName("array_lit")
	for i, v := range elems {
		ptr := g.cur.NewGetElementPtr(arrType, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(i)))
		g.cur.NewStore(v, ptr)
	}
	return g.cur.NewLoad(arrType, slot), nil
}

// genGenericConstructCall lowers the turbofish construction form
// `Name<Args>(ctorArgs...)` (spec.md §4.7.6), e.g. `DynVec<i32>(a)`: the
// well-known DynVec/HashMap/String layouts start empty regardless of
// element type, so this evaluates the constructor arguments for their
// side effects (the allocator argument in particular) and returns a
// zero-valued instance of the named type's LLVM layout.
func (g *Codegen) genGenericConstructCall(id *ast.Ident, ctorArgs []ast.Expr) (value.Value, error) {
	for _, a := range ctorArgs {
		if _, err := g.genExpr(a); err != nil {
			return nil, err
		}
	}
	t, err := g.namedLLVMType(id.Name)
	if err != nil {
		return nil, err
	}
	return constant.NewZeroInitializer(t), nil
}

func (g *Codegen) genStructLit(s *ast.StructLitExpr) (value.Value, error) {
	name, err := namedTypeName(s.Type)
	if err != nil {
		return nil, err
	}
	st, ok := g.structs[name]
	if !ok {
		return nil, fmt.Errorf("unknown struct type %q", name)
	}
	sd := g.structDef[name]
	slot := g.cur.NewAlloca(st)
	slot.SetName(name + ".lit")
	for _, f := range s.Fields {
		idx := fieldIndex(sd, f.Name)
		if idx < 0 {
			return nil, fmt.Errorf("struct %s has no field %q", name, f.Name)
		}
		v, err := g.genExpr(f.Value)
		if err != nil {
			return nil, err
		}
		ptr := g.cur.NewGetElementPtr(st, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(idx)))
		g.cur.NewStore(v, ptr)
	}
	return g.cur.NewLoad(st, slot), nil
}

func fieldIndex(sd *ast.StructDecl, name string) int {
	if sd == nil {
		return -1
	}
	for i, f := range sd.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func namedTypeName(t ast.TypeExpr) (string, error) {
	switch v := t.(type) {
	case *ast.NamedType:
		return v.Name, nil
	case *ast.ParameterizedType:
		return v.Name, nil
	default:
		return "", fmt.Errorf("expected a named type, got %T", t)
	}
}

func isFloatValue(v value.Value) bool {
	return isFloatType(v.Type())
}

func isFloatType(t irtypes.Type) bool {
	_, ok := t.(*irtypes.FloatType)
	return ok
}
