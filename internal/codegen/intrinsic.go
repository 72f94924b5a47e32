package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/intrinsics"
)

// declareIntrinsicRuntime declares the external C-ABI entry points the
// closed @builtin.* table (internal/intrinsics) lowers through
// LowerCall, so raw_allocate/raw_deallocate/raw_reallocate resolve to
// the platform allocator without Zen needing its own allocator runtime.
func (g *Codegen) declareIntrinsicRuntime() {
	i8ptr := irtypes.NewPointer(irtypes.I8)

	malloc := g.Module.NewFunc("malloc", i8ptr, ir.NewParam("size", irtypes.I64))
	free := g.Module.NewFunc("free", irtypes.Void, ir.NewParam("ptr", i8ptr))
	realloc := g.Module.NewFunc("realloc", i8ptr, ir.NewParam("ptr", i8ptr), ir.NewParam("size", irtypes.I64))

	g.intrinFns["raw_allocate"] = malloc
	g.intrinFns["raw_deallocate"] = free
	g.intrinFns["raw_reallocate"] = realloc
}

// genIntrinsic lowers one @builtin.* call per its Lowering strategy
// (internal/intrinsics.Table), the closed, non-extensible set spec.md
// §4.6 defines.
func (g *Codegen) genIntrinsic(intr *intrinsics.Intrinsic, args []ast.Expr) (value.Value, error) {
	switch intr.Lowering {
	case intrinsics.LowerCall:
		fn, ok := g.intrinFns[intr.Name]
		if !ok {
			return nil, fmt.Errorf("intrinsic %q has no runtime binding", intr.Name)
		}
		vals, err := g.genArgs(args)
		if err != nil {
			return nil, err
		}
		return g.cur.NewCall(fn, vals...), nil

	case intrinsics.LowerLLVMIntr:
		return g.genMemIntrinsic(intr.Name, args)

	case intrinsics.LowerGEP:
		return g.genGEPIntrinsic(intr.Name, args)

	case intrinsics.LowerBitcast:
		vals, err := g.genArgs(args)
		if err != nil {
			return nil, err
		}
		return vals[0], nil // raw_ptr_cast: the argument value is returned unchanged; no bits change

	case intrinsics.LowerNull:
		return constant.NewNull(irtypes.NewPointer(irtypes.I8)), nil

	case intrinsics.LowerConst:
		return nil, fmt.Errorf("intrinsic %q requires a generic type argument the call-site expression doesn't carry here", intr.Name)

	case intrinsics.LowerStructGEP:
		return g.genEnumLayoutIntrinsic(intr.Name, args)

	case intrinsics.LowerAtomic:
		return g.genAtomicIntrinsic(intr.Name, args)

	case intrinsics.LowerAsm:
		return nil, fmt.Errorf("syscalls are not lowered on this target")

	default:
		return nil, fmt.Errorf("unhandled intrinsic lowering %q", intr.Lowering)
	}
}

func (g *Codegen) genMemIntrinsic(name string, args []ast.Expr) (value.Value, error) {
	vals, err := g.genArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) < 3 {
		return nil, fmt.Errorf("%s expects 3 arguments", name)
	}
	dst, src, n := vals[0], vals[1], vals[2]
	switch name {
	case "memcpy":
		return g.cur.NewCall(g.memcpyFunc(), dst, src, n, constant.NewInt(irtypes.I1, 0)), nil
	case "memset":
		return g.cur.NewCall(g.memsetFunc(), dst, src, n, constant.NewInt(irtypes.I1, 0)), nil
	default:
		return nil, fmt.Errorf("unknown memory intrinsic %q", name)
	}
}

func (g *Codegen) memcpyFunc() *ir.Func {
	if fn, ok := g.intrinFns["llvm.memcpy"]; ok {
		return fn
	}
	i8ptr := irtypes.NewPointer(irtypes.I8)
	fn := g.Module.NewFunc("llvm.memcpy.p0i8.p0i8.i64", irtypes.Void,
		ir.NewParam("dst", i8ptr), ir.NewParam("src", i8ptr),
		ir.NewParam("len", irtypes.I64), ir.NewParam("volatile", irtypes.I1))
	g.intrinFns["llvm.memcpy"] = fn
	return fn
}

func (g *Codegen) memsetFunc() *ir.Func {
	if fn, ok := g.intrinFns["llvm.memset"]; ok {
		return fn
	}
	i8ptr := irtypes.NewPointer(irtypes.I8)
	fn := g.Module.NewFunc("llvm.memset.p0i8.i64", irtypes.Void,
		ir.NewParam("dst", i8ptr), ir.NewParam("val", irtypes.I8),
		ir.NewParam("len", irtypes.I64), ir.NewParam("volatile", irtypes.I1))
	g.intrinFns["llvm.memset"] = fn
	return fn
}

func (g *Codegen) genGEPIntrinsic(name string, args []ast.Expr) (value.Value, error) {
	vals, err := g.genArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s expects at least 1 argument", name)
	}
	base := vals[0]
	pt, ok := base.Type().(*irtypes.PointerType)
	if !ok {
		return nil, fmt.Errorf("%s expects a pointer base argument", name)
	}
	switch name {
	case "gep", "raw_ptr_offset":
		if len(vals) < 2 {
			return nil, fmt.Errorf("%s expects 2 arguments", name)
		}
		return g.cur.NewGetElementPtr(pt.ElemType, base, vals[1]), nil
	case "gep_struct":
		if len(vals) < 2 {
			return nil, fmt.Errorf("gep_struct expects 2 arguments")
		}
		return g.cur.NewGetElementPtr(pt.ElemType, base, constant.NewInt(irtypes.I32, 0), vals[1]), nil
	default:
		return nil, fmt.Errorf("unknown pointer-math intrinsic %q", name)
	}
}

func (g *Codegen) genEnumLayoutIntrinsic(name string, args []ast.Expr) (value.Value, error) {
	vals, err := g.genArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s expects at least 1 argument", name)
	}
	switch name {
	case "discriminant":
		return g.discriminantOf(vals[0]), nil
	case "set_discriminant":
		if len(vals) < 2 {
			return nil, fmt.Errorf("set_discriminant expects 2 arguments")
		}
		return g.setDiscriminant(vals[0], vals[1])
	case "get_payload":
		return g.payloadOf(vals[0], irtypes.I64), nil
	case "set_payload":
		if len(vals) < 2 {
			return nil, fmt.Errorf("set_payload expects 2 arguments")
		}
		return g.setPayload(vals[0], vals[1])
	default:
		return nil, fmt.Errorf("unknown enum-layout intrinsic %q", name)
	}
}

// setDiscriminant and setPayload are the write counterparts of
// discriminantOf/payloadOf (enum.go): they require the enum's
// addressable slot (a `&binding` expression, which genAddrOf resolves
// to the binding's alloca) rather than its loaded value, since writing
// a field needs a pointer to GEP into. Layout mirrors genEnumCtor's
// construction: field 0 is the i64 tag, field 1 is the payload slot
// bitcast to the stored value's own type.
func (g *Codegen) setDiscriminant(slot, tag value.Value) (value.Value, error) {
	pt, ok := slot.Type().(*irtypes.PointerType)
	if !ok {
		return nil, fmt.Errorf("set_discriminant expects an addressable enum slot (pass &value)")
	}
	st, ok := pt.ElemType.(*irtypes.StructType)
	if !ok {
		return nil, fmt.Errorf("set_discriminant target is not an enum layout")
	}
	tagPtr := g.cur.NewGetElementPtr(st, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 0))
	g.cur.NewStore(tag, tagPtr)
	return nil, nil
}

func (g *Codegen) setPayload(slot, payload value.Value) (value.Value, error) {
	pt, ok := slot.Type().(*irtypes.PointerType)
	if !ok {
		return nil, fmt.Errorf("set_payload expects an addressable enum slot (pass &value)")
	}
	st, ok := pt.ElemType.(*irtypes.StructType)
	if !ok {
		return nil, fmt.Errorf("set_payload target is not an enum layout")
	}
	payloadArrPtr := g.cur.NewGetElementPtr(st, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
	typedPtr := g.cur.NewBitCast(payloadArrPtr, irtypes.NewPointer(payload.Type()))
	g.cur.NewStore(payload, typedPtr)
	return nil, nil
}

func (g *Codegen) genAtomicIntrinsic(name string, args []ast.Expr) (value.Value, error) {
	vals, err := g.genArgs(args)
	if err != nil {
		return nil, err
	}
	switch name {
	case "atomic_load":
		pt, ok := vals[0].Type().(*irtypes.PointerType)
		if !ok {
			return nil, fmt.Errorf("atomic_load expects a pointer argument")
		}
		load := g.cur.NewLoad(pt.ElemType, vals[0])
		load.Atomic = true
		return load, nil
	case "atomic_store":
		store := g.cur.NewStore(vals[1], vals[0])
		store.Atomic = true
		return nil, nil
	case "atomic_cas":
		if len(vals) < 3 {
			return nil, fmt.Errorf("atomic_cas expects 3 arguments")
		}
		xchg := g.cur.NewCmpXchg(vals[0], vals[1], vals[2])
		return g.cur.NewExtractValue(xchg, 0), nil
	default:
		return nil, fmt.Errorf("unknown atomic intrinsic %q", name)
	}
}
