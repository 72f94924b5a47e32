package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/zen-lang/zenc/internal/ast"
)

// genMatch lowers the `?` operator (spec.md §4.7.3): a chain of test
// blocks, one per arm, each branching either into that arm's body block
// or on to the next test; every body block that falls through (doesn't
// already end in a terminator, e.g. a `return`) branches to a shared
// merge block, and a phi node in the merge block picks up the value
// produced by whichever arm actually ran.
func (g *Codegen) genMatch(m *ast.MatchExpr) (value.Value, error) {
	if m.ShortForm {
		return g.genShortFormMatch(m)
	}

	scrut, err := g.genExpr(m.Scrutinee)
	if err != nil {
		return nil, err
	}

	mergeBlock := g.fn.NewBlock("match.merge")

	type incoming struct {
		val   value.Value
		block *ir.Block
	}
	var incomings []incoming

	for i := range m.Arms {
		arm := &m.Arms[i]
		isLast := i == len(m.Arms)-1

		bodyBlock := g.fn.NewBlock(fmt.Sprintf("match.arm%d", i))
		var nextTest *ir.Block
		if !isLast {
			nextTest = g.fn.NewBlock(fmt.Sprintf("match.test%d", i+1))
		} else {
			// A value no arm matched traps instead of running the last arm.
			nextTest = g.fn.NewBlock("match.nomatch")
			nextTest.NewUnreachable()
		}

		if err := g.emitArmTest(scrut, arm.Pattern, bodyBlock, nextTest, isLast); err != nil {
			return nil, err
		}

		g.cur = bodyBlock
		g.bindArmPattern(scrut, arm.Pattern)
		val, err := g.genArmBody(arm.Body)
		if err != nil {
			return nil, err
		}
		if !blockIsTerminated(g.cur) {
			g.cur.NewBr(mergeBlock)
			incomings = append(incomings, incoming{val: val, block: g.cur})
		}

		if nextTest != nil {
			g.cur = nextTest
		}
	}

	g.cur = mergeBlock
	if len(incomings) == 0 {
		return nil, nil
	}
	for _, inc := range incomings {
		if inc.val == nil {
			return nil, nil // at least one arm produced no value: the whole match is void
		}
	}
	if isVoidLLVMType(incomings[0].val.Type()) {
		return nil, nil
	}
	incs := make([]*ir.Incoming, len(incomings))
	for i, inc := range incomings {
		incs[i] = ir.NewIncoming(inc.val, inc.block)
	}
	return mergeBlock.NewPhi(incs...), nil
}

// genShortFormMatch lowers `scrutinee ? { body }`: a single conditional
// branch with no else arm, so it never produces a value (spec.md's
// "true-shaped" short form used for side effects).
func (g *Codegen) genShortFormMatch(m *ast.MatchExpr) (value.Value, error) {
	scrut, err := g.genExpr(m.Scrutinee)
	if err != nil {
		return nil, err
	}
	cond, err := g.shortFormCond(scrut)
	if err != nil {
		return nil, err
	}
	bodyBlock := g.fn.NewBlock("match.then")
	mergeBlock := g.fn.NewBlock("match.end")
	g.cur.NewCondBr(cond, bodyBlock, mergeBlock)

	g.cur = bodyBlock
	g.bindShortFormPayload(scrut)
	if _, err := g.genBlock(m.ShortBody); err != nil {
		return nil, err
	}
	if !blockIsTerminated(g.cur) {
		g.cur.NewBr(mergeBlock)
	}

	g.cur = mergeBlock
	return nil, nil
}

// shortFormCond produces the i1 driving a short-form match: a plain
// bool value is used directly, an Option/Result value is "true" when
// its discriminant is the Some/Ok tag (0).
func (g *Codegen) shortFormCond(scrut value.Value) (value.Value, error) {
	if _, ok := scrut.Type().(*irtypes.IntType); ok && scrut.Type().Equal(irtypes.I1) {
		return scrut, nil
	}
	if st, ok := scrut.Type().(*irtypes.StructType); ok && len(st.Fields) == 2 {
		tag := g.discriminantOf(scrut)
		return g.cur.NewICmp(enum.IPredEQ, tag, constant.NewInt(irtypes.I64, 0)), nil
	}
	return nil, fmt.Errorf("short-form '?' scrutinee has no boolean/Option/Result shape")
}

func (g *Codegen) bindShortFormPayload(scrut value.Value) {
	// Only Option/Result scrutinees carry an `it` payload to bind; a
	// plain bool short-form has nothing to extract.
	st, ok := scrut.Type().(*irtypes.StructType)
	if !ok || len(st.Fields) != 2 {
		return
	}
	payload := g.payloadOf(scrut, irtypes.I64)
	slot := g.cur.NewAlloca(irtypes.I64)
	slot.SetName("it.addr")
	g.cur.NewStore(payload, slot)
	g.vars["it"] = &irVar{addr: slot, elem: irtypes.I64, mutable: false}
}

// emitArmTest emits the comparison (if any) that decides whether this
// arm's pattern matches scrut, branching to bodyBlock on success and
// nextTest on failure. Wildcard/ident patterns always match. A last arm
// with no nextTest branches unconditionally without testing; genMatch
// always passes a block ending in `unreachable` as the last arm's
// nextTest, so a value that no arm matches traps.
func (g *Codegen) emitArmTest(scrut value.Value, pat ast.Pattern, bodyBlock, nextTest *ir.Block, isLast bool) error {
	switch v := pat.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		g.cur.NewBr(bodyBlock)
		return nil
	case *ast.VariantPattern:
		if isLast && nextTest == nil {
			g.cur.NewBr(bodyBlock)
			return nil
		}
		ed, variant := g.findEnumVariant(v.EnumName, v.Variant)
		var tag int64
		if variant != nil {
			tag = int64(variant.Discrimant)
		} else {
			tag = wellKnownTag(v.Variant)
		}
		_ = ed
		got := g.discriminantOf(scrut)
		cond := g.cur.NewICmp(enum.IPredEQ, got, constant.NewInt(irtypes.I64, tag))
		g.cur.NewCondBr(cond, bodyBlock, nextTest)
		return nil
	case *ast.LiteralPattern:
		litVal, err := g.genExpr(v.Value)
		if err != nil {
			return err
		}
		cond := g.cur.NewICmp(enum.IPredEQ, scrut, litVal)
		if isFloatValue(scrut) {
			cond = g.cur.NewFCmp(enum.FPredOEQ, scrut, litVal)
		}
		if isLast && nextTest == nil {
			g.cur.NewBr(bodyBlock)
			return nil
		}
		g.cur.NewCondBr(cond, bodyBlock, nextTest)
		return nil
	case *ast.RangePattern:
		lo, err := g.genExpr(v.Low)
		if err != nil {
			return err
		}
		hi, err := g.genExpr(v.High)
		if err != nil {
			return err
		}
		geLo := g.cur.NewICmp(enum.IPredSGE, scrut, lo)
		hiPred := enum.IPredSLT
		if v.Inclusive {
			hiPred = enum.IPredSLE
		}
		leHi := g.cur.NewICmp(hiPred, scrut, hi)
		cond := g.cur.NewAnd(geLo, leHi)
		if isLast && nextTest == nil {
			g.cur.NewBr(bodyBlock)
			return nil
		}
		g.cur.NewCondBr(cond, bodyBlock, nextTest)
		return nil
	case *ast.StructPattern:
		g.cur.NewBr(bodyBlock) // structural field tests are enforced by the checker, not re-tested at codegen time
		return nil
	default:
		return fmt.Errorf("unsupported pattern %T", pat)
	}
}

// bindArmPattern binds any name the pattern introduces (an ident
// pattern, or a variant pattern's payload) into the arm body's scope.
// A variant pattern's Binding is itself a pattern, not a bare name, so
// a nested constructor like `Ok(Some(n))` recurses: the outer Ok's
// payload value becomes the scrutinee for binding the inner Some.
func (g *Codegen) bindArmPattern(scrut value.Value, pat ast.Pattern) {
	switch v := pat.(type) {
	case *ast.IdentPattern:
		slot := g.cur.NewAlloca(scrut.Type())
		slot.SetName(v.Name + ".addr")
		g.cur.NewStore(scrut, slot)
		g.vars[v.Name] = &irVar{addr: slot, elem: scrut.Type(), mutable: false}
	case *ast.VariantPattern:
		if v.Binding == nil {
			return
		}
		payloadType := g.variantPayloadLLVMType(v.EnumName, v.Variant)
		payload := g.payloadOf(scrut, payloadType)
		g.bindArmPattern(payload, v.Binding)
	}
}

// variantPayloadLLVMType resolves the LLVM type of a variant's payload:
// a user enum's declared payload type when known, or i64 (the tag-sized
// default used for well-known Option/Result variants, which have no
// ast.EnumDecl in g.enums to look up).
func (g *Codegen) variantPayloadLLVMType(enumName, variantName string) irtypes.Type {
	_, variant := g.findEnumVariant(enumName, variantName)
	if variant != nil && variant.Payload != nil {
		if t, err := g.llvmType(variant.Payload); err == nil {
			return t
		}
	}
	return irtypes.I64
}

func (g *Codegen) genArmBody(body ast.Expr) (value.Value, error) {
	if block, ok := body.(*ast.BlockExpr); ok {
		return g.genBlock(block)
	}
	return g.genExpr(body)
}

func wellKnownTag(variant string) int64 {
	switch variant {
	case "None", "Err":
		return 1
	default: // "Some", "Ok"
		return 0
	}
}

func isVoidLLVMType(t irtypes.Type) bool {
	_, ok := t.(*irtypes.VoidType)
	return ok
}
