package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/zen-lang/zenc/internal/ast"
)

// genEnumCtor builds one tagged-union value: store the variant's
// discriminant into the leading i64 field, then bitcast the trailing
// payload array to the variant's own payload type and store the
// payload value into it (spec.md §4.3's enum layout, discriminants
// assigned 0..n in declaration order).
func (g *Codegen) genEnumCtor(e *ast.EnumCtorExpr) (value.Value, error) {
	ed, variant := g.findEnumVariant(e.EnumName, e.Variant)
	if ed == nil {
		return nil, fmt.Errorf("unknown enum variant %q", e.Variant)
	}
	st, err := g.namedLLVMType(ed.Name)
	if err != nil {
		return nil, err
	}
	structType, ok := st.(*irtypes.StructType)
	if !ok {
		return nil, fmt.Errorf("enum %s has no struct layout", ed.Name)
	}

	slot := g.cur.NewAlloca(structType)
	slot.SetName(ed.Name + ".ctor")

	tagPtr := g.cur.NewGetElementPtr(structType, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 0))
	g.cur.NewStore(constant.NewInt(irtypes.I64, int64(variant.Discrimant)), tagPtr)

	if variant.Payload != nil && e.Payload != nil {
		payloadVal, err := g.genExpr(e.Payload)
		if err != nil {
			return nil, err
		}
		payloadArrPtr := g.cur.NewGetElementPtr(structType, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
		typedPtr := g.cur.NewBitCast(payloadArrPtr, irtypes.NewPointer(payloadVal.Type()))
		g.cur.NewStore(payloadVal, typedPtr)
	}

	return g.cur.NewLoad(structType, slot), nil
}

func (g *Codegen) findEnumVariant(enumName, variant string) (*ast.EnumDecl, *ast.Variant) {
	if enumName != "" {
		if ed, ok := g.enums[enumName]; ok {
			for i := range ed.Variants {
				if ed.Variants[i].Name == variant {
					return ed, &ed.Variants[i]
				}
			}
		}
		return nil, nil
	}
	for _, ed := range g.enums {
		for i := range ed.Variants {
			if ed.Variants[i].Name == variant {
				return ed, &ed.Variants[i]
			}
		}
	}
	return nil, nil
}

// discriminantOf extracts an enum value's tag field, used by `?`-operator
// lowering (match.go) to drive the switch over variants.
func (g *Codegen) discriminantOf(enumVal value.Value) value.Value {
	return g.cur.NewExtractValue(enumVal, 0)
}

// payloadOf reinterprets an enum value's trailing payload bytes as
// payloadType, used when a match arm binds a variant's payload.
func (g *Codegen) payloadOf(enumVal value.Value, payloadType irtypes.Type) value.Value {
	slot := g.cur.NewAlloca(enumVal.Type())
	g.cur.NewStore(enumVal, slot)
	st := enumVal.Type().(*irtypes.StructType)
	payloadArrPtr := g.cur.NewGetElementPtr(st, slot, constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
	typedPtr := g.cur.NewBitCast(payloadArrPtr, irtypes.NewPointer(payloadType))
	return g.cur.NewLoad(payloadType, typedPtr)
}
