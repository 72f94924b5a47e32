package codegen

import (
	"fmt"

	irtypes "github.com/llir/llvm/ir/types"

	"github.com/zen-lang/zenc/internal/ast"
)

// llvmType converts a (possibly monomorphized-concrete) type expression
// to its LLVM representation. Primitives map to fixed-width integer/float
// types; named references resolve to a previously registered struct or
// enum layout; pointers carry the three nominal kinds down to a single
// LLVM pointer (Ptr/MutPtr/RawPtr only differ in what the checker allows,
// not in their bit representation).
func (g *Codegen) llvmType(t ast.TypeExpr) (irtypes.Type, error) {
	switch v := t.(type) {
	case nil:
		return irtypes.Void, nil
	case *ast.UnitType:
		return irtypes.Void, nil
	case *ast.PrimitiveType:
		return primitiveLLVMType(v.Name)
	case *ast.NamedType:
		return g.namedLLVMType(v.Name)
	case *ast.ParameterizedType:
		return g.namedLLVMType(v.Name)
	case *ast.PointerType:
		elem, err := g.llvmType(v.Elem)
		if err != nil {
			return nil, err
		}
		if _, isVoid := elem.(*irtypes.VoidType); isVoid {
			return irtypes.NewPointer(irtypes.I8), nil
		}
		return irtypes.NewPointer(elem), nil
	case *ast.ArrayType:
		elem, err := g.llvmType(v.Elem)
		if err != nil {
			return nil, err
		}
		return irtypes.NewArray(uint64(v.Size), elem), nil
	case *ast.FuncType:
		ret, err := g.llvmType(v.Return)
		if err != nil {
			return nil, err
		}
		params := make([]irtypes.Type, len(v.Params))
		for i, p := range v.Params {
			pt, err := g.llvmType(p)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		return irtypes.NewPointer(irtypes.NewFunc(ret, params...)), nil
	default:
		return nil, fmt.Errorf("unsupported type expression %T", t)
	}
}

func primitiveLLVMType(name string) (irtypes.Type, error) {
	switch name {
	case "i8", "u8", "byte":
		return irtypes.I8, nil
	case "i16", "u16":
		return irtypes.I16, nil
	case "i32", "u32":
		return irtypes.I32, nil
	case "i64", "u64", "usize", "isize":
		return irtypes.I64, nil
	case "f32":
		return irtypes.Float, nil
	case "f64":
		return irtypes.Double, nil
	case "bool":
		return irtypes.I1, nil
	case "void":
		return irtypes.Void, nil
	default:
		return nil, fmt.Errorf("unknown primitive type %q", name)
	}
}

// namedLLVMType resolves a struct, a well-known type, or an enum's tagged
// union representation. Enum layout follows spec.md §4.3: a leading i64
// discriminant field followed by a payload slot sized to the widest
// variant, represented here as an opaque byte array — individual variant
// payloads are reinterpreted through bitcast/GEP at match/construct time.
func (g *Codegen) namedLLVMType(name string) (irtypes.Type, error) {
	if st, ok := g.structs[name]; ok {
		return st, nil
	}
	if _, ok := g.enums[name]; ok {
		return g.enumLayout(name)
	}
	switch name {
	case "String":
		// {ptr data, i64 len, i64 cap}: an allocator-owned growable buffer.
		return irtypes.NewStruct(irtypes.NewPointer(irtypes.I8), irtypes.I64, irtypes.I64), nil
	case "DynVec", "Vec":
		return irtypes.NewStruct(irtypes.NewPointer(irtypes.I8), irtypes.I64, irtypes.I64), nil
	case "HashMap":
		return irtypes.NewStruct(irtypes.NewPointer(irtypes.I8), irtypes.I64, irtypes.I64), nil
	case "Option", "Result":
		// {i64 tag, ptr payload}: compact representation, payload stored
		// out-of-line so Option/Result stay a fixed two-word size
		// regardless of the wrapped type's own size.
		return irtypes.NewStruct(irtypes.I64, irtypes.NewPointer(irtypes.I8)), nil
	default:
		return nil, fmt.Errorf("unknown named type %q", name)
	}
}

func (g *Codegen) enumPayloadBytes(name string) int64 {
	ed, ok := g.enums[name]
	if !ok {
		return 0
	}
	var maxSize int64
	for _, v := range ed.Variants {
		if v.Payload == nil {
			continue
		}
		t, err := g.llvmType(v.Payload)
		if err != nil {
			continue
		}
		if s := approxSizeBytes(t); s > maxSize {
			maxSize = s
		}
	}
	return maxSize
}

// approxSizeBytes is a conservative static size estimate used only to
// size an enum's opaque payload array; it need not match the target's
// true ABI layout byte-for-byte since the payload slot is always
// accessed through a bitcast to the concrete variant type.
func approxSizeBytes(t irtypes.Type) int64 {
	switch v := t.(type) {
	case *irtypes.IntType:
		return int64(v.BitSize+7) / 8
	case *irtypes.FloatType:
		return 8
	case *irtypes.PointerType:
		return 8
	case *irtypes.ArrayType:
		return int64(v.Len) * approxSizeBytes(v.ElemType)
	case *irtypes.StructType:
		var total int64
		for _, f := range v.Fields {
			total += approxSizeBytes(f)
		}
		return total
	default:
		return 8
	}
}

func (g *Codegen) enumLayout(name string) (irtypes.Type, error) {
	payload := g.enumPayloadBytes(name)
	if payload == 0 {
		payload = 8
	}
	st := irtypes.NewStruct(irtypes.I64, irtypes.NewArray(uint64(payload), irtypes.I8))
	st.TypeName = name
	return st, nil
}

func (g *Codegen) registerStruct(sd *ast.StructDecl) {
	st := irtypes.NewStruct()
	st.TypeName = sd.Name
	g.structs[sd.Name] = st
	g.structDef[sd.Name] = sd
	for _, f := range sd.Fields {
		ft, err := g.llvmType(f.Type)
		if err != nil {
			ft = irtypes.I8 // placeholder; the checker should have already rejected this program
		}
		st.Fields = append(st.Fields, ft)
	}
}
