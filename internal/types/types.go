// Package types implements Zen's internal type representation
// (spec.md §3.3): the sum of primitives, named struct/enum references,
// unresolved generics, the pointer family, arrays, unit, and function
// types, plus the environment that stores generic definitions and
// performs type-parameter substitution (spec.md §3.4, §4.4.2).
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every internal type representation implements.
type Type interface {
	String() string
	typeNode()
}

// Primitive is one of Zen's built-in scalar types.
type Primitive struct{ Name string }

func (t *Primitive) String() string { return t.Name }
func (*Primitive) typeNode()        {}

var (
	I8    = &Primitive{"i8"}
	I16   = &Primitive{"i16"}
	I32   = &Primitive{"i32"}
	I64   = &Primitive{"i64"}
	U8    = &Primitive{"u8"}
	U16   = &Primitive{"u16"}
	U32   = &Primitive{"u32"}
	U64   = &Primitive{"u64"}
	Usize = &Primitive{"usize"}
	Isize = &Primitive{"isize"}
	F32   = &Primitive{"f32"}
	F64   = &Primitive{"f64"}
	Bool  = &Primitive{"bool"}
	Byte  = &Primitive{"byte"}
	Void  = &Primitive{"void"}
)

var primitivesByName = map[string]*Primitive{
	"i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64,
	"usize": Usize, "isize": Isize,
	"f32": F32, "f64": F64,
	"bool": Bool, "byte": Byte, "void": Void,
}

// Lookup returns the Primitive named name, if any.
func Lookup(name string) (*Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

func IsInteger(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	switch p {
	case I8, I16, I32, I64, U8, U16, U32, U64, Usize, Isize, Byte:
		return true
	}
	return false
}

func IsFloat(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && (p == F32 || p == F64)
}

func IsNumeric(t Type) bool { return IsInteger(t) || IsFloat(t) }

// Named references a resolved struct or enum definition by name. Def is an
// *opaque* pointer to the defining declaration (an *ast.StructDecl or
// *ast.EnumDecl), kept untyped here to avoid an import cycle with the ast
// package; callers type-assert it back when they need field/variant lists.
type Named struct {
	Name string
	Def  interface{}
	Args []Type // concrete type arguments, empty for non-generic names
}

func (t *Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}
func (*Named) typeNode() {}

// Generic is an unresolved reference to a generic definition before its
// type arguments are substituted in — `(name, [type_arg …])` from spec.md
// §3.3, distinct from Named which always carries a concrete, monomorphized
// definition once resolution completes.
type Generic struct {
	Name string
	Args []Type
}

func (t *Generic) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}
func (*Generic) typeNode() {}

// PointerKind mirrors ast.PointerKind; duplicated here rather than imported
// to keep the types package free of an ast dependency.
type PointerKind int

const (
	PtrShared PointerKind = iota
	PtrMut
	PtrRaw
)

func (k PointerKind) String() string {
	switch k {
	case PtrMut:
		return "MutPtr"
	case PtrRaw:
		return "RawPtr"
	default:
		return "Ptr"
	}
}

type Pointer struct {
	Kind PointerKind
	Elem Type
}

func (t *Pointer) String() string { return fmt.Sprintf("%s<%s>", t.Kind, t.Elem.String()) }
func (*Pointer) typeNode()        {}

type Array struct {
	Elem Type
	Size int
}

func (t *Array) String() string { return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Size) }
func (*Array) typeNode()        {}

type Func struct {
	Params  []Type
	Return  Type
	Varargs bool
}

func (t *Func) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return fmt.Sprintf("(%s) %s", strings.Join(parts, ", "), ret)
}
func (*Func) typeNode() {}

// Var is an unresolved inference variable, unified during bidirectional
// checking (spec.md §4.4.1). Resolved points at the substituted type once
// unification binds it; nil means still free.
type Var struct {
	ID       int
	Resolved Type
}

func (t *Var) String() string {
	if t.Resolved != nil {
		return t.Resolved.String()
	}
	return fmt.Sprintf("?%d", t.ID)
}
func (*Var) typeNode() {}

// Error is the sentinel type assigned to an expression whose type could
// not be determined, so that one failure doesn't cascade into a flood of
// unrelated diagnostics downstream.
var ErrorType Type = &errorType{}

type errorType struct{}

func (*errorType) String() string { return "<error>" }
func (*errorType) typeNode()      {}

// Resolve follows Var chains to their underlying type, or returns t itself
// for anything else (including an unresolved Var, returned as-is).
func Resolve(t Type) Type {
	for {
		v, ok := t.(*Var)
		if !ok || v.Resolved == nil {
			return t
		}
		t = v.Resolved
	}
}

// Equal reports structural equality after resolving inference variables.
func Equal(a, b Type) bool {
	a, b = Resolve(a), Resolve(b)
	switch av := a.(type) {
	case *Primitive:
		bv, ok := b.(*Primitive)
		return ok && av.Name == bv.Name
	case *Named:
		bv, ok := b.(*Named)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *Generic:
		bv, ok := b.(*Generic)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *Pointer:
		bv, ok := b.(*Pointer)
		return ok && av.Kind == bv.Kind && Equal(av.Elem, bv.Elem)
	case *Array:
		bv, ok := b.(*Array)
		return ok && av.Size == bv.Size && Equal(av.Elem, bv.Elem)
	case *Func:
		bv, ok := b.(*Func)
		if !ok || len(av.Params) != len(bv.Params) || av.Varargs != bv.Varargs {
			return false
		}
		if !Equal(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case *errorType:
		return true // an error type is compatible with anything: don't cascade
	default:
		return a == b
	}
}
