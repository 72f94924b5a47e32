package types

// WellKnown names the generics the compiler recognizes structurally for
// layout helpers and codegen shortcuts, without hardcoding their
// definitions (spec.md §4.3's well-known type registry).
var WellKnown = map[string]bool{
	"Option": true, "Result": true, "Vec": true, "HashMap": true,
	"Ptr": true, "MutPtr": true, "RawPtr": true, "Array": true,
	"DynVec": true, "String": true,
}

// AllocatorRequiring names the well-known generics whose construction must
// be given an Allocator argument (spec.md §4.7.6, §7).
var AllocatorRequiring = map[string]bool{
	"DynVec": true, "HashMap": true, "String": true,
}

// Scheme is a generic definition's type-parameter list plus behavior
// constraints, recorded alongside its name in the environment
// (spec.md §3.4's symbol tuple).
type Scheme struct {
	Params      []string
	Constraints map[string][]string // param name -> required behavior names
	Def         interface{}         // *ast.FuncDecl / *ast.StructDecl / *ast.EnumDecl
}

// Env stores generic function/struct/enum definitions keyed by name and
// supports type-parameter substitution (spec.md §2's "Type environment"
// row, §3.4).
type Env struct {
	Schemes map[string]*Scheme
	Structs map[string]interface{} // *ast.StructDecl, concrete or generic
	Enums   map[string]interface{} // *ast.EnumDecl
	Aliases map[string]Type
}

func NewEnv() *Env {
	return &Env{
		Schemes: make(map[string]*Scheme),
		Structs: make(map[string]interface{}),
		Enums:   make(map[string]interface{}),
		Aliases: make(map[string]Type),
	}
}

// Substitute replaces every occurrence of a type parameter name in t with
// its bound concrete type from subst, recursively (spec.md §4.5). Types
// with no parameter reference are returned unchanged.
func Substitute(t Type, subst map[string]Type) Type {
	switch v := t.(type) {
	case *Generic:
		if len(v.Args) == 0 {
			if c, ok := subst[v.Name]; ok {
				return c
			}
			return t
		}
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, subst)
		}
		return &Generic{Name: v.Name, Args: args}
	case *Named:
		if len(v.Args) == 0 {
			if c, ok := subst[v.Name]; ok {
				return c
			}
			return t
		}
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, subst)
		}
		return &Named{Name: v.Name, Def: v.Def, Args: args}
	case *Pointer:
		return &Pointer{Kind: v.Kind, Elem: Substitute(v.Elem, subst)}
	case *Array:
		return &Array{Elem: Substitute(v.Elem, subst), Size: v.Size}
	case *Func:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = Substitute(p, subst)
		}
		var ret Type
		if v.Return != nil {
			ret = Substitute(v.Return, subst)
		}
		return &Func{Params: params, Return: ret, Varargs: v.Varargs}
	default:
		return t
	}
}

// CanonicalKey produces a string uniquely identifying a fully-substituted
// type, used to key the instantiation cache (spec.md §3.5) so that equal
// nested-generic instantiations share one monomorphized copy.
func CanonicalKey(t Type) string {
	return Resolve(t).String()
}
