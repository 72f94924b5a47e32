// Package mono implements the monomorphizer (spec.md §4.5): for each
// (generic_def, concrete_args) pair actually used, it produces a cloned
// AST with type parameters substituted by concrete types, and a mangled
// name identifying that instantiation.
//
// The work-list design follows spec.md §9's guidance directly ("use an
// explicit work-list, not recursion, for enum-payload layout
// computation"): Monomorphizer.Run drains a queue of pending
// instantiations rather than recursing through nested generics, so
// arbitrarily deep nesting (`Option<Result<Option<…>>>`) can't exhaust the
// Go call stack.
package mono

import (
	"strings"

	"github.com/zen-lang/zenc/internal/types"
)

// Mangle produces the `Name__Arg1__Arg2` scheme spec.md §9 calls
// illustrative and leaves open; this implementation picks it as the
// concrete, collision-free choice (distinct concrete type tuples always
// produce distinct strings because each argument's own String() is
// unambiguous and the separator cannot appear inside one).
func Mangle(name string, args []types.Type) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args)+1)
	parts[0] = name
	for i, a := range args {
		parts[i+1] = mangleOne(a)
	}
	return strings.Join(parts, "__")
}

func mangleOne(t types.Type) string {
	switch v := types.Resolve(t).(type) {
	case *types.Primitive:
		return v.Name
	case *types.Named:
		return Mangle(v.Name, v.Args)
	case *types.Generic:
		return Mangle(v.Name, v.Args)
	case *types.Pointer:
		return v.Kind.String() + "_" + mangleOne(v.Elem)
	case *types.Array:
		return "Array_" + mangleOne(v.Elem)
	default:
		return "t"
	}
}
