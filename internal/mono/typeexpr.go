package mono

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/types"
)

// typeToExpr converts a checked, resolved types.Type back into the
// ast.TypeExpr form subst.go walks, so a concrete instantiation argument
// (discovered by the checker as a types.Type) can be spliced into a
// cloned generic AST in place of its type parameter.
func typeToExpr(t types.Type) ast.TypeExpr {
	switch v := types.Resolve(t).(type) {
	case *types.Primitive:
		return &ast.PrimitiveType{Name: v.Name}
	case *types.Named:
		if len(v.Args) == 0 {
			return &ast.NamedType{Name: v.Name}
		}
		args := make([]ast.TypeExpr, len(v.Args))
		for i, a := range v.Args {
			args[i] = typeToExpr(a)
		}
		return &ast.ParameterizedType{Name: v.Name, Args: args}
	case *types.Generic:
		args := make([]ast.TypeExpr, len(v.Args))
		for i, a := range v.Args {
			args[i] = typeToExpr(a)
		}
		if len(args) == 0 {
			return &ast.NamedType{Name: v.Name}
		}
		return &ast.ParameterizedType{Name: v.Name, Args: args}
	case *types.Pointer:
		return &ast.PointerType{Kind: ast.PointerKind(v.Kind), Elem: typeToExpr(v.Elem)}
	case *types.Array:
		return &ast.ArrayType{Elem: typeToExpr(v.Elem), Size: v.Size}
	case *types.Func:
		params := make([]ast.TypeExpr, len(v.Params))
		for i, p := range v.Params {
			params[i] = typeToExpr(p)
		}
		var ret ast.TypeExpr
		if v.Return != nil {
			ret = typeToExpr(v.Return)
		}
		return &ast.FuncType{Params: params, Return: ret, Varargs: v.Varargs}
	default:
		return &ast.NamedType{Name: t.String()}
	}
}

// bindTypeParams builds the substitution map from a generic's declared
// type-parameter names to the concrete arguments it's being instantiated
// with, in declaration order.
func bindTypeParams(params []string, args []types.Type) map[string]ast.TypeExpr {
	subst := make(map[string]ast.TypeExpr, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = typeToExpr(args[i])
		}
	}
	return subst
}
