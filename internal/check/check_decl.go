package check

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/scope"
	"github.com/zen-lang/zenc/internal/types"
)

// registerDecls performs pass 1 (spec.md §4.3/§4.4): every struct, enum,
// behavior, and behavior implementation is recorded by name before any
// function body is inspected, so mutually-recursive type declarations
// resolve regardless of declaration order.
func (c *Checker) registerDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.StructDecl:
			c.Env.Structs[v.Name] = v
			if len(v.TypeParams) > 0 {
				c.Env.Schemes[v.Name] = newScheme(v.TypeParams, v)
			}
		case *ast.EnumDecl:
			c.Env.Enums[v.Name] = v
			if len(v.TypeParams) > 0 {
				c.Env.Schemes[v.Name] = newScheme(v.TypeParams, v)
			}
		case *ast.TypeAliasDecl:
			c.Env.Aliases[v.Name] = c.resolveTypeExpr(v.Target)
		case *ast.BehaviorImplDecl:
			name := behaviorTargetName(v.Type)
			c.Impls[implKey{Behavior: v.Behavior, Type: name}] = v
		}
	}
}

func newScheme(params []ast.TypeParam, def interface{}) *types.Scheme {
	s := &types.Scheme{Constraints: make(map[string][]string), Def: def}
	for _, p := range params {
		s.Params = append(s.Params, p.Name)
		if len(p.Constraints) > 0 {
			s.Constraints[p.Name] = p.Constraints
		}
	}
	return s
}

func behaviorTargetName(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.NamedType:
		return v.Name
	case *ast.ParameterizedType:
		return v.Name
	case *ast.PrimitiveType:
		return v.Name
	}
	return ""
}

// checkDecls performs pass 2: function bodies and top-level bindings are
// checked against the fully registered table.
func (c *Checker) checkDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.FuncDecl:
			c.checkFunc(v)
		case *ast.BindingDecl:
			c.checkTopBinding(v)
		case *ast.ComptimeDecl:
			c.errorf(v, "comptime evaluation is not implemented")
		case *ast.BehaviorImplDecl:
			for _, m := range v.Methods {
				c.checkFunc(m)
			}
		}
	}
}

func (c *Checker) checkTopBinding(b *ast.BindingDecl) {
	root := c.globalScope()
	if b.Value == nil {
		return // forward declaration; nothing to check yet
	}
	var declared types.Type
	if b.Type != nil {
		declared = c.resolveTypeExpr(b.Type)
	}
	var t types.Type
	if declared != nil {
		c.checkExpr(root, b.Value, declared)
		t = declared
	} else {
		t = c.synthExpr(root, b.Value)
	}
	root.Declare(&scope.Binding{Name: b.Name, Type: t, Mutable: b.Mutable})
}

func (c *Checker) checkFunc(fd *ast.FuncDecl) {
	if fd.Body == nil {
		return // external declaration: no body to check
	}
	fs := c.globalScope()
	for _, tp := range fd.TypeParams {
		fs.Declare(&scope.Binding{Name: tp.Name, Type: &types.Named{Name: tp.Name}})
	}
	for _, p := range fd.Params {
		fs.Declare(&scope.Binding{Name: p.Name, Type: c.resolveTypeExpr(p.Type)})
	}
	var ret types.Type = types.Void
	if fd.Return != nil {
		ret = c.resolveTypeExpr(fd.Return)
	}
	c.checkBlock(fs, fd.Body, ret)
}

func (c *Checker) funcType(fd *ast.FuncDecl) types.Type {
	params := make([]types.Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = c.resolveTypeExpr(p.Type)
	}
	ret := types.Type(types.Void)
	if fd.Return != nil {
		ret = c.resolveTypeExpr(fd.Return)
	}
	return &types.Func{Params: params, Return: ret, Varargs: fd.Varargs}
}

// resolveTypeExpr converts a parsed type expression into the internal
// type representation (spec.md §3.3), looking up named types against the
// registered struct/enum/alias tables.
func (c *Checker) resolveTypeExpr(t ast.TypeExpr) types.Type {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		if p, ok := types.Lookup(v.Name); ok {
			return p
		}
		return types.ErrorType
	case *ast.NamedType:
		if alias, ok := c.Env.Aliases[v.Name]; ok {
			return alias
		}
		if def, ok := c.Env.Structs[v.Name]; ok {
			return &types.Named{Name: v.Name, Def: def}
		}
		if def, ok := c.Env.Enums[v.Name]; ok {
			return &types.Named{Name: v.Name, Def: def}
		}
		// Unqualified type-parameter reference (e.g. `T` inside a generic
		// body) or a forward reference not yet registered; treated as an
		// opaque named type and reconciled during monomorphization.
		return &types.Named{Name: v.Name}
	case *ast.ParameterizedType:
		args := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.resolveTypeExpr(a)
		}
		if def, ok := c.Env.Structs[v.Name]; ok {
			return &types.Named{Name: v.Name, Def: def, Args: args}
		}
		if def, ok := c.Env.Enums[v.Name]; ok {
			return &types.Named{Name: v.Name, Def: def, Args: args}
		}
		return &types.Generic{Name: v.Name, Args: args}
	case *ast.PointerType:
		return &types.Pointer{Kind: types.PointerKind(v.Kind), Elem: c.resolveTypeExpr(v.Elem)}
	case *ast.ArrayType:
		return &types.Array{Elem: c.resolveTypeExpr(v.Elem), Size: v.Size}
	case *ast.UnitType:
		return types.Void
	case *ast.FuncType:
		params := make([]types.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = c.resolveTypeExpr(p)
		}
		ret := types.Type(types.Void)
		if v.Return != nil {
			ret = c.resolveTypeExpr(v.Return)
		}
		return &types.Func{Params: params, Return: ret, Varargs: v.Varargs}
	}
	return types.ErrorType
}
