package mono

import "github.com/zen-lang/zenc/internal/ast"

// substTypeExpr replaces every NamedType whose name is a bound type
// parameter with its concrete substitution, recursively through
// parameterized/pointer/array/function types.
func substTypeExpr(t ast.TypeExpr, subst map[string]ast.TypeExpr) ast.TypeExpr {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.NamedType:
		if c, ok := subst[v.Name]; ok {
			return c
		}
		return v
	case *ast.ParameterizedType:
		args := make([]ast.TypeExpr, len(v.Args))
		for i, a := range v.Args {
			args[i] = substTypeExpr(a, subst)
		}
		return &ast.ParameterizedType{SpanVal: v.SpanVal, Name: v.Name, Args: args}
	case *ast.PointerType:
		return &ast.PointerType{SpanVal: v.SpanVal, Kind: v.Kind, Elem: substTypeExpr(v.Elem, subst)}
	case *ast.ArrayType:
		return &ast.ArrayType{SpanVal: v.SpanVal, Elem: substTypeExpr(v.Elem, subst), Size: v.Size}
	case *ast.FuncType:
		params := make([]ast.TypeExpr, len(v.Params))
		for i, p := range v.Params {
			params[i] = substTypeExpr(p, subst)
		}
		return &ast.FuncType{SpanVal: v.SpanVal, Params: params, Return: substTypeExpr(v.Return, subst), Varargs: v.Varargs}
	default:
		return t
	}
}

// substExpr recursively clones e, substituting type parameters inside any
// type expression it carries (casts, struct literals, closures).
func substExpr(e ast.Expr, subst map[string]ast.TypeExpr) ast.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.CallExpr:
		var targs []ast.TypeExpr
		for _, a := range v.TypeArgs {
			targs = append(targs, substTypeExpr(a, subst))
		}
		return &ast.CallExpr{SpanVal: v.SpanVal, Callee: substExpr(v.Callee, subst), Args: substExprs(v.Args, subst), TypeArgs: targs}
	case *ast.MethodCallExpr:
		return &ast.MethodCallExpr{SpanVal: v.SpanVal, Recv: substExpr(v.Recv, subst), Name: v.Name, Args: substExprs(v.Args, subst)}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{SpanVal: v.SpanVal, Op: v.Op, Left: substExpr(v.Left, subst), Right: substExpr(v.Right, subst)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{SpanVal: v.SpanVal, Op: v.Op, X: substExpr(v.X, subst)}
	case *ast.MatchExpr:
		arms := make([]ast.MatchArm, len(v.Arms))
		for i, a := range v.Arms {
			arms[i] = ast.MatchArm{SpanVal: a.SpanVal, Pattern: a.Pattern, Body: substExpr(a.Body, subst)}
		}
		nv := &ast.MatchExpr{SpanVal: v.SpanVal, Scrutinee: substExpr(v.Scrutinee, subst), Arms: arms, ShortForm: v.ShortForm}
		if v.ShortBody != nil {
			nv.ShortBody = substBlock(v.ShortBody, subst)
		}
		return nv
	case *ast.BlockExpr:
		return substBlock(v, subst)
	case *ast.RangeExpr:
		return &ast.RangeExpr{SpanVal: v.SpanVal, Low: substExpr(v.Low, subst), High: substExpr(v.High, subst), Inclusive: v.Inclusive, Step: substExpr(v.Step, subst)}
	case *ast.StructLitExpr:
		fields := make([]ast.StructLitField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = ast.StructLitField{Name: f.Name, Value: substExpr(f.Value, subst)}
		}
		return &ast.StructLitExpr{SpanVal: v.SpanVal, Type: substTypeExpr(v.Type, subst), Fields: fields}
	case *ast.EnumCtorExpr:
		return &ast.EnumCtorExpr{SpanVal: v.SpanVal, EnumName: v.EnumName, Variant: v.Variant, Payload: substExpr(v.Payload, subst)}
	case *ast.ArrayLitExpr:
		return &ast.ArrayLitExpr{SpanVal: v.SpanVal, Elements: substExprs(v.Elements, subst)}
	case *ast.ClosureExpr:
		params := make([]ast.Param, len(v.Params))
		for i, p := range v.Params {
			params[i] = ast.Param{Name: p.Name, Type: substTypeExpr(p.Type, subst)}
		}
		return &ast.ClosureExpr{SpanVal: v.SpanVal, Params: params, Return: substTypeExpr(v.Return, subst), Body: substBlock(v.Body, subst)}
	case *ast.CastExpr:
		return &ast.CastExpr{SpanVal: v.SpanVal, X: substExpr(v.X, subst), Type: substTypeExpr(v.Type, subst)}
	case *ast.AddrOfExpr:
		return &ast.AddrOfExpr{SpanVal: v.SpanVal, X: substExpr(v.X, subst), Mutable: v.Mutable}
	case *ast.DerefExpr:
		return &ast.DerefExpr{SpanVal: v.SpanVal, X: substExpr(v.X, subst)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{SpanVal: v.SpanVal, X: substExpr(v.X, subst), Index: substExpr(v.Index, subst)}
	default:
		return e // literals, idents, paths: nothing to substitute
	}
}

func substExprs(es []ast.Expr, subst map[string]ast.TypeExpr) []ast.Expr {
	if es == nil {
		return nil
	}
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = substExpr(e, subst)
	}
	return out
}

func substBlock(b *ast.BlockExpr, subst map[string]ast.TypeExpr) *ast.BlockExpr {
	if b == nil {
		return nil
	}
	stmts := make([]ast.Stmt, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = substStmt(s, subst)
	}
	return &ast.BlockExpr{SpanVal: b.SpanVal, Stmts: stmts, Value: substExpr(b.Value, subst)}
}

func substStmt(s ast.Stmt, subst map[string]ast.TypeExpr) ast.Stmt {
	switch v := s.(type) {
	case *ast.BindingStmt:
		return &ast.BindingStmt{SpanVal: v.SpanVal, Name: v.Name, Mutable: v.Mutable, Type: substTypeExpr(v.Type, subst), Value: substExpr(v.Value, subst)}
	case *ast.AssignStmt:
		return &ast.AssignStmt{SpanVal: v.SpanVal, Target: substExpr(v.Target, subst), Op: v.Op, Value: substExpr(v.Value, subst)}
	case *ast.ExprStmt:
		return &ast.ExprStmt{SpanVal: v.SpanVal, X: substExpr(v.X, subst)}
	case *ast.ReturnStmt:
		return &ast.ReturnStmt{SpanVal: v.SpanVal, Value: substExpr(v.Value, subst)}
	case *ast.BreakStmt:
		return &ast.BreakStmt{SpanVal: v.SpanVal, Value: substExpr(v.Value, subst)}
	case *ast.DeferStmt:
		return &ast.DeferStmt{SpanVal: v.SpanVal, Call: substExpr(v.Call, subst)}
	default:
		return s
	}
}
