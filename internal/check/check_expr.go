package check

import (
	"strings"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/scope"
	"github.com/zen-lang/zenc/internal/types"
)

// checkBlock checks a function or closure body: each statement in turn,
// then the trailing value (if any) against the expected return type.
func (c *Checker) checkBlock(s *scope.Scope, b *ast.BlockExpr, expectedTail types.Type) types.Type {
	inner := scope.New(s)
	for _, st := range b.Stmts {
		c.checkStmt(inner, st)
	}
	var tail types.Type = types.Void
	if b.Value != nil {
		if expectedTail != nil {
			c.checkExpr(inner, b.Value, expectedTail)
			tail = expectedTail
		} else {
			tail = c.synthExpr(inner, b.Value)
		}
	}
	c.setType(b, tail)
	return tail
}

func (c *Checker) checkStmt(s *scope.Scope, st ast.Stmt) {
	switch v := st.(type) {
	case *ast.BindingStmt:
		c.checkBindingStmt(s, v)
	case *ast.AssignStmt:
		c.checkAssignStmt(s, v)
	case *ast.ExprStmt:
		c.synthExpr(s, v.X)
	case *ast.ReturnStmt:
		if v.Value != nil {
			c.synthExpr(s, v.Value)
		}
	case *ast.BreakStmt:
		if v.Value != nil {
			c.synthExpr(s, v.Value)
		}
	case *ast.ContinueStmt:
		// nothing to check
	case *ast.DeferStmt:
		c.synthExpr(s, v.Call)
	case *ast.BadStmt:
		// already diagnosed by the parser
	}
}

func (c *Checker) checkBindingStmt(s *scope.Scope, b *ast.BindingStmt) {
	var declared types.Type
	if b.Type != nil {
		declared = c.resolveTypeExpr(b.Type)
	}
	var t types.Type
	switch {
	case b.Value == nil:
		t = declared
	case declared != nil:
		c.checkExpr(s, b.Value, declared)
		t = declared
	default:
		t = c.synthExpr(s, b.Value)
	}
	if !s.Declare(&scope.Binding{Name: b.Name, Type: t, Mutable: b.Mutable}) {
		c.errorf(b, "%q is already bound in this scope", b.Name)
	}
}

func (c *Checker) checkAssignStmt(s *scope.Scope, a *ast.AssignStmt) {
	t := c.synthExpr(s, a.Target)
	if id, ok := a.Target.(*ast.Ident); ok {
		if b, found := s.Lookup(id.Name); found && !b.Mutable {
			c.errorf(a, "cannot assign to immutable binding %q", id.Name)
		}
	}
	c.checkExpr(s, a.Value, t)
}

// synthExpr implements the synthesis half of bidirectional inference
// (spec.md §4.4.1): produce a type from an expression with no expectation.
func (c *Checker) synthExpr(s *scope.Scope, e ast.Expr) types.Type {
	var t types.Type
	switch v := e.(type) {
	case *ast.IntLit:
		t = intLitType(v.Suffix)
	case *ast.FloatLit:
		t = floatLitType(v.Suffix)
	case *ast.BoolLit:
		t = types.Bool
	case *ast.ByteLit:
		t = types.Byte
	case *ast.StringLit:
		for _, pc := range v.Pieces {
			if pc.Expr != nil {
				c.synthExpr(s, pc.Expr)
			}
		}
		t = &types.Named{Name: "String"}
	case *ast.Ident:
		t = c.synthIdent(s, v)
	case *ast.PathExpr:
		t = c.synthPath(s, v)
	case *ast.CallExpr:
		t = c.synthCall(s, v)
	case *ast.MethodCallExpr:
		t = c.synthMethodCall(s, v)
	case *ast.BinaryExpr:
		t = c.synthBinary(s, v)
	case *ast.UnaryExpr:
		t = c.synthExpr(s, v.X)
	case *ast.MatchExpr:
		t = c.checkMatchExpr(s, v, nil)
	case *ast.BlockExpr:
		t = c.checkBlock(s, v, nil)
	case *ast.RangeExpr:
		t = c.synthRange(s, v)
	case *ast.StructLitExpr:
		t = c.synthStructLit(s, v)
	case *ast.EnumCtorExpr:
		t = c.synthEnumCtor(s, v)
	case *ast.ArrayLitExpr:
		t = c.synthArrayLit(s, v)
	case *ast.ClosureExpr:
		t = c.synthClosure(s, v)
	case *ast.CastExpr:
		c.synthExpr(s, v.X)
		t = c.resolveTypeExpr(v.Type)
	case *ast.AddrOfExpr:
		elem := c.synthExpr(s, v.X)
		kind := types.PtrShared
		if v.Mutable {
			kind = types.PtrMut
		}
		t = &types.Pointer{Kind: kind, Elem: elem}
	case *ast.DerefExpr:
		t = c.synthDeref(s, v)
	case *ast.IndexExpr:
		t = c.synthIndex(s, v)
	case *ast.BadExpr:
		t = types.ErrorType
	default:
		t = types.ErrorType
	}
	c.setType(e, t)
	return t
}

// checkExpr implements the checking half: verify e against expected,
// coercing unsuffixed numeric literals (spec.md §4.4.1).
func (c *Checker) checkExpr(s *scope.Scope, e ast.Expr, expected types.Type) {
	switch v := e.(type) {
	case *ast.IntLit:
		if v.Suffix == "" && types.IsNumeric(expected) {
			c.setType(e, expected)
			return
		}
	case *ast.FloatLit:
		if v.Suffix == "" && types.IsFloat(expected) {
			c.setType(e, expected)
			return
		}
	case *ast.MatchExpr:
		c.checkMatchExpr(s, v, expected)
		return
	case *ast.BlockExpr:
		c.checkBlock(s, v, expected)
		return
	case *ast.ClosureExpr:
		c.checkClosureAgainst(s, v, expected)
		return
	}
	got := c.synthExpr(s, e)
	if !types.Equal(got, expected) {
		c.errorf(e, "type mismatch: expected %s, found %s", expected.String(), got.String())
	}
}

func intLitType(suffix string) types.Type {
	if suffix != "" {
		if p, ok := types.Lookup(suffix); ok {
			return p
		}
	}
	return types.I32
}

func floatLitType(suffix string) types.Type {
	if suffix != "" {
		if p, ok := types.Lookup(suffix); ok {
			return p
		}
	}
	return types.F64
}

func (c *Checker) synthIdent(s *scope.Scope, id *ast.Ident) types.Type {
	if id.Name == "@this" {
		return types.Void
	}
	if b, ok := s.Lookup(id.Name); ok {
		return b.Type
	}
	if d, ok := c.Program.Globals[id.Name]; ok {
		if fd, ok := (*d).(*ast.FuncDecl); ok {
			return c.funcType(fd)
		}
	}
	c.errorf(id, "unknown name %q", id.Name)
	return types.ErrorType
}

// synthPath resolves a dotted access chain (`io.println`, an injected
// destructuring alias, or a module-qualified constant). UFC rewriting of
// `a.f(x)` into `f(a, x)` happens in synthMethodCall/synthCall instead,
// since a path with no call around it is just a value reference.
func (c *Checker) synthPath(s *scope.Scope, p *ast.PathExpr) types.Type {
	if b, ok := s.Lookup(p.Segs[0]); ok {
		return c.synthFieldChain(p, b.Type, p.Segs[1:])
	}

	full := strings.Join(p.Segs, ".")
	if d, ok := c.Program.Globals[full]; ok {
		if fd, ok := (*d).(*ast.FuncDecl); ok {
			return c.funcType(fd)
		}
	}
	// Unresolved external module reference (stdlib not modeled here);
	// treat as an opaque function type rather than cascading an error for
	// every @std call, since the stdlib's own declarations are out of
	// scope for this compiler core.
	return &types.Func{Params: nil, Return: types.Void, Varargs: true}
}

// synthFieldChain walks field accesses off a local binding's type, the way
// synthStructLit looks up a field's declared type against sd.Fields.
func (c *Checker) synthFieldChain(p *ast.PathExpr, t types.Type, segs []string) types.Type {
	for _, seg := range segs {
		named, ok := types.Resolve(t).(*types.Named)
		if !ok {
			c.errorf(p, "cannot access field %q on non-struct type %s", seg, t)
			return types.ErrorType
		}
		sd, _ := named.Def.(*ast.StructDecl)
		if sd == nil {
			c.errorf(p, "cannot access field %q on %s", seg, t)
			return types.ErrorType
		}
		var want types.Type
		for _, fd := range sd.Fields {
			if fd.Name == seg {
				want = c.resolveTypeExpr(fd.Type)
			}
		}
		if want == nil {
			c.errorf(p, "struct %s has no field %q", sd.Name, seg)
			return types.ErrorType
		}
		t = want
	}
	return t
}

func (c *Checker) synthCall(s *scope.Scope, call *ast.CallExpr) types.Type {
	if id, ok := call.Callee.(*ast.Ident); ok && len(call.TypeArgs) > 0 {
		return c.synthGenericConstructCall(s, call, id)
	}
	calleeT := c.synthExpr(s, call.Callee)
	for _, a := range call.Args {
		c.synthExpr(s, a)
	}
	if ft, ok := types.Resolve(calleeT).(*types.Func); ok {
		if !ft.Varargs && len(ft.Params) != len(call.Args) {
			c.errorf(call, "arity mismatch: expected %d argument(s), found %d", len(ft.Params), len(call.Args))
		}
		if ft.Return != nil {
			return ft.Return
		}
		return types.Void
	}
	return types.ErrorType
}

// synthGenericConstructCall type-checks the turbofish construction form
// `Name<Args>(ctorArgs...)` (spec.md §4.7.6), the literal-call spelling
// of a well-known generic type like `DynVec<i32>(allocator)`. It applies
// the same allocator-argument discipline as synthStructLit's field-style
// construction, keyed off the same allocatorRequiring table, since
// DynVec/HashMap/String can be constructed either way.
func (c *Checker) synthGenericConstructCall(s *scope.Scope, call *ast.CallExpr, id *ast.Ident) types.Type {
	args := make([]types.Type, len(call.TypeArgs))
	for i, a := range call.TypeArgs {
		args[i] = c.resolveTypeExpr(a)
	}
	for _, a := range call.Args {
		c.synthExpr(s, a)
	}
	if allocatorRequiring(id.Name) && len(call.Args) == 0 {
		c.errorf(call, "construction requires an allocator argument")
	}
	if def, ok := c.Env.Structs[id.Name]; ok {
		return &types.Named{Name: id.Name, Def: def, Args: args}
	}
	if def, ok := c.Env.Enums[id.Name]; ok {
		return &types.Named{Name: id.Name, Def: def, Args: args}
	}
	return &types.Generic{Name: id.Name, Args: args}
}

// synthMethodCall implements uniform function call (spec.md §4.2, §9):
// `a.f(x)` is first tried as a real method/behavior dispatch on a's type;
// if none exists, it's rewritten as `f(a, x)` against the global table.
func (c *Checker) synthMethodCall(s *scope.Scope, m *ast.MethodCallExpr) types.Type {
	recvT := c.synthExpr(s, m.Recv)
	for _, a := range m.Args {
		c.synthExpr(s, a)
	}
	if impl := c.lookupMethod(recvT, m.Name); impl != nil {
		if impl.Return != nil {
			return c.resolveTypeExpr(impl.Return)
		}
		return types.Void
	}
	// UFC fallback: f(recv, args...) against a global function.
	if d, ok := c.Program.Globals[m.Name]; ok {
		if fd, ok := (*d).(*ast.FuncDecl); ok {
			if fd.Return != nil {
				return c.resolveTypeExpr(fd.Return)
			}
			return types.Void
		}
	}
	c.errorf(m, "no method or function named %q for receiver type %s", m.Name, recvT.String())
	return types.ErrorType
}

// lookupMethod finds a behavior method implemented for recvT's named
// type, by the nominal (behavior, type) table (spec.md §4.4.4).
func (c *Checker) lookupMethod(recvT types.Type, name string) *ast.MethodSig {
	named, ok := types.Resolve(recvT).(*types.Named)
	if !ok {
		return nil
	}
	for key, impl := range c.Impls {
		if key.Type != named.Name {
			continue
		}
		for _, fn := range impl.Methods {
			if fn.Name == name {
				sig := &ast.MethodSig{Name: fn.Name, Params: fn.Params, Return: fn.Return}
				return sig
			}
		}
	}
	return nil
}

func (c *Checker) synthBinary(s *scope.Scope, b *ast.BinaryExpr) types.Type {
	lt := c.synthExpr(s, b.Left)
	c.checkExpr(s, b.Right, lt)
	switch b.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return types.Bool
	}
	return lt
}

func (c *Checker) synthRange(s *scope.Scope, r *ast.RangeExpr) types.Type {
	t := c.synthExpr(s, r.Low)
	c.checkExpr(s, r.High, t)
	if r.Step != nil {
		c.checkExpr(s, r.Step, t)
	}
	return &types.Generic{Name: "Range", Args: []types.Type{t}}
}

func (c *Checker) synthStructLit(s *scope.Scope, lit *ast.StructLitExpr) types.Type {
	t := c.resolveTypeExpr(lit.Type)
	resolved := types.Resolve(t)

	// DynVec/HashMap/String are stdlib-opaque (spec.md §4.7.6): they have
	// no in-program *ast.StructDecl to walk, so they resolve to a bare
	// *types.Named (no Def) or a *types.Generic rather than a Named with a
	// struct body. The allocator-argument discipline still applies to
	// them, so check it by name before falling through to the
	// field-by-field walk that needs a real struct body.
	if name := typeLitName(resolved); name != "" && allocatorRequiring(name) {
		c.checkAllocatorArg(s, lit, lit.Fields)
	}

	named, ok := resolved.(*types.Named)
	if !ok {
		for _, f := range lit.Fields {
			c.synthExpr(s, f.Value)
		}
		return t
	}
	sd, _ := named.Def.(*ast.StructDecl)
	if sd == nil {
		for _, f := range lit.Fields {
			c.synthExpr(s, f.Value)
		}
		return t
	}
	if allocatorRequiring(sd.Name) {
		c.checkAllocatorArg(s, lit, lit.Fields)
	}
	for _, f := range lit.Fields {
		var want types.Type
		for _, fd := range sd.Fields {
			if fd.Name == f.Name {
				want = c.resolveTypeExpr(fd.Type)
			}
		}
		if want != nil {
			c.checkExpr(s, f.Value, want)
		} else {
			c.synthExpr(s, f.Value)
		}
	}
	return t
}

// typeLitName extracts the bare name of a resolved type when it names a
// well-known stdlib type with no struct body of its own, so callers can
// key allocatorRequiring lookups off it without needing a *ast.StructDecl.
func typeLitName(resolved types.Type) string {
	switch v := resolved.(type) {
	case *types.Named:
		if v.Def == nil {
			return v.Name
		}
	case *types.Generic:
		return v.Name
	}
	return ""
}

func allocatorRequiring(name string) bool { return types.AllocatorRequiring[name] }

// checkAllocatorArg enforces spec.md §4.7.6/§7: construction of an
// allocator-requiring well-known type must pass an `allocator` field/arg.
func (c *Checker) checkAllocatorArg(s *scope.Scope, at ast.Node, fields []ast.StructLitField) {
	for _, f := range fields {
		if f.Name == "allocator" {
			return
		}
	}
	c.errorf(at, "construction requires an allocator argument")
}

func (c *Checker) synthEnumCtor(s *scope.Scope, e *ast.EnumCtorExpr) types.Type {
	if e.Payload != nil {
		c.synthExpr(s, e.Payload)
	}
	name := e.EnumName
	if name == "" {
		name = inferEnumFromWellKnownVariant(e.Variant)
	}
	if name == "" {
		if def := c.findEnumWithVariant(e.Variant); def != nil {
			name = def.Name
		}
	}
	return &types.Named{Name: name}
}

func inferEnumFromWellKnownVariant(variant string) string {
	switch variant {
	case "Some", "None":
		return "Option"
	case "Ok", "Err":
		return "Result"
	}
	return ""
}

func (c *Checker) findEnumWithVariant(variant string) *ast.EnumDecl {
	for _, def := range c.Env.Enums {
		ed, ok := def.(*ast.EnumDecl)
		if !ok {
			continue
		}
		for _, v := range ed.Variants {
			if v.Name == variant {
				return ed
			}
		}
	}
	return nil
}

func (c *Checker) synthArrayLit(s *scope.Scope, a *ast.ArrayLitExpr) types.Type {
	var elem types.Type = types.ErrorType
	for i, el := range a.Elements {
		if i == 0 {
			elem = c.synthExpr(s, el)
		} else {
			c.checkExpr(s, el, elem)
		}
	}
	return &types.Array{Elem: elem, Size: len(a.Elements)}
}

func (c *Checker) synthClosure(s *scope.Scope, clo *ast.ClosureExpr) types.Type {
	inner := scope.New(s)
	params := make([]types.Type, len(clo.Params))
	for i, p := range clo.Params {
		params[i] = c.resolveTypeExpr(p.Type)
		inner.Declare(&scope.Binding{Name: p.Name, Type: params[i]})
	}
	var ret types.Type
	if clo.Return != nil {
		ret = c.resolveTypeExpr(clo.Return)
	}
	got := c.checkBlock(inner, clo.Body, ret)
	if ret == nil {
		ret = got
	}
	return &types.Func{Params: params, Return: ret}
}

// checkClosureAgainst checks a closure literal against an expected
// function type, inferring unannotated parameter types from it.
func (c *Checker) checkClosureAgainst(s *scope.Scope, clo *ast.ClosureExpr, expected types.Type) {
	ft, ok := types.Resolve(expected).(*types.Func)
	if !ok {
		c.synthClosure(s, clo)
		return
	}
	inner := scope.New(s)
	for i, p := range clo.Params {
		pt := c.resolveTypeExpr(p.Type)
		if p.Type == nil && i < len(ft.Params) {
			pt = ft.Params[i]
		}
		inner.Declare(&scope.Binding{Name: p.Name, Type: pt})
	}
	c.checkBlock(inner, clo.Body, ft.Return)
	c.setType(clo, expected)
}

func (c *Checker) synthDeref(s *scope.Scope, d *ast.DerefExpr) types.Type {
	t := c.synthExpr(s, d.X)
	if p, ok := types.Resolve(t).(*types.Pointer); ok {
		return p.Elem
	}
	c.errorf(d, "cannot dereference non-pointer type %s", t.String())
	return types.ErrorType
}

func (c *Checker) synthIndex(s *scope.Scope, ix *ast.IndexExpr) types.Type {
	t := c.synthExpr(s, ix.X)
	c.checkExpr(s, ix.Index, types.Usize)
	if a, ok := types.Resolve(t).(*types.Array); ok {
		return a.Elem
	}
	if g, ok := types.Resolve(t).(*types.Generic); ok && len(g.Args) > 0 {
		return g.Args[0]
	}
	return types.ErrorType
}
