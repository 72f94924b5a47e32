package mono

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/types"
)

// request is one pending work-list item: instantiate `Name` at `Args`.
type request struct {
	name string
	args []types.Type
}

// Monomorphizer drains a work-list of pending instantiations rather than
// recursing through nested generics (spec.md §9), so a deeply nested
// instantiation like Option<Result<Option<T>, E>, F> can't exhaust the Go
// call stack: discovering it while building an outer instance just
// enqueues another request instead of calling back into itself.
type Monomorphizer struct {
	Env   *types.Env
	Cache *Cache
	queue []request
}

func New(env *types.Env) *Monomorphizer {
	return &Monomorphizer{Env: env, Cache: NewCache()}
}

// Request enqueues (name, args) for instantiation if it isn't already
// cached or already queued.
func (m *Monomorphizer) Request(name string, args []types.Type) {
	if len(args) == 0 {
		return // non-generic declarations need no monomorphization
	}
	if _, ok := m.Cache.Lookup(name, args); ok {
		return
	}
	key := Key(name, args)
	for _, r := range m.queue {
		if Key(r.name, r.args) == key {
			return
		}
	}
	m.queue = append(m.queue, request{name: name, args: args})
}

// Run drains the work-list to a fixed point: building one instance may
// discover further nested instantiations (e.g. a struct field typed
// Vec<Option<T>> instantiated at T=i32 requires Option__i32 in turn),
// which Request appends to the same queue rather than the call stack.
func (m *Monomorphizer) Run() []*Instance {
	for len(m.queue) > 0 {
		r := m.queue[0]
		m.queue = m.queue[1:]
		if _, ok := m.Cache.Lookup(r.name, r.args); ok {
			continue
		}
		m.build(r.name, r.args)
	}
	return m.Cache.All()
}

func (m *Monomorphizer) build(name string, args []types.Type) {
	scheme, ok := m.Env.Schemes[name]
	if !ok {
		return // not a known generic (e.g. a well-known type handled natively by codegen)
	}
	inst := m.Cache.Reserve(name, args)
	subst := bindTypeParams(scheme.Params, args)

	var decl interface{}
	switch def := scheme.Def.(type) {
	case *ast.StructDecl:
		decl = m.cloneStruct(def, inst.Mangled, subst)
	case *ast.EnumDecl:
		decl = m.cloneEnum(def, inst.Mangled, subst)
	case *ast.FuncDecl:
		decl = m.cloneFunc(def, inst.Mangled, subst)
	}
	m.Cache.Seal(inst, decl)
}

func (m *Monomorphizer) cloneStruct(d *ast.StructDecl, mangled string, subst map[string]ast.TypeExpr) *ast.StructDecl {
	fields := make([]ast.Field, len(d.Fields))
	for i, f := range d.Fields {
		ft := substTypeExpr(f.Type, subst)
		fields[i] = ast.Field{Name: f.Name, Type: ft}
		m.requestFromTypeExpr(ft)
	}
	return &ast.StructDecl{SpanVal: d.SpanVal, Name: mangled, Fields: fields}
}

func (m *Monomorphizer) cloneEnum(d *ast.EnumDecl, mangled string, subst map[string]ast.TypeExpr) *ast.EnumDecl {
	variants := make([]ast.Variant, len(d.Variants))
	for i, v := range d.Variants {
		var payload ast.TypeExpr
		if v.Payload != nil {
			payload = substTypeExpr(v.Payload, subst)
			m.requestFromTypeExpr(payload)
		}
		variants[i] = ast.Variant{Name: v.Name, Payload: payload, Discrimant: v.Discrimant}
	}
	return &ast.EnumDecl{SpanVal: d.SpanVal, Name: mangled, Variants: variants}
}

func (m *Monomorphizer) cloneFunc(d *ast.FuncDecl, mangled string, subst map[string]ast.TypeExpr) *ast.FuncDecl {
	params := make([]ast.Param, len(d.Params))
	for i, p := range d.Params {
		pt := substTypeExpr(p.Type, subst)
		m.requestFromTypeExpr(pt)
		params[i] = ast.Param{Name: p.Name, Type: pt}
	}
	ret := substTypeExpr(d.Return, subst)
	if ret != nil {
		m.requestFromTypeExpr(ret)
	}
	return &ast.FuncDecl{
		SpanVal:    d.SpanVal,
		Name:       mangled,
		Params:     params,
		Return:     ret,
		Body:       substBlock(d.Body, subst),
		IsExternal: d.IsExternal,
		Varargs:    d.Varargs,
	}
}

// requestFromTypeExpr walks a substituted type expression for nested
// parameterized types (the struct/enum/func clone's own fields may carry
// further generic instantiations) and enqueues them.
func (m *Monomorphizer) requestFromTypeExpr(t ast.TypeExpr) {
	switch v := t.(type) {
	case *ast.ParameterizedType:
		args := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprToType(a)
			m.requestFromTypeExpr(a)
		}
		m.Request(v.Name, args)
	case *ast.PointerType:
		m.requestFromTypeExpr(v.Elem)
	case *ast.ArrayType:
		m.requestFromTypeExpr(v.Elem)
	case *ast.FuncType:
		for _, p := range v.Params {
			m.requestFromTypeExpr(p)
		}
		m.requestFromTypeExpr(v.Return)
	}
}

// exprToType is the inverse of typeToExpr, needed because the work-list
// records pending instantiations as types.Type tuples; it only needs to
// handle the shapes substTypeExpr can actually produce.
func exprToType(t ast.TypeExpr) types.Type {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		if p, ok := types.Lookup(v.Name); ok {
			return p
		}
		return types.ErrorType
	case *ast.NamedType:
		return &types.Named{Name: v.Name}
	case *ast.ParameterizedType:
		args := make([]types.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprToType(a)
		}
		return &types.Named{Name: v.Name, Args: args}
	case *ast.PointerType:
		return &types.Pointer{Kind: types.PointerKind(v.Kind), Elem: exprToType(v.Elem)}
	case *ast.ArrayType:
		return &types.Array{Elem: exprToType(v.Elem), Size: v.Size}
	default:
		return types.ErrorType
	}
}
