package mono

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/resolver"
)

// Seed walks every declaration's type expressions across the resolved
// program looking for parameterized-type usages (Option<i32>, Vec<Point>,
// ...) and enqueues each as an initial work-list request. This is how the
// monomorphizer bootstraps without needing the checker to report every
// instantiation site individually: any concrete generic usage reachable
// from a signature or field gets found here, and build() discovers the
// rest (nested instantiations) as it clones each instance.
func (m *Monomorphizer) Seed(prog *resolver.Program) {
	for _, decl := range prog.Globals {
		m.seedDecl(*decl)
	}
}

func (m *Monomorphizer) seedDecl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.FuncDecl:
		for _, p := range v.Params {
			m.seedTypeExpr(p.Type)
		}
		m.seedTypeExpr(v.Return)
	case *ast.StructDecl:
		for _, f := range v.Fields {
			m.seedTypeExpr(f.Type)
		}
	case *ast.EnumDecl:
		for _, variant := range v.Variants {
			m.seedTypeExpr(variant.Payload)
		}
	case *ast.BehaviorImplDecl:
		for _, method := range v.Methods {
			m.seedDecl(method)
		}
	}
}

func (m *Monomorphizer) seedTypeExpr(t ast.TypeExpr) {
	if t == nil {
		return
	}
	m.requestFromTypeExpr(t)
}
