package check

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/scope"
	"github.com/zen-lang/zenc/internal/types"
)

// checkPattern validates pat against the scrutinee's type, binding any
// names the pattern introduces into s (spec.md §4.4.3). It returns the
// variant name matched, if any, for the exhaustiveness check in
// check_match.go to tally.
func (c *Checker) checkPattern(s *scope.Scope, pat ast.Pattern, scrutType types.Type) (variant string) {
	switch v := pat.(type) {
	case *ast.WildcardPattern:
		return ""
	case *ast.IdentPattern:
		if !s.Declare(&scope.Binding{Name: v.Name, Type: scrutType}) {
			c.errorf(v, "%q is already bound in this pattern", v.Name)
		}
		return ""
	case *ast.LiteralPattern:
		c.checkExpr(s, v.Value, scrutType)
		if b, ok := v.Value.(*ast.BoolLit); ok {
			if b.Value {
				return "true"
			}
			return "false"
		}
		return ""
	case *ast.RangePattern:
		c.checkExpr(s, v.Low, scrutType)
		c.checkExpr(s, v.High, scrutType)
		return ""
	case *ast.VariantPattern:
		return c.checkVariantPattern(s, v, scrutType)
	case *ast.StructPattern:
		c.checkStructPattern(s, v, scrutType)
		return ""
	}
	return ""
}

func (c *Checker) checkVariantPattern(s *scope.Scope, v *ast.VariantPattern, scrutType types.Type) string {
	resolved := types.Resolve(scrutType)

	if named, ok := resolved.(*types.Named); ok {
		if ed, ok := named.Def.(*ast.EnumDecl); ok {
			for _, variant := range ed.Variants {
				if variant.Name != v.Variant {
					continue
				}
				if v.Binding != nil {
					var pt types.Type = types.Void
					if variant.Payload != nil {
						pt = c.resolveTypeExpr(variant.Payload)
					}
					c.checkPattern(s, v.Binding, pt)
				}
				return v.Variant
			}
			c.errorf(v, "enum %s has no variant %q", ed.Name, v.Variant)
			return v.Variant
		}
	}

	// Option/Result have no ast.EnumDecl to walk — check the pattern's
	// variant name against the well-known tag set instead.
	if name, variants, ok := wellKnownVariantsFor(resolved); ok {
		found := false
		for _, variant := range variants {
			if variant == v.Variant {
				found = true
				break
			}
		}
		if !found {
			c.errorf(v, "%s has no variant %q", name, v.Variant)
		}
		if v.Binding != nil {
			c.checkPattern(s, v.Binding, wellKnownPayloadType(resolved, v.Variant))
		}
		return v.Variant
	}

	c.errorf(v, "pattern %q does not match scrutinee type %s", v.Variant, scrutType.String())
	if v.Binding != nil {
		c.checkPattern(s, v.Binding, types.ErrorType)
	}
	return v.Variant
}

func (c *Checker) checkStructPattern(s *scope.Scope, sp *ast.StructPattern, scrutType types.Type) {
	named, ok := types.Resolve(scrutType).(*types.Named)
	if !ok {
		return
	}
	sd, ok := named.Def.(*ast.StructDecl)
	if !ok {
		return
	}
	for _, f := range sp.Fields {
		var ft types.Type = types.ErrorType
		for _, fd := range sd.Fields {
			if fd.Name == f.Name {
				ft = c.resolveTypeExpr(fd.Type)
			}
		}
		c.checkPattern(s, f.Pattern, ft)
	}
}
