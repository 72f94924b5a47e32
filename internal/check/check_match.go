package check

import (
	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/scope"
	"github.com/zen-lang/zenc/internal/types"
)

// checkMatchExpr type-checks the `?` operator (spec.md §4.2, §4.4.3): the
// sole control-flow construct. expected is nil when the match is used as
// a statement (no required result type); non-nil when it must produce a
// value, which is also when non-exhaustiveness becomes an error.
func (c *Checker) checkMatchExpr(s *scope.Scope, m *ast.MatchExpr, expected types.Type) types.Type {
	scrutType := c.synthExpr(s, m.Scrutinee)

	if m.ShortForm {
		return c.checkShortForm(s, m, scrutType, expected)
	}

	var armTypes []types.Type
	covered := make(map[string]bool)
	hasWildcard := false

	for i := range m.Arms {
		arm := &m.Arms[i]
		armScope := scope.New(s)
		variant := c.checkPattern(armScope, arm.Pattern, scrutType)
		if _, ok := arm.Pattern.(*ast.WildcardPattern); ok {
			hasWildcard = true
		}
		if variant != "" {
			covered[variant] = true
		}
		var t types.Type
		if expected != nil {
			c.checkExpr(armScope, arm.Body, expected)
			t = expected
		} else {
			t = c.synthExpr(armScope, arm.Body)
		}
		armTypes = append(armTypes, t)
	}

	if !hasWildcard {
		resolved := types.Resolve(scrutType)
		if named, ok := resolved.(*types.Named); ok {
			if ed, ok := named.Def.(*ast.EnumDecl); ok {
				for _, v := range ed.Variants {
					if !covered[v.Name] && expected != nil {
						c.errorf(m, "non-exhaustive match: variant %q of enum %s not covered", v.Name, ed.Name)
					}
				}
			}
		}
		if name, variants, ok := wellKnownVariantsFor(resolved); ok {
			for _, variant := range variants {
				if !covered[variant] && expected != nil {
					c.errorf(m, "non-exhaustive match: variant %q of %s not covered", variant, name)
				}
			}
		} else if types.Equal(resolved, types.Bool) {
			if (!covered["true"] || !covered["false"]) && expected != nil {
				c.errorf(m, "non-exhaustive match: bool scrutinee needs both true and false arms covered")
			}
		}
	}

	if len(armTypes) == 0 {
		return types.Void
	}
	return armTypes[0]
}

// wellKnownEnumVariants names the tag set of each well-known sum type
// (spec.md §4.4.3's Some/None/Ok/Err aliases) for exhaustiveness checking,
// since neither Option nor Result has a real *ast.EnumDecl to walk.
var wellKnownEnumVariants = map[string][]string{
	"Option": {"Some", "None"},
	"Result": {"Ok", "Err"},
}

// wellKnownVariantsFor reports the well-known variant set a resolved
// scrutinee type belongs to, if any. It recognizes both shapes a
// well-known type can take internally: a *types.Named with no def (the
// shape synthEnumCtor produces for `Some(x)`/`Ok(x)`/…) and a
// *types.Generic (the shape an explicit `Option<T>` annotation resolves
// to via resolveTypeExpr) — see check_expr.go's synthEnumCtor and
// check_decl.go's resolveTypeExpr for where each comes from.
func wellKnownVariantsFor(resolved types.Type) (name string, variants []string, ok bool) {
	switch v := resolved.(type) {
	case *types.Named:
		if v.Def != nil {
			return "", nil, false
		}
		variants, ok = wellKnownEnumVariants[v.Name]
		return v.Name, variants, ok
	case *types.Generic:
		variants, ok = wellKnownEnumVariants[v.Name]
		return v.Name, variants, ok
	}
	return "", nil, false
}

// wellKnownPayloadType returns the payload type a well-known variant
// pattern's Binding should be checked against: Option<T>'s Some carries T,
// Result<T, E>'s Ok carries T and Err carries E. When resolved carries no
// type arguments (synthEnumCtor's `&types.Named{Name: ...}`, which has no
// Args to draw from), there is no real payload type to recover — fall
// back to ErrorType so the nested binding still resolves to something
// rather than cascading a second diagnostic.
func wellKnownPayloadType(resolved types.Type, variant string) types.Type {
	g, ok := resolved.(*types.Generic)
	if !ok || len(g.Args) == 0 {
		return types.ErrorType
	}
	switch variant {
	case "Some", "Ok":
		return g.Args[0]
	case "Err":
		if len(g.Args) > 1 {
			return g.Args[1]
		}
	}
	return types.Void
}

// checkShortForm handles `scrutinee ? { body }`: the "true-shaped" form
// that also covers Some/Ok of the well-known Option/Result enums by
// semantic lowering (spec.md §4.2). Since there's no explicit else arm,
// the expression can't produce a required value — an unsatisfied
// expectation here is a type error unless the expected type itself is
// void/unit, mirroring a statement-position `if` with no `else`.
func (c *Checker) checkShortForm(s *scope.Scope, m *ast.MatchExpr, scrutType types.Type, expected types.Type) types.Type {
	inner := scope.New(s)
	bindShortFormPayload(inner, scrutType)
	bodyT := c.checkBlock(inner, m.ShortBody, nil)
	if expected != nil && !types.Equal(expected, types.Void) {
		c.errorf(m, "short-form '?' has no else arm and cannot produce a value of type %s", expected.String())
	}
	_ = bodyT
	return types.Void
}

// bindShortFormPayload binds the implicit payload name `it` when the
// scrutinee is a well-known Option/Result, so the short-form body can
// reference the unwrapped value without an explicit pattern.
func bindShortFormPayload(s *scope.Scope, scrutType types.Type) {
	g, ok := types.Resolve(scrutType).(*types.Generic)
	if !ok || len(g.Args) == 0 {
		return
	}
	if g.Name == "Option" || g.Name == "Result" {
		s.Declare(&scope.Binding{Name: "it", Type: g.Args[0]})
	}
}
