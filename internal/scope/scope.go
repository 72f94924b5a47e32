// Package scope implements the lexical scope chain used by the type
// checker to resolve bindings introduced by `=`, `::=`, `:`, and `::`
// (spec.md §4.4), struct/behavior generic parameters, and match-arm
// pattern bindings.
//
// The structure mirrors the teacher's scope package: a chain of maps
// linked through a Parent pointer, walked upward on lookup. Where the
// teacher's scope bound names to runtime objects, this one binds names
// to Binding records carrying a static type and mutability instead.
package scope

import "github.com/zen-lang/zenc/internal/types"

// Binding records one name's static type and mutability within a scope.
type Binding struct {
	Name      string
	Type      types.Type
	Mutable   bool
	BindingID int
}

// Scope is one lexical scope boundary: a function body, a block, a match
// arm's pattern bindings, or the file-level top scope.
type Scope struct {
	Bindings map[string]*Binding
	Parent   *Scope
}

// New creates a Scope nested under parent. parent == nil makes a root scope.
func New(parent *Scope) *Scope {
	return &Scope{Bindings: make(map[string]*Binding), Parent: parent}
}

// Lookup searches this scope and every enclosing scope outward, the way a
// name reference resolves lexically (spec.md §4.4's scoping rule).
func (s *Scope) Lookup(name string) (*Binding, bool) {
	if s == nil {
		return nil, false
	}
	if b, ok := s.Bindings[name]; ok {
		return b, true
	}
	return s.Parent.Lookup(name)
}

// Declare introduces a new binding in this scope only. It returns false if
// the name was already bound in this exact scope (shadowing an outer scope
// is allowed; redeclaring within the same one is not, per spec.md §4.4.5's
// taxonomy).
func (s *Scope) Declare(b *Binding) bool {
	if _, exists := s.Bindings[b.Name]; exists {
		return false
	}
	s.Bindings[b.Name] = b
	return true
}

// LocalLookup searches only this scope, not any enclosing one. Used by the
// checker to validate that a pattern's bound names within one arm don't
// collide with each other.
func (s *Scope) LocalLookup(name string) (*Binding, bool) {
	b, ok := s.Bindings[name]
	return b, ok
}

// Depth counts how many scopes separate s from the function's top scope,
// used to decide which deferred actions fire at a given scope exit
// (spec.md §4.7.2).
func (s *Scope) Depth() int {
	d := 0
	for p := s.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}
