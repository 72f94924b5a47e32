package mono

import "github.com/zen-lang/zenc/internal/types"

// Instance is one sealed monomorphization: a concrete clone of a generic
// declaration plus the mangled name codegen emits it under. Decl is typed
// interface{} to avoid an ast<->mono dependency inversion; Monomorphizer's
// callers type-assert it back to *ast.FuncDecl / *ast.StructDecl /
// *ast.EnumDecl.
type Instance struct {
	Key       string
	Name      string // original generic name
	Args      []types.Type
	Mangled   string
	Decl      interface{}
	sealed    bool
}

// Cache is the instantiation cache of spec.md §3.5: keyed by
// (generic_name, [concrete_type...]), each entry owns its monomorphized
// AST node and mangled name, and becomes immutable once sealed so a
// generic used at the same concrete types twice is only ever built once.
type Cache struct {
	entries map[string]*Instance
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Instance)}
}

// Key computes the canonical cache key for a (name, args) instantiation.
func Key(name string, args []types.Type) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, types.CanonicalKey(a))
	}
	return joinKey(parts)
}

func joinKey(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "\x1f" + p // unit separator: never appears in a type's String()
	}
	return out
}

// Lookup returns the sealed instance for (name, args) if already built.
func (c *Cache) Lookup(name string, args []types.Type) (*Instance, bool) {
	inst, ok := c.entries[Key(name, args)]
	return inst, ok
}

// Reserve inserts a placeholder before the instance body is built, so a
// self-referential generic (a struct containing Ptr<Self<T>>) queued twice
// during work-list draining doesn't recurse into building itself again.
func (c *Cache) Reserve(name string, args []types.Type) *Instance {
	key := Key(name, args)
	inst := &Instance{Key: key, Name: name, Args: args, Mangled: Mangle(name, args)}
	c.entries[key] = inst
	return inst
}

// Seal attaches the built declaration and freezes the instance.
func (c *Cache) Seal(inst *Instance, decl interface{}) {
	inst.Decl = decl
	inst.sealed = true
}

// All returns every sealed instance, in insertion order is not guaranteed
// (map iteration); callers that need determinism should sort by Mangled.
func (c *Cache) All() []*Instance {
	out := make([]*Instance, 0, len(c.entries))
	for _, inst := range c.entries {
		if inst.sealed {
			out = append(out, inst)
		}
	}
	return out
}
