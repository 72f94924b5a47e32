package mono

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zen-lang/zenc/internal/types"
)

func TestMangle_NoArgs(t *testing.T) {
	assert.Equal(t, "Point", Mangle("Point", nil))
}

func TestMangle_SingleArg(t *testing.T) {
	got := Mangle("Vec", []types.Type{&types.Primitive{Name: "i64"}})
	assert.Equal(t, "Vec__i64", got)
}

func TestMangle_MultipleArgsDistinctFromEachOther(t *testing.T) {
	a := Mangle("Pair", []types.Type{&types.Primitive{Name: "i64"}, &types.Primitive{Name: "f64"}})
	b := Mangle("Pair", []types.Type{&types.Primitive{Name: "f64"}, &types.Primitive{Name: "i64"}})
	assert.NotEqual(t, a, b)
}

func TestMangle_NestedGeneric(t *testing.T) {
	inner := &types.Generic{Name: "Option", Args: []types.Type{&types.Primitive{Name: "i64"}}}
	got := Mangle("Result", []types.Type{inner, &types.Primitive{Name: "bool"}})
	assert.Equal(t, "Result__Option__i64__bool", got)
}

func TestCache_ReserveThenSeal(t *testing.T) {
	c := NewCache()
	args := []types.Type{&types.Primitive{Name: "i64"}}

	inst := c.Reserve("Vec", args)
	assert.NotNil(t, inst)
	assert.Empty(t, c.All(), "reserved-but-unsealed instances must not be visible yet")

	c.Seal(inst, "decl-placeholder")
	assert.Len(t, c.All(), 1)

	again, ok := c.Lookup("Vec", args)
	assert.True(t, ok)
	assert.Same(t, inst, again)
}

func TestCache_DistinctArgsDistinctEntries(t *testing.T) {
	c := NewCache()
	c.Seal(c.Reserve("Vec", []types.Type{&types.Primitive{Name: "i64"}}), nil)
	c.Seal(c.Reserve("Vec", []types.Type{&types.Primitive{Name: "f64"}}), nil)
	assert.Len(t, c.All(), 2)
}
