package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	p, ok := Lookup("i64")
	assert.True(t, ok)
	assert.Same(t, I64, p)

	_, ok = Lookup("not-a-type")
	assert.False(t, ok)
}

func TestIsIntegerFloatNumeric(t *testing.T) {
	assert.True(t, IsInteger(I64))
	assert.False(t, IsInteger(F64))
	assert.True(t, IsFloat(F32))
	assert.False(t, IsFloat(Bool))
	assert.True(t, IsNumeric(I64))
	assert.True(t, IsNumeric(F64))
	assert.False(t, IsNumeric(Bool))
}

func TestResolve_FollowsVarChain(t *testing.T) {
	inner := &Var{ID: 1}
	middle := &Var{ID: 2, Resolved: inner}
	inner.Resolved = I64
	assert.Same(t, I64, Resolve(middle))
}

func TestResolve_UnresolvedVarReturnsItself(t *testing.T) {
	v := &Var{ID: 3}
	assert.Same(t, v, Resolve(v))
}

func TestEqual_Primitives(t *testing.T) {
	assert.True(t, Equal(I64, I64))
	assert.False(t, Equal(I64, F64))
}

func TestEqual_NamedWithArgs(t *testing.T) {
	a := &Named{Name: "Vec", Args: []Type{I64}}
	b := &Named{Name: "Vec", Args: []Type{I64}}
	c := &Named{Name: "Vec", Args: []Type{F64}}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestEqual_FuncSignature(t *testing.T) {
	a := &Func{Params: []Type{I64, Bool}, Return: Void}
	b := &Func{Params: []Type{I64, Bool}, Return: Void}
	c := &Func{Params: []Type{I64}, Return: Void}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestEqual_ResolvesVarsFirst(t *testing.T) {
	v := &Var{ID: 4, Resolved: I64}
	assert.True(t, Equal(v, I64))
}

func TestEqual_ErrorTypeIsAlwaysCompatible(t *testing.T) {
	assert.True(t, Equal(ErrorType, I64))
	assert.True(t, Equal(Bool, ErrorType))
}

func TestPointerString(t *testing.T) {
	p := &Pointer{Kind: PtrMut, Elem: I64}
	assert.Equal(t, "MutPtr<i64>", p.String())
}
