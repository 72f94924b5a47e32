package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zen-lang/zenc/internal/types"
)

func TestScope_DeclareAndLookup(t *testing.T) {
	s := New(nil)
	assert.True(t, s.Declare(&Binding{Name: "x", Type: types.I64}))
	b, ok := s.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.I64, b.Type)
}

func TestScope_RedeclareInSameScopeFails(t *testing.T) {
	s := New(nil)
	assert.True(t, s.Declare(&Binding{Name: "x", Type: types.I64}))
	assert.False(t, s.Declare(&Binding{Name: "x", Type: types.Bool}))
}

func TestScope_ShadowingInChildScopeIsAllowed(t *testing.T) {
	parent := New(nil)
	parent.Declare(&Binding{Name: "x", Type: types.I64})
	child := New(parent)
	assert.True(t, child.Declare(&Binding{Name: "x", Type: types.Bool}))

	b, ok := child.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.Bool, b.Type, "child's binding shadows the parent's")

	pb, ok := parent.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.I64, pb.Type, "parent's own binding is untouched by the child's shadow")
}

func TestScope_LookupWalksOutward(t *testing.T) {
	parent := New(nil)
	parent.Declare(&Binding{Name: "y", Type: types.F64})
	child := New(parent)
	b, ok := child.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, types.F64, b.Type)
}

func TestScope_LookupMissingReturnsFalse(t *testing.T) {
	s := New(nil)
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}

func TestScope_LocalLookupDoesNotWalkOutward(t *testing.T) {
	parent := New(nil)
	parent.Declare(&Binding{Name: "z", Type: types.I64})
	child := New(parent)
	_, ok := child.LocalLookup("z")
	assert.False(t, ok, "LocalLookup must not see the parent's bindings")
}

func TestScope_Depth(t *testing.T) {
	root := New(nil)
	assert.Equal(t, 0, root.Depth())
	child := New(root)
	assert.Equal(t, 1, child.Depth())
	grandchild := New(child)
	assert.Equal(t, 2, grandchild.Depth())
}
