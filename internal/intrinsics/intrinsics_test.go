package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_Known(t *testing.T) {
	in, ok := Lookup("memcpy")
	assert.True(t, ok)
	assert.Equal(t, MemoryOps, in.Group)
	assert.Equal(t, 3, in.Arity)
	assert.Equal(t, LowerLLVMIntr, in.Lowering)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("not_a_real_intrinsic")
	assert.False(t, ok)
}

func TestTable_NamesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(Table))
	for _, in := range Table {
		assert.False(t, seen[in.Name], "duplicate intrinsic name %q", in.Name)
		seen[in.Name] = true
	}
}

func TestTable_GenericEntriesAreTypeIntrospectionOnly(t *testing.T) {
	for _, in := range Table {
		if in.Generic {
			assert.Equal(t, TypeIntrospection, in.Group, "%s is generic but not type introspection", in.Name)
		}
	}
}

func TestTable_SyscallArityIncreasesWithN(t *testing.T) {
	for n := 0; n <= 6; n++ {
		in, ok := Lookup(syscallName(n))
		assert.True(t, ok)
		assert.Equal(t, n+1, in.Arity, "%s should take the syscall number plus %d argument(s)", in.Name, n)
		assert.Equal(t, LowerAsm, in.Lowering)
	}
}

func syscallName(n int) string {
	return "syscall" + string(rune('0'+n))
}
