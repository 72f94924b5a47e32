// Package intrinsics defines the closed set of `@builtin.*` primitives
// that make up the entire interface between the compiler core and Zen's
// stdlib (spec.md §4.6). Each intrinsic has a fixed signature; codegen
// looks one up by name and lowers it directly to LLVM instructions or
// calls — there is no user-definable intrinsic and no way to add one
// without changing this table.
//
// The shape mirrors the teacher's std package: a flat registry of named
// callbacks (std.Builtins []*std.Builtin), generalized here from runtime
// callbacks to static signatures since intrinsics are lowered at compile
// time, not interpreted.
package intrinsics

// Group names one of the categories spec.md §4.6 lists.
type Group string

const (
	RawMemory         Group = "raw_memory"
	MemoryOps         Group = "memory_ops"
	PointerMath       Group = "pointer_math"
	TypeIntrospection Group = "type_introspection"
	EnumLayout        Group = "enum_layout"
	Atomics           Group = "atomics"
	Syscalls          Group = "syscalls"
)

// Lowering names how codegen realizes the intrinsic, so the codegen
// package can switch on it instead of re-deriving the mapping from the
// name string.
type Lowering string

const (
	LowerCall      Lowering = "call"       // external-linkage call (malloc/free/realloc)
	LowerLLVMIntr  Lowering = "llvm_intr"  // LLVM intrinsic (memcpy/memset)
	LowerGEP       Lowering = "gep"        // getelementptr
	LowerBitcast   Lowering = "bitcast"
	LowerNull      Lowering = "null"
	LowerConst     Lowering = "const"      // compile-time constant (sizeof/alignof)
	LowerStructGEP Lowering = "struct_gep" // discriminant/payload field access
	LowerAtomic    Lowering = "atomic"
	LowerAsm       Lowering = "asm"
)

// Intrinsic describes one `@builtin.*` primitive's fixed arity and how
// codegen lowers it. Arity is -1 for variadic intrinsics (syscallN family
// is instead modeled as seven fixed-arity entries, one per N, to keep each
// entry's signature concrete).
type Intrinsic struct {
	Name     string
	Group    Group
	Arity    int
	Generic  bool // takes an explicit <T> type argument (sizeof<T>, alignof<T>)
	Lowering Lowering
}

// Table is the closed, ordered set of intrinsics. Order matches spec.md
// §4.6's table.
var Table = []*Intrinsic{
	{Name: "raw_allocate", Group: RawMemory, Arity: 1, Lowering: LowerCall},
	{Name: "raw_deallocate", Group: RawMemory, Arity: 2, Lowering: LowerCall},
	{Name: "raw_reallocate", Group: RawMemory, Arity: 3, Lowering: LowerCall},

	{Name: "memcpy", Group: MemoryOps, Arity: 3, Lowering: LowerLLVMIntr},
	{Name: "memset", Group: MemoryOps, Arity: 3, Lowering: LowerLLVMIntr},

	{Name: "gep", Group: PointerMath, Arity: 2, Lowering: LowerGEP},
	{Name: "gep_struct", Group: PointerMath, Arity: 2, Lowering: LowerGEP},
	{Name: "raw_ptr_cast", Group: PointerMath, Arity: 1, Lowering: LowerBitcast},
	{Name: "raw_ptr_offset", Group: PointerMath, Arity: 2, Lowering: LowerGEP},
	{Name: "null_ptr", Group: PointerMath, Arity: 0, Lowering: LowerNull},

	{Name: "sizeof", Group: TypeIntrospection, Arity: 0, Generic: true, Lowering: LowerConst},
	{Name: "alignof", Group: TypeIntrospection, Arity: 0, Generic: true, Lowering: LowerConst},

	{Name: "discriminant", Group: EnumLayout, Arity: 1, Lowering: LowerStructGEP},
	{Name: "set_discriminant", Group: EnumLayout, Arity: 2, Lowering: LowerStructGEP},
	{Name: "get_payload", Group: EnumLayout, Arity: 1, Lowering: LowerStructGEP},
	{Name: "set_payload", Group: EnumLayout, Arity: 2, Lowering: LowerStructGEP},

	{Name: "atomic_load", Group: Atomics, Arity: 1, Lowering: LowerAtomic},
	{Name: "atomic_store", Group: Atomics, Arity: 2, Lowering: LowerAtomic},
	{Name: "atomic_cas", Group: Atomics, Arity: 3, Lowering: LowerAtomic},

	{Name: "syscall0", Group: Syscalls, Arity: 1, Lowering: LowerAsm},
	{Name: "syscall1", Group: Syscalls, Arity: 2, Lowering: LowerAsm},
	{Name: "syscall2", Group: Syscalls, Arity: 3, Lowering: LowerAsm},
	{Name: "syscall3", Group: Syscalls, Arity: 4, Lowering: LowerAsm},
	{Name: "syscall4", Group: Syscalls, Arity: 5, Lowering: LowerAsm},
	{Name: "syscall5", Group: Syscalls, Arity: 6, Lowering: LowerAsm},
	{Name: "syscall6", Group: Syscalls, Arity: 7, Lowering: LowerAsm},
}

var byName map[string]*Intrinsic

func init() {
	byName = make(map[string]*Intrinsic, len(Table))
	for _, in := range Table {
		byName[in.Name] = in
	}
}

// Lookup finds an intrinsic by its name after the `@builtin.` prefix.
func Lookup(name string) (*Intrinsic, bool) {
	in, ok := byName[name]
	return in, ok
}
