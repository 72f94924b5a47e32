// Package ast defines Zen's immutable tagged-tree AST (spec.md §3.2).
//
// Unlike the teacher's NodeVisitor double-dispatch tree, consumers here
// type-switch over the closed Decl/Stmt/Expr/TypeExpr/Pattern interfaces
// directly (see SPEC_FULL.md §3 for the rationale): the checker,
// monomorphizer, and codegen each need to return something different from
// a traversal (a type, an error, an LLVM value), which doesn't fit the
// teacher's void-returning Visit* methods.
package ast

import "github.com/zen-lang/zenc/internal/token"

// Node is implemented by every AST node so every node carries its span.
type Node interface {
	Span() token.Span
}

// ---- Program ----

// Program is the merged, parsed-but-not-yet-resolved unit for one file.
type Program struct {
	FileID  int
	Imports []*Import
	Decls   []Decl
}

func (p *Program) Span() token.Span {
	if len(p.Decls) == 0 {
		return token.Span{File: p.FileID}
	}
	return p.Decls[0].Span()
}

// Import is an `@std.a.b` or `{ a, b } = @std` / `@this.x` import form.
type Import struct {
	SpanVal token.Span
	Root    string   // "std" or "this"
	Path    []string // qualified path segments after the root
	// Destructure lists explicit names pulled into scope for the
	// `{ a, b } = @std` sugar form; empty for a plain qualified import.
	Destructure []string
	Alias       string // non-empty when the import binds a single local name
}

func (i *Import) Span() token.Span { return i.SpanVal }

// ---- Declarations ----

type Decl interface {
	Node
	declNode()
}

type FuncDecl struct {
	SpanVal    token.Span
	Name       string
	TypeParams []TypeParam
	Params     []Param
	Return     TypeExpr
	Body       *BlockExpr
	IsExternal bool // `external` declaration: no body, linked in from C ABI
	Varargs    bool
}

func (d *FuncDecl) Span() token.Span { return d.SpanVal }
func (*FuncDecl) declNode()          {}

type TypeParam struct {
	Name        string
	Constraints []string // behavior names required of this parameter
}

type Param struct {
	Name string
	Type TypeExpr
}

type StructDecl struct {
	SpanVal    token.Span
	Name       string
	TypeParams []TypeParam
	Fields     []Field
}

func (d *StructDecl) Span() token.Span { return d.SpanVal }
func (*StructDecl) declNode()          {}

type Field struct {
	Name string
	Type TypeExpr
}

type EnumDecl struct {
	SpanVal    token.Span
	Name       string
	TypeParams []TypeParam
	Variants   []Variant
}

func (d *EnumDecl) Span() token.Span { return d.SpanVal }
func (*EnumDecl) declNode()          {}

type Variant struct {
	Name       string
	Payload    TypeExpr // nil when the variant carries no payload
	Discrimant int
}

type BehaviorDecl struct {
	SpanVal    token.Span
	Name       string
	TypeParams []TypeParam
	Methods    []MethodSig
}

func (d *BehaviorDecl) Span() token.Span { return d.SpanVal }
func (*BehaviorDecl) declNode()          {}

type MethodSig struct {
	Name   string
	Params []Param
	Return TypeExpr
}

type BehaviorImplDecl struct {
	SpanVal  token.Span
	Type     TypeExpr // the `Self` being given an implementation
	Behavior string
	Methods  []*FuncDecl
}

func (d *BehaviorImplDecl) Span() token.Span { return d.SpanVal }
func (*BehaviorImplDecl) declNode()          {}

type TypeAliasDecl struct {
	SpanVal token.Span
	Name    string
	Target  TypeExpr
}

func (d *TypeAliasDecl) Span() token.Span { return d.SpanVal }
func (*TypeAliasDecl) declNode()          {}

// BindingDecl is a top-level binding: `name = expr`, `name ::= expr`,
// `name : T`, `name : T = expr`, `name :: T`.
type BindingDecl struct {
	SpanVal token.Span
	Name    string
	Mutable bool
	Type    TypeExpr // nil when untyped
	Value   Expr     // nil for a forward declaration
}

func (d *BindingDecl) Span() token.Span { return d.SpanVal }
func (*BindingDecl) declNode()          {}

// ComptimeDecl is a module-level `comptime { ... }` or `comptime @path`
// block. Per SPEC_FULL.md §9, the checker rejects these with a clear
// diagnostic rather than evaluating them: comptime evaluation scope is an
// open question this revision does not resolve.
type ComptimeDecl struct {
	SpanVal token.Span
	Body    *BlockExpr // nil when this is a `comptime @path` module reference
	Path    []string
}

func (d *ComptimeDecl) Span() token.Span { return d.SpanVal }
func (*ComptimeDecl) declNode()          {}

// BadDecl is a parser error-recovery placeholder (spec.md §4.2).
type BadDecl struct {
	SpanVal token.Span
}

func (d *BadDecl) Span() token.Span { return d.SpanVal }
func (*BadDecl) declNode()          {}

// ---- Statements ----

type Stmt interface {
	Node
	stmtNode()
}

// BindingStmt is a local binding statement, same forms as BindingDecl.
type BindingStmt struct {
	SpanVal token.Span
	Name    string
	Mutable bool
	Type    TypeExpr
	Value   Expr
}

func (s *BindingStmt) Span() token.Span { return s.SpanVal }
func (*BindingStmt) stmtNode()          {}

// AssignStmt re-assigns an already-bound mutable name (spec.md §4.2:
// "Re-assignment is an assignment statement, not a binding").
type AssignStmt struct {
	SpanVal token.Span
	Target  Expr // identifier, path, index, or field expression
	Op      token.Kind
	Value   Expr
}

func (s *AssignStmt) Span() token.Span { return s.SpanVal }
func (*AssignStmt) stmtNode()          {}

type ExprStmt struct {
	SpanVal token.Span
	X       Expr
}

func (s *ExprStmt) Span() token.Span { return s.SpanVal }
func (*ExprStmt) stmtNode()          {}

type ReturnStmt struct {
	SpanVal token.Span
	Value   Expr // nil for bare `return`
}

func (s *ReturnStmt) Span() token.Span { return s.SpanVal }
func (*ReturnStmt) stmtNode()          {}

type BreakStmt struct {
	SpanVal token.Span
	Value   Expr // nil for bare `break`
}

func (s *BreakStmt) Span() token.Span { return s.SpanVal }
func (*BreakStmt) stmtNode()          {}

type ContinueStmt struct {
	SpanVal token.Span
}

func (s *ContinueStmt) Span() token.Span { return s.SpanVal }
func (*ContinueStmt) stmtNode()          {}

// DeferStmt registers `@this.defer(expr)` (spec.md §4.3, §4.7.2).
type DeferStmt struct {
	SpanVal token.Span
	Call    Expr
}

func (s *DeferStmt) Span() token.Span { return s.SpanVal }
func (*DeferStmt) stmtNode()          {}

type BadStmt struct {
	SpanVal token.Span
}

func (s *BadStmt) Span() token.Span { return s.SpanVal }
func (*BadStmt) stmtNode()          {}

// ---- Expressions ----

type Expr interface {
	Node
	exprNode()
}

type IntLit struct {
	SpanVal token.Span
	Text    string // raw lexeme, base/underscore/suffix intact
	Suffix  string // e.g. "i64"; empty if unsuffixed
}

func (e *IntLit) Span() token.Span { return e.SpanVal }
func (*IntLit) exprNode()          {}

type FloatLit struct {
	SpanVal token.Span
	Text    string
	Suffix  string
}

func (e *FloatLit) Span() token.Span { return e.SpanVal }
func (*FloatLit) exprNode()          {}

type BoolLit struct {
	SpanVal token.Span
	Value   bool
}

func (e *BoolLit) Span() token.Span { return e.SpanVal }
func (*BoolLit) exprNode()          {}

type ByteLit struct {
	SpanVal token.Span
	Value   byte
}

func (e *ByteLit) Span() token.Span { return e.SpanVal }
func (*ByteLit) exprNode()          {}

// StringLit is a (possibly interpolated) string literal, stored as a
// sequence of literal-byte and sub-expression pieces per spec.md §3.2.
type StringLit struct {
	SpanVal token.Span
	Pieces  []StringPiece
}

func (e *StringLit) Span() token.Span { return e.SpanVal }
func (*StringLit) exprNode()          {}

type StringPiece struct {
	Literal string
	Expr    Expr // nil when this piece is a plain literal run
}

type Ident struct {
	SpanVal token.Span
	Name    string

	// BindingID is assigned during name resolution: a unique intra-function
	// id for this binding occurrence (spec.md §3.2 invariant).
	BindingID int
}

func (e *Ident) Span() token.Span { return e.SpanVal }
func (*Ident) exprNode()          {}

// PathExpr is a qualified name `a.b.c`. The resolver leaves it as is;
// the checker and code generator decide whether it is a field access or
// a module-qualified name.
type PathExpr struct {
	SpanVal token.Span
	Segs    []string
}

func (e *PathExpr) Span() token.Span { return e.SpanVal }
func (*PathExpr) exprNode()          {}

type CallExpr struct {
	SpanVal token.Span
	Callee  Expr
	Args    []Expr
	// TypeArgs holds an explicit turbofish-style type-argument list, e.g.
	// the <i32> in `DynVec<i32>(allocator)` (spec.md §4.7.6's well-known
	// generic construction). Nil for an ordinary function call.
	TypeArgs []TypeExpr
}

func (e *CallExpr) Span() token.Span { return e.SpanVal }
func (*CallExpr) exprNode()          {}

// MethodCallExpr is `recv.name(args)`. It stays in the tree after
// resolution; the checker (synthMethodCall) and code generator
// (genMethodCall) treat it as the call `name(recv, args...)`.
type MethodCallExpr struct {
	SpanVal token.Span
	Recv    Expr
	Name    string
	Args    []Expr
}

func (e *MethodCallExpr) Span() token.Span { return e.SpanVal }
func (*MethodCallExpr) exprNode()          {}

type BinaryExpr struct {
	SpanVal token.Span
	Op      token.Kind
	Left    Expr
	Right   Expr
}

func (e *BinaryExpr) Span() token.Span { return e.SpanVal }
func (*BinaryExpr) exprNode()          {}

type UnaryExpr struct {
	SpanVal token.Span
	Op      token.Kind
	X       Expr
}

func (e *UnaryExpr) Span() token.Span { return e.SpanVal }
func (*UnaryExpr) exprNode()          {}

// MatchExpr is the `expr ?` operator (spec.md §4.2, §4.7.3): the sole
// control-flow construct in the language.
type MatchExpr struct {
	SpanVal   token.Span
	Scrutinee Expr
	Arms      []MatchArm
	// ShortForm records that this was written as the "true-shaped" short
	// form `cond ? { body }` with no explicit pattern arms, which the
	// checker lowers to a boolean/Some/Ok match (spec.md §4.2).
	ShortForm bool
	ShortBody *BlockExpr
}

func (e *MatchExpr) Span() token.Span { return e.SpanVal }
func (*MatchExpr) exprNode()          {}

type MatchArm struct {
	SpanVal token.Span
	Pattern Pattern
	Body    Expr // a BlockExpr (`{ ... }`) or a bare expr (`=> expr` form)
}

type BlockExpr struct {
	SpanVal token.Span
	Stmts   []Stmt
	// Value is the trailing expression-statement's value, if the block is
	// used in expression position (last ExprStmt with no trailing semicolon
	// equivalent). nil for a void block.
	Value Expr
}

func (e *BlockExpr) Span() token.Span { return e.SpanVal }
func (*BlockExpr) exprNode()          {}

type RangeExpr struct {
	SpanVal   token.Span
	Low, High Expr
	Inclusive bool
	Step      Expr // nil unless `.step(n)` was chained
}

func (e *RangeExpr) Span() token.Span { return e.SpanVal }
func (*RangeExpr) exprNode()          {}

type StructLitExpr struct {
	SpanVal token.Span
	Type    TypeExpr
	Fields  []StructLitField
}

func (e *StructLitExpr) Span() token.Span { return e.SpanVal }
func (*StructLitExpr) exprNode()          {}

type StructLitField struct {
	Name  string
	Value Expr
}

// EnumCtorExpr constructs an enum variant, e.g. `Some(42)` or `.Red`.
type EnumCtorExpr struct {
	SpanVal   token.Span
	EnumName  string // empty for the shorthand `.Variant` form
	Variant   string
	Payload   Expr // nil for a payload-less variant
}

func (e *EnumCtorExpr) Span() token.Span { return e.SpanVal }
func (*EnumCtorExpr) exprNode()          {}

type ArrayLitExpr struct {
	SpanVal  token.Span
	Elements []Expr
}

func (e *ArrayLitExpr) Span() token.Span { return e.SpanVal }
func (*ArrayLitExpr) exprNode()          {}

type ClosureExpr struct {
	SpanVal token.Span
	Params  []Param
	Return  TypeExpr
	Body    *BlockExpr
}

func (e *ClosureExpr) Span() token.Span { return e.SpanVal }
func (*ClosureExpr) exprNode()          {}

type CastExpr struct {
	SpanVal token.Span
	X       Expr
	Type    TypeExpr
}

func (e *CastExpr) Span() token.Span { return e.SpanVal }
func (*CastExpr) exprNode()          {}

type AddrOfExpr struct {
	SpanVal token.Span
	X       Expr
	Mutable bool
}

func (e *AddrOfExpr) Span() token.Span { return e.SpanVal }
func (*AddrOfExpr) exprNode()          {}

type DerefExpr struct {
	SpanVal token.Span
	X       Expr
}

func (e *DerefExpr) Span() token.Span { return e.SpanVal }
func (*DerefExpr) exprNode()          {}

// IndexExpr is `x[i]`, shared by array indexing and (post-resolution)
// well-known-type subscript sugar.
type IndexExpr struct {
	SpanVal token.Span
	X       Expr
	Index   Expr
}

func (e *IndexExpr) Span() token.Span { return e.SpanVal }
func (*IndexExpr) exprNode()          {}

type BadExpr struct {
	SpanVal token.Span
}

func (e *BadExpr) Span() token.Span { return e.SpanVal }
func (*BadExpr) exprNode()          {}

// ---- Type expressions ----

type TypeExpr interface {
	Node
	typeNode()
}

type PrimitiveType struct {
	SpanVal token.Span
	Name    string // "i32", "bool", "void", ...
}

func (t *PrimitiveType) Span() token.Span { return t.SpanVal }
func (*PrimitiveType) typeNode()          {}

type NamedType struct {
	SpanVal token.Span
	Name    string
}

func (t *NamedType) Span() token.Span { return t.SpanVal }
func (*NamedType) typeNode()          {}

type ParameterizedType struct {
	SpanVal token.Span
	Name    string
	Args    []TypeExpr
}

func (t *ParameterizedType) Span() token.Span { return t.SpanVal }
func (*ParameterizedType) typeNode()          {}

// PointerKind distinguishes the three nominal pointer families of spec.md §3.3.
type PointerKind int

const (
	PtrShared PointerKind = iota
	PtrMut
	PtrRaw
)

type PointerType struct {
	SpanVal token.Span
	Kind    PointerKind
	Elem    TypeExpr
}

func (t *PointerType) Span() token.Span { return t.SpanVal }
func (*PointerType) typeNode()          {}

type ArrayType struct {
	SpanVal token.Span
	Elem    TypeExpr
	Size    int
}

func (t *ArrayType) Span() token.Span { return t.SpanVal }
func (*ArrayType) typeNode()          {}

type UnitType struct {
	SpanVal token.Span
}

func (t *UnitType) Span() token.Span { return t.SpanVal }
func (*UnitType) typeNode()          {}

type FuncType struct {
	SpanVal token.Span
	Params  []TypeExpr
	Return  TypeExpr
	Varargs bool
}

func (t *FuncType) Span() token.Span { return t.SpanVal }
func (*FuncType) typeNode()          {}

// ---- Patterns ----

type Pattern interface {
	Node
	patternNode()
}

type LiteralPattern struct {
	SpanVal token.Span
	Value   Expr // IntLit, FloatLit, StringLit, BoolLit, or a negated IntLit/FloatLit
}

func (p *LiteralPattern) Span() token.Span { return p.SpanVal }
func (*LiteralPattern) patternNode()       {}

type IdentPattern struct {
	SpanVal   token.Span
	Name      string
	BindingID int
}

func (p *IdentPattern) Span() token.Span { return p.SpanVal }
func (*IdentPattern) patternNode()       {}

type WildcardPattern struct {
	SpanVal token.Span
}

func (p *WildcardPattern) Span() token.Span { return p.SpanVal }
func (*WildcardPattern) patternNode()       {}

// VariantPattern matches `.Variant(binding)` or `Enum.Variant(binding)`,
// including the well-known aliases Some/None/Ok/Err (spec.md §4.4.3).
// Binding is itself a Pattern (not a bare name) so a payload that is
// itself a variant constructor nests arbitrarily, e.g. `Ok(Some(n))`.
type VariantPattern struct {
	SpanVal   token.Span
	EnumName  string // empty for the qualifier-free shorthand
	Variant   string
	Binding   Pattern // nil when the variant carries no bound payload
	BindingID int
}

func (p *VariantPattern) Span() token.Span { return p.SpanVal }
func (*VariantPattern) patternNode()       {}

type RangePattern struct {
	SpanVal   token.Span
	Low, High Expr
	Inclusive bool
}

func (p *RangePattern) Span() token.Span { return p.SpanVal }
func (*RangePattern) patternNode()       {}

type StructPattern struct {
	SpanVal token.Span
	Type    string
	Fields  []StructPatternField
}

func (p *StructPattern) Span() token.Span { return p.SpanVal }
func (*StructPattern) patternNode()       {}

type StructPatternField struct {
	Name    string
	Pattern Pattern
}
