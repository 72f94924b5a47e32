package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/diag"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func TestResolver_SingleFileNoImports(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.zen", `add = (a: i64, b: i64) i64 { a + b }`)

	sink := diag.NewSink(nil)
	r := New(filepath.Join(dir, "std"), sink)
	prog, err := r.Resolve(root)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors())
	assert.Len(t, prog.Modules, 1)
	_, ok := prog.Globals["add"]
	assert.True(t, ok)
}

func TestResolver_ThisImportMergesGlobals(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.zen", `double = (x: i64) i64 { x * 2 }`)
	root := writeFile(t, dir, "root.zen", `helper = @this.helper
quadruple = (x: i64) i64 { double(double(x)) }`)

	sink := diag.NewSink(nil)
	r := New(filepath.Join(dir, "std"), sink)
	prog, err := r.Resolve(root)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors(), "%v", sink.All())
	assert.Len(t, prog.Modules, 2)
	_, ok := prog.Globals["double"]
	assert.True(t, ok, "helper's declaration should be merged under its bare name")
	_, ok = prog.Globals["helper.double"]
	assert.True(t, ok, "helper's declaration should also be merged under its qualified name")
}

func TestResolver_StdImportResolvesUnderStdRoot(t *testing.T) {
	dir := t.TempDir()
	stdRoot := filepath.Join(dir, "std")
	writeFile(t, stdRoot, "io.zen", `println = (s: String) void { @builtin.unreachable() }`)
	root := writeFile(t, dir, "root.zen", `io = @std.io`)

	sink := diag.NewSink(nil)
	r := New(stdRoot, sink)
	prog, err := r.Resolve(root)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors(), "%v", sink.All())
	_, ok := prog.Globals["println"]
	assert.True(t, ok)
	_, ok = prog.Globals["io.println"]
	assert.True(t, ok)
}

func TestResolver_CycleDoesNotHang(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.zen", `b = @this.b
A: { v: i64 }`)
	writeFile(t, dir, "b.zen", `a = @this.a
B: { v: i64 }`)
	root := writeFile(t, dir, "root.zen", `a = @this.a`)

	sink := diag.NewSink(nil)
	r := New(filepath.Join(dir, "std"), sink)
	prog, err := r.Resolve(root)
	require.NoError(t, err)
	assert.False(t, sink.HasErrors(), "%v", sink.All())
	assert.Len(t, prog.Modules, 3, "root + a + b, each loaded exactly once despite the a<->b cycle")
	_, ok := prog.Globals["a.A"]
	assert.True(t, ok)
	_, ok = prog.Globals["b.B"]
	assert.True(t, ok, "b should still be reachable and merged even though it's only imported from within the cycle")
}

func TestResolver_MissingImportReportsError(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.zen", `missing = @this.missing`)

	sink := diag.NewSink(nil)
	r := New(filepath.Join(dir, "std"), sink)
	_, err := r.Resolve(root)
	require.NoError(t, err, "a missing nested import is reported as a diagnostic, not a hard Resolve error")
	assert.True(t, sink.HasErrors())
}

func TestDeclName(t *testing.T) {
	assert.Equal(t, "Foo", declName(&ast.FuncDecl{Name: "Foo"}))
	assert.Equal(t, "Bar", declName(&ast.StructDecl{Name: "Bar"}))
	assert.Equal(t, "", declName(&ast.BadDecl{}))
}
