// Package resolver implements the module resolver (spec.md §4.3): it
// walks a root file's `@std.x.y` and `@this` imports, loads each
// referenced module from the filesystem, merges their top-level
// declarations into one global table, and detects import cycles.
//
// It performs the two-pass walk spec.md prescribes: pass 1 registers
// every module's declarations by name before any body is inspected, so
// that mutually-recursive type declarations across modules resolve;
// pass 2 is left to the type checker, which walks bodies against the
// now-complete global table.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/parser"
)

// Module is one parsed, loaded source file plus the names it imports.
type Module struct {
	Path     string // filesystem path, or a synthetic "@std.io"-shaped key
	FSPath   string // real filesystem path this module was read from, always
	Program  *ast.Program
	Imports  []*ast.Import
	FileID   int
	Injected map[string]string // local alias -> fully-qualified symbol name, from destructuring imports
}

// Resolver loads and merges modules reachable from a root file.
type Resolver struct {
	StdRoot string // filesystem root under which @std.x.y resolves to <StdRoot>/x/y.zen
	Sink    *diag.Sink

	FileNames []string
	modules   map[string]*Module
	order     []string
	visiting  map[string]bool
}

func New(stdRoot string, sink *diag.Sink) *Resolver {
	return &Resolver{
		StdRoot:  stdRoot,
		Sink:     sink,
		modules:  make(map[string]*Module),
		visiting: make(map[string]bool),
	}
}

// Program is the fully merged result: every loaded module's declarations
// plus a symbol table resolving import aliases to qualified names.
type Program struct {
	Modules []*Module
	// Globals maps a declaration's fully-qualified name ("path.Name" for
	// std/this modules, bare "Name" for the root) to its Decl and the
	// module it came from.
	Globals map[string]*ast.Decl
}

// Resolve loads rootFile and every module it transitively imports.
func (r *Resolver) Resolve(rootFile string) (*Program, error) {
	root, err := r.load(rootFile, rootFile)
	if err != nil {
		return nil, err
	}
	for _, imp := range collectAllImports(r.modules) {
		r.resolveImport(imp)
	}

	prog := &Program{Globals: make(map[string]*ast.Decl)}
	for _, key := range r.order {
		m := r.modules[key]
		prog.Modules = append(prog.Modules, m)
		qualify(m, prog.Globals)
	}
	_ = root
	return prog, nil
}

// load reads and parses one file, registering it under key (the root
// file's own path, or a synthesized @std/@this module key).
func (r *Resolver) load(key, fsPath string) (*Module, error) {
	if m, ok := r.modules[key]; ok {
		return m, nil
	}
	if r.visiting[key] {
		// Cycles among modules are permitted for type declarations
		// (spec.md §4.3); the checker catches value-initializer cycles
		// later. The resolver itself just stops re-entering.
		return nil, nil
	}
	r.visiting[key] = true
	defer delete(r.visiting, key)

	src, err := os.ReadFile(fsPath)
	if err != nil {
		return nil, err
	}
	fileID := len(r.FileNames)
	r.FileNames = append(r.FileNames, fsPath)

	p := parser.New(string(src), fileID, r.Sink)
	prog := p.ParseProgram()

	m := &Module{Path: key, FSPath: fsPath, Program: prog, Imports: prog.Imports, FileID: fileID, Injected: map[string]string{}}
	r.modules[key] = m
	r.order = append(r.order, key)
	return m, nil
}

func collectAllImports(modules map[string]*Module) []importJob {
	var jobs []importJob
	for _, m := range modules {
		for _, imp := range m.Imports {
			jobs = append(jobs, importJob{from: m, imp: imp})
		}
	}
	return jobs
}

type importJob struct {
	from *Module
	imp  *ast.Import
}

// resolveImport loads the module an `@std.x.y` or `@this.x.y` import
// refers to and records the alias/destructure names it injects into the
// importing module's scope.
func (r *Resolver) resolveImport(job importJob) {
	imp := job.imp
	var fsPath, key string
	switch imp.Root {
	case "std":
		key = "@std." + strings.Join(imp.Path, ".")
		fsPath = filepath.Join(r.StdRoot, filepath.Join(imp.Path...)+".zen")
	case "this":
		key = "@this." + strings.Join(imp.Path, ".")
		dir := filepath.Dir(job.from.FSPath)
		fsPath = filepath.Join(append([]string{dir}, imp.Path...)...) + ".zen"
	}

	_, seen := r.modules[key]
	m, err := r.load(key, fsPath)
	if err != nil {
		r.Sink.Addf(diag.Error, imp.SpanVal, "cannot resolve import %s.%s: %v", imp.Root, strings.Join(imp.Path, "."), err)
		return
	}
	if m == nil {
		return // cycle; already being loaded
	}

	qual := strings.Join(imp.Path, ".")
	if len(imp.Destructure) > 0 {
		for _, name := range imp.Destructure {
			job.from.Injected[name] = qual + "." + name
		}
	} else if imp.Alias != "" {
		job.from.Injected[imp.Alias] = qual
	}
	if seen {
		return // its imports were walked when it was first loaded
	}

	// Newly loaded modules may themselves import further modules; walk
	// those too (pass 1 keeps registering names breadth-first).
	for _, nested := range m.Imports {
		r.resolveImport(importJob{from: m, imp: nested})
	}
}

// qualify registers every top-level declaration of m under its
// fully-qualified name into globals.
func qualify(m *Module, globals map[string]*ast.Decl) {
	prefix := ""
	if strings.HasPrefix(m.Path, "@") {
		prefix = strings.TrimPrefix(m.Path, "@std.")
		prefix = strings.TrimPrefix(prefix, "@this.")
		prefix += "."
	}
	for _, d := range m.Program.Decls {
		name := declName(d)
		if name == "" {
			continue
		}
		full := prefix + name
		decl := d
		globals[full] = &decl
		if prefix != "" {
			// Also register the bare name so a destructuring import's
			// injected alias (which maps to "path.Name") and a direct
			// same-module reference both find the same entry.
			if _, exists := globals[name]; !exists {
				globals[name] = &decl
			}
		}
	}
}

func declName(d ast.Decl) string {
	switch v := d.(type) {
	case *ast.FuncDecl:
		return v.Name
	case *ast.StructDecl:
		return v.Name
	case *ast.EnumDecl:
		return v.Name
	case *ast.BehaviorDecl:
		return v.Name
	case *ast.TypeAliasDecl:
		return v.Name
	case *ast.BindingDecl:
		return v.Name
	}
	return ""
}
