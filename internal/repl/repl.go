// Package repl implements Zen's interactive Read-Eval-Print Loop.
//
// Per spec.md's own framing ("zen with no arguments — REPL, out of scope
// of core"), the REPL does not drive the full pipeline through codegen:
// it parses one line as a single expression, type-checks it against an
// (initially empty) global scope, and reports the synthesized type. This
// mirrors the teacher's repl.go shape (Repl struct, NewRepl,
// PrintBannerInfo, Start, executeWithRecovery) built on
// github.com/chzyer/readline and github.com/fatih/color, adapted from
// "parse a statement and evaluate it" to "parse an expression and
// type-check it."
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/zen-lang/zenc/internal/ast"
	"github.com/zen-lang/zenc/internal/check"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/parser"
	"github.com/zen-lang/zenc/internal/resolver"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const banner = `
 ______
|___  /
   / / ___ _ __
  / / / _ \ '_ \
 / /_|  __/ | | |
/_____\___|_| |_|
`

// Repl is an interactive single-expression-evaluation session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// New creates a Repl with Zen's own banner/version/prompt.
func New() *Repl {
	return &Repl{
		Banner:  banner,
		Version: "0.1.0",
		Author:  "zen-lang",
		Line:    strings.Repeat("-", 60),
		License: "MIT",
		Prompt:  "zen>> ",
	}
}

// PrintBannerInfo prints the startup banner and usage hints.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Zen REPL: single-expression evaluation only.")
	cyanColor.Fprintf(writer, "%s\n", "Type an expression and press enter to see its type.")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit.")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the main read-eval-print loop until EOF, an error, or
// '.exit'.
func (r *Repl) Start(writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	prog := &resolver.Program{Globals: make(map[string]*ast.Decl)}

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good bye!\n"))
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good bye!\n"))
			break
		}

		rl.SaveHistory(line)
		r.evalLine(writer, line, prog)
	}
}

// evalLine parses and type-checks one line, printing the inferred type
// or the diagnostics that stopped it, with panic recovery so a compiler
// bug surfaces as a message rather than killing the session (matching
// the teacher's executeWithRecovery guard).
func (r *Repl) evalLine(writer io.Writer, line string, prog *resolver.Program) {
	defer func() {
		if rec := recover(); rec != nil {
			redColor.Fprintf(writer, "[internal error] %v\n", rec)
		}
	}()

	sink := diag.NewSink([]string{"<repl>"})
	p := parser.New(line, 0, sink)
	expr := p.ParseExpr()

	if sink.HasErrors() {
		for _, d := range sink.Sorted() {
			redColor.Fprintf(writer, "%s\n", sink.Format(d))
		}
		return
	}
	if !p.AtEOF() {
		redColor.Fprintf(writer, "unexpected trailing input after expression\n")
		return
	}

	c := check.New(prog, sink)
	t := c.SynthExprType(expr)

	if sink.HasErrors() {
		for _, d := range sink.Sorted() {
			redColor.Fprintf(writer, "%s\n", sink.Format(d))
		}
		return
	}

	yellowColor.Fprintf(writer, ":: %s\n", t.String())
}
