// Package diag implements the compiler's structured diagnostic sink,
// generalizing the teacher parser's plain []string Errors into a
// span-carrying, severity-ranked accumulator shared across lexer, parser,
// resolver, and type checker (spec.md §7).
package diag

import (
	"fmt"
	"sort"

	"github.com/zen-lang/zenc/internal/token"
)

// Severity ranks a diagnostic's importance.
type Severity int

const (
	Hint Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem with its source location.
type Diagnostic struct {
	File     int
	Span     token.Span
	Severity Severity
	Message  string
	Excerpt  string
	Fix      string
}

// Sink accumulates diagnostics across a compilation phase. Phases
// accumulate and continue (spec.md §7's propagation policy). The driver
// runs codegen only when sink.HasErrors() is false after checking; codegen
// reports its own failures as a returned error, not through the sink.
type Sink struct {
	FileNames []string
	diags     []Diagnostic
}

// NewSink creates an empty sink. fileNames indexes file IDs to display
// names for diagnostic printing.
func NewSink(fileNames []string) *Sink {
	return &Sink{FileNames: fileNames}
}

// Add appends a diagnostic.
func (s *Sink) Add(d Diagnostic) { s.diags = append(s.diags, d) }

// Addf appends a formatted diagnostic of severity sev at span.
func (s *Sink) Addf(sev Severity, span token.Span, format string, args ...interface{}) {
	s.Add(Diagnostic{File: span.File, Span: span, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// All returns every diagnostic recorded so far.
func (s *Sink) All() []Diagnostic { return s.diags }

// HasErrors reports whether any diagnostic at Error severity was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Sorted returns diagnostics grouped by file then sorted by span start, the
// order the CLI driver prints them in (spec.md §7's "grouped by file,
// sorted by span").
func (s *Sink) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

func (s *Sink) fileName(id int) string {
	if id >= 0 && id < len(s.FileNames) {
		return s.FileNames[id]
	}
	return fmt.Sprintf("<file#%d>", id)
}

// Format renders a diagnostic as "file:line:col: severity: message", the
// plain (non-colorized) form used by tests and non-TTY output.
func (s *Sink) Format(d Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", s.fileName(d.File), d.Span.Line, d.Span.Col, d.Severity, d.Message)
}
