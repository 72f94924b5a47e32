// Command zen is the Zen compiler driver: a spf13/cobra CLI wiring the
// resolver -> checker -> monomorphizer -> codegen pipeline (spec.md
// §4.7) to the subcommands SPEC_FULL.md §6.1 names, plus the REPL as
// the bare, no-args default.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zen-lang/zenc/internal/check"
	"github.com/zen-lang/zenc/internal/codegen"
	"github.com/zen-lang/zenc/internal/diag"
	"github.com/zen-lang/zenc/internal/mono"
	"github.com/zen-lang/zenc/internal/repl"
	"github.com/zen-lang/zenc/internal/resolver"
)

var redColor = color.New(color.FgRed)

// Exit codes per spec.md §6.1: 0 success, 1 diagnostics/compile errors,
// 2 misuse or internal compiler error.
const (
	exitOK       = 0
	exitDiag     = 1
	exitMisuseOr = 2
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			redColor.Fprintf(os.Stderr, "internal compiler error: %v\n", r)
			os.Exit(exitMisuseOr)
		}
	}()
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitMisuseOr)
	}
}

func newRootCmd() *cobra.Command {
	var emitIR, checkOnly bool

	cmd := &cobra.Command{
		Use:           "zen [file]",
		Short:         "The Zen compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				repl.New().Start(os.Stdout)
				return nil
			}
			if checkOnly {
				if _, _, _, err := compile(args[0]); err != nil {
					os.Exit(exitDiag)
				}
				return nil
			}
			return runCompiled(args[0], emitIR, false)
		},
	}
	cmd.Flags().BoolVar(&emitIR, "emit-ir", false, "print LLVM IR to stdout instead of running")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "parse and type-check only, without generating code")
	cmd.Flags().BoolVar(&checkOnly, "typecheck-only", false, "synonym of --check")

	cmd.AddCommand(newRunCmd(), newBuildCmd(), newCheckCmd(), newFmtCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	var emitIR bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and run a Zen source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompiled(args[0], emitIR, false)
		},
	}
	cmd.Flags().BoolVar(&emitIR, "emit-ir", false, "print LLVM IR to stdout instead of running")
	return cmd
}

func newBuildCmd() *cobra.Command {
	var emitIR bool
	var output string
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a Zen source file to LLVM IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildFile(args[0], output, emitIR)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: <file>.ll)")
	cmd.Flags().BoolVar(&emitIR, "emit-ir", false, "also print LLVM IR to stdout")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check <file>",
		Aliases: []string{"typecheck-only"},
		Short:   "Type-check a Zen source file without generating code",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, _, err := compile(args[0]); err != nil {
				os.Exit(exitDiag)
			}
			return nil
		},
	}
	return cmd
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file>",
		Short: "Format a Zen source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			redColor.Fprintln(os.Stderr, "zen fmt: formatting is not part of the compiler core")
			os.Exit(exitMisuseOr)
			return nil
		},
	}
}

// compile runs resolve -> check -> monomorphize, stopping (with
// diagnostics printed) before codegen if checking failed.
func compile(file string) (*check.Checker, *resolver.Program, []*mono.Instance, error) {
	sink := diag.NewSink([]string{file})

	res := resolver.New(stdRoot(), sink)
	prog, err := res.Resolve(file)
	if err != nil {
		redColor.Fprintf(os.Stderr, "resolving %s: %v\n", file, err)
		return nil, nil, nil, err
	}

	c := check.New(prog, sink)
	c.Run()

	m := mono.New(c.Env)
	m.Seed(prog)
	instances := m.Run()

	if sink.HasErrors() {
		printDiagnostics(sink)
		return c, prog, instances, fmt.Errorf("%s failed to type-check", file)
	}
	return c, prog, instances, nil
}

func runCompiled(file string, emitIR bool, _ bool) error {
	c, prog, instances, err := compile(file)
	if err != nil {
		os.Exit(exitDiag)
		return nil
	}

	g := codegen.New(c)
	if err := g.GenerateProgram(prog, instances); err != nil {
		redColor.Fprintf(os.Stderr, "codegen: %v\n", err)
		os.Exit(exitMisuseOr)
		return nil
	}

	if emitIR {
		fmt.Println(g.Module.String())
		return nil
	}

	redColor.Fprintln(os.Stderr, "zen run: no JIT execution backend on this target; use --emit-ir or `zen build`")
	os.Exit(exitMisuseOr)
	return nil
}

func buildFile(file, output string, emitIR bool) error {
	c, prog, instances, err := compile(file)
	if err != nil {
		os.Exit(exitDiag)
		return nil
	}

	g := codegen.New(c)
	if err := g.GenerateProgram(prog, instances); err != nil {
		redColor.Fprintf(os.Stderr, "codegen: %v\n", err)
		os.Exit(exitMisuseOr)
		return nil
	}

	ir := g.Module.String()
	if emitIR {
		fmt.Println(ir)
	}

	if output == "" {
		output = file + ".ll"
	}
	if err := os.WriteFile(output, []byte(ir), 0o644); err != nil {
		redColor.Fprintf(os.Stderr, "writing %s: %v\n", output, err)
		os.Exit(exitMisuseOr)
		return nil
	}
	return nil
}

func printDiagnostics(sink *diag.Sink) {
	for _, d := range sink.Sorted() {
		redColor.Fprintln(os.Stderr, sink.Format(d))
	}
}

// stdRoot locates the @std module tree relative to the zen binary's
// working directory, per spec.md §4.3's "<StdRoot>/x/y.zen" resolution.
func stdRoot() string {
	if root := os.Getenv("ZEN_STD_ROOT"); root != "" {
		return root
	}
	return "std"
}
