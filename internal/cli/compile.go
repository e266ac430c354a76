package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/compile"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/importer/dotfile"
	"github.com/roach88/drlc/internal/importer/modcache"
)

// CompileOptions holds flags for the compile command, the compile-time
// analogue of the teacher's CompileOptions embedding RootOptions.
type CompileOptions struct {
	*RootOptions
	Output       string   // -o: directory for the generated Go package
	Amalgamation string   // -amalgamation: path to print the resolved module as Datalog
	Dot          string   // -dot: path to write the data-flow DOT dump
	ModulePaths  []string // -M: module search roots
	SystemPaths  []string // -isystem: system search roots
	IncludePaths []string // -I: local search roots
	Cache        string   // path to a modcache database; empty disables caching
	Package      string   // generated package name
}

// NewCompileCommand builds the compile subcommand: spec.md §6's external
// interface in full — mandatory -o, optional -amalgamation/-dot, and the
// three search-path flags -M/-isystem/-I.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <root.dl>",
		Short: "Compile a Datalog module to a generated Go database",
		Long: `Compile resolves root.dl's transitive #import closure, checks its
semantics, schedules a control-flow program, and writes the generated
database package to -o's directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	// pflag's shorthand mechanism only supports single-rune short flags, so
	// -o/-M/-I get both a shorthand and a long form while -isystem (a
	// multi-character single-dash flag in spec.md's C-compiler-derived
	// flag spelling) is only reachable as pflag's conventional --isystem;
	// see DESIGN.md for this resolved mapping.
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory for the generated package (required)")
	cmd.Flags().StringVar(&opts.Amalgamation, "amalgamation", "", "optional path to write the resolved module as Datalog source")
	cmd.Flags().StringVar(&opts.Dot, "dot", "", "optional path to write a DOT dump of the data-flow graphs")
	cmd.Flags().StringArrayVarP(&opts.ModulePaths, "module-path", "M", nil, "module search root (repeatable)")
	cmd.Flags().StringArrayVar(&opts.SystemPaths, "isystem", nil, "system search root (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.IncludePaths, "include", "I", nil, "local search root (repeatable)")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to a module-resolution cache database")
	cmd.Flags().StringVar(&opts.Package, "package", "generated", "generated Go package name")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runCompile(opts *CompileOptions, rootPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// A project dotfile supplies default search paths so -I/-isystem don't
	// have to be repeated on every invocation; CLI flags always take
	// precedence when both are set. Only its SearchPaths and SystemPaths
	// are applied here; its Output, Amalgamation and EmitDot fields are not
	// read, and -o is still required.
	cfg, err := dotfile.Load(filepath.Dir(rootPath))
	if err != nil {
		return outputCommandError(formatter, fmt.Sprintf("loading project config: %v", err))
	}
	searchPaths := mergeDefaulted(opts.IncludePaths, cfg.SearchPaths)
	searchPaths = mergeDefaulted(opts.ModulePaths, searchPaths)
	systemPaths := mergeDefaulted(opts.SystemPaths, cfg.SystemPaths)

	var cache *modcache.Cache
	if opts.Cache != "" {
		cache, err = modcache.Open(opts.Cache)
		if err != nil {
			return outputCommandError(formatter, fmt.Sprintf("opening module cache: %v", err))
		}
		defer cache.Close()
	}

	formatter.VerboseLog("compiling %s", rootPath)

	compileOpts := compile.Options{
		SearchPaths: searchPaths,
		SystemPaths: systemPaths,
		Cache:       cache,
		Package:     opts.Package,
		DotPath:     opts.Dot,
	}
	result, err := compile.Compile(rootPath, compileOpts)
	if err != nil {
		return outputCommandError(formatter, fmt.Sprintf("%s: %v", rootPath, err))
	}

	if result.Diagnostics.HasErrors() {
		return outputDiagnostics(formatter, result.Diagnostics)
	}

	if opts.Amalgamation != "" {
		printed := ast.Print(result.Module, ast.PrintOptions{KeepImports: false})
		if err := writeTextFile(opts.Amalgamation, printed); err != nil {
			return outputCommandError(formatter, fmt.Sprintf("writing amalgamation: %v", err))
		}
	}

	if err := compile.Generate(context.Background(), opts.Output, result, compileOpts); err != nil {
		return outputCommandError(formatter, fmt.Sprintf("generating package: %v", err))
	}

	return formatter.Success(Response{
		Tables:     len(result.Program.Tables),
		Procedures: len(result.Program.Procedures),
		Output:     opts.Output,
	})
}

// mergeDefaulted prepends flag-supplied paths (which take precedence for
// search order) ahead of the dotfile's defaults.
func mergeDefaulted(flagPaths, defaultPaths []string) []string {
	if len(flagPaths) == 0 {
		return defaultPaths
	}
	return append(append([]string{}, flagPaths...), defaultPaths...)
}

func outputDiagnostics(formatter *OutputFormatter, log *diag.Log) error {
	errs := log.Errors()
	diags := make([]Diagnostic, len(errs))
	for i, e := range errs {
		pos := ""
		if e.Pos.IsValid() {
			pos = e.Pos.String()
		}
		diags[i] = Diagnostic{Code: string(e.Code), Message: e.Message, Position: pos}
	}
	_ = formatter.Failure(diags)
	return NewExitError(ExitCompileError, fmt.Sprintf("compilation failed with %d diagnostic(s)", len(errs)))
}

func outputCommandError(formatter *OutputFormatter, message string) error {
	_ = formatter.Failure([]Diagnostic{{Code: "E000", Message: message}})
	return NewExitError(ExitCommandError, message)
}

func writeTextFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
