package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by every subcommand. Grounded on
// the teacher's internal/cli.RootOptions, trimmed to the one format flag
// this compiler's single-subcommand CLI needs.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
}

// ValidFormats lists the allowed --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the drlc root command: global flags plus the
// compile subcommand. Unlike the teacher's multi-concern CLI (compile,
// validate, run, replay, test, trace, invoke — one per engine-lifecycle
// stage), spec.md §6 names exactly one external interface, the compiler,
// so there is exactly one subcommand to wire.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "drlc",
		Short:   "drlc compiles Datalog modules to a generated Go database",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewCompileCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Version is set at build time via -ldflags "-X .../cli.Version=...";
// left at "dev" for local builds.
var Version = "dev"
