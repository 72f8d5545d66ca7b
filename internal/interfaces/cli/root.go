// Package cli implements the helium command line tool.  The commands run
// the search library in-process; no server is required.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heliumchem/helium/internal/observability/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	logLevel string
	json     bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "helium",
		Short:         "SMARTS substructure search over SMILES molecules",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Config{Level: opts.logLevel, Format: "console"})
			if err != nil {
				return err
			}
			logging.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "emit machine-readable JSON output")

	cmd.AddCommand(
		newMatchCommand(opts),
		newRingsCommand(opts),
		newConvertCommand(opts),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}
