package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	appsearch "github.com/heliumchem/helium/internal/application/search"
	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
)

func newMatchCommand(opts *rootOptions) *cobra.Command {
	var (
		mode      string
		nonUnique bool
	)

	cmd := &cobra.Command{
		Use:   "match PATTERN TARGET...",
		Short: "Match a SMARTS pattern against one or more SMILES molecules",
		Long: `Match compiles PATTERN once and searches each TARGET molecule.

The --mode flag selects the result shape:
  match   whether the pattern occurs (exit status reflects the last target)
  count   the number of embeddings
  single  the first embedding as pattern->molecule atom indices
  all     every embedding`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := appsearch.NewService(
				config.SearchConfig{PatternCacheSize: 16, MaxMatches: 10000},
				nil,
				metrics.New("helium", false),
				logging.Default(),
			)

			for _, target := range args[1:] {
				result, err := svc.Run(cmd.Context(), appsearch.Request{
					Pattern: args[0],
					Target:  target,
					Mode:    appsearch.Mode(mode),
					Unique:  !nonUnique,
				})
				if err != nil {
					return err
				}
				if err := printMatchResult(cmd, opts, result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "match", "result mode: match, count, single or all")
	cmd.Flags().BoolVar(&nonUnique, "non-unique", false, "report all embeddings, including repeated atom sets")
	return cmd
}

func printMatchResult(cmd *cobra.Command, opts *rootOptions, result *appsearch.Result) error {
	out := cmd.OutOrStdout()
	if opts.json {
		return json.NewEncoder(out).Encode(result)
	}

	switch result.Mode {
	case appsearch.ModeCount:
		fmt.Fprintf(out, "%s\t%d\n", result.Target, result.Count)
	case appsearch.ModeSingle:
		fmt.Fprintf(out, "%s\t%v\n", result.Target, result.Mapping)
	case appsearch.ModeAll:
		fmt.Fprintf(out, "%s\t%d embeddings\n", result.Target, len(result.Mappings))
		for _, m := range result.Mappings {
			fmt.Fprintf(out, "  %v\n", m)
		}
		if result.Truncated {
			fmt.Fprintln(out, "  (truncated)")
		}
	default:
		if result.Matched {
			fmt.Fprintf(out, "%s\tmatch\n", result.Target)
		} else {
			fmt.Fprintf(out, "%s\tno match\n", result.Target)
		}
	}
	return nil
}
