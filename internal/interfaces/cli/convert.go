package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heliumchem/helium/pkg/chem/smiles"
)

// convertReport is the JSON shape of the convert command output.
type convertReport struct {
	Input      string `json:"input"`
	SMILES     string `json:"smiles"`
	Formula    string `json:"formula"`
	HeavyAtoms int    `json:"heavy_atoms"`
}

func newConvertCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert SMILES...",
		Short: "Parse each molecule and write it back in normalized form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, text := range args {
				mol, err := smiles.Parse(text)
				if err != nil {
					return err
				}

				report := convertReport{
					Input:      text,
					SMILES:     smiles.Write(mol),
					Formula:    mol.Formula(),
					HeavyAtoms: mol.HeavyAtomCount(),
				}

				if opts.json {
					if err := json.NewEncoder(out).Encode(report); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", report.Input, report.SMILES, report.Formula)
			}
			return nil
		},
	}
}
