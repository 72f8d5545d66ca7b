package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heliumchem/helium/pkg/chem/ring"
	"github.com/heliumchem/helium/pkg/chem/smiles"
)

// ringsReport is the JSON shape of the rings command output.
type ringsReport struct {
	SMILES    string  `json:"smiles"`
	NumAtoms  int     `json:"num_atoms"`
	NumBonds  int     `json:"num_bonds"`
	Rings     [][]int `json:"rings"`
	RingAtoms []int   `json:"ring_atoms"`
}

func newRingsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rings SMILES...",
		Short: "Report the perceived rings of each molecule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, text := range args {
				mol, err := smiles.Parse(text)
				if err != nil {
					return err
				}
				rings := ring.NewSet(mol)

				report := ringsReport{
					SMILES:   text,
					NumAtoms: mol.NumAtoms(),
					NumBonds: mol.NumBonds(),
					Rings:    [][]int{},
				}
				for _, r := range rings.Rings() {
					report.Rings = append(report.Rings, []int(r))
				}
				for atom := 0; atom < mol.NumAtoms(); atom++ {
					if rings.IsAtomInRing(atom) {
						report.RingAtoms = append(report.RingAtoms, atom)
					}
				}

				if opts.json {
					if err := json.NewEncoder(out).Encode(report); err != nil {
						return err
					}
					continue
				}

				fmt.Fprintf(out, "%s\t%d rings\n", text, len(report.Rings))
				for _, r := range report.Rings {
					fmt.Fprintf(out, "  size %d: %v\n", len(r), r)
				}
			}
			return nil
		},
	}
}
