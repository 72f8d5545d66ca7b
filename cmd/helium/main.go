// Command helium is the command line tool for SMARTS substructure search.
package main

import (
	"os"

	"github.com/heliumchem/helium/internal/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute())
}
