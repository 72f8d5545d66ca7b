package smarts

import (
	"github.com/heliumchem/helium/pkg/chem"
	"github.com/heliumchem/helium/pkg/chem/ring"
)

// Smarts bundles a compiled pattern with its compile diagnostic, for callers
// that prefer an init-then-inspect flow over Compile's error return.  The
// zero value is ready for Init.
type Smarts struct {
	pattern *Pattern
	err     *chem.ParseError
}

// Init compiles text and reports success.  On failure the diagnostic is
// available from Error and any previously compiled pattern is discarded;
// exactly one of the pattern and the error is set afterwards.
func (s *Smarts) Init(text string) bool {
	pattern, err := Compile(text)
	if err != nil {
		s.pattern = nil
		s.err = err.(*chem.ParseError)
		return false
	}
	s.pattern = pattern
	s.err = nil
	return true
}

// Error returns the diagnostic from the last Init, or nil after a successful
// one.
func (s *Smarts) Error() *chem.ParseError { return s.err }

// Pattern returns the compiled pattern, or nil before a successful Init.
func (s *Smarts) Pattern() *Pattern { return s.pattern }

// RequiresCycles reports whether the compiled pattern needs a ring set at
// search time.  Init must have succeeded.
func (s *Smarts) RequiresCycles() bool { return s.pattern.RequiresCycles() }

// RequiresExplicitHydrogens reports whether the compiled pattern contains
// hydrogen atom nodes.  Init must have succeeded.
func (s *Smarts) RequiresExplicitHydrogens() bool { return s.pattern.RequiresExplicitHydrogens() }

// Search runs the substructure search with the compiled pattern.  Init must
// have succeeded; see (*Pattern).Search for the full contract.
func (s *Smarts) Search(mol *chem.Molecule, mapping Mapping, rings *ring.Set, opts ...Option) bool {
	return s.pattern.Search(mol, mapping, rings, opts...)
}
