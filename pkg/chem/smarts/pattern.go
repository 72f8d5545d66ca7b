// Package smarts compiles SMARTS patterns and matches them against molecular
// graphs by backtracking substructure search.
//
// The entry points are Compile, which turns SMARTS text into an immutable
// *Pattern, and the Smarts wrapper, which bundles compilation state with an
// inspectable parse error.  A compiled Pattern is never mutated and may be
// shared freely between concurrent searches; the Mapping passed to a search
// is the only per-call mutable state.
package smarts

import (
	"github.com/heliumchem/helium/pkg/chem"
)

// patternBond is an edge of the query graph.  Source and Target index the
// pattern's atom list.
type patternBond struct {
	source int
	target int
	expr   *bondExpr
}

// Pattern is a compiled SMARTS query.  Atoms keep their declaration order;
// disconnected fragments written with '.' become separate components that
// the search combines over disjoint molecule atoms.
type Pattern struct {
	atoms    []*atomExpr
	bonds    []patternBond
	incident [][]int // bond indices per pattern atom
	// components lists pattern atom indices per dot-separated fragment, in
	// declaration order.
	components [][]int

	requiresCycles            bool
	requiresExplicitHydrogens bool
}

// Compile parses SMARTS text into a Pattern.  The returned error, when not
// nil, is always a *chem.ParseError describing the first problem found; no
// partial pattern is returned alongside it.
func Compile(text string) (*Pattern, error) {
	p, err := parse(text)
	if err != nil {
		return nil, err
	}
	p.analyze()
	return p, nil
}

// NumAtoms returns the number of pattern atoms.
func (p *Pattern) NumAtoms() int { return len(p.atoms) }

// NumBonds returns the number of pattern bonds.
func (p *Pattern) NumBonds() int { return len(p.bonds) }

// NumComponents returns the number of dot-separated fragments.
func (p *Pattern) NumComponents() int { return len(p.components) }

// RequiresCycles reports whether any constraint in the pattern consults ring
// membership, ring size, or ring connectivity.  Callers can skip ring
// perception for patterns where this is false.
func (p *Pattern) RequiresCycles() bool { return p.requiresCycles }

// RequiresExplicitHydrogens reports whether the pattern contains hydrogen
// atom nodes, which only match molecules whose hydrogens are explicit graph
// atoms rather than implicit counts.
func (p *Pattern) RequiresExplicitHydrogens() bool { return p.requiresExplicitHydrogens }

func (p *Pattern) addAtom(expr *atomExpr, component int) int {
	index := len(p.atoms)
	p.atoms = append(p.atoms, expr)
	p.incident = append(p.incident, nil)
	for len(p.components) <= component {
		p.components = append(p.components, nil)
	}
	p.components[component] = append(p.components[component], index)
	return index
}

func (p *Pattern) addBond(source, target int, expr *bondExpr) {
	index := len(p.bonds)
	p.bonds = append(p.bonds, patternBond{source: source, target: target, expr: expr})
	p.incident[source] = append(p.incident[source], index)
	p.incident[target] = append(p.incident[target], index)
}

// analyze computes the two derived flags in one pass over the compiled
// expressions, including nested recursive patterns.
func (p *Pattern) analyze() {
	for _, a := range p.atoms {
		p.analyzeAtom(a)
	}
	for _, b := range p.bonds {
		p.analyzeBond(b.expr)
	}
}

func (p *Pattern) analyzeAtom(e *atomExpr) {
	if e.op != opLeaf {
		for _, arg := range e.args {
			p.analyzeAtom(arg)
		}
		return
	}
	switch e.prim {
	case primRingMembership, primRingSize, primRingConnectivity:
		p.requiresCycles = true
	case primAliphaticElement, primAromaticElement, primElement:
		if e.value == chem.Hydrogen {
			p.requiresExplicitHydrogens = true
		}
	case primRecursive:
		if e.sub.requiresCycles {
			p.requiresCycles = true
		}
		if e.sub.requiresExplicitHydrogens {
			p.requiresExplicitHydrogens = true
		}
	}
}

func (p *Pattern) analyzeBond(e *bondExpr) {
	if e.op != opLeaf {
		for _, arg := range e.args {
			p.analyzeBond(arg)
		}
		return
	}
	if e.prim == bondRing {
		p.requiresCycles = true
	}
}
