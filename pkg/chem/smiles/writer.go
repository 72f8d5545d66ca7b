package smiles

import (
	"fmt"
	"strings"

	"github.com/heliumchem/helium/pkg/chem"
)

// Write renders mol as a SMILES string.  Atoms are emitted in a depth-first
// traversal from atom 0 (and from the first unvisited atom of every further
// component, joined with '.').  Ring-closure bonds get sequential numbers.
// The output is not canonical; it is a faithful round-trippable rendering.
func Write(mol *chem.Molecule) string {
	w := &writer{
		mol:     mol,
		visited: make([]bool, mol.NumAtoms()),
		used:    make([]bool, mol.NumBonds()),
		closing: make(map[int][]int),
	}

	// First pass: find ring-closure (back) bonds and assign numbers.
	w.assignRingNumbers()

	for atom := 0; atom < mol.NumAtoms(); atom++ {
		if w.visited[atom] {
			continue
		}
		if w.sb.Len() > 0 {
			w.sb.WriteByte('.')
		}
		w.emit(atom, -1)
	}
	return w.sb.String()
}

type writer struct {
	mol     *chem.Molecule
	sb      strings.Builder
	visited   []bool
	used      []bool // marks ring-closure bonds during emission
	closing   map[int][]int
	ringBonds []int
	nextNum   int
}

// assignRingNumbers walks a DFS spanning forest; every non-tree bond becomes
// a numbered ring closure recorded on both endpoints.
func (w *writer) assignRingNumbers() {
	seen := make([]bool, w.mol.NumAtoms())
	var dfs func(atom int)
	dfs = func(atom int) {
		seen[atom] = true
		for _, b := range w.mol.IncidentBonds(atom) {
			if w.used[b] {
				continue
			}
			other := w.mol.Bond(b).Other(atom)
			if !seen[other] {
				w.used[b] = true
				dfs(other)
				continue
			}
			// Back bond: assign a ring-closure number once.
			w.used[b] = true
			w.nextNum++
			w.closing[atom] = append(w.closing[atom], w.nextNum)
			w.closing[other] = append(w.closing[other], w.nextNum)
			w.ringBonds = append(w.ringBonds, b)
		}
	}
	for atom := 0; atom < w.mol.NumAtoms(); atom++ {
		if !seen[atom] {
			dfs(atom)
		}
	}
	// Reset bond usage for the emission pass; ring bonds stay marked.
	for i := range w.used {
		w.used[i] = false
	}
	for _, b := range w.ringBonds {
		w.used[b] = true
	}
}

// emit writes atom and recurses over its unvisited neighbors.
func (w *writer) emit(atom, fromBond int) {
	w.visited[atom] = true
	w.writeAtom(atom)
	for _, n := range w.closing[atom] {
		if n > 9 {
			fmt.Fprintf(&w.sb, "%%%d", n)
		} else {
			fmt.Fprintf(&w.sb, "%d", n)
		}
	}

	var children []int
	for _, b := range w.mol.IncidentBonds(atom) {
		if b == fromBond || w.used[b] {
			continue
		}
		if !w.visited[w.mol.Bond(b).Other(atom)] {
			children = append(children, b)
		}
	}

	for i, b := range children {
		branch := i < len(children)-1
		if branch {
			w.sb.WriteByte('(')
		}
		w.writeBond(atom, b)
		w.emit(w.mol.Bond(b).Other(atom), b)
		if branch {
			w.sb.WriteByte(')')
		}
	}
}

// writeBond emits the explicit bond symbol when the default would be wrong.
func (w *writer) writeBond(atom, bond int) {
	b := w.mol.Bond(bond)
	src := w.mol.Atom(atom)
	dst := w.mol.Atom(b.Other(atom))

	switch {
	case b.Aromatic:
		// Default between aromatic atoms.
	case b.Order == 1:
		if src.Aromatic && dst.Aromatic {
			w.sb.WriteByte('-')
		}
	case b.Order == 2:
		w.sb.WriteByte('=')
	case b.Order == 3:
		w.sb.WriteByte('#')
	case b.Order == 4:
		w.sb.WriteByte('$')
	}
}

// writeAtom emits one atom, bracketed when the organic-subset shorthand
// cannot represent it.
func (w *writer) writeAtom(atom int) {
	a := w.mol.Atom(atom)
	symbol := chem.ElementSymbol(a.Element)
	if a.Aromatic {
		symbol = strings.ToLower(symbol)
	}

	needBrackets := !chem.IsOrganicSubset(a.Element) ||
		a.Charge != 0 ||
		(a.Mass != 0 && a.Mass != chem.AverageMass(a.Element))

	if !needBrackets {
		w.sb.WriteString(symbol)
		return
	}

	w.sb.WriteByte('[')
	if a.Mass != 0 && a.Mass != chem.AverageMass(a.Element) {
		fmt.Fprintf(&w.sb, "%d", a.Mass)
	}
	w.sb.WriteString(symbol)
	if a.Hydrogens == 1 {
		w.sb.WriteByte('H')
	} else if a.Hydrogens > 1 {
		fmt.Fprintf(&w.sb, "H%d", a.Hydrogens)
	}
	switch {
	case a.Charge == 1:
		w.sb.WriteByte('+')
	case a.Charge == -1:
		w.sb.WriteByte('-')
	case a.Charge > 1:
		fmt.Fprintf(&w.sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&w.sb, "-%d", -a.Charge)
	}
	w.sb.WriteByte(']')
}
