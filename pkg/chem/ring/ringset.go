// Package ring perceives rings in a molecular graph and answers the
// ring-membership queries that ring-dependent SMARTS primitives need.
//
// Perception is eager: NewSet walks the graph once, classifies every bond as
// cyclic or acyclic (bridge detection), and collects for every cyclic bond
// the smallest ring passing through it.  The resulting Set is read-only and
// safe for concurrent readers, but answers are only meaningful for the exact
// molecule it was built from; querying with a Set built from a different
// molecule is undefined behavior.
package ring

import (
	"sort"
	"strconv"
	"strings"

	"github.com/heliumchem/helium/pkg/chem"
)

// Ring is a cycle given as atom indices in traversal order.
type Ring []int

// Size returns the number of atoms in the ring.
func (r Ring) Size() int { return len(r) }

// Contains reports whether the ring passes through atom.
func (r Ring) Contains(atom int) bool {
	for _, a := range r {
		if a == atom {
			return true
		}
	}
	return false
}

// Set is the precomputed ring-membership index over one molecule.
type Set struct {
	rings      []Ring
	cyclicBond []bool
	atomRings  [][]int // ring indices per atom
	ringBonds  []int   // cyclic-bond count per atom
}

// NewSet perceives the rings of mol.
func NewSet(mol *chem.Molecule) *Set {
	s := &Set{
		cyclicBond: findCyclicBonds(mol),
		atomRings:  make([][]int, mol.NumAtoms()),
		ringBonds:  make([]int, mol.NumAtoms()),
	}

	for atom := 0; atom < mol.NumAtoms(); atom++ {
		for _, b := range mol.IncidentBonds(atom) {
			if s.cyclicBond[b] {
				s.ringBonds[atom]++
			}
		}
	}

	seen := make(map[string]bool)
	for b := 0; b < mol.NumBonds(); b++ {
		if !s.cyclicBond[b] {
			continue
		}
		r := smallestRingThrough(mol, b)
		if r == nil {
			continue
		}
		key := ringKey(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		index := len(s.rings)
		s.rings = append(s.rings, r)
		for _, atom := range r {
			s.atomRings[atom] = append(s.atomRings[atom], index)
		}
	}

	return s
}

// Rings returns the perceived rings.  The slice is owned by the Set.
func (s *Set) Rings() []Ring { return s.rings }

// IsAtomInRing reports whether atom lies on any cycle.
func (s *Set) IsAtomInRing(atom int) bool {
	return s.ringBonds[atom] > 0
}

// IsBondInRing reports whether bond lies on any cycle.
func (s *Set) IsBondInRing(bond int) bool {
	return s.cyclicBond[bond]
}

// IsAtomInRingSize reports whether atom lies on a perceived ring of exactly
// size atoms.
func (s *Set) IsAtomInRingSize(atom, size int) bool {
	for _, index := range s.atomRings[atom] {
		if s.rings[index].Size() == size {
			return true
		}
	}
	return false
}

// NumRings returns the number of perceived rings passing through atom.
func (s *Set) NumRings(atom int) int {
	return len(s.atomRings[atom])
}

// NumRingBonds returns the number of cyclic bonds incident to atom.
func (s *Set) NumRingBonds(atom int) int {
	return s.ringBonds[atom]
}

// findCyclicBonds marks every bond that is not a bridge, using one DFS with
// lowpoint tracking per connected component.
func findCyclicBonds(mol *chem.Molecule) []bool {
	cyclic := make([]bool, mol.NumBonds())
	disc := make([]int, mol.NumAtoms())
	low := make([]int, mol.NumAtoms())
	for i := range disc {
		disc[i] = -1
	}
	timer := 0

	var dfs func(atom, fromBond int)
	dfs = func(atom, fromBond int) {
		disc[atom] = timer
		low[atom] = timer
		timer++
		for _, b := range mol.IncidentBonds(atom) {
			if b == fromBond {
				continue
			}
			other := mol.Bond(b).Other(atom)
			if disc[other] < 0 {
				dfs(other, b)
				if low[other] < low[atom] {
					low[atom] = low[other]
				}
				// A child that cannot reach above the edge makes it a bridge.
				cyclic[b] = low[other] <= disc[atom]
			} else {
				if disc[other] < low[atom] {
					low[atom] = disc[other]
				}
				cyclic[b] = true
			}
		}
	}

	for atom := 0; atom < mol.NumAtoms(); atom++ {
		if disc[atom] < 0 {
			dfs(atom, -1)
		}
	}
	return cyclic
}

// smallestRingThrough finds the smallest cycle containing bond by BFS from
// one endpoint to the other with the bond itself removed.
func smallestRingThrough(mol *chem.Molecule, bond int) Ring {
	source := mol.Bond(bond).Source
	target := mol.Bond(bond).Target

	parent := make([]int, mol.NumAtoms())
	for i := range parent {
		parent[i] = -1
	}
	parent[source] = source

	queue := []int{source}
	for len(queue) > 0 {
		atom := queue[0]
		queue = queue[1:]
		if atom == target {
			break
		}
		for _, b := range mol.IncidentBonds(atom) {
			if b == bond {
				continue
			}
			other := mol.Bond(b).Other(atom)
			if parent[other] < 0 {
				parent[other] = atom
				queue = append(queue, other)
			}
		}
	}

	if parent[target] < 0 {
		return nil
	}

	var r Ring
	for atom := target; atom != source; atom = parent[atom] {
		r = append(r, atom)
	}
	r = append(r, source)
	return r
}

// ringKey builds a canonical identity for deduplication: the sorted atom set.
func ringKey(r Ring) string {
	atoms := make([]int, len(r))
	copy(atoms, r)
	sort.Ints(atoms)
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}
