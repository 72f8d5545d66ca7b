package smarts

import (
	"sort"
	"strconv"
	"strings"

	"github.com/heliumchem/helium/pkg/chem"
	"github.com/heliumchem/helium/pkg/chem/ring"
)

// searchConfig collects the per-call search options.
type searchConfig struct {
	unique bool
}

// Option adjusts one search call.
type Option func(*searchConfig)

// Unique controls embedding deduplication.  The default (true) reports one
// canonical representative per distinct molecule-atom set, the first found
// in search order; with false every satisfying assignment sequence is
// reported, including symmetric relabelings of the same atoms.
func Unique(unique bool) Option {
	return func(c *searchConfig) { c.unique = unique }
}

// Search enumerates embeddings of the pattern in mol and feeds them to
// mapping until the pattern is exhausted or the mapping policy stops the
// search.  It returns true iff at least one embedding was recorded.
//
// rings must be built from mol when RequiresCycles() is true; it may be nil
// otherwise.  A RingSet built from a different molecule is undefined
// behavior.  The pattern, molecule and ring set are read-only here and may
// be shared across concurrent searches; the mapping may not.
func (p *Pattern) Search(mol *chem.Molecule, mapping Mapping, rings *ring.Set, opts ...Option) bool {
	cfg := searchConfig{unique: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(p.components) == 1 {
		return p.searchSingle(mol, mapping, rings, cfg)
	}
	return p.searchDisconnected(mol, mapping, rings, cfg)
}

// searchSingle streams embeddings of a one-component pattern straight into
// the mapping policy.
func (p *Pattern) searchSingle(mol *chem.Molecule, mapping Mapping, rings *ring.Set, cfg searchConfig) bool {
	var seen map[string]bool
	if cfg.unique {
		seen = make(map[string]bool)
	}

	found := false
	p.searchComponent(mol, rings, p.components[0], -1, func(embedding []int) bool {
		if cfg.unique {
			key := atomSetKey(embedding)
			if seen[key] {
				return true
			}
			seen[key] = true
		}
		found = true
		return mapping.Add(embedding)
	})
	return found
}

// searchDisconnected matches each dot-separated component independently and
// combines the per-component embeddings over disjoint molecule atoms.
func (p *Pattern) searchDisconnected(mol *chem.Molecule, mapping Mapping, rings *ring.Set, cfg searchConfig) bool {
	lists := make([][][]int, len(p.components))
	for i, comp := range p.components {
		var seen map[string]bool
		if cfg.unique {
			seen = make(map[string]bool)
		}
		var list [][]int
		p.searchComponent(mol, rings, comp, -1, func(embedding []int) bool {
			if cfg.unique {
				key := atomSetKey(embedding)
				if seen[key] {
					return true
				}
				seen[key] = true
			}
			list = append(list, embedding)
			return true
		})
		if len(list) == 0 {
			return false
		}
		lists[i] = list
	}

	var combinedSeen map[string]bool
	if cfg.unique {
		combinedSeen = make(map[string]bool)
	}

	// Odometer over one embedding choice per component, rejecting overlaps.
	choice := make([]int, len(lists))
	found := false
	for {
		if combined, ok := p.combine(mol, lists, choice); ok {
			emit := true
			if cfg.unique {
				key := atomSetKey(combined)
				if combinedSeen[key] {
					emit = false
				} else {
					combinedSeen[key] = true
				}
			}
			if emit {
				found = true
				if !mapping.Add(combined) {
					return true
				}
			}
		}

		pos := len(choice) - 1
		for pos >= 0 {
			choice[pos]++
			if choice[pos] < len(lists[pos]) {
				break
			}
			choice[pos] = 0
			pos--
		}
		if pos < 0 {
			return found
		}
	}
}

// combine assembles the chosen per-component embeddings into one mapping in
// pattern declaration order, or reports false when they share an atom.
func (p *Pattern) combine(mol *chem.Molecule, lists [][][]int, choice []int) ([]int, bool) {
	used := make([]bool, mol.NumAtoms())
	combined := make([]int, len(p.atoms))
	for ci, comp := range p.components {
		embedding := lists[ci][choice[ci]]
		for j, patternAtom := range comp {
			atom := embedding[j]
			if used[atom] {
				return nil, false
			}
			used[atom] = true
			combined[patternAtom] = atom
		}
	}
	return combined, true
}

// searchComponent runs the backtracking search for one pattern component.
// comp lists the component's pattern atoms in declaration order; anchor,
// when non-negative, pins the first of them to one molecule atom.  emit is
// called with a fresh mapping slice (component position to molecule atom)
// for every embedding and returns false to stop the search.
//
// The search keeps an explicit stack of candidate cursors instead of
// recursing, so depth is bounded by the component size regardless of how
// the call stack is sized.  Candidates are tried in ascending molecule-atom
// order, which makes the enumeration order deterministic.
func (p *Pattern) searchComponent(mol *chem.Molecule, rings *ring.Set, comp []int, anchor int, emit func([]int) bool) {
	n := len(comp)

	// Position of each pattern atom within comp, for bond verification.
	position := make([]int, len(p.atoms))
	for i := range position {
		position[i] = -1
	}
	for i, patternAtom := range comp {
		position[patternAtom] = i
	}

	assigned := make([]int, n)
	for i := range assigned {
		assigned[i] = -1
	}
	used := make([]bool, mol.NumAtoms())
	cursor := make([]int, 1, n) // next candidate per depth

	for len(cursor) > 0 {
		depth := len(cursor) - 1

		if prev := assigned[depth]; prev >= 0 {
			used[prev] = false
			assigned[depth] = -1
		}

		candidate := -1
		for c := cursor[depth]; c < mol.NumAtoms(); c++ {
			if depth == 0 && anchor >= 0 && c != anchor {
				continue
			}
			if used[c] || !p.feasible(mol, rings, comp, position, assigned, depth, c) {
				continue
			}
			candidate = c
			break
		}
		if candidate < 0 {
			cursor = cursor[:depth]
			continue
		}

		cursor[depth] = candidate + 1
		assigned[depth] = candidate
		used[candidate] = true

		if depth == n-1 {
			embedding := make([]int, n)
			copy(embedding, assigned)
			if !emit(embedding) {
				return
			}
			// Stay at this depth and try the next candidate.
			continue
		}
		cursor = append(cursor, 0)
	}
}

// feasible checks whether molecule atom candidate can take component
// position depth: its static attributes must satisfy the pattern atom
// expression, and every pattern bond to an already-assigned neighbor must
// have a satisfying molecule bond.
func (p *Pattern) feasible(mol *chem.Molecule, rings *ring.Set, comp, position, assigned []int, depth, candidate int) bool {
	patternAtom := comp[depth]
	if !matchAtom(p.atoms[patternAtom], mol, rings, candidate) {
		return false
	}
	for _, bondIndex := range p.incident[patternAtom] {
		b := p.bonds[bondIndex]
		other := b.source
		if other == patternAtom {
			other = b.target
		}
		pos := position[other]
		if pos < 0 || pos >= depth || assigned[pos] < 0 {
			continue
		}
		molBond := mol.BondBetween(assigned[pos], candidate)
		if molBond < 0 || !matchBond(b.expr, mol, rings, molBond) {
			return false
		}
	}
	return true
}

// atomSetKey canonicalizes an embedding to its sorted molecule-atom set for
// uniqueness filtering.
func atomSetKey(embedding []int) string {
	atoms := make([]int, len(embedding))
	copy(atoms, embedding)
	sort.Ints(atoms)
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}
