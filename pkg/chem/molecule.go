// Package chem provides the in-memory molecular graph model shared by the
// SMILES reader, the ring perception code, and the SMARTS matcher.  A
// Molecule is built once (usually by smiles.Reader) and treated as immutable
// afterwards; all read accessors are safe for concurrent use on an immutable
// molecule.
package chem

// Atom holds the static attributes of one atom node.
type Atom struct {
	// Element is the atomic number (6 for carbon).
	Element int

	// Aromatic marks atoms written lowercase in SMILES.
	Aromatic bool

	// Charge is the formal charge.
	Charge int

	// Mass is the isotope mass when given, otherwise the element's average
	// mass.
	Mass int

	// Hydrogens is the hydrogen count attached to this atom that is not
	// represented by explicit H atom nodes.  It is either the bracket H
	// count from the SMILES input or the implicit valence-filled count.
	Hydrogens int
}

// Bond is an undirected edge between two atoms, identified by their indices.
type Bond struct {
	Source   int
	Target   int
	Order    int
	Aromatic bool
}

// Other returns the endpoint of the bond opposite to atom.
func (b Bond) Other(atom int) int {
	if b.Source == atom {
		return b.Target
	}
	return b.Source
}

// Molecule is an adjacency-indexed molecular graph.  The zero value is an
// empty, usable molecule.
type Molecule struct {
	atoms    []Atom
	bonds    []Bond
	incident [][]int // bond indices per atom
}

// Clear removes all atoms and bonds, retaining allocated capacity.
func (m *Molecule) Clear() {
	m.atoms = m.atoms[:0]
	m.bonds = m.bonds[:0]
	m.incident = m.incident[:0]
}

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.atoms = append(m.atoms, a)
	m.incident = append(m.incident, nil)
	return len(m.atoms) - 1
}

// AddBond appends a bond between two existing atoms and returns its index.
func (m *Molecule) AddBond(b Bond) int {
	index := len(m.bonds)
	m.bonds = append(m.bonds, b)
	m.incident[b.Source] = append(m.incident[b.Source], index)
	m.incident[b.Target] = append(m.incident[b.Target], index)
	return index
}

// NumAtoms returns the atom count.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns the atom at index.
func (m *Molecule) Atom(index int) Atom { return m.atoms[index] }

// Bond returns the bond at index.
func (m *Molecule) Bond(index int) Bond { return m.bonds[index] }

// SetHydrogens overwrites an atom's hydrogen count.  Used by the SMILES
// reader during implicit hydrogen filling; not part of the read-only search
// contract.
func (m *Molecule) SetHydrogens(atom, count int) {
	m.atoms[atom].Hydrogens = count
}

// IncidentBonds returns the indices of the bonds incident to atom.  The
// returned slice is owned by the molecule and must not be modified.
func (m *Molecule) IncidentBonds(atom int) []int {
	return m.incident[atom]
}

// Neighbors returns the indices of the atoms adjacent to atom.
func (m *Molecule) Neighbors(atom int) []int {
	bonds := m.incident[atom]
	nbrs := make([]int, len(bonds))
	for i, b := range bonds {
		nbrs[i] = m.bonds[b].Other(atom)
	}
	return nbrs
}

// BondBetween returns the index of the bond connecting two atoms, or -1.
func (m *Molecule) BondBetween(a, b int) int {
	for _, index := range m.incident[a] {
		if m.bonds[index].Other(a) == b {
			return index
		}
	}
	return -1
}

// Degree returns the number of explicit connections of atom (D in SMARTS).
func (m *Molecule) Degree(atom int) int {
	return len(m.incident[atom])
}

// Connectivity returns the total connection count including implicit
// hydrogens (X in SMARTS).
func (m *Molecule) Connectivity(atom int) int {
	return len(m.incident[atom]) + m.atoms[atom].Hydrogens
}

// BondedValence returns the sum of bond orders around atom, counting
// aromatic bonds as one.  Implicit hydrogens are not included.
func (m *Molecule) BondedValence(atom int) int {
	valence := 0
	for _, index := range m.incident[atom] {
		b := m.bonds[index]
		if b.Aromatic {
			valence++
		} else {
			valence += b.Order
		}
	}
	return valence
}

// Valence returns the total valence including implicit hydrogens (v in
// SMARTS).
func (m *Molecule) Valence(atom int) int {
	return m.BondedValence(atom) + m.atoms[atom].Hydrogens
}

// TotalHydrogens returns the hydrogen count of atom including neighboring
// explicit H atom nodes (H in SMARTS).
func (m *Molecule) TotalHydrogens(atom int) int {
	h := m.atoms[atom].Hydrogens
	for _, index := range m.incident[atom] {
		if m.atoms[m.bonds[index].Other(atom)].Element == Hydrogen {
			h++
		}
	}
	return h
}

// Formula returns a Hill-order style molecular formula counting implicit
// hydrogens.  Intended for display and registry storage, not for identity.
func (m *Molecule) Formula() string {
	return formula(m)
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.atoms {
		if a.Element != Hydrogen {
			n++
		}
	}
	return n
}
