package smarts

import (
	"github.com/heliumchem/helium/pkg/chem"
	"github.com/heliumchem/helium/pkg/chem/ring"
)

// Primitive evaluation against a molecule.  Ring-dependent primitives consult
// the supplied ring set; passing a nil set is only valid when the pattern
// reported RequiresCycles() == false.

func matchAtom(e *atomExpr, mol *chem.Molecule, rings *ring.Set, atom int) bool {
	switch e.op {
	case opNot:
		return !matchAtom(e.args[0], mol, rings, atom)
	case opAnd:
		for _, arg := range e.args {
			if !matchAtom(arg, mol, rings, atom) {
				return false
			}
		}
		return true
	case opOr:
		for _, arg := range e.args {
			if matchAtom(arg, mol, rings, atom) {
				return true
			}
		}
		return false
	}

	a := mol.Atom(atom)
	switch e.prim {
	case primAny:
		return true
	case primAromatic:
		return a.Aromatic
	case primAliphatic:
		return !a.Aromatic
	case primAliphaticElement:
		return a.Element == e.value && !a.Aromatic
	case primAromaticElement:
		return a.Element == e.value && a.Aromatic
	case primElement:
		return a.Element == e.value
	case primIsotope:
		return a.Mass == e.value
	case primCharge:
		return a.Charge == e.value
	case primDegree:
		return mol.Degree(atom) == e.value
	case primValence:
		return mol.Valence(atom) == e.value
	case primConnectivity:
		return mol.Connectivity(atom) == e.value
	case primTotalH:
		return mol.TotalHydrogens(atom) == e.value
	case primImplicitH:
		if e.value == valueAtLeastOne {
			return a.Hydrogens >= 1
		}
		return a.Hydrogens == e.value
	case primRingMembership:
		if e.value == valueAtLeastOne {
			return rings.IsAtomInRing(atom)
		}
		return rings.NumRings(atom) == e.value
	case primRingSize:
		if e.value == valueAtLeastOne {
			return rings.IsAtomInRing(atom)
		}
		return rings.IsAtomInRingSize(atom, e.value)
	case primRingConnectivity:
		if e.value == valueAtLeastOne {
			return rings.NumRingBonds(atom) >= 1
		}
		return rings.NumRingBonds(atom) == e.value
	case primRecursive:
		return matchRecursive(e.sub, mol, rings, atom)
	}
	return false
}

func matchBond(e *bondExpr, mol *chem.Molecule, rings *ring.Set, bond int) bool {
	switch e.op {
	case opNot:
		return !matchBond(e.args[0], mol, rings, bond)
	case opAnd:
		for _, arg := range e.args {
			if !matchBond(arg, mol, rings, bond) {
				return false
			}
		}
		return true
	case opOr:
		for _, arg := range e.args {
			if matchBond(arg, mol, rings, bond) {
				return true
			}
		}
		return false
	}

	b := mol.Bond(bond)
	switch e.prim {
	case bondAny:
		return true
	case bondDefault:
		return b.Aromatic || b.Order == 1
	case bondSingle:
		return !b.Aromatic && b.Order == 1
	case bondDouble:
		return !b.Aromatic && b.Order == 2
	case bondTriple:
		return b.Order == 3
	case bondQuadruple:
		return b.Order == 4
	case bondAromatic:
		return b.Aromatic
	case bondRing:
		return rings.IsBondInRing(bond)
	}
	return false
}

// matchRecursive reports whether the nested pattern embeds with its first
// atom fixed on atom.  The environment may reuse atoms already claimed by
// the outer embedding; recursive constraints describe surroundings, not
// additional matched atoms.
func matchRecursive(sub *Pattern, mol *chem.Molecule, rings *ring.Set, atom int) bool {
	matched := false
	sub.searchComponent(mol, rings, sub.components[0], atom, func([]int) bool {
		matched = true
		return false
	})
	return matched
}
