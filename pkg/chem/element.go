package chem

import "strings"

// Atomic numbers for the elements helium cares about most.  The full periodic
// table is covered by the symbol tables below; these constants exist so that
// call sites read chemically.
const (
	Hydrogen = 1
	Boron    = 5
	Carbon   = 6
	Nitrogen = 7
	Oxygen   = 8
	Fluorine = 9
	Phosphor = 15
	Sulfur   = 16
	Chlorine = 17
	Bromine  = 35
	Iodine   = 53
)

// elementSymbols maps atomic number to element symbol for elements 1-118.
var elementSymbols = []string{"",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// atomicNumbers is the reverse lookup, built once at init.
var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(elementSymbols))
	for i := 1; i < len(elementSymbols); i++ {
		m[elementSymbols[i]] = i
	}
	return m
}()

// averageMasses holds rounded average atomic masses for the elements that
// appear in typical organic molecules.  Elements without an entry report 0.
var averageMasses = map[int]int{
	Hydrogen: 1, Boron: 11, Carbon: 12, Nitrogen: 14, Oxygen: 16,
	Fluorine: 19, 14: 28, Phosphor: 31, Sulfur: 32, Chlorine: 35,
	34: 79, Bromine: 80, Iodine: 127,
}

// implicitValences lists the allowed valences, in increasing order, for the
// elements that receive implicit hydrogens (the SMILES organic subset rules).
var implicitValences = map[int][]int{
	Boron:    {3},
	Carbon:   {4},
	Nitrogen: {3, 5},
	Oxygen:   {2},
	Fluorine: {1},
	Phosphor: {3, 5},
	Sulfur:   {2, 4, 6},
	Chlorine: {1},
	Bromine:  {1},
	Iodine:   {1},
}

// aromaticElements are the elements that may be written lowercase in SMILES
// and SMARTS to denote an aromatic atom.
var aromaticElements = map[int]bool{
	Boron: true, Carbon: true, Nitrogen: true, Oxygen: true,
	Phosphor: true, Sulfur: true, 33: true, 34: true,
}

// ElementSymbol returns the symbol for an atomic number, or "" when unknown.
func ElementSymbol(element int) string {
	if element < 1 || element >= len(elementSymbols) {
		return ""
	}
	return elementSymbols[element]
}

// ElementNumber returns the atomic number for a symbol, or 0 when unknown.
// The symbol is matched case-sensitively ("Cl", not "CL").
func ElementNumber(symbol string) int {
	return atomicNumbers[symbol]
}

// AromaticElementNumber resolves a lowercase aromatic symbol ("c", "n", "se")
// to its atomic number, or 0 when the element cannot be aromatic.
func AromaticElementNumber(symbol string) int {
	num := atomicNumbers[strings.ToUpper(symbol[:1])+symbol[1:]]
	if !aromaticElements[num] {
		return 0
	}
	return num
}

// IsOrganicSubset reports whether the element can be written without brackets
// in SMILES (B, C, N, O, F, P, S, Cl, Br, I).
func IsOrganicSubset(element int) bool {
	switch element {
	case Boron, Carbon, Nitrogen, Oxygen, Fluorine, Phosphor, Sulfur, Chlorine, Bromine, Iodine:
		return true
	}
	return false
}

// AverageMass returns the rounded average atomic mass, or 0 when not tabulated.
func AverageMass(element int) int {
	return averageMasses[element]
}

// ImpliedValence returns the smallest allowed valence that is >= the current
// bonded valence, or the current valence itself when the element has no
// implicit valence rule or is already saturated.  Used by the SMILES reader
// for implicit hydrogen filling.
func ImpliedValence(element, valence int) int {
	for _, v := range implicitValences[element] {
		if v >= valence {
			return v
		}
	}
	return valence
}
