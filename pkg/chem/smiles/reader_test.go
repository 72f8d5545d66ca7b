package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliumchem/helium/pkg/chem"
)

func TestRead_Propane(t *testing.T) {
	mol, err := Parse("CCC")
	require.NoError(t, err)

	assert.Equal(t, 3, mol.NumAtoms())
	assert.Equal(t, 2, mol.NumBonds())
	for i := 0; i < 3; i++ {
		assert.Equal(t, chem.Carbon, mol.Atom(i).Element)
		assert.False(t, mol.Atom(i).Aromatic)
	}
	// Implicit hydrogens: CH3-CH2-CH3.
	assert.Equal(t, 3, mol.Atom(0).Hydrogens)
	assert.Equal(t, 2, mol.Atom(1).Hydrogens)
	assert.Equal(t, 3, mol.Atom(2).Hydrogens)
}

func TestRead_Benzene(t *testing.T) {
	mol, err := Parse("c1ccccc1")
	require.NoError(t, err)

	assert.Equal(t, 6, mol.NumAtoms())
	assert.Equal(t, 6, mol.NumBonds())
	for i := 0; i < 6; i++ {
		assert.True(t, mol.Atom(i).Aromatic)
		assert.Equal(t, 1, mol.Atom(i).Hydrogens)
		assert.Equal(t, 2, mol.Degree(i))
	}
	for i := 0; i < 6; i++ {
		assert.True(t, mol.Bond(i).Aromatic)
	}
}

func TestRead_Biphenyl(t *testing.T) {
	mol, err := Parse("c1ccccc1-c2ccccc2")
	require.NoError(t, err)

	assert.Equal(t, 12, mol.NumAtoms())
	assert.Equal(t, 13, mol.NumBonds())

	aromatic := 0
	for i := 0; i < mol.NumBonds(); i++ {
		if mol.Bond(i).Aromatic {
			aromatic++
		}
	}
	assert.Equal(t, 12, aromatic, "the inter-ring bond is a plain single bond")
}

func TestRead_Disconnected(t *testing.T) {
	mol, err := Parse("C.C")
	require.NoError(t, err)
	assert.Equal(t, 2, mol.NumAtoms())
	assert.Equal(t, 0, mol.NumBonds())
	assert.Equal(t, 4, mol.Atom(0).Hydrogens)
}

func TestRead_Branches(t *testing.T) {
	// Isobutane: central carbon with three methyls.
	mol, err := Parse("CC(C)C")
	require.NoError(t, err)
	assert.Equal(t, 4, mol.NumAtoms())
	assert.Equal(t, 3, mol.Degree(1))
	assert.Equal(t, 1, mol.Atom(1).Hydrogens)
}

func TestRead_BondOrders(t *testing.T) {
	mol, err := Parse("C=C")
	require.NoError(t, err)
	assert.Equal(t, 2, mol.Bond(0).Order)
	assert.Equal(t, 2, mol.Atom(0).Hydrogens)

	mol, err = Parse("C#N")
	require.NoError(t, err)
	assert.Equal(t, 3, mol.Bond(0).Order)
	assert.Equal(t, 1, mol.Atom(0).Hydrogens)
	assert.Equal(t, 0, mol.Atom(1).Hydrogens)
}

func TestRead_BracketAtoms(t *testing.T) {
	mol, err := Parse("[NH4+]")
	require.NoError(t, err)
	a := mol.Atom(0)
	assert.Equal(t, chem.Nitrogen, a.Element)
	assert.Equal(t, 4, a.Hydrogens)
	assert.Equal(t, 1, a.Charge)

	mol, err = Parse("[13CH4]")
	require.NoError(t, err)
	assert.Equal(t, 13, mol.Atom(0).Mass)
	assert.Equal(t, 4, mol.Atom(0).Hydrogens)

	mol, err = Parse("[O-]")
	require.NoError(t, err)
	assert.Equal(t, -1, mol.Atom(0).Charge)
	assert.Equal(t, 0, mol.Atom(0).Hydrogens, "bracket atoms carry no implicit hydrogens")
}

func TestRead_ExplicitHydrogen(t *testing.T) {
	mol, err := Parse("[C]([H])")
	require.NoError(t, err)
	assert.Equal(t, 2, mol.NumAtoms())
	assert.Equal(t, chem.Hydrogen, mol.Atom(1).Element)
	assert.Equal(t, 1, mol.TotalHydrogens(0))
}

func TestRead_RingClosurePercent(t *testing.T) {
	mol, err := Parse("C%12CCCCC%12")
	require.NoError(t, err)
	assert.Equal(t, 6, mol.NumAtoms())
	assert.Equal(t, 6, mol.NumBonds())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
	}{
		{"garbage", "fdsgsgd"},
		{"empty", ""},
		{"unclosed_branch", "CC(C"},
		{"unmatched_close", "CC)C"},
		{"unmatched_ring", "C1CC"},
		{"double_bond_symbols", "C==C"},
		{"leading_bond", "=C"},
		{"unclosed_bracket", "[CH3"},
		{"unknown_element", "[Xx]"},
		{"ring_to_self", "C11"},
		{"conflicting_ring_orders", "C=1CCCCC#1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol := &chem.Molecule{}
			err := NewReader().Read(tt.smiles, mol)
			require.Error(t, err)
			var perr *chem.ParseError
			assert.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.String())
			assert.Zero(t, mol.NumAtoms(), "failed parse leaves the molecule cleared")
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	tests := []string{
		"CCC",
		"CC(C)C",
		"C=CC#N",
		"c1ccccc1",
		"c1ccccc1-c2ccccc2",
		"C.C",
		"[O-]C",
		"[13CH4]",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			mol, err := Parse(input)
			require.NoError(t, err)

			out := Write(mol)
			back, err := Parse(out)
			require.NoError(t, err, "writer output must re-parse: %q", out)

			assert.Equal(t, mol.NumAtoms(), back.NumAtoms())
			assert.Equal(t, mol.NumBonds(), back.NumBonds())
			assert.Equal(t, mol.Formula(), back.Formula())
		})
	}
}
