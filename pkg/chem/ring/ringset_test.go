package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliumchem/helium/pkg/chem/smiles"
)

func TestNewSet_Acyclic(t *testing.T) {
	mol, err := smiles.Parse("CCCC")
	require.NoError(t, err)

	set := NewSet(mol)
	assert.Empty(t, set.Rings())
	for atom := 0; atom < mol.NumAtoms(); atom++ {
		assert.False(t, set.IsAtomInRing(atom))
		assert.Equal(t, 0, set.NumRings(atom))
		assert.Equal(t, 0, set.NumRingBonds(atom))
	}
	for bond := 0; bond < mol.NumBonds(); bond++ {
		assert.False(t, set.IsBondInRing(bond))
	}
}

func TestNewSet_Benzene(t *testing.T) {
	mol, err := smiles.Parse("c1ccccc1")
	require.NoError(t, err)

	set := NewSet(mol)
	require.Len(t, set.Rings(), 1)
	assert.Equal(t, 6, set.Rings()[0].Size())

	for atom := 0; atom < 6; atom++ {
		assert.True(t, set.IsAtomInRing(atom))
		assert.True(t, set.IsAtomInRingSize(atom, 6))
		assert.False(t, set.IsAtomInRingSize(atom, 5))
		assert.Equal(t, 1, set.NumRings(atom))
		assert.Equal(t, 2, set.NumRingBonds(atom))
	}
	for bond := 0; bond < 6; bond++ {
		assert.True(t, set.IsBondInRing(bond))
	}
}

func TestNewSet_Toluene(t *testing.T) {
	mol, err := smiles.Parse("Cc1ccccc1")
	require.NoError(t, err)

	set := NewSet(mol)
	require.Len(t, set.Rings(), 1)

	// The methyl carbon stays outside the ring.
	assert.False(t, set.IsAtomInRing(0))
	assert.Equal(t, 0, set.NumRingBonds(0))
	assert.True(t, set.IsAtomInRing(1))
	assert.Equal(t, 2, set.NumRingBonds(1))

	// The exocyclic bond is a bridge.
	bond := mol.BondBetween(0, 1)
	require.GreaterOrEqual(t, bond, 0)
	assert.False(t, set.IsBondInRing(bond))
}

func TestNewSet_Biphenyl(t *testing.T) {
	mol, err := smiles.Parse("c1ccccc1-c1ccccc1")
	require.NoError(t, err)

	set := NewSet(mol)
	require.Len(t, set.Rings(), 2)

	bond := mol.BondBetween(5, 6)
	require.GreaterOrEqual(t, bond, 0)
	assert.False(t, set.IsBondInRing(bond))
	for atom := 0; atom < mol.NumAtoms(); atom++ {
		assert.True(t, set.IsAtomInRing(atom))
		assert.Equal(t, 1, set.NumRings(atom))
	}
}

func TestNewSet_Naphthalene(t *testing.T) {
	mol, err := smiles.Parse("c1ccc2ccccc2c1")
	require.NoError(t, err)

	set := NewSet(mol)
	require.Len(t, set.Rings(), 2)
	for _, r := range set.Rings() {
		assert.Equal(t, 6, r.Size())
	}

	// Fusion atoms belong to both rings and carry three ring bonds.
	fused := 0
	for atom := 0; atom < mol.NumAtoms(); atom++ {
		if set.NumRings(atom) == 2 {
			fused++
			assert.Equal(t, 3, set.NumRingBonds(atom))
		}
	}
	assert.Equal(t, 2, fused)
}

func TestNewSet_SpiroAndChain(t *testing.T) {
	// Cyclopropane attached to a chain.
	mol, err := smiles.Parse("C1CC1CCO")
	require.NoError(t, err)

	set := NewSet(mol)
	require.Len(t, set.Rings(), 1)
	assert.Equal(t, 3, set.Rings()[0].Size())
	assert.True(t, set.IsAtomInRingSize(0, 3))
	assert.False(t, set.IsAtomInRing(4))
}
