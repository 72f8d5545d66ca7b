package registry

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/infrastructure/postgres"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
	"github.com/heliumchem/helium/pkg/errors"

	appsearch "github.com/heliumchem/helium/internal/application/search"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	records []postgres.MoleculeRecord
}

func (r *fakeRepo) Save(_ context.Context, rec *postgres.MoleculeRecord) error {
	for i := range r.records {
		if r.records[i].SMILES == rec.SMILES {
			return errors.New(errors.CodeMoleculeExists, "molecule already registered")
		}
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*postgres.MoleculeRecord, error) {
	for i := range r.records {
		if r.records[i].ID == id {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, errors.New(errors.CodeMoleculeNotFound, "molecule not found")
}

func (r *fakeRepo) GetBySMILES(_ context.Context, smiles string) (*postgres.MoleculeRecord, error) {
	for i := range r.records {
		if r.records[i].SMILES == smiles {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, errors.New(errors.CodeMoleculeNotFound, "molecule not found")
}

func (r *fakeRepo) List(_ context.Context, limit, offset int) ([]postgres.MoleculeRecord, error) {
	if offset >= len(r.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.records) {
		end = len(r.records)
	}
	page := make([]postgres.MoleculeRecord, end-offset)
	copy(page, r.records[offset:end])
	return page, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.CodeMoleculeNotFound, "molecule not found")
}

func (r *fakeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func newTestRegistry(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	m := metrics.New("test", false)
	compiler := appsearch.NewService(config.SearchConfig{PatternCacheSize: 8, MaxMatches: 100}, nil, m, logging.NewNop())
	repo := &fakeRepo{}
	return NewService(repo, compiler, m, logging.NewNop()), repo
}

func TestRegisterDerivesProperties(t *testing.T) {
	svc, repo := newTestRegistry(t)

	mol, err := svc.Register(context.Background(), RegisterInput{Name: "ethanol", SMILES: "CCO"})
	require.NoError(t, err)
	assert.Equal(t, "C2H6O", mol.Formula)
	assert.Equal(t, 3, mol.HeavyAtoms)
	assert.NotEmpty(t, mol.ID)
	require.Len(t, repo.records, 1)
}

func TestRegisterRejectsInvalidSMILES(t *testing.T) {
	svc, _ := newTestRegistry(t)

	_, err := svc.Register(context.Background(), RegisterInput{SMILES: "C1CC"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSMILES, errors.GetCode(err))

	_, err = svc.Register(context.Background(), RegisterInput{})
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{SMILES: "CCO"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{SMILES: "CCO"})
	assert.Equal(t, errors.CodeMoleculeExists, errors.GetCode(err))
}

func TestGetAndDelete(t *testing.T) {
	svc, _ := newTestRegistry(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{SMILES: "c1ccccc1"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1ccccc1", got.SMILES)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestListPaging(t *testing.T) {
	svc, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, s := range []string{"C", "CC", "CCC", "CCCC"} {
		_, err := svc.Register(ctx, RegisterInput{SMILES: s})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Molecules, 2)
	assert.Equal(t, int64(4), page.Total)

	rest, err := svc.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest.Molecules, 2)
}

func TestFilterBySubstructure(t *testing.T) {
	svc, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, s := range []string{"CCO", "CCC", "c1ccccc1O", "c1ccccc1"} {
		_, err := svc.Register(ctx, RegisterInput{SMILES: s})
		require.NoError(t, err)
	}

	result, err := svc.Filter(ctx, "[OX2H]", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Scanned)

	var matched []string
	for _, m := range result.Molecules {
		matched = append(matched, m.SMILES)
	}
	sort.Strings(matched)
	assert.Equal(t, []string{"CCO", "c1ccccc1O"}, matched)
}

func TestFilterLimit(t *testing.T) {
	svc, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, s := range []string{"C", "CC", "CCC"} {
		_, err := svc.Register(ctx, RegisterInput{SMILES: s})
		require.NoError(t, err)
	}

	result, err := svc.Filter(ctx, "C", 2)
	require.NoError(t, err)
	assert.Len(t, result.Molecules, 2)
}

func TestFilterInvalidPattern(t *testing.T) {
	svc, _ := newTestRegistry(t)

	_, err := svc.Filter(context.Background(), "C(C", 10)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSMARTS, errors.GetCode(err))
}
