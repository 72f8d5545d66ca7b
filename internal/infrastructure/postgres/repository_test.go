package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/pkg/errors"
)

type MoleculeRepoSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo *MoleculeRepository
}

func (s *MoleculeRepoSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)
	s.repo = NewMoleculeRepository(s.db, logging.NewNop())
}

func (s *MoleculeRepoSuite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *MoleculeRepoSuite) record() *MoleculeRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &MoleculeRecord{
		ID:         uuid.New(),
		Name:       "benzene",
		SMILES:     "c1ccccc1",
		Formula:    "C6H6",
		HeavyAtoms: 6,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func moleculeRows(rec *MoleculeRecord) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "smiles", "formula", "heavy_atoms", "created_at", "updated_at",
	}).AddRow(rec.ID, rec.Name, rec.SMILES, rec.Formula, rec.HeavyAtoms, rec.CreatedAt, rec.UpdatedAt)
}

func (s *MoleculeRepoSuite) TestSave() {
	rec := s.record()
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO molecules")).
		WithArgs(rec.ID, rec.Name, rec.SMILES, rec.Formula, rec.HeavyAtoms, rec.CreatedAt, rec.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Save(context.Background(), rec))
}

func (s *MoleculeRepoSuite) TestGetByID() {
	rec := s.record()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM molecules WHERE id =")).
		WithArgs(rec.ID).
		WillReturnRows(moleculeRows(rec))

	got, err := s.repo.GetByID(context.Background(), rec.ID)
	s.NoError(err)
	s.Equal(rec.SMILES, got.SMILES)
	s.Equal(rec.HeavyAtoms, got.HeavyAtoms)
}

func (s *MoleculeRepoSuite) TestGetByID_NotFound() {
	id := uuid.New()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM molecules WHERE id =")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.GetByID(context.Background(), id)
	s.True(errors.IsCode(err, errors.CodeMoleculeNotFound))
}

func (s *MoleculeRepoSuite) TestGetBySMILES() {
	rec := s.record()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM molecules WHERE smiles =")).
		WithArgs(rec.SMILES).
		WillReturnRows(moleculeRows(rec))

	got, err := s.repo.GetBySMILES(context.Background(), rec.SMILES)
	s.NoError(err)
	s.Equal(rec.ID, got.ID)
}

func (s *MoleculeRepoSuite) TestList() {
	rec := s.record()
	s.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT")).
		WithArgs(10, 0).
		WillReturnRows(moleculeRows(rec))

	list, err := s.repo.List(context.Background(), 10, 0)
	s.NoError(err)
	s.Len(list, 1)
	s.Equal("benzene", list[0].Name)
}

func (s *MoleculeRepoSuite) TestDelete() {
	id := uuid.New()
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM molecules WHERE id =")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Delete(context.Background(), id))
}

func (s *MoleculeRepoSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM molecules WHERE id =")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Delete(context.Background(), id)
	s.True(errors.IsCode(err, errors.CodeMoleculeNotFound))
}

func (s *MoleculeRepoSuite) TestCount() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM molecules")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := s.repo.Count(context.Background())
	s.NoError(err)
	s.Equal(int64(7), n)
}

func TestMoleculeRepoSuite(t *testing.T) {
	suite.Run(t, new(MoleculeRepoSuite))
}
