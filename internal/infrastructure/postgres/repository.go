package postgres

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/pkg/errors"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// failures, used to detect duplicate SMILES registrations.
const uniqueViolation = "23505"

// MoleculeRecord is one row of the molecule registry.
type MoleculeRecord struct {
	ID         uuid.UUID
	Name       string
	SMILES     string
	Formula    string
	HeavyAtoms int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MoleculeRepository persists molecule records.  It operates on the
// database/sql view of the pgx pool so tests can substitute a mock driver.
type MoleculeRepository struct {
	db       *sql.DB
	logger   logging.Logger
	duration *prometheus.HistogramVec
}

// NewMoleculeRepository constructs a repository over db.
func NewMoleculeRepository(db *sql.DB, logger logging.Logger) *MoleculeRepository {
	return &MoleculeRepository{db: db, logger: logger}
}

// WithQueryDuration records per-query latency into vec, labeled by query
// name.  A nil vec leaves the repository uninstrumented.
func (r *MoleculeRepository) WithQueryDuration(vec *prometheus.HistogramVec) *MoleculeRepository {
	r.duration = vec
	return r
}

// observe times one query when instrumentation is attached.  Use as
// `defer r.observe("save")()`.
func (r *MoleculeRepository) observe(query string) func() {
	if r.duration == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.duration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	}
}

const moleculeColumns = `id, name, smiles, formula, heavy_atoms, created_at, updated_at`

// Save inserts a record.  A duplicate SMILES yields CodeMoleculeExists.
func (r *MoleculeRepository) Save(ctx context.Context, rec *MoleculeRecord) error {
	defer r.observe("save")()
	r.logger.Debug("molecule save", logging.String("id", rec.ID.String()))

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO molecules (`+moleculeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Name, rec.SMILES, rec.Formula, rec.HeavyAtoms, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if goerrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.New(errors.CodeMoleculeExists, "molecule already registered").
				WithDetail("smiles=" + rec.SMILES).WithCause(err)
		}
		return errors.Wrap(err, errors.CodeDatabase, "insert molecule")
	}
	return nil
}

// GetByID fetches one record, or CodeMoleculeNotFound.
func (r *MoleculeRepository) GetByID(ctx context.Context, id uuid.UUID) (*MoleculeRecord, error) {
	defer r.observe("get_by_id")()
	row := r.db.QueryRowContext(ctx, `
		SELECT `+moleculeColumns+` FROM molecules WHERE id = $1`, id)
	return scanMolecule(row)
}

// GetBySMILES fetches the record registered under the exact SMILES text.
func (r *MoleculeRepository) GetBySMILES(ctx context.Context, smiles string) (*MoleculeRecord, error) {
	defer r.observe("get_by_smiles")()
	row := r.db.QueryRowContext(ctx, `
		SELECT `+moleculeColumns+` FROM molecules WHERE smiles = $1`, smiles)
	return scanMolecule(row)
}

// List returns records in insertion order, newest first.
func (r *MoleculeRepository) List(ctx context.Context, limit, offset int) ([]MoleculeRecord, error) {
	defer r.observe("list")()
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+moleculeColumns+` FROM molecules
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "list molecules")
	}
	defer rows.Close()

	var out []MoleculeRecord
	for rows.Next() {
		var rec MoleculeRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SMILES, &rec.Formula,
			&rec.HeavyAtoms, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabase, "scan molecule row")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "iterate molecule rows")
	}
	return out, nil
}

// Delete removes a record, or returns CodeMoleculeNotFound.
func (r *MoleculeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.observe("delete")()
	res, err := r.db.ExecContext(ctx, `DELETE FROM molecules WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "delete molecule")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "delete molecule")
	}
	if affected == 0 {
		return errors.New(errors.CodeMoleculeNotFound, "molecule not found").
			WithDetail("id=" + id.String())
	}
	return nil
}

// Count returns the registry size.
func (r *MoleculeRepository) Count(ctx context.Context) (int64, error) {
	defer r.observe("count")()
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM molecules`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabase, "count molecules")
	}
	return n, nil
}

func scanMolecule(row *sql.Row) (*MoleculeRecord, error) {
	var rec MoleculeRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.SMILES, &rec.Formula,
		&rec.HeavyAtoms, &rec.CreatedAt, &rec.UpdatedAt)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, errors.New(errors.CodeMoleculeNotFound, "molecule not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "scan molecule row")
	}
	return &rec, nil
}
