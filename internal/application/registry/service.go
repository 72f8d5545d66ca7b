// Package registry implements the molecule registry application service:
// validation and normalization of incoming SMILES, persistence through the
// repository, and substructure filtering over stored molecules.
package registry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heliumchem/helium/internal/infrastructure/postgres"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
	"github.com/heliumchem/helium/pkg/chem/ring"
	"github.com/heliumchem/helium/pkg/chem/smarts"
	"github.com/heliumchem/helium/pkg/chem/smiles"
	"github.com/heliumchem/helium/pkg/errors"
)

// Repository is the persistence surface the service needs.  Implemented by
// postgres.MoleculeRepository.
type Repository interface {
	Save(ctx context.Context, rec *postgres.MoleculeRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*postgres.MoleculeRecord, error)
	GetBySMILES(ctx context.Context, smiles string) (*postgres.MoleculeRecord, error)
	List(ctx context.Context, limit, offset int) ([]postgres.MoleculeRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// PatternCompiler compiles SMARTS queries.  Implemented by the search
// service so both services share one pattern cache.
type PatternCompiler interface {
	Compile(pattern string) (*smarts.Pattern, error)
}

// Molecule is the registry's API-facing record.
type Molecule struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	SMILES     string    `json:"smiles"`
	Formula    string    `json:"formula"`
	HeavyAtoms int       `json:"heavy_atoms"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RegisterInput is the payload for registering a molecule.
type RegisterInput struct {
	Name   string `json:"name"`
	SMILES string `json:"smiles"`
}

// ListResult is one page of registered molecules.
type ListResult struct {
	Molecules []Molecule `json:"molecules"`
	Total     int64      `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// FilterResult holds the stored molecules matching a SMARTS pattern.
type FilterResult struct {
	Pattern   string     `json:"pattern"`
	Molecules []Molecule `json:"molecules"`
	Scanned   int        `json:"scanned"`
}

// Service is the molecule registry.
type Service struct {
	repo     Repository
	compiler PatternCompiler
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// NewService builds the registry service.
func NewService(repo Repository, compiler PatternCompiler, m *metrics.Metrics, logger logging.Logger) *Service {
	return &Service{repo: repo, compiler: compiler, metrics: m, logger: logger}
}

// Register validates and stores a molecule.  The SMILES must parse; formula
// and heavy atom count are derived from the parsed graph, not trusted from
// the caller.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Molecule, error) {
	if input.SMILES == "" {
		return nil, errors.InvalidParam("smiles is required")
	}

	mol, err := smiles.Parse(input.SMILES)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidSMILES, "invalid SMILES")
	}

	now := time.Now().UTC()
	rec := &postgres.MoleculeRecord{
		ID:         uuid.New(),
		Name:       input.Name,
		SMILES:     input.SMILES,
		Formula:    mol.Formula(),
		HeavyAtoms: mol.HeavyAtomCount(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.metrics.MoleculesTotal.Inc()
	s.logger.Info("molecule registered",
		logging.String("id", rec.ID.String()),
		logging.String("formula", rec.Formula))
	return recordToAPI(rec), nil
}

// Get returns a molecule by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*Molecule, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.InvalidParam("invalid molecule id").WithCause(err)
	}
	rec, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return recordToAPI(rec), nil
}

// List returns one page of molecules, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) (*ListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.MoleculesTotal.Set(float64(total))

	result := &ListResult{
		Molecules: make([]Molecule, len(records)),
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}
	for i := range records {
		result.Molecules[i] = *recordToAPI(&records[i])
	}
	return result, nil
}

// Delete removes a molecule.
func (s *Service) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.InvalidParam("invalid molecule id").WithCause(err)
	}
	if err := s.repo.Delete(ctx, uid); err != nil {
		return err
	}
	s.metrics.MoleculesTotal.Dec()
	return nil
}

// Filter returns the stored molecules containing the pattern as a
// substructure.  Molecules are scanned page by page; a stored SMILES that no
// longer parses is skipped rather than failing the whole scan.
func (s *Service) Filter(ctx context.Context, pattern string, limit int) (*FilterResult, error) {
	if limit <= 0 {
		limit = 100
	}

	compiled, err := s.compiler.Compile(pattern)
	if err != nil {
		return nil, err
	}

	result := &FilterResult{Pattern: pattern, Molecules: []Molecule{}}
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeSearchFailed, "filter canceled")
		}

		records, err := s.repo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for i := range records {
			result.Scanned++
			mol, err := smiles.Parse(records[i].SMILES)
			if err != nil {
				s.logger.Warn("skipping unparsable stored molecule",
					logging.String("id", records[i].ID.String()),
					logging.Err(err))
				continue
			}
			var rings *ring.Set
			if compiled.RequiresCycles() {
				rings = ring.NewSet(mol)
			}
			var mapping smarts.NoMapping
			if compiled.Search(mol, &mapping, rings, smarts.Unique(true)) {
				result.Molecules = append(result.Molecules, *recordToAPI(&records[i]))
				if len(result.Molecules) >= limit {
					return result, nil
				}
			}
		}
		if len(records) < pageSize {
			return result, nil
		}
	}
}

func recordToAPI(rec *postgres.MoleculeRecord) *Molecule {
	return &Molecule{
		ID:         rec.ID.String(),
		Name:       rec.Name,
		SMILES:     rec.SMILES,
		Formula:    rec.Formula,
		HeavyAtoms: rec.HeavyAtoms,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
