// Package search implements the substructure search application service.  It
// compiles SMARTS queries through an LRU pattern cache, parses target SMILES,
// runs the graph search in the requested result mode, and layers the result
// cache and metrics around the core library.
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
	"github.com/heliumchem/helium/pkg/chem"
	"github.com/heliumchem/helium/pkg/chem/ring"
	"github.com/heliumchem/helium/pkg/chem/smarts"
	"github.com/heliumchem/helium/pkg/chem/smiles"
	"github.com/heliumchem/helium/pkg/errors"
)

// Mode selects how much match information a search reports.
type Mode string

const (
	// ModeMatch reports only whether any embedding exists.
	ModeMatch Mode = "match"

	// ModeCount reports the number of embeddings.
	ModeCount Mode = "count"

	// ModeSingle reports the first embedding found.
	ModeSingle Mode = "single"

	// ModeAll reports every embedding, capped at the configured maximum.
	ModeAll Mode = "all"
)

// Request describes one substructure search.
type Request struct {
	// Pattern is the SMARTS query.
	Pattern string

	// Target is the SMILES of the molecule searched.
	Target string

	// Mode selects the result shape.  Empty defaults to ModeMatch.
	Mode Mode

	// Unique drops embeddings that cover an already reported atom set.
	Unique bool
}

// Result is the outcome of one search.
type Result struct {
	Pattern string `json:"pattern"`
	Target  string `json:"target"`
	Mode    Mode   `json:"mode"`
	Matched bool   `json:"matched"`

	// Count is set in ModeCount.
	Count int `json:"count,omitempty"`

	// Mapping is set in ModeSingle: pattern atom i maps to molecule atom
	// Mapping[i].
	Mapping []int `json:"mapping,omitempty"`

	// Mappings is set in ModeAll.
	Mappings [][]int `json:"mappings,omitempty"`

	// Truncated reports that ModeAll stopped at the configured cap.
	Truncated bool `json:"truncated,omitempty"`
}

// ResultCache is the slice of the result cache the service needs.  A nil
// cache disables result caching.  GetOrLoad must collapse concurrent loads
// of the same key into one loader run, the way the Redis cache's
// singleflight group does.
type ResultCache interface {
	GetOrLoad(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
}

// Service runs substructure searches.
type Service struct {
	patterns   *patternCache
	cache      ResultCache
	metrics    *metrics.Metrics
	logger     logging.Logger
	maxMatches int
}

// NewService builds the search service.  cache may be nil.
func NewService(cfg config.SearchConfig, cache ResultCache, m *metrics.Metrics, logger logging.Logger) *Service {
	return &Service{
		patterns:   newPatternCache(cfg.PatternCacheSize),
		cache:      cache,
		metrics:    m,
		logger:     logger,
		maxMatches: cfg.MaxMatches,
	}
}

// Run executes one search.  Compile and parse failures surface as
// CodeInvalidSMARTS / CodeInvalidSMILES errors with caret diagnostics in the
// detail.  With a result cache attached, concurrent identical requests are
// collapsed so the engine runs once per key.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Mode == "" {
		req.Mode = ModeMatch
	}
	switch req.Mode {
	case ModeMatch, ModeCount, ModeSingle, ModeAll:
	default:
		return nil, errors.Newf(errors.CodeInvalidParam, "unknown search mode %q", req.Mode)
	}
	if req.Pattern == "" {
		return nil, errors.InvalidParam("pattern is required")
	}
	if req.Target == "" {
		return nil, errors.InvalidParam("target is required")
	}

	if s.cache == nil {
		return s.search(req)
	}

	var cached Result
	loaded := false
	err := s.cache.GetOrLoad(ctx, cacheKey(req), &cached, func(context.Context) (interface{}, error) {
		loaded = true
		s.metrics.CacheMissesTotal.Inc()
		return s.search(req)
	})
	if err != nil {
		return nil, err
	}
	// The loader did not run in this goroutine: the result came from the
	// cache or from a collapsed concurrent load.
	if !loaded {
		s.metrics.CacheHitsTotal.Inc()
	}
	return &cached, nil
}

// search compiles, parses and runs the engine for one request.
func (s *Service) search(req Request) (*Result, error) {
	pattern, err := s.compile(req.Pattern)
	if err != nil {
		s.metrics.SearchesTotal.WithLabelValues(string(req.Mode), "error").Inc()
		return nil, err
	}

	mol, err := smiles.Parse(req.Target)
	if err != nil {
		s.metrics.SearchesTotal.WithLabelValues(string(req.Mode), "error").Inc()
		return nil, errors.Wrap(err, errors.CodeInvalidSMILES, "invalid target SMILES").
			WithDetail(parseDetail(err))
	}

	// Ring perception is the expensive half of preparation; skip it unless
	// the pattern actually tests ring membership.
	var rings *ring.Set
	if pattern.RequiresCycles() {
		rings = ring.NewSet(mol)
	}

	start := time.Now()
	result := s.execute(pattern, mol, rings, req)
	elapsed := time.Since(start)

	outcome := "no_match"
	if result.Matched {
		outcome = "match"
	}
	s.metrics.SearchesTotal.WithLabelValues(string(req.Mode), outcome).Inc()
	s.metrics.SearchDuration.WithLabelValues(string(req.Mode)).Observe(elapsed.Seconds())

	s.logger.Debug("search complete",
		logging.String("pattern", req.Pattern),
		logging.String("mode", string(req.Mode)),
		logging.Bool("matched", result.Matched),
		logging.Duration("elapsed", elapsed))
	return result, nil
}

// Compile validates a SMARTS query without running a search.  The compiled
// pattern lands in the cache, so validating then searching costs one compile.
func (s *Service) Compile(pattern string) (*smarts.Pattern, error) {
	return s.compile(pattern)
}

func (s *Service) compile(text string) (*smarts.Pattern, error) {
	if p, ok := s.patterns.get(text); ok {
		s.metrics.PatternCacheHits.Inc()
		return p, nil
	}
	s.metrics.PatternCacheMisses.Inc()

	p, err := smarts.Compile(text)
	if err != nil {
		s.metrics.CompileErrorsTotal.Inc()
		return nil, errors.Wrap(err, errors.CodeInvalidSMARTS, "invalid SMARTS pattern").
			WithDetail(parseDetail(err))
	}
	s.patterns.put(text, p)
	return p, nil
}

func (s *Service) execute(pattern *smarts.Pattern, mol *chem.Molecule, rings *ring.Set, req Request) *Result {
	result := &Result{Pattern: req.Pattern, Target: req.Target, Mode: req.Mode}
	unique := smarts.Unique(req.Unique)

	switch req.Mode {
	case ModeMatch:
		var mapping smarts.NoMapping
		result.Matched = pattern.Search(mol, &mapping, rings, unique)

	case ModeCount:
		var mapping smarts.CountMapping
		result.Matched = pattern.Search(mol, &mapping, rings, unique)
		result.Count = mapping.Count
		s.metrics.SearchMatchCount.Observe(float64(mapping.Count))

	case ModeSingle:
		var mapping smarts.SingleMapping
		result.Matched = pattern.Search(mol, &mapping, rings, unique)
		result.Mapping = mapping.Map

	case ModeAll:
		mapping := cappedMapping{limit: s.maxMatches}
		result.Matched = pattern.Search(mol, &mapping, rings, unique)
		result.Mappings = mapping.list.Maps
		result.Truncated = mapping.truncated
		s.metrics.SearchMatchCount.Observe(float64(len(mapping.list.Maps)))
	}
	return result
}

// cappedMapping bounds ModeAll result lists.  The zero limit means
// unlimited.
type cappedMapping struct {
	list      smarts.MappingList
	limit     int
	truncated bool
}

func (m *cappedMapping) Add(embedding []int) bool {
	if m.limit > 0 && len(m.list.Maps) >= m.limit {
		m.truncated = true
		return false
	}
	return m.list.Add(embedding)
}

func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%t|%s|%s", req.Mode, req.Unique, req.Pattern, req.Target)))
	return "search:" + hex.EncodeToString(sum[:16])
}

// parseDetail extracts the multi-line caret diagnostic from a parse error,
// falling back to the plain message.
func parseDetail(err error) string {
	var pe *chem.ParseError
	if goerrors.As(err, &pe) {
		return pe.String()
	}
	return err.Error()
}
