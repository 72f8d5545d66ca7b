package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliumchem/helium/internal/application/registry"
	appsearch "github.com/heliumchem/helium/internal/application/search"
	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/infrastructure/postgres"
	"github.com/heliumchem/helium/internal/interfaces/http/handlers"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
	"github.com/heliumchem/helium/pkg/errors"
)

// memRepo is an in-memory molecule repository for handler tests.
type memRepo struct {
	records map[uuid.UUID]postgres.MoleculeRecord
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[uuid.UUID]postgres.MoleculeRecord{}}
}

func (r *memRepo) Save(_ context.Context, rec *postgres.MoleculeRecord) error {
	for _, existing := range r.records {
		if existing.SMILES == rec.SMILES {
			return errors.New(errors.CodeMoleculeExists, "molecule already registered")
		}
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*postgres.MoleculeRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, errors.New(errors.CodeMoleculeNotFound, "molecule not found")
	}
	return &rec, nil
}

func (r *memRepo) GetBySMILES(_ context.Context, smiles string) (*postgres.MoleculeRecord, error) {
	for _, rec := range r.records {
		if rec.SMILES == smiles {
			rec := rec
			return &rec, nil
		}
	}
	return nil, errors.New(errors.CodeMoleculeNotFound, "molecule not found")
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]postgres.MoleculeRecord, error) {
	var out []postgres.MoleculeRecord
	for _, rec := range r.records {
		out = append(out, rec)
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.records[id]; !ok {
		return errors.New(errors.CodeMoleculeNotFound, "molecule not found")
	}
	delete(r.records, id)
	return nil
}

func (r *memRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func newTestRouter(t *testing.T, readyErr error) http.Handler {
	t.Helper()
	m := metrics.New("test", false)
	logger := logging.NewNop()

	searchSvc := appsearch.NewService(config.SearchConfig{PatternCacheSize: 8, MaxMatches: 100}, nil, m, logger)
	registrySvc := registry.NewService(newMemRepo(), searchSvc, m, logger)

	checks := map[string]handlers.HealthCheck{
		"database": func(context.Context) error { return readyErr },
	}

	return NewRouter(RouterConfig{
		SearchHandler:   handlers.NewSearchHandler(searchSvc),
		MoleculeHandler: handlers.NewMoleculeHandler(registrySvc),
		HealthHandler:   handlers.NewHealthHandler(checks),
		Logger:          logger,
		Metrics:         m,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"pattern": "C",
		"target":  "CCC",
		"mode":    "count",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result appsearch.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Matched)
	assert.Equal(t, 3, result.Count)
}

func TestSearchEndpointNonUnique(t *testing.T) {
	router := newTestRouter(t, nil)

	unique := false
	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"pattern": "c1ccccc1",
		"target":  "c1ccccc1",
		"mode":    "count",
		"unique":  &unique,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result appsearch.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 12, result.Count)
}

func TestSearchEndpointBadPattern(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"pattern": "C(C",
		"target":  "CCC",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlersErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeInvalidSMARTS.String(), resp.Code)
	assert.NotEmpty(t, resp.Detail)
}

func TestSearchEndpointBadBody(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// handlersErrorResponse mirrors the handler error body for assertions.
type handlersErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func TestMoleculeLifecycle(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/molecules", map[string]string{
		"name":   "ethanol",
		"smiles": "CCO",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created registry.Molecule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "C2H6O", created.Formula)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/molecules/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/molecules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list registry.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/molecules/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/molecules/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoleculeDuplicateConflict(t *testing.T) {
	router := newTestRouter(t, nil)

	body := map[string]string{"smiles": "CCO"}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/molecules", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/molecules", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMoleculeFilterEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, s := range []string{"CCO", "CCC"} {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/molecules", map[string]string{"smiles": s})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/molecules/filter?pattern=CO", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result registry.FilterResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Molecules, 1)
	assert.Equal(t, "CCO", result.Molecules[0].SMILES)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/molecules/filter", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessDegraded(t *testing.T) {
	router := newTestRouter(t, fmt.Errorf("connection refused"))

	rec := doJSON(t, router, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	// Generate one instrumented request first.
	doJSON(t, router, http.MethodPost, "/api/v1/search", map[string]string{
		"pattern": "C", "target": "C",
	})

	rec := doJSON(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}
