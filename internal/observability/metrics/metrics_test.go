package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New("helium", false)

	m.SearchesTotal.WithLabelValues("count", "match").Inc()
	m.SearchDuration.WithLabelValues("count").Observe(0.002)
	m.SearchMatchCount.Observe(3)
	m.CompileErrorsTotal.Inc()
	m.CacheHitsTotal.Inc()
	m.MoleculesTotal.Set(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("count", "match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompileErrorsTotal))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.MoleculesTotal))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("helium", false)
	m.SearchesTotal.WithLabelValues("single", "match").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "helium_searches_total")
}
