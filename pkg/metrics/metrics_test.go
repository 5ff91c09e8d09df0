package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New("planning-service")

	m.RecordGridBuild("request")
	m.RecordGridBuild("request")
	m.RecordPhoneResolution("cache")
	m.RecordDeferredLookup("resolved")
	m.RecordBackendFetchError("clients")
	m.RecordHTTPRequest("GET", "/api/v1/fields/{fieldId}/planning", "200", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GridBuildsTotal.WithLabelValues("request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PhoneResolutionsTotal.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeferredLookupsTotal.WithLabelValues("resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendFetchErrorTotal.WithLabelValues("clients")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordGridBuild("request")
		m.RecordGridRecord("placed")
		m.RecordPhoneResolution("cache")
		m.RecordDeferredLookup("failed")
		m.RecordBackendFetchError("reservations")
		m.RecordDirectoryCache("hit")
		m.RecordHTTPRequest("GET", "/", "200", 0)
	})
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New("planning-service")
	m.RecordGridBuild("rebuild")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `planning_service_planning_grid_builds_total{trigger="rebuild"} 1`)
}
