package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserversSelfInitialize(t *testing.T) {
	// Every observer must be callable without an explicit Init.
	assert.NotPanics(t, func() {
		ObserveJobIngested("manual", true)
		ObserveJobIngested("crawler", false)
		ObserveCrawlCompany("ok")
		ObserveCrawlRun()
		ObserveFetchEscalation()
		ObserveConnectorBatch("remotive", "ok")
		ObserveHTTPRequest(http.MethodGet, "/healthz", 5*time.Millisecond)
	})
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	ObserveJobIngested("manual", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ingestor_jobs_total")
}
