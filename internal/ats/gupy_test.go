package ats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
)

func TestGupyListJobs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/careers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><script>window.__data = {"careerPageId": 4508};</script></html>`))
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4508", r.URL.Query().Get("careerPageId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"id": 77, "name": "Analista de Dados", "description": "SQL e Python",
			 "city": "Curitiba", "state": "PR", "workplaceType": "hybrid",
			 "jobUrl": "https://acme.gupy.io/jobs/77", "publishedDate": "2026-07-15T00:00:00Z"},
			{"id": 78, "name": "", "jobUrl": "https://acme.gupy.io/jobs/78"}
		]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := NewGupy(srv.Client(), nil, zap.NewNop())
	g.apiBase = srv.URL + "/api"

	jobs, err := g.ListJobs(context.Background(), ingest.Company{
		Name:       "Acme",
		CareersURL: srv.URL + "/careers",
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "77", job.ExternalID)
	assert.Equal(t, "Analista de Dados", job.Title)
	assert.Equal(t, "Curitiba, PR", job.Location)
	assert.Nil(t, job.Remote)
	require.NotNil(t, job.PostedAt)
}

func TestGupyListJobsWithoutBoardID(t *testing.T) {
	// A page with no extractable board id is an empty list, not an error:
	// the crawl run moves on to the next company.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Trabalhe conosco</body></html>`))
	}))
	defer srv.Close()

	g := NewGupy(srv.Client(), nil, zap.NewNop())

	jobs, err := g.ListJobs(context.Background(), ingest.Company{Name: "Acme", CareersURL: srv.URL})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestGupyScrape(t *testing.T) {
	html := `<html><body>
  <h1 data-testid="job-title">Pessoa Engenheira de Software</h1>
  <span data-testid="company-name">Acme Brasil</span>
  <span data-testid="job-location">Remoto</span>
  <div data-testid="job-description"><p>Stack Go e Postgres.</p></div>
</body></html>`

	g := NewGupy(nil, nil, zap.NewNop())
	job, err := g.Scrape("https://acme.gupy.io/jobs/77", html)
	require.NoError(t, err)

	assert.Equal(t, "Pessoa Engenheira de Software", job.Title)
	assert.Equal(t, "Acme Brasil", job.CompanyName)
	assert.Equal(t, "Remoto", job.Location)
	assert.Contains(t, job.Description, "Stack Go e Postgres.")
}

func TestGupySubdomain(t *testing.T) {
	assert.Equal(t, "acme", gupySubdomain("https://acme.gupy.io/jobs/1"))
}
