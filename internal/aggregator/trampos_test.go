package aggregator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvagas/ingestor/internal/ingest"
)

func TestTramposFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><ul>
  <li class="opportunity">
    <a href="/oportunidades/12345"></a>
    <h2 class="opportunity-title">Dev Backend Pleno</h2>
    <span class="opportunity-company">Acme Brasil</span>
    <span class="opportunity-location">São Paulo</span>
  </li>
  <li class="opportunity">
    <a href="/oportunidades/sem-id"></a>
    <h2 class="opportunity-title">Sem ID</h2>
  </li>
</ul></body></html>`))
	}))
	defer srv.Close()

	tr := NewTrampos(srv.Client())
	tr.baseURL = srv.URL

	jobs, err := tr.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1, "entries without a numeric id are dropped")

	job := jobs[0]
	assert.Equal(t, "12345", job.ExternalID)
	assert.Equal(t, "Dev Backend Pleno", job.Title)
	assert.Equal(t, "Acme Brasil", job.CompanyName)
	assert.Equal(t, "https://trampos.co/oportunidades/12345", job.ApplyURL)
	assert.Equal(t, ingest.PlaceholderDescription, job.Description,
		"the list view carries no description")
}

func TestTramposID(t *testing.T) {
	assert.Equal(t, "12345", tramposID("/oportunidades/12345"))
	assert.Equal(t, "12345", tramposID("https://trampos.co/oportunidades/12345?x=1"))
	assert.Equal(t, "", tramposID("/outra/coisa"))
}
