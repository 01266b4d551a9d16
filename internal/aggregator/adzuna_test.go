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

func TestAdzunaFetchWithoutCredentials(t *testing.T) {
	a := NewAdzuna(AdzunaConfig{}, nil)

	_, err := a.Fetch(context.Background())
	assert.ErrorIs(t, err, ingest.ErrMissingCredentials)
}

func TestAdzunaFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id-1", r.URL.Query().Get("app_id"))
		assert.Equal(t, "key-1", r.URL.Query().Get("app_key"))
		assert.Equal(t, "golang", r.URL.Query().Get("what"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"id": "az-1", "title": "Golang Developer", "description": "Backend work",
			 "redirect_url": "https://adzuna.com/land/az-1",
			 "company": {"display_name": "Acme"},
			 "location": {"display_name": "São Paulo, Brazil"},
			 "created": "2026-08-10T08:00:00Z"},
			{"id": "", "title": "Broken", "redirect_url": "https://adzuna.com/land/az-2"}
		]}`))
	}))
	defer srv.Close()

	a := NewAdzuna(AdzunaConfig{AppID: "id-1", AppKey: "key-1", What: "golang"}, srv.Client())
	a.baseURL = srv.URL

	jobs, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "az-1", job.ExternalID)
	assert.Equal(t, "Acme", job.CompanyName)
	require.NotNil(t, job.PostedAt)
}
