package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvagas/ingestor/internal/ingest"
)

func TestMemoryUpsertCompanyReusesRow(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.UpsertCompany(ctx, ingest.CompanyUpsert{
		Name:        "Acme",
		ATSProvider: ingest.ATSGreenhouse,
		CareersURL:  "https://boards.greenhouse.io/acme",
	})
	require.NoError(t, err)

	// A later source contributing less metadata never clobbers the row.
	second, err := m.UpsertCompany(ctx, ingest.CompanyUpsert{Name: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, ingest.ATSGreenhouse, second.ATSProvider)
}

func TestMemoryUpsertJob(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	job := ingest.Job{
		SourceType:  ingest.SourceCrawler,
		SourceKey:   "123",
		Title:       "Engineer",
		Description: "d",
		ApplyURL:    "https://x.com/1",
	}

	stored, created, err := m.UpsertJob(ctx, job)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, stored.ID)

	job.Title = "Senior Engineer"
	job.ApplyURL = "https://x.com/other" // immutable on update
	updated, created, err := m.UpsertJob(ctx, job)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.ID, updated.ID)
	assert.Equal(t, "Senior Engineer", updated.Title)
	assert.Equal(t, "https://x.com/1", updated.ApplyURL)
	assert.Equal(t, 1, m.JobCount())
}

func TestMemoryListCrawlableCompanies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.UpsertCompany(ctx, ingest.CompanyUpsert{
		Name: "Crawlable", ATSProvider: ingest.ATSLever, CareersURL: "https://jobs.lever.co/c",
	})
	require.NoError(t, err)
	_, err = m.UpsertCompany(ctx, ingest.CompanyUpsert{Name: "ManualOnly"})
	require.NoError(t, err)

	companies, err := m.ListCrawlableCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Crawlable", companies[0].Name)
}

func TestMemoryTouchCompanyCrawledAt(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c, err := m.UpsertCompany(ctx, ingest.CompanyUpsert{
		Name: "Acme", ATSProvider: ingest.ATSLever, CareersURL: "https://jobs.lever.co/acme",
	})
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, m.TouchCompanyCrawledAt(ctx, c.ID, at))
	assert.Error(t, m.TouchCompanyCrawledAt(ctx, 999, at))

	companies, err := m.ListCrawlableCompanies(ctx)
	require.NoError(t, err)
	require.NotNil(t, companies[0].LastCrawledAt)
	assert.Equal(t, at, *companies[0].LastCrawledAt)
}

func TestMemorySaveJobForUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SaveJobForUser(ctx, "u1", 1))
	require.NoError(t, m.SaveJobForUser(ctx, "u1", 1))
	require.NoError(t, m.SaveJobForUser(ctx, "u1", 2))

	assert.Equal(t, []int64{1, 2}, m.SavedJobs("u1"))
	assert.Empty(t, m.SavedJobs("u2"))
}
