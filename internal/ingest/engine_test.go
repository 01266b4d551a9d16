package ingest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/store"
)

func newEngine(t *testing.T) (*ingest.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return ingest.NewEngine(mem, zap.NewNop()), mem
}

func TestIngestCreatesThenRefreshes(t *testing.T) {
	engine, mem := newEngine(t)
	ctx := context.Background()

	scraped := ingest.ScrapedJob{
		Title:       "Backend Engineer",
		Description: "Build services",
		Location:    "São Paulo, SP",
		ApplyURL:    "https://boards.greenhouse.io/acme/jobs/123",
		CompanyName: "Acme",
	}

	first, created, err := engine.Ingest(ctx, scraped, ingest.SourceCrawler, ingest.ATSGreenhouse, "123")
	require.NoError(t, err)
	assert.True(t, created)

	scraped.Title = "Senior Backend Engineer"
	second, created, err := engine.Ingest(ctx, scraped, ingest.SourceCrawler, ingest.ATSGreenhouse, "123")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Senior Backend Engineer", second.Title)
	assert.Equal(t, 1, mem.JobCount())
}

func TestIngestDistinctSourcesStayDistinct(t *testing.T) {
	// The same posting reached via a manual URL import and via the
	// crawler's external id is two rows: identity is per ingestion path.
	engine, mem := newEngine(t)
	ctx := context.Background()

	url := "https://boards.greenhouse.io/acme/jobs/123"
	scraped := ingest.ScrapedJob{Title: "Backend Engineer", Description: "d", ApplyURL: url, CompanyName: "Acme"}

	_, created, err := engine.Ingest(ctx, scraped, ingest.SourceManual, ingest.ATSGreenhouse, ingest.URLSourceKey(url))
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = engine.Ingest(ctx, scraped, ingest.SourceCrawler, ingest.ATSGreenhouse, "123")
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, 2, mem.JobCount())
}

func TestIngestEmptySourceKey(t *testing.T) {
	engine, _ := newEngine(t)

	_, _, err := engine.Ingest(context.Background(), ingest.ScrapedJob{Title: "x"}, ingest.SourceManual, ingest.ATSUnknown, "")
	assert.Error(t, err)
}

func TestIngestDefaultsCompanyName(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	jobA, _, err := engine.Ingest(ctx, ingest.ScrapedJob{Title: "a"}, ingest.SourceManual, ingest.ATSUnknown, "url:a")
	require.NoError(t, err)
	jobB, _, err := engine.Ingest(ctx, ingest.ScrapedJob{Title: "b", CompanyName: "   "}, ingest.SourceManual, ingest.ATSUnknown, "url:b")
	require.NoError(t, err)

	assert.NotZero(t, jobA.CompanyID)
	assert.Equal(t, jobA.CompanyID, jobB.CompanyID, "blank company names share the fallback row")
}

func TestIngestRemoteResolution(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	// Detected from text when the source has no explicit flag.
	job, _, err := engine.Ingest(ctx, ingest.ScrapedJob{
		Title: "a", Location: "Remote - Brazil", CompanyName: "Acme",
	}, ingest.SourceManual, ingest.ATSUnknown, "url:a")
	require.NoError(t, err)
	assert.True(t, job.Remote)

	// An explicit source flag wins over detection.
	explicit := false
	job, _, err = engine.Ingest(ctx, ingest.ScrapedJob{
		Title: "b", Location: "Remote - Brazil", Remote: &explicit, CompanyName: "Acme",
	}, ingest.SourceManual, ingest.ATSUnknown, "url:b")
	require.NoError(t, err)
	assert.False(t, job.Remote)
}
