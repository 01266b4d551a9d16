package aggregator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/aggregator"
	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/store"
)

type fakeConnector struct {
	name     string
	source   ingest.SourceType
	listings []ingest.ScrapedJob
	err      error
}

func (f *fakeConnector) Name() string                  { return f.name }
func (f *fakeConnector) SourceType() ingest.SourceType { return f.source }
func (f *fakeConnector) Fetch(context.Context) ([]ingest.ScrapedJob, error) {
	return f.listings, f.err
}

func listing(id string) ingest.ScrapedJob {
	return ingest.ScrapedJob{
		Title:       "Job " + id,
		Description: "d",
		ApplyURL:    "https://example.com/" + id,
		CompanyName: "Acme",
		ExternalID:  id,
	}
}

func TestRunAllIsolatesConnectorFailures(t *testing.T) {
	mem := store.NewMemory()
	engine := ingest.NewEngine(mem, zap.NewNop())
	runner := aggregator.NewRunner(engine, []aggregator.Connector{
		&fakeConnector{name: "a", source: ingest.SourceRemotive, listings: []ingest.ScrapedJob{listing("1")}},
		&fakeConnector{name: "b", source: ingest.SourceAdzuna, err: errors.New("boom")},
		&fakeConnector{name: "c", source: ingest.SourceTrampos, listings: []ingest.ScrapedJob{listing("2")}},
	}, zap.NewNop())

	report := runner.RunAll(context.Background())

	assert.Equal(t, 3, report.Connectors)
	assert.Equal(t, 1, report.Errors, "the failing connector is counted, not fatal")
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 2, mem.JobCount())
}

func TestRunAllSkipsUnconfiguredConnector(t *testing.T) {
	mem := store.NewMemory()
	engine := ingest.NewEngine(mem, zap.NewNop())
	runner := aggregator.NewRunner(engine, []aggregator.Connector{
		&fakeConnector{name: "adzuna", source: ingest.SourceAdzuna, err: ingest.ErrMissingCredentials},
	}, zap.NewNop())

	report := runner.RunAll(context.Background())

	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Errors, "missing credentials degrade, they do not fail")
}

func TestRunAllDropsListingsWithoutExternalID(t *testing.T) {
	mem := store.NewMemory()
	engine := ingest.NewEngine(mem, zap.NewNop())
	noID := listing("x")
	noID.ExternalID = ""
	runner := aggregator.NewRunner(engine, []aggregator.Connector{
		&fakeConnector{name: "a", source: ingest.SourceRemotive, listings: []ingest.ScrapedJob{noID, listing("1")}},
	}, zap.NewNop())

	report := runner.RunAll(context.Background())

	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, mem.JobCount())
}

func TestRunAllIsIdempotent(t *testing.T) {
	mem := store.NewMemory()
	engine := ingest.NewEngine(mem, zap.NewNop())
	runner := aggregator.NewRunner(engine, []aggregator.Connector{
		&fakeConnector{name: "a", source: ingest.SourceRemotive, listings: []ingest.ScrapedJob{listing("1")}},
	}, zap.NewNop())

	first := runner.RunAll(context.Background())
	second := runner.RunAll(context.Background())

	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, second.Created, "re-pulling the same feed updates in place")
	assert.Equal(t, 1, mem.JobCount())
}
