package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvagas/ingestor/internal/ingest"
)

func TestWorkdayScrape(t *testing.T) {
	html := `<html><body>
  <h1 data-automation-id="jobPostingHeader">Staff Engineer</h1>
  <div data-automation-id="locations">Austin, TX</div>
  <div>Plenty of body text that must not become the description.</div>
</body></html>`

	w := NewWorkday()
	job, err := w.Scrape("https://acme.wd5.myworkdayjobs.com/en-US/careers/job/x", html)
	require.NoError(t, err)

	assert.Equal(t, "Staff Engineer", job.Title)
	assert.Equal(t, "acme", job.CompanyName, "falls back to the tenant")
	assert.Equal(t, "Austin, TX", job.Location)
	assert.Equal(t, ingest.PlaceholderDescription, job.Description,
		"workday records always defer the description to manual completion")
	assert.NotEmpty(t, job.Title)
}

func TestWorkdayTenant(t *testing.T) {
	assert.Equal(t, "acme", workdayTenant("https://acme.wd5.myworkdayjobs.com/x"))
}
