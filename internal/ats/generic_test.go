package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvagas/ingestor/internal/ingest"
)

func TestGenericScrape(t *testing.T) {
	html := `<html>
<head>
  <meta property="og:site_name" content="Acme Careers">
  <title>Product Designer - Acme Careers</title>
</head>
<body><h1>Product Designer</h1><p>lots of unstructured page text</p></body>
</html>`

	g := NewGeneric()
	job, err := g.Scrape("https://careers.acme.com/openings/42", html)
	require.NoError(t, err)

	assert.Equal(t, "Product Designer", job.Title)
	assert.Equal(t, "Acme Careers", job.CompanyName)
	assert.Equal(t, ingest.PlaceholderDescription, job.Description,
		"unknown pages never guess at descriptions")
}

func TestGenericScrapeBarePage(t *testing.T) {
	g := NewGeneric()
	job, err := g.Scrape("https://careers.acme.com/openings/42", "<html><body></body></html>")
	require.NoError(t, err)

	assert.Equal(t, "Untitled position", job.Title)
	assert.Equal(t, "careers.acme.com", job.CompanyName)
	assert.Equal(t, ingest.PlaceholderDescription, job.Description)
}
