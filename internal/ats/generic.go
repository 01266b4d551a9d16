package ats

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/openvagas/ingestor/internal/ingest"
)

// Generic is the fallback strategy for pages no classifier fragment
// matches. Like Workday it captures title/company/location only and defers
// the description to manual completion.
type Generic struct{}

// NewGeneric builds the strategy.
func NewGeneric() *Generic { return &Generic{} }

// Type reports the ATS tag.
func (g *Generic) Type() ingest.ATSType { return ingest.ATSUnknown }

// Scrape parses one page of unknown origin.
func (g *Generic) Scrape(pageURL, html string) (ingest.ScrapedJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ingest.ScrapedJob{}, fmt.Errorf("generic parse: %w", err)
	}

	title := firstMatch(doc,
		selectorText("h1"),
		metaProperty("og:title"),
		pageTitle,
	)
	if title == "" {
		title = "Untitled position"
	}

	company := firstMatch(doc,
		metaProperty("og:site_name"),
		metaName("author"),
	)
	if company == "" {
		company = boardHost(pageURL)
	}

	location := NormalizeLocation(firstMatch(doc,
		selectorText(".location"),
		selectorText("[data-testid='job-location']"),
		metaName("geo.placename"),
	))

	return ingest.ScrapedJob{
		Title:       title,
		Description: ingest.PlaceholderDescription,
		Location:    location,
		ApplyURL:    pageURL,
		CompanyName: company,
	}, nil
}
