package ats

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/openvagas/ingestor/internal/ingest"
)

// Workday supports scraping only. Its markup is not reliably parseable for
// full descriptions, so it yields a deliberately minimal record with the
// pending-completion placeholder. This is a reduced-fidelity mode, not a
// defect.
type Workday struct{}

// NewWorkday builds the strategy.
func NewWorkday() *Workday { return &Workday{} }

// Type reports the ATS tag.
func (w *Workday) Type() ingest.ATSType { return ingest.ATSWorkday }

// Scrape parses one posting page into a title/company/location record.
func (w *Workday) Scrape(pageURL, html string) (ingest.ScrapedJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ingest.ScrapedJob{}, fmt.Errorf("workday parse: %w", err)
	}

	title := firstMatch(doc,
		selectorText("[data-automation-id='jobPostingHeader']"),
		selectorText("h1"),
		metaProperty("og:title"),
		pageTitle,
	)
	if title == "" {
		title = "Untitled position"
	}

	company := firstMatch(doc,
		metaProperty("og:site_name"),
	)
	if company == "" {
		company = workdayTenant(pageURL)
	}

	location := NormalizeLocation(firstMatch(doc,
		selectorText("[data-automation-id='locations']"),
		selectorText("[data-automation-id='location']"),
	))

	return ingest.ScrapedJob{
		Title:       title,
		Description: ingest.PlaceholderDescription,
		Location:    location,
		ApplyURL:    pageURL,
		CompanyName: company,
	}, nil
}

// workdayTenant pulls the tenant out of a myworkdayjobs host
// (acme.wd5.myworkdayjobs.com -> acme).
func workdayTenant(raw string) string {
	host := boardHost(raw)
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}
