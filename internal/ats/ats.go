// Package ats contains the per-ATS extraction strategies: parsing one
// fetched document into a normalized record and, where the ATS exposes
// one, calling its bulk-listing API for a company.
package ats

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
)

// Scraper parses one already-fetched document into a normalized record.
type Scraper interface {
	Type() ingest.ATSType
	Scrape(url, html string) (ingest.ScrapedJob, error)
}

// Lister enumerates all open postings for a company via the ATS's own
// listing endpoint, filling ExternalID from the native job id.
type Lister interface {
	ListJobs(ctx context.Context, company ingest.Company) ([]ingest.ScrapedJob, error)
}

// Classify maps a URL or configured provider identifier to an ATS by
// substring matching against each platform's characteristic domain
// fragment. First match wins; no match yields ATSUnknown.
func Classify(urlOrProvider string) ingest.ATSType {
	s := strings.ToLower(urlOrProvider)
	switch {
	case strings.Contains(s, "greenhouse.io") || s == string(ingest.ATSGreenhouse):
		return ingest.ATSGreenhouse
	case strings.Contains(s, "lever.co") || s == string(ingest.ATSLever):
		return ingest.ATSLever
	case strings.Contains(s, "myworkdayjobs.com") || strings.Contains(s, "workday") || s == string(ingest.ATSWorkday):
		return ingest.ATSWorkday
	case strings.Contains(s, "gupy.io") || s == string(ingest.ATSGupy):
		return ingest.ATSGupy
	default:
		return ingest.ATSUnknown
	}
}

// Registry holds the configured strategies and dispatches by ATS tag.
type Registry struct {
	scrapers map[ingest.ATSType]Scraper
	listers  map[ingest.ATSType]Lister
	generic  Scraper
}

// NewRegistry wires every strategy on a shared HTTP client and host
// limiter. Workday and the generic strategy support scraping only.
func NewRegistry(client *http.Client, limiter *HostLimiter, logger *zap.Logger) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	greenhouse := NewGreenhouse(client, limiter)
	lever := NewLever(client, limiter)
	gupy := NewGupy(client, limiter, logger)
	workday := NewWorkday()
	generic := NewGeneric()

	return &Registry{
		scrapers: map[ingest.ATSType]Scraper{
			ingest.ATSGreenhouse: greenhouse,
			ingest.ATSLever:      lever,
			ingest.ATSGupy:       gupy,
			ingest.ATSWorkday:    workday,
		},
		listers: map[ingest.ATSType]Lister{
			ingest.ATSGreenhouse: greenhouse,
			ingest.ATSLever:      lever,
			ingest.ATSGupy:       gupy,
		},
		generic: generic,
	}
}

// ScraperFor returns the single-page strategy for an ATS tag, falling back
// to the generic scraper for unknown sources.
func (r *Registry) ScraperFor(ats ingest.ATSType) Scraper {
	if s, ok := r.scrapers[ats]; ok {
		return s
	}
	return r.generic
}

// ListerFor returns the bulk-listing strategy for an ATS tag, if the
// platform exposes a public listing API.
func (r *Registry) ListerFor(ats ingest.ATSType) (Lister, bool) {
	l, ok := r.listers[ats]
	return l, ok
}
