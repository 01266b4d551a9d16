package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/openvagas/ingestor/internal/ingest"
)

const leverAPIBase = "https://api.lever.co/v0/postings"

// Lever scrapes jobs.lever.co postings and lists companies through the
// public postings API.
type Lever struct {
	client  *http.Client
	limiter *HostLimiter
	apiBase string
}

// NewLever builds the strategy.
func NewLever(client *http.Client, limiter *HostLimiter) *Lever {
	return &Lever{client: client, limiter: limiter, apiBase: leverAPIBase}
}

// Type reports the ATS tag.
func (l *Lever) Type() ingest.ATSType { return ingest.ATSLever }

// Scrape parses one posting page.
func (l *Lever) Scrape(pageURL, html string) (ingest.ScrapedJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ingest.ScrapedJob{}, fmt.Errorf("lever parse: %w", err)
	}

	title := firstMatch(doc,
		selectorText(".posting-headline h2"),
		selectorText("h2"),
		metaProperty("og:title"),
		pageTitle,
	)
	if title == "" {
		title = "Untitled position"
	}

	company := firstMatch(doc,
		metaProperty("og:site_name"),
		selectorText(".main-header-logo img[alt]"),
	)
	if company == "" {
		company = boardTokenFromURL(pageURL)
	}

	location := NormalizeLocation(firstMatch(doc,
		selectorText(".posting-categories .location"),
		selectorText(".posting-categories .sort-by-time"),
		selectorText("[data-qa='location']"),
	))

	description := firstMatch(doc,
		selectorHTML(".section-wrapper .section:not(.last-section-apply)"),
		selectorHTML("[data-qa='job-description']"),
		metaProperty("og:description"),
		selectorText("body"),
	)
	if description == "" {
		description = ingest.PlaceholderDescription
	}

	return ingest.ScrapedJob{
		Title:       title,
		Description: description,
		Location:    location,
		ApplyURL:    pageURL,
		CompanyName: company,
	}, nil
}

type leverCategories struct {
	Team         string   `json:"team"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

type leverPosting struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Description   string          `json:"description"`
	Categories    leverCategories `json:"categories"`
	CreatedAt     int64           `json:"createdAt"`
	WorkplaceType string          `json:"workplaceType"`
	HostedURL     string          `json:"hostedUrl"`
}

// ListJobs enumerates a company's postings through the public API, keyed by
// Lever's native posting id.
func (l *Lever) ListJobs(ctx context.Context, company ingest.Company) ([]ingest.ScrapedJob, error) {
	slug := boardTokenFromURL(company.CareersURL)
	if slug == "" {
		return nil, fmt.Errorf("lever: no company slug in %q", company.CareersURL)
	}
	endpoint := fmt.Sprintf("%s/%s?mode=json", l.apiBase, slug)

	if err := l.limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("lever rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("lever request: %w", err)
	}
	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever get %s: %w", slug, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lever %s: status %d", slug, res.StatusCode)
	}

	var postings []leverPosting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode %s: %w", slug, err)
	}

	out := make([]ingest.ScrapedJob, 0, len(postings))
	for _, p := range postings {
		if p.ID == "" || p.HostedURL == "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		location := p.Categories.Location
		if len(p.Categories.AllLocations) > 0 {
			location = strings.Join(p.Categories.AllLocations, ", ")
		}
		description := p.Description
		if description == "" {
			description = ingest.PlaceholderDescription
		}
		scraped := ingest.ScrapedJob{
			Title:       strings.TrimSpace(p.Text),
			Description: description,
			Location:    NormalizeLocation(location),
			ApplyURL:    p.HostedURL,
			CompanyName: company.Name,
			ExternalID:  p.ID,
		}
		if strings.EqualFold(p.WorkplaceType, "remote") {
			remote := true
			scraped.Remote = &remote
		}
		if p.CreatedAt > 0 {
			t := time.UnixMilli(p.CreatedAt).UTC()
			scraped.PostedAt = &t
		}
		out = append(out, scraped)
	}
	return out, nil
}
