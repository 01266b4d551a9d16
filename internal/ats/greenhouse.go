package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/openvagas/ingestor/internal/ingest"
)

const greenhouseAPIBase = "https://boards-api.greenhouse.io/v1/boards"

// Greenhouse scrapes boards.greenhouse.io postings and lists whole boards
// through the public boards API.
type Greenhouse struct {
	client  *http.Client
	limiter *HostLimiter
	apiBase string
}

// NewGreenhouse builds the strategy.
func NewGreenhouse(client *http.Client, limiter *HostLimiter) *Greenhouse {
	return &Greenhouse{client: client, limiter: limiter, apiBase: greenhouseAPIBase}
}

// Type reports the ATS tag.
func (g *Greenhouse) Type() ingest.ATSType { return ingest.ATSGreenhouse }

// Scrape parses one posting page.
func (g *Greenhouse) Scrape(pageURL, html string) (ingest.ScrapedJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ingest.ScrapedJob{}, fmt.Errorf("greenhouse parse: %w", err)
	}

	title := firstMatch(doc,
		selectorText(".app-title"),
		selectorText("h1"),
		metaProperty("og:title"),
		pageTitle,
	)
	if title == "" {
		title = "Untitled position"
	}

	company := firstMatch(doc,
		selectorText(".company-name"),
		metaProperty("og:site_name"),
	)
	if company == "" {
		company = boardTokenFromURL(pageURL)
	}

	location := NormalizeLocation(firstMatch(doc,
		selectorText(".location"),
		selectorText("[data-testid='job-location']"),
		metaName("geo.placename"),
	))

	description := firstMatch(doc,
		selectorHTML("#content"),
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
		CompanyName: strings.TrimPrefix(company, "Jobs at "),
	}, nil
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// ListJobs enumerates every open posting on the company's board via the
// public boards API, keyed by Greenhouse's native job id.
func (g *Greenhouse) ListJobs(ctx context.Context, company ingest.Company) ([]ingest.ScrapedJob, error) {
	token := boardTokenFromURL(company.CareersURL)
	if token == "" {
		return nil, fmt.Errorf("greenhouse: no board token in %q", company.CareersURL)
	}
	endpoint := fmt.Sprintf("%s/%s/jobs?content=true", g.apiBase, token)

	if err := g.limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("greenhouse rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse request: %w", err)
	}
	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse get board %s: %w", token, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("greenhouse board %s: status %d", token, res.StatusCode)
	}

	var payload greenhouseResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("greenhouse decode board %s: %w", token, err)
	}

	out := make([]ingest.ScrapedJob, 0, len(payload.Jobs))
	for _, j := range payload.Jobs {
		if j.Title == "" || j.AbsoluteURL == "" {
			continue
		}
		description := j.Content
		if description == "" {
			description = ingest.PlaceholderDescription
		}
		scraped := ingest.ScrapedJob{
			Title:       j.Title,
			Description: description,
			Location:    NormalizeLocation(j.Location.Name),
			ApplyURL:    j.AbsoluteURL,
			CompanyName: company.Name,
			ExternalID:  fmt.Sprintf("%d", j.ID),
		}
		if t, err := time.Parse(time.RFC3339, j.UpdatedAt); err == nil {
			scraped.PostedAt = &t
		}
		out = append(out, scraped)
	}
	return out, nil
}

// boardTokenFromURL pulls the board slug out of a careers URL
// (https://boards.greenhouse.io/acme -> acme).
func boardTokenFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return ""
	}
	return segs[0]
}
