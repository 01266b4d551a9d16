package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
)

const gupyAPIBase = "https://portal.api.gupy.io/api/v1/jobs"

// careerPageIDPattern finds the numeric board identifier Gupy embeds in the
// company page payload.
var careerPageIDPattern = regexp.MustCompile(`careerPageId[\"']?\s*[:=]\s*[\"']?(\d+)`)

// Gupy scrapes <company>.gupy.io postings and lists boards through the
// portal API. Listing is a two-step resolution: the numeric board id is
// extracted from the company's public page first, then the listing API is
// called with that id.
type Gupy struct {
	client  *http.Client
	limiter *HostLimiter
	logger  *zap.Logger
	apiBase string
}

// NewGupy builds the strategy.
func NewGupy(client *http.Client, limiter *HostLimiter, logger *zap.Logger) *Gupy {
	return &Gupy{client: client, limiter: limiter, logger: logger, apiBase: gupyAPIBase}
}

// Type reports the ATS tag.
func (g *Gupy) Type() ingest.ATSType { return ingest.ATSGupy }

// Scrape parses one posting page.
func (g *Gupy) Scrape(pageURL, html string) (ingest.ScrapedJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ingest.ScrapedJob{}, fmt.Errorf("gupy parse: %w", err)
	}

	title := firstMatch(doc,
		selectorText("h1[data-testid='job-title']"),
		selectorText("h1"),
		metaProperty("og:title"),
		pageTitle,
	)
	if title == "" {
		title = "Untitled position"
	}

	company := firstMatch(doc,
		selectorText("[data-testid='company-name']"),
		metaProperty("og:site_name"),
	)
	if company == "" {
		company = gupySubdomain(pageURL)
	}

	location := NormalizeLocation(firstMatch(doc,
		selectorText("[data-testid='job-location']"),
		selectorText(".job-location"),
	))

	description := firstMatch(doc,
		selectorHTML("[data-testid='job-description']"),
		selectorHTML(".job-description"),
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

type gupyJob struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	City          string `json:"city"`
	State         string `json:"state"`
	WorkplaceType string `json:"workplaceType"`
	JobURL        string `json:"jobUrl"`
	PublishedDate string `json:"publishedDate"`
}

type gupyResponse struct {
	Data []gupyJob `json:"data"`
}

// ListJobs resolves the company's board id from its public page, then calls
// the portal listing API. A page without an extractable id yields an empty
// list, not an error, so a crawl run can continue.
func (g *Gupy) ListJobs(ctx context.Context, company ingest.Company) ([]ingest.ScrapedJob, error) {
	boardID, err := g.resolveBoardID(ctx, company.CareersURL)
	if err != nil {
		return nil, err
	}
	if boardID == "" {
		g.logger.Warn("gupy board id not found on company page",
			zap.String("company", company.Name),
			zap.String("careers_url", company.CareersURL),
		)
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s?careerPageId=%s&limit=400", g.apiBase, boardID)
	if err := g.limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("gupy rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("gupy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gupy list board %s: %w", boardID, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gupy board %s: status %d", boardID, res.StatusCode)
	}

	var payload gupyResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("gupy decode board %s: %w", boardID, err)
	}

	out := make([]ingest.ScrapedJob, 0, len(payload.Data))
	for _, j := range payload.Data {
		if j.Name == "" || j.JobURL == "" {
			continue
		}
		description := j.Description
		if description == "" {
			description = ingest.PlaceholderDescription
		}
		scraped := ingest.ScrapedJob{
			Title:       j.Name,
			Description: description,
			Location:    NormalizeLocation(joinNonEmpty(j.City, j.State)),
			ApplyURL:    j.JobURL,
			CompanyName: company.Name,
			ExternalID:  fmt.Sprintf("%d", j.ID),
		}
		if strings.EqualFold(j.WorkplaceType, "remote") {
			remote := true
			scraped.Remote = &remote
		}
		if t, err := time.Parse(time.RFC3339, j.PublishedDate); err == nil {
			scraped.PostedAt = &t
		}
		out = append(out, scraped)
	}
	return out, nil
}

func (g *Gupy) resolveBoardID(ctx context.Context, careersURL string) (string, error) {
	if err := g.limiter.WaitURL(ctx, careersURL); err != nil {
		return "", fmt.Errorf("gupy rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, careersURL, nil)
	if err != nil {
		return "", fmt.Errorf("gupy board page request: %w", err)
	}
	res, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gupy fetch board page: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gupy board page: status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("gupy read board page: %w", err)
	}
	m := careerPageIDPattern.FindSubmatch(body)
	if m == nil {
		return "", nil
	}
	return string(m[1]), nil
}

func gupySubdomain(raw string) string {
	host := boardHost(raw)
	if i := strings.Index(host, ".gupy.io"); i > 0 {
		return host[:i]
	}
	return host
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
