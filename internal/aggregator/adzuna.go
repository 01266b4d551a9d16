package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openvagas/ingestor/internal/ingest"
)

const adzunaAPIBase = "https://api.adzuna.com/v1/api/jobs/br/search/1"

// AdzunaConfig carries the paid API credentials and search parameters.
type AdzunaConfig struct {
	AppID          string
	AppKey         string
	What           string
	ResultsPerPage int
}

// Adzuna pulls listings from the paid Adzuna search API. Without
// credentials the connector degrades to a no-op.
type Adzuna struct {
	cfg     AdzunaConfig
	client  *http.Client
	baseURL string
}

// NewAdzuna builds the connector.
func NewAdzuna(cfg AdzunaConfig, client *http.Client) *Adzuna {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = 50
	}
	return &Adzuna{cfg: cfg, client: client, baseURL: adzunaAPIBase}
}

// Name identifies the connector in logs and metrics.
func (a *Adzuna) Name() string { return "adzuna" }

// SourceType tags rows produced by this connector.
func (a *Adzuna) SourceType() ingest.SourceType { return ingest.SourceAdzuna }

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	RedirectURL string         `json:"redirect_url"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	Created     string         `json:"created"`
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

// Fetch pulls one page of search results.
func (a *Adzuna) Fetch(ctx context.Context) ([]ingest.ScrapedJob, error) {
	if a.cfg.AppID == "" || a.cfg.AppKey == "" {
		return nil, ingest.ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("app_id", a.cfg.AppID)
	params.Set("app_key", a.cfg.AppKey)
	params.Set("results_per_page", fmt.Sprintf("%d", a.cfg.ResultsPerPage))
	if a.cfg.What != "" {
		params.Set("what", a.cfg.What)
	}
	endpoint := a.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna request: %w", err)
	}
	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna status %d", res.StatusCode)
	}

	var payload adzunaResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	out := make([]ingest.ScrapedJob, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.ID == "" || r.Title == "" || r.RedirectURL == "" {
			continue
		}
		company := r.Company.DisplayName
		if company == "" {
			company = "Unknown company"
		}
		description := r.Description
		if description == "" {
			description = ingest.PlaceholderDescription
		}
		scraped := ingest.ScrapedJob{
			Title:       r.Title,
			Description: description,
			Location:    r.Location.DisplayName,
			ApplyURL:    r.RedirectURL,
			CompanyName: company,
			ExternalID:  r.ID,
		}
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			scraped.PostedAt = &t
		}
		out = append(out, scraped)
	}
	return out, nil
}
