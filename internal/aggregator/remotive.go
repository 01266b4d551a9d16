package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openvagas/ingestor/internal/ingest"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

// Remotive pulls listings from the free remote-jobs API and keeps only
// those whose required location is reachable from Brazil (see
// LocationAllowed).
type Remotive struct {
	client  *http.Client
	baseURL string
}

// NewRemotive builds the connector.
func NewRemotive(client *http.Client) *Remotive {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Remotive{client: client, baseURL: remotiveAPIURL}
}

// Name identifies the connector in logs and metrics.
func (r *Remotive) Name() string { return "remotive" }

// SourceType tags rows produced by this connector.
func (r *Remotive) SourceType() ingest.SourceType { return ingest.SourceRemotive }

type remotiveJob struct {
	ID                        int64  `json:"id"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	URL                       string `json:"url"`
	Description               string `json:"description"`
	PublicationDate           string `json:"publication_date"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// Fetch pulls the full remote-jobs feed and applies the location filter.
func (r *Remotive) Fetch(ctx context.Context) ([]ingest.ScrapedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("remotive request: %w", err)
	}
	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remotive status %d", res.StatusCode)
	}

	var payload remotiveResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("remotive decode: %w", err)
	}

	remote := true
	var out []ingest.ScrapedJob
	for _, j := range payload.Jobs {
		if j.ID == 0 || j.Title == "" || j.URL == "" {
			continue
		}
		if !LocationAllowed(j.CandidateRequiredLocation) {
			continue
		}
		company := j.CompanyName
		if company == "" {
			company = "Unknown company"
		}
		description := j.Description
		if description == "" {
			description = ingest.PlaceholderDescription
		}
		scraped := ingest.ScrapedJob{
			Title:       j.Title,
			Description: description,
			Location:    j.CandidateRequiredLocation,
			Remote:      &remote,
			ApplyURL:    j.URL,
			CompanyName: company,
			ExternalID:  fmt.Sprintf("%d", j.ID),
		}
		if t, err := time.Parse("2006-01-02T15:04:05", j.PublicationDate); err == nil {
			scraped.PostedAt = &t
		}
		out = append(out, scraped)
	}
	return out, nil
}
