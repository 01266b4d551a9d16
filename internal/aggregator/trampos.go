package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/openvagas/ingestor/internal/ingest"
)

const tramposListURL = "https://trampos.co/oportunidades?lc=tecnologia"

// Trampos scrapes the trampos.co listing page. The board has no public
// API, so listings come straight from its markup.
type Trampos struct {
	client  *http.Client
	baseURL string
}

// NewTrampos builds the connector.
func NewTrampos(client *http.Client) *Trampos {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Trampos{client: client, baseURL: tramposListURL}
}

// Name identifies the connector in logs and metrics.
func (t *Trampos) Name() string { return "trampos" }

// SourceType tags rows produced by this connector.
func (t *Trampos) SourceType() ingest.SourceType { return ingest.SourceTrampos }

// Fetch scrapes the listing page. Descriptions defer to manual completion
// since the list view only carries titles and companies.
func (t *Trampos) Fetch(ctx context.Context) ([]ingest.ScrapedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("trampos request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ingestor/1.0)")
	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trampos get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trampos status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("trampos parse: %w", err)
	}

	var out []ingest.ScrapedJob
	doc.Find("li.opportunity").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		title := strings.TrimSpace(s.Find(".opportunity-title, h2").First().Text())
		company := strings.TrimSpace(s.Find(".opportunity-company, .company").First().Text())
		location := strings.TrimSpace(s.Find(".opportunity-location, .location").First().Text())
		if title == "" {
			return
		}
		id := tramposID(href)
		if id == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = "https://trampos.co" + href
		}
		if company == "" {
			company = "Unknown company"
		}
		out = append(out, ingest.ScrapedJob{
			Title:       title,
			Description: ingest.PlaceholderDescription,
			Location:    location,
			ApplyURL:    href,
			CompanyName: company,
			ExternalID:  id,
		})
	})
	return out, nil
}

// tramposID pulls the numeric posting id out of an /oportunidades/<id> path.
func tramposID(href string) string {
	const marker = "/oportunidades/"
	i := strings.Index(href, marker)
	if i < 0 {
		return ""
	}
	tail := href[i+len(marker):]
	var id strings.Builder
	for _, r := range tail {
		if r < '0' || r > '9' {
			break
		}
		id.WriteRune(r)
	}
	return id.String()
}
