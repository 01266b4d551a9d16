package ingest

import (
	"context"
	"time"
)

// CompanyUpsert carries the fields a source may contribute when it first
// encounters a company. Existing rows keep their stored metadata; upserts
// never overwrite manually curated values.
type CompanyUpsert struct {
	Name        string
	Website     string
	ATSProvider ATSType
	CareersURL  string
}

// Store is the persistence collaborator consumed by the ingestion engine
// and the crawl orchestrator. Every write is an idempotent upsert keyed by
// stable identity, so overlapping runs are safe without locking.
type Store interface {
	// UpsertCompany creates or reuses a company row by exact name match.
	UpsertCompany(ctx context.Context, c CompanyUpsert) (Company, error)

	// UpsertJob creates or updates a job row by its (SourceType, SourceKey)
	// composite key. On update only the mutable fields (title, description,
	// location, remote, postedAt) are refreshed. The bool reports whether a
	// new row was created.
	UpsertJob(ctx context.Context, job Job) (Job, bool, error)

	// ListCrawlableCompanies returns companies with a non-empty ATS
	// provider and careers URL.
	ListCrawlableCompanies(ctx context.Context) ([]Company, error)

	// TouchCompanyCrawledAt advances the company's last-crawl timestamp.
	TouchCompanyCrawledAt(ctx context.Context, companyID int64, at time.Time) error

	// SaveJobForUser links a job to a user's saved list; duplicate links
	// are a no-op.
	SaveJobForUser(ctx context.Context, userID string, jobID int64) error
}
