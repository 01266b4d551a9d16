package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine converts scraped records into canonical Company+Job rows and
// performs the idempotent create-or-update against the store.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine builds an Engine.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Ingest upserts the company for the scraped record, then upserts the job
// under the (sourceType, sourceKey) composite key. Re-ingesting the same
// key refreshes the row's mutable fields and never creates a second row.
func (e *Engine) Ingest(
	ctx context.Context,
	scraped ScrapedJob,
	sourceType SourceType,
	atsType ATSType,
	sourceKey string,
) (Job, bool, error) {
	if sourceKey == "" {
		return Job{}, false, fmt.Errorf("ingest: empty source key for %q", scraped.Title)
	}
	companyName := strings.TrimSpace(scraped.CompanyName)
	if companyName == "" {
		companyName = "Unknown company"
	}

	company, err := e.store.UpsertCompany(ctx, CompanyUpsert{
		Name:    companyName,
		Website: strings.TrimSpace(scraped.CompanyWebsite),
	})
	if err != nil {
		return Job{}, false, fmt.Errorf("upsert company %q: %w", companyName, err)
	}

	remote := DetectRemote(scraped.Description, scraped.Location)
	if scraped.Remote != nil {
		remote = *scraped.Remote
	}

	job := Job{
		SourceType:  sourceType,
		SourceKey:   sourceKey,
		ATSType:     atsType,
		Title:       strings.TrimSpace(scraped.Title),
		Description: scraped.Description,
		Location:    strings.TrimSpace(scraped.Location),
		Remote:      remote,
		ApplyURL:    strings.TrimSpace(scraped.ApplyURL),
		CompanyID:   company.ID,
		PostedAt:    scraped.PostedAt,
	}

	stored, created, err := e.store.UpsertJob(ctx, job)
	if err != nil {
		return Job{}, false, fmt.Errorf("upsert job %s/%s: %w", sourceType, sourceKey, err)
	}

	e.logger.Debug("job ingested",
		zap.String("source_type", string(sourceType)),
		zap.String("source_key", sourceKey),
		zap.Bool("created", created),
	)
	return stored, created, nil
}
