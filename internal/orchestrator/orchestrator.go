// Package orchestrator drives scheduled bulk ingestion across configured
// companies and the ad-hoc single-URL import path.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/aggregator"
	"github.com/openvagas/ingestor/internal/ats"
	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/metrics"
)

// Fetcher retrieves raw HTML for a URL (the two-tier fetch client).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StrategyRegistry resolves the extraction strategy for an ATS tag.
// *ats.Registry is the production implementation.
type StrategyRegistry interface {
	ScraperFor(provider ingest.ATSType) ats.Scraper
	ListerFor(provider ingest.ATSType) (ats.Lister, bool)
}

// Report is the run-scoped accumulator for one orchestrator invocation.
// It is passed through the iteration, never global.
type Report struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Companies   int
	JobsCreated int
	JobsUpdated int
	Skipped     int
	Errors      int
}

// Status summarizes the orchestrator for the API's status endpoint.
type Status struct {
	Running bool
	LastRun *Report
}

// Orchestrator iterates crawlable companies sequentially, dispatching each
// to its ATS's bulk-listing strategy. One logical worker, by design:
// per-source rate limits matter more than total run latency.
type Orchestrator struct {
	store       ingest.Store
	engine      *ingest.Engine
	registry    StrategyRegistry
	fetcher     Fetcher
	aggregators *aggregator.Runner
	logger      *zap.Logger

	mu      sync.Mutex
	running bool
	lastRun *Report
}

// New builds an Orchestrator. The aggregator runner may be nil when no
// connectors are configured.
func New(
	store ingest.Store,
	engine *ingest.Engine,
	registry StrategyRegistry,
	fetcher Fetcher,
	aggregators *aggregator.Runner,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:       store,
		engine:      engine,
		registry:    registry,
		fetcher:     fetcher,
		aggregators: aggregators,
		logger:      logger,
	}
}

// RunDaily is the scheduled entry point: a full company crawl followed by
// the aggregator pulls.
func (o *Orchestrator) RunDaily(ctx context.Context) Report {
	o.setRunning(true)
	defer o.setRunning(false)
	metrics.ObserveCrawlRun()

	report := o.CrawlAll(ctx)
	if o.aggregators != nil {
		agg := o.aggregators.RunAll(ctx)
		report.JobsCreated += agg.Created
		report.JobsUpdated += agg.Accepted - agg.Created
		report.Skipped += agg.Skipped
		report.Errors += agg.Errors
	}
	report.FinishedAt = time.Now().UTC()

	o.mu.Lock()
	o.lastRun = &report
	o.mu.Unlock()

	o.logger.Info("ingestion run finished",
		zap.Int("companies", report.Companies),
		zap.Int("jobs_created", report.JobsCreated),
		zap.Int("jobs_updated", report.JobsUpdated),
		zap.Int("errors", report.Errors),
	)
	return report
}

// RunAsync starts RunDaily in the background and returns immediately.
// Overlapping runs are not mutually excluded: every write is an idempotent
// upsert, so a concurrent run is wasted work, never corruption.
func (o *Orchestrator) RunAsync(ctx context.Context) {
	go o.RunDaily(ctx)
}

// Status reports whether a run is active and the last finished report.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{Running: o.running, LastRun: o.lastRun}
}

// CrawlAll iterates every crawlable company. A single company's failure is
// recorded and never halts the run; each attempted company's last-crawl
// timestamp is advanced whether or not new rows were created.
func (o *Orchestrator) CrawlAll(ctx context.Context) Report {
	report := Report{StartedAt: time.Now().UTC()}

	companies, err := o.store.ListCrawlableCompanies(ctx)
	if err != nil {
		o.logger.Error("list crawlable companies failed", zap.Error(err))
		report.Errors++
		report.FinishedAt = time.Now().UTC()
		return report
	}

	for _, company := range companies {
		report.Companies++
		if err := o.crawlCompany(ctx, company, &report); err != nil {
			report.Errors++
			metrics.ObserveCrawlCompany("error")
			o.logger.Error("company crawl failed",
				zap.String("company", company.Name),
				zap.String("provider", string(company.ATSProvider)),
				zap.Error(err))
		} else {
			metrics.ObserveCrawlCompany("ok")
		}
		if err := o.store.TouchCompanyCrawledAt(ctx, company.ID, time.Now().UTC()); err != nil {
			o.logger.Warn("advance crawl timestamp failed",
				zap.String("company", company.Name), zap.Error(err))
		}
	}
	report.FinishedAt = time.Now().UTC()
	return report
}

func (o *Orchestrator) crawlCompany(ctx context.Context, company ingest.Company, report *Report) error {
	lister, ok := o.registry.ListerFor(company.ATSProvider)
	if !ok {
		report.Skipped++
		o.logger.Warn("skipping company",
			zap.String("company", company.Name),
			zap.String("provider", string(company.ATSProvider)),
			zap.Error(ingest.ErrUnsupportedSource))
		return nil
	}

	listings, err := lister.ListJobs(ctx, company)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	for _, listing := range listings {
		key := listing.ExternalID
		if key == "" {
			key = ingest.URLSourceKey(listing.ApplyURL)
		}
		_, created, err := o.engine.Ingest(ctx, listing, ingest.SourceCrawler, company.ATSProvider, key)
		if err != nil {
			report.Errors++
			o.logger.Error("listing ingest failed",
				zap.String("company", company.Name),
				zap.String("source_key", key),
				zap.Error(err))
			continue
		}
		if created {
			report.JobsCreated++
		} else {
			report.JobsUpdated++
		}
		metrics.ObserveJobIngested(string(ingest.SourceCrawler), created)
	}
	return nil
}

// ImportFromLink is the manual path: fetch the page, classify the URL,
// scrape it with the matching strategy, and upsert under a URL-based
// source key. Unlike the crawl path, errors here propagate to the caller.
func (o *Orchestrator) ImportFromLink(ctx context.Context, url, userID string) (ingest.Job, bool, error) {
	html, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		return ingest.Job{}, false, fmt.Errorf("import %s: %w", url, err)
	}

	atsType := ats.Classify(url)
	scraper := o.registry.ScraperFor(atsType)

	scraped, err := scraper.Scrape(url, html)
	if err != nil {
		return ingest.Job{}, false, fmt.Errorf("import %s: %w", url, err)
	}

	job, created, err := o.engine.Ingest(ctx, scraped, ingest.SourceManual, atsType, ingest.URLSourceKey(url))
	if err != nil {
		return ingest.Job{}, false, err
	}
	metrics.ObserveJobIngested(string(ingest.SourceManual), created)

	if userID != "" {
		if err := o.store.SaveJobForUser(ctx, userID, job.ID); err != nil {
			o.logger.Warn("link job to user failed",
				zap.String("user_id", userID),
				zap.Int64("job_id", job.ID),
				zap.Error(err))
		}
	}
	return job, created, nil
}

func (o *Orchestrator) setRunning(v bool) {
	o.mu.Lock()
	o.running = v
	o.mu.Unlock()
}
