// Package aggregator pulls job listings from third-party job-board APIs and
// scraped boards, independent of ATS detection. Each connector fails in
// isolation: one bad endpoint never blocks the others.
package aggregator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/metrics"
)

// Connector is one aggregator ingestion path. Fetch returns normalized
// listings with ExternalID set to the source's native id.
type Connector interface {
	Name() string
	SourceType() ingest.SourceType
	Fetch(ctx context.Context) ([]ingest.ScrapedJob, error)
}

// Report aggregates one RunAll invocation.
type Report struct {
	Connectors int
	Accepted   int
	Created    int
	Errors     int
	Skipped    int
}

// Runner drives every configured connector through the shared ingestion
// engine.
type Runner struct {
	engine     *ingest.Engine
	connectors []Connector
	logger     *zap.Logger
}

// NewRunner builds a Runner.
func NewRunner(engine *ingest.Engine, connectors []Connector, logger *zap.Logger) *Runner {
	return &Runner{engine: engine, connectors: connectors, logger: logger}
}

// RunAll pulls each connector sequentially. Connector failures (network,
// auth, parse) are logged and counted at this boundary; missing credentials
// degrade the connector to a warned no-op.
func (r *Runner) RunAll(ctx context.Context) Report {
	report := Report{Connectors: len(r.connectors)}
	for _, c := range r.connectors {
		listings, err := c.Fetch(ctx)
		switch {
		case errors.Is(err, ingest.ErrMissingCredentials):
			r.logger.Warn("aggregator connector skipped: credentials not configured",
				zap.String("connector", c.Name()))
			metrics.ObserveConnectorBatch(c.Name(), "skipped")
			report.Skipped++
			continue
		case err != nil:
			r.logger.Error("aggregator connector failed",
				zap.String("connector", c.Name()), zap.Error(err))
			metrics.ObserveConnectorBatch(c.Name(), "error")
			report.Errors++
			continue
		}
		metrics.ObserveConnectorBatch(c.Name(), "ok")

		for _, listing := range listings {
			if listing.ExternalID == "" {
				continue
			}
			_, created, err := r.engine.Ingest(ctx, listing, c.SourceType(), ingest.ATSUnknown, listing.ExternalID)
			if err != nil {
				r.logger.Error("aggregator listing ingest failed",
					zap.String("connector", c.Name()),
					zap.String("external_id", listing.ExternalID),
					zap.Error(err))
				report.Errors++
				continue
			}
			report.Accepted++
			if created {
				report.Created++
			}
			metrics.ObserveJobIngested(string(c.SourceType()), created)
		}
	}
	return report
}
