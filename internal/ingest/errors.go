package ingest

import "errors"

// Sentinel errors surfaced across ingestion paths.
var (
	// ErrUnsupportedSource means a company's provider has no bulk-listing
	// strategy. The orchestrator skips the company with a warning; manual
	// imports never hit it because the generic scraper catches everything.
	ErrUnsupportedSource = errors.New("unsupported job source")

	// ErrFetchFailed means both fetch tiers failed for a URL.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrMissingCredentials means a connector lacks its configured API
	// credentials and degrades to a no-op.
	ErrMissingCredentials = errors.New("missing provider credentials")
)
