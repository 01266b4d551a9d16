// Package ingest defines the canonical records produced by every ingestion
// path and the normalize/dedup-upsert engine that persists them.
package ingest

import (
	"strings"
	"time"
)

// ATSType identifies which extraction strategy produced a job.
type ATSType string

// Known applicant tracking systems.
const (
	ATSGreenhouse ATSType = "greenhouse"
	ATSLever      ATSType = "lever"
	ATSWorkday    ATSType = "workday"
	ATSGupy       ATSType = "gupy"
	ATSUnknown    ATSType = "unknown"
)

// SourceType identifies the ingestion path that discovered a job. Together
// with SourceKey it forms the unique identity of a Job row.
type SourceType string

// Ingestion paths.
const (
	SourceManual   SourceType = "manual"
	SourceCrawler  SourceType = "crawler"
	SourceAdzuna   SourceType = "adzuna"
	SourceRemotive SourceType = "remotive"
	SourceTrampos  SourceType = "trampos"
)

// PlaceholderDescription is stored when a strategy defers full-text capture
// to manual completion (Workday and the generic scraper). It is never the
// empty string.
const PlaceholderDescription = "Description pending manual completion."

// Company is the persisted employer record. Identity is the exact name
// string; every source producing the same name shares one row.
type Company struct {
	ID            int64
	Name          string
	Website       string
	ATSProvider   ATSType
	CareersURL    string
	LastCrawledAt *time.Time
}

// Crawlable reports whether the orchestrator should include the company in
// automated runs.
func (c Company) Crawlable() bool {
	return c.ATSProvider != "" && c.ATSProvider != ATSUnknown && c.CareersURL != ""
}

// Job is the persisted posting record, unique on (SourceType, SourceKey).
type Job struct {
	ID          int64
	SourceType  SourceType
	SourceKey   string
	ATSType     ATSType
	Title       string
	Description string
	Location    string
	Remote      bool
	ApplyURL    string
	CompanyID   int64
	PostedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScrapedJob is the transient normalized output every extraction strategy
// and aggregator connector must produce before persistence.
type ScrapedJob struct {
	Title          string
	Description    string
	Location       string
	Remote         *bool
	ApplyURL       string
	CompanyName    string
	CompanyWebsite string
	PostedAt       *time.Time
	ExternalID     string
}

// URLSourceKey builds the source key for jobs discovered by URL (manual
// imports). Bulk and API imports key off the source's native external id
// instead, so the same posting is re-identified per ingestion path.
func URLSourceKey(url string) string {
	return "url:" + url
}

var remoteTerms = []string{"remote", "remoto", "home office", "anywhere"}

// DetectRemote is a case-insensitive substring test for remote-indicating
// terms anywhere in the description or location.
func DetectRemote(description, location string) bool {
	haystack := strings.ToLower(description + " " + location)
	for _, term := range remoteTerms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
