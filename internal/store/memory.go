package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/openvagas/ingestor/internal/ingest"
)

type jobKey struct {
	sourceType ingest.SourceType
	sourceKey  string
}

// Memory is an in-memory ingest.Store for development and tests.
type Memory struct {
	mu        sync.RWMutex
	nextID    int64
	companies map[string]ingest.Company
	jobs      map[jobKey]ingest.Job
	saved     map[string]map[int64]bool
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		companies: make(map[string]ingest.Company),
		jobs:      make(map[jobKey]ingest.Job),
		saved:     make(map[string]map[int64]bool),
	}
}

// UpsertCompany creates or reuses a company row by exact name.
func (m *Memory) UpsertCompany(_ context.Context, c ingest.CompanyUpsert) (ingest.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.companies[c.Name]; ok {
		return existing, nil
	}
	m.nextID++
	company := ingest.Company{
		ID:          m.nextID,
		Name:        c.Name,
		Website:     c.Website,
		ATSProvider: c.ATSProvider,
		CareersURL:  c.CareersURL,
	}
	m.companies[c.Name] = company
	return company, nil
}

// UpsertJob creates or refreshes a job row by (SourceType, SourceKey).
func (m *Memory) UpsertJob(_ context.Context, job ingest.Job) (ingest.Job, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := jobKey{sourceType: job.SourceType, sourceKey: job.SourceKey}
	now := time.Now().UTC()
	if existing, ok := m.jobs[key]; ok {
		existing.Title = job.Title
		existing.Description = job.Description
		existing.Location = job.Location
		existing.Remote = job.Remote
		existing.PostedAt = job.PostedAt
		existing.UpdatedAt = now
		m.jobs[key] = existing
		return existing, false, nil
	}
	m.nextID++
	job.ID = m.nextID
	job.CreatedAt = now
	job.UpdatedAt = now
	m.jobs[key] = job
	return job, true, nil
}

// ListCrawlableCompanies returns companies with provider and careers URL set.
func (m *Memory) ListCrawlableCompanies(_ context.Context) ([]ingest.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ingest.Company
	for _, c := range m.companies {
		if c.Crawlable() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// TouchCompanyCrawledAt advances a company's last-crawl timestamp.
func (m *Memory) TouchCompanyCrawledAt(_ context.Context, companyID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, c := range m.companies {
		if c.ID == companyID {
			ts := at
			c.LastCrawledAt = &ts
			m.companies[name] = c
			return nil
		}
	}
	return fmt.Errorf("company %d not found", companyID)
}

// SaveJobForUser links a job to a user's saved list.
func (m *Memory) SaveJobForUser(_ context.Context, userID string, jobID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved[userID] == nil {
		m.saved[userID] = make(map[int64]bool)
	}
	m.saved[userID][jobID] = true
	return nil
}

// SavedJobs reports the ids saved for a user, for test assertions.
func (m *Memory) SavedJobs(userID string) []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int64
	for id := range m.saved[userID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// JobCount reports the number of stored jobs, for test assertions.
func (m *Memory) JobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
