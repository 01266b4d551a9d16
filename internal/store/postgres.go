// Package store provides persistence implementations for the ingestion
// engine: a Postgres-backed store for production and an in-memory store
// for development and tests.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openvagas/ingestor/internal/ingest"
)

// PostgresConfig controls the connection pool.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Postgres implements ingest.Store on a pgx connection pool.
type Postgres struct {
	pool dbConn
}

// NewPostgres connects a pool using the provided config.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresWithPool constructs a store from an existing pool (primarily
// for testing with pgxmock).
func NewPostgresWithPool(pool dbConn) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Postgres) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const upsertCompanySQL = `
INSERT INTO companies (name, website, ats_provider, careers_url)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE SET name = companies.name
RETURNING id, name, website, ats_provider, careers_url, last_crawled_at`

// UpsertCompany creates or reuses a company row by exact name. The conflict
// arm intentionally keeps every stored column so automated runs never
// clobber curated metadata.
func (s *Postgres) UpsertCompany(ctx context.Context, c ingest.CompanyUpsert) (ingest.Company, error) {
	var (
		out       ingest.Company
		provider  string
		crawledAt *time.Time
	)
	row := s.pool.QueryRow(ctx, upsertCompanySQL, c.Name, c.Website, string(c.ATSProvider), c.CareersURL)
	if err := row.Scan(&out.ID, &out.Name, &out.Website, &provider, &out.CareersURL, &crawledAt); err != nil {
		return ingest.Company{}, fmt.Errorf("upsert company: %w", err)
	}
	out.ATSProvider = ingest.ATSType(provider)
	out.LastCrawledAt = crawledAt
	return out, nil
}

const upsertJobSQL = `
INSERT INTO jobs (
	source_type, source_key, ats_type, title, description,
	location, remote, apply_url, company_id, posted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (source_type, source_key) DO UPDATE SET
	title       = EXCLUDED.title,
	description = EXCLUDED.description,
	location    = EXCLUDED.location,
	remote      = EXCLUDED.remote,
	posted_at   = EXCLUDED.posted_at,
	updated_at  = now()
RETURNING id, created_at, updated_at, (xmax = 0) AS created`

// UpsertJob inserts or refreshes a job row keyed by (source_type,
// source_key). Only the mutable columns are touched on conflict.
func (s *Postgres) UpsertJob(ctx context.Context, job ingest.Job) (ingest.Job, bool, error) {
	var created bool
	row := s.pool.QueryRow(ctx, upsertJobSQL,
		string(job.SourceType), job.SourceKey, string(job.ATSType),
		job.Title, job.Description, job.Location, job.Remote,
		job.ApplyURL, job.CompanyID, job.PostedAt,
	)
	if err := row.Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt, &created); err != nil {
		return ingest.Job{}, false, fmt.Errorf("upsert job: %w", err)
	}
	return job, created, nil
}

const listCrawlableSQL = `
SELECT id, name, website, ats_provider, careers_url, last_crawled_at
FROM companies
WHERE ats_provider <> '' AND ats_provider <> 'unknown' AND careers_url <> ''
ORDER BY name`

// ListCrawlableCompanies returns companies eligible for automated crawling.
func (s *Postgres) ListCrawlableCompanies(ctx context.Context) ([]ingest.Company, error) {
	rows, err := s.pool.Query(ctx, listCrawlableSQL)
	if err != nil {
		return nil, fmt.Errorf("list crawlable companies: %w", err)
	}
	defer rows.Close()

	var out []ingest.Company
	for rows.Next() {
		var (
			c         ingest.Company
			provider  string
			crawledAt *time.Time
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &provider, &c.CareersURL, &crawledAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.ATSProvider = ingest.ATSType(provider)
		c.LastCrawledAt = crawledAt
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}

// TouchCompanyCrawledAt advances the last-crawl timestamp.
func (s *Postgres) TouchCompanyCrawledAt(ctx context.Context, companyID int64, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE companies SET last_crawled_at = $2 WHERE id = $1`, companyID, at)
	if err != nil {
		return fmt.Errorf("touch company crawled_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("touch company crawled_at: company %d not found", companyID)
	}
	return nil
}

// SaveJobForUser links a job to a user's saved list; re-saving is a no-op.
func (s *Postgres) SaveJobForUser(ctx context.Context, userID string, jobID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, jobID)
	if err != nil {
		return fmt.Errorf("save job for user: %w", err)
	}
	return nil
}
