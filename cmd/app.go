package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openvagas/ingestor/internal/aggregator"
	"github.com/openvagas/ingestor/internal/ats"
	"github.com/openvagas/ingestor/internal/config"
	"github.com/openvagas/ingestor/internal/fetch"
	"github.com/openvagas/ingestor/internal/ingest"
	"github.com/openvagas/ingestor/internal/logging"
	"github.com/openvagas/ingestor/internal/orchestrator"
	"github.com/openvagas/ingestor/internal/store"
)

// application holds the wired service graph shared by the subcommands.
type application struct {
	cfg          config.Config
	logger       *zap.Logger
	store        *store.Postgres
	orchestrator *orchestrator.Orchestrator
}

func buildApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := store.NewPostgres(ctx, store.PostgresConfig{
		DSN:      cfg.DB.DSN,
		MaxConns: int32(cfg.DB.MaxConns),
		MinConns: int32(cfg.DB.MinConns),
	})
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	engine := ingest.NewEngine(pg, logger)

	plain := fetch.NewPlain(fetch.PlainConfig{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	var headless fetch.Tier
	if cfg.Fetch.HeadlessEnabled {
		headless = fetch.NewHeadless(fetch.HeadlessConfig{
			UserAgent:         cfg.Fetch.UserAgent,
			NavigationTimeout: time.Duration(cfg.Fetch.NavTimeoutSec) * time.Second,
		})
	}

	fetchOpts := []fetch.Option{fetch.WithMinHTMLBytes(cfg.Fetch.MinHTMLBytes)}
	if cfg.Redis.URL != "" {
		cache, err := fetch.NewPageCache(cfg.Redis.URL, cfg.RedisTTL())
		if err != nil {
			logger.Warn("page cache unavailable, fetching without it", zap.Error(err))
		} else {
			fetchOpts = append(fetchOpts, fetch.WithCache(cache))
		}
	}
	fetcher := fetch.NewClient(plain, headless, logger, fetchOpts...)

	httpClient := &http.Client{Timeout: cfg.FetchTimeout()}
	limiter := ats.NewHostLimiter(cfg.Crawl.HostQPS, cfg.Crawl.HostBurst)
	registry := ats.NewRegistry(httpClient, limiter, logger)

	var connectors []aggregator.Connector
	connectors = append(connectors, aggregator.NewAdzuna(aggregator.AdzunaConfig{
		AppID:          cfg.Adzuna.AppID,
		AppKey:         cfg.Adzuna.AppKey,
		What:           cfg.Adzuna.What,
		ResultsPerPage: cfg.Adzuna.ResultsPerPage,
	}, httpClient))
	if cfg.Aggregators.RemotiveEnabled {
		connectors = append(connectors, aggregator.NewRemotive(httpClient))
	}
	if cfg.Aggregators.TramposEnabled {
		connectors = append(connectors, aggregator.NewTrampos(httpClient))
	}
	runner := aggregator.NewRunner(engine, connectors, logger)

	orch := orchestrator.New(pg, engine, registry, fetcher, runner, logger)

	return &application{
		cfg:          cfg,
		logger:       logger,
		store:        pg,
		orchestrator: orch,
	}, nil
}

func (a *application) close() {
	a.store.Close()
	_ = a.logger.Sync()
}
