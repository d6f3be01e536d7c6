// Package app wires configuration into a ready-to-run analysis orchestrator.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/config"
	"github.com/luckyturtle/nftape.me/internal/history"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/marketplace"
	"github.com/luckyturtle/nftape.me/internal/metadata"
	"github.com/luckyturtle/nftape.me/internal/parser"
	"github.com/luckyturtle/nftape.me/internal/pricing"
	"github.com/luckyturtle/nftape.me/internal/solana"
)

// App holds the wired components.
type App struct {
	Orchestrator *analysis.Orchestrator
	Registry     *marketplace.Registry

	closers []func() error
}

// New builds an App talking to the configured Solana RPC endpoint.
func New(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*App, error) {
	rpc := solana.NewHTTPClient(cfg.RPC.Endpoint,
		solana.WithTimeout(cfg.RPC.Timeout),
		solana.WithMaxRetries(cfg.RPC.MaxRetries),
		solana.WithRetryDelay(cfg.RPC.RetryDelay),
		solana.WithMaxDelay(cfg.RPC.MaxDelay),
		solana.WithRateLimit(cfg.RPC.RequestsPerSecond, cfg.RPC.Burst),
	)
	return NewWithRPC(ctx, cfg, rpc, logger)
}

// NewWithRPC builds an App on top of an existing RPC client.
func NewWithRPC(ctx context.Context, cfg *config.Config, rpc solana.RPCClient, logger logrus.FieldLogger) (*App, error) {
	log := logging.OrDiscard(logger)
	a := &App{}

	a.Registry = marketplace.NewRegistry()
	for _, m := range cfg.Marketplaces.Extra {
		a.Registry.Register(m.Program, marketplace.Exchange(m.Exchange))
		log.WithFields(logrus.Fields{"program": m.Program, "exchange": m.Exchange}).Info("Registered extra marketplace")
	}

	fetcher := history.NewFetcher(history.Options{
		RPC:           rpc,
		Classifier:    marketplace.NewClassifier(a.Registry),
		Parser:        parser.New(),
		BatchSize:     cfg.History.BatchSize,
		PageLimit:     cfg.History.PageLimit,
		MaxSignatures: cfg.History.MaxSignatures,
		Logger:        log,
	})

	meta := metadata.NewMetaplexSource(metadata.Options{
		RPC:     rpc,
		Timeout: cfg.Metadata.HTTPTimeout,
		Logger:  log,
	})

	cache, err := a.statsCache(ctx, cfg.Cache, log)
	if err != nil {
		return nil, err
	}
	stats := pricing.NewHTTPStatsSource(cfg.Pricing.BaseURL,
		pricing.WithStatsTimeout(cfg.Pricing.Timeout),
		pricing.WithStatsRateLimit(cfg.Pricing.RequestsPerSecond),
		pricing.WithStatsRetries(cfg.Pricing.MaxRetries, cfg.Pricing.RetryDelay),
	)
	aggregator := pricing.NewAggregator(pricing.Options{
		Source:      pricing.NewCachedStatsSource(stats, cache, log),
		Concurrency: cfg.Analysis.Concurrency,
		Strict:      cfg.Pricing.Strict,
		Logger:      log,
	})

	a.Orchestrator = analysis.New(analysis.Options{
		History:     fetcher,
		Metadata:    meta,
		Pricing:     aggregator,
		Method:      cfg.PriceMethod(),
		Concurrency: cfg.Analysis.Concurrency,
		Logger:      log,
	})
	return a, nil
}

func (a *App) statsCache(ctx context.Context, cfg config.CacheConfig, log logrus.FieldLogger) (pricing.StatsCache, error) {
	if cfg.RedisAddr == "" {
		log.Info("Using in-memory price stats cache")
		return pricing.NewMemoryCache(cfg.TTL), nil
	}

	rc, err := pricing.NewRedisCache(ctx, pricing.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("price stats cache: %w", err)
	}
	a.closers = append(a.closers, rc.Close)
	log.WithField("addr", cfg.RedisAddr).Info("Using Redis price stats cache")
	return rc, nil
}

// Close releases external connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
