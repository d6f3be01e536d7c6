package pricing

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/observability"
)

// DefaultConcurrency bounds in-flight stats lookups.
const DefaultConcurrency = 8

// Options configures an Aggregator.
type Options struct {
	Source      StatsSource
	Concurrency int
	// Strict fails the whole aggregation on the first lookup failure
	// instead of leaving that asset without stats.
	Strict bool
	Logger logrus.FieldLogger
}

// Aggregator fetches price stats for a set of assets concurrently.
type Aggregator struct {
	source      StatsSource
	concurrency int
	strict      bool
	log         logrus.FieldLogger
}

// NewAggregator creates a new aggregator.
func NewAggregator(opts Options) *Aggregator {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		source:      opts.Source,
		concurrency: concurrency,
		strict:      opts.Strict,
		log:         logging.OrDiscard(opts.Logger),
	}
}

// AggregateReport summarizes one aggregation.
type AggregateReport struct {
	Requested  int // lookups issued
	Fetched    int // lookups that returned stats
	NoListings int // keys with nothing listed
	Failed     int // lookups that errored
	Skipped    int // assets without a creator key
}

type lookupResult struct {
	stats *domain.PriceStats
	err   error
}

// Aggregate issues one lookup per asset, keyed by its primary creator, and
// joins on all of them. The result maps mint to stats; assets whose lookup
// failed or had no creator key are absent.
//
// In strict mode the first failure cancels the remaining lookups and is
// returned as a *domain.CollaboratorError.
func (a *Aggregator) Aggregate(ctx context.Context, assets []*domain.AssetRecord) (map[string]*domain.PriceStats, *AggregateReport, error) {
	report := &AggregateReport{}
	results := make([]lookupResult, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, asset := range assets {
		key := asset.CreatorKey()
		if key == "" {
			report.Skipped++
			observability.RecordPriceLookup("skipped")
			continue
		}
		report.Requested++

		mint := asset.Mint
		i := i
		g.Go(func() error {
			stats, err := a.source.FetchStats(gctx, key)
			// Each goroutine owns exactly one slot.
			results[i] = lookupResult{stats: stats, err: err}

			if err != nil && a.strict && !errors.Is(err, ErrNoListings) {
				return domain.NewCollaboratorError(domain.CollaboratorPricing, "fetchStats", key, err)
			}
			if err != nil {
				a.log.WithFields(logrus.Fields{"mint": mint, "key": key}).WithError(err).Warn("price stats unavailable")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		observability.RecordPriceLookup("error")
		return nil, nil, err
	}

	out := make(map[string]*domain.PriceStats, len(assets))
	for i, r := range results {
		switch {
		case r.err == nil && r.stats != nil:
			report.Fetched++
			out[assets[i].Mint] = r.stats
			observability.RecordPriceLookup("ok")
		case errors.Is(r.err, ErrNoListings):
			report.NoListings++
			observability.RecordPriceLookup("no_listings")
		case r.err != nil:
			report.Failed++
			observability.RecordPriceLookup("error")
		}
	}

	a.log.WithFields(logrus.Fields{
		"requested":   report.Requested,
		"fetched":     report.Fetched,
		"no_listings": report.NoListings,
		"failed":      report.Failed,
		"skipped":     report.Skipped,
	}).Info("price stats populated")

	return out, report, nil
}
