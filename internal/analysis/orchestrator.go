// Package analysis runs the end-to-end analysis of one address.
// It coordinates: history → metadata enrichment → price stats → classification
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/hands"
	"github.com/luckyturtle/nftape.me/internal/history"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/metadata"
	"github.com/luckyturtle/nftape.me/internal/observability"
	"github.com/luckyturtle/nftape.me/internal/portfolio"
	"github.com/luckyturtle/nftape.me/internal/pricing"
)

// ErrInvalidAddress is returned for addresses that are not base58 public keys.
var ErrInvalidAddress = errors.New("invalid address")

// HistorySource yields an address's trade events oldest first.
type HistorySource interface {
	Fetch(ctx context.Context, address string) (*history.Result, error)
}

// PriceAggregator fetches stats for a set of assets.
type PriceAggregator interface {
	Aggregate(ctx context.Context, assets []*domain.AssetRecord) (map[string]*domain.PriceStats, *pricing.AggregateReport, error)
}

// Options for creating Orchestrator.
type Options struct {
	History  HistorySource
	Metadata metadata.Source
	Pricing  PriceAggregator

	// Method is the default price method; requests may override it.
	Method domain.PriceMethod
	// Concurrency bounds in-flight metadata lookups.
	Concurrency int
	Logger      logrus.FieldLogger
}

// Orchestrator sequences the analysis phases. Each phase completes fully
// before the next one starts.
type Orchestrator struct {
	history     HistorySource
	metadata    metadata.Source
	pricing     PriceAggregator
	method      domain.PriceMethod
	concurrency int
	log         logrus.FieldLogger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	method := opts.Method
	if method == "" {
		method = domain.PriceMethodMedian
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Orchestrator{
		history:     opts.History,
		metadata:    opts.Metadata,
		pricing:     opts.Pricing,
		method:      method,
		concurrency: concurrency,
		log:         logging.OrDiscard(opts.Logger),
	}
}

// Method returns the default price method.
func (o *Orchestrator) Method() domain.PriceMethod {
	return o.method
}

// Analyze runs a full analysis of address with the default price method.
func (o *Orchestrator) Analyze(ctx context.Context, address string) (*Report, error) {
	return o.AnalyzeWithMethod(ctx, address, o.method)
}

// AnalyzeWithMethod runs a full analysis of address.
// Phases:
//  1. Fetch history and fold it into a portfolio
//  2. Enrich every asset with metadata
//  3. Fetch price stats for every asset
//  4. Classify each asset
func (o *Orchestrator) AnalyzeWithMethod(ctx context.Context, address string, method domain.PriceMethod) (*Report, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPriceMethod, method)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Address:   address,
		Method:    method,
		StartedAt: time.Now().UTC(),
	}
	log := o.log.WithFields(logrus.Fields{"run_id": report.RunID, "address": address})

	err := o.run(ctx, log, report)
	report.Duration = time.Since(report.StartedAt)

	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.RecordAnalysisRun(status, report.Duration.Seconds())

	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"assets":        report.Summary.Assets,
		"paperhanded":   report.Summary.Paperhanded,
		"diamondhanded": report.Summary.Diamondhanded,
		"duration":      report.Duration.String(),
	}).Info("analysis completed")

	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, log logrus.FieldLogger, report *Report) error {
	// Phase 1: History
	log.Info("Phase 1: Fetching history...")
	start := time.Now()
	res, err := o.history.Fetch(ctx, report.Address)
	if err != nil {
		return fmt.Errorf("phase 1 (history) failed: %w", err)
	}
	ledger := portfolio.NewLedger()
	ledger.ApplyAll(res.Events)
	state := ledger.State()
	report.State = state
	report.History = HistoryStats{
		Signatures: res.SignatureCount,
		Batches:    res.BatchCount,
		Events:     len(res.Events),
		Ignored:    res.Ignored,
		Skipped:    res.Skipped,
	}
	observability.RecordPhase("history", time.Since(start).Seconds())
	log.WithFields(logrus.Fields{
		"inventory": state.Holdings(),
		"spent":     state.Spent.String(),
		"earned":    state.Earned.String(),
		"profit":    state.Profit().String(),
	}).Info("FINALS")

	assets := state.Assets()

	// Phase 2: Metadata
	log.Infof("Phase 2: Fetching metadata for %d assets...", len(assets))
	start = time.Now()
	if err := o.enrich(ctx, assets); err != nil {
		return fmt.Errorf("phase 2 (metadata) failed: %w", err)
	}
	observability.RecordPhase("metadata", time.Since(start).Seconds())
	log.Info("  Metadata populated")

	// Phase 3: Price stats
	log.Info("Phase 3: Fetching price stats...")
	start = time.Now()
	stats, priceReport, err := o.pricing.Aggregate(ctx, assets)
	if err != nil {
		return fmt.Errorf("phase 3 (price stats) failed: %w", err)
	}
	for _, a := range assets {
		if s, ok := stats[a.Mint]; ok {
			a.SetPriceStats(s)
		}
	}
	report.Pricing = priceReport
	observability.RecordPhase("pricing", time.Since(start).Seconds())

	// Phase 4: Classification
	log.Infof("Phase 4: Classifying by %s...", report.Method)
	start = time.Now()
	for _, a := range assets {
		verdict := "unclassified"
		if hands.Apply(a, report.Method) {
			verdict = "diamond"
			if *a.Paperhanded {
				verdict = "paper"
			}
		}
		observability.RecordAssetClassified(verdict)
	}
	observability.RecordPhase("classification", time.Since(start).Seconds())

	report.Summary = summarize(state)
	return nil
}

// enrich fetches metadata for every asset concurrently. Each goroutine
// writes only to its own asset; the first failure cancels the rest.
func (o *Orchestrator) enrich(ctx context.Context, assets []*domain.AssetRecord) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, a := range assets {
		a := a
		g.Go(func() error {
			md, err := o.metadata.Fetch(gctx, a.Mint)
			if err != nil {
				return err
			}
			a.SetMetadata(md)
			return nil
		})
	}

	return g.Wait()
}

func summarize(state *portfolio.State) Summary {
	s := Summary{
		Spent:    state.Spent,
		Earned:   state.Earned,
		Profit:   state.Profit(),
		Holdings: len(state.Holdings()),
	}
	for _, a := range state.Assets() {
		s.Assets++
		switch {
		case !a.Classified():
			s.Unclassified++
		case *a.Paperhanded:
			s.Paperhanded++
		default:
			s.Diamondhanded++
		}
	}
	return s
}

// ValidateAddress checks that address is a base58-encoded 32-byte public key.
func ValidateAddress(address string) error {
	b, err := base58.Decode(address)
	if err != nil || len(b) != 32 {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return nil
}
