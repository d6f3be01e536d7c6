// Package history reconstructs an address's marketplace trades from its
// transaction log, oldest first.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/logging"
	"github.com/luckyturtle/nftape.me/internal/marketplace"
	"github.com/luckyturtle/nftape.me/internal/observability"
	"github.com/luckyturtle/nftape.me/internal/parser"
	"github.com/luckyturtle/nftape.me/internal/solana"
)

const (
	// DefaultBatchSize is the number of signatures resolved per request.
	DefaultBatchSize = 220
	// DefaultPageLimit is the getSignaturesForAddress page size (node maximum).
	DefaultPageLimit = 1000
)

// Options configures a Fetcher.
type Options struct {
	RPC        solana.RPCClient
	Classifier *marketplace.Classifier
	Parser     *parser.Parser
	BatchSize  int
	PageLimit  int
	// MaxSignatures caps how many of the newest signatures are analyzed. 0 = all.
	MaxSignatures int
	Logger        logrus.FieldLogger
}

// Fetcher lists, resolves and triages an address's transactions.
type Fetcher struct {
	rpc           solana.RPCClient
	classifier    *marketplace.Classifier
	parser        *parser.Parser
	batchSize     int
	pageLimit     int
	maxSignatures int
	log           logrus.FieldLogger
}

// NewFetcher creates a new history fetcher.
func NewFetcher(opts Options) *Fetcher {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	pageLimit := opts.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = marketplace.NewClassifier(nil)
	}
	p := opts.Parser
	if p == nil {
		p = parser.New()
	}

	return &Fetcher{
		rpc:           opts.RPC,
		classifier:    classifier,
		parser:        p,
		batchSize:     batchSize,
		pageLimit:     pageLimit,
		maxSignatures: opts.MaxSignatures,
		log:           logging.OrDiscard(opts.Logger),
	}
}

// Result is the outcome of a fetch.
type Result struct {
	// Events are in chronological order, oldest first, and must be folded
	// into a portfolio in this order.
	Events []domain.TradeEvent

	SignatureCount int // signatures listed
	BatchCount     int // GetTransactions calls made
	Ignored        int // unresolved or not produced by a known marketplace
	Skipped        int // marketplace transactions that failed to parse
}

// Fetch returns the address's trade events, oldest first.
// Ledger failures abort the fetch with a *domain.CollaboratorError;
// unparseable transactions are logged, counted and skipped.
func (f *Fetcher) Fetch(ctx context.Context, address string) (*Result, error) {
	log := f.log.WithField("address", address)

	sigs, err := f.listSignatures(ctx, address)
	if err != nil {
		return nil, err
	}
	log.Infof("got %d txs to process", len(sigs))
	observability.RecordSignaturesListed(len(sigs))

	// The node returns newest first; folding needs oldest first.
	reverse(sigs)

	result := &Result{SignatureCount: len(sigs)}
	ordinal := 0

	for start := 0; start < len(sigs); start += f.batchSize {
		end := start + f.batchSize
		if end > len(sigs) {
			end = len(sigs)
		}
		batch := sigs[start:end]

		log.Infof("processing another %d sigs", len(batch))
		txs, err := f.rpc.GetTransactions(ctx, batch)
		if err != nil {
			return nil, domain.NewCollaboratorError(domain.CollaboratorLedger, "getTransactions", address, err)
		}
		result.BatchCount++
		observability.RecordBatchResolved(len(batch))

		for i, tx := range txs {
			log.Debugf("triaging %d of %d", start+i+1, len(sigs))
			if tx == nil {
				result.Ignored++
				observability.RecordIgnoredTransaction()
				continue
			}

			exchange, ok := f.classifier.Classify(tx)
			if !ok {
				result.Ignored++
				observability.RecordIgnoredTransaction()
				continue
			}

			event, err := f.parser.Parse(tx, address, exchange, ordinal)
			if err != nil {
				if !errors.Is(err, parser.ErrMalformedTransaction) {
					return nil, fmt.Errorf("parse %s: %w", tx.Signature, err)
				}
				result.Skipped++
				observability.RecordSkippedTransaction("malformed")
				log.WithFields(logrus.Fields{
					"signature": tx.Signature,
					"exchange":  exchange,
				}).WithError(err).Warn("skipping transaction")
				continue
			}

			ordinal++
			result.Events = append(result.Events, event)
			observability.RecordTradeEvent(event.Kind.String(), event.Exchange)
			log.WithFields(logrus.Fields{
				"mint":     event.Mint,
				"exchange": event.Exchange,
				"amount":   event.Amount.String(),
			}).Debugf("%s", event.Kind)
		}
	}

	log.WithFields(logrus.Fields{
		"events":  len(result.Events),
		"ignored": result.Ignored,
		"skipped": result.Skipped,
		"batches": result.BatchCount,
	}).Info("history fetched")

	return result, nil
}

// listSignatures pages backwards through the address's signatures.
// The result is newest first.
func (f *Fetcher) listSignatures(ctx context.Context, address string) ([]string, error) {
	var sigs []string
	var before string

	for {
		limit := f.pageLimit
		if f.maxSignatures > 0 && f.maxSignatures-len(sigs) < limit {
			limit = f.maxSignatures - len(sigs)
		}

		opts := &solana.SignaturesOpts{
			Limit: limit,
		}
		if before != "" {
			opts.Before = before
		}

		page, err := f.rpc.GetSignaturesForAddress(ctx, address, opts)
		if err != nil {
			return nil, domain.NewCollaboratorError(domain.CollaboratorLedger, "getSignaturesForAddress", address, err)
		}

		for _, s := range page {
			sigs = append(sigs, s.Signature)
		}

		if len(page) < limit {
			break
		}
		if f.maxSignatures > 0 && len(sigs) >= f.maxSignatures {
			break
		}
		before = page[len(page)-1].Signature
	}

	return sigs, nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
