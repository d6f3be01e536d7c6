// Package portfolio folds trade events into portfolio state.
package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

// State is the portfolio of one address: current holdings, lifetime totals
// and one AssetRecord per mint ever referenced.
//
// A State is owned by a single goroutine at a time. The ledger owns it while
// folding; the analysis orchestrator owns it afterwards, where concurrent
// enrichment only writes to disjoint AssetRecords.
type State struct {
	Spent  decimal.Decimal // SOL, sum of buy amounts
	Earned decimal.Decimal // SOL, sum of sell amounts

	holdings map[string]struct{}
	assets   map[string]*domain.AssetRecord
	order    []string // mints in first-reference order
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Spent:    decimal.Zero,
		Earned:   decimal.Zero,
		holdings: make(map[string]struct{}),
		assets:   make(map[string]*domain.AssetRecord),
	}
}

// Upsert returns the record for mint, creating it on first reference.
func (s *State) Upsert(mint string) *domain.AssetRecord {
	if a, ok := s.assets[mint]; ok {
		return a
	}
	a := domain.NewAssetRecord(mint)
	s.assets[mint] = a
	s.order = append(s.order, mint)
	return a
}

// Asset returns the record for mint, if referenced.
func (s *State) Asset(mint string) (*domain.AssetRecord, bool) {
	a, ok := s.assets[mint]
	return a, ok
}

// Assets returns all records in first-reference order.
func (s *State) Assets() []*domain.AssetRecord {
	out := make([]*domain.AssetRecord, len(s.order))
	for i, mint := range s.order {
		out[i] = s.assets[mint]
	}
	return out
}

// Holds reports whether mint is currently held.
func (s *State) Holds(mint string) bool {
	_, ok := s.holdings[mint]
	return ok
}

// Holdings returns the currently held mints, sorted.
func (s *State) Holdings() []string {
	out := make([]string, 0, len(s.holdings))
	for mint := range s.holdings {
		out = append(out, mint)
	}
	sort.Strings(out)
	return out
}

// Profit returns Earned - Spent.
func (s *State) Profit() decimal.Decimal {
	return s.Earned.Sub(s.Spent)
}

func (s *State) apply(e domain.TradeEvent) {
	a := s.Upsert(e.Mint)
	a.LastExchange = e.Exchange

	switch e.Kind {
	case domain.EventBuy:
		s.holdings[e.Mint] = struct{}{}
		s.Spent = s.Spent.Add(e.Amount)
		a.SetBoughtAt(e.Amount)
	case domain.EventSell:
		// Selling something bought before the history window is fine.
		delete(s.holdings, e.Mint)
		s.Earned = s.Earned.Add(e.Amount)
		a.SetSoldAt(e.Amount)
	}
}
