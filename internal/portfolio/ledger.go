package portfolio

import "github.com/luckyturtle/nftape.me/internal/domain"

// Ledger applies trade events to a State.
//
// Apply performs no deduplication and no ordering check: callers must supply
// events in non-decreasing Ordinal order, and applying the same event twice
// counts it twice.
type Ledger struct {
	state   *State
	applied int
}

// NewLedger creates a ledger over an empty state.
func NewLedger() *Ledger {
	return &Ledger{state: NewState()}
}

// Apply folds one event into the state.
func (l *Ledger) Apply(e domain.TradeEvent) {
	l.state.apply(e)
	l.applied++
}

// ApplyAll folds events in slice order.
func (l *Ledger) ApplyAll(events []domain.TradeEvent) {
	for _, e := range events {
		l.Apply(e)
	}
}

// Applied returns the number of events applied so far.
func (l *Ledger) Applied() int {
	return l.applied
}

// State returns the accumulated state. The ledger must not be used after
// handing the state to a later phase.
func (l *Ledger) State() *State {
	return l.state
}
