package domain

import "github.com/shopspring/decimal"

// EventKind is the direction of a trade from the analyzed address's point of view.
type EventKind string

const (
	EventBuy  EventKind = "buy"
	EventSell EventKind = "sell"
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	return string(k)
}

// TradeEvent is one marketplace trade extracted from a transaction.
// Value type; never mutated after the parser produces it.
type TradeEvent struct {
	Mint      string          // traded asset
	Amount    decimal.Decimal // SOL spent (buy) or received (sell)
	Kind      EventKind       // buy | sell
	Exchange  string          // marketplace tag, e.g. "magiceden_v2"
	Ordinal   int             // position in the oldest-first history
	Signature string          // transaction signature
	Slot      int64           // Solana slot number
	BlockTime int64           // unix seconds, 0 if unknown
}

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

var lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)

// LamportsToSOL converts a lamport amount to SOL without loss of precision.
func LamportsToSOL(lamports int64) decimal.Decimal {
	return decimal.NewFromInt(lamports).Div(lamportsPerSOL)
}
