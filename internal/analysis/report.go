package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/portfolio"
	"github.com/luckyturtle/nftape.me/internal/pricing"
)

// Report is the result of one analysis run.
type Report struct {
	RunID   string
	Address string
	Method  domain.PriceMethod

	State   *portfolio.State
	Summary Summary
	History HistoryStats
	Pricing *pricing.AggregateReport

	StartedAt time.Time
	Duration  time.Duration
}

// Summary is the headline of a report.
type Summary struct {
	Spent    decimal.Decimal
	Earned   decimal.Decimal
	Profit   decimal.Decimal
	Holdings int

	Assets        int
	Paperhanded   int
	Diamondhanded int
	Unclassified  int
}

// HistoryStats describes the history phase.
type HistoryStats struct {
	Signatures int
	Batches    int
	Events     int
	Ignored    int
	Skipped    int
}
