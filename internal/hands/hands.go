// Package hands classifies holdings as paperhanded or diamondhanded.
package hands

import (
	"github.com/shopspring/decimal"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

// Verdict is the outcome of a classification. Exactly one flag is true.
type Verdict struct {
	Paperhanded   bool
	Diamondhanded bool
}

// Classify compares cost against the method's statistic: paying more than
// the market now asks is paperhanded, anything else diamondhanded.
// ok is false, and no verdict is given, when stats are missing or lack method.
func Classify(cost decimal.Decimal, stats *domain.PriceStats, method domain.PriceMethod) (Verdict, bool) {
	stat, ok := stats.Value(method)
	if !ok {
		return Verdict{}, false
	}

	paper := cost.GreaterThan(stat)
	return Verdict{Paperhanded: paper, Diamondhanded: !paper}, true
}

// Apply classifies asset in place. Assets with no purchase price or no
// stats are left unclassified. It reports whether flags were set.
func Apply(asset *domain.AssetRecord, method domain.PriceMethod) bool {
	if asset == nil || asset.BoughtAt == nil {
		return false
	}

	v, ok := Classify(*asset.BoughtAt, asset.CurrentPrices, method)
	if !ok {
		return false
	}
	asset.SetHands(v.Paperhanded)
	return true
}
