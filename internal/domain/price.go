package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceStats is a point-in-time market snapshot for one creator/collection key.
type PriceStats struct {
	Key        string                          // creator or collection address
	Values     map[PriceMethod]decimal.Decimal // SOL per method
	SampleSize int                             // listings the values were computed from
	FetchedAt  time.Time
}

// Value returns the statistic for method, if present.
func (s *PriceStats) Value(method PriceMethod) (decimal.Decimal, bool) {
	if s == nil || s.Values == nil {
		return decimal.Zero, false
	}
	v, ok := s.Values[method]
	return v, ok
}
