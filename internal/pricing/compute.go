package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

// Compute builds a PriceStats snapshot from listing prices (SOL).
// Empty input returns nil.
func Compute(key string, prices []decimal.Decimal, now time.Time) *domain.PriceStats {
	n := len(prices)
	if n == 0 {
		return nil
	}

	sorted := make([]decimal.Decimal, n)
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	return &domain.PriceStats{
		Key: key,
		Values: map[domain.PriceMethod]decimal.Decimal{
			domain.PriceMethodMean:   computeMean(sorted),
			domain.PriceMethodMedian: computePercentile(sorted, decimal.RequireFromString("0.5")),
			domain.PriceMethodFloor:  sorted[0],
		},
		SampleSize: n,
		FetchedAt:  now,
	}
}

func computeMean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC; p is in [0, 1].
func computePercentile(sorted []decimal.Decimal, p decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n == 1 {
		return sorted[0]
	}

	// 0-based continuous index
	idx := p.Mul(decimal.NewFromInt(int64(n - 1)))
	lower := int(idx.IntPart())
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx.Sub(decimal.NewFromInt(int64(lower)))
	return sorted[lower].Add(frac.Mul(sorted[upper].Sub(sorted[lower])))
}
