package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestCompute(t *testing.T) {
	now := time.Unix(1700000000, 0)
	stats := Compute("creator", decs("4", "1", "3", "2"), now)
	require.NotNil(t, stats)

	assert.Equal(t, "creator", stats.Key)
	assert.Equal(t, 4, stats.SampleSize)
	assert.Equal(t, now, stats.FetchedAt)

	mean, _ := stats.Value(domain.PriceMethodMean)
	median, _ := stats.Value(domain.PriceMethodMedian)
	floor, _ := stats.Value(domain.PriceMethodFloor)
	assert.Equal(t, "2.5", mean.String())
	assert.Equal(t, "2.5", median.String())
	assert.Equal(t, "1", floor.String())
}

func TestCompute_OddCount(t *testing.T) {
	stats := Compute("k", decs("10", "0.5", "3"), time.Now())
	median, _ := stats.Value(domain.PriceMethodMedian)
	assert.Equal(t, "3", median.String())
}

func TestCompute_Single(t *testing.T) {
	stats := Compute("k", decs("1.25"), time.Now())
	for _, m := range domain.PriceMethods {
		v, ok := stats.Value(m)
		require.True(t, ok, m)
		assert.Equal(t, "1.25", v.String(), m)
	}
}

func TestCompute_Empty(t *testing.T) {
	assert.Nil(t, Compute("k", nil, time.Now()))
}

func TestComputePercentile(t *testing.T) {
	sorted := decs("1", "2", "3", "4", "5")
	assert.Equal(t, "1", computePercentile(sorted, decimal.Zero).String())
	assert.Equal(t, "5", computePercentile(sorted, decimal.NewFromInt(1)).String())
	assert.Equal(t, "1.4", computePercentile(sorted, decimal.RequireFromString("0.1")).String())
}
