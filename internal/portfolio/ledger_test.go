package portfolio

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

func buy(mint, amount string, ordinal int) domain.TradeEvent {
	return domain.TradeEvent{Mint: mint, Amount: decimal.RequireFromString(amount), Kind: domain.EventBuy, Exchange: "magiceden_v2", Ordinal: ordinal}
}

func sell(mint, amount string, ordinal int) domain.TradeEvent {
	return domain.TradeEvent{Mint: mint, Amount: decimal.RequireFromString(amount), Kind: domain.EventSell, Exchange: "solanart", Ordinal: ordinal}
}

func TestLedger_BuyThenSell(t *testing.T) {
	l := NewLedger()
	l.ApplyAll([]domain.TradeEvent{
		buy("A", "1.5", 0),
		buy("B", "2", 1),
		sell("A", "3", 2),
	})

	s := l.State()
	assert.Equal(t, 3, l.Applied())
	assert.Equal(t, []string{"B"}, s.Holdings())
	assert.True(t, s.Spent.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, s.Earned.Equal(decimal.NewFromInt(3)))
	assert.True(t, s.Profit().Equal(decimal.RequireFromString("-0.5")))

	a, ok := s.Asset("A")
	require.True(t, ok)
	assert.True(t, a.BoughtAt.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, a.SoldAt.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "solanart", a.LastExchange)

	b, ok := s.Asset("B")
	require.True(t, ok)
	assert.Nil(t, b.SoldAt)
}

func TestLedger_SellWithoutBuyIsNoOpRemoval(t *testing.T) {
	l := NewLedger()
	l.Apply(sell("X", "4", 0))

	s := l.State()
	assert.Empty(t, s.Holdings())
	assert.True(t, s.Earned.Equal(decimal.NewFromInt(4)))
	a, ok := s.Asset("X")
	require.True(t, ok)
	assert.Nil(t, a.BoughtAt)
	assert.NotNil(t, a.SoldAt)
}

func TestLedger_OneRecordPerMint(t *testing.T) {
	l := NewLedger()
	l.ApplyAll([]domain.TradeEvent{
		buy("A", "1", 0),
		sell("A", "2", 1),
		buy("A", "3", 2),
		buy("B", "1", 3),
	})

	assets := l.State().Assets()
	require.Len(t, assets, 2)
	assert.Equal(t, "A", assets[0].Mint)
	assert.Equal(t, "B", assets[1].Mint)
	assert.True(t, assets[0].BoughtAt.Equal(decimal.NewFromInt(3)), "latest buy wins")
	assert.True(t, l.State().Holds("A"))
}

func TestLedger_FoldOrderSensitivity(t *testing.T) {
	events := []domain.TradeEvent{buy("A", "1", 0), buy("A", "5", 1)}

	forward := NewLedger()
	forward.ApplyAll(events)

	backward := NewLedger()
	backward.Apply(events[1])
	backward.Apply(events[0])

	// Totals commute, last-write fields do not.
	assert.True(t, forward.State().Spent.Equal(backward.State().Spent))
	fa, _ := forward.State().Asset("A")
	ba, _ := backward.State().Asset("A")
	assert.True(t, fa.BoughtAt.Equal(decimal.NewFromInt(5)))
	assert.True(t, ba.BoughtAt.Equal(decimal.NewFromInt(1)))
}

func TestLedger_ReapplyDoublesTotals(t *testing.T) {
	events := []domain.TradeEvent{buy("A", "1.25", 0), sell("A", "2", 1), buy("B", "0.5", 2)}

	l := NewLedger()
	l.ApplyAll(events)
	spent, earned := l.State().Spent, l.State().Earned

	// No dedup: applying the same history again counts it again.
	l.ApplyAll(events)
	assert.True(t, l.State().Spent.Equal(spent.Mul(decimal.NewFromInt(2))))
	assert.True(t, l.State().Earned.Equal(earned.Mul(decimal.NewFromInt(2))))
	assert.Len(t, l.State().Assets(), 2)
}

// eventsFromInts maps generated lamport values to events: positive is a buy,
// negative a sell, over a small set of mints so that they collide.
func eventsFromInts(values []int64) []domain.TradeEvent {
	events := make([]domain.TradeEvent, len(values))
	for i, v := range values {
		kind := domain.EventBuy
		if v < 0 {
			kind = domain.EventSell
			v = -v
		}
		events[i] = domain.TradeEvent{
			Mint:    fmt.Sprintf("mint%d", v%5),
			Amount:  domain.LamportsToSOL(v),
			Kind:    kind,
			Ordinal: i,
		}
	}
	return events
}

var lamportSlices = gen.SliceOf(gen.Int64Range(-1_000_000_000_000, 1_000_000_000_000))

func TestLedger_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("spent and earned are the sums of buys and sells", prop.ForAll(
		func(values []int64) bool {
			events := eventsFromInts(values)
			l := NewLedger()
			l.ApplyAll(events)

			spent, earned := decimal.Zero, decimal.Zero
			for _, e := range events {
				if e.Kind == domain.EventBuy {
					spent = spent.Add(e.Amount)
				} else {
					earned = earned.Add(e.Amount)
				}
			}
			return l.State().Spent.Equal(spent) && l.State().Earned.Equal(earned)
		},
		lamportSlices,
	))

	properties.Property("holdings are buys minus later sells", prop.ForAll(
		func(values []int64) bool {
			events := eventsFromInts(values)
			l := NewLedger()
			l.ApplyAll(events)

			held := make(map[string]bool)
			for _, e := range events {
				held[e.Mint] = e.Kind == domain.EventBuy
			}
			for mint, h := range held {
				if l.State().Holds(mint) != h {
					return false
				}
			}
			return len(l.State().Holdings()) <= len(held)
		},
		lamportSlices,
	))

	properties.Property("asset fields reflect the latest event", prop.ForAll(
		func(values []int64) bool {
			events := eventsFromInts(values)
			l := NewLedger()
			l.ApplyAll(events)

			lastBuy := make(map[string]decimal.Decimal)
			lastSell := make(map[string]decimal.Decimal)
			for _, e := range events {
				if e.Kind == domain.EventBuy {
					lastBuy[e.Mint] = e.Amount
				} else {
					lastSell[e.Mint] = e.Amount
				}
			}
			for _, a := range l.State().Assets() {
				if want, ok := lastBuy[a.Mint]; ok != (a.BoughtAt != nil) || (ok && !a.BoughtAt.Equal(want)) {
					return false
				}
				if want, ok := lastSell[a.Mint]; ok != (a.SoldAt != nil) || (ok && !a.SoldAt.Equal(want)) {
					return false
				}
			}
			return true
		},
		lamportSlices,
	))

	properties.Property("spent and earned never decrease", prop.ForAll(
		func(values []int64) bool {
			l := NewLedger()
			for _, e := range eventsFromInts(values) {
				spent, earned := l.State().Spent, l.State().Earned
				l.Apply(e)
				if l.State().Spent.LessThan(spent) || l.State().Earned.LessThan(earned) {
					return false
				}
			}
			return true
		},
		lamportSlices,
	))

	properties.TestingRun(t)
}
