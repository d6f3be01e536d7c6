package reporting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/portfolio"
	"github.com/luckyturtle/nftape.me/internal/pricing"
)

func sampleReport() *analysis.Report {
	l := portfolio.NewLedger()
	l.ApplyAll([]domain.TradeEvent{
		{Mint: "mintA", Amount: decimal.NewFromInt(5), Kind: domain.EventBuy, Exchange: "magiceden_v2", Ordinal: 0},
		{Mint: "mintB", Amount: decimal.RequireFromString("2.5"), Kind: domain.EventBuy, Exchange: "solanart", Ordinal: 1},
		{Mint: "mintA", Amount: decimal.NewFromInt(6), Kind: domain.EventSell, Exchange: "magiceden_v2", Ordinal: 2},
	})
	state := l.State()

	a, _ := state.Asset("mintA")
	a.SetMetadata(&domain.AssetMetadata{
		Onchain:  &domain.OnchainMetadata{Name: "Ape #1", Creators: []domain.Creator{{Address: "creatorA"}}},
		External: &domain.ExternalMetadata{Image: "https://img/1.png"},
	})
	a.SetPriceStats(&domain.PriceStats{Key: "creatorA", Values: map[domain.PriceMethod]decimal.Decimal{
		domain.PriceMethodMedian: decimal.NewFromInt(3),
	}})
	a.SetHands(true)

	return &analysis.Report{
		RunID:     "run-1",
		Address:   "Owner111",
		Method:    domain.PriceMethodMedian,
		State:     state,
		StartedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Summary: analysis.Summary{
			Spent:        state.Spent,
			Earned:       state.Earned,
			Profit:       state.Profit(),
			Holdings:     1,
			Assets:       2,
			Paperhanded:  1,
			Unclassified: 1,
		},
		History: analysis.HistoryStats{Signatures: 10, Batches: 1, Events: 3, Ignored: 7},
		Pricing: &pricing.AggregateReport{Requested: 1, Fetched: 1, Skipped: 1},
	}
}

func TestBuild(t *testing.T) {
	doc := Build(sampleReport())

	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "median", doc.Method)
	assert.Equal(t, int64(1500), doc.DurationMs)
	assert.Equal(t, "7.5000", doc.Summary.Spent)
	assert.Equal(t, "6.0000", doc.Summary.Earned)
	assert.Equal(t, "-1.5000", doc.Summary.Profit)
	assert.Equal(t, []string{"mintB"}, doc.Holdings)
	assert.Equal(t, HistoryView{Signatures: 10, Batches: 1, Events: 3, Ignored: 7}, doc.History)
	assert.Equal(t, 1, doc.Pricing.Fetched)

	require.Len(t, doc.Assets, 2)
	a := doc.Assets[0]
	assert.Equal(t, "mintA", a.Mint)
	assert.Equal(t, "Ape #1", a.Name)
	assert.Equal(t, "https://img/1.png", a.Image)
	assert.Equal(t, "creatorA", a.Creator)
	assert.False(t, a.Held)
	assert.Equal(t, "5.0000", *a.BoughtAt)
	assert.Equal(t, "6.0000", *a.SoldAt)
	assert.Equal(t, "3.0000", a.Prices["median"])
	assert.True(t, *a.Paperhanded)

	b := doc.Assets[1]
	assert.True(t, b.Held)
	assert.Nil(t, b.SoldAt)
	assert.Nil(t, b.Paperhanded)
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(Build(sampleReport()))

	assert.True(t, strings.HasPrefix(md, "# Paperhands Report\n"))
	assert.Contains(t, md, "Address: `Owner111`")
	assert.Contains(t, md, "| Profit (SOL) | -1.5000 |")
	assert.Contains(t, md, "| Mint | Name | Held | Bought | Sold | Median | Hands |")
	assert.Contains(t, md, "| mintA | Ape #1 | no | 5.0000 | 6.0000 | 3.0000 | paper |")
	assert.Contains(t, md, "| mintB | - | yes | 2.5000 | - | - | - |")
}

func TestRenderMarkdown_NoAssets(t *testing.T) {
	md := RenderMarkdown(Build(&analysis.Report{Method: domain.PriceMethodFloor, State: portfolio.NewState()}))
	assert.Contains(t, md, "No marketplace trades found.")
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(Build(sampleReport()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "mint,name,held,exchange,bought_at,sold_at,creator,median,hands", lines[0])
	assert.Equal(t, "mintA,Ape #1,false,magiceden_v2,5.0000,6.0000,creatorA,3.0000,paper", lines[1])
	assert.Equal(t, "mintB,,true,solanart,2.5000,,,,", lines[2])
}

func TestRenderJSON(t *testing.T) {
	raw, err := RenderJSON(Build(sampleReport()))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Owner111", decoded["address"])

	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, "7.5000", summary["spent"])

	assets := decoded["assets"].([]interface{})
	second := assets[1].(map[string]interface{})
	assert.Nil(t, second["paperhanded"])
	assert.Nil(t, second["sold_at"])
}
