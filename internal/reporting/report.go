// Package reporting renders analysis reports as Markdown, CSV and JSON.
package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/domain"
)

// amountPrecision is the number of decimals amounts are printed with.
const amountPrecision = 4

// Document is the serializable view of an analysis report.
type Document struct {
	RunID       string      `json:"run_id"`
	Address     string      `json:"address"`
	Method      string      `json:"method"`
	GeneratedAt time.Time   `json:"generated_at"`
	DurationMs  int64       `json:"duration_ms"`
	Summary     SummaryView `json:"summary"`
	History     HistoryView `json:"history"`
	Pricing     PricingView `json:"pricing"`
	Holdings    []string    `json:"holdings"`
	Assets      []AssetView `json:"assets"`
}

// SummaryView is the report headline. Amounts are SOL strings.
type SummaryView struct {
	Spent         string `json:"spent"`
	Earned        string `json:"earned"`
	Profit        string `json:"profit"`
	Holdings      int    `json:"holdings"`
	Assets        int    `json:"assets"`
	Paperhanded   int    `json:"paperhanded"`
	Diamondhanded int    `json:"diamondhanded"`
	Unclassified  int    `json:"unclassified"`
}

// HistoryView mirrors analysis.HistoryStats.
type HistoryView struct {
	Signatures int `json:"signatures"`
	Batches    int `json:"batches"`
	Events     int `json:"events"`
	Ignored    int `json:"ignored"`
	Skipped    int `json:"skipped"`
}

// PricingView mirrors pricing.AggregateReport.
type PricingView struct {
	Requested  int `json:"requested"`
	Fetched    int `json:"fetched"`
	NoListings int `json:"no_listings"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// AssetView is one asset row.
type AssetView struct {
	Mint          string            `json:"mint"`
	Name          string            `json:"name,omitempty"`
	Image         string            `json:"image,omitempty"`
	Creator       string            `json:"creator,omitempty"`
	Held          bool              `json:"held"`
	Exchange      string            `json:"exchange,omitempty"`
	BoughtAt      *string           `json:"bought_at"`
	SoldAt        *string           `json:"sold_at"`
	Prices        map[string]string `json:"prices,omitempty"`
	Paperhanded   *bool             `json:"paperhanded"`
	Diamondhanded *bool             `json:"diamondhanded"`
}

// Build converts an analysis report into a Document.
func Build(r *analysis.Report) *Document {
	doc := &Document{
		RunID:       r.RunID,
		Address:     r.Address,
		Method:      r.Method.String(),
		GeneratedAt: r.StartedAt,
		DurationMs:  r.Duration.Milliseconds(),
		Summary: SummaryView{
			Spent:         formatSOL(r.Summary.Spent),
			Earned:        formatSOL(r.Summary.Earned),
			Profit:        formatSOL(r.Summary.Profit),
			Holdings:      r.Summary.Holdings,
			Assets:        r.Summary.Assets,
			Paperhanded:   r.Summary.Paperhanded,
			Diamondhanded: r.Summary.Diamondhanded,
			Unclassified:  r.Summary.Unclassified,
		},
		History:  HistoryView(r.History),
		Holdings: []string{},
		Assets:   []AssetView{},
	}

	if r.Pricing != nil {
		doc.Pricing = PricingView(*r.Pricing)
	}

	if r.State == nil {
		return doc
	}
	doc.Holdings = r.State.Holdings()

	for _, a := range r.State.Assets() {
		doc.Assets = append(doc.Assets, assetView(a, r.State.Holds(a.Mint)))
	}
	return doc
}

func assetView(a *domain.AssetRecord, held bool) AssetView {
	v := AssetView{
		Mint:          a.Mint,
		Creator:       a.CreatorKey(),
		Held:          held,
		Exchange:      a.LastExchange,
		BoughtAt:      formatOptional(a.BoughtAt),
		SoldAt:        formatOptional(a.SoldAt),
		Paperhanded:   a.Paperhanded,
		Diamondhanded: a.Diamondhanded,
	}
	if a.OnchainMetadata != nil {
		v.Name = a.OnchainMetadata.Name
	}
	if a.ExternalMetadata != nil {
		v.Image = a.ExternalMetadata.Image
		if v.Name == "" {
			v.Name = a.ExternalMetadata.Name
		}
	}
	if a.CurrentPrices != nil {
		v.Prices = make(map[string]string, len(a.CurrentPrices.Values))
		for m, p := range a.CurrentPrices.Values {
			v.Prices[m.String()] = formatSOL(p)
		}
	}
	return v
}

func formatSOL(d decimal.Decimal) string {
	return d.StringFixed(amountPrecision)
}

func formatOptional(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := formatSOL(*d)
	return &s
}
