package domain

import "github.com/shopspring/decimal"

// AssetRecord accumulates everything known about one NFT during an analysis.
// Records are keyed by Mint and merged field by field through the setters.
type AssetRecord struct {
	Mint string

	BoughtAt *decimal.Decimal // SOL spent on the latest buy (nullable)
	SoldAt   *decimal.Decimal // SOL received on the latest sell (nullable)

	CurrentPrices    *PriceStats
	OnchainMetadata  *OnchainMetadata
	ExternalMetadata *ExternalMetadata

	// Both nil until classified; exactly one is true afterwards.
	Paperhanded   *bool
	Diamondhanded *bool

	LastExchange string // marketplace of the latest trade
}

// NewAssetRecord creates an empty record for mint.
func NewAssetRecord(mint string) *AssetRecord {
	return &AssetRecord{Mint: mint}
}

// SetBoughtAt records the latest purchase price.
func (a *AssetRecord) SetBoughtAt(amount decimal.Decimal) {
	a.BoughtAt = &amount
}

// SetSoldAt records the latest sale price.
func (a *AssetRecord) SetSoldAt(amount decimal.Decimal) {
	a.SoldAt = &amount
}

// SetMetadata merges enrichment results. A nil argument leaves the field as is.
func (a *AssetRecord) SetMetadata(md *AssetMetadata) {
	if md == nil {
		return
	}
	if md.Onchain != nil {
		a.OnchainMetadata = md.Onchain
	}
	if md.External != nil {
		a.ExternalMetadata = md.External
	}
}

// SetPriceStats attaches a price snapshot.
func (a *AssetRecord) SetPriceStats(stats *PriceStats) {
	a.CurrentPrices = stats
}

// SetHands stores a classification verdict.
func (a *AssetRecord) SetHands(paper bool) {
	diamond := !paper
	a.Paperhanded = &paper
	a.Diamondhanded = &diamond
}

// Classified reports whether hand flags have been set.
func (a *AssetRecord) Classified() bool {
	return a.Paperhanded != nil && a.Diamondhanded != nil
}

// CreatorKey returns the primary creator address used for price lookups,
// or "" when no on-chain creators are known.
func (a *AssetRecord) CreatorKey() string {
	if a.OnchainMetadata == nil || len(a.OnchainMetadata.Creators) == 0 {
		return ""
	}
	return a.OnchainMetadata.Creators[0].Address
}
