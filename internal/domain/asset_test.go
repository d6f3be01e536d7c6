package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRecord_SettersMerge(t *testing.T) {
	a := NewAssetRecord("mint1")
	a.SetBoughtAt(decimal.RequireFromString("1.5"))
	a.SetMetadata(&AssetMetadata{
		Onchain: &OnchainMetadata{Name: "Ape #1", Creators: []Creator{{Address: "creatorA"}, {Address: "creatorB"}}},
	})
	a.SetSoldAt(decimal.RequireFromString("2"))

	require.NotNil(t, a.BoughtAt)
	require.NotNil(t, a.SoldAt)
	assert.True(t, a.BoughtAt.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, a.SoldAt.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "Ape #1", a.OnchainMetadata.Name)
	assert.Nil(t, a.ExternalMetadata)
	assert.Equal(t, "creatorA", a.CreatorKey())

	// External-only update keeps the on-chain part.
	a.SetMetadata(&AssetMetadata{External: &ExternalMetadata{Image: "ipfs://x"}})
	assert.Equal(t, "Ape #1", a.OnchainMetadata.Name)
	assert.Equal(t, "ipfs://x", a.ExternalMetadata.Image)

	a.SetMetadata(nil)
	assert.NotNil(t, a.OnchainMetadata)
}

func TestAssetRecord_CreatorKeyEmpty(t *testing.T) {
	a := NewAssetRecord("mint1")
	assert.Equal(t, "", a.CreatorKey())

	a.OnchainMetadata = &OnchainMetadata{}
	assert.Equal(t, "", a.CreatorKey())
}

func TestAssetRecord_SetHands(t *testing.T) {
	a := NewAssetRecord("mint1")
	assert.False(t, a.Classified())

	a.SetHands(true)
	require.True(t, a.Classified())
	assert.True(t, *a.Paperhanded)
	assert.False(t, *a.Diamondhanded)

	a.SetHands(false)
	assert.False(t, *a.Paperhanded)
	assert.True(t, *a.Diamondhanded)
}

func TestLamportsToSOL(t *testing.T) {
	assert.True(t, LamportsToSOL(1_500_000_000).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, LamportsToSOL(-2_000_000_000).Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, "0.000000001", LamportsToSOL(1).String())
}

func TestParsePriceMethod(t *testing.T) {
	m, err := ParsePriceMethod(" Median ")
	require.NoError(t, err)
	assert.Equal(t, PriceMethodMedian, m)

	_, err = ParsePriceMethod("vwap")
	assert.ErrorIs(t, err, ErrUnknownPriceMethod)
}

func TestPriceStats_Value(t *testing.T) {
	var nilStats *PriceStats
	_, ok := nilStats.Value(PriceMethodMedian)
	assert.False(t, ok)

	s := &PriceStats{Values: map[PriceMethod]decimal.Decimal{PriceMethodMedian: decimal.NewFromInt(3)}}
	v, ok := s.Value(PriceMethodMedian)
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(3)))

	_, ok = s.Value(PriceMethodFloor)
	assert.False(t, ok)
}

func TestCollaboratorError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch history: %w", NewCollaboratorError(CollaboratorLedger, "getSignaturesForAddress", "addr1", cause))

	assert.ErrorIs(t, err, ErrCollaboratorUnavailable)
	assert.ErrorIs(t, err, cause)

	var ce *CollaboratorError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, CollaboratorLedger, ce.Collaborator)
	assert.Equal(t, "ledger getSignaturesForAddress addr1: connection refused", ce.Error())
}
