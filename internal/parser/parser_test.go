package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/marketplace"
	"github.com/luckyturtle/nftape.me/internal/solana"
	"github.com/luckyturtle/nftape.me/internal/solana/stub"
)

const owner = "OwnerAddr1111111111111111111111111111111111"

func TestParse_Buy(t *testing.T) {
	tx := stub.TradeTransaction(stub.Trade{
		Signature:    "sigBuy",
		Slot:         1000,
		BlockTime:    1640000000,
		Program:      marketplace.MagicEdenV2Program,
		Signer:       owner,
		Counterparty: "Seller",
		Mint:         "MintA",
		SignerPre:    5_000_000_000,
		SignerPost:   2_500_000_000,
	})

	e, err := New().Parse(tx, owner, marketplace.MagicEdenV2, 7)
	require.NoError(t, err)

	assert.Equal(t, "MintA", e.Mint)
	assert.Equal(t, domain.EventBuy, e.Kind)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("2.5")), "amount=%s", e.Amount)
	assert.Equal(t, "magiceden_v2", e.Exchange)
	assert.Equal(t, 7, e.Ordinal)
	assert.Equal(t, "sigBuy", e.Signature)
	assert.Equal(t, int64(1000), e.Slot)
	assert.Equal(t, int64(1640000000), e.BlockTime)
}

func TestParse_Sell(t *testing.T) {
	// The owner listed; someone else signed and paid.
	tx := stub.TradeTransaction(stub.Trade{
		Signature:    "sigSell",
		Program:      marketplace.SolanartProgram,
		Signer:       "Buyer",
		Counterparty: owner,
		Mint:         "MintB",
		SignerPre:    10_000_000_000,
		SignerPost:   6_000_000_000,
	})

	e, err := New().Parse(tx, owner, marketplace.Solanart, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.EventSell, e.Kind)
	assert.Equal(t, "MintB", e.Mint)
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(4)))
}

func TestParse_Malformed(t *testing.T) {
	base := func() *solana.Transaction {
		return stub.TradeTransaction(stub.Trade{
			Program: marketplace.MagicEdenV2Program, Signer: owner, Counterparty: "Seller", Mint: "MintA",
			SignerPre: 2_000_000_000, SignerPost: 1_000_000_000,
		})
	}

	tests := []struct {
		name   string
		mutate func(tx *solana.Transaction) *solana.Transaction
	}{
		{"nil tx", func(*solana.Transaction) *solana.Transaction { return nil }},
		{"nil meta", func(tx *solana.Transaction) *solana.Transaction { tx.Meta = nil; return tx }},
		{"nil message", func(tx *solana.Transaction) *solana.Transaction { tx.Message = nil; return tx }},
		{"no pre-token balance", func(tx *solana.Transaction) *solana.Transaction {
			tx.Meta.PreTokenBalances = nil
			return tx
		}},
		{"empty mint", func(tx *solana.Transaction) *solana.Transaction {
			tx.Meta.PreTokenBalances[0].Mint = ""
			return tx
		}},
		{"no signer", func(tx *solana.Transaction) *solana.Transaction {
			tx.Message.AccountKeys[0].Signer = false
			return tx
		}},
		{"two signers", func(tx *solana.Transaction) *solana.Transaction {
			tx.Message.AccountKeys[1].Signer = true
			return tx
		}},
		{"signer outside balances", func(tx *solana.Transaction) *solana.Transaction {
			tx.Meta.PreBalances = nil
			tx.Meta.PostBalances = nil
			return tx
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(tt.mutate(base()), owner, marketplace.MagicEdenV2, 0)
			assert.ErrorIs(t, err, ErrMalformedTransaction)
		})
	}
}
