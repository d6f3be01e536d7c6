package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckyturtle/nftape.me/internal/config"
	"github.com/luckyturtle/nftape.me/internal/marketplace"
	"github.com/luckyturtle/nftape.me/internal/solana"
	"github.com/luckyturtle/nftape.me/internal/solana/stub"
)

const (
	owner         = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	customProgram = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

func testConfig(t *testing.T, statsURL string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Pricing.BaseURL = statsURL
	cfg.Pricing.MaxRetries = 0
	cfg.Marketplaces.Extra = []config.ExtraMarketplace{{Program: customProgram, Exchange: "custom"}}
	require.NoError(t, cfg.Validate())
	return cfg
}

func noListingsServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewWithRPC_AnalyzesThroughExtraMarketplace(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddTransaction(stub.TradeTransaction(stub.Trade{
		Signature: "t0", Slot: 1, Program: customProgram,
		Signer: owner, Counterparty: "seller", Mint: "mintA",
		SignerPre: 7_000_000_000, SignerPost: 2_000_000_000,
	}))
	rpc.AddSignatures(owner, []solana.SignatureInfo{{Signature: "t0", Slot: 1}})

	a, err := NewWithRPC(context.Background(), testConfig(t, noListingsServer(t).URL), rpc, nil)
	require.NoError(t, err)
	defer a.Close()

	exchange, ok := a.Registry.Lookup(customProgram)
	require.True(t, ok)
	assert.Equal(t, marketplace.Exchange("custom"), exchange)

	report, err := a.Orchestrator.Analyze(context.Background(), owner)
	require.NoError(t, err)

	assert.True(t, report.Summary.Spent.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 1, report.Summary.Assets)
	assert.Equal(t, 1, report.Summary.Unclassified)

	asset, ok := report.State.Asset("mintA")
	require.True(t, ok)
	assert.Equal(t, "custom", asset.LastExchange)
}

func TestNewWithRPC_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t, noListingsServer(t).URL)
	cfg.Cache.RedisAddr = mr.Addr()

	a, err := NewWithRPC(context.Background(), cfg, stub.NewRPCClient(), nil)
	require.NoError(t, err)
	require.Len(t, a.closers, 1)
	assert.NoError(t, a.Close())
}

func TestNewWithRPC_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t, noListingsServer(t).URL)
	cfg.Cache.RedisAddr = addr

	_, err := NewWithRPC(context.Background(), cfg, stub.NewRPCClient(), nil)
	assert.Error(t, err)
}
