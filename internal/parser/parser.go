// Package parser turns triaged marketplace transactions into trade events.
package parser

import (
	"errors"
	"fmt"

	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/marketplace"
	"github.com/luckyturtle/nftape.me/internal/solana"
)

// ErrMalformedTransaction is returned when a transaction lacks the token
// balance or signer structure a marketplace trade must have.
var ErrMalformedTransaction = errors.New("malformed transaction")

// Parser extracts TradeEvents from marketplace transactions.
type Parser struct{}

// New creates a new Parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts the trade in tx as seen from owner.
//
// The traded asset is the mint of the first pre-transaction token balance.
// The single signer is the buyer: its SOL delta (pre - post) is the price.
// If the signer is owner the event is a buy, otherwise owner sold to the signer.
// Transactions with zero or several signers are rejected.
func (p *Parser) Parse(tx *solana.Transaction, owner string, exchange marketplace.Exchange, ordinal int) (domain.TradeEvent, error) {
	if tx == nil || tx.Meta == nil || tx.Message == nil {
		return domain.TradeEvent{}, fmt.Errorf("%w: missing meta or message", ErrMalformedTransaction)
	}

	meta := tx.Meta
	if len(meta.PreTokenBalances) == 0 {
		return domain.TradeEvent{}, fmt.Errorf("%w: no pre-token balance", ErrMalformedTransaction)
	}
	mint := meta.PreTokenBalances[0].Mint
	if mint == "" {
		return domain.TradeEvent{}, fmt.Errorf("%w: empty mint in pre-token balance", ErrMalformedTransaction)
	}

	signers := tx.Message.Signers()
	switch len(signers) {
	case 0:
		return domain.TradeEvent{}, fmt.Errorf("%w: no signer", ErrMalformedTransaction)
	case 1:
	default:
		return domain.TradeEvent{}, fmt.Errorf("%w: %d signers", ErrMalformedTransaction, len(signers))
	}

	idx := signers[0]
	if idx >= len(meta.PreBalances) || idx >= len(meta.PostBalances) {
		return domain.TradeEvent{}, fmt.Errorf("%w: signer index %d outside balances", ErrMalformedTransaction, idx)
	}

	amount := domain.LamportsToSOL(meta.PreBalances[idx] - meta.PostBalances[idx])

	kind := domain.EventSell
	if tx.Message.AccountKeys[idx].Pubkey == owner {
		kind = domain.EventBuy
	}

	return domain.TradeEvent{
		Mint:      mint,
		Amount:    amount,
		Kind:      kind,
		Exchange:  exchange.String(),
		Ordinal:   ordinal,
		Signature: tx.Signature,
		Slot:      tx.Slot,
		BlockTime: tx.BlockTime,
	}, nil
}
