package stub

import "github.com/luckyturtle/nftape.me/internal/solana"

// Trade describes a single-signer marketplace trade for building fixtures.
type Trade struct {
	Signature    string
	Slot         int64
	BlockTime    int64
	Program      string // marketplace program ID invoked at top level
	Signer       string // fee payer, index 0
	Counterparty string // non-signer account, index 1
	Mint         string
	SignerPre    int64 // lamports
	SignerPost   int64
}

// TradeTransaction builds a parsed transaction shaped like a marketplace sale.
func TradeTransaction(tr Trade) *solana.Transaction {
	return &solana.Transaction{
		Slot:      tr.Slot,
		Signature: tr.Signature,
		BlockTime: tr.BlockTime,
		Meta: &solana.TransactionMeta{
			Fee:          5000,
			PreBalances:  []int64{tr.SignerPre, 10_000_000_000, 1},
			PostBalances: []int64{tr.SignerPost, 10_000_000_000 + (tr.SignerPre - tr.SignerPost), 1},
			PreTokenBalances: []solana.TokenBalance{
				{AccountIndex: 2, Mint: tr.Mint, Owner: tr.Counterparty, Amount: "1", Decimals: 0},
			},
			PostTokenBalances: []solana.TokenBalance{
				{AccountIndex: 2, Mint: tr.Mint, Owner: tr.Signer, Amount: "1", Decimals: 0},
			},
		},
		Message: &solana.TransactionMessage{
			AccountKeys: []solana.AccountKey{
				{Pubkey: tr.Signer, Signer: true, Writable: true},
				{Pubkey: tr.Counterparty, Writable: true},
				{Pubkey: "TokenAcct" + tr.Mint, Writable: true},
				{Pubkey: tr.Program},
			},
			Instructions: []solana.Instruction{
				{ProgramID: tr.Program, Accounts: []string{tr.Signer, tr.Counterparty}},
			},
		},
	}
}

// TransferTransaction builds a plain system transfer that no marketplace produced.
func TransferTransaction(signature string, slot int64, from, to string) *solana.Transaction {
	return &solana.Transaction{
		Slot:      slot,
		Signature: signature,
		Meta: &solana.TransactionMeta{
			PreBalances:  []int64{2_000_000_000, 0},
			PostBalances: []int64{999_995_000, 1_000_000_000},
		},
		Message: &solana.TransactionMessage{
			AccountKeys: []solana.AccountKey{
				{Pubkey: from, Signer: true, Writable: true},
				{Pubkey: to, Writable: true},
			},
			Instructions: []solana.Instruction{
				{ProgramID: "11111111111111111111111111111111", Accounts: []string{from, to}},
			},
		},
	}
}
