package solana

import "context"

// RPCClient defines the subset of the Solana RPC HTTP interface used by the analyzer.
type RPCClient interface {
	// GetSignaturesForAddress retrieves signatures for an address with pagination.
	// Results are returned newest-first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetTransactions resolves a batch of signatures to full transactions.
	// The result has the same length and order as signatures; entries for
	// transactions the node does not know are nil.
	GetTransactions(ctx context.Context, signatures []string) ([]*Transaction, error)

	// GetAccountInfo retrieves account info by public key. Returns nil if account not found.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)
}

// Transaction represents a Solana transaction fetched with jsonParsed encoding.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err               interface{}
	Fee               int64
	PreBalances       []int64 // lamports, indexed like Message.AccountKeys
	PostBalances      []int64
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
	LogMessages       []string
	InnerInstructions []InnerInstruction
}

// TokenBalance is a pre/post token balance entry.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string
	Amount       string // raw amount, base units
	Decimals     int
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys  []AccountKey
	Instructions []Instruction
}

// AccountKey is one entry of the message account list.
type AccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// Instruction is a top-level or inner instruction.
type Instruction struct {
	ProgramID string
	Accounts  []string
}

// InnerInstruction groups the inner instructions of one top-level instruction.
type InnerInstruction struct {
	Index        int
	Instructions []Instruction
}

// Signers returns the indices of all signer accounts.
func (m *TransactionMessage) Signers() []int {
	if m == nil {
		return nil
	}
	var idx []int
	for i, k := range m.AccountKeys {
		if k.Signer {
			idx = append(idx, i)
		}
	}
	return idx
}

// Failed reports whether the transaction was executed with an error.
func (t *Transaction) Failed() bool {
	return t != nil && t.Meta != nil && t.Meta.Err != nil
}
