package stub

import (
	"context"
	"errors"
	"sync"

	"github.com/luckyturtle/nftape.me/internal/solana"
)

// ErrNotFound is returned when a transaction or account is not found.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
// Signatures are stored newest-first, the order the real node returns them.
type RPCClient struct {
	mu           sync.Mutex
	Transactions map[string]*solana.Transaction
	Signatures   map[string][]solana.SignatureInfo
	Accounts     map[string]*solana.AccountInfo

	// Injected failures.
	SignaturesErr   error
	TransactionsErr error
	AccountErr      error

	// Call log.
	BatchSizes      []int
	SignatureCalls  int
	AccountRequests []string
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions: make(map[string]*solana.Transaction),
		Signatures:   make(map[string][]solana.SignatureInfo),
		Accounts:     make(map[string]*solana.AccountInfo),
	}
}

// GetSignaturesForAddress pages through the stored signatures honoring Before and Limit.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SignatureCalls++
	if c.SignaturesErr != nil {
		return nil, c.SignaturesErr
	}

	sigs := c.Signatures[address]

	if opts != nil && opts.Before != "" {
		start := len(sigs)
		for i, s := range sigs {
			if s.Signature == opts.Before {
				start = i + 1
				break
			}
		}
		sigs = sigs[start:]
	}

	// Apply limit if specified
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		sigs = sigs[:opts.Limit]
	}

	out := make([]solana.SignatureInfo, len(sigs))
	copy(out, sigs)
	return out, nil
}

// GetTransactions resolves signatures from the stub store; unknown ones resolve to nil.
func (c *RPCClient) GetTransactions(_ context.Context, signatures []string) ([]*solana.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.BatchSizes = append(c.BatchSizes, len(signatures))
	if c.TransactionsErr != nil {
		return nil, c.TransactionsErr
	}

	txs := make([]*solana.Transaction, len(signatures))
	for i, sig := range signatures {
		txs[i] = c.Transactions[sig]
	}
	return txs, nil
}

// GetAccountInfo retrieves account info from the stub store. Unknown accounts return nil.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AccountRequests = append(c.AccountRequests, pubkey)
	if c.AccountErr != nil {
		return nil, c.AccountErr
	}
	return c.Accounts[pubkey], nil
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Transactions[tx.Signature] = tx
}

// AddSignatures sets the signatures for an address. sigs must be newest-first.
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Signatures[address] = sigs
}

// AddAccount stores account info for a pubkey.
func (c *RPCClient) AddAccount(pubkey string, info *solana.AccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[pubkey] = info
}

var _ solana.RPCClient = (*RPCClient)(nil)
