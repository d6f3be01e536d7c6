package marketplace

import "github.com/luckyturtle/nftape.me/internal/solana"

// Classifier triages transactions by marketplace program.
type Classifier struct {
	registry *Registry
}

// NewClassifier creates a classifier over registry. A nil registry uses the defaults.
func NewClassifier(registry *Registry) *Classifier {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Classifier{registry: registry}
}

// Registry returns the underlying registry.
func (c *Classifier) Registry() *Registry {
	return c.registry
}

// Classify returns the marketplace that produced tx, or false when tx is not a
// marketplace trade. Failed, nil or structurally incomplete transactions are
// never trades. Classify has no side effects and never panics on malformed input.
//
// Matching order: top-level instructions, then inner instructions, then the
// account keys list (older marketplaces only show up there).
func (c *Classifier) Classify(tx *solana.Transaction) (Exchange, bool) {
	if tx == nil || tx.Message == nil || tx.Failed() {
		return "", false
	}

	for _, ix := range tx.Message.Instructions {
		if e, ok := c.registry.Lookup(ix.ProgramID); ok {
			return e, true
		}
	}

	if tx.Meta != nil {
		for _, inner := range tx.Meta.InnerInstructions {
			for _, ix := range inner.Instructions {
				if e, ok := c.registry.Lookup(ix.ProgramID); ok {
					return e, true
				}
			}
		}
	}

	for _, key := range tx.Message.AccountKeys {
		if e, ok := c.registry.Lookup(key.Pubkey); ok {
			return e, true
		}
	}

	return "", false
}
