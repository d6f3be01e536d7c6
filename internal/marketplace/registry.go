// Package marketplace tags transactions with the NFT marketplace program that produced them.
package marketplace

import (
	"sort"
	"sync"
)

// Exchange is a normalized marketplace tag.
type Exchange string

// Exchange tags.
const (
	MagicEdenV1 Exchange = "magiceden_v1"
	MagicEdenV2 Exchange = "magiceden_v2"
	Solanart    Exchange = "solanart"
	DigitalEyes Exchange = "digitaleyes"
	AlphaArt    Exchange = "alphaart"
	ExchangeArt Exchange = "exchangeart"
	Solsea      Exchange = "solsea"
	TensorSwap  Exchange = "tensorswap"
)

// String returns the string representation of Exchange.
func (e Exchange) String() string {
	return string(e)
}

// Known marketplace program IDs.
const (
	// MagicEdenV1Program is the original Magic Eden escrow program.
	MagicEdenV1Program = "MEisE1HzehtrDpAAT8PnLHjpSSkRYakotTuJRPjTpo8"
	// MagicEdenV2Program is the Magic Eden v2 auction house program.
	MagicEdenV2Program = "M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K"
	SolanartProgram    = "CJsLwbP1iu5DuUikHEJnLfANgKy6stB2uFgvBBHoyxwz"
	DigitalEyesProgram = "A7p8451ktDCHq5yYaHczeLMYsjRsAkzc3hCXcSrwYHU7"
	AlphaArtProgram    = "HZaWndaNWHFDd9Dhk5pqUUtsmoBCqzb1MLu3NAh1VX6B"
	ExchangeArtProgram = "AmK5g2XcyptVLCFESBCJqoSfwV3znGoVYQnqEnaAZKWn"
	SolseaProgram      = "617jbWo616ggkDxvW1Le8pV38XLbVSyWY8ae6QUmGBAU"
	TensorSwapProgram  = "TSWAPaqyCSx2KABk68Shruf4rp7CxcNi8hAsbdwmHbN"
)

// Registry maps program IDs to exchange tags. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]Exchange // programID -> exchange
}

// NewRegistry creates a registry with the default marketplaces registered.
func NewRegistry() *Registry {
	r := &Registry{
		programs: make(map[string]Exchange),
	}

	r.Register(MagicEdenV1Program, MagicEdenV1)
	r.Register(MagicEdenV2Program, MagicEdenV2)
	r.Register(SolanartProgram, Solanart)
	r.Register(DigitalEyesProgram, DigitalEyes)
	r.Register(AlphaArtProgram, AlphaArt)
	r.Register(ExchangeArtProgram, ExchangeArt)
	r.Register(SolseaProgram, Solsea)
	r.Register(TensorSwapProgram, TensorSwap)

	return r
}

// Register maps programID to exchange, replacing any previous mapping.
func (r *Registry) Register(programID string, exchange Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[programID] = exchange
}

// Lookup returns the exchange for programID.
func (r *Registry) Lookup(programID string) (Exchange, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.programs[programID]
	return e, ok
}

// Programs returns the registered program IDs, sorted.
func (r *Registry) Programs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.programs))
	for id := range r.programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
