package metadata

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// TokenMetadataProgram is the Metaplex Token Metadata program ID.
const TokenMetadataProgram = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

// ErrNoViableBump is returned when no bump seed yields an off-curve address.
var ErrNoViableBump = errors.New("no viable bump seed")

// MetadataAddress derives the Metaplex metadata account for mint.
// Seeds: ["metadata", program_id, mint]
func MetadataAddress(mint string) (string, error) {
	mintBytes, err := decodePubkey(mint)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	programBytes, err := decodePubkey(TokenMetadataProgram)
	if err != nil {
		return "", fmt.Errorf("program: %w", err)
	}

	addr, _, err := FindProgramAddress([][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}, programBytes)
	return addr, err
}

// FindProgramAddress searches bumps from 255 down for the first seed set
// whose hash is off the ed25519 curve.
func FindProgramAddress(seeds [][]byte, programID []byte) (string, byte, error) {
	for bump := 255; bump >= 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, byte(bump))
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)
		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:]), byte(bump), nil
		}
	}
	return "", 0, ErrNoViableBump
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

func decodePubkey(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", s, err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("decode %q: want 32 bytes, got %d", s, len(b))
	}
	return b, nil
}
