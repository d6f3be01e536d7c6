package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/luckyturtle/nftape.me/internal/domain"
)

// metadataV1Key is the account discriminator of a Metaplex metadata account.
const metadataV1Key = 4

// ErrInvalidAccount is returned for data that is not a metadata account.
var ErrInvalidAccount = errors.New("invalid metadata account")

// DecodeMetadata decodes a Metaplex metadata account:
//
//	key u8 | update_authority [32] | mint [32] | name str | symbol str | uri str |
//	seller_fee_basis_points u16 | creators Option<Vec<{address [32], verified u8, share u8}>> |
//	primary_sale_happened bool | is_mutable bool
//
// Strings are null padded on chain; padding is trimmed.
func DecodeMetadata(data []byte) (*domain.OnchainMetadata, error) {
	r := &borshReader{data: data}

	key, err := r.u8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	if key != metadataV1Key {
		return nil, fmt.Errorf("%w: key %d", ErrInvalidAccount, key)
	}

	md := &domain.OnchainMetadata{}
	if md.UpdateAuthority, err = r.pubkey(); err != nil {
		return nil, fmt.Errorf("%w: update authority: %v", ErrInvalidAccount, err)
	}
	if md.Mint, err = r.pubkey(); err != nil {
		return nil, fmt.Errorf("%w: mint: %v", ErrInvalidAccount, err)
	}
	if md.Name, err = r.str(); err != nil {
		return nil, fmt.Errorf("%w: name: %v", ErrInvalidAccount, err)
	}
	if md.Symbol, err = r.str(); err != nil {
		return nil, fmt.Errorf("%w: symbol: %v", ErrInvalidAccount, err)
	}
	if md.URI, err = r.str(); err != nil {
		return nil, fmt.Errorf("%w: uri: %v", ErrInvalidAccount, err)
	}
	if md.SellerFeeBasisPoints, err = r.u16(); err != nil {
		return nil, fmt.Errorf("%w: seller fee: %v", ErrInvalidAccount, err)
	}

	hasCreators, err := r.u8()
	if err != nil {
		return nil, fmt.Errorf("%w: creators: %v", ErrInvalidAccount, err)
	}
	if hasCreators != 0 {
		n, err := r.u32()
		if err != nil {
			return nil, fmt.Errorf("%w: creators len: %v", ErrInvalidAccount, err)
		}
		// 34 bytes per creator
		if int(n) > r.remaining()/34 {
			return nil, fmt.Errorf("%w: %d creators exceed account size", ErrInvalidAccount, n)
		}
		md.Creators = make([]domain.Creator, 0, n)
		for i := uint32(0); i < n; i++ {
			var c domain.Creator
			if c.Address, err = r.pubkey(); err != nil {
				return nil, fmt.Errorf("%w: creator %d: %v", ErrInvalidAccount, i, err)
			}
			verified, _ := r.u8()
			c.Verified = verified != 0
			c.Share, _ = r.u8()
			md.Creators = append(md.Creators, c)
		}
	}

	// Trailing flags are absent on some truncated accounts.
	if v, err := r.u8(); err == nil {
		md.PrimarySaleHappened = v != 0
	}
	if v, err := r.u8(); err == nil {
		md.IsMutable = v != 0
	}

	return md, nil
}

type borshReader struct {
	data []byte
	pos  int
}

func (r *borshReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *borshReader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("buffer underflow: need %d bytes, have %d", n, r.remaining())
	}
	return nil
}

func (r *borshReader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *borshReader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *borshReader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *borshReader) pubkey() (string, error) {
	if err := r.need(32); err != nil {
		return "", err
	}
	v := base58.Encode(r.data[r.pos : r.pos+32])
	r.pos += 32
	return v, nil
}

func (r *borshReader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	v := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return strings.TrimRight(v, "\x00"), nil
}
