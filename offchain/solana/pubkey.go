package solana

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

type Pubkey [32]byte

const (
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrInvalidPubkey    = errors.New("invalid pubkey")
	ErrMaxSeedLength    = errors.New("max seed length exceeded")
	ErrIllegalOwner     = errors.New("provided owner is not allowed")
	ErrInvalidBlockhash = errors.New("invalid blockhash")
)

func ParsePubkey(s string) (Pubkey, error) {
	var out Pubkey
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return out, ErrInvalidPubkey
	}

	if len(s) == 64 {
		b, err := hex.DecodeString(s)
		if err != nil || len(b) != 32 {
			return out, ErrInvalidPubkey
		}
		copy(out[:], b)
		return out, nil
	}

	b, err := base58.Decode(s)
	if err != nil || len(b) != 32 {
		return out, ErrInvalidPubkey
	}
	copy(out[:], b)
	return out, nil
}

// ParseBlockhash decodes a base58 blockhash as returned by the RPC.
func ParseBlockhash(s string) ([32]byte, error) {
	var out [32]byte
	b, err := base58.Decode(strings.TrimSpace(s))
	if err != nil || len(b) != 32 {
		return out, ErrInvalidBlockhash
	}
	copy(out[:], b)
	return out, nil
}

func (k Pubkey) Base58() string {
	return base58.Encode(k[:])
}

func (k Pubkey) String() string { return k.Base58() }

func (k Pubkey) IsZero() bool { return k == Pubkey{} }

func (k Pubkey) MarshalText() ([]byte, error) {
	return []byte(k.Base58()), nil
}

func (k *Pubkey) UnmarshalText(b []byte) error {
	pk, err := ParsePubkey(string(b))
	if err != nil {
		return err
	}
	*k = pk
	return nil
}

// IsOnCurve reports whether k decodes to a valid ed25519 point, i.e. whether
// a private key can exist for it.
func (k Pubkey) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(k[:])
	return err == nil
}

// CreateWithSeed derives the address the system program assigns to an account
// created with CreateAccountWithSeed: sha256(base || seed || owner).
func CreateWithSeed(base Pubkey, seed string, owner Pubkey) (Pubkey, error) {
	if len(seed) > MaxSeedLength {
		return Pubkey{}, ErrMaxSeedLength
	}
	if strings.HasSuffix(string(owner[:]), pdaMarker) {
		return Pubkey{}, ErrIllegalOwner
	}

	h := sha256.New()
	h.Write(base[:])
	h.Write([]byte(seed))
	h.Write(owner[:])

	var out Pubkey
	copy(out[:], h.Sum(nil))
	return out, nil
}
