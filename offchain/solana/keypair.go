package solana

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrInvalidKeypairFile = errors.New("invalid keypair file")

func DefaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// LoadKeypair reads a keypair in the Solana CLI JSON format: a 64 element
// array holding the ed25519 seed followed by the public key.
func LoadKeypair(path string) (ed25519.PrivateKey, Pubkey, error) {
	var pub Pubkey
	if path == "" {
		return nil, pub, fmt.Errorf("keypair path required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pub, err
	}
	return ParseKeypairJSON(raw)
}

func ParseKeypairJSON(raw []byte) (ed25519.PrivateKey, Pubkey, error) {
	var pub Pubkey

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, pub, ErrInvalidKeypairFile
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, pub, ErrInvalidKeypairFile
	}

	key := make([]byte, ed25519.PrivateKeySize)
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, pub, ErrInvalidKeypairFile
		}
		key[i] = byte(v)
	}

	priv := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	pk, ok := priv.Public().(ed25519.PublicKey)
	if !ok || len(pk) != ed25519.PublicKeySize {
		return nil, pub, ErrInvalidKeypairFile
	}
	if string(pk) != string(key[ed25519.SeedSize:]) {
		return nil, pub, fmt.Errorf("%w: public key does not match seed", ErrInvalidKeypairFile)
	}
	copy(pub[:], pk)
	return priv, pub, nil
}

// MarshalKeypairJSON renders priv in the Solana CLI JSON format.
func MarshalKeypairJSON(priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, ErrInvalidKeypairFile
	}
	ints := make([]int, len(priv))
	for i, b := range priv {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}
