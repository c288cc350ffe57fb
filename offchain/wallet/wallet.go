// Package wallet holds the signing identity used to pay for and authorize
// crowdfund transactions.
package wallet

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
)

var (
	ErrNotConnected  = errors.New("wallet not connected")
	ErrKeyNotOnCurve = errors.New("wallet public key is not a valid ed25519 point")
)

// Wallet is the adapter the crowdfund client drives: it exposes one identity
// and signs transactions on its behalf.
type Wallet interface {
	Connected() bool
	Connect(ctx context.Context) error
	PublicKey() solana.Pubkey
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// KeypairWallet signs with a local ed25519 key. When built from a path the
// key is read on Connect.
type KeypairWallet struct {
	path string

	mu   sync.Mutex
	priv ed25519.PrivateKey
	pub  solana.Pubkey
}

// NewKeypairWallet returns a wallet backed by a Solana CLI keypair file.
func NewKeypairWallet(path string) *KeypairWallet {
	return &KeypairWallet{path: path}
}

// FromPrivateKey returns an already connected wallet.
func FromPrivateKey(priv ed25519.PrivateKey) (*KeypairWallet, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, solana.ErrInvalidKeypairFile
	}
	var pub solana.Pubkey
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	if !pub.IsOnCurve() {
		return nil, ErrKeyNotOnCurve
	}
	return &KeypairWallet{priv: priv, pub: pub}, nil
}

func (w *KeypairWallet) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.priv != nil
}

func (w *KeypairWallet) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.priv != nil {
		return nil
	}

	priv, pub, err := solana.LoadKeypair(w.path)
	if err != nil {
		return fmt.Errorf("load keypair: %w", err)
	}
	if !pub.IsOnCurve() {
		return ErrKeyNotOnCurve
	}
	w.priv = priv
	w.pub = pub
	return nil
}

// PublicKey returns the zero key until the wallet is connected.
func (w *KeypairWallet) PublicKey() solana.Pubkey {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pub
}

func (w *KeypairWallet) SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	priv, pub := w.priv, w.pub
	w.mu.Unlock()
	if priv == nil {
		return nil, ErrNotConnected
	}

	if err := tx.Sign(map[solana.Pubkey]ed25519.PrivateKey{pub: priv}); err != nil {
		return nil, err
	}
	return tx, nil
}
