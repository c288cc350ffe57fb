package wallet

import (
	"context"
	"crypto/ed25519"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
)

func writeKeypair(t *testing.T, priv ed25519.PrivateKey) string {
	t.Helper()
	raw, err := solana.MarshalKeypairJSON(priv)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestKeypairWallet_ConnectAndSign(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(make([]byte, 32))
	w := NewKeypairWallet(writeKeypair(t, priv))

	assert.False(t, w.Connected())
	assert.True(t, w.PublicKey().IsZero())

	require.NoError(t, w.Connect(context.Background()))
	assert.True(t, w.Connected())
	pk := w.PublicKey()
	assert.Equal(t, []byte(priv.Public().(ed25519.PublicKey)), pk[:])

	// Connecting twice is a no-op.
	require.NoError(t, w.Connect(context.Background()))

	tx := solana.NewTransaction(solana.Instruction{ProgramID: solana.SystemProgramID, Data: []byte{1}})
	tx.FeePayer = w.PublicKey()
	signed, err := w.SignTransaction(context.Background(), tx)
	require.NoError(t, err)

	raw, err := signed.Serialize()
	require.NoError(t, err)
	parsed, err := solana.ParseLegacyTransaction(raw)
	require.NoError(t, err)
	require.NoError(t, parsed.Verify())
}

func TestKeypairWallet_SignBeforeConnect(t *testing.T) {
	w := NewKeypairWallet("unused")
	tx := solana.NewTransaction(solana.Instruction{ProgramID: solana.SystemProgramID})
	_, err := w.SignTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestKeypairWallet_ConnectMissingFile(t *testing.T) {
	w := NewKeypairWallet(filepath.Join(t.TempDir(), "missing.json"))
	err := w.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, w.Connected())
}

func TestFromPrivateKey(t *testing.T) {
	priv := ed25519.NewKeyFromSeed([]byte("0123456789abcdef0123456789abcdef"))
	w, err := FromPrivateKey(priv)
	require.NoError(t, err)
	assert.True(t, w.Connected())

	_, err = FromPrivateKey(priv[:10])
	assert.ErrorIs(t, err, solana.ErrInvalidKeypairFile)
}
