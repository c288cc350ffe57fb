package solana_test

import (
	"crypto/ed25519"
	"testing"

	bin "github.com/gagliardetto/binary"
	sgo "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
)

// Transactions compiled here must decode with solana-go exactly as the
// cluster would see them.
func TestLegacyTransaction_DecodesWithSolanaGo(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(make([]byte, 32))
	var payer solana.Pubkey
	copy(payer[:], priv.Public().(ed25519.PublicKey))

	program, err := solana.ParsePubkey("5boAEVrqySfeTnERzGK1CjFoYTRRGVoUEF6yqQfSSG48")
	require.NoError(t, err)

	seed := "abcdef0.123"
	newAccount, err := solana.CreateWithSeed(payer, seed, program)
	require.NoError(t, err)

	ref, err := sgo.CreateWithSeed(sgo.PublicKey(payer), seed, sgo.PublicKey(program))
	require.NoError(t, err)
	require.Equal(t, [32]byte(ref), [32]byte(newAccount))

	tx := solana.NewTransaction(
		solana.SystemCreateAccountWithSeed(payer, newAccount, payer, seed, 5000, 1, program),
		solana.Instruction{
			ProgramID: program,
			Accounts: []solana.AccountMeta{
				{Pubkey: newAccount, IsWritable: true},
				{Pubkey: payer, IsSigner: true},
			},
			Data: []byte{2},
		},
	)
	tx.FeePayer = payer
	tx.RecentBlockhash = [32]byte{7, 7, 7}
	require.NoError(t, tx.Sign(map[solana.Pubkey]ed25519.PrivateKey{payer: priv}))

	raw, err := tx.Serialize()
	require.NoError(t, err)

	decoded, err := sgo.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	require.NoError(t, decoded.VerifySignatures())

	require.Len(t, decoded.Signatures, 1)
	sig, ok := tx.Signature()
	require.True(t, ok)
	require.Equal(t, [64]byte(sig), [64]byte(decoded.Signatures[0]))

	msg := decoded.Message
	require.Equal(t, [32]byte{7, 7, 7}, [32]byte(msg.RecentBlockhash))
	require.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)
	require.Equal(t, uint8(0), msg.Header.NumReadonlySignedAccounts)
	require.Equal(t, uint8(2), msg.Header.NumReadonlyUnsignedAccounts)
	require.Equal(t, [32]byte(payer), [32]byte(msg.AccountKeys[0]))
	require.Len(t, msg.Instructions, 2)

	donate := msg.Instructions[1]
	require.Equal(t, [32]byte(program), [32]byte(msg.AccountKeys[donate.ProgramIDIndex]))
	require.Equal(t, []byte{2}, []byte(donate.Data))
	require.Len(t, donate.Accounts, 2)
	require.Equal(t, [32]byte(newAccount), [32]byte(msg.AccountKeys[donate.Accounts[0]]))
	require.Equal(t, [32]byte(payer), [32]byte(msg.AccountKeys[donate.Accounts[1]]))
}
