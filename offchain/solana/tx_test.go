package solana

import (
	"crypto/ed25519"
	"errors"
	"testing"
)

func decodeShortVecLen(b []byte) (n int, consumed int, ok bool) {
	var v uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		v |= uint64(b[i]&0x7f) << shift
		if (b[i] & 0x80) == 0 {
			return int(v), i + 1, true
		}
		shift += 7
		if shift > 63 {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func testKey(b byte) (ed25519.PrivateKey, Pubkey) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var pk Pubkey
	copy(pk[:], priv.Public().(ed25519.PublicKey))
	return priv, pk
}

func filled(b byte) (out Pubkey) {
	for i := range out {
		out[i] = b
	}
	return out
}

func TestTransactionSerialize_SignatureVerifies(t *testing.T) {
	priv, feePayer := testKey(1)
	recipient := filled(0x44)

	tx := NewTransaction(Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{Pubkey: feePayer, IsSigner: true, IsWritable: true},
			{Pubkey: recipient, IsSigner: false, IsWritable: true},
		},
		Data: []byte{1, 2, 3},
	})
	tx.FeePayer = feePayer
	tx.RecentBlockhash = filled(0x42)

	if err := tx.Sign(map[Pubkey]ed25519.PrivateKey{feePayer: priv}); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	raw, err := tx.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	sigCount, off, ok := decodeShortVecLen(raw)
	if !ok {
		t.Fatalf("decode sigCount failed")
	}
	if sigCount != 1 {
		t.Fatalf("sigCount=%d, want 1", sigCount)
	}
	if len(raw) < off+64 {
		t.Fatalf("tx too short for signatures")
	}
	sig := raw[off : off+64]
	msg := raw[off+64:]
	if len(msg) == 0 {
		t.Fatalf("empty message")
	}
	if !ed25519.Verify(ed25519.PublicKey(feePayer[:]), msg, sig) {
		t.Fatalf("signature did not verify")
	}

	txSig, ok := tx.Signature()
	if !ok || string(txSig[:]) != string(sig) {
		t.Fatalf("Signature() does not match serialized fee payer signature")
	}
}

func TestTransactionSerialize_MissingSigner(t *testing.T) {
	priv, feePayer := testKey(1)
	_, other := testKey(2)

	tx := NewTransaction(Instruction{
		ProgramID: filled(0x99),
		Accounts: []AccountMeta{
			{Pubkey: other, IsSigner: true, IsWritable: false},
		},
		Data: []byte{9},
	})
	tx.FeePayer = feePayer

	if err := tx.Sign(map[Pubkey]ed25519.PrivateKey{feePayer: priv}); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	_, err := tx.Serialize()
	if !errors.Is(err, ErrMissingSigner) {
		t.Fatalf("want ErrMissingSigner, got %v", err)
	}
}

func TestTransactionMessage_RequiresFeePayerAndInstructions(t *testing.T) {
	tx := NewTransaction(Instruction{ProgramID: SystemProgramID})
	if _, _, err := tx.Message(); !errors.Is(err, ErrMissingFeePayer) {
		t.Fatalf("want ErrMissingFeePayer, got %v", err)
	}

	_, feePayer := testKey(1)
	empty := NewTransaction()
	empty.FeePayer = feePayer
	if _, _, err := empty.Message(); !errors.Is(err, ErrNoInstructions) {
		t.Fatalf("want ErrNoInstructions, got %v", err)
	}
}

func TestTransactionAddSignature(t *testing.T) {
	priv, feePayer := testKey(3)
	tx := NewTransaction(Instruction{ProgramID: filled(0x10), Data: []byte{2}})
	tx.FeePayer = feePayer

	msg, signers, err := tx.Message()
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if len(signers) != 1 || signers[0] != feePayer {
		t.Fatalf("signers=%v, want [fee payer]", signers)
	}

	var sig Signature
	copy(sig[:], ed25519.Sign(priv, msg))
	if err := tx.AddSignature(feePayer, sig); err != nil {
		t.Fatalf("AddSignature: %v", err)
	}
	if _, err := tx.Serialize(); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if err := tx.AddSignature(filled(0x77), sig); !errors.Is(err, ErrUnknownSigner) {
		t.Fatalf("want ErrUnknownSigner, got %v", err)
	}

	var bad Signature
	if err := tx.AddSignature(feePayer, bad); err != nil {
		t.Fatalf("AddSignature: %v", err)
	}
	if _, err := tx.Serialize(); err == nil {
		t.Fatalf("expected invalid signature to be rejected")
	}
}

func TestCompileLegacyMessage_AccountOrdering(t *testing.T) {
	_, feePayer := testKey(1)
	program := filled(0x50)
	writable := filled(0x60)
	readonly := filled(0x70)

	_, keys, h, err := compileLegacyMessage([32]byte{}, feePayer, []Instruction{
		{
			ProgramID: program,
			Accounts: []AccountMeta{
				{Pubkey: readonly},
				{Pubkey: writable, IsWritable: true},
				// Fee payer listed as a read-only signer is still writable.
				{Pubkey: feePayer, IsSigner: true},
			},
		},
	})
	if err != nil {
		t.Fatalf("compileLegacyMessage: %v", err)
	}

	want := []Pubkey{feePayer, writable, program, readonly}
	if len(keys) != len(want) {
		t.Fatalf("keys=%d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d]=%s, want %s", i, keys[i], want[i])
		}
	}
	if h.NumRequiredSignatures != 1 || h.NumReadonlySignedAccounts != 0 || h.NumReadonlyUnsignedAccounts != 2 {
		t.Fatalf("header=%+v", h)
	}
}
