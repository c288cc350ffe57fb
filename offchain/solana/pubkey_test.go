package solana

import (
	"crypto/sha256"
	"errors"
	"strings"
	"testing"
)

func TestParsePubkey_Base58AndHex(t *testing.T) {
	pk, err := ParsePubkey("11111111111111111111111111111111")
	if err != nil {
		t.Fatalf("ParsePubkey: %v", err)
	}
	if !pk.IsZero() {
		t.Fatalf("system program id should be all zero bytes")
	}

	hexForm := "0x" + strings.Repeat("ab", 32)
	pk, err = ParsePubkey(hexForm)
	if err != nil {
		t.Fatalf("ParsePubkey(hex): %v", err)
	}
	if pk != filled(0xab) {
		t.Fatalf("hex decode mismatch")
	}

	back, err := ParsePubkey(pk.Base58())
	if err != nil || back != pk {
		t.Fatalf("base58 round trip: %v", err)
	}

	for _, bad := range []string{"", "  ", "not-base58-0OIl", "1111"} {
		if _, err := ParsePubkey(bad); !errors.Is(err, ErrInvalidPubkey) {
			t.Fatalf("ParsePubkey(%q): want ErrInvalidPubkey, got %v", bad, err)
		}
	}
}

func TestPubkeyText(t *testing.T) {
	pk := filled(0x21)
	b, err := pk.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var got Pubkey
	if err := got.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got != pk {
		t.Fatalf("text round trip mismatch")
	}
}

func TestPubkeyIsOnCurve(t *testing.T) {
	_, pk := testKey(5)
	if !pk.IsOnCurve() {
		t.Fatalf("ed25519 public key must be on curve")
	}

	off, err := CreateWithSeed(pk, "x", filled(0x33))
	if err != nil {
		t.Fatalf("CreateWithSeed: %v", err)
	}
	// Roughly half of all hashes decode to a point; find one that does not.
	for i := 0; off.IsOnCurve(); i++ {
		off, err = CreateWithSeed(pk, string(rune('a'+i%26))+strings.Repeat("z", i/26), filled(0x33))
		if err != nil {
			t.Fatalf("CreateWithSeed: %v", err)
		}
	}
	if off.IsOnCurve() {
		t.Fatalf("expected off-curve key")
	}
}

func TestCreateWithSeed(t *testing.T) {
	base := filled(0x01)
	owner := filled(0x02)

	got, err := CreateWithSeed(base, "abcdef0.5", owner)
	if err != nil {
		t.Fatalf("CreateWithSeed: %v", err)
	}

	h := sha256.New()
	h.Write(base[:])
	h.Write([]byte("abcdef0.5"))
	h.Write(owner[:])
	var want Pubkey
	copy(want[:], h.Sum(nil))
	if got != want {
		t.Fatalf("CreateWithSeed=%s, want %s", got, want)
	}

	if _, err := CreateWithSeed(base, strings.Repeat("s", MaxSeedLength+1), owner); !errors.Is(err, ErrMaxSeedLength) {
		t.Fatalf("want ErrMaxSeedLength, got %v", err)
	}

	var pdaOwner Pubkey
	copy(pdaOwner[32-len(pdaMarker):], pdaMarker)
	if _, err := CreateWithSeed(base, "s", pdaOwner); !errors.Is(err, ErrIllegalOwner) {
		t.Fatalf("want ErrIllegalOwner, got %v", err)
	}
}

func TestParseBlockhash(t *testing.T) {
	bh := filled(0x42)
	got, err := ParseBlockhash(bh.Base58())
	if err != nil {
		t.Fatalf("ParseBlockhash: %v", err)
	}
	if got != [32]byte(bh) {
		t.Fatalf("blockhash mismatch")
	}
	if _, err := ParseBlockhash("abc"); !errors.Is(err, ErrInvalidBlockhash) {
		t.Fatalf("want ErrInvalidBlockhash, got %v", err)
	}
}
