package solana

import (
	"encoding/binary"
	"testing"
)

func TestSystemCreateAccountWithSeed_Layout(t *testing.T) {
	from := filled(0x0A)
	newAccount := filled(0x0B)
	owner := filled(0x0C)
	seed := "abcdef0.25"

	ix := SystemCreateAccountWithSeed(from, newAccount, from, seed, 890880, 1, owner)
	if ix.ProgramID != SystemProgramID {
		t.Fatalf("ProgramID mismatch")
	}

	wantLen := 4 + 32 + 8 + len(seed) + 8 + 8 + 32
	if len(ix.Data) != wantLen {
		t.Fatalf("data len=%d, want %d", len(ix.Data), wantLen)
	}
	if got := binary.LittleEndian.Uint32(ix.Data[0:4]); got != 3 {
		t.Fatalf("instruction index=%d, want 3", got)
	}
	if string(ix.Data[4:36]) != string(from[:]) {
		t.Fatalf("base mismatch")
	}
	if got := binary.LittleEndian.Uint64(ix.Data[36:44]); got != uint64(len(seed)) {
		t.Fatalf("seed len=%d", got)
	}
	off := 44 + len(seed)
	if string(ix.Data[44:off]) != seed {
		t.Fatalf("seed=%q", ix.Data[44:off])
	}
	if got := binary.LittleEndian.Uint64(ix.Data[off : off+8]); got != 890880 {
		t.Fatalf("lamports=%d", got)
	}
	if got := binary.LittleEndian.Uint64(ix.Data[off+8 : off+16]); got != 1 {
		t.Fatalf("space=%d", got)
	}
	if string(ix.Data[off+16:]) != string(owner[:]) {
		t.Fatalf("owner mismatch")
	}

	// Base equal to the funder is not repeated.
	if len(ix.Accounts) != 2 {
		t.Fatalf("accounts=%d, want 2", len(ix.Accounts))
	}
	if a := ix.Accounts[0]; a.Pubkey != from || !a.IsSigner || !a.IsWritable {
		t.Fatalf("accounts[0]=%+v", a)
	}
	if a := ix.Accounts[1]; a.Pubkey != newAccount || a.IsSigner || !a.IsWritable {
		t.Fatalf("accounts[1]=%+v", a)
	}
}

func TestSystemCreateAccountWithSeed_DistinctBase(t *testing.T) {
	from := filled(0x0A)
	base := filled(0x0D)
	ix := SystemCreateAccountWithSeed(from, filled(0x0B), base, "s", 1, 1, filled(0x0C))
	if len(ix.Accounts) != 3 {
		t.Fatalf("accounts=%d, want 3", len(ix.Accounts))
	}
	if a := ix.Accounts[2]; a.Pubkey != base || !a.IsSigner || a.IsWritable {
		t.Fatalf("accounts[2]=%+v", a)
	}
}
