package solana

import (
	"encoding/binary"
)

var (
	SystemProgramID = mustParsePubkey("11111111111111111111111111111111")
)

const systemCreateAccountWithSeed uint32 = 3

func mustParsePubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// SystemCreateAccountWithSeed builds the system program instruction that
// funds and allocates newAccount, the CreateWithSeed(base, seed, owner)
// address, and assigns it to owner.
func SystemCreateAccountWithSeed(
	from Pubkey,
	newAccount Pubkey,
	base Pubkey,
	seed string,
	lamports uint64,
	space uint64,
	owner Pubkey,
) Instruction {
	// Layout (bincode):
	//   u32_le(3) || base || u64_le(len(seed)) || seed ||
	//   u64_le(lamports) || u64_le(space) || owner
	out := make([]byte, 0, 4+32+8+len(seed)+8+8+32)
	out = binary.LittleEndian.AppendUint32(out, systemCreateAccountWithSeed)
	out = append(out, base[:]...)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(seed)))
	out = append(out, seed...)
	out = binary.LittleEndian.AppendUint64(out, lamports)
	out = binary.LittleEndian.AppendUint64(out, space)
	out = append(out, owner[:]...)

	accounts := []AccountMeta{
		{Pubkey: from, IsSigner: true, IsWritable: true},
		{Pubkey: newAccount, IsSigner: false, IsWritable: true},
	}
	if base != from {
		accounts = append(accounts, AccountMeta{Pubkey: base, IsSigner: true, IsWritable: false})
	}

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts:  accounts,
		Data:      out,
	}
}
