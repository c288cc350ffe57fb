package solana

import (
	"errors"
	"fmt"
)

type ParsedInstruction struct {
	ProgramID Pubkey
	Accounts  []uint8
	Data      []byte
}

type ParsedLegacyTransaction struct {
	Signatures      []Signature
	Header          MessageHeader
	AccountKeys     []Pubkey
	RecentBlockhash [32]byte
	Instructions    []ParsedInstruction
	Message         []byte
}

func ParseLegacyTransaction(tx []byte) (ParsedLegacyTransaction, error) {
	var out ParsedLegacyTransaction
	if len(tx) == 0 {
		return out, errors.New("empty tx")
	}

	off := 0
	sigCount, newOff, err := decodeShortVecLenAt(tx, off)
	if err != nil {
		return out, fmt.Errorf("decode signature count: %w", err)
	}
	off = newOff
	if off+sigCount*64 > len(tx) {
		return out, errors.New("invalid signature section")
	}
	out.Signatures = make([]Signature, sigCount)
	for i := range out.Signatures {
		copy(out.Signatures[i][:], tx[off:off+64])
		off += 64
	}
	out.Message = tx[off:]

	if off+3 > len(tx) {
		return out, errors.New("message header truncated")
	}
	if tx[off]&0x80 != 0 {
		return out, errors.New("versioned messages are not supported")
	}
	out.Header = MessageHeader{
		NumRequiredSignatures:       tx[off],
		NumReadonlySignedAccounts:   tx[off+1],
		NumReadonlyUnsignedAccounts: tx[off+2],
	}
	off += 3

	nKeys, newOff, err := decodeShortVecLenAt(tx, off)
	if err != nil {
		return out, fmt.Errorf("decode account keys count: %w", err)
	}
	off = newOff
	if off+(nKeys*32) > len(tx) {
		return out, errors.New("account keys truncated")
	}
	if int(out.Header.NumRequiredSignatures) > nKeys ||
		int(out.Header.NumReadonlySignedAccounts) > int(out.Header.NumRequiredSignatures) ||
		int(out.Header.NumReadonlyUnsignedAccounts) > nKeys-int(out.Header.NumRequiredSignatures) {
		return out, errors.New("message header inconsistent with account keys")
	}
	out.AccountKeys = make([]Pubkey, 0, nKeys)
	for i := 0; i < nKeys; i++ {
		var pk Pubkey
		copy(pk[:], tx[off:off+32])
		out.AccountKeys = append(out.AccountKeys, pk)
		off += 32
	}

	if off+32 > len(tx) {
		return out, errors.New("recent blockhash truncated")
	}
	copy(out.RecentBlockhash[:], tx[off:off+32])
	off += 32

	nIxs, newOff, err := decodeShortVecLenAt(tx, off)
	if err != nil {
		return out, fmt.Errorf("decode instruction count: %w", err)
	}
	off = newOff

	out.Instructions = make([]ParsedInstruction, 0, nIxs)
	for i := 0; i < nIxs; i++ {
		if off >= len(tx) {
			return out, errors.New("instruction truncated")
		}
		pidIndex := int(tx[off])
		off++
		if pidIndex >= len(out.AccountKeys) {
			return out, errors.New("invalid program id index")
		}

		acctCount, newOff, err := decodeShortVecLenAt(tx, off)
		if err != nil {
			return out, fmt.Errorf("decode instruction accounts count: %w", err)
		}
		off = newOff
		if off+acctCount > len(tx) {
			return out, errors.New("instruction accounts truncated")
		}
		accounts := make([]uint8, acctCount)
		copy(accounts, tx[off:off+acctCount])
		off += acctCount
		for _, idx := range accounts {
			if int(idx) >= len(out.AccountKeys) {
				return out, errors.New("invalid account index")
			}
		}

		dataLen, newOff, err := decodeShortVecLenAt(tx, off)
		if err != nil {
			return out, fmt.Errorf("decode instruction data len: %w", err)
		}
		off = newOff
		if off+dataLen > len(tx) {
			return out, errors.New("instruction data truncated")
		}
		data := make([]byte, dataLen)
		copy(data, tx[off:off+dataLen])
		off += dataLen

		out.Instructions = append(out.Instructions, ParsedInstruction{
			ProgramID: out.AccountKeys[pidIndex],
			Accounts:  accounts,
			Data:      data,
		})
	}
	if off != len(tx) {
		return out, fmt.Errorf("%d trailing bytes after message", len(tx)-off)
	}

	return out, nil
}

// AccountMeta recovers the message-level flags of the account at index i.
// Per-instruction flags are merged during compilation and cannot be
// recovered from the wire format.
func (p ParsedLegacyTransaction) AccountMeta(i uint8) AccountMeta {
	n := len(p.AccountKeys)
	idx := int(i)
	numSigned := int(p.Header.NumRequiredSignatures)

	am := AccountMeta{Pubkey: p.AccountKeys[idx]}
	if idx < numSigned {
		am.IsSigner = true
		am.IsWritable = idx < numSigned-int(p.Header.NumReadonlySignedAccounts)
		return am
	}
	am.IsWritable = idx < n-int(p.Header.NumReadonlyUnsignedAccounts)
	return am
}

// Verify checks every signature against the message.
func (p ParsedLegacyTransaction) Verify() error {
	if len(p.Signatures) != int(p.Header.NumRequiredSignatures) {
		return fmt.Errorf("have %d signatures, header requires %d", len(p.Signatures), p.Header.NumRequiredSignatures)
	}
	for i, sig := range p.Signatures {
		pk := p.AccountKeys[i]
		if !verifySignature(pk, p.Message, sig) {
			return fmt.Errorf("signature %d does not verify for %s", i, pk.Base58())
		}
	}
	return nil
}
