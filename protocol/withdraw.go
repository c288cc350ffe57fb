package protocol

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// WithdrawRequest is the payload of a withdraw instruction, borsh encoded
// as a single u64_le. It is never stored on chain.
type WithdrawRequest struct {
	Amount uint64
}

const withdrawRequestLen = 8

func (r WithdrawRequest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(withdrawRequestLen)
	if err := bin.NewBorshEncoder(&buf).Encode(r); err != nil {
		return nil, fmt.Errorf("encode withdraw request: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeWithdrawRequest decodes a withdraw payload. The whole of payload
// must be consumed by the record.
func DecodeWithdrawRequest(payload []byte) (WithdrawRequest, error) {
	var out WithdrawRequest
	dec := bin.NewBorshDecoder(payload)
	if err := dec.Decode(&out); err != nil {
		return WithdrawRequest{}, fmt.Errorf("%w: withdraw payload: %v", ErrInvalidInstruction, err)
	}
	if n := dec.Remaining(); n != 0 {
		return WithdrawRequest{}, fmt.Errorf("%w: withdraw payload has %d trailing bytes", ErrInvalidInstruction, n)
	}
	return out, nil
}
