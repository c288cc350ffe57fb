package protocol

import (
	"errors"
	"fmt"
)

// Opcode is the leading byte of every crowdfund instruction.
type Opcode uint8

const (
	OpcodeCreateCampaign Opcode = 0
	OpcodeWithdraw       Opcode = 1
	OpcodeDonate         Opcode = 2
)

var (
	ErrEmptyInstruction   = errors.New("empty instruction data")
	ErrUnknownOpcode      = errors.New("unknown opcode")
	ErrInvalidInstruction = errors.New("invalid instruction payload")
)

func (op Opcode) String() string {
	switch op {
	case OpcodeCreateCampaign:
		return "create_campaign"
	case OpcodeWithdraw:
		return "withdraw"
	case OpcodeDonate:
		return "donate"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
}

// EncodeCreateCampaign returns 0x00 || borsh(details).
func EncodeCreateCampaign(details CampaignDetails) ([]byte, error) {
	payload, err := details.Encode()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(payload))
	out = append(out, byte(OpcodeCreateCampaign))
	out = append(out, payload...)
	return out, nil
}

// EncodeWithdraw returns 0x01 || borsh(req), i.e. 0x01 || u64_le(amount).
func EncodeWithdraw(req WithdrawRequest) ([]byte, error) {
	payload, err := req.Encode()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(payload))
	out = append(out, byte(OpcodeWithdraw))
	out = append(out, payload...)
	return out, nil
}

// EncodeDonate returns the single byte 0x02. The donated amount travels as
// the lamports of the account passed alongside the instruction.
func EncodeDonate() []byte {
	return []byte{byte(OpcodeDonate)}
}

// DecodeInstruction splits instruction data into its opcode and payload and
// checks the payload shape for that opcode.
func DecodeInstruction(data []byte) (Opcode, []byte, error) {
	if len(data) == 0 {
		return 0, nil, ErrEmptyInstruction
	}
	op := Opcode(data[0])
	payload := data[1:]
	switch op {
	case OpcodeCreateCampaign:
		if _, err := DecodeCampaignDetails(payload); err != nil {
			return op, nil, fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
		}
	case OpcodeWithdraw:
		if _, err := DecodeWithdrawRequest(payload); err != nil {
			return op, nil, err
		}
	case OpcodeDonate:
		if len(payload) != 0 {
			return op, nil, fmt.Errorf("%w: donate payload len=%d", ErrInvalidInstruction, len(payload))
		}
	default:
		return op, nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, data[0])
	}
	return op, payload, nil
}
