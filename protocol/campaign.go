package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
)

var ErrInvalidCampaignData = errors.New("invalid campaign data")

// CampaignDetails is the record a campaign account holds. Field order is the
// borsh layout the program reads and writes:
//
//	admin          [32]u8
//	name           string (u32_le length || utf8)
//	description    string
//	image_link     string
//	amount_donated u64_le
type CampaignDetails struct {
	Admin         SolanaPubkey
	Name          string
	Description   string
	ImageLink     string
	AmountDonated uint64
}

func (c CampaignDetails) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(c.EncodedLen())
	if err := bin.NewBorshEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode campaign: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodedLen is the account space a record with these strings occupies.
func (c CampaignDetails) EncodedLen() int {
	return 32 + 4 + len(c.Name) + 4 + len(c.Description) + 4 + len(c.ImageLink) + 8
}

// DecodeCampaignDetails decodes a campaign account. The whole of b must be
// consumed by the record.
func DecodeCampaignDetails(b []byte) (CampaignDetails, error) {
	var out CampaignDetails
	dec := bin.NewBorshDecoder(b)
	if err := dec.Decode(&out); err != nil {
		return CampaignDetails{}, fmt.Errorf("%w: %v", ErrInvalidCampaignData, err)
	}
	if n := dec.Remaining(); n != 0 {
		return CampaignDetails{}, fmt.Errorf("%w: %d unexpected trailing bytes", ErrInvalidCampaignData, n)
	}
	for _, s := range []string{out.Name, out.Description, out.ImageLink} {
		if !utf8.ValidString(s) {
			return CampaignDetails{}, fmt.Errorf("%w: string is not valid utf-8", ErrInvalidCampaignData)
		}
	}
	return out, nil
}
