package crowdfund

import (
	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/protocol"
)

// The account order of each instruction is fixed by the program.

// CreateCampaignInstruction initialises campaign with details.
//
//	0. campaign  writable
//	1. admin     signer
func CreateCampaignInstruction(programID, campaign, admin solana.Pubkey, details protocol.CampaignDetails) (solana.Instruction, error) {
	data, err := protocol.EncodeCreateCampaign(details)
	if err != nil {
		return solana.Instruction{}, err
	}
	return solana.Instruction{
		ProgramID: programID,
		Accounts: []solana.AccountMeta{
			{Pubkey: campaign, IsSigner: false, IsWritable: true},
			{Pubkey: admin, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}, nil
}

// WithdrawInstruction moves amount lamports from campaign to admin.
//
//	0. campaign  writable
//	1. admin     signer
func WithdrawInstruction(programID, campaign, admin solana.Pubkey, amount uint64) (solana.Instruction, error) {
	data, err := protocol.EncodeWithdraw(protocol.WithdrawRequest{Amount: amount})
	if err != nil {
		return solana.Instruction{}, err
	}
	return solana.Instruction{
		ProgramID: programID,
		Accounts: []solana.AccountMeta{
			{Pubkey: campaign, IsSigner: false, IsWritable: true},
			{Pubkey: admin, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}, nil
}

// DonateInstruction credits campaign with the lamports held by donation, a
// program-owned account created in the same transaction.
//
//	0. campaign  writable
//	1. donation  readonly
//	2. donor     signer
func DonateInstruction(programID, campaign, donation, donor solana.Pubkey) solana.Instruction {
	return solana.Instruction{
		ProgramID: programID,
		Accounts: []solana.AccountMeta{
			{Pubkey: campaign, IsSigner: false, IsWritable: true},
			{Pubkey: donation, IsSigner: false, IsWritable: false},
			{Pubkey: donor, IsSigner: true, IsWritable: false},
		},
		Data: protocol.EncodeDonate(),
	}
}
