package crowdfund

import (
	"context"
	"fmt"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/protocol"
)

// donationAccountSpace is the size of the throwaway account that carries a
// donation's lamports.
const donationAccountSpace = 1

// CreateCampaign allocates a new program-owned account sized for the record
// and initialises it with the wallet as admin.
func (c *Client) CreateCampaign(ctx context.Context, name, description, imageLink string) (Result, error) {
	if err := c.checkWallet(ctx); err != nil {
		return Result{}, err
	}
	admin := c.wallet.PublicKey()

	seed, campaign, err := c.newSeededAccount(admin)
	if err != nil {
		return Result{}, err
	}

	details := protocol.CampaignDetails{
		Admin:         protocol.SolanaPubkey(admin),
		Name:          name,
		Description:   description,
		ImageLink:     imageLink,
		AmountDonated: 0,
	}
	programIx, err := CreateCampaignInstruction(c.programID, campaign, admin, details)
	if err != nil {
		return Result{}, err
	}
	space := uint64(details.EncodedLen())

	lamports, err := c.rpc.MinimumBalanceForRentExemption(ctx, space)
	if err != nil {
		return Result{}, fmt.Errorf("fetch rent exemption: %w", err)
	}
	c.logger.Debug().
		Str("campaign", campaign.Base58()).
		Str("seed", seed).
		Uint64("space", space).
		Uint64("lamports", lamports).
		Msg("creating campaign")

	res, err := c.submit(ctx, "create_campaign", []solana.Instruction{
		solana.SystemCreateAccountWithSeed(admin, campaign, admin, seed, lamports, space, c.programID),
		programIx,
	})
	res.Account = campaign
	return res, err
}

// Donate moves amount lamports into campaign through a freshly created
// program-owned account.
func (c *Client) Donate(ctx context.Context, campaign solana.Pubkey, amount uint64) (Result, error) {
	if err := c.checkWallet(ctx); err != nil {
		return Result{}, err
	}
	donor := c.wallet.PublicKey()

	seed, donation, err := c.newSeededAccount(donor)
	if err != nil {
		return Result{}, err
	}
	c.logger.Debug().
		Str("campaign", campaign.Base58()).
		Str("donation", donation.Base58()).
		Uint64("lamports", amount).
		Msg("donating")

	res, err := c.submit(ctx, "donate", []solana.Instruction{
		solana.SystemCreateAccountWithSeed(donor, donation, donor, seed, amount, donationAccountSpace, c.programID),
		DonateInstruction(c.programID, campaign, donation, donor),
	})
	res.Account = donation
	return res, err
}

// Withdraw asks the program to pay amount lamports from campaign to its
// admin, which must be the connected wallet.
func (c *Client) Withdraw(ctx context.Context, campaign solana.Pubkey, amount uint64) (Result, error) {
	if err := c.checkWallet(ctx); err != nil {
		return Result{}, err
	}
	admin := c.wallet.PublicKey()

	ix, err := WithdrawInstruction(c.programID, campaign, admin, amount)
	if err != nil {
		return Result{}, err
	}
	c.logger.Debug().
		Str("campaign", campaign.Base58()).
		Uint64("lamports", amount).
		Msg("withdrawing")

	return c.submit(ctx, "withdraw", []solana.Instruction{ix})
}
