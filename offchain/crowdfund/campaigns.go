package crowdfund

import (
	"context"
	"fmt"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/protocol"
)

// Campaign is a decoded campaign account.
type Campaign struct {
	Address solana.Pubkey
	protocol.CampaignDetails
}

// ListCampaigns returns every account owned by the program that decodes as a
// campaign record, in the order the cluster reports them. Accounts that do
// not decode (donation accounts among them) are skipped.
func (c *Client) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	accounts, err := c.rpc.ProgramAccountsBase64(ctx, c.programID.Base58(), 0)
	if err != nil {
		return nil, fmt.Errorf("list program accounts: %w", err)
	}

	out := make([]Campaign, 0, len(accounts))
	for _, acc := range accounts {
		addr, err := solana.ParsePubkey(acc.Pubkey)
		if err != nil {
			c.logger.Debug().Err(err).Str("account", acc.Pubkey).Msg("skipping account")
			continue
		}
		details, err := protocol.DecodeCampaignDetails(acc.Data)
		if err != nil {
			c.logger.Debug().Err(err).Str("account", acc.Pubkey).Int("len", len(acc.Data)).Msg("skipping account")
			continue
		}
		out = append(out, Campaign{Address: addr, CampaignDetails: details})
	}
	c.logger.Debug().Int("accounts", len(accounts)).Int("campaigns", len(out)).Msg("listed campaigns")
	return out, nil
}

// Campaign fetches and decodes a single campaign account.
func (c *Client) Campaign(ctx context.Context, address solana.Pubkey) (Campaign, error) {
	data, err := c.rpc.AccountDataBase64(ctx, address.Base58())
	if err != nil {
		return Campaign{}, fmt.Errorf("fetch campaign %s: %w", address, err)
	}
	details, err := protocol.DecodeCampaignDetails(data)
	if err != nil {
		return Campaign{}, fmt.Errorf("campaign %s: %w", address, err)
	}
	return Campaign{Address: address, CampaignDetails: details}, nil
}
