package crowdfund

import (
	"context"
	"fmt"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
)

// assembleTransaction sets the wallet as fee payer and stamps the current
// blockhash onto instructions, in order.
func (c *Client) assembleTransaction(ctx context.Context, instructions []solana.Instruction) (*solana.Transaction, error) {
	tx := solana.NewTransaction(instructions...)
	tx.FeePayer = c.wallet.PublicKey()

	bh, err := c.rpc.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch blockhash: %w", err)
	}
	tx.RecentBlockhash = bh
	return tx, nil
}

// signAndSend has the wallet sign tx and broadcasts it. Signing and
// broadcast errors are returned unchanged.
func (c *Client) signAndSend(ctx context.Context, tx *solana.Transaction) (Result, error) {
	signed, err := c.wallet.SignTransaction(ctx, tx)
	if err != nil {
		c.logger.Error().Err(err).Msg("sign transaction")
		return Result{}, err
	}
	raw, err := signed.Serialize()
	if err != nil {
		c.logger.Error().Err(err).Msg("serialize transaction")
		return Result{}, err
	}
	res := Result{RawTx: raw, DryRun: c.dryRun}
	if sig, ok := signed.Signature(); ok {
		res.Signature = sig.Base58()
	}
	if c.dryRun {
		return res, nil
	}

	sig, err := c.rpc.SendTransaction(ctx, raw, false)
	if err != nil {
		c.logger.Error().Err(err).Msg("send transaction")
		return res, err
	}
	res.Signature = sig
	c.logger.Debug().Str("signature", sig).Int("bytes", len(raw)).Msg("transaction sent")
	return res, nil
}

func (c *Client) submit(ctx context.Context, op string, instructions []solana.Instruction) (Result, error) {
	tx, err := c.assembleTransaction(ctx, instructions)
	if err != nil {
		return Result{}, err
	}
	res, err := c.signAndSend(ctx, tx)
	if err != nil || res.DryRun {
		return res, err
	}

	status, err := c.rpc.ConfirmTransaction(ctx, res.Signature)
	res.Status = status
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Str("signature", res.Signature).Msg("confirm transaction")
		return res, err
	}
	c.logger.Info().
		Str("op", op).
		Str("signature", res.Signature).
		Uint64("slot", status.Slot).
		Str("commitment", string(status.Commitment())).
		Msg("transaction confirmed")
	return res, nil
}
