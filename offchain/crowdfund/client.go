// Package crowdfund builds, signs and submits transactions for the
// crowdfunding program and reads its campaign accounts.
package crowdfund

import (
	"context"
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/offchain/solanarpc"
	"github.com/Abdullah1738/crowdfund/offchain/wallet"
)

// DefaultProgramID is the deployed crowdfund program on devnet.
const DefaultProgramID = "5boAEVrqySfeTnERzGK1CjFoYTRRGVoUEF6yqQfSSG48"

const seedPrefix = "abcdef"

// RPC is the subset of cluster calls the client needs.
type RPC interface {
	LatestBlockhash(ctx context.Context) ([32]byte, error)
	MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	SendTransaction(ctx context.Context, tx []byte, skipPreflight bool) (string, error)
	ConfirmTransaction(ctx context.Context, signature string) (solanarpc.SignatureStatus, error)
	ProgramAccountsBase64(ctx context.Context, programID string, dataSize uint64) ([]solanarpc.ProgramAccount, error)
	AccountDataBase64(ctx context.Context, pubkey string) ([]byte, error)
}

type Client struct {
	programID solana.Pubkey
	rpc       RPC
	wallet    wallet.Wallet
	logger    zerolog.Logger
	dryRun    bool
	newSeed   func() string
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "crowdfund").Logger()
	}
}

// WithDryRun makes write operations stop after signing: nothing is
// broadcast and Result.RawTx carries the signed transaction.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) {
		c.dryRun = dryRun
	}
}

func New(programID solana.Pubkey, rpc RPC, w wallet.Wallet, opts ...Option) *Client {
	c := &Client{
		programID: programID,
		rpc:       rpc,
		wallet:    w,
		logger:    zerolog.Nop(),
		newSeed:   randomSeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ProgramID() solana.Pubkey { return c.programID }

// Result describes a submitted (or, in dry-run mode, only signed) transaction.
type Result struct {
	Signature string
	// Account is the account created by the transaction, if any.
	Account solana.Pubkey
	// RawTx is the signed wire transaction.
	RawTx  []byte
	Status solanarpc.SignatureStatus
	DryRun bool
}

func (c *Client) checkWallet(ctx context.Context) error {
	if c.wallet.Connected() {
		return nil
	}
	if err := c.wallet.Connect(ctx); err != nil {
		return err
	}
	c.logger.Debug().Str("wallet", c.wallet.PublicKey().Base58()).Msg("wallet connected")
	return nil
}

// newSeededAccount picks a fresh seed and the program-owned address the
// system program will create for it under base.
func (c *Client) newSeededAccount(base solana.Pubkey) (string, solana.Pubkey, error) {
	seed := c.newSeed()
	addr, err := solana.CreateWithSeed(base, seed, c.programID)
	if err != nil {
		return "", solana.Pubkey{}, err
	}
	return seed, addr, nil
}

func randomSeed() string {
	seed := seedPrefix + strconv.FormatFloat(rand.Float64(), 'f', -1, 64)
	if len(seed) > solana.MaxSeedLength {
		seed = seed[:solana.MaxSeedLength]
	}
	return seed
}
