package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Abdullah1738/crowdfund/internal/config"
	"github.com/Abdullah1738/crowdfund/offchain/crowdfund"
	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/protocol"
)

const lamportsPerSOL = 1_000_000_000

type campaignView struct {
	Address       string `json:"address"`
	Admin         string `json:"admin"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageLink     string `json:"image_link"`
	AmountDonated uint64 `json:"amount_donated"`
}

func newCampaignView(c crowdfund.Campaign) campaignView {
	return campaignView{
		Address:       c.Address.Base58(),
		Admin:         solana.Pubkey(c.Admin).Base58(),
		Name:          c.Name,
		Description:   c.Description,
		ImageLink:     c.ImageLink,
		AmountDonated: c.AmountDonated,
	}
}

// printResult writes the signature, or the base64 transaction in dry-run
// mode, to stdout. Created accounts go to stderr.
func printResult(res crowdfund.Result, accountLabel string) {
	if accountLabel != "" && !res.Account.IsZero() {
		fmt.Fprintf(stderr, "%s: %s\n", accountLabel, res.Account.Base58())
	}
	if res.DryRun {
		fmt.Fprintln(stdout, base64.StdEncoding.EncodeToString(res.RawTx))
		return
	}
	fmt.Fprintln(stdout, res.Signature)
}

func cmdCreate(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)

	var (
		name        string
		description string
		imageLink   string
		dryRun      bool
	)
	fs.StringVar(&name, "name", "", "Campaign name")
	fs.StringVar(&description, "description", "", "Campaign description")
	fs.StringVar(&imageLink, "image-link", "", "Campaign image URL")
	fs.BoolVar(&dryRun, "dry-run", false, "If set, prints the base64 tx instead of sending it")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("--name is required")
	}
	cfg, err := cf.apply(cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, dryRun)
	res, err := client.CreateCampaign(ctx, name, description, imageLink)
	if err != nil {
		return err
	}
	printResult(res, "campaign")
	return nil
}

func cmdList(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	cfg, err := cf.apply(cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, false)
	campaigns, err := client.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	out := make([]campaignView, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, newCampaignView(c))
	}
	return printJSON(stdout, out)
}

func cmdShow(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)
	var campaignStr string
	fs.StringVar(&campaignStr, "campaign", "", "Campaign account (base58)")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	campaign, err := requireCampaign(campaignStr)
	if err != nil {
		return err
	}
	cfg, err = cf.apply(cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, false)
	c, err := client.Campaign(ctx, campaign)
	if err != nil {
		return err
	}
	return printJSON(stdout, newCampaignView(c))
}

func cmdDonate(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("donate", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)
	var (
		campaignStr string
		lamports    uint64
		dryRun      bool
	)
	fs.StringVar(&campaignStr, "campaign", "", "Campaign account (base58)")
	fs.Uint64Var(&lamports, "lamports", 0, "Amount to donate (lamports)")
	fs.BoolVar(&dryRun, "dry-run", false, "If set, prints the base64 tx instead of sending it")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	campaign, err := requireCampaign(campaignStr)
	if err != nil {
		return err
	}
	cfg, err = cf.apply(cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, dryRun)
	res, err := client.Donate(ctx, campaign, lamports)
	if err != nil {
		return err
	}
	printResult(res, "donation account")
	return nil
}

func cmdWithdraw(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)
	var (
		campaignStr string
		lamports    uint64
		dryRun      bool
	)
	fs.StringVar(&campaignStr, "campaign", "", "Campaign account (base58)")
	fs.Uint64Var(&lamports, "lamports", 0, "Amount to withdraw (lamports)")
	fs.BoolVar(&dryRun, "dry-run", false, "If set, prints the base64 tx instead of sending it")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	campaign, err := requireCampaign(campaignStr)
	if err != nil {
		return err
	}
	cfg, err = cf.apply(cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, dryRun)
	res, err := client.Withdraw(ctx, campaign, lamports)
	if err != nil {
		return err
	}
	printResult(res, "")
	return nil
}

func cmdBalance(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)
	var addressStr string
	fs.StringVar(&addressStr, "address", "", "Account to query (base58; defaults to the wallet)")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	cfg, err := cf.apply(cfg)
	if err != nil {
		return err
	}

	address, err := resolveAddress(cfg, addressStr)
	if err != nil {
		return err
	}
	lamports, err := newRPC(cfg).BalanceLamports(ctx, address.Base58())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d lamports (%s SOL)\n", lamports, formatSOL(lamports))
	return nil
}

func cmdAirdrop(ctx context.Context, cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("airdrop", flag.ContinueOnError)
	cf := registerClusterFlags(fs, cfg)
	var (
		addressStr string
		lamports   uint64
	)
	fs.StringVar(&addressStr, "address", "", "Recipient (base58; defaults to the wallet)")
	fs.Uint64Var(&lamports, "lamports", lamportsPerSOL, "Amount to request (lamports)")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	if lamports == 0 {
		return errors.New("--lamports must be positive")
	}
	cfg, err := cf.apply(cfg)
	if err != nil {
		return err
	}

	address, err := resolveAddress(cfg, addressStr)
	if err != nil {
		return err
	}
	rpc := newRPC(cfg)
	sig, err := rpc.RequestAirdrop(ctx, address.Base58(), lamports)
	if err != nil {
		return err
	}
	if _, err := rpc.ConfirmTransaction(ctx, sig); err != nil {
		return err
	}
	fmt.Fprintln(stdout, sig)
	return nil
}

// resolveAddress parses s, or falls back to the configured wallet.
func resolveAddress(cfg config.Config, s string) (solana.Pubkey, error) {
	if strings.TrimSpace(s) != "" {
		pk, err := solana.ParsePubkey(s)
		if err != nil {
			return solana.Pubkey{}, fmt.Errorf("parse --address: %w", err)
		}
		return pk, nil
	}
	_, pk, err := solana.LoadKeypair(cfg.KeypairPath)
	if err != nil {
		return solana.Pubkey{}, err
	}
	return pk, nil
}

func formatSOL(lamports uint64) string {
	whole := lamports / lamportsPerSOL
	frac := lamports % lamportsPerSOL
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%09d", whole, frac), "0")
}

type inspectAccount struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

type inspectInstruction struct {
	Program  string           `json:"program"`
	Kind     string           `json:"kind,omitempty"`
	Accounts []inspectAccount `json:"accounts"`
	DataHex  string           `json:"data_hex"`
	Campaign *campaignView    `json:"campaign,omitempty"`
	Amount   *uint64          `json:"amount,omitempty"`
}

type inspectOutput struct {
	Signatures      []string             `json:"signatures"`
	Verified        bool                 `json:"verified"`
	FeePayer        string               `json:"fee_payer"`
	RecentBlockhash string               `json:"recent_blockhash"`
	Instructions    []inspectInstruction `json:"instructions"`
}

func cmdInspect(cfg config.Config, argv []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	var (
		txB64        string
		programIDStr string
	)
	fs.StringVar(&txB64, "tx", "", "Base64 transaction (\"-\" reads stdin)")
	fs.StringVar(&programIDStr, "program-id", cfg.ProgramID, "Crowdfund program id (base58)")
	if err := parseFlags(fs, argv); err != nil {
		return err
	}
	if strings.TrimSpace(txB64) == "" {
		return errors.New("--tx is required")
	}
	if txB64 == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		txB64 = string(b)
	}
	programID, err := solana.ParsePubkey(programIDStr)
	if err != nil {
		return fmt.Errorf("parse --program-id: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(txB64))
	if err != nil {
		return fmt.Errorf("decode base64 tx: %w", err)
	}
	out, err := inspectTransaction(raw, programID)
	if err != nil {
		return err
	}
	return printJSON(stdout, out)
}

func inspectTransaction(raw []byte, programID solana.Pubkey) (inspectOutput, error) {
	tx, err := solana.ParseLegacyTransaction(raw)
	if err != nil {
		return inspectOutput{}, fmt.Errorf("parse tx: %w", err)
	}

	out := inspectOutput{
		Signatures:      make([]string, 0, len(tx.Signatures)),
		Verified:        tx.Verify() == nil,
		RecentBlockhash: solana.Pubkey(tx.RecentBlockhash).Base58(),
	}
	if len(tx.AccountKeys) > 0 {
		out.FeePayer = tx.AccountKeys[0].Base58()
	}
	for _, sig := range tx.Signatures {
		out.Signatures = append(out.Signatures, sig.Base58())
	}

	for _, ix := range tx.Instructions {
		v := inspectInstruction{
			Program: ix.ProgramID.Base58(),
			DataHex: hex.EncodeToString(ix.Data),
		}
		for _, idx := range ix.Accounts {
			am := tx.AccountMeta(idx)
			v.Accounts = append(v.Accounts, inspectAccount{
				Pubkey:   am.Pubkey.Base58(),
				Signer:   am.IsSigner,
				Writable: am.IsWritable,
			})
		}

		switch ix.ProgramID {
		case solana.SystemProgramID:
			v.Kind = "system"
		case programID:
			if err := describeProgramInstruction(&v, ix); err != nil {
				v.Kind = "invalid: " + err.Error()
			}
		}
		out.Instructions = append(out.Instructions, v)
	}
	return out, nil
}

func describeProgramInstruction(v *inspectInstruction, ix solana.ParsedInstruction) error {
	op, payload, err := protocol.DecodeInstruction(ix.Data)
	if err != nil {
		return err
	}
	v.Kind = op.String()

	switch op {
	case protocol.OpcodeCreateCampaign:
		details, err := protocol.DecodeCampaignDetails(payload)
		if err != nil {
			return err
		}
		cv := campaignView{
			Admin:         solana.Pubkey(details.Admin).Base58(),
			Name:          details.Name,
			Description:   details.Description,
			ImageLink:     details.ImageLink,
			AmountDonated: details.AmountDonated,
		}
		v.Campaign = &cv
	case protocol.OpcodeWithdraw:
		req, err := protocol.DecodeWithdrawRequest(payload)
		if err != nil {
			return err
		}
		v.Amount = &req.Amount
	}
	return nil
}
