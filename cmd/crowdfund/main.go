package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Abdullah1738/crowdfund/internal/config"
	"github.com/Abdullah1738/crowdfund/offchain/crowdfund"
	"github.com/Abdullah1738/crowdfund/offchain/deployments"
	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/offchain/solanarpc"
	"github.com/Abdullah1738/crowdfund/offchain/wallet"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, argv []string) error {
	if len(argv) == 0 || argv[0] == "-h" || argv[0] == "--help" || argv[0] == "help" {
		printUsage(stdout)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch argv[0] {
	case "create":
		return cmdCreate(ctx, cfg, argv[1:])
	case "list":
		return cmdList(ctx, cfg, argv[1:])
	case "show":
		return cmdShow(ctx, cfg, argv[1:])
	case "donate":
		return cmdDonate(ctx, cfg, argv[1:])
	case "withdraw":
		return cmdWithdraw(ctx, cfg, argv[1:])
	case "inspect":
		return cmdInspect(cfg, argv[1:])
	case "balance":
		return cmdBalance(ctx, cfg, argv[1:])
	case "airdrop":
		return cmdAirdrop(ctx, cfg, argv[1:])
	default:
		return fmt.Errorf("unknown command: %s", argv[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "crowdfund: client for the crowdfunding program")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  crowdfund create --name <s> --description <s> --image-link <url> [--dry-run]")
	fmt.Fprintln(w, "  crowdfund list")
	fmt.Fprintln(w, "  crowdfund show --campaign <base58>")
	fmt.Fprintln(w, "  crowdfund donate --campaign <base58> --lamports <u64> [--dry-run]")
	fmt.Fprintln(w, "  crowdfund withdraw --campaign <base58> --lamports <u64> [--dry-run]")
	fmt.Fprintln(w, "  crowdfund inspect --tx <base64>")
	fmt.Fprintln(w, "  crowdfund balance [--address <base58>]")
	fmt.Fprintln(w, "  crowdfund airdrop --lamports <u64>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags:")
	fmt.Fprintln(w, "  --deployment, --deployment-file, --rpc-url, --program-id, --keypair, --commitment")
	fmt.Fprintln(w, "  (flags override the named deployment, which overrides the environment)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (a .env file in the working directory is read first):")
	fmt.Fprintln(w, "  SOLANA_RPC_URL, CROWDFUND_PROGRAM_ID, SOLANA_KEYPAIR, CROWDFUND_COMMITMENT,")
	fmt.Fprintln(w, "  CROWDFUND_CONFIRM_POLLS_PER_SECOND, SOLANA_RPC_TIMEOUT, CROWDFUND_LOG_LEVEL")
}

// clusterFlags are the connection settings every networked command accepts.
type clusterFlags struct {
	fs *flag.FlagSet

	deployment     string
	deploymentFile string
	rpcURL         string
	programID      string
	keypair        string
	commitment     string
}

func registerClusterFlags(fs *flag.FlagSet, cfg config.Config) *clusterFlags {
	cf := &clusterFlags{fs: fs}
	fs.StringVar(&cf.deployment, "deployment", "", "Deployment name from deployments.json (fills --rpc-url/--program-id)")
	fs.StringVar(&cf.deploymentFile, "deployment-file", "deployments.json", "Deployments registry file path")
	fs.StringVar(&cf.rpcURL, "rpc-url", cfg.RPCURL, "Solana JSON-RPC URL")
	fs.StringVar(&cf.programID, "program-id", cfg.ProgramID, "Crowdfund program id (base58)")
	fs.StringVar(&cf.keypair, "keypair", cfg.KeypairPath, "Wallet keypair path (Solana CLI JSON format)")
	fs.StringVar(&cf.commitment, "commitment", cfg.Commitment, "Commitment: processed, confirmed or finalized")
	return cf
}

// apply layers settings as environment, then the named deployment, then
// flags given explicitly on the command line.
func (cf *clusterFlags) apply(cfg config.Config) (config.Config, error) {
	set := map[string]bool{}
	cf.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := applyDeploymentDefaults(cf.deploymentFile, cf.deployment, &cfg); err != nil {
		return config.Config{}, err
	}
	if set["rpc-url"] {
		cfg.RPCURL = cf.rpcURL
	}
	if set["program-id"] {
		cfg.ProgramID = cf.programID
	}
	cfg.KeypairPath = cf.keypair
	cfg.Commitment = cf.commitment
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyDeploymentDefaults(deploymentFile, deploymentName string, cfg *config.Config) error {
	deploymentName = strings.TrimSpace(deploymentName)
	if deploymentName == "" {
		return nil
	}

	deploymentFile = strings.TrimSpace(deploymentFile)
	if deploymentFile == "" {
		deploymentFile = "deployments.json"
	}

	reg, err := deployments.Load(deploymentFile)
	if err != nil {
		return fmt.Errorf("load deployments registry %q: %w", deploymentFile, err)
	}
	d, err := reg.FindByName(deploymentName)
	if err != nil {
		return fmt.Errorf("find deployment %q in %q: %w", deploymentName, deploymentFile, err)
	}

	cfg.ProgramID = d.ProgramID
	if strings.TrimSpace(d.RPCURL) != "" {
		cfg.RPCURL = d.RPCURL
	}
	return nil
}

func newRPC(cfg config.Config) *solanarpc.Client {
	var httpClient *http.Client
	if cfg.RPCTimeout > 0 {
		httpClient = &http.Client{Timeout: cfg.RPCTimeout}
	}
	commitment, _ := solanarpc.ParseCommitment(cfg.Commitment)
	return solanarpc.New(cfg.RPCURL, httpClient,
		solanarpc.WithCommitment(commitment),
		solanarpc.WithConfirmPollRate(cfg.ConfirmPollsPerSec),
	)
}

func newLogger(cfg config.Config) zerolog.Logger {
	return cfg.NewLogger(stderr)
}

func newClient(cfg config.Config, dryRun bool) *crowdfund.Client {
	return crowdfund.New(
		cfg.Program(),
		newRPC(cfg),
		wallet.NewKeypairWallet(cfg.KeypairPath),
		crowdfund.WithLogger(newLogger(cfg)),
		crowdfund.WithDryRun(dryRun),
	)
}

func parseFlags(fs *flag.FlagSet, argv []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(argv); err != nil {
		return err
	}
	if len(fs.Args()) != 0 {
		return fmt.Errorf("unexpected args: %v", fs.Args())
	}
	return nil
}

func requireCampaign(s string) (solana.Pubkey, error) {
	if strings.TrimSpace(s) == "" {
		return solana.Pubkey{}, errors.New("--campaign is required")
	}
	pk, err := solana.ParsePubkey(s)
	if err != nil {
		return solana.Pubkey{}, fmt.Errorf("parse --campaign: %w", err)
	}
	return pk, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
