// Package config loads crowdfund client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
	"github.com/Abdullah1738/crowdfund/offchain/solanarpc"
)

const DefaultRPCURL = "https://api.devnet.solana.com"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	RPCURL             string        `env:"SOLANA_RPC_URL"                     envDefault:"https://api.devnet.solana.com"`
	ProgramID          string        `env:"CROWDFUND_PROGRAM_ID"               envDefault:"5boAEVrqySfeTnERzGK1CjFoYTRRGVoUEF6yqQfSSG48"`
	KeypairPath        string        `env:"SOLANA_KEYPAIR"`
	Commitment         string        `env:"CROWDFUND_COMMITMENT"               envDefault:"confirmed"`
	ConfirmPollsPerSec int           `env:"CROWDFUND_CONFIRM_POLLS_PER_SECOND" envDefault:"2"`
	RPCTimeout         time.Duration `env:"SOLANA_RPC_TIMEOUT"                 envDefault:"0s"`
	LogLevel           string        `env:"CROWDFUND_LOG_LEVEL"                envDefault:"info"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set take precedence over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.KeypairPath) == "" {
		cfg.KeypairPath = solana.DefaultKeypairPath()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that are parsed again by their consumers, so
// that a bad environment fails before any RPC call is made.
func (c Config) Validate() error {
	if strings.TrimSpace(c.RPCURL) == "" {
		return fmt.Errorf("%w: SOLANA_RPC_URL is empty", ErrInvalidConfig)
	}
	if _, err := solana.ParsePubkey(c.ProgramID); err != nil {
		return fmt.Errorf("%w: CROWDFUND_PROGRAM_ID: %v", ErrInvalidConfig, err)
	}
	if _, err := solanarpc.ParseCommitment(c.Commitment); err != nil {
		return fmt.Errorf("%w: CROWDFUND_COMMITMENT: %v", ErrInvalidConfig, err)
	}
	if c.ConfirmPollsPerSec <= 0 {
		return fmt.Errorf("%w: CROWDFUND_CONFIRM_POLLS_PER_SECOND must be positive", ErrInvalidConfig)
	}
	if c.RPCTimeout < 0 {
		return fmt.Errorf("%w: SOLANA_RPC_TIMEOUT must not be negative", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: CROWDFUND_LOG_LEVEL: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Program returns the configured program id. Validate must have passed.
func (c Config) Program() solana.Pubkey {
	pk, _ := solana.ParsePubkey(c.ProgramID)
	return pk
}

// NewLogger returns a console logger at the configured level.
func (c Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
