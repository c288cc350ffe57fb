package solanarpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/ratelimit"

	"github.com/Abdullah1738/crowdfund/offchain/solana"
)

var (
	ErrMissingRPCURL    = errors.New("missing rpc url")
	ErrRPCError         = errors.New("solana rpc error")
	ErrAccountNotFound  = errors.New("account not found")
	ErrUnexpectedResult = errors.New("unexpected rpc result")
)

type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrRPCError.Error(), e.Code, e.Message)
}

func (e *RPCError) Unwrap() error { return ErrRPCError }

type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

func ParseCommitment(s string) (Commitment, error) {
	switch c := Commitment(strings.ToLower(strings.TrimSpace(s))); c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return c, nil
	default:
		return "", fmt.Errorf("unknown commitment %q", s)
	}
}

func (c Commitment) rank() int {
	switch c {
	case CommitmentProcessed:
		return 0
	case CommitmentConfirmed:
		return 1
	case CommitmentFinalized:
		return 2
	default:
		return -1
	}
}

// Satisfies reports whether a status at commitment c meets target.
func (c Commitment) Satisfies(target Commitment) bool {
	return c.rank() >= 0 && c.rank() >= target.rank()
}

type Client struct {
	rpcURL     string
	http       *http.Client
	commitment Commitment
	pollRL     ratelimit.Limiter
}

type Option func(*Client)

// WithCommitment sets the commitment used for reads, preflight and
// confirmation. Defaults to confirmed.
func WithCommitment(c Commitment) Option {
	return func(cl *Client) {
		if c != "" {
			cl.commitment = c
		}
	}
}

// WithConfirmPollRate caps getSignatureStatuses polls issued by
// ConfirmTransaction. Defaults to 2 per second. Idle time does not bank
// extra polls.
func WithConfirmPollRate(perSecond int) Option {
	return func(cl *Client) {
		if perSecond > 0 {
			cl.pollRL = newPollLimiter(perSecond)
		}
	}
}

func newPollLimiter(perSecond int) ratelimit.Limiter {
	return ratelimit.New(perSecond, ratelimit.WithoutSlack)
}

// New returns a client for rpcURL. A nil httpClient uses a client without a
// timeout; callers bound calls through ctx.
func New(rpcURL string, httpClient *http.Client, opts ...Option) *Client {
	rpcURL = strings.TrimSpace(rpcURL)
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		rpcURL:     rpcURL,
		http:       httpClient,
		commitment: CommitmentConfirmed,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pollRL == nil {
		c.pollRL = newPollLimiter(2)
	}
	return c
}

func (c *Client) URL() string { return c.rpcURL }

func (c *Client) Commitment() Commitment { return c.commitment }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcCall performs a single JSON-RPC round trip. Failures are returned as-is.
func (c *Client) rpcCall(ctx context.Context, method string, params any, out any) error {
	if c == nil {
		return errors.New("nil rpc client")
	}
	if strings.TrimSpace(c.rpcURL) == "" {
		return ErrMissingRPCURL
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "1",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: http status=%d", ErrRPCError, resp.StatusCode)
		}
		return fmt.Errorf("decode rpc response: %w", err)
	}
	if rr.Error != nil {
		return &RPCError{Code: rr.Error.Code, Message: rr.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: http status=%d", ErrRPCError, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if len(rr.Result) == 0 {
		return fmt.Errorf("%w: empty result", ErrRPCError)
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func (c *Client) LatestBlockhash(ctx context.Context) ([32]byte, error) {
	var out [32]byte
	var resp struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	// Use finalized to avoid "Blockhash not found" when talking to load-balanced public RPCs.
	if err := c.rpcCall(ctx, "getLatestBlockhash", []any{map[string]any{"commitment": "finalized"}}, &resp); err != nil {
		// Some RPCs still require getRecentBlockhash.
		var old struct {
			Value struct {
				Blockhash string `json:"blockhash"`
			} `json:"value"`
		}
		if err2 := c.rpcCall(ctx, "getRecentBlockhash", []any{}, &old); err2 != nil {
			return out, err
		}
		resp.Value.Blockhash = old.Value.Blockhash
	}

	bh, err := solana.ParseBlockhash(resp.Value.Blockhash)
	if err != nil {
		return out, fmt.Errorf("invalid blockhash: %w", err)
	}
	return bh, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx []byte, skipPreflight bool) (string, error) {
	if len(tx) == 0 {
		return "", errors.New("empty tx")
	}
	b64 := base64.StdEncoding.EncodeToString(tx)
	var resp string
	params := []any{
		b64,
		map[string]any{
			"encoding":            "base64",
			"skipPreflight":       skipPreflight,
			"preflightCommitment": string(c.commitment),
		},
	}
	if err := c.rpcCall(ctx, "sendTransaction", params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	var resp uint64
	params := []any{dataLen, map[string]any{"commitment": string(c.commitment)}}
	if err := c.rpcCall(ctx, "getMinimumBalanceForRentExemption", params, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

func decodeAccountData(data []any) ([]byte, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: missing account data", ErrUnexpectedResult)
	}
	s, ok := data[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected account data encoding", ErrUnexpectedResult)
	}
	if len(data) > 1 {
		if enc, _ := data[1].(string); enc != "" && enc != "base64" {
			return nil, fmt.Errorf("%w: account data encoding %q", ErrUnexpectedResult, enc)
		}
	}
	return base64.StdEncoding.DecodeString(s)
}

func (c *Client) AccountDataBase64(ctx context.Context, pubkey string) ([]byte, error) {
	var resp struct {
		Value *struct {
			Data []any `json:"data"`
		} `json:"value"`
	}
	params := []any{
		pubkey,
		map[string]any{
			"encoding":   "base64",
			"commitment": string(c.commitment),
		},
	}
	if err := c.rpcCall(ctx, "getAccountInfo", params, &resp); err != nil {
		return nil, err
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	return decodeAccountData(resp.Value.Data)
}

func (c *Client) BalanceLamports(ctx context.Context, pubkey string) (uint64, error) {
	pubkey = strings.TrimSpace(pubkey)
	if pubkey == "" {
		return 0, errors.New("pubkey required")
	}
	var resp struct {
		Value uint64 `json:"value"`
	}
	if err := c.rpcCall(ctx, "getBalance", []any{pubkey, map[string]any{"commitment": string(c.commitment)}}, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (c *Client) RequestAirdrop(ctx context.Context, pubkey string, lamports uint64) (string, error) {
	pubkey = strings.TrimSpace(pubkey)
	if pubkey == "" {
		return "", errors.New("pubkey required")
	}
	if lamports == 0 {
		return "", errors.New("lamports required")
	}
	var sig string
	if err := c.rpcCall(ctx, "requestAirdrop", []any{pubkey, lamports}, &sig); err != nil {
		return "", err
	}
	return sig, nil
}

type ProgramAccount struct {
	Pubkey string
	Data   []byte
}

// ProgramAccountsBase64 lists every account owned by programID. A non-zero
// dataSize restricts the listing to accounts of exactly that size. Entries
// without a pubkey or with undecodable data are dropped; the rest of the
// listing is still returned.
func (c *Client) ProgramAccountsBase64(ctx context.Context, programID string, dataSize uint64) ([]ProgramAccount, error) {
	programID = strings.TrimSpace(programID)
	if programID == "" {
		return nil, errors.New("program id required")
	}

	type resultItem struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data []any `json:"data"`
		} `json:"account"`
	}

	cfg := map[string]any{
		"encoding":   "base64",
		"commitment": string(c.commitment),
	}
	if dataSize != 0 {
		cfg["filters"] = []any{
			map[string]any{"dataSize": dataSize},
		}
	}

	var resp []resultItem
	if err := c.rpcCall(ctx, "getProgramAccounts", []any{programID, cfg}, &resp); err != nil {
		return nil, err
	}

	out := make([]ProgramAccount, 0, len(resp))
	for _, it := range resp {
		if strings.TrimSpace(it.Pubkey) == "" {
			continue
		}
		b, err := decodeAccountData(it.Account.Data)
		if err != nil {
			continue
		}
		out = append(out, ProgramAccount{
			Pubkey: it.Pubkey,
			Data:   b,
		})
	}
	return out, nil
}

type SignatureStatus struct {
	Slot               uint64     `json:"slot"`
	Confirmations      *uint64    `json:"confirmations"`
	Err                any        `json:"err"`
	ConfirmationStatus Commitment `json:"confirmationStatus"`
}

// Commitment reports the level the status has reached. Nodes that omit
// confirmationStatus signal a rooted transaction with null confirmations.
func (s SignatureStatus) Commitment() Commitment {
	if s.ConfirmationStatus != "" {
		return s.ConfirmationStatus
	}
	if s.Confirmations == nil {
		return CommitmentFinalized
	}
	return CommitmentConfirmed
}

// SignatureStatuses returns one entry per signature; unknown signatures are nil.
func (c *Client) SignatureStatuses(ctx context.Context, signatures ...string) ([]*SignatureStatus, error) {
	if len(signatures) == 0 {
		return nil, errors.New("signatures required")
	}
	var resp struct {
		Value []*SignatureStatus `json:"value"`
	}
	params := []any{signatures, map[string]any{"searchTransactionHistory": false}}
	if err := c.rpcCall(ctx, "getSignatureStatuses", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Value) != len(signatures) {
		return nil, fmt.Errorf("%w: %d statuses for %d signatures", ErrUnexpectedResult, len(resp.Value), len(signatures))
	}
	return resp.Value, nil
}
