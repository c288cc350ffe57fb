package solanarpc

import (
	"context"
	"errors"
	"fmt"
)

var ErrTransactionFailed = errors.New("transaction failed")

// TransactionError carries the on-chain error of a landed transaction.
type TransactionError struct {
	Signature string
	Slot      uint64
	Err       any
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %s (slot %d): %v", ErrTransactionFailed.Error(), e.Signature, e.Slot, e.Err)
}

func (e *TransactionError) Unwrap() error { return ErrTransactionFailed }

// ConfirmTransaction polls getSignatureStatuses until signature reaches the
// client's commitment. It returns only when the status is reached, the
// transaction fails, an RPC call fails, or ctx is done.
func (c *Client) ConfirmTransaction(ctx context.Context, signature string) (SignatureStatus, error) {
	if signature == "" {
		return SignatureStatus{}, errors.New("signature required")
	}
	for {
		c.pollRL.Take()
		if err := ctx.Err(); err != nil {
			return SignatureStatus{}, err
		}

		statuses, err := c.SignatureStatuses(ctx, signature)
		if err != nil {
			return SignatureStatus{}, err
		}
		st := statuses[0]
		if st == nil {
			continue
		}
		if st.Err != nil {
			return *st, &TransactionError{Signature: signature, Slot: st.Slot, Err: st.Err}
		}
		if st.Commitment().Satisfies(c.commitment) {
			return *st, nil
		}
	}
}
