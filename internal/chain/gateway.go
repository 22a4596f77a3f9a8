// Package chain wraps the platform's chain bridge: the external service
// holding the platform signing key that executes contract calls against
// the soulbound ticket contract. Every operation is network-bound,
// fallible, and may take seconds; callers bound each call with a context
// timeout and must never hold a record-store transaction open across one.
package chain

import (
	"context"
	"errors"
	"fmt"
)

// MintResult is the outcome of a successful mint.
type MintResult struct {
	TxHash  string `json:"txHash"`
	TokenID int64  `json:"tokenId"`
}

// Receipt is the acknowledgement of a confirmed chain transaction.
type Receipt struct {
	TxHash string `json:"txHash"`
	Status string `json:"status"`
}

// Gateway is the consumed interface of the chain bridge. The contract
// rejects peer-to-peer transfers of a locked token for every caller
// except the platform signer; ClaimToWallet and ReturnToCustody are the
// only operations that move a token.
type Gateway interface {
	// Mint creates the token for a ticket at the given address.
	Mint(ctx context.Context, toAddress, metadataURI string) (*MintResult, error)
	// ClaimToWallet transfers a custodial token to a holder wallet and
	// locks it there.
	ClaimToWallet(ctx context.Context, tokenID int64, wallet string) (*Receipt, error)
	// ReturnToCustody unlocks a claimed token and moves it back to the
	// platform custody address.
	ReturnToCustody(ctx context.Context, tokenID int64) (*Receipt, error)
	// Redeem marks the token used on chain. The record store stays
	// authoritative for admission; this is the lagging audit trail.
	Redeem(ctx context.Context, tokenID int64) (*Receipt, error)

	// Reads.
	OwnerOf(ctx context.Context, tokenID int64) (string, error)
	IsRedeemed(ctx context.Context, tokenID int64) (bool, error)
	Locked(ctx context.Context, tokenID int64) (bool, error)
}

// Error wraps a failed chain operation so callers can classify it apart
// from record-store errors.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chain %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsChainError reports whether err originated in a chain gateway call.
func IsChainError(err error) bool {
	var chainErr *Error
	return errors.As(err, &chainErr)
}
