// Package solanarpc wraps the Solana JSON-RPC client with the small surface
// the staking and stats services need.
package solanarpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Sentinel errors for RPC operations
var (
	ErrNodeUnhealthy   = errors.New("node is not healthy")
	ErrAccountNotFound = errors.New("account not found")
	ErrTxFailed        = errors.New("transaction failed on chain")
)

// confirmPollInterval is how often the confirmation wait re-checks signature status
const confirmPollInterval = 500 * time.Millisecond

// Client exposes the subset of Solana RPC operations used by this service
type Client struct {
	rpc *rpc.Client
}

// New creates a client for the given RPC endpoint
func New(rpcURL string) *Client {
	return &Client{rpc: rpc.New(rpcURL)}
}

// Health verifies the node answers and reports itself healthy
func (c *Client) Health(ctx context.Context) error {
	health, err := c.rpc.GetHealth(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if health != rpc.HealthOk {
		return fmt.Errorf("%w: %s", ErrNodeUnhealthy, health)
	}
	return nil
}

// Balance returns the lamport balance of an account
func (c *Client) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, addr, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return out.Value, nil
}

// RentExemptBalance returns the minimum lamports an account of the given size
// must hold to be rent exempt
func (c *Client) RentExemptBalance(ctx context.Context, dataSize uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, dataSize, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get rent exemption: %w", err)
	}
	return lamports, nil
}

// LatestBlockhash fetches a recent blockhash for transaction construction
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

// AccountInfo returns lamports and raw data for an account.
// Returns ErrAccountNotFound when the account does not exist.
func (c *Client) AccountInfo(ctx context.Context, addr solana.PublicKey) (uint64, []byte, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, nil, ErrAccountNotFound
		}
		return 0, nil, fmt.Errorf("failed to get account info: %w", err)
	}
	if out.Value == nil {
		return 0, nil, ErrAccountNotFound
	}
	return out.Value.Lamports, out.Value.Data.GetBinary(), nil
}

// ProgramAccount is one account owned by a program, with its raw data
type ProgramAccount struct {
	Address  solana.PublicKey
	Lamports uint64
	Data     []byte
}

// ProgramAccountsByOffset lists accounts owned by programID whose data at the
// given byte offset equals value (a memcmp server-side filter)
func (c *Client) ProgramAccountsByOffset(ctx context.Context, programID solana.PublicKey, offset uint64, value []byte) ([]ProgramAccount, error) {
	out, err := c.rpc.GetProgramAccountsWithOpts(ctx, programID, &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: offset,
					Bytes:  solana.Base58(value),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get program accounts: %w", err)
	}

	accounts := make([]ProgramAccount, 0, len(out))
	for _, keyed := range out {
		if keyed == nil || keyed.Account == nil {
			continue
		}
		accounts = append(accounts, ProgramAccount{
			Address:  keyed.Pubkey,
			Lamports: keyed.Account.Lamports,
			Data:     keyed.Account.Data.GetBinary(),
		})
	}
	return accounts, nil
}

// EpochInfo describes the current epoch position
type EpochInfo struct {
	Epoch        uint64
	SlotIndex    uint64
	SlotsInEpoch uint64
}

// CurrentEpoch returns the chain's current epoch position
func (c *Client) CurrentEpoch(ctx context.Context) (EpochInfo, error) {
	out, err := c.rpc.GetEpochInfo(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return EpochInfo{}, fmt.Errorf("failed to get epoch info: %w", err)
	}
	return EpochInfo{
		Epoch:        out.Epoch,
		SlotIndex:    out.SlotIndex,
		SlotsInEpoch: out.SlotsInEpoch,
	}, nil
}

// SendTransaction submits a signed transaction with preflight enabled
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// WaitForConfirmation polls signature status until the transaction reaches
// confirmed commitment, fails on chain, or ctx is done. Callers bound the wait
// through the context; confirmation latency is externally controlled.
func (c *Client) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(confirmPollInterval):
			out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
			if err != nil {
				// transient status errors are retried until the deadline
				continue
			}
			if len(out.Value) == 0 || out.Value[0] == nil {
				continue
			}
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: %v", ErrTxFailed, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}
	}
}
