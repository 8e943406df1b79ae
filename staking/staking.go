// Package staking orchestrates stake, unstake and withdraw transactions
// against the Gojira Holdings validator, and keeps a local view of the
// wallet's stake accounts synchronized with on-chain state.
package staking

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/gojira-holdings/validator-web/pkg/solanarpc"
)

// MinimumStakeSOL is the smallest stake the orchestrator accepts
const MinimumStakeSOL = 0.01

// MaxEpoch is the deactivation-epoch sentinel a delegation carries while it
// has not been deactivated
const MaxEpoch = ^uint64(0)

// Fixed validator identity. The orchestrator never delegates anywhere else.
var (
	ValidatorIdentity    = solana.MustPublicKeyFromBase58("EgkpabR5i9K5e518RGK2F9XhPYeMetfoLQaqwT79oErG")
	ValidatorVoteAccount = solana.MustPublicKeyFromBase58("Buck8A59eVzC5uCcaPude1byYPaBzKGdt3M15VrVf16R")
)

// Sentinel errors for failure cases
var (
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrInvalidAmount       = errors.New("invalid stake amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSubmissionFailed    = errors.New("transaction submission failed")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
	ErrAccountNotFound     = errors.New("stake account not found")
	ErrBusy                = errors.New("another staking operation is in flight")
)

// StakeAccountInfo is the per-poll view of one stake account delegated to the
// validator. It is derived from chain state, never stored.
type StakeAccountInfo struct {
	Address           solana.PublicKey
	Lamports          uint64
	IsActive          bool
	Withdrawer        solana.PublicKey
	DeactivationEpoch uint64
}

// SOL returns the account balance in whole-token units
func (i StakeAccountInfo) SOL() float64 {
	return float64(i.Lamports) / float64(solana.LAMPORTS_PER_SOL)
}

// ChainClient is the RPC surface the orchestrator needs.
// *solanarpc.Client satisfies it.
type ChainClient interface {
	Balance(ctx context.Context, addr solana.PublicKey) (uint64, error)
	RentExemptBalance(ctx context.Context, dataSize uint64) (uint64, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	AccountInfo(ctx context.Context, addr solana.PublicKey) (uint64, []byte, error)
	ProgramAccountsByOffset(ctx context.Context, programID solana.PublicKey, offset uint64, value []byte) ([]solanarpc.ProgramAccount, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	WaitForConfirmation(ctx context.Context, sig solana.Signature) error
}

// Signer is the wallet capability the orchestrator invokes, at most once per
// mutating operation
type Signer interface {
	Connected() bool
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction, extra ...solana.PrivateKey) error
}

// Phase tracks the lifecycle of the in-flight mutating operation
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseConfirming
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseConfirming:
		return "confirming"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
