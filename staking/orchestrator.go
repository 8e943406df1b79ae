package staking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/gojira-holdings/validator-web/pkg/solanarpc"
)

const defaultConfirmTimeout = 60 * time.Second

// Orchestrator runs stake lifecycle operations against the fixed validator.
// At most one mutating operation may be in flight at a time.
type Orchestrator struct {
	chain    ChainClient
	wallet   Signer
	notifier Notifier
	log      *slog.Logger

	voteAccount    solana.PublicKey
	confirmTimeout time.Duration

	cache    *cache
	inFlight atomic.Bool
	phase    atomic.Int32
}

type Option func(*Orchestrator)

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

func WithVoteAccount(voteAccount solana.PublicKey) Option {
	return func(o *Orchestrator) { o.voteAccount = voteAccount }
}

func WithConfirmTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.confirmTimeout = d }
}

func New(chain ChainClient, wallet Signer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		chain:          chain,
		wallet:         wallet,
		notifier:       NopNotifier{},
		log:            slog.Default(),
		voteAccount:    ValidatorVoteAccount,
		confirmTimeout: defaultConfirmTimeout,
		cache:          newCache(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Phase reports the lifecycle stage of the latest mutating operation.
func (o *Orchestrator) Phase() Phase {
	return Phase(o.phase.Load())
}

// Busy reports whether a mutating operation is currently in flight.
func (o *Orchestrator) Busy() bool {
	return o.inFlight.Load()
}

// StakeAccounts lists the wallet's stake accounts delegated to the validator.
// A disconnected wallet yields an empty list. Results are cached per owner
// until the next mutating operation invalidates them.
func (o *Orchestrator) StakeAccounts(ctx context.Context) ([]StakeAccountInfo, error) {
	if !o.wallet.Connected() {
		return nil, nil
	}

	owner := o.wallet.PublicKey()

	if v, ok := o.cache.get(owner, ResourceStakeAccounts); ok {
		return v.([]StakeAccountInfo), nil
	}

	raw, err := o.chain.ProgramAccountsByOffset(ctx, StakeProgramID, stakerMemcmpOffset, owner.Bytes())
	if err != nil {
		return nil, fmt.Errorf("list stake accounts: %w", err)
	}

	infos := make([]StakeAccountInfo, 0, len(raw))
	for _, acc := range raw {
		parsed, err := parseStakeAccount(acc.Data)
		if err != nil {
			o.log.Warn("skipping undecodable stake account",
				slog.String("address", acc.Address.String()),
				slog.Any("error", err))
			continue
		}

		if !parsed.Delegated() || !parsed.Voter.Equals(o.voteAccount) {
			continue
		}

		infos = append(infos, StakeAccountInfo{
			Address:           acc.Address,
			Lamports:          acc.Lamports,
			IsActive:          parsed.Active(),
			Withdrawer:        parsed.Withdrawer,
			DeactivationEpoch: parsed.DeactivationEpoch,
		})
	}

	o.cache.put(owner, ResourceStakeAccounts, infos)

	return infos, nil
}

// Balance returns the connected wallet's spendable lamports. The value is
// cached per owner until the next mutating operation invalidates it.
func (o *Orchestrator) Balance(ctx context.Context) (uint64, error) {
	if !o.wallet.Connected() {
		return 0, ErrWalletNotConnected
	}

	owner := o.wallet.PublicKey()

	if v, ok := o.cache.get(owner, ResourceBalance); ok {
		return v.(uint64), nil
	}

	balance, err := o.chain.Balance(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}

	o.cache.put(owner, ResourceBalance, balance)

	return balance, nil
}

// TotalStaked sums the wallet's stake account balances, in SOL.
func (o *Orchestrator) TotalStaked(ctx context.Context) (float64, error) {
	infos, err := o.StakeAccounts(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, info := range infos {
		total += info.SOL()
	}

	return total, nil
}

// Stake creates a fresh stake account funded with amountSOL plus rent and
// delegates it to the validator in a single transaction.
func (o *Orchestrator) Stake(ctx context.Context, amountSOL float64) (solana.Signature, error) {
	if !o.wallet.Connected() {
		return o.fail("Stake failed", ErrWalletNotConnected)
	}

	if amountSOL < MinimumStakeSOL {
		return o.fail("Stake failed", fmt.Errorf("%w: minimum is %v SOL", ErrInvalidAmount, MinimumStakeSOL))
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return solana.Signature{}, ErrBusy
	}
	defer o.inFlight.Store(false)

	owner := o.wallet.PublicKey()
	lamports := uint64(math.Round(amountSOL * float64(solana.LAMPORTS_PER_SOL)))

	balance, err := o.Balance(ctx)
	if err != nil {
		return o.fail("Stake failed", fmt.Errorf("%w: %w", ErrSubmissionFailed, err))
	}

	rent, err := o.chain.RentExemptBalance(ctx, stakeAccountDataSize)
	if err != nil {
		return o.fail("Stake failed", fmt.Errorf("%w: %w", ErrSubmissionFailed, err))
	}

	if lamports+rent > balance {
		return o.fail("Stake failed", fmt.Errorf("%w: need %d lamports, have %d", ErrInsufficientBalance, lamports+rent, balance))
	}

	stakeKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return o.fail("Stake failed", fmt.Errorf("%w: %w", ErrSubmissionFailed, err))
	}
	stakeAccount := stakeKey.PublicKey()

	instructions := []solana.Instruction{
		newCreateAccountInstruction(owner, stakeAccount, lamports+rent, stakeAccountDataSize, StakeProgramID),
		newInitializeInstruction(stakeAccount, owner),
		newDelegateInstruction(stakeAccount, o.voteAccount, owner),
	}

	sig, err := o.submit(ctx, owner, instructions, stakeKey)
	if err != nil {
		return o.fail("Stake failed", err)
	}

	o.cache.invalidate(owner, ResourceStakeAccounts, ResourceBalance)
	o.notifier.Success("Stake submitted", fmt.Sprintf("%v SOL delegated, tx %s", amountSOL, shortSignature(sig)))

	return sig, nil
}

// Unstake deactivates a stake account if it is still active, then withdraws
// its full balance back to the wallet, all in one transaction.
func (o *Orchestrator) Unstake(ctx context.Context, stakeAccount solana.PublicKey) (solana.Signature, error) {
	if !o.wallet.Connected() {
		return o.fail("Unstake failed", ErrWalletNotConnected)
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return solana.Signature{}, ErrBusy
	}
	defer o.inFlight.Store(false)

	owner := o.wallet.PublicKey()

	lamports, parsed, err := o.loadStakeAccount(ctx, stakeAccount)
	if err != nil {
		return o.fail("Unstake failed", err)
	}

	var instructions []solana.Instruction
	if parsed.Active() {
		instructions = append(instructions, newDeactivateInstruction(stakeAccount, owner))
	}
	instructions = append(instructions, newWithdrawInstruction(stakeAccount, owner, owner, lamports))

	sig, err := o.submit(ctx, owner, instructions)
	if err != nil {
		return o.fail("Unstake failed", err)
	}

	o.cache.invalidate(owner, ResourceStakeAccounts, ResourceBalance)
	o.notifier.Success("Unstake submitted", fmt.Sprintf("account %s closed, tx %s", shortAddress(stakeAccount), shortSignature(sig)))

	return sig, nil
}

// Withdraw moves a stake account's full balance back to the wallet without
// touching its delegation state.
func (o *Orchestrator) Withdraw(ctx context.Context, stakeAccount solana.PublicKey) (solana.Signature, error) {
	if !o.wallet.Connected() {
		return o.fail("Withdraw failed", ErrWalletNotConnected)
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return solana.Signature{}, ErrBusy
	}
	defer o.inFlight.Store(false)

	owner := o.wallet.PublicKey()

	lamports, _, err := o.loadStakeAccount(ctx, stakeAccount)
	if err != nil {
		return o.fail("Withdraw failed", err)
	}

	sig, err := o.submit(ctx, owner, []solana.Instruction{
		newWithdrawInstruction(stakeAccount, owner, owner, lamports),
	})
	if err != nil {
		return o.fail("Withdraw failed", err)
	}

	o.cache.invalidate(owner, ResourceStakeAccounts, ResourceBalance)
	o.notifier.Success("Withdraw submitted", fmt.Sprintf("account %s drained, tx %s", shortAddress(stakeAccount), shortSignature(sig)))

	return sig, nil
}

// Invalidate drops the cached chain-derived resources for the connected
// wallet, forcing the next read to hit the chain.
func (o *Orchestrator) Invalidate(kinds ...ResourceKind) {
	if !o.wallet.Connected() {
		return
	}

	if len(kinds) == 0 {
		kinds = []ResourceKind{ResourceStakeAccounts, ResourceBalance}
	}

	o.cache.invalidate(o.wallet.PublicKey(), kinds...)
}

func (o *Orchestrator) loadStakeAccount(ctx context.Context, addr solana.PublicKey) (uint64, stakeAccount, error) {
	lamports, data, err := o.chain.AccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, solanarpc.ErrAccountNotFound) {
			return 0, stakeAccount{}, fmt.Errorf("%w: %s", ErrAccountNotFound, shortAddress(addr))
		}
		return 0, stakeAccount{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	parsed, err := parseStakeAccount(data)
	if err != nil {
		return 0, stakeAccount{}, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
	}

	return lamports, parsed, nil
}

func (o *Orchestrator) submit(ctx context.Context, payer solana.PublicKey, instructions []solana.Instruction, extraSigners ...solana.PrivateKey) (solana.Signature, error) {
	o.phase.Store(int32(PhaseSubmitting))

	blockhash, err := o.chain.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	if err := o.wallet.Sign(tx, extraSigners...); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	sig, err := o.chain.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	o.phase.Store(int32(PhaseConfirming))

	confirmCtx, cancel := context.WithTimeout(ctx, o.confirmTimeout)
	defer cancel()

	if err := o.chain.WaitForConfirmation(confirmCtx, sig); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return solana.Signature{}, fmt.Errorf("%w: tx %s", ErrConfirmationTimeout, shortSignature(sig))
		}
		return solana.Signature{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	o.phase.Store(int32(PhaseSucceeded))

	return sig, nil
}

func (o *Orchestrator) fail(title string, err error) (solana.Signature, error) {
	o.phase.Store(int32(PhaseFailed))
	o.notifier.Failure(title, err.Error())

	return solana.Signature{}, err
}

func shortSignature(sig solana.Signature) string {
	s := sig.String()
	if len(s) <= 8 {
		return s
	}
	return s[:8] + "..."
}

func shortAddress(addr solana.PublicKey) string {
	s := addr.String()
	if len(s) <= 8 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}
