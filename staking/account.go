package staking

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// stakeAccountDataSize is the fixed serialized size of a stake account.
const stakeAccountDataSize = 200

// Stake state enum values as serialized on chain.
const (
	stakeStateUninitialized uint32 = 0
	stakeStateInitialized   uint32 = 1
	stakeStateStake         uint32 = 2
	stakeStateRewardsPool   uint32 = 3
)

// Byte offsets into the serialized stake account.
const (
	offsetState             = 0
	offsetRentReserve       = 4
	offsetStaker            = 12
	offsetWithdrawer        = 44
	offsetVoter             = 124
	offsetDelegatedStake    = 156
	offsetActivationEpoch   = 164
	offsetDeactivationEpoch = 172
)

// stakerMemcmpOffset is where the authorized staker pubkey sits, used to
// filter getProgramAccounts down to one wallet's accounts.
const stakerMemcmpOffset = offsetStaker

// stakeAccount is the decoded on-chain representation.
type stakeAccount struct {
	State             uint32
	RentReserve       uint64
	Staker            solana.PublicKey
	Withdrawer        solana.PublicKey
	Voter             solana.PublicKey
	DelegatedStake    uint64
	ActivationEpoch   uint64
	DeactivationEpoch uint64
}

// Delegated reports whether the account carries a delegation record.
func (a stakeAccount) Delegated() bool {
	return a.State == stakeStateStake
}

// Active reports whether the delegation has not been deactivated. Accounts
// still warming up count as active so they can be unstaked right away.
func (a stakeAccount) Active() bool {
	return a.Delegated() && a.DeactivationEpoch == MaxEpoch
}

// parseStakeAccount decodes the fixed bincode layout of a stake account.
func parseStakeAccount(data []byte) (stakeAccount, error) {
	if len(data) < stakeAccountDataSize {
		return stakeAccount{}, fmt.Errorf("stake account data too short: %d bytes", len(data))
	}

	acc := stakeAccount{
		State:       binary.LittleEndian.Uint32(data[offsetState:]),
		RentReserve: binary.LittleEndian.Uint64(data[offsetRentReserve:]),
		Staker:      solana.PublicKeyFromBytes(data[offsetStaker : offsetStaker+32]),
		Withdrawer:  solana.PublicKeyFromBytes(data[offsetWithdrawer : offsetWithdrawer+32]),
	}

	if acc.State > stakeStateRewardsPool {
		return stakeAccount{}, fmt.Errorf("unknown stake state: %d", acc.State)
	}

	if acc.State == stakeStateStake {
		acc.Voter = solana.PublicKeyFromBytes(data[offsetVoter : offsetVoter+32])
		acc.DelegatedStake = binary.LittleEndian.Uint64(data[offsetDelegatedStake:])
		acc.ActivationEpoch = binary.LittleEndian.Uint64(data[offsetActivationEpoch:])
		acc.DeactivationEpoch = binary.LittleEndian.Uint64(data[offsetDeactivationEpoch:])
	}

	return acc, nil
}
