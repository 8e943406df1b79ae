package staking

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// On-chain program and sysvar addresses referenced by stake transactions.
var (
	SystemProgramID    = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	StakeProgramID     = solana.MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")
	stakeConfigID      = solana.MustPublicKeyFromBase58("StakeConfig11111111111111111111111111111111")
	sysvarRent         = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	sysvarClock        = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	sysvarStakeHistory = solana.MustPublicKeyFromBase58("SysvarStakeHistory1111111111111111111111111")
)

// Bincode instruction discriminants.
const (
	systemInstructionCreateAccount uint32 = 0

	stakeInstructionInitialize    uint32 = 0
	stakeInstructionDelegateStake uint32 = 2
	stakeInstructionWithdraw      uint32 = 4
	stakeInstructionDeactivate    uint32 = 5
)

// newCreateAccountInstruction funds a fresh account owned by the stake
// program. Both the funder and the new account must sign.
func newCreateAccountInstruction(funder, newAccount solana.PublicKey, lamports, space uint64, owner solana.PublicKey) solana.Instruction {
	data := make([]byte, 0, 4+8+8+32)
	data = binary.LittleEndian.AppendUint32(data, systemInstructionCreateAccount)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	data = binary.LittleEndian.AppendUint64(data, space)
	data = append(data, owner.Bytes()...)

	return solana.NewInstruction(SystemProgramID, []*solana.AccountMeta{
		solana.NewAccountMeta(funder, true, true),
		solana.NewAccountMeta(newAccount, true, true),
	}, data)
}

// newInitializeInstruction writes the authorized staker/withdrawer pair and
// an empty lockup into a freshly created stake account.
func newInitializeInstruction(stakeAccount, authority solana.PublicKey) solana.Instruction {
	data := make([]byte, 0, 4+32+32+8+8+32)
	data = binary.LittleEndian.AppendUint32(data, stakeInstructionInitialize)
	data = append(data, authority.Bytes()...) // staker
	data = append(data, authority.Bytes()...) // withdrawer
	data = binary.LittleEndian.AppendUint64(data, 0)
	data = binary.LittleEndian.AppendUint64(data, 0)
	data = append(data, authority.Bytes()...) // lockup custodian

	return solana.NewInstruction(StakeProgramID, []*solana.AccountMeta{
		solana.NewAccountMeta(stakeAccount, true, false),
		solana.NewAccountMeta(sysvarRent, false, false),
	}, data)
}

// newDelegateInstruction delegates the whole stake account to a vote account.
func newDelegateInstruction(stakeAccount, voteAccount, staker solana.PublicKey) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(nil, stakeInstructionDelegateStake)

	return solana.NewInstruction(StakeProgramID, []*solana.AccountMeta{
		solana.NewAccountMeta(stakeAccount, true, false),
		solana.NewAccountMeta(voteAccount, false, false),
		solana.NewAccountMeta(sysvarClock, false, false),
		solana.NewAccountMeta(sysvarStakeHistory, false, false),
		solana.NewAccountMeta(stakeConfigID, false, false),
		solana.NewAccountMeta(staker, false, true),
	}, data)
}

// newDeactivateInstruction starts cooldown for a delegated stake account.
func newDeactivateInstruction(stakeAccount, staker solana.PublicKey) solana.Instruction {
	data := binary.LittleEndian.AppendUint32(nil, stakeInstructionDeactivate)

	return solana.NewInstruction(StakeProgramID, []*solana.AccountMeta{
		solana.NewAccountMeta(stakeAccount, true, false),
		solana.NewAccountMeta(sysvarClock, false, false),
		solana.NewAccountMeta(staker, false, true),
	}, data)
}

// newWithdrawInstruction moves lamports out of a stake account back to the
// recipient wallet.
func newWithdrawInstruction(stakeAccount, recipient, withdrawer solana.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, 0, 4+8)
	data = binary.LittleEndian.AppendUint32(data, stakeInstructionWithdraw)
	data = binary.LittleEndian.AppendUint64(data, lamports)

	return solana.NewInstruction(StakeProgramID, []*solana.AccountMeta{
		solana.NewAccountMeta(stakeAccount, true, false),
		solana.NewAccountMeta(recipient, true, false),
		solana.NewAccountMeta(sysvarClock, false, false),
		solana.NewAccountMeta(sysvarStakeHistory, false, false),
		solana.NewAccountMeta(withdrawer, false, true),
	}, data)
}
