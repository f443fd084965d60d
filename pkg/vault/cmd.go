package vault

import "github.com/vaulthub/core/pkg/addr"

// MintKind discriminates the two things a SharesMint can be told to do.
type MintKind int

const (
	MintIssue MintKind = iota
	MintBurn
)

// MintCmd instructs the shares mint to create or destroy shares. Burn
// assumes the caller already holds custody of the shares being destroyed.
type MintCmd struct {
	Kind      MintKind
	Amount    SharesAmount
	Recipient addr.Recipient // only set for MintIssue
}

// StrategyKind discriminates the three things a Strategy can be told to do.
type StrategyKind int

const (
	StrategyDeposit StrategyKind = iota
	StrategyUnbond
	StrategySendClaimed
)

// StrategyCmd instructs the strategy to deposit, start unbonding a value,
// or release a finished claim to a recipient.
type StrategyCmd struct {
	Kind      StrategyKind
	Amount    DepositAmount // StrategyDeposit
	Value     DepositValue  // StrategyUnbond
	Claim     ClaimAmount   // StrategySendClaimed
	Recipient addr.Recipient
}

// UnbondingLogSetKind discriminates every field the unbonding log can be
// told to write.
type UnbondingLogSetKind int

const (
	SetLastCommittedBatchId UnbondingLogSetKind = iota
	SetBatchTotalUnbondValue
	SetBatchClaimableAmount
	SetBatchHint
	SetBatchEpoch
	SetFirstEnteredBatch
	SetLastEnteredBatch
	SetNextEnteredBatch
	SetLastClaimedBatch
	SetUnbondedValueInBatch
)

// UnbondingLogSet is one write against the unbonding log; only the fields
// relevant to Kind are populated.
type UnbondingLogSet struct {
	Kind      UnbondingLogSetKind
	Batch     BatchId
	Value     DepositValue
	Amount    ClaimAmount
	Hint      Hint
	Epoch     UnbondEpoch
	Recipient addr.Recipient
	Previous  BatchId
	Next      BatchId
}

// CmdKind discriminates which of the three command families a Cmd carries.
type CmdKind int

const (
	CmdMint CmdKind = iota
	CmdStrategy
	CmdUnbondingLog
)

// Cmd is the sum type every vault operation returns: a flat list of
// intended writes and external effects for the host adapter to apply.
type Cmd struct {
	Kind        CmdKind
	Mint        MintCmd
	Strategy    StrategyCmd
	UnbondingLog UnbondingLogSet
}

func MintCmdOf(c MintCmd) Cmd                 { return Cmd{Kind: CmdMint, Mint: c} }
func StrategyCmdOf(c StrategyCmd) Cmd         { return Cmd{Kind: CmdStrategy, Strategy: c} }
func UnbondingLogSetOf(c UnbondingLogSet) Cmd { return Cmd{Kind: CmdUnbondingLog, UnbondingLog: c} }
