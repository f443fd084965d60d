package vault

import "github.com/vaulthub/core/pkg/common"

// Strategy is the yield-bearing backend a vault wraps: it values deposits,
// reports its own totals, and answers whether a given unbond value can
// start now. Implementations are provided by the host adapter; the core
// never stores a reference back into caller state.
type Strategy interface {
	Now() Now
	DepositAsset() common.Asset
	UnderlyingAssetDecimals() common.Decimals
	TotalDepositsValue() TotalDepositsValue
	DepositValue(amount DepositAmount) DepositValue
	Unbond(value DepositValue) UnbondReadyStatus
}

// SharesMint reports the total outstanding shares and the asset they are
// denominated in; minting/burning itself happens via emitted MintCmds.
type SharesMint interface {
	TotalSharesIssued() TotalSharesIssued
	SharesAsset() common.Asset
}

// UnbondingLog is the read side of the per-vault, per-recipient threaded
// batch ledger. All writes happen via emitted UnbondingLogSet commands;
// this interface is query-only.
type UnbondingLog interface {
	LastCommittedBatchId() (BatchId, bool)
	BatchUnbondValue(batch BatchId) (DepositValue, bool)
	BatchClaimableAmount(batch BatchId) (ClaimAmount, bool)
	PendingBatchHint(batch BatchId) (Hint, bool)
	CommittedBatchEpoch(batch BatchId) (UnbondEpoch, bool)
	FirstEnteredBatch(recipient string) (BatchId, bool)
	LastEnteredBatch(recipient string) (BatchId, bool)
	NextEnteredBatch(recipient string, batch BatchId) (BatchId, bool)
	LastClaimedBatch(recipient string) (BatchId, bool)
	UnbondedValueInBatch(recipient string, batch BatchId) (DepositValue, bool)
}
