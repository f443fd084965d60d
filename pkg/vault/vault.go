package vault

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/num"
)

// DepositResponse carries the commands a Deposit produces plus the
// accounting figures the caller (the hub's two-phase deposit callback)
// needs to apply its own collateral/debt bookkeeping.
type DepositResponse struct {
	Cmds               []Cmd
	DepositValue       DepositValue
	IssuedShares       SharesAmount
	TotalSharesIssued  TotalSharesIssued
	TotalDepositsValue TotalDepositsValue
}

// Vault is the façade a strategy-backed share pool exposes: deposit,
// donate, redeem, claim, and start-unbond. It reads through the Strategy,
// SharesMint, and UnbondingLog capabilities and never mutates them
// directly — every state change comes back as a Cmd for the host to apply.
type Vault interface {
	Deposit(asset common.Asset, amount DepositAmount, mintRecipient addr.Recipient) (DepositResponse, error)
	Donate(asset common.Asset, amount DepositAmount) (Cmd, error)
	Redeem(sharesAsset common.Asset, shares SharesAmount, recipient addr.Recipient) ([]Cmd, error)
	Claim(recipient addr.Recipient) ([]Cmd, error)
	StartUnbond() ([]Cmd, error)
}

type vaultImpl struct {
	strategy     Strategy
	unbondingLog UnbondingLog
	mint         SharesMint
}

// New builds a Vault over the given capabilities.
func New(strategy Strategy, unbondingLog UnbondingLog, mint SharesMint) Vault {
	return &vaultImpl{strategy: strategy, unbondingLog: unbondingLog, mint: mint}
}

// pendingBatchId is the id of the batch currently accumulating redemptions,
// one past the last committed batch (or 0 if none has ever committed).
func pendingBatchId(log UnbondingLog) BatchId {
	last, ok := log.LastCommittedBatchId()
	if !ok {
		return 0
	}
	return last + 1
}

// offsetTotalDepositsValue excludes deposits already earmarked for
// unbonding in the pending batch from the strategy's reported total.
func offsetTotalDepositsValue(strategy Strategy, log UnbondingLog) TotalDepositsValue {
	pending := pendingBatchId(log)
	offset, ok := log.BatchUnbondValue(pending)
	if !ok {
		offset = DepositValue{}
	}
	total := strategy.TotalDepositsValue()
	remaining, ok := total.v.CheckedSub(offset.v)
	if !ok {
		panic("vault: pending unbond exceeds total deposits")
	}
	return TotalDepositsValue{v: remaining}
}

func (vi *vaultImpl) pendingBatchId() BatchId { return pendingBatchId(vi.unbondingLog) }

func (vi *vaultImpl) offsetTotalDepositsValue() TotalDepositsValue {
	return offsetTotalDepositsValue(vi.strategy, vi.unbondingLog)
}

func (vi *vaultImpl) Deposit(asset common.Asset, amount DepositAmount, mintRecipient addr.Recipient) (DepositResponse, error) {
	if amount.IsZero() {
		return DepositResponse{}, ErrCannotDepositZero
	}
	if asset != vi.strategy.DepositAsset() {
		return DepositResponse{}, ErrInvalidDepositAsset
	}

	previousTotal := vi.offsetTotalDepositsValue()
	depositValue := vi.strategy.DepositValue(amount)

	totalDepositsValue, ok := previousTotal.v.CheckedAdd(depositValue.v)
	if !ok {
		return DepositResponse{}, ErrDepositTooLarge
	}

	depositCmd := StrategyCmdOf(StrategyCmd{Kind: StrategyDeposit, Amount: amount})
	totalSharesIssued := vi.mint.TotalSharesIssued()

	rr, ok := NewRedemptionRate(totalSharesIssued, previousTotal)
	if !ok {
		if !totalSharesIssued.v.IsZero() {
			return DepositResponse{}, ErrCannotDepositInTotalLossState
		}

		underlyingDecimals := vi.strategy.UnderlyingAssetDecimals()

		if common.Decimals(underlyingDecimals) == SharesDecimalPlaces {
			return DepositResponse{
				Cmds: []Cmd{depositCmd, MintCmdOf(MintCmd{
					Kind: MintIssue, Amount: SharesAmount{v: totalDepositsValue}, Recipient: mintRecipient,
				})},
				DepositValue:       depositValue,
				IssuedShares:       SharesAmount{v: totalDepositsValue},
				TotalSharesIssued:  TotalSharesIssued{v: totalDepositsValue},
				TotalDepositsValue: TotalDepositsValue{v: totalDepositsValue},
			}, nil
		}

		scaler, ok := num.Pow10Uint128(uint(SharesDecimalPlaces - common.Decimals(underlyingDecimals)))
		if !ok {
			return DepositResponse{}, ErrDepositTooLarge
		}
		mintShares, ok := totalDepositsValue.CheckedMul(scaler)
		if !ok {
			return DepositResponse{}, ErrDepositTooLarge
		}

		return DepositResponse{
			Cmds: []Cmd{depositCmd, MintCmdOf(MintCmd{
				Kind: MintIssue, Amount: SharesAmount{v: mintShares}, Recipient: mintRecipient,
			})},
			DepositValue:       depositValue,
			IssuedShares:       SharesAmount{v: mintShares},
			TotalSharesIssued:  TotalSharesIssued{v: mintShares},
			TotalDepositsValue: TotalDepositsValue{v: totalDepositsValue},
		}, nil
	}

	mintShares, ok := rr.CheckedDepositsToShares(depositValue)
	if !ok {
		return DepositResponse{}, ErrDepositTooLarge
	}
	if mintShares.IsZero() {
		return DepositResponse{}, ErrDepositTooSmall
	}

	mintSharesValue := rr.SharesToDeposits(mintShares)

	newTotalSharesIssued, ok := totalSharesIssued.v.CheckedAdd(mintShares.v)
	if !ok {
		return DepositResponse{}, ErrDepositTooLarge
	}

	return DepositResponse{
		Cmds: []Cmd{depositCmd, MintCmdOf(MintCmd{
			Kind: MintIssue, Amount: mintShares, Recipient: mintRecipient,
		})},
		DepositValue:       mintSharesValue,
		IssuedShares:       mintShares,
		TotalSharesIssued:  TotalSharesIssued{v: newTotalSharesIssued},
		TotalDepositsValue: TotalDepositsValue{v: totalDepositsValue},
	}, nil
}

func (vi *vaultImpl) Donate(asset common.Asset, amount DepositAmount) (Cmd, error) {
	if amount.IsZero() {
		return Cmd{}, ErrCannotDonateZero
	}
	if asset != vi.strategy.DepositAsset() {
		return Cmd{}, ErrInvalidDonationAsset
	}
	return StrategyCmdOf(StrategyCmd{Kind: StrategyDeposit, Amount: amount}), nil
}

func (vi *vaultImpl) Redeem(sharesAsset common.Asset, shares SharesAmount, recipient addr.Recipient) ([]Cmd, error) {
	if sharesAsset != vi.mint.SharesAsset() {
		return nil, ErrInvalidRedemptionAsset
	}

	totalSharesIssued := vi.mint.TotalSharesIssued()

	if shares.v.Cmp(totalSharesIssued.v) > 0 {
		panic("vault: cannot redeem more shares than have been issued")
	}
	if totalSharesIssued.v.IsZero() {
		panic("vault: shares must have been issued in order for shares to be redeemed")
	}
	if shares.IsZero() {
		return nil, ErrCannotRedeemZero
	}

	offsetTotal := vi.offsetTotalDepositsValue()

	rr, ok := NewRedemptionRate(totalSharesIssued, offsetTotal)
	if !ok {
		return nil, ErrNoDepositsToRedeem
	}

	unbondValue, ok := rr.CheckedSharesToDeposits(shares)
	if !ok || unbondValue.IsZero() {
		return nil, ErrRedemptionTooSmall
	}

	pending := vi.pendingBatchId()

	totalUnboundV, ok := vi.unbondingLogTotalUnbond(pending).v.CheckedAdd(unbondValue.v)
	if !ok {
		panic("vault: total unbond value always fits a Uint128")
	}
	totalUnbond := DepositValue{v: totalUnboundV}

	recipientKey := recipient.String()
	recipientUnbond, ok := vi.unbondingLog.UnbondedValueInBatch(recipientKey, pending)
	if !ok {
		recipientUnbond = DepositValue{}
	}
	recipientUnboundV, ok := recipientUnbond.v.CheckedAdd(unbondValue.v)
	if !ok {
		panic("vault: recipient unbond value always fits a Uint128")
	}
	recipientUnbond = DepositValue{v: recipientUnboundV}

	cmds := []Cmd{
		UnbondingLogSetOf(UnbondingLogSet{Kind: SetBatchTotalUnbondValue, Batch: pending, Value: totalUnbond}),
		UnbondingLogSetOf(UnbondingLogSet{Kind: SetUnbondedValueInBatch, Batch: pending, Recipient: recipient, Value: recipientUnbond}),
		MintCmdOf(MintCmd{Kind: MintBurn, Amount: shares}),
	}

	if lastEntered, ok := vi.unbondingLog.LastEnteredBatch(recipientKey); ok {
		if lastEntered != pending {
			cmds = append(cmds,
				UnbondingLogSetOf(UnbondingLogSet{Kind: SetLastEnteredBatch, Recipient: recipient, Batch: pending}),
				UnbondingLogSetOf(UnbondingLogSet{Kind: SetNextEnteredBatch, Recipient: recipient, Previous: lastEntered, Next: pending}),
			)
		}
	} else {
		cmds = append(cmds,
			UnbondingLogSetOf(UnbondingLogSet{Kind: SetLastEnteredBatch, Recipient: recipient, Batch: pending}),
			UnbondingLogSetOf(UnbondingLogSet{Kind: SetFirstEnteredBatch, Recipient: recipient, Batch: pending}),
		)
	}

	status := vi.strategy.Unbond(totalUnbond)
	switch status.Kind {
	case UnbondReady:
		cmds = append(cmds,
			UnbondingLogSetOf(UnbondingLogSet{Kind: SetLastCommittedBatchId, Batch: pending}),
			UnbondingLogSetOf(UnbondingLogSet{Kind: SetBatchClaimableAmount, Batch: pending, Amount: status.Amount}),
			UnbondingLogSetOf(UnbondingLogSet{Kind: SetBatchEpoch, Batch: pending, Epoch: status.Epoch}),
			StrategyCmdOf(StrategyCmd{Kind: StrategyUnbond, Value: totalUnbond}),
		)
	case UnbondLater:
		if status.HasHint {
			cmds = append(cmds, UnbondingLogSetOf(UnbondingLogSet{Kind: SetBatchHint, Batch: pending, Hint: status.Hint}))
		}
	}

	return cmds, nil
}

func (vi *vaultImpl) unbondingLogTotalUnbond(batch BatchId) DepositValue {
	v, ok := vi.unbondingLog.BatchUnbondValue(batch)
	if !ok {
		return DepositValue{}
	}
	return v
}

func (vi *vaultImpl) Claim(recipient addr.Recipient) ([]Cmd, error) {
	var total num.Uint128
	var lastClaimed BatchId
	haveClaimed := false

	iter := newClaimableBatchIter(recipient.String(), vi.unbondingLog, vi.strategy)
	for {
		amount, batch, ok := iter.next()
		if !ok {
			break
		}
		sum, ok := total.CheckedAdd(amount.v)
		if !ok {
			break
		}
		total = sum
		lastClaimed = batch
		haveClaimed = true
	}

	if !haveClaimed {
		return nil, ErrNothingToClaim
	}

	return []Cmd{
		UnbondingLogSetOf(UnbondingLogSet{Kind: SetLastClaimedBatch, Recipient: recipient, Batch: lastClaimed}),
		StrategyCmdOf(StrategyCmd{Kind: StrategySendClaimed, Claim: ClaimAmount{v: total}, Recipient: recipient}),
	}, nil
}

func (vi *vaultImpl) StartUnbond() ([]Cmd, error) {
	pending := vi.pendingBatchId()

	pendingValue, ok := vi.unbondingLog.BatchUnbondValue(pending)
	if !ok {
		return nil, ErrNothingToUnbond
	}

	status := vi.strategy.Unbond(pendingValue)
	if status.Kind != UnbondReady {
		return nil, ErrUnbondNotReady
	}

	return []Cmd{
		UnbondingLogSetOf(UnbondingLogSet{Kind: SetLastCommittedBatchId, Batch: pending}),
		UnbondingLogSetOf(UnbondingLogSet{Kind: SetBatchClaimableAmount, Batch: pending, Amount: status.Amount}),
		UnbondingLogSetOf(UnbondingLogSet{Kind: SetBatchEpoch, Batch: pending, Epoch: status.Epoch}),
		StrategyCmdOf(StrategyCmd{Kind: StrategyUnbond, Value: pendingValue}),
	}, nil
}
