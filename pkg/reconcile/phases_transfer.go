package reconcile

import "github.com/vaulthub/core/pkg/num"

// startTransferUndelegated moves however much has finished unbonding on the
// remote chain (per the latest UndelegatedBalanceReport) into this round's
// deposit queue. A stale or missing report, or a zero amount, falls
// straight through — there is nothing new to collect yet.
func startTransferUndelegated(ctx reconcileContext) transition {
	report, ok := ctx.env.UndelegatedBalanceReport()
	if !ok || report.Amount.Value().IsZero() {
		return nextTransition(nil)
	}
	if last, haveLast := ctx.repo.LastReconcileHeight(); haveLast && report.Height <= last.Uint64() {
		return nextTransition(nil)
	}

	msg := TxMsg{Kind: TxTransferInUndelegated, Amount: report.Amount.Value()}
	return txTransition(SingleTxMsg(msg), nil)
}

func onTransferUndelegatedSuccess(ctx reconcileContext) transition {
	report, ok := ctx.env.UndelegatedBalanceReport()
	if !ok {
		return nextTransition(nil)
	}
	amount := report.Amount.Value()

	cmds := []Cmd{
		inflightUnbondCmd(NewInflightUnbond(ctx.repo.InflightUnbond().Value().SaturatingSub(amount))),
		pendingDepositCmd(NewPendingDeposit(ctx.repo.PendingDeposit().Value().Add(amount))),
	}
	return nextTransition(cmds).withEvent(undelegatedAssetsTransferredEvent())
}

// startTransferPendingDeposits sends whatever has accumulated in
// PendingDeposit (new vault deposits plus matured undelegations) out to the
// delegation ICA, where the Delegate phase will pick it up.
func startTransferPendingDeposits(ctx reconcileContext) transition {
	pendingDeposit := ctx.repo.PendingDeposit().Value()
	if pendingDeposit.IsZero() {
		return nextTransition(nil)
	}

	msg := TxMsg{Kind: TxTransferOutPendingDeposit, Amount: pendingDeposit}
	return txTransition(SingleTxMsg(msg), nil)
}

func onTransferPendingDepositsSuccess(ctx reconcileContext) transition {
	pendingDeposit := ctx.repo.PendingDeposit().Value()

	cmds := []Cmd{
		pendingDepositCmd(NewPendingDeposit(num.ZeroUint128())),
		inflightDepositCmd(NewInflightDeposit(ctx.repo.InflightDeposit().Value().Add(pendingDeposit))),
	}
	return nextTransition(cmds).withEvent(depositsTransferredEvent(pendingDeposit))
}
