package reconcile

// startRedelegate sends a single Redelegate message for the requested slot
// if one is pending and the delegations report is fresh enough to trust the
// per-slot delegated amount. Absent a request, or with a stale report, it
// falls straight through.
func startRedelegate(ctx reconcileContext) transition {
	slot, pending := ctx.repo.RedelegationSlot()
	if !pending {
		return nextTransition(nil)
	}

	last, haveLast := ctx.repo.LastReconcileHeight()
	report, haveReport := ctx.env.DelegationsReport()
	if haveLast && haveReport && report.Height <= last.Uint64() {
		return nextTransition(nil)
	}
	if !haveReport {
		return nextTransition(nil)
	}

	idx := slot.Slot()
	if int(idx) >= len(report.PerSlot) {
		return nextTransition(nil)
	}
	amount := report.PerSlot[idx]

	msg := TxMsg{Kind: TxRedelegate, Slot: idx, SlotAmount: amount}
	return txTransition(SingleTxMsg(msg), nil)
}

func onRedelegateSuccess(ctx reconcileContext) transition {
	return nextTransition([]Cmd{cmdOf(CmdClearRedelegationRequest)}).withEvent(redelegationSuccessfulEvent())
}

// onRedelegateFailure clears the request without retrying: a failed
// redelegation is not automatically resubmitted, since the operator may
// need to pick a different target slot.
func onRedelegateFailure(ctx reconcileContext) transition {
	return nextTransition([]Cmd{cmdOf(CmdClearRedelegationRequest)})
}
