package reconcile

import "github.com/vaulthub/core/pkg/num"

// undelegateDelegations computes the per-slot split of the pending unbond
// amount across the validator set starting at UndelegateStartSlot, or nil
// if there is nothing pending or the start slot has already run off the
// end of the set (a resumed partial undelegation that is in fact done).
func undelegateDelegations(ctx reconcileContext) []delegation {
	pendingUnbond := ctx.repo.PendingUnbond().Value()
	if pendingUnbond.IsZero() {
		return nil
	}

	weights := ctx.repo.Weights().AsSlice()
	startSlot := ctx.repo.UndelegateStartSlot().Int()
	if startSlot >= len(weights) {
		return nil
	}

	delegated := ctx.repo.Delegated().Value()
	return distributeUndelegations(weights[startSlot:], delegated, pendingUnbond, startSlot)
}

func undelegateTxMsgs(dels []delegation) []TxMsg {
	msgs := make([]TxMsg, len(dels))
	for i, d := range dels {
		msgs[i] = TxMsg{Kind: TxUndelegate, Slot: d.slot, SlotAmount: d.amount}
	}
	return msgs
}

// undelegatePhase is shared by the Idle and Pending handlers: it
// recomputes the full set of undelegate messages every round (idempotent,
// since it is purely a function of repository state) and batches whatever
// the TxMsgBatcher says remains. Once nothing remains, it finalizes the
// phase's effect on Delegated/PendingUnbond/InflightUnbond/Weights.
func undelegatePhase(ctx reconcileContext) transition {
	dels := undelegateDelegations(ctx)
	if len(dels) == 0 {
		return nextTransition(nil)
	}

	msgs := undelegateTxMsgs(dels)
	batcher := newTxMsgBatcher(ctx.config, ctx.repo)
	batch, ok := batcher.batch(msgs)
	if !ok {
		return finalizeUndelegate(ctx, dels)
	}
	return txTransition(batch, nil)
}

func startUndelegate(ctx reconcileContext) transition { return undelegatePhase(ctx) }

func onUndelegateSuccess(ctx reconcileContext) transition { return undelegatePhase(ctx) }

// finalizeUndelegate applies the net effect of however many slots actually
// undelegated this phase: Delegated shrinks, PendingUnbond clears,
// InflightUnbond grows by the same amount (it remains inflight until the
// unbonding period elapses and TransferUndelegated moves it home), and
// weights are rederived against the new, smaller Delegated total.
func finalizeUndelegate(ctx reconcileContext, dels []delegation) transition {
	totalUndelegated := num.ZeroUint128()
	for _, d := range dels {
		totalUndelegated = totalUndelegated.Add(d.amount)
	}

	delegated := ctx.repo.Delegated().Value()
	currentDelegated := delegated.SaturatingSub(totalUndelegated)

	cmds := []Cmd{
		delegatedCmd(NewDelegated(currentDelegated)),
		pendingUnbondCmd(NewPendingUnbond(num.ZeroUint128())),
		inflightUnbondCmd(NewInflightUnbond(ctx.repo.InflightUnbond().Value().Add(totalUndelegated))),
		undelegateStartSlotCmd(NewUndelegateStartSlot(0)),
	}

	if newWeights, ok := adjustWeightsAfterUndelegation(ctx.repo.Weights(), delegated, currentDelegated, dels); ok {
		cmds = append(cmds, weightsCmd(newWeights))
	}

	return nextTransition(cmds).withEvent(unbondStartedEvent(totalUndelegated))
}

// retryUndelegate runs after a batch failed to land: it advances
// UndelegateStartSlot past whatever slots the repository's own
// MsgSuccessCount says already succeeded, so the retried attempt does not
// resend messages that already took effect remotely, then resumes sending
// from there.
func retryUndelegate(ctx reconcileContext) transition {
	weights := ctx.repo.Weights().AsSlice()
	startSlot := ctx.repo.UndelegateStartSlot().Int()
	resumed := startSlot + ctx.repo.MsgSuccessCount().Int()
	if resumed > len(weights) {
		resumed = len(weights)
	}
	return retryTransition([]Cmd{undelegateStartSlotCmd(NewUndelegateStartSlot(resumed))})
}

// undelegateForceNext is the operator override for a permanently stuck
// Undelegate phase: it treats whatever was confirmed sent (MsgSuccessCount
// messages, by construction the lowest-indexed slots in the distribution)
// as the final result and finalizes on that partial set instead of
// retrying forever.
func undelegateForceNext(ctx reconcileContext) transition {
	dels := undelegateDelegations(ctx)
	confirmed := ctx.repo.MsgSuccessCount().Int()
	if confirmed > len(dels) {
		confirmed = len(dels)
	}
	if confirmed == 0 {
		return nextTransition([]Cmd{undelegateStartSlotCmd(NewUndelegateStartSlot(0))})
	}
	return finalizeUndelegate(ctx, dels[:confirmed])
}
