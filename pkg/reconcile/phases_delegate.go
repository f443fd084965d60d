package reconcile

import "github.com/vaulthub/core/pkg/num"

// delegatePhaseBalances derives the two inputs the Delegate phase compounds
// together: the deposit amount already sitting in the delegation ICA
// (InflightDeposit, placed there by TransferPendingDeposits) and whatever
// staking rewards are owed since the last reconcile, net of the
// reconciler fee.
func delegatePhaseBalances(ctx reconcileContext) (depositAmount, rewardsReceivable, feeAmount num.Uint128, hasFee bool) {
	depositAmount = ctx.repo.InflightDeposit().Value()

	last, haveLast := ctx.repo.LastReconcileHeight()
	if !haveLast {
		return depositAmount, num.ZeroUint128(), num.ZeroUint128(), false
	}

	rewards, ok := rewardsBalance(ctx.env, last)
	if !ok {
		return depositAmount, num.ZeroUint128(), num.ZeroUint128(), false
	}

	recipient, hasRecipient := ctx.env.FeeRecipient()
	meta := FeeMetadata{
		Recipient:         recipient,
		HasRecipient:      hasRecipient,
		PayoutCooldown:    ctx.config.FeePayoutCooldownBlocks(),
		BpsBlockIncrement: ctx.config.FeeBpsBlockIncrement(),
		MaxFeeBps:         ctx.config.MaxFeeBps(),
	}

	feeBps, ok := meta.Resolve(last.Uint64(), ctx.env.CurrentHeight().Uint64())
	if !ok || !hasRecipient {
		return depositAmount, rewards, num.ZeroUint128(), false
	}

	receivable, fee, hasFeeAmount := feeBps.ApplyTo(rewards)
	if !hasFeeAmount {
		return depositAmount, rewards, num.ZeroUint128(), false
	}
	return depositAmount, receivable, fee, true
}

// delegateTxMsgs builds this round's full message list: a withdraw-rewards
// message per non-zero-weighted slot, one Authz sweep splitting the
// withdrawn rewards into the receivable and fee portions, and finally the
// delegate messages themselves. All three groups are produced fresh from
// repository state every call, so TxMsgBatcher can slice across all of them
// uniformly regardless of which sub-step a batch boundary falls in. The
// returned delegations describe only the trailing TxDelegate portion of
// msgs, for finalizeDelegate and delegateForceNext to act on.
func delegateTxMsgs(ctx reconcileContext) ([]TxMsg, []delegation) {
	depositAmount, rewardsReceivable, feeAmount, hasFee := delegatePhaseBalances(ctx)

	var msgs []TxMsg
	if !rewardsReceivable.IsZero() {
		for i, w := range ctx.repo.Weights().AsSlice() {
			if w.IsZero() {
				continue
			}
			msgs = append(msgs, TxMsg{Kind: TxWithdrawRewards, Slot: ValidatorSetSlot(i)})
		}

		authzMsgs := []AuthzMsg{{Kind: AuthzSendRewardsReceivable, Amount: rewardsReceivable}}
		if hasFee {
			recipient, _ := ctx.env.FeeRecipient()
			authzMsgs = append(authzMsgs, AuthzMsg{Kind: AuthzSendFee, Amount: feeAmount, Recipient: recipient})
		}
		msgs = append(msgs, TxMsg{Kind: TxAuthz, AuthzMsgs: authzMsgs})
	}

	totalDelegation := depositAmount.Add(rewardsReceivable)
	var dels []delegation
	if !totalDelegation.IsZero() {
		weights := ctx.repo.Weights().AsSlice()
		startSlot := ctx.repo.DelegateStartSlot().Int()
		if startSlot < len(weights) {
			dels = distributeDelegations(weights[startSlot:], totalDelegation, startSlot)
			for _, d := range dels {
				msgs = append(msgs, TxMsg{Kind: TxDelegate, Slot: d.slot, SlotAmount: d.amount})
			}
		}
	}

	return msgs, dels
}

func delegatePhase(ctx reconcileContext) transition {
	msgs, dels := delegateTxMsgs(ctx)
	if len(msgs) == 0 {
		return nextTransition(nil)
	}

	batcher := newTxMsgBatcher(ctx.config, ctx.repo)
	batch, ok := batcher.batch(msgs)
	if !ok {
		return finalizeDelegate(ctx, dels)
	}
	return txTransition(batch, nil)
}

func startDelegate(ctx reconcileContext) transition { return delegatePhase(ctx) }

func onDelegateSuccess(ctx reconcileContext) transition { return delegatePhase(ctx) }

// finalizeDelegate applies the net effect of whatever delegate messages
// actually landed this phase, clearing the inflight amounts they were
// drawn from and rederiving weights against the new, larger Delegated
// total.
func finalizeDelegate(ctx reconcileContext, dels []delegation) transition {
	totalDelegated := num.ZeroUint128()
	for _, d := range dels {
		totalDelegated = totalDelegated.Add(d.amount)
	}

	delegated := ctx.repo.Delegated().Value()
	currentDelegated := delegated.Add(totalDelegated)

	cmds := []Cmd{
		delegatedCmd(NewDelegated(currentDelegated)),
		inflightDepositCmd(NewInflightDeposit(num.ZeroUint128())),
		inflightRewardsReceivableCmd(NewInflightRewardsReceivable(num.ZeroUint128())),
		inflightFeePayableCmd(NewInflightFeePayable(num.ZeroUint128())),
		delegateStartSlotCmd(NewDelegateStartSlot(0)),
	}

	if len(dels) > 0 {
		newWeights := adjustWeightsAfterDelegation(ctx.repo.Weights(), delegated, currentDelegated, dels)
		cmds = append(cmds, weightsCmd(newWeights))
	}

	return nextTransition(cmds).withEvent(delegationsIncreasedEvent(totalDelegated))
}

// delegateForceNext is the operator override for a stuck Delegate phase: it
// treats whatever prefix of this round's message list MsgSuccessCount says
// landed as final. A confirmed count that does not reach the delegate
// portion of the list (the withdraw/authz messages landed but no
// TxDelegate did) just resets the inflight reward fields rather than
// crediting any delegation.
func delegateForceNext(ctx reconcileContext) transition {
	msgs, dels := delegateTxMsgs(ctx)
	confirmed := ctx.repo.MsgSuccessCount().Int()
	if confirmed > len(msgs) {
		confirmed = len(msgs)
	}

	delegateMsgStart := len(msgs) - len(dels)
	if confirmed <= delegateMsgStart {
		return nextTransition([]Cmd{
			delegateStartSlotCmd(NewDelegateStartSlot(0)),
			inflightRewardsReceivableCmd(NewInflightRewardsReceivable(num.ZeroUint128())),
			inflightFeePayableCmd(NewInflightFeePayable(num.ZeroUint128())),
		})
	}

	return finalizeDelegate(ctx, dels[:confirmed-delegateMsgStart])
}
