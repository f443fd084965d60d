package reconcile

// startSetupRewardsAddress issues the one-time message that points the
// delegation ICA's staking rewards at the rewards ICA. It aborts rather
// than erroring when either ICA has not been provisioned yet — account
// creation is an external precondition this package does not own.
func startSetupRewardsAddress(ctx reconcileContext) transition {
	delegator, haveDelegator := ctx.env.DelegationAccountAddress()
	rewards, haveRewards := ctx.env.RewardsAccountAddress()
	if !haveDelegator || !haveRewards {
		return abortTransition()
	}

	msg := TxMsg{Kind: TxSetRewardsWithdrawalAddress, Delegator: delegator, Grantee: rewards}
	return txTransition(SingleTxMsg(msg), nil)
}

func onSetupRewardsAddressSuccess(ctx reconcileContext) transition {
	return nextTransition(nil)
}

// startSetupAuthz grants the rewards ICA authorization to send funds on the
// delegation ICA's behalf (used later for the reconciler-fee payout).
func startSetupAuthz(ctx reconcileContext) transition {
	delegator, haveDelegator := ctx.env.DelegationAccountAddress()
	rewards, haveRewards := ctx.env.RewardsAccountAddress()
	if !haveDelegator || !haveRewards {
		return abortTransition()
	}

	msg := TxMsg{Kind: TxGrantAuthzSend, Delegator: delegator, Grantee: rewards}
	return txTransition(SingleTxMsg(msg), nil)
}

func onSetupAuthzSuccess(ctx reconcileContext) transition {
	return nextTransition(nil)
}
