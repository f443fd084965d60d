package reconcile

// TxCount estimates how many tx messages a single Reconcile() call still
// needs to fully clear the given (phase, state) before it would next block
// waiting on a confirmation — used by a trigger layer to size an up-front
// IBC relay fee prepayment without having to run the FSM speculatively.
// It is deliberately conservative: phases whose message count depends on
// balances this package cannot see from Config/ValidatorSetSize alone (the
// exact amount pending, the exact rewards owed) are estimated at the
// validator-set size, the worst case for any per-slot phase.
func TxCount(phase Phase, state State, validatorSetSize ValidatorSetSize) int {
	if state.IsFailed() {
		return 0
	}

	switch phase {
	case SetupRewardsAddress, SetupAuthz:
		return 1
	case StartReconcile:
		return 0
	case Redelegate:
		return 1
	case Undelegate, Delegate:
		return int(validatorSetSize)
	case TransferUndelegated, TransferPendingDeposits:
		return 1
	default:
		return 0
	}
}

// SequenceTxCount sums TxCount across every phase from the current one
// through to the end of the cycle (Delegate), the worst case for "how many
// messages could this Reconcile loop still emit across every intermediate
// Next transition before it has to block on a Tx". It does not wrap back
// around to StartReconcile, since a full second lap is a distinct
// reconciliation cycle the trigger layer prices separately.
func SequenceTxCount(phase Phase, state State, validatorSetSize ValidatorSetSize) int {
	total := TxCount(phase, state, validatorSetSize)
	for {
		next, more := phase.Next()
		if !more {
			return total
		}
		phase = next
		total += TxCount(phase, Idle, validatorSetSize)
	}
}
