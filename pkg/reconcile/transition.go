package reconcile

// transitionKind discriminates what a phase handler wants the round loop to
// do next.
type transitionKind int

const (
	transitionNext transitionKind = iota
	transitionTx
	transitionAbort
	transitionRetry
)

// transition is a phase handler's result: advance, send a tx and wait, or
// abort the round entirely (used when an external precondition, such as ICA
// creation, has not yet been met).
type transition struct {
	kind   transitionKind
	txMsgs TxMsgs
	cmds   []Cmd
	events []Event
	txSkip bool
}

func nextTransition(cmds []Cmd) transition {
	return transition{kind: transitionNext, cmds: cmds}
}

// skipTxTransition is like nextTransition but marks the phase as one that
// had no messages left to batch this round rather than one with nothing to
// send in the first place — the round loop tallies these into
// Response.TxSkipCount so a trigger layer can still size an IBC fee
// prepayment for a round that turned out to be a no-op.
func skipTxTransition(cmds []Cmd) transition {
	return transition{kind: transitionNext, cmds: cmds, txSkip: true}
}

func txTransition(msgs TxMsgs, cmds []Cmd) transition {
	return transition{kind: transitionTx, txMsgs: msgs, cmds: cmds}
}

func abortTransition() transition {
	return transition{kind: transitionAbort}
}

// retryTransition resets the current phase back to Idle without advancing
// to the next phase — used by a Failed-state handler that wants another
// attempt at the same phase (e.g. resuming undelegation from the slot
// where the last batch actually landed) rather than giving up on it.
func retryTransition(cmds []Cmd) transition {
	return transition{kind: transitionRetry, cmds: cmds}
}

func (t transition) withEvent(e Event) transition {
	t.events = append(t.events, e)
	return t
}

// txMsgBatcher skips messages the repository already knows were sent
// successfully this phase and takes at most the configured max from what
// remains — the single mechanism every message-emitting phase routes
// through to respect MaxMsgCount.
type txMsgBatcher struct {
	sentCount int
	maxCount  int
}

func newTxMsgBatcher(config Config, repo Repository) txMsgBatcher {
	return txMsgBatcher{
		sentCount: repo.MsgSuccessCount().Int(),
		maxCount:  config.MaxMsgCount(),
	}
}

// batch takes the next slice of msgs this round should send, or false if
// nothing remains (the phase is complete).
func (b txMsgBatcher) batch(msgs []TxMsg) (TxMsgs, bool) {
	if b.sentCount >= len(msgs) {
		return TxMsgs{}, false
	}
	end := b.sentCount + b.maxCount
	if end > len(msgs) {
		end = len(msgs)
	}
	return NewTxMsgs(msgs[b.sentCount:end])
}
