package reconcile

// reconcileContext bundles the three capability interfaces every phase
// handler needs. It is passed by value since all three fields are
// themselves interfaces (pointer-sized).
type reconcileContext struct {
	config Config
	repo   Repository
	env    Env
}

// handler looks up the pure function that runs for a given (phase, state)
// pair. Panics on a combination the phase machine should never reach —
// e.g. a Pending state for a phase that never issues a tx message — since
// that indicates corrupted repository state rather than a recoverable
// condition.
func handler(phase Phase, state State) func(reconcileContext) transition {
	switch phase {
	case SetupRewardsAddress:
		switch state {
		case Idle:
			return startSetupRewardsAddress
		case Pending:
			return onSetupRewardsAddressSuccess
		}
	case SetupAuthz:
		switch state {
		case Idle:
			return startSetupAuthz
		case Pending:
			return onSetupAuthzSuccess
		}
	case StartReconcile:
		if state == Idle {
			return startReconcile
		}
	case Redelegate:
		switch state {
		case Idle:
			return startRedelegate
		case Pending:
			return onRedelegateSuccess
		case Failed:
			return onRedelegateFailure
		}
	case Undelegate:
		switch state {
		case Idle:
			return startUndelegate
		case Pending:
			return onUndelegateSuccess
		case Failed:
			return retryUndelegate
		}
	case TransferUndelegated:
		switch state {
		case Idle:
			return startTransferUndelegated
		case Pending:
			return onTransferUndelegatedSuccess
		}
	case TransferPendingDeposits:
		switch state {
		case Idle:
			return startTransferPendingDeposits
		case Pending:
			return onTransferPendingDepositsSuccess
		}
	case Delegate:
		switch state {
		case Idle:
			return startDelegate
		case Pending:
			return onDelegateSuccess
		case Failed:
			return startDelegate
		}
	}
	panic("reconcile: no handler registered for this phase/state combination")
}

// reconcile runs the phase machine forward from (phase, state) until a
// handler either aborts, issues a tx and waits, or the cycle wraps back
// around to StartReconcile having never sent anything. Every Next
// transition advances in the same call — a round only ends user-visibly
// once there is a tx to dispatch or nothing further to do.
func reconcile(ctx reconcileContext, phase Phase, state State, ir *intermediateRepo, events []Event) Response {
	txSkipCount := 0
	// Phase and State are never routed through the cache (see
	// intermediateRepo.handleCmd) since they drive this loop's own control
	// flow; they are appended to the final Cmds list directly instead.
	var phaseState []Cmd

	for {
		t := handler(phase, state)(ctx)
		for _, c := range t.cmds {
			ir.handleCmd(c)
		}
		events = append(events, t.events...)

		switch t.kind {
		case transitionAbort:
			return Response{Cmds: append(ir.cache.intoCmds(), phaseState...), Events: events, TxSkipCount: txSkipCount}

		case transitionTx:
			phaseState = append(phaseState, stateCmd(Pending))
			ir.handleCmd(msgIssuedCountCmd(NewMsgIssuedCount(len(t.txMsgs.Msgs))))
			return Response{
				Cmds:        append(ir.cache.intoCmds(), phaseState...),
				Events:      events,
				TxMsgs:      &t.txMsgs,
				TxSkipCount: txSkipCount,
			}

		case transitionRetry:
			phaseState = append(phaseState, stateCmd(Idle))
			ir.handleCmd(msgIssuedCountCmd(NewMsgIssuedCount(0)))
			ir.handleCmd(msgSuccessCountCmd(NewMsgSuccessCount(0)))
			state = Idle

		case transitionNext:
			if t.txSkip {
				txSkipCount++
			}

			next, more := phase.Next()
			phaseState = append(phaseState, phaseCmd(next), stateCmd(Idle))
			ir.handleCmd(msgIssuedCountCmd(NewMsgIssuedCount(0)))
			ir.handleCmd(msgSuccessCountCmd(NewMsgSuccessCount(0)))

			if !more {
				// The cycle has wrapped back to StartReconcile having never
				// sent a tx this round: stamp the height and stop here rather
				// than immediately re-entering startReconcile, which would
				// spin forever whenever there is genuinely nothing to do (no
				// slashing, no balances, no reports).
				ir.handleCmd(lastReconcileHeightCmd(NewLastReconcileHeight(ctx.env.CurrentHeight().Uint64())))
				return Response{Cmds: append(ir.cache.intoCmds(), phaseState...), Events: events, TxSkipCount: txSkipCount}
			}

			phase, state = next, Idle
		}
	}
}

// Fsm is the reconciliation phase machine's public surface.
type Fsm interface {
	// Reconcile advances the phase machine from the repository's current
	// (phase, state), returning the Response the host applies atomically.
	Reconcile() Response

	// Failed reports that the tx dispatched on the last Pending round did
	// not land, moving the current phase into its Failed state so the next
	// Reconcile call routes through that phase's recovery handler instead
	// of re-issuing the same messages blind.
	Failed() Response

	// ForceNext is an operator escape hatch for a phase stuck in Failed
	// with no automatic recovery path (e.g. a validator permanently
	// jailed): it skips the phase's own retry logic and advances directly,
	// adjusting weights and balances for whatever partial work already
	// landed.
	ForceNext() (Response, bool)
}

// FsmImpl is the default Fsm implementation, closing over the three
// capability interfaces.
type FsmImpl struct {
	config Config
	repo   Repository
	env    Env
}

// NewFsm builds an FsmImpl from its three capabilities.
func NewFsm(config Config, repo Repository, env Env) FsmImpl {
	return FsmImpl{config: config, repo: repo, env: env}
}

func (f FsmImpl) context(repo Repository) reconcileContext {
	return reconcileContext{config: f.config, repo: repo, env: f.env}
}

func (f FsmImpl) Reconcile() Response {
	ir := newIntermediateRepo(f.repo)
	phase, state := f.repo.Phase(), f.repo.State()

	// A round that resumes a Pending phase credits every message the
	// batcher issued last round toward MsgSuccessCount before the
	// on-success handler runs, so a phase that never explicitly advances
	// MsgSuccessCount itself (most of them don't) still terminates once
	// every batch has round-tripped.
	if state.IsPending() {
		credited := NewMsgSuccessCount(f.repo.MsgSuccessCount().Int() + f.repo.MsgIssuedCount().Int())
		ir.handleCmd(msgSuccessCountCmd(credited))
	}

	return reconcile(f.context(ir), phase, state, ir, nil)
}

// Failed only records that the last dispatched tx did not land: it sets
// State = Failed and clears MsgIssuedCount, nothing else. It must not run
// any phase handler itself — recovery (retry, force-advance, whatever the
// phase's Failed-state handler does) happens on the next Reconcile call,
// which reads the State this just wrote and routes accordingly.
func (f FsmImpl) Failed() Response {
	if !f.repo.State().IsPending() {
		panic("reconcile: Failed called outside of a Pending phase")
	}

	return Response{Cmds: []Cmd{stateCmd(Failed), msgIssuedCountCmd(NewMsgIssuedCount(0))}}
}

func (f FsmImpl) ForceNext() (Response, bool) {
	if !f.repo.State().IsFailed() {
		return Response{}, false
	}

	ir := newIntermediateRepo(f.repo)
	ctx := f.context(ir)

	var t transition
	switch f.repo.Phase() {
	case Undelegate:
		t = undelegateForceNext(ctx)
	case Delegate:
		t = delegateForceNext(ctx)
	default:
		return Response{}, false
	}

	for _, c := range t.cmds {
		ir.handleCmd(c)
	}

	next, more := f.repo.Phase().Next()
	if !more {
		ir.handleCmd(lastReconcileHeightCmd(NewLastReconcileHeight(f.env.CurrentHeight().Uint64())))
	}
	ir.handleCmd(msgIssuedCountCmd(NewMsgIssuedCount(0)))
	ir.handleCmd(msgSuccessCountCmd(NewMsgSuccessCount(0)))

	cmds := append(ir.cache.intoCmds(), phaseCmd(next), stateCmd(Idle))
	return Response{Cmds: cmds, Events: t.events}, true
}
