package reconcile

import "github.com/vaulthub/core/pkg/num"

// slashing is the outcome of comparing a fresh DelegationsReport against the
// repository's own Delegated figure: a shortfall means the remote validator
// set was slashed since the last reconcile.
type slashing struct {
	ratio          num.FixedU256
	newWeights     Weights
	adjustedUnbond PendingUnbond
	adjustedInflight InflightUnbond
}

// checkForSlashing compares the latest DelegationsReport to the
// repository's bookkeeping and reports a shortfall, if any. Returns false
// when there is nothing delegated, the report is stale (not newer than the
// last reconcile height), or the report shows no loss.
func checkForSlashing(repo Repository, env Env) (slashing, bool) {
	delegated := repo.Delegated().Value()
	if delegated.IsZero() {
		return slashing{}, false
	}

	last, haveLast := repo.LastReconcileHeight()
	if !haveLast {
		return slashing{}, false
	}

	report, haveReport := env.DelegationsReport()
	if !haveReport || report.Height <= last.Uint64() {
		return slashing{}, false
	}

	if report.TotalDelegated.Cmp(delegated) >= 0 {
		return slashing{}, false
	}

	ratio, ok := num.RateFromRatio(report.TotalDelegated, delegated)
	if !ok {
		panic("reconcile: slashed ratio exceeded 1.0 despite checked shortfall")
	}

	newWeights := make([]Weight, len(report.PerSlot))
	for i, perSlot := range report.PerSlot {
		w, ok := CheckedFromFraction(perSlot, report.TotalDelegated)
		if !ok {
			panic("reconcile: per-slot delegation exceeded total delegated in report")
		}
		newWeights[i] = w
	}
	weights, ok := New(newWeights)
	if !ok {
		// Flooring across slots can leave the sum a hair under 1.0;
		// renormalize rather than reject a structurally sound report.
		weights, ok = normalizeWeights(newWeights)
		if !ok {
			panic("reconcile: slashing report produced unnormalizable weights")
		}
	}

	return slashing{
		ratio:            ratio.Fixed(),
		newWeights:       weights,
		adjustedUnbond:    NewPendingUnbond(ratio.ApplyU128(repo.PendingUnbond().Value())),
		adjustedInflight: NewInflightUnbond(ratio.ApplyU128(repo.InflightUnbond().Value())),
	}, true
}

// startReconcile is the StartReconcile phase handler: it runs slash
// detection unconditionally, folding any shortfall into the round's cmds
// and events, then always falls through to Next (this phase never issues
// a tx message).
func startReconcile(ctx reconcileContext) transition {
	slash, detected := checkForSlashing(ctx.repo, ctx.env)
	if !detected {
		return nextTransition(nil)
	}

	cmds := []Cmd{weightsCmd(slash.newWeights)}
	if !ctx.repo.PendingUnbond().Value().IsZero() {
		cmds = append(cmds, pendingUnbondCmd(slash.adjustedUnbond))
	}
	if !ctx.repo.InflightUnbond().Value().IsZero() {
		cmds = append(cmds, inflightUnbondCmd(slash.adjustedInflight))
	}

	return nextTransition(cmds).withEvent(slashDetectedEvent(slash.ratio))
}
