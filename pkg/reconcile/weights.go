package reconcile

import (
	"github.com/filecoin-project/go-bitfield"

	"github.com/vaulthub/core/pkg/num"
)

// activeSlots returns the bitset of slot indices carrying a non-zero
// weight. normalizeWeights uses it to test "all slots zero" in one pass
// instead of scanning the slice twice.
func activeSlots(weights []Weight) bitfield.BitField {
	set := make([]uint64, 0, len(weights))
	for i, w := range weights {
		if !w.IsZero() {
			set = append(set, uint64(i))
		}
	}
	return bitfield.NewFromSet(set)
}

// normalizeWeights renormalizes weights to sum to 1.0. An all-zero input
// produces a uniform 1/n distribution rather than failing, since "nothing
// has been weighted yet" is a legitimate starting condition. Panics if the
// input already sums past 1.0 — that is an invariant violation upstream,
// never a reachable runtime condition.
func normalizeWeights(weights []Weight) (Weights, bool) {
	if len(weights) == 0 {
		return Weights{}, false
	}

	active := activeSlots(weights)
	if empty, _ := active.IsEmpty(); empty {
		uniform := make([]Weight, len(weights))
		share, _ := CheckedFromFraction(num.NewUint128FromUint64(1), num.NewUint128FromUint64(uint64(len(weights))))
		for i := range uniform {
			uniform[i] = share
		}
		return NewUnchecked(uniform), true
	}

	total := num.ZeroFixedU256()
	for _, w := range weights {
		var ok bool
		total, ok = total.CheckedAdd(w.v)
		if !ok {
			panic("reconcile: weights overflowed while summing")
		}
	}
	if total.Cmp(num.OneFixedU256()) > 0 {
		panic("reconcile: weights summed to more than 1.0")
	}

	scaled := make([]Weight, len(weights))
	for i, w := range weights {
		q, ok := w.v.CheckedDiv(total)
		if !ok {
			panic("reconcile: weight renormalization overflowed")
		}
		scaled[i] = WeightFromFixed(q)
	}
	return NewUnchecked(scaled), true
}

// rebalanceWeights inverts weights and renormalizes, so that lower-weighted
// slots receive a larger share of new delegation: [0.4 0.4 0.1 0.1] becomes
// [0.1 0.1 0.4 0.4] in relative terms once inverted and rescaled.
func rebalanceWeights(weights Weights) Weights {
	one := num.OneFixedU256()
	inverted := make([]num.FixedU256, weights.Len())
	total := num.ZeroFixedU256()

	for i, w := range weights.AsSlice() {
		if w.IsZero() {
			inverted[i] = num.ZeroFixedU256()
			continue
		}
		iw := one.Div(w.Fixed())
		total = total.Add(iw)
		inverted[i] = iw
	}

	out := make([]Weight, len(inverted))
	for i, iw := range inverted {
		out[i] = WeightFromFixed(iw.Div(total))
	}
	return NewUnchecked(out)
}

// delegation pairs a validator-set slot with the non-zero amount allocated
// to it.
type delegation struct {
	slot   ValidatorSetSlot
	amount num.Uint128
}

// distributeDelegations spreads totalDelegation across weights so that the
// result trends toward equalisation (lower-weighted slots receive more),
// skipping any slot whose split rounds to zero. slotOffset shifts the
// reported slot indices, used when weights is already a suffix of the full
// slot list (a resumed partial delegation).
func distributeDelegations(weights []Weight, totalDelegation num.Uint128, slotOffset int) []delegation {
	if len(weights) == 0 {
		panic("reconcile: cannot distribute delegations across 0 slots")
	}

	scaled, ok := normalizeWeights(weights)
	if !ok {
		panic("reconcile: checked non-empty weights failed to normalize")
	}
	rebalanced := rebalanceWeights(scaled)

	totalAllocated := num.ZeroUint128()
	amounts := make([]num.Uint128, len(weights))
	for i, w := range rebalanced.AsSlice() {
		amount := w.Apply(totalDelegation)
		totalAllocated = totalAllocated.Add(amount)
		amounts[i] = amount
	}

	unallocated := totalAllocated.AbsDiff(totalDelegation)
	lowestIdx := lowestWeightSlot(weights)
	amounts[lowestIdx] = amounts[lowestIdx].Add(unallocated)

	var out []delegation
	for i, amount := range amounts {
		if amount.IsZero() {
			continue
		}
		out = append(out, delegation{slot: ValidatorSetSlot(i + slotOffset), amount: amount})
	}
	return out
}

// distributeUndelegations spreads unbondAmount across weights, clamping
// each slot's split to what is actually delegated there
// (weight.Apply(delegated)) so a slot never undelegates more than it holds.
func distributeUndelegations(weights []Weight, delegated num.Uint128, unbondAmount num.Uint128, slotOffset int) []delegation {
	if len(weights) == 0 {
		panic("reconcile: cannot undelegate from 0 slots")
	}

	scaled, ok := normalizeWeights(weights)
	if !ok {
		panic("reconcile: checked non-empty weights failed to normalize")
	}

	var out []delegation
	for i, sw := range scaled.AsSlice() {
		originalAmount := weights[i].Apply(delegated)
		scaledAmount := sw.Apply(unbondAmount)
		amount := originalAmount.Min(scaledAmount)
		if amount.IsZero() {
			continue
		}
		out = append(out, delegation{slot: ValidatorSetSlot(i + slotOffset), amount: amount})
	}
	return out
}

func lowestWeightSlot(weights []Weight) int {
	lowest := 0
	for i, w := range weights {
		if w.Fixed().Cmp(weights[lowest].Fixed()) < 0 {
			lowest = i
		}
	}
	return lowest
}

// adjustWeightsAfterDelegation recomputes per-slot weights once
// currentDelegated tokens more are actually delegated, crediting each
// slot's share of delegations into its running total before re-deriving
// the fraction of currentDelegated it represents.
func adjustWeightsAfterDelegation(weights Weights, previousDelegated, currentDelegated num.Uint128, delegations []delegation) Weights {
	bySlot := map[int]num.Uint128{}
	for _, d := range delegations {
		bySlot[int(d.slot)] = d.amount
	}

	adjusted := make([]Weight, weights.Len())
	for slot, w := range weights.AsSlice() {
		slotDelegation := w.Apply(previousDelegated)
		if amount, ok := bySlot[slot]; ok {
			slotDelegation = slotDelegation.Add(amount)
		}
		aw, ok := CheckedFromFraction(slotDelegation, currentDelegated)
		if !ok {
			panic("reconcile: adjusted weight exceeded 1.0 after delegation")
		}
		adjusted[slot] = aw
	}

	out, ok := New(adjusted)
	if !ok {
		panic("reconcile: adjusted weights did not sum to 1.0 after delegation")
	}
	return out
}

// adjustWeightsAfterUndelegation is the undelegate-phase counterpart: it
// subtracts each slot's undelegated amount from its running total.
// Returns false when currentDelegated is zero (nothing remains to weight).
func adjustWeightsAfterUndelegation(weights Weights, previousDelegated, currentDelegated num.Uint128, undelegations []delegation) (Weights, bool) {
	if currentDelegated.IsZero() {
		return Weights{}, false
	}

	bySlot := map[int]num.Uint128{}
	for _, d := range undelegations {
		bySlot[int(d.slot)] = d.amount
	}

	adjusted := make([]Weight, weights.Len())
	for slot, w := range weights.AsSlice() {
		slotDelegation := w.Apply(previousDelegated)
		if amount, ok := bySlot[slot]; ok {
			slotDelegation = slotDelegation.Sub(amount)
		}
		aw, ok := CheckedFromFraction(slotDelegation, currentDelegated)
		if !ok {
			panic("reconcile: adjusted weight exceeded 1.0 after undelegation")
		}
		adjusted[slot] = aw
	}

	out, ok := New(adjusted)
	return out, ok
}
