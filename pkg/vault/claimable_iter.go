package vault

import "github.com/vaulthub/core/pkg/num"

// claimableBatchIter walks a recipient's threaded batch-entry chain,
// emitting (claim_amount, batch_id) pairs for every committed batch that
// has finished unbonding, in entry order. It stops at the first
// not-yet-finished batch or when the chain runs past the highest
// claimable batch id — see §4.1.1.
type claimableBatchIter struct {
	recipient    string
	unbondingLog UnbondingLog
	now          Now

	started   bool
	highestId BatchId
	nextId    BatchId
	hasNext   bool
}

func newClaimableBatchIter(recipient string, log UnbondingLog, strategy Strategy) *claimableBatchIter {
	return &claimableBatchIter{
		recipient:    recipient,
		unbondingLog: log,
		now:          strategy.Now(),
	}
}

// next returns the next (claim amount, batch id) pair, or ok=false when
// the chain is exhausted or blocked on an unfinished epoch.
func (it *claimableBatchIter) next() (ClaimAmount, BatchId, bool) {
	if !it.started {
		it.started = true
		return it.tryStart()
	}
	if !it.hasNext {
		return ClaimAmount{}, 0, false
	}
	return it.tryBatch(it.highestId, it.nextId)
}

func (it *claimableBatchIter) tryStart() (ClaimAmount, BatchId, bool) {
	lastEntered, ok := it.unbondingLog.LastEnteredBatch(it.recipient)
	if !ok {
		return ClaimAmount{}, 0, false
	}
	lastCommitted, ok := it.unbondingLog.LastCommittedBatchId()
	if !ok {
		return ClaimAmount{}, 0, false
	}

	highestId := lastEntered
	if lastEntered > lastCommitted {
		highestId = lastCommitted
	}
	it.highestId = highestId

	var firstId BatchId
	if lastClaimed, ok := it.unbondingLog.LastClaimedBatch(it.recipient); ok {
		next, ok := it.unbondingLog.NextEnteredBatch(it.recipient, lastClaimed)
		if !ok {
			return ClaimAmount{}, 0, false
		}
		if next > highestId {
			return ClaimAmount{}, 0, false
		}
		firstId = next
	} else {
		first, ok := it.unbondingLog.FirstEnteredBatch(it.recipient)
		if !ok {
			panic("vault: first entered batch id present if last entered batch id present")
		}
		firstId = first
	}

	if firstId > highestId {
		return ClaimAmount{}, 0, false
	}

	return it.tryBatch(highestId, firstId)
}

func (it *claimableBatchIter) tryBatch(highestId, batchId BatchId) (ClaimAmount, BatchId, bool) {
	epoch, ok := it.unbondingLog.CommittedBatchEpoch(batchId)
	if !ok {
		panic("vault: batch id <= highest batch id < pending batch id")
	}
	if epoch.End > it.now {
		return ClaimAmount{}, 0, false
	}

	if next, ok := it.unbondingLog.NextEnteredBatch(it.recipient, batchId); ok && next <= highestId {
		it.nextId = next
		it.hasNext = true
	} else {
		it.hasNext = false
	}

	recipientUnbonded, ok := it.unbondingLog.UnbondedValueInBatch(it.recipient, batchId)
	if !ok {
		panic("vault: batch has been entered by recipient and committed")
	}
	totalUnbonded, ok := it.unbondingLog.BatchUnbondValue(batchId)
	if !ok {
		panic("vault: batch has been entered by recipient and committed")
	}
	totalClaimable, ok := it.unbondingLog.BatchClaimableAmount(batchId)
	if !ok {
		panic("vault: batch has been entered by recipient and committed")
	}

	rate, ok := num.RateFromRatio(recipientUnbonded.v, totalUnbonded.v)
	if !ok {
		panic("vault: unbonded non-zero amount")
	}
	claim := rate.ApplyU128(totalClaimable.v)

	return ClaimAmount{v: claim}, batchId, true
}
