// Package memstore is a reference in-memory implementation of every
// capability interface pkg/vault, pkg/hub, and pkg/reconcile declare. It
// exists so the whole system — vault accounting, hub orchestration, and
// the reconciliation FSM — can be driven end to end in tests without a
// real strategy backend, chain, or ICA stack, the way an in-memory
// actor-state harness stands in for a VM in actor-model testing.
package memstore

import (
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/vault"
)

// VaultStore is a 1:1, instant-unbonding Strategy plus a map-backed
// SharesMint and UnbondingLog — everything pkg/vault.Vault needs from its
// host, all in one struct so a test can apply a Vault operation's Cmds in
// a single call.
type VaultStore struct {
	now             vault.Now
	depositAsset    common.Asset
	decimals        common.Decimals
	sharesAsset     common.Asset
	totalDeposits   vault.TotalDepositsValue
	totalShares     vault.TotalSharesIssued
	instantUnbond   bool

	lastCommitted   *vault.BatchId
	batchUnbond     map[vault.BatchId]vault.DepositValue
	batchClaimable  map[vault.BatchId]vault.ClaimAmount
	batchHint       map[vault.BatchId]vault.Hint
	batchEpoch      map[vault.BatchId]vault.UnbondEpoch
	firstEntered    map[string]vault.BatchId
	lastEntered     map[string]vault.BatchId
	nextEntered     map[string]map[vault.BatchId]vault.BatchId
	lastClaimed     map[string]vault.BatchId
	unbondedInBatch map[string]map[vault.BatchId]vault.DepositValue
}

// NewVaultStore builds a VaultStore for a 1:1 deposit/value strategy that
// reports every unbond as immediately ready — the simplest backend that
// still exercises the full Deposit/Redeem/StartUnbond/Claim cycle.
func NewVaultStore(depositAsset, sharesAsset common.Asset, decimals common.Decimals) *VaultStore {
	return &VaultStore{
		depositAsset:    depositAsset,
		sharesAsset:     sharesAsset,
		decimals:        decimals,
		instantUnbond:   true,
		batchUnbond:      map[vault.BatchId]vault.DepositValue{},
		batchClaimable:   map[vault.BatchId]vault.ClaimAmount{},
		batchHint:        map[vault.BatchId]vault.Hint{},
		batchEpoch:       map[vault.BatchId]vault.UnbondEpoch{},
		firstEntered:     map[string]vault.BatchId{},
		lastEntered:      map[string]vault.BatchId{},
		nextEntered:      map[string]map[vault.BatchId]vault.BatchId{},
		lastClaimed:      map[string]vault.BatchId{},
		unbondedInBatch:  map[string]map[vault.BatchId]vault.DepositValue{},
	}
}

func (s *VaultStore) SetNow(n vault.Now) { s.now = n }

// Strategy

func (s *VaultStore) Now() vault.Now                                { return s.now }
func (s *VaultStore) DepositAsset() common.Asset                    { return s.depositAsset }
func (s *VaultStore) UnderlyingAssetDecimals() common.Decimals      { return s.decimals }
func (s *VaultStore) TotalDepositsValue() vault.TotalDepositsValue  { return s.totalDeposits }
func (s *VaultStore) DepositValue(amount vault.DepositAmount) vault.DepositValue {
	return vault.NewDepositValue(amount.Value())
}
func (s *VaultStore) Unbond(value vault.DepositValue) vault.UnbondReadyStatus {
	if !s.instantUnbond {
		return vault.LaterUnbondStatus(vault.Hint{}, false)
	}
	return vault.ReadyUnbondStatus(vault.NewClaimAmount(value.Value()), vault.UnbondEpoch{Start: s.now, End: s.now})
}

// SharesMint

func (s *VaultStore) TotalSharesIssued() vault.TotalSharesIssued { return s.totalShares }
func (s *VaultStore) SharesAsset() common.Asset                  { return s.sharesAsset }

// UnbondingLog

func (s *VaultStore) LastCommittedBatchId() (vault.BatchId, bool) {
	if s.lastCommitted == nil {
		return 0, false
	}
	return *s.lastCommitted, true
}
func (s *VaultStore) BatchUnbondValue(b vault.BatchId) (vault.DepositValue, bool) {
	v, ok := s.batchUnbond[b]
	return v, ok
}
func (s *VaultStore) BatchClaimableAmount(b vault.BatchId) (vault.ClaimAmount, bool) {
	v, ok := s.batchClaimable[b]
	return v, ok
}
func (s *VaultStore) PendingBatchHint(b vault.BatchId) (vault.Hint, bool) {
	v, ok := s.batchHint[b]
	return v, ok
}
func (s *VaultStore) CommittedBatchEpoch(b vault.BatchId) (vault.UnbondEpoch, bool) {
	v, ok := s.batchEpoch[b]
	return v, ok
}
func (s *VaultStore) FirstEnteredBatch(r string) (vault.BatchId, bool) {
	v, ok := s.firstEntered[r]
	return v, ok
}
func (s *VaultStore) LastEnteredBatch(r string) (vault.BatchId, bool) {
	v, ok := s.lastEntered[r]
	return v, ok
}
func (s *VaultStore) NextEnteredBatch(r string, b vault.BatchId) (vault.BatchId, bool) {
	m, ok := s.nextEntered[r]
	if !ok {
		return 0, false
	}
	v, ok := m[b]
	return v, ok
}
func (s *VaultStore) LastClaimedBatch(r string) (vault.BatchId, bool) {
	v, ok := s.lastClaimed[r]
	return v, ok
}
func (s *VaultStore) UnbondedValueInBatch(r string, b vault.BatchId) (vault.DepositValue, bool) {
	m, ok := s.unbondedInBatch[r]
	if !ok {
		return vault.DepositValue{}, false
	}
	v, ok := m[b]
	return v, ok
}

// Apply commits a Vault operation's Cmds: mint/burn totals, strategy
// totals, and every unbonding-log write, exactly as a host adapter would
// persist them in one transaction.
func (s *VaultStore) Apply(cmds []vault.Cmd) {
	for _, c := range cmds {
		switch c.Kind {
		case vault.CmdMint:
			switch c.Mint.Kind {
			case vault.MintIssue:
				s.totalShares = vault.NewTotalSharesIssued(s.totalShares.Value().Add(c.Mint.Amount.Value()))
			case vault.MintBurn:
				s.totalShares = vault.NewTotalSharesIssued(s.totalShares.Value().Sub(c.Mint.Amount.Value()))
			}
		case vault.CmdStrategy:
			switch c.Strategy.Kind {
			case vault.StrategyDeposit:
				s.totalDeposits = vault.NewTotalDepositsValue(s.totalDeposits.Value().Add(c.Strategy.Amount.Value()))
			case vault.StrategyUnbond:
				s.totalDeposits = vault.NewTotalDepositsValue(s.totalDeposits.Value().Sub(c.Strategy.Value.Value()))
			}
		case vault.CmdUnbondingLog:
			s.applyUnbondingLog(c.UnbondingLog)
		}
	}
}

func (s *VaultStore) applyUnbondingLog(set vault.UnbondingLogSet) {
	switch set.Kind {
	case vault.SetLastCommittedBatchId:
		b := set.Batch
		s.lastCommitted = &b
	case vault.SetBatchTotalUnbondValue:
		s.batchUnbond[set.Batch] = set.Value
	case vault.SetBatchClaimableAmount:
		s.batchClaimable[set.Batch] = set.Amount
	case vault.SetBatchHint:
		s.batchHint[set.Batch] = set.Hint
	case vault.SetBatchEpoch:
		s.batchEpoch[set.Batch] = set.Epoch
	case vault.SetFirstEnteredBatch:
		s.firstEntered[set.Recipient.String()] = set.Batch
	case vault.SetLastEnteredBatch:
		s.lastEntered[set.Recipient.String()] = set.Batch
	case vault.SetNextEnteredBatch:
		m, ok := s.nextEntered[set.Recipient.String()]
		if !ok {
			m = map[vault.BatchId]vault.BatchId{}
			s.nextEntered[set.Recipient.String()] = m
		}
		m[set.Previous] = set.Next
	case vault.SetLastClaimedBatch:
		s.lastClaimed[set.Recipient.String()] = set.Batch
	case vault.SetUnbondedValueInBatch:
		m, ok := s.unbondedInBatch[set.Recipient.String()]
		if !ok {
			m = map[vault.BatchId]vault.DepositValue{}
			s.unbondedInBatch[set.Recipient.String()] = m
		}
		m[set.Batch] = set.Value
	}
}
