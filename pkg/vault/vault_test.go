package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/num"
)

const testAsset common.Asset = "uunderlying"

// fakeStrategy is a 1:1 strategy (deposit amount == deposit value) with a
// fixed clock, used to exercise Vault without a real staking backend.
type fakeStrategy struct {
	now      Now
	decimals common.Decimals
	total    TotalDepositsValue
	unbond   func(DepositValue) UnbondReadyStatus
}

func (f *fakeStrategy) Now() Now                          { return f.now }
func (f *fakeStrategy) DepositAsset() common.Asset         { return testAsset }
func (f *fakeStrategy) UnderlyingAssetDecimals() common.Decimals { return f.decimals }
func (f *fakeStrategy) TotalDepositsValue() TotalDepositsValue   { return f.total }
func (f *fakeStrategy) DepositValue(amount DepositAmount) DepositValue {
	return DepositValue{v: amount.v}
}
func (f *fakeStrategy) Unbond(value DepositValue) UnbondReadyStatus {
	if f.unbond != nil {
		return f.unbond(value)
	}
	return LaterUnbondStatus(Hint{}, false)
}

type fakeMint struct {
	total TotalSharesIssued
}

func (m *fakeMint) TotalSharesIssued() TotalSharesIssued { return m.total }
func (m *fakeMint) SharesAsset() common.Asset            { return "ushares" }

// fakeUnbondingLog is an in-memory implementation good enough to drive the
// claimable-batch iterator and redeem/claim flows end to end.
type fakeUnbondingLog struct {
	lastCommitted    *BatchId
	batchUnbond      map[BatchId]DepositValue
	batchClaimable   map[BatchId]ClaimAmount
	batchHint        map[BatchId]Hint
	batchEpoch       map[BatchId]UnbondEpoch
	firstEntered     map[string]BatchId
	lastEntered      map[string]BatchId
	nextEntered      map[string]map[BatchId]BatchId
	lastClaimed      map[string]BatchId
	unbondedInBatch  map[string]map[BatchId]DepositValue
}

func newFakeUnbondingLog() *fakeUnbondingLog {
	return &fakeUnbondingLog{
		batchUnbond:     map[BatchId]DepositValue{},
		batchClaimable:  map[BatchId]ClaimAmount{},
		batchHint:       map[BatchId]Hint{},
		batchEpoch:      map[BatchId]UnbondEpoch{},
		firstEntered:    map[string]BatchId{},
		lastEntered:     map[string]BatchId{},
		nextEntered:     map[string]map[BatchId]BatchId{},
		lastClaimed:     map[string]BatchId{},
		unbondedInBatch: map[string]map[BatchId]DepositValue{},
	}
}

func (l *fakeUnbondingLog) LastCommittedBatchId() (BatchId, bool) {
	if l.lastCommitted == nil {
		return 0, false
	}
	return *l.lastCommitted, true
}
func (l *fakeUnbondingLog) BatchUnbondValue(b BatchId) (DepositValue, bool) {
	v, ok := l.batchUnbond[b]
	return v, ok
}
func (l *fakeUnbondingLog) BatchClaimableAmount(b BatchId) (ClaimAmount, bool) {
	v, ok := l.batchClaimable[b]
	return v, ok
}
func (l *fakeUnbondingLog) PendingBatchHint(b BatchId) (Hint, bool) {
	v, ok := l.batchHint[b]
	return v, ok
}
func (l *fakeUnbondingLog) CommittedBatchEpoch(b BatchId) (UnbondEpoch, bool) {
	v, ok := l.batchEpoch[b]
	return v, ok
}
func (l *fakeUnbondingLog) FirstEnteredBatch(r string) (BatchId, bool) {
	v, ok := l.firstEntered[r]
	return v, ok
}
func (l *fakeUnbondingLog) LastEnteredBatch(r string) (BatchId, bool) {
	v, ok := l.lastEntered[r]
	return v, ok
}
func (l *fakeUnbondingLog) NextEnteredBatch(r string, b BatchId) (BatchId, bool) {
	m, ok := l.nextEntered[r]
	if !ok {
		return 0, false
	}
	v, ok := m[b]
	return v, ok
}
func (l *fakeUnbondingLog) LastClaimedBatch(r string) (BatchId, bool) {
	v, ok := l.lastClaimed[r]
	return v, ok
}
func (l *fakeUnbondingLog) UnbondedValueInBatch(r string, b BatchId) (DepositValue, bool) {
	m, ok := l.unbondedInBatch[r]
	if !ok {
		return DepositValue{}, false
	}
	v, ok := m[b]
	return v, ok
}

// apply replays the Cmds a Vault operation returned against this fake, the
// way a real host adapter would commit them to storage.
func (l *fakeUnbondingLog) apply(mint *fakeMint, cmds []Cmd) {
	for _, c := range cmds {
		switch c.Kind {
		case CmdMint:
			switch c.Mint.Kind {
			case MintIssue:
				mint.total.v = mint.total.v.Add(c.Mint.Amount.v)
			case MintBurn:
				mint.total.v = mint.total.v.Sub(c.Mint.Amount.v)
			}
		case CmdUnbondingLog:
			s := c.UnbondingLog
			switch s.Kind {
			case SetLastCommittedBatchId:
				b := s.Batch
				l.lastCommitted = &b
			case SetBatchTotalUnbondValue:
				l.batchUnbond[s.Batch] = s.Value
			case SetBatchClaimableAmount:
				l.batchClaimable[s.Batch] = s.Amount
			case SetBatchHint:
				l.batchHint[s.Batch] = s.Hint
			case SetBatchEpoch:
				l.batchEpoch[s.Batch] = s.Epoch
			case SetFirstEnteredBatch:
				l.firstEntered[s.Recipient.String()] = s.Batch
			case SetLastEnteredBatch:
				l.lastEntered[s.Recipient.String()] = s.Batch
			case SetNextEnteredBatch:
				m, ok := l.nextEntered[s.Recipient.String()]
				if !ok {
					m = map[BatchId]BatchId{}
					l.nextEntered[s.Recipient.String()] = m
				}
				m[s.Previous] = s.Next
			case SetLastClaimedBatch:
				l.lastClaimed[s.Recipient.String()] = s.Batch
			case SetUnbondedValueInBatch:
				m, ok := l.unbondedInBatch[s.Recipient.String()]
				if !ok {
					m = map[BatchId]DepositValue{}
					l.unbondedInBatch[s.Recipient.String()] = m
				}
				m[s.Batch] = s.Value
			}
		}
	}
}

func u128(v uint64) num.Uint128 { return num.NewUint128FromUint64(v) }

func TestVaultColdDeposit(t *testing.T) {
	strategy := &fakeStrategy{decimals: 6}
	mint := &fakeMint{}
	log := newFakeUnbondingLog()
	v := New(strategy, log, mint)

	recipient, err := addr.ParseRecipient("f01")
	require.NoError(t, err)

	resp, err := v.Deposit(testAsset, NewDepositAmount(u128(1000)), recipient)
	require.NoError(t, err)

	assert.Equal(t, "1000", resp.DepositValue.v.String())
	assert.Equal(t, "1000000000000000", resp.IssuedShares.v.String())
	assert.Equal(t, "1000000000000000", resp.TotalSharesIssued.v.String())
	assert.Equal(t, "1000", resp.TotalDepositsValue.v.String())
	require.Len(t, resp.Cmds, 2)
	assert.Equal(t, StrategyDeposit, resp.Cmds[0].Strategy.Kind)
	assert.Equal(t, MintIssue, resp.Cmds[1].Mint.Kind)
}

func TestVaultDepositZeroRejected(t *testing.T) {
	strategy := &fakeStrategy{decimals: 6}
	mint := &fakeMint{}
	log := newFakeUnbondingLog()
	v := New(strategy, log, mint)
	recipient, _ := addr.ParseRecipient("f01")

	_, err := v.Deposit(testAsset, NewDepositAmount(num.ZeroUint128()), recipient)
	assert.ErrorIs(t, err, ErrCannotDepositZero)
}

func TestVaultDepositWrongAssetRejected(t *testing.T) {
	strategy := &fakeStrategy{decimals: 6}
	mint := &fakeMint{}
	log := newFakeUnbondingLog()
	v := New(strategy, log, mint)
	recipient, _ := addr.ParseRecipient("f01")

	_, err := v.Deposit("not-the-asset", NewDepositAmount(u128(10)), recipient)
	assert.ErrorIs(t, err, ErrInvalidDepositAsset)
}

func TestVaultRedeemAndClaimRoundTrip(t *testing.T) {
	recipient, err := addr.ParseRecipient("f01")
	require.NoError(t, err)

	ready := false
	strategy := &fakeStrategy{
		decimals: 6,
		unbond: func(v DepositValue) UnbondReadyStatus {
			if !ready {
				return LaterUnbondStatus(Hint{}, false)
			}
			return ReadyUnbondStatus(ClaimAmount{v: v.v}, UnbondEpoch{Start: 0, End: 10})
		},
	}
	mint := &fakeMint{}
	log := newFakeUnbondingLog()
	v := New(strategy, log, mint)

	resp, err := v.Deposit(testAsset, NewDepositAmount(u128(1000)), recipient)
	require.NoError(t, err)
	log.apply(mint, resp.Cmds)
	strategy.total = TotalDepositsValue{v: u128(1000)}

	cmds, err := v.Redeem(mint.SharesAsset(), resp.IssuedShares, recipient)
	require.NoError(t, err)
	log.apply(mint, cmds)

	t.Run("claim blocked before strategy reports ready", func(t *testing.T) {
		_, err := v.Claim(recipient)
		assert.ErrorIs(t, err, ErrNothingToClaim)
	})

	ready = true
	strategy.now = 11
	claimCmds, err := v.StartUnbond()
	require.NoError(t, err)
	log.apply(mint, claimCmds)

	cmds, err = v.Claim(recipient)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, StrategySendClaimed, cmds[1].Strategy.Kind)
	assert.Equal(t, "1000", cmds[1].Strategy.Claim.v.String())
}

func TestVaultRedeemRejectsWrongAsset(t *testing.T) {
	strategy := &fakeStrategy{decimals: 6}
	mint := &fakeMint{total: TotalSharesIssued{v: u128(1)}}
	log := newFakeUnbondingLog()
	v := New(strategy, log, mint)
	recipient, _ := addr.ParseRecipient("f01")

	_, err := v.Redeem("not-shares", NewSharesAmount(u128(1)), recipient)
	assert.ErrorIs(t, err, ErrInvalidRedemptionAsset)
}
