package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/num"
)

func u128(v uint64) num.Uint128 { return num.NewUint128FromUint64(v) }

func weight(n, d uint64) Weight {
	w, ok := CheckedFromFraction(u128(n), u128(d))
	if !ok {
		panic("test: bad weight fraction")
	}
	return w
}

type fakeConfig struct {
	maxMsgCount       int
	validatorSetSize  ValidatorSetSize
	feePayoutCooldown uint64
	feeBpsIncrement   uint64
	maxFeeBps         uint64
	unbondingTimeSecs uint64
	startingWeights   Weights
}

func (c fakeConfig) UnbondingTimeSecs() uint64               { return c.unbondingTimeSecs }
func (c fakeConfig) MaxMsgCount() int                        { return c.maxMsgCount }
func (c fakeConfig) FeePayoutCooldownBlocks() uint64          { return c.feePayoutCooldown }
func (c fakeConfig) FeeBpsBlockIncrement() uint64             { return c.feeBpsIncrement }
func (c fakeConfig) MaxFeeBps() uint64                        { return c.maxFeeBps }
func (c fakeConfig) StartingWeights() Weights                 { return c.startingWeights }
func (c fakeConfig) ValidatorSetSize() ValidatorSetSize       { return c.validatorSetSize }

func defaultConfig() fakeConfig {
	return fakeConfig{
		maxMsgCount:      10,
		validatorSetSize: 2,
		maxFeeBps:        500,
	}
}

// fakeRepo is a plain in-memory Repository, mutated only via apply(cmds) —
// the same replay-the-Cmds pattern pkg/vault's tests use, so a
// test drives the FSM exactly the way a real host adapter would.
type fakeRepo struct {
	phase Phase
	state State

	delegated                 Delegated
	delegateStartSlot         DelegateStartSlot
	inflightDelegation        InflightDelegation
	inflightDeposit           InflightDeposit
	inflightFeePayable        InflightFeePayable
	inflightRewardsReceivable InflightRewardsReceivable
	inflightUnbond            InflightUnbond
	lastReconcileHeight       *LastReconcileHeight
	msgIssuedCount            MsgIssuedCount
	msgSuccessCount           MsgSuccessCount
	pendingDeposit            PendingDeposit
	pendingUnbond             PendingUnbond
	redelegationSlot          *RedelegationSlot
	undelegateStartSlot       UndelegateStartSlot
	weights                   Weights
}

func (r *fakeRepo) Delegated() Delegated                               { return r.delegated }
func (r *fakeRepo) DelegateStartSlot() DelegateStartSlot                { return r.delegateStartSlot }
func (r *fakeRepo) InflightDelegation() InflightDelegation              { return r.inflightDelegation }
func (r *fakeRepo) InflightDeposit() InflightDeposit                    { return r.inflightDeposit }
func (r *fakeRepo) InflightFeePayable() InflightFeePayable              { return r.inflightFeePayable }
func (r *fakeRepo) InflightRewardsReceivable() InflightRewardsReceivable {
	return r.inflightRewardsReceivable
}
func (r *fakeRepo) InflightUnbond() InflightUnbond { return r.inflightUnbond }
func (r *fakeRepo) LastReconcileHeight() (LastReconcileHeight, bool) {
	if r.lastReconcileHeight == nil {
		return LastReconcileHeight{}, false
	}
	return *r.lastReconcileHeight, true
}
func (r *fakeRepo) MsgIssuedCount() MsgIssuedCount   { return r.msgIssuedCount }
func (r *fakeRepo) MsgSuccessCount() MsgSuccessCount { return r.msgSuccessCount }
func (r *fakeRepo) PendingDeposit() PendingDeposit   { return r.pendingDeposit }
func (r *fakeRepo) PendingUnbond() PendingUnbond     { return r.pendingUnbond }
func (r *fakeRepo) Phase() Phase                     { return r.phase }
func (r *fakeRepo) State() State                     { return r.state }
func (r *fakeRepo) RedelegationSlot() (RedelegationSlot, bool) {
	if r.redelegationSlot == nil {
		return RedelegationSlot{}, false
	}
	return *r.redelegationSlot, true
}
func (r *fakeRepo) UndelegateStartSlot() UndelegateStartSlot { return r.undelegateStartSlot }
func (r *fakeRepo) Weights() Weights                         { return r.weights }

// apply commits a Response's Cmds to the fake repository, mirroring how a
// host adapter would persist a round's result in a single transaction.
func (r *fakeRepo) apply(cmds []Cmd) {
	for _, c := range cmds {
		switch c.Kind {
		case CmdClearRedelegationRequest:
			r.redelegationSlot = nil
		case CmdDelegated:
			r.delegated = c.Delegated
		case CmdDelegateStartSlot:
			r.delegateStartSlot = c.DelegateStartSlot
		case CmdInflightDelegation:
			r.inflightDelegation = c.InflightDelegation
		case CmdInflightDeposit:
			r.inflightDeposit = c.InflightDeposit
		case CmdInflightFeePayable:
			r.inflightFeePayable = c.InflightFeePayable
		case CmdInflightRewardsReceivable:
			r.inflightRewardsReceivable = c.InflightRewardsReceivable
		case CmdInflightUnbond:
			r.inflightUnbond = c.InflightUnbond
		case CmdLastReconcileHeight:
			v := c.LastReconcileHeight
			r.lastReconcileHeight = &v
		case CmdMsgIssuedCount:
			r.msgIssuedCount = c.MsgIssuedCount
		case CmdMsgSuccessCount:
			r.msgSuccessCount = c.MsgSuccessCount
		case CmdPendingDeposit:
			r.pendingDeposit = c.PendingDeposit
		case CmdPendingUnbond:
			r.pendingUnbond = c.PendingUnbond
		case CmdPhase:
			r.phase = c.Phase
		case CmdState:
			r.state = c.State
		case CmdUndelegateStartSlot:
			r.undelegateStartSlot = c.UndelegateStartSlot
		case CmdWeights:
			r.weights = c.Weights
		}
	}
}

type fakeEnv struct {
	currentHeight            CurrentHeight
	delegationAccount        *addr.Account
	rewardsAccount            *addr.Account
	feeRecipient              *addr.Recipient
	delegationsReport         *DelegationsReport
	rewardsBalanceReport      *RemoteBalanceReport
	undelegatedBalanceReport  *UndelegatedBalanceReport
}

func (e fakeEnv) CurrentHeight() CurrentHeight { return e.currentHeight }
func (e fakeEnv) Now() uint64                  { return e.currentHeight.Uint64() }
func (e fakeEnv) DelegationAccountAddress() (addr.Account, bool) {
	if e.delegationAccount == nil {
		return addr.Account{}, false
	}
	return *e.delegationAccount, true
}
func (e fakeEnv) RewardsAccountAddress() (addr.Account, bool) {
	if e.rewardsAccount == nil {
		return addr.Account{}, false
	}
	return *e.rewardsAccount, true
}
func (e fakeEnv) FeeRecipient() (addr.Recipient, bool) {
	if e.feeRecipient == nil {
		return addr.Recipient{}, false
	}
	return *e.feeRecipient, true
}
func (e fakeEnv) DelegationsReport() (DelegationsReport, bool) {
	if e.delegationsReport == nil {
		return DelegationsReport{}, false
	}
	return *e.delegationsReport, true
}
func (e fakeEnv) RewardsBalanceReport() (RemoteBalanceReport, bool) {
	if e.rewardsBalanceReport == nil {
		return RemoteBalanceReport{}, false
	}
	return *e.rewardsBalanceReport, true
}
func (e fakeEnv) UndelegatedBalanceReport() (UndelegatedBalanceReport, bool) {
	if e.undelegatedBalanceReport == nil {
		return UndelegatedBalanceReport{}, false
	}
	return *e.undelegatedBalanceReport, true
}

func TestSetupPhasesAbortWithoutIcaAddresses(t *testing.T) {
	repo := &fakeRepo{weights: NewUnchecked([]Weight{weight(1, 1)})}
	fsm := NewFsm(defaultConfig(), repo, fakeEnv{})

	resp := fsm.Reconcile()
	assert.Nil(t, resp.TxMsgs)
	repo.apply(resp.Cmds)
	assert.Equal(t, SetupRewardsAddress, repo.Phase())
	assert.Equal(t, Idle, repo.State())
}

func TestSetupPhasesAdvanceOnceIcasExist(t *testing.T) {
	delegator, err := addr.ParseAccount("f01")
	require.NoError(t, err)
	rewards, err := addr.ParseAccount("f02")
	require.NoError(t, err)

	repo := &fakeRepo{weights: NewUnchecked([]Weight{weight(1, 1)})}
	env := fakeEnv{delegationAccount: &delegator, rewardsAccount: &rewards}
	fsm := NewFsm(defaultConfig(), repo, env)

	resp := fsm.Reconcile()
	require.NotNil(t, resp.TxMsgs)
	require.Len(t, resp.TxMsgs.Msgs, 1)
	assert.Equal(t, TxSetRewardsWithdrawalAddress, resp.TxMsgs.Msgs[0].Kind)
	repo.apply(resp.Cmds)
	assert.Equal(t, SetupRewardsAddress, repo.Phase())
	assert.Equal(t, Pending, repo.State())

	resp = fsm.Reconcile()
	require.NotNil(t, resp.TxMsgs)
	assert.Equal(t, TxGrantAuthzSend, resp.TxMsgs.Msgs[0].Kind)
	repo.apply(resp.Cmds)
	assert.Equal(t, SetupAuthz, repo.Phase())
	assert.Equal(t, Pending, repo.State())

	// Past SetupAuthz every remaining phase has nothing to do (zero
	// balances, no reports), so the round runs the whole cycle in one call
	// and stops back at StartReconcile having sent no further tx.
	resp = fsm.Reconcile()
	require.Nil(t, resp.TxMsgs)
	repo.apply(resp.Cmds)
	assert.Equal(t, StartReconcile, repo.Phase())
	assert.Equal(t, Idle, repo.State())
	last, ok := repo.LastReconcileHeight()
	require.True(t, ok)
	assert.Equal(t, env.currentHeight.Uint64(), last.Uint64())
}

// TestStartReconcileDetectsSlashing exercises a 50% shortfall between the
// repository's own Delegated figure and a fresh DelegationsReport: both
// PendingUnbond and InflightUnbond should be floored by the same ratio, and
// per-slot weights rederived from the report.
func TestStartReconcileDetectsSlashing(t *testing.T) {
	last := NewLastReconcileHeight(10)
	repo := &fakeRepo{
		phase:               StartReconcile,
		state:               Idle,
		delegated:           NewDelegated(u128(1000)),
		pendingUnbond:       NewPendingUnbond(u128(100)),
		inflightUnbond:      NewInflightUnbond(u128(50)),
		lastReconcileHeight: &last,
		weights:             NewUnchecked([]Weight{weight(1, 2), weight(1, 2)}),
	}
	env := fakeEnv{
		currentHeight: NewCurrentHeight(11),
		delegationsReport: &DelegationsReport{
			Height:         11,
			TotalDelegated: u128(500),
			PerSlot:        []num.Uint128{u128(250), u128(250)},
		},
	}
	fsm := NewFsm(defaultConfig(), repo, env)

	resp := fsm.Reconcile()
	require.Len(t, resp.Events, 1)
	assert.Equal(t, EventSlashDetected, resp.Events[0].Kind)
	expectedRatio, _ := num.RateFromRatio(u128(500), u128(1000))
	assert.Equal(t, expectedRatio.Fixed().String(), resp.Events[0].SlashedRatio.String())

	// The same round keeps running past Redelegate (nothing pending there)
	// straight into Undelegate, which now has a real 50-unit PendingUnbond
	// to clear and stops there with a tx to dispatch.
	require.NotNil(t, resp.TxMsgs)
	require.Len(t, resp.TxMsgs.Msgs, 2)
	assert.Equal(t, TxUndelegate, resp.TxMsgs.Msgs[0].Kind)
	assert.Equal(t, "25", resp.TxMsgs.Msgs[0].SlotAmount.String())
	assert.Equal(t, "25", resp.TxMsgs.Msgs[1].SlotAmount.String())

	repo.apply(resp.Cmds)
	assert.Equal(t, "50", repo.PendingUnbond().Value().String())
	assert.Equal(t, "25", repo.InflightUnbond().Value().String())
	assert.Equal(t, weight(1, 2).Fixed().String(), repo.Weights().AsSlice()[0].Fixed().String())
	assert.Equal(t, Undelegate, repo.Phase())
	assert.Equal(t, Pending, repo.State())
}

func TestStartReconcileIgnoresStaleReport(t *testing.T) {
	last := NewLastReconcileHeight(10)
	repo := &fakeRepo{
		phase:               StartReconcile,
		delegated:           NewDelegated(u128(1000)),
		pendingUnbond:       NewPendingUnbond(u128(100)),
		lastReconcileHeight: &last,
		weights:             NewUnchecked([]Weight{weight(1, 1)}),
	}
	env := fakeEnv{
		currentHeight: NewCurrentHeight(11),
		delegationsReport: &DelegationsReport{
			Height:         10,
			TotalDelegated: u128(500),
			PerSlot:        []num.Uint128{u128(500)},
		},
	}
	fsm := NewFsm(defaultConfig(), repo, env)

	resp := fsm.Reconcile()
	assert.Empty(t, resp.Events)
	repo.apply(resp.Cmds)
	assert.Equal(t, "100", repo.PendingUnbond().Value().String())
}

// TestDelegatePartialFailureThenForceNext drives a two-slot delegation
// where only the first of two TxDelegate messages is ever confirmed; the
// operator then force-advances the phase rather than retrying forever, and
// only the confirmed half is credited.
func TestDelegatePartialFailureThenForceNext(t *testing.T) {
	repo := &fakeRepo{
		phase:           Delegate,
		state:           Idle,
		inflightDeposit: NewInflightDeposit(u128(1000)),
		weights:         NewUnchecked([]Weight{weight(1, 2), weight(1, 2)}),
	}
	env := fakeEnv{currentHeight: NewCurrentHeight(20)}
	fsm := NewFsm(defaultConfig(), repo, env)

	resp := fsm.Reconcile()
	require.NotNil(t, resp.TxMsgs)
	require.Len(t, resp.TxMsgs.Msgs, 2)
	assert.Equal(t, "500", resp.TxMsgs.Msgs[0].SlotAmount.String())
	assert.Equal(t, "500", resp.TxMsgs.Msgs[1].SlotAmount.String())
	repo.apply(resp.Cmds)
	require.Equal(t, Pending, repo.State())
	require.Equal(t, 2, repo.MsgIssuedCount().Int())

	// The host observed only the first message land before the batch as a
	// whole failed.
	repo.msgSuccessCount = NewMsgSuccessCount(1)
	repo.state = Failed

	forced, ok := fsm.ForceNext()
	require.True(t, ok)
	require.Len(t, forced.Events, 1)
	assert.Equal(t, EventDelegationsIncreased, forced.Events[0].Kind)
	assert.Equal(t, "500", forced.Events[0].Amount.String())

	repo.apply(forced.Cmds)
	assert.Equal(t, "500", repo.Delegated().Value().String())
	assert.Equal(t, "0", repo.InflightDeposit().Value().String())
	assert.Equal(t, "1.000000000000000000", repo.Weights().AsSlice()[0].Fixed().String())
	assert.Equal(t, "0.000000000000000000", repo.Weights().AsSlice()[1].Fixed().String())
	assert.Equal(t, StartReconcile, repo.Phase())
	assert.Equal(t, Idle, repo.State())
	last, ok := repo.LastReconcileHeight()
	require.True(t, ok)
	assert.Equal(t, uint64(20), last.Uint64())
}

// TestFailedOnlyRecordsFailureState exercises scenario 7's first step in
// isolation: failed() on a Pending phase must only flip State to Failed
// and zero MsgIssuedCount. It must not run any recovery handler itself —
// no phase advance, no retry tx, no resend — that's the next Reconcile
// call's job.
func TestFailedOnlyRecordsFailureState(t *testing.T) {
	repo := &fakeRepo{
		phase:           Delegate,
		state:           Idle,
		inflightDeposit: NewInflightDeposit(u128(1000)),
		weights:         NewUnchecked([]Weight{weight(1, 2), weight(1, 2)}),
	}
	env := fakeEnv{currentHeight: NewCurrentHeight(20)}
	fsm := NewFsm(defaultConfig(), repo, env)

	resp := fsm.Reconcile()
	require.NotNil(t, resp.TxMsgs)
	repo.apply(resp.Cmds)
	require.Equal(t, Pending, repo.State())

	failed := fsm.Failed()
	assert.Nil(t, failed.TxMsgs)
	assert.Empty(t, failed.Events)
	require.Equal(t, []Cmd{stateCmd(Failed), msgIssuedCountCmd(NewMsgIssuedCount(0))}, failed.Cmds)

	repo.apply(failed.Cmds)
	assert.Equal(t, Delegate, repo.Phase())
	assert.Equal(t, Failed, repo.State())
	assert.Equal(t, 0, repo.MsgIssuedCount().Int())
}

func TestForceNextFalseOutsideFailedState(t *testing.T) {
	repo := &fakeRepo{phase: Delegate, state: Idle, weights: NewUnchecked([]Weight{weight(1, 1)})}
	fsm := NewFsm(defaultConfig(), repo, fakeEnv{})

	_, ok := fsm.ForceNext()
	assert.False(t, ok)
}

func TestSequenceTxCountSumsRemainingPhases(t *testing.T) {
	assert.Equal(t, 0, TxCount(StartReconcile, Idle, 4))
	assert.Equal(t, 4, TxCount(Undelegate, Idle, 4))
	assert.Equal(t, 0, TxCount(Undelegate, Failed, 4))

	total := SequenceTxCount(Redelegate, Idle, 3)
	// Redelegate(1) + Undelegate(3) + TransferUndelegated(1) +
	// TransferPendingDeposits(1) + Delegate(3) = 9
	assert.Equal(t, 9, total)
}
