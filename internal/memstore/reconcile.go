package memstore

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/reconcile"
)

// ReconcileConfig is a fixed, struct-literal Config — the reconciliation
// policy never changes mid-run, so there is nothing to mutate here.
type ReconcileConfig struct {
	UnbondingSecs     uint64
	MaxMsgs           int
	FeeCooldown       uint64
	FeeBpsIncrement   uint64
	MaxFee            uint64
	Starting          reconcile.Weights
	ValidatorSetCount reconcile.ValidatorSetSize
}

func (c ReconcileConfig) UnbondingTimeSecs() uint64                   { return c.UnbondingSecs }
func (c ReconcileConfig) MaxMsgCount() int                            { return c.MaxMsgs }
func (c ReconcileConfig) FeePayoutCooldownBlocks() uint64             { return c.FeeCooldown }
func (c ReconcileConfig) FeeBpsBlockIncrement() uint64                { return c.FeeBpsIncrement }
func (c ReconcileConfig) MaxFeeBps() uint64                           { return c.MaxFee }
func (c ReconcileConfig) StartingWeights() reconcile.Weights          { return c.Starting }
func (c ReconcileConfig) ValidatorSetSize() reconcile.ValidatorSetSize { return c.ValidatorSetCount }

// ReconcileStore is the FSM's progress Repository: every field the phase
// handlers read and write, held directly rather than behind getters, with
// Apply replaying a Response's Cmds the way a host adapter's single
// commit transaction would.
type ReconcileStore struct {
	delegated                 reconcile.Delegated
	delegateStartSlot         reconcile.DelegateStartSlot
	inflightDelegation        reconcile.InflightDelegation
	inflightDeposit           reconcile.InflightDeposit
	inflightFeePayable        reconcile.InflightFeePayable
	inflightRewardsReceivable reconcile.InflightRewardsReceivable
	inflightUnbond            reconcile.InflightUnbond
	lastReconcileHeight       reconcile.LastReconcileHeight
	haveLastReconcileHeight   bool
	msgIssuedCount            reconcile.MsgIssuedCount
	msgSuccessCount           reconcile.MsgSuccessCount
	pendingDeposit            reconcile.PendingDeposit
	pendingUnbond             reconcile.PendingUnbond
	phase                     reconcile.Phase
	state                     reconcile.State
	redelegationSlot          reconcile.RedelegationSlot
	haveRedelegationSlot      bool
	undelegateStartSlot       reconcile.UndelegateStartSlot
	weights                   reconcile.Weights
}

// NewReconcileStore seeds a fresh Repository at SetupRewardsAddress/Idle
// with the given starting weights, as a newly registered vault's
// reconciler would start its first cycle.
func NewReconcileStore(weights reconcile.Weights) *ReconcileStore {
	return &ReconcileStore{phase: reconcile.SetupRewardsAddress, state: reconcile.Idle, weights: weights}
}

// RequestRedelegation seeds a pending redelegation request, mirroring
// what an operator-triggered "move stake off this validator" call would
// write before the next Reconcile() picks it up.
func (s *ReconcileStore) RequestRedelegation(slot reconcile.ValidatorSetSlot) {
	s.redelegationSlot = reconcile.NewRedelegationSlot(slot)
	s.haveRedelegationSlot = true
}

func (s *ReconcileStore) Delegated() reconcile.Delegated                           { return s.delegated }
func (s *ReconcileStore) DelegateStartSlot() reconcile.DelegateStartSlot           { return s.delegateStartSlot }
func (s *ReconcileStore) InflightDelegation() reconcile.InflightDelegation         { return s.inflightDelegation }
func (s *ReconcileStore) InflightDeposit() reconcile.InflightDeposit               { return s.inflightDeposit }
func (s *ReconcileStore) InflightFeePayable() reconcile.InflightFeePayable         { return s.inflightFeePayable }
func (s *ReconcileStore) InflightRewardsReceivable() reconcile.InflightRewardsReceivable {
	return s.inflightRewardsReceivable
}
func (s *ReconcileStore) InflightUnbond() reconcile.InflightUnbond { return s.inflightUnbond }
func (s *ReconcileStore) LastReconcileHeight() (reconcile.LastReconcileHeight, bool) {
	return s.lastReconcileHeight, s.haveLastReconcileHeight
}
func (s *ReconcileStore) MsgIssuedCount() reconcile.MsgIssuedCount   { return s.msgIssuedCount }
func (s *ReconcileStore) MsgSuccessCount() reconcile.MsgSuccessCount { return s.msgSuccessCount }
func (s *ReconcileStore) PendingDeposit() reconcile.PendingDeposit   { return s.pendingDeposit }
func (s *ReconcileStore) PendingUnbond() reconcile.PendingUnbond     { return s.pendingUnbond }
func (s *ReconcileStore) Phase() reconcile.Phase                     { return s.phase }
func (s *ReconcileStore) State() reconcile.State                     { return s.state }
func (s *ReconcileStore) RedelegationSlot() (reconcile.RedelegationSlot, bool) {
	return s.redelegationSlot, s.haveRedelegationSlot
}
func (s *ReconcileStore) UndelegateStartSlot() reconcile.UndelegateStartSlot { return s.undelegateStartSlot }
func (s *ReconcileStore) Weights() reconcile.Weights                        { return s.weights }

// Apply commits every Cmd a Response carries, in order, exactly as a host
// adapter's single commit transaction would.
func (s *ReconcileStore) Apply(cmds []reconcile.Cmd) {
	for _, c := range cmds {
		switch c.Kind {
		case reconcile.CmdClearRedelegationRequest:
			s.haveRedelegationSlot = false
		case reconcile.CmdDelegated:
			s.delegated = c.Delegated
		case reconcile.CmdDelegateStartSlot:
			s.delegateStartSlot = c.DelegateStartSlot
		case reconcile.CmdInflightDelegation:
			s.inflightDelegation = c.InflightDelegation
		case reconcile.CmdInflightDeposit:
			s.inflightDeposit = c.InflightDeposit
		case reconcile.CmdInflightFeePayable:
			s.inflightFeePayable = c.InflightFeePayable
		case reconcile.CmdInflightRewardsReceivable:
			s.inflightRewardsReceivable = c.InflightRewardsReceivable
		case reconcile.CmdInflightUnbond:
			s.inflightUnbond = c.InflightUnbond
		case reconcile.CmdLastReconcileHeight:
			s.lastReconcileHeight = c.LastReconcileHeight
			s.haveLastReconcileHeight = true
		case reconcile.CmdMsgIssuedCount:
			s.msgIssuedCount = c.MsgIssuedCount
		case reconcile.CmdMsgSuccessCount:
			s.msgSuccessCount = c.MsgSuccessCount
		case reconcile.CmdPendingDeposit:
			s.pendingDeposit = c.PendingDeposit
		case reconcile.CmdPendingUnbond:
			s.pendingUnbond = c.PendingUnbond
		case reconcile.CmdPhase:
			s.phase = c.Phase
		case reconcile.CmdState:
			s.state = c.State
		case reconcile.CmdUndelegateStartSlot:
			s.undelegateStartSlot = c.UndelegateStartSlot
		case reconcile.CmdWeights:
			s.weights = c.Weights
		}
	}
}

// ReconcileEnv is the remote-chain read surface: ICA addresses and the
// latest reports, all optional-settable so a test can model "not
// provisioned yet" or "no report observed this round" precisely.
type ReconcileEnv struct {
	height uint64
	now    uint64

	delegationAccount    addr.Account
	haveDelegationAcct   bool
	rewardsAccount       addr.Account
	haveRewardsAcct      bool
	feeRecipient         addr.Recipient
	haveFeeRecipient     bool
	delegationsReport    reconcile.DelegationsReport
	haveDelegationsReport bool
	rewardsReport        reconcile.RemoteBalanceReport
	haveRewardsReport    bool
	undelegatedReport    reconcile.UndelegatedBalanceReport
	haveUndelegatedReport bool
}

func NewReconcileEnv(height uint64) *ReconcileEnv { return &ReconcileEnv{height: height} }

func (e *ReconcileEnv) SetHeight(h uint64) { e.height = h }
func (e *ReconcileEnv) SetNow(n uint64)    { e.now = n }

func (e *ReconcileEnv) SetDelegationAccount(a addr.Account) { e.delegationAccount, e.haveDelegationAcct = a, true }
func (e *ReconcileEnv) SetRewardsAccount(a addr.Account)    { e.rewardsAccount, e.haveRewardsAcct = a, true }
func (e *ReconcileEnv) SetFeeRecipient(r addr.Recipient)    { e.feeRecipient, e.haveFeeRecipient = r, true }
func (e *ReconcileEnv) SetDelegationsReport(r reconcile.DelegationsReport) {
	e.delegationsReport, e.haveDelegationsReport = r, true
}
func (e *ReconcileEnv) SetRewardsBalanceReport(r reconcile.RemoteBalanceReport) {
	e.rewardsReport, e.haveRewardsReport = r, true
}
func (e *ReconcileEnv) SetUndelegatedBalanceReport(r reconcile.UndelegatedBalanceReport) {
	e.undelegatedReport, e.haveUndelegatedReport = r, true
}

func (e *ReconcileEnv) CurrentHeight() reconcile.CurrentHeight { return reconcile.NewCurrentHeight(e.height) }
func (e *ReconcileEnv) Now() uint64                             { return e.now }
func (e *ReconcileEnv) DelegationAccountAddress() (addr.Account, bool) {
	return e.delegationAccount, e.haveDelegationAcct
}
func (e *ReconcileEnv) RewardsAccountAddress() (addr.Account, bool) {
	return e.rewardsAccount, e.haveRewardsAcct
}
func (e *ReconcileEnv) FeeRecipient() (addr.Recipient, bool) { return e.feeRecipient, e.haveFeeRecipient }
func (e *ReconcileEnv) DelegationsReport() (reconcile.DelegationsReport, bool) {
	return e.delegationsReport, e.haveDelegationsReport
}
func (e *ReconcileEnv) RewardsBalanceReport() (reconcile.RemoteBalanceReport, bool) {
	return e.rewardsReport, e.haveRewardsReport
}
func (e *ReconcileEnv) UndelegatedBalanceReport() (reconcile.UndelegatedBalanceReport, bool) {
	return e.undelegatedReport, e.haveUndelegatedReport
}
