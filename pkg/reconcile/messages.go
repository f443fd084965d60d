package reconcile

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/num"
)

// AuthzMsgKind discriminates the two things a single Authz exec message can
// carry.
type AuthzMsgKind int

const (
	AuthzSendRewardsReceivable AuthzMsgKind = iota
	AuthzSendFee
)

// AuthzMsg is one entry in a batched Authz exec message.
type AuthzMsg struct {
	Kind      AuthzMsgKind
	Amount    num.Uint128
	Recipient addr.Recipient // only set for AuthzSendFee
}

// TxMsgKind discriminates every interchain/host-chain message the FSM can
// issue.
type TxMsgKind int

const (
	TxSetRewardsWithdrawalAddress TxMsgKind = iota
	TxGrantAuthzSend
	TxTransferInUndelegated
	TxTransferOutPendingDeposit
	TxWithdrawRewards
	TxRedelegate
	TxUndelegate
	TxDelegate
	TxAuthz
)

// TxMsg is the sum type for everything dispatched as an interchain tx or
// local host-chain message.
type TxMsg struct {
	Kind TxMsgKind

	// TxSetRewardsWithdrawalAddress, TxGrantAuthzSend
	Delegator addr.Account
	Grantee   addr.Account

	// TxTransferInUndelegated, TxTransferOutPendingDeposit
	Amount num.Uint128

	// TxWithdrawRewards, TxRedelegate, TxUndelegate, TxDelegate
	Slot       ValidatorSetSlot
	SlotAmount num.Uint128

	// TxAuthz
	AuthzMsgs []AuthzMsg
}

// TxMsgs is guaranteed to hold at least one message.
type TxMsgs struct{ Msgs []TxMsg }

// NewTxMsgs builds a TxMsgs, returning false for an empty slice.
func NewTxMsgs(msgs []TxMsg) (TxMsgs, bool) {
	if len(msgs) == 0 {
		return TxMsgs{}, false
	}
	return TxMsgs{Msgs: msgs}, true
}

func SingleTxMsg(msg TxMsg) TxMsgs { return TxMsgs{Msgs: []TxMsg{msg}} }

// CmdKind discriminates every field the reconciliation repository can be
// told to write. The repository is never mutated directly by a phase
// handler — every handler returns Cmds, which a cache absorbs during a
// round and an intermediateRepo reads back before the repository itself
// is ever touched.
type CmdKind int

const (
	CmdClearRedelegationRequest CmdKind = iota
	CmdDelegated
	CmdDelegateStartSlot
	CmdInflightDelegation
	CmdInflightDeposit
	CmdInflightFeePayable
	CmdInflightRewardsReceivable
	CmdInflightUnbond
	CmdLastReconcileHeight
	CmdMsgIssuedCount
	CmdMsgSuccessCount
	CmdPendingDeposit
	CmdPendingUnbond
	CmdPhase
	CmdState
	CmdUndelegateStartSlot
	CmdWeights
)

// Cmd carries one state write; only the field matching Kind is populated.
type Cmd struct {
	Kind CmdKind

	Delegated                 Delegated
	DelegateStartSlot         DelegateStartSlot
	InflightDelegation        InflightDelegation
	InflightDeposit           InflightDeposit
	InflightFeePayable        InflightFeePayable
	InflightRewardsReceivable InflightRewardsReceivable
	InflightUnbond            InflightUnbond
	LastReconcileHeight       LastReconcileHeight
	MsgIssuedCount            MsgIssuedCount
	MsgSuccessCount           MsgSuccessCount
	PendingDeposit            PendingDeposit
	PendingUnbond             PendingUnbond
	Phase                     Phase
	State                     State
	UndelegateStartSlot       UndelegateStartSlot
	Weights                   Weights
}

func cmdOf(kind CmdKind) Cmd { return Cmd{Kind: kind} }

func delegatedCmd(v Delegated) Cmd { return Cmd{Kind: CmdDelegated, Delegated: v} }
func delegateStartSlotCmd(v DelegateStartSlot) Cmd {
	return Cmd{Kind: CmdDelegateStartSlot, DelegateStartSlot: v}
}
func inflightDelegationCmd(v InflightDelegation) Cmd {
	return Cmd{Kind: CmdInflightDelegation, InflightDelegation: v}
}
func inflightDepositCmd(v InflightDeposit) Cmd {
	return Cmd{Kind: CmdInflightDeposit, InflightDeposit: v}
}
func inflightFeePayableCmd(v InflightFeePayable) Cmd {
	return Cmd{Kind: CmdInflightFeePayable, InflightFeePayable: v}
}
func inflightRewardsReceivableCmd(v InflightRewardsReceivable) Cmd {
	return Cmd{Kind: CmdInflightRewardsReceivable, InflightRewardsReceivable: v}
}
func inflightUnbondCmd(v InflightUnbond) Cmd {
	return Cmd{Kind: CmdInflightUnbond, InflightUnbond: v}
}
func lastReconcileHeightCmd(v LastReconcileHeight) Cmd {
	return Cmd{Kind: CmdLastReconcileHeight, LastReconcileHeight: v}
}
func msgIssuedCountCmd(v MsgIssuedCount) Cmd { return Cmd{Kind: CmdMsgIssuedCount, MsgIssuedCount: v} }
func msgSuccessCountCmd(v MsgSuccessCount) Cmd {
	return Cmd{Kind: CmdMsgSuccessCount, MsgSuccessCount: v}
}
func pendingDepositCmd(v PendingDeposit) Cmd { return Cmd{Kind: CmdPendingDeposit, PendingDeposit: v} }
func pendingUnbondCmd(v PendingUnbond) Cmd   { return Cmd{Kind: CmdPendingUnbond, PendingUnbond: v} }
func phaseCmd(v Phase) Cmd                   { return Cmd{Kind: CmdPhase, Phase: v} }
func stateCmd(v State) Cmd                   { return Cmd{Kind: CmdState, State: v} }
func undelegateStartSlotCmd(v UndelegateStartSlot) Cmd {
	return Cmd{Kind: CmdUndelegateStartSlot, UndelegateStartSlot: v}
}
func weightsCmd(v Weights) Cmd { return Cmd{Kind: CmdWeights, Weights: v} }

// EventKind discriminates the FSM's observer-facing event stream.
type EventKind int

const (
	EventSlashDetected EventKind = iota
	EventUndelegatedAssetsTransferred
	EventDepositsTransferred
	EventUnbondStarted
	EventDelegationsIncreased
	EventRedelegationSuccessful
)

// Event is one entry in the FSM's observer-facing event stream.
type Event struct {
	Kind         EventKind
	SlashedRatio num.FixedU256
	Amount       num.Uint128
}

func slashDetectedEvent(ratio num.FixedU256) Event {
	return Event{Kind: EventSlashDetected, SlashedRatio: ratio}
}
func undelegatedAssetsTransferredEvent() Event { return Event{Kind: EventUndelegatedAssetsTransferred} }
func depositsTransferredEvent(amount num.Uint128) Event {
	return Event{Kind: EventDepositsTransferred, Amount: amount}
}
func unbondStartedEvent(amount num.Uint128) Event {
	return Event{Kind: EventUnbondStarted, Amount: amount}
}
func delegationsIncreasedEvent(amount num.Uint128) Event {
	return Event{Kind: EventDelegationsIncreased, Amount: amount}
}
func redelegationSuccessfulEvent() Event { return Event{Kind: EventRedelegationSuccessful} }

// Response is what a round of reconciliation produces: commands for the
// host to apply, events for observers, an optional batch of tx messages to
// dispatch, and a count of transactions that were skipped this round
// because their phase had nothing to send (used by the trigger layer to
// size an exact IBC-fee prepayment).
type Response struct {
	Cmds        []Cmd
	Events      []Event
	TxMsgs      *TxMsgs
	TxSkipCount int
}
