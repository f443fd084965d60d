package reconcile

// cache buffers every intended write a phase handler produces during a
// round, so later handlers in the same round see their own prior writes
// (via intermediateRepo below) without ever touching the real Repository.
type cache struct {
	clearRedelegation         bool
	delegated                 *Delegated
	delegateStartSlot         *DelegateStartSlot
	inflightDelegation        *InflightDelegation
	inflightDeposit           *InflightDeposit
	inflightFeePayable        *InflightFeePayable
	inflightRewardsReceivable *InflightRewardsReceivable
	inflightUnbond            *InflightUnbond
	lastReconcileHeight       *LastReconcileHeight
	msgIssuedCount            *MsgIssuedCount
	msgSuccessCount           *MsgSuccessCount
	pendingDeposit            *PendingDeposit
	pendingUnbond             *PendingUnbond
	undelegateStartSlot       *UndelegateStartSlot
	weights                   *Weights
}

// intoCmds flattens every buffered write into the Cmd list a Response
// carries back to the host, in a fixed, deterministic field order.
func (c *cache) intoCmds() []Cmd {
	var cmds []Cmd
	if c.clearRedelegation {
		cmds = append(cmds, cmdOf(CmdClearRedelegationRequest))
	}
	if c.delegated != nil {
		cmds = append(cmds, delegatedCmd(*c.delegated))
	}
	if c.delegateStartSlot != nil {
		cmds = append(cmds, delegateStartSlotCmd(*c.delegateStartSlot))
	}
	if c.inflightDelegation != nil {
		cmds = append(cmds, inflightDelegationCmd(*c.inflightDelegation))
	}
	if c.inflightDeposit != nil {
		cmds = append(cmds, inflightDepositCmd(*c.inflightDeposit))
	}
	if c.inflightFeePayable != nil {
		cmds = append(cmds, inflightFeePayableCmd(*c.inflightFeePayable))
	}
	if c.inflightRewardsReceivable != nil {
		cmds = append(cmds, inflightRewardsReceivableCmd(*c.inflightRewardsReceivable))
	}
	if c.inflightUnbond != nil {
		cmds = append(cmds, inflightUnbondCmd(*c.inflightUnbond))
	}
	if c.lastReconcileHeight != nil {
		cmds = append(cmds, lastReconcileHeightCmd(*c.lastReconcileHeight))
	}
	if c.msgIssuedCount != nil {
		cmds = append(cmds, msgIssuedCountCmd(*c.msgIssuedCount))
	}
	if c.msgSuccessCount != nil {
		cmds = append(cmds, msgSuccessCountCmd(*c.msgSuccessCount))
	}
	if c.pendingDeposit != nil {
		cmds = append(cmds, pendingDepositCmd(*c.pendingDeposit))
	}
	if c.pendingUnbond != nil {
		cmds = append(cmds, pendingUnbondCmd(*c.pendingUnbond))
	}
	if c.undelegateStartSlot != nil {
		cmds = append(cmds, undelegateStartSlotCmd(*c.undelegateStartSlot))
	}
	if c.weights != nil {
		cmds = append(cmds, weightsCmd(*c.weights))
	}
	return cmds
}

// intermediateRepo layers a cache in front of a real Repository: reads fall
// through to the cache first, then to the repository. This is what lets a
// round's handler chain observe the cumulative effect of every Cmd issued
// so far in the same round, while the real Repository stays untouched until
// the host applies the final Response.
type intermediateRepo struct {
	repo  Repository
	cache cache
}

func newIntermediateRepo(repo Repository) *intermediateRepo {
	return &intermediateRepo{repo: repo}
}

// handleCmd absorbs one Cmd into the cache. Phase/State are applied
// directly by the round loop rather than through here, since they drive the
// loop's own control flow instead of being deferred writes.
func (ir *intermediateRepo) handleCmd(cmd Cmd) {
	switch cmd.Kind {
	case CmdClearRedelegationRequest:
		ir.cache.clearRedelegation = true
	case CmdDelegated:
		v := cmd.Delegated
		ir.cache.delegated = &v
	case CmdDelegateStartSlot:
		v := cmd.DelegateStartSlot
		ir.cache.delegateStartSlot = &v
	case CmdInflightDelegation:
		v := cmd.InflightDelegation
		ir.cache.inflightDelegation = &v
	case CmdInflightDeposit:
		v := cmd.InflightDeposit
		ir.cache.inflightDeposit = &v
	case CmdInflightFeePayable:
		v := cmd.InflightFeePayable
		ir.cache.inflightFeePayable = &v
	case CmdInflightRewardsReceivable:
		v := cmd.InflightRewardsReceivable
		ir.cache.inflightRewardsReceivable = &v
	case CmdInflightUnbond:
		v := cmd.InflightUnbond
		ir.cache.inflightUnbond = &v
	case CmdLastReconcileHeight:
		v := cmd.LastReconcileHeight
		ir.cache.lastReconcileHeight = &v
	case CmdMsgIssuedCount:
		v := cmd.MsgIssuedCount
		ir.cache.msgIssuedCount = &v
	case CmdMsgSuccessCount:
		v := cmd.MsgSuccessCount
		ir.cache.msgSuccessCount = &v
	case CmdPendingDeposit:
		v := cmd.PendingDeposit
		ir.cache.pendingDeposit = &v
	case CmdPendingUnbond:
		v := cmd.PendingUnbond
		ir.cache.pendingUnbond = &v
	case CmdUndelegateStartSlot:
		v := cmd.UndelegateStartSlot
		ir.cache.undelegateStartSlot = &v
	case CmdWeights:
		v := cmd.Weights
		ir.cache.weights = &v
	default:
		panic("reconcile: unexpected cmd routed through intermediateRepo")
	}
}

func (ir *intermediateRepo) Delegated() Delegated {
	if ir.cache.delegated != nil {
		return *ir.cache.delegated
	}
	return ir.repo.Delegated()
}

func (ir *intermediateRepo) DelegateStartSlot() DelegateStartSlot {
	if ir.cache.delegateStartSlot != nil {
		return *ir.cache.delegateStartSlot
	}
	return ir.repo.DelegateStartSlot()
}

func (ir *intermediateRepo) InflightDelegation() InflightDelegation {
	if ir.cache.inflightDelegation != nil {
		return *ir.cache.inflightDelegation
	}
	return ir.repo.InflightDelegation()
}

func (ir *intermediateRepo) InflightDeposit() InflightDeposit {
	if ir.cache.inflightDeposit != nil {
		return *ir.cache.inflightDeposit
	}
	return ir.repo.InflightDeposit()
}

func (ir *intermediateRepo) InflightFeePayable() InflightFeePayable {
	if ir.cache.inflightFeePayable != nil {
		return *ir.cache.inflightFeePayable
	}
	return ir.repo.InflightFeePayable()
}

func (ir *intermediateRepo) InflightRewardsReceivable() InflightRewardsReceivable {
	if ir.cache.inflightRewardsReceivable != nil {
		return *ir.cache.inflightRewardsReceivable
	}
	return ir.repo.InflightRewardsReceivable()
}

func (ir *intermediateRepo) InflightUnbond() InflightUnbond {
	if ir.cache.inflightUnbond != nil {
		return *ir.cache.inflightUnbond
	}
	return ir.repo.InflightUnbond()
}

func (ir *intermediateRepo) LastReconcileHeight() (LastReconcileHeight, bool) {
	if ir.cache.lastReconcileHeight != nil {
		return *ir.cache.lastReconcileHeight, true
	}
	return ir.repo.LastReconcileHeight()
}

func (ir *intermediateRepo) MsgIssuedCount() MsgIssuedCount {
	if ir.cache.msgIssuedCount != nil {
		return *ir.cache.msgIssuedCount
	}
	return ir.repo.MsgIssuedCount()
}

func (ir *intermediateRepo) MsgSuccessCount() MsgSuccessCount {
	if ir.cache.msgSuccessCount != nil {
		return *ir.cache.msgSuccessCount
	}
	return ir.repo.MsgSuccessCount()
}

func (ir *intermediateRepo) PendingDeposit() PendingDeposit {
	if ir.cache.pendingDeposit != nil {
		return *ir.cache.pendingDeposit
	}
	return ir.repo.PendingDeposit()
}

func (ir *intermediateRepo) PendingUnbond() PendingUnbond {
	if ir.cache.pendingUnbond != nil {
		return *ir.cache.pendingUnbond
	}
	return ir.repo.PendingUnbond()
}

func (ir *intermediateRepo) Phase() Phase { return ir.repo.Phase() }

func (ir *intermediateRepo) State() State { return ir.repo.State() }

func (ir *intermediateRepo) RedelegationSlot() (RedelegationSlot, bool) {
	return ir.repo.RedelegationSlot()
}

func (ir *intermediateRepo) UndelegateStartSlot() UndelegateStartSlot {
	if ir.cache.undelegateStartSlot != nil {
		return *ir.cache.undelegateStartSlot
	}
	return ir.repo.UndelegateStartSlot()
}

func (ir *intermediateRepo) Weights() Weights {
	if ir.cache.weights != nil {
		return *ir.cache.weights
	}
	return ir.repo.Weights()
}
