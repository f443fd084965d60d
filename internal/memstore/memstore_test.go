package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/hub"
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/reconcile"
	"github.com/vaulthub/core/pkg/vault"
)

const (
	testDepositAsset common.Asset = "uunderlying"
	testSharesAsset  common.Asset = "ushares"
)

func TestVaultStoreDepositAndRedeemRoundTrip(t *testing.T) {
	store := NewVaultStore(testDepositAsset, testSharesAsset, vault.SharesDecimalPlaces)
	v := vault.New(store, store, store)
	recipient, err := addr.ParseRecipient("f01")
	require.NoError(t, err)

	resp, err := v.Deposit(testDepositAsset, vault.NewDepositAmount(num.NewUint128FromUint64(1_000)), recipient)
	require.NoError(t, err)
	store.Apply(resp.Cmds)

	assert.Equal(t, "1000", store.TotalSharesIssued().Value().String())
	assert.Equal(t, "1000", store.TotalDepositsValue().Value().String())

	cmds, err := v.Redeem(testSharesAsset, resp.IssuedShares, recipient)
	require.NoError(t, err)
	store.Apply(cmds)

	assert.True(t, store.TotalSharesIssued().Value().IsZero())
	batch, ok := store.LastCommittedBatchId()
	require.True(t, ok)
	claimable, ok := store.BatchClaimableAmount(batch)
	require.True(t, ok)
	assert.Equal(t, "1000", claimable.Value().String())

	claimCmds, err := v.Claim(recipient)
	require.NoError(t, err)
	store.Apply(claimCmds)

	lastClaimed, ok := store.LastClaimedBatch(recipient.String())
	require.True(t, ok)
	assert.Equal(t, batch, lastClaimed)
}

func TestHubStoreRegistrationAndMintLedger(t *testing.T) {
	store := NewHubStore()
	treasury, err := addr.ParseRecipient("f01")
	require.NoError(t, err)
	store.SetTreasury(treasury)

	cfg := hub.VaultConfig{
		DepositAsset:       testDepositAsset,
		SharesAsset:        testSharesAsset,
		SyntheticAsset:     "usynthetic",
		UnderlyingDecimals: 6,
		SyntheticDecimals:  6,
		DepositsEnabled:    true,
		AdvanceEnabled:     true,
	}
	store.RegisterVault("vault-1", cfg)

	got, ok := store.Config("vault-1")
	require.True(t, ok)
	assert.Equal(t, cfg, got)

	recipient, err := addr.ParseRecipient("f02")
	require.NoError(t, err)
	store.Apply([]hub.Cmd{
		{Kind: hub.CmdMint, Asset: "usynthetic", Amount: num.NewUint128FromUint64(500), To: recipient, HasTo: true},
	})
	assert.Equal(t, uint64(500), store.Balance("usynthetic", recipient.String()))

	got2, ok := store.Treasury()
	require.True(t, ok)
	assert.True(t, got2.Equals(treasury))
}

func weights(halves int) reconcile.Weights {
	half, ok := reconcile.CheckedFromFraction(num.NewUint128FromUint64(1), num.NewUint128FromUint64(uint64(halves)))
	if !ok {
		panic("bad test weight fraction")
	}
	slots := make([]reconcile.Weight, halves)
	for i := range slots {
		slots[i] = half
	}
	w, ok := reconcile.New(slots)
	if !ok {
		panic("test weights do not sum to one")
	}
	return w
}

// TestReconcileStoreDrivesSetupPhases exercises ReconcileStore/ReconcileEnv
// end to end through the FSM's two setup phases, the way a host adapter's
// commit loop would: apply each round's Cmds before calling Reconcile again.
func TestReconcileStoreDrivesSetupPhases(t *testing.T) {
	repo := NewReconcileStore(weights(2))
	env := NewReconcileEnv(100)
	config := ReconcileConfig{MaxMsgs: 10, ValidatorSetCount: 2}

	delegator, err := addr.ParseAccount("f01")
	require.NoError(t, err)
	rewards, err := addr.ParseAccount("f02")
	require.NoError(t, err)
	env.SetDelegationAccount(delegator)
	env.SetRewardsAccount(rewards)

	fsm := reconcile.NewFsm(config, repo, env)

	resp := fsm.Reconcile()
	require.NotNil(t, resp.TxMsgs)
	assert.Equal(t, reconcile.TxSetRewardsWithdrawalAddress, resp.TxMsgs.Msgs[0].Kind)
	repo.Apply(resp.Cmds)
	assert.Equal(t, reconcile.Pending, repo.State())

	resp = fsm.Reconcile()
	require.NotNil(t, resp.TxMsgs)
	assert.Equal(t, reconcile.TxGrantAuthzSend, resp.TxMsgs.Msgs[0].Kind)
	repo.Apply(resp.Cmds)
	assert.Equal(t, reconcile.SetupAuthz, repo.Phase())
	assert.Equal(t, reconcile.Pending, repo.State())

	// Nothing is delegated and no reports have landed, so the remaining
	// phases all fall through in the same round and it settles back at
	// StartReconcile having sent nothing further.
	resp = fsm.Reconcile()
	assert.Nil(t, resp.TxMsgs)
	repo.Apply(resp.Cmds)
	assert.Equal(t, reconcile.StartReconcile, repo.Phase())
	assert.Equal(t, reconcile.Idle, repo.State())
	last, ok := repo.LastReconcileHeight()
	require.True(t, ok)
	assert.Equal(t, uint64(100), last.Uint64())
}
