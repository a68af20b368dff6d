package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/pairswap/pairswap/simapp"
	keepertest "github.com/pairswap/pairswap/testutil/keeper"
	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

const bootstrapEnd = 10

// newBootstrap opens an (A, B) bootstrap with the given targets and no
// minimum, ending at bootstrapEnd.
func newBootstrap(t *testing.T, env *simapp.Env, targetA, targetB int64) {
	t.Helper()
	require.NoError(t, env.Keeper.CreateBootstrap(env.Ctx, env.Authority, assetA, assetB,
		math.NewInt(targetA), math.NewInt(targetB), math.ZeroInt(), math.ZeroInt(), bootstrapEnd))
}

func contribute(t *testing.T, env *simapp.Env, name string, amountA, amountB int64) sdk.AccAddress {
	t.Helper()
	who := keepertest.TestAddr(name)
	require.NoError(t, env.Fund(who, assetA, math.NewInt(amountA)))
	require.NoError(t, env.Fund(who, assetB, math.NewInt(amountB)))
	require.NoError(t, env.Keeper.BootstrapContribute(env.Ctx, who, assetA, assetB, math.NewInt(amountA), math.NewInt(amountB)))
	return who
}

func requireInvariants(t *testing.T, env *simapp.Env) {
	t.Helper()
	res, broken := keeper.AllInvariants(*env.Keeper)(env.Ctx)
	require.False(t, broken, res)
}

func TestBootstrap_FullLifecycle(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper
	pair := types.MustNewPair(assetA, assetB)

	newBootstrap(t, env, 500, 500)
	alice := contribute(t, env, "alice", 500, 0)
	bob := contribute(t, env, "bob", 0, 500)
	requireInvariants(t, env)

	reserve0, reserve1 := k.GetReserves(env.Ctx, pair)
	require.Equal(t, math.NewInt(500), reserve0)
	require.Equal(t, math.NewInt(500), reserve1)

	err := k.EndBootstrap(env.Ctx, assetA, assetB)
	require.ErrorIs(t, err, types.ErrUnqualifiedBootstrap)

	env.SetHeight(bootstrapEnd)
	require.NoError(t, k.EndBootstrap(env.Ctx, assetB, assetA))

	status, err := k.GetPairStatus(env.Ctx, pair)
	require.NoError(t, err)
	enabled, ok := status.(types.PairEnabled)
	require.True(t, ok, "got %T", status)
	require.Equal(t, math.NewInt(1000), enabled.Metadata.TotalSupply)

	rate, found, err := k.GetFrozenRate(env.Ctx, assetA, assetB)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, rate.Rate0.Equal(math.LegacyOneDec()))
	require.True(t, rate.Rate1.Equal(math.LegacyOneDec()))
	require.Equal(t, math.NewInt(1000), env.Ledger.BalanceOf(env.Ctx, pair.LiquidityAsset(), pair.Account()))
	requireInvariants(t, env)

	claimed, err := k.BootstrapClaim(env.Ctx, alice, assetA, assetB, alice)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500), claimed)

	carol := keepertest.TestAddr("carol")
	claimed, err = k.BootstrapClaim(env.Ctx, bob, assetB, assetA, carol)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500), claimed)
	require.Equal(t, math.NewInt(500), env.Ledger.BalanceOf(env.Ctx, pair.LiquidityAsset(), carol))
	require.True(t, env.Ledger.BalanceOf(env.Ctx, pair.LiquidityAsset(), pair.Account()).IsZero())

	_, err = k.BootstrapClaim(env.Ctx, alice, assetA, assetB, alice)
	require.ErrorIs(t, err, types.ErrZeroContribute)

	// the ended pair trades like any other
	trader := keepertest.TestAddr("trader")
	require.NoError(t, env.Fund(trader, assetA, math.NewInt(50)))
	_, err = k.SwapExactAssetsForAssets(env.Ctx, trader, math.NewInt(50), math.NewInt(1), []types.AssetId{assetA, assetB}, trader)
	require.NoError(t, err)
	requireInvariants(t, env)
}

func TestBootstrap_UnevenTargetsUseFrozenRate(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper

	newBootstrap(t, env, 1000, 500)
	alice := contribute(t, env, "alice", 600, 100)
	bob := contribute(t, env, "bob", 400, 400)

	estimate, err := k.EstimateLpForBootstrap(env.Ctx, assetA, assetB, math.NewInt(600), math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(800), estimate)

	env.SetHeight(bootstrapEnd + 5)
	require.NoError(t, k.EndBootstrap(env.Ctx, assetA, assetB))

	status, err := k.PairStatus(env.Ctx, assetA, assetB)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2000), status.(types.PairEnabled).Metadata.TotalSupply)

	claimed, err := k.BootstrapClaim(env.Ctx, alice, assetA, assetB, alice)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(800), claimed)
	claimed, err = k.BootstrapClaim(env.Ctx, bob, assetA, assetB, bob)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1200), claimed)
	requireInvariants(t, env)
}

func TestBootstrap_ThresholdGate(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper

	newBootstrap(t, env, 500, 500)
	contribute(t, env, "alice", 400, 500)

	env.SetHeight(bootstrapEnd + 100)
	err := k.EndBootstrap(env.Ctx, assetA, assetB)
	require.ErrorIs(t, err, types.ErrUnqualifiedBootstrap)

	status, err := k.PairStatus(env.Ctx, assetA, assetB)
	require.NoError(t, err)
	require.Equal(t, types.StatusBootstrap, status.Kind())

	// late contributions still count
	contribute(t, env, "bob", 100, 0)
	require.NoError(t, k.EndBootstrap(env.Ctx, assetA, assetB))

	err = k.EndBootstrap(env.Ctx, assetA, assetB)
	require.ErrorIs(t, err, types.ErrNotInBootstrap)
}

func TestBootstrap_ContributionRules(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper
	require.NoError(t, k.CreateBootstrap(env.Ctx, env.Authority, assetA, assetB,
		math.NewInt(1000), math.NewInt(1000), math.NewInt(100), math.NewInt(100), bootstrapEnd))

	who := keepertest.TestAddr("alice")
	require.NoError(t, env.Fund(who, assetA, math.NewInt(250)))
	require.NoError(t, env.Fund(who, assetB, math.NewInt(50)))

	err := k.BootstrapContribute(env.Ctx, who, assetA, assetB, math.ZeroInt(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidContributionAmount)

	err = k.BootstrapContribute(env.Ctx, who, assetA, assetB, math.NewInt(99), math.NewInt(50))
	require.ErrorIs(t, err, types.ErrInvalidContributionAmount)

	err = k.BootstrapContribute(env.Ctx, who, assetA, assetB, math.NewInt(300), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInsufficientAssetBalance)

	// one side clearing its minimum is enough
	require.NoError(t, k.BootstrapContribute(env.Ctx, who, assetA, assetB, math.NewInt(100), math.NewInt(50)))
	require.NoError(t, k.BootstrapContribute(env.Ctx, who, assetB, assetA, math.ZeroInt(), math.NewInt(100)))

	personal, found, err := k.GetPersonalSupply(env.Ctx, assetA, assetB, who)
	require.NoError(t, err)
	require.True(t, found)
	pair := types.MustNewPair(assetA, assetB)
	gotA, gotB := personal.Oriented(pair, assetA)
	require.Equal(t, math.NewInt(200), gotA)
	require.Equal(t, math.NewInt(50), gotB)
	requireInvariants(t, env)

	err = k.BootstrapContribute(env.Ctx, who, assetC, assetD, math.NewInt(100), math.NewInt(100))
	require.ErrorIs(t, err, types.ErrNotInBootstrap)
}

func TestBootstrap_Governance(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper
	mallory := keepertest.TestAddr("mallory").String()
	one, zero := math.OneInt(), math.ZeroInt()

	err := k.CreateBootstrap(env.Ctx, mallory, assetA, assetB, one, one, zero, zero, bootstrapEnd)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = k.CreateBootstrap(env.Ctx, env.Authority, assetA, assetB, zero, one, zero, zero, bootstrapEnd)
	require.ErrorIs(t, err, types.ErrInvalidBootstrapParameter)
	err = k.CreateBootstrap(env.Ctx, env.Authority, assetA, assetB, one, one, zero, zero, 0)
	require.ErrorIs(t, err, types.ErrInvalidBootstrapParameter)

	newBootstrap(t, env, 500, 500)
	err = k.CreateBootstrap(env.Ctx, env.Authority, assetB, assetA, one, one, zero, zero, bootstrapEnd)
	require.ErrorIs(t, err, types.ErrPairAlreadyExists)
	err = k.CreatePair(env.Ctx, env.Authority, assetA, assetB)
	require.ErrorIs(t, err, types.ErrPairAlreadyExists)

	contribute(t, env, "alice", 300, 300)

	err = k.UpdateBootstrap(env.Ctx, mallory, assetA, assetB, one, one, zero, zero, bootstrapEnd)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	err = k.CancelBootstrap(env.Ctx, mallory, assetA, assetB)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// lowering the targets keeps what was accumulated
	require.NoError(t, k.UpdateBootstrap(env.Ctx, env.Authority, assetA, assetB,
		math.NewInt(300), math.NewInt(300), zero, zero, 3))
	status, err := k.PairStatus(env.Ctx, assetA, assetB)
	require.NoError(t, err)
	param := status.(types.PairBootstrap).Parameter
	require.Equal(t, int64(3), param.EndBlockNumber)
	require.True(t, param.Qualified())

	env.SetHeight(3)
	require.NoError(t, k.EndBootstrap(env.Ctx, assetA, assetB))

	err = k.UpdateBootstrap(env.Ctx, env.Authority, assetA, assetB, one, one, zero, zero, bootstrapEnd)
	require.ErrorIs(t, err, types.ErrNotInBootstrap)
	err = k.CancelBootstrap(env.Ctx, env.Authority, assetA, assetB)
	require.ErrorIs(t, err, types.ErrNotInBootstrap)
}

func TestBootstrap_RefundAfterCancel(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper
	pair := types.MustNewPair(assetA, assetB)

	newBootstrap(t, env, 500, 500)
	alice := contribute(t, env, "alice", 300, 0)
	bob := contribute(t, env, "bob", 20, 200)

	err := k.BootstrapRefund(env.Ctx, alice, assetA, assetB)
	require.ErrorIs(t, err, types.ErrDenyRefund)

	require.NoError(t, k.CancelBootstrap(env.Ctx, env.Authority, assetA, assetB))
	status, err := k.GetPairStatus(env.Ctx, pair)
	require.NoError(t, err)
	require.Equal(t, types.StatusDisabled, status.Kind())
	_, found := k.GetPairAccount(env.Ctx, assetA, assetB)
	require.True(t, found, "the entry stays while refunds are outstanding")

	require.NoError(t, k.BootstrapRefund(env.Ctx, alice, assetB, assetA))
	require.Equal(t, math.NewInt(300), env.Ledger.BalanceOf(env.Ctx, assetA, alice))
	requireInvariants(t, env)

	err = k.BootstrapRefund(env.Ctx, alice, assetA, assetB)
	require.ErrorIs(t, err, types.ErrZeroContribute)

	require.NoError(t, k.BootstrapRefund(env.Ctx, bob, assetA, assetB))
	require.Equal(t, math.NewInt(20), env.Ledger.BalanceOf(env.Ctx, assetA, bob))
	require.Equal(t, math.NewInt(200), env.Ledger.BalanceOf(env.Ctx, assetB, bob))

	reserve0, reserve1 := k.GetReserves(env.Ctx, pair)
	require.True(t, reserve0.IsZero())
	require.True(t, reserve1.IsZero())
	_, found = k.GetPairAccount(env.Ctx, assetA, assetB)
	require.False(t, found, "the last refund removes the entry")

	// the slot is free again
	require.NoError(t, k.CreatePair(env.Ctx, env.Authority, assetA, assetB))
}

func TestBootstrap_CancelWithoutContributionsDeletesEntry(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper

	newBootstrap(t, env, 500, 500)
	ctx := env.Ctx.WithEventManager(sdk.NewEventManager())
	require.NoError(t, k.CancelBootstrap(ctx, env.Authority, assetA, assetB))

	_, found := k.GetPairAccount(env.Ctx, assetA, assetB)
	require.False(t, found)

	var deleted bool
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == types.EventTypePairDeleted {
			deleted = true
		}
	}
	require.True(t, deleted)

	newBootstrap(t, env, 100, 100)
}

func TestBootstrap_RefundDeniedWhileEnabled(t *testing.T) {
	env := keepertest.DexEnv(t)
	k := env.Keeper

	newBootstrap(t, env, 100, 100)
	alice := contribute(t, env, "alice", 100, 100)
	env.SetHeight(bootstrapEnd)
	require.NoError(t, k.EndBootstrap(env.Ctx, assetA, assetB))

	err := k.BootstrapRefund(env.Ctx, alice, assetA, assetB)
	require.ErrorIs(t, err, types.ErrDenyRefund)

	_, err = k.BootstrapClaim(env.Ctx, keepertest.TestAddr("nobody"), assetA, assetB, alice)
	require.ErrorIs(t, err, types.ErrZeroContribute)
}

func TestBootstrap_ClaimBeforeEnd(t *testing.T) {
	env := keepertest.DexEnv(t)
	newBootstrap(t, env, 100, 100)
	alice := contribute(t, env, "alice", 100, 100)

	_, err := env.Keeper.BootstrapClaim(env.Ctx, alice, assetA, assetB, alice)
	require.ErrorIs(t, err, types.ErrPairNotExists)

	_, err = env.Keeper.EstimateLpForBootstrap(env.Ctx, assetC, assetD, math.OneInt(), math.OneInt())
	require.ErrorIs(t, err, types.ErrNotInBootstrap)
}
