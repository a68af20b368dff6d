package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/pairswap/pairswap/simapp"
	"github.com/pairswap/pairswap/testutil/ledger"
	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

// Test assets on chain 0.
var (
	AssetA = types.NewAssetId(0, types.AssetTypeNative, 1)
	AssetB = types.NewAssetId(0, types.AssetTypeLocal, 2)
	AssetC = types.NewAssetId(0, types.AssetTypeLocal, 3)
	AssetD = types.NewAssetId(0, types.AssetTypeLocal, 4)
)

// DexKeeper creates a test keeper for the DEX module over an in-memory
// store-backed ledger, at block height 1 with default params.
func DexKeeper(t testing.TB) (*keeper.Keeper, sdk.Context, ledger.StoreLedger) {
	env := DexEnv(t)
	return env.Keeper, env.Ctx, env.Ledger
}

// DexEnv creates a full in-memory dex environment.
func DexEnv(t testing.TB) *simapp.Env {
	env, err := simapp.NewEnv(log.NewNopLogger(), nil)
	require.NoError(t, err)
	return env
}

// Authority returns the governance address the test keeper accepts.
func Authority() string {
	return simapp.DefaultAuthority
}

// TestAddr returns a deterministic account for name.
func TestAddr(name string) sdk.AccAddress {
	return simapp.AccountFor(name)
}

// FundAccount mints amount of asset to account.
func FundAccount(t testing.TB, l ledger.StoreLedger, ctx sdk.Context, account sdk.AccAddress, asset types.AssetId, amount math.Int) {
	require.NoError(t, l.Deposit(ctx, asset, account, amount))
}

// CreateTestPair creates an enabled pair and seeds it with liquidity from
// a freshly funded provider. Returns the provider.
func CreateTestPair(
	t testing.TB,
	k *keeper.Keeper,
	ctx sdk.Context,
	l ledger.StoreLedger,
	assetA, assetB types.AssetId,
	amountA, amountB math.Int,
) sdk.AccAddress {
	require.NoError(t, k.CreatePair(ctx, Authority(), assetA, assetB))

	provider := TestAddr("provider/" + assetA.String() + "/" + assetB.String())
	FundAccount(t, l, ctx, provider, assetA, amountA)
	FundAccount(t, l, ctx, provider, assetB, amountB)

	_, err := k.AddLiquidity(ctx, provider, assetA, assetB, amountA, amountB, math.ZeroInt(), math.ZeroInt())
	require.NoError(t, err)
	return provider
}
