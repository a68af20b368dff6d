package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pairswap/pairswap/simapp"
	keepertest "github.com/pairswap/pairswap/testutil/keeper"
	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

type KeeperTestSuite struct {
	suite.Suite
	env *simapp.Env
}

func (suite *KeeperTestSuite) SetupTest() {
	suite.env = keepertest.DexEnv(suite.T())
}

func (suite *KeeperTestSuite) keeper() *keeper.Keeper { return suite.env.Keeper }
func (suite *KeeperTestSuite) ctx() sdk.Context      { return suite.env.Ctx }

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (suite *KeeperTestSuite) TestCreatePair() {
	k, ctx := suite.keeper(), suite.ctx()

	suite.Require().NoError(k.CreatePair(ctx, keepertest.Authority(), keepertest.AssetB, keepertest.AssetA))

	status, err := k.PairStatus(ctx, keepertest.AssetA, keepertest.AssetB)
	suite.Require().NoError(err)
	enabled, ok := status.(types.PairEnabled)
	suite.Require().True(ok, "got %T", status)
	suite.Require().True(enabled.Metadata.TotalSupply.IsZero())

	pair := types.MustNewPair(keepertest.AssetA, keepertest.AssetB)
	suite.Require().True(enabled.Metadata.SettlementAccount.Equals(pair.Account()))

	account, found := k.GetPairAccount(ctx, keepertest.AssetB, keepertest.AssetA)
	suite.Require().True(found)
	suite.Require().True(account.Equals(pair.Account()))

	reserve0, reserve1 := k.GetReserves(ctx, pair)
	suite.Require().True(reserve0.IsZero())
	suite.Require().True(reserve1.IsZero())
}

func (suite *KeeperTestSuite) TestCreatePairRejections() {
	k, ctx := suite.keeper(), suite.ctx()
	auth := keepertest.Authority()

	suite.Require().NoError(k.CreatePair(ctx, auth, keepertest.AssetA, keepertest.AssetB))

	err := k.CreatePair(ctx, auth, keepertest.AssetB, keepertest.AssetA)
	suite.Require().ErrorIs(err, types.ErrPairAlreadyExists)

	err = k.CreatePair(ctx, auth, keepertest.AssetC, keepertest.AssetC)
	suite.Require().ErrorIs(err, types.ErrIdenticalAssets)

	lp := types.MustNewPair(keepertest.AssetA, keepertest.AssetB).LiquidityAsset()
	err = k.CreatePair(ctx, auth, lp, keepertest.AssetC)
	suite.Require().ErrorIs(err, types.ErrInvalidAsset)

	err = k.CreatePair(ctx, keepertest.TestAddr("mallory").String(), keepertest.AssetC, keepertest.AssetD)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)
	_, found := k.GetPairAccount(ctx, keepertest.AssetC, keepertest.AssetD)
	suite.Require().False(found)
}

func (suite *KeeperTestSuite) TestUnregisteredPairIsDisabled() {
	k, ctx := suite.keeper(), suite.ctx()

	status, err := k.PairStatus(ctx, keepertest.AssetC, keepertest.AssetD)
	suite.Require().NoError(err)
	suite.Require().Equal(types.StatusDisabled, status.Kind())

	_, found := k.GetPairAccount(ctx, keepertest.AssetC, keepertest.AssetD)
	suite.Require().False(found)

	// derivation does not need a registry entry
	account, err := keeper.PairAccount(keepertest.AssetD, keepertest.AssetC)
	suite.Require().NoError(err)
	suite.Require().True(account.Equals(types.MustNewPair(keepertest.AssetC, keepertest.AssetD).Account()))

	_, err = keeper.PairAccount(keepertest.AssetC, keepertest.AssetC)
	suite.Require().ErrorIs(err, types.ErrIdenticalAssets)
}

func (suite *KeeperTestSuite) TestGetAllPairs() {
	k, ctx := suite.keeper(), suite.ctx()
	auth := keepertest.Authority()

	pairs, err := k.GetAllPairs(ctx)
	suite.Require().NoError(err)
	suite.Require().Empty(pairs)

	suite.Require().NoError(k.CreatePair(ctx, auth, keepertest.AssetA, keepertest.AssetB))
	suite.Require().NoError(k.CreatePair(ctx, auth, keepertest.AssetC, keepertest.AssetB))
	suite.Require().NoError(k.CreateBootstrap(ctx, auth, keepertest.AssetC, keepertest.AssetD,
		math.NewInt(10), math.NewInt(10), math.ZeroInt(), math.ZeroInt(), 5))

	pairs, err = k.GetAllPairs(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(pairs, 3)

	kinds := make(map[types.StatusKind]int)
	for _, rec := range pairs {
		suite.Require().NoError(rec.Pair.Validate())
		kinds[rec.Status.Kind()]++
	}
	suite.Require().Equal(2, kinds[types.StatusEnabled])
	suite.Require().Equal(1, kinds[types.StatusBootstrap])
}

func (suite *KeeperTestSuite) TestParams() {
	k, ctx := suite.keeper(), suite.ctx()
	auth := keepertest.Authority()

	params, err := k.GetParams(ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(types.DefaultParams(), params)

	receiver := keepertest.TestAddr("treasury").String()
	suite.Require().NoError(k.SetFeeReceiver(ctx, auth, receiver))
	suite.Require().NoError(k.SetFeePoint(ctx, auth, 10))

	params, err = k.GetParams(ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(receiver, params.FeeReceiver)
	suite.Require().Equal(uint32(10), params.FeePoint)

	params.MaxPathLength = 3
	suite.Require().NoError(k.SetParams(ctx, auth, params))
	got, err := k.GetParams(ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(params, got)

	suite.Require().ErrorIs(k.SetFeePoint(ctx, auth, 31), types.ErrInvalidParams)
	suite.Require().ErrorIs(k.SetFeeReceiver(ctx, auth, "not-an-address"), types.ErrInvalidParams)
	suite.Require().ErrorIs(k.SetFeePoint(ctx, receiver, 1), types.ErrUnauthorized)

	// failed updates leave the stored params alone
	got, err = k.GetParams(ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(params, got)
}

func (suite *KeeperTestSuite) TestPairCreatedEvent() {
	ctx := suite.ctx().WithEventManager(sdk.NewEventManager())
	suite.Require().NoError(suite.keeper().CreatePair(ctx, keepertest.Authority(), keepertest.AssetA, keepertest.AssetB))

	var found bool
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == types.EventTypePairCreated {
			found = true
		}
	}
	suite.Require().True(found)
}

func TestNewKeeperRejectsBadAuthority(t *testing.T) {
	env := keepertest.DexEnv(t)
	require.Panics(t, func() {
		keeper.NewKeeper(env.StoreKey, env.Ledger, "not-bech32")
	})
	require.Equal(t, keepertest.Authority(), env.Keeper.GetAuthority())
}
