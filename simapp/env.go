// Package simapp assembles an in-memory dex environment: a memdb-backed
// multistore holding the dex and ledger stores, a keeper wired to a
// store-backed ledger, and a scenario runner driving it.
package simapp

import (
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/pairswap/pairswap/testutil/ledger"
	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

// DefaultAuthority is the governance module address used as dex authority.
var DefaultAuthority = authtypes.NewModuleAddress(govtypes.ModuleName).String()

// Env is an in-memory dex deployment.
type Env struct {
	Keeper    *keeper.Keeper
	Ledger    ledger.StoreLedger
	Authority string
	Ctx       sdk.Context

	// StoreKey is the dex store key, for keepers built over other ledgers.
	StoreKey *storetypes.KVStoreKey

	cms storetypes.CommitMultiStore
}

// NewEnv mounts the dex and ledger stores on a fresh memdb, initializes the
// dex from genesis and returns the environment at block height 1.
func NewEnv(logger log.Logger, genesis *types.GenesisState) (*Env, error) {
	if genesis == nil {
		genesis = types.DefaultGenesis()
	}

	dexKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledger.StoreName)

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	// nil gives each store its own prefixed view of db
	cms.MountStoreWithDB(dexKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load multistore: %w", err)
	}

	assets := ledger.NewStoreLedger(ledgerKey)
	k := keeper.NewKeeper(dexKey, assets, DefaultAuthority)

	ctx := sdk.NewContext(cms, cmtproto.Header{Height: 1}, false, logger)
	if err := k.InitGenesis(ctx, *genesis); err != nil {
		return nil, fmt.Errorf("init dex genesis: %w", err)
	}

	return &Env{
		Keeper:    k,
		Ledger:    assets,
		Authority: DefaultAuthority,
		Ctx:       ctx,
		StoreKey:  dexKey,
		cms:       cms,
	}, nil
}

// SetHeight moves the environment to the given block height.
func (e *Env) SetHeight(height int64) {
	e.Ctx = e.Ctx.WithBlockHeight(height)
}

// Fund mints amount of asset to account.
func (e *Env) Fund(account sdk.AccAddress, asset types.AssetId, amount math.Int) error {
	return e.Ledger.Deposit(e.Ctx, asset, account, amount)
}

// Commit persists the current state and starts the next block.
func (e *Env) Commit() storetypes.CommitID {
	id := e.cms.Commit()
	e.Ctx = e.Ctx.WithBlockHeight(e.Ctx.BlockHeight() + 1)
	return id
}

// AccountFor derives a deterministic test account from a name.
func AccountFor(name string) sdk.AccAddress {
	return authtypes.NewModuleAddress("pairswap/account/" + name)
}
