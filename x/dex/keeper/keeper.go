package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// Keeper of the dex store
type Keeper struct {
	storeKey  storetypes.StoreKey
	ledger    types.AssetLedger
	authority string
	metrics   *DEXMetrics
}

// NewKeeper creates a new dex Keeper instance. authority is the address
// allowed to create pairs, manage bootstraps and change parameters.
func NewKeeper(
	key storetypes.StoreKey,
	ledger types.AssetLedger,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid dex authority address %q: %v", authority, err))
	}

	return &Keeper{
		storeKey:  key,
		ledger:    ledger,
		authority: authority,
		metrics:   NewDEXMetrics(),
	}
}

// getStore returns the KVStore for the dex module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetAuthority returns the module's governance authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Ledger returns the asset ledger the keeper settles against.
func (k Keeper) Ledger() types.AssetLedger {
	return k.ledger
}

func (k Keeper) checkAuthority(authority string) error {
	if authority != k.authority {
		return types.ErrUnauthorized.Wrapf("invalid authority; expected %s, got %s", k.authority, authority)
	}
	return nil
}

// transact runs fn against a cached context and commits its writes, ledger
// transfers and events only if fn succeeds.
func (k Keeper) transact(ctx context.Context, fn func(cacheCtx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	writeFn()
	return nil
}
