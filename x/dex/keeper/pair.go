package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// GetPairStatus returns the lifecycle state of a canonical pair. A pair
// without a registry entry is disabled.
func (k Keeper) GetPairStatus(ctx context.Context, pair types.Pair) (types.PairStatus, error) {
	bz := k.getStore(ctx).Get(types.PairStatusKey(pair))
	if bz == nil {
		return types.PairDisabled{}, nil
	}
	status, err := types.UnmarshalPairStatus(bz)
	if err != nil {
		return nil, fmt.Errorf("GetPairStatus: pair %s: %w", pair, err)
	}
	return status, nil
}

// PairStatus returns the lifecycle state of the pair formed by two assets,
// in either order.
func (k Keeper) PairStatus(ctx context.Context, a, b types.AssetId) (types.PairStatus, error) {
	pair, err := types.NewPair(a, b)
	if err != nil {
		return nil, err
	}
	return k.GetPairStatus(ctx, pair)
}

func (k Keeper) hasPairEntry(ctx context.Context, pair types.Pair) bool {
	return k.getStore(ctx).Has(types.PairStatusKey(pair))
}

func (k Keeper) setPairStatus(ctx context.Context, pair types.Pair, status types.PairStatus) error {
	bz, err := types.MarshalPairStatus(status)
	if err != nil {
		return fmt.Errorf("setPairStatus: pair %s: %w", pair, err)
	}
	k.getStore(ctx).Set(types.PairStatusKey(pair), bz)
	return nil
}

func (k Keeper) deletePairEntry(ctx context.Context, pair types.Pair) {
	store := k.getStore(ctx)
	store.Delete(types.PairStatusKey(pair))
	store.Delete(types.KLastKey(pair))
	store.Delete(types.FrozenRateKey(pair))
}

// getEnabledPair returns the metadata of an enabled pair or ErrPairNotExists.
func (k Keeper) getEnabledPair(ctx context.Context, pair types.Pair) (types.PairMetadata, error) {
	status, err := k.GetPairStatus(ctx, pair)
	if err != nil {
		return types.PairMetadata{}, err
	}
	switch st := status.(type) {
	case types.PairEnabled:
		return st.Metadata, nil
	case types.PairBootstrap, types.PairDisabled:
		return types.PairMetadata{}, types.ErrPairNotExists.Wrapf("pair %s is %s", pair, status.Kind())
	default:
		return types.PairMetadata{}, fmt.Errorf("getEnabledPair: unknown status %T", status)
	}
}

// getBootstrapPair returns the bootstrap parameter of a pair or ErrNotInBootstrap.
func (k Keeper) getBootstrapPair(ctx context.Context, pair types.Pair) (types.BootstrapParameter, error) {
	status, err := k.GetPairStatus(ctx, pair)
	if err != nil {
		return types.BootstrapParameter{}, err
	}
	switch st := status.(type) {
	case types.PairBootstrap:
		return st.Parameter, nil
	case types.PairEnabled, types.PairDisabled:
		return types.BootstrapParameter{}, types.ErrNotInBootstrap.Wrapf("pair %s is %s", pair, status.Kind())
	default:
		return types.BootstrapParameter{}, fmt.Errorf("getBootstrapPair: unknown status %T", status)
	}
}

// PairAccount derives the settlement account of the pair formed by two assets.
func PairAccount(a, b types.AssetId) (sdk.AccAddress, error) {
	pair, err := types.NewPair(a, b)
	if err != nil {
		return nil, err
	}
	return pair.Account(), nil
}

// GetPairAccount returns the settlement account of a registered pair.
func (k Keeper) GetPairAccount(ctx context.Context, a, b types.AssetId) (sdk.AccAddress, bool) {
	pair, err := types.NewPair(a, b)
	if err != nil {
		return nil, false
	}
	if !k.hasPairEntry(ctx, pair) {
		return nil, false
	}
	return pair.Account(), true
}

// GetReserves returns the pair's reserves, which are the settlement
// account's balances of each side.
func (k Keeper) GetReserves(ctx context.Context, pair types.Pair) (math.Int, math.Int) {
	account := pair.Account()
	return k.ledger.BalanceOf(ctx, pair.Asset0, account), k.ledger.BalanceOf(ctx, pair.Asset1, account)
}

// IteratePairs iterates over every registered pair.
func (k Keeper) IteratePairs(ctx context.Context, cb func(rec types.PairRecord) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.PairStatusKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		pair, err := types.PairFromKey(iterator.Key()[len(types.PairStatusKeyPrefix):])
		if err != nil {
			return fmt.Errorf("IteratePairs: decode key: %w", err)
		}
		status, err := types.UnmarshalPairStatus(iterator.Value())
		if err != nil {
			return fmt.Errorf("IteratePairs: pair %s: %w", pair, err)
		}
		if cb(types.PairRecord{Pair: pair, Status: status}) {
			break
		}
	}
	return nil
}

// GetAllPairs returns every registered pair with its status.
func (k Keeper) GetAllPairs(ctx context.Context) ([]types.PairRecord, error) {
	var pairs []types.PairRecord
	err := k.IteratePairs(ctx, func(rec types.PairRecord) bool {
		pairs = append(pairs, rec)
		return false
	})
	return pairs, err
}

// CreatePair registers an enabled pair with no liquidity. Governance only.
func (k Keeper) CreatePair(ctx context.Context, authority string, a, b types.AssetId) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	pair, err := types.NewPair(a, b)
	if err != nil {
		return err
	}
	if pair.Asset0.IsLiquidity() || pair.Asset1.IsLiquidity() {
		return types.ErrInvalidAsset.Wrap("cannot pair an LP share asset")
	}
	if k.hasPairEntry(ctx, pair) {
		return types.ErrPairAlreadyExists.Wrapf("pair %s", pair)
	}

	status := types.PairEnabled{Metadata: types.PairMetadata{
		SettlementAccount: pair.Account(),
		TotalSupply:       math.ZeroInt(),
	}}
	if err := k.setPairStatus(ctx, pair, status); err != nil {
		return fmt.Errorf("CreatePair: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairCreated,
			sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
			sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
			sdk.NewAttribute(types.AttributeKeyAccount, pair.Account().String()),
		),
	)
	k.metrics.PairsCreated.Inc()
	k.Logger(ctx).Info("pair created", "pair", pair.String())
	return nil
}
