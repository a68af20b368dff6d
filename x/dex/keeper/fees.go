package keeper

import (
	"context"
	"fmt"
	"math/big"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// GetKLast returns the reserve product recorded after the pair's last
// liquidity event, or zero when none is recorded.
func (k Keeper) GetKLast(ctx context.Context, pair types.Pair) (math.Int, error) {
	bz := k.getStore(ctx).Get(types.KLastKey(pair))
	if bz == nil {
		return math.ZeroInt(), nil
	}
	var kLast math.Int
	if err := kLast.Unmarshal(bz); err != nil {
		return math.ZeroInt(), fmt.Errorf("GetKLast: pair %s: %w", pair, err)
	}
	return kLast, nil
}

func (k Keeper) setKLast(ctx context.Context, pair types.Pair, kLast math.Int) error {
	bz, err := kLast.Marshal()
	if err != nil {
		return fmt.Errorf("setKLast: pair %s: %w", pair, err)
	}
	k.getStore(ctx).Set(types.KLastKey(pair), bz)
	return nil
}

func (k Keeper) deleteKLast(ctx context.Context, pair types.Pair) {
	k.getStore(ctx).Delete(types.KLastKey(pair))
}

// mintProtocolFee mints the protocol's LP shares for fee growth since the
// last liquidity event and returns the updated total supply. With the fee
// turned off any stale watermark is cleared.
func (k Keeper) mintProtocolFee(
	ctx context.Context,
	pair types.Pair,
	reserve0, reserve1, totalSupply math.Int,
) (math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	kLast, err := k.GetKLast(ctx, pair)
	if err != nil {
		return math.Int{}, err
	}

	receiver, feeOn := params.FeeReceiverAddress()
	if !feeOn {
		if !kLast.IsZero() {
			k.deleteKLast(ctx, pair)
		}
		return totalSupply, nil
	}
	if kLast.IsZero() {
		return totalSupply, nil
	}

	liquidity := types.ProtocolFeeLiquidity(reserve0, reserve1, kLast, totalSupply, params.FeePoint)
	if liquidity.IsZero() {
		return totalSupply, nil
	}

	newTotal, err := SafeAdd(totalSupply, liquidity)
	if err != nil {
		return math.Int{}, err
	}
	if err := k.ledger.Deposit(ctx, pair.LiquidityAsset(), receiver, liquidity); err != nil {
		return math.Int{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProtocolFeeMinted,
			sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
			sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
			sdk.NewAttribute(types.AttributeKeyFeeReceiver, params.FeeReceiver),
			sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
		),
	)
	k.metrics.ProtocolFeeMinted.WithLabelValues(pair.String()).Add(metricValue(liquidity))

	return newTotal, nil
}

// refreshKLast records the current reserve product when the protocol fee
// is on.
func (k Keeper) refreshKLast(ctx context.Context, pair types.Pair) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if _, feeOn := params.FeeReceiverAddress(); !feeOn {
		return nil
	}
	reserve0, reserve1 := k.GetReserves(ctx, pair)
	return k.setKLast(ctx, pair, types.ReserveProduct(reserve0, reserve1))
}

// metricValue converts an amount to a gauge value. Precision loss above
// 2^53 is acceptable for metrics.
func metricValue(x math.Int) float64 {
	if x.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(x.BigInt()).Float64()
	return f
}
