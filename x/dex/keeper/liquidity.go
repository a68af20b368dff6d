package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// AddLiquidity deposits assetA and assetB into an enabled pair at the
// current reserve ratio and mints LP shares to who. Desired and minimum
// amounts are in (assetA, assetB) order. Returns the minted liquidity.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	who sdk.AccAddress,
	assetA, assetB types.AssetId,
	desiredA, desiredB, minA, minB math.Int,
) (math.Int, error) {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := validateAmounts(desiredA, desiredB, minA, minB); err != nil {
		return math.ZeroInt(), err
	}

	meta, err := k.getEnabledPair(ctx, pair)
	if err != nil {
		return math.ZeroInt(), err
	}

	reserve0, reserve1 := k.GetReserves(ctx, pair)
	reserveA, reserveB := types.NewAmountPair(reserve0, reserve1).Oriented(pair, assetA)

	amountA, amountB, err := types.CalculateAddedAmount(desiredA, desiredB, minA, minB, reserveA, reserveB)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.checkBalance(ctx, who, assetA, amountA); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.checkBalance(ctx, who, assetB, amountB); err != nil {
		return math.ZeroInt(), err
	}
	amounts := types.OrientAmounts(pair, assetA, amountA, amountB)

	var liquidity, newTotal math.Int
	err = k.transact(ctx, func(cacheCtx sdk.Context) error {
		total, err := k.mintProtocolFee(cacheCtx, pair, reserve0, reserve1, meta.TotalSupply)
		if err != nil {
			return err
		}

		liquidity = types.CalculateLiquidity(amounts.Amount0, amounts.Amount1, reserve0, reserve1, total)
		if liquidity.IsZero() {
			return types.ErrInsufficientLiquidity.Wrap("deposit mints no liquidity")
		}
		newTotal, err = SafeAdd(total, liquidity)
		if err != nil {
			return err
		}

		if err := k.ledger.Deposit(cacheCtx, pair.LiquidityAsset(), who, liquidity); err != nil {
			return err
		}
		account := pair.Account()
		if err := k.ledger.Transfer(cacheCtx, pair.Asset0, who, account, amounts.Amount0); err != nil {
			return err
		}
		if err := k.ledger.Transfer(cacheCtx, pair.Asset1, who, account, amounts.Amount1); err != nil {
			return err
		}

		meta.TotalSupply = newTotal
		if err := k.setPairStatus(cacheCtx, pair, types.PairEnabled{Metadata: meta}); err != nil {
			return err
		}
		if err := k.refreshKLast(cacheCtx, pair); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeLiquidityAdded,
				sdk.NewAttribute(types.AttributeKeySender, who.String()),
				sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
				sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amounts.Amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amounts.Amount1.String()),
				sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
				sdk.NewAttribute(types.AttributeKeyTotalSupply, newTotal.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}

	k.Logger(ctx).Debug("liquidity added", "pair", pair.String(), "liquidity", liquidity.String())
	pairLabel := pair.String()
	k.metrics.LiquidityAdded.WithLabelValues(pairLabel, pair.Asset0.String()).Add(metricValue(amounts.Amount0))
	k.metrics.LiquidityAdded.WithLabelValues(pairLabel, pair.Asset1.String()).Add(metricValue(amounts.Amount1))
	k.recordPairGauges(ctx, pair, newTotal)

	return liquidity, nil
}

// RemoveLiquidity burns liquidity LP shares of who and sends the
// proportional reserves to recipient. Minimums are in (assetA, assetB)
// order. Returns the withdrawn amounts in the same order.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	who sdk.AccAddress,
	assetA, assetB types.AssetId,
	liquidity, minA, minB math.Int,
	recipient sdk.AccAddress,
) (math.Int, math.Int, error) {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if err := validateAmounts(liquidity, minA, minB); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if liquidity.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInsufficientLiquidity.Wrap("liquidity must be positive")
	}

	meta, err := k.getEnabledPair(ctx, pair)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	lpAsset := pair.LiquidityAsset()
	if balance := k.ledger.BalanceOf(ctx, lpAsset, who); balance.LT(liquidity) {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInsufficientLiquidity.Wrapf("have %s, need %s", balance, liquidity)
	}

	reserve0, reserve1 := k.GetReserves(ctx, pair)
	minimum := types.OrientAmounts(pair, assetA, minA, minB)

	var amounts types.AmountPair
	var newTotal math.Int
	err = k.transact(ctx, func(cacheCtx sdk.Context) error {
		total, err := k.mintProtocolFee(cacheCtx, pair, reserve0, reserve1, meta.TotalSupply)
		if err != nil {
			return err
		}

		amounts = types.NewAmountPair(
			types.CalculateShareAmount(liquidity, total, reserve0),
			types.CalculateShareAmount(liquidity, total, reserve1),
		)
		if amounts.Amount0.LT(minimum.Amount0) || amounts.Amount1.LT(minimum.Amount1) {
			return types.ErrInsufficientTargetAmount.Wrapf("withdrawal %s below minimum %s", amounts, minimum)
		}

		newTotal, err = SafeSub(total, liquidity)
		if err != nil {
			return err
		}
		if err := k.ledger.Withdraw(cacheCtx, lpAsset, who, liquidity); err != nil {
			return err
		}
		account := pair.Account()
		if err := k.ledger.Transfer(cacheCtx, pair.Asset0, account, recipient, amounts.Amount0); err != nil {
			return err
		}
		if err := k.ledger.Transfer(cacheCtx, pair.Asset1, account, recipient, amounts.Amount1); err != nil {
			return err
		}

		meta.TotalSupply = newTotal
		if err := k.setPairStatus(cacheCtx, pair, types.PairEnabled{Metadata: meta}); err != nil {
			return err
		}
		if err := k.refreshKLast(cacheCtx, pair); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeLiquidityRemoved,
				sdk.NewAttribute(types.AttributeKeySender, who.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
				sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amounts.Amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amounts.Amount1.String()),
				sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
				sdk.NewAttribute(types.AttributeKeyTotalSupply, newTotal.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	k.Logger(ctx).Debug("liquidity removed", "pair", pair.String(), "liquidity", liquidity.String())
	pairLabel := pair.String()
	k.metrics.LiquidityRemoved.WithLabelValues(pairLabel, pair.Asset0.String()).Add(metricValue(amounts.Amount0))
	k.metrics.LiquidityRemoved.WithLabelValues(pairLabel, pair.Asset1.String()).Add(metricValue(amounts.Amount1))
	k.recordPairGauges(ctx, pair, newTotal)

	amountA, amountB := amounts.Oriented(pair, assetA)
	return amountA, amountB, nil
}

// GetLiquidityBalance returns the LP shares of a pair held by account.
func (k Keeper) GetLiquidityBalance(ctx context.Context, a, b types.AssetId, account sdk.AccAddress) (math.Int, error) {
	pair, err := types.NewPair(a, b)
	if err != nil {
		return math.ZeroInt(), err
	}
	return k.ledger.BalanceOf(ctx, pair.LiquidityAsset(), account), nil
}

// checkBalance fails with ErrInsufficientAssetBalance when account holds
// less than amount of asset.
func (k Keeper) checkBalance(ctx context.Context, account sdk.AccAddress, asset types.AssetId, amount math.Int) error {
	if balance := k.ledger.BalanceOf(ctx, asset, account); balance.LT(amount) {
		return types.ErrInsufficientAssetBalance.Wrapf("%s: have %s, need %s", asset, balance, amount)
	}
	return nil
}

func (k Keeper) recordPairGauges(ctx context.Context, pair types.Pair, totalSupply math.Int) {
	reserve0, reserve1 := k.GetReserves(ctx, pair)
	pairLabel := pair.String()
	k.metrics.PairReserves.WithLabelValues(pairLabel, pair.Asset0.String()).Set(metricValue(reserve0))
	k.metrics.PairReserves.WithLabelValues(pairLabel, pair.Asset1.String()).Set(metricValue(reserve1))
	k.metrics.LPTokenSupply.WithLabelValues(pairLabel).Set(metricValue(totalSupply))
}

func validateAmounts(amounts ...math.Int) error {
	for i, amount := range amounts {
		if err := types.ValidateBalance(amount); err != nil {
			return fmt.Errorf("amount %d: %w", i, err)
		}
	}
	return nil
}
