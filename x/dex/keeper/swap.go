package keeper

import (
	"context"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// hop is one pair traversed by a swap path, oriented from the asset sold
// to the asset bought.
type hop struct {
	pair   types.Pair
	input  types.AssetId
	output types.AssetId
}

// resolvePath validates a swap path and splits it into hops. Every hop must
// be an enabled pair and no pair may be traversed twice.
func (k Keeper) resolvePath(ctx context.Context, path []types.AssetId) ([]hop, error) {
	if len(path) < 2 {
		return nil, types.ErrInvalidPath.Wrapf("path needs at least two assets, got %d", len(path))
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if params.MaxPathLength != 0 && uint32(len(path)) > params.MaxPathLength {
		return nil, types.ErrInvalidPath.Wrapf("path of %d assets exceeds maximum %d", len(path), params.MaxPathLength)
	}

	hops := make([]hop, 0, len(path)-1)
	seen := make(map[string]struct{}, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		pair, err := types.NewPair(path[i], path[i+1])
		if err != nil {
			return nil, types.ErrInvalidPath.Wrapf("hop %d: %v", i, err)
		}
		key := string(pair.Key())
		if _, dup := seen[key]; dup {
			return nil, types.ErrInvalidPath.Wrapf("pair %s appears twice", pair)
		}
		seen[key] = struct{}{}

		if _, err := k.getEnabledPair(ctx, pair); err != nil {
			return nil, err
		}
		hops = append(hops, hop{pair: pair, input: path[i], output: path[i+1]})
	}
	return hops, nil
}

// hopReserves returns the reserves of a hop as (in, out).
func (k Keeper) hopReserves(ctx context.Context, h hop) (math.Int, math.Int) {
	reserve0, reserve1 := k.GetReserves(ctx, h.pair)
	return types.NewAmountPair(reserve0, reserve1).Oriented(h.pair, h.input)
}

// GetAmountOutByPath prices selling amountIn along path. The result holds
// the amount entering each hop followed by the final output.
func (k Keeper) GetAmountOutByPath(ctx context.Context, amountIn math.Int, path []types.AssetId) ([]math.Int, error) {
	if err := types.ValidateBalance(amountIn); err != nil {
		return nil, err
	}
	hops, err := k.resolvePath(ctx, path)
	if err != nil {
		return nil, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	amounts := make([]math.Int, len(path))
	amounts[0] = amountIn
	for i, h := range hops {
		reserveIn, reserveOut := k.hopReserves(ctx, h)
		if reserveIn.IsZero() || reserveOut.IsZero() {
			return nil, types.ErrInvalidPath.Wrapf("pair %s has no liquidity", h.pair)
		}

		out := types.GetAmountOut(amounts[i], reserveIn, reserveOut, params.ExchangeFee)
		if out.IsZero() {
			return nil, types.ErrInvalidPath.Wrapf("hop %d through %s yields nothing", i, h.pair)
		}
		if !types.InvariantHolds(reserveIn, reserveOut, amounts[i], out) {
			return nil, types.ErrInvariantCheckFailed.Wrapf("hop %d through %s", i, h.pair)
		}
		amounts[i+1] = out
	}
	return amounts, nil
}

// GetAmountInByPath prices buying amountOut at the end of path. The result
// starts with the required input and ends with amountOut.
func (k Keeper) GetAmountInByPath(ctx context.Context, amountOut math.Int, path []types.AssetId) ([]math.Int, error) {
	if err := types.ValidateBalance(amountOut); err != nil {
		return nil, err
	}
	hops, err := k.resolvePath(ctx, path)
	if err != nil {
		return nil, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	amounts := make([]math.Int, len(path))
	amounts[len(path)-1] = amountOut
	for i := len(hops) - 1; i >= 0; i-- {
		h := hops[i]
		reserveIn, reserveOut := k.hopReserves(ctx, h)
		if reserveIn.IsZero() || reserveOut.IsZero() {
			return nil, types.ErrInvalidPath.Wrapf("pair %s has no liquidity", h.pair)
		}

		in := types.GetAmountIn(amounts[i+1], reserveIn, reserveOut, params.ExchangeFee)
		if in.LTE(math.OneInt()) {
			return nil, types.ErrInvalidPath.Wrapf("hop %d through %s cannot deliver %s", i, h.pair, amounts[i+1])
		}
		if !types.InvariantHolds(reserveIn, reserveOut, in, amounts[i+1]) {
			return nil, types.ErrInvariantCheckFailed.Wrapf("hop %d through %s", i, h.pair)
		}
		amounts[i] = in
	}
	return amounts, nil
}

// SwapExactAssetsForAssets sells exactly amountIn of path[0] for at least
// amountOutMin of the last asset, paid to recipient. Returns the realized
// per-hop amounts.
func (k Keeper) SwapExactAssetsForAssets(
	ctx context.Context,
	who sdk.AccAddress,
	amountIn, amountOutMin math.Int,
	path []types.AssetId,
	recipient sdk.AccAddress,
) ([]math.Int, error) {
	if err := types.ValidateBalance(amountOutMin); err != nil {
		return nil, err
	}
	amounts, err := k.GetAmountOutByPath(ctx, amountIn, path)
	if err != nil {
		k.recordSwapFailure("exact_in")
		return nil, err
	}
	if out := amounts[len(amounts)-1]; out.LT(amountOutMin) {
		k.recordSwapFailure("exact_in")
		return nil, types.ErrInsufficientTargetAmount.Wrapf("output %s below minimum %s", out, amountOutMin)
	}

	if err := k.executeSwap(ctx, "exact_in", who, amounts, path, recipient); err != nil {
		return nil, err
	}
	return amounts, nil
}

// SwapAssetsForExactAssets buys exactly amountOut of the last asset for at
// most amountInMax of path[0], paid to recipient. Returns the realized
// per-hop amounts.
func (k Keeper) SwapAssetsForExactAssets(
	ctx context.Context,
	who sdk.AccAddress,
	amountOut, amountInMax math.Int,
	path []types.AssetId,
	recipient sdk.AccAddress,
) ([]math.Int, error) {
	if err := types.ValidateBalance(amountInMax); err != nil {
		return nil, err
	}
	amounts, err := k.GetAmountInByPath(ctx, amountOut, path)
	if err != nil {
		k.recordSwapFailure("exact_out")
		return nil, err
	}
	if in := amounts[0]; in.GT(amountInMax) {
		k.recordSwapFailure("exact_out")
		return nil, types.ErrExcessiveSoldAmount.Wrapf("input %s above maximum %s", in, amountInMax)
	}

	if err := k.executeSwap(ctx, "exact_out", who, amounts, path, recipient); err != nil {
		return nil, err
	}
	return amounts, nil
}

// executeSwap pulls the input leg from who into the first pair and routes
// the priced amounts through every hop inside one cached transaction.
func (k Keeper) executeSwap(
	ctx context.Context,
	kind string,
	who sdk.AccAddress,
	amounts []math.Int,
	path []types.AssetId,
	recipient sdk.AccAddress,
) error {
	if err := k.checkBalance(ctx, who, path[0], amounts[0]); err != nil {
		k.recordSwapFailure(kind)
		return err
	}

	err := k.transact(ctx, func(cacheCtx sdk.Context) error {
		first, err := types.NewPair(path[0], path[1])
		if err != nil {
			return types.ErrInvalidPath.Wrap(err.Error())
		}
		if err := k.ledger.Transfer(cacheCtx, path[0], who, first.Account(), amounts[0]); err != nil {
			return err
		}
		if err := k.swap(cacheCtx, amounts, path, recipient); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAssetSwap,
				sdk.NewAttribute(types.AttributeKeySender, who.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyPath, formatPath(path)),
				sdk.NewAttribute(types.AttributeKeyAmountIn, amounts[0].String()),
				sdk.NewAttribute(types.AttributeKeyAmountOut, amounts[len(amounts)-1].String()),
			),
		)
		return nil
	})
	if err != nil {
		k.recordSwapFailure(kind)
		return err
	}

	k.Logger(ctx).Debug("swap executed",
		"path", formatPath(path),
		"amount_in", amounts[0].String(),
		"amount_out", amounts[len(amounts)-1].String(),
	)
	k.metrics.SwapsTotal.WithLabelValues(kind, "success").Inc()
	incrTelemetry("swap", telemetry.NewLabel("kind", kind), telemetry.NewLabel("hops", strconv.Itoa(len(path)-1)))
	k.metrics.SwapVolume.WithLabelValues(path[0].String()).Add(metricValue(amounts[0]))
	k.metrics.SwapHops.Observe(float64(len(path) - 1))
	return nil
}

// swap moves each hop's output out of its pair account, straight into the
// next hop's pair account or, on the last hop, to recipient. The input of
// the first hop must already sit in the first pair account.
func (k Keeper) swap(ctx context.Context, amounts []math.Int, path []types.AssetId, recipient sdk.AccAddress) error {
	for i := 0; i < len(amounts)-1; i++ {
		input, output := path[i], path[i+1]
		pair, err := types.NewPair(input, output)
		if err != nil {
			return types.ErrInvalidPath.Wrap(err.Error())
		}
		if _, err := k.getEnabledPair(ctx, pair); err != nil {
			return err
		}

		out := types.OrientAmounts(pair, output, amounts[i+1], math.ZeroInt())

		to := recipient
		if i < len(amounts)-2 {
			next, err := types.NewPair(output, path[i+2])
			if err != nil {
				return types.ErrInvalidPath.Wrap(err.Error())
			}
			if _, err := k.getEnabledPair(ctx, next); err != nil {
				return err
			}
			to = next.Account()
		}

		if err := k.pairSwap(ctx, pair, out, to); err != nil {
			return err
		}
	}
	return nil
}

// pairSwap pays out of a pair's reserves. out is in pair order.
func (k Keeper) pairSwap(ctx context.Context, pair types.Pair, out types.AmountPair, to sdk.AccAddress) error {
	reserve0, reserve1 := k.GetReserves(ctx, pair)
	if out.Amount0.GT(reserve0) || out.Amount1.GT(reserve1) {
		return types.ErrInsufficientPairReserve.Wrapf("pair %s: reserves (%s, %s), requested %s", pair, reserve0, reserve1, out)
	}

	account := pair.Account()
	if out.Amount0.IsPositive() {
		if err := k.ledger.Transfer(ctx, pair.Asset0, account, to, out.Amount0); err != nil {
			return err
		}
	}
	if out.Amount1.IsPositive() {
		if err := k.ledger.Transfer(ctx, pair.Asset1, account, to, out.Amount1); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) recordSwapFailure(kind string) {
	k.metrics.SwapsTotal.WithLabelValues(kind, "failed").Inc()
}

func formatPath(path []types.AssetId) string {
	parts := make([]string, len(path))
	for i, asset := range path {
		parts[i] = asset.String()
	}
	return strings.Join(parts, ",")
}
