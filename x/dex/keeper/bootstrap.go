package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// CreateBootstrap opens an unregistered pair for bootstrap contributions.
// Targets and minimums are in (assetA, assetB) order. Governance only.
func (k Keeper) CreateBootstrap(
	ctx context.Context,
	authority string,
	assetA, assetB types.AssetId,
	targetA, targetB, minA, minB math.Int,
	endBlockNumber int64,
) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return err
	}
	if pair.Asset0.IsLiquidity() || pair.Asset1.IsLiquidity() {
		return types.ErrInvalidAsset.Wrap("cannot bootstrap an LP share asset")
	}
	if k.hasPairEntry(ctx, pair) {
		return types.ErrPairAlreadyExists.Wrapf("pair %s", pair)
	}

	param := types.BootstrapParameter{
		MinContribution:   types.OrientAmounts(pair, assetA, minA, minB),
		TargetSupply:      types.OrientAmounts(pair, assetA, targetA, targetB),
		AccumulatedSupply: types.ZeroAmountPair(),
		EndBlockNumber:    endBlockNumber,
	}
	if err := param.Validate(); err != nil {
		return err
	}
	if err := k.setPairStatus(ctx, pair, types.PairBootstrap{Parameter: param}); err != nil {
		return err
	}

	k.emitBootstrapEvent(ctx, types.EventTypeBootstrapCreated, pair, param)
	k.metrics.BootstrapTransitions.WithLabelValues("created").Inc()
	incrTelemetry("bootstrap", telemetry.NewLabel("transition", "created"))
	k.Logger(ctx).Info("bootstrap created", "pair", pair.String(), "end_block_number", endBlockNumber)
	return nil
}

// UpdateBootstrap replaces the targets, minimums and deadline of a pair in
// bootstrap. Contributions accumulated so far are kept. Governance only.
func (k Keeper) UpdateBootstrap(
	ctx context.Context,
	authority string,
	assetA, assetB types.AssetId,
	targetA, targetB, minA, minB math.Int,
	endBlockNumber int64,
) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return err
	}
	param, err := k.getBootstrapPair(ctx, pair)
	if err != nil {
		return err
	}

	param.MinContribution = types.OrientAmounts(pair, assetA, minA, minB)
	param.TargetSupply = types.OrientAmounts(pair, assetA, targetA, targetB)
	param.EndBlockNumber = endBlockNumber
	if err := param.Validate(); err != nil {
		return err
	}
	if err := k.setPairStatus(ctx, pair, types.PairBootstrap{Parameter: param}); err != nil {
		return err
	}

	k.emitBootstrapEvent(ctx, types.EventTypeBootstrapUpdated, pair, param)
	k.Logger(ctx).Info("bootstrap updated", "pair", pair.String(), "end_block_number", endBlockNumber)
	return nil
}

// CancelBootstrap abandons a bootstrap. Contributors recover their assets
// through BootstrapRefund; a bootstrap nobody contributed to is removed
// at once. Governance only.
func (k Keeper) CancelBootstrap(ctx context.Context, authority string, assetA, assetB types.AssetId) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return err
	}
	param, err := k.getBootstrapPair(ctx, pair)
	if err != nil {
		return err
	}

	if k.hasContributions(ctx, pair) {
		if err := k.setPairStatus(ctx, pair, types.PairDisabled{}); err != nil {
			return err
		}
	} else {
		k.deletePairEntry(ctx, pair)
		k.emitPairDeleted(ctx, pair)
	}

	k.emitBootstrapEvent(ctx, types.EventTypeBootstrapCancelled, pair, param)
	k.metrics.BootstrapTransitions.WithLabelValues("cancelled").Inc()
	incrTelemetry("bootstrap", telemetry.NewLabel("transition", "cancelled"))
	k.Logger(ctx).Info("bootstrap cancelled", "pair", pair.String())
	return nil
}

// BootstrapContribute escrows a contribution to a pair in bootstrap.
// Amounts are in (assetA, assetB) order and at least one side must clear
// its minimum.
func (k Keeper) BootstrapContribute(
	ctx context.Context,
	who sdk.AccAddress,
	assetA, assetB types.AssetId,
	amountA, amountB math.Int,
) error {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return err
	}
	if err := validateAmounts(amountA, amountB); err != nil {
		return err
	}
	param, err := k.getBootstrapPair(ctx, pair)
	if err != nil {
		return err
	}

	amounts := types.OrientAmounts(pair, assetA, amountA, amountB)
	if amounts.IsZero() {
		return types.ErrInvalidContributionAmount.Wrap("contribution is empty")
	}
	if amounts.Amount0.LT(param.MinContribution.Amount0) && amounts.Amount1.LT(param.MinContribution.Amount1) {
		return types.ErrInvalidContributionAmount.Wrapf("contribution %s below minimum %s", amounts, param.MinContribution)
	}
	if err := k.checkBalance(ctx, who, pair.Asset0, amounts.Amount0); err != nil {
		return err
	}
	if err := k.checkBalance(ctx, who, pair.Asset1, amounts.Amount1); err != nil {
		return err
	}

	personal, _, err := k.getPersonalSupply(ctx, pair, who)
	if err != nil {
		return err
	}
	accumulated, err := SafeAddPair(param.AccumulatedSupply, amounts)
	if err != nil {
		return err
	}
	personal, err = SafeAddPair(personal, amounts)
	if err != nil {
		return err
	}

	err = k.transact(ctx, func(cacheCtx sdk.Context) error {
		account := pair.Account()
		if amounts.Amount0.IsPositive() {
			if err := k.ledger.Transfer(cacheCtx, pair.Asset0, who, account, amounts.Amount0); err != nil {
				return err
			}
		}
		if amounts.Amount1.IsPositive() {
			if err := k.ledger.Transfer(cacheCtx, pair.Asset1, who, account, amounts.Amount1); err != nil {
				return err
			}
		}

		if err := k.setPersonalSupply(cacheCtx, pair, who, personal); err != nil {
			return err
		}
		param.AccumulatedSupply = accumulated
		if err := k.setPairStatus(cacheCtx, pair, types.PairBootstrap{Parameter: param}); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeBootstrapContribute,
				sdk.NewAttribute(types.AttributeKeySender, who.String()),
				sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
				sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amounts.Amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amounts.Amount1.String()),
			),
		)
		return nil
	})
	if err != nil {
		return err
	}

	k.metrics.BootstrapContributions.WithLabelValues(pair.String()).Inc()
	k.Logger(ctx).Debug("bootstrap contribution", "pair", pair.String(), "contributor", who.String(), "amounts", amounts.String())
	return nil
}

// EndBootstrap enables a bootstrap pair once its deadline has passed and
// both targets are met. The escrowed contributions become the reserves and
// the whole LP supply is minted to the pair account for later claims.
func (k Keeper) EndBootstrap(ctx context.Context, assetA, assetB types.AssetId) error {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return err
	}
	param, err := k.getBootstrapPair(ctx, pair)
	if err != nil {
		return err
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	if height < param.EndBlockNumber {
		return types.ErrUnqualifiedBootstrap.Wrapf("height %d before end block %d", height, param.EndBlockNumber)
	}
	if !param.Qualified() {
		return types.ErrUnqualifiedBootstrap.Wrapf("accumulated %s below target %s", param.AccumulatedSupply, param.TargetSupply)
	}

	rate, err := types.BootstrapExchangeRate(param.TargetSupply)
	if err != nil {
		return err
	}
	totalSupply, err := types.ConvertByRate(rate, param.AccumulatedSupply)
	if err != nil {
		return err
	}
	if totalSupply.IsZero() {
		return types.ErrInsufficientLiquidity.Wrap("bootstrap mints no liquidity")
	}

	err = k.transact(ctx, func(cacheCtx sdk.Context) error {
		account := pair.Account()
		if err := k.ledger.Deposit(cacheCtx, pair.LiquidityAsset(), account, totalSupply); err != nil {
			return err
		}
		if err := k.setFrozenRate(cacheCtx, pair, rate); err != nil {
			return err
		}
		status := types.PairEnabled{Metadata: types.PairMetadata{
			SettlementAccount: account,
			TotalSupply:       totalSupply,
		}}
		if err := k.setPairStatus(cacheCtx, pair, status); err != nil {
			return err
		}
		if err := k.refreshKLast(cacheCtx, pair); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeBootstrapEnd,
				sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
				sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, param.AccumulatedSupply.Amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, param.AccumulatedSupply.Amount1.String()),
				sdk.NewAttribute(types.AttributeKeyTotalSupply, totalSupply.String()),
				sdk.NewAttribute(types.AttributeKeyRate0, rate.Rate0.String()),
				sdk.NewAttribute(types.AttributeKeyRate1, rate.Rate1.String()),
			),
		)
		return nil
	})
	if err != nil {
		return err
	}

	k.metrics.BootstrapTransitions.WithLabelValues("ended").Inc()
	incrTelemetry("bootstrap", telemetry.NewLabel("transition", "ended"))
	k.recordPairGauges(ctx, pair, totalSupply)
	k.Logger(ctx).Info("bootstrap ended", "pair", pair.String(), "total_supply", totalSupply.String())
	return nil
}

// BootstrapClaim converts who's contribution to an ended bootstrap into LP
// shares at the frozen rate and pays them to recipient. Returns the
// claimed liquidity.
func (k Keeper) BootstrapClaim(
	ctx context.Context,
	who sdk.AccAddress,
	assetA, assetB types.AssetId,
	recipient sdk.AccAddress,
) (math.Int, error) {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return math.ZeroInt(), err
	}
	if _, err := k.getEnabledPair(ctx, pair); err != nil {
		return math.ZeroInt(), err
	}
	personal, found, err := k.getPersonalSupply(ctx, pair, who)
	if err != nil {
		return math.ZeroInt(), err
	}
	if !found {
		return math.ZeroInt(), types.ErrZeroContribute.Wrapf("%s has no contribution to %s", who, pair)
	}
	rate, found, err := k.getFrozenRate(ctx, pair)
	if err != nil {
		return math.ZeroInt(), err
	}
	if !found {
		return math.ZeroInt(), fmt.Errorf("BootstrapClaim: pair %s has contributions but no frozen rate", pair)
	}
	liquidity, err := types.ConvertByRate(rate, personal)
	if err != nil {
		return math.ZeroInt(), err
	}

	err = k.transact(ctx, func(cacheCtx sdk.Context) error {
		if liquidity.IsPositive() {
			if err := k.ledger.Transfer(cacheCtx, pair.LiquidityAsset(), pair.Account(), recipient, liquidity); err != nil {
				return err
			}
		}
		k.deletePersonalSupply(cacheCtx, pair, who)

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeBootstrapClaim,
				sdk.NewAttribute(types.AttributeKeySender, who.String()),
				sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
				sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
				sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
				sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.ZeroInt(), err
	}
	return liquidity, nil
}

// BootstrapRefund returns who's raw contribution to an abandoned
// bootstrap. The pair's registry entry goes away with the last refund.
func (k Keeper) BootstrapRefund(ctx context.Context, who sdk.AccAddress, assetA, assetB types.AssetId) error {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return err
	}
	status, err := k.GetPairStatus(ctx, pair)
	if err != nil {
		return err
	}
	switch status.(type) {
	case types.PairDisabled:
	case types.PairBootstrap, types.PairEnabled:
		return types.ErrDenyRefund.Wrapf("pair %s is %s", pair, status.Kind())
	default:
		return fmt.Errorf("BootstrapRefund: unknown status %T", status)
	}

	personal, found, err := k.getPersonalSupply(ctx, pair, who)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrZeroContribute.Wrapf("%s has no contribution to %s", who, pair)
	}

	var deleted bool
	err = k.transact(ctx, func(cacheCtx sdk.Context) error {
		account := pair.Account()
		if personal.Amount0.IsPositive() {
			if err := k.ledger.Transfer(cacheCtx, pair.Asset0, account, who, personal.Amount0); err != nil {
				return err
			}
		}
		if personal.Amount1.IsPositive() {
			if err := k.ledger.Transfer(cacheCtx, pair.Asset1, account, who, personal.Amount1); err != nil {
				return err
			}
		}
		k.deletePersonalSupply(cacheCtx, pair, who)

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeBootstrapRefund,
				sdk.NewAttribute(types.AttributeKeySender, who.String()),
				sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
				sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, personal.Amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, personal.Amount1.String()),
			),
		)

		if !k.hasContributions(cacheCtx, pair) {
			k.deletePairEntry(cacheCtx, pair)
			k.emitPairDeleted(cacheCtx, pair)
			deleted = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if deleted {
		k.Logger(ctx).Info("pair deleted after last refund", "pair", pair.String())
	}
	return nil
}

// GetPersonalSupply returns who's outstanding bootstrap contribution in
// pair order.
func (k Keeper) GetPersonalSupply(ctx context.Context, a, b types.AssetId, who sdk.AccAddress) (types.AmountPair, bool, error) {
	pair, err := types.NewPair(a, b)
	if err != nil {
		return types.AmountPair{}, false, err
	}
	return k.getPersonalSupply(ctx, pair, who)
}

// GetFrozenRate returns the exchange rate frozen when the pair's bootstrap
// ended.
func (k Keeper) GetFrozenRate(ctx context.Context, a, b types.AssetId) (types.ExchangeRate, bool, error) {
	pair, err := types.NewPair(a, b)
	if err != nil {
		return types.ExchangeRate{}, false, err
	}
	return k.getFrozenRate(ctx, pair)
}

// EstimateLpForBootstrap returns the LP shares a contribution of
// (amountA, amountB) would claim if the bootstrap ended with its current
// targets.
func (k Keeper) EstimateLpForBootstrap(ctx context.Context, assetA, assetB types.AssetId, amountA, amountB math.Int) (math.Int, error) {
	pair, err := types.NewPair(assetA, assetB)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := validateAmounts(amountA, amountB); err != nil {
		return math.ZeroInt(), err
	}
	param, err := k.getBootstrapPair(ctx, pair)
	if err != nil {
		return math.ZeroInt(), err
	}
	rate, err := types.BootstrapExchangeRate(param.TargetSupply)
	if err != nil {
		return math.ZeroInt(), err
	}
	return types.ConvertByRate(rate, types.OrientAmounts(pair, assetA, amountA, amountB))
}

// IteratePersonalSupplies iterates over every outstanding bootstrap
// contribution.
func (k Keeper) IteratePersonalSupplies(
	ctx context.Context,
	cb func(pair types.Pair, contributor sdk.AccAddress, amounts types.AmountPair) (stop bool),
) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.PersonalSupplyKeyPrefix)
	defer iterator.Close()

	offset := len(types.PersonalSupplyKeyPrefix)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) <= offset+types.PairKeyLen {
			return fmt.Errorf("IteratePersonalSupplies: malformed key %x", key)
		}
		pair, err := types.PairFromKey(key[offset : offset+types.PairKeyLen])
		if err != nil {
			return fmt.Errorf("IteratePersonalSupplies: %w", err)
		}
		contributor := sdk.AccAddress(append([]byte(nil), key[offset+types.PairKeyLen:]...))

		var amounts types.AmountPair
		if err := json.Unmarshal(iterator.Value(), &amounts); err != nil {
			return fmt.Errorf("IteratePersonalSupplies: unmarshal: %w", err)
		}
		if cb(pair, contributor, amounts) {
			break
		}
	}
	return nil
}

func (k Keeper) getPersonalSupply(ctx context.Context, pair types.Pair, who sdk.AccAddress) (types.AmountPair, bool, error) {
	bz := k.getStore(ctx).Get(types.PersonalSupplyKey(pair, who))
	if bz == nil {
		return types.ZeroAmountPair(), false, nil
	}
	var amounts types.AmountPair
	if err := json.Unmarshal(bz, &amounts); err != nil {
		return types.AmountPair{}, false, fmt.Errorf("getPersonalSupply: unmarshal: %w", err)
	}
	return amounts, true, nil
}

func (k Keeper) setPersonalSupply(ctx context.Context, pair types.Pair, who sdk.AccAddress, amounts types.AmountPair) error {
	bz, err := json.Marshal(amounts)
	if err != nil {
		return fmt.Errorf("setPersonalSupply: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.PersonalSupplyKey(pair, who), bz)
	return nil
}

func (k Keeper) deletePersonalSupply(ctx context.Context, pair types.Pair, who sdk.AccAddress) {
	k.getStore(ctx).Delete(types.PersonalSupplyKey(pair, who))
}

// hasContributions reports whether any contribution to pair is outstanding.
func (k Keeper) hasContributions(ctx context.Context, pair types.Pair) bool {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PersonalSupplyPrefix(pair))
	defer iterator.Close()
	return iterator.Valid()
}

func (k Keeper) getFrozenRate(ctx context.Context, pair types.Pair) (types.ExchangeRate, bool, error) {
	bz := k.getStore(ctx).Get(types.FrozenRateKey(pair))
	if bz == nil {
		return types.ExchangeRate{}, false, nil
	}
	var rate types.ExchangeRate
	if err := json.Unmarshal(bz, &rate); err != nil {
		return types.ExchangeRate{}, false, fmt.Errorf("getFrozenRate: unmarshal: %w", err)
	}
	return rate, true, nil
}

func (k Keeper) setFrozenRate(ctx context.Context, pair types.Pair, rate types.ExchangeRate) error {
	bz, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("setFrozenRate: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.FrozenRateKey(pair), bz)
	return nil
}

func (k Keeper) emitBootstrapEvent(ctx context.Context, eventType string, pair types.Pair, param types.BootstrapParameter) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
			sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
			sdk.NewAttribute(types.AttributeKeyAmount0, param.AccumulatedSupply.Amount0.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, param.AccumulatedSupply.Amount1.String()),
			sdk.NewAttribute(types.AttributeKeyEndBlockNumber, strconv.FormatInt(param.EndBlockNumber, 10)),
		),
	)
}

func (k Keeper) emitPairDeleted(ctx context.Context, pair types.Pair) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairDeleted,
			sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0.String()),
			sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1.String()),
		),
	)
}
