package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// GetParams returns the current parameters from the store
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("GetParams: unmarshal: %w", err)
	}
	return params, nil
}

// setParams writes validated parameters without an authority check.
func (k Keeper) setParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("SetParams: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// SetParams replaces the parameters. Governance only.
func (k Keeper) SetParams(ctx context.Context, authority string, params types.Params) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	if err := k.setParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, authority, params)
	return nil
}

// SetFeeReceiver sets the protocol fee receiver. An empty receiver turns
// the protocol fee off. Governance only.
func (k Keeper) SetFeeReceiver(ctx context.Context, authority, receiver string) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	params.FeeReceiver = receiver
	if err := k.setParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, authority, params)
	return nil
}

// SetFeePoint sets the protocol's share of fee growth, in thirtieths.
// Governance only.
func (k Keeper) SetFeePoint(ctx context.Context, authority string, feePoint uint32) error {
	if err := k.checkAuthority(authority); err != nil {
		return err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	params.FeePoint = feePoint
	if err := k.setParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, authority, params)
	return nil
}

func (k Keeper) emitParamsUpdated(ctx context.Context, authority string, params types.Params) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, authority),
			sdk.NewAttribute(types.AttributeKeyFeeReceiver, params.FeeReceiver),
			sdk.NewAttribute(types.AttributeKeyFeePoint, fmt.Sprintf("%d", params.FeePoint)),
			sdk.NewAttribute(types.AttributeKeyExchangeFee, params.ExchangeFee.String()),
		),
	)
	k.Logger(ctx).Info("params updated", "fee_receiver", params.FeeReceiver, "fee_point", params.FeePoint)
}
