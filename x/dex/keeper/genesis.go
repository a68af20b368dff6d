package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// InitGenesis initializes the dex module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}

	if err := k.setParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, rec := range genState.Pairs {
		if err := k.setPairStatus(ctx, rec.Pair, rec.Status); err != nil {
			return fmt.Errorf("failed to set pair %s: %w", rec.Pair, err)
		}
	}

	for _, c := range genState.Contributions {
		contributor, err := sdk.AccAddressFromBech32(c.Contributor)
		if err != nil {
			return fmt.Errorf("invalid contributor address %s: %w", c.Contributor, err)
		}
		if err := k.setPersonalSupply(ctx, c.Pair, contributor, c.Amounts); err != nil {
			return fmt.Errorf("failed to set contribution of %s to %s: %w", c.Contributor, c.Pair, err)
		}
	}

	for _, kl := range genState.KLasts {
		if err := k.setKLast(ctx, kl.Pair, kl.KLast); err != nil {
			return fmt.Errorf("failed to set k_last of %s: %w", kl.Pair, err)
		}
	}

	for _, fr := range genState.FrozenRates {
		if err := k.setFrozenRate(ctx, fr.Pair, fr.Rate); err != nil {
			return fmt.Errorf("failed to set frozen rate of %s: %w", fr.Pair, err)
		}
	}

	return nil
}

// ExportGenesis returns the dex module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}

	genesis := types.DefaultGenesis()
	genesis.Params = params

	pairs, err := k.GetAllPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pairs: %w", err)
	}
	if pairs != nil {
		genesis.Pairs = pairs
	}

	err = k.IteratePersonalSupplies(ctx, func(pair types.Pair, contributor sdk.AccAddress, amounts types.AmountPair) bool {
		genesis.Contributions = append(genesis.Contributions, types.ContributionRecord{
			Pair:        pair,
			Contributor: contributor.String(),
			Amounts:     amounts,
		})
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}

	for _, rec := range genesis.Pairs {
		if rec.Status.Kind() != types.StatusEnabled {
			continue
		}
		kLast, err := k.GetKLast(ctx, rec.Pair)
		if err != nil {
			return nil, err
		}
		if !kLast.IsZero() {
			genesis.KLasts = append(genesis.KLasts, types.KLastRecord{Pair: rec.Pair, KLast: kLast})
		}
		rate, found, err := k.getFrozenRate(ctx, rec.Pair)
		if err != nil {
			return nil, err
		}
		if found {
			genesis.FrozenRates = append(genesis.FrozenRates, types.FrozenRateRecord{Pair: rec.Pair, Rate: rate})
		}
	}

	return genesis, nil
}
