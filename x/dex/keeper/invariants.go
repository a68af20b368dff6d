package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/types"
)

// RegisterInvariants registers all DEX invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "bootstrap-accumulated", BootstrapAccumulatedInvariant(k))
	ir.RegisterRoute(types.ModuleName, "settlement-escrow", SettlementEscrowInvariant(k))
	ir.RegisterRoute(types.ModuleName, "lp-supply", LPSupplyInvariant(k))
}

// AllInvariants runs all invariants of the DEX module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := BootstrapAccumulatedInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = SettlementEscrowInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return LPSupplyInvariant(k)(ctx)
	}
}

// contributionTotals sums outstanding contributions per pair key.
func contributionTotals(ctx sdk.Context, k Keeper) (map[string]types.AmountPair, error) {
	totals := make(map[string]types.AmountPair)
	err := k.IteratePersonalSupplies(ctx, func(pair types.Pair, _ sdk.AccAddress, amounts types.AmountPair) bool {
		key := string(pair.Key())
		sum, ok := totals[key]
		if !ok {
			sum = types.ZeroAmountPair()
		}
		totals[key] = types.NewAmountPair(sum.Amount0.Add(amounts.Amount0), sum.Amount1.Add(amounts.Amount1))
		return false
	})
	return totals, err
}

// BootstrapAccumulatedInvariant checks that the contributions to every
// pair in bootstrap add up to its accumulated supply.
func BootstrapAccumulatedInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		totals, err := contributionTotals(ctx, k)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "bootstrap-accumulated", err.Error()), true
		}

		err = k.IteratePairs(ctx, func(rec types.PairRecord) bool {
			bs, ok := rec.Status.(types.PairBootstrap)
			if !ok {
				return false
			}
			sum, ok := totals[string(rec.Pair.Key())]
			if !ok {
				sum = types.ZeroAmountPair()
			}
			acc := bs.Parameter.AccumulatedSupply
			if !sum.Amount0.Equal(acc.Amount0) || !sum.Amount1.Equal(acc.Amount1) {
				count++
				msg += fmt.Sprintf("pair %s: contributions %s != accumulated %s\n", rec.Pair, sum, acc)
			}
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "bootstrap-accumulated", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "bootstrap-accumulated",
			fmt.Sprintf("found %d pairs with mismatched contributions\n%s", count, msg),
		), broken
	}
}

// SettlementEscrowInvariant checks that the settlement account of every
// pair in bootstrap or awaiting refunds holds the outstanding contributions.
func SettlementEscrowInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		totals, err := contributionTotals(ctx, k)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "settlement-escrow", err.Error()), true
		}

		err = k.IteratePairs(ctx, func(rec types.PairRecord) bool {
			switch rec.Status.(type) {
			case types.PairBootstrap, types.PairDisabled:
			case types.PairEnabled:
				return false
			}
			sum, ok := totals[string(rec.Pair.Key())]
			if !ok {
				return false
			}
			reserve0, reserve1 := k.GetReserves(ctx, rec.Pair)
			if reserve0.LT(sum.Amount0) || reserve1.LT(sum.Amount1) {
				count++
				msg += fmt.Sprintf("pair %s: escrow (%s, %s) < contributions %s\n", rec.Pair, reserve0, reserve1, sum)
			}
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "settlement-escrow", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "settlement-escrow",
			fmt.Sprintf("found %d pairs with under-funded escrow\n%s", count, msg),
		), broken
	}
}

// LPSupplyInvariant checks that the issued LP shares of every enabled pair
// equal its total supply. It only runs when the ledger reports issuance.
func LPSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		supply, ok := k.ledger.(types.SupplyReader)
		if !ok {
			return sdk.FormatInvariant(types.ModuleName, "lp-supply", "ledger does not report issuance"), false
		}

		var (
			msg   string
			count int
		)
		err := k.IteratePairs(ctx, func(rec types.PairRecord) bool {
			enabled, ok := rec.Status.(types.PairEnabled)
			if !ok {
				return false
			}
			issued := supply.TotalIssuance(ctx, rec.Pair.LiquidityAsset())
			total := enabled.Metadata.TotalSupply
			if total.IsNil() {
				total = math.ZeroInt()
			}
			if !issued.Equal(total) {
				count++
				msg += fmt.Sprintf("pair %s: issued %s != total supply %s\n", rec.Pair, issued, total)
			}
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "lp-supply", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "lp-supply",
			fmt.Sprintf("found %d pairs with mismatched LP supply\n%s", count, msg),
		), broken
	}
}
