package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/pairswap/pairswap/x/dex/types"
)

// SafeMath provides overflow-safe arithmetic on asset balances. Results are
// bounded by types.MaxAssetBalance rather than the 256-bit math.Int range.

// SafeAdd adds two balances, failing with ErrOverflow past the balance bound.
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.Cmp(types.MaxAssetBalance.BigInt()) > 0 {
		return math.Int{}, types.ErrOverflow.Wrapf("%s + %s exceeds maximum balance", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts b from a, failing with ErrInsufficientLiquidity on underflow.
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf("cannot subtract %s from %s", b, a)
	}
	return math.NewIntFromBigInt(new(big.Int).Sub(a.BigInt(), b.BigInt())), nil
}

// SafeAddPair adds two amount pairs side by side.
func SafeAddPair(a, b types.AmountPair) (types.AmountPair, error) {
	a0, err := SafeAdd(a.Amount0, b.Amount0)
	if err != nil {
		return types.AmountPair{}, err
	}
	a1, err := SafeAdd(a.Amount1, b.Amount1)
	if err != nil {
		return types.AmountPair{}, err
	}
	return types.NewAmountPair(a0, a1), nil
}

// SafeSubPair subtracts b from a side by side.
func SafeSubPair(a, b types.AmountPair) (types.AmountPair, error) {
	a0, err := SafeSub(a.Amount0, b.Amount0)
	if err != nil {
		return types.AmountPair{}, err
	}
	a1, err := SafeSub(a.Amount1, b.Amount1)
	if err != nil {
		return types.AmountPair{}, err
	}
	return types.NewAmountPair(a0, a1), nil
}
