package types

import (
	"math/big"

	"cosmossdk.io/math"
)

// FeePointBase is the denominator of FeePoint: the protocol receives
// FeePoint/FeePointBase of the fee-bearing invariant growth.
const FeePointBase = 30

var (
	bigOne = big.NewInt(1)

	maxBalanceBig = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 128), bigOne)

	// MaxAssetBalance is the largest representable asset amount (2^128 - 1).
	MaxAssetBalance = math.NewIntFromBigInt(maxBalanceBig)

	precisionMultiplier = new(big.Int).Exp(big.NewInt(10), big.NewInt(math.LegacyPrecision), nil)
)

// ValidateBalance checks that an amount is a valid asset balance.
func ValidateBalance(x math.Int) error {
	if x.IsNil() {
		return ErrInvalidAmount.Wrap("amount is nil")
	}
	if x.IsNegative() {
		return ErrInvalidAmount.Wrapf("amount %s is negative", x)
	}
	if x.GT(MaxAssetBalance) {
		return ErrOverflow.Wrapf("amount %s exceeds maximum balance", x)
	}
	return nil
}

// toBalance narrows a wide intermediate to an asset balance.
func toBalance(b *big.Int) (math.Int, bool) {
	if b.Sign() < 0 || b.Cmp(maxBalanceBig) > 0 {
		return math.ZeroInt(), false
	}
	return math.NewIntFromBigInt(b), true
}

func bigOf(x math.Int) *big.Int {
	if x.IsNil() {
		return new(big.Int)
	}
	return x.BigInt()
}

// CalculateShareAmount returns floor(amount * reserveTo / reserveFrom). The
// product is taken in double width; a zero divisor or a quotient that does
// not fit a balance yields zero.
func CalculateShareAmount(amount, reserveFrom, reserveTo math.Int) math.Int {
	if reserveFrom.IsNil() || reserveFrom.IsZero() {
		return math.ZeroInt()
	}
	num := new(big.Int).Mul(bigOf(amount), bigOf(reserveTo))
	q := num.Quo(num, bigOf(reserveFrom))
	res, _ := toBalance(q)
	return res
}

// CalculateAddedAmount picks the deposit amounts that match the current
// reserve ratio within the caller's desired and minimum bounds. Empty
// reserves accept the desired amounts as-is.
func CalculateAddedAmount(desired0, desired1, min0, min1, reserve0, reserve1 math.Int) (math.Int, math.Int, error) {
	if reserve0.IsZero() || reserve1.IsZero() {
		return desired0, desired1, nil
	}

	optimal1 := CalculateShareAmount(desired0, reserve0, reserve1)
	if optimal1.LTE(desired1) {
		if optimal1.LT(min1) {
			return math.Int{}, math.Int{}, ErrIncorrectAssetAmountRange.Wrapf(
				"optimal amount %s below minimum %s", optimal1, min1)
		}
		return desired0, optimal1, nil
	}

	optimal0 := CalculateShareAmount(desired1, reserve1, reserve0)
	if optimal0.GT(desired0) || optimal0.LT(min0) {
		return math.Int{}, math.Int{}, ErrIncorrectAssetAmountRange.Wrapf(
			"optimal amount %s outside [%s, %s]", optimal0, min0, desired0)
	}
	return optimal0, desired1, nil
}

// CalculateLiquidity returns the LP shares minted for a deposit. The first
// deposit mints the geometric mean of the amounts; later deposits mint the
// smaller of the two proportional shares.
func CalculateLiquidity(amount0, amount1, reserve0, reserve1, totalSupply math.Int) math.Int {
	if totalSupply.IsZero() {
		product := new(big.Int).Mul(bigOf(amount0), bigOf(amount1))
		res, _ := toBalance(product.Sqrt(product))
		return res
	}
	return math.MinInt(
		CalculateShareAmount(amount0, reserve0, totalSupply),
		CalculateShareAmount(amount1, reserve1, totalSupply),
	)
}

// GetAmountOut prices an exact input against the reserves, charging the
// exchange fee on the input. Any zero operand yields zero.
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int, fee ExchangeFee) math.Int {
	if amountIn.IsZero() || reserveIn.IsZero() || reserveOut.IsZero() {
		return math.ZeroInt()
	}

	inWithFee := new(big.Int).Mul(bigOf(amountIn), new(big.Int).SetUint64(fee.Denominator-fee.Numerator))
	num := new(big.Int).Mul(inWithFee, bigOf(reserveOut))
	den := new(big.Int).Mul(bigOf(reserveIn), new(big.Int).SetUint64(fee.Denominator))
	den.Add(den, inWithFee)
	if den.Sign() == 0 {
		return math.ZeroInt()
	}

	res, _ := toBalance(num.Quo(num, den))
	return res
}

// GetAmountIn returns the input needed to receive amountOut, rounded up so
// the payer is never under-charged. An exact quotient is not bumped, so
// quoting the output of GetAmountOut never asks for more than its input.
// Any zero operand, or an output that would drain the reserve, yields zero.
func GetAmountIn(amountOut, reserveIn, reserveOut math.Int, fee ExchangeFee) math.Int {
	if amountOut.IsZero() || reserveIn.IsZero() || reserveOut.IsZero() {
		return math.ZeroInt()
	}

	num := new(big.Int).Mul(bigOf(reserveIn), bigOf(amountOut))
	num.Mul(num, new(big.Int).SetUint64(fee.Denominator))

	remaining := new(big.Int).Sub(bigOf(reserveOut), bigOf(amountOut))
	if remaining.Sign() <= 0 {
		return math.ZeroInt()
	}
	den := remaining.Mul(remaining, new(big.Int).SetUint64(fee.Denominator-fee.Numerator))
	if den.Sign() == 0 {
		return math.ZeroInt()
	}

	// ceil(num / den)
	num.Add(num, den)
	num.Sub(num, bigOne)
	res, _ := toBalance(num.Quo(num, den))
	return res
}

// ReserveProduct returns reserve0 * reserve1.
func ReserveProduct(reserve0, reserve1 math.Int) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Mul(bigOf(reserve0), bigOf(reserve1)))
}

// InvariantHolds reports whether moving amountIn into and amountOut out of
// the reserves keeps the reserve product from decreasing.
func InvariantHolds(reserveIn, reserveOut, amountIn, amountOut math.Int) bool {
	if amountOut.GT(reserveOut) {
		return false
	}
	before := new(big.Int).Mul(bigOf(reserveIn), bigOf(reserveOut))
	after := new(big.Int).Add(bigOf(reserveIn), bigOf(amountIn))
	after.Mul(after, new(big.Int).Sub(bigOf(reserveOut), bigOf(amountOut)))
	return after.Cmp(before) >= 0
}

// FixFeePoint returns (FeePointBase - feePoint) / feePoint, truncated.
func FixFeePoint(feePoint uint32) uint64 {
	if feePoint == 0 || feePoint > FeePointBase {
		return 0
	}
	return uint64((FeePointBase - feePoint) / feePoint)
}

// ProtocolFeeLiquidity returns the LP shares owed to the protocol for the
// growth of sqrt(reserve0*reserve1) over sqrt(kLast):
//
//	totalSupply * (rootK - rootKLast) / (rootK * fixFeePoint + rootKLast)
func ProtocolFeeLiquidity(reserve0, reserve1, kLast, totalSupply math.Int, feePoint uint32) math.Int {
	if kLast.IsZero() || totalSupply.IsZero() {
		return math.ZeroInt()
	}

	k := new(big.Int).Mul(bigOf(reserve0), bigOf(reserve1))
	rootK := k.Sqrt(k)
	rootKLast := new(big.Int).Sqrt(bigOf(kLast))
	if rootK.Cmp(rootKLast) <= 0 {
		return math.ZeroInt()
	}

	num := new(big.Int).Sub(rootK, rootKLast)
	num.Mul(num, bigOf(totalSupply))

	den := new(big.Int).Mul(rootK, new(big.Int).SetUint64(FixFeePoint(feePoint)))
	den.Add(den, rootKLast)
	if den.Sign() == 0 {
		return math.ZeroInt()
	}

	res, _ := toBalance(num.Quo(num, den))
	return res
}

// BootstrapExchangeRate freezes the rates used to convert contributions
// into LP shares: side 0 is the reference (1.0), side 1 is
// target0 / target1.
func BootstrapExchangeRate(target AmountPair) (ExchangeRate, error) {
	if !target.Amount0.IsPositive() || !target.Amount1.IsPositive() {
		return ExchangeRate{}, ErrInvalidBootstrapParameter.Wrap("target supply must be positive on both sides")
	}
	scaled := new(big.Int).Mul(bigOf(target.Amount0), precisionMultiplier)
	scaled.Quo(scaled, bigOf(target.Amount1))
	return ExchangeRate{
		Rate0: math.LegacyOneDec(),
		Rate1: math.LegacyNewDecFromBigIntWithPrec(scaled, math.LegacyPrecision),
	}, nil
}

// ConvertByRate returns floor(rate0*amount0 + rate1*amount1).
func ConvertByRate(rate ExchangeRate, amounts AmountPair) (math.Int, error) {
	sum := new(big.Int).Mul(rate.Rate0.BigInt(), bigOf(amounts.Amount0))
	sum.Add(sum, new(big.Int).Mul(rate.Rate1.BigInt(), bigOf(amounts.Amount1)))
	sum.Quo(sum, precisionMultiplier)

	res, ok := toBalance(sum)
	if !ok {
		return math.ZeroInt(), ErrOverflow.Wrapf("converted liquidity %s exceeds maximum balance", sum)
	}
	return res, nil
}
