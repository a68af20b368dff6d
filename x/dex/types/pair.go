package types

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// PairKeyLen is the length of a canonical pair key.
const PairKeyLen = 2 * AssetIdLen

// Pair is an unordered asset pair stored in canonical (sorted) form:
// Asset0 always orders before Asset1.
type Pair struct {
	Asset0 AssetId `json:"asset_0"`
	Asset1 AssetId `json:"asset_1"`
}

// SortAssets returns the canonical ordering of two asset ids.
func SortAssets(a, b AssetId) (AssetId, AssetId) {
	if a.Less(b) {
		return a, b
	}
	return b, a
}

// NewPair returns the canonical pair of two distinct assets.
func NewPair(a, b AssetId) (Pair, error) {
	if a == b {
		return Pair{}, ErrIdenticalAssets.Wrapf("asset %s", a)
	}
	low, high := SortAssets(a, b)
	return Pair{Asset0: low, Asset1: high}, nil
}

// MustNewPair is NewPair for assets known to differ.
func MustNewPair(a, b AssetId) Pair {
	p, err := NewPair(a, b)
	if err != nil {
		panic(err)
	}
	return p
}

// Key returns the store key fragment of the pair.
func (p Pair) Key() []byte {
	key := make([]byte, 0, PairKeyLen)
	key = append(key, p.Asset0.Bytes()...)
	return append(key, p.Asset1.Bytes()...)
}

// PairFromKey decodes a key produced by Pair.Key.
func PairFromKey(bz []byte) (Pair, error) {
	if len(bz) != PairKeyLen {
		return Pair{}, ErrInvalidAsset.Wrapf("pair key must be %d bytes, got %d", PairKeyLen, len(bz))
	}
	a0, err := AssetIdFromBytes(bz[:AssetIdLen])
	if err != nil {
		return Pair{}, err
	}
	a1, err := AssetIdFromBytes(bz[AssetIdLen:])
	if err != nil {
		return Pair{}, err
	}
	return NewPair(a0, a1)
}

// Validate checks the pair is in canonical form.
func (p Pair) Validate() error {
	if p.Asset0 == p.Asset1 {
		return ErrIdenticalAssets.Wrapf("asset %s", p.Asset0)
	}
	if !p.Asset0.Less(p.Asset1) {
		return ErrInvalidAsset.Wrapf("pair %s is not canonical", p)
	}
	return nil
}

// Contains reports whether the asset is one side of the pair.
func (p Pair) Contains(a AssetId) bool {
	return p.Asset0 == a || p.Asset1 == a
}

// Account derives the settlement account holding the pair's reserves.
func (p Pair) Account() sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, p.Key()))
}

// LiquidityAsset returns the LP share asset tied to the pair.
func (p Pair) LiquidityAsset() AssetId {
	h := sha256.Sum256(p.Key())
	return AssetId{
		ChainId:    p.Asset0.ChainId,
		AssetType:  AssetTypeLiquidity,
		AssetIndex: binary.BigEndian.Uint64(h[:8]),
	}
}

func (p Pair) String() string {
	return fmt.Sprintf("%s-%s", p.Asset0, p.Asset1)
}

// AmountPair holds one amount per side of a pair, in pair order.
type AmountPair struct {
	Amount0 math.Int `json:"amount_0"`
	Amount1 math.Int `json:"amount_1"`
}

// NewAmountPair returns an AmountPair.
func NewAmountPair(a0, a1 math.Int) AmountPair {
	return AmountPair{Amount0: a0, Amount1: a1}
}

// ZeroAmountPair returns (0, 0).
func ZeroAmountPair() AmountPair {
	return AmountPair{Amount0: math.ZeroInt(), Amount1: math.ZeroInt()}
}

// Oriented returns the amounts ordered so they match (a, b) where a is one
// of the pair's assets.
func (ap AmountPair) Oriented(p Pair, a AssetId) (math.Int, math.Int) {
	if a == p.Asset0 {
		return ap.Amount0, ap.Amount1
	}
	return ap.Amount1, ap.Amount0
}

// IsZero reports whether both sides are zero.
func (ap AmountPair) IsZero() bool {
	return ap.Amount0.IsZero() && ap.Amount1.IsZero()
}

// Validate requires both amounts to be set and within balance range.
func (ap AmountPair) Validate() error {
	if err := ValidateBalance(ap.Amount0); err != nil {
		return err
	}
	return ValidateBalance(ap.Amount1)
}

func (ap AmountPair) String() string {
	return fmt.Sprintf("(%s, %s)", ap.Amount0, ap.Amount1)
}

// OrientAmounts maps amounts given in caller order (a, b) onto pair order.
func OrientAmounts(p Pair, a AssetId, amountA, amountB math.Int) AmountPair {
	if a == p.Asset0 {
		return NewAmountPair(amountA, amountB)
	}
	return NewAmountPair(amountB, amountA)
}
