// Package ledger provides a multi-asset ledger kept in a KV store. It lives
// in the same multistore as the dex module so a cached context reverts its
// writes together with the dex state.
package ledger

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pairswap/pairswap/x/dex/keeper"
	"github.com/pairswap/pairswap/x/dex/types"
)

// StoreName is the store key name of the ledger.
const StoreName = "ledger"

var (
	balanceKeyPrefix = []byte{0x01}
	supplyKeyPrefix  = []byte{0x02}
)

var (
	_ types.AssetLedger  = StoreLedger{}
	_ types.SupplyReader = StoreLedger{}
)

// StoreLedger is an AssetLedger over a KV store.
type StoreLedger struct {
	storeKey storetypes.StoreKey
}

// NewStoreLedger returns a ledger persisted under storeKey.
func NewStoreLedger(storeKey storetypes.StoreKey) StoreLedger {
	return StoreLedger{storeKey: storeKey}
}

func balanceKey(asset types.AssetId, account sdk.AccAddress) []byte {
	key := make([]byte, 0, len(balanceKeyPrefix)+types.AssetIdLen+len(account))
	key = append(key, balanceKeyPrefix...)
	key = append(key, asset.Bytes()...)
	return append(key, account...)
}

func supplyKey(asset types.AssetId) []byte {
	return append(append([]byte{}, supplyKeyPrefix...), asset.Bytes()...)
}

func (l StoreLedger) store(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(l.storeKey)
}

func (l StoreLedger) get(ctx context.Context, key []byte) math.Int {
	bz := l.store(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(fmt.Sprintf("ledger: corrupt amount under %x: %v", key, err))
	}
	return amount
}

func (l StoreLedger) set(ctx context.Context, key []byte, amount math.Int) {
	if amount.IsZero() {
		l.store(ctx).Delete(key)
		return
	}
	bz, err := amount.Marshal()
	if err != nil {
		panic(fmt.Sprintf("ledger: marshal amount: %v", err))
	}
	l.store(ctx).Set(key, bz)
}

// BalanceOf returns the balance of asset held by account.
func (l StoreLedger) BalanceOf(ctx context.Context, asset types.AssetId, account sdk.AccAddress) math.Int {
	return l.get(ctx, balanceKey(asset, account))
}

// TotalIssuance returns the outstanding supply of asset.
func (l StoreLedger) TotalIssuance(ctx context.Context, asset types.AssetId) math.Int {
	return l.get(ctx, supplyKey(asset))
}

// Transfer moves amount of asset between accounts.
func (l StoreLedger) Transfer(ctx context.Context, asset types.AssetId, from, to sdk.AccAddress, amount math.Int) error {
	if err := types.ValidateBalance(amount); err != nil {
		return err
	}
	if amount.IsZero() || from.Equals(to) {
		return nil
	}

	fromKey, toKey := balanceKey(asset, from), balanceKey(asset, to)
	fromBalance, err := keeper.SafeSub(l.get(ctx, fromKey), amount)
	if err != nil {
		return types.ErrInsufficientAssetBalance.Wrapf("%s: %s cannot send %s", asset, from, amount)
	}
	toBalance, err := keeper.SafeAdd(l.get(ctx, toKey), amount)
	if err != nil {
		return err
	}
	l.set(ctx, fromKey, fromBalance)
	l.set(ctx, toKey, toBalance)
	return nil
}

// Deposit mints amount of asset into account.
func (l StoreLedger) Deposit(ctx context.Context, asset types.AssetId, account sdk.AccAddress, amount math.Int) error {
	if err := types.ValidateBalance(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	supply, err := keeper.SafeAdd(l.TotalIssuance(ctx, asset), amount)
	if err != nil {
		return err
	}
	key := balanceKey(asset, account)
	balance, err := keeper.SafeAdd(l.get(ctx, key), amount)
	if err != nil {
		return err
	}
	l.set(ctx, supplyKey(asset), supply)
	l.set(ctx, key, balance)
	return nil
}

// Withdraw burns amount of asset from account.
func (l StoreLedger) Withdraw(ctx context.Context, asset types.AssetId, account sdk.AccAddress, amount math.Int) error {
	if err := types.ValidateBalance(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	key := balanceKey(asset, account)
	balance, err := keeper.SafeSub(l.get(ctx, key), amount)
	if err != nil {
		return types.ErrInsufficientAssetBalance.Wrapf("%s: %s cannot burn %s", asset, account, amount)
	}
	supply, err := keeper.SafeSub(l.TotalIssuance(ctx, asset), amount)
	if err != nil {
		return fmt.Errorf("ledger: supply of %s below burned amount: %w", asset, err)
	}
	l.set(ctx, key, balance)
	l.set(ctx, supplyKey(asset), supply)
	return nil
}
