package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/pairswap/pairswap/x/dex/types"
)

var (
	_ types.AssetLedger  = BankLedger{}
	_ types.SupplyReader = BankLedger{}
)

// BankLedger settles dex assets as bank coins. Each AssetId maps to the
// denom returned by AssetId.Denom; mint and burn go through the dex module
// account, which needs the Minter and Burner permissions.
type BankLedger struct {
	bank types.BankKeeper
}

// NewBankLedger returns an AssetLedger backed by the bank keeper.
func NewBankLedger(bank types.BankKeeper) BankLedger {
	return BankLedger{bank: bank}
}

// BalanceOf returns the balance of asset held by account.
func (l BankLedger) BalanceOf(ctx context.Context, asset types.AssetId, account sdk.AccAddress) math.Int {
	return l.bank.GetBalance(ctx, account, asset.Denom()).Amount
}

// TotalIssuance returns the bank supply of asset.
func (l BankLedger) TotalIssuance(ctx context.Context, asset types.AssetId) math.Int {
	return l.bank.GetSupply(ctx, asset.Denom()).Amount
}

// Transfer moves amount of asset between accounts.
func (l BankLedger) Transfer(ctx context.Context, asset types.AssetId, from, to sdk.AccAddress, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	coins, err := coinsOf(asset, amount)
	if err != nil {
		return err
	}
	return mapBankError(l.bank.SendCoins(ctx, from, to, coins))
}

// Deposit mints amount of asset into account.
func (l BankLedger) Deposit(ctx context.Context, asset types.AssetId, account sdk.AccAddress, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	coins, err := coinsOf(asset, amount)
	if err != nil {
		return err
	}
	if err := l.bank.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return mapBankError(err)
	}
	return mapBankError(l.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, account, coins))
}

// Withdraw burns amount of asset from account.
func (l BankLedger) Withdraw(ctx context.Context, asset types.AssetId, account sdk.AccAddress, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	coins, err := coinsOf(asset, amount)
	if err != nil {
		return err
	}
	if err := l.bank.SendCoinsFromAccountToModule(ctx, account, types.ModuleName, coins); err != nil {
		return mapBankError(err)
	}
	return mapBankError(l.bank.BurnCoins(ctx, types.ModuleName, coins))
}

func coinsOf(asset types.AssetId, amount math.Int) (sdk.Coins, error) {
	if err := types.ValidateBalance(amount); err != nil {
		return nil, err
	}
	return sdk.NewCoins(sdk.NewCoin(asset.Denom(), amount)), nil
}

// mapBankError translates bank failures into the dex error taxonomy.
func mapBankError(err error) error {
	if err == nil {
		return nil
	}
	if errorsmod.IsOf(err, sdkerrors.ErrInsufficientFunds) {
		return types.ErrInsufficientAssetBalance.Wrap(err.Error())
	}
	return err
}
