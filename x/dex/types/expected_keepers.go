package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetLedger is the multi-asset balance sheet the dex settles against.
// Every mutating call either applies fully or returns an error.
type AssetLedger interface {
	BalanceOf(ctx context.Context, asset AssetId, account sdk.AccAddress) math.Int
	Transfer(ctx context.Context, asset AssetId, from, to sdk.AccAddress, amount math.Int) error
	// Deposit mints amount of asset to account.
	Deposit(ctx context.Context, asset AssetId, account sdk.AccAddress, amount math.Int) error
	// Withdraw burns amount of asset from account.
	Withdraw(ctx context.Context, asset AssetId, account sdk.AccAddress, amount math.Int) error
}

// SupplyReader is implemented by ledgers that can report total issuance.
// It is optional and only used by invariants.
type SupplyReader interface {
	TotalIssuance(ctx context.Context, asset AssetId) math.Int
}

// BankKeeper defines the subset of the bank keeper backing BankLedger.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
}
