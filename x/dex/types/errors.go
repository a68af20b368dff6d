package types

import (
	"cosmossdk.io/errors"
)

// DEX module sentinel errors
var (
	ErrPairNotExists             = errors.Register(ModuleName, 2, "pair does not exist or is not enabled")
	ErrNotInBootstrap            = errors.Register(ModuleName, 3, "pair is not in bootstrap")
	ErrInsufficientAssetBalance  = errors.Register(ModuleName, 4, "insufficient asset balance")
	ErrInsufficientLiquidity     = errors.Register(ModuleName, 5, "insufficient liquidity")
	ErrInsufficientTargetAmount  = errors.Register(ModuleName, 6, "insufficient target amount")
	ErrExcessiveSoldAmount       = errors.Register(ModuleName, 7, "excessive sold amount")
	ErrIncorrectAssetAmountRange = errors.Register(ModuleName, 8, "incorrect asset amount range")
	ErrInvalidPath               = errors.Register(ModuleName, 9, "invalid swap path")
	ErrInvariantCheckFailed      = errors.Register(ModuleName, 10, "constant product invariant check failed")
	ErrInsufficientPairReserve   = errors.Register(ModuleName, 11, "insufficient pair reserve")
	ErrInvalidContributionAmount = errors.Register(ModuleName, 12, "invalid contribution amount")
	ErrUnqualifiedBootstrap      = errors.Register(ModuleName, 13, "bootstrap is not qualified to end")
	ErrZeroContribute            = errors.Register(ModuleName, 14, "no bootstrap contribution found")
	ErrOverflow                  = errors.Register(ModuleName, 15, "arithmetic overflow")

	ErrPairAlreadyExists         = errors.Register(ModuleName, 20, "pair already exists")
	ErrIdenticalAssets           = errors.Register(ModuleName, 21, "identical assets")
	ErrInvalidAsset              = errors.Register(ModuleName, 22, "invalid asset id")
	ErrInvalidBootstrapParameter = errors.Register(ModuleName, 23, "invalid bootstrap parameter")
	ErrDenyRefund                = errors.Register(ModuleName, 24, "refund requires a disabled pair")
	ErrUnauthorized              = errors.Register(ModuleName, 25, "unauthorized")
	ErrInvalidParams             = errors.Register(ModuleName, 26, "invalid params")
	ErrInvalidGenesis            = errors.Register(ModuleName, 27, "invalid genesis state")
	ErrInvalidAddress            = errors.Register(ModuleName, 28, "invalid address")
	ErrInvalidAmount             = errors.Register(ModuleName, 29, "invalid amount")
)
