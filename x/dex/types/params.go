package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
const (
	DefaultFeeNumerator   uint64 = 3
	DefaultFeeDenominator uint64 = 1000
	DefaultFeePoint       uint32 = 5
	DefaultMaxPathLength  uint32 = 6
)

// ExchangeFee is the trading fee charged on swap inputs, as a fraction.
type ExchangeFee struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// Validate requires 0 <= Numerator < Denominator.
func (f ExchangeFee) Validate() error {
	if f.Denominator == 0 {
		return fmt.Errorf("exchange fee denominator must be positive")
	}
	if f.Numerator >= f.Denominator {
		return fmt.Errorf("exchange fee %d/%d must be below 100%%", f.Numerator, f.Denominator)
	}
	return nil
}

func (f ExchangeFee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// Params holds the dex configuration.
type Params struct {
	ExchangeFee ExchangeFee `json:"exchange_fee" mapstructure:"exchange_fee"`
	// FeeReceiver receives protocol fee LP shares. Empty disables the protocol fee.
	FeeReceiver string `json:"fee_receiver" mapstructure:"fee_receiver"`
	// FeePoint is the protocol's share of fee growth in thirtieths.
	FeePoint uint32 `json:"fee_point" mapstructure:"fee_point"`
	// MaxPathLength bounds swap paths; zero means unbounded.
	MaxPathLength uint32 `json:"max_path_length" mapstructure:"max_path_length"`
}

// DefaultParams returns default parameters for the dex module
func DefaultParams() Params {
	return Params{
		ExchangeFee: ExchangeFee{
			Numerator:   DefaultFeeNumerator,
			Denominator: DefaultFeeDenominator,
		}, // 0.3%
		FeeReceiver:   "",
		FeePoint:      DefaultFeePoint, // 1/6 of fee growth
		MaxPathLength: DefaultMaxPathLength,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if err := p.ExchangeFee.Validate(); err != nil {
		return ErrInvalidParams.Wrap(err.Error())
	}
	if p.FeePoint == 0 || p.FeePoint > FeePointBase {
		return ErrInvalidParams.Wrapf("fee point must be in [1, %d], got %d", FeePointBase, p.FeePoint)
	}
	if p.FeeReceiver != "" {
		if _, err := sdk.AccAddressFromBech32(p.FeeReceiver); err != nil {
			return ErrInvalidParams.Wrapf("fee receiver: %v", err)
		}
	}
	if p.MaxPathLength == 1 {
		return ErrInvalidParams.Wrap("max path length must allow at least one hop")
	}
	return nil
}

// FeeReceiverAddress returns the configured fee receiver, if any.
func (p Params) FeeReceiverAddress() (sdk.AccAddress, bool) {
	if p.FeeReceiver == "" {
		return nil, false
	}
	addr, err := sdk.AccAddressFromBech32(p.FeeReceiver)
	if err != nil {
		return nil, false
	}
	return addr, true
}
