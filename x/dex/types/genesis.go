package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the dex state exported and imported at chain genesis.
type GenesisState struct {
	Params        Params               `json:"params"`
	Pairs         []PairRecord         `json:"pairs"`
	Contributions []ContributionRecord `json:"contributions"`
	KLasts        []KLastRecord        `json:"k_lasts"`
	FrozenRates   []FrozenRateRecord   `json:"frozen_rates"`
}

// ContributionRecord is one contributor's outstanding bootstrap supply.
type ContributionRecord struct {
	Pair        Pair       `json:"pair"`
	Contributor string     `json:"contributor"`
	Amounts     AmountPair `json:"amounts"`
}

// KLastRecord is a pair's reserve product watermark.
type KLastRecord struct {
	Pair  Pair     `json:"pair"`
	KLast math.Int `json:"k_last"`
}

// FrozenRateRecord is the exchange rate frozen for an ended bootstrap.
type FrozenRateRecord struct {
	Pair Pair         `json:"pair"`
	Rate ExchangeRate `json:"rate"`
}

// DefaultGenesis returns the default genesis state for the DEX module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:        DefaultParams(),
		Pairs:         []PairRecord{},
		Contributions: []ContributionRecord{},
		KLasts:        []KLastRecord{},
		FrozenRates:   []FrozenRateRecord{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	statuses := make(map[string]PairStatus, len(gs.Pairs))
	for _, rec := range gs.Pairs {
		if err := rec.Pair.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		key := string(rec.Pair.Key())
		if _, dup := statuses[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pair %s", rec.Pair)
		}
		switch st := rec.Status.(type) {
		case PairDisabled:
		case PairBootstrap:
			if err := st.Parameter.Validate(); err != nil {
				return ErrInvalidGenesis.Wrapf("pair %s: %v", rec.Pair, err)
			}
		case PairEnabled:
			if err := st.Metadata.Validate(rec.Pair); err != nil {
				return err
			}
		default:
			return ErrInvalidGenesis.Wrapf("pair %s: unknown status %T", rec.Pair, rec.Status)
		}
		statuses[key] = rec.Status
	}

	// Contributions of a bootstrapping pair must add up to its accumulated supply.
	accumulated := make(map[string]AmountPair)
	seen := make(map[string]struct{}, len(gs.Contributions))
	for _, c := range gs.Contributions {
		status, ok := statuses[string(c.Pair.Key())]
		if !ok {
			return ErrInvalidGenesis.Wrapf("contribution for unregistered pair %s", c.Pair)
		}
		if _, err := sdk.AccAddressFromBech32(c.Contributor); err != nil {
			return ErrInvalidGenesis.Wrapf("contributor %q: %v", c.Contributor, err)
		}
		if err := c.Amounts.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("contribution of %s: %v", c.Contributor, err)
		}
		if c.Amounts.IsZero() {
			return ErrInvalidGenesis.Wrapf("empty contribution of %s", c.Contributor)
		}
		id := fmt.Sprintf("%x/%s", c.Pair.Key(), c.Contributor)
		if _, dup := seen[id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate contribution of %s to %s", c.Contributor, c.Pair)
		}
		seen[id] = struct{}{}

		if _, isBootstrap := status.(PairBootstrap); isBootstrap {
			key := string(c.Pair.Key())
			sum, ok := accumulated[key]
			if !ok {
				sum = ZeroAmountPair()
			}
			accumulated[key] = NewAmountPair(sum.Amount0.Add(c.Amounts.Amount0), sum.Amount1.Add(c.Amounts.Amount1))
		}
	}
	for key, status := range statuses {
		bs, ok := status.(PairBootstrap)
		if !ok {
			continue
		}
		sum, ok := accumulated[key]
		if !ok {
			sum = ZeroAmountPair()
		}
		acc := bs.Parameter.AccumulatedSupply
		if !sum.Amount0.Equal(acc.Amount0) || !sum.Amount1.Equal(acc.Amount1) {
			return ErrInvalidGenesis.Wrapf("contributions %s do not match accumulated supply %s", sum, acc)
		}
	}

	for _, kl := range gs.KLasts {
		status, ok := statuses[string(kl.Pair.Key())]
		if !ok || status.Kind() != StatusEnabled {
			return ErrInvalidGenesis.Wrapf("k_last for pair %s that is not enabled", kl.Pair)
		}
		if kl.KLast.IsNil() || kl.KLast.IsNegative() {
			return ErrInvalidGenesis.Wrapf("pair %s: invalid k_last", kl.Pair)
		}
	}

	for _, fr := range gs.FrozenRates {
		status, ok := statuses[string(fr.Pair.Key())]
		if !ok || status.Kind() != StatusEnabled {
			return ErrInvalidGenesis.Wrapf("frozen rate for pair %s that is not enabled", fr.Pair)
		}
		if err := fr.Rate.Validate(); err != nil {
			return err
		}
	}
	return nil
}
