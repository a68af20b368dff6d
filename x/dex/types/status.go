package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StatusKind names a pair lifecycle state.
type StatusKind string

const (
	StatusDisabled  StatusKind = "disabled"
	StatusBootstrap StatusKind = "bootstrap"
	StatusEnabled   StatusKind = "enabled"
)

// PairStatus is the lifecycle state of a pair. Exactly one of PairDisabled,
// PairBootstrap or PairEnabled holds at any time.
type PairStatus interface {
	Kind() StatusKind
	isPairStatus()
}

// PairDisabled is the state of an absent or abandoned pair.
type PairDisabled struct{}

// PairBootstrap is the state of a pair collecting its initial liquidity.
type PairBootstrap struct {
	Parameter BootstrapParameter
}

// PairEnabled is the state of a tradeable pair.
type PairEnabled struct {
	Metadata PairMetadata
}

func (PairDisabled) Kind() StatusKind  { return StatusDisabled }
func (PairBootstrap) Kind() StatusKind { return StatusBootstrap }
func (PairEnabled) Kind() StatusKind   { return StatusEnabled }

func (PairDisabled) isPairStatus()  {}
func (PairBootstrap) isPairStatus() {}
func (PairEnabled) isPairStatus()   {}

// PairMetadata describes an enabled pair.
type PairMetadata struct {
	SettlementAccount sdk.AccAddress `json:"settlement_account"`
	TotalSupply       math.Int       `json:"total_supply"`
}

// Validate checks the metadata of the given pair.
func (m PairMetadata) Validate(p Pair) error {
	if !m.SettlementAccount.Equals(p.Account()) {
		return ErrInvalidGenesis.Wrapf("pair %s: settlement account mismatch", p)
	}
	return ValidateBalance(m.TotalSupply)
}

// BootstrapParameter configures and tracks the bootstrap phase of a pair.
// All amount pairs are in pair order.
type BootstrapParameter struct {
	MinContribution   AmountPair `json:"min_contribution"`
	TargetSupply      AmountPair `json:"target_supply"`
	AccumulatedSupply AmountPair `json:"accumulated_supply"`
	EndBlockNumber    int64      `json:"end_block_number"`
}

// Validate checks the static configuration of a bootstrap.
func (bp BootstrapParameter) Validate() error {
	if err := bp.MinContribution.Validate(); err != nil {
		return ErrInvalidBootstrapParameter.Wrapf("min contribution: %v", err)
	}
	if err := bp.TargetSupply.Validate(); err != nil {
		return ErrInvalidBootstrapParameter.Wrapf("target supply: %v", err)
	}
	if err := bp.AccumulatedSupply.Validate(); err != nil {
		return ErrInvalidBootstrapParameter.Wrapf("accumulated supply: %v", err)
	}
	if !bp.TargetSupply.Amount0.IsPositive() || !bp.TargetSupply.Amount1.IsPositive() {
		return ErrInvalidBootstrapParameter.Wrap("target supply must be positive on both sides")
	}
	if bp.EndBlockNumber <= 0 {
		return ErrInvalidBootstrapParameter.Wrapf("end block number must be positive, got %d", bp.EndBlockNumber)
	}
	return nil
}

// Qualified reports whether the accumulated totals reached their targets.
func (bp BootstrapParameter) Qualified() bool {
	return bp.AccumulatedSupply.Amount0.GTE(bp.TargetSupply.Amount0) &&
		bp.AccumulatedSupply.Amount1.GTE(bp.TargetSupply.Amount1)
}

// pairStatusRecord is the persisted form of a PairStatus.
type pairStatusRecord struct {
	Kind      StatusKind          `json:"kind"`
	Bootstrap *BootstrapParameter `json:"bootstrap,omitempty"`
	Metadata  *PairMetadata       `json:"metadata,omitempty"`
}

// MarshalPairStatus encodes a status for storage.
func MarshalPairStatus(s PairStatus) ([]byte, error) {
	var rec pairStatusRecord
	switch st := s.(type) {
	case PairDisabled:
		rec.Kind = StatusDisabled
	case PairBootstrap:
		param := st.Parameter
		rec.Kind = StatusBootstrap
		rec.Bootstrap = &param
	case PairEnabled:
		meta := st.Metadata
		rec.Kind = StatusEnabled
		rec.Metadata = &meta
	default:
		return nil, fmt.Errorf("MarshalPairStatus: unknown status %T", s)
	}
	return json.Marshal(rec)
}

// UnmarshalPairStatus decodes a status written by MarshalPairStatus.
func UnmarshalPairStatus(bz []byte) (PairStatus, error) {
	var rec pairStatusRecord
	if err := json.Unmarshal(bz, &rec); err != nil {
		return nil, fmt.Errorf("UnmarshalPairStatus: %w", err)
	}
	switch rec.Kind {
	case StatusDisabled:
		return PairDisabled{}, nil
	case StatusBootstrap:
		if rec.Bootstrap == nil {
			return nil, fmt.Errorf("UnmarshalPairStatus: bootstrap record without parameter")
		}
		return PairBootstrap{Parameter: *rec.Bootstrap}, nil
	case StatusEnabled:
		if rec.Metadata == nil {
			return nil, fmt.Errorf("UnmarshalPairStatus: enabled record without metadata")
		}
		return PairEnabled{Metadata: *rec.Metadata}, nil
	default:
		return nil, fmt.Errorf("UnmarshalPairStatus: unknown kind %q", rec.Kind)
	}
}

// PairRecord is a pair together with its status, used by genesis and queries.
type PairRecord struct {
	Pair   Pair       `json:"pair"`
	Status PairStatus `json:"-"`
}

type pairRecordJSON struct {
	Pair   Pair            `json:"pair"`
	Status json.RawMessage `json:"status"`
}

// MarshalJSON implements json.Marshaler.
func (r PairRecord) MarshalJSON() ([]byte, error) {
	status := r.Status
	if status == nil {
		status = PairDisabled{}
	}
	bz, err := MarshalPairStatus(status)
	if err != nil {
		return nil, err
	}
	return json.Marshal(pairRecordJSON{Pair: r.Pair, Status: bz})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *PairRecord) UnmarshalJSON(bz []byte) error {
	var raw pairRecordJSON
	if err := json.Unmarshal(bz, &raw); err != nil {
		return err
	}
	status, err := UnmarshalPairStatus(raw.Status)
	if err != nil {
		return err
	}
	r.Pair = raw.Pair
	r.Status = status
	return nil
}

// ExchangeRate is the pair of fixed-point rates frozen when a bootstrap
// ends. Rate0 converts side-0 contributions into LP shares, Rate1 side-1.
type ExchangeRate struct {
	Rate0 math.LegacyDec `json:"rate_0"`
	Rate1 math.LegacyDec `json:"rate_1"`
}

// Validate requires both rates to be positive.
func (r ExchangeRate) Validate() error {
	if r.Rate0.IsNil() || r.Rate1.IsNil() || !r.Rate0.IsPositive() || !r.Rate1.IsPositive() {
		return ErrInvalidGenesis.Wrap("exchange rates must be positive")
	}
	return nil
}
