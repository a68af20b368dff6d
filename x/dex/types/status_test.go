package types

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func testBootstrapParameter() BootstrapParameter {
	return BootstrapParameter{
		MinContribution:   NewAmountPair(math.NewInt(10), math.NewInt(20)),
		TargetSupply:      NewAmountPair(math.NewInt(500), math.NewInt(500)),
		AccumulatedSupply: NewAmountPair(math.NewInt(100), math.ZeroInt()),
		EndBlockNumber:    100,
	}
}

func TestPairStatusEncoding(t *testing.T) {
	pair := MustNewPair(NewAssetId(0, AssetTypeNative, 1), NewAssetId(0, AssetTypeLocal, 2))

	statuses := []PairStatus{
		PairDisabled{},
		PairBootstrap{Parameter: testBootstrapParameter()},
		PairEnabled{Metadata: PairMetadata{SettlementAccount: pair.Account(), TotalSupply: math.NewInt(1000)}},
	}
	for _, status := range statuses {
		t.Run(string(status.Kind()), func(t *testing.T) {
			bz, err := MarshalPairStatus(status)
			require.NoError(t, err)

			decoded, err := UnmarshalPairStatus(bz)
			require.NoError(t, err)
			require.Equal(t, status.Kind(), decoded.Kind())

			switch want := status.(type) {
			case PairDisabled:
				require.IsType(t, PairDisabled{}, decoded)
			case PairBootstrap:
				got := decoded.(PairBootstrap).Parameter
				require.True(t, got.TargetSupply.Amount0.Equal(want.Parameter.TargetSupply.Amount0))
				require.True(t, got.AccumulatedSupply.Amount0.Equal(want.Parameter.AccumulatedSupply.Amount0))
				require.Equal(t, want.Parameter.EndBlockNumber, got.EndBlockNumber)
			case PairEnabled:
				got := decoded.(PairEnabled).Metadata
				require.True(t, got.SettlementAccount.Equals(want.Metadata.SettlementAccount))
				require.True(t, got.TotalSupply.Equal(want.Metadata.TotalSupply))
			}
		})
	}
}

func TestUnmarshalPairStatus_Malformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"kind":"frozen"}`,
		`{"kind":"bootstrap"}`,
		`{"kind":"enabled"}`,
	} {
		_, err := UnmarshalPairStatus([]byte(raw))
		require.Error(t, err, raw)
	}
}

func TestPairRecordJSON(t *testing.T) {
	pair := MustNewPair(NewAssetId(0, AssetTypeNative, 1), NewAssetId(0, AssetTypeLocal, 2))
	rec := PairRecord{Pair: pair, Status: PairBootstrap{Parameter: testBootstrapParameter()}}

	bz, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded PairRecord
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.Equal(t, pair, decoded.Pair)
	require.Equal(t, StatusBootstrap, decoded.Status.Kind())

	// a record without status encodes as disabled
	bz, err = json.Marshal(PairRecord{Pair: pair})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.Equal(t, StatusDisabled, decoded.Status.Kind())
}

func TestBootstrapParameter(t *testing.T) {
	bp := testBootstrapParameter()
	require.NoError(t, bp.Validate())
	require.False(t, bp.Qualified())

	bp.AccumulatedSupply = NewAmountPair(math.NewInt(500), math.NewInt(499))
	require.False(t, bp.Qualified())
	bp.AccumulatedSupply = NewAmountPair(math.NewInt(500), math.NewInt(900))
	require.True(t, bp.Qualified())

	bad := testBootstrapParameter()
	bad.TargetSupply = NewAmountPair(math.ZeroInt(), math.NewInt(1))
	require.ErrorIs(t, bad.Validate(), ErrInvalidBootstrapParameter)

	bad = testBootstrapParameter()
	bad.EndBlockNumber = 0
	require.ErrorIs(t, bad.Validate(), ErrInvalidBootstrapParameter)

	bad = testBootstrapParameter()
	bad.MinContribution = NewAmountPair(math.NewInt(-1), math.ZeroInt())
	require.ErrorIs(t, bad.Validate(), ErrInvalidBootstrapParameter)
}

func TestExchangeRate_Validate(t *testing.T) {
	require.NoError(t, ExchangeRate{Rate0: math.LegacyOneDec(), Rate1: math.LegacyNewDec(2)}.Validate())
	require.Error(t, ExchangeRate{Rate0: math.LegacyOneDec(), Rate1: math.LegacyZeroDec()}.Validate())
	require.Error(t, ExchangeRate{}.Validate())
}
