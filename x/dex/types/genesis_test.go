package types

import (
	"testing"

	"cosmossdk.io/math"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"
)

func TestDefaultGenesis(t *testing.T) {
	genesis := DefaultGenesis()
	require.NotNil(t, genesis)
	require.NoError(t, genesis.Validate())
	require.Empty(t, genesis.Pairs)
	require.Empty(t, genesis.Contributions)
}

func TestGenesisState_Validate(t *testing.T) {
	enabledPair := MustNewPair(NewAssetId(0, AssetTypeNative, 1), NewAssetId(0, AssetTypeLocal, 2))
	bootstrapPair := MustNewPair(NewAssetId(0, AssetTypeLocal, 2), NewAssetId(0, AssetTypeLocal, 3))
	alice := authtypes.NewModuleAddress("alice").String()
	bob := authtypes.NewModuleAddress("bob").String()

	valid := func() *GenesisState {
		param := testBootstrapParameter()
		param.AccumulatedSupply = NewAmountPair(math.NewInt(300), math.NewInt(50))
		return &GenesisState{
			Params: DefaultParams(),
			Pairs: []PairRecord{
				{Pair: enabledPair, Status: PairEnabled{Metadata: PairMetadata{
					SettlementAccount: enabledPair.Account(),
					TotalSupply:       math.NewInt(1000),
				}}},
				{Pair: bootstrapPair, Status: PairBootstrap{Parameter: param}},
			},
			Contributions: []ContributionRecord{
				{Pair: bootstrapPair, Contributor: alice, Amounts: NewAmountPair(math.NewInt(100), math.NewInt(50))},
				{Pair: bootstrapPair, Contributor: bob, Amounts: NewAmountPair(math.NewInt(200), math.ZeroInt())},
			},
			KLasts: []KLastRecord{{Pair: enabledPair, KLast: math.NewInt(1_000_000)}},
			FrozenRates: []FrozenRateRecord{{Pair: enabledPair, Rate: ExchangeRate{
				Rate0: math.LegacyOneDec(),
				Rate1: math.LegacyOneDec(),
			}}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*GenesisState)
		wantErr error
	}{
		{name: "valid", mutate: func(*GenesisState) {}},
		{
			name:    "invalid params",
			mutate:  func(gs *GenesisState) { gs.Params.FeePoint = 0 },
			wantErr: ErrInvalidParams,
		},
		{
			name:    "duplicate pair",
			mutate:  func(gs *GenesisState) { gs.Pairs = append(gs.Pairs, gs.Pairs[0]) },
			wantErr: ErrInvalidGenesis,
		},
		{
			name: "non canonical pair",
			mutate: func(gs *GenesisState) {
				gs.Pairs[0].Pair = Pair{Asset0: enabledPair.Asset1, Asset1: enabledPair.Asset0}
			},
			wantErr: ErrInvalidGenesis,
		},
		{
			name: "wrong settlement account",
			mutate: func(gs *GenesisState) {
				gs.Pairs[0].Status = PairEnabled{Metadata: PairMetadata{
					SettlementAccount: bootstrapPair.Account(),
					TotalSupply:       math.NewInt(1000),
				}}
			},
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "contributions do not sum to accumulated supply",
			mutate:  func(gs *GenesisState) { gs.Contributions = gs.Contributions[:1] },
			wantErr: ErrInvalidGenesis,
		},
		{
			name: "contribution to unregistered pair",
			mutate: func(gs *GenesisState) {
				gs.Contributions[0].Pair = MustNewPair(NewAssetId(1, 0, 1), NewAssetId(1, 0, 2))
			},
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "duplicate contributor",
			mutate:  func(gs *GenesisState) { gs.Contributions[1].Contributor = alice },
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "malformed contributor",
			mutate:  func(gs *GenesisState) { gs.Contributions[0].Contributor = "alice" },
			wantErr: ErrInvalidGenesis,
		},
		{
			name: "empty contribution",
			mutate: func(gs *GenesisState) {
				gs.Contributions = append(gs.Contributions, ContributionRecord{
					Pair: bootstrapPair, Contributor: authtypes.NewModuleAddress("carol").String(), Amounts: ZeroAmountPair(),
				})
			},
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "k_last for bootstrap pair",
			mutate:  func(gs *GenesisState) { gs.KLasts[0].Pair = bootstrapPair },
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "negative k_last",
			mutate:  func(gs *GenesisState) { gs.KLasts[0].KLast = math.NewInt(-1) },
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "frozen rate for bootstrap pair",
			mutate:  func(gs *GenesisState) { gs.FrozenRates[0].Pair = bootstrapPair },
			wantErr: ErrInvalidGenesis,
		},
		{
			name:    "zero frozen rate",
			mutate:  func(gs *GenesisState) { gs.FrozenRates[0].Rate.Rate1 = math.LegacyZeroDec() },
			wantErr: ErrInvalidGenesis,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := valid()
			tt.mutate(gs)
			err := gs.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
